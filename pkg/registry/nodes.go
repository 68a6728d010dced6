package registry

import (
	"github.com/superdash/flowengine/pkg/nodes/condition"
	"github.com/superdash/flowengine/pkg/nodes/delay"
	"github.com/superdash/flowengine/pkg/nodes/pluginaction"
	"github.com/superdash/flowengine/pkg/nodes/transform"
	"github.com/superdash/flowengine/pkg/nodes/trigger"
)

// RegisterDefaultNodes registers all built-in node factories with the registry.
func (r *Registry) RegisterDefaultNodes() {
	r.RegisterNode(trigger.NewTriggerNodeFactory())
	r.RegisterNode(pluginaction.NewPluginActionNodeFactory())
	r.RegisterNode(condition.NewConditionNodeFactory())
	r.RegisterNode(delay.NewDelayNodeFactory())
	r.RegisterNode(transform.NewTransformNodeFactory())
}
