package pluginaction

import (
	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/protocol"
)

// PluginActionNodeFactory creates PluginActionNode instances.
type PluginActionNodeFactory struct{}

// NewPluginActionNodeFactory creates a new plugin-action node factory.
func NewPluginActionNodeFactory() protocol.NodeFactory {
	return &PluginActionNodeFactory{}
}

// Create creates a new PluginActionNode instance.
func (f *PluginActionNodeFactory) Create(node *models.Node, deps protocol.Dependencies) (protocol.Node, error) {
	return NewPluginActionNode(node.ID, node.Data, deps.BaseURL, deps.HTTPClient)
}

// ID returns the factory ID.
func (f *PluginActionNodeFactory) ID() string {
	return models.NodeTypePluginAction
}

// Name returns the factory name.
func (f *PluginActionNodeFactory) Name() string {
	return "Plugin Action"
}

// Description returns the factory description.
func (f *PluginActionNodeFactory) Description() string {
	return "Calls another dashboard plugin's HTTP endpoint with templated parameters"
}

// Schema returns the JSON schema for plugin-action node configuration.
func (f *PluginActionNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"plugin": map[string]any{
				"type":        "string",
				"description": "Plugin name as mounted on the gateway",
				"examples":    []string{"whatsapp", "jira", "ai-agent"},
			},
			"action": map[string]any{
				"type":        "string",
				"description": "Plugin endpoint path, leading slash included",
				"examples":    []string{"/send", "/issues", "/chat"},
			},
			"method": map[string]any{
				"type":        "string",
				"description": "HTTP method",
				"default":     "GET",
				"enum":        []string{"GET", "POST", "PUT", "DELETE"},
			},
			"parameters": map[string]any{
				"type":        "object",
				"description": "Call parameters. String values of the form {{node_id.field}} are resolved from prior node results",
				"examples": []map[string]any{
					{"to": "{{trigger-1.payload.phone}}", "body": "Build finished"},
				},
			},
			"retries": map[string]any{
				"type":        "object",
				"description": "Retry configuration for failed calls",
				"properties": map[string]any{
					"attempts": map[string]any{
						"type":    "number",
						"default": 1,
						"minimum": 1,
						"maximum": 10,
					},
					"delay": map[string]any{
						"type":        "number",
						"description": "Delay between retries in milliseconds",
						"default":     1000,
						"minimum":     0,
						"maximum":     30000,
					},
				},
			},
		},
		"required": []string{"plugin", "action"},
	}
}
