package models

// Node types carried on the wire. The designer groups condition, delay and
// transform under a "logic" palette, but the stored type is always concrete.
const (
	NodeTypeTrigger      = "trigger"
	NodeTypePluginAction = "plugin-action"
	NodeTypeCondition    = "condition"
	NodeTypeDelay        = "delay"
	NodeTypeTransform    = "transform"
)

// Trigger subtypes stored in node data under "triggerType".
const (
	TriggerTypeSchedule = "schedule"
	TriggerTypeWebhook  = "webhook"
	TriggerTypeManual   = "manual"
	TriggerTypeQueue    = "queue"
)

// Position locates a node on the designer canvas. Presentation only.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a single vertex in a workflow graph. Data holds the type-specific
// configuration validated against the node type's JSON schema.
type Node struct {
	ID       string         `json:"id"       validate:"required"`
	Type     string         `json:"type"     validate:"required"`
	Position Position       `json:"position"`
	Data     map[string]any `json:"data"`
}

// TriggerType returns the trigger subtype from node data, defaulting to manual.
func (n *Node) TriggerType() string {
	if t, ok := n.Data["triggerType"].(string); ok && t != "" {
		return t
	}

	return TriggerTypeManual
}

// DataString returns a string field from node data, or "" when absent.
func (n *Node) DataString(key string) string {
	s, _ := n.Data[key].(string)

	return s
}

// Edge is a directed link between two nodes of the same workflow. An optional
// condition payload gates traversal when the source produced a boolean result.
type Edge struct {
	ID        string         `json:"id"     validate:"required"`
	Source    string         `json:"source" validate:"required"`
	Target    string         `json:"target" validate:"required"`
	Condition map[string]any `json:"condition,omitempty"`
}
