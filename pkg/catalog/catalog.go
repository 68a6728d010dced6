// Package catalog describes the plugin actions and command palette entries
// the dashboard frontend uses to build the node palette.
package catalog

// PluginAction is one invocable action a plugin exposes.
type PluginAction struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Endpoint   string            `json:"endpoint"`
	Method     string            `json:"method"`
	Parameters map[string]string `json:"parameters"`
}

// Plugin is one dashboard plugin whose actions can back plugin-action nodes.
type Plugin struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"displayName"`
	Icon        string         `json:"icon"`
	Actions     []PluginAction `json:"actions"`
}

// Command is one command palette entry contributed by the engine.
type Command struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Icon        string `json:"icon"`
	Action      string `json:"action,omitempty"`
	Target      string `json:"target,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`
	Method      string `json:"method,omitempty"`
}

// AvailablePlugins returns the plugins the node palette offers. The engine
// has no plugin discovery protocol yet, so the list is static.
func AvailablePlugins() []Plugin {
	return []Plugin{
		{
			Name:        "ai-agent",
			DisplayName: "AI Agent",
			Icon:        "🤖",
			Actions: []PluginAction{
				{
					ID:       "ask",
					Name:     "Ask AI",
					Endpoint: "/chat",
					Method:   "POST",
					Parameters: map[string]string{
						"messages": "array",
					},
				},
			},
		},
		{
			Name:        "whatsapp",
			DisplayName: "WhatsApp",
			Icon:        "💬",
			Actions: []PluginAction{
				{
					ID:       "send",
					Name:     "Send Message",
					Endpoint: "/send",
					Method:   "POST",
					Parameters: map[string]string{
						"to":   "string",
						"body": "string",
					},
				},
				{
					ID:       "get-messages",
					Name:     "Get Messages",
					Endpoint: "/messages",
					Method:   "GET",
					Parameters: map[string]string{
						"phone_number": "string (optional)",
						"limit":        "number (optional)",
					},
				},
			},
		},
		{
			Name:        "jira",
			DisplayName: "Jira",
			Icon:        "🏷️",
			Actions: []PluginAction{
				{
					ID:         "get-issues",
					Name:       "Get Issues",
					Endpoint:   "/issues",
					Method:     "GET",
					Parameters: map[string]string{},
				},
			},
		},
	}
}

// Commands returns the command palette entries this plugin provides.
func Commands() []Command {
	return []Command{
		{
			ID:          "create-workflow",
			Label:       "Workflow: Create New Workflow",
			Description: "Create a new workflow",
			Category:    "Workflow",
			Icon:        "⚙️",
			Action:      "navigate",
			Target:      "/workflow-engine",
		},
		{
			ID:          "list-workflows",
			Label:       "Workflow: List All Workflows",
			Description: "View all workflows",
			Category:    "Workflow",
			Icon:        "📋",
			Endpoint:    "/workflows",
			Method:      "GET",
		},
	}
}
