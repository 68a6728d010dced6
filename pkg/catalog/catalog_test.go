package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superdash/flowengine/pkg/catalog"
)

func TestAvailablePlugins(t *testing.T) {
	t.Parallel()

	plugins := catalog.AvailablePlugins()
	require.NotEmpty(t, plugins)

	byName := make(map[string]catalog.Plugin, len(plugins))
	for _, plugin := range plugins {
		byName[plugin.Name] = plugin

		assert.NotEmpty(t, plugin.DisplayName)
		assert.NotEmpty(t, plugin.Icon)
		assert.NotEmpty(t, plugin.Actions, "plugin %s has no actions", plugin.Name)

		for _, action := range plugin.Actions {
			assert.NotEmpty(t, action.ID)
			assert.NotEmpty(t, action.Endpoint)
			assert.Contains(t, []string{"GET", "POST"}, action.Method)
		}
	}

	assert.Contains(t, byName, "ai-agent")
	assert.Contains(t, byName, "whatsapp")
	assert.Contains(t, byName, "jira")
}

func TestCommands(t *testing.T) {
	t.Parallel()

	commands := catalog.Commands()
	require.NotEmpty(t, commands)

	ids := make([]string, 0, len(commands))
	for _, command := range commands {
		ids = append(ids, command.ID)

		assert.NotEmpty(t, command.Label)
		assert.Equal(t, "Workflow", command.Category)
	}

	assert.Contains(t, ids, "create-workflow")
	assert.Contains(t, ids, "list-workflows")
}
