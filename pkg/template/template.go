// Package template resolves {{path}} placeholders in node configuration
// against the execution context. A string consisting solely of a placeholder
// is replaced by the looked-up value (preserving its type); maps and slices
// are resolved recursively; everything else passes through unchanged.
package template

import (
	"strings"

	"github.com/superdash/flowengine/pkg/models"
)

// Resolve substitutes placeholders in value using the execution context's
// value namespace (node results and transform variables, dot-path addressed).
func Resolve(value any, executionCtx *models.ExecutionContext) any {
	switch v := value.(type) {
	case string:
		return resolveString(v, executionCtx)
	case map[string]any:
		resolved := make(map[string]any, len(v))
		for key, item := range v {
			resolved[key] = Resolve(item, executionCtx)
		}

		return resolved
	case []any:
		resolved := make([]any, len(v))
		for i, item := range v {
			resolved[i] = Resolve(item, executionCtx)
		}

		return resolved
	default:
		return value
	}
}

func resolveString(s string, executionCtx *models.ExecutionContext) any {
	if !strings.HasPrefix(s, "{{") || !strings.HasSuffix(s, "}}") {
		return s
	}

	path := strings.TrimSpace(s[2 : len(s)-2])
	if path == "" {
		return s
	}

	value, ok := executionCtx.Lookup(path)
	if !ok {
		return nil
	}

	return value
}
