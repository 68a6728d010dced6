// Package pluginaction provides the plugin-action node implementation. A
// plugin-action node calls another dashboard plugin's HTTP endpoint through
// the gateway, passing parameters resolved against the execution context.
package pluginaction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/template"
)

const defaultTimeout = 30 * time.Second

// PluginActionNode implements the plugin HTTP call node.
type PluginActionNode struct {
	id     string
	config Config
	client *http.Client
}

// Config defines the configuration for plugin-action nodes.
type Config struct {
	Plugin     string         `json:"plugin"`
	Action     string         `json:"action"`
	Method     string         `json:"method"`
	Parameters map[string]any `json:"parameters"`
	BaseURL    string         `json:"-"`
	Retries    RetryConfig    `json:"retries"`
}

// RetryConfig defines retry behavior for plugin calls. Retries apply only to
// network errors and 5xx responses; 4xx responses fail immediately.
type RetryConfig struct {
	Attempts int `json:"attempts"`
	Delay    int `json:"delay"` // milliseconds
}

// NewPluginActionNode creates a new plugin-action node.
func NewPluginActionNode(id string, config map[string]any, baseURL string, client *http.Client) (*PluginActionNode, error) {
	cfg := Config{
		Method:  http.MethodGet,
		BaseURL: baseURL,
		Retries: RetryConfig{Attempts: 1, Delay: 0},
	}

	plugin, ok := config["plugin"].(string)
	if !ok || plugin == "" {
		return nil, errors.New("missing required field 'plugin'")
	}

	cfg.Plugin = plugin

	action, ok := config["action"].(string)
	if !ok || action == "" {
		return nil, errors.New("missing required field 'action'")
	}

	cfg.Action = action

	if method, ok := config["method"].(string); ok && method != "" {
		cfg.Method = strings.ToUpper(method)
	}

	if params, ok := config["parameters"].(map[string]any); ok {
		cfg.Parameters = params
	}

	if retries, ok := config["retries"].(map[string]any); ok {
		if attempts, ok := retries["attempts"].(float64); ok {
			cfg.Retries.Attempts = int(attempts)
		}

		if delay, ok := retries["delay"].(float64); ok {
			cfg.Retries.Delay = int(delay)
		}
	}

	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &PluginActionNode{id: id, config: cfg, client: client}, nil
}

// ID returns the node ID.
func (n *PluginActionNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *PluginActionNode) Type() string {
	return models.NodeTypePluginAction
}

// Execute calls the plugin endpoint and returns the decoded JSON response.
func (n *PluginActionNode) Execute(ctx context.Context, executionCtx *models.ExecutionContext) (any, error) {
	params, _ := template.Resolve(n.config.Parameters, executionCtx).(map[string]any)

	endpoint := fmt.Sprintf("%s/plugins/%s%s", strings.TrimSuffix(n.config.BaseURL, "/"), n.config.Plugin, n.config.Action)

	executionCtx.Log(models.LogLevelInfo, "Calling plugin API: %s %s", n.config.Method, endpoint)

	var lastErr error

	for attempt := 1; attempt <= n.config.Retries.Attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(n.config.Retries.Delay) * time.Millisecond):
			}
		}

		result, err := n.performRequest(ctx, endpoint, params)
		if err == nil {
			executionCtx.Log(models.LogLevelInfo, "Plugin API call succeeded: %s %s", n.config.Method, endpoint)

			return result, nil
		}

		lastErr = err

		// 4xx responses are not retried.
		httpErr := &HTTPError{}
		if errors.As(err, &httpErr) && httpErr.StatusCode < http.StatusInternalServerError {
			break
		}
	}

	return nil, fmt.Errorf("plugin action %s/%s failed after %d attempts: %w",
		n.config.Plugin, n.config.Action, n.config.Retries.Attempts, lastErr)
}

// HTTPError represents a non-2xx plugin response.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (n *PluginActionNode) performRequest(ctx context.Context, endpoint string, params map[string]any) (any, error) {
	var (
		reqBody io.Reader
		reqURL  = endpoint
	)

	if n.config.Method == http.MethodGet || n.config.Method == http.MethodDelete {
		if len(params) > 0 {
			query := url.Values{}
			for key, value := range params {
				query.Set(key, fmt.Sprintf("%v", value))
			}

			reqURL = endpoint + "?" + query.Encode()
		}
	} else {
		body, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal parameters: %w", err)
		}

		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, n.config.Method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var result any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode plugin response: %w", err)
	}

	return result, nil
}
