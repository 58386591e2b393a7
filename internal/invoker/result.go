package invoker

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// parseResult extracts the result mapping: structured content first, then
// the first non-empty text block decoded as JSON, then {"raw": text}.
// A non-object JSON value is wrapped as {"result": value}; a falsy one
// yields an empty mapping.
func parseResult(res *mcp.CallToolResult) map[string]any {
	if res.StructuredContent != nil {
		if m, ok := res.StructuredContent.(map[string]any); ok {
			return maps.Clone(m)
		}

		if data, err := json.Marshal(res.StructuredContent); err == nil {
			var m map[string]any
			if json.Unmarshal(data, &m) == nil && m != nil {
				return m
			}
		}
	}

	for _, c := range res.Content {
		text, ok := c.(*mcp.TextContent)
		if !ok || text.Text == "" {
			continue
		}

		var v any
		if err := json.Unmarshal([]byte(text.Text), &v); err != nil {
			return map[string]any{"raw": text.Text}
		}

		switch v := v.(type) {
		case map[string]any:
			return v
		default:
			if truthy(v) {
				return map[string]any{"result": v}
			}

			return map[string]any{}
		}
	}

	return map[string]any{}
}

// toolErrorText returns the first text block of an error result.
func toolErrorText(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			return text.Text
		}
	}

	return ""
}

// failure is an error signal found in a response.
type failure struct {
	message    string
	code       string
	retryAfter time.Duration
	cause      error
}

// extractError finds an embedded error signal: a "status":"error" payload
// (message from "error" or "message"), or a truthy "error" field which may
// be a string or an object with code, message and retry_after.
func extractError(data map[string]any) (failure, bool) {
	status, _ := data["status"].(string)
	errField := data["error"]

	if !strings.EqualFold(status, "error") && !truthy(errField) {
		return failure{}, false
	}

	var f failure

	switch e := errField.(type) {
	case map[string]any:
		f.message = stringField(e, "message")
		f.code = stringField(e, "code")
		f.retryAfter = seconds(e["retry_after"])

		if f.message == "" {
			f.message = f.code
		}
	case string:
		f.message = e
	case nil, bool:
	default:
		f.message = fmt.Sprint(e)
	}

	if f.message == "" {
		f.message = stringField(data, "message")
	}

	if f.code == "" {
		f.code = stringField(data, "code")
	}

	if f.retryAfter == 0 {
		f.retryAfter = seconds(data["retry_after"])
	}

	return f, true
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// seconds converts a retry_after value given in seconds.
func seconds(v any) time.Duration {
	var f float64

	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}

		f = parsed
	default:
		return 0
	}

	if f <= 0 {
		return 0
	}

	return time.Duration(f * float64(time.Second))
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
