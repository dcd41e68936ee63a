package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse is returned when the classifier reply holds no JSON
// object.
var ErrMalformedResponse = errors.New("malformed classifier response")

// ParseResponse reads the classifier reply. Markdown fences and text around
// the object are ignored, and fields of the wrong JSON type are coerced
// (lists are joined with ",", null becomes ""), because the model does not
// always follow the requested schema.
func ParseResponse(text string) (Classification, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start, end := strings.IndexByte(text, '{'), strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return Classification{}, fmt.Errorf("%w: no object in %q", ErrMalformedResponse, truncate(text, 80))
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return Classification{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return FromFields(
		field(raw, "intent"),
		field(raw, "time"),
		field(raw, "movie"),
		field(raw, "status"),
	), nil
}

func field(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := fmt.Sprint(item); item != nil && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	case float64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
