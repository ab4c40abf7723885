package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fields is a leniently typed view of a JSON object returned by a model.
// Accessors treat a value of the wrong type as absent.
type Fields map[string]any

// DecodeObject repairs a raw model response and decodes the JSON object it contains.
func DecodeObject(text string) (Fields, error) {
	repaired, err := RepairJSON(text)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return Fields(out), nil
}

// String returns the trimmed string at key, or "".
func (f Fields) String(key string) string {
	s, ok := f[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// FirstString returns the first non-empty string among keys.
func (f Fields) FirstString(keys ...string) string {
	for _, key := range keys {
		if s := f.String(key); s != "" {
			return s
		}
	}
	return ""
}

// Number returns the number at key. Numeric strings ("85", "85%") are accepted.
func (f Fields) Number(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "%"), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Strings returns the non-empty strings of the array at key. Any other type yields an
// empty slice.
func (f Fields) Strings(key string) []string {
	out := []string{}
	arr, ok := f[key].([]any)
	if !ok {
		return out
	}
	for _, item := range arr {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Objects returns the objects of the array at key, skipping non-object elements.
func (f Fields) Objects(key string) []Fields {
	arr, ok := f[key].([]any)
	if !ok {
		return []Fields{}
	}
	out := make([]Fields, 0, len(arr))
	for _, item := range arr {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, Fields(obj))
		}
	}
	return out
}
