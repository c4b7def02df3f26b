package llm

import (
	"encoding/json"
	"strings"
)

// NormalizeArguments turns string-encoded tool arguments into a mapping.
//
// Valid JSON objects are decoded. Anything else that is non-empty is wrapped as
// {"query": raw} so tools that take a single free-text argument still work.
// Empty input yields an empty mapping.
func NormalizeArguments(raw string) map[string]any {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return map[string]any{"query": raw}
	}
	return args
}
