package mcp

import (
	"strings"
	"sync"
)

// NameAdapter handles mapping between MCP tool names (which may contain dots)
// and safe tool names (which must match ^[a-zA-Z0-9_-]+$ for hosted providers).
// It is safe for concurrent use.
type NameAdapter struct {
	mu             sync.RWMutex
	safeToOriginal map[string]string
	originalToSafe map[string]string
}

// NewNameAdapter creates a new name adapter.
func NewNameAdapter() *NameAdapter {
	return &NameAdapter{
		safeToOriginal: make(map[string]string),
		originalToSafe: make(map[string]string),
	}
}

// ToSafeName converts an MCP tool name to a safe name by replacing dots with underscores.
// Example: "files.read" -> "files_read"
func ToSafeName(original string) string {
	return strings.ReplaceAll(original, ".", "_")
}

// ToOriginalName converts a safe name back to the original MCP tool name.
func (a *NameAdapter) ToOriginalName(safe string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	original, ok := a.safeToOriginal[safe]
	return original, ok
}

// GetSafeName returns the safe name for an original name, creating the mapping if needed.
func (a *NameAdapter) GetSafeName(original string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if safe, ok := a.originalToSafe[original]; ok {
		return safe
	}
	safe := ToSafeName(original)
	a.originalToSafe[original] = safe
	a.safeToOriginal[safe] = original
	return safe
}
