// Package schemas contains tool schema definitions for the sparky tool server.
// These schemas define the input parameters and descriptions the server
// advertises through tools/list.
package schemas

import "sort"

// ToolSchema represents a tool's description and JSON schema.
type ToolSchema struct {
	Description string
	Schema      map[string]any
}

// All returns all tool schemas from all categories.
func All() map[string]ToolSchema {
	schemas := make(map[string]ToolSchema)

	// Merge all category schemas
	for name, schema := range MathSchemas() {
		schemas[name] = schema
	}
	for name, schema := range InfoSchemas() {
		schemas[name] = schema
	}
	for name, schema := range FilesystemSchemas() {
		schemas[name] = schema
	}

	return schemas
}

// Names returns the names of all schemas in sorted order.
func Names() []string {
	all := All()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
