package schemas

// FilesystemSchemas returns schemas for filesystem-related tools.
func FilesystemSchemas() map[string]ToolSchema {
	return map[string]ToolSchema{
		"filesystem": {
			Description: "Read, write, and manage files in the workspace. Use with caution as it can modify files.",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"operation": map[string]any{
						"type":        "string",
						"enum":        []string{"read", "write", "list", "exists", "delete"},
						"description": "The file system operation to perform",
					},
					"path": map[string]any{
						"type":        "string",
						"description": "File or directory path (relative to workspace root)",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "Content to write (required for write operation)",
					},
				},
				"required": []string{"operation", "path"},
			},
		},
	}
}
