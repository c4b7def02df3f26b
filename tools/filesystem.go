package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aschepis/backscratcher/sparky/llm"
)

// validateWorkspacePath ensures the given path is within the workspace directory
// and prevents directory traversal attacks
func validateWorkspacePath(workspacePath, targetPath string) (string, error) {
	absWorkspace, err := filepath.Abs(filepath.Clean(workspacePath))
	if err != nil {
		return "", fmt.Errorf("invalid workspace path: %w", err)
	}

	var absTarget string
	if filepath.IsAbs(targetPath) {
		absTarget = filepath.Clean(targetPath)
	} else {
		absTarget, err = filepath.Abs(filepath.Join(absWorkspace, targetPath))
		if err != nil {
			return "", fmt.Errorf("invalid path: %w", err)
		}
	}

	if !strings.HasPrefix(absTarget+string(filepath.Separator), absWorkspace+string(filepath.Separator)) {
		return "", fmt.Errorf("Path is outside workspace: %s", targetPath)
	}
	return absTarget, nil
}

// RegisterFilesystemTools registers the filesystem tool rooted at workspacePath.
func (r *Registry) RegisterFilesystemTools(workspacePath string) {
	r.logger.Info().Str("workspace", workspacePath).Msg("Registering filesystem tool")
	fsTool := &filesystemTool{workspace: workspacePath}
	r.registerBuiltin("filesystem", fsTool.handle)
}

type filesystemTool struct {
	workspace string
}

func (f *filesystemTool) handle(ctx context.Context, args json.RawMessage) (llm.ToolResult, error) {
	var payload struct {
		Operation string  `json:"operation"`
		Path      string  `json:"path"`
		Content   *string `json:"content"`
	}
	if err := decodeArgs(args, &payload); err != nil {
		return nil, err
	}

	if payload.Path == "" {
		return llm.NewToolFailure("Path is required"), nil
	}
	validPath, err := validateWorkspacePath(f.workspace, payload.Path)
	if err != nil {
		return llm.NewToolFailure(err.Error()), nil
	}

	var result llm.ToolResult
	switch payload.Operation {
	case "read":
		result, err = f.read(validPath)
	case "write":
		if payload.Content == nil {
			return llm.NewToolFailure("Content is required for write operation"), nil
		}
		result, err = f.write(validPath, *payload.Content)
	case "list":
		result, err = f.list(validPath)
	case "exists":
		result = f.exists(validPath)
	case "delete":
		result, err = f.remove(validPath)
	default:
		return llm.NewToolFailure("Unknown operation: " + payload.Operation), nil
	}
	if err != nil {
		return llm.NewToolFailure(err.Error()), nil
	}

	result["success"] = true
	result["operation"] = payload.Operation
	result["path"] = payload.Path
	return result, nil
}

func (f *filesystemTool) read(path string) (llm.ToolResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file")
	}
	content, err := os.ReadFile(path) //#nosec 304 -- validated by validateWorkspacePath
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return llm.ToolResult{
		"content": string(content),
		"size":    len(content),
	}, nil
}

func (f *filesystemTool) write(path, content string) (llm.ToolResult, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create parent directories: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	return llm.ToolResult{
		"message": "File written successfully",
		"size":    len(content),
	}, nil
}

func (f *filesystemTool) list(path string) (llm.ToolResult, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	entries := make([]map[string]any, 0, len(dirEntries))
	for _, entry := range dirEntries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		kind := "file"
		if entry.IsDir() {
			kind = "directory"
		}
		entries = append(entries, map[string]any{
			"name":     entry.Name(),
			"type":     kind,
			"size":     info.Size(),
			"modified": info.ModTime().UTC().Format(time.RFC3339),
		})
	}
	return llm.ToolResult{
		"entries": entries,
		"count":   len(entries),
	}, nil
}

func (f *filesystemTool) exists(path string) llm.ToolResult {
	_, err := os.Stat(path)
	return llm.ToolResult{"exists": err == nil}
}

func (f *filesystemTool) remove(path string) (llm.ToolResult, error) {
	if root, err := filepath.Abs(f.workspace); err == nil && root == path {
		return nil, fmt.Errorf("refusing to delete the workspace root")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("failed to delete: %w", err)
	}
	return llm.ToolResult{"message": "Deleted successfully"}, nil
}
