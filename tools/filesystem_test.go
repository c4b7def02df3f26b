package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestValidateWorkspacePath(t *testing.T) {
	workspacePath, err := filepath.Abs(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to get absolute path: %v", err)
	}

	tests := []struct {
		name    string
		target  string
		wantErr bool
	}{
		{name: "valid relative path", target: "test.txt"},
		{name: "valid absolute path within workspace", target: filepath.Join(workspacePath, "test.txt")},
		{name: "valid nested path", target: "dir/subdir/file.txt"},
		{name: "path traversal attempt", target: "../../../etc/passwd", wantErr: true},
		{name: "path outside workspace", target: "/etc/passwd", wantErr: true},
		{name: "sibling with shared prefix", target: workspacePath + "-other/file.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateWorkspacePath(workspacePath, tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateWorkspacePath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got == "" {
				t.Errorf("validateWorkspacePath() returned empty path for valid input")
			}
		})
	}
}

func newFilesystemRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	workspacePath, err := filepath.Abs(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to get absolute path: %v", err)
	}
	reg := NewRegistry(zerolog.Nop())
	reg.RegisterFilesystemTools(workspacePath)
	return reg, workspacePath
}

func TestFilesystemRead(t *testing.T) {
	reg, workspacePath := newFilesystemRegistry(t)

	testContent := "Hello, World!\nThis is a test file."
	if err := os.WriteFile(filepath.Join(workspacePath, "test.txt"), []byte(testContent), 0o600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	result, err := reg.Handle(context.Background(), "filesystem", []byte(`{"operation": "read", "path": "test.txt"}`))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !result.Success() {
		t.Fatalf("Expected success, got %v", result)
	}
	if content, _ := result["content"].(string); content != testContent {
		t.Errorf("Expected content %q, got %q", testContent, content)
	}
	if result["operation"] != "read" {
		t.Errorf("Expected operation=read, got %v", result["operation"])
	}
}

func TestFilesystemWrite(t *testing.T) {
	reg, workspacePath := newFilesystemRegistry(t)

	args, _ := json.Marshal(map[string]any{
		"operation": "write",
		"path":      "nested/dir/output.txt",
		"content":   "This is written content\nWith multiple lines.",
	})
	result, err := reg.Handle(context.Background(), "filesystem", args)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !result.Success() {
		t.Fatalf("Expected success, got %v", result)
	}

	content, err := os.ReadFile(filepath.Join(workspacePath, "nested", "dir", "output.txt")) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("Failed to read created file: %v", err)
	}
	if string(content) != "This is written content\nWith multiple lines." {
		t.Errorf("Unexpected file content %q", string(content))
	}
}

func TestFilesystemWriteRequiresContent(t *testing.T) {
	reg, _ := newFilesystemRegistry(t)

	result, err := reg.Handle(context.Background(), "filesystem", []byte(`{"operation": "write", "path": "a.txt"}`))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if result.Success() {
		t.Fatal("Expected failure for write without content")
	}
	if result.ErrorMessage() != "Content is required for write operation" {
		t.Errorf("Unexpected error message %q", result.ErrorMessage())
	}
}

func TestFilesystemList(t *testing.T) {
	reg, workspacePath := newFilesystemRegistry(t)

	for _, name := range []string{"file1.txt", "file2.txt"} {
		if err := os.WriteFile(filepath.Join(workspacePath, name), []byte("x"), 0o600); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(workspacePath, "subdir"), 0o750); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	result, err := reg.Handle(context.Background(), "filesystem", []byte(`{"operation": "list", "path": "."}`))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if count, _ := result["count"].(int); count != 3 {
		t.Errorf("Expected 3 entries, got %v", result["count"])
	}

	entries, ok := result["entries"].([]map[string]any)
	if !ok {
		t.Fatalf("Expected []map[string]any entries, got %T", result["entries"])
	}
	types := map[string]string{}
	for _, e := range entries {
		types[e["name"].(string)] = e["type"].(string)
	}
	if types["subdir"] != "directory" || types["file1.txt"] != "file" {
		t.Errorf("Unexpected entry types: %v", types)
	}
}

func TestFilesystemExistsAndDelete(t *testing.T) {
	reg, workspacePath := newFilesystemRegistry(t)
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(workspacePath, "doomed.txt"), []byte("bye"), 0o600); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	exists := func() bool {
		result, err := reg.Handle(ctx, "filesystem", []byte(`{"operation": "exists", "path": "doomed.txt"}`))
		if err != nil {
			t.Fatalf("exists failed: %v", err)
		}
		v, _ := result["exists"].(bool)
		return v
	}

	if !exists() {
		t.Fatal("Expected file to exist")
	}

	result, err := reg.Handle(ctx, "filesystem", []byte(`{"operation": "delete", "path": "doomed.txt"}`))
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !result.Success() {
		t.Fatalf("Expected success, got %v", result)
	}
	if exists() {
		t.Error("Expected file to be gone after delete")
	}

	result, err = reg.Handle(ctx, "filesystem", []byte(`{"operation": "delete", "path": "."}`))
	if err != nil {
		t.Fatalf("delete root failed: %v", err)
	}
	if result.Success() {
		t.Error("Expected deleting the workspace root to fail")
	}
}

func TestFilesystemRejectsEscapes(t *testing.T) {
	reg, _ := newFilesystemRegistry(t)

	result, err := reg.Handle(context.Background(), "filesystem", []byte(`{"operation": "read", "path": "../../etc/passwd"}`))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if result.Success() {
		t.Error("Expected traversal to be rejected")
	}
}
