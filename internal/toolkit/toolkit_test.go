package toolkit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"workbox/internal/fileops"
	"workbox/internal/shell"
	"workbox/internal/workspace"
)

func newTestWorkspace(t *testing.T) (*workspace.Navigator, fileops.Files, string) {
	t.Helper()
	guard, err := workspace.NewGuard(t.TempDir())
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	return workspace.NewNavigator(guard), fileops.New(guard), guard.Root()
}

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("tool payload is not JSON: %v\n%s", err, raw)
	}
	return out
}

func TestRegistryLookupAndDefinitions(t *testing.T) {
	nav, files, _ := newTestWorkspace(t)
	reg := NewRegistry(
		ChangeDirectoryTool{Nav: nav},
		CurrentDirectoryTool{Nav: nav},
		ListDirectoryTool{Nav: nav, Files: files},
	)

	if _, ok := reg.Lookup("change_directory"); !ok {
		t.Fatalf("change_directory not registered")
	}
	if _, ok := reg.Lookup("unknown_tool"); ok {
		t.Fatalf("unexpected tool found")
	}
	defs := reg.Definitions()
	if len(defs) != 3 {
		t.Fatalf("unexpected definition count: %d", len(defs))
	}
	for _, def := range defs {
		if def.Type != "function" || def.Function.Name == "" {
			t.Fatalf("malformed definition: %+v", def)
		}
	}
}

func TestChangeDirectoryToolSuccessAndFailure(t *testing.T) {
	nav, _, root := newTestWorkspace(t)
	if err := os.MkdirAll(filepath.Join(root, "a", "b"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	tool := ChangeDirectoryTool{Nav: nav}

	raw, err := tool.Call(context.Background(), map[string]any{"target_dir": "a/b"})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	payload := decode(t, raw)
	if payload["current_directory"] != "a/b" {
		t.Fatalf("unexpected payload: %v", payload)
	}

	// A core failure is data in the payload, not a Go error.
	raw, err = tool.Call(context.Background(), map[string]any{"target_dir": "missing"})
	if err != nil {
		t.Fatalf("failure must not surface as a Go error: %v", err)
	}
	payload = decode(t, raw)
	if payload["kind"] != "not_a_directory" {
		t.Fatalf("unexpected failure payload: %v", payload)
	}
	if nav.CurrentDir() != "a/b" {
		t.Fatalf("failed change moved the navigator to %q", nav.CurrentDir())
	}
}

func TestWriteFileToolRejectsEscape(t *testing.T) {
	nav, files, _ := newTestWorkspace(t)
	tool := WriteFileTool{Nav: nav, Files: files}

	raw, err := tool.Call(context.Background(), map[string]any{
		"filename": "../escape.txt",
		"content":  "nope",
	})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	payload := decode(t, raw)
	if payload["kind"] != "outside_workspace" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestWriteThenReadFileTools(t *testing.T) {
	nav, files, _ := newTestWorkspace(t)
	write := WriteFileTool{Nav: nav, Files: files}
	read := ReadFileTool{Nav: nav, Files: files}

	raw, err := write.Call(context.Background(), map[string]any{
		"filename": "notes/todo.txt",
		"content":  "ship it",
	})
	if err != nil {
		t.Fatalf("write call: %v", err)
	}
	if msg := decode(t, raw)["message"]; !strings.Contains(msg.(string), "Successfully wrote to") {
		t.Fatalf("unexpected write message: %v", msg)
	}

	raw, err = read.Call(context.Background(), map[string]any{"filename": "notes/todo.txt"})
	if err != nil {
		t.Fatalf("read call: %v", err)
	}
	if decode(t, raw)["content"] != "ship it" {
		t.Fatalf("unexpected read payload: %s", raw)
	}
}

func TestReadFileToolRequiresFilename(t *testing.T) {
	nav, files, _ := newTestWorkspace(t)
	tool := ReadFileTool{Nav: nav, Files: files}

	if _, err := tool.Call(context.Background(), map[string]any{}); err == nil {
		t.Fatalf("missing filename must be a Go error")
	}
}

func TestListDirectoryToolListsCurrentDir(t *testing.T) {
	nav, files, root := newTestWorkspace(t)
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tool := ListDirectoryTool{Nav: nav, Files: files}

	raw, err := tool.Call(context.Background(), nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	payload := decode(t, raw)
	if payload["directory"] != "/" {
		t.Fatalf("unexpected directory: %v", payload["directory"])
	}
	if !strings.Contains(raw, "f.txt") || !strings.Contains(raw, "sub") {
		t.Fatalf("listing incomplete: %s", raw)
	}
}

func TestExecuteCommandToolRunsInCurrentDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test targets the sh command line")
	}
	nav, _, root := newTestWorkspace(t)
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if res := nav.ChangeDirectory("sub"); res.IsErr() {
		t.Fatalf("cd: %s", res)
	}
	tool := ExecuteCommandTool{Nav: nav, Runner: shell.NewRunner(nil), DefaultTimeout: 5 * time.Second}

	raw, err := tool.Call(context.Background(), map[string]any{"command": "pwd"})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	payload := decode(t, raw)
	out, _ := payload["output"].(string)
	if strings.TrimSpace(out) != filepath.Join(root, "sub") {
		t.Fatalf("command ran in %q, want %q", strings.TrimSpace(out), filepath.Join(root, "sub"))
	}
}

func TestExecuteCommandToolTimeoutOverride(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test targets the sh command line")
	}
	nav, _, _ := newTestWorkspace(t)
	tool := ExecuteCommandTool{Nav: nav, Runner: shell.NewRunner(nil), DefaultTimeout: time.Minute}

	raw, err := tool.Call(context.Background(), map[string]any{
		"command":         "sleep 5",
		"timeout_seconds": 0.2,
	})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	payload := decode(t, raw)
	if payload["kind"] != "command_timed_out" {
		t.Fatalf("unexpected payload: %s", raw)
	}
}

func TestCallHonorsCancelledContext(t *testing.T) {
	nav, _, _ := newTestWorkspace(t)
	tool := CurrentDirectoryTool{Nav: nav}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tool.Call(ctx, nil); err == nil {
		t.Fatalf("expected context error")
	}
}
