package toolkit

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"workbox/internal/fileops"
	"workbox/internal/shell"
	"workbox/internal/workspace"
)

// ChangeDirectoryTool moves the session's virtual current directory. Targets
// are always workspace-root-relative.
type ChangeDirectoryTool struct {
	Nav *workspace.Navigator
}

func (t ChangeDirectoryTool) Definition() ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: ToolFunction{
			Name:        "change_directory",
			Description: "Change the current working directory. The target must be a fully qualified path relative to the workspace root ('/' for the root itself); paths relative to the current directory are rejected.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"target_dir": map[string]any{
						"type":        "string",
						"description": "Workspace-root-relative directory path, or '/' for the root.",
					},
				},
			},
		},
	}
}

func (t ChangeDirectoryTool) Call(ctx context.Context, args map[string]any) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	target, _ := stringArg(args, "target_dir")
	res := t.Nav.ChangeDirectory(target)
	if res.IsErr() {
		return failure(res.Err())
	}
	return payload(map[string]any{
		"message":           res.Value(),
		"current_directory": t.Nav.CurrentDir(),
	})
}

// CurrentDirectoryTool reports where the session currently is.
type CurrentDirectoryTool struct {
	Nav *workspace.Navigator
}

func (t CurrentDirectoryTool) Definition() ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: ToolFunction{
			Name:        "current_directory",
			Description: "Return the current working directory as a workspace-relative path.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

func (t CurrentDirectoryTool) Call(ctx context.Context, _ map[string]any) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return payload(map[string]any{
		"current_directory": t.Nav.CurrentDir(),
	})
}

// ListDirectoryTool lists the files and folders of the current directory.
type ListDirectoryTool struct {
	Nav   *workspace.Navigator
	Files fileops.Files
}

func (t ListDirectoryTool) Definition() ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: ToolFunction{
			Name:        "list_directory_content",
			Description: "List files and folders in the current working directory.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

func (t ListDirectoryTool) Call(ctx context.Context, _ map[string]any) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	res := t.Files.List(t.Nav.RealCurrentDir())
	if res.IsErr() {
		return failure(res.Err())
	}
	content := res.Value()
	return payload(map[string]any{
		"directory": t.Nav.CurrentDir(),
		"files":     content.Files,
		"folders":   content.Folders,
	})
}

// ReadFileTool reads a file named relative to the current directory.
type ReadFileTool struct {
	Nav   *workspace.Navigator
	Files fileops.Files
}

func (t ReadFileTool) Definition() ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: ToolFunction{
			Name:        "read_file",
			Description: "Read content from a file in the current working directory.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filename": map[string]any{
						"type":        "string",
						"description": "File name relative to the current working directory.",
					},
				},
				"required": []string{"filename"},
			},
		},
	}
}

func (t ReadFileTool) Call(ctx context.Context, args map[string]any) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	filename, ok := stringArg(args, "filename")
	if !ok || strings.TrimSpace(filename) == "" {
		return "", errors.New("filename is required")
	}
	full := filepath.Clean(filepath.Join(t.Nav.RealCurrentDir(), filepath.FromSlash(filename)))
	res := t.Files.Read(full)
	if res.IsErr() {
		return failure(res.Err())
	}
	return payload(map[string]any{
		"path":    filename,
		"content": res.Value(),
	})
}

// WriteFileTool writes a file named relative to the current directory,
// creating missing parent directories.
type WriteFileTool struct {
	Nav   *workspace.Navigator
	Files fileops.Files
}

func (t WriteFileTool) Definition() ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: ToolFunction{
			Name:        "write_file",
			Description: "Write content to a file in the current working directory. Missing parent directories are created.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filename": map[string]any{
						"type":        "string",
						"description": "File name relative to the current working directory.",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "Text to write.",
					},
				},
				"required": []string{"filename", "content"},
			},
		},
	}
}

func (t WriteFileTool) Call(ctx context.Context, args map[string]any) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	filename, ok := stringArg(args, "filename")
	if !ok || strings.TrimSpace(filename) == "" {
		return "", errors.New("filename is required")
	}
	content, ok := stringArg(args, "content")
	if !ok {
		return "", errors.New("content is required")
	}
	full := filepath.Clean(filepath.Join(t.Nav.RealCurrentDir(), filepath.FromSlash(filename)))
	res := t.Files.Write(full, content)
	if res.IsErr() {
		return failure(res.Err())
	}
	return payload(map[string]any{
		"path":    filename,
		"bytes":   len(content),
		"message": res.Value(),
	})
}

// ExecuteCommandTool runs a shell command in the current directory under the
// session's timeout.
type ExecuteCommandTool struct {
	Nav            *workspace.Navigator
	Runner         *shell.Runner
	DefaultTimeout time.Duration
}

func (t ExecuteCommandTool) Definition() ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: ToolFunction{
			Name:        "execute_command",
			Description: "Execute a shell command in the current working directory. The command is killed if it outlives the timeout.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"command": map[string]any{
						"type":        "string",
						"description": "Command to execute through the shell.",
					},
					"timeout_seconds": map[string]any{
						"type":        "number",
						"description": "Override the default timeout.",
					},
				},
				"required": []string{"command"},
			},
		},
	}
}

func (t ExecuteCommandTool) Call(ctx context.Context, args map[string]any) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	command, ok := stringArg(args, "command")
	if !ok || strings.TrimSpace(command) == "" {
		return "", errors.New("command is required")
	}
	timeout := t.DefaultTimeout
	if override := floatArg(args, "timeout_seconds", 0); override > 0 {
		timeout = time.Duration(override * float64(time.Second))
	}
	res := t.Runner.Execute(shell.Invocation{
		Command:    command,
		WorkingDir: t.Nav.RealCurrentDir(),
		Timeout:    timeout,
	})
	if res.IsErr() {
		return failure(res.Err())
	}
	out := res.Value()
	return payload(map[string]any{
		"output":       out.Output,
		"working_path": out.WorkingDir,
		"duration_ms":  out.Duration.Milliseconds(),
	})
}
