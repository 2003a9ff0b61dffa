package toolkit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"workbox/internal/notes"
)

// WriteNoteTool stores a keyed note that survives across tasks and
// sessions.
type WriteNoteTool struct {
	Store *notes.Store
}

func (t WriteNoteTool) Definition() ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: ToolFunction{
			Name:        "write_note",
			Description: "Give yourself a note for later operations. Notes persist across tasks and sessions; writing an existing key overwrites it.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"note_key": map[string]any{
						"type":        "string",
						"description": "Key identifying the note.",
					},
					"note_value": map[string]any{
						"type":        "string",
						"description": "Note text to store.",
					},
				},
				"required": []string{"note_key", "note_value"},
			},
		},
	}
}

func (t WriteNoteTool) Call(ctx context.Context, args map[string]any) (string, error) {
	key, ok := stringArg(args, "note_key")
	if !ok || strings.TrimSpace(key) == "" {
		return "", errors.New("note_key is required")
	}
	value, ok := stringArg(args, "note_value")
	if !ok {
		return "", errors.New("note_value is required")
	}
	if err := t.Store.Set(ctx, key, value); err != nil {
		return "", err
	}
	return payload(map[string]any{
		"message": fmt.Sprintf("Successfully wrote note with key %s", key),
	})
}

// ReadNotesTool returns every stored note.
type ReadNotesTool struct {
	Store *notes.Store
}

func (t ReadNotesTool) Definition() ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: ToolFunction{
			Name:        "read_notes",
			Description: "Return all stored notes as key/value pairs.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

func (t ReadNotesTool) Call(ctx context.Context, _ map[string]any) (string, error) {
	all, err := t.Store.All(ctx)
	if err != nil {
		return "", err
	}
	items := make(map[string]string, len(all))
	for _, n := range all {
		items[n.Key] = n.Value
	}
	return payload(map[string]any{
		"notes": items,
		"count": len(all),
	})
}
