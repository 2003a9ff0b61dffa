// Package toolkit is the boundary the controlling agent loop consumes: a
// registry of named tools, each described by a JSON schema and dispatching
// onto the session's workspace, shell and note layers. Core failures come
// back as data in the tool payload; the Go error return is reserved for
// malformed arguments.
package toolkit

import (
	"context"
	"encoding/json"
	"fmt"

	"workbox/internal/result"
)

type ToolDefinition struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type Tool interface {
	Definition() ToolDefinition
	Call(ctx context.Context, args map[string]any) (string, error)
}

type Registry struct {
	tools       map[string]Tool
	definitions []ToolDefinition
}

func NewRegistry(tools ...Tool) *Registry {
	bucket := make(map[string]Tool, len(tools))
	defs := make([]ToolDefinition, 0, len(tools))
	for _, tool := range tools {
		def := tool.Definition()
		bucket[def.Function.Name] = tool
		defs = append(defs, def)
	}
	return &Registry{tools: bucket, definitions: defs}
}

func (r *Registry) Definitions() []ToolDefinition {
	out := make([]ToolDefinition, len(r.definitions))
	copy(out, r.definitions)
	return out
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *Registry) MustGet(name string) Tool {
	tool, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("tool %s is not registered", name))
	}
	return tool
}

// failure serializes a core failure as tool output. Failures are data, not
// Go errors: the caller relays them to the agent verbatim.
func failure(err *result.Error) (string, error) {
	data, marshalErr := json.Marshal(map[string]any{
		"error": err.Message,
		"kind":  string(err.Kind),
	})
	if marshalErr != nil {
		return "", marshalErr
	}
	return string(data), nil
}

func payload(fields map[string]any) (string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func stringArg(args map[string]any, key string) (string, bool) {
	val, ok := args[key]
	if !ok {
		return "", false
	}
	switch cast := val.(type) {
	case string:
		return cast, true
	default:
		return fmt.Sprintf("%v", cast), true
	}
}

func boolArg(args map[string]any, key string, defaultVal bool) bool {
	val, ok := args[key]
	if !ok {
		return defaultVal
	}
	if b, ok := val.(bool); ok {
		return b
	}
	return defaultVal
}

func intArg(args map[string]any, key string, defaultVal int) int {
	val, ok := args[key]
	if !ok {
		return defaultVal
	}
	switch n := val.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return defaultVal
	}
}

func floatArg(args map[string]any, key string, defaultVal float64) float64 {
	val, ok := args[key]
	if !ok {
		return defaultVal
	}
	switch n := val.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return defaultVal
	}
}
