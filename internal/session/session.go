// Package session wires one workspace-confined session together: the single
// stateful Navigator plus the stateless file, shell and note layers, exposed
// to the controlling loop as a tool registry.
package session

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"workbox/internal/config"
	"workbox/internal/fileops"
	"workbox/internal/logging"
	"workbox/internal/notes"
	"workbox/internal/shell"
	"workbox/internal/toolkit"
	"workbox/internal/workspace"
)

// Options configures a session. WorkspaceRoot is required and must be an
// absolute, existing directory.
type Options struct {
	WorkspaceRoot  string
	CommandTimeout time.Duration
	NotesPath      string
	JSONLogs       bool
}

// Session owns the mutable state of one agent session. Sessions are not
// shared: one Navigator per session, one session per workspace at a time.
type Session struct {
	id       string
	guard    *workspace.Guard
	nav      *workspace.Navigator
	files    fileops.Files
	runner   *shell.Runner
	notes    *notes.Store
	registry *toolkit.Registry
}

// New validates the workspace root and assembles the session. A bad root is
// a construction error, the only fatal failure mode in the core.
func New(opts Options) (*Session, error) {
	guard, err := workspace.NewGuard(opts.WorkspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	timeout := opts.CommandTimeout
	if timeout <= 0 {
		timeout = shell.DefaultTimeout
	}
	notesPath := opts.NotesPath
	if notesPath == "" {
		notesPath = filepath.Join(config.GetConfigDir(), "notes.db")
	}
	store, err := notes.Open(notesPath)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	id := uuid.NewString()
	log := logging.NewStructuredLogger(nil, "shell", opts.JSONLogs).WithWorkspace(guard.Root())
	nav := workspace.NewNavigator(guard)
	files := fileops.New(guard)
	runner := shell.NewRunner(log)

	registry := toolkit.NewRegistry(
		toolkit.ChangeDirectoryTool{Nav: nav},
		toolkit.CurrentDirectoryTool{Nav: nav},
		toolkit.ListDirectoryTool{Nav: nav, Files: files},
		toolkit.ReadFileTool{Nav: nav, Files: files},
		toolkit.WriteFileTool{Nav: nav, Files: files},
		toolkit.ExecuteCommandTool{Nav: nav, Runner: runner, DefaultTimeout: timeout},
		toolkit.WriteNoteTool{Store: store},
		toolkit.ReadNotesTool{Store: store},
		toolkit.NewWebFetchTool(timeout),
	)

	logging.DevLog("session %s started for workspace %s", id, guard.Root())
	return &Session{
		id:       id,
		guard:    guard,
		nav:      nav,
		files:    files,
		runner:   runner,
		notes:    store,
		registry: registry,
	}, nil
}

// ID returns the session correlation id.
func (s *Session) ID() string { return s.id }

// WorkspaceRoot returns the canonical workspace root.
func (s *Session) WorkspaceRoot() string { return s.guard.Root() }

// Navigator returns the session's directory navigator.
func (s *Session) Navigator() *workspace.Navigator { return s.nav }

// Tools returns the registry the controlling loop dispatches on.
func (s *Session) Tools() *toolkit.Registry { return s.registry }

// Close releases the session's persistent resources.
func (s *Session) Close() error {
	logging.DevLog("session %s closed", s.id)
	return s.notes.Close()
}
