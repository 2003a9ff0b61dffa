// Package workspace confines a session to a single directory tree. Guard is
// the pure path-resolution layer; Navigator owns the virtual current
// directory on top of it.
//
// Virtual paths are workspace-relative: "/" names the root itself, any other
// value is a forward-slash relative path with no "." or ".." segments.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"workbox/internal/result"
)

// RootPath is the virtual path naming the workspace root.
const RootPath = "/"

// Guard validates paths against an immutable workspace root.
type Guard struct {
	root string
}

// NewGuard canonicalizes and validates the workspace root. A relative,
// missing or non-directory root is a session construction error, not an
// operation failure.
func NewGuard(root string) (*Guard, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("workspace path is not an absolute path: %s", root)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("workspace path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace path is not a directory: %s", root)
	}
	canonical, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace path: %w", err)
	}
	return &Guard{root: canonical}, nil
}

// Root returns the canonical absolute workspace root.
func (g *Guard) Root() string { return g.root }

// Locate maps a virtual path onto the real filesystem without a containment
// check. The root sentinel, "" and "." all name the root itself. Symlinks
// and ".." segments are collapsed; paths that do not exist yet are resolved
// lexically.
func (g *Guard) Locate(virtual string) result.Result[string] {
	if strings.ContainsRune(virtual, 0) {
		return result.Err[string](result.InvalidCharacter, "there is an invalid character in the path")
	}
	if virtual == "" || virtual == RootPath || virtual == "." {
		return result.Ok(g.root)
	}
	target := filepath.Join(g.root, filepath.FromSlash(virtual))
	abs, err := filepath.Abs(target)
	if err != nil {
		return result.Errf[string](result.NotAbsolute, "cannot make %s absolute: %v", virtual, err)
	}
	if canonical, err := filepath.EvalSymlinks(abs); err == nil {
		abs = canonical
	}
	return result.Ok(abs)
}

// Contains reports whether the candidate real path equals the root or sits
// strictly below it. The comparison is segment-aware, not a naive substring
// match.
func (g *Guard) Contains(candidate string) bool {
	cleaned := filepath.Clean(candidate)
	if canonical, err := filepath.EvalSymlinks(cleaned); err == nil {
		cleaned = canonical
	}
	return cleaned == g.root || strings.HasPrefix(cleaned, g.root+string(os.PathSeparator))
}

// Resolve is Locate plus the containment guarantee: the returned real path
// is always inside the workspace.
func (g *Guard) Resolve(virtual string) result.Result[string] {
	located := g.Locate(virtual)
	if located.IsErr() {
		return located
	}
	real := located.Value()
	if !g.Contains(real) {
		return result.Errf[string](result.OutsideWorkspace, "path %s escapes the workspace root", virtual)
	}
	return result.Ok(real)
}

// Rel converts a real path back to its virtual form. The root maps to the
// root sentinel.
func (g *Guard) Rel(real string) string {
	rel, err := filepath.Rel(g.root, real)
	if err != nil {
		return real
	}
	if rel == "." {
		return RootPath
	}
	return filepath.ToSlash(rel)
}
