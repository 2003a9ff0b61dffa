package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"workbox/internal/logging"
	"workbox/internal/result"
)

// Navigator owns the virtual current directory for one session. It is the
// only stateful piece of the workspace layer: every other component asks it
// where "here" is and stays pure itself.
//
// Change-directory targets are always workspace-root-relative, never
// relative to the present location. The controlling caller cannot observe
// the raw filesystem and must reason purely in workspace-relative terms, so
// a single addressing scheme keeps it honest; the unqualified-path probe
// below exists to explain the most common violation of that rule.
type Navigator struct {
	guard *Guard

	mu      sync.Mutex
	current string // virtual path, RootPath for the root
}

// NewNavigator starts a navigator at the workspace root.
func NewNavigator(guard *Guard) *Navigator {
	return &Navigator{guard: guard, current: RootPath}
}

// Guard exposes the navigator's path sandbox.
func (n *Navigator) Guard() *Guard { return n.guard }

// CurrentDir returns the virtual current directory.
func (n *Navigator) CurrentDir() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// RealCurrentDir returns the absolute real path of the virtual current
// directory. Every file and command operation uses this as its effective
// working directory.
func (n *Navigator) RealCurrentDir() string {
	n.mu.Lock()
	current := n.current
	n.mu.Unlock()
	located := n.guard.Resolve(current)
	if located.IsErr() {
		// The stored value was validated when it was committed; if it can no
		// longer be resolved the root is the only safe answer.
		return n.guard.Root()
	}
	return located.Value()
}

// ChangeDirectory validates target and, only if every check passes, commits
// it as the new current directory. The commit is the single mutation, so a
// failure at any step leaves the navigator exactly where it was.
func (n *Navigator) ChangeDirectory(target string) (res result.Result[string]) {
	n.mu.Lock()
	defer n.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorLog("navigator: change directory panicked: %v", r)
			res = result.Err[string](result.DirectoryChangeFailed, "changing directory failed")
		}
	}()

	if target == "" || target == RootPath || target == "." {
		n.setCurrent(RootPath)
		return result.Ok("Successfully changed directory to root (/)")
	}

	located := n.guard.Locate(target)
	if located.IsErr() {
		logging.ErrorLog("navigator: cannot locate %q: %s", target, located.Err().Message)
		return located
	}
	resolved := located.Value()

	info, statErr := os.Stat(resolved)
	if statErr != nil && !os.IsNotExist(statErr) {
		logging.ErrorLog("navigator: stat %s: %v", resolved, statErr)
		return result.Err[string](result.DirectoryNotExist, "Error: Directory does not exist")
	}
	if statErr != nil || !info.IsDir() {
		if n.qualifiesAgainstCurrent(target) {
			logging.ErrorLog("navigator: target %q was not fully qualified against the workspace root", target)
			return result.Errf[string](result.UnqualifiedPath,
				"Error: The directory %s does exist in %s but you need to fully qualify the relative path. Try %s/%s",
				target, n.current, n.current, target)
		}
		logging.ErrorLog("navigator: %q is not a directory", target)
		return result.Err[string](result.NotADirectory, "Target is not a directory")
	}

	if !n.guard.Contains(resolved) {
		logging.ErrorLog("navigator: cannot navigate outside workspace: target %s workspace %s", resolved, n.guard.Root())
		return result.Err[string](result.OutsideWorkspace, "Error: cannot navigate outside workspace")
	}

	// Defensive: Locate always yields an absolute path, but a broken
	// resolution step must never be committed.
	if !filepath.IsAbs(resolved) {
		logging.ErrorLog("navigator: resolved path %s is not absolute", resolved)
		return result.Err[string](result.NotAbsolute, "Workspace path is not an absolute path")
	}

	rel, err := filepath.Rel(n.guard.Root(), resolved)
	if err != nil {
		logging.ErrorLog("navigator: relativize %s: %v", resolved, err)
		return result.Err[string](result.DirectoryChangeFailed, "changing directory failed")
	}
	virtual := filepath.ToSlash(rel)
	if virtual == "." {
		virtual = RootPath
	}

	n.setCurrent(virtual)
	return result.Ok(fmt.Sprintf("Successfully changed directory to %s", virtual))
}

// qualifiesAgainstCurrent reports whether target, joined onto the current
// directory instead of the workspace root, names a directory inside the
// workspace. That pattern is the common caller mistake of using a
// here-relative path, and it deserves a corrective hint rather than a bare
// "not a directory".
func (n *Navigator) qualifiesAgainstCurrent(target string) bool {
	if n.current == RootPath {
		// Joined onto the root, the probe would repeat the check that
		// already failed.
		return false
	}
	currentReal := n.guard.Resolve(n.current)
	if currentReal.IsErr() {
		return false
	}
	probe := filepath.Join(currentReal.Value(), filepath.FromSlash(target))
	abs, err := filepath.Abs(probe)
	if err != nil {
		return false
	}
	if canonical, err := filepath.EvalSymlinks(abs); err == nil {
		abs = canonical
	}
	if !n.guard.Contains(abs) {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.IsDir()
}

func (n *Navigator) setCurrent(virtual string) {
	n.current = virtual
	logging.DevLog("navigator: set current directory to %s", virtual)
}
