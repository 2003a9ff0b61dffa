// Package fileops provides the stateless read/write/list operations of a
// session. Every target path is routed back through the workspace guard
// before the disk is touched, so a caller-supplied filename cannot smuggle
// the operation outside the workspace.
package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"workbox/internal/logging"
	"workbox/internal/result"
	"workbox/internal/workspace"
)

// DirectoryContent holds one non-recursive listing, files and folders
// independently sorted.
type DirectoryContent struct {
	Files   []string `json:"files"`
	Folders []string `json:"folders"`
}

// Files performs workspace-confined file operations. The struct carries no
// mutable state; the guard is fixed at construction.
type Files struct {
	guard *workspace.Guard
}

func New(guard *workspace.Guard) Files {
	return Files{guard: guard}
}

// List returns the file and folder names directly under dir, each list
// sorted lexicographically. Hidden entries are not filtered.
func (f Files) List(dir string) result.Result[DirectoryContent] {
	if !filepath.IsAbs(dir) {
		return result.Err[DirectoryContent](result.NotAbsolute, "Error listing directory contents: directory path must be absolute")
	}
	if !f.guard.Contains(dir) {
		return result.Errf[DirectoryContent](result.OutsideWorkspace, "Error listing directory contents: %s is outside the workspace", dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return result.Err[DirectoryContent](result.DirectoryNotExist, "Error listing directory contents: Directory does not exist")
	}
	if !info.IsDir() {
		return result.Err[DirectoryContent](result.NotADirectory, "Error listing directory contents: Not a directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return result.Errf[DirectoryContent](result.DirectoryNotExist, "Error listing directory contents: %v", err)
	}
	content := DirectoryContent{Files: []string{}, Folders: []string{}}
	for _, entry := range entries {
		if entry.IsDir() {
			content.Folders = append(content.Folders, entry.Name())
		} else {
			content.Files = append(content.Files, entry.Name())
		}
	}
	sort.Strings(content.Files)
	sort.Strings(content.Folders)
	logging.DevLog("fileops: listed %s (%d files, %d folders)", dir, len(content.Files), len(content.Folders))
	return result.Ok(content)
}

// Read returns the full text content of the regular file at path.
func (f Files) Read(path string) result.Result[string] {
	if !filepath.IsAbs(path) {
		return result.Err[string](result.NotAbsolute, "Error: file path must be absolute")
	}
	if !f.guard.Contains(path) {
		return result.Errf[string](result.OutsideWorkspace, "Error: cannot read file outside workspace: %s", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return result.Err[string](result.FileNotFound, "Error: file does not exist")
	}
	if !info.Mode().IsRegular() {
		return result.Err[string](result.NotAFile, "Error: path exists but is not a file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return result.Errf[string](result.FileNotFound, "Error reading file: %v", err)
	}
	return result.Ok(string(data))
}

// Write stores content at path, creating missing parent directories. A
// failed write reports the underlying error; no partial-write recovery is
// attempted.
func (f Files) Write(path string, content string) result.Result[string] {
	if !filepath.IsAbs(path) {
		logging.ErrorLog("fileops: write target %s is not absolute", path)
		return result.Err[string](result.NotAbsolute, "Error: file path must be absolute")
	}
	if !f.guard.Contains(path) {
		logging.ErrorLog("fileops: cannot write file outside workspace: %s", path)
		return result.Err[string](result.OutsideWorkspace, "Error: Cannot write file outside workspace")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logging.ErrorLog("fileops: create parent directories for %s: %v", path, err)
		return result.Errf[string](result.FileWriteError, "Error writing file: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		logging.ErrorLog("fileops: write %s: %v", path, err)
		return result.Errf[string](result.FileWriteError, "Error writing file: %v", err)
	}
	logging.DevLog("fileops: wrote %d bytes to %s", len(content), path)
	return result.Ok(fmt.Sprintf("Successfully wrote to %s", path))
}
