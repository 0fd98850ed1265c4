// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/slicer/internal/core/detection"
	"github.com/example/slicer/internal/ports/secondary"
)

// WorkspaceAdapter implements secondary.Workspace and secondary.DirectoryReader
// on the local filesystem.
type WorkspaceAdapter struct{}

// NewWorkspaceAdapter creates a new filesystem workspace adapter.
func NewWorkspaceAdapter() *WorkspaceAdapter {
	return &WorkspaceAdapter{}
}

// WriteFile writes content to path, creating parent directories.
func (a *WorkspaceAdapter) WriteFile(ctx context.Context, path string, content []byte, mode uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mode == 0 {
		mode = 0644
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &secondary.FilesystemError{Op: "create directory", Path: filepath.Dir(path), Err: err}
	}
	if err := os.WriteFile(path, content, os.FileMode(mode)); err != nil {
		return &secondary.FilesystemError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// ReadFile reads a file.
func (a *WorkspaceAdapter) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &secondary.FilesystemError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// RemoveFile deletes a file. Missing files are ignored.
func (a *WorkspaceAdapter) RemoveFile(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &secondary.FilesystemError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

// Stat returns file info, or nil when path does not exist.
func (a *WorkspaceAdapter) Stat(ctx context.Context, path string) (*secondary.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &secondary.FilesystemError{Op: "stat", Path: path, Err: err}
	}
	return &secondary.FileInfo{Path: path, Size: info.Size(), ModTime: info.ModTime(), IsDir: info.IsDir()}, nil
}

// List returns the immediate files and subdirectories of dir.
func (a *WorkspaceAdapter) List(ctx context.Context, dir string) (*detection.Listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &secondary.FilesystemError{Op: "list", Path: dir, Err: err}
	}
	listing := &detection.Listing{}
	for _, e := range entries {
		if e.IsDir() {
			listing.Dirs = append(listing.Dirs, e.Name())
		} else {
			listing.Files = append(listing.Files, e.Name())
		}
	}
	return listing, nil
}

// WalkDirs returns directories below root up to maxDepth levels deep.
// Hidden directories and common build output are not descended into.
func (a *WorkspaceAdapter) WalkDirs(ctx context.Context, root string, maxDepth int) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() || path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if skipDir(d.Name()) {
			return filepath.SkipDir
		}
		dirs = append(dirs, rel)
		if strings.Count(rel, "/")+1 >= maxDepth {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, &secondary.FilesystemError{Op: "walk", Path: root, Err: err}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch strings.ToLower(name) {
	case "bin", "obj", "node_modules":
		return true
	}
	return false
}

var (
	_ secondary.Workspace       = (*WorkspaceAdapter)(nil)
	_ secondary.DirectoryReader = (*WorkspaceAdapter)(nil)
)
