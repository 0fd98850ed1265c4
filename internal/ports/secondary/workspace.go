package secondary

import (
	"context"
	"time"

	"github.com/example/slicer/internal/core/detection"
	"github.com/example/slicer/internal/core/template"
)

// Workspace defines the secondary port for reading and writing generated files.
type Workspace interface {
	// WriteFile writes content, creating parent directories.
	WriteFile(ctx context.Context, path string, content []byte, mode uint32) error

	// ReadFile reads a file.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// RemoveFile deletes a file. A file that is already gone is not an error.
	RemoveFile(ctx context.Context, path string) error

	// Stat returns file info, or nil when the path does not exist.
	Stat(ctx context.Context, path string) (*FileInfo, error)
}

// FileInfo is the subset of file metadata the application uses.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// DirectoryReader defines the secondary port for inspecting directory trees.
type DirectoryReader interface {
	// List returns the immediate files and subdirectories of dir.
	List(ctx context.Context, dir string) (*detection.Listing, error)

	// WalkDirs returns slash-separated paths of directories below root, up
	// to maxDepth levels deep, in lexical order.
	WalkDirs(ctx context.Context, root string, maxDepth int) ([]string, error)
}

// TemplateStore defines the secondary port for template sources.
type TemplateStore interface {
	// Load returns the sources of one (group, slice) combination, sorted by
	// relative path. A missing combination returns ErrUnsupportedCombination.
	Load(ctx context.Context, group, slice string) ([]template.Source, error)
}

// InjectionOutcome reports what a marker injection did.
type InjectionOutcome string

const (
	InjectionApplied       InjectionOutcome = "applied"
	InjectionMissingMarker InjectionOutcome = "missing_marker"
	InjectionMissingTarget InjectionOutcome = "missing_target"
)

// MarkerInjector defines the secondary port for patching manifest files.
type MarkerInjector interface {
	// Inject splices lines before the marker line of targetFile. A missing
	// marker or target is reported through the outcome, not as an error.
	Inject(ctx context.Context, targetFile string, lines []string, marker string) (InjectionOutcome, error)
}

// Pluralizer defines the secondary port for English pluralization.
type Pluralizer interface {
	Pluralize(word string) string
}
