package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/example/slicer/internal/core/injection"
	"github.com/example/slicer/internal/ports/secondary"
)

// MarkerInjector implements secondary.MarkerInjector on real files.
type MarkerInjector struct {
	logger *zap.Logger
}

// NewMarkerInjector creates a new file marker injector.
func NewMarkerInjector(logger *zap.Logger) *MarkerInjector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkerInjector{logger: logger}
}

// Inject splices lines before the marker line of targetFile, keeping the
// file's permissions and line terminator.
func (i *MarkerInjector) Inject(ctx context.Context, targetFile string, lines []string, marker string) (secondary.InjectionOutcome, error) {
	info, err := os.Stat(targetFile)
	if errors.Is(err, fs.ErrNotExist) {
		i.logger.Warn("injection target not found", zap.String("file", targetFile), zap.String("marker", marker))
		return secondary.InjectionMissingTarget, nil
	}
	if err != nil {
		return "", &secondary.FilesystemError{Op: "stat", Path: targetFile, Err: err}
	}

	data, err := os.ReadFile(targetFile)
	if err != nil {
		return "", &secondary.FilesystemError{Op: "read", Path: targetFile, Err: err}
	}

	patched, err := injection.Inject(string(data), lines, marker)
	if errors.Is(err, injection.ErrMissingMarker) {
		i.logger.Warn("marker not found, skipping injection", zap.String("file", targetFile), zap.String("marker", marker))
		return secondary.InjectionMissingMarker, nil
	}
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(targetFile, []byte(patched), info.Mode().Perm()); err != nil {
		return "", &secondary.FilesystemError{Op: "write", Path: targetFile, Err: err}
	}
	i.logger.Debug("marker injected", zap.String("file", targetFile), zap.Int("lines", len(lines)))
	return secondary.InjectionApplied, nil
}

var _ secondary.MarkerInjector = (*MarkerInjector)(nil)
