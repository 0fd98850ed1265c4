package app

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"go.uber.org/zap"

	"github.com/example/slicer/internal/core/detection"
	"github.com/example/slicer/internal/ports/primary"
	"github.com/example/slicer/internal/ports/secondary"
)

// PathSettings parameterize root and project detection.
type PathSettings struct {
	Rules            detection.Rules
	ExpectedProjects []string
	ProjectPatterns  []string
	MaxDepth         int // directory depth searched for project patterns
}

// DefaultPathSettings returns the built-in detection settings.
func DefaultPathSettings() PathSettings {
	return PathSettings{
		Rules:            detection.DefaultRules(),
		ExpectedProjects: detection.DefaultExpectedProjects,
		ProjectPatterns:  detection.DefaultProjectPatterns,
		MaxDepth:         4,
	}
}

type projectPattern struct {
	source   string
	segments int
	glob     glob.Glob
}

// PathServiceImpl implements the PathService interface.
type PathServiceImpl struct {
	dirs      secondary.DirectoryReader
	workspace secondary.Workspace
	settings  PathSettings
	patterns  []projectPattern
	logger    *zap.Logger
}

// NewPathService creates a new PathService. Project patterns are compiled
// with '/' as the separator, so '*' never crosses a directory.
func NewPathService(dirs secondary.DirectoryReader, workspace secondary.Workspace, settings PathSettings, logger *zap.Logger) (*PathServiceImpl, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.MaxDepth <= 0 {
		settings.MaxDepth = DefaultPathSettings().MaxDepth
	}
	s := &PathServiceImpl{dirs: dirs, workspace: workspace, settings: settings, logger: logger}
	for _, p := range settings.ProjectPatterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid project pattern %q: %w", p, err)
		}
		s.patterns = append(s.patterns, projectPattern{source: p, segments: strings.Count(p, "/") + 1, glob: g})
	}
	return s, nil
}

// DetectRoot walks upward from start. The first directory holding a marker
// file, or enough indicator subdirectories, wins. Without a match the parent
// of start (or start itself at the filesystem root) is returned with
// Confident false.
func (s *PathServiceImpl) DetectRoot(ctx context.Context, start string) (*primary.RootDetection, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for dir := abs; ; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		listing, err := s.dirs.List(ctx, dir)
		if err != nil {
			// Unreadable directories count as no match.
			s.logger.Debug("skipping unreadable directory", zap.String("dir", dir), zap.Error(err))
		} else if outcome, reason := s.settings.Rules.Classify(*listing); outcome != detection.OutcomeNone {
			s.logger.Info("solution root detected", zap.String("root", dir), zap.String("reason", reason))
			return &primary.RootDetection{Path: dir, Confident: true, Reason: reason}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	fallback := filepath.Dir(abs)
	s.logger.Warn("could not detect solution root, using fallback", zap.String("fallback", fallback))
	return &primary.RootDetection{
		Path:      fallback,
		Confident: false,
		Reason:    fmt.Sprintf("no solution marker above %s; using parent directory", abs),
	}, nil
}

// DetectProjectPaths maps project directory names to their slash-separated
// path relative to root. Patterns are tried in order and match the trailing
// directories of a path; the first path found for a name is kept.
func (s *PathServiceImpl) DetectProjectPaths(ctx context.Context, root string) (map[string]string, error) {
	dirs, err := s.dirs.WalkDirs(ctx, root, s.settings.MaxDepth)
	if err != nil {
		return nil, err
	}

	found := make(map[string]string)
	for _, p := range s.patterns {
		for _, rel := range dirs {
			segs := strings.Split(rel, "/")
			if len(segs) < p.segments {
				continue
			}
			tail := strings.Join(segs[len(segs)-p.segments:], "/")
			if !p.glob.Match(tail) {
				continue
			}
			name := path.Base(rel)
			if _, ok := found[name]; !ok {
				found[name] = rel
				s.logger.Debug("detected project", zap.String("name", name), zap.String("path", rel), zap.String("pattern", p.source))
			}
		}
	}
	s.logger.Info("detected project paths", zap.Int("count", len(found)))
	return found, nil
}

// ValidateDetectedPaths passes when root exists and at least one expected
// project name occurs among the detected projects. The result is advisory.
func (s *PathServiceImpl) ValidateDetectedPaths(ctx context.Context, root string, projects map[string]string) (*primary.PathValidation, error) {
	info, err := s.workspace.Stat(ctx, root)
	if err != nil {
		return nil, err
	}
	v := &primary.PathValidation{
		RootExists: info != nil && info.IsDir,
		Expected:   s.settings.ExpectedProjects,
	}
	if !v.RootExists {
		s.logger.Warn("solution root does not exist", zap.String("root", root))
		return v, nil
	}

	names := make([]string, 0, len(projects))
	for name := range projects {
		names = append(names, name)
	}
	sort.Strings(names)
	v.ExpectedFound = detection.CountExpected(names, s.settings.ExpectedProjects)
	v.Valid = v.ExpectedFound > 0
	if !v.Valid {
		s.logger.Warn("no expected projects found in detected paths", zap.String("root", root))
	}
	return v, nil
}

var _ primary.PathService = (*PathServiceImpl)(nil)
