package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/example/slicer/internal/core/template"
	"github.com/example/slicer/internal/ports/secondary"
)

// templateConfigDir holds template engine metadata, never rendered.
const templateConfigDir = ".template.config"

// TemplateStore implements secondary.TemplateStore over a directory laid
// out as <root>/<group>/<slice>/...
type TemplateStore struct {
	root   string
	cache  *gocache.Cache // nil disables caching
	logger *zap.Logger
}

// NewTemplateStore creates a store rooted at root. A zero ttl disables the
// source cache.
func NewTemplateStore(root string, ttl time.Duration, logger *zap.Logger) *TemplateStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TemplateStore{root: root, logger: logger}
	if ttl > 0 {
		// No janitor goroutine; expired entries are dropped on access.
		s.cache = gocache.New(ttl, 0)
	}
	return s
}

// Load returns the sources of one (group, slice) combination.
func (s *TemplateStore) Load(ctx context.Context, group, slice string) ([]template.Source, error) {
	key := group + "/" + slice
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if sources, ok := v.([]template.Source); ok {
				s.logger.Debug("template cache hit", zap.String("key", key))
				return sources, nil
			}
		}
	}

	dir := filepath.Join(s.root, group, slice)
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, fmt.Errorf("%w: %s/%s", secondary.ErrUnsupportedCombination, group, slice)
	}
	if err != nil {
		return nil, &secondary.FilesystemError{Op: "stat", Path: dir, Err: err}
	}

	var sources []template.Source
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == templateConfigDir {
				return filepath.SkipDir
			}
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return &secondary.FilesystemError{Op: "read template", Path: path, Err: err}
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		sources = append(sources, template.Source{RelativePath: filepath.ToSlash(rel), Content: string(data)})
		return nil
	})
	if err != nil {
		var fsErr *secondary.FilesystemError
		if errors.As(err, &fsErr) {
			return nil, err
		}
		return nil, &secondary.FilesystemError{Op: "walk templates", Path: dir, Err: err}
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].RelativePath < sources[j].RelativePath })
	if s.cache != nil {
		s.cache.SetDefault(key, sources)
	}
	s.logger.Debug("templates loaded", zap.String("key", key), zap.Int("count", len(sources)))
	return sources, nil
}

// Groups lists the template groups and the slices each provides.
func (s *TemplateStore) Groups() (map[string][]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &secondary.FilesystemError{Op: "list", Path: s.root, Err: err}
	}
	out := make(map[string][]string)
	for _, g := range entries {
		if !g.IsDir() || strings.HasPrefix(g.Name(), ".") {
			continue
		}
		slices, err := os.ReadDir(filepath.Join(s.root, g.Name()))
		if err != nil {
			return nil, &secondary.FilesystemError{Op: "list", Path: filepath.Join(s.root, g.Name()), Err: err}
		}
		for _, sl := range slices {
			if sl.IsDir() && !strings.HasPrefix(sl.Name(), ".") {
				out[g.Name()] = append(out[g.Name()], sl.Name())
			}
		}
	}
	return out, nil
}

// Invalidate drops every cached template set.
func (s *TemplateStore) Invalidate() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

var _ secondary.TemplateStore = (*TemplateStore)(nil)
