package app

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/slicer/internal/core/detection"
	"github.com/example/slicer/internal/core/template"
	"github.com/example/slicer/internal/ports/secondary"
)

// ============================================================================
// Mock FeatureRepository
// ============================================================================

var _ secondary.FeatureRepository = (*mockFeatureRepository)(nil)

type mockFeatureRepository struct {
	mu       sync.Mutex
	nextID   int64
	features map[int64]*secondary.FeatureRecord
	files    map[int64][]*secondary.FeatureFileRecord
	projects map[int64][]*secondary.FeatureProjectRecord
	now      time.Time
}

func newMockFeatureRepository() *mockFeatureRepository {
	return &mockFeatureRepository{
		features: make(map[int64]*secondary.FeatureRecord),
		files:    make(map[int64][]*secondary.FeatureFileRecord),
		projects: make(map[int64][]*secondary.FeatureProjectRecord),
		now:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *mockFeatureRepository) IsUnique(ctx context.Context, module, prefix string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findLocked(module, prefix) == nil, nil
}

func (m *mockFeatureRepository) findLocked(module, prefix string) *secondary.FeatureRecord {
	for _, f := range m.features {
		if strings.EqualFold(f.ModuleNamespace, module) && strings.EqualFold(f.ComponentPrefix, prefix) {
			return f
		}
	}
	return nil
}

func (m *mockFeatureRepository) Create(ctx context.Context, f *secondary.FeatureRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findLocked(f.ModuleNamespace, f.ComponentPrefix) != nil {
		return fmt.Errorf("%w: %s/%s", secondary.ErrDuplicateFeature, f.ModuleNamespace, f.ComponentPrefix)
	}
	m.nextID++
	f.ID = m.nextID
	f.CreatedAt = m.now
	stored := *f
	m.features[f.ID] = &stored
	return nil
}

func (m *mockFeatureRepository) Update(ctx context.Context, f *secondary.FeatureRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.features[f.ID]; !ok {
		return secondary.ErrFeatureNotFound
	}
	f.UpdatedAt = m.now.Add(time.Hour)
	stored := *f
	stored.Files, stored.Projects = nil, nil
	m.features[f.ID] = &stored
	return nil
}

func (m *mockFeatureRepository) RecordProject(ctx context.Context, p *secondary.FeatureProjectRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.projects[p.FeatureID] {
		if strings.EqualFold(existing.Category, p.Category) {
			return fmt.Errorf("project category %s already recorded for feature %d", p.Category, p.FeatureID)
		}
	}
	cp := *p
	cp.ID = int64(len(m.projects[p.FeatureID]) + 1)
	m.projects[p.FeatureID] = append(m.projects[p.FeatureID], &cp)
	return nil
}

func (m *mockFeatureRepository) RecordFile(ctx context.Context, f *secondary.FeatureFileRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	cp.ID = int64(len(m.files[f.FeatureID]) + 1)
	m.files[f.FeatureID] = append(m.files[f.FeatureID], &cp)
	return nil
}

func (m *mockFeatureRepository) GetByID(ctx context.Context, id int64) (*secondary.FeatureRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.features[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", secondary.ErrFeatureNotFound, id)
	}
	return m.withChildrenLocked(f), nil
}

func (m *mockFeatureRepository) withChildrenLocked(f *secondary.FeatureRecord) *secondary.FeatureRecord {
	cp := *f
	cp.Files = append([]*secondary.FeatureFileRecord(nil), m.files[f.ID]...)
	cp.Projects = append([]*secondary.FeatureProjectRecord(nil), m.projects[f.ID]...)
	return &cp
}

func (m *mockFeatureRepository) GetAll(ctx context.Context) ([]*secondary.FeatureRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.FeatureRecord
	for _, f := range m.features {
		out = append(out, m.withChildrenLocked(f))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ModuleNamespace != out[j].ModuleNamespace {
			return out[i].ModuleNamespace < out[j].ModuleNamespace
		}
		return out[i].ComponentPrefix < out[j].ComponentPrefix
	})
	return out, nil
}

func (m *mockFeatureRepository) GetByModule(ctx context.Context, module string) ([]*secondary.FeatureRecord, error) {
	all, _ := m.GetAll(ctx)
	var out []*secondary.FeatureRecord
	for _, f := range all {
		if strings.EqualFold(f.ModuleNamespace, module) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockFeatureRepository) ClearChildren(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, id)
	delete(m.projects, id)
	return nil
}

func (m *mockFeatureRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.features[id]; !ok {
		return secondary.ErrFeatureNotFound
	}
	delete(m.features, id)
	delete(m.files, id)
	delete(m.projects, id)
	return nil
}

// ============================================================================
// Mock Workspace / DirectoryReader
// ============================================================================

var (
	_ secondary.Workspace       = (*mockWorkspace)(nil)
	_ secondary.DirectoryReader = (*mockWorkspace)(nil)
)

type mockWorkspace struct {
	mu        sync.Mutex
	files     map[string][]byte
	dirs      map[string]bool
	writeErrs map[string]error
	removeErr map[string]error
	writes    []string
}

func newMockWorkspace() *mockWorkspace {
	return &mockWorkspace{
		files:     make(map[string][]byte),
		dirs:      make(map[string]bool),
		writeErrs: make(map[string]error),
		removeErr: make(map[string]error),
	}
}

func (m *mockWorkspace) WriteFile(ctx context.Context, p string, content []byte, mode uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeErrs[p]; err != nil {
		return &secondary.FilesystemError{Op: "write", Path: p, Err: err}
	}
	m.files[p] = append([]byte(nil), content...)
	m.writes = append(m.writes, p)
	return nil
}

func (m *mockWorkspace) ReadFile(ctx context.Context, p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[p]
	if !ok {
		return nil, &secondary.FilesystemError{Op: "read", Path: p, Err: fmt.Errorf("not found")}
	}
	return data, nil
}

func (m *mockWorkspace) RemoveFile(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.removeErr[p]; err != nil {
		return &secondary.FilesystemError{Op: "remove", Path: p, Err: err}
	}
	delete(m.files, p)
	return nil
}

func (m *mockWorkspace) Stat(ctx context.Context, p string) (*secondary.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.files[p]; ok {
		return &secondary.FileInfo{Path: p, Size: int64(len(data))}, nil
	}
	if m.dirs[p] {
		return &secondary.FileInfo{Path: p, IsDir: true}, nil
	}
	return nil, nil
}

// List treats file keys and dir keys as an in-memory tree using '/' paths.
func (m *mockWorkspace) List(ctx context.Context, dir string) (*detection.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	listing := &detection.Listing{}
	for p := range m.files {
		if path.Dir(p) == dir {
			listing.Files = append(listing.Files, path.Base(p))
		}
	}
	for p := range m.dirs {
		if p != dir && path.Dir(p) == dir {
			listing.Dirs = append(listing.Dirs, path.Base(p))
		}
	}
	sort.Strings(listing.Files)
	sort.Strings(listing.Dirs)
	return listing, nil
}

func (m *mockWorkspace) WalkDirs(ctx context.Context, root string, maxDepth int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for p := range m.dirs {
		if !strings.HasPrefix(p, root+"/") {
			continue
		}
		rel := strings.TrimPrefix(p, root+"/")
		if strings.Count(rel, "/")+1 <= maxDepth {
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ============================================================================
// Mock MarkerInjector
// ============================================================================

var _ secondary.MarkerInjector = (*mockInjector)(nil)

type injectCall struct {
	File   string
	Lines  []string
	Marker string
}

type mockInjector struct {
	calls   []injectCall
	outcome secondary.InjectionOutcome
}

func (m *mockInjector) Inject(ctx context.Context, file string, lines []string, marker string) (secondary.InjectionOutcome, error) {
	m.calls = append(m.calls, injectCall{File: file, Lines: lines, Marker: marker})
	if m.outcome != "" {
		return m.outcome, nil
	}
	return secondary.InjectionApplied, nil
}

// ============================================================================
// Mock TemplateStore / Pluralizer
// ============================================================================

var _ secondary.TemplateStore = (*mockTemplateStore)(nil)

type mockTemplateStore struct {
	sources map[string][]template.Source // keyed by group/slice
	errs    map[string]error
}

func (m *mockTemplateStore) Load(ctx context.Context, group, slice string) ([]template.Source, error) {
	if err := m.errs[group+"/"+slice]; err != nil {
		return nil, err
	}
	src, ok := m.sources[group+"/"+slice]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", secondary.ErrUnsupportedCombination, group, slice)
	}
	return src, nil
}

type suffixPluralizer struct{}

func (suffixPluralizer) Pluralize(w string) string { return w + "s" }
