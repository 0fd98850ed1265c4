package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	corefeature "github.com/example/slicer/internal/core/feature"
	"github.com/example/slicer/internal/ports/primary"
	"github.com/example/slicer/internal/ports/secondary"
)

func init() {
	color.NoColor = true
}

// mockFeatureService implements primary.FeatureService for testing
type mockFeatureService struct {
	createFn  func(ctx context.Context, req primary.CreateFeatureRequest) (*primary.CreateFeatureResponse, error)
	previewFn func(ctx context.Context, req primary.CreateFeatureRequest) (*primary.PreviewFeatureResponse, error)
	listFn    func(ctx context.Context, filters primary.FeatureFilters) ([]*primary.Feature, error)
	treeFn    func(ctx context.Context) ([]*primary.TreeNode, error)

	lastDeleteReq primary.DeleteFeatureRequest
}

func (m *mockFeatureService) CreateFeature(ctx context.Context, req primary.CreateFeatureRequest) (*primary.CreateFeatureResponse, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockFeatureService) PreviewFeature(ctx context.Context, req primary.CreateFeatureRequest) (*primary.PreviewFeatureResponse, error) {
	if m.previewFn != nil {
		return m.previewFn(ctx, req)
	}
	return &primary.PreviewFeatureResponse{}, nil
}

func (m *mockFeatureService) RegenerateFeature(ctx context.Context, req primary.RegenerateFeatureRequest) (*primary.CreateFeatureResponse, error) {
	return &primary.CreateFeatureResponse{FeatureID: req.FeatureID, Feature: testFeature()}, nil
}

func (m *mockFeatureService) GetFeature(ctx context.Context, featureID int64) (*primary.Feature, error) {
	if featureID != 7 {
		return nil, secondary.ErrFeatureNotFound
	}
	return testFeature(), nil
}

func (m *mockFeatureService) ListFeatures(ctx context.Context, filters primary.FeatureFilters) ([]*primary.Feature, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return nil, nil
}

func (m *mockFeatureService) GetFeatureTree(ctx context.Context) ([]*primary.TreeNode, error) {
	if m.treeFn != nil {
		return m.treeFn(ctx)
	}
	return nil, nil
}

func (m *mockFeatureService) DeleteFeature(ctx context.Context, req primary.DeleteFeatureRequest) (*primary.DeleteFeatureResponse, error) {
	m.lastDeleteReq = req
	resp := &primary.DeleteFeatureResponse{FeatureID: req.FeatureID}
	if req.DeleteFiles {
		resp.DeletedFiles = []string{"/w/Orders/A.cs"}
		resp.FailedFiles = []string{"/w/Orders/B.cs"}
	}
	return resp, nil
}

func testFeature() *primary.Feature {
	return &primary.Feature{
		ID:              7,
		Name:            "Order",
		ComponentPrefix: "Order",
		ModuleNamespace: "Sales",
		PrimaryKeyType:  "int",
		HasListing:      true,
		HasForm:         true,
		UIFramework:     "Bootstrap",
		CreatedAt:       time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Projects:        []*primary.FeatureProject{{Category: "Controllers", Namespace: "Shop.Server", OutputDir: "/w/Orders"}},
		Files:           []*primary.FeatureFile{{FilePath: "/w/Orders/OrderListingController.cs", Category: "Controllers", Slice: "Listing", Size: 42}},
	}
}

// memWorkspace is a read-only in-memory secondary.Workspace.
type memWorkspace map[string]string

func (m memWorkspace) WriteFile(ctx context.Context, path string, content []byte, mode uint32) error {
	return errors.New("read only")
}

func (m memWorkspace) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return []byte(m[path]), nil
}

func (m memWorkspace) RemoveFile(ctx context.Context, path string) error { return nil }

func (m memWorkspace) Stat(ctx context.Context, path string) (*secondary.FileInfo, error) {
	if c, ok := m[path]; ok {
		return &secondary.FileInfo{Path: path, Size: int64(len(c))}, nil
	}
	return nil, nil
}

func TestFeatureAdapter_Create(t *testing.T) {
	mock := &mockFeatureService{
		createFn: func(ctx context.Context, req primary.CreateFeatureRequest) (*primary.CreateFeatureResponse, error) {
			return &primary.CreateFeatureResponse{
				FeatureID: 7,
				Feature:   testFeature(),
				Skipped:   []corefeature.SkippedItem{{Category: "UILibrary", Slice: corefeature.SliceForm, Reason: "no Form templates in group RazorComponents"}},
				Injections: []primary.InjectionResult{
					{Kind: "registration", TargetFile: "/w/Extensions/FeaturesRegistrationExt.cs", Outcome: "applied"},
					{Kind: "navigation", TargetFile: "/w/NavMenu.razor", Outcome: "missing_marker"},
				},
			}, nil
		},
	}
	var out bytes.Buffer
	adapter := NewFeatureAdapter(mock, nil, &out)

	_, err := adapter.Create(context.Background(), primary.CreateFeatureRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := out.String()
	for _, want := range []string{
		"✓ Created feature 7: Sales.Order",
		"Files:    1",
		"skipped UILibrary/Form",
		"✓ registration /w/Extensions/FeaturesRegistrationExt.cs",
		"! no marker in navigation /w/NavMenu.razor",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestFeatureAdapter_CreateError(t *testing.T) {
	mock := &mockFeatureService{
		createFn: func(ctx context.Context, req primary.CreateFeatureRequest) (*primary.CreateFeatureResponse, error) {
			return nil, secondary.ErrDuplicateFeature
		},
	}
	var out bytes.Buffer
	_, err := NewFeatureAdapter(mock, nil, &out).Create(context.Background(), primary.CreateFeatureRequest{})
	if !errors.Is(err, secondary.ErrDuplicateFeature) {
		t.Fatalf("expected ErrDuplicateFeature, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output on error, got %q", out.String())
	}
}

func TestFeatureAdapter_PreviewDiff(t *testing.T) {
	mock := &mockFeatureService{
		previewFn: func(ctx context.Context, req primary.CreateFeatureRequest) (*primary.PreviewFeatureResponse, error) {
			return &primary.PreviewFeatureResponse{Files: []*primary.PlannedFile{
				{Path: "/w/Orders/New.cs", Content: "class New {}\n", Size: 13},
				{Path: "/w/Orders/Old.cs", Content: "class Old {\n  int Id;\n}\n", Size: 24},
				{Path: "/w/Orders/Same.cs", Content: "same\n", Size: 5},
			}}, nil
		},
	}
	ws := memWorkspace{
		"/w/Orders/Old.cs":  "class Old {\n  string Id;\n}\n",
		"/w/Orders/Same.cs": "same\n",
	}
	var out bytes.Buffer
	_, err := NewFeatureAdapter(mock, ws, &out).Preview(context.Background(), primary.CreateFeatureRequest{}, PreviewOptions{Diff: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := out.String()
	for _, want := range []string{
		"CREATE  /w/Orders/New.cs (13 bytes)",
		"EXISTS  /w/Orders/Old.cs",
		"- " + "  string Id;",
		"+ " + "  int Id;",
		"(unchanged)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "class New {}") {
		t.Error("content of new files is only shown with ShowContent")
	}
}

func TestFeatureAdapter_ListEmpty(t *testing.T) {
	var out bytes.Buffer
	features, err := NewFeatureAdapter(&mockFeatureService{}, nil, &out).List(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(features) != 0 {
		t.Errorf("expected no features, got %d", len(features))
	}
	if !strings.Contains(out.String(), "No features found.") {
		t.Errorf("expected empty message, got %q", out.String())
	}
}

func TestFeatureAdapter_List(t *testing.T) {
	var gotFilter primary.FeatureFilters
	mock := &mockFeatureService{
		listFn: func(ctx context.Context, filters primary.FeatureFilters) ([]*primary.Feature, error) {
			gotFilter = filters
			return []*primary.Feature{testFeature()}, nil
		},
	}
	var out bytes.Buffer
	_, err := NewFeatureAdapter(mock, nil, &out).List(context.Background(), "Sales")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFilter.ModuleNamespace != "Sales" {
		t.Errorf("expected module filter Sales, got %q", gotFilter.ModuleNamespace)
	}
	output := out.String()
	if !strings.Contains(output, "listing,form") || !strings.Contains(output, "2026-03-01 09:30") {
		t.Errorf("unexpected list output:\n%s", output)
	}
}

func TestFeatureAdapter_ShowAndTree(t *testing.T) {
	mock := &mockFeatureService{
		treeFn: func(ctx context.Context) ([]*primary.TreeNode, error) {
			return []*primary.TreeNode{{
				Kind: primary.TreeNodeModule, Name: "Sales",
				Children: []*primary.TreeNode{{
					Kind: primary.TreeNodeFeature, Name: "Order", FeatureID: 7,
					Children: []*primary.TreeNode{{
						Kind: primary.TreeNodeCategory, Name: "Controllers",
						Children: []*primary.TreeNode{{Kind: primary.TreeNodeFile, Name: "OrderListingController.cs"}},
					}},
				}},
			}}, nil
		},
	}
	var out bytes.Buffer
	adapter := NewFeatureAdapter(mock, nil, &out)

	if _, err := adapter.Show(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Primary key: int") {
		t.Errorf("unexpected show output:\n%s", out.String())
	}

	out.Reset()
	if _, err := adapter.Tree(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Sales\n  Order (#7)\n    Controllers\n      OrderListingController.cs\n"
	if out.String() != want {
		t.Errorf("tree output = %q, want %q", out.String(), want)
	}

	if _, err := adapter.Show(context.Background(), 8); !errors.Is(err, secondary.ErrFeatureNotFound) {
		t.Errorf("expected ErrFeatureNotFound, got %v", err)
	}
}

func TestFeatureAdapter_Delete(t *testing.T) {
	mock := &mockFeatureService{}
	var out bytes.Buffer
	_, err := NewFeatureAdapter(mock, nil, &out).Delete(context.Background(), 7, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mock.lastDeleteReq.DeleteFiles {
		t.Error("expected DeleteFiles to be passed through")
	}
	output := out.String()
	if !strings.Contains(output, "✓ Deleted feature 7: Sales.Order") || !strings.Contains(output, "could not delete /w/Orders/B.cs") {
		t.Errorf("unexpected delete output:\n%s", output)
	}
}

var _ secondary.Workspace = memWorkspace{}
