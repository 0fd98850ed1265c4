package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/example/slicer/internal/core/placement"
	"github.com/example/slicer/internal/ports/primary"
)

type mockPlacementService struct {
	lastReq primary.AnalyzeRequest
	result  *placement.Guidance
}

func (m *mockPlacementService) Analyze(ctx context.Context, req primary.AnalyzeRequest) (*placement.Guidance, error) {
	m.lastReq = req
	return m.result, nil
}

type mockPathService struct {
	root     *primary.RootDetection
	projects map[string]string
	valid    *primary.PathValidation
}

func (m *mockPathService) DetectRoot(ctx context.Context, start string) (*primary.RootDetection, error) {
	return m.root, nil
}

func (m *mockPathService) DetectProjectPaths(ctx context.Context, root string) (map[string]string, error) {
	return m.projects, nil
}

func (m *mockPathService) ValidateDetectedPaths(ctx context.Context, root string, projects map[string]string) (*primary.PathValidation, error) {
	return m.valid, nil
}

func TestPlacementAdapter_AnalyzeUsesPreviewPaths(t *testing.T) {
	features := &mockFeatureService{
		previewFn: func(ctx context.Context, req primary.CreateFeatureRequest) (*primary.PreviewFeatureResponse, error) {
			return &primary.PreviewFeatureResponse{Files: []*primary.PlannedFile{{Path: "/w/Orders/OrderListing.razor"}}}, nil
		},
	}
	svc := &mockPlacementService{result: &placement.Guidance{
		Conflicts: []placement.Conflict{{
			Type:        placement.ConflictDuplicateFeatureName,
			Severity:    placement.SeverityError,
			Message:     "Feature 'Order' already exists in module 'Sales'",
			Details:     "Created on Mar 04, 2026",
			Suggestions: []string{"Order2"},
		}},
		Alternatives: []string{"Order2", "OrderManagement"},
		NamespaceTree: []placement.NamespaceNode{{
			Name: "Sales", ExistingFeatureCount: 1, IsTarget: true,
			Children: []placement.NamespaceNode{{Name: "Order"}},
		}},
	}}

	var out bytes.Buffer
	adapter := NewPlacementAdapter(features, svc, &out)
	g, err := adapter.Analyze(context.Background(), primary.CreateFeatureRequest{ComponentPrefix: "Order", ModuleNamespace: "Sales"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.HasErrors() {
		t.Error("expected guidance with errors")
	}
	if len(svc.lastReq.DryRunFiles) != 1 || svc.lastReq.DryRunFiles[0] != "/w/Orders/OrderListing.razor" {
		t.Errorf("dry run files = %v", svc.lastReq.DryRunFiles)
	}

	output := out.String()
	for _, want := range []string{
		"ERROR   DuplicateFeatureName: Feature 'Order' already exists in module 'Sales'",
		"    Created on Mar 04, 2026",
		"    try: Order2",
		"Alternative names:\n  Order2\n  OrderManagement\n",
		"  Sales (1) <- target\n    Order\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestPrintGuidance_NoConflicts(t *testing.T) {
	var out bytes.Buffer
	PrintGuidance(&out, &placement.Guidance{
		Suggestions: []placement.Suggestion{{
			Title:       "Naming",
			Description: "Consider a Management suffix",
			Parameters:  map[string]string{"example": "InvoiceManagement"},
		}},
	})
	output := out.String()
	if !strings.HasPrefix(output, "✓ no conflicts\n") {
		t.Errorf("unexpected output:\n%s", output)
	}
	if !strings.Contains(output, "  Naming: Consider a Management suffix\n    example: InvoiceManagement\n") {
		t.Errorf("expected suggestion block, got:\n%s", output)
	}
}

func TestPathAdapter_Detect(t *testing.T) {
	tests := []struct {
		name  string
		svc   *mockPathService
		wants []string
	}{
		{
			name: "confident root",
			svc: &mockPathService{
				root:     &primary.RootDetection{Path: "/src/shop", Confident: true, Reason: "found solution file Shop.sln"},
				projects: map[string]string{"Shop.Server": "src/Shop.Server", "Shop.Client": "src/Shop.Client"},
				valid:    &primary.PathValidation{Valid: true, RootExists: true, ExpectedFound: 2, Expected: []string{"Shop.Server", "Shop.Client", "Shop.Shared"}},
			},
			wants: []string{"✓ Solution root: /src/shop", "Shop.Client  src/Shop.Client", "2 of 3 expected projects found"},
		},
		{
			name: "fallback",
			svc: &mockPathService{
				root:  &primary.RootDetection{Path: "/tmp", Reason: "no solution markers found"},
				valid: &primary.PathValidation{RootExists: true, Expected: []string{"Shop.Server"}},
			},
			wants: []string{"! Solution root (fallback): /tmp", "none of the expected projects were found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			root, err := NewPathAdapter(tt.svc, &out).Detect(context.Background(), "/src/shop/src")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if root.Path != tt.svc.root.Path {
				t.Errorf("root = %q, want %q", root.Path, tt.svc.root.Path)
			}
			for _, want := range tt.wants {
				if !strings.Contains(out.String(), want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, out.String())
				}
			}
		})
	}
}
