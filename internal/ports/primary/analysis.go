package primary

import (
	"context"

	"github.com/example/slicer/internal/core/placement"
	"github.com/example/slicer/internal/core/template"
)

// TemplateService defines the primary port for rendering template groups.
type TemplateService interface {
	// Render renders one (group, slice) combination. Output is keyed by
	// rendered slash-separated relative path.
	Render(ctx context.Context, group, slice string, params template.Params) (map[string]string, error)
}

// PlacementService defines the primary port for pre-flight analysis.
type PlacementService interface {
	// Analyze checks a proposed feature against the registry and disk.
	// It never writes.
	Analyze(ctx context.Context, req AnalyzeRequest) (*placement.Guidance, error)
}

// AnalyzeRequest contains parameters for a placement analysis.
type AnalyzeRequest struct {
	ComponentPrefix string
	ModuleNamespace string
	DryRunFiles     []string
}

// PathService defines the primary port for solution root detection.
type PathService interface {
	// DetectRoot walks upward from start looking for a solution root.
	DetectRoot(ctx context.Context, start string) (*RootDetection, error)

	// DetectProjectPaths maps project directory names to paths relative
	// to root.
	DetectProjectPaths(ctx context.Context, root string) (map[string]string, error)

	// ValidateDetectedPaths reports whether enough expected projects exist.
	// The result is advisory.
	ValidateDetectedPaths(ctx context.Context, root string, projects map[string]string) (*PathValidation, error)
}

// RootDetection is the result of DetectRoot.
type RootDetection struct {
	Path      string
	Confident bool // false when falling back to the start's parent
	Reason    string
}

// PathValidation is the result of ValidateDetectedPaths.
type PathValidation struct {
	Valid         bool
	RootExists    bool
	ExpectedFound int
	Expected      []string
}
