package primary

import (
	"context"
	"time"

	corefeature "github.com/example/slicer/internal/core/feature"
)

// FeatureService defines the primary port for feature generation and the
// feature registry.
type FeatureService interface {
	// CreateFeature renders, writes and records a new feature, then patches
	// the registration and navigation manifests.
	CreateFeature(ctx context.Context, req CreateFeatureRequest) (*CreateFeatureResponse, error)

	// PreviewFeature renders a feature without writing or recording anything.
	PreviewFeature(ctx context.Context, req CreateFeatureRequest) (*PreviewFeatureResponse, error)

	// RegenerateFeature rebuilds a feature's files and records from its
	// stored parameters. Manifests are patched again.
	RegenerateFeature(ctx context.Context, req RegenerateFeatureRequest) (*CreateFeatureResponse, error)

	// GetFeature retrieves a feature with its files and projects.
	GetFeature(ctx context.Context, featureID int64) (*Feature, error)

	// ListFeatures lists features with optional filters.
	ListFeatures(ctx context.Context, filters FeatureFilters) ([]*Feature, error)

	// GetFeatureTree groups features as module, feature, category, file.
	GetFeatureTree(ctx context.Context) ([]*TreeNode, error)

	// DeleteFeature removes a feature, optionally deleting its tracked files.
	DeleteFeature(ctx context.Context, req DeleteFeatureRequest) (*DeleteFeatureResponse, error)
}

// ProjectDescriptor is one target project of a generation request.
type ProjectDescriptor struct {
	Category  string `yaml:"category" validate:"required"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// CreateFeatureRequest contains parameters for generating a feature.
type CreateFeatureRequest struct {
	Name                string               `yaml:"name"`
	ComponentPrefix     string               `yaml:"componentPrefix" validate:"required"`
	ModuleNamespace     string               `yaml:"moduleNamespace" validate:"required"`
	ProjectNamespace    string               `yaml:"projectNamespace"`
	PrimaryKeyType      string               `yaml:"primaryKeyType" validate:"required"`
	BasePath            string               `yaml:"basePath" validate:"required"`
	DirectoryName       string               `yaml:"directoryName" validate:"required"`
	HasForm             bool                 `yaml:"hasForm"`
	HasListing          bool                 `yaml:"hasListing"`
	HasSelectList       bool                 `yaml:"hasSelectList"`
	SelectListModelType string               `yaml:"selectListModelType"`
	SelectListDataType  string               `yaml:"selectListDataType"`
	UIFramework         string               `yaml:"uiFramework"`
	Projects            []ProjectDescriptor  `yaml:"projects" validate:"dive"`
	Profile             *corefeature.Profile `yaml:"profile"`
	Extra               map[string]string    `yaml:"extra"`
}

// CreateFeatureResponse contains the result of generating a feature.
// Feature is the authoritative record of what was written.
type CreateFeatureResponse struct {
	FeatureID  int64
	Feature    *Feature
	Skipped    []corefeature.SkippedItem
	Injections []InjectionResult
}

// InjectionResult reports one manifest patch.
type InjectionResult struct {
	Kind       string
	TargetFile string
	Outcome    string
}

// PreviewFeatureResponse contains the files a feature would produce.
type PreviewFeatureResponse struct {
	Files   []*PlannedFile
	Skipped []corefeature.SkippedItem
}

// PlannedFile is a rendered file that has not been written.
type PlannedFile struct {
	Path         string
	RelativePath string
	Category     string
	Group        string
	Slice        string
	Content      string
	Size         int64
}

// RegenerateFeatureRequest contains parameters for regenerating a feature.
// Empty Projects reuses the stored project records, then the stored profile.
type RegenerateFeatureRequest struct {
	FeatureID int64
	Projects  []ProjectDescriptor
}

// DeleteFeatureRequest contains parameters for deleting a feature.
type DeleteFeatureRequest struct {
	FeatureID   int64
	DeleteFiles bool
}

// DeleteFeatureResponse reports what a delete removed.
type DeleteFeatureResponse struct {
	FeatureID    int64
	DeletedFiles []string
	FailedFiles  []string
}

// Feature represents a feature entity at the port boundary.
type Feature struct {
	ID                  int64
	Name                string
	ComponentPrefix     string
	ModuleNamespace     string
	ProjectNamespace    string
	PrimaryKeyType      string
	BasePath            string
	DirectoryName       string
	HasForm             bool
	HasListing          bool
	HasSelectList       bool
	SelectListModelType string
	SelectListDataType  string
	UIFramework         string
	Config              string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Files               []*FeatureFile
	Projects            []*FeatureProject
}

// FeatureFile represents a generated file at the port boundary.
type FeatureFile struct {
	ID       int64
	FilePath string
	FileName string
	Category string
	Slice    string
	Size     int64
	Exists   bool
}

// FeatureProject represents a project descriptor at the port boundary.
type FeatureProject struct {
	ID        int64
	Category  string
	Path      string
	OutputDir string
	Namespace string
}

// FeatureFilters contains filter options for listing features.
type FeatureFilters struct {
	ModuleNamespace string
}

// Tree node kinds.
const (
	TreeNodeModule   = "module"
	TreeNodeFeature  = "feature"
	TreeNodeCategory = "category"
	TreeNodeFile     = "file"
)

// TreeNode is one node of the feature tree.
type TreeNode struct {
	Kind      string
	Name      string
	FeatureID int64 // set on feature nodes
	Path      string
	Children  []*TreeNode
}
