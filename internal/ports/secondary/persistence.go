// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// FeatureRepository defines the secondary port for the feature registry.
type FeatureRepository interface {
	// IsUnique reports whether no feature has this module namespace and
	// component prefix, compared case-insensitively.
	IsUnique(ctx context.Context, moduleNamespace, componentPrefix string) (bool, error)

	// Create persists a new feature and sets its ID and CreatedAt.
	// A violated uniqueness constraint returns ErrDuplicateFeature.
	Create(ctx context.Context, feature *FeatureRecord) error

	// Update updates the scalar columns of a feature and stamps UpdatedAt.
	Update(ctx context.Context, feature *FeatureRecord) error

	// RecordProject persists a project descriptor for a feature.
	RecordProject(ctx context.Context, project *FeatureProjectRecord) error

	// RecordFile persists a generated file for a feature.
	RecordFile(ctx context.Context, file *FeatureFileRecord) error

	// GetByID retrieves a feature with its files and projects.
	GetByID(ctx context.Context, id int64) (*FeatureRecord, error)

	// GetAll retrieves every feature with its files and projects.
	GetAll(ctx context.Context) ([]*FeatureRecord, error)

	// GetByModule retrieves the features of one module namespace.
	GetByModule(ctx context.Context, moduleNamespace string) ([]*FeatureRecord, error)

	// ClearChildren removes a feature's file and project records.
	ClearChildren(ctx context.Context, featureID int64) error

	// Delete removes a feature and its children in one transaction.
	Delete(ctx context.Context, id int64) error
}

// FeatureRecord represents a feature as stored in persistence.
type FeatureRecord struct {
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
	Config              string // versioned JSON blob, may be empty
	CreatedAt           time.Time
	UpdatedAt           time.Time // zero until first update
	Files               []*FeatureFileRecord
	Projects            []*FeatureProjectRecord
}

// FeatureFileRecord represents a generated file as stored in persistence.
type FeatureFileRecord struct {
	ID        int64
	FeatureID int64
	FilePath  string // absolute path
	FileName  string
	Category  string // project category the file was generated for
	Slice     string
	Size      int64
	Exists    bool
	CreatedAt time.Time
}

// FeatureProjectRecord represents a project descriptor as stored in persistence.
type FeatureProjectRecord struct {
	ID        int64
	FeatureID int64
	Category  string
	Path      string // relative to the feature base path
	OutputDir string
	Namespace string
	CreatedAt time.Time
}
