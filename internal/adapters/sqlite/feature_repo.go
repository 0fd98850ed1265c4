// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/slicer/internal/ports/secondary"
)

// FeatureRepository implements secondary.FeatureRepository with SQLite.
type FeatureRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewFeatureRepository creates a new SQLite feature repository.
func NewFeatureRepository(db *sql.DB) *FeatureRepository {
	return &FeatureRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

const featureColumns = `id, name, component_prefix, module_namespace, project_namespace, primary_key_type,
	base_path, directory_name, has_form, has_listing, has_select_list, select_list_model_type,
	select_list_data_type, ui_framework, profile_configuration, created_at, updated_at`

// IsUnique reports whether (moduleNamespace, componentPrefix) is unused.
func (r *FeatureRepository) IsUnique(ctx context.Context, moduleNamespace, componentPrefix string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM features
		 WHERE module_namespace = ? COLLATE NOCASE AND component_prefix = ? COLLATE NOCASE`,
		moduleNamespace, componentPrefix,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check feature uniqueness: %w", err)
	}
	return count == 0, nil
}

// Create persists a new feature.
func (r *FeatureRepository) Create(ctx context.Context, f *secondary.FeatureRecord) error {
	createdAt := r.now()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO features (name, component_prefix, module_namespace, project_namespace, primary_key_type,
			base_path, directory_name, has_form, has_listing, has_select_list, select_list_model_type,
			select_list_data_type, ui_framework, profile_configuration, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Name, f.ComponentPrefix, f.ModuleNamespace, f.ProjectNamespace, f.PrimaryKeyType,
		f.BasePath, f.DirectoryName, f.HasForm, f.HasListing, f.HasSelectList, f.SelectListModelType,
		f.SelectListDataType, f.UIFramework, f.Config, createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s/%s", secondary.ErrDuplicateFeature, f.ModuleNamespace, f.ComponentPrefix)
		}
		return fmt.Errorf("failed to create feature: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read feature id: %w", err)
	}
	f.ID = id
	f.CreatedAt = createdAt
	return nil
}

// Update updates the scalar columns of a feature.
func (r *FeatureRepository) Update(ctx context.Context, f *secondary.FeatureRecord) error {
	updatedAt := r.now()
	result, err := r.db.ExecContext(ctx,
		`UPDATE features SET name = ?, project_namespace = ?, primary_key_type = ?, base_path = ?,
			directory_name = ?, has_form = ?, has_listing = ?, has_select_list = ?,
			select_list_model_type = ?, select_list_data_type = ?, ui_framework = ?,
			profile_configuration = ?, updated_at = ?
		 WHERE id = ?`,
		f.Name, f.ProjectNamespace, f.PrimaryKeyType, f.BasePath,
		f.DirectoryName, f.HasForm, f.HasListing, f.HasSelectList,
		f.SelectListModelType, f.SelectListDataType, f.UIFramework,
		f.Config, updatedAt, f.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update feature: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("feature %d: %w", f.ID, secondary.ErrFeatureNotFound)
	}
	f.UpdatedAt = updatedAt
	return nil
}

// RecordProject persists a project descriptor.
func (r *FeatureRepository) RecordProject(ctx context.Context, p *secondary.FeatureProjectRecord) error {
	createdAt := r.now()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO feature_projects (feature_id, category, path, output_dir, namespace, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.FeatureID, p.Category, p.Path, p.OutputDir, p.Namespace, createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("project category %s already recorded for feature %d", p.Category, p.FeatureID)
		}
		return fmt.Errorf("failed to record project: %w", err)
	}

	id, _ := result.LastInsertId()
	p.ID = id
	p.CreatedAt = createdAt
	return nil
}

// RecordFile persists a generated file.
func (r *FeatureRepository) RecordFile(ctx context.Context, f *secondary.FeatureFileRecord) error {
	createdAt := r.now()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO feature_files (feature_id, file_path, file_name, category, slice, file_size, file_exists, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.FeatureID, f.FilePath, f.FileName, f.Category, f.Slice, f.Size, f.Exists, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record file: %w", err)
	}

	id, _ := result.LastInsertId()
	f.ID = id
	f.CreatedAt = createdAt
	return nil
}

// GetByID retrieves a feature with its children.
func (r *FeatureRepository) GetByID(ctx context.Context, id int64) (*secondary.FeatureRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+featureColumns+" FROM features WHERE id = ?", id)
	record, err := scanFeature(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("feature %d: %w", id, secondary.ErrFeatureNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feature: %w", err)
	}

	if err := r.loadChildren(ctx, []*secondary.FeatureRecord{record}); err != nil {
		return nil, err
	}
	return record, nil
}

// GetAll retrieves every feature ordered by module then prefix.
func (r *FeatureRepository) GetAll(ctx context.Context) ([]*secondary.FeatureRecord, error) {
	return r.query(ctx,
		"SELECT "+featureColumns+" FROM features ORDER BY module_namespace, component_prefix",
	)
}

// GetByModule retrieves the features of one module namespace.
func (r *FeatureRepository) GetByModule(ctx context.Context, moduleNamespace string) ([]*secondary.FeatureRecord, error) {
	return r.query(ctx,
		"SELECT "+featureColumns+" FROM features WHERE module_namespace = ? COLLATE NOCASE ORDER BY component_prefix",
		moduleNamespace,
	)
}

// ClearChildren removes a feature's file and project records.
func (r *FeatureRepository) ClearChildren(ctx context.Context, featureID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM feature_files WHERE feature_id = ?", featureID); err != nil {
		return fmt.Errorf("failed to clear feature files: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM feature_projects WHERE feature_id = ?", featureID); err != nil {
		return fmt.Errorf("failed to clear feature projects: %w", err)
	}
	return tx.Commit()
}

// Delete removes a feature; children go with it through the cascade.
func (r *FeatureRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM features WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete feature: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("feature %d: %w", id, secondary.ErrFeatureNotFound)
	}
	return tx.Commit()
}

func (r *FeatureRepository) query(ctx context.Context, q string, args ...any) ([]*secondary.FeatureRecord, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}
	defer rows.Close()

	var features []*secondary.FeatureRecord
	for rows.Next() {
		record, err := scanFeature(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feature: %w", err)
		}
		features = append(features, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}

	if err := r.loadChildren(ctx, features); err != nil {
		return nil, err
	}
	return features, nil
}

// loadChildren fills Files and Projects for a batch of features with two
// queries.
func (r *FeatureRepository) loadChildren(ctx context.Context, features []*secondary.FeatureRecord) error {
	if len(features) == 0 {
		return nil
	}
	byID := make(map[int64]*secondary.FeatureRecord, len(features))
	args := make([]any, 0, len(features))
	for _, f := range features {
		byID[f.ID] = f
		args = append(args, f.ID)
	}
	in := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")

	projRows, err := r.db.QueryContext(ctx,
		`SELECT id, feature_id, category, path, output_dir, namespace, created_at
		 FROM feature_projects WHERE feature_id IN (`+in+`) ORDER BY id`, args...)
	if err != nil {
		return fmt.Errorf("failed to load feature projects: %w", err)
	}
	defer projRows.Close()
	for projRows.Next() {
		p := &secondary.FeatureProjectRecord{}
		if err := projRows.Scan(&p.ID, &p.FeatureID, &p.Category, &p.Path, &p.OutputDir, &p.Namespace, &p.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan feature project: %w", err)
		}
		byID[p.FeatureID].Projects = append(byID[p.FeatureID].Projects, p)
	}
	if err := projRows.Err(); err != nil {
		return fmt.Errorf("failed to load feature projects: %w", err)
	}

	fileRows, err := r.db.QueryContext(ctx,
		`SELECT id, feature_id, file_path, file_name, category, slice, file_size, file_exists, created_at
		 FROM feature_files WHERE feature_id IN (`+in+`) ORDER BY id`, args...)
	if err != nil {
		return fmt.Errorf("failed to load feature files: %w", err)
	}
	defer fileRows.Close()
	for fileRows.Next() {
		f := &secondary.FeatureFileRecord{}
		if err := fileRows.Scan(&f.ID, &f.FeatureID, &f.FilePath, &f.FileName, &f.Category, &f.Slice, &f.Size, &f.Exists, &f.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan feature file: %w", err)
		}
		byID[f.FeatureID].Files = append(byID[f.FeatureID].Files, f)
	}
	return fileRows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeature(s scanner) (*secondary.FeatureRecord, error) {
	var updatedAt sql.NullTime
	record := &secondary.FeatureRecord{}
	err := s.Scan(
		&record.ID, &record.Name, &record.ComponentPrefix, &record.ModuleNamespace, &record.ProjectNamespace,
		&record.PrimaryKeyType, &record.BasePath, &record.DirectoryName, &record.HasForm, &record.HasListing,
		&record.HasSelectList, &record.SelectListModelType, &record.SelectListDataType, &record.UIFramework,
		&record.Config, &record.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		record.UpdatedAt = updatedAt.Time
	}
	return record, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

var _ secondary.FeatureRepository = (*FeatureRepository)(nil)
