package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/slicer/internal/core/effects"
	corefeature "github.com/example/slicer/internal/core/feature"
	"github.com/example/slicer/internal/core/template"
	"github.com/example/slicer/internal/ctxutil"
	"github.com/example/slicer/internal/ports/primary"
	"github.com/example/slicer/internal/ports/secondary"
)

// FeatureSettings holds the generation settings that come from configuration.
type FeatureSettings struct {
	Groups  corefeature.GroupMap
	Targets []corefeature.InjectionTarget
}

// DefaultFeatureSettings returns the built-in category mapping and the
// server registration and navigation manifests.
func DefaultFeatureSettings() FeatureSettings {
	return FeatureSettings{
		Groups: corefeature.DefaultGroups(),
		Targets: []corefeature.InjectionTarget{
			{
				Kind:   corefeature.InjectRegistration,
				File:   "Extensions/FeaturesRegistrationExt.cs",
				Marker: corefeature.RegistrationMarker,
				Side:   corefeature.SideServer,
			},
			{
				Kind:   corefeature.InjectNavigation,
				File:   "Components/Layout/NavMenu.razor",
				Marker: corefeature.NavigationMarker,
			},
		},
	}
}

// FeatureServiceImpl implements the FeatureService interface.
type FeatureServiceImpl struct {
	repo       secondary.FeatureRepository
	templates  primary.TemplateService
	pluralizer secondary.Pluralizer
	executor   EffectExecutor
	validate   *validator.Validate
	settings   FeatureSettings
	logger     *zap.Logger
}

// NewFeatureService creates a new FeatureService with injected dependencies.
func NewFeatureService(
	repo secondary.FeatureRepository,
	templates primary.TemplateService,
	pluralizer secondary.Pluralizer,
	executor EffectExecutor,
	settings FeatureSettings,
	logger *zap.Logger,
) *FeatureServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.Groups == nil {
		settings.Groups = corefeature.DefaultGroups()
	}
	return &FeatureServiceImpl{
		repo:       repo,
		templates:  templates,
		pluralizer: pluralizer,
		executor:   executor,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		settings:   settings,
		logger:     logger,
	}
}

// CreateFeature renders, writes and records a new feature, then patches the
// registration and navigation manifests. On a write failure the files and
// rows produced so far are kept and the error is returned.
func (s *FeatureServiceImpl) CreateFeature(ctx context.Context, req primary.CreateFeatureRequest) (*primary.CreateFeatureResponse, error) {
	// 1. Validate request shape
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid feature request: %w", err)
	}
	projects := requestProjects(req)
	flags := corefeature.SliceFlags{Listing: req.HasListing, Form: req.HasForm, SelectList: req.HasSelectList}

	// 2. Guard check
	guardCtx := corefeature.CreateFeatureContext{
		ComponentPrefix: req.ComponentPrefix,
		ModuleNamespace: req.ModuleNamespace,
		DirectoryName:   req.DirectoryName,
		Slices:          flags.Enabled(),
		Categories:      categoriesOf(projects),
	}
	if result := corefeature.CanCreateFeature(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	// 3. Uniqueness pre-check; the store enforces it again on insert
	unique, err := s.repo.IsUnique(ctx, req.ModuleNamespace, req.ComponentPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to check feature uniqueness: %w", err)
	}
	if !unique {
		return nil, fmt.Errorf("%w: %s/%s", secondary.ErrDuplicateFeature, req.ModuleNamespace, req.ComponentPrefix)
	}

	// 4. Persist the feature row before any file is written
	blob, err := corefeature.EncodeConfig(req.Profile, req.Extra)
	if err != nil {
		return nil, err
	}
	record := recordFromRequest(req, blob)
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create feature: %w", err)
	}

	// 5. Generate files, records and manifest patches
	ctx, log := s.startGeneration(ctx, record)
	log.Info("creating feature", zap.Int("projects", len(projects)))
	result, err := s.generate(ctx, log, record, s.params(record, req.Extra), projects)
	if err != nil {
		return nil, err
	}

	// 6. Read back the authoritative record
	return s.finish(ctx, record.ID, result)
}

// PreviewFeature renders a feature exactly as CreateFeature would without
// writing or recording anything.
func (s *FeatureServiceImpl) PreviewFeature(ctx context.Context, req primary.CreateFeatureRequest) (*primary.PreviewFeatureResponse, error) {
	// 1. Validate request shape
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid feature request: %w", err)
	}
	projects := requestProjects(req)
	flags := corefeature.SliceFlags{Listing: req.HasListing, Form: req.HasForm, SelectList: req.HasSelectList}

	// 2. Guard check
	guardCtx := corefeature.CreateFeatureContext{
		ComponentPrefix: req.ComponentPrefix,
		ModuleNamespace: req.ModuleNamespace,
		DirectoryName:   req.DirectoryName,
		Slices:          flags.Enabled(),
		Categories:      categoriesOf(projects),
	}
	if result := corefeature.CanCreateFeature(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	// 3. Render and plan with no feature identity
	record := recordFromRequest(req, "")
	plan, err := s.plan(ctx, s.logger, record, s.params(record, req.Extra), projects)
	if err != nil {
		return nil, err
	}

	resp := &primary.PreviewFeatureResponse{Skipped: plan.Skipped}
	for _, f := range plan.Files {
		resp.Files = append(resp.Files, &primary.PlannedFile{
			Path:         f.Path,
			RelativePath: f.RelativePath,
			Category:     f.Category,
			Group:        f.Group,
			Slice:        string(f.Slice),
			Content:      f.Content,
			Size:         f.Size(),
		})
	}
	return resp, nil
}

// RegenerateFeature clears a feature's file and project records, renders and
// writes its files again, and re-runs both manifest patches. Files already on
// disk are overwritten, not deleted. Manifest entries are appended again.
func (s *FeatureServiceImpl) RegenerateFeature(ctx context.Context, req primary.RegenerateFeatureRequest) (*primary.CreateFeatureResponse, error) {
	// 1. Load the feature
	record, err := s.repo.GetByID(ctx, req.FeatureID)
	if err != nil && !errors.Is(err, secondary.ErrFeatureNotFound) {
		return nil, fmt.Errorf("failed to get feature: %w", err)
	}
	featureExists := err == nil

	// 2. Resolve descriptors (request, then stored projects, then profile)
	// and the extra parameters the feature was created with
	var projects []corefeature.ProjectInput
	var cfg *corefeature.Config
	if featureExists {
		cfg, err = corefeature.DecodeConfig(record.Config)
		if err != nil {
			return nil, err
		}
		projects = regenerateProjects(req, record, cfg)
	}

	// 3. Guard check
	guardCtx := corefeature.RegenerateFeatureContext{
		FeatureID:     req.FeatureID,
		FeatureExists: featureExists,
		Categories:    categoriesOf(projects),
	}
	if featureExists {
		guardCtx.Slices = recordFlags(record).Enabled()
	}
	if result := corefeature.CanRegenerateFeature(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	// 4. Drop old bookkeeping
	if err := s.repo.ClearChildren(ctx, record.ID); err != nil {
		return nil, fmt.Errorf("failed to clear feature records: %w", err)
	}

	// 5. Generate again
	ctx, log := s.startGeneration(ctx, record)
	log.Info("regenerating feature", zap.Int("projects", len(projects)))
	result, err := s.generate(ctx, log, record, s.params(record, cfg.Extra), projects)
	if err != nil {
		return nil, err
	}

	// 6. Stamp updated_at
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update feature: %w", err)
	}

	return s.finish(ctx, record.ID, result)
}

// GetFeature retrieves a feature with its files and projects.
func (s *FeatureServiceImpl) GetFeature(ctx context.Context, featureID int64) (*primary.Feature, error) {
	record, err := s.repo.GetByID(ctx, featureID)
	if err != nil {
		return nil, err
	}
	return featureFromRecord(record), nil
}

// ListFeatures lists features with optional filters.
func (s *FeatureServiceImpl) ListFeatures(ctx context.Context, filters primary.FeatureFilters) ([]*primary.Feature, error) {
	var (
		records []*secondary.FeatureRecord
		err     error
	)
	if filters.ModuleNamespace != "" {
		records, err = s.repo.GetByModule(ctx, filters.ModuleNamespace)
	} else {
		records, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}

	features := make([]*primary.Feature, len(records))
	for i, r := range records {
		features[i] = featureFromRecord(r)
	}
	return features, nil
}

// GetFeatureTree groups every feature as module, feature, project category
// and file.
func (s *FeatureServiceImpl) GetFeatureTree(ctx context.Context) ([]*primary.TreeNode, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}
	return buildFeatureTree(records), nil
}

// DeleteFeature removes a feature and its records. With DeleteFiles every
// tracked file still flagged as existing is removed first; a failed removal
// is logged and reported without stopping the others.
func (s *FeatureServiceImpl) DeleteFeature(ctx context.Context, req primary.DeleteFeatureRequest) (*primary.DeleteFeatureResponse, error) {
	// 1. Load the feature
	record, err := s.repo.GetByID(ctx, req.FeatureID)
	if err != nil && !errors.Is(err, secondary.ErrFeatureNotFound) {
		return nil, fmt.Errorf("failed to get feature: %w", err)
	}

	// 2. Guard check
	guardCtx := corefeature.DeleteFeatureContext{FeatureID: req.FeatureID, FeatureExists: err == nil}
	if result := corefeature.CanDeleteFeature(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	resp := &primary.DeleteFeatureResponse{FeatureID: record.ID}

	// 3. Remove tracked files, one at a time
	if req.DeleteFiles {
		for _, f := range record.Files {
			if !f.Exists {
				continue
			}
			eff := effects.FileEffect{Operation: "remove", Path: f.FilePath}
			if _, err := s.executor.Execute(ctx, []effects.Effect{eff}); err != nil {
				s.logger.Warn("failed to delete feature file",
					zap.Int64("feature_id", record.ID),
					zap.String("file", f.FilePath),
					zap.Error(err),
				)
				resp.FailedFiles = append(resp.FailedFiles, f.FilePath)
				continue
			}
			resp.DeletedFiles = append(resp.DeletedFiles, f.FilePath)
		}
	}

	// 4. Delete the feature and its children
	if err := s.repo.Delete(ctx, record.ID); err != nil {
		return nil, fmt.Errorf("failed to delete feature: %w", err)
	}
	s.logger.Info("feature deleted",
		zap.Int64("feature_id", record.ID),
		zap.Int("files_deleted", len(resp.DeletedFiles)),
		zap.Int("files_failed", len(resp.FailedFiles)),
	)
	return resp, nil
}

type generationResult struct {
	skipped    []corefeature.SkippedItem
	injections []primary.InjectionResult
}

func (s *FeatureServiceImpl) startGeneration(ctx context.Context, record *secondary.FeatureRecord) (context.Context, *zap.Logger) {
	id := uuid.NewString()
	log := s.logger.With(
		zap.String("generation_id", id),
		zap.Int64("feature_id", record.ID),
		zap.String("module", record.ModuleNamespace),
		zap.String("prefix", record.ComponentPrefix),
	)
	return ctxutil.WithGenerationID(ctx, id), log
}

// generate runs the file plan and then the injection plan for a persisted
// feature.
func (s *FeatureServiceImpl) generate(ctx context.Context, log *zap.Logger, record *secondary.FeatureRecord, params template.Params, projects []corefeature.ProjectInput) (*generationResult, error) {
	plan, err := s.plan(ctx, log, record, params, projects)
	if err != nil {
		return nil, err
	}

	report, err := s.executor.Execute(ctx, plan.Effects())
	if err != nil {
		log.Error("generation aborted", zap.Error(err))
		return nil, err
	}
	log.Info("feature files written",
		zap.Int("files", report.FilesWritten),
		zap.Int("projects", len(plan.Projects)),
	)

	injections := corefeature.GenerateInjectionPlan(corefeature.InjectionPlanInput{
		BasePath: record.BasePath,
		Params:   params,
		Flags:    recordFlags(record),
		Targets:  s.settings.Targets,
	})
	injected, err := s.executor.Execute(ctx, injections)
	if err != nil {
		log.Error("manifest injection failed", zap.Error(err))
		return nil, err
	}

	result := &generationResult{skipped: plan.Skipped}
	for _, inj := range injected.Injections {
		result.injections = append(result.injections, primary.InjectionResult{
			Kind:       inj.Kind,
			TargetFile: inj.TargetFile,
			Outcome:    string(inj.Outcome),
		})
	}
	return result, nil
}

// plan renders every (group, slice) combination the descriptors need and
// builds the create plan. Combinations without templates are left out of
// the render set and so end up in plan.Skipped.
func (s *FeatureServiceImpl) plan(ctx context.Context, log *zap.Logger, record *secondary.FeatureRecord, params template.Params, projects []corefeature.ProjectInput) (corefeature.CreatePlan, error) {
	slices := recordFlags(record).Enabled()

	rendered := make(map[corefeature.RenderKey]map[string]string)
	for _, proj := range projects {
		group, ok := s.settings.Groups.Resolve(proj.Category)
		if !ok {
			continue
		}
		for _, slice := range slices {
			key := corefeature.RenderKey{Group: group, Slice: slice}
			if _, done := rendered[key]; done {
				continue
			}
			files, err := s.templates.Render(ctx, group, string(slice), params)
			if errors.Is(err, secondary.ErrUnsupportedCombination) {
				log.Debug("no templates for combination", zap.String("group", group), zap.String("slice", string(slice)))
				continue
			}
			if err != nil {
				return corefeature.CreatePlan{}, err
			}
			rendered[key] = files
		}
	}

	return corefeature.GenerateCreatePlan(corefeature.CreatePlanInput{
		FeatureID:     record.ID,
		BasePath:      record.BasePath,
		DirectoryName: record.DirectoryName,
		Projects:      projects,
		Slices:        slices,
		Groups:        s.settings.Groups,
		Rendered:      rendered,
	}), nil
}

// params builds the template parameters for a feature. Extra keys never
// override the built-in ones.
func (s *FeatureServiceImpl) params(record *secondary.FeatureRecord, extra map[string]string) template.Params {
	return corefeature.BuildParams(corefeature.ParamInput{
		ComponentPrefix:     record.ComponentPrefix,
		ModuleNamespace:     record.ModuleNamespace,
		ProjectNamespace:    record.ProjectNamespace,
		PrimaryKeyType:      record.PrimaryKeyType,
		UIFramework:         record.UIFramework,
		SelectListModelType: record.SelectListModelType,
		SelectListDataType:  record.SelectListDataType,
		Extra:               extra,
	}, s.pluralizer.Pluralize)
}

func (s *FeatureServiceImpl) finish(ctx context.Context, id int64, result *generationResult) (*primary.CreateFeatureResponse, error) {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read back feature: %w", err)
	}
	return &primary.CreateFeatureResponse{
		FeatureID:  id,
		Feature:    featureFromRecord(stored),
		Skipped:    result.skipped,
		Injections: result.injections,
	}, nil
}

func requestProjects(req primary.CreateFeatureRequest) []corefeature.ProjectInput {
	var out []corefeature.ProjectInput
	for _, p := range req.Projects {
		out = append(out, corefeature.ProjectInput{Category: p.Category, Path: p.Path, Namespace: p.Namespace})
	}
	if len(out) == 0 && req.Profile != nil {
		out = profileProjects(req.Profile)
	}
	return out
}

func regenerateProjects(req primary.RegenerateFeatureRequest, record *secondary.FeatureRecord, cfg *corefeature.Config) []corefeature.ProjectInput {
	var out []corefeature.ProjectInput
	for _, p := range req.Projects {
		out = append(out, corefeature.ProjectInput{Category: p.Category, Path: p.Path, Namespace: p.Namespace})
	}
	if len(out) > 0 {
		return out
	}
	for _, p := range record.Projects {
		out = append(out, corefeature.ProjectInput{Category: p.Category, Path: p.Path, Namespace: p.Namespace})
	}
	if len(out) > 0 {
		return out
	}
	if cfg.Profile != nil {
		out = profileProjects(cfg.Profile)
	}
	return out
}

func profileProjects(p *corefeature.Profile) []corefeature.ProjectInput {
	out := make([]corefeature.ProjectInput, 0, len(p.Projects))
	for _, proj := range p.Projects {
		out = append(out, corefeature.ProjectInput{Category: proj.Category, Path: proj.Path, Namespace: proj.Namespace})
	}
	return out
}

func categoriesOf(projects []corefeature.ProjectInput) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Category
	}
	return out
}

func recordFromRequest(req primary.CreateFeatureRequest, blob string) *secondary.FeatureRecord {
	name := req.Name
	if name == "" {
		name = req.ComponentPrefix
	}
	ui := req.UIFramework
	if ui == "" && req.Profile != nil {
		ui = req.Profile.UIFramework
	}
	if ui == "" {
		ui = corefeature.DefaultUIFramework
	}
	return &secondary.FeatureRecord{
		Name:                name,
		ComponentPrefix:     req.ComponentPrefix,
		ModuleNamespace:     req.ModuleNamespace,
		ProjectNamespace:    req.ProjectNamespace,
		PrimaryKeyType:      req.PrimaryKeyType,
		BasePath:            req.BasePath,
		DirectoryName:       req.DirectoryName,
		HasForm:             req.HasForm,
		HasListing:          req.HasListing,
		HasSelectList:       req.HasSelectList,
		SelectListModelType: req.SelectListModelType,
		SelectListDataType:  req.SelectListDataType,
		UIFramework:         ui,
		Config:              blob,
	}
}

func recordFlags(r *secondary.FeatureRecord) corefeature.SliceFlags {
	return corefeature.SliceFlags{Listing: r.HasListing, Form: r.HasForm, SelectList: r.HasSelectList}
}

func featureFromRecord(r *secondary.FeatureRecord) *primary.Feature {
	f := &primary.Feature{
		ID:                  r.ID,
		Name:                r.Name,
		ComponentPrefix:     r.ComponentPrefix,
		ModuleNamespace:     r.ModuleNamespace,
		ProjectNamespace:    r.ProjectNamespace,
		PrimaryKeyType:      r.PrimaryKeyType,
		BasePath:            r.BasePath,
		DirectoryName:       r.DirectoryName,
		HasForm:             r.HasForm,
		HasListing:          r.HasListing,
		HasSelectList:       r.HasSelectList,
		SelectListModelType: r.SelectListModelType,
		SelectListDataType:  r.SelectListDataType,
		UIFramework:         r.UIFramework,
		Config:              r.Config,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	for _, file := range r.Files {
		f.Files = append(f.Files, &primary.FeatureFile{
			ID:       file.ID,
			FilePath: file.FilePath,
			FileName: file.FileName,
			Category: file.Category,
			Slice:    file.Slice,
			Size:     file.Size,
			Exists:   file.Exists,
		})
	}
	for _, p := range r.Projects {
		f.Projects = append(f.Projects, &primary.FeatureProject{
			ID:        p.ID,
			Category:  p.Category,
			Path:      p.Path,
			OutputDir: p.OutputDir,
			Namespace: p.Namespace,
		})
	}
	return f
}

// buildFeatureTree projects records into module, feature, category and file
// nodes. Modules and features are sorted by name; categories keep project
// order, then any category only seen on files.
func buildFeatureTree(records []*secondary.FeatureRecord) []*primary.TreeNode {
	modules := make(map[string]*primary.TreeNode)
	var order []string
	for _, r := range records {
		mod, ok := modules[r.ModuleNamespace]
		if !ok {
			mod = &primary.TreeNode{Kind: primary.TreeNodeModule, Name: r.ModuleNamespace}
			modules[r.ModuleNamespace] = mod
			order = append(order, r.ModuleNamespace)
		}

		feat := &primary.TreeNode{Kind: primary.TreeNodeFeature, Name: r.ComponentPrefix, FeatureID: r.ID}
		categories := make(map[string]*primary.TreeNode)
		addCategory := func(name, path string) *primary.TreeNode {
			if c, ok := categories[name]; ok {
				return c
			}
			c := &primary.TreeNode{Kind: primary.TreeNodeCategory, Name: name, Path: path}
			categories[name] = c
			feat.Children = append(feat.Children, c)
			return c
		}
		for _, p := range r.Projects {
			addCategory(p.Category, p.OutputDir)
		}
		for _, file := range r.Files {
			c := addCategory(file.Category, "")
			c.Children = append(c.Children, &primary.TreeNode{Kind: primary.TreeNodeFile, Name: file.FileName, Path: file.FilePath})
		}
		mod.Children = append(mod.Children, feat)
	}

	sort.Strings(order)
	out := make([]*primary.TreeNode, 0, len(order))
	for _, name := range order {
		mod := modules[name]
		sort.SliceStable(mod.Children, func(i, j int) bool { return mod.Children[i].Name < mod.Children[j].Name })
		out = append(out, mod)
	}
	return out
}

var _ primary.FeatureService = (*FeatureServiceImpl)(nil)
