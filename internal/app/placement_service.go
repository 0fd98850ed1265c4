package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/slicer/internal/core/placement"
	"github.com/example/slicer/internal/ports/primary"
	"github.com/example/slicer/internal/ports/secondary"
)

// PlacementServiceImpl implements the PlacementService interface.
// It only reads from the registry and the workspace.
type PlacementServiceImpl struct {
	repo      secondary.FeatureRepository
	workspace secondary.Workspace
	logger    *zap.Logger
}

// NewPlacementService creates a new PlacementService with injected dependencies.
func NewPlacementService(repo secondary.FeatureRepository, workspace secondary.Workspace, logger *zap.Logger) *PlacementServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementServiceImpl{repo: repo, workspace: workspace, logger: logger}
}

// Analyze checks a proposed feature against registered features and the
// files already on disk.
func (s *PlacementServiceImpl) Analyze(ctx context.Context, req primary.AnalyzeRequest) (*placement.Guidance, error) {
	// 1. Fetch registered features
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}
	existing := make([]placement.ExistingFeature, 0, len(records))
	for _, r := range records {
		ef := placement.ExistingFeature{
			ID:              r.ID,
			ModuleNamespace: r.ModuleNamespace,
			ComponentPrefix: r.ComponentPrefix,
			CreatedAt:       r.CreatedAt,
		}
		for _, f := range r.Files {
			ef.FilePaths = append(ef.FilePaths, f.FilePath)
		}
		existing = append(existing, ef)
	}

	// 2. Stat planned paths
	onDisk := make(map[string]placement.FileStat)
	for _, p := range req.DryRunFiles {
		info, err := s.workspace.Stat(ctx, p)
		if err != nil {
			return nil, err
		}
		if info != nil && !info.IsDir {
			onDisk[p] = placement.FileStat{Size: info.Size, ModTime: info.ModTime}
		}
	}

	// 3. Pure analysis
	guidance := placement.Analyze(placement.AnalysisInput{
		ComponentPrefix: req.ComponentPrefix,
		ModuleNamespace: req.ModuleNamespace,
		DryRunFiles:     req.DryRunFiles,
		Existing:        existing,
		OnDisk:          onDisk,
	})
	s.logger.Debug("placement analyzed",
		zap.String("module", req.ModuleNamespace),
		zap.String("prefix", req.ComponentPrefix),
		zap.Int("conflicts", len(guidance.Conflicts)),
	)
	return &guidance, nil
}

var _ primary.PlacementService = (*PlacementServiceImpl)(nil)
