package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/slicer/internal/core/template"
	"github.com/example/slicer/internal/ports/primary"
	"github.com/example/slicer/internal/ports/secondary"
)

// TemplateServiceImpl implements the TemplateService interface.
type TemplateServiceImpl struct {
	store  secondary.TemplateStore
	opts   template.Options
	logger *zap.Logger
}

// NewTemplateService creates a new TemplateService with injected dependencies.
func NewTemplateService(store secondary.TemplateStore, opts template.Options, logger *zap.Logger) *TemplateServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateServiceImpl{store: store, opts: opts, logger: logger}
}

// Render renders one (group, slice) combination. A combination without
// templates returns secondary.ErrUnsupportedCombination unchanged so callers
// can skip it.
func (s *TemplateServiceImpl) Render(ctx context.Context, group, slice string, params template.Params) (map[string]string, error) {
	// 1. Load sources
	sources, err := s.store.Load(ctx, group, slice)
	if err != nil {
		return nil, err
	}

	// 2. Render content and paths
	files, err := template.RenderFiles(sources, params, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s/%s: %w", group, slice, err)
	}

	s.logger.Debug("rendered templates",
		zap.String("group", group),
		zap.String("slice", slice),
		zap.Int("files", len(files)),
	)
	return files, nil
}

var _ primary.TemplateService = (*TemplateServiceImpl)(nil)
