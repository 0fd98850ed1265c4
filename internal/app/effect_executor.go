// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/example/slicer/internal/core/effects"
	corefeature "github.com/example/slicer/internal/core/feature"
	"github.com/example/slicer/internal/ctxutil"
	"github.com/example/slicer/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) (*ExecutionReport, error)
}

// ExecutionReport summarizes what a run of effects did.
type ExecutionReport struct {
	FilesWritten int
	FilesRemoved int
	Injections   []InjectionReport
}

// InjectionReport is the outcome of one InjectEffect.
type InjectionReport struct {
	Kind       string
	TargetFile string
	Outcome    secondary.InjectionOutcome
}

// DefaultEffectExecutor implements EffectExecutor over the secondary ports.
type DefaultEffectExecutor struct {
	workspace secondary.Workspace
	repo      secondary.FeatureRepository
	injector  secondary.MarkerInjector
	logger    *zap.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(
	workspace secondary.Workspace,
	repo secondary.FeatureRepository,
	injector secondary.MarkerInjector,
	logger *zap.Logger,
) *DefaultEffectExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultEffectExecutor{
		workspace: workspace,
		repo:      repo,
		injector:  injector,
		logger:    logger,
	}
}

// Execute processes a slice of effects, executing each in sequence. The
// first failure stops the run; effects already executed are kept.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) (*ExecutionReport, error) {
	report := &ExecutionReport{}
	if err := e.run(ctx, effs, report); err != nil {
		return report, err
	}
	return report, nil
}

func (e *DefaultEffectExecutor) run(ctx context.Context, effs []effects.Effect, report *ExecutionReport) error {
	for _, eff := range effs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.executeOne(ctx, eff, report); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect, report *ExecutionReport) error {
	switch typed := eff.(type) {
	case effects.FileEffect:
		return e.executeFile(ctx, typed, report)
	case effects.PersistEffect:
		return e.executePersist(ctx, typed)
	case effects.InjectEffect:
		return e.executeInject(ctx, typed, report)
	case effects.LogEffect:
		e.executeLog(ctx, typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeFile(ctx context.Context, eff effects.FileEffect, report *ExecutionReport) error {
	switch eff.Operation {
	case "write":
		if err := e.workspace.WriteFile(ctx, eff.Path, eff.Content, eff.Mode); err != nil {
			return err
		}
		report.FilesWritten++
		return nil
	case "remove":
		if err := e.workspace.RemoveFile(ctx, eff.Path); err != nil {
			return err
		}
		report.FilesRemoved++
		return nil
	default:
		return fmt.Errorf("unknown file operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) executePersist(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Entity {
	case corefeature.EntityProject:
		return e.executeProjectOp(ctx, eff)
	case corefeature.EntityFile:
		return e.executeFileOp(ctx, eff)
	default:
		return fmt.Errorf("unknown entity: %s", eff.Entity)
	}
}

func (e *DefaultEffectExecutor) executeProjectOp(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Operation {
	case "create":
		data, ok := eff.Data.(corefeature.PlannedProject)
		if !ok {
			return fmt.Errorf("invalid feature project data type: %T", eff.Data)
		}
		return e.repo.RecordProject(ctx, &secondary.FeatureProjectRecord{
			FeatureID: data.FeatureID,
			Category:  data.Category,
			Path:      data.Path,
			OutputDir: data.OutputDir,
			Namespace: data.Namespace,
		})
	default:
		return fmt.Errorf("unknown feature project operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) executeFileOp(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Operation {
	case "create":
		data, ok := eff.Data.(corefeature.PlannedFile)
		if !ok {
			return fmt.Errorf("invalid feature file data type: %T", eff.Data)
		}
		return e.repo.RecordFile(ctx, &secondary.FeatureFileRecord{
			FeatureID: data.FeatureID,
			FilePath:  data.Path,
			FileName:  filepath.Base(data.Path),
			Category:  data.Category,
			Slice:     string(data.Slice),
			Size:      data.Size(),
			Exists:    true,
		})
	default:
		return fmt.Errorf("unknown feature file operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) executeInject(ctx context.Context, eff effects.InjectEffect, report *ExecutionReport) error {
	outcome, err := e.injector.Inject(ctx, eff.TargetFile, eff.Lines, eff.Marker)
	if err != nil {
		return err
	}
	report.Injections = append(report.Injections, InjectionReport{
		Kind:       eff.Kind,
		TargetFile: eff.TargetFile,
		Outcome:    outcome,
	})
	if outcome != secondary.InjectionApplied {
		e.logger.Warn("injection skipped",
			zap.String("generation_id", ctxutil.GenerationIDFromContext(ctx)),
			zap.String("kind", eff.Kind),
			zap.String("file", eff.TargetFile),
			zap.String("outcome", string(outcome)),
		)
	}
	return nil
}

func (e *DefaultEffectExecutor) executeLog(ctx context.Context, eff effects.LogEffect) {
	fields := make([]zap.Field, 0, len(eff.Fields)+1)
	fields = append(fields, zap.String("generation_id", ctxutil.GenerationIDFromContext(ctx)))
	for k, v := range eff.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	switch eff.Level {
	case "debug":
		e.logger.Debug(eff.Message, fields...)
	case "warn":
		e.logger.Warn(eff.Message, fields...)
	case "error":
		e.logger.Error(eff.Message, fields...)
	default:
		e.logger.Info(eff.Message, fields...)
	}
}
