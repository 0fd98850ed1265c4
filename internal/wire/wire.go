// Package wire provides dependency injection for slicer.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/slicer/internal/adapters/cli"
	"github.com/example/slicer/internal/adapters/filesystem"
	"github.com/example/slicer/internal/adapters/inflect"
	"github.com/example/slicer/internal/adapters/sqlite"
	"github.com/example/slicer/internal/app"
	"github.com/example/slicer/internal/config"
	"github.com/example/slicer/internal/core/detection"
	corefeature "github.com/example/slicer/internal/core/feature"
	"github.com/example/slicer/internal/core/template"
	"github.com/example/slicer/internal/db"
	"github.com/example/slicer/internal/logging"
	"github.com/example/slicer/internal/ports/primary"
)

var (
	cfg    = defaultConfig()
	logger = zap.NewNop()

	database         *sql.DB
	workspace        *filesystem.WorkspaceAdapter
	templateStore    *filesystem.TemplateStore
	featureService   primary.FeatureService
	templateService  primary.TemplateService
	placementService primary.PlacementService
	pathService      primary.PathService
	once             sync.Once
)

func defaultConfig() *config.Config {
	c := config.Defaults()
	return &c
}

// Configure sets the configuration and logger used by initServices. It must
// be called before the first service accessor.
func Configure(c *config.Config, l *zap.Logger) {
	if c != nil {
		cfg = c
	}
	if l != nil {
		logger = l
	}
}

// FeatureService returns the singleton FeatureService instance.
func FeatureService() primary.FeatureService {
	once.Do(initServices)
	return featureService
}

// TemplateService returns the singleton TemplateService instance.
func TemplateService() primary.TemplateService {
	once.Do(initServices)
	return templateService
}

// PlacementService returns the singleton PlacementService instance.
func PlacementService() primary.PlacementService {
	once.Do(initServices)
	return placementService
}

// PathService returns the singleton PathService instance.
func PathService() primary.PathService {
	once.Do(initServices)
	return pathService
}

// TemplateStore returns the singleton template store.
func TemplateStore() *filesystem.TemplateStore {
	once.Do(initServices)
	return templateStore
}

// Close releases the database connection, if one was opened.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error

	// Get database connection
	database, err = db.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.String("path", cfg.Database.Path), zap.Error(err))
	}

	// Create secondary adapters
	repo := sqlite.NewFeatureRepository(database)
	workspace = filesystem.NewWorkspaceAdapter()
	templateStore = filesystem.NewTemplateStore(cfg.Templates.Dir, cfg.Templates.CacheTTL, logger.Named(logging.ComponentTemplates))
	injector := filesystem.NewMarkerInjector(logger.Named(logging.ComponentInjector))

	// Create effect executor with injected adapters
	executor := app.NewEffectExecutor(workspace, repo, injector, logger.Named(logging.ComponentFeatures))

	// Create services (primary ports implementation)
	opts, err := TemplateOptions(cfg)
	if err != nil {
		logger.Fatal("invalid template options", zap.Error(err))
	}
	templateService = app.NewTemplateService(templateStore, opts, logger.Named(logging.ComponentTemplates))
	featureService = app.NewFeatureService(repo, templateService, inflect.NewPluralizer(), executor, FeatureSettings(cfg), logger.Named(logging.ComponentFeatures))
	placementService = app.NewPlacementService(repo, workspace, logger.Named(logging.ComponentPlacement))
	pathService, err = app.NewPathService(workspace, workspace, PathSettings(cfg), logger.Named(logging.ComponentDetector))
	if err != nil {
		logger.Fatal("invalid project patterns", zap.Error(err))
	}
}

// TemplateOptions derives rendering options from configuration.
func TemplateOptions(c *config.Config) (template.Options, error) {
	le, err := template.ParseLineEnding(c.Templates.LineEnding)
	if err != nil {
		return template.Options{}, err
	}
	return template.Options{LineEnding: le, BlockedSuffix: c.Templates.BlockedSuffix}, nil
}

// FeatureSettings derives the category mapping and manifest targets from
// configuration. Targets without a file are left out.
func FeatureSettings(c *config.Config) app.FeatureSettings {
	settings := app.FeatureSettings{Groups: corefeature.GroupMap{}}
	for category, group := range c.Categories {
		settings.Groups[category] = group
	}

	add := func(kind string, t config.TargetConfig, side corefeature.Side) {
		if t.File == "" {
			return
		}
		settings.Targets = append(settings.Targets, corefeature.InjectionTarget{Kind: kind, File: t.File, Marker: t.Marker, Side: side})
	}
	add(corefeature.InjectRegistration, c.Injection.Registration, corefeature.SideServer)
	add(corefeature.InjectRegistration, c.Injection.ClientRegistration, corefeature.SideClient)
	add(corefeature.InjectNavigation, c.Injection.Navigation, "")
	return settings
}

// PathSettings derives detection settings from configuration.
func PathSettings(c *config.Config) app.PathSettings {
	return app.PathSettings{
		Rules: detection.Rules{
			MarkerExtension: c.Detection.MarkerExtension,
			Indicators:      c.Detection.Indicators,
			MinIndicators:   c.Detection.MinIndicators,
		},
		ExpectedProjects: c.Detection.ExpectedProjects,
		ProjectPatterns:  c.Detection.ProjectPatterns,
		MaxDepth:         c.Detection.MaxDepth,
	}
}

// FeatureAdapter returns a new FeatureAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func FeatureAdapter() *cliadapter.FeatureAdapter {
	return FeatureAdapterWithOutput(os.Stdout)
}

// FeatureAdapterWithOutput returns a new FeatureAdapter writing to the given output.
func FeatureAdapterWithOutput(out io.Writer) *cliadapter.FeatureAdapter {
	once.Do(initServices)
	return cliadapter.NewFeatureAdapter(featureService, workspace, out)
}

// PlacementAdapter returns a new PlacementAdapter writing to stdout.
func PlacementAdapter() *cliadapter.PlacementAdapter {
	return PlacementAdapterWithOutput(os.Stdout)
}

// PlacementAdapterWithOutput returns a new PlacementAdapter writing to the given output.
func PlacementAdapterWithOutput(out io.Writer) *cliadapter.PlacementAdapter {
	once.Do(initServices)
	return cliadapter.NewPlacementAdapter(featureService, placementService, out)
}

// PathAdapter returns a new PathAdapter writing to stdout.
func PathAdapter() *cliadapter.PathAdapter {
	return PathAdapterWithOutput(os.Stdout)
}

// PathAdapterWithOutput returns a new PathAdapter writing to the given output.
func PathAdapterWithOutput(out io.Writer) *cliadapter.PathAdapter {
	once.Do(initServices)
	return cliadapter.NewPathAdapter(pathService, out)
}
