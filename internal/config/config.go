// Package config loads slicer configuration from file, environment and
// defaults, and validates it before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/example/slicer/internal/core/detection"
	corefeature "github.com/example/slicer/internal/core/feature"
)

// EnvPrefix prefixes every environment override, e.g. SLICER_DATABASE_PATH.
const EnvPrefix = "SLICER"

// LocalConfigPath is the project-level config file, relative to the working directory.
var LocalConfigPath = filepath.Join(".slicer", "config.yaml")

// Config is the complete slicer configuration.
type Config struct {
	Database   DatabaseConfig    `mapstructure:"database"`
	Templates  TemplatesConfig   `mapstructure:"templates"`
	Categories map[string]string `mapstructure:"categories" validate:"required,min=1,dive,keys,required,endkeys,required"`
	Injection  InjectionConfig   `mapstructure:"injection"`
	Detection  DetectionConfig   `mapstructure:"detection"`
	Log        LogConfig         `mapstructure:"log"`
}

// DatabaseConfig locates the registry database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// TemplatesConfig controls the template store and rendering.
type TemplatesConfig struct {
	Dir           string        `mapstructure:"dir" validate:"required"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
	LineEnding    string        `mapstructure:"line_ending" validate:"oneof=lf crlf"`
	BlockedSuffix string        `mapstructure:"blocked_suffix"`
}

// InjectionConfig names the manifests patched after generation.
type InjectionConfig struct {
	Registration       TargetConfig `mapstructure:"registration"`
	ClientRegistration TargetConfig `mapstructure:"client_registration"`
	Navigation         TargetConfig `mapstructure:"navigation"`
}

// TargetConfig is one manifest file, relative to the feature base path.
// An empty file disables the target.
type TargetConfig struct {
	File   string `mapstructure:"file"`
	Marker string `mapstructure:"marker" validate:"required_with=File"`
}

// DetectionConfig parameterizes solution root detection.
type DetectionConfig struct {
	MarkerExtension  string   `mapstructure:"marker_extension"`
	Indicators       []string `mapstructure:"indicators" validate:"min=1"`
	MinIndicators    int      `mapstructure:"min_indicators" validate:"min=1"`
	ExpectedProjects []string `mapstructure:"expected_projects"`
	ProjectPatterns  []string `mapstructure:"project_patterns"`
	MaxDepth         int      `mapstructure:"max_depth" validate:"min=1,max=16"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	Production bool   `mapstructure:"production"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Database: DatabaseConfig{Path: filepath.Join("~", ".slicer", "slicer.db")},
		Templates: TemplatesConfig{
			Dir:           "Templates",
			CacheTTL:      10 * time.Minute,
			LineEnding:    "lf",
			BlockedSuffix: "_",
		},
		Categories: corefeature.DefaultGroups(),
		Injection: InjectionConfig{
			Registration: TargetConfig{File: "Extensions/FeaturesRegistrationExt.cs", Marker: corefeature.RegistrationMarker},
			Navigation:   TargetConfig{File: "Components/Layout/NavMenu.razor", Marker: corefeature.NavigationMarker},
			ClientRegistration: TargetConfig{
				Marker: corefeature.ClientRegistrationMarker,
			},
		},
		Detection: DetectionConfig{
			MarkerExtension:  detection.DefaultMarkerExtension,
			Indicators:       detection.DefaultIndicators,
			MinIndicators:    detection.DefaultMinIndicators,
			ExpectedProjects: detection.DefaultExpectedProjects,
			ProjectPatterns:  detection.DefaultProjectPatterns,
			MaxDepth:         4,
		},
		Log: LogConfig{Level: "info", File: filepath.Join("~", ".slicer", "slicer.log")},
	}
}

// Load reads configuration. With an explicit file only that file is read
// and it must exist. Otherwise ./.slicer/config.yaml is used when present,
// then ~/.config/slicer/config.yaml; no file at all means defaults only.
// SLICER_* environment variables override file values. The returned string
// is the file actually read, or empty.
func Load(explicitFile string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case explicitFile != "":
		v.SetConfigFile(explicitFile)
	case fileExists(LocalConfigPath):
		v.SetConfigFile(LocalConfigPath)
	default:
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "slicer"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitFile != "" || !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.expandPaths()

	if err := Validate(&cfg); err != nil {
		return nil, "", err
	}
	return &cfg, v.ConfigFileUsed(), nil
}

// Validate checks struct constraints on a loaded configuration.
func Validate(cfg *Config) error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("templates.dir", d.Templates.Dir)
	v.SetDefault("templates.cache_ttl", d.Templates.CacheTTL.String())
	v.SetDefault("templates.line_ending", d.Templates.LineEnding)
	v.SetDefault("templates.blocked_suffix", d.Templates.BlockedSuffix)
	v.SetDefault("categories", map[string]string(d.Categories))
	v.SetDefault("injection.registration.file", d.Injection.Registration.File)
	v.SetDefault("injection.registration.marker", d.Injection.Registration.Marker)
	v.SetDefault("injection.client_registration.file", d.Injection.ClientRegistration.File)
	v.SetDefault("injection.client_registration.marker", d.Injection.ClientRegistration.Marker)
	v.SetDefault("injection.navigation.file", d.Injection.Navigation.File)
	v.SetDefault("injection.navigation.marker", d.Injection.Navigation.Marker)
	v.SetDefault("detection.marker_extension", d.Detection.MarkerExtension)
	v.SetDefault("detection.indicators", d.Detection.Indicators)
	v.SetDefault("detection.min_indicators", d.Detection.MinIndicators)
	v.SetDefault("detection.expected_projects", d.Detection.ExpectedProjects)
	v.SetDefault("detection.project_patterns", d.Detection.ProjectPatterns)
	v.SetDefault("detection.max_depth", d.Detection.MaxDepth)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.production", d.Log.Production)
}

func (c *Config) expandPaths() {
	c.Database.Path = expandHome(c.Database.Path)
	c.Templates.Dir = expandHome(c.Templates.Dir)
	c.Log.File = expandHome(c.Log.File)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Save writes cfg as YAML to path, creating its directory. Existing files
// are only replaced when overwrite is set.
func Save(path string, cfg Config, overwrite bool) error {
	if !overwrite && fileExists(path) {
		return fmt.Errorf("config file %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(document(cfg))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// document mirrors the viper key layout so a saved file loads back unchanged.
func document(c Config) map[string]any {
	target := func(t TargetConfig) map[string]any {
		return map[string]any{"file": t.File, "marker": t.Marker}
	}
	return map[string]any{
		"database": map[string]any{"path": c.Database.Path},
		"templates": map[string]any{
			"dir":            c.Templates.Dir,
			"cache_ttl":      c.Templates.CacheTTL.String(),
			"line_ending":    c.Templates.LineEnding,
			"blocked_suffix": c.Templates.BlockedSuffix,
		},
		"categories": map[string]string(c.Categories),
		"injection": map[string]any{
			"registration":        target(c.Injection.Registration),
			"client_registration": target(c.Injection.ClientRegistration),
			"navigation":          target(c.Injection.Navigation),
		},
		"detection": map[string]any{
			"marker_extension":  c.Detection.MarkerExtension,
			"indicators":        c.Detection.Indicators,
			"min_indicators":    c.Detection.MinIndicators,
			"expected_projects": c.Detection.ExpectedProjects,
			"project_patterns":  c.Detection.ProjectPatterns,
			"max_depth":         c.Detection.MaxDepth,
		},
		"log": map[string]any{
			"level":      c.Log.Level,
			"file":       c.Log.File,
			"production": c.Log.Production,
		},
	}
}
