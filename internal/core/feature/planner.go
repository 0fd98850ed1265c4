package feature

import (
	"fmt"
	"path/filepath"

	"github.com/example/slicer/internal/core/effects"
	"github.com/example/slicer/internal/core/template"
)

// Persist entities produced by GenerateCreatePlan.
const (
	EntityProject = "feature_project"
	EntityFile    = "feature_file"
)

// Injection kinds.
const (
	InjectRegistration = "registration"
	InjectNavigation   = "navigation"
)

// ProjectInput is one target project descriptor.
type ProjectInput struct {
	Category  string
	Path      string
	Namespace string
}

// RenderKey addresses one rendered (group, slice) template set.
type RenderKey struct {
	Group string
	Slice SliceKind
}

// CreatePlanInput contains pre-fetched data for feature generation.
// Rendered holds only the (group, slice) combinations that have templates.
type CreatePlanInput struct {
	FeatureID     int64
	BasePath      string
	DirectoryName string
	Projects      []ProjectInput
	Slices        []SliceKind
	Groups        GroupMap
	Rendered      map[RenderKey]map[string]string
}

// PlannedProject is a project descriptor resolved to its output directory.
type PlannedProject struct {
	FeatureID int64
	Category  string
	Group     string
	Path      string
	OutputDir string
	Namespace string
}

// PlannedFile is one rendered file and where it goes.
type PlannedFile struct {
	FeatureID    int64
	Category     string
	Group        string
	Slice        SliceKind
	Path         string
	RelativePath string
	Content      string
}

// Size is the byte length of the rendered content.
func (f PlannedFile) Size() int64 { return int64(len(f.Content)) }

// SkippedItem records a descriptor or slice that produced nothing.
type SkippedItem struct {
	Category string
	Slice    SliceKind
	Reason   string
}

// CreatePlan represents the planned effects for generating a feature.
type CreatePlan struct {
	FeatureID int64
	Projects  []PlannedProject
	Files     []PlannedFile
	Skipped   []SkippedItem
	ops       []effects.Effect
}

// Effects returns the plan as an ordered effect list: each project record is
// followed by its files, each file write by its file record.
func (p CreatePlan) Effects() []effects.Effect {
	out := make([]effects.Effect, len(p.ops))
	copy(out, p.ops)
	return out
}

// GenerateCreatePlan plans file output and registry records for a feature.
// This is a pure function - all templates must be rendered beforehand.
func GenerateCreatePlan(input CreatePlanInput) CreatePlan {
	plan := CreatePlan{FeatureID: input.FeatureID}

	for _, proj := range input.Projects {
		// 1. Resolve the template group; unknown categories are skipped
		group, ok := input.Groups.Resolve(proj.Category)
		if !ok {
			plan.skip(SkippedItem{
				Category: proj.Category,
				Reason:   fmt.Sprintf("no template group for category %s", proj.Category),
			})
			continue
		}

		// 2. Record the project with its output directory
		outputDir := filepath.Join(input.BasePath, filepath.FromSlash(proj.Path), input.DirectoryName)
		planned := PlannedProject{
			FeatureID: input.FeatureID,
			Category:  proj.Category,
			Group:     group,
			Path:      proj.Path,
			OutputDir: outputDir,
			Namespace: proj.Namespace,
		}
		plan.Projects = append(plan.Projects, planned)
		plan.ops = append(plan.ops, effects.PersistEffect{Entity: EntityProject, Operation: "create", Data: planned})

		// 3. Write and record every file of every enabled slice
		for _, slice := range input.Slices {
			files, ok := input.Rendered[RenderKey{Group: group, Slice: slice}]
			if !ok {
				plan.skip(SkippedItem{
					Category: proj.Category,
					Slice:    slice,
					Reason:   fmt.Sprintf("no %s templates in group %s", slice, group),
				})
				continue
			}
			for _, rel := range template.SortedPaths(files) {
				f := PlannedFile{
					FeatureID:    input.FeatureID,
					Category:     proj.Category,
					Group:        group,
					Slice:        slice,
					Path:         filepath.Join(outputDir, filepath.FromSlash(rel)),
					RelativePath: rel,
					Content:      files[rel],
				}
				plan.Files = append(plan.Files, f)
				plan.ops = append(plan.ops,
					effects.FileEffect{Operation: "write", Path: f.Path, Content: []byte(f.Content), Mode: 0644},
					effects.PersistEffect{Entity: EntityFile, Operation: "create", Data: f},
				)
			}
		}
	}

	return plan
}

// skip records a skipped item and the notice logged for it when the plan runs.
func (p *CreatePlan) skip(item SkippedItem) {
	p.Skipped = append(p.Skipped, item)
	fields := map[string]any{"category": item.Category, "reason": item.Reason}
	if item.Slice != "" {
		fields["slice"] = string(item.Slice)
	}
	p.ops = append(p.ops, effects.LogEffect{Level: "info", Message: "template group skipped", Fields: fields})
}

// InjectionTarget is one manifest file patched after generation.
type InjectionTarget struct {
	Kind   string
	File   string // relative to the base path
	Marker string
	Side   Side // registration targets only
}

// InjectionPlanInput contains pre-fetched data for manifest patching.
type InjectionPlanInput struct {
	BasePath string
	Params   template.Params
	Flags    SliceFlags
	Targets  []InjectionTarget
}

// GenerateInjectionPlan plans the manifest patches for a generated feature,
// in target order. Navigation targets are skipped for features without a
// listing and a notice is planned in their place. This is a pure function.
func GenerateInjectionPlan(input InjectionPlanInput) []effects.Effect {
	var out []effects.Effect
	for _, t := range input.Targets {
		if t.File == "" {
			continue
		}
		var lines []string
		switch t.Kind {
		case InjectRegistration:
			side := t.Side
			if side == "" {
				side = SideServer
			}
			lines = RegistrationLines(input.Params, input.Flags.Enabled(), side)
		case InjectNavigation:
			if !NeedsNavigation(input.Flags) {
				out = append(out, effects.LogEffect{
					Level:   "info",
					Message: "navigation skipped: feature has no listing",
					Fields:  map[string]any{"file": t.File},
				})
				continue
			}
			lines = NavigationLines(input.Params)
		default:
			continue
		}
		if len(lines) == 0 {
			continue
		}
		out = append(out, effects.InjectEffect{
			Kind:       t.Kind,
			TargetFile: filepath.Join(input.BasePath, filepath.FromSlash(t.File)),
			Marker:     t.Marker,
			Lines:      lines,
		})
	}
	return out
}
