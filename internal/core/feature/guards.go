// Package feature contains the pure business logic for feature generation.
// Guards are pure functions that evaluate preconditions without side effects.
package feature

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateFeatureContext provides context for feature creation guards.
type CreateFeatureContext struct {
	ComponentPrefix string
	ModuleNamespace string
	DirectoryName   string
	Slices          []SliceKind
	Categories      []string
}

// RegenerateFeatureContext provides context for feature regeneration guards.
type RegenerateFeatureContext struct {
	FeatureID     int64
	FeatureExists bool
	Slices        []SliceKind
	Categories    []string
}

// DeleteFeatureContext provides context for feature deletion guards.
type DeleteFeatureContext struct {
	FeatureID     int64
	FeatureExists bool
}

// CanCreateFeature evaluates whether a feature can be generated.
// Uniqueness is checked separately against the registry.
func CanCreateFeature(ctx CreateFeatureContext) GuardResult {
	if strings.TrimSpace(ctx.ComponentPrefix) == "" {
		return GuardResult{Allowed: false, Reason: "component prefix is required"}
	}
	if strings.TrimSpace(ctx.ModuleNamespace) == "" {
		return GuardResult{Allowed: false, Reason: "module namespace is required"}
	}
	if strings.ContainsAny(ctx.DirectoryName, `/\`) || ctx.DirectoryName == ".." {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("directory name %q must be a single path element", ctx.DirectoryName),
		}
	}
	if len(ctx.Slices) == 0 {
		return GuardResult{Allowed: false, Reason: "at least one slice kind (listing, form, select-list) must be enabled"}
	}
	if dup := firstDuplicate(ctx.Categories); dup != "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("project category %s listed more than once", dup),
		}
	}
	return GuardResult{Allowed: true}
}

// CanRegenerateFeature evaluates whether a feature's output can be rebuilt.
func CanRegenerateFeature(ctx RegenerateFeatureContext) GuardResult {
	if !ctx.FeatureExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("feature %d not found", ctx.FeatureID)}
	}
	if len(ctx.Slices) == 0 {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("feature %d has no enabled slices", ctx.FeatureID)}
	}
	if len(ctx.Categories) == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("feature %d has no recorded projects; pass project descriptors to regenerate", ctx.FeatureID),
		}
	}
	if dup := firstDuplicate(ctx.Categories); dup != "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("project category %s listed more than once", dup),
		}
	}
	return GuardResult{Allowed: true}
}

// CanDeleteFeature evaluates whether a feature can be deleted.
func CanDeleteFeature(ctx DeleteFeatureContext) GuardResult {
	if !ctx.FeatureExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("feature %d not found", ctx.FeatureID)}
	}
	return GuardResult{Allowed: true}
}

func firstDuplicate(values []string) string {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if seen[key] {
			return v
		}
		seen[key] = true
	}
	return ""
}
