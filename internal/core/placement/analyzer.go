package placement

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// Thresholds and suffixes used for suggestions.
const (
	maxAlternatives        = 3
	subNamespaceThreshold  = 5
	firstNumberedSuffix    = 2
	lastNumberedSuffix     = 5
	bestPracticeNameSuffix = "Management"
)

var semanticSuffixes = []string{"New", "Extended", "Advanced", "Pro", "Plus"}

// Analyze evaluates a proposed feature against the registry and the disk.
// This is a pure function - all input data must be pre-fetched.
func Analyze(in AnalysisInput) Guidance {
	g := Guidance{RootNamespace: in.ModuleNamespace}

	g.Conflicts = append(g.Conflicts, duplicateConflicts(in)...)
	g.Conflicts = append(g.Conflicts, overwriteConflicts(in)...)
	if !IsPascalIdentifier(in.ComponentPrefix) {
		g.Conflicts = append(g.Conflicts, Conflict{
			Type:     ConflictNamingConvention,
			Severity: SeverityWarning,
			Message:  "Component prefix doesn't follow recommended naming conventions",
			Details:  "Use PascalCase without spaces or special characters",
			Suggestions: uniqueNonEmpty(
				ToPascalCase(in.ComponentPrefix),
				RemoveSpecialCharacters(in.ComponentPrefix),
			),
		})
	}

	if g.HasConflicts() {
		g.Alternatives = AlternativeNames(in.ComponentPrefix, in.Existing)
		g.Suggestions = append(g.Suggestions, Suggestion{
			Type:              SuggestAlternativeName,
			Title:             "Alternative Component Names",
			Description:       "Consider these alternative names to avoid conflicts",
			RecommendedAction: "Change the component prefix to one of the suggested alternatives",
			Parameters:        map[string]string{"alternatives": strings.Join(g.Alternatives, ", ")},
		})
	}

	if n := countInModule(in.Existing, in.ModuleNamespace); n > subNamespaceThreshold {
		g.Suggestions = append(g.Suggestions, Suggestion{
			Type:              SuggestAlternativeNamespace,
			Title:             "Consider Sub-namespace",
			Description:       fmt.Sprintf("The '%s' namespace already contains %d features", in.ModuleNamespace, n),
			RecommendedAction: "Consider creating a sub-namespace for better organization",
			Parameters:        map[string]string{"suggestion": in.ModuleNamespace + "." + categoryFromPrefix(in.ComponentPrefix)},
		})
	}

	g.Suggestions = append(g.Suggestions, Suggestion{
		Type:              SuggestBestPractice,
		Title:             "Naming Best Practices",
		Description:       "Follow these conventions for better maintainability",
		RecommendedAction: "Use descriptive, PascalCase names that clearly indicate the feature's purpose",
		Parameters:        map[string]string{"example": ToPascalCase(in.ComponentPrefix) + bestPracticeNameSuffix},
	})

	g.NamespaceTree = BuildNamespaceTree(in.Existing, in.ModuleNamespace)
	g.ExistingFiles = existingFiles(in)
	return g
}

func duplicateConflicts(in AnalysisInput) []Conflict {
	for _, f := range in.Existing {
		if strings.EqualFold(f.ModuleNamespace, in.ModuleNamespace) && strings.EqualFold(f.ComponentPrefix, in.ComponentPrefix) {
			return []Conflict{{
				Type:     ConflictDuplicateFeatureName,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Feature '%s' already exists in namespace '%s'", in.ComponentPrefix, in.ModuleNamespace),
				Details:  fmt.Sprintf("Created on %s", f.CreatedAt.Format("Jan 02, 2006")),
				Suggestions: []string{
					in.ComponentPrefix + "2",
					in.ComponentPrefix + "New",
					in.ComponentPrefix + "Extended",
				},
			}}
		}
	}
	return nil
}

// overwriteConflicts emits at most one conflict per dry-run path.
func overwriteConflicts(in AnalysisInput) []Conflict {
	registered := make(map[string]string)
	for _, f := range in.Existing {
		for _, p := range f.FilePaths {
			registered[pathKey(p)] = p
		}
	}

	var out []Conflict
	seen := make(map[string]bool, len(in.DryRunFiles))
	for _, p := range in.DryRunFiles {
		key := pathKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true

		details := ""
		if existing, ok := registered[key]; ok {
			details = "Existing file: " + existing
		} else if _, ok := in.OnDisk[p]; ok {
			details = "File already exists on disk: " + p
		} else {
			continue
		}
		out = append(out, Conflict{
			Type:     ConflictFileOverwrite,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("File '%s' will overwrite existing file", filepath.Base(p)),
			Details:  details,
			FilePath: p,
			Suggestions: []string{
				"Choose a different component prefix",
				"Use a different namespace",
				"Backup existing file before generation",
			},
		})
	}
	return out
}

func existingFiles(in AnalysisInput) []ExistingFile {
	var out []ExistingFile
	seen := make(map[string]bool)
	for _, p := range in.DryRunFiles {
		st, ok := in.OnDisk[p]
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, ExistingFile{Path: p, Size: st.Size, ModTime: st.ModTime, WillBeOverwritten: true})
	}
	return out
}

// AlternativeNames proposes up to three unused component prefixes: numbered
// suffixes 2 through 5 first, then semantic suffixes. Names already used by
// any registered feature are excluded, ignoring case.
func AlternativeNames(prefix string, existing []ExistingFeature) []string {
	used := make(map[string]bool, len(existing))
	for _, f := range existing {
		used[strings.ToLower(f.ComponentPrefix)] = true
	}

	var candidates []string
	for i := firstNumberedSuffix; i <= lastNumberedSuffix; i++ {
		candidates = append(candidates, fmt.Sprintf("%s%d", prefix, i))
	}
	for _, s := range semanticSuffixes {
		candidates = append(candidates, prefix+s)
	}

	out := make([]string, 0, maxAlternatives)
	for _, c := range candidates {
		if used[strings.ToLower(c)] {
			continue
		}
		out = append(out, c)
		if len(out) == maxAlternatives {
			break
		}
	}
	return out
}

// BuildNamespaceTree groups existing features by module, ordered by module
// then prefix.
func BuildNamespaceTree(existing []ExistingFeature, target string) []NamespaceNode {
	byModule := make(map[string][]ExistingFeature)
	for _, f := range existing {
		byModule[f.ModuleNamespace] = append(byModule[f.ModuleNamespace], f)
	}
	modules := make([]string, 0, len(byModule))
	for m := range byModule {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	nodes := make([]NamespaceNode, 0, len(modules))
	for _, m := range modules {
		feats := byModule[m]
		sort.Slice(feats, func(i, j int) bool { return feats[i].ComponentPrefix < feats[j].ComponentPrefix })

		node := NamespaceNode{
			Name:                 m,
			FullPath:             m,
			Kind:                 NodeModule,
			ExistingFeatureCount: len(feats),
			IsTarget:             strings.EqualFold(m, target),
		}
		for _, f := range feats {
			node.Children = append(node.Children, NamespaceNode{
				Name:                 f.ComponentPrefix,
				FullPath:             m + "." + f.ComponentPrefix,
				Kind:                 NodeFeature,
				ExistingFeatureCount: 1,
			})
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func countInModule(existing []ExistingFeature, module string) int {
	n := 0
	for _, f := range existing {
		if strings.EqualFold(f.ModuleNamespace, module) {
			n++
		}
	}
	return n
}

func categoryFromPrefix(prefix string) string {
	lower := strings.ToLower(prefix)
	switch {
	case strings.Contains(lower, "user"):
		return "Users"
	case strings.Contains(lower, "product"):
		return "Products"
	case strings.Contains(lower, "order"):
		return "Orders"
	case strings.Contains(lower, "report"):
		return "Reports"
	}
	return "Features"
}

func pathKey(p string) string {
	return strings.ToLower(filepath.Clean(p))
}

// IsPascalIdentifier reports whether s starts with an uppercase letter and
// contains only letters and digits.
func IsPascalIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !unicode.IsUpper(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ToPascalCase splits on spaces, underscores and hyphens and capitalizes
// each word.
func ToPascalCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '_' || r == '-' })
	var b strings.Builder
	for _, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// RemoveSpecialCharacters drops everything but letters and digits.
func RemoveSpecialCharacters(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func uniqueNonEmpty(values ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
