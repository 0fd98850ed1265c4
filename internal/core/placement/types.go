// Package placement contains the pure pre-flight analysis run before a
// feature is generated: conflicts, naming suggestions and the namespace tree.
package placement

import "time"

// Severity ranks a conflict.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ConflictType classifies a conflict.
type ConflictType string

const (
	ConflictDuplicateFeatureName ConflictType = "DuplicateFeatureName"
	ConflictFileOverwrite        ConflictType = "FileOverwrite"
	ConflictNamingConvention     ConflictType = "NamingConvention"
)

// Conflict is one problem found with a proposed feature.
type Conflict struct {
	Type        ConflictType
	Severity    Severity
	Message     string
	Details     string
	FilePath    string
	Suggestions []string
}

// SuggestionType classifies a suggestion.
type SuggestionType string

const (
	SuggestAlternativeName      SuggestionType = "AlternativeName"
	SuggestAlternativeNamespace SuggestionType = "AlternativeNamespace"
	SuggestBestPractice         SuggestionType = "BestPractice"
)

// Suggestion is advice attached to the guidance.
type Suggestion struct {
	Type              SuggestionType
	Title             string
	Description       string
	RecommendedAction string
	Parameters        map[string]string
}

// NodeKind distinguishes namespace tree levels.
type NodeKind string

const (
	NodeModule  NodeKind = "Module"
	NodeFeature NodeKind = "Feature"
)

// NamespaceNode is one node of the existing namespace hierarchy.
type NamespaceNode struct {
	Name                 string
	FullPath             string
	Kind                 NodeKind
	ExistingFeatureCount int
	IsTarget             bool // the module the proposed feature goes into
	Children             []NamespaceNode
}

// ExistingFile describes a planned output file already present on disk.
type ExistingFile struct {
	Path              string
	Size              int64
	ModTime           time.Time
	WillBeOverwritten bool
}

// Guidance is the full result of an analysis.
type Guidance struct {
	Conflicts     []Conflict
	Suggestions   []Suggestion
	Alternatives  []string
	RootNamespace string
	NamespaceTree []NamespaceNode
	ExistingFiles []ExistingFile
}

// HasConflicts reports whether any conflict was found.
func (g Guidance) HasConflicts() bool { return len(g.Conflicts) > 0 }

// HasErrors reports whether any conflict blocks generation.
func (g Guidance) HasErrors() bool { return g.count(SeverityError) > 0 }

// HasWarnings reports whether any conflict is a warning.
func (g Guidance) HasWarnings() bool { return g.count(SeverityWarning) > 0 }

// ConflictsOf returns the conflicts of a given type.
func (g Guidance) ConflictsOf(t ConflictType) []Conflict {
	var out []Conflict
	for _, c := range g.Conflicts {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

func (g Guidance) count(s Severity) int {
	n := 0
	for _, c := range g.Conflicts {
		if c.Severity == s {
			n++
		}
	}
	return n
}

// ExistingFeature is the slice of a registered feature the analysis needs.
type ExistingFeature struct {
	ID              int64
	ModuleNamespace string
	ComponentPrefix string
	CreatedAt       time.Time
	FilePaths       []string
}

// FileStat is what the caller knows about a planned path on disk.
type FileStat struct {
	Size    int64
	ModTime time.Time
}

// AnalysisInput contains pre-fetched data for an analysis.
type AnalysisInput struct {
	ComponentPrefix string
	ModuleNamespace string
	DryRunFiles     []string
	Existing        []ExistingFeature
	OnDisk          map[string]FileStat // keyed by dry-run path; absent means not on disk
}
