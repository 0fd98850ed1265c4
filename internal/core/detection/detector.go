// Package detection classifies directories while looking for a solution root.
package detection

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Outcome constants for directory classification.
const (
	OutcomeSolutionMarker = "solution_marker" // contains a marker file such as *.sln
	OutcomeIndicators     = "indicators"      // enough subdirectories look like solution projects
	OutcomeNone           = "none"
)

// Default rule values.
const (
	DefaultMarkerExtension = ".sln"
	DefaultMinIndicators   = 2
)

// DefaultIndicators are substrings of sibling project directory names.
var DefaultIndicators = []string{"Platform", "WebPortal", "HybridApp", "ServiceContracts", "Server.DataServices"}

// DefaultExpectedProjects are the project names ValidatePaths looks for.
var DefaultExpectedProjects = []string{"ServiceContracts", "Server.DataServices", "Client.Shared"}

// DefaultProjectPatterns locate project directories below a root.
var DefaultProjectPatterns = []string{
	"*Platform*/*ServiceContracts*",
	"*Platform*/*Server.DataServices*",
	"*Platform*/*Client.Shared*",
	"*Platform*/*Razor*",
	"*WebPortal*/*WebPortal.Client*",
	"*WebPortal*/*WebPortal*",
	"*HybridApp*",
}

// Listing is the immediate content of one directory.
type Listing struct {
	Files []string
	Dirs  []string
}

// Rules parameterize root detection.
type Rules struct {
	MarkerExtension string
	Indicators      []string
	MinIndicators   int
}

// DefaultRules returns the built-in detection rules.
func DefaultRules() Rules {
	return Rules{
		MarkerExtension: DefaultMarkerExtension,
		Indicators:      DefaultIndicators,
		MinIndicators:   DefaultMinIndicators,
	}
}

// Classify decides whether a directory listing looks like a solution root
// and explains why.
func (r Rules) Classify(l Listing) (outcome, reason string) {
	if r.MarkerExtension != "" {
		for _, f := range l.Files {
			if strings.EqualFold(path.Ext(f), r.MarkerExtension) {
				return OutcomeSolutionMarker, fmt.Sprintf("found solution file %s", f)
			}
		}
	}

	min := r.MinIndicators
	if min <= 0 {
		min = DefaultMinIndicators
	}
	var matched []string
	for _, d := range l.Dirs {
		if containsAny(d, r.Indicators) {
			matched = append(matched, d)
		}
	}
	if len(matched) >= min {
		sort.Strings(matched)
		return OutcomeIndicators, fmt.Sprintf("found project directories %s", strings.Join(matched, ", "))
	}
	return OutcomeNone, ""
}

// CountExpected returns how many expected names occur as substrings of the
// detected project names.
func CountExpected(detected, expected []string) int {
	n := 0
	for _, want := range expected {
		for _, name := range detected {
			if strings.Contains(name, want) {
				n++
				break
			}
		}
	}
	return n
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
