package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/slicer/internal/core/placement"
	"github.com/example/slicer/internal/ports/primary"
)

// PlacementAdapter runs a pre-flight analysis for a proposed feature.
type PlacementAdapter struct {
	features  primary.FeatureService
	placement primary.PlacementService
	out       io.Writer
}

// NewPlacementAdapter creates a new PlacementAdapter.
func NewPlacementAdapter(features primary.FeatureService, placement primary.PlacementService, out io.Writer) *PlacementAdapter {
	return &PlacementAdapter{features: features, placement: placement, out: out}
}

// Analyze previews the feature to learn its output paths, then checks them
// and the name against the registry.
func (a *PlacementAdapter) Analyze(ctx context.Context, req primary.CreateFeatureRequest) (*placement.Guidance, error) {
	preview, err := a.features.PreviewFeature(ctx, req)
	if err != nil {
		return nil, err
	}
	dryRun := make([]string, 0, len(preview.Files))
	for _, f := range preview.Files {
		dryRun = append(dryRun, f.Path)
	}

	g, err := a.placement.Analyze(ctx, primary.AnalyzeRequest{
		ComponentPrefix: req.ComponentPrefix,
		ModuleNamespace: req.ModuleNamespace,
		DryRunFiles:     dryRun,
	})
	if err != nil {
		return nil, err
	}
	PrintGuidance(a.out, g)
	return g, nil
}

// PrintGuidance writes an analysis report.
func PrintGuidance(out io.Writer, g *placement.Guidance) {
	if !g.HasConflicts() {
		fmt.Fprintf(out, "%s no conflicts\n", color.New(color.FgGreen).Sprint("✓"))
	}
	for _, c := range g.Conflicts {
		fmt.Fprintf(out, "%s %s: %s\n", severityLabel(c.Severity), c.Type, c.Message)
		if c.Details != "" {
			fmt.Fprintf(out, "    %s\n", c.Details)
		}
		for _, s := range c.Suggestions {
			fmt.Fprintf(out, "    try: %s\n", s)
		}
	}

	if len(g.Alternatives) > 0 {
		fmt.Fprintln(out, "\nAlternative names:")
		for _, alt := range g.Alternatives {
			fmt.Fprintf(out, "  %s\n", alt)
		}
	}

	if len(g.ExistingFiles) > 0 {
		fmt.Fprintln(out, "\nFiles that would be overwritten:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, f := range g.ExistingFiles {
			fmt.Fprintf(w, "  %s\t%d bytes\t%s\n", f.Path, f.Size, f.ModTime.Format("2006-01-02 15:04"))
		}
		w.Flush()
	}

	if len(g.Suggestions) > 0 {
		fmt.Fprintln(out, "\nSuggestions:")
		for _, s := range g.Suggestions {
			fmt.Fprintf(out, "  %s: %s\n", s.Title, s.Description)
			keys := make([]string, 0, len(s.Parameters))
			for k := range s.Parameters {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "    %s: %s\n", k, s.Parameters[k])
			}
		}
	}

	if len(g.NamespaceTree) > 0 {
		fmt.Fprintln(out, "\nExisting namespaces:")
		for _, m := range g.NamespaceTree {
			marker := ""
			if m.IsTarget {
				marker = color.New(color.FgCyan).Sprint(" <- target")
			}
			fmt.Fprintf(out, "  %s (%d)%s\n", m.Name, m.ExistingFeatureCount, marker)
			for _, f := range m.Children {
				fmt.Fprintf(out, "    %s\n", f.Name)
			}
		}
	}
}

func severityLabel(s placement.Severity) string {
	switch s {
	case placement.SeverityError:
		return color.New(color.FgRed).Sprint("ERROR  ")
	case placement.SeverityWarning:
		return color.New(color.FgYellow).Sprint("WARNING")
	default:
		return color.New(color.FgBlue).Sprint("INFO   ")
	}
}

// PathAdapter reports solution root and project detection.
type PathAdapter struct {
	service primary.PathService
	out     io.Writer
}

// NewPathAdapter creates a new PathAdapter.
func NewPathAdapter(service primary.PathService, out io.Writer) *PathAdapter {
	return &PathAdapter{service: service, out: out}
}

// Detect finds the root above start, lists its projects and validates them.
func (a *PathAdapter) Detect(ctx context.Context, start string) (*primary.RootDetection, error) {
	root, err := a.service.DetectRoot(ctx, start)
	if err != nil {
		return nil, err
	}
	if root.Confident {
		fmt.Fprintf(a.out, "%s Solution root: %s\n", color.New(color.FgGreen).Sprint("✓"), root.Path)
	} else {
		fmt.Fprintf(a.out, "%s Solution root (fallback): %s\n", color.New(color.FgYellow).Sprint("!"), root.Path)
	}
	fmt.Fprintf(a.out, "  %s\n", root.Reason)

	projects, err := a.service.DetectProjectPaths(ctx, root.Path)
	if err != nil {
		return nil, err
	}
	if len(projects) > 0 {
		fmt.Fprintln(a.out, "\nProjects:")
		names := make([]string, 0, len(projects))
		for name := range projects {
			names = append(names, name)
		}
		sort.Strings(names)
		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		for _, name := range names {
			fmt.Fprintf(w, "  %s\t%s\n", name, projects[name])
		}
		w.Flush()
	}

	v, err := a.service.ValidateDetectedPaths(ctx, root.Path, projects)
	if err != nil {
		return nil, err
	}
	if v.Valid {
		fmt.Fprintf(a.out, "\n%s %d of %d expected projects found\n", color.New(color.FgGreen).Sprint("✓"), v.ExpectedFound, len(v.Expected))
	} else {
		fmt.Fprintf(a.out, "\n%s none of the expected projects were found\n", color.New(color.FgYellow).Sprint("!"))
	}
	return root, nil
}
