// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/slicer/internal/ports/primary"
	"github.com/example/slicer/internal/ports/secondary"
)

// FeatureAdapter is a thin adapter that translates CLI operations to FeatureService calls.
type FeatureAdapter struct {
	service   primary.FeatureService
	workspace secondary.Workspace // reads existing files for preview diffs
	out       io.Writer
}

// NewFeatureAdapter creates a new FeatureAdapter with the given service.
func NewFeatureAdapter(service primary.FeatureService, workspace secondary.Workspace, out io.Writer) *FeatureAdapter {
	return &FeatureAdapter{service: service, workspace: workspace, out: out}
}

// Create generates a feature and reports what was written.
func (a *FeatureAdapter) Create(ctx context.Context, req primary.CreateFeatureRequest) (*primary.CreateFeatureResponse, error) {
	resp, err := a.service.CreateFeature(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Created feature %d: %s.%s\n", resp.FeatureID, resp.Feature.ModuleNamespace, resp.Feature.ComponentPrefix)
	a.printGeneration(resp)
	return resp, nil
}

// Regenerate rebuilds a feature's files and reports what was written.
func (a *FeatureAdapter) Regenerate(ctx context.Context, req primary.RegenerateFeatureRequest) (*primary.CreateFeatureResponse, error) {
	resp, err := a.service.RegenerateFeature(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Regenerated feature %d: %s.%s\n", resp.FeatureID, resp.Feature.ModuleNamespace, resp.Feature.ComponentPrefix)
	a.printGeneration(resp)
	return resp, nil
}

func (a *FeatureAdapter) printGeneration(resp *primary.CreateFeatureResponse) {
	fmt.Fprintf(a.out, "  Projects: %d\n", len(resp.Feature.Projects))
	fmt.Fprintf(a.out, "  Files:    %d\n", len(resp.Feature.Files))
	for _, f := range resp.Feature.Files {
		fmt.Fprintf(a.out, "    %s\n", f.FilePath)
	}
	for _, s := range resp.Skipped {
		if s.Slice != "" {
			fmt.Fprintf(a.out, "  %s %s/%s: %s\n", color.New(color.FgYellow).Sprint("skipped"), s.Category, s.Slice, s.Reason)
		} else {
			fmt.Fprintf(a.out, "  %s %s: %s\n", color.New(color.FgYellow).Sprint("skipped"), s.Category, s.Reason)
		}
	}
	for _, inj := range resp.Injections {
		fmt.Fprintf(a.out, "  %s %s %s\n", outcomeLabel(inj.Outcome), inj.Kind, inj.TargetFile)
	}
}

func outcomeLabel(outcome string) string {
	switch secondary.InjectionOutcome(outcome) {
	case secondary.InjectionApplied:
		return color.New(color.FgGreen).Sprint("✓")
	case secondary.InjectionMissingMarker:
		return color.New(color.FgYellow).Sprint("! no marker in")
	case secondary.InjectionMissingTarget:
		return color.New(color.FgYellow).Sprint("! missing")
	default:
		return outcome
	}
}

// PreviewOptions controls preview output.
type PreviewOptions struct {
	ShowContent bool // print rendered content of new files
	Diff        bool // diff against files already on disk
}

// Preview renders a feature without writing and prints the plan.
func (a *FeatureAdapter) Preview(ctx context.Context, req primary.CreateFeatureRequest, opts PreviewOptions) (*primary.PreviewFeatureResponse, error) {
	resp, err := a.service.PreviewFeature(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(resp.Files) == 0 {
		fmt.Fprintln(a.out, "No files would be generated.")
	}
	for _, f := range resp.Files {
		label := color.New(color.FgGreen).Sprint("CREATE ")
		var existing []byte
		if a.workspace != nil {
			info, err := a.workspace.Stat(ctx, f.Path)
			if err != nil {
				return nil, err
			}
			if info != nil {
				label = color.New(color.FgBlue).Sprint("EXISTS ")
				if opts.Diff {
					existing, err = a.workspace.ReadFile(ctx, f.Path)
					if err != nil {
						return nil, err
					}
				}
			}
		}

		fmt.Fprintf(a.out, "%s %s (%d bytes)\n", label, f.Path, f.Size)
		switch {
		case existing != nil:
			if d := LineDiff(string(existing), f.Content); d != "" {
				fmt.Fprint(a.out, indent(d, "    "))
			} else {
				fmt.Fprintln(a.out, "    (unchanged)")
			}
		case opts.ShowContent:
			fmt.Fprint(a.out, indent(f.Content, "    "))
			if !strings.HasSuffix(f.Content, "\n") {
				fmt.Fprintln(a.out)
			}
		}
	}
	for _, s := range resp.Skipped {
		fmt.Fprintf(a.out, "%s %s %s: %s\n", color.New(color.FgYellow).Sprint("SKIP   "), s.Category, s.Slice, s.Reason)
	}
	return resp, nil
}

// List lists features with an optional module filter.
func (a *FeatureAdapter) List(ctx context.Context, module string) ([]*primary.Feature, error) {
	features, err := a.service.ListFeatures(ctx, primary.FeatureFilters{ModuleNamespace: module})
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}

	if len(features) == 0 {
		fmt.Fprintln(a.out, "No features found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Generate your first feature:")
		fmt.Fprintln(a.out, "  slicer feature create --prefix Order --module Sales --listing --form")
		return features, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tMODULE\tPREFIX\tSLICES\tFILES\tCREATED")
	fmt.Fprintln(w, "--\t------\t------\t------\t-----\t-------")
	for _, f := range features {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			f.ID,
			f.ModuleNamespace,
			f.ComponentPrefix,
			sliceSummary(f),
			len(f.Files),
			f.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	w.Flush()
	return features, nil
}

// Show displays details for a single feature.
func (a *FeatureAdapter) Show(ctx context.Context, featureID int64) (*primary.Feature, error) {
	f, err := a.service.GetFeature(ctx, featureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get feature: %w", err)
	}

	fmt.Fprintf(a.out, "\nFeature: %d\n", f.ID)
	fmt.Fprintf(a.out, "Name:        %s\n", f.Name)
	fmt.Fprintf(a.out, "Module:      %s\n", f.ModuleNamespace)
	fmt.Fprintf(a.out, "Prefix:      %s\n", f.ComponentPrefix)
	fmt.Fprintf(a.out, "Primary key: %s\n", f.PrimaryKeyType)
	fmt.Fprintf(a.out, "Slices:      %s\n", sliceSummary(f))
	fmt.Fprintf(a.out, "UI:          %s\n", f.UIFramework)
	fmt.Fprintf(a.out, "Base path:   %s\n", f.BasePath)
	fmt.Fprintf(a.out, "Created:     %s\n", f.CreatedAt.Format("2006-01-02 15:04:05"))
	if !f.UpdatedAt.IsZero() {
		fmt.Fprintf(a.out, "Updated:     %s\n", f.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if len(f.Projects) > 0 {
		fmt.Fprintln(a.out, "\nProjects:")
		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		for _, p := range f.Projects {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", p.Category, p.Namespace, p.OutputDir)
		}
		w.Flush()
	}
	if len(f.Files) > 0 {
		fmt.Fprintln(a.out, "\nFiles:")
		for _, file := range f.Files {
			fmt.Fprintf(a.out, "  [%s/%s] %s (%d bytes)\n", file.Category, file.Slice, file.FilePath, file.Size)
		}
	}
	fmt.Fprintln(a.out)
	return f, nil
}

// Tree prints the module, feature, category and file hierarchy.
func (a *FeatureAdapter) Tree(ctx context.Context) ([]*primary.TreeNode, error) {
	nodes, err := a.service.GetFeatureTree(ctx)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		fmt.Fprintln(a.out, "No features found.")
		return nodes, nil
	}
	for _, n := range nodes {
		printTree(a.out, n, "")
	}
	return nodes, nil
}

func printTree(out io.Writer, n *primary.TreeNode, prefix string) {
	switch n.Kind {
	case primary.TreeNodeModule:
		fmt.Fprintf(out, "%s%s\n", prefix, color.New(color.Bold).Sprint(n.Name))
	case primary.TreeNodeFeature:
		fmt.Fprintf(out, "%s%s (#%d)\n", prefix, n.Name, n.FeatureID)
	default:
		fmt.Fprintf(out, "%s%s\n", prefix, n.Name)
	}
	for _, c := range n.Children {
		printTree(out, c, prefix+"  ")
	}
}

// Delete deletes a feature and optionally its tracked files.
func (a *FeatureAdapter) Delete(ctx context.Context, featureID int64, deleteFiles bool) (*primary.DeleteFeatureResponse, error) {
	f, err := a.service.GetFeature(ctx, featureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get feature: %w", err)
	}

	resp, err := a.service.DeleteFeature(ctx, primary.DeleteFeatureRequest{FeatureID: featureID, DeleteFiles: deleteFiles})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Deleted feature %d: %s.%s\n", f.ID, f.ModuleNamespace, f.ComponentPrefix)
	if deleteFiles {
		fmt.Fprintf(a.out, "  Files deleted: %d\n", len(resp.DeletedFiles))
	}
	for _, p := range resp.FailedFiles {
		fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgRed).Sprint("could not delete"), p)
	}
	return resp, nil
}

func sliceSummary(f *primary.Feature) string {
	var parts []string
	if f.HasListing {
		parts = append(parts, "listing")
	}
	if f.HasForm {
		parts = append(parts, "form")
	}
	if f.HasSelectList {
		parts = append(parts, "select-list")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func indent(text, prefix string) string {
	lines := strings.SplitAfter(text, "\n")
	var sb strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		sb.WriteString(prefix)
		sb.WriteString(l)
	}
	return sb.String()
}
