package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/example/slicer/internal/adapters/inflect"
	"github.com/example/slicer/internal/core/detection"
	corefeature "github.com/example/slicer/internal/core/feature"
	"github.com/example/slicer/internal/ports/primary"
)

// errAborted is returned when the user declines to write under a fallback root.
var errAborted = errors.New("aborted")

// addRequestFlags registers the flags shared by create, preview and analyze.
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Read the request from a YAML file (flags override its values)")
	cmd.Flags().String("profile", "", "Code profile JSON supplying projects and UI framework")
	cmd.Flags().StringP("name", "n", "", "Feature display name (default: prefix)")
	cmd.Flags().StringP("prefix", "p", "", "Component prefix, e.g. Order")
	cmd.Flags().StringP("module", "m", "", "Module namespace, e.g. Sales")
	cmd.Flags().String("project-namespace", "", "Root project namespace")
	cmd.Flags().String("pk", "int", "Primary key type")
	cmd.Flags().String("base-path", "", "Solution root to write under (default: detected)")
	cmd.Flags().String("dir", "", "Feature directory name (default: plural of prefix)")
	cmd.Flags().Bool("listing", false, "Generate the listing slice")
	cmd.Flags().Bool("form", false, "Generate the form slice")
	cmd.Flags().Bool("select-list", false, "Generate the select list slice")
	cmd.Flags().String("select-model", "", "Select list model type")
	cmd.Flags().String("select-data", "", "Select list data type")
	cmd.Flags().String("ui", "", "UI framework (Bootstrap, FluentUI, MudBlazor, Radzen, TailwindCSS)")
	cmd.Flags().StringArray("project", nil, "Target project as Category=path[@Namespace] (repeatable)")
	cmd.Flags().StringToString("set", nil, "Extra template parameter key=value (repeatable)")
	cmd.Flags().BoolP("yes", "y", false, "Write under a fallback root without asking")
}

// requestFromFlags builds a request from --file, --profile and the request
// flags, in that order of precedence from lowest to highest.
func requestFromFlags(cmd *cobra.Command) (primary.CreateFeatureRequest, error) {
	var req primary.CreateFeatureRequest
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		r, err := loadRequestFile(file)
		if err != nil {
			return req, err
		}
		req = *r
	}
	if file, _ := cmd.Flags().GetString("profile"); file != "" {
		p, err := loadProfile(file)
		if err != nil {
			return req, err
		}
		req.Profile = p
	}

	flags := cmd.Flags()
	stringFlag := func(name string, dst *string) {
		if flags.Changed(name) || *dst == "" {
			if v, _ := flags.GetString(name); v != "" {
				*dst = v
			}
		}
	}
	boolFlag := func(name string, dst *bool) {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}
	stringFlag("name", &req.Name)
	stringFlag("prefix", &req.ComponentPrefix)
	stringFlag("module", &req.ModuleNamespace)
	stringFlag("project-namespace", &req.ProjectNamespace)
	stringFlag("pk", &req.PrimaryKeyType)
	stringFlag("base-path", &req.BasePath)
	stringFlag("dir", &req.DirectoryName)
	stringFlag("select-model", &req.SelectListModelType)
	stringFlag("select-data", &req.SelectListDataType)
	stringFlag("ui", &req.UIFramework)
	boolFlag("listing", &req.HasListing)
	boolFlag("form", &req.HasForm)
	boolFlag("select-list", &req.HasSelectList)

	if flags.Changed("project") {
		values, _ := flags.GetStringArray("project")
		projects, err := parseProjects(values)
		if err != nil {
			return req, err
		}
		req.Projects = projects
	}
	if flags.Changed("set") {
		extra, _ := flags.GetStringToString("set")
		if req.Extra == nil {
			req.Extra = map[string]string{}
		}
		for k, v := range extra {
			req.Extra[k] = v
		}
	}

	if req.DirectoryName == "" && req.ComponentPrefix != "" {
		req.DirectoryName = inflect.NewPluralizer().Pluralize(req.ComponentPrefix)
	}
	if len(req.Projects) == 0 && (req.Profile == nil || len(req.Profile.Projects) == 0) {
		return req, fmt.Errorf("no target projects: pass --project, --profile or --file")
	}
	return req, nil
}

// parseProjects parses Category=path[@Namespace] descriptors.
func parseProjects(values []string) ([]primary.ProjectDescriptor, error) {
	out := make([]primary.ProjectDescriptor, 0, len(values))
	for _, v := range values {
		category, rest, ok := strings.Cut(v, "=")
		if !ok || category == "" {
			return nil, fmt.Errorf("invalid project %q: expected Category=path[@Namespace]", v)
		}
		path, namespace, _ := strings.Cut(rest, "@")
		out = append(out, primary.ProjectDescriptor{Category: category, Path: path, Namespace: namespace})
	}
	return out, nil
}

func loadRequestFile(path string) (*primary.CreateFeatureRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}
	var req primary.CreateFeatureRequest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse request file %s: %w", path, err)
	}
	return &req, nil
}

func loadProfile(path string) (*corefeature.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p corefeature.Profile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &p, nil
}

// resolveBasePath fills req.BasePath from root detection when it was not
// given, asking before writing under a fallback root.
func resolveBasePath(ctx context.Context, cmd *cobra.Command, req *primary.CreateFeatureRequest, paths primary.PathService) error {
	explicit := req.BasePath != ""
	in := detection.RootDecisionInput{ExplicitPath: explicit, Interactive: isatty.IsTerminal(os.Stdin.Fd())}
	in.AssumeYes, _ = cmd.Flags().GetBool("yes")

	if !explicit {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		root, err := paths.DetectRoot(ctx, cwd)
		if err != nil {
			return fmt.Errorf("failed to detect solution root: %w", err)
		}
		req.BasePath = root.Path
		in.Confident = root.Confident
		in.DetectedReason = root.Reason
	}

	return applyRootAction(detection.SelectAction(in), req.BasePath, cmd.InOrStdin(), cmd.OutOrStdout())
}

func applyRootAction(action detection.Action, basePath string, in io.Reader, out io.Writer) error {
	switch action.Type {
	case detection.ActionProceed:
		if action.Message != "" {
			logger.Warn(action.Message, zap.String("base_path", basePath))
		}
		return nil
	case detection.ActionConfirm:
		fmt.Fprintf(out, "%s: %s\nProceed? [y/N] ", action.Message, basePath)
		answer, _ := bufio.NewReader(in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return nil
		}
		return errAborted
	default:
		return errors.New(action.Message)
	}
}
