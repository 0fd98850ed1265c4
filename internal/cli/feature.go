package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/slicer/internal/adapters/cli"
	"github.com/example/slicer/internal/ports/primary"
	"github.com/example/slicer/internal/wire"
)

var featureCmd = &cobra.Command{
	Use:   "feature",
	Short: "Generate and manage feature slices",
	Long:  "Create, preview, regenerate, list, show and delete generated features in the slicer registry",
}

var featureCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a feature and record it",
	Example: `  slicer feature create --prefix Order --module Sales --listing --form \
    --project ServiceContracts=src/Shop.Contracts --project Controllers=src/Shop.Server`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		req, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := resolveBasePath(ctx, cmd, &req, wire.PathService()); err != nil {
			return err
		}

		if _, err := wire.FeatureAdapterWithOutput(cmd.OutOrStdout()).Create(ctx, req); err != nil {
			return fmt.Errorf("failed to create feature: %w", err)
		}
		return nil
	},
}

var featurePreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the files a feature would produce without writing",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		req, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}
		if req.BasePath == "" {
			root, err := wire.PathService().DetectRoot(ctx, ".")
			if err != nil {
				return err
			}
			req.BasePath = root.Path
		}

		opts := cliadapter.PreviewOptions{}
		opts.ShowContent, _ = cmd.Flags().GetBool("content")
		opts.Diff, _ = cmd.Flags().GetBool("diff")
		_, err = wire.FeatureAdapterWithOutput(cmd.OutOrStdout()).Preview(ctx, req, opts)
		return err
	},
}

var featureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded features",
	RunE: func(cmd *cobra.Command, args []string) error {
		module, _ := cmd.Flags().GetString("module")
		_, err := wire.FeatureAdapterWithOutput(cmd.OutOrStdout()).List(context.Background(), module)
		return err
	},
}

var featureShowCmd = &cobra.Command{
	Use:   "show [feature-id]",
	Short: "Show a feature with its projects and files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseFeatureID(args[0])
		if err != nil {
			return err
		}
		_, err = wire.FeatureAdapterWithOutput(cmd.OutOrStdout()).Show(context.Background(), id)
		return err
	},
}

var featureTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show features grouped by module, project category and file",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.FeatureAdapterWithOutput(cmd.OutOrStdout()).Tree(context.Background())
		return err
	},
}

var featureRegenerateCmd = &cobra.Command{
	Use:   "regenerate [feature-id]",
	Short: "Rebuild a feature's files from its stored parameters",
	Long: `Rebuild a feature's files from its stored parameters.

Without --project the stored projects are reused. Manifests are patched again,
so registration and navigation blocks are inserted a second time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseFeatureID(args[0])
		if err != nil {
			return err
		}
		values, _ := cmd.Flags().GetStringArray("project")
		projects, err := parseProjects(values)
		if err != nil {
			return err
		}

		_, err = wire.FeatureAdapterWithOutput(cmd.OutOrStdout()).Regenerate(context.Background(), primary.RegenerateFeatureRequest{
			FeatureID: id,
			Projects:  projects,
		})
		if err != nil {
			return fmt.Errorf("failed to regenerate feature: %w", err)
		}
		return nil
	},
}

var featureDeleteCmd = &cobra.Command{
	Use:   "delete [feature-id]",
	Short: "Delete a feature from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseFeatureID(args[0])
		if err != nil {
			return err
		}
		deleteFiles, _ := cmd.Flags().GetBool("files")
		_, err = wire.FeatureAdapterWithOutput(cmd.OutOrStdout()).Delete(context.Background(), id, deleteFiles)
		return err
	},
}

func parseFeatureID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid feature ID %q: expected a positive number", s)
	}
	return id, nil
}

// FeatureCmd returns the feature command
func FeatureCmd() *cobra.Command {
	// Add flags
	addRequestFlags(featureCreateCmd)
	addRequestFlags(featurePreviewCmd)
	featurePreviewCmd.Flags().Bool("content", false, "Print the rendered content of new files")
	featurePreviewCmd.Flags().Bool("diff", false, "Diff against files already on disk")
	featureListCmd.Flags().StringP("module", "m", "", "Filter by module namespace")
	featureRegenerateCmd.Flags().StringArray("project", nil, "Target project as Category=path[@Namespace] (repeatable)")
	featureDeleteCmd.Flags().Bool("files", false, "Also delete the feature's generated files")

	// Add subcommands
	featureCmd.AddCommand(featureCreateCmd)
	featureCmd.AddCommand(featurePreviewCmd)
	featureCmd.AddCommand(featureListCmd)
	featureCmd.AddCommand(featureShowCmd)
	featureCmd.AddCommand(featureTreeCmd)
	featureCmd.AddCommand(featureRegenerateCmd)
	featureCmd.AddCommand(featureDeleteCmd)

	return featureCmd
}
