package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/slicer/internal/wire"
)

// AnalyzeCmd returns the analyze command
func AnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Check a proposed feature for conflicts before generating it",
		Long: `Check a proposed feature against the registry and the files on disk.

Reports duplicate names, files that would be overwritten, alternative names and
the existing namespace layout. Nothing is written. Exits non-zero when a
conflict would block generation.`,
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

			g, err := wire.PlacementAdapterWithOutput(cmd.OutOrStdout()).Analyze(ctx, req)
			if err != nil {
				return err
			}
			if g.HasErrors() {
				return errors.New("analysis found blocking conflicts")
			}
			return nil
		},
	}
	addRequestFlags(cmd)
	return cmd
}

// DetectCmd returns the detect command
func DetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [dir]",
		Short: "Detect the solution root and its projects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := "."
			if len(args) == 1 {
				start = args[0]
			}
			_, err := wire.PathAdapterWithOutput(cmd.OutOrStdout()).Detect(context.Background(), start)
			return err
		},
	}
}
