package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/slicer/internal/cli"
	"github.com/example/slicer/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "slicer",
		Short:   "slicer - feature slice generator for layered Blazor solutions",
		Version: version.String(),
		Long: `slicer renders template groups into the projects of a solution, one feature
at a time, records what it wrote in a local registry and patches the service
registration and navigation manifests.`,
	}
	cli.Setup(rootCmd)

	// Generation
	rootCmd.AddCommand(cli.FeatureCmd())
	rootCmd.AddCommand(cli.AnalyzeCmd())
	rootCmd.AddCommand(cli.RenderCmd())

	// Environment
	rootCmd.AddCommand(cli.DetectCmd())
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DBCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
