package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/slicer/internal/config"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a project config file with the defaults",
		Long:  `Write ./.slicer/config.yaml with the built-in defaults so they can be edited.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if err := config.Save(config.LocalConfigPath, config.Defaults(), force); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Config written to %s\n", config.LocalConfigPath)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  slicer detect")
			fmt.Fprintln(out, "  slicer feature create --prefix Order --module Sales --listing --form --project Controllers=src/Shop.Server")
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}
