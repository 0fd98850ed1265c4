package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/example/slicer/internal/core/template"
	"github.com/example/slicer/internal/wire"
)

// RenderCmd returns the render command
func RenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [group] [slice]",
		Short: "Render one template group and slice to stdout",
		Example: `  slicer render Controllers Listing --set ComponentPrefix=Order --set moduleNamespace=Sales
  slicer render --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list, _ := cmd.Flags().GetBool("list"); list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list, _ := cmd.Flags().GetBool("list"); list {
				groups, err := wire.TemplateStore().Groups()
				if err != nil {
					return err
				}
				names := make([]string, 0, len(groups))
				for g := range groups {
					names = append(names, g)
				}
				sort.Strings(names)
				for _, g := range names {
					slices := groups[g]
					sort.Strings(slices)
					fmt.Fprintf(out, "%s: %v\n", g, slices)
				}
				return nil
			}

			set, _ := cmd.Flags().GetStringToString("set")
			params := template.Params{}
			for k, v := range set {
				params[k] = v
			}

			files, err := wire.TemplateService().Render(context.Background(), args[0], args[1], params)
			if err != nil {
				return fmt.Errorf("failed to render %s/%s: %w", args[0], args[1], err)
			}
			for _, rel := range template.SortedPaths(files) {
				fmt.Fprintf(out, "==> %s <==\n%s\n", rel, files[rel])
			}
			return nil
		},
	}
	cmd.Flags().StringToString("set", nil, "Template parameter key=value (repeatable)")
	cmd.Flags().Bool("list", false, "List template groups and their slices")
	return cmd
}
