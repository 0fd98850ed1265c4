package cli

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/slicer/internal/db"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the registry database",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply, revert or inspect schema migrations",
}

var dbMigrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(conn *sql.DB) error {
			if err := db.Migrate(conn); err != nil {
				return err
			}
			return printVersion(cmd, conn)
		})
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		return withDatabase(func(conn *sql.DB) error {
			if err := db.MigrateDown(conn, steps); err != nil {
				return err
			}
			return printVersion(cmd, conn)
		})
	},
}

var dbMigrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(conn *sql.DB) error {
			return printVersion(cmd, conn)
		})
	},
}

// withDatabase opens the configured database without migrating it.
func withDatabase(fn func(conn *sql.DB) error) error {
	conn, err := db.OpenWithoutMigrate(loadedConfig.Database.Path)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func printVersion(cmd *cobra.Command, conn *sql.DB) error {
	version, dirty, err := db.Version(conn)
	if err != nil {
		return err
	}
	state := ""
	if dirty {
		state = " (dirty)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d%s\n", version, state)
	return nil
}

// DBCmd returns the db command
func DBCmd() *cobra.Command {
	dbMigrateDownCmd.Flags().Int("steps", 1, "Number of migrations to revert")

	dbMigrateCmd.AddCommand(dbMigrateUpCmd)
	dbMigrateCmd.AddCommand(dbMigrateDownCmd)
	dbMigrateCmd.AddCommand(dbMigrateVersionCmd)
	dbCmd.AddCommand(dbMigrateCmd)

	return dbCmd
}
