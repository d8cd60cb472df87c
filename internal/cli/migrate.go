package cli

import (
	"fmt"
	"go-blog-app/internal/data"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply every pending up migration for the configured database driver.

Migrations are read from <db.migrations>/<db.driver>.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	path := cfg.DB.MigrationsPath()
	log.Debug("applying migrations from " + path)
	if err := data.ApplyMigrations(db, path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
	return nil
}
