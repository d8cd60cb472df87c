// Package cli contains the blogctl authoring commands.
package cli

import (
	"fmt"
	"go-blog-app/internal/config"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	log     logger.Logger
	db      *sqlx.DB
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Blog authoring CLI",
	Long: `blogctl manages the content of the blog directly in its database.

Example usage:
  blogctl migrate                              # Apply database migrations
  blogctl category create Go                   # Add a category
  blogctl tag list                             # List tags
  blogctl article create --title Hello --body-file hello.md --category 1 --tag 2
  blogctl article publish 3                    # Make an article visible`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yml or ./configs/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setup loads the configuration and opens the database for every command.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadConfigFrom(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	log = logger.NewWithWriter(cfg.Log, cmd.ErrOrStderr())

	// A failed command skips the post-run hook.
	if db != nil {
		db.Close()
	}
	db, err = data.NewDB(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return err
	}
	log.Debug(fmt.Sprintf("connected to %s database", cfg.DB.Driver))
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}
