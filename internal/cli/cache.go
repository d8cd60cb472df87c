package cli

import (
	"fmt"
	"go-blog-app/internal/cache"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the rendered-article cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired entries from the render cache",
	Args:  cobra.NoArgs,
	RunE:  runCachePurge,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return err
	}
	defer c.Close()

	n, err := c.Purge(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired entries.\n", n)
	return nil
}
