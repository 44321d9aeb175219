// Package cli holds the salat command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"salat-server/config"
	"salat-server/di"
)

type contextKey struct{}

// NewRootCmd builds the command tree. Config is loaded once before any subcommand runs.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "salat",
		Short: "salat - daily prayer times server",
		Long: `salat resolves daily prayer tables for a location and date,
keeping one cached table per civil date and falling back to it when the
provider is unreachable.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.SetupLogger()
			cmd.SetContext(context.WithValue(cmd.Context(), contextKey{}, cfg))
			return nil
		},
	}

	rootCmd.AddCommand(newServeCmd(), newResolveCmd(), newNextCmd(), newPurgeCmd())
	return rootCmd
}

// Execute runs the root command until ctx is canceled.
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configFrom(cmd *cobra.Command) *config.Config {
	cfg, _ := cmd.Context().Value(contextKey{}).(*config.Config)
	return cfg
}

func withContainer(cmd *cobra.Command, fn func(c *di.Container) error) error {
	c, err := di.NewContainer(cmd.Context(), configFrom(cmd))
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
