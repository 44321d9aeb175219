package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"salat-server/di"
	"salat-server/models/prayer"
)

func newPurgeCmd() *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached prayer tables older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if before != "" {
				if _, err := prayer.ParseDate(before); err != nil {
					return fmt.Errorf("invalid --before %q: %w", before, err)
				}
			}
			return withContainer(cmd, func(c *di.Container) error {
				cutoff := before
				if cutoff == "" {
					cutoff = c.CacheMaintenanceService.Cutoff()
				}
				removed, err := c.CacheMaintenanceService.PurgeBefore(cmd.Context(), cutoff)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d records before %s\n", removed, cutoff)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "purge dates strictly before this yyyy-MM-dd (default: retention cutoff)")
	return cmd
}
