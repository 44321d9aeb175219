package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"salat-server/di"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the periodic cache purge",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(c *di.Container) error {
				ctx := cmd.Context()

				if _, err := c.CacheMaintenanceService.PurgeStale(ctx); err != nil {
					log.Error().Err(err).Msg("initial cache purge failed")
				}
				if err := c.CacheMaintenanceService.StartPeriodicJob(ctx, c.Config.CachePurgeInterval); err != nil {
					log.Error().Err(err).Msg("periodic cache purge disabled")
				}

				return c.PrayerHttpServer.Start(ctx)
			})
		},
	}
}
