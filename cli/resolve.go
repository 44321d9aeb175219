package cli

import (
	"github.com/spf13/cobra"

	"salat-server/di"
	"salat-server/models/prayer"
	"salat-server/server/handlers"
)

type locationFlags struct {
	lat, lon       float64
	date, location string
	refresh        bool
}

func (f *locationFlags) register(cmd *cobra.Command, withRefresh bool) {
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "longitude in degrees")
	cmd.Flags().StringVar(&f.date, "date", "", "civil date (yyyy-MM-dd), defaults to today")
	cmd.Flags().StringVar(&f.location, "location", "", "location label stored with the table")
	if withRefresh {
		cmd.Flags().BoolVar(&f.refresh, "refresh", false, "skip the cache lookup and fetch from the provider")
	}
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
}

func (f *locationFlags) request() prayer.ResolutionRequest {
	return prayer.ResolutionRequest{
		Latitude:     f.lat,
		Longitude:    f.lon,
		Date:         f.date,
		LocationName: f.location,
		ForceRefresh: f.refresh,
	}
}

func newResolveCmd() *cobra.Command {
	var flags locationFlags
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the prayer table for a location and date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(c *di.Container) error {
				resolution, err := c.PrayerTimeService.Resolve(cmd.Context(), flags.request())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resolution)
			})
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newNextCmd() *cobra.Command {
	var flags locationFlags
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the next prayer and the time left until it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(c *di.Container) error {
				resolution, err := c.PrayerTimeService.Resolve(cmd.Context(), flags.request())
				if err != nil {
					return err
				}
				response, err := handlers.BuildNextPrayerResponse(resolution, c.PrayerTimeService.Now())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), response)
			})
		},
	}
	flags.register(cmd, false)
	return cmd
}
