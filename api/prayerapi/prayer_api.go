package prayerapi

import (
	"context"
	"errors"

	"salat-server/models"
)

// ErrProviderRejected marks a well-formed response the provider flagged as
// unsuccessful, or one without a usable table.
var ErrProviderRejected = errors.New("prayer times provider rejected the request")

// PrayerTimesAPI is the remote time-table provider.
type PrayerTimesAPI interface {
	// GetPrayerTimes returns a validated response; any other outcome is an error.
	// date is yyyy-MM-dd and may be empty for the provider's today.
	GetPrayerTimes(ctx context.Context, lat, lon float64, date string) (*models.PrayerTimesResponse, error)
}
