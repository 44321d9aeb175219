package prayerapi

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"salat-server/models"
)

// BreakerSettings configures the provider circuit breaker.
type BreakerSettings struct {
	// FailureThreshold consecutive failures trip the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of probes allowed while half-open.
	HalfOpenRequests uint32
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		HalfOpenRequests: 1,
	}
}

// BreakerPrayerApiClient fails fast while the provider keeps failing.
type BreakerPrayerApiClient struct {
	next    PrayerTimesAPI
	breaker *gobreaker.CircuitBreaker[*models.PrayerTimesResponse]
}

func NewBreakerPrayerApiClient(next PrayerTimesAPI, s BreakerSettings) *BreakerPrayerApiClient {
	settings := gobreaker.Settings{
		Name:        "prayer-times-api",
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.FailureThreshold
		},
		// Caller cancellation is not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}
	return &BreakerPrayerApiClient{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[*models.PrayerTimesResponse](settings),
	}
}

func (c *BreakerPrayerApiClient) GetPrayerTimes(ctx context.Context, lat, lon float64, date string) (*models.PrayerTimesResponse, error) {
	return c.breaker.Execute(func() (*models.PrayerTimesResponse, error) {
		return c.next.GetPrayerTimes(ctx, lat, lon, date)
	})
}

// State reports the breaker state, mainly for diagnostics.
func (c *BreakerPrayerApiClient) State() gobreaker.State {
	return c.breaker.State()
}
