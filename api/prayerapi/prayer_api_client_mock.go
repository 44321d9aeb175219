package prayerapi

import (
	"context"

	"github.com/rs/zerolog/log"

	"salat-server/models"
	"salat-server/util"
)

// PrayerApiClientMock serves a fixture response from disk.
type PrayerApiClientMock struct {
	responsePath string
}

// NewPrayerApiClientMock creates a new instance of PrayerApiClientMock
func NewPrayerApiClientMock(responsePath string) *PrayerApiClientMock {
	return &PrayerApiClientMock{responsePath: responsePath}
}

// GetPrayerTimes ignores the coordinates and returns the fixture.
func (c *PrayerApiClientMock) GetPrayerTimes(_ context.Context, lat, lon float64, date string) (*models.PrayerTimesResponse, error) {
	response, err := util.ReadPrayerTimesResponseFromJSON(c.responsePath)
	if err != nil {
		log.Error().Err(err).Str("path", c.responsePath).Msg("could not read prayer times response from json")
		return nil, err
	}
	if err := CheckResponse(response); err != nil {
		return nil, err
	}
	return response, nil
}
