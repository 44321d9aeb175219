package prayerapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"salat-server/api"
	"salat-server/models"
	"salat-server/prayertime"
)

// PrayerApiClient embeds the common HTTPClient
type PrayerApiClient struct {
	*api.HTTPClient
	endpoint string
	apiKey   string
	method   int
	school   int
}

// NewPrayerApiClient creates a client with a fixed calculation method and school.
func NewPrayerApiClient(httpClient *api.HTTPClient, endpoint, apiKey string, method, school int) *PrayerApiClient {
	return &PrayerApiClient{
		HTTPClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
		method:     method,
		school:     school,
	}
}

// GetPrayerTimes fetches the table for (lat, lon, date).
func (c *PrayerApiClient) GetPrayerTimes(ctx context.Context, lat, lon float64, date string) (*models.PrayerTimesResponse, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("method", strconv.Itoa(c.method))
	query.Set("school", strconv.Itoa(c.school))
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}
	if date != "" {
		query.Set("date", date)
	}

	var response models.PrayerTimesResponse
	if err := c.Request(ctx, "GET", c.endpoint, query, nil, nil, &response); err != nil {
		return nil, err
	}
	if err := CheckResponse(&response); err != nil {
		return nil, err
	}
	return &response, nil
}

// CheckResponse accepts only code 200 with a non-null payload whose primary
// times parse. The table is normalized in place.
func CheckResponse(response *models.PrayerTimesResponse) error {
	if response.Code != http.StatusOK {
		return fmt.Errorf("%w: code=%d status=%q", ErrProviderRejected, response.Code, response.Status)
	}
	if response.Data == nil {
		return fmt.Errorf("%w: null data", ErrProviderRejected)
	}
	response.Data.Times = response.Data.Times.Normalize()
	if err := prayertime.ValidateTable(response.Data.Times); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderRejected, err)
	}
	return nil
}
