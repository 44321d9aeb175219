package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salat-server/api/prayerapi"
	"salat-server/dao/redis"
	"salat-server/db"
	"salat-server/models"
	"salat-server/models/prayer"
)

const (
	baseLat = -6.2088
	baseLon = 106.8456
	today   = "2025-03-14"
)

var jakarta = prayer.PrayerTable{
	Fajr: "04:36", Sunrise: "05:50", Dhuhr: "11:54", Asr: "15:10",
	Sunset: "17:55", Maghrib: "17:57", Isha: "19:06",
}

var bogor = prayer.PrayerTable{
	Fajr: "04:35", Dhuhr: "11:53", Asr: "15:11", Maghrib: "17:56", Isha: "19:05",
}

// countingAPI returns table, or err when set, and counts calls.
// A zero code answers 200.
type countingAPI struct {
	calls int
	code  int
	table prayer.PrayerTable
	err   error
}

func (c *countingAPI) GetPrayerTimes(context.Context, float64, float64, string) (*models.PrayerTimesResponse, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	code := c.code
	if code == 0 {
		code = 200
	}
	return &models.PrayerTimesResponse{Code: code, Status: "OK", Data: &models.PrayerTimesData{Times: c.table}}, nil
}

// brokenDAO fails every operation.
type brokenDAO struct{}

func (brokenDAO) Get(context.Context, string) (*prayer.CacheRecord, error) {
	return nil, errors.New("disk I/O error")
}
func (brokenDAO) Put(context.Context, prayer.CacheRecord) error { return errors.New("disk I/O error") }
func (brokenDAO) PurgeBefore(context.Context, string) (int, error) {
	return 0, errors.New("disk I/O error")
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)
}

func newTestService(t *testing.T, provider prayerapi.PrayerTimesAPI) (*PrayerTimeService, *redis.RedisPrayerCacheDAO) {
	t.Helper()
	cacheDao := redis.NewRedisPrayerCacheDAO(db.NewMockRedisClient(context.Background()))
	return NewPrayerTimeService(cacheDao, provider, fixedClock), cacheDao
}

func seed(t *testing.T, cacheDao *redis.RedisPrayerCacheDAO, date string, lat, lon float64, table prayer.PrayerTable, location string) {
	t.Helper()
	record, err := prayer.NewCacheRecord(date, lat, lon, table, location, fixedClock())
	require.NoError(t, err)
	require.NoError(t, cacheDao.Put(context.Background(), record))
}

func TestResolve_NearbyCacheHit_NoNetworkCall(t *testing.T) {
	// Arrange
	provider := &countingAPI{table: bogor}
	svc, cacheDao := newTestService(t, provider)
	seed(t, cacheDao, today, baseLat, baseLon, jakarta, "Jakarta")

	// Act: about 500 m north of the cached point
	res, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{
		Latitude: baseLat + 0.0045, Longitude: baseLon, Date: today,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, SourceCache, res.Source)
	assert.Equal(t, jakarta.Primary(), res.Table.Primary())
	assert.Equal(t, "Jakarta", res.LocationName)
}

func TestResolve_FarCache_FetchesOnce(t *testing.T) {
	provider := &countingAPI{table: bogor}
	svc, cacheDao := newTestService(t, provider)
	seed(t, cacheDao, today, baseLat, baseLon, jakarta, "Jakarta")

	// About 2000 m north of the cached point.
	res, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{
		Latitude: baseLat + 0.018, Longitude: baseLon, Date: today, LocationName: "Depok",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, SourceRemote, res.Source)
	assert.Equal(t, bogor.Dhuhr, res.Table.Dhuhr)

	stored, err := cacheDao.Get(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, "Depok", stored.LocationName)
	assert.InDelta(t, baseLat+0.018, stored.Latitude, 1e-9)
}

func TestResolve_Miss_WritesThroughAndRoundTrips(t *testing.T) {
	provider := &countingAPI{table: jakarta}
	svc, cacheDao := newTestService(t, provider)

	res, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{Latitude: baseLat, Longitude: baseLon, Date: today})
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, res.Source)

	stored, err := cacheDao.Get(context.Background(), today)
	require.NoError(t, err)
	require.NotNil(t, stored)
	table, err := stored.Table()
	require.NoError(t, err)
	assert.Equal(t, jakarta.Primary(), table.Primary())

	// A second call from the same place is served from cache.
	res, err = svc.Resolve(context.Background(), prayer.ResolutionRequest{Latitude: baseLat, Longitude: baseLon, Date: today})
	require.NoError(t, err)
	assert.Equal(t, SourceCache, res.Source)
	assert.Equal(t, 1, provider.calls)
}

func TestResolve_FetchFailure_FallsBackToAnyCache(t *testing.T) {
	provider := &countingAPI{err: errors.New("connection reset")}
	svc, cacheDao := newTestService(t, provider)
	// Far away on purpose: the fallback ignores distance.
	seed(t, cacheDao, today, 21.4225, 39.8262, jakarta, "Makkah")

	res, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{Latitude: baseLat, Longitude: baseLon, Date: today})

	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, SourceStale, res.Source)
	assert.Equal(t, jakarta.Primary(), res.Table.Primary())
}

func TestResolve_FetchFailure_NoCache_ReturnsError(t *testing.T) {
	fetchErr := errors.New("connection reset")
	svc, _ := newTestService(t, &countingAPI{err: fetchErr})

	res, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{Latitude: baseLat, Longitude: baseLon, Date: today})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrPrayerTimesUnavailable)
	assert.ErrorIs(t, err, fetchErr)
}

func TestResolve_ProviderRejection_IsFailure(t *testing.T) {
	provider := &countingAPI{err: prayerapi.ErrProviderRejected}
	svc, cacheDao := newTestService(t, provider)

	_, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{Latitude: baseLat, Longitude: baseLon, Date: today})
	assert.ErrorIs(t, err, prayerapi.ErrProviderRejected)

	seed(t, cacheDao, today, baseLat+1, baseLon, jakarta, "")
	res, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{Latitude: baseLat, Longitude: baseLon, Date: today})
	require.NoError(t, err)
	assert.Equal(t, SourceStale, res.Source)
}

func TestResolve_ForceRefresh(t *testing.T) {
	provider := &countingAPI{table: bogor}
	svc, cacheDao := newTestService(t, provider)
	seed(t, cacheDao, today, baseLat, baseLon, jakarta, "Jakarta")

	res, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{
		Latitude: baseLat, Longitude: baseLon, Date: today, ForceRefresh: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, SourceRemote, res.Source)
	assert.Equal(t, bogor.Fajr, res.Table.Fajr)

	// Still falls back when the forced fetch fails.
	provider.err = errors.New("timeout")
	res, err = svc.Resolve(context.Background(), prayer.ResolutionRequest{
		Latitude: baseLat, Longitude: baseLon, Date: today, ForceRefresh: true,
	})
	require.NoError(t, err)
	assert.Equal(t, SourceStale, res.Source)
	assert.Equal(t, bogor.Fajr, res.Table.Fajr)
}

func TestResolve_EmptyDateUsesClock(t *testing.T) {
	svc, cacheDao := newTestService(t, &countingAPI{table: jakarta})

	res, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{Latitude: baseLat, Longitude: baseLon})

	require.NoError(t, err)
	assert.Equal(t, today, res.Date)
	stored, err := cacheDao.Get(context.Background(), today)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestResolve_InvalidRequest(t *testing.T) {
	provider := &countingAPI{table: jakarta}
	svc, _ := newTestService(t, provider)

	tests := []struct {
		name string
		req  prayer.ResolutionRequest
	}{
		{"bad date", prayer.ResolutionRequest{Latitude: baseLat, Longitude: baseLon, Date: "14-03-2025"}},
		{"latitude out of range", prayer.ResolutionRequest{Latitude: 91, Longitude: baseLon}},
		{"longitude out of range", prayer.ResolutionRequest{Latitude: baseLat, Longitude: -181}},
		{"NaN latitude", prayer.ResolutionRequest{Latitude: math.NaN(), Longitude: baseLon}},
		{"NaN longitude", prayer.ResolutionRequest{Latitude: baseLat, Longitude: math.NaN()}},
		{"infinite longitude", prayer.ResolutionRequest{Latitude: baseLat, Longitude: math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Resolve(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
	assert.Equal(t, 0, provider.calls)
}

func TestResolve_CacheErrorsDoNotFailFetch(t *testing.T) {
	provider := &countingAPI{table: jakarta}
	svc := NewPrayerTimeService(brokenDAO{}, provider, fixedClock)

	res, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{Latitude: baseLat, Longitude: baseLon, Date: today})

	require.NoError(t, err)
	assert.Equal(t, SourceRemote, res.Source)
	assert.Equal(t, 1, provider.calls)
}

func TestResolve_CacheErrorsAndFetchFailure(t *testing.T) {
	svc := NewPrayerTimeService(brokenDAO{}, &countingAPI{err: errors.New("offline")}, fixedClock)

	_, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{Latitude: baseLat, Longitude: baseLon, Date: today})

	assert.ErrorIs(t, err, ErrPrayerTimesUnavailable)
}

func TestResolve_NonOKCodeWithData_IsFailure(t *testing.T) {
	// Arrange
	provider := &countingAPI{code: 500, table: jakarta}
	svc, cacheDao := newTestService(t, provider)

	// Act
	res, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{Latitude: baseLat, Longitude: baseLon, Date: today})

	// Assert
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrPrayerTimesUnavailable)
	assert.ErrorIs(t, err, prayerapi.ErrProviderRejected)
	stored, err := cacheDao.Get(context.Background(), today)
	require.NoError(t, err)
	assert.Nil(t, stored, "rejected response must not be cached")
}

func TestResolve_NonOKCodeWithData_FallsBackToCache(t *testing.T) {
	provider := &countingAPI{code: 500, table: bogor}
	svc, cacheDao := newTestService(t, provider)
	seed(t, cacheDao, today, baseLat+1, baseLon, jakarta, "Jakarta")

	res, err := svc.Resolve(context.Background(), prayer.ResolutionRequest{Latitude: baseLat, Longitude: baseLon, Date: today})

	require.NoError(t, err)
	assert.Equal(t, SourceStale, res.Source)
	assert.Equal(t, jakarta.Fajr, res.Table.Fajr)
	stored, err := cacheDao.Get(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, "Jakarta", stored.LocationName)
}
