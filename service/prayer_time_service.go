package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"salat-server/api/prayerapi"
	"salat-server/dao"
	"salat-server/models/prayer"
	"salat-server/util"
)

// CACHE_DISTANCE_TOLERANCE_METERS is how far a request may be from the cached
// record's coordinates and still be served from cache.
const CACHE_DISTANCE_TOLERANCE_METERS = 1000.0

var (
	// ErrPrayerTimesUnavailable means the provider failed and no record exists for the date.
	ErrPrayerTimesUnavailable = errors.New("prayer times unavailable")
	// ErrInvalidRequest means the request could not be resolved as given.
	ErrInvalidRequest = errors.New("invalid resolution request")
)

// Source tells where a resolved table came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
	SourceStale  Source = "stale"
)

// Resolution is a fully populated prayer table for one date.
type Resolution struct {
	Date         string             `json:"date"`
	Table        prayer.PrayerTable `json:"timings"`
	LocationName string             `json:"location_name,omitempty"`
	Source       Source             `json:"source"`
}

type PrayerTimeService struct {
	cacheDao  dao.PrayerCacheDAO
	prayerApi prayerapi.PrayerTimesAPI
	now       func() time.Time
}

// NewPrayerTimeService constructs the resolver. A nil clock means time.Now.
func NewPrayerTimeService(cacheDao dao.PrayerCacheDAO, prayerApi prayerapi.PrayerTimesAPI, now func() time.Time) *PrayerTimeService {
	if now == nil {
		now = time.Now
	}
	return &PrayerTimeService{
		cacheDao:  cacheDao,
		prayerApi: prayerApi,
		now:       now,
	}
}

// Now returns the service clock reading.
func (s *PrayerTimeService) Now() time.Time {
	return s.now()
}

// Resolve returns the prayer table for the request. It serves a nearby cached
// record when possible, otherwise fetches and writes through, and on fetch
// failure falls back to whatever is cached for the date.
func (s *PrayerTimeService) Resolve(ctx context.Context, req prayer.ResolutionRequest) (*Resolution, error) {
	date, err := s.requestDate(req)
	if err != nil {
		return nil, err
	}
	logger := log.With().
		Str("component", "PrayerTimeService").
		Str("date", date).
		Float64("lat", req.Latitude).
		Float64("lon", req.Longitude).
		Logger()

	if !req.ForceRefresh {
		if record := s.readCache(ctx, date); record != nil {
			distance := util.HaversineMeters(req.Latitude, req.Longitude, record.Latitude, record.Longitude)
			if distance < CACHE_DISTANCE_TOLERANCE_METERS {
				resolution, err := fromRecord(record, SourceCache)
				if err == nil {
					logger.Debug().Float64("distance_m", distance).Msg("serving cached prayer times")
					return resolution, nil
				}
				logger.Warn().Err(err).Msg("ignoring undecodable cache record")
			} else {
				logger.Debug().Float64("distance_m", distance).Msg("cached record too far, refetching")
			}
		}
	}

	table, fetchErr := s.fetch(ctx, req.Latitude, req.Longitude, date)
	if fetchErr == nil {
		s.writeCache(ctx, date, req, table)
		return &Resolution{
			Date:         date,
			Table:        table,
			LocationName: req.LocationName,
			Source:       SourceRemote,
		}, nil
	}

	logger.Warn().Err(fetchErr).Msg("prayer times fetch failed, trying cache fallback")
	if record := s.readCache(ctx, date); record != nil {
		resolution, err := fromRecord(record, SourceStale)
		if err == nil {
			return resolution, nil
		}
		logger.Error().Err(err).Msg("fallback cache record is undecodable")
	}

	return nil, fmt.Errorf("%w for %s: %w", ErrPrayerTimesUnavailable, date, fetchErr)
}

func (s *PrayerTimeService) requestDate(req prayer.ResolutionRequest) (string, error) {
	if !isFinite(req.Latitude) || !isFinite(req.Longitude) ||
		req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return "", fmt.Errorf("%w: coordinates (%f, %f) out of range", ErrInvalidRequest, req.Latitude, req.Longitude)
	}
	if req.Date == "" {
		return prayer.FormatDate(s.now()), nil
	}
	if _, err := prayer.ParseDate(req.Date); err != nil {
		return "", fmt.Errorf("%w: date %q: %v", ErrInvalidRequest, req.Date, err)
	}
	return req.Date, nil
}

// readCache treats read errors as a miss.
func (s *PrayerTimeService) readCache(ctx context.Context, date string) *prayer.CacheRecord {
	record, err := s.cacheDao.Get(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("component", "PrayerTimeService").Str("date", date).Msg("cache read failed")
		return nil
	}
	return record
}

func (s *PrayerTimeService) fetch(ctx context.Context, lat, lon float64, date string) (prayer.PrayerTable, error) {
	response, err := s.prayerApi.GetPrayerTimes(ctx, lat, lon, date)
	if err != nil {
		return prayer.PrayerTable{}, err
	}
	if response == nil {
		return prayer.PrayerTable{}, fmt.Errorf("%w: empty response", prayerapi.ErrProviderRejected)
	}
	if err := prayerapi.CheckResponse(response); err != nil {
		return prayer.PrayerTable{}, err
	}
	return response.Data.Times, nil
}

// writeCache failures are logged only; the fetched table is still returned.
func (s *PrayerTimeService) writeCache(ctx context.Context, date string, req prayer.ResolutionRequest, table prayer.PrayerTable) {
	record, err := prayer.NewCacheRecord(date, req.Latitude, req.Longitude, table, req.LocationName, s.now())
	if err == nil {
		err = s.cacheDao.Put(ctx, record)
	}
	if err != nil {
		log.Error().Err(err).Str("component", "PrayerTimeService").Str("date", date).Msg("cache write failed")
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func fromRecord(record *prayer.CacheRecord, source Source) (*Resolution, error) {
	table, err := record.Table()
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Date:         record.Date,
		Table:        table,
		LocationName: record.LocationName,
		Source:       source,
	}, nil
}
