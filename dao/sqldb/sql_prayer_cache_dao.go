// Package sqldb stores the prayer table cache in a SQL database.
// Queries are written for both SQLite and Postgres.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"salat-server/dao"
	"salat-server/models/prayer"
)

const (
	selectByDateQuery = `
	SELECT date, latitude, longitude, timings, location_name, fetched_at
	FROM prayer_times_cache
	WHERE date = ?`

	upsertQuery = `
	INSERT INTO prayer_times_cache (date, latitude, longitude, timings, location_name, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (date) DO UPDATE SET
		latitude = excluded.latitude,
		longitude = excluded.longitude,
		timings = excluded.timings,
		location_name = excluded.location_name,
		fetched_at = excluded.fetched_at`

	deleteBeforeQuery = `DELETE FROM prayer_times_cache WHERE date < ?`
)

type SQLPrayerCacheDAO struct {
	db *sqlx.DB
}

var _ dao.PrayerCacheDAO = (*SQLPrayerCacheDAO)(nil)

func NewSQLPrayerCacheDAO(db *sqlx.DB) *SQLPrayerCacheDAO {
	return &SQLPrayerCacheDAO{db: db}
}

func (d *SQLPrayerCacheDAO) Get(ctx context.Context, date string) (*prayer.CacheRecord, error) {
	var rec prayer.CacheRecord
	err := d.db.GetContext(ctx, &rec, d.db.Rebind(selectByDateQuery), date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error().Err(err).Str("date", date).Msg("failed to get cached prayer times")
		return nil, fmt.Errorf("failed to get prayer times for %s: %w", date, err)
	}
	return &rec, nil
}

func (d *SQLPrayerCacheDAO) Put(ctx context.Context, r prayer.CacheRecord) error {
	_, err := d.db.ExecContext(ctx, d.db.Rebind(upsertQuery),
		r.Date, r.Latitude, r.Longitude, r.Timings, r.LocationName, r.FetchedAt)
	if err != nil {
		log.Error().Err(err).Str("date", r.Date).Msg("failed to upsert cached prayer times")
		return fmt.Errorf("failed to upsert prayer times for %s: %w", r.Date, err)
	}
	return nil
}

func (d *SQLPrayerCacheDAO) PurgeBefore(ctx context.Context, cutoff string) (int, error) {
	res, err := d.db.ExecContext(ctx, d.db.Rebind(deleteBeforeQuery), cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge prayer times before %s: %w", cutoff, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to purge prayer times - rows affected: %w", err)
	}
	return int(rows), nil
}
