// Package dao defines the date-keyed prayer table cache.
package dao

import (
	"context"

	"salat-server/models/prayer"
)

// PrayerCacheDAO stores at most one CacheRecord per civil date.
// It knows nothing about coordinates beyond persisting them.
type PrayerCacheDAO interface {
	// Get returns the record for date, or nil with a nil error when absent.
	Get(ctx context.Context, date string) (*prayer.CacheRecord, error)
	// Put inserts or wholesale replaces the record for record.Date.
	Put(ctx context.Context, record prayer.CacheRecord) error
	// PurgeBefore deletes records whose date is strictly before cutoff and
	// returns how many were removed.
	PurgeBefore(ctx context.Context, cutoff string) (int, error)
}
