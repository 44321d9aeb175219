package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"salat-server/dao"
	"salat-server/models/prayer"
)

// CacheMaintenanceService purges cache records older than the retention window.
type CacheMaintenanceService struct {
	cacheDao      dao.PrayerCacheDAO
	retentionDays int
	now           func() time.Time
}

// NewCacheMaintenanceService constructs the purger. A nil clock means time.Now.
func NewCacheMaintenanceService(cacheDao dao.PrayerCacheDAO, retentionDays int, now func() time.Time) *CacheMaintenanceService {
	if now == nil {
		now = time.Now
	}
	return &CacheMaintenanceService{
		cacheDao:      cacheDao,
		retentionDays: retentionDays,
		now:           now,
	}
}

// Cutoff is the first date kept by PurgeStale.
func (cm *CacheMaintenanceService) Cutoff() string {
	return prayer.FormatDate(cm.now().AddDate(0, 0, -cm.retentionDays))
}

// PurgeStale deletes records dated before Cutoff.
func (cm *CacheMaintenanceService) PurgeStale(ctx context.Context) (int, error) {
	return cm.PurgeBefore(ctx, cm.Cutoff())
}

// PurgeBefore deletes records dated strictly before cutoff.
func (cm *CacheMaintenanceService) PurgeBefore(ctx context.Context, cutoff string) (int, error) {
	removed, err := cm.cacheDao.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	log.Info().Str("component", "CacheMaintenanceService").Str("cutoff", cutoff).Int("removed", removed).Msg("purged stale prayer times")
	return removed, nil
}

// StartPeriodicJob launches the background loop at the given interval.
// It stops when ctx is done. A non-positive interval starts nothing.
func (cm *CacheMaintenanceService) StartPeriodicJob(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid purge interval %v: must be positive", interval)
	}
	go cm.startPeriodicJob(ctx, interval)
	return nil
}

func (cm *CacheMaintenanceService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("component", "CacheMaintenanceService").Msg("periodic purge job stopped")
			return
		case <-ticker.C:
			log.Debug().Str("component", "CacheMaintenanceService").Msg("running periodic purge job")
			if _, err := cm.PurgeStale(ctx); err != nil {
				log.Error().Err(err).Str("component", "CacheMaintenanceService").Msg("PurgeStale returned error")
			}
		}
	}
}
