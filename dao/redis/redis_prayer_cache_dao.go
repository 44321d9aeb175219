package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"salat-server/dao"
	"salat-server/db"
	"salat-server/models/prayer"
)

const PRAYER_TIMES_KEY_PREFIX_V1 = "prayer_times_v1:"
const PRAYER_TIMES_KEY_FORMAT_V1 = PRAYER_TIMES_KEY_PREFIX_V1 + "%s"

// RedisPrayerCacheDAO keeps one JSON record per date key in Redis.
type RedisPrayerCacheDAO struct {
	client db.RedisClient
}

var _ dao.PrayerCacheDAO = (*RedisPrayerCacheDAO)(nil)

// NewRedisPrayerCacheDAO initializes a RedisPrayerCacheDAO with the Redis client.
func NewRedisPrayerCacheDAO(client db.RedisClient) *RedisPrayerCacheDAO {
	return &RedisPrayerCacheDAO{client: client}
}

func (d *RedisPrayerCacheDAO) Get(_ context.Context, date string) (*prayer.CacheRecord, error) {
	key := fmt.Sprintf(PRAYER_TIMES_KEY_FORMAT_V1, date)
	str, err := d.client.Get(key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prayer times for %s from redis: %w", date, err)
	}
	var rec prayer.CacheRecord
	if err := json.Unmarshal([]byte(str), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached prayer times JSON: %w", err)
	}
	return &rec, nil
}

// Put overwrites the value at the date key; Redis SET already replaces.
func (d *RedisPrayerCacheDAO) Put(_ context.Context, record prayer.CacheRecord) error {
	key := fmt.Sprintf(PRAYER_TIMES_KEY_FORMAT_V1, record.Date)
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal prayer times for %s: %w", record.Date, err)
	}
	if err := d.client.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to set prayer times in redis: %w", err)
	}
	return nil
}

func (d *RedisPrayerCacheDAO) PurgeBefore(_ context.Context, cutoff string) (int, error) {
	keys, err := d.client.Keys(PRAYER_TIMES_KEY_PREFIX_V1 + "*")
	if err != nil {
		return 0, fmt.Errorf("failed to list prayer times keys: %w", err)
	}

	var stale []string
	for _, k := range keys {
		// yyyy-MM-dd keys order lexicographically.
		if strings.TrimPrefix(k, PRAYER_TIMES_KEY_PREFIX_V1) < cutoff {
			stale = append(stale, k)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := d.client.Del(stale...); err != nil {
		return 0, fmt.Errorf("failed to delete stale prayer times keys: %w", err)
	}
	log.Info().Str("component", "RedisPrayerCacheDAO").Int("deleted", len(stale)).Str("cutoff", cutoff).
		Msg("purged stale prayer times")
	return len(stale), nil
}
