package sqldb

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salat-server/db"
	"salat-server/models/prayer"
)

var testTable = prayer.PrayerTable{
	Imsak: "04:26", Fajr: "04:36", Sunrise: "05:50", Dhuhr: "11:54",
	Asr: "15:10", Maghrib: "17:57", Isha: "19:06",
}

// setupTestDB opens an in-memory SQLite database with the schema applied.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQL(ctx, db.DRIVER_SQLITE, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(ctx, conn))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func newRecord(t *testing.T, date string, lat, lon float64, location string) prayer.CacheRecord {
	t.Helper()
	rec, err := prayer.NewCacheRecord(date, lat, lon, testTable, location, time.Now())
	require.NoError(t, err)
	return rec
}

func TestSQLPrayerCacheDAO_Get_Miss(t *testing.T) {
	dao := NewSQLPrayerCacheDAO(setupTestDB(t))

	rec, err := dao.Get(context.Background(), "2025-03-14")

	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSQLPrayerCacheDAO_PutAndGet(t *testing.T) {
	ctx := context.Background()
	dao := NewSQLPrayerCacheDAO(setupTestDB(t))
	want := newRecord(t, "2025-03-14", -6.2088, 106.8456, "Jakarta")

	require.NoError(t, dao.Put(ctx, want))

	got, err := dao.Get(ctx, "2025-03-14")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	table, err := got.Table()
	require.NoError(t, err)
	assert.Equal(t, testTable, table)
}

func TestSQLPrayerCacheDAO_Put_ReplacesSameDate(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	dao := NewSQLPrayerCacheDAO(conn)

	require.NoError(t, dao.Put(ctx, newRecord(t, "2025-03-14", -6.2, 106.8, "Jakarta")))
	require.NoError(t, dao.Put(ctx, newRecord(t, "2025-03-14", -6.9, 107.6, "Bandung")))

	var count int
	require.NoError(t, conn.GetContext(ctx, &count, `SELECT COUNT(*) FROM prayer_times_cache`))
	assert.Equal(t, 1, count)

	got, err := dao.Get(ctx, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, "Bandung", got.LocationName)
	assert.Equal(t, -6.9, got.Latitude)
}

func TestSQLPrayerCacheDAO_PurgeBefore(t *testing.T) {
	ctx := context.Background()
	dao := NewSQLPrayerCacheDAO(setupTestDB(t))
	for _, d := range []string{"2025-02-28", "2025-03-13", "2025-03-14", "2025-04-01"} {
		require.NoError(t, dao.Put(ctx, newRecord(t, d, 0, 0, "")))
	}

	n, err := dao.PurgeBefore(ctx, "2025-03-14")

	require.NoError(t, err)
	assert.Equal(t, 2, n)

	gone, err := dao.Get(ctx, "2025-03-13")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := dao.Get(ctx, "2025-03-14")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestSQLPrayerCacheDAO_Get_CanceledContext(t *testing.T) {
	dao := NewSQLPrayerCacheDAO(setupTestDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dao.Get(ctx, "2025-03-14")
	assert.Error(t, err)
}
