package prayer

import (
	"encoding/json"
	"fmt"
	"time"
)

// CacheRecord is the single persisted entry for a civil date.
// Timings holds the serialized PrayerTable.
type CacheRecord struct {
	Date         string  `json:"date" db:"date"`
	Latitude     float64 `json:"latitude" db:"latitude"`
	Longitude    float64 `json:"longitude" db:"longitude"`
	Timings      string  `json:"timings" db:"timings"`
	LocationName string  `json:"location_name" db:"location_name"`
	FetchedAt    string  `json:"fetched_at" db:"fetched_at"`
}

// NewCacheRecord serializes table into a record keyed by date.
func NewCacheRecord(date string, lat, lon float64, table PrayerTable, locationName string, fetchedAt time.Time) (CacheRecord, error) {
	data, err := json.Marshal(table)
	if err != nil {
		return CacheRecord{}, fmt.Errorf("failed to marshal prayer table for %s: %w", date, err)
	}
	return CacheRecord{
		Date:         date,
		Latitude:     lat,
		Longitude:    lon,
		Timings:      string(data),
		LocationName: locationName,
		FetchedAt:    fetchedAt.UTC().Format(time.RFC3339),
	}, nil
}

// Table decodes the stored prayer table.
func (r CacheRecord) Table() (PrayerTable, error) {
	var t PrayerTable
	if err := json.Unmarshal([]byte(r.Timings), &t); err != nil {
		return PrayerTable{}, fmt.Errorf("failed to unmarshal cached prayer table for %s: %w", r.Date, err)
	}
	return t, nil
}
