package util

import (
	"encoding/json"
	"fmt"
	"os"

	"salat-server/models"
)

// ReadPrayerTimesResponseFromJSON loads a provider response fixture from disk.
func ReadPrayerTimesResponseFromJSON(filePath string) (*models.PrayerTimesResponse, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var resp models.PrayerTimesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal PrayerTimesResponse: %w", err)
	}
	return &resp, nil
}
