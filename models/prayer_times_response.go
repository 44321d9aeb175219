package models

import "salat-server/models/prayer"

// PrayerTimesResponse is the time-table provider's envelope.
// Data is a pointer so a null payload can be told apart from an empty one.
type PrayerTimesResponse struct {
	Code   int              `json:"code"`
	Status string           `json:"status"`
	Data   *PrayerTimesData `json:"data"`
}

type PrayerTimesData struct {
	Times prayer.PrayerTable `json:"times"`
	Date  ProviderDate       `json:"date"`
}

// ProviderDate is the date block echoed back by the provider.
type ProviderDate struct {
	Readable  string `json:"readable"`
	Timestamp string `json:"timestamp"`
}
