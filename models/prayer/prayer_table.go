package prayer

import "strings"

// Canonical names of the five daily prayers.
const (
	Fajr    = "Fajr"
	Dhuhr   = "Dhuhr"
	Asr     = "Asr"
	Maghrib = "Maghrib"
	Isha    = "Isha"
)

// PrimaryPrayers lists the daily prayers in canonical display order.
var PrimaryPrayers = []string{Fajr, Dhuhr, Asr, Maghrib, Isha}

// PrayerTable holds a day's prayer clock-times as "HH:MM" local civil strings.
// The five primary fields are mandatory; the secondary markers may be empty.
type PrayerTable struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise,omitempty"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Sunset  string `json:"Sunset,omitempty"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`

	Imsak      string `json:"Imsak,omitempty"`
	Midnight   string `json:"Midnight,omitempty"`
	Firstthird string `json:"Firstthird,omitempty"`
	Lastthird  string `json:"Lastthird,omitempty"`
}

// NamedTime pairs a prayer name with its clock-time.
type NamedTime struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// Primary returns the five primary prayers in canonical order.
func (t PrayerTable) Primary() []NamedTime {
	return []NamedTime{
		{Name: Fajr, Time: t.Fajr},
		{Name: Dhuhr, Time: t.Dhuhr},
		{Name: Asr, Time: t.Asr},
		{Name: Maghrib, Time: t.Maghrib},
		{Name: Isha, Time: t.Isha},
	}
}

// Normalize strips provider decorations such as a trailing " (WIB)" zone label.
func (t PrayerTable) Normalize() PrayerTable {
	return PrayerTable{
		Fajr:       stripSuffix(t.Fajr),
		Sunrise:    stripSuffix(t.Sunrise),
		Dhuhr:      stripSuffix(t.Dhuhr),
		Asr:        stripSuffix(t.Asr),
		Sunset:     stripSuffix(t.Sunset),
		Maghrib:    stripSuffix(t.Maghrib),
		Isha:       stripSuffix(t.Isha),
		Imsak:      stripSuffix(t.Imsak),
		Midnight:   stripSuffix(t.Midnight),
		Firstthird: stripSuffix(t.Firstthird),
		Lastthird:  stripSuffix(t.Lastthird),
	}
}

func stripSuffix(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, " "); idx != -1 {
		return s[:idx]
	}
	return s
}
