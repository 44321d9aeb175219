package prayertime

import (
	"fmt"
	"time"

	"salat-server/models/prayer"
)

// Next is the upcoming prayer. When every prayer of the day has passed it is
// Fajr with today's Fajr time string and Tomorrow set; Time is never shifted.
type Next struct {
	Name     string `json:"name"`
	Time     string `json:"time"`
	Tomorrow bool   `json:"tomorrow"`
}

// PrayerStatus is one checklist row.
type PrayerStatus struct {
	Name   string `json:"name"`
	Time   string `json:"time"`
	Passed bool   `json:"passed"`
}

// NextPrayer selects the primary prayer with the smallest positive distance
// from now. A prayer whose time equals now counts as passed.
func NextPrayer(t prayer.PrayerTable, now time.Time) (Next, error) {
	nowMinutes := ClockMinutes(now)

	var best *prayer.NamedTime
	bestDiff := 0
	for _, p := range t.Primary() {
		m, err := TimeToMinutes(p.Time)
		if err != nil {
			return Next{}, fmt.Errorf("%s: %w", p.Name, err)
		}
		diff := m - nowMinutes
		if diff <= 0 {
			continue
		}
		if best == nil || diff < bestDiff {
			p := p
			best = &p
			bestDiff = diff
		}
	}

	if best == nil {
		return Next{Name: prayer.Fajr, Time: t.Fajr, Tomorrow: true}, nil
	}
	return Next{Name: best.Name, Time: best.Time}, nil
}

// Checklist reports, in canonical order, whether each primary prayer has passed.
func Checklist(t prayer.PrayerTable, now time.Time) ([]PrayerStatus, error) {
	primary := t.Primary()
	out := make([]PrayerStatus, 0, len(primary))
	for _, p := range primary {
		passed, err := HasTimePassed(p.Time, now)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, err)
		}
		out = append(out, PrayerStatus{Name: p.Name, Time: p.Time, Passed: passed})
	}
	return out, nil
}

// Countdown returns the time left until next, at minute resolution.
func Countdown(next Next, now time.Time) (time.Duration, error) {
	m, err := TimeToMinutes(next.Time)
	if err != nil {
		return 0, err
	}
	diff := m - ClockMinutes(now)
	if next.Tomorrow {
		diff += MINUTES_PER_DAY
	}
	if diff < 0 {
		diff = 0
	}
	return time.Duration(diff) * time.Minute, nil
}

// FormatRemaining renders a duration as "Xh Ym", or "Ym" under an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
