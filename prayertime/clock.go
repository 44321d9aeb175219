// Package prayertime derives time-of-day facts from a prayer table.
// Every function takes "now" explicitly and has no other inputs.
package prayertime

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"salat-server/models/prayer"
)

// MINUTES_PER_DAY is the number of minutes in a civil day.
const MINUTES_PER_DAY = 24 * 60

// ParseError reports a clock-time string that is not "HH:MM".
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

// TimeToMinutes converts "HH:MM" into minutes since midnight (0-1439).
func TimeToMinutes(hhmm string) (int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, &ParseError{Input: hhmm, Reason: "expected two colon-separated fields"}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || !isDigits(parts[0]) {
		return 0, &ParseError{Input: hhmm, Reason: "hour is not an integer"}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || !isDigits(parts[1]) {
		return 0, &ParseError{Input: hhmm, Reason: "minute is not an integer"}
	}
	if hour < 0 || hour > 23 {
		return 0, &ParseError{Input: hhmm, Reason: "hour out of range"}
	}
	if minute < 0 || minute > 59 {
		return 0, &ParseError{Input: hhmm, Reason: "minute out of range"}
	}
	return hour*60 + minute, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ClockMinutes returns the minutes elapsed since midnight of now's wall clock.
// Seconds are truncated.
func ClockMinutes(now time.Time) int {
	return now.Hour()*60 + now.Minute()
}

// HasTimePassed reports whether today's instance of hhmm is due or past at now.
func HasTimePassed(hhmm string, now time.Time) (bool, error) {
	m, err := TimeToMinutes(hhmm)
	if err != nil {
		return false, err
	}
	return ClockMinutes(now) >= m, nil
}

// ValidateTable checks that all five primary prayer times parse.
func ValidateTable(t prayer.PrayerTable) error {
	for _, p := range t.Primary() {
		if _, err := TimeToMinutes(p.Time); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
	}
	return nil
}
