package prayer

import "time"

// DATE_LAYOUT is the civil date key format (yyyy-MM-dd).
const DATE_LAYOUT = "2006-01-02"

// ResolutionRequest asks for the prayer table of a place on a date.
// An empty Date means "today" according to the resolver's clock.
type ResolutionRequest struct {
	Latitude     float64
	Longitude    float64
	Date         string
	LocationName string
	ForceRefresh bool
}

// ParseDate parses a yyyy-MM-dd civil date key.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DATE_LAYOUT, s)
}

// FormatDate renders t's civil date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DATE_LAYOUT)
}
