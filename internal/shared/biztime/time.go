// Package biztime provides utilities for business timezone calculations.
// All storage and transport use UTC. The business timezone is only used for
// calendar boundaries: the day a ticket number belongs to, report date
// filters and the "once per day" rule of the overdue sweep.
package biztime

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "America/Sao_Paulo"

	// DateKeyLayout is the compact day layout used inside ticket numbers.
	DateKeyLayout = "20060102"
)

var (
	bizLocation *time.Location
	locationMu  sync.RWMutex
)

// Init sets the business timezone. If tz is empty, DefaultTimezone is used.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load business timezone %q: %w", tz, err)
	}

	locationMu.Lock()
	bizLocation = loc
	locationMu.Unlock()
	return nil
}

// Location returns the business timezone location, initializing the default on first use.
func Location() *time.Location {
	locationMu.RLock()
	loc := bizLocation
	locationMu.RUnlock()
	if loc != nil {
		return loc
	}

	if err := Init(""); err != nil {
		// tzdata is missing; fall back to UTC rather than failing every request.
		locationMu.Lock()
		bizLocation = time.UTC
		locationMu.Unlock()
		return time.UTC
	}
	return Location()
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns the start of the business day containing t, in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, Location()).UTC()
}

// EndOfDayUTC returns the last instant of the business day containing t, in UTC.
func EndOfDayUTC(t time.Time) time.Time {
	return StartOfDayUTC(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DateKey formats t as the business calendar day, e.g. "20250314".
func DateKey(t time.Time) string {
	return t.In(Location()).Format(DateKeyLayout)
}

// ParseDateInBizTimezone parses a date string (YYYY-MM-DD) as business timezone midnight,
// then returns the UTC equivalent.
func ParseDateInBizTimezone(dateStr string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, dateStr, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", dateStr, err)
	}
	return t.UTC(), nil
}

// ParseFlexible accepts either a YYYY-MM-DD business date or an RFC3339 timestamp.
func ParseFlexible(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return ParseDateInBizTimezone(s)
}

// FormatInBizTimezone formats a UTC time as a string in business timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
