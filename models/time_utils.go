package models

import "time"

// ParseReleaseDate parses a YYYY-MM-DD release date. Scryfall always uses
// this layout; an empty or malformed value returns the zero time.
func ParseReleaseDate(released string) time.Time {
	if released == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", released)
	if err != nil {
		return time.Time{}
	}
	return t
}

// YearsSince returns full years elapsed between released and now.
func YearsSince(released, now time.Time) int {
	if released.IsZero() || released.After(now) {
		return 0
	}
	years := now.Year() - released.Year()
	// Not yet reached the anniversary this year
	if now.Month() < released.Month() ||
		(now.Month() == released.Month() && now.Day() < released.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
