package normalize

import "time"

// DefaultBirthDate is the sentinel stored when a birth date cell cannot be
// parsed. The census exports are day-first, so the chains below try
// day-first layouts before ISO ones.
var DefaultBirthDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"02-01-2006",
	"02-01-06",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"2006-01-02",
}

var dateTimeLayouts = []string{
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate parses a date-only cell through the day-first fallback chain.
// Returns nil when no layout matches; the caller decides the sentinel.
func ParseDate(s string) *time.Time {
	s, ok := CleanCell(s)
	if !ok {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	// Some exports put full timestamps in date columns.
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseDateTime parses a timestamp cell, falling back to date-only layouts
// at midnight.
func ParseDateTime(s string) *time.Time {
	s, ok := CleanCell(s)
	if !ok {
		return nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
