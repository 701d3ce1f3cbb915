package service

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// twoPlaces reports whether v fits the decimal(_,2) ledger columns without rounding.
func twoPlaces(v decimal.Decimal) bool {
	return v.Equal(v.Round(2))
}

// parseBound reads a date filter given as YYYY-MM-DD (in loc) or RFC3339.
// A date-only upper bound is stretched to the last instant of that day.
func parseBound(field, value string, loc *time.Location, upper bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		u := t.UTC()
		return &u, nil
	}
	d, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil, invalid(field, "expected YYYY-MM-DD or RFC3339 timestamp")
	}
	if upper {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	u := d.UTC()
	return &u, nil
}

// dayBounds returns [start of today, start of tomorrow) in loc, as UTC instants.
func dayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

func parseExpiry(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, invalid(field, "expected YYYY-MM-DD")
	}
	return &d, nil
}

func formatExpiry(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(dateLayout)
	return &s
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func normalizePage(page, limit, defLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defLimit
	}
	return page, limit
}
