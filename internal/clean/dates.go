package clean

import (
	"strings"
	"time"

	"orderetl/internal/table"
)

var dateColumns = []string{"orderdatum", "leveransdatum", "recensionsdatum"}

// dateLayouts are tried in order. The source mixes ISO dates with European
// slash/dot forms; DMY is preferred over MDY for ambiguous numerics, matching
// how the upstream system writes dates.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"02.01.2006",
	"2 January 2006",
	"January 2, 2006",
}

// parseDate parses raw date text as a naive calendar value. No timezone is
// assumed; everything lands in UTC so comparisons are well defined.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// NormalizeDates parses each date column to a timestamp. Unparsable values
// become nil rather than errors; malformed dates are routine in this feed.
// Cells that are already timestamps pass through, which keeps the stage
// idempotent.
func NormalizeDates(t *table.Table) error {
	for _, name := range dateColumns {
		t.Col(name).Update(func(v any) any {
			if ts, ok := table.AsTime(v); ok {
				return ts
			}
			s, ok := table.AsString(v)
			if !ok {
				return nil
			}
			ts, ok := parseDate(s)
			if !ok {
				return nil
			}
			return ts
		})
	}
	return nil
}

// FixDateOrder swaps orderdatum and leveransdatum on rows where the delivery
// date precedes the order date and both are present. The feed is known to
// contain transposed date pairs; swapping preserves row count and is the
// minimum-information correction. Rows with a nil date are ambiguous and
// left alone. No-op unless both columns exist.
func FixDateOrder(t *table.Table) error {
	if !t.HasColumn("orderdatum") || !t.HasColumn("leveransdatum") {
		return nil
	}
	for _, r := range t.Rows {
		ord, okO := table.AsTime(r["orderdatum"])
		del, okD := table.AsTime(r["leveransdatum"])
		if !okO || !okD {
			continue
		}
		if del.Before(ord) {
			r["orderdatum"], r["leveransdatum"] = del, ord
		}
	}
	return nil
}
