package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Coercions model "parse or absent" as a (value, ok) pair. Per-field
// failures are routine in this dataset and must not surface as errors;
// callers translate !ok into a nil cell.

// AsString coerces a cell to its string representation.
// nil reports !ok. Numbers format without exponent so a re-parse round-trips.
func AsString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	case time.Time:
		return t.Format(time.RFC3339), true
	default:
		return "", false
	}
}

// AsFloat coerces a cell to a finite float64. Strings are parsed after
// trimming; anything unparsable reports !ok. ParseFloat accepts "nan" and
// "inf" spellings, but "nan" is this feed's textual null sentinel and no
// field means infinity, so non-finite results report !ok too.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(t)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// AsTime coerces a cell that is already a time.Time. Parsing of raw date
// text lives in the cleaning layer, which owns the accepted layouts.
func AsTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}
