package clean

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"orderetl/internal/table"
)

// quantityWords maps Swedish number words to their values. The domain only
// ever writes quantities one through ten as words.
var quantityWords = map[string]float64{
	"en": 1, "ett": 1,
	"två": 2, "tva": 2,
	"tre":  3,
	"fyra": 4,
	"fem":  5,
	"sex":  6,
	"sju":  7,
	"åtta": 8,
	"nio":  9,
	"tio":  10,
}

var quantityWordsFolded = func() map[string]float64 {
	m := make(map[string]float64, len(quantityWords))
	for k, v := range quantityWords {
		m[foldDiacritics(k)] = v
	}
	return m
}()

// NormalizePrices turns pris_per_enhet into a plain number: spaces removed,
// currency markers ("SEK", "kr", ":-") stripped, comma decimal separator
// converted to a period. Values that already carry no marker pass through the
// same path unchanged. Unparsable cells become nil. No-op when the column is
// absent.
func NormalizePrices(t *table.Table) error {
	t.Col("pris_per_enhet").Update(func(v any) any {
		if _, isNum := v.(float64); isNum {
			if f, ok := table.AsFloat(v); ok {
				return f
			}
			return nil
		}
		s, ok := table.AsString(v)
		if !ok {
			return nil
		}
		f, ok := parsePrice(s)
		if !ok {
			return nil
		}
		return f
	})
	return nil
}

func parsePrice(s string) (float64, bool) {
	// Thousands separators arrive as regular or non-breaking spaces.
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ':
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "sek", "")
	s = strings.ReplaceAll(s, "kr", "")
	s = strings.ReplaceAll(s, ":-", "")
	s = strings.ReplaceAll(s, ",", ".")

	return table.AsFloat(s)
}

// NormalizeQuantities cleans the antal column: lowercase and trim, strip
// embedded quote characters, strip the "st" unit suffix, resolve Swedish
// number words, then parse. Unparsable or negative results become nil.
//
// antal is the one mandatory column; its absence is a structural error that
// aborts the run.
func NormalizeQuantities(t *table.Table) error {
	if !t.HasColumn("antal") {
		return fmt.Errorf("required column %q is missing", "antal")
	}
	t.Col("antal").Update(func(v any) any {
		if _, isNum := v.(float64); isNum {
			if f, ok := table.AsFloat(v); ok && f >= 0 {
				return f
			}
			return nil
		}
		s, ok := table.AsString(v)
		if !ok {
			return nil
		}
		f, ok := parseQuantity(s)
		if !ok {
			return nil
		}
		return f
	})
	return nil
}

func parseQuantity(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, `'`, "")
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "st"))

	if f, ok := quantityWords[s]; ok {
		return f, true
	}
	// Accent-stripped spellings like "atta" resolve through the same fold
	// the categorical remappers use.
	if f, ok := quantityWordsFolded[foldDiacritics(s)]; ok {
		return f, true
	}

	f, ok := table.AsFloat(s)
	if !ok || f < 0 {
		return 0, false
	}
	return f, true
}

// NormalizeRatings coerces betyg to a number, clips it to [1,5], and fills
// remaining nils with the mean of the clipped non-nil values from the same
// run. The source's own variants disagree between mean and median; this
// implementation standardizes on the mean (swap stats.Mean for stats.Median
// to change the policy). When no rating was observed at all there is nothing
// to average and nil cells stay nil. No-op when the column is absent.
func NormalizeRatings(t *table.Table) error {
	col := t.Col("betyg")
	if !col.Present() {
		return nil
	}

	col.Update(func(v any) any {
		f, ok := table.AsFloat(v)
		if !ok {
			return nil
		}
		if f < 1 {
			f = 1
		}
		if f > 5 {
			f = 5
		}
		return f
	})

	var observed []float64
	for _, v := range col.Values() {
		if f, ok := v.(float64); ok {
			observed = append(observed, f)
		}
	}
	if len(observed) == 0 {
		return nil
	}

	fill, err := stats.Mean(observed)
	if err != nil {
		return fmt.Errorf("rating fill: %w", err)
	}
	col.Update(func(v any) any {
		if v == nil {
			return fill
		}
		return v
	})
	return nil
}
