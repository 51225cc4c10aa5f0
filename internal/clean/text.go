package clean

import (
	"strings"

	"orderetl/internal/table"
)

// NormalizeReviewText trims recension_text and maps placeholder tokens
// ("nan", "none", "null", "na", "") to nil. Matching is case-insensitive but
// the surviving text keeps its original casing. No-op when the column is
// absent.
func NormalizeReviewText(t *table.Table) error {
	t.Col("recension_text").Update(func(v any) any {
		s, ok := table.AsString(v)
		if !ok {
			return nil
		}
		s = strings.TrimSpace(s)
		if isPlaceholder(strings.ToLower(s)) {
			return nil
		}
		return s
	})
	return nil
}
