package clean

import (
	"strings"

	"orderetl/internal/table"
)

// identifierColumns are opaque tokens, not numbers: a numeric-looking order
// id must survive as the exact string it arrived as.
var identifierColumns = []string{"order_id", "orderrad_id", "kund_id", "produkt_sku"}

// NormalizeColumnNames lowercases every header, trims surrounding
// whitespace, and replaces internal spaces with underscores. Values are
// untouched. Applying it twice yields the same headers.
func NormalizeColumnNames(t *table.Table) error {
	t.RenameColumns(func(name string) string {
		name = strings.TrimSpace(name)
		name = strings.ToLower(name)
		return strings.ReplaceAll(name, " ", "_")
	})
	return nil
}

// NormalizeIdentifiers coerces each identifier column to a trimmed string.
// Absent columns are skipped; nil cells stay nil.
func NormalizeIdentifiers(t *table.Table) error {
	for _, name := range identifierColumns {
		t.Col(name).Update(func(v any) any {
			s, ok := table.AsString(v)
			if !ok {
				return nil
			}
			return strings.TrimSpace(s)
		})
	}
	return nil
}
