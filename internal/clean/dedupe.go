package clean

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
	"time"

	"orderetl/internal/table"
)

// DropExactDuplicates removes rows that are identical in every column,
// keeping the first occurrence in original order.
//
// Identity is a SHA-256 fingerprint over all columns in column order.
// The canonical encoding separates fields with the ASCII unit separator and
// encodes missing values as a single NUL byte so nil differs from "".
func DropExactDuplicates(t *table.Table) {
	seen := make(map[[sha256.Size]byte]struct{}, len(t.Rows))
	out := t.Rows[:0]
	for _, r := range t.Rows {
		fp := rowFingerprint(r, t.Columns)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, r)
	}
	t.Rows = out
}

// DropDuplicatesByKey removes rows sharing the business key, keeping the
// first occurrence in current order (run it after DropExactDuplicates).
// Every key column must exist in the table; a missing one is a
// configuration error, not a per-field anomaly.
func DropDuplicatesByKey(t *table.Table, key []string) error {
	for _, k := range key {
		if !t.HasColumn(k) {
			return fmt.Errorf("dedupe: business key column %q not found", k)
		}
	}

	seen := make(map[string]struct{}, len(t.Rows))
	out := t.Rows[:0]
	for _, r := range t.Rows {
		var b strings.Builder
		for i, k := range key {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(keyPart(r[k]))
		}
		kv := b.String()
		if _, dup := seen[kv]; dup {
			continue
		}
		seen[kv] = struct{}{}
		out = append(out, r)
	}
	t.Rows = out
	return nil
}

func rowFingerprint(r table.Record, columns []string) [sha256.Size]byte {
	var b strings.Builder
	b.Grow(len(columns) * 20)

	for i, c := range columns {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		// Field names are part of the canonical form; rows with many
		// missing cells would otherwise collide across column layouts.
		b.WriteString(c)
		b.WriteByte('=')
		appendCanonicalValue(&b, r[c])
	}

	return sha256.Sum256([]byte(b.String()))
}

// appendCanonicalValue writes a stable representation of v. Common cell
// types avoid fmt.Sprint; times are RFC3339Nano in UTC.
func appendCanonicalValue(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteByte('\x00')
	case string:
		b.WriteString(t)
	case float64:
		b.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case int:
		b.WriteString(strconv.Itoa(t))
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case time.Time:
		b.WriteString(t.UTC().Format(time.RFC3339Nano))
	default:
		b.WriteString(fmt.Sprint(t))
	}
}

// keyPart converts a business-key cell to a canonical string so the same
// logical key matches regardless of underlying type.
func keyPart(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case []byte:
		return strings.TrimSpace(string(t))
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
