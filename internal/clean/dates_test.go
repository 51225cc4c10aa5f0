package clean

import (
	"testing"
	"time"

	"orderetl/internal/table"
)

//
// NormalizeDates
//

// TestNormalizeDates verifies the permissive-parse policy: recognized
// layouts become timestamps, everything else becomes nil rather than an
// error.
func TestNormalizeDates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"iso date", "2024-03-10", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"iso datetime", "2024-03-10 14:30:00", time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)},
		{"dmy slash", "10/03/2024", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"dotted", "10.03.2024", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"garbage", "not a date", nil},
		{"empty", "", nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl := table.New("orderdatum")
			tbl.Append(table.Record{"orderdatum": tt.in})

			if err := NormalizeDates(tbl); err != nil {
				t.Fatalf("NormalizeDates: %v", err)
			}
			if got := tbl.Rows[0]["orderdatum"]; got != tt.want {
				t.Fatalf("orderdatum = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// TestNormalizeDatesIdempotent verifies that an already-parsed timestamp
// survives a second pass unchanged.
func TestNormalizeDatesIdempotent(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tbl := table.New("leveransdatum")
	tbl.Append(table.Record{"leveransdatum": ts})

	if err := NormalizeDates(tbl); err != nil {
		t.Fatalf("NormalizeDates: %v", err)
	}
	if got := tbl.Rows[0]["leveransdatum"]; got != ts {
		t.Fatalf("timestamp changed on re-parse: %#v", got)
	}
}

//
// FixDateOrder
//

// TestFixDateOrder verifies the swapped-pair correction: a delivery date
// earlier than its order date is a transposed data-entry error and the two
// values swap. Rows with a nil date stay untouched.
func TestFixDateOrder(t *testing.T) {
	t.Parallel()

	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d10 := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		order     any
		delivery  any
		wantOrder any
		wantDeliv any
	}{
		{"swapped pair", d10, d1, d1, d10},
		{"correct pair", d1, d10, d1, d10},
		{"equal dates", d10, d10, d10, d10},
		{"nil delivery", d10, nil, d10, nil},
		{"nil order", nil, d1, nil, d1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl := table.New("orderdatum", "leveransdatum")
			tbl.Append(table.Record{"orderdatum": tt.order, "leveransdatum": tt.delivery})

			if err := FixDateOrder(tbl); err != nil {
				t.Fatalf("FixDateOrder: %v", err)
			}
			if got := tbl.Rows[0]["orderdatum"]; got != tt.wantOrder {
				t.Fatalf("orderdatum = %#v, want %#v", got, tt.wantOrder)
			}
			if got := tbl.Rows[0]["leveransdatum"]; got != tt.wantDeliv {
				t.Fatalf("leveransdatum = %#v, want %#v", got, tt.wantDeliv)
			}
		})
	}
}

// TestFixDateOrderMissingColumn verifies the fixer is a no-op when either
// date column is absent.
func TestFixDateOrderMissingColumn(t *testing.T) {
	t.Parallel()

	tbl := table.New("orderdatum")
	tbl.Append(table.Record{"orderdatum": time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)})

	if err := FixDateOrder(tbl); err != nil {
		t.Fatalf("FixDateOrder without leveransdatum: %v", err)
	}
}
