package storage

import (
	"context"
	"reflect"
	"testing"
	"time"

	"orderetl/internal/table"
)

// TestSpecFromTable verifies column-kind inference: any time wins, any string
// wins over floats, floats-only is real, all-nil falls back to text.
func TestSpecFromTable(t *testing.T) {
	t.Parallel()

	tbl := table.New("orderdatum", "region", "antal", "mixed", "empty")
	tbl.Append(table.Record{
		"orderdatum": time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		"region":     "stockholm",
		"antal":      2.0,
		"mixed":      5.0,
		"empty":      nil,
	})
	tbl.Append(table.Record{
		"orderdatum": nil,
		"region":     nil,
		"antal":      nil,
		"mixed":      "fem",
		"empty":      nil,
	})

	spec := SpecFromTable("orders_clean", tbl)
	if spec.Name != "orders_clean" {
		t.Fatalf("name = %q", spec.Name)
	}

	want := map[string]ColumnKind{
		"orderdatum": KindTimestamp,
		"region":     KindText,
		"antal":      KindReal,
		"mixed":      KindText,
		"empty":      KindText,
	}
	for _, c := range spec.Columns {
		if c.Kind != want[c.Name] {
			t.Fatalf("column %s kind = %s, want %s", c.Name, c.Kind, want[c.Name])
		}
	}
}

// TestRowsFromTable verifies positional flattening in column order.
func TestRowsFromTable(t *testing.T) {
	t.Parallel()

	tbl := table.New("a", "b")
	tbl.Append(table.Record{"a": "1", "b": 2.0})
	tbl.Append(table.Record{"a": nil, "b": 3.0})

	rows := RowsFromTable(tbl)
	want := [][]any{{"1", 2.0}, {nil, 3.0}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %#v, want %#v", rows, want)
	}
}

// TestRegister verifies the registry's fail-fast contract.
func TestRegister(t *testing.T) {
	t.Parallel()

	mustPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s: expected panic", name)
			}
		}()
		fn()
	}

	f := func(context.Context, Config) (Repository, error) { return nil, nil }

	mustPanic("empty kind", func() { Register("", f) })
	mustPanic("nil factory", func() { Register("test_nilfactory", nil) })

	Register("test_dup", f)
	mustPanic("duplicate kind", func() { Register("test_dup", f) })
}

// TestNewUnknownKind verifies the factory errors for missing and unknown
// backends.
func TestNewUnknownKind(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Config{Kind: ""}); err == nil {
		t.Fatal("expected error for empty kind")
	}
	if _, err := New(context.Background(), Config{Kind: "no_such_backend"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
