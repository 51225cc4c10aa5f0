package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"orderetl/internal/config"
)

// TestReadTableBasic verifies header capture, edge-whitespace trimming, and
// empty-cell to nil mapping.
func TestReadTableBasic(t *testing.T) {
	t.Parallel()

	src := "Order ID,Antal,Region\n1001, 2 ,Sthlm\n1002,,\n"
	tbl, err := readTable(strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("readTable: %v", err)
	}

	if want := []string{"Order ID", "Antal", "Region"}; len(tbl.Columns) != 3 || tbl.Columns[0] != want[0] {
		t.Fatalf("columns = %v, want %v", tbl.Columns, want)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if got := tbl.Rows[0]["Antal"]; got != "2" {
		t.Fatalf("Antal = %#v, want trimmed %q", got, "2")
	}
	if got := tbl.Rows[1]["Antal"]; got != nil {
		t.Fatalf("empty cell = %#v, want nil", got)
	}
	if got := tbl.Rows[1]["Region"]; got != nil {
		t.Fatalf("trailing empty cell = %#v, want nil", got)
	}
}

// TestReadTableBOM verifies that a UTF-8 BOM on the first header cell is
// stripped.
func TestReadTableBOM(t *testing.T) {
	t.Parallel()

	src := "\uFEFFOrder ID,Antal\n1,2\n"
	tbl, err := readTable(strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("readTable: %v", err)
	}
	if got := tbl.Columns[0]; got != "Order ID" {
		t.Fatalf("first column = %q, BOM not stripped", got)
	}
}

// TestReadTableDelimiter verifies the comma option for semicolon exports.
func TestReadTableDelimiter(t *testing.T) {
	t.Parallel()

	src := "a;b\n1;2\n"
	tbl, err := readTable(strings.NewReader(src), config.Options{"comma": ";"})
	if err != nil {
		t.Fatalf("readTable: %v", err)
	}
	if tbl.Rows[0]["b"] != "2" {
		t.Fatalf("row = %#v", tbl.Rows[0])
	}
}

// TestReadTableHeaderMap verifies source-specific header renames applied
// before the table is built.
func TestReadTableHeaderMap(t *testing.T) {
	t.Parallel()

	src := "OrdNr,Qty\n1,2\n"
	opt := config.Options{"header_map": map[string]any{"OrdNr": "Order ID", "Qty": "Antal"}}
	tbl, err := readTable(strings.NewReader(src), opt)
	if err != nil {
		t.Fatalf("readTable: %v", err)
	}
	if !tbl.HasColumn("Order ID") || !tbl.HasColumn("Antal") {
		t.Fatalf("columns = %v", tbl.Columns)
	}
}

// TestReadTableHeaderless verifies positional column synthesis.
func TestReadTableHeaderless(t *testing.T) {
	t.Parallel()

	src := "1,2,3\n4,5,6\n"
	tbl, err := readTable(strings.NewReader(src), config.Options{"has_header": false})
	if err != nil {
		t.Fatalf("readTable: %v", err)
	}
	if !tbl.HasColumn("column_1") || !tbl.HasColumn("column_3") {
		t.Fatalf("columns = %v", tbl.Columns)
	}
	if tbl.Rows[1]["column_2"] != "5" {
		t.Fatalf("row = %#v", tbl.Rows[1])
	}
}

// TestReadTableShortRecord verifies that a record with fewer fields than the
// header fills the tail with nils in free-form mode.
func TestReadTableShortRecord(t *testing.T) {
	t.Parallel()

	src := "a,b,c\n1,2\n"
	tbl, err := readTable(strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("readTable: %v", err)
	}
	if got := tbl.Rows[0]["c"]; got != nil {
		t.Fatalf("missing field = %#v, want nil", got)
	}
}

// TestReadTableStrictFieldCount verifies that fields_per_record turns ragged
// rows into structural errors.
func TestReadTableStrictFieldCount(t *testing.T) {
	t.Parallel()

	src := "a,b,c\n1,2\n"
	_, err := readTable(strings.NewReader(src), config.Options{"fields_per_record": 3})
	if err == nil {
		t.Fatal("expected error for short record in strict mode")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error should name the line: %v", err)
	}
}

// TestReadTableFromFile exercises the file-opening entry point.
func TestReadTableFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "orders.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := ReadTable(path, nil)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("rows = %d, want 1", tbl.Len())
	}

	if _, err := ReadTable(filepath.Join(t.TempDir(), "absent.csv"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}
