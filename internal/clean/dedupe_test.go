package clean

import (
	"reflect"
	"testing"
	"time"

	"orderetl/internal/table"
)

//
// DropExactDuplicates
//

// TestDropExactDuplicates verifies that fully identical rows collapse to the
// first occurrence and everything else survives in original order.
func TestDropExactDuplicates(t *testing.T) {
	t.Parallel()

	tbl := table.New("order_id", "antal")
	tbl.Append(table.Record{"order_id": "1001", "antal": 2.0})
	tbl.Append(table.Record{"order_id": "1002", "antal": 1.0})
	tbl.Append(table.Record{"order_id": "1001", "antal": 2.0}) // exact dup
	tbl.Append(table.Record{"order_id": "1001", "antal": 3.0}) // same id, different row

	DropExactDuplicates(tbl)

	if tbl.Len() != 3 {
		t.Fatalf("rows = %d, want 3", tbl.Len())
	}
	wantIDs := []string{"1001", "1002", "1001"}
	for i, want := range wantIDs {
		if got := tbl.Rows[i]["order_id"]; got != want {
			t.Fatalf("row %d order_id = %#v, want %q", i, got, want)
		}
	}
}

// TestDropExactDuplicatesNilVsEmpty verifies that a missing cell and an empty
// string are distinct identities.
func TestDropExactDuplicatesNilVsEmpty(t *testing.T) {
	t.Parallel()

	tbl := table.New("order_id", "recension_text")
	tbl.Append(table.Record{"order_id": "1001", "recension_text": nil})
	tbl.Append(table.Record{"order_id": "1001", "recension_text": ""})

	DropExactDuplicates(tbl)

	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2 (nil and empty string differ)", tbl.Len())
	}
}

// TestDropExactDuplicatesTimes verifies that equal instants compare equal in
// the fingerprint regardless of zone representation.
func TestDropExactDuplicatesTimes(t *testing.T) {
	t.Parallel()

	utc := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	zoned := utc.In(time.FixedZone("CET", 3600))

	tbl := table.New("order_id", "orderdatum")
	tbl.Append(table.Record{"order_id": "1001", "orderdatum": utc})
	tbl.Append(table.Record{"order_id": "1001", "orderdatum": zoned})

	DropExactDuplicates(tbl)

	if tbl.Len() != 1 {
		t.Fatalf("rows = %d, want 1 (same instant)", tbl.Len())
	}
}

//
// DropDuplicatesByKey
//

// TestDropDuplicatesByKey verifies keep-first semantics over the business
// key, including mixed cell types for the same logical key.
func TestDropDuplicatesByKey(t *testing.T) {
	t.Parallel()

	tbl := table.New("orderrad_id", "antal")
	tbl.Append(table.Record{"orderrad_id": "500", "antal": 1.0})
	tbl.Append(table.Record{"orderrad_id": 500.0, "antal": 2.0}) // same key, numeric cell
	tbl.Append(table.Record{"orderrad_id": "501", "antal": 3.0})

	if err := DropDuplicatesByKey(tbl, []string{"orderrad_id"}); err != nil {
		t.Fatalf("DropDuplicatesByKey: %v", err)
	}

	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if got := tbl.Rows[0]["antal"]; got != 1.0 {
		t.Fatalf("first occurrence not kept: antal = %#v", got)
	}
	if got := tbl.Rows[1]["orderrad_id"]; got != "501" {
		t.Fatalf("row 1 orderrad_id = %#v, want %q", got, "501")
	}
}

// TestDropDuplicatesByKeyCompound verifies that a multi-column key only
// matches when every part matches.
func TestDropDuplicatesByKeyCompound(t *testing.T) {
	t.Parallel()

	tbl := table.New("order_id", "produkt_sku")
	tbl.Append(table.Record{"order_id": "1", "produkt_sku": "A"})
	tbl.Append(table.Record{"order_id": "1", "produkt_sku": "B"})
	tbl.Append(table.Record{"order_id": "1", "produkt_sku": "A"})

	if err := DropDuplicatesByKey(tbl, []string{"order_id", "produkt_sku"}); err != nil {
		t.Fatalf("DropDuplicatesByKey: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
}

// TestDropDuplicatesByKeyMissingColumn verifies that a key column absent from
// the table aborts instead of deduplicating on nothing.
func TestDropDuplicatesByKeyMissingColumn(t *testing.T) {
	t.Parallel()

	tbl := table.New("order_id")
	tbl.Append(table.Record{"order_id": "1"})

	before := tbl.Clone()
	err := DropDuplicatesByKey(tbl, []string{"orderrad_id"})
	if err == nil {
		t.Fatal("expected error for missing key column")
	}
	if !reflect.DeepEqual(before.Rows, tbl.Rows) {
		t.Fatal("table modified despite key error")
	}
}
