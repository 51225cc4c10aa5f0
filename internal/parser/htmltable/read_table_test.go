package htmltable

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// TestExtract verifies th-based headers, cell trimming, and empty-cell to
// nil mapping.
func TestExtract(t *testing.T) {
	t.Parallel()

	doc := parse(t, `
<html><body>
<table>
  <tr><th>Order ID</th><th>Antal</th><th>Region</th></tr>
  <tr><td>1001</td><td> 2 </td><td>Sthlm</td></tr>
  <tr><td>1002</td><td>5</td><td></td></tr>
</table>
</body></html>`)

	tbl, err := extract(doc)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(tbl.Columns) != 3 || tbl.Columns[0] != "Order ID" {
		t.Fatalf("columns = %v", tbl.Columns)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if got := tbl.Rows[0]["Antal"]; got != "2" {
		t.Fatalf("Antal = %#v, want trimmed %q", got, "2")
	}
	if got := tbl.Rows[1]["Region"]; got != nil {
		t.Fatalf("empty cell = %#v, want nil", got)
	}
}

// TestExtractFirstRowHeader verifies falling back to the first td row for
// headers when the table carries no th cells.
func TestExtractFirstRowHeader(t *testing.T) {
	t.Parallel()

	doc := parse(t, `
<table>
  <tr><td>a</td><td>b</td></tr>
  <tr><td>1</td><td>2</td></tr>
</table>`)

	tbl, err := extract(doc)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(tbl.Columns) != 2 || tbl.Columns[0] != "a" {
		t.Fatalf("columns = %v", tbl.Columns)
	}
	if tbl.Len() != 1 || tbl.Rows[0]["b"] != "2" {
		t.Fatalf("rows = %#v", tbl.Rows)
	}
}

// TestExtractShortRow verifies that a row with fewer cells than the header
// fills the tail with nils.
func TestExtractShortRow(t *testing.T) {
	t.Parallel()

	doc := parse(t, `
<table>
  <tr><th>a</th><th>b</th><th>c</th></tr>
  <tr><td>1</td><td>2</td></tr>
</table>`)

	tbl, err := extract(doc)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got := tbl.Rows[0]["c"]; got != nil {
		t.Fatalf("missing cell = %#v, want nil", got)
	}
}

// TestExtractNoTable verifies the structural errors for documents without a
// usable table.
func TestExtractNoTable(t *testing.T) {
	t.Parallel()

	if _, err := extract(parse(t, `<html><body><p>no data</p></body></html>`)); err == nil {
		t.Fatal("expected error for document without a table")
	}
	if _, err := extract(parse(t, `<table></table>`)); err == nil {
		t.Fatal("expected error for table without headers")
	}
}

// TestReadTable exercises the file-opening entry point.
func TestReadTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "orders.html")
	html := `<table><tr><th>a</th></tr><tr><td>1</td></tr></table>`
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("rows = %d, want 1", tbl.Len())
	}

	if _, err := ReadTable(filepath.Join(t.TempDir(), "absent.html")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
