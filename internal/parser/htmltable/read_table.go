// Package htmltable loads an HTML table export into the pipeline's table
// representation. Some upstream teams share order snapshots as rendered
// report pages rather than CSV; the first <table> element in the document is
// taken as the dataset.
package htmltable

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"orderetl/internal/table"
)

// ReadTable reads the first <table> from the HTML file at path.
// Header cells come from <th> elements when present, otherwise from the
// first row. Cell text is trimmed; empty cells load as nil.
func ReadTable(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return extract(doc)
}

func extract(doc *goquery.Document) (*table.Table, error) {
	sel := doc.Find("table").First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("no <table> element found")
	}

	var columns []string
	sel.Find("th").Each(func(_ int, th *goquery.Selection) {
		columns = append(columns, strings.TrimSpace(th.Text()))
	})

	t := table.New(columns...)

	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return // header or empty row
		}

		if len(t.Columns) == 0 {
			// No <th> header: first data row provides the names.
			cells.Each(func(_ int, td *goquery.Selection) {
				t.Columns = append(t.Columns, strings.TrimSpace(td.Text()))
			})
			return
		}

		row := make(table.Record, len(t.Columns))
		for i, name := range t.Columns {
			row[name] = nil
			if i < cells.Length() {
				v := strings.TrimSpace(cells.Eq(i).Text())
				if v != "" {
					row[name] = v
				}
			}
		}
		t.Append(row)
	})

	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("table has no header cells")
	}
	return t, nil
}
