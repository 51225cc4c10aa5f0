// Package csv loads a CSV snapshot into the pipeline's table representation.
//
// This is a boundary component: it does no cleaning beyond edge-whitespace
// trimming and empty-cell→nil mapping. Header canonicalization (lowercase,
// underscores) is a pipeline stage, not a parser concern; the parser only
// strips a UTF-8 BOM and edge whitespace from headers and applies an
// optional header_map for sources whose headers need renaming before the
// pipeline sees them.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"orderetl/internal/config"
	"orderetl/internal/table"
)

// ReadTable reads one full snapshot from path.
//
// Options:
//
//	comma             delimiter rune, default ','
//	trim_space        trim cell edge whitespace, default true
//	lazy_quotes       tolerate bare quotes, default false
//	has_header        first record is the header row, default true
//	fields_per_record fixed field count, default free-form
//	header_map        raw header -> replacement name
//
// Read errors are structural: the run gets no partial table.
func ReadTable(path string, opt config.Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	return readTable(f, opt)
}

func readTable(src io.Reader, opt config.Options) (*table.Table, error) {
	trim := opt.Bool("trim_space", true)
	hasHeader := opt.Bool("has_header", true)
	hm := opt.StringMap("header_map")

	cr := csv.NewReader(src)
	cr.Comma = opt.Rune("comma", ',')
	cr.ReuseRecord = true
	cr.LazyQuotes = opt.Bool("lazy_quotes", false)
	if n := opt.Int("fields_per_record", 0); n != 0 {
		cr.FieldsPerRecord = n
	} else {
		cr.FieldsPerRecord = -1
	}

	line := 0
	readRec := func() ([]string, error) {
		line++
		return cr.Read()
	}

	var columns []string
	if hasHeader {
		hdr, err := readRec()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		columns = make([]string, len(hdr))
		for i, h := range hdr {
			if i == 0 {
				h = strings.TrimPrefix(h, "\uFEFF")
			}
			if hasEdgeSpace(h) {
				h = strings.TrimSpace(h)
			}
			if mapped, ok := hm[h]; ok {
				h = mapped
			}
			columns[i] = h
		}
	}

	t := table.New(columns...)

	for {
		rec, err := readRec()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv read line %d: %w", line, err)
		}

		if columns == nil {
			// Headerless source: synthesize positional names once.
			columns = make([]string, len(rec))
			for i := range rec {
				columns[i] = "column_" + strconv.Itoa(i+1)
			}
			t.Columns = columns
		}

		row := make(table.Record, len(columns))
		for i, name := range columns {
			if i >= len(rec) {
				row[name] = nil
				continue
			}
			v := rec[i]
			if trim && hasEdgeSpace(v) {
				v = strings.TrimSpace(v)
			}
			if v == "" {
				row[name] = nil
			} else {
				row[name] = v
			}
		}
		t.Append(row)
	}
}

// hasEdgeSpace reports whether s starts or ends with ASCII whitespace,
// avoiding TrimSpace allocations on the hot path.
func hasEdgeSpace(s string) bool {
	if s == "" {
		return false
	}
	return s[0] == ' ' || s[0] == '\t' || s[len(s)-1] == ' ' || s[len(s)-1] == '\t'
}
