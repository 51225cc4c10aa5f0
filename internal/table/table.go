// Package table defines the in-memory record table passed between the
// ingestion, cleaning, enrichment and persistence layers.
//
// A Table is an ordered sequence of records, each a mapping from column name
// to a typed value. Cell values are restricted to the small set the pipeline
// produces: string, float64, time.Time, or nil for missingness. Anything else
// coming from an ingestion source is coerced on first touch by the cleaning
// stages.
//
// Design constraints:
//   - Row order is significant end to end (dedupe keeps first occurrences).
//   - Column presence is an explicit capability: stages ask for a column
//     accessor and receive an inert one when the column is absent, instead of
//     probing record maps at every call site.
package table

// Record is one row, keyed by canonical column name.
type Record map[string]any

// Table is an ordered set of columns and rows.
//
// Columns carries the column order for output (CSV headers arrive ordered and
// SQL DDL wants a stable order); Rows hold the actual values. A column listed
// in Columns may be nil in individual records.
type Table struct {
	Columns []string
	Rows    []Record
}

// New returns an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds one row. Rows are stored as-is; the caller keeps ownership of
// the map until Append returns.
func (t *Table) Append(r Record) {
	t.Rows = append(t.Rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether name is a declared column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy: new column slice, new record maps. Cell values
// are immutable scalars, so they are shared.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		nr := make(Record, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}

// RenameColumns rewrites every column name through fn, updating both the
// column list and the record keys. Collisions keep the later value; raw
// sources are not expected to produce colliding headers.
func (t *Table) RenameColumns(fn func(string) string) {
	for i, c := range t.Columns {
		t.Columns[i] = fn(c)
	}
	for i, r := range t.Rows {
		nr := make(Record, len(r))
		for k, v := range r {
			nr[fn(k)] = v
		}
		t.Rows[i] = nr
	}
}

// AddColumn declares a new column and sets its value per row from fn.
// If the column already exists its values are overwritten in place.
func (t *Table) AddColumn(name string, fn func(i int, r Record) any) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
	for i, r := range t.Rows {
		r[name] = fn(i, r)
	}
}

// Col returns an accessor for the named column. When the column is absent the
// accessor is inert: Present reports false and Update does nothing. This is
// the contract per-column stages rely on to be safe to run against tables
// missing their target column.
func (t *Table) Col(name string) Col {
	return Col{t: t, name: name, present: t.HasColumn(name)}
}

// Col is an optional column accessor bound to one table column.
type Col struct {
	t       *Table
	name    string
	present bool
}

// Present reports whether the column exists in the table.
func (c Col) Present() bool { return c.present }

// Name returns the bound column name.
func (c Col) Name() string { return c.name }

// Update rewrites every cell of the column through fn. No-op when absent.
func (c Col) Update(fn func(v any) any) {
	if !c.present {
		return
	}
	for _, r := range c.t.Rows {
		r[c.name] = fn(r[c.name])
	}
}

// Values returns the column's cells in row order, or nil when absent.
func (c Col) Values() []any {
	if !c.present {
		return nil
	}
	out := make([]any, len(c.t.Rows))
	for i, r := range c.t.Rows {
		out[i] = r[c.name]
	}
	return out
}

// NullCount returns how many cells of the column are nil. Absent columns
// count as fully null is the wrong answer for reporting, so absent returns 0.
func (c Col) NullCount() int {
	if !c.present {
		return 0
	}
	n := 0
	for _, r := range c.t.Rows {
		if r[c.name] == nil {
			n++
		}
	}
	return n
}
