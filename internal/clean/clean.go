// Package clean implements the normalization pipeline that turns a raw
// retail-orders snapshot into the clean, typed table that gets persisted.
//
// The pipeline is a fixed, ordered sequence of column-scoped stages. Column
// names are canonicalized first, so every later stage can address columns by
// their lowercase underscore form. Per-field coercion failures degrade to nil
// cells; only structural problems (a mandatory column missing, a business-key
// column that does not exist) abort the run.
package clean

import (
	"fmt"
	"time"

	"orderetl/internal/metrics"
	"orderetl/internal/table"
)

// Logger is the minimal logging interface used by the cleaner.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Stage is one normalization step. Apply mutates the table in place; the
// cleaner owns the only reference at that point.
type Stage struct {
	Name  string
	Apply func(t *table.Table) error
}

// Cleaner runs the full normalization pipeline.
type Cleaner struct {
	// Aliases holds the categorical alias tables. Nil means the built-ins.
	Aliases *AliasSet

	// BusinessKey, when non-empty, enables key-based dedupe after the
	// exact-row dedupe phase. Every named column must exist in the table.
	BusinessKey []string

	// Logger receives one line per stage. Nil disables stage logging.
	Logger Logger
}

// Stages returns the pipeline in its fixed order. Column-name normalization
// must run first, the date-order fix must follow date parsing, and dedupe
// runs last so normalization neither hides nor fabricates duplicates.
func (c *Cleaner) Stages() []Stage {
	a := c.Aliases
	if a == nil {
		a = Builtin()
	}

	stages := []Stage{
		{Name: "column_names", Apply: NormalizeColumnNames},
		{Name: "identifiers", Apply: NormalizeIdentifiers},
		{Name: "dates", Apply: NormalizeDates},
		{Name: "date_order", Apply: FixDateOrder},
		{Name: "price", Apply: NormalizePrices},
		{Name: "region", Apply: a.regionStage()},
		{Name: "payment", Apply: a.paymentStage()},
		{Name: "quantity", Apply: NormalizeQuantities},
		{Name: "customer_type", Apply: a.customerTypeStage()},
		{Name: "delivery_status", Apply: a.deliveryStatusStage()},
		{Name: "rating", Apply: NormalizeRatings},
		{Name: "review_text", Apply: NormalizeReviewText},
		{Name: "dedupe_exact", Apply: func(t *table.Table) error {
			DropExactDuplicates(t)
			return nil
		}},
	}

	if len(c.BusinessKey) > 0 {
		key := c.BusinessKey
		stages = append(stages, Stage{Name: "dedupe_key", Apply: func(t *table.Table) error {
			return DropDuplicatesByKey(t, key)
		}})
	}

	return stages
}

// CleanAll applies the whole pipeline to a copy of raw and returns the clean
// table. The caller's table is never mutated. Applying CleanAll to its own
// output yields an equal table.
func (c *Cleaner) CleanAll(raw *table.Table) (*table.Table, error) {
	t := raw.Clone()
	rowsIn := t.Len()

	for _, s := range c.Stages() {
		start := time.Now()
		if err := s.Apply(t); err != nil {
			metrics.IncCounter("orders_stage_total", 1, metrics.Labels{"stage": s.Name, "status": "error"})
			return nil, fmt.Errorf("clean: stage %s: %w", s.Name, err)
		}
		metrics.IncCounter("orders_stage_total", 1, metrics.Labels{"stage": s.Name, "status": "ok"})
		metrics.ObserveHistogram("orders_stage_duration_seconds", time.Since(start).Seconds(), metrics.Labels{"stage": s.Name})
		c.logf("stage=%s ok duration=%s", s.Name, time.Since(start).Truncate(time.Microsecond))
	}

	metrics.IncCounter("orders_rows_total", float64(rowsIn), metrics.Labels{"kind": "raw"})
	metrics.IncCounter("orders_rows_total", float64(t.Len()), metrics.Labels{"kind": "clean"})
	metrics.IncCounter("orders_rows_total", float64(rowsIn-t.Len()), metrics.Labels{"kind": "dropped"})
	c.reportNulls(t)

	return t, nil
}

// reportNulls publishes per-column null counts. Field-level coercion
// failures are silent by contract, so the null counts are the only signal
// operators get about them.
func (c *Cleaner) reportNulls(t *table.Table) {
	for _, col := range t.Columns {
		n := t.Col(col).NullCount()
		if n == 0 {
			continue
		}
		metrics.IncCounter("orders_nulls_total", float64(n), metrics.Labels{"column": col})
		c.logf("nulls column=%s count=%d rows=%d", col, n, t.Len())
	}
}

func (c *Cleaner) logf(format string, v ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, v...)
	}
}
