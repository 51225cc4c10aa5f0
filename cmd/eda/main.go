// Command eda prints a quick exploratory summary of a raw snapshot: column
// kinds guessed from a bounded sample, missing-value counts, and the first
// few rows. All inference is best-effort and never fails the summary.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"orderetl/internal/config"
	"orderetl/internal/parser/csv"
	"orderetl/internal/table"
)

func main() {
	path := flag.String("source", "", "CSV file to summarize")
	sample := flag.Int("sample", 5, "number of sample rows to print")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: eda -source data/raw/orders.csv")
		os.Exit(2)
	}

	t, err := csv.ReadTable(*path, config.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "eda: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("rows=%d columns=%d\n\n", t.Len(), len(t.Columns))

	fmt.Println("--- COLUMNS ---")
	for _, col := range t.Columns {
		nulls := t.Col(col).NullCount()
		fmt.Printf("%-24s kind=%-8s missing=%d\n", col, guessKind(t, col), nulls)
	}

	fmt.Println("\n--- SAMPLE ROWS ---")
	n := *sample
	if n > t.Len() {
		n = t.Len()
	}
	for i := 0; i < n; i++ {
		parts := make([]string, 0, len(t.Columns))
		for _, col := range t.Columns {
			s, ok := table.AsString(t.Rows[i][col])
			if !ok {
				s = "<null>"
			}
			parts = append(parts, col+"="+s)
		}
		fmt.Println(strings.Join(parts, " | "))
	}
}

// guessKind looks at non-null cells and reports "numeric" only when every
// one of them parses as a number; otherwise "text". Raw snapshots are all
// strings at this point, so the guess is about content, not storage type.
func guessKind(t *table.Table, col string) string {
	seen := 0
	for _, r := range t.Rows {
		s, ok := r[col].(string)
		if !ok {
			continue
		}
		seen++
		if _, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64); err != nil {
			return "text"
		}
	}
	if seen == 0 {
		return "empty"
	}
	return "numeric"
}
