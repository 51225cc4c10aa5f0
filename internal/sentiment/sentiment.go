// Package sentiment maps free-text reviews to a categorical label via an
// external text-classification service. It is a boundary component off the
// critical normalization path: a pipeline run is complete without it.
//
// The backing service wraps a multilingual star-rating model and answers
// with labels "1 star" .. "5 stars"; those collapse to negative / neutral /
// positive here. Inference is slow relative to the rest of the pipeline, so
// enrichment fans out across rows with a bounded worker count while keeping
// the output column aligned with row order.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"orderetl/internal/table"
)

// Label is one of the three sentiment classes.
type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// Classifier is the external text-classification capability. It always
// yields one of the three labels; errors are transport-level only.
type Classifier interface {
	Classify(ctx context.Context, text string) (Label, error)
}

// maxInputRunes caps the text sent to the model, which rejects longer
// sequences.
const maxInputRunes = 512

// Column is the name of the column Enrich adds.
const Column = "sentiment"

// Enrich adds a sentiment column classifying textColumn. Rows whose text is
// nil or blank get Neutral without a classifier call; when the text column
// is absent every row is Neutral. workers bounds concurrent classifier
// calls (min 1). Row order is preserved: results land by row index.
//
// A transport failure aborts enrichment; the caller decides whether to
// retry the run or persist without sentiment.
func Enrich(ctx context.Context, t *table.Table, textColumn string, c Classifier, workers int) error {
	if workers < 1 {
		workers = 1
	}

	col := t.Col(textColumn)
	results := make([]Label, t.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range t.Rows {
		text, ok := cellText(col, t.Rows[i], textColumn)
		if !ok {
			results[i] = Neutral
			continue
		}
		g.Go(func() error {
			label, err := c.Classify(gctx, truncate(text))
			if err != nil {
				return fmt.Errorf("classify row %d: %w", i, err)
			}
			results[i] = label
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	t.AddColumn(Column, func(i int, _ table.Record) any {
		return string(results[i])
	})
	return nil
}

func cellText(col table.Col, r table.Record, name string) (string, bool) {
	if !col.Present() {
		return "", false
	}
	s, ok := r[name].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxInputRunes {
		return s
	}
	return string(runes[:maxInputRunes])
}

// FromStars collapses a star-rating label to a sentiment class. Unknown
// labels read as Neutral rather than failing a whole batch over one odd
// response.
func FromStars(label string) Label {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "1 star", "2 stars":
		return Negative
	case "3 stars":
		return Neutral
	case "4 stars", "5 stars":
		return Positive
	default:
		return Neutral
	}
}

// Client calls the scoring service over HTTP.
type Client struct {
	endpoint string
	httpc    *http.Client
}

// NewClient returns a client for the given endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Label string `json:"label"`
}

// Classify implements Classifier.
func (c *Client) Classify(ctx context.Context, text string) (Label, error) {
	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return Neutral, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Neutral, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Neutral, fmt.Errorf("sentiment request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Neutral, fmt.Errorf("sentiment service: unexpected status %d", resp.StatusCode)
	}

	var sr scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return Neutral, fmt.Errorf("sentiment response: %w", err)
	}
	return FromStars(sr.Label), nil
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
	defaultErr    error
)

// Default returns the process-wide client, constructed once from the
// SENTIMENT_URL environment variable. The model service behind it is
// expensive to warm up, so there is exactly one explicit initialization and
// no hidden re-initialization.
func Default() (*Client, error) {
	defaultOnce.Do(func() {
		url := strings.TrimSpace(os.Getenv("SENTIMENT_URL"))
		if url == "" {
			defaultErr = fmt.Errorf("sentiment: SENTIMENT_URL is not set")
			return
		}
		defaultClient = NewClient(url)
	})
	return defaultClient, defaultErr
}
