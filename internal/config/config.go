// Package config defines the pipeline configuration consumed by cmd/orderetl.
//
// The config is a single JSON document describing one batch run: where the
// raw snapshot comes from, how to parse it, how to clean it, whether to
// enrich it with sentiment, and where the clean table goes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Pipeline struct {
	Job       string    `json:"job"`
	Source    Source    `json:"source"`
	Parser    Parser    `json:"parser"`
	Cleaning  Cleaning  `json:"cleaning"`
	Sentiment Sentiment `json:"sentiment"`
	Storage   Storage   `json:"storage"`
}

type Source struct {
	Kind string      `json:"kind"` // "file"
	File *FileSource `json:"file,omitempty"`
}

type FileSource struct {
	Path string `json:"path"`
}

type Parser struct {
	// Kind selects the table parser: "csv" | "htmltable".
	Kind    string  `json:"kind"`
	Options Options `json:"options"`
}

type Cleaning struct {
	// BusinessKey, when non-empty, enables the key-based dedupe phase after
	// exact-row dedupe. Column names refer to normalized headers.
	BusinessKey []string `json:"business_key,omitempty"`

	// AliasFile optionally points at a YAML file whose alias entries are
	// merged over the built-in categorical alias tables.
	AliasFile string `json:"alias_file,omitempty"`
}

type Sentiment struct {
	Enabled bool `json:"enabled"`

	// TextColumn is the review-text column to classify.
	// Defaults to "recension_text".
	TextColumn string `json:"text_column,omitempty"`

	// Endpoint is the scoring service URL. Falls back to SENTIMENT_URL.
	Endpoint string `json:"endpoint,omitempty"`

	// Workers bounds concurrent classifier calls. Defaults to 4.
	Workers int `json:"workers,omitempty"`
}

type Storage struct {
	// Kind selects the backend: "sqlite" | "postgres" | "mssql".
	Kind string `json:"kind"`

	// DSN is expanded with os.ExpandEnv before use.
	DSN string `json:"dsn"`

	// Table is the destination table name.
	Table string `json:"table"`

	// IfExists is the conflict policy: "replace" (default) or "append".
	IfExists string `json:"if_exists,omitempty"`
}

// Load reads and decodes a pipeline config file.
func Load(path string) (Pipeline, error) {
	var p Pipeline

	f, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return p, fmt.Errorf("decode config: %w", err)
	}
	return p, nil
}
