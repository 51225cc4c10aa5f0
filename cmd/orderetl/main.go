package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"orderetl/internal/clean"
	"orderetl/internal/config"
	"orderetl/internal/metrics"
	"orderetl/internal/metrics/datadog"
	"orderetl/internal/parser/csv"
	"orderetl/internal/parser/htmltable"
	"orderetl/internal/sentiment"
	"orderetl/internal/storage"
	"orderetl/internal/table"

	// register all backends with the storage factory.
	// config specifies which to use but we build in support for all of them.
	_ "orderetl/internal/storage/all"
)

// main is the entry point for the batch cleaner. It loads the pipeline
// config, optionally initializes a metrics backend, and executes one run:
// ingest → clean → optional sentiment → persist. A run either persists the
// full clean table or exits non-zero having persisted nothing.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/nordtech.json", "pipeline config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (datadog, none); falls back to $METRICS_BACKEND")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	ctx := context.Background()
	runID := uuid.NewString()

	backendName := resolveMetricsBackend(metricsBackendFlg, os.Getenv("METRICS_BACKEND"))
	switch backendName {
	case "datadog":
		jobName := p.Job
		if jobName == "" {
			jobName = "orderetl"
		}
		tags := append(datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS")), "run_id:"+runID)

		b, err := datadog.NewBackend(ctx, datadog.Options{
			JobName: jobName,
			Tags:    tags,
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			log.Printf("metrics: backend=%v job_name=%v run_id=%v", backendName, jobName, runID)
			metrics.SetBackend(b)
			defer func() {
				if err := b.Close(); err != nil {
					log.Printf("metrics: close error: %v", err)
				}
			}()
		}

	case "none", "":
		// nop backend stays installed.

	default:
		log.Printf("metrics: unknown backend %q; using nop", backendName)
	}

	if err := run(ctx, p, *verbose); err != nil {
		fatalf("%v", err)
	}
}

// resolveMetricsBackend layers the backend choice: flag, then environment,
// then the nop default. An explicit "none" on either level wins over the
// environment below it.
func resolveMetricsBackend(flagVal, envVal string) string {
	if flagVal != "" {
		return flagVal
	}
	return envVal
}

func run(ctx context.Context, p config.Pipeline, verbose bool) error {
	start := time.Now()

	raw, err := ingest(p)
	if err != nil {
		return err
	}
	log.Printf("ingested rows=%d columns=%d source=%s", raw.Len(), len(raw.Columns), p.Source.File.Path)

	aliases := clean.Builtin()
	if p.Cleaning.AliasFile != "" {
		if err := aliases.MergeFile(p.Cleaning.AliasFile); err != nil {
			return err
		}
	}

	cleaner := &clean.Cleaner{
		Aliases:     aliases,
		BusinessKey: p.Cleaning.BusinessKey,
	}
	if verbose {
		cleaner.Logger = log.Default()
	}

	cleaned, err := cleaner.CleanAll(raw)
	if err != nil {
		return err
	}
	log.Printf("cleaned rows=%d dropped=%d", cleaned.Len(), raw.Len()-cleaned.Len())

	if p.Sentiment.Enabled {
		if err := enrich(ctx, p.Sentiment, cleaned); err != nil {
			return err
		}
		log.Printf("sentiment column added rows=%d", cleaned.Len())
	}

	n, err := persist(ctx, p.Storage, cleaned)
	if err != nil {
		return err
	}
	log.Printf("persisted rows=%d table=%s backend=%s duration=%s",
		n, p.Storage.Table, p.Storage.Kind, time.Since(start).Truncate(time.Millisecond))

	// Runs shorter than the backend's flush interval would otherwise only
	// submit from the deferred Close.
	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush error: %v", err)
	}

	return nil
}

func ingest(p config.Pipeline) (*table.Table, error) {
	switch p.Parser.Kind {
	case "csv":
		return csv.ReadTable(p.Source.File.Path, p.Parser.Options)
	case "htmltable":
		return htmltable.ReadTable(p.Source.File.Path)
	default:
		return nil, fmt.Errorf("unsupported parser.kind=%s", p.Parser.Kind)
	}
}

func enrich(ctx context.Context, cfg config.Sentiment, t *table.Table) error {
	textColumn := cfg.TextColumn
	if textColumn == "" {
		textColumn = "recension_text"
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	var classifier sentiment.Classifier
	if cfg.Endpoint != "" {
		classifier = sentiment.NewClient(cfg.Endpoint)
	} else {
		c, err := sentiment.Default()
		if err != nil {
			return err
		}
		classifier = c
	}

	return sentiment.Enrich(ctx, t, textColumn, classifier, workers)
}

func persist(ctx context.Context, cfg config.Storage, t *table.Table) (int64, error) {
	repo, err := storage.New(ctx, storage.Config{
		Kind: cfg.Kind,
		DSN:  os.ExpandEnv(cfg.DSN),
	})
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	spec := storage.SpecFromTable(cfg.Table, t)
	if err := repo.EnsureTable(ctx, spec); err != nil {
		return 0, err
	}

	mode := storage.Replace
	if cfg.IfExists == "append" {
		mode = storage.Append
	}

	return repo.WriteRows(ctx, spec, storage.RowsFromTable(t), mode)
}

func fatalf(format string, v ...any) {
	log.Printf(format, v...)
	os.Exit(1)
}
