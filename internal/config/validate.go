package config

import "fmt"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding, addressed by a JSON-ish path so the
// operator can locate the offending field.
type Issue struct {
	Severity Severity
	Path     string
	Message  string
}

func errf(path, format string, args ...any) Issue {
	return Issue{Severity: SeverityError, Path: path, Message: fmt.Sprintf(format, args...)}
}

func warnf(path, format string, args ...any) Issue {
	return Issue{Severity: SeverityWarning, Path: path, Message: fmt.Sprintf(format, args...)}
}

// ValidatePipeline checks structural preconditions a run cannot recover from
// and flags suspicious-but-runnable settings as warnings. It never touches
// the filesystem or the network; existence of the source file is checked by
// the ingestion step itself.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if p.Source.Kind != "file" {
		issues = append(issues, errf("source.kind", "must be %q, got %q", "file", p.Source.Kind))
	}
	if p.Source.File == nil || p.Source.File.Path == "" {
		issues = append(issues, errf("source.file.path", "is required"))
	}

	switch p.Parser.Kind {
	case "csv", "htmltable":
	case "":
		issues = append(issues, errf("parser.kind", "is required (csv or htmltable)"))
	default:
		issues = append(issues, errf("parser.kind", "unsupported parser %q", p.Parser.Kind))
	}

	switch p.Storage.Kind {
	case "sqlite", "postgres", "mssql":
	case "":
		issues = append(issues, errf("storage.kind", "is required"))
	default:
		issues = append(issues, errf("storage.kind", "unsupported backend %q", p.Storage.Kind))
	}
	if p.Storage.DSN == "" {
		issues = append(issues, errf("storage.dsn", "is required"))
	}
	if p.Storage.Table == "" {
		issues = append(issues, errf("storage.table", "is required"))
	}
	switch p.Storage.IfExists {
	case "", "replace", "append":
	default:
		issues = append(issues, errf("storage.if_exists", "must be replace or append, got %q", p.Storage.IfExists))
	}

	for i, c := range p.Cleaning.BusinessKey {
		if c == "" {
			issues = append(issues, errf(fmt.Sprintf("cleaning.business_key[%d]", i), "must not be empty"))
		}
	}

	if p.Sentiment.Enabled && p.Sentiment.Endpoint == "" {
		issues = append(issues, warnf("sentiment.endpoint", "not set; falling back to SENTIMENT_URL"))
	}
	if p.Sentiment.Workers < 0 {
		issues = append(issues, errf("sentiment.workers", "must be >= 0"))
	}

	if p.Job == "" {
		issues = append(issues, warnf("job", "not set; metrics will use the default job name"))
	}

	return issues
}

// HasErrors reports whether any issue is severity error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}
