// Package service is the embedding facade: one validator, one call, one
// report. Each Validate call is independent, the validator holds no state
// between runs and is safe for concurrent use.
package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/timzifer/sfclint/advisor"
	"github.com/timzifer/sfclint/catalog"
	"github.com/timzifer/sfclint/document"
	"github.com/timzifer/sfclint/graph"
	"github.com/timzifer/sfclint/report"
	"github.com/timzifer/sfclint/rules"
	"github.com/timzifer/sfclint/telemetry"
)

const (
	// DefaultMaxBytes caps accepted document size.
	DefaultMaxBytes int64 = 4 << 20
	// DefaultMaxEntities caps the number of named entities per document.
	DefaultMaxEntities = 10000
)

// Validator validates configuration documents against a catalog.
type Validator struct {
	catalog     *catalog.Catalog
	checks      []rules.Check
	logger      zerolog.Logger
	collector   telemetry.Collector
	maxBytes    int64
	maxEntities int
	advise      bool
}

// Option customises a Validator.
type Option func(*Validator)

// WithCatalog replaces the built-in catalog, usually with one extended
// through catalog.WithOverride.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(v *Validator) {
		if cat != nil {
			v.catalog = cat
		}
	}
}

// WithLogger attaches a logger. Validation findings are not logged, only
// run-level events.
func WithLogger(logger zerolog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithCollector attaches a telemetry collector.
func WithCollector(collector telemetry.Collector) Option {
	return func(v *Validator) {
		if collector != nil {
			v.collector = collector
		}
	}
}

// WithLimits overrides the input size caps. Zero values keep the defaults.
func WithLimits(maxBytes int64, maxEntities int) Option {
	return func(v *Validator) {
		if maxBytes > 0 {
			v.maxBytes = maxBytes
		}
		if maxEntities > 0 {
			v.maxEntities = maxEntities
		}
	}
}

// WithoutAdvice disables the informational advisor pass.
func WithoutAdvice() Option {
	return func(v *Validator) {
		v.advise = false
	}
}

// New creates a validator with the built-in catalog and default limits.
func New(opts ...Option) *Validator {
	v := &Validator{
		catalog:     catalog.Default(),
		checks:      rules.Default(),
		logger:      zerolog.Nop(),
		collector:   telemetry.Noop(),
		maxBytes:    DefaultMaxBytes,
		maxEntities: DefaultMaxEntities,
		advise:      true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks one document and returns the aggregated report. The
// verdict depends only on the document bytes and the catalog, repeated
// calls yield identical reports.
func (v *Validator) Validate(raw []byte) report.Report {
	started := time.Now()
	rep := v.run(raw)
	v.finish(rep, started)
	return rep
}

func (v *Validator) run(raw []byte) report.Report {
	if int64(len(raw)) > v.maxBytes {
		return report.Assemble([]report.Diagnostic{{
			Severity: report.SeverityError,
			Code:     report.CodeInputTooLarge,
			Message:  fmt.Sprintf("document is %d bytes, the limit is %d", len(raw), v.maxBytes),
		}})
	}

	doc, parseDiags := document.Parse(raw)
	if hasFatal(parseDiags) {
		return report.Assemble(parseDiags)
	}

	if count := doc.EntityCount(); count > v.maxEntities {
		return report.Assemble(parseDiags, []report.Diagnostic{{
			Severity: report.SeverityError,
			Code:     report.CodeInputTooLarge,
			Message:  fmt.Sprintf("document defines %d entities, the limit is %d", count, v.maxEntities),
		}})
	}

	refGraph, refDiags := graph.Build(doc)
	ruleDiags := rules.Run(rules.Input{Doc: doc, Graph: refGraph, Catalog: v.catalog}, v.checks)

	var advice []report.Diagnostic
	if v.advise {
		advice = advisor.Advise(doc, v.catalog)
	}

	return report.Assemble(parseDiags, refDiags, ruleDiags, advice)
}

func (v *Validator) finish(rep report.Report, started time.Time) {
	v.collector.IncValidationRun(rep.Valid)
	v.collector.AddDiagnostics(rep.Errors, rep.Warnings, rep.Infos)
	v.collector.SetLastRun(time.Now())

	v.logger.Debug().
		Bool("valid", rep.Valid).
		Int("errors", rep.Errors).
		Int("warnings", rep.Warnings).
		Int("infos", rep.Infos).
		Dur("took", time.Since(started)).
		Msg("validation run finished")
}

func hasFatal(diags []report.Diagnostic) bool {
	for _, diag := range diags {
		if diag.Code == report.CodeMalformedJSON {
			return true
		}
	}
	return false
}
