package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector captures telemetry events emitted by the validation engine.
//
// Implementations may forward metrics to Prometheus, loggers or other
// monitoring systems. They should be inexpensive to call because hooks are
// executed inline with validation runs and document reloads.
type Collector interface {
	IncValidationRun(valid bool)
	AddDiagnostics(errors, warnings, infos int)
	IncReload(file string)
	SetLastRun(at time.Time)
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) IncValidationRun(bool)        {}
func (noopCollector) AddDiagnostics(int, int, int) {}
func (noopCollector) IncReload(string)             {}
func (noopCollector) SetLastRun(time.Time)         {}

// PrometheusCollector exposes validation counters via Prometheus.
type PrometheusCollector struct {
	runs        *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	reloads     *prometheus.CounterVec
	lastRun     prometheus.Gauge
}

var (
	runCounter        *prometheus.CounterVec
	runCounterLock    sync.Mutex
	diagCounter       *prometheus.CounterVec
	diagCounterLock   sync.Mutex
	reloadCounter     *prometheus.CounterVec
	reloadCounterLock sync.Mutex
	lastRunGauge      prometheus.Gauge
	lastRunGaugeLock  sync.Mutex
)

// NewPrometheusCollector registers the required metrics with the provided registerer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	runCounterLock.Lock()
	if runCounter == nil {
		counter := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sfclint_validation_runs_total",
			Help: "Number of validation runs, partitioned by verdict.",
		}, []string{"verdict"})
		registered, err := registerCounterVec(reg, counter)
		if err != nil {
			runCounterLock.Unlock()
			return nil, err
		}
		runCounter = registered
	}
	runCounterLock.Unlock()

	diagCounterLock.Lock()
	if diagCounter == nil {
		counter := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sfclint_diagnostics_total",
			Help: "Number of diagnostics produced, partitioned by severity.",
		}, []string{"severity"})
		registered, err := registerCounterVec(reg, counter)
		if err != nil {
			diagCounterLock.Unlock()
			return nil, err
		}
		diagCounter = registered
	}
	diagCounterLock.Unlock()

	reloadCounterLock.Lock()
	if reloadCounter == nil {
		counter := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sfclint_document_reload_total",
			Help: "Number of re-validations triggered per watched document file.",
		}, []string{"file"})
		registered, err := registerCounterVec(reg, counter)
		if err != nil {
			reloadCounterLock.Unlock()
			return nil, err
		}
		reloadCounter = registered
	}
	reloadCounterLock.Unlock()

	lastRunGaugeLock.Lock()
	if lastRunGauge == nil {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sfclint_last_run_timestamp_seconds",
			Help: "Unix timestamp of the most recent validation run.",
		})
		if err := reg.Register(gauge); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := already.ExistingCollector.(prometheus.Gauge); ok {
					gauge = existing
				} else {
					lastRunGaugeLock.Unlock()
					return nil, err
				}
			} else {
				lastRunGaugeLock.Unlock()
				return nil, err
			}
		}
		lastRunGauge = gauge
	}
	lastRunGaugeLock.Unlock()

	return &PrometheusCollector{
		runs:        runCounter,
		diagnostics: diagCounter,
		reloads:     reloadCounter,
		lastRun:     lastRunGauge,
	}, nil
}

func registerCounterVec(reg prometheus.Registerer, counter *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(counter); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return counter, nil
}

// IncValidationRun counts one completed run under its verdict label.
func (c *PrometheusCollector) IncValidationRun(valid bool) {
	verdict := "invalid"
	if valid {
		verdict = "valid"
	}
	c.runs.WithLabelValues(verdict).Inc()
}

// AddDiagnostics accumulates diagnostic counts per severity.
func (c *PrometheusCollector) AddDiagnostics(errors, warnings, infos int) {
	if errors > 0 {
		c.diagnostics.WithLabelValues("error").Add(float64(errors))
	}
	if warnings > 0 {
		c.diagnostics.WithLabelValues("warning").Add(float64(warnings))
	}
	if infos > 0 {
		c.diagnostics.WithLabelValues("info").Add(float64(infos))
	}
}

// IncReload counts a watch-triggered re-validation of a document file.
func (c *PrometheusCollector) IncReload(file string) {
	c.reloads.WithLabelValues(file).Inc()
}

// SetLastRun records when the engine last produced a report.
func (c *PrometheusCollector) SetLastRun(at time.Time) {
	c.lastRun.Set(float64(at.Unix()))
}
