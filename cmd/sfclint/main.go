package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/timzifer/sfclint/catalog"
	"github.com/timzifer/sfclint/internal/logging"
	"github.com/timzifer/sfclint/internal/reload"
	"github.com/timzifer/sfclint/internal/settings"
	"github.com/timzifer/sfclint/report"
	"github.com/timzifer/sfclint/service"
	"github.com/timzifer/sfclint/telemetry"
)

const (
	exitValid   = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	docPath := flag.String("config", "", "Path to the configuration document, '-' reads stdin")
	format := flag.String("format", "text", "Report format: text or json")
	settingsPath := flag.String("settings", "", "Path to the tool settings file")
	catalogPath := flag.String("catalog", "", "Path to a catalog override file")
	watch := flag.Bool("watch", false, "Re-validate whenever the document file changes")
	metricsListen := flag.String("metrics-listen", "", "Expose Prometheus metrics on this address")
	flag.Parse()

	if *docPath == "" {
		fmt.Fprintln(os.Stderr, "usage: sfclint -config <file>")
		flag.PrintDefaults()
		os.Exit(exitUsage)
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintf(os.Stderr, "unsupported format %q, use text or json\n", *format)
		os.Exit(exitUsage)
	}

	cfg := settings.Default()
	if *settingsPath != "" {
		loaded, err := settings.Load(*settingsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load settings: %v\n", err)
			os.Exit(exitUsage)
		}
		cfg = loaded
	}

	logger, cleanup, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logging: %v\n", err)
		os.Exit(exitUsage)
	}
	defer cleanup()

	collector, err := newTelemetryCollector(cfg.Telemetry, *metricsListen != "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry disabled: %v\n", err)
		collector = telemetry.Noop()
	}

	cat := catalog.Default()
	if *catalogPath != "" {
		raw, err := os.ReadFile(*catalogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read catalog override: %v\n", err)
			os.Exit(exitUsage)
		}
		cat, err = cat.WithOverride(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid catalog override: %v\n", err)
			os.Exit(exitUsage)
		}
	}

	validator := service.New(
		service.WithCatalog(cat),
		service.WithLogger(logger),
		service.WithCollector(collector),
		service.WithLimits(cfg.Limits.MaxBytes, cfg.Limits.MaxEntities),
	)

	if *metricsListen != "" {
		go serveMetrics(*metricsListen, logger)
	}

	if !*watch {
		raw, err := readDocument(*docPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read document: %v\n", err)
			os.Exit(exitUsage)
		}
		rep := validator.Validate(raw)
		printReport(os.Stdout, rep, *format)
		os.Exit(verdictCode(rep))
	}

	if *docPath == "-" {
		fmt.Fprintln(os.Stderr, "watch mode needs a file path, not stdin")
		os.Exit(exitUsage)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code, err := runWatch(ctx, validator, *docPath, *format, cfg.Watch.Interval.Duration, collector, logger)
	if err != nil && err != context.Canceled {
		logger.Error().Err(err).Msg("watch stopped")
		os.Exit(exitUsage)
	}
	os.Exit(code)
}

func readDocument(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func verdictCode(rep report.Report) int {
	if rep.Valid {
		return exitValid
	}
	return exitInvalid
}

func printReport(w io.Writer, rep report.Report, format string) {
	if format == "json" {
		encoded, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "encode report: %v\n", err)
			return
		}
		fmt.Fprintln(w, string(encoded))
		return
	}

	for _, diag := range rep.Diagnostics {
		location := diag.Location()
		if location == "" {
			location = "<document>"
		}
		fmt.Fprintf(w, "%-7s %s  %s: %s\n", diag.Severity, diag.Code, location, diag.Message)
		if diag.Suggestion != "" {
			fmt.Fprintf(w, "        hint: %s\n", diag.Suggestion)
		}
	}
	verdict := "VALID"
	if !rep.Valid {
		verdict = "INVALID"
	}
	fmt.Fprintf(w, "%s: %d errors, %d warnings, %d infos\n", verdict, rep.Errors, rep.Warnings, rep.Infos)
}

// runWatch re-validates the document whenever it changes on disk. It
// returns the exit code of the most recent run once the context ends.
func runWatch(ctx context.Context, validator *service.Validator, docPath, format string, interval time.Duration, collector telemetry.Collector, logger zerolog.Logger) (int, error) {
	watcher, err := reload.NewWatcher(docPath)
	if err != nil {
		return exitUsage, fmt.Errorf("create document watcher: %w", err)
	}
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	code := exitUsage
	raw, err := os.ReadFile(docPath)
	if err != nil {
		logger.Error().Err(err).Str("file", docPath).Msg("failed to read document")
	} else {
		rep := validator.Validate(raw)
		printReport(os.Stdout, rep, format)
		code = verdictCode(rep)
	}

	for {
		select {
		case <-ctx.Done():
			return code, ctx.Err()
		case <-ticker.C:
			changes, err := watcher.Check()
			if err != nil {
				logger.Error().Err(err).Msg("failed to check document changes")
				continue
			}
			if len(changes) == 0 {
				continue
			}
			raw, err := os.ReadFile(docPath)
			if err != nil {
				logger.Error().Err(err).Str("file", docPath).Msg("failed to reload document")
				continue
			}
			rep := validator.Validate(raw)
			printReport(os.Stdout, rep, format)
			code = verdictCode(rep)
			for _, file := range changes {
				collector.IncReload(file)
			}
			if err := watcher.Update(docPath); err != nil {
				logger.Error().Err(err).Msg("failed to update watcher state")
			}
		}
	}
}

func serveMetrics(listen string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(listen, mux); err != nil {
		logger.Error().Err(err).Str("listen", listen).Msg("metrics listener stopped")
	}
}

func newTelemetryCollector(cfg settings.TelemetryConfig, force bool) (telemetry.Collector, error) {
	if !cfg.Enabled && !force {
		return telemetry.Noop(), nil
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", "prometheus":
		collector, err := telemetry.NewPrometheusCollector(nil)
		if err != nil {
			return nil, err
		}
		return collector, nil
	default:
		return telemetry.Noop(), fmt.Errorf("unsupported telemetry provider %q", cfg.Provider)
	}
}
