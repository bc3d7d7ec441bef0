// Package advisor produces optimization hints for structurally sound
// documents. Advice is always informational: running the advisor can
// never change a report's verdict, and advising the same document twice
// yields the same findings.
package advisor

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/timzifer/sfclint/catalog"
	"github.com/timzifer/sfclint/document"
	"github.com/timzifer/sfclint/report"
)

var (
	fastIntervalFloor = decimal.NewFromInt(100)
	bufferFloor       = decimal.NewFromInt(10)
)

// Advise inspects the document for working but suboptimal setups.
func Advise(doc *document.Document, cat *catalog.Catalog) []report.Diagnostic {
	var diags []report.Diagnostic
	diags = append(diags, adviseSchedules(doc)...)
	diags = append(diags, adviseTargets(doc, cat)...)
	diags = append(diags, adviseLogging(doc)...)
	return diags
}

func adviseSchedules(doc *document.Document) []report.Diagnostic {
	var diags []report.Diagnostic
	for _, name := range sortedKeys(doc.Schedules) {
		schedule := doc.Schedules[name]

		if schedule.Fields.Has("Interval") && schedule.Interval.Sign() > 0 && schedule.Interval.Cmp(fastIntervalFloor) < 0 {
			diags = append(diags, report.Diagnostic{
				Severity:   report.SeverityInfo,
				Code:       report.CodeFastInterval,
				Section:    catalog.SectionSchedules,
				Entity:     name,
				Field:      "Interval",
				Message:    fmt.Sprintf("interval of %sms polls faster than most field devices can answer", schedule.Interval.String()),
				Suggestion: "consider an interval of 100ms or more",
			})
		}

		level := schedule.TimestampLevel
		if (level == "" || level == "None") && len(schedule.Sources) > 1 {
			diags = append(diags, report.Diagnostic{
				Severity:   report.SeverityInfo,
				Code:       report.CodeAmbiguousTimestamp,
				Section:    catalog.SectionSchedules,
				Entity:     name,
				Field:      "TimestampLevel",
				Message:    fmt.Sprintf("schedule %q merges %d sources without timestamps, consumers cannot order the values", name, len(schedule.Sources)),
				Suggestion: "set TimestampLevel to Source or Both",
			})
		}
	}
	return diags
}

func adviseTargets(doc *document.Document, cat *catalog.Catalog) []report.Diagnostic {
	var diags []report.Diagnostic
	for _, name := range sortedKeys(doc.Targets) {
		target := doc.Targets[name]
		typeName := document.ParseRef(target.TargetType).Name
		shape, known := cat.TargetType(typeName)

		bufferSize, hasBuffer := numberParam(target, "BufferSize")
		_, hasBatch := numberParam(target, "BatchSize")

		if known && shape.Streaming && !hasBuffer && !hasBatch {
			diags = append(diags, report.Diagnostic{
				Severity:   report.SeverityInfo,
				Code:       report.CodeNoBuffering,
				Section:    catalog.SectionTargets,
				Entity:     name,
				Message:    fmt.Sprintf("streaming target %q writes every sample individually", name),
				Suggestion: "set BufferSize or BatchSize to batch writes",
			})
		}

		if hasBuffer && bufferSize.Sign() > 0 && bufferSize.Cmp(bufferFloor) < 0 {
			diags = append(diags, report.Diagnostic{
				Severity:   report.SeverityInfo,
				Code:       report.CodeBufferPressure,
				Section:    catalog.SectionTargets,
				Entity:     name,
				Field:      "BufferSize",
				Message:    fmt.Sprintf("buffer of %s samples flushes almost every cycle", bufferSize.String()),
				Suggestion: "raise BufferSize to at least 10",
			})
		} else if hasBuffer {
			diags = append(diags, adviseBufferGrowth(doc, name, target, bufferSize)...)
		}

		if typeName == "AWS-S3" {
			if _, ok := target.Params["Compression"]; !ok {
				diags = append(diags, report.Diagnostic{
					Severity:   report.SeverityInfo,
					Code:       report.CodeNoCompression,
					Section:    catalog.SectionTargets,
					Entity:     name,
					Message:    fmt.Sprintf("target %q uploads uncompressed objects", name),
					Suggestion: "set Compression to GZIP or ZIP to cut storage cost",
				})
			}
		}
	}
	return diags
}

// adviseBufferGrowth estimates how many samples accumulate between target
// flushes. A flush interval is given in seconds, schedule intervals in
// milliseconds.
func adviseBufferGrowth(doc *document.Document, name string, target document.Target, bufferSize decimal.Decimal) []report.Diagnostic {
	flush, ok := numberParam(target, "Interval")
	if !ok || flush.Sign() <= 0 {
		return nil
	}
	flushMillis := flush.Mul(decimal.NewFromInt(1000))

	var pending decimal.Decimal
	for _, scheduleName := range sortedKeys(doc.Schedules) {
		schedule := doc.Schedules[scheduleName]
		if !schedule.Active || schedule.Interval.Sign() <= 0 || !referencesTarget(schedule, name) {
			continue
		}
		channels := decimal.NewFromInt(int64(channelCount(doc, schedule)))
		pending = pending.Add(flushMillis.Div(schedule.Interval).Mul(channels))
	}

	if pending.Cmp(bufferSize) > 0 {
		return []report.Diagnostic{{
			Severity:   report.SeverityInfo,
			Code:       report.CodeBufferPressure,
			Section:    catalog.SectionTargets,
			Entity:     name,
			Field:      "BufferSize",
			Message:    fmt.Sprintf("roughly %s samples arrive per flush interval but the buffer holds %s", pending.Round(0).String(), bufferSize.String()),
			Suggestion: "raise BufferSize or shorten the flush Interval",
		}}
	}
	return nil
}

func adviseLogging(doc *document.Document) []report.Diagnostic {
	if doc.LogLevel != "Trace" {
		return nil
	}
	return []report.Diagnostic{{
		Severity:   report.SeverityInfo,
		Code:       report.CodeTraceLogging,
		Section:    catalog.SectionDocument,
		Field:      "LogLevel",
		Message:    "trace logging records every sample and slows the data path",
		Suggestion: "use Info or Warning outside of debugging sessions",
	}}
}

func referencesTarget(schedule document.Schedule, target string) bool {
	for _, ref := range schedule.Targets {
		if ref.Name == target {
			return true
		}
	}
	return false
}

func channelCount(doc *document.Document, schedule document.Schedule) int {
	count := 0
	for rawSource, selectors := range schedule.Sources {
		source, ok := doc.Sources[document.ParseRef(rawSource).Name]
		if !ok {
			continue
		}
		all := false
		for _, selector := range selectors {
			if selector == "*" {
				all = true
				break
			}
		}
		if all {
			count += len(source.Channels)
		} else {
			count += len(selectors)
		}
	}
	return count
}

func numberParam(target document.Target, name string) (decimal.Decimal, bool) {
	value, ok := target.Params[name]
	if !ok || value.Kind != document.KindNumber {
		return decimal.Decimal{}, false
	}
	return value.Num, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
