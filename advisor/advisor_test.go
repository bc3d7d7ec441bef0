package advisor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timzifer/sfclint/catalog"
	"github.com/timzifer/sfclint/document"
	"github.com/timzifer/sfclint/report"
)

func adviseRaw(t *testing.T, raw string) []report.Diagnostic {
	t.Helper()
	doc, diags := document.Parse([]byte(raw))
	for _, diag := range diags {
		require.NotEqual(t, report.CodeMalformedJSON, diag.Code, "fixture must parse")
	}
	return Advise(doc, catalog.Default())
}

func findByCode(diags []report.Diagnostic, code string) []report.Diagnostic {
	var out []report.Diagnostic
	for _, diag := range diags {
		if diag.Code == code {
			out = append(out, diag)
		}
	}
	return out
}

func TestAdviceIsNeverMoreThanInformational(t *testing.T) {
	diags := adviseRaw(t, `{
		"LogLevel": "Trace",
		"Schedules": [{"Name": "M", "Interval": 10, "Sources": {"A": ["*"], "B": ["*"]}, "Targets": ["S3"]}],
		"Targets": {"S3": {"TargetType": "AWS-S3", "Region": "eu-central-1", "BucketName": "b", "BufferSize": 2}}
	}`)
	require.NotEmpty(t, diags)
	for _, diag := range diags {
		require.Equal(t, report.SeverityInfo, diag.Severity, diag.Code)
		require.NotEmpty(t, diag.Suggestion, diag.Code)
	}
}

func TestFastIntervalAdvice(t *testing.T) {
	diags := adviseRaw(t, `{"Schedules": [{"Name": "M", "Interval": 50}]}`)
	fast := findByCode(diags, report.CodeFastInterval)
	require.Len(t, fast, 1)
	require.Equal(t, "Schedules.M.Interval", fast[0].Location())

	diags = adviseRaw(t, `{"Schedules": [{"Name": "M", "Interval": 100}]}`)
	require.Empty(t, findByCode(diags, report.CodeFastInterval))
}

func TestAmbiguousTimestampAdvice(t *testing.T) {
	multi := `{"Schedules": [{"Name": "M", "Interval": 1000, "Sources": {"A": ["*"], "B": ["*"]}}]}`
	diags := adviseRaw(t, multi)
	require.Len(t, findByCode(diags, report.CodeAmbiguousTimestamp), 1)

	leveled := `{"Schedules": [{"Name": "M", "Interval": 1000, "TimestampLevel": "Source", "Sources": {"A": ["*"], "B": ["*"]}}]}`
	diags = adviseRaw(t, leveled)
	require.Empty(t, findByCode(diags, report.CodeAmbiguousTimestamp))

	single := `{"Schedules": [{"Name": "M", "Interval": 1000, "Sources": {"A": ["*"]}}]}`
	diags = adviseRaw(t, single)
	require.Empty(t, findByCode(diags, report.CodeAmbiguousTimestamp))
}

func TestBufferAdvice(t *testing.T) {
	tiny := `{"Targets": {"S3": {"TargetType": "AWS-S3", "Region": "r", "BucketName": "b", "BufferSize": 2}}}`
	diags := adviseRaw(t, tiny)
	pressure := findByCode(diags, report.CodeBufferPressure)
	require.Len(t, pressure, 1)
	require.Equal(t, "Targets.S3.BufferSize", pressure[0].Location())

	// 60s flush at 1s polling on three channels outgrows a buffer of 100
	growth := `{
		"Schedules": [{"Name": "M", "Interval": 1000, "Sources": {"Sim": ["*"]}, "Targets": ["File"]}],
		"Sources": {"Sim": {"ProtocolAdapter": "A", "Channels": {"a": {}, "b": {}, "c": {}}}},
		"Targets": {"File": {"TargetType": "FILE-TARGET", "Directory": "/d", "Extension": ".json", "Interval": 60, "BufferSize": 100}}
	}`
	diags = adviseRaw(t, growth)
	pressure = findByCode(diags, report.CodeBufferPressure)
	require.Len(t, pressure, 1)
	require.Contains(t, pressure[0].Message, "180")

	roomy := `{
		"Schedules": [{"Name": "M", "Interval": 1000, "Sources": {"Sim": ["*"]}, "Targets": ["File"]}],
		"Sources": {"Sim": {"ProtocolAdapter": "A", "Channels": {"a": {}, "b": {}, "c": {}}}},
		"Targets": {"File": {"TargetType": "FILE-TARGET", "Directory": "/d", "Extension": ".json", "Interval": 60, "BufferSize": 200}}
	}`
	diags = adviseRaw(t, roomy)
	require.Empty(t, findByCode(diags, report.CodeBufferPressure))
}

func TestNoBufferingAdviceForStreamingTargets(t *testing.T) {
	bare := `{"Targets": {"K": {"TargetType": "AWS-KINESIS", "Region": "r", "StreamName": "s"}}}`
	diags := adviseRaw(t, bare)
	require.Len(t, findByCode(diags, report.CodeNoBuffering), 1)

	batched := `{"Targets": {"K": {"TargetType": "AWS-KINESIS", "Region": "r", "StreamName": "s", "BatchSize": 50}}}`
	diags = adviseRaw(t, batched)
	require.Empty(t, findByCode(diags, report.CodeNoBuffering))

	// non-streaming targets are exempt
	file := `{"Targets": {"F": {"TargetType": "FILE-TARGET", "Directory": "/d", "Extension": ".json"}}}`
	diags = adviseRaw(t, file)
	require.Empty(t, findByCode(diags, report.CodeNoBuffering))
}

func TestNoCompressionAdviceForS3(t *testing.T) {
	plain := `{"Targets": {"S3": {"TargetType": "AWS-S3", "Region": "r", "BucketName": "b", "BufferSize": 50}}}`
	diags := adviseRaw(t, plain)
	require.Len(t, findByCode(diags, report.CodeNoCompression), 1)

	compressed := `{"Targets": {"S3": {"TargetType": "AWS-S3", "Region": "r", "BucketName": "b", "BufferSize": 50, "Compression": "GZIP"}}}`
	diags = adviseRaw(t, compressed)
	require.Empty(t, findByCode(diags, report.CodeNoCompression))
}

func TestTraceLoggingAdvice(t *testing.T) {
	diags := adviseRaw(t, `{"LogLevel": "Trace"}`)
	trace := findByCode(diags, report.CodeTraceLogging)
	require.Len(t, trace, 1)
	require.Equal(t, "Document.LogLevel", trace[0].Location())

	diags = adviseRaw(t, `{"LogLevel": "Info"}`)
	require.Empty(t, findByCode(diags, report.CodeTraceLogging))
}

func TestAdviceIsIdempotent(t *testing.T) {
	raw := `{
		"LogLevel": "Trace",
		"Schedules": [{"Name": "M", "Interval": 10, "Sources": {"A": ["*"]}, "Targets": ["S3"]}],
		"Targets": {"S3": {"TargetType": "AWS-S3", "Region": "r", "BucketName": "b"}}
	}`
	first := adviseRaw(t, raw)
	second := adviseRaw(t, raw)
	require.Equal(t, first, second)
}
