package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssembleOrdersByLocationThenSeverity(t *testing.T) {
	batchA := []Diagnostic{
		{Severity: SeverityInfo, Code: CodeOrphanEntity, Section: "Targets", Entity: "Debug", Message: "unused"},
		{Severity: SeverityWarning, Code: CodeUnknownTargetParam, Section: "Targets", Entity: "File", Field: "Color", Message: "unknown"},
	}
	batchB := []Diagnostic{
		{Severity: SeverityError, Code: CodeInvalidRange, Section: "Schedules", Entity: "Main", Field: "Interval", Message: "negative"},
		{Severity: SeverityError, Code: CodeMissingTargetParam, Section: "Targets", Entity: "File", Field: "Color", Message: "missing"},
	}

	rep := Assemble(batchA, batchB)

	require.Len(t, rep.Diagnostics, 4)
	require.Equal(t, "Schedules.Main.Interval", rep.Diagnostics[0].Location())
	require.Equal(t, "Targets.Debug", rep.Diagnostics[1].Location())
	// same location: the error sorts before the warning
	require.Equal(t, SeverityError, rep.Diagnostics[2].Severity)
	require.Equal(t, "Targets.File.Color", rep.Diagnostics[2].Location())
	require.Equal(t, SeverityWarning, rep.Diagnostics[3].Severity)
}

func TestAssembleIsDeterministicAcrossBatchOrder(t *testing.T) {
	diags := []Diagnostic{
		{Severity: SeverityError, Code: CodeInvalidRange, Section: "A", Message: "x"},
		{Severity: SeverityWarning, Code: CodeUnknownSection, Section: "B", Message: "y"},
		{Severity: SeverityInfo, Code: CodeFastInterval, Section: "A", Message: "z"},
	}

	first := Assemble(diags[:1], diags[1:])
	second := Assemble(diags[1:], diags[:1])

	encodedFirst, err := json.Marshal(first)
	require.NoError(t, err)
	encodedSecond, err := json.Marshal(second)
	require.NoError(t, err)
	require.Equal(t, string(encodedFirst), string(encodedSecond))
}

func TestAssembleCountsAndVerdict(t *testing.T) {
	rep := Assemble([]Diagnostic{
		{Severity: SeverityWarning, Code: CodeUnknownSection, Message: "a"},
		{Severity: SeverityInfo, Code: CodeTraceLogging, Message: "b"},
		{Severity: SeverityInfo, Code: CodeNoCompression, Message: "c"},
	})
	require.True(t, rep.Valid)
	require.Equal(t, 0, rep.Errors)
	require.Equal(t, 1, rep.Warnings)
	require.Equal(t, 2, rep.Infos)

	rep = Assemble([]Diagnostic{{Severity: SeverityError, Code: CodeMalformedJSON, Message: "broken"}})
	require.False(t, rep.Valid)
	require.Equal(t, 1, rep.Errors)
}

func TestSeverityJSONRoundTrip(t *testing.T) {
	encoded, err := json.Marshal(SeverityWarning)
	require.NoError(t, err)
	require.JSONEq(t, `"Warning"`, string(encoded))

	var decoded Severity
	require.NoError(t, json.Unmarshal([]byte(`"error"`), &decoded))
	require.Equal(t, SeverityError, decoded)

	require.Error(t, json.Unmarshal([]byte(`"fatal"`), &decoded))
}

func TestLocationSkipsEmptyComponents(t *testing.T) {
	require.Equal(t, "Targets.FileTarget.BufferSize", Diagnostic{Section: "Targets", Entity: "FileTarget", Field: "BufferSize"}.Location())
	require.Equal(t, "Document.LogLevel", Diagnostic{Section: "Document", Field: "LogLevel"}.Location())
	require.Equal(t, "", Diagnostic{}.Location())
}
