package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Severity classifies a diagnostic finding.
type Severity int

const (
	// SeverityInfo marks advisory findings that never block the verdict.
	SeverityInfo Severity = iota
	// SeverityWarning marks risks that do not invalidate the document.
	SeverityWarning
	// SeverityError marks findings that must be fixed before the
	// configuration is usable.
	SeverityError
)

// String renders the severity the way it appears in reports.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityInfo:
		return "Info"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalJSON encodes the severity as its display string.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity from its display string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode severity: %w", err)
	}
	switch strings.ToLower(raw) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", raw)
	}
	return nil
}

// Stable diagnostic codes. Downstream consumers key on these, so values
// never change once released.
const (
	CodeMalformedJSON      = "MALFORMED_JSON"
	CodeInputTooLarge      = "INPUT_TOO_LARGE"
	CodeMissingField       = "MISSING_FIELD"
	CodeInvalidEnumValue   = "INVALID_ENUM_VALUE"
	CodeInvalidRange       = "INVALID_RANGE"
	CodeUnresolvedRef      = "UNRESOLVED_REFERENCE"
	CodeUnknownTargetParam = "UNKNOWN_TARGET_PARAM"
	CodeMissingTargetParam = "MISSING_TARGET_PARAM"
	CodeNoActiveTarget     = "NO_ACTIVE_TARGET"
	CodeDuplicateName      = "DUPLICATE_NAME"
	CodeTypeMismatch       = "TYPE_MISMATCH"
	CodeUnknownSection     = "UNKNOWN_SECTION"
	CodeUnknownType        = "UNKNOWN_TYPE"
	CodeInvalidExpression  = "INVALID_EXPRESSION"
	CodeOrphanEntity       = "ORPHAN_ENTITY"
	CodeEmptySection       = "EMPTY_SECTION"
	CodeFastInterval       = "FAST_INTERVAL"
	CodeBufferPressure     = "BUFFER_PRESSURE"
	CodeNoBuffering        = "NO_BUFFERING"
	CodeNoCompression      = "NO_COMPRESSION"
	CodeAmbiguousTimestamp = "AMBIGUOUS_TIMESTAMPS"
	CodeTraceLogging       = "TRACE_LOGGING"
)

// Diagnostic is one reported finding.
type Diagnostic struct {
	Severity   Severity `json:"severity"`
	Code       string   `json:"code"`
	Section    string   `json:"section,omitempty"`
	Entity     string   `json:"entity,omitempty"`
	Field      string   `json:"field,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Location renders the dotted document path of the finding, e.g.
// "Targets.FileTarget.BufferSize". Empty components are skipped.
func (d Diagnostic) Location() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{d.Section, d.Entity, d.Field} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// Report is the aggregated result for one validated document.
type Report struct {
	Valid       bool         `json:"valid"`
	Errors      int          `json:"errors"`
	Warnings    int          `json:"warnings"`
	Infos       int          `json:"infos"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Assemble merges diagnostic batches into one ordered report. Ordering is
// deterministic for a given input: diagnostics are grouped by location
// (section, entity, field) and Error findings sort first within each group.
func Assemble(batches ...[]Diagnostic) Report {
	total := 0
	for _, batch := range batches {
		total += len(batch)
	}
	merged := make([]Diagnostic, 0, total)
	for _, batch := range batches {
		merged = append(merged, batch...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		if a.Entity != b.Entity {
			return a.Entity < b.Entity
		}
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Message < b.Message
	})

	result := Report{Diagnostics: merged}
	for _, diag := range merged {
		switch diag.Severity {
		case SeverityError:
			result.Errors++
		case SeverityWarning:
			result.Warnings++
		case SeverityInfo:
			result.Infos++
		}
	}
	result.Valid = result.Errors == 0
	return result
}
