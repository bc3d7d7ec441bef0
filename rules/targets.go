package rules

import (
	"fmt"
	"strings"

	"github.com/timzifer/sfclint/catalog"
	"github.com/timzifer/sfclint/document"
	"github.com/timzifer/sfclint/report"
)

// targetShapeCheck verifies cross-section consistency between a target's
// parameter set and the shape its type declares in the catalog, and flags
// adapter/target type identifiers the catalog does not know.
type targetShapeCheck struct{}

func (targetShapeCheck) Name() string { return "target-shape" }

func (targetShapeCheck) Check(in Input) []report.Diagnostic {
	var diags []report.Diagnostic
	doc := in.Doc

	for _, name := range sortedKeys(doc.Targets) {
		target := doc.Targets[name]
		if !target.Fields.Has("TargetType") {
			continue
		}
		typeName := document.ParseRef(target.TargetType).Name
		shape, known := in.Catalog.TargetType(typeName)
		if !known {
			diags = append(diags, report.Diagnostic{
				Severity:   report.SeverityWarning,
				Code:       report.CodeUnknownType,
				Section:    catalog.SectionTargets,
				Entity:     name,
				Field:      "TargetType",
				Message:    fmt.Sprintf("target type %q is not known to the catalog; its parameters cannot be checked", typeName),
				Suggestion: fmt.Sprintf("known target types: %s", strings.Join(in.Catalog.KnownTargetTypes(), ", ")),
			})
			continue
		}

		for _, required := range shape.RequiredParams() {
			if target.Fields.Has(required) {
				continue
			}
			diags = append(diags, report.Diagnostic{
				Severity:   report.SeverityError,
				Code:       report.CodeMissingTargetParam,
				Section:    catalog.SectionTargets,
				Entity:     name,
				Field:      required,
				Message:    fmt.Sprintf("target type %s requires parameter %q", typeName, required),
				Suggestion: fmt.Sprintf("add %q to target %q", required, name),
			})
		}

		for _, param := range sortedKeys(target.Params) {
			spec, ok := shape.Params[param]
			if !ok {
				diags = append(diags, report.Diagnostic{
					Severity: report.SeverityWarning,
					Code:     report.CodeUnknownTargetParam,
					Section:  catalog.SectionTargets,
					Entity:   name,
					Field:    param,
					Message:  fmt.Sprintf("parameter %q is not declared for target type %s", param, typeName),
				})
				continue
			}
			if !kindMatches(spec.Kind, target.Params[param]) {
				diags = append(diags, report.Diagnostic{
					Severity: report.SeverityError,
					Code:     report.CodeTypeMismatch,
					Section:  catalog.SectionTargets,
					Entity:   name,
					Field:    param,
					Message:  fmt.Sprintf("parameter %q expects %s, got %s", param, spec.Kind, target.Params[param].Kind),
				})
			}
		}
	}

	for _, name := range sortedKeys(doc.ProtocolAdapters) {
		binding := doc.ProtocolAdapters[name]
		if !binding.Fields.Has("AdapterType") {
			continue
		}
		typeName := document.ParseRef(binding.AdapterType).Name
		if _, known := in.Catalog.AdapterType(typeName); !known {
			diags = append(diags, report.Diagnostic{
				Severity:   report.SeverityWarning,
				Code:       report.CodeUnknownType,
				Section:    catalog.SectionProtocolAdapters,
				Entity:     name,
				Field:      "AdapterType",
				Message:    fmt.Sprintf("adapter type %q is not known to the catalog", typeName),
				Suggestion: fmt.Sprintf("known adapter types: %s", strings.Join(in.Catalog.KnownAdapterTypes(), ", ")),
			})
		}
	}

	return diags
}

func kindMatches(want catalog.ParamKind, value document.Value) bool {
	switch want {
	case catalog.ParamString:
		return value.Kind == document.KindString
	case catalog.ParamNumber:
		return value.Kind == document.KindNumber
	case catalog.ParamBool:
		return value.Kind == document.KindBool
	case catalog.ParamList:
		return value.Kind == document.KindList
	case catalog.ParamMap:
		return value.Kind == document.KindMap
	default:
		return true
	}
}
