package rules

import (
	"fmt"

	"github.com/timzifer/sfclint/catalog"
	"github.com/timzifer/sfclint/document"
	"github.com/timzifer/sfclint/report"
)

// structureCheck verifies structural completeness: required top-level
// sections, required fields per entity and non-empty core sections.
type structureCheck struct{}

func (structureCheck) Name() string { return "structure" }

func (structureCheck) Check(in Input) []report.Diagnostic {
	var diags []report.Diagnostic
	doc := in.Doc

	specs, _ := in.Catalog.SectionSchema(catalog.SectionDocument)
	for _, spec := range specs {
		if spec.Required && !doc.Present.Has(spec.Name) {
			diags = append(diags, report.Diagnostic{
				Severity: report.SeverityError,
				Code:     report.CodeMissingField,
				Section:  catalog.SectionDocument,
				Field:    spec.Name,
				Message:  fmt.Sprintf("required section %q is missing", spec.Name),
			})
		}
	}

	for _, name := range doc.UnknownSections {
		diags = append(diags, report.Diagnostic{
			Severity: report.SeverityWarning,
			Code:     report.CodeUnknownSection,
			Section:  catalog.SectionDocument,
			Field:    name,
			Message:  fmt.Sprintf("section %q is not part of the configuration schema", name),
		})
	}

	diags = append(diags, emptySection(doc.Present.Has("Schedules"), len(doc.Schedules), "Schedules", "at least one schedule must be defined")...)
	diags = append(diags, emptySection(doc.Present.Has("Sources"), len(doc.Sources), "Sources", "at least one source must be defined")...)
	diags = append(diags, emptySection(doc.Present.Has("Targets"), len(doc.Targets), "Targets", "at least one target must be defined")...)

	diags = append(diags, requiredEntityFields(in, catalog.SectionSchedules, sortedKeys(doc.Schedules), func(name string) document.Fields {
		return doc.Schedules[name].Fields
	})...)
	diags = append(diags, requiredEntityFields(in, catalog.SectionSources, sortedKeys(doc.Sources), func(name string) document.Fields {
		return doc.Sources[name].Fields
	})...)
	diags = append(diags, requiredEntityFields(in, catalog.SectionTargets, sortedKeys(doc.Targets), func(name string) document.Fields {
		return doc.Targets[name].Fields
	})...)
	diags = append(diags, requiredEntityFields(in, catalog.SectionAdapterTypes, sortedKeys(doc.AdapterTypes), func(name string) document.Fields {
		return doc.AdapterTypes[name].Fields
	})...)
	diags = append(diags, requiredEntityFields(in, catalog.SectionTargetTypes, sortedKeys(doc.TargetTypes), func(name string) document.Fields {
		return doc.TargetTypes[name].Fields
	})...)
	diags = append(diags, requiredEntityFields(in, catalog.SectionProtocolAdapters, sortedKeys(doc.ProtocolAdapters), func(name string) document.Fields {
		return doc.ProtocolAdapters[name].Fields
	})...)

	for _, name := range sortedKeys(doc.Schedules) {
		schedule := doc.Schedules[name]
		if schedule.Fields.Has("Sources") && len(schedule.Sources) == 0 {
			diags = append(diags, report.Diagnostic{
				Severity: report.SeverityError,
				Code:     report.CodeEmptySection,
				Section:  catalog.SectionSchedules,
				Entity:   name,
				Field:    "Sources",
				Message:  "schedule selects no sources",
			})
		}
	}

	return diags
}

func emptySection(present bool, count int, section, message string) []report.Diagnostic {
	if !present || count > 0 {
		return nil
	}
	return []report.Diagnostic{{
		Severity: report.SeverityError,
		Code:     report.CodeEmptySection,
		Section:  section,
		Message:  message,
	}}
}

func requiredEntityFields(in Input, section string, names []string, fields func(string) document.Fields) []report.Diagnostic {
	specs, ok := in.Catalog.SectionSchema(section)
	if !ok {
		return nil
	}
	var diags []report.Diagnostic
	for _, name := range names {
		present := fields(name)
		for _, spec := range specs {
			if !spec.Required || present.Has(spec.Name) {
				continue
			}
			diags = append(diags, report.Diagnostic{
				Severity: report.SeverityError,
				Code:     report.CodeMissingField,
				Section:  section,
				Entity:   name,
				Field:    spec.Name,
				Message:  fmt.Sprintf("required field %q is missing", spec.Name),
			})
		}
	}
	return diags
}
