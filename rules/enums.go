package rules

import (
	"fmt"
	"strings"

	"github.com/timzifer/sfclint/catalog"
	"github.com/timzifer/sfclint/report"
)

// enumCheck verifies that every enum-typed field is a member of its
// declared value domain.
type enumCheck struct{}

func (enumCheck) Name() string { return "enums" }

func (enumCheck) Check(in Input) []report.Diagnostic {
	var diags []report.Diagnostic
	doc := in.Doc
	cat := in.Catalog

	if doc.Present.Has("LogLevel") && !cat.IsKnownEnum(catalog.DomainLogLevel, doc.LogLevel) {
		diags = append(diags, enumViolation(cat, report.SeverityError, catalog.SectionDocument, "", "LogLevel", catalog.DomainLogLevel, doc.LogLevel))
	}
	if doc.Present.Has("AWSVersion") && !cat.IsKnownEnum(catalog.DomainAWSVersion, doc.AWSVersion) {
		// tolerated with a warning: older documents keep validating
		diags = append(diags, report.Diagnostic{
			Severity:   report.SeverityWarning,
			Code:       report.CodeInvalidEnumValue,
			Section:    catalog.SectionDocument,
			Field:      "AWSVersion",
			Message:    fmt.Sprintf("AWSVersion %q does not match the supported format version", doc.AWSVersion),
			Suggestion: fmt.Sprintf("set AWSVersion to %q", catalog.ExpectedAWSVersion),
		})
	}

	for _, name := range sortedKeys(doc.Schedules) {
		schedule := doc.Schedules[name]
		if schedule.Fields.Has("TimestampLevel") && !cat.IsKnownEnum(catalog.DomainTimestampLevel, schedule.TimestampLevel) {
			diags = append(diags, enumViolation(cat, report.SeverityError, catalog.SectionSchedules, name, "TimestampLevel", catalog.DomainTimestampLevel, schedule.TimestampLevel))
		}
	}

	for _, name := range sortedKeys(doc.Sources) {
		source := doc.Sources[name]
		for _, channelName := range sortedKeys(source.Channels) {
			channel := source.Channels[channelName]
			path := "Channels." + channelName
			if channel.Fields.Has("DataType") && !cat.IsKnownEnum(catalog.DomainDataType, channel.DataType) {
				diags = append(diags, enumViolation(cat, report.SeverityError, catalog.SectionSources, name, path+".DataType", catalog.DomainDataType, channel.DataType))
			}
			sim := channel.Simulation
			if sim == nil {
				continue
			}
			if sim.Fields.Has("SimulationType") && !cat.IsKnownEnum(catalog.DomainSimulationType, sim.SimulationType) {
				diags = append(diags, enumViolation(cat, report.SeverityError, catalog.SectionSources, name, path+".Simulation.SimulationType", catalog.DomainSimulationType, sim.SimulationType))
			}
			if sim.Fields.Has("DataType") && !cat.IsKnownEnum(catalog.DomainDataType, sim.DataType) {
				diags = append(diags, enumViolation(cat, report.SeverityError, catalog.SectionSources, name, path+".Simulation.DataType", catalog.DomainDataType, sim.DataType))
			}
		}
	}

	return diags
}

func enumViolation(cat *catalog.Catalog, severity report.Severity, section, entity, field, domain, value string) report.Diagnostic {
	allowed := strings.Join(cat.EnumValues(domain), ", ")
	return report.Diagnostic{
		Severity:   severity,
		Code:       report.CodeInvalidEnumValue,
		Section:    section,
		Entity:     entity,
		Field:      field,
		Message:    fmt.Sprintf("%q is not a valid %s", value, domain),
		Suggestion: fmt.Sprintf("use one of: %s", allowed),
	}
}
