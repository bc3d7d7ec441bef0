package rules

import (
	"fmt"

	"github.com/timzifer/sfclint/catalog"
	"github.com/timzifer/sfclint/document"
	"github.com/timzifer/sfclint/report"
)

// rangeCheck verifies numeric range and ordering invariants: polling
// intervals must be positive, simulated channel bounds ordered and
// counted parameters non-negative.
type rangeCheck struct{}

func (rangeCheck) Name() string { return "ranges" }

func (rangeCheck) Check(in Input) []report.Diagnostic {
	var diags []report.Diagnostic
	doc := in.Doc

	for _, name := range sortedKeys(doc.Schedules) {
		schedule := doc.Schedules[name]
		if schedule.Fields.Has("Interval") && schedule.Interval.Sign() <= 0 {
			diags = append(diags, report.Diagnostic{
				Severity: report.SeverityError,
				Code:     report.CodeInvalidRange,
				Section:  catalog.SectionSchedules,
				Entity:   name,
				Field:    "Interval",
				Message:  fmt.Sprintf("interval must be greater than zero, got %s", schedule.Interval),
			})
		}
	}

	for _, name := range sortedKeys(doc.Sources) {
		source := doc.Sources[name]
		for _, channelName := range sortedKeys(source.Channels) {
			sim := source.Channels[channelName].Simulation
			if sim == nil || !sim.Fields.Has("Min") || !sim.Fields.Has("Max") {
				continue
			}
			if sim.Min.Cmp(sim.Max) > 0 {
				diags = append(diags, report.Diagnostic{
					Severity: report.SeverityError,
					Code:     report.CodeInvalidRange,
					Section:  catalog.SectionSources,
					Entity:   name,
					Field:    "Channels." + channelName + ".Simulation.Min",
					Message:  fmt.Sprintf("Min (%s) must not exceed Max (%s)", sim.Min, sim.Max),
				})
			}
		}
	}

	for _, name := range sortedKeys(doc.Targets) {
		target := doc.Targets[name]
		shape, known := in.Catalog.TargetType(document.ParseRef(target.TargetType).Name)
		if !known {
			continue
		}
		for _, param := range sortedKeys(target.Params) {
			spec, ok := shape.Params[param]
			if !ok || spec.Kind != catalog.ParamNumber {
				continue
			}
			value := target.Params[param]
			if value.Kind != document.KindNumber {
				continue
			}
			if value.Num.Sign() < 0 {
				diags = append(diags, report.Diagnostic{
					Severity: report.SeverityError,
					Code:     report.CodeInvalidRange,
					Section:  catalog.SectionTargets,
					Entity:   name,
					Field:    param,
					Message:  fmt.Sprintf("%s must not be negative, got %s", param, value.Num),
				})
				continue
			}
			if param == "Port" && value.Num.Sign() == 0 {
				diags = append(diags, report.Diagnostic{
					Severity: report.SeverityError,
					Code:     report.CodeInvalidRange,
					Section:  catalog.SectionTargets,
					Entity:   name,
					Field:    param,
					Message:  "Port must be greater than zero",
				})
			}
		}
	}

	return diags
}
