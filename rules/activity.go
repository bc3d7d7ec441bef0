package rules

import (
	"fmt"

	"github.com/timzifer/sfclint/catalog"
	"github.com/timzifer/sfclint/report"
)

// activityCheck verifies that every active schedule can deliver data
// somewhere: at least one hard target reference must resolve to an
// active target. Schedules that only carry soft references are left
// alone, removing a soft target must never break the document.
type activityCheck struct{}

func (activityCheck) Name() string { return "activity" }

func (activityCheck) Check(in Input) []report.Diagnostic {
	var diags []report.Diagnostic
	doc := in.Doc

	for _, name := range sortedKeys(doc.Schedules) {
		schedule := doc.Schedules[name]
		if !schedule.Active {
			if len(schedule.Targets) == 0 {
				diags = append(diags, report.Diagnostic{
					Severity: report.SeverityInfo,
					Code:     report.CodeNoActiveTarget,
					Section:  catalog.SectionSchedules,
					Entity:   name,
					Field:    "Targets",
					Message:  fmt.Sprintf("schedule %q is inactive and references no targets", name),
				})
			}
			continue
		}

		hard := 0
		delivered := false
		for _, ref := range schedule.Targets {
			if ref.Soft {
				continue
			}
			hard++
			if target, ok := doc.Targets[ref.Name]; ok && target.Active {
				delivered = true
			}
		}
		if hard == 0 || delivered {
			continue
		}
		diags = append(diags, report.Diagnostic{
			Severity:   report.SeverityError,
			Code:       report.CodeNoActiveTarget,
			Section:    catalog.SectionSchedules,
			Entity:     name,
			Field:      "Targets",
			Message:    fmt.Sprintf("schedule %q has no resolvable active target", name),
			Suggestion: "activate one of the referenced targets or point the schedule at an active one",
		})
	}

	return diags
}
