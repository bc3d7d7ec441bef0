package rules

import (
	"fmt"

	"github.com/timzifer/sfclint/report"
)

// duplicateCheck reports entities that appeared more than once within a
// section. The loader keeps the first occurrence and records the clash.
type duplicateCheck struct{}

func (duplicateCheck) Name() string { return "duplicates" }

func (duplicateCheck) Check(in Input) []report.Diagnostic {
	var diags []report.Diagnostic
	for _, dup := range in.Doc.Duplicates {
		diags = append(diags, report.Diagnostic{
			Severity:   report.SeverityError,
			Code:       report.CodeDuplicateName,
			Section:    dup.Section,
			Entity:     dup.Name,
			Message:    fmt.Sprintf("%q is defined more than once in section %s", dup.Name, dup.Section),
			Suggestion: "rename or remove the duplicate entry, only the first definition is used",
		})
	}
	return diags
}
