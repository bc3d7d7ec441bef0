package rules

import (
	"fmt"

	"github.com/timzifer/sfclint/graph"
	"github.com/timzifer/sfclint/report"
)

// orphanCheck flags entities no active schedule can reach. Orphans are
// harmless at runtime, so everything here stays informational.
type orphanCheck struct{}

func (orphanCheck) Name() string { return "orphans" }

func (orphanCheck) Check(in Input) []report.Diagnostic {
	doc := in.Doc

	roots := make([]graph.NodeID, 0, len(doc.Schedules))
	for _, name := range sortedKeys(doc.Schedules) {
		if doc.Schedules[name].Active {
			roots = append(roots, graph.NodeID{Section: "Schedules", Name: name})
		}
	}
	reached := in.Graph.Reachable(roots...)

	var diags []report.Diagnostic
	orphan := func(section, name string) {
		if reached[graph.NodeID{Section: section, Name: name}] {
			return
		}
		diags = append(diags, report.Diagnostic{
			Severity:   report.SeverityInfo,
			Code:       report.CodeOrphanEntity,
			Section:    section,
			Entity:     name,
			Message:    fmt.Sprintf("%q in section %s is not referenced by any active schedule", name, section),
			Suggestion: "remove the entry or wire it into a schedule",
		})
	}

	for _, name := range sortedKeys(doc.Sources) {
		orphan("Sources", name)
	}
	for _, name := range sortedKeys(doc.Targets) {
		orphan("Targets", name)
	}
	for _, name := range sortedKeys(doc.ProtocolAdapters) {
		orphan("ProtocolAdapters", name)
	}
	for _, name := range sortedKeys(doc.AdapterTypes) {
		orphan("AdapterTypes", name)
	}
	for _, name := range sortedKeys(doc.TargetTypes) {
		orphan("TargetTypes", name)
	}
	return diags
}
