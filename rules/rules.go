// Package rules implements the validation engine: an explicit ordered list
// of independent rule checks, each pure and unit-testable in isolation.
package rules

import (
	"sort"

	"github.com/timzifer/sfclint/catalog"
	"github.com/timzifer/sfclint/document"
	"github.com/timzifer/sfclint/graph"
	"github.com/timzifer/sfclint/report"
)

// Input bundles the immutable per-run state every check operates on.
type Input struct {
	Doc     *document.Document
	Graph   *graph.Graph
	Catalog *catalog.Catalog
}

// Check is one validation rule. Checks never mutate the input and are
// order-independent with respect to what they find; the report assembler
// sorts the combined output for presentation.
type Check interface {
	Name() string
	Check(in Input) []report.Diagnostic
}

// Default returns the engine's rule list. The set is fixed at start-up, no
// runtime discovery.
func Default() []Check {
	return []Check{
		structureCheck{},
		duplicateCheck{},
		enumCheck{},
		rangeCheck{},
		targetShapeCheck{},
		routeCheck{},
		activityCheck{},
		orphanCheck{},
	}
}

// Run executes every check against the input and concatenates the results.
func Run(in Input, checks []Check) []report.Diagnostic {
	var diags []report.Diagnostic
	for _, check := range checks {
		diags = append(diags, check.Check(in)...)
	}
	return diags
}

// Validate runs the default rule list.
func Validate(doc *document.Document, g *graph.Graph, cat *catalog.Catalog) []report.Diagnostic {
	return Run(Input{Doc: doc, Graph: g, Catalog: cat}, Default())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
