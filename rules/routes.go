package rules

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/timzifer/sfclint/catalog"
	"github.com/timzifer/sfclint/document"
	"github.com/timzifer/sfclint/report"
)

// routeCheck validates router targets: every route condition must compile
// as an expression and every route destination must name a defined target.
type routeCheck struct{}

func (routeCheck) Name() string { return "routes" }

func (routeCheck) Check(in Input) []report.Diagnostic {
	var diags []report.Diagnostic
	doc := in.Doc

	for _, name := range sortedKeys(doc.Targets) {
		target := doc.Targets[name]
		if document.ParseRef(target.TargetType).Name != "ROUTER-TARGET" {
			continue
		}
		routes, ok := target.Params["Routes"]
		if !ok || routes.Kind != document.KindList {
			continue
		}
		for idx, route := range routes.List {
			if route.Kind != document.KindMap {
				diags = append(diags, report.Diagnostic{
					Severity: report.SeverityError,
					Code:     report.CodeTypeMismatch,
					Section:  catalog.SectionTargets,
					Entity:   name,
					Field:    fmt.Sprintf("Routes[%d]", idx),
					Message:  fmt.Sprintf("route must be a map, got %s", route.Kind),
				})
				continue
			}

			if destination, ok := route.Map["TargetName"]; ok && destination.Kind == document.KindString {
				ref := document.ParseRef(destination.Str)
				if _, exists := doc.Targets[ref.Name]; !exists {
					severity := report.SeverityError
					if ref.Soft {
						severity = report.SeverityWarning
					}
					diags = append(diags, report.Diagnostic{
						Severity: severity,
						Code:     report.CodeUnresolvedRef,
						Section:  catalog.SectionTargets,
						Entity:   name,
						Field:    fmt.Sprintf("Routes[%d].TargetName", idx),
						Message:  fmt.Sprintf("route destination %q does not resolve: no entry named %q in section Targets", destination.Str, ref.Name),
					})
				}
			}

			condition, ok := route.Map["Condition"]
			if !ok {
				continue
			}
			if condition.Kind != document.KindString {
				diags = append(diags, report.Diagnostic{
					Severity: report.SeverityError,
					Code:     report.CodeTypeMismatch,
					Section:  catalog.SectionTargets,
					Entity:   name,
					Field:    fmt.Sprintf("Routes[%d].Condition", idx),
					Message:  fmt.Sprintf("route condition must be a string, got %s", condition.Kind),
				})
				continue
			}
			if _, err := expr.Compile(condition.Str, expr.Env(map[string]interface{}{}), expr.AllowUndefinedVariables()); err != nil {
				diags = append(diags, report.Diagnostic{
					Severity: report.SeverityError,
					Code:     report.CodeInvalidExpression,
					Section:  catalog.SectionTargets,
					Entity:   name,
					Field:    fmt.Sprintf("Routes[%d].Condition", idx),
					Message:  fmt.Sprintf("route condition does not compile: %v", err),
				})
			}
		}
	}

	return diags
}
