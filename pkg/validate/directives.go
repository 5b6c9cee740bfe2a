package validate

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
)

// checkDirectiveApplications validates every directive in list as applied
// at loc: the directive must be defined, the definition must list loc among
// its Locations, a non-repeatable directive must not appear twice in the
// same list, every required argument must be present, every supplied
// argument must be declared, and every supplied value must coerce to its
// argument's declared type. This single pass also enforces the
// `@skip`/`@include` "only a Boolean! if argument" rule: their built-in
// definitions declare exactly that argument, so a missing, unknown, or
// wrongly-typed `if` value is caught by the same three checks.
func checkDirectiveApplications(directives ast.DirectiveList, loc ast.DirectiveLocation, s *schema.Schema, rep *report.Report) {
	seen := map[ast.Name]bool{}
	for _, d := range directives {
		def, ok := s.Directives[d.Name]
		if !ok {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindUndefinedDefinition,
				Message:  "undefined directive '@" + string(d.Name) + "'",
				Span:     d.Span,
			})
			continue
		}

		if !def.Repeatable && seen[d.Name] {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindUnsupportedLocation,
				Message:  "non-repeatable directive '@" + string(d.Name) + "' applied more than once at the same location",
				Span:     d.Span,
			})
		}
		seen[d.Name] = true

		if !directiveAllowsLocation(def, loc) {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindUnsupportedLocation,
				Message:  "directive '@" + string(d.Name) + "' is not allowed at location " + string(loc),
				Span:     d.Span,
			})
		}

		for _, want := range def.Arguments {
			if !isRequiredInputValue(want) {
				continue
			}
			if _, ok := d.ArgumentByName(want.Name); !ok {
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindRequiredArgument,
					Message:  "directive '@" + string(d.Name) + "' is missing required argument '" + string(want.Name) + "'",
					Span:     d.Span,
				})
			}
		}
		for _, got := range d.Arguments {
			argDef, ok := inputValueByName(def.Arguments, got.Name)
			if !ok {
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindUnknownArgument,
					Message:  "directive '@" + string(d.Name) + "' has no argument '" + string(got.Name) + "'",
					Span:     got.Span,
				})
				continue
			}
			if !isValueCoercible(s, got.Value, argDef.Type) {
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindInvalidValue,
					Message:  "value for argument '" + string(got.Name) + "' of directive '@" + string(d.Name) + "' does not coerce to '" + ast.TypeString(argDef.Type) + "'",
					Span:     got.Span,
				})
			}
		}
	}
}

func directiveAllowsLocation(def *ast.DirectiveDefinition, loc ast.DirectiveLocation) bool {
	for _, l := range def.Locations {
		if l == loc {
			return true
		}
	}
	return false
}

// checkDirectiveDefinitionCycles finds directive definitions that are
// self-referential through their arguments' own directive applications
// (e.g. an argument of @foo itself carries @foo), using a DFS-equivalent
// topological sort with a recursion-stack rather than a hand-rolled
// explicit stack, matching checkFragmentCycles/detectInterfaceCycles'
// gonum-based approach. The cycle is reported once, at the original
// definition, per spec.md §4.6.
func checkDirectiveDefinitionCycles(s *schema.Schema, rep *report.Report) {
	ids := map[ast.Name]int64{}
	names := map[int64]ast.Name{}
	var next int64
	idFor := func(name ast.Name) int64 {
		if id, ok := ids[name]; ok {
			return id
		}
		id := next
		next++
		ids[name] = id
		names[id] = name
		return id
	}

	g := simple.NewDirectedGraph()
	for name := range s.Directives {
		g.AddNode(simple.Node(idFor(name)))
	}
	for name, def := range s.Directives {
		for _, arg := range def.Arguments {
			for _, applied := range arg.Directives {
				if _, ok := s.Directives[applied.Name]; !ok {
					continue
				}
				if applied.Name == name {
					// gonum's simple.DirectedGraph panics on a self edge; a
					// directive applied to its own argument is unambiguously
					// a cycle, so report it directly instead of handing it
					// to topo.Sort.
					rep.AddExternalError(report.Diagnostic{
						Severity: report.SeverityError,
						Kind:     report.KindRecursiveDirectiveDefinition,
						Message:  "directive '@" + string(name) + "' is self-referential through its arguments' directive applications",
						Span:     def.Span,
					})
					continue
				}
				from := simple.Node(idFor(name))
				to := simple.Node(idFor(applied.Name))
				if !g.HasNode(to.ID()) {
					g.AddNode(to)
				}
				g.SetEdge(simple.Edge{F: from, T: to})
			}
		}
	}

	if _, err := topo.Sort(g); err != nil {
		if unordered, ok := err.(topo.Unorderable); ok {
			for _, cycle := range unordered {
				if len(cycle) < 2 {
					continue
				}
				name := names[cycle[0].ID()]
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindRecursiveDirectiveDefinition,
					Message:  "directive '@" + string(name) + "' is self-referential through its arguments' directive applications",
					Span:     s.Directives[name].Span,
				})
			}
		}
	}
}

// directiveLocationForOperation maps an operation's kind to the location a
// directive applied at its top level must list.
func directiveLocationForOperation(op ast.OperationType) ast.DirectiveLocation {
	switch op {
	case ast.Mutation:
		return ast.LocMutation
	case ast.Subscription:
		return ast.LocSubscription
	default:
		return ast.LocQuery
	}
}
