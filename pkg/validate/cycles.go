package validate

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
)

// checkFragmentCycles builds a directed graph with one node per fragment
// definition and one edge per fragment spread, then uses
// gonum.org/v1/gonum/graph/topo's cycle-aware topological sort to find
// fragment-spread cycles in a single pass rather than a hand-rolled
// DFS-with-recursion-stack, per spec.md §4.6's fragment-cycle rule and
// SPEC_FULL.md §1b's dependency wiring.
func checkFragmentCycles(doc *executable.Document, rep *report.Report) {
	if len(doc.Fragments) == 0 {
		return
	}
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
	for _, name := range doc.FragmentOrder {
		g.AddNode(simple.Node(idFor(name)))
	}
	for _, name := range doc.FragmentOrder {
		frag := doc.Fragments[name]
		for _, spreadName := range collectSpreads(frag.SelectionSet) {
			if _, ok := doc.Fragments[spreadName]; !ok {
				continue // undefined fragment, reported separately
			}
			if spreadName == name {
				// gonum's simple.DirectedGraph panics on a self edge; a
				// fragment spreading itself is unambiguously a cycle, so
				// report it directly instead of handing it to topo.Sort.
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindFragmentCycle,
					Message:  "fragment '" + string(name) + "' spreads itself, directly or transitively",
				})
				continue
			}
			from := simple.Node(idFor(name))
			to := simple.Node(idFor(spreadName))
			if !g.HasNode(to.ID()) {
				g.AddNode(to)
			}
			g.SetEdge(simple.Edge{F: from, T: to})
		}
	}

	if _, err := topo.Sort(g); err != nil {
		if unordered, ok := err.(topo.Unorderable); ok {
			for _, cycle := range unordered {
				if len(cycle) < 2 {
					continue
				}
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindFragmentCycle,
					Message:  "fragment '" + string(names[cycle[0].ID()]) + "' spreads itself, directly or transitively",
				})
			}
		}
	}
}

func collectSpreads(set *executable.SelectionSet) []ast.Name {
	if set == nil {
		return nil
	}
	var out []ast.Name
	for _, sel := range set.Selections {
		switch {
		case sel.FragmentSpread != nil:
			out = append(out, sel.FragmentSpread.FragmentName)
		case sel.InlineFragment != nil:
			out = append(out, collectSpreads(sel.InlineFragment.SelectionSet)...)
		case sel.Field != nil:
			out = append(out, collectSpreads(sel.Field.SelectionSet)...)
		}
	}
	return out
}

// detectInterfaceCycles finds implements-interface cycles longer than
// direct self-implementation (already checked in checkImplementsInterfaces)
// using the same topological-sort approach as checkFragmentCycles.
func detectInterfaceCycles(s *schema.Schema, rep *report.Report) {
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
	for _, t := range s.Types {
		if t.Kind != schema.KindInterface {
			continue
		}
		g.AddNode(simple.Node(idFor(t.Name)))
	}
	for _, t := range s.Types {
		if t.Kind != schema.KindInterface {
			continue
		}
		for _, impl := range t.Implements {
			if impl == t.Name {
				continue // direct self-implementation, already reported by checkImplementsInterfaces
			}
			if parent, ok := s.Types[impl]; !ok || parent.Kind != schema.KindInterface {
				continue
			}
			from := simple.Node(idFor(t.Name))
			to := simple.Node(idFor(impl))
			g.SetEdge(simple.Edge{F: from, T: to})
		}
	}

	if _, err := topo.Sort(g); err != nil {
		if unordered, ok := err.(topo.Unorderable); ok {
			for _, cycle := range unordered {
				if len(cycle) < 2 {
					continue
				}
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindRecursiveInterfaceDefinition,
					Message:  "interface '" + string(names[cycle[0].ID()]) + "' has a cyclic implements-interfaces chain",
					Span:     s.Types[names[cycle[0].ID()]].Origins[0],
				})
			}
		}
	}
}
