package validate

import (
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

// checkSelectionShape enforces that leaf fields (scalar/enum return type)
// carry no sub-selection and composite fields (object/interface/union)
// carry a non-empty one, per spec.md §4.6. A field whose Type is nil was
// already reported as an unresolvable field by executable.From; skip it
// here rather than duplicating that diagnostic.
func checkSelectionShape(s *schema.Schema, set *executable.SelectionSet, rep *report.Report) {
	if set == nil {
		return
	}
	for _, sel := range set.Selections {
		switch {
		case sel.Field != nil:
			checkFieldShape(s, sel.Field, rep)
			checkSelectionShape(s, sel.Field.SelectionSet, rep)
		case sel.InlineFragment != nil:
			checkSelectionShape(s, sel.InlineFragment.SelectionSet, rep)
		}
	}
}

func checkFieldShape(s *schema.Schema, f *executable.Field, rep *report.Report) {
	if f.Type.IsNil() {
		return
	}
	named := ast.InnerNamedType(f.Type)
	target, ok := s.Types[named]
	if !ok {
		return // undefined type already reported by the schema-level pass
	}
	hasSubSelection := f.SelectionSet != nil && len(f.SelectionSet.Selections) > 0
	switch target.Kind {
	case schema.KindScalar, schema.KindEnum:
		if hasSubSelection {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindFieldsCannotBeMerged,
				Message:  "leaf field '" + string(f.ResponseKey()) + "' of type '" + string(named) + "' must have no sub-selection",
				Span:     f.Span,
			})
		}
	default:
		if !hasSubSelection {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindFieldsCannotBeMerged,
				Message:  "composite field '" + string(f.ResponseKey()) + "' of type '" + string(named) + "' requires a non-empty sub-selection",
				Span:     f.Span,
			})
		}
	}
}

// checkFieldsCanMerge enforces the "fields can merge" rule for fields
// listed directly (or via an inline fragment applied unconditionally at
// the same level) in one selection set: two selections for the same
// response key must agree on field name and arguments. Fragment spreads
// are intentionally not expanded here — the fragment's own selection set
// is checked once via its FragmentDefinition rather than once per spread
// site, avoiding duplicate diagnostics for the common case; the full
// overlapping-type algorithm for spread-introduced conflicts is left to a
// deeper implementation.
func checkFieldsCanMerge(set *executable.SelectionSet, rep *report.Report) {
	if set == nil {
		return
	}
	byKey := map[ast.Name][]*executable.Field{}
	collectDirectFields(set, byKey)
	for key, fields := range byKey {
		if len(fields) < 2 {
			continue
		}
		first := fields[0]
		for _, f := range fields[1:] {
			if f.Name != first.Name || !sameArguments(first.Arguments, f.Arguments) {
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindFieldsCannotBeMerged,
					Message:  "fields for response key '" + string(key) + "' cannot be merged: differing field name or arguments",
					Span:     f.Span,
				})
			}
		}
	}
	for _, sel := range set.Selections {
		switch {
		case sel.Field != nil:
			checkFieldsCanMerge(sel.Field.SelectionSet, rep)
		case sel.InlineFragment != nil:
			checkFieldsCanMerge(sel.InlineFragment.SelectionSet, rep)
		}
	}
}

func collectDirectFields(set *executable.SelectionSet, byKey map[ast.Name][]*executable.Field) {
	for _, sel := range set.Selections {
		switch {
		case sel.Field != nil:
			byKey[sel.Field.ResponseKey()] = append(byKey[sel.Field.ResponseKey()], sel.Field)
		case sel.InlineFragment != nil:
			collectDirectFields(sel.InlineFragment.SelectionSet, byKey)
		}
	}
}

// sameArguments compares two argument lists by name and by the memoized
// structural hash of each value, the same hash-consing machinery
// spec.md §3 calls out as the reason Node<T> caches a hash at all.
func sameArguments(a, b []ast.Argument) bool {
	if len(a) != len(b) {
		return false
	}
	byName := make(map[ast.Name]ast.Value, len(a))
	for _, arg := range a {
		byName[arg.Name] = arg.Value
	}
	for _, arg := range b {
		v, ok := byName[arg.Name]
		if !ok || v.Hash() != arg.Value.Hash() {
			return false
		}
	}
	return true
}

// checkSubscriptionSingleRootField enforces that a subscription operation
// selects exactly one root field, excluding __typename, per spec.md §4.6.
func checkSubscriptionSingleRootField(op *executable.Operation, rep *report.Report) {
	if op.OperationType != ast.Subscription {
		return
	}
	count := 0
	for _, sel := range op.SelectionSet.Selections {
		if sel.Field != nil && sel.Field.Name != executable.TypeNameField {
			count++
		}
	}
	if count != 1 {
		var span sourcemap.SourceSpan
		if len(op.SelectionSet.Selections) > 0 && op.SelectionSet.Selections[0].Field != nil {
			span = op.SelectionSet.Selections[0].Field.Span
		}
		rep.AddExternalError(report.Diagnostic{
			Severity: report.SeverityError,
			Kind:     report.KindSingleRootField,
			Message:  "subscription operations must select exactly one root field",
			Span:     span,
		})
	}
}
