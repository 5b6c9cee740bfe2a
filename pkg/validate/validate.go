// Package validate implements the October 2021 specification's validation
// rules over an assembled schema.Schema and executable.Document, per
// spec.md §4.6. Uniqueness/self-reference/transitive-interface/
// missing-field rules are grounded rule-by-rule on
// original_source/crates/apollo-compiler/src/validation/interfaces.rs's
// HashSet-difference idiom (translated to Go map/slice difference since
// this module doesn't carry an indexmap/hashset-equivalent dependency of
// its own), extended by analogy to object/union/enum/input-object/
// directive rules per spec.md's enumeration. Cycle detection (fragment
// spreads, directive self-reference, interface implements chains) uses
// gonum.org/v1/gonum/graph/topo rather than a hand-rolled DFS with an
// explicit recursion stack, per SPEC_FULL.md §1b.
package validate

import (
	"github.com/jensneuse/abstractlogger"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
)

// Option configures Schema or Executable, mirroring schema.AssembleOption.
type Option func(*config)

type config struct {
	logger abstractlogger.Logger
}

// WithLogger installs a logger that receives a Debug-level notice once
// validation completes (types or operations checked, diagnostics found). Defaults to
// abstractlogger.Noop{}, per the teacher's Configuration.Logger idiom
// (v2/pkg/engine/plan/planner.go).
func WithLogger(l abstractlogger.Logger) Option {
	return func(c *config) { c.logger = l }
}

func resolveConfig(opts []Option) config {
	var c config
	for _, o := range opts {
		o(&c)
	}
	if c.logger == nil {
		c.logger = abstractlogger.Noop{}
	}
	return c
}

// Schema runs every schema-level rule against s and returns the
// accumulated diagnostics. Most uniqueness rules are already enforced
// during schema.Assemble (duplicate base definitions, orphan extensions);
// this pass adds the structural rules that need the fully merged schema to
// evaluate (interface self-implementation, transitive interfaces, missing
// interface fields, union member kinds, type-reference existence and
// position, directive applications and cycles).
func Schema(s *schema.Schema, opts ...Option) *report.Report {
	cfg := resolveConfig(opts)
	rep := &report.Report{}
	for _, t := range s.Types {
		switch t.Kind {
		case schema.KindInterface, schema.KindObject:
			checkImplementsInterfaces(s, t, rep)
			checkDirectiveApplications(t.Directives, locationForKind(t.Kind), s, rep)
			for _, f := range t.Fields {
				checkDirectiveApplications(f.Directives, ast.LocFieldDefinition, s, rep)
				for _, a := range f.Arguments {
					checkDirectiveApplications(a.Directives, ast.LocArgumentDefinition, s, rep)
				}
			}
			checkRequiredArgumentsRemainRequired(t, rep)
		case schema.KindUnion:
			checkUnionMembers(s, t, rep)
			checkDirectiveApplications(t.Directives, ast.LocUnion, s, rep)
		case schema.KindEnum:
			checkUniqueEnumValues(t, rep)
			checkDirectiveApplications(t.Directives, ast.LocEnum, s, rep)
			for _, v := range t.Values {
				checkDirectiveApplications(v.Directives, ast.LocEnumValue, s, rep)
			}
		case schema.KindScalar:
			checkDirectiveApplications(t.Directives, ast.LocScalar, s, rep)
		case schema.KindInputObject:
			checkDirectiveApplications(t.Directives, ast.LocInputObject, s, rep)
			for _, f := range t.InputFields {
				checkDirectiveApplications(f.Directives, ast.LocInputFieldDefinition, s, rep)
			}
		}
		checkUniqueFieldNames(t, rep)
		checkTypeReferences(s, t, rep)
	}
	for _, d := range s.Directives {
		checkDirectiveArgumentTypes(s, d, rep)
	}
	checkDirectiveDefinitionCycles(s, rep)
	detectInterfaceCycles(s, rep)
	cfg.logger.Debug("validate: schema checked", abstractlogger.Int("types", len(s.Types)), abstractlogger.Int("diagnostics", len(rep.Diagnostics())))
	return rep
}

// locationForKind maps a schema type's kind to the DirectiveLocation its
// own directive applications (not its members') must be valid at.
func locationForKind(k schema.ExtendedTypeKind) ast.DirectiveLocation {
	if k == schema.KindInterface {
		return ast.LocInterface
	}
	return ast.LocObject
}

// checkImplementsInterfaces ports interfaces.rs's self-implementation,
// undefined-interface, transitive-interface, and missing-field checks to
// both object and interface types (the October 2021 spec applies the same
// four rules to both, unlike the single-file prototype which only covers
// interfaces).
func checkImplementsInterfaces(s *schema.Schema, t *schema.ExtendedType, rep *report.Report) {
	span := t.Origins[0]
	declared := map[ast.Name]bool{}
	for _, name := range t.Implements {
		if name == t.Name {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindRecursiveInterfaceDefinition,
				Message:  string(t.Name) + " cannot implement itself",
				Span:     span,
			})
			continue
		}
		declared[name] = true

		iface, ok := s.Types[name]
		if !ok || iface.Kind != schema.KindInterface {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindUndefinedDefinition,
				Message:  "undefined interface '" + string(name) + "'",
				Span:     span,
			})
			continue
		}

		// Transitively implemented interfaces must also be declared here.
		for _, transitive := range iface.Implements {
			if transitive == t.Name || declared[transitive] {
				continue
			}
			found := false
			for _, d := range t.Implements {
				if d == transitive {
					found = true
					break
				}
			}
			if !found {
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindTransitiveImplementedInterfaces,
					Message:  string(t.Name) + " must also implement '" + string(transitive) + "', transitively required via '" + string(name) + "'",
					Span:     span,
				})
			}
		}

		// Every field of the implemented interface must be present here
		// (same name and a return type at least as specific, simplified to
		// same-name presence).
		for _, wantField := range iface.Fields {
			has := false
			for _, f := range t.Fields {
				if f.Name == wantField.Name {
					has = true
					break
				}
			}
			if !has {
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindMissingField,
					Message:  string(t.Name) + " is missing field '" + string(wantField.Name) + "' required by interface '" + string(name) + "'",
					Span:     span,
				})
			}
		}
	}
}

func checkUnionMembers(s *schema.Schema, u *schema.ExtendedType, rep *report.Report) {
	span := u.Origins[0]
	seen := map[ast.Name]bool{}
	for _, m := range u.Members {
		if seen[m] {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindUniqueDefinition,
				Message:  "union '" + string(u.Name) + "' lists member '" + string(m) + "' more than once",
				Span:     span,
			})
			continue
		}
		seen[m] = true
		member, ok := s.Types[m]
		if !ok || member.Kind != schema.KindObject {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindUndefinedDefinition,
				Message:  "union '" + string(u.Name) + "' member '" + string(m) + "' is not an object type",
				Span:     span,
			})
		}
	}
}

func checkUniqueEnumValues(e *schema.ExtendedType, rep *report.Report) {
	seen := map[ast.Name]bool{}
	for _, v := range e.Values {
		if seen[v.Value] {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindUniqueDefinition,
				Message:  "enum '" + string(e.Name) + "' defines value '" + string(v.Value) + "' more than once",
				Span:     v.Span,
			})
			continue
		}
		seen[v.Value] = true
	}
}

func checkUniqueFieldNames(t *schema.ExtendedType, rep *report.Report) {
	seen := map[ast.Name]bool{}
	for _, f := range t.Fields {
		if seen[f.Name] {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindUniqueDefinition,
				Message:  "'" + string(t.Name) + "' defines field '" + string(f.Name) + "' more than once",
				Span:     f.Span,
			})
			continue
		}
		seen[f.Name] = true
	}
}

// Executable runs variable, argument, directive-application, and
// selection-shape rules against doc. Fragment-spread cycle detection lives
// in cycles.go; selection-shape/fields-can-merge/argument-coercion rules
// live in selection.go/arguments.go.
func Executable(s *schema.Schema, doc *executable.Document, opts ...Option) *report.Report {
	cfg := resolveConfig(opts)
	rep := &report.Report{}
	checkFragmentCycles(doc, rep)
	for _, name := range doc.FragmentOrder {
		frag := doc.Fragments[name]
		checkDirectiveApplications(frag.Directives, ast.LocFragmentDefinition, s, rep)
		checkSelectionDirectives(s, frag.SelectionSet, rep)
		checkSelectionShape(s, frag.SelectionSet, rep)
		checkFieldsCanMerge(frag.SelectionSet, rep)
		checkFieldArguments(s, frag.SelectionSet, rep)
	}
	for _, name := range doc.OperationOrder {
		checkOperation(s, doc.NamedOperations[name], doc, rep)
	}
	if doc.AnonymousOperation != nil {
		checkOperation(s, doc.AnonymousOperation, doc, rep)
	}
	cfg.logger.Debug("validate: executable document checked", abstractlogger.Int("operations", len(doc.OperationOrder)), abstractlogger.Int("diagnostics", len(rep.Diagnostics())))
	return rep
}

func checkOperation(s *schema.Schema, op *executable.Operation, doc *executable.Document, rep *report.Report) {
	declared := map[ast.Name]bool{}
	for _, v := range op.Variables {
		declared[v.Name] = true
		checkDirectiveApplications(v.Directives, ast.LocVariableDefinition, s, rep)
		checkVariableDefinitionType(s, v, rep)
	}
	used := map[ast.Name]bool{}
	checkSelectionSet(s, op.SelectionSet, doc, declared, used, rep)
	for _, v := range op.Variables {
		if !used[v.Name] {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindVariableNotUsed,
				Message:  "variable '$" + string(v.Name) + "' is never used",
				Span:     v.Span,
			})
		}
	}

	checkDirectiveApplications(op.Directives, directiveLocationForOperation(op.OperationType), s, rep)
	checkSelectionDirectives(s, op.SelectionSet, rep)
	checkSelectionShape(s, op.SelectionSet, rep)
	checkFieldsCanMerge(op.SelectionSet, rep)
	checkFieldArguments(s, op.SelectionSet, rep)
	checkSubscriptionSingleRootField(op, rep)
}

// checkVariableDefinitionType enforces spec.md §4.6's variable-definition
// rule: the declared type must be an input type, and a default value (if
// any) must coerce to it.
func checkVariableDefinitionType(s *schema.Schema, v ast.VariableDefinition, rep *report.Report) {
	checkInputTypeReference(s, v.Type, v.Span, rep)
	if v.DefaultValue != nil && !isValueCoercible(s, *v.DefaultValue, v.Type) {
		rep.AddExternalError(report.Diagnostic{
			Severity: report.SeverityError,
			Kind:     report.KindInvalidValue,
			Message:  "default value for variable '$" + string(v.Name) + "' does not coerce to '" + ast.TypeString(v.Type) + "'",
			Span:     v.Span,
		})
	}
}

func checkSelectionSet(s *schema.Schema, set *executable.SelectionSet, doc *executable.Document, declared, used map[ast.Name]bool, rep *report.Report) {
	if set == nil {
		return
	}
	for _, sel := range set.Selections {
		switch {
		case sel.Field != nil:
			checkArguments(sel.Field.Arguments, declared, used, rep)
			checkSelectionSet(s, sel.Field.SelectionSet, doc, declared, used, rep)
		case sel.FragmentSpread != nil:
			if frag, ok := doc.Fragments[sel.FragmentSpread.FragmentName]; ok {
				// Re-walked per spread site deliberately: a variable used
				// only inside a spread fragment still counts as used by
				// whichever operation spreads it.
				checkSelectionSet(s, frag.SelectionSet, doc, declared, used, rep)
			} else {
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindUndefinedDefinition,
					Message:  "undefined fragment '" + string(sel.FragmentSpread.FragmentName) + "'",
					Span:     sel.FragmentSpread.Span,
				})
			}
		case sel.InlineFragment != nil:
			checkSelectionSet(s, sel.InlineFragment.SelectionSet, doc, declared, used, rep)
		}
	}
}

// checkSelectionDirectives applies checkDirectiveApplications to every
// field/fragment-spread/inline-fragment directive list in set, recursively.
func checkSelectionDirectives(s *schema.Schema, set *executable.SelectionSet, rep *report.Report) {
	if set == nil {
		return
	}
	for _, sel := range set.Selections {
		switch {
		case sel.Field != nil:
			checkDirectiveApplications(sel.Field.Directives, ast.LocField, s, rep)
			checkSelectionDirectives(s, sel.Field.SelectionSet, rep)
		case sel.FragmentSpread != nil:
			checkDirectiveApplications(sel.FragmentSpread.Directives, ast.LocFragmentSpread, s, rep)
		case sel.InlineFragment != nil:
			checkDirectiveApplications(sel.InlineFragment.Directives, ast.LocInlineFragment, s, rep)
			checkSelectionDirectives(s, sel.InlineFragment.SelectionSet, rep)
		}
	}
}

func checkArguments(args []ast.Argument, declared, used map[ast.Name]bool, rep *report.Report) {
	for _, a := range args {
		markVariableUses(a.Value, declared, used, rep)
	}
}

// markVariableUses walks v looking for $variable references, recording
// each as used and reporting ones that were never declared as variables on
// the enclosing operation.
func markVariableUses(v ast.Value, declared, used map[ast.Name]bool, rep *report.Report) {
	if name, ok := ast.AsVariable(v); ok {
		used[name] = true
		if !declared[name] {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindVariableNotDefined,
				Message:  "variable '$" + string(name) + "' is not defined",
			})
		}
		return
	}
	if items, ok := ast.AsList(v); ok {
		for _, item := range items {
			markVariableUses(item, declared, used, rep)
		}
		return
	}
	if fields, ok := ast.AsObject(v); ok {
		for _, f := range fields {
			markVariableUses(f.Value, declared, used, rep)
		}
	}
}
