package validate

import (
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

// checkTypeReferences walks every field's return type, every field
// argument's type, and every input-object field's type, checking that the
// underlying named type resolves in s.Types (spec.md §8 scenario S2,
// Invariant 1) and that it sits in the position the October 2021 spec
// requires: output types (Scalar/Object/Interface/Union/Enum) for field
// return types, input types (Scalar/Enum/InputObject) for arguments and
// input-object fields (spec.md §3 Invariant 5).
func checkTypeReferences(s *schema.Schema, t *schema.ExtendedType, rep *report.Report) {
	switch t.Kind {
	case schema.KindObject, schema.KindInterface:
		for _, f := range t.Fields {
			checkOutputTypeReference(s, f.Type, f.Span, rep)
			for _, a := range f.Arguments {
				checkInputTypeReference(s, a.Type, a.Span, rep)
			}
		}
	case schema.KindInputObject:
		for _, f := range t.InputFields {
			checkInputTypeReference(s, f.Type, f.Span, rep)
		}
	}
}

// checkDirectiveArgumentTypes applies the same input-position/existence
// check to every directive definition's arguments, since they're input
// values too.
func checkDirectiveArgumentTypes(s *schema.Schema, d *ast.DirectiveDefinition, rep *report.Report) {
	for _, a := range d.Arguments {
		checkInputTypeReference(s, a.Type, a.Span, rep)
	}
}

func checkOutputTypeReference(s *schema.Schema, ty ast.Type, span sourcemap.SourceSpan, rep *report.Report) {
	name := ast.InnerNamedType(ty)
	target, ok := s.Types[name]
	if !ok {
		rep.AddExternalError(report.Diagnostic{
			Severity: report.SeverityError,
			Kind:     report.KindUndefinedDefinition,
			Message:  "undefined type '" + string(name) + "'",
			Span:     span,
		})
		return
	}
	if target.Kind == schema.KindInputObject {
		rep.AddExternalError(report.Diagnostic{
			Severity: report.SeverityError,
			Kind:     report.KindOutputType,
			Message:  "input object '" + string(name) + "' cannot be used as a field's output type",
			Span:     span,
		})
	}
}

func checkInputTypeReference(s *schema.Schema, ty ast.Type, span sourcemap.SourceSpan, rep *report.Report) {
	name := ast.InnerNamedType(ty)
	target, ok := s.Types[name]
	if !ok {
		rep.AddExternalError(report.Diagnostic{
			Severity: report.SeverityError,
			Kind:     report.KindUndefinedDefinition,
			Message:  "undefined type '" + string(name) + "'",
			Span:     span,
		})
		return
	}
	switch target.Kind {
	case schema.KindObject, schema.KindInterface, schema.KindUnion:
		rep.AddExternalError(report.Diagnostic{
			Severity: report.SeverityError,
			Kind:     report.KindInputType,
			Message:  "'" + string(name) + "' cannot be used as an argument or input-field type",
			Span:     span,
		})
	}
}

// checkRequiredArgumentsRemainRequired enforces that when the same field
// name appears more than once in t.Fields (a base definition plus one or
// more extensions contributing a field of the same name), an argument that
// is required (non-null, no default) in any occurrence stays required in
// every occurrence, per spec.md §4.6's "required argument definitions ...
// must remain required across extensions" rule.
func checkRequiredArgumentsRemainRequired(t *schema.ExtendedType, rep *report.Report) {
	byName := map[ast.Name][]*ast.FieldDefinition{}
	for i := range t.Fields {
		f := &t.Fields[i]
		byName[f.Name] = append(byName[f.Name], f)
	}
	for _, occurrences := range byName {
		if len(occurrences) < 2 {
			continue
		}
		requiredAnywhere := map[ast.Name]bool{}
		for _, f := range occurrences {
			for _, a := range f.Arguments {
				if isRequiredInputValue(a) {
					requiredAnywhere[a.Name] = true
				}
			}
		}
		for argName := range requiredAnywhere {
			for _, f := range occurrences {
				if !fieldHasRequiredArg(f, argName) {
					rep.AddExternalError(report.Diagnostic{
						Severity: report.SeverityError,
						Kind:     report.KindRequiredArgument,
						Message:  "argument '" + string(argName) + "' of '" + string(t.Name) + "." + string(f.Name) + "' must remain required across extensions",
						Span:     f.Span,
					})
				}
			}
		}
	}
}

func fieldHasRequiredArg(f *ast.FieldDefinition, name ast.Name) bool {
	for _, a := range f.Arguments {
		if a.Name == name {
			return isRequiredInputValue(a)
		}
	}
	return false
}

func isRequiredInputValue(a ast.InputValueDefinition) bool {
	return ast.IsNonNull(a.Type) && a.DefaultValue == nil
}
