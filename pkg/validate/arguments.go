package validate

import (
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
)

// checkFieldArguments walks every field selection in set, checking its
// applied arguments against the field definition resolved on its parent
// type: every required argument must be present, every supplied argument
// must be declared, and every supplied literal value must coerce to the
// argument's declared type, per spec.md §4.6's "argument presence and
// input-value coercion" rule.
func checkFieldArguments(s *schema.Schema, set *executable.SelectionSet, rep *report.Report) {
	if set == nil {
		return
	}
	for _, sel := range set.Selections {
		switch {
		case sel.Field != nil:
			checkOneFieldArguments(s, set.ParentType, sel.Field, rep)
			checkFieldArguments(s, sel.Field.SelectionSet, rep)
		case sel.InlineFragment != nil:
			checkFieldArguments(s, sel.InlineFragment.SelectionSet, rep)
		}
	}
}

func checkOneFieldArguments(s *schema.Schema, parentType ast.Name, f *executable.Field, rep *report.Report) {
	def, ok := lookupFieldDefinition(s, parentType, f.Name)
	if !ok {
		return // unresolvable field already reported by executable.From
	}

	for _, want := range def.Arguments {
		if !isRequiredInputValue(want) {
			continue
		}
		if _, ok := argumentByName(f.Arguments, want.Name); !ok {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindRequiredArgument,
				Message:  "field '" + string(f.ResponseKey()) + "' is missing required argument '" + string(want.Name) + "'",
				Span:     f.Span,
			})
		}
	}
	for _, got := range f.Arguments {
		argDef, ok := inputValueByName(def.Arguments, got.Name)
		if !ok {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindUnknownArgument,
				Message:  "field '" + string(f.ResponseKey()) + "' has no argument '" + string(got.Name) + "'",
				Span:     got.Span,
			})
			continue
		}
		if !isValueCoercible(s, got.Value, argDef.Type) {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindInvalidValue,
				Message:  "value for argument '" + string(got.Name) + "' of field '" + string(f.ResponseKey()) + "' does not coerce to '" + ast.TypeString(argDef.Type) + "'",
				Span:     got.Span,
			})
		}
	}
}

// lookupFieldDefinition resolves name on parentType, including the
// __typename/__schema/__type meta fields, mirroring
// pkg/execution/engine.go's lookupFieldDefinition (duplicated rather than
// imported since pkg/validate must not depend on pkg/execution).
func lookupFieldDefinition(s *schema.Schema, parentType, name ast.Name) (*ast.FieldDefinition, bool) {
	if name == executable.TypeNameField {
		return &ast.FieldDefinition{Name: name, Type: ast.NonNullNamedType("String")}, true
	}
	if parentType == s.QueryType {
		switch name {
		case "__schema":
			return &ast.FieldDefinition{Name: name, Type: ast.NonNullNamedType("__Schema")}, true
		case "__type":
			return &ast.FieldDefinition{
				Name: name,
				Type: ast.NamedType("__Type"),
				Arguments: []ast.InputValueDefinition{
					{Name: "name", Type: ast.NonNullNamedType("String")},
				},
			}, true
		}
	}
	t, ok := s.Types[parentType]
	if !ok {
		return nil, false
	}
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

func argumentByName(args []ast.Argument, name ast.Name) (ast.Argument, bool) {
	for _, a := range args {
		if a.Name == name {
			return a, true
		}
	}
	return ast.Argument{}, false
}

func inputValueByName(defs []ast.InputValueDefinition, name ast.Name) (ast.InputValueDefinition, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return ast.InputValueDefinition{}, false
}

// isValueCoercible reports whether literal v can coerce to ty, per
// spec.md §4.6/§9. Variables are accepted unconditionally here — their
// runtime value is checked by CoerceVariableValues (pkg/request), not at
// document-validation time. Custom scalars are pass-through, per spec.md §9
// Open Question 3.
func isValueCoercible(s *schema.Schema, v ast.Value, ty ast.Type) bool {
	vk := ast.ValueKindOf(v)
	if vk == ast.ValueKindVariable {
		return true
	}
	if vk == ast.ValueKindNull {
		return !ast.IsNonNull(ty)
	}
	if items, ok := ast.AsList(v); ok {
		elem, isList := ast.ListElementType(ty)
		if !isList {
			return false
		}
		for _, item := range items {
			if !isValueCoercible(s, item, elem) {
				return false
			}
		}
		return true
	}

	named := ast.InnerNamedType(ty)
	target, ok := s.Types[named]
	if !ok {
		return true // undefined type already reported by checkInputTypeReference
	}
	switch target.Kind {
	case schema.KindScalar:
		return scalarAccepts(named, vk)
	case schema.KindEnum:
		name, ok := ast.AsEnum(v)
		if !ok {
			return false
		}
		for _, val := range target.Values {
			if val.Value == name {
				return true
			}
		}
		return false
	case schema.KindInputObject:
		fields, ok := ast.AsObject(v)
		if !ok {
			return false
		}
		provided := make(map[ast.Name]ast.Value, len(fields))
		for _, f := range fields {
			provided[f.Name] = f.Value
		}
		for _, want := range target.InputFields {
			if isRequiredInputValue(want) {
				if _, ok := provided[want.Name]; !ok {
					return false
				}
			}
		}
		for _, f := range fields {
			fieldDef, ok := inputValueByName(target.InputFields, f.Name)
			if !ok {
				return false
			}
			if !isValueCoercible(s, f.Value, fieldDef.Type) {
				return false
			}
		}
		return true
	default:
		// Object/Interface/Union can't legally appear as an input type;
		// checkInputTypeReference already flags that.
		return false
	}
}

func scalarAccepts(name ast.Name, vk ast.ValueKind) bool {
	switch name {
	case "Int":
		return vk == ast.ValueKindInt
	case "Float":
		return vk == ast.ValueKindInt || vk == ast.ValueKindFloat
	case "String":
		return vk == ast.ValueKindString
	case "Boolean":
		return vk == ast.ValueKindBoolean
	case "ID":
		return vk == ast.ValueKindString || vk == ast.ValueKindInt
	default:
		return true
	}
}
