// Package executable assembles a type-annotated ExecutableDocument from a
// parsed ast.Document and a validated schema.Schema: each field selection's
// type is resolved by climbing its parent type's field definitions, named
// operations and fragments are deduplicated by name (first occurrence
// wins, later ones are reported), and meta-fields (__typename, and
// __schema/__type on the query root) are recognized without needing a
// matching FieldDefinition in the schema. Grounded directly on
// original_source/crates/apollo-compiler/src/hir2/executable.rs's
// ExecutableDocument::from_mir / Operation::from_mir /
// SelectionSet::extend_from_mir, translated from the Rust IndexMap/
// Entry::Vacant dedup idiom to a Go map-plus-seen-check.
package executable

import (
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

// TypeNameField is the meta-field every composite type implicitly carries,
// per spec.md §4.8.
const TypeNameField = ast.Name("__typename")

// Document is a type-annotated executable document: every field
// selection's Type is resolved, and operations/fragments are deduplicated
// by name.
type Document struct {
	FileId             sourcemap.FileId
	NamedOperations    map[ast.Name]*Operation
	OperationOrder     []ast.Name // declaration order, for deterministic iteration
	AnonymousOperation *Operation
	Fragments          map[ast.Name]*Fragment
	FragmentOrder      []ast.Name
}

type Operation struct {
	OperationType ast.OperationType
	Name          *ast.Name
	RootType      ast.Name
	Variables     []ast.VariableDefinition
	Directives    ast.DirectiveList
	SelectionSet  *SelectionSet
}

type Fragment struct {
	Name          ast.Name
	TypeCondition ast.Name
	Directives    ast.DirectiveList
	SelectionSet  *SelectionSet
}

// SelectionSet carries the composite type it selects against, needed by
// CollectFields (spec.md §4.8) to resolve fragment type conditions against
// the schema's implementers map.
type SelectionSet struct {
	ParentType ast.Name
	Selections []Selection
}

type Selection struct {
	Field          *Field
	FragmentSpread *FragmentSpread
	InlineFragment *InlineFragment
}

type Field struct {
	// Type is the resolved field type, nil only when the field is unknown
	// on its parent type (a validation-time error, tolerated here so that
	// partial documents can still be inspected).
	Type         ast.Type
	Alias        *ast.Name
	Name         ast.Name
	Arguments    []ast.Argument
	Directives   ast.DirectiveList
	SelectionSet *SelectionSet
	Span         sourcemap.SourceSpan
}

// ResponseKey is the alias if present, else the field name.
func (f Field) ResponseKey() ast.Name {
	if f.Alias != nil {
		return *f.Alias
	}
	return f.Name
}

type FragmentSpread struct {
	FragmentName ast.Name
	Directives   ast.DirectiveList
	Span         sourcemap.SourceSpan
}

type InlineFragment struct {
	TypeCondition *ast.Name
	Directives    ast.DirectiveList
	SelectionSet  *SelectionSet
	Span          sourcemap.SourceSpan
}

// From assembles doc against s, resolving every field selection's type.
func From(s *schema.Schema, doc *ast.Document) (*Document, *report.Report) {
	rep := &report.Report{}
	out := &Document{
		FileId:          doc.FileId,
		NamedOperations: map[ast.Name]*Operation{},
		Fragments:       map[ast.Name]*Fragment{},
	}

	for _, def := range doc.Definitions {
		switch def.Kind {
		case ast.DefOperation:
			op := def.Operation
			if op.Name == nil {
				if out.AnonymousOperation != nil {
					rep.AddExternalError(report.Diagnostic{
						Severity: report.SeverityError,
						Kind:     report.KindUniqueDefinition,
						Message:  "this document has more than one anonymous operation",
						Span:     op.Span,
					})
					continue
				}
				out.AnonymousOperation = fromOperation(s, op, rep)
				continue
			}
			if _, exists := out.NamedOperations[*op.Name]; exists {
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindUniqueDefinition,
					Message:  "operation '" + string(*op.Name) + "' is defined more than once",
					Span:     op.Span,
				})
				continue
			}
			out.NamedOperations[*op.Name] = fromOperation(s, op, rep)
			out.OperationOrder = append(out.OperationOrder, *op.Name)
		case ast.DefFragment:
			f := def.Fragment
			if _, exists := out.Fragments[f.Name]; exists {
				rep.AddExternalError(report.Diagnostic{
					Severity: report.SeverityError,
					Kind:     report.KindUniqueDefinition,
					Message:  "fragment '" + string(f.Name) + "' is defined more than once",
					Span:     f.Span,
				})
				continue
			}
			out.Fragments[f.Name] = fromFragment(s, f, rep)
			out.FragmentOrder = append(out.FragmentOrder, f.Name)
		}
	}

	if len(out.NamedOperations) == 0 && out.AnonymousOperation == nil {
		rep.AddExternalError(report.Diagnostic{
			Severity: report.SeverityError,
			Kind:     report.KindSyntaxError,
			Message:  "document does not define any operations",
		})
	}

	return out, rep
}

func fromOperation(s *schema.Schema, op *ast.OperationDefinition, rep *report.Report) *Operation {
	var root ast.Name
	switch op.OperationType {
	case ast.Query:
		root = s.QueryType
	case ast.Mutation:
		if s.MutationType != nil {
			root = *s.MutationType
		}
	case ast.Subscription:
		if s.SubscriptionType != nil {
			root = *s.SubscriptionType
		}
	}
	if root == "" {
		rep.AddExternalError(report.Diagnostic{
			Severity: report.SeverityError,
			Kind:     report.KindQueryRootOperationType,
			Message:  "schema has no root operation type for " + op.OperationType.String(),
			Span:     op.Span,
		})
	}
	return &Operation{
		OperationType: op.OperationType,
		Name:          op.Name,
		RootType:      root,
		Variables:     op.Variables,
		Directives:    op.Directives,
		SelectionSet:  resolveSelectionSet(s, root, op.SelectionSet, rep),
	}
}

func fromFragment(s *schema.Schema, f *ast.FragmentDefinition, rep *report.Report) *Fragment {
	return &Fragment{
		Name:          f.Name,
		TypeCondition: f.TypeCondition,
		Directives:    f.Directives,
		SelectionSet:  resolveSelectionSet(s, f.TypeCondition, f.SelectionSet, rep),
	}
}

func resolveSelectionSet(s *schema.Schema, parentType ast.Name, sels []ast.Selection, rep *report.Report) *SelectionSet {
	out := &SelectionSet{ParentType: parentType}
	for _, sel := range sels {
		switch {
		case sel.Field != nil:
			out.Selections = append(out.Selections, Selection{Field: resolveField(s, parentType, sel.Field, rep)})
		case sel.FragmentSpread != nil:
			out.Selections = append(out.Selections, Selection{FragmentSpread: &FragmentSpread{
				FragmentName: sel.FragmentSpread.FragmentName,
				Directives:   sel.FragmentSpread.Directives,
				Span:         sel.FragmentSpread.Span,
			}})
		case sel.InlineFragment != nil:
			childType := parentType
			if sel.InlineFragment.TypeCondition != nil {
				childType = *sel.InlineFragment.TypeCondition
			}
			out.Selections = append(out.Selections, Selection{InlineFragment: &InlineFragment{
				TypeCondition: sel.InlineFragment.TypeCondition,
				Directives:    sel.InlineFragment.Directives,
				SelectionSet:  resolveSelectionSet(s, childType, sel.InlineFragment.SelectionSet, rep),
				Span:          sel.InlineFragment.Span,
			}})
		}
	}
	return out
}

func resolveField(s *schema.Schema, parentType ast.Name, f *ast.FieldSelection, rep *report.Report) *Field {
	fieldType, childParentType := lookupFieldType(s, parentType, f.Name)
	if fieldType.IsNil() && f.Name != TypeNameField {
		rep.AddExternalError(report.Diagnostic{
			Severity: report.SeverityError,
			Kind:     report.KindMissingField,
			Message:  "field '" + string(f.Name) + "' does not exist on type '" + string(parentType) + "'",
			Span:     f.Span,
		})
	}
	var set *SelectionSet
	if f.SelectionSet != nil {
		set = resolveSelectionSet(s, childParentType, f.SelectionSet, rep)
	}
	return &Field{
		Type: fieldType, Alias: f.Alias, Name: f.Name, Arguments: f.Arguments,
		Directives: f.Directives, SelectionSet: set, Span: f.Span,
	}
}

// lookupFieldType resolves name against parentType's field definitions,
// recognizing __typename everywhere and __schema/__type on the query root,
// per spec.md §4.8's meta-field rule. The second return value is the named
// type a selection set nested under this field would select against.
func lookupFieldType(s *schema.Schema, parentType, name ast.Name) (ast.Type, ast.Name) {
	if name == TypeNameField {
		return ast.NonNullNamedType("String"), ""
	}
	if parentType == s.QueryType {
		switch name {
		case "__schema":
			return ast.NonNullNamedType("__Schema"), "__Schema"
		case "__type":
			return ast.NamedType("__Type"), "__Type"
		}
	}
	t, ok := s.Types[parentType]
	if !ok {
		return ast.Type{}, ""
	}
	var fields []ast.FieldDefinition
	switch t.Kind {
	case schema.KindObject, schema.KindInterface:
		fields = t.Fields
	default:
		return ast.Type{}, ""
	}
	for _, fd := range fields {
		if fd.Name == name {
			return fd.Type, ast.InnerNamedType(fd.Type)
		}
	}
	return ast.Type{}, ""
}
