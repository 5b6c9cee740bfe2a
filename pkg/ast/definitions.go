package ast

import "github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"

// OperationType is one of query, mutation, subscription.
type OperationType uint8

const (
	Query OperationType = iota
	Mutation
	Subscription
)

func (o OperationType) String() string {
	switch o {
	case Query:
		return "query"
	case Mutation:
		return "mutation"
	case Subscription:
		return "subscription"
	default:
		return "query"
	}
}

// DirectiveLocation is one of the 19 locations a directive definition may
// list, per the October 2021 spec's DirectiveLocation production.
type DirectiveLocation string

const (
	LocQuery                 DirectiveLocation = "QUERY"
	LocMutation              DirectiveLocation = "MUTATION"
	LocSubscription          DirectiveLocation = "SUBSCRIPTION"
	LocField                 DirectiveLocation = "FIELD"
	LocFragmentDefinition    DirectiveLocation = "FRAGMENT_DEFINITION"
	LocFragmentSpread        DirectiveLocation = "FRAGMENT_SPREAD"
	LocInlineFragment        DirectiveLocation = "INLINE_FRAGMENT"
	LocVariableDefinition    DirectiveLocation = "VARIABLE_DEFINITION"
	LocSchema                DirectiveLocation = "SCHEMA"
	LocScalar                DirectiveLocation = "SCALAR"
	LocObject                DirectiveLocation = "OBJECT"
	LocFieldDefinition       DirectiveLocation = "FIELD_DEFINITION"
	LocArgumentDefinition    DirectiveLocation = "ARGUMENT_DEFINITION"
	LocInterface             DirectiveLocation = "INTERFACE"
	LocUnion                 DirectiveLocation = "UNION"
	LocEnum                  DirectiveLocation = "ENUM"
	LocEnumValue             DirectiveLocation = "ENUM_VALUE"
	LocInputObject           DirectiveLocation = "INPUT_OBJECT"
	LocInputFieldDefinition  DirectiveLocation = "INPUT_FIELD_DEFINITION"
)

// Argument is a (name, value) pair applied to a field or directive.
type Argument struct {
	Name  Name
	Value Value
	Span  sourcemap.SourceSpan
}

// Directive is a single `@name(args...)` application.
type Directive struct {
	Name      Name
	Arguments []Argument
	Span      sourcemap.SourceSpan
}

// ArgumentByName returns the argument named name, if present.
func (d Directive) ArgumentByName(name Name) (Argument, bool) {
	for _, a := range d.Arguments {
		if a.Name == name {
			return a, true
		}
	}
	return Argument{}, false
}

// DirectiveList is an ordered collection of directive applications with a
// by-name lookup, mirroring the convenience original_source's DirectiveList
// offers over a plain slice.
type DirectiveList []Directive

// Get returns the first directive named name, if any.
func (l DirectiveList) Get(name string) (Directive, bool) {
	for _, d := range l {
		if string(d.Name) == name {
			return d, true
		}
	}
	return Directive{}, false
}

// VariableDefinition declares one operation variable: $name: Type = default.
type VariableDefinition struct {
	Name         Name
	Type         Type
	DefaultValue *Value
	Directives   DirectiveList
	Span         sourcemap.SourceSpan
}

// InputValueDefinition describes one field-argument or input-object field.
type InputValueDefinition struct {
	Description  string
	Name         Name
	Type         Type
	DefaultValue *Value
	Directives   DirectiveList
	Span         sourcemap.SourceSpan
}

// FieldDefinition describes one object/interface field.
type FieldDefinition struct {
	Description string
	Name        Name
	Arguments   []InputValueDefinition
	Type        Type
	Directives  DirectiveList
	Span        sourcemap.SourceSpan
}

// EnumValueDefinition describes one enum member.
type EnumValueDefinition struct {
	Description string
	Value       Name
	Directives  DirectiveList
	Span        sourcemap.SourceSpan
}

// Selection is one member of a SelectionSet: a field, fragment spread, or
// inline fragment, at the raw-IR level (before executable assembly
// resolves field types — see pkg/executable for the typed counterpart).
type Selection struct {
	Field           *FieldSelection
	FragmentSpread  *FragmentSpreadSelection
	InlineFragment  *InlineFragmentSelection
}

type FieldSelection struct {
	Alias        *Name
	Name         Name
	Arguments    []Argument
	Directives   DirectiveList
	SelectionSet []Selection
	Span         sourcemap.SourceSpan
}

// ResponseKey is the alias if present, else the field name.
func (f FieldSelection) ResponseKey() Name {
	if f.Alias != nil {
		return *f.Alias
	}
	return f.Name
}

type FragmentSpreadSelection struct {
	FragmentName Name
	Directives   DirectiveList
	Span         sourcemap.SourceSpan
}

type InlineFragmentSelection struct {
	TypeCondition *Name
	Directives    DirectiveList
	SelectionSet  []Selection
	Span          sourcemap.SourceSpan
}

// OperationDefinition is a query/mutation/subscription as written, prior to
// field-type resolution.
type OperationDefinition struct {
	OperationType OperationType
	Name          *Name
	Variables     []VariableDefinition
	Directives    DirectiveList
	SelectionSet  []Selection
	Span          sourcemap.SourceSpan
}

// FragmentDefinition is a named `fragment F on T { ... }`.
type FragmentDefinition struct {
	Name          Name
	TypeCondition Name
	Directives    DirectiveList
	SelectionSet  []Selection
	Span          sourcemap.SourceSpan
}

// DirectiveDefinition is a `directive @name(args) on LOCATIONS` declaration.
type DirectiveDefinition struct {
	Description string
	Name        Name
	Arguments   []InputValueDefinition
	Repeatable  bool
	Locations   []DirectiveLocation
	Span        sourcemap.SourceSpan
}

// RootOperationTypeDefinition binds one operation type to an object type
// name within a schema (extension) definition.
type RootOperationTypeDefinition struct {
	OperationType OperationType
	NamedType     Name
}

type SchemaDefinition struct {
	Description    string
	Directives     DirectiveList
	RootOperations []RootOperationTypeDefinition
	Span           sourcemap.SourceSpan
}

type ScalarTypeDefinition struct {
	Description string
	Name        Name
	Directives  DirectiveList
	Span        sourcemap.SourceSpan
}

type ObjectTypeDefinition struct {
	Description          string
	Name                 Name
	ImplementsInterfaces []Name
	Directives           DirectiveList
	Fields               []FieldDefinition
	Span                 sourcemap.SourceSpan
}

type InterfaceTypeDefinition struct {
	Description          string
	Name                 Name
	ImplementsInterfaces []Name
	Directives           DirectiveList
	Fields               []FieldDefinition
	Span                 sourcemap.SourceSpan
}

type UnionTypeDefinition struct {
	Description string
	Name        Name
	Directives  DirectiveList
	Members     []Name
	Span        sourcemap.SourceSpan
}

type EnumTypeDefinition struct {
	Description string
	Name        Name
	Directives  DirectiveList
	Values      []EnumValueDefinition
	Span        sourcemap.SourceSpan
}

type InputObjectTypeDefinition struct {
	Description string
	Name        Name
	Directives  DirectiveList
	Fields      []InputValueDefinition
	Span        sourcemap.SourceSpan
}

type SchemaExtension struct {
	Directives     DirectiveList
	RootOperations []RootOperationTypeDefinition
	Span           sourcemap.SourceSpan
}

type ScalarTypeExtension struct {
	Name       Name
	Directives DirectiveList
	Span       sourcemap.SourceSpan
}

type ObjectTypeExtension struct {
	Name                 Name
	ImplementsInterfaces []Name
	Directives           DirectiveList
	Fields               []FieldDefinition
	Span                 sourcemap.SourceSpan
}

type InterfaceTypeExtension struct {
	Name                 Name
	ImplementsInterfaces []Name
	Directives           DirectiveList
	Fields               []FieldDefinition
	Span                 sourcemap.SourceSpan
}

type UnionTypeExtension struct {
	Name       Name
	Directives DirectiveList
	Members    []Name
	Span       sourcemap.SourceSpan
}

type EnumTypeExtension struct {
	Name       Name
	Directives DirectiveList
	Values     []EnumValueDefinition
	Span       sourcemap.SourceSpan
}

type InputObjectTypeExtension struct {
	Name       Name
	Directives DirectiveList
	Fields     []InputValueDefinition
	Span       sourcemap.SourceSpan
}

// DefinitionKind discriminates Definition's 17 variants, per spec.md §3.
type DefinitionKind uint8

const (
	DefOperation DefinitionKind = iota
	DefFragment
	DefDirective
	DefSchema
	DefScalarType
	DefObjectType
	DefInterfaceType
	DefUnionType
	DefEnumType
	DefInputObjectType
	DefSchemaExtension
	DefScalarTypeExtension
	DefObjectTypeExtension
	DefInterfaceTypeExtension
	DefUnionTypeExtension
	DefEnumTypeExtension
	DefInputObjectTypeExtension
)

// Definition is a tagged union over the 17 definition kinds. Exactly one
// of the pointer fields matching Kind is non-nil; this mirrors the
// teacher's own panicking-stub-accessor idiom for its legacy Node
// interface, here made safe via the Kind discriminant instead of
// panicking methods.
type Definition struct {
	Kind DefinitionKind

	Operation                *OperationDefinition
	Fragment                 *FragmentDefinition
	Directive                *DirectiveDefinition
	Schema                    *SchemaDefinition
	ScalarType                *ScalarTypeDefinition
	ObjectType                *ObjectTypeDefinition
	InterfaceType             *InterfaceTypeDefinition
	UnionType                 *UnionTypeDefinition
	EnumType                  *EnumTypeDefinition
	InputObjectType           *InputObjectTypeDefinition
	SchemaExtension           *SchemaExtension
	ScalarTypeExtension       *ScalarTypeExtension
	ObjectTypeExtension       *ObjectTypeExtension
	InterfaceTypeExtension    *InterfaceTypeExtension
	UnionTypeExtension        *UnionTypeExtension
	EnumTypeExtension         *EnumTypeExtension
	InputObjectTypeExtension  *InputObjectTypeExtension
}

// Name returns the definition's name, if it has one (operations may be
// anonymous).
func (d Definition) Name() (Name, bool) {
	switch d.Kind {
	case DefOperation:
		if d.Operation.Name != nil {
			return *d.Operation.Name, true
		}
		return "", false
	case DefFragment:
		return d.Fragment.Name, true
	case DefDirective:
		return d.Directive.Name, true
	case DefScalarType:
		return d.ScalarType.Name, true
	case DefObjectType:
		return d.ObjectType.Name, true
	case DefInterfaceType:
		return d.InterfaceType.Name, true
	case DefUnionType:
		return d.UnionType.Name, true
	case DefEnumType:
		return d.EnumType.Name, true
	case DefInputObjectType:
		return d.InputObjectType.Name, true
	case DefScalarTypeExtension:
		return d.ScalarTypeExtension.Name, true
	case DefObjectTypeExtension:
		return d.ObjectTypeExtension.Name, true
	case DefInterfaceTypeExtension:
		return d.InterfaceTypeExtension.Name, true
	case DefUnionTypeExtension:
		return d.UnionTypeExtension.Name, true
	case DefEnumTypeExtension:
		return d.EnumTypeExtension.Name, true
	case DefInputObjectTypeExtension:
		return d.InputObjectTypeExtension.Name, true
	default:
		return "", false
	}
}

// IsExtension reports whether d is one of the seven *Extension kinds.
func (d Definition) IsExtension() bool {
	return d.Kind >= DefSchemaExtension
}

// Document is an ordered list of Definitions, the toolkit's unit of
// parsing: one Document per source file.
type Document struct {
	FileId      sourcemap.FileId
	Definitions []Definition
}
