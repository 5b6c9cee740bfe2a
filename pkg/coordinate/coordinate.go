// Package coordinate implements GraphQL schema coordinates: compact
// references into a schema such as "Type.field", "Type.field(arg:)", and
// "@directive(arg:)". Grounded directly on
// original_source/crates/apollo-compiler/src/coordinate.rs.
package coordinate

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
)

// ErrInvalidFormat is returned by the Parse functions when the input
// doesn't match the expected coordinate shape.
var ErrInvalidFormat = errors.New("coordinate: invalid format")

// ErrInvalidName is returned when a component of a coordinate isn't a
// legal GraphQL name, per https://spec.graphql.org/October2021/#Name.
var ErrInvalidName = errors.New("coordinate: invalid name")

// Type targets a type definition: "Type".
type Type struct {
	Name ast.Name
}

func (c Type) String() string { return string(c.Name) }

// WithAttribute builds a coordinate pointing to a field (object/interface)
// or enum value (enum) on this type.
func (c Type) WithAttribute(attribute ast.Name) TypeAttribute {
	return TypeAttribute{Type: c.Name, Attribute: attribute}
}

// ParseTypeCoordinate parses a "Type" coordinate.
func ParseTypeCoordinate(input string) (Type, error) {
	name, err := validateName(input)
	if err != nil {
		return Type{}, err
	}
	return Type{Name: name}, nil
}

// TypeAttribute targets a field definition or an enum value:
// "Type.field", "Enum.VALUE".
type TypeAttribute struct {
	Type      ast.Name
	Attribute ast.Name
}

func (c TypeAttribute) String() string {
	return string(c.Type) + "." + string(c.Attribute)
}

// TypeCoordinate drops the attribute, pointing back at the enclosing type.
func (c TypeAttribute) TypeCoordinate() Type { return Type{Name: c.Type} }

// WithArgument assumes Attribute names a field, and builds a coordinate
// pointing to one of its arguments.
func (c TypeAttribute) WithArgument(argument ast.Name) FieldArgument {
	return FieldArgument{Type: c.Type, Field: c.Attribute, Argument: argument}
}

// ParseTypeAttributeCoordinate parses a "Type.field" coordinate.
func ParseTypeAttributeCoordinate(input string) (TypeAttribute, error) {
	typeName, rest, ok := strings.Cut(input, ".")
	if !ok {
		return TypeAttribute{}, ErrInvalidFormat
	}
	ty, err := validateName(typeName)
	if err != nil {
		return TypeAttribute{}, errors.Wrapf(err, "coordinate: invalid type name %q", typeName)
	}
	attr, err := validateName(rest)
	if err != nil {
		return TypeAttribute{}, errors.Wrapf(err, "coordinate: invalid attribute name %q", rest)
	}
	return TypeAttribute{Type: ty, Attribute: attr}, nil
}

// FieldArgument targets a field argument definition: "Type.field(argument:)".
type FieldArgument struct {
	Type     ast.Name
	Field    ast.Name
	Argument ast.Name
}

func (c FieldArgument) String() string {
	return string(c.Type) + "." + string(c.Field) + "(" + string(c.Argument) + ":)"
}

// FieldCoordinate drops the argument, pointing at the enclosing field.
func (c FieldArgument) FieldCoordinate() TypeAttribute {
	return TypeAttribute{Type: c.Type, Attribute: c.Field}
}

// ParseFieldArgumentCoordinate parses a "Type.field(argument:)" coordinate.
func ParseFieldArgumentCoordinate(input string) (FieldArgument, error) {
	field, rest, ok := strings.Cut(input, "(")
	if !ok {
		return FieldArgument{}, ErrInvalidFormat
	}
	attr, err := ParseTypeAttributeCoordinate(field)
	if err != nil {
		return FieldArgument{}, errors.Wrapf(err, "coordinate: invalid field %q", field)
	}
	argument, ok := strings.CutSuffix(rest, ":)")
	if !ok {
		return FieldArgument{}, ErrInvalidFormat
	}
	name, err := validateName(argument)
	if err != nil {
		return FieldArgument{}, errors.Wrapf(err, "coordinate: invalid argument name %q", argument)
	}
	return attr.WithArgument(name), nil
}

// Directive targets a directive definition: "@directive".
type Directive struct {
	Directive ast.Name
}

func (c Directive) String() string { return "@" + string(c.Directive) }

// WithArgument builds a coordinate pointing to one of this directive's
// arguments.
func (c Directive) WithArgument(argument ast.Name) DirectiveArgument {
	return DirectiveArgument{Directive: c.Directive, Argument: argument}
}

// ParseDirectiveCoordinate parses an "@directive" coordinate.
func ParseDirectiveCoordinate(input string) (Directive, error) {
	rest, ok := strings.CutPrefix(input, "@")
	if !ok {
		return Directive{}, ErrInvalidFormat
	}
	name, err := validateName(rest)
	if err != nil {
		return Directive{}, errors.Wrapf(err, "coordinate: invalid directive name %q", rest)
	}
	return Directive{Directive: name}, nil
}

// DirectiveArgument targets a directive argument definition:
// "@directive(argument:)".
type DirectiveArgument struct {
	Directive ast.Name
	Argument  ast.Name
}

func (c DirectiveArgument) String() string {
	return "@" + string(c.Directive) + "(" + string(c.Argument) + ":)"
}

// DirectiveCoordinate drops the argument, pointing at the enclosing
// directive.
func (c DirectiveArgument) DirectiveCoordinate() Directive {
	return Directive{Directive: c.Directive}
}

// ParseDirectiveArgumentCoordinate parses an "@directive(argument:)" coordinate.
func ParseDirectiveArgumentCoordinate(input string) (DirectiveArgument, error) {
	directive, rest, ok := strings.Cut(input, "(")
	if !ok {
		return DirectiveArgument{}, ErrInvalidFormat
	}
	d, err := ParseDirectiveCoordinate(directive)
	if err != nil {
		return DirectiveArgument{}, errors.Wrapf(err, "coordinate: invalid directive %q", directive)
	}
	argument, ok := strings.CutSuffix(rest, ":)")
	if !ok {
		return DirectiveArgument{}, ErrInvalidFormat
	}
	name, err := validateName(argument)
	if err != nil {
		return DirectiveArgument{}, errors.Wrapf(err, "coordinate: invalid argument name %q", argument)
	}
	return d.WithArgument(name), nil
}

// Kind discriminates the five shapes a SchemaCoordinate can take.
type Kind uint8

const (
	KindType Kind = iota
	KindTypeAttribute
	KindFieldArgument
	KindDirective
	KindDirectiveArgument
)

// SchemaCoordinate is any parsed coordinate, tagged by Kind; exactly one
// of the corresponding fields is populated.
type SchemaCoordinate struct {
	Kind              Kind
	Type              Type
	TypeAttribute     TypeAttribute
	FieldArgument     FieldArgument
	Directive         Directive
	DirectiveArgument DirectiveArgument
}

func (c SchemaCoordinate) String() string {
	switch c.Kind {
	case KindType:
		return c.Type.String()
	case KindTypeAttribute:
		return c.TypeAttribute.String()
	case KindFieldArgument:
		return c.FieldArgument.String()
	case KindDirective:
		return c.Directive.String()
	case KindDirectiveArgument:
		return c.DirectiveArgument.String()
	default:
		return ""
	}
}

// Parse parses any schema coordinate, dispatching on its leading "@" and
// the presence of "." and "(" the same way the five specialized Parse*
// functions do.
func Parse(input string) (SchemaCoordinate, error) {
	if strings.HasPrefix(input, "@") {
		if strings.Contains(input, "(") {
			c, err := ParseDirectiveArgumentCoordinate(input)
			if err != nil {
				return SchemaCoordinate{}, err
			}
			return SchemaCoordinate{Kind: KindDirectiveArgument, DirectiveArgument: c}, nil
		}
		c, err := ParseDirectiveCoordinate(input)
		if err != nil {
			return SchemaCoordinate{}, err
		}
		return SchemaCoordinate{Kind: KindDirective, Directive: c}, nil
	}
	if strings.Contains(input, "(") {
		c, err := ParseFieldArgumentCoordinate(input)
		if err != nil {
			return SchemaCoordinate{}, err
		}
		return SchemaCoordinate{Kind: KindFieldArgument, FieldArgument: c}, nil
	}
	if strings.Contains(input, ".") {
		c, err := ParseTypeAttributeCoordinate(input)
		if err != nil {
			return SchemaCoordinate{}, err
		}
		return SchemaCoordinate{Kind: KindTypeAttribute, TypeAttribute: c}, nil
	}
	c, err := ParseTypeCoordinate(input)
	if err != nil {
		return SchemaCoordinate{}, err
	}
	return SchemaCoordinate{Kind: KindType, Type: c}, nil
}

func validateName(s string) (ast.Name, error) {
	if !isValidName(s) {
		return "", ErrInvalidName
	}
	return ast.Name(s), nil
}

// isValidName matches the GraphQL Name grammar:
// /[_A-Za-z][_0-9A-Za-z]*/
func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
