package parser

import (
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/lexer"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
)

// parseDefinition dispatches on the next significant token, per the
// October 2021 Definition production. Soft keywords (query, mutation,
// subscription, fragment, schema, scalar, type, interface, union, enum,
// input, directive, extend) are recognized by literal text on a Name
// token, not as a distinct lexer token kind.
func (p *Parser) parseDefinition() (ast.Definition, bool) {
	if !p.enter() {
		p.leave()
		return ast.Definition{}, false
	}
	defer p.leave()

	t := p.peekSig()
	if t.Kind == lexer.LBrace {
		op := p.parseOperationDefinition(ast.Query, true)
		return ast.Definition{Kind: ast.DefOperation, Operation: op}, true
	}
	if t.Kind == lexer.String || t.Kind == lexer.BlockString {
		// A string description precedes a type-system definition.
		desc := p.parseOptionalDescription()
		return p.parseDescribedDefinition(desc)
	}
	if t.Kind != lexer.Name {
		p.errorHere("expected a definition")
		return ast.Definition{}, false
	}

	switch t.Literal {
	case "query":
		op := p.parseOperationDefinition(ast.Query, false)
		return ast.Definition{Kind: ast.DefOperation, Operation: op}, true
	case "mutation":
		op := p.parseOperationDefinition(ast.Mutation, false)
		return ast.Definition{Kind: ast.DefOperation, Operation: op}, true
	case "subscription":
		op := p.parseOperationDefinition(ast.Subscription, false)
		return ast.Definition{Kind: ast.DefOperation, Operation: op}, true
	case "fragment":
		f := p.parseFragmentDefinition()
		return ast.Definition{Kind: ast.DefFragment, Fragment: f}, true
	case "directive":
		d := p.parseDirectiveDefinition("")
		return ast.Definition{Kind: ast.DefDirective, Directive: d}, true
	case "schema":
		s := p.parseSchemaDefinition("")
		return ast.Definition{Kind: ast.DefSchema, Schema: s}, true
	case "scalar":
		s := p.parseScalarTypeDefinition("")
		return ast.Definition{Kind: ast.DefScalarType, ScalarType: s}, true
	case "type":
		o := p.parseObjectTypeDefinition("")
		return ast.Definition{Kind: ast.DefObjectType, ObjectType: o}, true
	case "interface":
		i := p.parseInterfaceTypeDefinition("")
		return ast.Definition{Kind: ast.DefInterfaceType, InterfaceType: i}, true
	case "union":
		u := p.parseUnionTypeDefinition("")
		return ast.Definition{Kind: ast.DefUnionType, UnionType: u}, true
	case "enum":
		e := p.parseEnumTypeDefinition("")
		return ast.Definition{Kind: ast.DefEnumType, EnumType: e}, true
	case "input":
		i := p.parseInputObjectTypeDefinition("")
		return ast.Definition{Kind: ast.DefInputObjectType, InputObjectType: i}, true
	case "extend":
		return p.parseExtension()
	default:
		// Shorthand anonymous query with an implicit selection set was
		// handled above via LBrace; anything else here is either a bare
		// named operation (query-less, not legal) or garbage.
		p.errorHere("unexpected token, expected a definition keyword")
		p.bumpSig()
		return ast.Definition{}, false
	}
}

func (p *Parser) parseOptionalDescription() string {
	t := p.peekSig()
	if t.Kind == lexer.String {
		p.bumpSig()
		return unescapeString(t.Literal)
	}
	if t.Kind == lexer.BlockString {
		p.bumpSig()
		return lexer.BlockStringValue(t.Literal)
	}
	return ""
}

func (p *Parser) parseDescribedDefinition(desc string) (ast.Definition, bool) {
	t := p.peekSig()
	if t.Kind != lexer.Name {
		p.errorHere("expected a definition after description")
		return ast.Definition{}, false
	}
	switch t.Literal {
	case "schema":
		s := p.parseSchemaDefinition(desc)
		return ast.Definition{Kind: ast.DefSchema, Schema: s}, true
	case "scalar":
		s := p.parseScalarTypeDefinition(desc)
		return ast.Definition{Kind: ast.DefScalarType, ScalarType: s}, true
	case "type":
		o := p.parseObjectTypeDefinition(desc)
		return ast.Definition{Kind: ast.DefObjectType, ObjectType: o}, true
	case "interface":
		i := p.parseInterfaceTypeDefinition(desc)
		return ast.Definition{Kind: ast.DefInterfaceType, InterfaceType: i}, true
	case "union":
		u := p.parseUnionTypeDefinition(desc)
		return ast.Definition{Kind: ast.DefUnionType, UnionType: u}, true
	case "enum":
		e := p.parseEnumTypeDefinition(desc)
		return ast.Definition{Kind: ast.DefEnumType, EnumType: e}, true
	case "input":
		i := p.parseInputObjectTypeDefinition(desc)
		return ast.Definition{Kind: ast.DefInputObjectType, InputObjectType: i}, true
	case "directive":
		d := p.parseDirectiveDefinition(desc)
		return ast.Definition{Kind: ast.DefDirective, Directive: d}, true
	default:
		p.errorHere("description must precede a type-system definition")
		return ast.Definition{}, false
	}
}

func (p *Parser) parseExtension() (ast.Definition, bool) {
	extendTok := p.bumpSig() // "extend"
	t := p.peekSig()
	if t.Kind != lexer.Name {
		p.err(report.KindSyntaxError, extendTok.Span, "expected a definition kind after 'extend'")
		return ast.Definition{}, false
	}
	switch t.Literal {
	case "schema":
		s := p.parseSchemaExtension()
		return ast.Definition{Kind: ast.DefSchemaExtension, SchemaExtension: s}, true
	case "scalar":
		s := p.parseScalarTypeExtension()
		return ast.Definition{Kind: ast.DefScalarTypeExtension, ScalarTypeExtension: s}, true
	case "type":
		o := p.parseObjectTypeExtension()
		return ast.Definition{Kind: ast.DefObjectTypeExtension, ObjectTypeExtension: o}, true
	case "interface":
		i := p.parseInterfaceTypeExtension()
		return ast.Definition{Kind: ast.DefInterfaceTypeExtension, InterfaceTypeExtension: i}, true
	case "union":
		u := p.parseUnionTypeExtension()
		return ast.Definition{Kind: ast.DefUnionTypeExtension, UnionTypeExtension: u}, true
	case "enum":
		e := p.parseEnumTypeExtension()
		return ast.Definition{Kind: ast.DefEnumTypeExtension, EnumTypeExtension: e}, true
	case "input":
		i := p.parseInputObjectTypeExtension()
		return ast.Definition{Kind: ast.DefInputObjectTypeExtension, InputObjectTypeExtension: i}, true
	default:
		p.errorHere("unknown extension kind")
		return ast.Definition{}, false
	}
}
