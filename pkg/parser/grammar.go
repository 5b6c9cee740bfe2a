package parser

import (
	"strconv"
	"strings"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/lexer"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
)

// expect consumes the next significant token if it matches kind, else
// records a diagnostic and leaves the cursor in place so recovery at an
// outer level can resynchronize.
func (p *Parser) expect(kind lexer.Kind, what string) (lexer.Token, bool) {
	t := p.peekSig()
	if t.Kind != kind {
		p.errorHere("expected " + what)
		return t, false
	}
	return p.bumpSig(), true
}

func (p *Parser) expectKeyword(kw string) bool {
	if !p.atKeyword(kw) {
		p.errorHere("expected '" + kw + "'")
		return false
	}
	p.bumpSig()
	return true
}

func (p *Parser) parseName() ast.Name {
	t, ok := p.expect(lexer.Name, "a name")
	if !ok {
		return ""
	}
	n, err := ast.NewName(t.Literal)
	if err != nil {
		p.err(report.KindSyntaxError, t.Span, err.Error())
		return ast.Name(t.Literal)
	}
	return n
}

func unescapeString(raw string) string {
	// raw includes surrounding quotes.
	if len(raw) < 2 {
		return ""
	}
	body := raw[1 : len(raw)-1]
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case '/':
			b.WriteByte('/')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			if i+4 < len(body) {
				if v, err := strconv.ParseUint(body[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(v))
					i += 4
					continue
				}
			}
			b.WriteString("\\u")
		default:
			b.WriteByte('\\')
			b.WriteByte(body[i])
		}
	}
	return b.String()
}

// ---- Types -----------------------------------------------------------

func (p *Parser) parseType() ast.Type {
	if p.peekSig().Kind == lexer.LBracket {
		p.bumpSig()
		inner := p.parseType()
		p.expect(lexer.RBracket, "']'")
		if p.peekSig().Kind == lexer.Bang {
			p.bumpSig()
			return ast.NonNullListType(inner)
		}
		return ast.ListType(inner)
	}
	name := p.parseName()
	if p.peekSig().Kind == lexer.Bang {
		p.bumpSig()
		return ast.NonNullNamedType(name)
	}
	return ast.NamedType(name)
}

// ---- Values ------------------------------------------------------------

func (p *Parser) parseValue() ast.Value {
	t := p.peekSig()
	switch t.Kind {
	case lexer.Dollar:
		p.bumpSig()
		name := p.parseName()
		return ast.VariableValue(name)
	case lexer.Int:
		p.bumpSig()
		return ast.IntValue(t.Literal)
	case lexer.Float:
		p.bumpSig()
		return ast.FloatValue(t.Literal)
	case lexer.String:
		p.bumpSig()
		return ast.StringValue(unescapeString(t.Literal))
	case lexer.BlockString:
		p.bumpSig()
		return ast.StringValue(lexer.BlockStringValue(t.Literal))
	case lexer.LBracket:
		return p.parseListValue()
	case lexer.LBrace:
		return p.parseObjectValue()
	case lexer.Name:
		switch t.Literal {
		case "true":
			p.bumpSig()
			return ast.BooleanValue(true)
		case "false":
			p.bumpSig()
			return ast.BooleanValue(false)
		case "null":
			p.bumpSig()
			return ast.NullValue()
		default:
			p.bumpSig()
			return ast.EnumValue(ast.Name(t.Literal))
		}
	default:
		p.errorHere("expected a value")
		p.bumpSig()
		return ast.NullValue()
	}
}

func (p *Parser) parseListValue() ast.Value {
	p.bumpSig() // [
	var values []ast.Value
	for p.peekSig().Kind != lexer.RBracket && p.peekSig().Kind != lexer.Eof {
		if !p.enter() {
			p.leave()
			break
		}
		values = append(values, p.parseValue())
		p.leave()
	}
	p.expect(lexer.RBracket, "']'")
	return ast.ListValue(values)
}

func (p *Parser) parseObjectValue() ast.Value {
	p.bumpSig() // {
	var fields []ast.ObjectField
	for p.peekSig().Kind != lexer.RBrace && p.peekSig().Kind != lexer.Eof {
		name := p.parseName()
		p.expect(lexer.Colon, "':'")
		if !p.enter() {
			p.leave()
			break
		}
		val := p.parseValue()
		p.leave()
		fields = append(fields, ast.ObjectField{Name: name, Value: val})
	}
	p.expect(lexer.RBrace, "'}'")
	return ast.ObjectValue(fields)
}

// ---- Directives / arguments ---------------------------------------------

func (p *Parser) parseArguments() []ast.Argument {
	if p.peekSig().Kind != lexer.LParen {
		return nil
	}
	p.bumpSig()
	var args []ast.Argument
	for p.peekSig().Kind != lexer.RParen && p.peekSig().Kind != lexer.Eof {
		start := p.peekSig().Span
		name := p.parseName()
		p.expect(lexer.Colon, "':'")
		val := p.parseValue()
		args = append(args, ast.Argument{Name: name, Value: val, Span: start})
	}
	p.expect(lexer.RParen, "')'")
	return args
}

func (p *Parser) parseDirectives() ast.DirectiveList {
	var out ast.DirectiveList
	for p.peekSig().Kind == lexer.At {
		start := p.bumpSig().Span
		name := p.parseName()
		args := p.parseArguments()
		out = append(out, ast.Directive{Name: name, Arguments: args, Span: start})
	}
	return out
}

// ---- Selection sets --------------------------------------------------

func (p *Parser) parseSelectionSet() []ast.Selection {
	if _, ok := p.expect(lexer.LBrace, "'{'"); !ok {
		return nil
	}
	var sels []ast.Selection
	for p.peekSig().Kind != lexer.RBrace && p.peekSig().Kind != lexer.Eof {
		if !p.enter() {
			p.leave()
			break
		}
		sels = append(sels, p.parseSelection())
		p.leave()
	}
	p.expect(lexer.RBrace, "'}'")
	return sels
}

func (p *Parser) parseSelection() ast.Selection {
	if p.peekSig().Kind == lexer.Spread {
		spreadSpan := p.bumpSig().Span
		if p.atKeyword("on") {
			p.bumpSig()
			cond := p.parseName()
			dirs := p.parseDirectives()
			set := p.parseSelectionSet()
			return ast.Selection{InlineFragment: &ast.InlineFragmentSelection{
				TypeCondition: &cond, Directives: dirs, SelectionSet: set, Span: spreadSpan,
			}}
		}
		if p.peekSig().Kind == lexer.At || p.peekSig().Kind == lexer.LBrace {
			dirs := p.parseDirectives()
			set := p.parseSelectionSet()
			return ast.Selection{InlineFragment: &ast.InlineFragmentSelection{
				Directives: dirs, SelectionSet: set, Span: spreadSpan,
			}}
		}
		name := p.parseName()
		dirs := p.parseDirectives()
		return ast.Selection{FragmentSpread: &ast.FragmentSpreadSelection{
			FragmentName: name, Directives: dirs, Span: spreadSpan,
		}}
	}
	return p.parseField()
}

func (p *Parser) parseField() ast.Selection {
	start := p.peekSig().Span
	first := p.parseName()
	var alias *ast.Name
	name := first
	if p.peekSig().Kind == lexer.Colon {
		p.bumpSig()
		a := first
		alias = &a
		name = p.parseName()
	}
	args := p.parseArguments()
	dirs := p.parseDirectives()
	var set []ast.Selection
	if p.peekSig().Kind == lexer.LBrace {
		set = p.parseSelectionSet()
	}
	return ast.Selection{Field: &ast.FieldSelection{
		Alias: alias, Name: name, Arguments: args, Directives: dirs,
		SelectionSet: set, Span: start,
	}}
}

// ---- Operations / fragments -------------------------------------------

func (p *Parser) parseOperationDefinition(opType ast.OperationType, shorthand bool) *ast.OperationDefinition {
	start := p.peekSig().Span
	var name *ast.Name
	var vars []ast.VariableDefinition
	var dirs ast.DirectiveList
	if !shorthand {
		p.bumpSig() // query/mutation/subscription keyword
		if p.peekSig().Kind == lexer.Name {
			n := p.parseName()
			name = &n
		}
		vars = p.parseVariableDefinitions()
		dirs = p.parseDirectives()
	}
	set := p.parseSelectionSet()
	return &ast.OperationDefinition{
		OperationType: opType, Name: name, Variables: vars, Directives: dirs,
		SelectionSet: set, Span: start,
	}
}

func (p *Parser) parseVariableDefinitions() []ast.VariableDefinition {
	if p.peekSig().Kind != lexer.LParen {
		return nil
	}
	p.bumpSig()
	var out []ast.VariableDefinition
	for p.peekSig().Kind != lexer.RParen && p.peekSig().Kind != lexer.Eof {
		start := p.peekSig().Span
		p.expect(lexer.Dollar, "'$'")
		name := p.parseName()
		p.expect(lexer.Colon, "':'")
		ty := p.parseType()
		var def *ast.Value
		if p.peekSig().Kind == lexer.Equals {
			p.bumpSig()
			v := p.parseValue()
			def = &v
		}
		dirs := p.parseDirectives()
		out = append(out, ast.VariableDefinition{
			Name: name, Type: ty, DefaultValue: def, Directives: dirs, Span: start,
		})
	}
	p.expect(lexer.RParen, "')'")
	return out
}

func (p *Parser) parseFragmentDefinition() *ast.FragmentDefinition {
	start := p.bumpSig().Span // "fragment"
	name := p.parseName()
	p.expectKeyword("on")
	cond := p.parseName()
	dirs := p.parseDirectives()
	set := p.parseSelectionSet()
	return &ast.FragmentDefinition{
		Name: name, TypeCondition: cond, Directives: dirs, SelectionSet: set, Span: start,
	}
}

// ---- Type system: schema ------------------------------------------------

func (p *Parser) parseRootOperationTypes() []ast.RootOperationTypeDefinition {
	p.expect(lexer.LBrace, "'{'")
	var out []ast.RootOperationTypeDefinition
	for p.peekSig().Kind != lexer.RBrace && p.peekSig().Kind != lexer.Eof {
		var opType ast.OperationType
		switch {
		case p.atKeyword("query"):
			opType = ast.Query
		case p.atKeyword("mutation"):
			opType = ast.Mutation
		case p.atKeyword("subscription"):
			opType = ast.Subscription
		default:
			p.errorHere("expected 'query', 'mutation', or 'subscription'")
			p.bumpSig()
			continue
		}
		p.bumpSig()
		p.expect(lexer.Colon, "':'")
		named := p.parseName()
		out = append(out, ast.RootOperationTypeDefinition{OperationType: opType, NamedType: named})
	}
	p.expect(lexer.RBrace, "'}'")
	return out
}

func (p *Parser) parseSchemaDefinition(desc string) *ast.SchemaDefinition {
	start := p.bumpSig().Span // "schema"
	dirs := p.parseDirectives()
	roots := p.parseRootOperationTypes()
	return &ast.SchemaDefinition{Description: desc, Directives: dirs, RootOperations: roots, Span: start}
}

func (p *Parser) parseSchemaExtension() *ast.SchemaExtension {
	start := p.bumpSig().Span // "schema"
	dirs := p.parseDirectives()
	var roots []ast.RootOperationTypeDefinition
	if p.peekSig().Kind == lexer.LBrace {
		roots = p.parseRootOperationTypes()
	}
	return &ast.SchemaExtension{Directives: dirs, RootOperations: roots, Span: start}
}

// ---- Type system: scalar -------------------------------------------------

func (p *Parser) parseScalarTypeDefinition(desc string) *ast.ScalarTypeDefinition {
	start := p.bumpSig().Span // "scalar"
	name := p.parseName()
	dirs := p.parseDirectives()
	return &ast.ScalarTypeDefinition{Description: desc, Name: name, Directives: dirs, Span: start}
}

func (p *Parser) parseScalarTypeExtension() *ast.ScalarTypeExtension {
	start := p.bumpSig().Span // "scalar"
	name := p.parseName()
	dirs := p.parseDirectives()
	return &ast.ScalarTypeExtension{Name: name, Directives: dirs, Span: start}
}

// ---- Type system: object / interface --------------------------------------

func (p *Parser) parseImplementsInterfaces() []ast.Name {
	if !p.atKeyword("implements") {
		return nil
	}
	p.bumpSig()
	var out []ast.Name
	// leading '&' is optional, per the grammar's ImplementsInterfaces rule.
	if p.peekSig().Kind == lexer.Amp {
		p.bumpSig()
	}
	out = append(out, p.parseName())
	for p.peekSig().Kind == lexer.Amp {
		p.bumpSig()
		out = append(out, p.parseName())
	}
	return out
}

func (p *Parser) parseArgumentsDefinition() []ast.InputValueDefinition {
	if p.peekSig().Kind != lexer.LParen {
		return nil
	}
	p.bumpSig()
	var out []ast.InputValueDefinition
	for p.peekSig().Kind != lexer.RParen && p.peekSig().Kind != lexer.Eof {
		out = append(out, p.parseInputValueDefinition())
	}
	p.expect(lexer.RParen, "')'")
	return out
}

func (p *Parser) parseInputValueDefinition() ast.InputValueDefinition {
	desc := p.parseOptionalDescription()
	start := p.peekSig().Span
	name := p.parseName()
	p.expect(lexer.Colon, "':'")
	ty := p.parseType()
	var def *ast.Value
	if p.peekSig().Kind == lexer.Equals {
		p.bumpSig()
		v := p.parseValue()
		def = &v
	}
	dirs := p.parseDirectives()
	return ast.InputValueDefinition{
		Description: desc, Name: name, Type: ty, DefaultValue: def, Directives: dirs, Span: start,
	}
}

func (p *Parser) parseFieldsDefinition() []ast.FieldDefinition {
	if p.peekSig().Kind != lexer.LBrace {
		return nil
	}
	p.bumpSig()
	var out []ast.FieldDefinition
	for p.peekSig().Kind != lexer.RBrace && p.peekSig().Kind != lexer.Eof {
		if !p.enter() {
			p.leave()
			break
		}
		out = append(out, p.parseFieldDefinition())
		p.leave()
	}
	p.expect(lexer.RBrace, "'}'")
	return out
}

func (p *Parser) parseFieldDefinition() ast.FieldDefinition {
	desc := p.parseOptionalDescription()
	start := p.peekSig().Span
	name := p.parseName()
	args := p.parseArgumentsDefinition()
	p.expect(lexer.Colon, "':'")
	ty := p.parseType()
	dirs := p.parseDirectives()
	return ast.FieldDefinition{
		Description: desc, Name: name, Arguments: args, Type: ty, Directives: dirs, Span: start,
	}
}

func (p *Parser) parseObjectTypeDefinition(desc string) *ast.ObjectTypeDefinition {
	start := p.bumpSig().Span // "type"
	name := p.parseName()
	impl := p.parseImplementsInterfaces()
	dirs := p.parseDirectives()
	fields := p.parseFieldsDefinition()
	return &ast.ObjectTypeDefinition{
		Description: desc, Name: name, ImplementsInterfaces: impl,
		Directives: dirs, Fields: fields, Span: start,
	}
}

func (p *Parser) parseObjectTypeExtension() *ast.ObjectTypeExtension {
	start := p.bumpSig().Span // "type"
	name := p.parseName()
	impl := p.parseImplementsInterfaces()
	dirs := p.parseDirectives()
	fields := p.parseFieldsDefinition()
	return &ast.ObjectTypeExtension{
		Name: name, ImplementsInterfaces: impl, Directives: dirs, Fields: fields, Span: start,
	}
}

func (p *Parser) parseInterfaceTypeDefinition(desc string) *ast.InterfaceTypeDefinition {
	start := p.bumpSig().Span // "interface"
	name := p.parseName()
	impl := p.parseImplementsInterfaces()
	dirs := p.parseDirectives()
	fields := p.parseFieldsDefinition()
	return &ast.InterfaceTypeDefinition{
		Description: desc, Name: name, ImplementsInterfaces: impl,
		Directives: dirs, Fields: fields, Span: start,
	}
}

func (p *Parser) parseInterfaceTypeExtension() *ast.InterfaceTypeExtension {
	start := p.bumpSig().Span // "interface"
	name := p.parseName()
	impl := p.parseImplementsInterfaces()
	dirs := p.parseDirectives()
	fields := p.parseFieldsDefinition()
	return &ast.InterfaceTypeExtension{
		Name: name, ImplementsInterfaces: impl, Directives: dirs, Fields: fields, Span: start,
	}
}

// ---- Type system: union -------------------------------------------------

func (p *Parser) parseUnionMemberTypes() []ast.Name {
	if p.peekSig().Kind != lexer.Equals {
		return nil
	}
	p.bumpSig()
	if p.peekSig().Kind == lexer.Pipe {
		p.bumpSig()
	}
	var out []ast.Name
	out = append(out, p.parseName())
	for p.peekSig().Kind == lexer.Pipe {
		p.bumpSig()
		out = append(out, p.parseName())
	}
	return out
}

func (p *Parser) parseUnionTypeDefinition(desc string) *ast.UnionTypeDefinition {
	start := p.bumpSig().Span // "union"
	name := p.parseName()
	dirs := p.parseDirectives()
	members := p.parseUnionMemberTypes()
	return &ast.UnionTypeDefinition{Description: desc, Name: name, Directives: dirs, Members: members, Span: start}
}

func (p *Parser) parseUnionTypeExtension() *ast.UnionTypeExtension {
	start := p.bumpSig().Span // "union"
	name := p.parseName()
	dirs := p.parseDirectives()
	members := p.parseUnionMemberTypes()
	return &ast.UnionTypeExtension{Name: name, Directives: dirs, Members: members, Span: start}
}

// ---- Type system: enum ---------------------------------------------------

func (p *Parser) parseEnumValuesDefinition() []ast.EnumValueDefinition {
	if p.peekSig().Kind != lexer.LBrace {
		return nil
	}
	p.bumpSig()
	var out []ast.EnumValueDefinition
	for p.peekSig().Kind != lexer.RBrace && p.peekSig().Kind != lexer.Eof {
		desc := p.parseOptionalDescription()
		start := p.peekSig().Span
		val := p.parseName()
		dirs := p.parseDirectives()
		out = append(out, ast.EnumValueDefinition{Description: desc, Value: val, Directives: dirs, Span: start})
	}
	p.expect(lexer.RBrace, "'}'")
	return out
}

func (p *Parser) parseEnumTypeDefinition(desc string) *ast.EnumTypeDefinition {
	start := p.bumpSig().Span // "enum"
	name := p.parseName()
	dirs := p.parseDirectives()
	values := p.parseEnumValuesDefinition()
	return &ast.EnumTypeDefinition{Description: desc, Name: name, Directives: dirs, Values: values, Span: start}
}

func (p *Parser) parseEnumTypeExtension() *ast.EnumTypeExtension {
	start := p.bumpSig().Span // "enum"
	name := p.parseName()
	dirs := p.parseDirectives()
	values := p.parseEnumValuesDefinition()
	return &ast.EnumTypeExtension{Name: name, Directives: dirs, Values: values, Span: start}
}

// ---- Type system: input object -------------------------------------------

func (p *Parser) parseInputFieldsDefinition() []ast.InputValueDefinition {
	if p.peekSig().Kind != lexer.LBrace {
		return nil
	}
	p.bumpSig()
	var out []ast.InputValueDefinition
	for p.peekSig().Kind != lexer.RBrace && p.peekSig().Kind != lexer.Eof {
		out = append(out, p.parseInputValueDefinition())
	}
	p.expect(lexer.RBrace, "'}'")
	return out
}

func (p *Parser) parseInputObjectTypeDefinition(desc string) *ast.InputObjectTypeDefinition {
	start := p.bumpSig().Span // "input"
	name := p.parseName()
	dirs := p.parseDirectives()
	fields := p.parseInputFieldsDefinition()
	return &ast.InputObjectTypeDefinition{Description: desc, Name: name, Directives: dirs, Fields: fields, Span: start}
}

func (p *Parser) parseInputObjectTypeExtension() *ast.InputObjectTypeExtension {
	start := p.bumpSig().Span // "input"
	name := p.parseName()
	dirs := p.parseDirectives()
	fields := p.parseInputFieldsDefinition()
	return &ast.InputObjectTypeExtension{Name: name, Directives: dirs, Fields: fields, Span: start}
}

// ---- Type system: directive ----------------------------------------------

var directiveLocationNames = map[string]ast.DirectiveLocation{
	"QUERY":                  ast.LocQuery,
	"MUTATION":               ast.LocMutation,
	"SUBSCRIPTION":           ast.LocSubscription,
	"FIELD":                  ast.LocField,
	"FRAGMENT_DEFINITION":    ast.LocFragmentDefinition,
	"FRAGMENT_SPREAD":        ast.LocFragmentSpread,
	"INLINE_FRAGMENT":        ast.LocInlineFragment,
	"VARIABLE_DEFINITION":    ast.LocVariableDefinition,
	"SCHEMA":                 ast.LocSchema,
	"SCALAR":                 ast.LocScalar,
	"OBJECT":                 ast.LocObject,
	"FIELD_DEFINITION":       ast.LocFieldDefinition,
	"ARGUMENT_DEFINITION":    ast.LocArgumentDefinition,
	"INTERFACE":              ast.LocInterface,
	"UNION":                  ast.LocUnion,
	"ENUM":                   ast.LocEnum,
	"ENUM_VALUE":             ast.LocEnumValue,
	"INPUT_OBJECT":           ast.LocInputObject,
	"INPUT_FIELD_DEFINITION": ast.LocInputFieldDefinition,
}

func (p *Parser) parseDirectiveLocations() []ast.DirectiveLocation {
	if p.peekSig().Kind == lexer.Pipe {
		p.bumpSig()
	}
	var out []ast.DirectiveLocation
	for {
		t := p.peekSig()
		if t.Kind != lexer.Name {
			p.errorHere("expected a directive location")
			break
		}
		loc, ok := directiveLocationNames[t.Literal]
		if !ok {
			p.errorHere("unknown directive location '" + t.Literal + "'")
		}
		p.bumpSig()
		out = append(out, loc)
		if p.peekSig().Kind != lexer.Pipe {
			break
		}
		p.bumpSig()
	}
	return out
}

func (p *Parser) parseDirectiveDefinition(desc string) *ast.DirectiveDefinition {
	start := p.bumpSig().Span // "directive"
	p.expect(lexer.At, "'@'")
	name := p.parseName()
	args := p.parseArgumentsDefinition()
	repeatable := false
	if p.atKeyword("repeatable") {
		p.bumpSig()
		repeatable = true
	}
	p.expectKeyword("on")
	locs := p.parseDirectiveLocations()
	return &ast.DirectiveDefinition{
		Description: desc, Name: name, Arguments: args, Repeatable: repeatable,
		Locations: locs, Span: start,
	}
}
