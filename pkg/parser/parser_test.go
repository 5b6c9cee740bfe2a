package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/parser"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

func TestParseRoundTripsSourceText(t *testing.T) {
	src := "type Q { a: Int, b: [String!] }\n"
	res := parser.Parse(sourcemap.BuiltIn, src)
	assert.False(t, res.Report.HasErrors())
	assert.Equal(t, src, res.Syntax.Text())
}

func TestParseObjectTypeDefinition(t *testing.T) {
	src := `type Query { hero(id: ID!): String }`
	res := parser.Parse(sourcemap.BuiltIn, src)
	require.False(t, res.Report.HasErrors())
	require.Len(t, res.Document.Definitions, 1)

	def := res.Document.Definitions[0]
	require.Equal(t, ast.DefObjectType, def.Kind)
	require.Equal(t, ast.Name("Query"), def.ObjectType.Name)
	require.Len(t, def.ObjectType.Fields, 1)

	field := def.ObjectType.Fields[0]
	assert.Equal(t, ast.Name("hero"), field.Name)
	require.Len(t, field.Arguments, 1)
	assert.Equal(t, ast.Name("id"), field.Arguments[0].Name)
	assert.True(t, ast.IsNonNull(field.Arguments[0].Type))
	assert.Equal(t, "String", ast.TypeString(field.Type))
}

func TestParseNamedQueryWithVariables(t *testing.T) {
	src := `query Greet($name: String = "world") { hello(name: $name) }`
	res := parser.Parse(sourcemap.BuiltIn, src)
	require.False(t, res.Report.HasErrors())
	require.Len(t, res.Document.Definitions, 1)

	op := res.Document.Definitions[0].Operation
	require.NotNil(t, op.Name)
	assert.Equal(t, ast.Name("Greet"), *op.Name)
	require.Len(t, op.Variables, 1)
	assert.Equal(t, ast.Name("name"), op.Variables[0].Name)
	require.NotNil(t, op.Variables[0].DefaultValue)

	require.Len(t, op.SelectionSet, 1)
	field := op.SelectionSet[0].Field
	require.NotNil(t, field)
	require.Len(t, field.Arguments, 1)
	varName, ok := ast.AsVariable(field.Arguments[0].Value)
	require.True(t, ok)
	assert.Equal(t, ast.Name("name"), varName)
}

func TestParseShorthandQuery(t *testing.T) {
	src := `{ field }`
	res := parser.Parse(sourcemap.BuiltIn, src)
	require.False(t, res.Report.HasErrors())
	require.Len(t, res.Document.Definitions, 1)
	op := res.Document.Definitions[0].Operation
	assert.Nil(t, op.Name)
	assert.Equal(t, ast.Query, op.OperationType)
}

func TestParseFragmentAndInlineFragment(t *testing.T) {
	src := `fragment F on T { ... on U { a } ... Other }`
	res := parser.Parse(sourcemap.BuiltIn, src)
	require.False(t, res.Report.HasErrors())
	require.Len(t, res.Document.Definitions, 1)
	frag := res.Document.Definitions[0].Fragment
	require.NotNil(t, frag)
	assert.Equal(t, ast.Name("T"), frag.TypeCondition)
	require.Len(t, frag.SelectionSet, 2)
	assert.NotNil(t, frag.SelectionSet[0].InlineFragment)
	assert.NotNil(t, frag.SelectionSet[1].FragmentSpread)
}

func TestParseDirectiveDefinition(t *testing.T) {
	src := `directive @auth(role: String!) repeatable on FIELD_DEFINITION | OBJECT`
	res := parser.Parse(sourcemap.BuiltIn, src)
	require.False(t, res.Report.HasErrors())
	require.Len(t, res.Document.Definitions, 1)
	d := res.Document.Definitions[0].Directive
	require.NotNil(t, d)
	assert.True(t, d.Repeatable)
	assert.Equal(t, []ast.DirectiveLocation{ast.LocFieldDefinition, ast.LocObject}, d.Locations)
}

func TestParseSchemaExtension(t *testing.T) {
	src := `extend schema { mutation: MutationRoot }`
	res := parser.Parse(sourcemap.BuiltIn, src)
	require.False(t, res.Report.HasErrors())
	require.Len(t, res.Document.Definitions, 1)
	ext := res.Document.Definitions[0].SchemaExtension
	require.NotNil(t, ext)
	require.Len(t, ext.RootOperations, 1)
	assert.Equal(t, ast.Mutation, ext.RootOperations[0].OperationType)
}

func TestParseRecoversFromGarbageTopLevelToken(t *testing.T) {
	src := `) type Q { a: Int }`
	res := parser.Parse(sourcemap.BuiltIn, src)
	assert.True(t, res.Report.HasErrors())
	require.Len(t, res.Document.Definitions, 1)
	assert.Equal(t, ast.Name("Q"), res.Document.Definitions[0].ObjectType.Name)
}
