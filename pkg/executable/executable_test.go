package executable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/parser"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

func mustAssemble(t *testing.T, sdl string) *schema.Schema {
	t.Helper()
	sdlRes := parser.Parse(sourcemap.BuiltIn, sdl)
	require.False(t, sdlRes.Report.HasErrors())
	s, rep := schema.Assemble([]*ast.Document{sdlRes.Document})
	require.False(t, rep.HasErrors())
	return s
}

func TestFromResolvesFieldTypesAndTypename(t *testing.T) {
	s := mustAssemble(t, `type Query { hero: String }`)
	opRes := parser.Parse(sourcemap.BuiltIn, `{ hero __typename }`)
	require.False(t, opRes.Report.HasErrors())

	doc, rep := executable.From(s, opRes.Document)
	require.False(t, rep.HasErrors())
	require.NotNil(t, doc.AnonymousOperation)

	sels := doc.AnonymousOperation.SelectionSet.Selections
	require.Len(t, sels, 2)
	assert.Equal(t, "String", ast.TypeString(sels[0].Field.Type))
	assert.Equal(t, "String!", ast.TypeString(sels[1].Field.Type))
}

func TestFromReportsUnknownField(t *testing.T) {
	s := mustAssemble(t, `type Query { hero: String }`)
	opRes := parser.Parse(sourcemap.BuiltIn, `{ ghost }`)
	require.False(t, opRes.Report.HasErrors())

	_, rep := executable.From(s, opRes.Document)
	assert.True(t, rep.HasErrors())
}

func TestFromDedupsNamedOperations(t *testing.T) {
	s := mustAssemble(t, `type Query { a: String }`)
	opRes := parser.Parse(sourcemap.BuiltIn, `query Q { a } query Q { a }`)
	require.False(t, opRes.Report.HasErrors())

	doc, rep := executable.From(s, opRes.Document)
	assert.True(t, rep.HasErrors())
	require.Len(t, doc.NamedOperations, 1)
}

func TestFromResolvesIntrospectionRootFields(t *testing.T) {
	s := mustAssemble(t, `type Query { a: String }`)
	opRes := parser.Parse(sourcemap.BuiltIn, `{ __schema { queryType { name } } }`)
	require.False(t, opRes.Report.HasErrors())

	doc, rep := executable.From(s, opRes.Document)
	require.False(t, rep.HasErrors())
	f := doc.AnonymousOperation.SelectionSet.Selections[0].Field
	assert.Equal(t, "__Schema!", ast.TypeString(f.Type))
}
