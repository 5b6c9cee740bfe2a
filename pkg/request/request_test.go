package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/parser"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/request"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

func assembleFixture(t *testing.T, sdl, query string) (*schema.Schema, *executable.Document) {
	t.Helper()
	sdlRes := parser.Parse(sourcemap.BuiltIn, sdl)
	require.False(t, sdlRes.Report.HasErrors())
	s, rep := schema.Assemble([]*ast.Document{sdlRes.Document})
	require.False(t, rep.HasErrors())

	opRes := parser.Parse(sourcemap.BuiltIn, query)
	require.False(t, opRes.Report.HasErrors())
	doc, rep := executable.From(s, opRes.Document)
	require.False(t, rep.HasErrors())
	return s, doc
}

func TestCoerceVariableValuesAppliesDefaultsAndScalars(t *testing.T) {
	s, doc := assembleFixture(t, `
		type Query { hero(id: ID!, limit: Int = 10): String }
	`, `query Q($id: ID!, $limit: Int = 10) { hero(id: $id, limit: $limit) }`)

	op := doc.NamedOperations["Q"]
	values, err := request.CoerceVariableValues(s, op, `{"id":"1000"}`)
	require.Nil(t, err)
	assert.Equal(t, "1000", values["id"])
	assert.Equal(t, int32(10), values["limit"])
}

func TestCoerceVariableValuesRejectsMissingNonNull(t *testing.T) {
	s, doc := assembleFixture(t, `type Query { hero(id: ID!): String }`,
		`query Q($id: ID!) { hero(id: $id) }`)
	op := doc.NamedOperations["Q"]
	_, err := request.CoerceVariableValues(s, op, `{}`)
	require.NotNil(t, err)
	assert.False(t, err.ValidationBug)
}

func TestCoerceVariableValuesAutoBoxesSingleValueIntoList(t *testing.T) {
	s, doc := assembleFixture(t, `type Query { heroes(ids: [ID!]!): String }`,
		`query Q($ids: [ID!]!) { heroes(ids: $ids) }`)
	op := doc.NamedOperations["Q"]
	values, err := request.CoerceVariableValues(s, op, `{"ids":"1000"}`)
	require.Nil(t, err)
	assert.Equal(t, []interface{}{"1000"}, values["ids"])
}

func TestSelectOperationRequiresNameWhenAmbiguous(t *testing.T) {
	_, doc := assembleFixture(t, `type Query { a: String }`, `query A { a } query B { a }`)
	_, err := request.SelectOperation(doc, "")
	require.NotNil(t, err)

	op, err := request.SelectOperation(doc, "B")
	require.Nil(t, err)
	assert.Equal(t, ast.Name("B"), *op.Name)
}

func TestSelectOperationPicksSoleAnonymousOperation(t *testing.T) {
	_, doc := assembleFixture(t, `type Query { a: String }`, `{ a }`)
	op, err := request.SelectOperation(doc, "")
	require.Nil(t, err)
	assert.Nil(t, op.Name)
}

func TestFilterOperationDropsRejectedFieldsAndPrunesEmptyParents(t *testing.T) {
	_, doc := assembleFixture(t, `
		type Query { hero: Hero }
		type Hero { name: String internal: String }
	`, `{ hero { name internal } }`)
	op := doc.AnonymousOperation

	filtered, err := request.FilterOperation(doc, op, func(sel executable.Selection) bool {
		return sel.Field != nil && sel.Field.Name == "internal"
	})
	require.Nil(t, err)
	require.NotNil(t, filtered)
	hero := filtered.AnonymousOperation.SelectionSet.Selections[0].Field
	require.Len(t, hero.SelectionSet.Selections, 1)
	assert.Equal(t, ast.Name("name"), hero.SelectionSet.Selections[0].Field.Name)
}

func TestFilterOperationRemovesOperationEntirelyWhenEverythingDropped(t *testing.T) {
	_, doc := assembleFixture(t, `type Query { a: String }`, `{ a }`)
	op := doc.AnonymousOperation

	filtered, err := request.FilterOperation(doc, op, func(executable.Selection) bool { return true })
	require.Nil(t, err)
	assert.Nil(t, filtered)
}

func TestFilterOperationCarriesOnlyReferencedFragments(t *testing.T) {
	_, doc := assembleFixture(t, `
		type Query { hero: Hero }
		type Hero { name: String title: String }
	`, `
		{ hero { ...Used } }
		fragment Used on Hero { name }
		fragment Unused on Hero { title }
	`)
	op := doc.AnonymousOperation

	filtered, err := request.FilterOperation(doc, op, func(executable.Selection) bool { return false })
	require.Nil(t, err)
	require.NotNil(t, filtered)
	assert.Len(t, filtered.Fragments, 1)
	_, ok := filtered.Fragments["Used"]
	assert.True(t, ok)
}

func TestFilterOperationTrimsUnusedVariables(t *testing.T) {
	_, doc := assembleFixture(t, `type Query { hero(id: ID!): String, other: String }`,
		`query Q($id: ID!) { hero(id: $id) other }`)
	op := doc.NamedOperations["Q"]

	filtered, err := request.FilterOperation(doc, op, func(sel executable.Selection) bool {
		return sel.Field != nil && sel.Field.Name == "hero"
	})
	require.Nil(t, err)
	require.NotNil(t, filtered)
	newOp := filtered.NamedOperations["Q"]
	assert.Empty(t, newOp.Variables)
}
