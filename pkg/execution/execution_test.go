package execution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/execution"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/parser"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

// TestMain guards against a goroutine leaking out of executeSelectionSet's
// errgroup-based concurrent field execution (ModeNormal fans sibling fields
// out onto the errgroup's pool; a context that's never drained would leak
// one per test).
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

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

// heroObject is a tiny in-memory ObjectValue implementation standing in for
// an application resolver, used across this file's fixtures.
type heroObject struct {
	typeName ast.Name
	fields   map[ast.Name]execution.ResolvedValue
}

func (h heroObject) TypeName() ast.Name { return h.typeName }

func (h heroObject) ResolveField(name ast.Name, _ map[ast.Name]interface{}) (execution.ResolvedValue, *execution.ResolveError) {
	v, ok := h.fields[name]
	if !ok {
		return execution.ResolvedValue{}, &execution.ResolveError{Message: "no such field: " + string(name)}
	}
	return v, nil
}

type rootObject struct {
	typeName ast.Name
	resolve  func(name ast.Name, args map[ast.Name]interface{}) (execution.ResolvedValue, *execution.ResolveError)
}

func (r rootObject) TypeName() ast.Name { return r.typeName }

func (r rootObject) ResolveField(name ast.Name, args map[ast.Name]interface{}) (execution.ResolvedValue, *execution.ResolveError) {
	return r.resolve(name, args)
}

func TestExecuteResolvesScalarsListsAndNestedObjects(t *testing.T) {
	s, doc := assembleFixture(t, `
		type Query { hero: Hero }
		type Hero { name: String friends: [String] }
	`, `{ hero { name friends } }`)

	root := rootObject{typeName: s.QueryType, resolve: func(name ast.Name, _ map[ast.Name]interface{}) (execution.ResolvedValue, *execution.ResolveError) {
		if name == "hero" {
			return execution.Object(heroObject{
				typeName: "Hero",
				fields: map[ast.Name]execution.ResolvedValue{
					"name": execution.Leaf("Luke"),
					"friends": execution.List([]execution.ResolvedValueOrError{
						{Value: execution.Leaf("Han")},
						{Value: execution.Leaf("Leia")},
					}),
				},
			}), nil
		}
		return execution.ResolvedValue{}, &execution.ResolveError{Message: "unexpected field"}
	}}

	op := doc.AnonymousOperation
	ctx := execution.NewContext(s, doc, nil, nil)
	resp := execution.Execute(ctx, op, root)

	require.Empty(t, resp.Errors)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	hero, ok := data["hero"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Luke", hero["name"])
	assert.Equal(t, []interface{}{"Han", "Leia"}, hero["friends"])
}

func TestExecuteAbsorbsNonNullListItemErrorAtNearestNullableAncestor(t *testing.T) {
	s, doc := assembleFixture(t, `
		type Query { names: [String!] }
	`, `{ names }`)

	root := rootObject{typeName: s.QueryType, resolve: func(name ast.Name, _ map[ast.Name]interface{}) (execution.ResolvedValue, *execution.ResolveError) {
		return execution.List([]execution.ResolvedValueOrError{
			{Value: execution.Leaf("a")},
			{Err: &execution.ResolveError{Message: "boom"}},
			{Value: execution.Leaf("c")},
		}), nil
	}}

	op := doc.AnonymousOperation
	ctx := execution.NewContext(s, doc, nil, nil)
	resp := execution.Execute(ctx, op, root)

	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "boom")

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	// names: [String!] is itself nullable, so the whole list is nulled out
	// rather than the operation's data as a whole.
	assert.Nil(t, data["names"])
}

func TestExecuteSkipAndIncludeDirectivesFilterSelections(t *testing.T) {
	s, doc := assembleFixture(t, `
		type Query { a: String b: String }
	`, `query Q($skipA: Boolean!) { a @skip(if: $skipA) b @include(if: false) }`)

	root := rootObject{typeName: s.QueryType, resolve: func(name ast.Name, _ map[ast.Name]interface{}) (execution.ResolvedValue, *execution.ResolveError) {
		return execution.Leaf(string(name)), nil
	}}

	op := doc.NamedOperations["Q"]
	ctx := execution.NewContext(s, doc, map[ast.Name]interface{}{"skipA": true}, nil)
	resp := execution.Execute(ctx, op, root)

	require.Empty(t, resp.Errors)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	_, hasA := data["a"]
	_, hasB := data["b"]
	assert.False(t, hasA)
	assert.False(t, hasB)
}

func TestExecuteFragmentSpreadAndInlineFragmentTypeConditions(t *testing.T) {
	s, doc := assembleFixture(t, `
		type Query { hero: Character }
		interface Character { name: String }
		type Human implements Character { name: String homePlanet: String }
		type Droid implements Character { name: String primaryFunction: String }
	`, `
		{
			hero {
				name
				...HumanFields
				... on Droid { primaryFunction }
			}
		}
		fragment HumanFields on Human { homePlanet }
	`)

	human := heroObject{
		typeName: "Human",
		fields: map[ast.Name]execution.ResolvedValue{
			"name":       execution.Leaf("Luke"),
			"homePlanet": execution.Leaf("Tatooine"),
		},
	}
	root := rootObject{typeName: s.QueryType, resolve: func(name ast.Name, _ map[ast.Name]interface{}) (execution.ResolvedValue, *execution.ResolveError) {
		return execution.Object(human), nil
	}}

	op := doc.AnonymousOperation
	ctx := execution.NewContext(s, doc, nil, nil)
	resp := execution.Execute(ctx, op, root)

	require.Empty(t, resp.Errors)
	data := resp.Data.(map[string]interface{})
	hero := data["hero"].(map[string]interface{})
	assert.Equal(t, "Luke", hero["name"])
	assert.Equal(t, "Tatooine", hero["homePlanet"])
	_, hasPrimaryFunction := hero["primaryFunction"]
	assert.False(t, hasPrimaryFunction)
}

func TestExecuteTypenameMetaField(t *testing.T) {
	s, doc := assembleFixture(t, `type Query { hero: Hero } type Hero { name: String }`,
		`{ hero { __typename name } }`)

	root := rootObject{typeName: s.QueryType, resolve: func(name ast.Name, _ map[ast.Name]interface{}) (execution.ResolvedValue, *execution.ResolveError) {
		return execution.Object(heroObject{typeName: "Hero", fields: map[ast.Name]execution.ResolvedValue{
			"name": execution.Leaf("Leia"),
		}}), nil
	}}

	op := doc.AnonymousOperation
	ctx := execution.NewContext(s, doc, nil, nil)
	resp := execution.Execute(ctx, op, root)

	require.Empty(t, resp.Errors)
	data := resp.Data.(map[string]interface{})
	hero := data["hero"].(map[string]interface{})
	assert.Equal(t, "Hero", hero["__typename"])
	assert.Equal(t, "Leia", hero["name"])
}

func TestExecuteMutationTopLevelFieldsRunSequentially(t *testing.T) {
	s, doc := assembleFixture(t, `
		type Query { a: String }
		type Mutation { first: Int second: Int }
	`, `mutation M { first second }`)

	var order []string
	root := rootObject{typeName: *s.MutationType, resolve: func(name ast.Name, _ map[ast.Name]interface{}) (execution.ResolvedValue, *execution.ResolveError) {
		order = append(order, string(name))
		return execution.Leaf(int32(len(order))), nil
	}}

	op := doc.NamedOperations["M"]
	ctx := execution.NewContext(s, doc, nil, nil)
	resp := execution.Execute(ctx, op, root)

	require.Empty(t, resp.Errors)
	assert.Equal(t, []string{"first", "second"}, order)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, int32(1), data["first"])
	assert.Equal(t, int32(2), data["second"])
}

func TestExecuteIntrospectionSchemaAndTypeFields(t *testing.T) {
	s, doc := assembleFixture(t, `
		type Query { hero: Hero }
		type Hero { name: String }
	`, `
		{
			__schema { queryType { name } types { name } }
			__type(name: "Hero") { name kind fields { name } }
		}
	`)

	root := rootObject{typeName: s.QueryType, resolve: func(name ast.Name, _ map[ast.Name]interface{}) (execution.ResolvedValue, *execution.ResolveError) {
		return execution.ResolvedValue{}, &execution.ResolveError{Message: "application resolver should not be reached for introspection fields"}
	}}

	op := doc.AnonymousOperation
	ctx := execution.NewContext(s, doc, nil, nil)
	resp := execution.Execute(ctx, op, root)

	require.Empty(t, resp.Errors)
	data := resp.Data.(map[string]interface{})

	schemaData := data["__schema"].(map[string]interface{})
	queryType := schemaData["queryType"].(map[string]interface{})
	assert.Equal(t, "Query", queryType["name"])

	typeData := data["__type"].(map[string]interface{})
	assert.Equal(t, "Hero", typeData["name"])
	assert.Equal(t, "OBJECT", typeData["kind"])
	fields := typeData["fields"].([]interface{})
	require.Len(t, fields, 1)
	assert.Equal(t, "name", fields[0].(map[string]interface{})["name"])
}

func TestResponseMarshalJSONIncludesDataAndErrors(t *testing.T) {
	s, doc := assembleFixture(t, `type Query { a: String! }`, `{ a }`)

	root := rootObject{typeName: s.QueryType, resolve: func(name ast.Name, _ map[ast.Name]interface{}) (execution.ResolvedValue, *execution.ResolveError) {
		return execution.ResolvedValue{}, &execution.ResolveError{Message: "backend unavailable"}
	}}

	op := doc.AnonymousOperation
	ctx := execution.NewContext(s, doc, nil, nil)
	resp := execution.Execute(ctx, op, root)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, execution.DataNull, resp.DataState)
	body, err := resp.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"message":"resolver error: backend unavailable"`)
	assert.Contains(t, string(body), `"path":["a"]`)
	assert.Contains(t, string(body), `"data":null`)
}
