package serialize_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/parser"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/serialize"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

func assembleSchema(t *testing.T, sdl string) *schema.Schema {
	t.Helper()
	res := parser.Parse(sourcemap.New().AddFile("schema.graphql", sdl), sdl)
	require.False(t, res.Report.HasErrors())
	s, rep := schema.Assemble([]*ast.Document{res.Document})
	require.False(t, rep.HasErrors())
	return s
}

func TestPrintSchemaOmitsImplicitSchemaDefinition(t *testing.T) {
	s := assembleSchema(t, `type Query { hello: String }`)
	out := serialize.PrintSchema(s)
	assert.NotContains(t, out, "schema {")
	assert.Contains(t, out, "type Query {")
	assert.Contains(t, out, "hello: String")
}

func TestPrintSchemaOmitsBuiltinScalarsAndDirectives(t *testing.T) {
	s := assembleSchema(t, `type Query { hello: String }`)
	out := serialize.PrintSchema(s)
	assert.NotContains(t, out, "scalar Int")
	assert.NotContains(t, out, "directive @skip")
	assert.NotContains(t, out, "__Schema")
}

func TestPrintSchemaEmitsSchemaDefinitionWhenRootsAreCustom(t *testing.T) {
	s := assembleSchema(t, `
		schema { query: RootQuery }
		type RootQuery { hello: String }
	`)
	out := serialize.PrintSchema(s)
	assert.Contains(t, out, "schema {\n  query: RootQuery\n}")
}

func TestPrintSchemaRendersObjectWithArgumentsDirectivesAndDescriptions(t *testing.T) {
	s := assembleSchema(t, `
		"A hero."
		type Hero {
			"The hero's name."
			name(prefix: String = "Sir"): String! @deprecated(reason: "use fullName")
		}
		type Query { hero: Hero }
	`)
	out := serialize.PrintSchema(s)
	assert.Contains(t, out, `"A hero."`)
	assert.Contains(t, out, "type Hero {")
	assert.Contains(t, out, `name(prefix: String = "Sir"): String!`)
	assert.Contains(t, out, `@deprecated(reason: "use fullName")`)
}

func TestPrintSchemaRendersEnumUnionAndInputObject(t *testing.T) {
	s := assembleSchema(t, `
		enum Status { ACTIVE INACTIVE }
		type A { id: ID }
		type B { id: ID }
		union AB = A | B
		input Filter { status: Status = ACTIVE }
		type Query { a: A }
	`)
	out := serialize.PrintSchema(s)
	assert.Contains(t, out, "enum Status {\n  ACTIVE\n  INACTIVE\n}")
	assert.Contains(t, out, "union AB = A | B")
	assert.Contains(t, out, "input Filter {\n  status: Status = ACTIVE\n}")
}

// TestPrintSchemaMatchesGoldenFile pins the exact byte output for the
// simplest possible schema, so a future reformatting (indentation,
// trailing-blank-line handling) shows up as a diff against testdata rather
// than a silent behavior change. Run with -update to refresh the fixture.
func TestPrintSchemaMatchesGoldenFile(t *testing.T) {
	s := assembleSchema(t, `type Query { hello: String }`)
	out := serialize.PrintSchema(s)
	g := goldie.New(t)
	g.Assert(t, "simple_schema", []byte(out))
}

func TestPrintSchemaRendersCustomDirectiveDefinition(t *testing.T) {
	s := assembleSchema(t, `
		directive @cacheControl(maxAge: Int) on FIELD_DEFINITION
		type Query { hello: String @cacheControl(maxAge: 60) }
	`)
	out := serialize.PrintSchema(s)
	assert.Contains(t, out, "directive @cacheControl(maxAge: Int) on FIELD_DEFINITION")
	assert.Contains(t, out, "@cacheControl(maxAge: 60)")
}
