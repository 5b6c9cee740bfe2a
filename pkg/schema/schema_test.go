package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/parser"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

func parseDoc(t *testing.T, src string) *ast.Document {
	t.Helper()
	res := parser.Parse(sourcemap.New().AddFile("schema.graphql", src), src)
	require.False(t, res.Report.HasErrors(), "%v", res.Report.Diagnostics())
	return res.Document
}

func TestAssembleInjectsBuiltInsAndIntrospectionFields(t *testing.T) {
	doc := parseDoc(t, `type Query { hello: String }`)
	s, rep := schema.Assemble([]*ast.Document{doc})
	require.False(t, rep.HasErrors())

	assert.Contains(t, s.Types, ast.Name("String"))
	assert.Contains(t, s.Types, ast.Name("__Schema"))

	q := s.Types[s.QueryType]
	require.NotNil(t, q)
	var hasSchemaField, hasTypeField bool
	for _, f := range q.Fields {
		if f.Name == "__schema" {
			hasSchemaField = true
		}
		if f.Name == "__type" {
			hasTypeField = true
		}
	}
	assert.True(t, hasSchemaField)
	assert.True(t, hasTypeField)
}

func TestAssembleMergesExtensions(t *testing.T) {
	base := parseDoc(t, `type Query { a: String }`)
	ext := parseDoc(t, `extend type Query { b: Int }`)
	s, rep := schema.Assemble([]*ast.Document{base, ext})
	require.False(t, rep.HasErrors())

	q := s.Types["Query"]
	require.NotNil(t, q)
	assert.Len(t, q.Fields, 4) // a, b, __schema, __type
}

func TestAssembleReportsOrphanExtension(t *testing.T) {
	ext := parseDoc(t, `extend type Ghost { a: String }`)
	_, rep := schema.Assemble([]*ast.Document{ext})
	assert.True(t, rep.HasErrors())
}

func TestAssembleReportsDuplicateDefinition(t *testing.T) {
	a := parseDoc(t, `type Dup { a: String }`)
	b := parseDoc(t, `type Dup { b: String }`)
	_, rep := schema.Assemble([]*ast.Document{a, b})
	assert.True(t, rep.HasErrors())
}

func TestAssembleAdoptOrphanExtensionSynthesizesBase(t *testing.T) {
	query := parseDoc(t, `type Query { a: String }`)
	ext := parseDoc(t, `extend type Ghost { a: String }`)
	s, rep := schema.Assemble([]*ast.Document{query, ext}, schema.WithDebug(schema.Debug{AdoptOrphanExtensions: true}))
	require.False(t, rep.HasErrors())

	ghost, ok := s.Types["Ghost"]
	require.True(t, ok)
	assert.Equal(t, schema.KindObject, ghost.Kind)
	require.Len(t, ghost.Fields, 1)
	assert.Equal(t, ast.Name("a"), ghost.Fields[0].Name)
}

func TestAssembleIgnoreBuiltinRedefinitionsReplacesBuiltin(t *testing.T) {
	doc := parseDoc(t, `
		scalar String
		type Query { a: String }
	`)
	s, rep := schema.Assemble([]*ast.Document{doc}, schema.WithDebug(schema.Debug{IgnoreBuiltinRedefinitions: true}))
	require.False(t, rep.HasErrors())

	str, ok := s.Types["String"]
	require.True(t, ok)
	assert.Equal(t, schema.KindScalar, str.Kind)
	assert.NotEqual(t, sourcemap.BuiltIn, str.Origins[0].FileId)
}

func TestAssembleResolvesExplicitRootOperations(t *testing.T) {
	doc := parseDoc(t, `
		schema { query: Q, mutation: M }
		type Q { a: String }
		type M { b: String }
	`)
	s, rep := schema.Assemble([]*ast.Document{doc})
	require.False(t, rep.HasErrors())
	assert.Equal(t, ast.Name("Q"), s.QueryType)
	require.NotNil(t, s.MutationType)
	assert.Equal(t, ast.Name("M"), *s.MutationType)
}

func TestImplementersIncludesTransitiveAndUnionMembers(t *testing.T) {
	doc := parseDoc(t, `
		type Query { a: String }
		interface Node { id: ID! }
		interface Named implements Node { id: ID!, name: String! }
		type Person implements Named & Node { id: ID!, name: String! }
		type Robot implements Node { id: ID! }
		union Entity = Person | Robot
	`)
	s, rep := schema.Assemble([]*ast.Document{doc})
	require.False(t, rep.HasErrors())

	nodeImpls := s.Implementers("Node")
	assert.ElementsMatch(t, []ast.Name{"Person", "Robot"}, nodeImpls)

	entityMembers := s.Implementers("Entity")
	assert.ElementsMatch(t, []ast.Name{"Person", "Robot"}, entityMembers)
}
