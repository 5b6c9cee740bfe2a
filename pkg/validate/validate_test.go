package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/parser"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/validate"
)

func hasKind(diags []report.Diagnostic, kind report.Kind) bool {
	for _, d := range diags {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func assembleSchema(t *testing.T, sdl string) *schema.Schema {
	t.Helper()
	res := parser.Parse(sourcemap.BuiltIn, sdl)
	require.False(t, res.Report.HasErrors())
	s, rep := schema.Assemble([]*ast.Document{res.Document})
	require.False(t, rep.HasErrors())
	return s
}

func TestSchemaRejectsInterfaceSelfImplementation(t *testing.T) {
	s := assembleSchema(t, `
		type Query { a: String }
		interface Node implements Node { id: ID! }
	`)
	rep := validate.Schema(s)
	assert.True(t, rep.HasErrors())
}

func TestSchemaRejectsMissingTransitiveInterfaceImplementation(t *testing.T) {
	s := assembleSchema(t, `
		type Query { a: String }
		interface Node { id: ID! }
		interface Named implements Node { id: ID!, name: String! }
		type Bad implements Named { id: ID!, name: String! }
	`)
	rep := validate.Schema(s)
	assert.True(t, rep.HasErrors()) // missing "implements Node" on Bad
}

func TestSchemaAcceptsWellFormedInterfaces(t *testing.T) {
	s := assembleSchema(t, `
		type Query { a: String }
		interface Node { id: ID! }
		interface Named implements Node { id: ID!, name: String! }
		type Good implements Named & Node { id: ID!, name: String! }
	`)
	rep := validate.Schema(s)
	assert.False(t, rep.HasErrors())
}

func TestSchemaRejectsNonObjectUnionMember(t *testing.T) {
	s := assembleSchema(t, `
		type Query { a: String }
		scalar NotAnObject
		union U = NotAnObject
	`)
	rep := validate.Schema(s)
	assert.True(t, rep.HasErrors())
}

func TestExecutableDetectsFragmentCycle(t *testing.T) {
	s := assembleSchema(t, `type Query { a: String }`)
	opRes := parser.Parse(sourcemap.BuiltIn, `
		{ ...A }
		fragment A on Query { ...B }
		fragment B on Query { ...A }
	`)
	require.False(t, opRes.Report.HasErrors())
	doc, rep := executable.From(s, opRes.Document)
	require.False(t, rep.HasErrors())

	execRep := validate.Executable(s, doc)
	assert.True(t, execRep.HasErrors())
}

func TestExecutableDetectsUndeclaredVariable(t *testing.T) {
	s := assembleSchema(t, `type Query { hero(id: ID!): String }`)
	opRes := parser.Parse(sourcemap.BuiltIn, `{ hero(id: $missing) }`)
	require.False(t, opRes.Report.HasErrors())
	doc, rep := executable.From(s, opRes.Document)
	require.False(t, rep.HasErrors())

	execRep := validate.Executable(s, doc)
	assert.True(t, execRep.HasErrors())
}

func TestExecutableDetectsUnusedVariable(t *testing.T) {
	s := assembleSchema(t, `type Query { hero: String }`)
	opRes := parser.Parse(sourcemap.BuiltIn, `query Q($unused: String) { hero }`)
	require.False(t, opRes.Report.HasErrors())
	doc, rep := executable.From(s, opRes.Document)
	require.False(t, rep.HasErrors())

	execRep := validate.Executable(s, doc)
	assert.True(t, execRep.HasErrors())
}

// TestSchemaRejectsUndefinedOutputType covers spec.md §8 scenario S2: a
// field whose return type doesn't resolve in the schema reports
// UndefinedDefinition pointing at the undefined type name's own span.
func TestSchemaRejectsUndefinedOutputType(t *testing.T) {
	sdl := `type Q { x: Bogus }`
	res := parser.Parse(sourcemap.BuiltIn, sdl)
	require.False(t, res.Report.HasErrors())
	s, rep := schema.Assemble([]*ast.Document{res.Document})
	require.False(t, rep.HasErrors())

	execRep := validate.Schema(s)
	require.True(t, execRep.HasErrors())

	want := sourcemap.SourceSpan{
		FileId:     sourcemap.BuiltIn,
		ByteOffset: strings.Index(sdl, "Bogus"),
		ByteLen:    len("Bogus"),
	}
	found := false
	for _, d := range execRep.Diagnostics() {
		if d.Kind == report.KindUndefinedDefinition && d.Span == want {
			found = true
			break
		}
	}
	assert.True(t, found, "expected an UndefinedDefinition diagnostic spanning 'Bogus', got %v", execRep.Diagnostics())
}

func TestSchemaRejectsInputObjectAsFieldOutputType(t *testing.T) {
	s := assembleSchema(t, `
		type Query { a: String }
		input Filter { name: String }
		type Bad { f: Filter }
	`)
	rep := validate.Schema(s)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindOutputType))
}

func TestSchemaRejectsObjectAsArgumentInputType(t *testing.T) {
	s := assembleSchema(t, `
		type Query { a: String }
		type NotInput { id: ID }
		type Bad { f(filter: NotInput): String }
	`)
	rep := validate.Schema(s)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindInputType))
}

func TestSchemaRejectsRequiredArgumentDroppedByExtension(t *testing.T) {
	s := assembleSchema(t, `
		type Query { a: String }
		type Widget { f(id: ID!): String }
		extend type Widget { f(id: ID): String }
	`)
	rep := validate.Schema(s)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindRequiredArgument))
}

func TestSchemaRejectsDirectiveAtUnsupportedLocation(t *testing.T) {
	s := assembleSchema(t, `
		directive @onFieldOnly on FIELD_DEFINITION
		type Query @onFieldOnly { a: String }
	`)
	rep := validate.Schema(s)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindUnsupportedLocation))
}

func TestSchemaRejectsDirectiveMissingRequiredArgument(t *testing.T) {
	s := assembleSchema(t, `
		directive @tag(name: String!) on FIELD_DEFINITION
		type Query { a: String @tag }
	`)
	rep := validate.Schema(s)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindRequiredArgument))
}

func TestSchemaRejectsDirectiveUnknownArgument(t *testing.T) {
	s := assembleSchema(t, `
		directive @tag on FIELD_DEFINITION
		type Query { a: String @tag(name: "x") }
	`)
	rep := validate.Schema(s)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindUnknownArgument))
}

func TestSchemaDetectsDirectiveDefinitionSelfReferenceCycle(t *testing.T) {
	s := assembleSchema(t, `
		type Query { a: String }
		directive @cyclic(arg: String @cyclic) on ARGUMENT_DEFINITION
	`)
	rep := validate.Schema(s)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindRecursiveDirectiveDefinition))
}

func assembleExecutable(t *testing.T, s *schema.Schema, query string) (*executable.Document, *report.Report) {
	t.Helper()
	opRes := parser.Parse(sourcemap.BuiltIn, query)
	require.False(t, opRes.Report.HasErrors())
	doc, rep := executable.From(s, opRes.Document)
	require.False(t, rep.HasErrors())
	return doc, validate.Executable(s, doc)
}

func TestExecutableRejectsLeafFieldWithSubSelection(t *testing.T) {
	s := assembleSchema(t, `type Query { name: String }`)
	_, rep := assembleExecutable(t, s, `{ name { sub } }`)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindFieldsCannotBeMerged))
}

func TestExecutableRejectsCompositeFieldWithoutSubSelection(t *testing.T) {
	s := assembleSchema(t, `
		type Query { hero: Hero }
		type Hero { name: String }
	`)
	_, rep := assembleExecutable(t, s, `{ hero }`)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindFieldsCannotBeMerged))
}

func TestExecutableRejectsFieldsThatCannotMerge(t *testing.T) {
	s := assembleSchema(t, `type Query { a(x: Int): String }`)
	_, rep := assembleExecutable(t, s, `{ a(x: 1) a(x: 2) }`)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindFieldsCannotBeMerged))
}

func TestExecutableAcceptsIdenticalFieldsThatMerge(t *testing.T) {
	s := assembleSchema(t, `type Query { a(x: Int): String }`)
	_, rep := assembleExecutable(t, s, `{ a(x: 1) a(x: 1) }`)
	assert.False(t, rep.HasErrors())
}

func TestExecutableRejectsMissingRequiredArgument(t *testing.T) {
	s := assembleSchema(t, `type Query { hero(id: ID!): String }`)
	_, rep := assembleExecutable(t, s, `{ hero }`)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindRequiredArgument))
}

func TestExecutableRejectsUnknownFieldArgument(t *testing.T) {
	s := assembleSchema(t, `type Query { hero: String }`)
	_, rep := assembleExecutable(t, s, `{ hero(bogus: 1) }`)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindUnknownArgument))
}

func TestExecutableRejectsUncoercibleArgumentLiteral(t *testing.T) {
	s := assembleSchema(t, `type Query { hero(id: ID!): String }`)
	_, rep := assembleExecutable(t, s, `{ hero(id: true) }`)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindInvalidValue))
}

func TestExecutableRejectsSkipWithNonBooleanArgument(t *testing.T) {
	s := assembleSchema(t, `type Query { hero: String }`)
	_, rep := assembleExecutable(t, s, `{ hero @skip(if: "not a bool") }`)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindInvalidValue))
}

func TestExecutableRejectsSkipMissingIfArgument(t *testing.T) {
	s := assembleSchema(t, `type Query { hero: String }`)
	_, rep := assembleExecutable(t, s, `{ hero @skip }`)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindRequiredArgument))
}

func TestExecutableRejectsSubscriptionWithMultipleRootFields(t *testing.T) {
	s := assembleSchema(t, `
		type Query { a: String }
		type Subscription { a: String, b: String }
	`)
	_, rep := assembleExecutable(t, s, `subscription { a b }`)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindSingleRootField))
}

func TestExecutableAcceptsSubscriptionWithSingleRootField(t *testing.T) {
	s := assembleSchema(t, `
		type Query { a: String }
		type Subscription { a: String }
	`)
	_, rep := assembleExecutable(t, s, `subscription { a }`)
	assert.False(t, rep.HasErrors())
}

func TestExecutableRejectsUncoercibleVariableDefaultValue(t *testing.T) {
	s := assembleSchema(t, `type Query { hero(id: ID): String }`)
	_, rep := assembleExecutable(t, s, `query Q($id: ID = true) { hero(id: $id) }`)
	require.True(t, rep.HasErrors())
	assert.True(t, hasKind(rep.Diagnostics(), report.KindInvalidValue))
}
