package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
)

func TestNameValidation(t *testing.T) {
	_, err := ast.NewName("2bad")
	assert.Error(t, err)
	n, err := ast.NewName("_good2")
	require.NoError(t, err)
	assert.Equal(t, ast.Name("_good2"), n)
}

func TestTypeStringRendersWrappers(t *testing.T) {
	ty := ast.NonNullListType(ast.NonNullNamedType("String"))
	assert.Equal(t, "[String!]!", ast.TypeString(ty))
	assert.True(t, ast.IsNonNull(ty))
	assert.Equal(t, ast.Name("String"), ast.InnerNamedType(ty))
}

func TestTypeEqualityIgnoresIdentity(t *testing.T) {
	a := ast.NamedType("Int")
	b := ast.NamedType("Int")
	assert.True(t, ast.EqualTypes(a, b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestValueIntPreservesLexeme(t *testing.T) {
	v := ast.IntValue("00000000000000000001") // not valid GraphQL but exercises lexeme preservation
	n, ok := ast.AsInt(ast.IntValue("42"))
	require.True(t, ok)
	assert.EqualValues(t, 42, n)
	assert.Equal(t, "00000000000000000001", v.Value().IntLexeme)
}

func TestValueListAndObjectHashing(t *testing.T) {
	list1 := ast.ListValue([]ast.Value{ast.IntValue("1"), ast.IntValue("2")})
	list2 := ast.ListValue([]ast.Value{ast.IntValue("1"), ast.IntValue("2")})
	assert.Equal(t, list1.Hash(), list2.Hash())

	obj := ast.ObjectValue([]ast.ObjectField{
		{Name: "x", Value: ast.IntValue("1")},
		{Name: "y", Value: ast.BooleanValue(true)},
	})
	fields, ok := ast.AsObject(obj)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, ast.Name("y"), fields[1].Name)
}

func TestFieldSelectionResponseKey(t *testing.T) {
	alias := ast.Name("aliased")
	f := ast.FieldSelection{Name: "realName", Alias: &alias}
	assert.Equal(t, alias, f.ResponseKey())

	f2 := ast.FieldSelection{Name: "realName"}
	assert.Equal(t, ast.Name("realName"), f2.ResponseKey())
}
