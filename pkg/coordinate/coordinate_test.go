package coordinate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/coordinate"
)

func TestTypeCoordinateRoundTrips(t *testing.T) {
	c, err := coordinate.ParseTypeCoordinate("Type")
	require.NoError(t, err)
	assert.Equal(t, ast.Name("Type"), c.Name)
	assert.Equal(t, "Type", c.String())
}

func TestTypeAttributeCoordinateRoundTrips(t *testing.T) {
	c, err := coordinate.ParseTypeAttributeCoordinate("Type.field")
	require.NoError(t, err)
	assert.Equal(t, "Type.field", c.String())
	assert.Equal(t, coordinate.Type{Name: "Type"}, c.TypeCoordinate())
}

func TestFieldArgumentCoordinateRoundTrips(t *testing.T) {
	c, err := coordinate.ParseFieldArgumentCoordinate("Type.field(argument:)")
	require.NoError(t, err)
	assert.Equal(t, "Type.field(argument:)", c.String())
	assert.Equal(t, "Type.field", c.FieldCoordinate().String())
}

func TestDirectiveCoordinateRoundTrips(t *testing.T) {
	c, err := coordinate.ParseDirectiveCoordinate("@directive")
	require.NoError(t, err)
	assert.Equal(t, "@directive", c.String())
}

func TestDirectiveArgumentCoordinateRoundTrips(t *testing.T) {
	c, err := coordinate.ParseDirectiveArgumentCoordinate("@directive(argument:)")
	require.NoError(t, err)
	assert.Equal(t, "@directive(argument:)", c.String())
	assert.Equal(t, "@directive", c.DirectiveCoordinate().String())
}

func TestParseDispatchesOnShape(t *testing.T) {
	cases := map[string]coordinate.Kind{
		"Type":                   coordinate.KindType,
		"Type.field":             coordinate.KindTypeAttribute,
		"Type.field(argument:)":  coordinate.KindFieldArgument,
		"@directive":             coordinate.KindDirective,
		"@directive(argument:)":  coordinate.KindDirectiveArgument,
	}
	for input, wantKind := range cases {
		c, err := coordinate.Parse(input)
		require.NoError(t, err, input)
		assert.Equal(t, wantKind, c.Kind, input)
		assert.Equal(t, input, c.String(), input)
	}
}

func TestParseRejectsInvalidNames(t *testing.T) {
	_, err := coordinate.ParseTypeCoordinate("123Bad")
	assert.ErrorIs(t, err, coordinate.ErrInvalidName)

	_, err = coordinate.ParseFieldArgumentCoordinate("Type.field(argument")
	assert.ErrorIs(t, err, coordinate.ErrInvalidFormat)
}
