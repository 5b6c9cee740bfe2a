package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/lexer"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

func kinds(tokens []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Kind)
	}
	return out
}

func TestLexerRoundTrip(t *testing.T) {
	cases := []string{
		"type Q { a: Int, b: [String!] }",
		`"""
		a block
		  string
		"""`,
		`{ foo(a: "x\ty") }`,
		"query Q($x: Int = -3.14e10) { f(x: $x) @skip(if: true) }",
	}
	for _, src := range cases {
		lx := lexer.New(sourcemap.BuiltIn, src)
		tokens := lx.All()
		var rebuilt string
		for _, tok := range tokens {
			rebuilt += tok.Literal
		}
		assert.Equal(t, src, rebuilt, "token literals must concatenate back to the input")
	}
}

func TestLexerNumberKinds(t *testing.T) {
	tests := map[string]lexer.Kind{
		"0":       lexer.Int,
		"-0":      lexer.Int,
		"123":     lexer.Int,
		"1.5":     lexer.Float,
		"1e10":    lexer.Float,
		"1.5e-10": lexer.Float,
		"1E+3":    lexer.Float,
	}
	for src, want := range tests {
		lx := lexer.New(sourcemap.BuiltIn, src)
		tok := lx.Next()
		assert.Equalf(t, want, tok.Kind, "lexing %q", src)
		assert.Equal(t, src, tok.Literal)
	}
}

func TestLexerNameKeepsDigits(t *testing.T) {
	lx := lexer.New(sourcemap.BuiltIn, "field2Name_3")
	tok := lx.Next()
	require.Equal(t, lexer.Name, tok.Kind)
	assert.Equal(t, "field2Name_3", tok.Literal)
}

func TestLexerSpread(t *testing.T) {
	lx := lexer.New(sourcemap.BuiltIn, "...on")
	spread := lx.Next()
	require.Equal(t, lexer.Spread, spread.Kind)
	name := lx.Next()
	assert.Equal(t, lexer.Name, name.Kind)
	assert.Equal(t, "on", name.Literal)
}

func TestLexerInvalidCharacterRecovers(t *testing.T) {
	lx := lexer.New(sourcemap.BuiltIn, "a ? b")
	a := lx.Next()
	require.Equal(t, lexer.Name, a.Kind)
	lx.Next() // whitespace
	bad := lx.Next()
	require.Equal(t, lexer.Invalid, bad.Kind)
	assert.Equal(t, "?", bad.Literal)
	lx.Next() // whitespace
	b := lx.Next()
	assert.Equal(t, lexer.Name, b.Kind)
	assert.Equal(t, "b", b.Literal)
}

func TestBlockStringValueDedentsAndTrims(t *testing.T) {
	raw := "\"\"\"\n    Hello,\n      World!\n\n    Yours,\n      GraphQL.\n  \"\"\""
	got := lexer.BlockStringValue(raw)
	want := "Hello,\n  World!\n\nYours,\n  GraphQL."
	assert.Equal(t, want, got)
}
