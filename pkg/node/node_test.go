package node_test

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/node"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

type str string

func (s str) HashInto(d *xxhash.Digest) { node.WriteString(d, string(s)) }

func TestNodeHashIsStableAcrossClones(t *testing.T) {
	n := node.New(str("hello"))
	clone := n.Clone()
	assert.Equal(t, n.Hash(), clone.Hash())
	assert.True(t, node.PtrEqual(n, clone))
}

func TestNodeEqualIgnoresLocationAndFastPaths(t *testing.T) {
	a := node.New(str("x"))
	b := node.NewSpanned(str("x"), sourcemap.SourceSpan{FileId: sourcemap.BuiltIn, ByteOffset: 3, ByteLen: 1})
	eq := func(x, y str) bool { return x == y }
	assert.True(t, node.Equal(a, b, eq))
	assert.True(t, node.Equal(a, a, eq))
}

func TestMakeMutClonesWhenShared(t *testing.T) {
	n := node.New(str("a"))
	shared := n.Clone()
	mutated := node.MakeMut(shared, func(s str) str { return s + "!" })
	require.NotEqual(t, mutated.Value(), n.Value())
	assert.Equal(t, str("a"), n.Value())
	assert.Equal(t, str("a!"), mutated.Value())
}

func TestMakeMutReusesWhenSoleOwner(t *testing.T) {
	n := node.New(str("a"))
	before := n
	mutated := node.MakeMut(n, func(s str) str { return s + "!" })
	assert.True(t, node.PtrEqual(before, mutated))
}
