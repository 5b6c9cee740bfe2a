// Package node implements the shared, hash-cached, copy-on-write node
// pointer that every IR entity in pkg/ast and pkg/schema is wrapped in.
package node

import (
	"encoding/binary"
	"hash/maphash"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

var (
	seedOnce sync.Once
	seed     uint64
)

func processSeed() uint64 {
	seedOnce.Do(func() {
		// maphash.MakeSeed is backed by the runtime's own random source;
		// reused here purely to obtain a process-random uint64 without
		// pulling in a dedicated RNG dependency for one value.
		var s maphash.Hash
		s.SetSeed(maphash.MakeSeed())
		var buf [8]byte
		_, _ = s.Write([]byte("graphql-go-tools/v2/pkg/node seed"))
		copy(buf[:], s.Sum(nil))
		seed = binary.LittleEndian.Uint64(buf[:])
	})
	return seed
}

// Hashable is implemented by IR payload types that know how to feed their
// structural contents (ignoring span) into a hasher.
type Hashable interface {
	HashInto(d *xxhash.Digest)
}

type inner[T Hashable] struct {
	value    T
	location *sourcemap.SourceSpan
	hash     atomic.Uint64 // 0 = uncomputed
	refs     atomic.Int32  // approximate sharing count, see DESIGN.md
}

// Node is a shared, hash-cached, copy-on-write pointer to a T.
//
// Structural equality (Equal) ignores the source span and hash cache.
// Hash is memoized; computing it requires T to implement Hashable so the
// cache can be filled lazily on first use.
type Node[T Hashable] struct {
	inner *inner[T]
}

// New wraps value with no location, owned by a single holder.
func New[T Hashable](value T) Node[T] {
	n := &inner[T]{value: value}
	n.refs.Store(1)
	return Node[T]{inner: n}
}

// NewSpanned wraps value at the given location.
func NewSpanned[T Hashable](value T, span sourcemap.SourceSpan) Node[T] {
	n := &inner[T]{value: value, location: &span}
	n.refs.Store(1)
	return Node[T]{inner: n}
}

// IsNil reports whether n was never initialized (zero value).
func (n Node[T]) IsNil() bool { return n.inner == nil }

// Value returns the wrapped value. Panics on a zero-value Node, matching
// the teacher's convention of panicking stubs for unsupported access
// rather than silently returning a zero value.
func (n Node[T]) Value() T {
	if n.inner == nil {
		// errors.Errorf rather than fmt.Errorf/Sprintf: the panic carries a
		// stack trace to the invariant violation site, per the teacher's
		// github.com/pkg/errors convention.
		panic(errors.Errorf("node: Value called on nil Node[%T]", *new(T)))
	}
	return n.inner.value
}

// Location returns the node's source span, if any.
func (n Node[T]) Location() (sourcemap.SourceSpan, bool) {
	if n.inner == nil || n.inner.location == nil {
		return sourcemap.SourceSpan{}, false
	}
	return *n.inner.location, true
}

// Clone returns a new handle to the same inner value, incrementing the
// approximate sharing counter. Use this whenever a Node is about to be
// held by more than one owner (inserted into a second map, appended to a
// second slice) so MakeMut later knows to copy rather than mutate in place.
func (n Node[T]) Clone() Node[T] {
	if n.inner == nil {
		return n
	}
	n.inner.refs.Add(1)
	return Node[T]{inner: n.inner}
}

// PtrEqual reports whether a and b share the same underlying allocation,
// the fast-path identity check structural equality can short-circuit on.
func PtrEqual[T Hashable](a, b Node[T]) bool {
	return a.inner == b.inner
}

// Equal reports structural equality of the wrapped values, ignoring span
// and hash cache, with a pointer-identity fast path.
func Equal[T Hashable](a, b Node[T], eq func(x, y T) bool) bool {
	if PtrEqual(a, b) {
		return true
	}
	if a.inner == nil || b.inner == nil {
		return a.inner == b.inner
	}
	return eq(a.inner.value, b.inner.value)
}

// Hash returns the cached structural hash of the wrapped value, computing
// and caching it on first use. A computed value of 0 is remapped to 1 so
// that 0 unambiguously denotes "not yet computed".
func (n Node[T]) Hash() uint64 {
	if n.inner == nil {
		return 0
	}
	if h := n.inner.hash.Load(); h != 0 {
		return h
	}
	d := xxhash.New()
	_, _ = d.Write(binarySeed())
	n.inner.value.HashInto(d)
	h := d.Sum64()
	if h == 0 {
		h = 1
	}
	n.inner.hash.Store(h)
	return h
}

func binarySeed() []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], processSeed())
	return buf[:]
}

// MakeMut returns a pointer to a value this caller can mutate exclusively.
// If the node is shared (refs > 1), the value is cloned first via clone,
// the original node is left untouched, and the returned Node is a fresh,
// single-owner node. In all cases the hash cache of the returned node is
// cleared, since the caller is expected to mutate the value next.
func MakeMut[T Hashable](n Node[T], clone func(T) T) Node[T] {
	if n.inner == nil {
		return n
	}
	if n.inner.refs.Load() > 1 {
		n.inner.refs.Add(-1)
		fresh := &inner[T]{value: clone(n.inner.value)}
		fresh.refs.Store(1)
		return Node[T]{inner: fresh}
	}
	n.inner.hash.Store(0)
	return n
}

// WriteString is a convenience helper for Hashable implementations.
func WriteString(d *xxhash.Digest, s string) {
	_, _ = d.Write([]byte{0}) // length-prefix-free separator to avoid "ab"+"c" == "a"+"bc" collisions
	_, _ = d.WriteString(s)
}
