// Package ast defines the high-level, typed intermediate representation
// (IR) that pkg/parser produces alongside its pkg/cst syntax tree: Document,
// Definition, Type, Value, and Name, per spec.md §3 and §4.3. Field shapes
// are grounded directly on
// original_source/crates/apollo-compiler/src/ast/mod.rs, translated from
// Rust enums to Go interfaces/tagged structs.
package ast

import (
	"fmt"
	"regexp"

	"github.com/cespare/xxhash/v2"
)

var nameRe = regexp.MustCompile(`^[_A-Za-z][_A-Za-z0-9]*$`)

// Name is a validated GraphQL identifier matching [_A-Za-z][_A-Za-z0-9]*.
type Name string

// NewName validates s and returns it as a Name, or an error if it doesn't
// match the grammar.
func NewName(s string) (Name, error) {
	if !nameRe.MatchString(s) {
		return "", fmt.Errorf("ast: %q is not a valid Name ([_A-Za-z][_A-Za-z0-9]*)", s)
	}
	return Name(s), nil
}

// String implements fmt.Stringer.
func (n Name) String() string { return string(n) }

// HashInto implements node.Hashable.
func (n Name) HashInto(d *xxhash.Digest) {
	_, _ = d.WriteString("Name:")
	_, _ = d.WriteString(string(n))
}
