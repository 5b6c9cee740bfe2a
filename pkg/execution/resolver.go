// Package execution implements the October 2021 specification's execution
// algorithm (ExecuteSelectionSet/CollectFields/ExecuteField/CompleteValue)
// over a validated schema.Schema and executable.Document, grounded
// directly on original_source/crates/apollo-compiler/src/execution/
// engine.rs and result_coercion.rs. Field resolution in ModeNormal
// fans out over golang.org/x/sync/errgroup instead of the original's
// commented-out "use Rayon's par_iter here" placeholder.
package execution

import (
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
)

// ResolveError is a field-level failure returned by a Resolver, recorded
// in the response's "errors" array (as opposed to a RequestError, which
// prevents execution from starting at all).
type ResolveError struct {
	Message string
}

func (e *ResolveError) Error() string { return e.Message }

// ResolvedValueKind discriminates the three shapes a field resolution can
// take, per spec.md §4.8.
type ResolvedValueKind uint8

const (
	ResolvedLeaf ResolvedValueKind = iota
	ResolvedList
	ResolvedObject
)

// ResolvedValue is what a Resolver hands back for one field: a JSON-ish
// leaf value, a list of further ResolvedValues (already materialized as a
// slice; each element carries its own value or error and is coerced one at
// a time), or an opaque ObjectValue to recurse into.
type ResolvedValue struct {
	Kind   ResolvedValueKind
	Leaf   interface{}
	List   []ResolvedValueOrError
	Object ObjectValue
}

// ResolvedValueOrError is one element of a resolved list; lists are
// resolved item-by-item so a single bad element doesn't block the others
// that already succeeded, per result_coercion.rs's Iterator<Item =
// Result<ResolvedValue, ResolveError>> list shape.
type ResolvedValueOrError struct {
	Value ResolvedValue
	Err   *ResolveError
}

func Leaf(v interface{}) ResolvedValue        { return ResolvedValue{Kind: ResolvedLeaf, Leaf: v} }
func List(items []ResolvedValueOrError) ResolvedValue {
	return ResolvedValue{Kind: ResolvedList, List: items}
}
func Object(v ObjectValue) ResolvedValue { return ResolvedValue{Kind: ResolvedObject, Object: v} }

// ObjectValue is the per-application hook into a live domain object: given
// a field name and its coerced arguments, resolve that field's value.
// Implemented by application code for ordinary types, and internally by
// this package's introspection resolver for the meta-schema types.
type ObjectValue interface {
	TypeName() ast.Name
	ResolveField(fieldName ast.Name, arguments map[ast.Name]interface{}) (ResolvedValue, *ResolveError)
}
