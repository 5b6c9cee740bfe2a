package ast

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/node"
)

// TypeKind discriminates the four variants of Type.
type TypeKind uint8

const (
	TypeKindNamed TypeKind = iota
	TypeKindNonNullNamed
	TypeKindList
	TypeKindNonNullList
)

// typeData is the plain payload wrapped by a Type node; Type itself is a
// node.Node[typeData] alias so that repeated type references (e.g. the
// same "String" used as a hundred field types) share structure and hash
// consistently, per spec.md §3.
type typeData struct {
	Kind TypeKind
	// Name is set iff Kind is TypeKindNamed or TypeKindNonNullNamed.
	Name Name
	// Inner is set iff Kind is TypeKindList or TypeKindNonNullList.
	Inner Type
}

// Type is the recursive sum Named(name) | NonNullNamed(name) | List(Type) |
// NonNullList(Type), per spec.md §3.
type Type = node.Node[typeData]

// NamedType returns a nullable named type reference.
func NamedType(name Name) Type {
	return node.New(typeData{Kind: TypeKindNamed, Name: name})
}

// NonNullNamedType returns a non-null named type reference.
func NonNullNamedType(name Name) Type {
	return node.New(typeData{Kind: TypeKindNonNullNamed, Name: name})
}

// ListType wraps inner in a nullable list type.
func ListType(inner Type) Type {
	return node.New(typeData{Kind: TypeKindList, Inner: inner})
}

// NonNullListType wraps inner in a non-null list type.
func NonNullListType(inner Type) Type {
	return node.New(typeData{Kind: TypeKindNonNullList, Inner: inner})
}

// TypeKindOf returns the type's discriminant.
func TypeKindOf(t Type) TypeKind { return t.Value().Kind }

// IsNonNull reports whether t's outermost layer is non-null, matching the
// execution engine's try_nullify checks (spec.md §4.8).
func IsNonNull(t Type) bool {
	k := t.Value().Kind
	return k == TypeKindNonNullNamed || k == TypeKindNonNullList
}

// InnerNamedType climbs through List/NonNull wrappers to the named type at
// the core, used by field-type resolution (spec.md §4.5) and by
// CompleteValue's recursive descent (spec.md §4.8).
func InnerNamedType(t Type) Name {
	v := t.Value()
	switch v.Kind {
	case TypeKindNamed, TypeKindNonNullNamed:
		return v.Name
	default:
		return InnerNamedType(v.Inner)
	}
}

// ListElementType returns the element type of a list type and true, or the
// zero Type and false if t is not a list type at the outer layer.
func ListElementType(t Type) (Type, bool) {
	v := t.Value()
	if v.Kind == TypeKindList || v.Kind == TypeKindNonNullList {
		return v.Inner, true
	}
	return Type{}, false
}

// TypeString renders t back to GraphQL type syntax, e.g. "[String!]!".
func TypeString(t Type) string {
	v := t.Value()
	switch v.Kind {
	case TypeKindNamed:
		return string(v.Name)
	case TypeKindNonNullNamed:
		return string(v.Name) + "!"
	case TypeKindList:
		return "[" + TypeString(v.Inner) + "]"
	case TypeKindNonNullList:
		return "[" + TypeString(v.Inner) + "]!"
	default:
		return fmt.Sprintf("<invalid type kind %d>", v.Kind)
	}
}

// EqualTypes reports structural equality of two Type nodes.
func EqualTypes(a, b Type) bool {
	return node.Equal(a, b, func(x, y typeData) bool {
		if x.Kind != y.Kind {
			return false
		}
		switch x.Kind {
		case TypeKindNamed, TypeKindNonNullNamed:
			return x.Name == y.Name
		default:
			return EqualTypes(x.Inner, y.Inner)
		}
	})
}

func (v typeData) HashInto(d *xxhash.Digest) {
	_, _ = d.Write([]byte{byte(v.Kind)})
	switch v.Kind {
	case TypeKindNamed, TypeKindNonNullNamed:
		v.Name.HashInto(d)
	default:
		_ = v.Inner.Hash() // fold the (already cached) inner hash in below
		var buf [8]byte
		h := v.Inner.Hash()
		for i := range buf {
			buf[i] = byte(h >> (8 * i))
		}
		_, _ = d.Write(buf[:])
	}
}
