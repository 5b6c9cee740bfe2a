package schema

import (
	"sync"

	"github.com/kingledion/go-tools/set"
	"golang.org/x/sync/singleflight"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
)

// implementersCache lazily builds, and memoizes, the interface-name ->
// implementing-object-names index that introspection's possibleTypes field
// needs. Building it eagerly during Assemble would mean every caller pays
// for it even when introspection is never queried; a sync.Once-guarded
// build plus a singleflight.Group collapses concurrent first-callers (the
// execution engine may resolve several __type fields concurrently, per
// spec.md §5) into a single pass over the schema's types.
type implementersCache struct {
	once  sync.Once
	group singleflight.Group
	data  map[ast.Name]*set.OrderedSet[ast.Name]
}

// Implementers returns the object types implementing the interface named
// iface (including transitively, via interfaces that themselves implement
// iface), building the index on first use. The order of those object types
// is not defined; for a union name it returns the members in declaration
// order.
func (s *Schema) Implementers(iface ast.Name) []ast.Name {
	if s.implementers == nil {
		s.implementers = &implementersCache{}
	}
	c := s.implementers
	c.once.Do(func() {
		_, _, _ = c.group.Do("build", func() (interface{}, error) {
			c.data = buildImplementers(s)
			return nil, nil
		})
	})
	members, ok := c.data[iface]
	if !ok {
		return nil
	}
	return members.Values()
}

func buildImplementers(s *Schema) map[ast.Name]*set.OrderedSet[ast.Name] {
	out := map[ast.Name]*set.OrderedSet[ast.Name]{}
	ensure := func(name ast.Name) *set.OrderedSet[ast.Name] {
		if s, ok := out[name]; ok {
			return s
		}
		os := set.NewOrderedSet[ast.Name]()
		out[name] = os
		return os
	}

	implementsTransitively := func(t *ExtendedType, iface ast.Name) bool {
		seen := map[ast.Name]bool{}
		var visit func(names []ast.Name) bool
		visit = func(names []ast.Name) bool {
			for _, n := range names {
				if n == iface {
					return true
				}
				if seen[n] {
					continue
				}
				seen[n] = true
				if parent, ok := s.Types[n]; ok && parent.Kind == KindInterface {
					if visit(parent.Implements) {
						return true
					}
				}
			}
			return false
		}
		return visit(t.Implements)
	}

	for _, iface := range s.Types {
		if iface.Kind != KindInterface {
			continue
		}
		bucket := ensure(iface.Name)
		for _, t := range s.Types {
			if t.Kind != KindObject {
				continue
			}
			if implementsTransitively(t, iface.Name) {
				bucket.Add(t.Name)
			}
		}
	}
	for _, u := range s.Types {
		if u.Kind != KindUnion {
			continue
		}
		bucket := ensure(u.Name)
		for _, m := range u.Members {
			bucket.Add(m)
		}
	}
	return out
}
