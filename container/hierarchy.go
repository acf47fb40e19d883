package container

import (
	"reflect"

	"github.com/plugbind-dev/plugbind-host-sdk/contract"
)

// BindHierarchy walks root's ancestor chain and aliases every contract
// it satisfies to implKey, so callers can look an implementation up by
// any of its marker supertypes.
//
// The embedded-struct chain plays the superclass role: levels are
// visited breadth-first in declared field order, root first. At every
// level the walk checks
//
//   - whether the level type itself is tagged as an extension point
//     (skipping the root, which already has its own binding),
//   - whether the level fills the descriptor role, aliasing the
//     descriptor marker type itself, and
//   - which extension point interfaces the level's method set
//     satisfies, so contracts implemented through an intermediate
//     embed are still discovered.
//
// All aliases share the qualifier carried by implKey, which was
// synthesized from the original concrete type's fully-qualified name
// when no explicit qualifier was given. The first alias for an
// (ancestor, qualifier) pair wins; later duplicates are dropped by the
// binder.
func BindHierarchy(b *Binder, implKey contract.Key, root reflect.Type, markers *contract.Markers) {
	if root == nil || markers == nil {
		return
	}
	qualifier := implKey.Qualifier

	rootLevel := deref(root)
	queue := []reflect.Type{rootLevel}
	visited := map[reflect.Type]struct{}{rootLevel: {}}

	for len(queue) > 0 {
		level := queue[0]
		queue = queue[1:]

		if level != rootLevel && markers.IsPoint(level) && level.Kind() != reflect.Interface {
			b.BindAlias(contract.NewKey(level, qualifier), implKey)
		}

		if d := markers.Descriptor(); d != nil && markers.SatisfiesDescriptor(level) {
			b.BindAlias(contract.NewKey(d, qualifier), implKey)
		}

		for _, point := range markers.Points() {
			if point.Kind() != reflect.Interface {
				continue
			}
			if point == level {
				continue
			}
			if contract.Implements(level, point) {
				b.BindAlias(contract.NewKey(point, qualifier), implKey)
			}
		}

		queue = append(queue, embeddedLevels(level, visited)...)
	}
}

// embeddedLevels returns level's unvisited anonymous struct fields in
// declared order — the next depth of the ancestor chain.
func embeddedLevels(level reflect.Type, visited map[reflect.Type]struct{}) []reflect.Type {
	if level.Kind() != reflect.Struct {
		return nil
	}
	var next []reflect.Type
	for i := 0; i < level.NumField(); i++ {
		f := level.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := deref(f.Type)
		if ft.Kind() != reflect.Struct {
			continue
		}
		if _, seen := visited[ft]; seen {
			continue
		}
		visited[ft] = struct{}{}
		next = append(next, ft)
	}
	return next
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
