package container

import (
	"fmt"
	"reflect"

	"github.com/plugbind-dev/plugbind-host-sdk/contract"
)

// Binder collects bindings while modules configure a container under
// construction. It is used by one goroutine at a time and discarded
// once the container is built.
type Binder struct {
	bindings []*binding
	index    map[contract.Key]*binding
	requires []contract.Key
}

// NewBinder creates an empty binder.
func NewBinder() *Binder {
	return &Binder{index: make(map[contract.Key]*binding)}
}

// BindDirect registers a direct singleton binding: key resolves to a
// freshly constructed impl, cached after first use. Rebinding an
// already-bound key is an error.
func (b *Binder) BindDirect(key contract.Key, impl reflect.Type, factory func() (any, error)) error {
	return b.add(&binding{
		Binding: &Binding{Key: key, Kind: Direct, Impl: impl},
		factory: factory,
	})
}

// BindProvider registers a deferred factory binding: the factory runs
// once on first resolution and the result is cached.
func (b *Binder) BindProvider(key contract.Key, declared reflect.Type, factory func() (any, error)) error {
	return b.add(&binding{
		Binding: &Binding{Key: key, Kind: Provider, Impl: declared},
		factory: factory,
	})
}

// BindInstance registers an already-constructed value under key. It is
// a provider binding whose cell is pre-resolved.
func (b *Binder) BindInstance(key contract.Key, value any) error {
	bd := &binding{
		Binding: &Binding{Key: key, Kind: Provider, Impl: reflect.TypeOf(value)},
		factory: func() (any, error) { return value, nil },
	}
	return b.add(bd)
}

// BindAlias registers key as an alias for target. Aliases never shadow
// an existing binding for the same key: the first binding wins and
// later aliases are dropped silently.
func (b *Binder) BindAlias(key, target contract.Key) {
	if _, exists := b.index[key]; exists {
		return
	}
	bd := &binding{Binding: &Binding{Key: key, Kind: Alias, Target: target}}
	b.bindings = append(b.bindings, bd)
	b.index[key] = bd
}

// Require declares that key must be bound by the time the container is
// built. Unmet requirements fail construction.
func (b *Binder) Require(key contract.Key) {
	b.requires = append(b.requires, key)
}

// Bound reports whether key already has a binding.
func (b *Binder) Bound(key contract.Key) bool {
	_, ok := b.index[key]
	return ok
}

func (b *Binder) add(bd *binding) error {
	if existing, exists := b.index[bd.Key]; exists {
		return fmt.Errorf("key %s already bound (%s)", bd.Key, existing.Kind)
	}
	b.bindings = append(b.bindings, bd)
	b.index[bd.Key] = bd
	return nil
}

// validate checks composition consistency: every required key is
// bound, every alias target exists, and alias chains are acyclic.
func (b *Binder) validate() error {
	for _, key := range b.requires {
		if _, ok := b.index[key]; !ok {
			return fmt.Errorf("required binding missing: %s", key)
		}
	}
	for _, bd := range b.bindings {
		if bd.Kind != Alias {
			continue
		}
		seen := map[contract.Key]struct{}{bd.Key: {}}
		cur := bd
		for cur.Kind == Alias {
			next, ok := b.index[cur.Target]
			if !ok {
				return fmt.Errorf("alias %s targets unbound key %s", bd.Key, cur.Target)
			}
			if _, cyclic := seen[next.Key]; cyclic {
				return fmt.Errorf("alias cycle through %s", bd.Key)
			}
			seen[next.Key] = struct{}{}
			cur = next
		}
	}
	return nil
}
