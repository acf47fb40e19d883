package container

import (
	"context"
	"fmt"

	"github.com/plugbind-dev/plugbind-host-sdk/contract"
)

// Container is an immutable binding set built from one module
// composition. It owns no mutable state after construction apart from
// the compute-once instance cells inside its bindings.
type Container struct {
	bindings []*binding
	index    map[contract.Key]*binding
}

// New builds a container from the given modules, in order. Shared or
// common modules go first so later, unit-specific modules may depend
// on them but never the other way around.
//
// Any module error or composition inconsistency (unmet requirement,
// dangling or cyclic alias) fails construction — unlike per-extension
// bind failures, which the extension module absorbs.
func New(ctx context.Context, modules ...Module) (*Container, error) {
	b := NewBinder()
	for _, m := range modules {
		if err := m.Configure(ctx, b); err != nil {
			return nil, fmt.Errorf("configuring container: %w", err)
		}
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("inconsistent container composition: %w", err)
	}
	return &Container{bindings: b.bindings, index: b.index}, nil
}

// Resolve returns the instance bound to key, constructing it on first
// access. Alias bindings delegate within this container. An
// unqualified key resolves the first binding for its type, in
// registration order.
func (c *Container) Resolve(key contract.Key) (any, error) {
	if bd, ok := c.index[key]; ok {
		return bd.value(c)
	}
	if key.Qualifier == "" {
		for _, bd := range c.bindings {
			if key.Matches(bd.Key) {
				return bd.value(c)
			}
		}
	}
	return nil, fmt.Errorf("no binding for %s", key)
}

// Contains reports whether key is bound in this container.
func (c *Container) Contains(key contract.Key) bool {
	if _, ok := c.index[key]; ok {
		return true
	}
	if key.Qualifier == "" {
		for _, bd := range c.bindings {
			if key.Matches(bd.Key) {
				return true
			}
		}
	}
	return false
}

// Bindings returns the container's bindings in registration order.
// The returned slice must not be modified.
func (c *Container) Bindings() []*Binding {
	out := make([]*Binding, len(c.bindings))
	for i, bd := range c.bindings {
		out[i] = bd.Binding
	}
	return out
}
