// Package container builds immutable binding sets from modules and
// resolves contract keys against them.
package container

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/plugbind-dev/plugbind-host-sdk/contract"
)

// BindingKind discriminates how a binding resolves.
type BindingKind int

const (
	// Direct instantiates the implementation type and caches it as a
	// singleton.
	Direct BindingKind = iota
	// Alias delegates to another key's binding in the same container.
	Alias
	// Provider invokes a deferred factory once and caches the result.
	Provider
)

// String returns the kind name for diagnostics.
func (k BindingKind) String() string {
	switch k {
	case Direct:
		return "direct"
	case Alias:
		return "alias"
	case Provider:
		return "provider"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Binding maps one contract key to its resolution. Bindings are
// created during container construction and immutable afterwards,
// except for the initialize-once instance cell.
type Binding struct {
	Key  contract.Key
	Kind BindingKind

	// Impl is the implementation type for direct bindings and the
	// declared type for providers; nil for aliases.
	Impl reflect.Type

	// Target is the delegate key for alias bindings.
	Target contract.Key

	cell cell
}

// cell is a compute-once value slot. The first caller runs the
// factory; concurrent first callers observe the same result.
type cell struct {
	once  sync.Once
	value any
	err   error
}

func (c *cell) get(factory func() (any, error)) (any, error) {
	c.once.Do(func() {
		c.value, c.err = factory()
	})
	return c.value, c.err
}

// factory backs direct and provider bindings.
type boundFactory = func() (any, error)

type binding struct {
	*Binding
	factory boundFactory
}

// value resolves the binding within its owning container. Aliases
// delegate; everything else goes through the once-cell.
func (b *binding) value(c *Container) (any, error) {
	if b.Kind == Alias {
		return c.Resolve(b.Target)
	}
	return b.cell.get(b.factory)
}

// String returns a diagnostic representation.
func (b *Binding) String() string {
	if b.Kind == Alias {
		return fmt.Sprintf("%s -> %s (alias)", b.Key, b.Target)
	}
	return fmt.Sprintf("%s -> %s (%s)", b.Key, contract.NameOf(b.Impl), b.Kind)
}
