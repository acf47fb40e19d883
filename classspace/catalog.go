// Package classspace abstracts a plugin's loadable types and resources.
// A Space is the scan root extension discovery runs against; a Catalog
// is the name-to-type lookup that stands in for class loading.
package classspace

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/plugbind-dev/plugbind-host-sdk/contract"
)

// EntryKind discriminates catalog entries.
type EntryKind int

const (
	// TypeEntry is a registered implementation type with a nullary
	// constructor.
	TypeEntry EntryKind = iota
	// ProviderEntry is a registered factory member; its declared result
	// type is the contract it provides.
	ProviderEntry
)

// Entry is one loadable element of a class space.
type Entry struct {
	// Name is the fully-qualified lookup name. For type entries it is
	// the type's own FQN; for provider entries it is "Owner.Member".
	Name string
	Kind EntryKind
	// Type is the implementation type (TypeEntry) or the declared
	// result type of the factory (ProviderEntry).
	Type reflect.Type
	// Owner and Member identify the declaring factory for provider
	// entries; empty for type entries.
	Owner  string
	Member string
	// New instantiates the element.
	New func() (any, error)
}

// Catalog maps fully-qualified names to loadable entries. Writes happen
// during package init or test setup; reads happen on every scan.
// All methods are safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// RegisterType registers an implementation type under its own
// fully-qualified name. ctor must be a nullary function returning the
// implementation, optionally with a trailing error:
//
//	cat.RegisterType(func() *JSONCodec { return &JSONCodec{} })
//
// Registering the same name twice is an error.
func (c *Catalog) RegisterType(ctor any) error {
	factory, result, err := AdaptFactory(ctor)
	if err != nil {
		return fmt.Errorf("registering type: %w", err)
	}
	name := contract.NameOf(result)
	return c.put(Entry{
		Name: name,
		Kind: TypeEntry,
		Type: result,
		New:  factory,
	})
}

// RegisterProvider registers a factory member under "owner.member".
// The declared contract type is derived from fn's first result.
func (c *Catalog) RegisterProvider(owner, member string, fn any) error {
	if owner == "" || member == "" {
		return fmt.Errorf("registering provider: owner and member must be non-empty")
	}
	factory, result, err := AdaptFactory(fn)
	if err != nil {
		return fmt.Errorf("registering provider %s.%s: %w", owner, member, err)
	}
	return c.put(Entry{
		Name:   owner + "." + member,
		Kind:   ProviderEntry,
		Type:   result,
		Owner:  owner,
		Member: member,
		New:    factory,
	})
}

func (c *Catalog) put(e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[e.Name]; exists {
		return fmt.Errorf("catalog entry already registered: %s", e.Name)
	}
	c.entries[e.Name] = e
	return nil
}

// Lookup returns the entry registered under name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e, ok
}

// Entries returns a name-sorted snapshot of all registered entries.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reset removes all entries. Intended for tests.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// AdaptFactory validates fn as func() T or func() (T, error) and wraps
// it into a uniform nullary factory, returning the declared result type.
func AdaptFactory(fn any) (func() (any, error), reflect.Type, error) {
	if fn == nil {
		return nil, nil, fmt.Errorf("nil factory")
	}
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func || ft.NumIn() != 0 {
		return nil, nil, fmt.Errorf("factory must be a nullary function, got %s", ft)
	}
	switch ft.NumOut() {
	case 1:
	case 2:
		if !ft.Out(1).Implements(errType) {
			return nil, nil, fmt.Errorf("factory second result must be error, got %s", ft.Out(1))
		}
	default:
		return nil, nil, fmt.Errorf("factory must return (T) or (T, error), got %s", ft)
	}

	result := ft.Out(0)
	wrapped := func() (any, error) {
		out := fv.Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}
	return wrapped, result, nil
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// defaultCatalog backs the package-level registration helpers. Plugins
// typically register their implementations here from init functions.
var defaultCatalog = NewCatalog()

// Default returns the process-wide catalog.
func Default() *Catalog {
	return defaultCatalog
}

// RegisterType registers ctor's result type in the default catalog,
// panicking on conflict. Meant for init-time use:
//
//	func init() { classspace.RegisterType(NewGzipCodec) }
func RegisterType(ctor any) {
	if err := defaultCatalog.RegisterType(ctor); err != nil {
		panic(err)
	}
}

// RegisterProvider registers a factory member in the default catalog,
// panicking on conflict.
func RegisterProvider(owner, member string, fn any) {
	if err := defaultCatalog.RegisterProvider(owner, member, fn); err != nil {
		panic(err)
	}
}
