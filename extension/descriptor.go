// Package extension defines discovered extension descriptors and the
// sources that produce them from a class space.
package extension

import (
	"fmt"
	"reflect"

	"github.com/plugbind-dev/plugbind-host-sdk/classspace"
	"github.com/plugbind-dev/plugbind-host-sdk/contract"
)

// Kind discriminates how an extension was declared.
type Kind int

const (
	// KindType marks a descriptor whose element is the implementation
	// type itself.
	KindType Kind = iota
	// KindMethod marks a descriptor produced by a factory method; its
	// element is the declared result type.
	KindMethod
	// KindField marks a descriptor produced by a factory field; its
	// element is the declared field type.
	KindField
)

// String returns the lowercase kind name used in index documents.
func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Descriptor is one discovered extension element. It is immutable:
// produced once by a Source and consumed once by the registration
// module.
//
// A descriptor may be broken — its Err field records a resolution
// failure (missing catalog entry, unsatisfied version constraint) that
// the registration module classifies per the Optional flag.
type Descriptor struct {
	Kind    Kind
	Element reflect.Type

	// Owner and Member name the declaring factory for method/field
	// descriptors; empty for type descriptors.
	Owner  string
	Member string

	// Optional marks extensions whose bind failures are expected and
	// suppressed rather than warned about.
	Optional bool

	// Requires is an optional semver constraint on the host version.
	Requires string

	// Err is set when the descriptor could not be resolved by its
	// source. Broken descriptors carry no factory.
	Err error

	factory func() (any, error)
}

// FromEntry builds a descriptor from a catalog entry.
func FromEntry(e classspace.Entry, optional bool) Descriptor {
	d := Descriptor{
		Element:  e.Type,
		Owner:    e.Owner,
		Member:   e.Member,
		Optional: optional,
		factory:  e.New,
	}
	if e.Kind == classspace.ProviderEntry {
		d.Kind = KindMethod
	}
	return d
}

// DescriptorOption configures descriptors built by the helpers below.
type DescriptorOption func(*Descriptor)

// Optional marks the descriptor optional.
func Optional() DescriptorOption {
	return func(d *Descriptor) { d.Optional = true }
}

// WithRequires attaches a host version constraint.
func WithRequires(constraint string) DescriptorOption {
	return func(d *Descriptor) { d.Requires = constraint }
}

// TypeDescriptor builds a TYPE descriptor from a nullary constructor.
func TypeDescriptor(ctor any, opts ...DescriptorOption) (Descriptor, error) {
	factory, result, err := classspace.AdaptFactory(ctor)
	if err != nil {
		return Descriptor{}, fmt.Errorf("type descriptor: %w", err)
	}
	d := Descriptor{Kind: KindType, Element: result, factory: factory}
	for _, opt := range opts {
		opt(&d)
	}
	return d, nil
}

// MethodDescriptor builds a METHOD descriptor from a factory and its
// declaring owner/member names.
func MethodDescriptor(owner, member string, fn any, opts ...DescriptorOption) (Descriptor, error) {
	factory, result, err := classspace.AdaptFactory(fn)
	if err != nil {
		return Descriptor{}, fmt.Errorf("method descriptor %s.%s: %w", owner, member, err)
	}
	d := Descriptor{
		Kind:    KindMethod,
		Element: result,
		Owner:   owner,
		Member:  member,
		factory: factory,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d, nil
}

// Broken builds a descriptor that records a resolution failure, keeping
// the optional flag so registration can classify it.
func Broken(name string, optional bool, err error) Descriptor {
	return Descriptor{
		Owner:    name,
		Optional: optional,
		Err:      err,
	}
}

// Instance invokes the descriptor's factory. Callers are responsible
// for singleton caching; every call re-invokes the factory.
func (d Descriptor) Instance() (any, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	if d.factory == nil {
		return nil, fmt.Errorf("descriptor %s has no factory", d)
	}
	return d.factory()
}

// String returns a diagnostic representation.
func (d Descriptor) String() string {
	switch {
	case d.Err != nil:
		return fmt.Sprintf("%s (broken: %v)", d.Owner, d.Err)
	case d.Kind == KindType:
		return fmt.Sprintf("type %s", contract.NameOf(d.Element))
	default:
		return fmt.Sprintf("%s %s.%s -> %s", d.Kind, d.Owner, d.Member, contract.NameOf(d.Element))
	}
}
