package contract

import "reflect"

// Markers holds the two type-level roles the hierarchy binder
// recognizes: the set of "extension point" contract types contributed
// by the surrounding ecosystem, and a single "descriptor" marker type.
//
// Markers is assembled once at boot via options and never mutated
// afterwards, so it is safe for concurrent reads without locking.
type Markers struct {
	points     []reflect.Type
	pointSet   map[reflect.Type]struct{}
	descriptor reflect.Type
}

// MarkersOption configures a Markers set.
type MarkersOption func(*Markers)

// WithPoint tags t as an extension point contract. Interface and struct
// types are both accepted; pointers are normalized. Order of WithPoint
// calls is preserved and determines interface visitation order during
// the hierarchy walk.
func WithPoint(t reflect.Type) MarkersOption {
	return func(m *Markers) {
		t = normalize(t)
		if t == nil {
			return
		}
		if _, dup := m.pointSet[t]; dup {
			return
		}
		m.points = append(m.points, t)
		m.pointSet[t] = struct{}{}
	}
}

// WithPointFor tags type T as an extension point contract.
func WithPointFor[T any]() MarkersOption {
	return WithPoint(TypeOf[T]())
}

// WithDescriptor sets the descriptor marker type. Only one descriptor
// role exists; the last call wins.
func WithDescriptor(t reflect.Type) MarkersOption {
	return func(m *Markers) {
		m.descriptor = normalize(t)
	}
}

// WithDescriptorFor sets type T as the descriptor marker.
func WithDescriptorFor[T any]() MarkersOption {
	return WithDescriptor(TypeOf[T]())
}

// NewMarkers builds a marker set from the given options.
func NewMarkers(opts ...MarkersOption) *Markers {
	m := &Markers{pointSet: make(map[reflect.Type]struct{})}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Points returns the extension point types in registration order.
// The returned slice must not be modified.
func (m *Markers) Points() []reflect.Type {
	return m.points
}

// IsPoint reports whether t itself is tagged as an extension point.
func (m *Markers) IsPoint(t reflect.Type) bool {
	_, ok := m.pointSet[normalize(t)]
	return ok
}

// Descriptor returns the descriptor marker type, or nil if none is set.
func (m *Markers) Descriptor() reflect.Type {
	return m.descriptor
}

// SatisfiesDescriptor reports whether t fills the descriptor role:
// t is the marker itself, implements it (for interface markers), or
// for struct markers is the marker type.
func (m *Markers) SatisfiesDescriptor(t reflect.Type) bool {
	if m.descriptor == nil || t == nil {
		return false
	}
	t = normalize(t)
	if t == m.descriptor {
		return true
	}
	if m.descriptor.Kind() == reflect.Interface {
		return Implements(t, m.descriptor)
	}
	return false
}

// Implements reports whether t or *t satisfies the interface type
// iface. Non-interface iface always yields false.
func Implements(t, iface reflect.Type) bool {
	if t == nil || iface == nil || iface.Kind() != reflect.Interface {
		return false
	}
	if t.Implements(iface) {
		return true
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(iface) {
		return true
	}
	return false
}

// normalize strips pointer indirections so markers compare by element
// type.
func normalize(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
