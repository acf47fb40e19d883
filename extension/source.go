package extension

import (
	"context"

	"github.com/plugbind-dev/plugbind-host-sdk/classspace"
)

// Source yields the finite descriptor sequence discovered in a class
// space. Scan is called once per container construction; the returned
// slice is consumed eagerly and never re-scanned.
type Source interface {
	Scan(ctx context.Context) ([]Descriptor, error)
}

// SourceFactory is the strategy that builds a Source for a space.
// The global flag selects a host-wide scan (boot container) versus a
// unit-local scan (plugin containers).
type SourceFactory func(space classspace.Space, global bool) Source

// StaticSource serves a fixed descriptor slice. Used in tests and by
// units that assemble their extensions programmatically.
type StaticSource struct {
	descriptors []Descriptor
	err         error
}

// NewStaticSource creates a source over the given descriptors.
func NewStaticSource(descriptors ...Descriptor) *StaticSource {
	return &StaticSource{descriptors: descriptors}
}

// NewFailingSource creates a source whose scan fails. Test helper for
// composition-level failures.
func NewFailingSource(err error) *StaticSource {
	return &StaticSource{err: err}
}

// Scan implements Source.
func (s *StaticSource) Scan(_ context.Context) ([]Descriptor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.descriptors, nil
}
