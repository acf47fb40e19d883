package classspace

import "context"

// Document is one raw extension index document found in a space.
type Document struct {
	// Path locates the document inside the space, for diagnostics.
	Path string
	// Data is the undecoded document body.
	Data []byte
}

// Space is the scan root for extension discovery: a named set of
// loadable types plus the index documents that declare which of them
// are extensions.
type Space interface {
	// Name identifies the space (usually the owning plugin's name).
	Name() string

	// Catalog resolves fully-qualified names to loadable entries.
	Catalog() *Catalog

	// Documents returns the extension index documents in the space,
	// in a deterministic order.
	Documents(ctx context.Context) ([]Document, error)
}

// StaticSpace is an in-memory Space for tests and for plugins that
// assemble their index programmatically.
type StaticSpace struct {
	name    string
	catalog *Catalog
	docs    []Document
}

// NewStaticSpace creates a space over the given documents. A nil
// catalog falls back to the process-wide default.
func NewStaticSpace(name string, catalog *Catalog, docs ...Document) *StaticSpace {
	if catalog == nil {
		catalog = Default()
	}
	return &StaticSpace{name: name, catalog: catalog, docs: docs}
}

// Name implements Space.
func (s *StaticSpace) Name() string { return s.name }

// Catalog implements Space.
func (s *StaticSpace) Catalog() *Catalog { return s.catalog }

// Documents implements Space.
func (s *StaticSpace) Documents(_ context.Context) ([]Document, error) {
	return s.docs, nil
}
