package classspace

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIndexPattern is the glob DirSpace scans for extension index
// documents when no pattern is configured.
const DefaultIndexPattern = "**/extension-index.yaml"

// DirSpace is a Space rooted at a filesystem tree, typically a plugin's
// unpacked archive. Index documents are discovered by glob.
type DirSpace struct {
	name    string
	fsys    fs.FS
	catalog *Catalog
	pattern string
}

// DirSpaceOption configures a DirSpace.
type DirSpaceOption func(*DirSpace)

// WithIndexPattern overrides the index document glob.
func WithIndexPattern(pattern string) DirSpaceOption {
	return func(s *DirSpace) { s.pattern = pattern }
}

// WithCatalog sets the catalog names resolve against. Defaults to the
// process-wide catalog.
func WithCatalog(c *Catalog) DirSpaceOption {
	return func(s *DirSpace) { s.catalog = c }
}

// NewDirSpace creates a space over fsys.
func NewDirSpace(name string, fsys fs.FS, opts ...DirSpaceOption) *DirSpace {
	s := &DirSpace{
		name:    name,
		fsys:    fsys,
		catalog: Default(),
		pattern: DefaultIndexPattern,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Space.
func (s *DirSpace) Name() string { return s.name }

// Catalog implements Space.
func (s *DirSpace) Catalog() *Catalog { return s.catalog }

// Documents globs the space for index documents and reads them.
// Paths are sorted so scan order is stable across runs.
func (s *DirSpace) Documents(ctx context.Context) ([]Document, error) {
	matches, err := doublestar.Glob(s.fsys, s.pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing %q in space %q: %w", s.pattern, s.name, err)
	}
	sort.Strings(matches)

	docs := make([]Document, 0, len(matches))
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(s.fsys, path)
		if err != nil {
			return nil, fmt.Errorf("reading index document %q in space %q: %w", path, s.name, err)
		}
		docs = append(docs, Document{Path: path, Data: data})
	}
	return docs, nil
}
