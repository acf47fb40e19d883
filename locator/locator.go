// Package locator implements the global capability locator: the shared
// registry every container publishes its bindings into, and the only
// surface callers look capabilities up through.
package locator

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"reflect"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/plugbind-dev/plugbind-host-sdk/classspace"
	"github.com/plugbind-dev/plugbind-host-sdk/container"
	"github.com/plugbind-dev/plugbind-host-sdk/contract"
	"github.com/plugbind-dev/plugbind-host-sdk/extension"
	"github.com/plugbind-dev/plugbind-host-sdk/plugin"
)

// DefaultQualifier names the boot container's default strategy
// bindings (the source factory and marker set).
const DefaultQualifier = "default"

// Entry is one published binding together with its container of origin
// and the owning unit (nil for the boot container).
type Entry struct {
	Binding   *container.Binding
	Container *container.Container
	Unit      *plugin.Plugin
}

// Value resolves the entry through its origin container.
func (e Entry) Value() (any, error) {
	return e.Container.Resolve(e.Binding.Key)
}

// Locator is the process-scoped capability registry. It owns the boot
// container plus one container per registered unit and accumulates
// every container's bindings additively — bindings are never removed
// for the life of the process.
//
// Lookups never go through an individual container, so callers need
// not know which unit contributed a capability.
type Locator struct {
	logger        *slog.Logger
	markers       *contract.Markers
	sourceFactory extension.SourceFactory
	hostVersion   *semver.Version
	shared        []container.Module
	bootSpace     classspace.Space

	mu      sync.RWMutex
	boot    *container.Container
	units   map[string]*container.Container // nil while a registration is in flight
	order   []*plugin.Plugin
	entries []Entry
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the locator's logger.
func WithLogger(l *slog.Logger) Option {
	return func(loc *Locator) { loc.logger = l }
}

// WithMarkers sets the contract marker roles the hierarchy binder
// recognizes.
func WithMarkers(m *contract.Markers) Option {
	return func(loc *Locator) { loc.markers = m }
}

// WithSourceFactory overrides the default extension source strategy.
func WithSourceFactory(f extension.SourceFactory) Option {
	return func(loc *Locator) { loc.sourceFactory = f }
}

// WithHostVersion sets the host version extension "requires"
// constraints are checked against.
func WithHostVersion(v *semver.Version) Option {
	return func(loc *Locator) { loc.hostVersion = v }
}

// WithModule appends a shared module installed into every container,
// boot and plugin alike, ahead of unit-specific modules.
func WithModule(m container.Module) Option {
	return func(loc *Locator) { loc.shared = append(loc.shared, m) }
}

// WithBootSpace gives the boot container its own class space, scanned
// with the host-wide (global) flag.
func WithBootSpace(s classspace.Space) Option {
	return func(loc *Locator) { loc.bootSpace = s }
}

// New creates the locator and builds its boot container. The boot
// container installs the default strategy bindings the rest of the
// system bootstraps from; a composition failure here is fatal.
func New(ctx context.Context, opts ...Option) (*Locator, error) {
	loc := &Locator{
		logger:  slog.Default(),
		markers: contract.NewMarkers(),
		units:   make(map[string]*container.Container),
	}
	for _, opt := range opts {
		opt(loc)
	}
	if loc.sourceFactory == nil {
		var srcOpts []extension.IndexSourceOption
		if loc.hostVersion != nil {
			srcOpts = append(srcOpts, extension.WithHostVersion(loc.hostVersion))
		}
		loc.sourceFactory = extension.NewIndexSourceFactory(srcOpts...)
	}

	boot, err := container.New(ctx, loc.bootModules()...)
	if err != nil {
		return nil, fmt.Errorf("building boot container: %w", err)
	}
	loc.boot = boot
	loc.publish(boot, nil)
	return loc, nil
}

// commonModule carries the bindings every container shares: the
// locator itself plus the configured shared modules.
func (l *Locator) commonModule() container.Module {
	return container.ModuleFunc(func(_ context.Context, b *container.Binder) error {
		return b.BindInstance(contract.NewKey(reflect.TypeOf(l), ""), l)
	})
}

// bootModules assembles the boot container composition: default
// strategy bindings first, then common and shared bindings, then the
// boot space's own extension scan if one was configured.
func (l *Locator) bootModules() []container.Module {
	defaults := container.ModuleFunc(func(_ context.Context, b *container.Binder) error {
		factoryKey := contract.NewKey(reflect.TypeOf(l.sourceFactory), DefaultQualifier)
		if err := b.BindInstance(factoryKey, l.sourceFactory); err != nil {
			return err
		}
		markersKey := contract.NewKey(reflect.TypeOf(l.markers), DefaultQualifier)
		return b.BindInstance(markersKey, l.markers)
	})

	modules := []container.Module{defaults, l.commonModule()}
	modules = append(modules, l.shared...)
	if l.bootSpace != nil {
		src := l.sourceFactory(l.bootSpace, true)
		modules = append(modules, container.NewExtensionModule(src, l.markers,
			container.WithLogger(l.logger)))
	}
	return modules
}

// RegisterUnit builds and publishes an isolated container for the
// unit, scanning its class space for extensions. Re-registering a unit
// fails without touching existing state. Registrations of different
// units may proceed concurrently; the scan happens outside the lock.
func (l *Locator) RegisterUnit(ctx context.Context, p *plugin.Plugin) error {
	if p == nil {
		return fmt.Errorf("nil unit")
	}
	name := p.Name().String()

	l.mu.Lock()
	if _, exists := l.units[name]; exists {
		l.mu.Unlock()
		return &AlreadyRegisteredError{Name: p.Name()}
	}
	l.units[name] = nil // reserve
	l.mu.Unlock()

	l.logger.Debug("registering unit", "unit", p.String())

	modules := []container.Module{l.commonModule()}
	modules = append(modules, l.shared...)
	src := l.sourceFactory(p.Space(), false)
	modules = append(modules, container.NewExtensionModule(src, l.markers,
		container.WithLogger(l.logger)))

	c, err := container.New(ctx, modules...)
	if err != nil {
		l.mu.Lock()
		delete(l.units, name)
		l.mu.Unlock()
		return fmt.Errorf("registering unit %s: %w", p, err)
	}

	l.mu.Lock()
	l.units[name] = c
	l.order = append(l.order, p)
	l.appendEntries(c, p)
	l.mu.Unlock()
	return nil
}

// Units returns the registered units in registration order.
func (l *Locator) Units() []*plugin.Plugin {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*plugin.Plugin, len(l.order))
	copy(out, l.order)
	return out
}

// ContainerFor returns the container owned by the unit. Every unit
// must be registered first.
func (l *Locator) ContainerFor(p *plugin.Plugin) (*container.Container, error) {
	if p == nil {
		return nil, fmt.Errorf("nil unit")
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.units[p.Name().String()]
	if !ok || c == nil {
		return nil, &NotRegisteredError{Name: p.Name()}
	}
	return c, nil
}

// Boot returns the boot container.
func (l *Locator) Boot() *container.Container {
	return l.boot
}

// LocateAll returns a fresh sequence over every published binding for
// key, in container registration order (boot first) then
// intra-container binding order. Each call observes the state
// accumulated so far.
func (l *Locator) LocateAll(key contract.Key) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		l.mu.RLock()
		snapshot := l.entries
		l.mu.RUnlock()

		for _, e := range snapshot {
			if key.Matches(e.Binding.Key) {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// LocateOne resolves the first binding for key. No binding is an
// error; more than one is tolerated — the first registered wins and
// the extras are logged for diagnosis.
func (l *Locator) LocateOne(key contract.Key) (any, error) {
	var first Entry
	var extras []Entry
	for e := range l.LocateAll(key) {
		if first.Binding == nil {
			first = e
			continue
		}
		extras = append(extras, e)
	}
	if first.Binding == nil {
		return nil, &NothingBoundError{Key: key}
	}
	if len(extras) > 0 && l.logger.Enabled(context.Background(), slog.LevelDebug) {
		l.logger.Debug("more than one binding for key", "key", key.String(), "count", len(extras)+1)
		for _, e := range extras {
			l.logger.Debug("additional binding", "key", key.String(), "binding", e.Binding.String())
		}
	}
	return first.Value()
}

// publish appends a container's bindings to the accumulated entries.
func (l *Locator) publish(c *container.Container, p *plugin.Plugin) {
	l.mu.Lock()
	l.appendEntries(c, p)
	l.mu.Unlock()
}

// appendEntries must be called with mu held.
func (l *Locator) appendEntries(c *container.Container, p *plugin.Plugin) {
	for _, b := range c.Bindings() {
		l.entries = append(l.entries, Entry{Binding: b, Container: c, Unit: p})
	}
}
