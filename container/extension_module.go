package container

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/plugbind-dev/plugbind-host-sdk/contract"
	"github.com/plugbind-dev/plugbind-host-sdk/extension"
)

// ExtensionModule binds the extensions discovered by one source.
// Discovery is best-effort: a broken extension is logged and skipped,
// never fatal, so one stale plugin extension cannot take down the rest
// of the batch. Only the scan itself failing aborts construction.
type ExtensionModule struct {
	source  extension.Source
	markers *contract.Markers
	logger  *slog.Logger
}

// ExtensionModuleOption configures an ExtensionModule.
type ExtensionModuleOption func(*ExtensionModule)

// WithLogger sets the logger bind failures are reported through.
func WithLogger(l *slog.Logger) ExtensionModuleOption {
	return func(m *ExtensionModule) { m.logger = l }
}

// NewExtensionModule creates a module binding everything source yields.
func NewExtensionModule(source extension.Source, markers *contract.Markers, opts ...ExtensionModuleOption) *ExtensionModule {
	m := &ExtensionModule{
		source:  source,
		markers: markers,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var sourceType = reflect.TypeOf((*extension.Source)(nil)).Elem()

// Configure implements Module. The descriptor sequence is consumed
// eagerly; each item is bound in isolation.
func (m *ExtensionModule) Configure(ctx context.Context, b *Binder) error {
	descriptors, err := m.source.Scan(ctx)
	if err != nil {
		return err
	}

	for _, d := range descriptors {
		// Never bind the discovery mechanism to itself.
		if d.Element != nil && contract.Implements(d.Element, sourceType) {
			continue
		}

		if err := m.bindItem(b, d); err != nil {
			if d.Optional {
				m.logger.Debug("failed to bind optional extension",
					"extension", d.String(), "error", err)
			} else {
				m.logger.Warn("failed to bind extension",
					"extension", d.String(), "error", err)
			}
		}
	}
	return nil
}

// bindItem installs the binding for one descriptor plus its hierarchy
// aliases.
func (m *ExtensionModule) bindItem(b *Binder, d extension.Descriptor) error {
	if d.Err != nil {
		return d.Err
	}

	switch d.Kind {
	case extension.KindType:
		key := contract.NewKey(d.Element, "")
		if err := b.BindDirect(key, d.Element, d.Instance); err != nil {
			return err
		}
		BindHierarchy(b, key, d.Element, m.markers)

	case extension.KindMethod, extension.KindField:
		key := contract.NewKey(d.Element, d.Owner+"."+d.Member)
		if err := b.BindProvider(key, d.Element, d.Instance); err != nil {
			return err
		}
		BindHierarchy(b, key, d.Element, m.markers)
	}
	return nil
}
