package container

import "context"

// Module contributes bindings to a container under construction.
// Configure errors are composition failures and abort construction.
type Module interface {
	Configure(ctx context.Context, b *Binder) error
}

// ModuleFunc adapts a function to the Module interface.
type ModuleFunc func(ctx context.Context, b *Binder) error

// Configure implements Module.
func (f ModuleFunc) Configure(ctx context.Context, b *Binder) error {
	return f(ctx, b)
}
