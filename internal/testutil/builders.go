package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/junioryono/syringe"
)

// ContainerBuilder provides a fluent interface for building test containers
type ContainerBuilder struct {
	t       *testing.T
	options []syringe.Option
	steps   []func(*syringe.Container)
}

// NewContainerBuilder creates a new ContainerBuilder
func NewContainerBuilder(t *testing.T) *ContainerBuilder {
	return &ContainerBuilder{t: t}
}

// WithOptions adds container options
func (b *ContainerBuilder) WithOptions(opts ...syringe.Option) *ContainerBuilder {
	b.options = append(b.options, opts...)
	return b
}

// WithClass registers a class provider with the given lifecycle
func (b *ContainerBuilder) WithClass(token any, class any, lifecycle syringe.Lifecycle) *ContainerBuilder {
	b.steps = append(b.steps, func(c *syringe.Container) {
		c.Register(token, syringe.ClassProvider{Class: class}, syringe.WithLifecycle(lifecycle))
	})
	return b
}

// WithSingleton registers a constructor as a singleton under its result type
func (b *ContainerBuilder) WithSingleton(constructor any) *ContainerBuilder {
	b.steps = append(b.steps, func(c *syringe.Container) {
		c.RegisterSingleton(constructor)
	})
	return b
}

// WithInstance registers a value
func (b *ContainerBuilder) WithInstance(token any, value any) *ContainerBuilder {
	b.steps = append(b.steps, func(c *syringe.Container) {
		c.RegisterInstance(token, value)
	})
	return b
}

// WithFactory registers a factory
func (b *ContainerBuilder) WithFactory(token any, factory func(*syringe.Container) (any, error)) *ContainerBuilder {
	b.steps = append(b.steps, func(c *syringe.Container) {
		c.Register(token, syringe.FactoryProvider{Factory: factory})
	})
	return b
}

// Build creates the container and registers everything.
// The container is disposed when the test finishes.
func (b *ContainerBuilder) Build() *syringe.Container {
	b.t.Helper()

	c := syringe.New(b.options...)
	for _, step := range b.steps {
		require.NotPanics(b.t, func() { step(c) })
	}

	b.t.Cleanup(func() {
		_ = c.Dispose(context.Background())
	})

	return c
}
