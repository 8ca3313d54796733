package syringe

import "context"

// containerContextKey is the key for storing a container in a context.
type containerContextKey struct{}

// WithContainer returns a copy of ctx that carries c.
func WithContainer(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, containerContextKey{}, c)
}

// FromContext returns the container stored by WithContainer.
// It fails with ErrNoContainer when there is none and with
// ErrContainerDisposed when the container has been disposed.
func FromContext(ctx context.Context) (*Container, error) {
	c, ok := ctx.Value(containerContextKey{}).(*Container)
	if !ok || c == nil {
		return nil, ErrNoContainer
	}

	if c.IsDisposed() {
		return nil, ErrContainerDisposed
	}

	return c, nil
}
