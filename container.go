package syringe

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/junioryono/syringe/internal/registry"
)

// Container maps tokens to providers and builds values on demand.
//
// Containers form a tree. A child container looks up registrations in its
// own registry first and then in its ancestors, in order. Lifecycle caches
// never fall through: Singleton instances live with the registration owner,
// ContainerScoped instances live with the resolving container.
//
// A Container is safe for concurrent use.
type Container struct {
	id     string
	parent *Container
	opts   *containerOptions
	logger *zap.Logger

	mu       sync.RWMutex
	registry *registry.Registry[*Registration]

	// singletons holds Singleton instances of registrations in this registry
	singletons *instanceCache

	// scoped holds ContainerScoped instances resolved by this container
	scoped *instanceCache

	// factories holds per-container factory results
	factories *instanceCache

	interceptors *interceptors
	lifecycle    *lifecycleManager
	disposed     atomic.Bool
}

// Registration binds a provider to a token with options.
// Lifecycle caches are keyed by the *Registration pointer.
type Registration struct {
	provider Provider
	options  RegistrationOptions
}

// Provider returns the provider of the registration.
func (r *Registration) Provider() Provider {
	return r.provider
}

// Lifecycle returns the lifecycle of the registration.
func (r *Registration) Lifecycle() Lifecycle {
	return r.options.Lifecycle
}

// New creates a root container.
//
// Example:
//
//	c := syringe.New(syringe.WithLogger(logger))
//	c.RegisterSingleton(syringe.TypeOf[*Database](), NewDatabase)
func New(opts ...Option) *Container {
	options := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyOption(options)
	}

	return newContainer(nil, options)
}

func newContainer(parent *Container, opts *containerOptions) *Container {
	id := uuid.NewString()

	logger := opts.logger.With(zap.String("container_id", id))
	if parent != nil {
		logger = logger.With(zap.String("parent_id", parent.id))
	}

	c := &Container{
		id:           id,
		parent:       parent,
		opts:         opts,
		logger:       logger,
		registry:     registry.New[*Registration](),
		singletons:   newInstanceCache(),
		scoped:       newInstanceCache(),
		factories:    newInstanceCache(),
		interceptors: newInterceptors(),
		lifecycle:    newLifecycleManager(),
	}

	opts.metrics.containerCreated()

	return c
}

// ID returns the unique identifier of the container.
func (c *Container) ID() string {
	return c.id
}

// Parent returns the parent container, or nil for a root container.
func (c *Container) Parent() *Container {
	return c.parent
}

// Register binds a provider to a token and returns the container for chaining.
//
// provider is one of ValueProvider, FactoryProvider, TokenProvider,
// ClassProvider, or a bare *Class, *DelayedConstructor or constructor
// function, which are treated as a ClassProvider. The lifecycle defaults to
// Transient and can be changed with WithLifecycle for class and token
// providers.
//
// Register panics with a *RegistrationError when the token or provider is
// invalid, when a value or factory provider is given a lifecycle other than
// Transient, or when the container has been disposed.
func (c *Container) Register(token any, provider any, opts ...RegistrationOption) *Container {
	options := RegistrationOptions{Lifecycle: Transient}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyRegistrationOption(&options)
	}

	c.mustRegister(token, provider, options)
	return c
}

// RegisterSingleton registers a class with the Singleton lifecycle.
//
// With one argument, from is a constructor token or a constructor function and
// registers itself; a constructor function is registered under its result type.
// With two arguments, to is the class to build for from. When to is a string
// or a *Symbol, from becomes a Singleton alias of to.
func (c *Container) RegisterSingleton(from any, to ...any) *Container {
	options := RegistrationOptions{Lifecycle: Singleton}

	switch len(to) {
	case 0:
		if isNormalToken(from) {
			panic(&RegistrationError{
				Token: from,
				Cause: fmt.Errorf("%w: a string or symbol cannot be registered as a singleton without a target", ErrInvalidProvider),
			})
		}

		if from != nil && reflect.TypeOf(from).Kind() == reflect.Func {
			class := MustClass(from)
			c.mustRegister(class.Type(), ClassProvider{Class: class}, options)
			return c
		}

		c.mustRegister(from, ClassProvider{Class: from}, options)
	case 1:
		if isNormalToken(to[0]) {
			c.mustRegister(from, TokenProvider{Token: to[0]}, options)
			return c
		}

		c.mustRegister(from, ClassProvider{Class: to[0]}, options)
	default:
		panic(&RegistrationError{
			Token: from,
			Cause: fmt.Errorf("%w: RegisterSingleton accepts at most one target, got %d", ErrInvalidProvider, len(to)),
		})
	}

	return c
}

// RegisterInstance registers a pre-built value. Resolve returns the same value
// every time; it behaves like a Singleton that is already built.
func (c *Container) RegisterInstance(token any, instance any) *Container {
	c.mustRegister(token, ValueProvider{Value: instance}, RegistrationOptions{Lifecycle: Transient})
	return c
}

// RegisterType registers from as a Transient alias of to. The alias follows
// to's own registration and lifecycle. A constructor function for to is
// registered as a Transient class instead.
func (c *Container) RegisterType(from any, to any) *Container {
	var provider any = TokenProvider{Token: to}
	if to != nil && reflect.TypeOf(to).Kind() == reflect.Func {
		provider = to
	}

	c.mustRegister(from, provider, RegistrationOptions{Lifecycle: Transient})
	return c
}

func (c *Container) mustRegister(token any, provider any, options RegistrationOptions) {
	if err := c.register(token, provider, options); err != nil {
		panic(&RegistrationError{Token: token, Cause: err})
	}
}

func (c *Container) register(token any, provider any, options RegistrationOptions) error {
	if c.disposed.Load() {
		return ErrContainerDisposed
	}

	if err := checkToken(token); err != nil {
		return err
	}

	if !options.Lifecycle.IsValid() {
		return &LifecycleError{Value: options.Lifecycle}
	}

	p, err := normalizeProvider(provider)
	if err != nil {
		return err
	}

	switch p.(type) {
	case ValueProvider, FactoryProvider:
		if options.Lifecycle != Transient {
			return fmt.Errorf("%w: got %s", ErrLifecycleProvider, options.Lifecycle)
		}
	}

	c.mu.Lock()
	c.registry.Set(token, &Registration{provider: p, options: options})
	c.mu.Unlock()

	c.logger.Debug("registered",
		zap.String("token", tokenName(token)),
		zap.String("provider", p.kind()),
		zap.Stringer("lifecycle", options.Lifecycle),
	)

	return nil
}

// IsRegistered reports whether the token has a registration in this container,
// or in any ancestor when recursive is true.
//
// Struct types and types declared with Injectable can be resolved without a
// registration. IsRegistered still reports false for them until they are
// registered explicitly.
func (c *Container) IsRegistered(token any, recursive bool) bool {
	if !validToken(token) {
		return false
	}

	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		found := cur.registry.Has(token)
		cur.mu.RUnlock()

		if found {
			return true
		}

		if !recursive {
			return false
		}
	}

	return false
}

// CreateChildContainer returns a new container whose parent is c.
// The child starts with no registrations, no cached instances and no
// interceptors. It shares the options of c.
func (c *Container) CreateChildContainer() *Container {
	child := newContainer(c, c.opts)

	c.logger.Debug("created child container", zap.String("child_id", child.id))

	return child
}

// Reset removes every registration, cached instance and interceptor of this
// container. Parents and children are not affected. Tracked disposable
// instances are forgotten without being closed; call Dispose for that.
func (c *Container) Reset() {
	c.mu.Lock()
	c.registry.Clear()
	c.mu.Unlock()

	c.singletons.clear()
	c.scoped.clear()
	c.factories.clear()
	c.interceptors.clear()
	c.lifecycle.clear()

	c.logger.Debug("reset")
}

// ClearInstances drops the Singleton and ContainerScoped instances cached by
// this container and removes its value registrations. Other registrations are
// kept, so the next resolution of a Singleton builds a new instance.
func (c *Container) ClearInstances() {
	c.mu.Lock()
	removed := 0
	for _, entry := range c.registry.Entries() {
		kept := make([]*Registration, 0, len(entry.Registrations))
		for _, r := range entry.Registrations {
			if _, ok := r.provider.(ValueProvider); ok {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		if len(kept) != len(entry.Registrations) {
			c.registry.SetAll(entry.Token, kept)
		}
	}
	c.mu.Unlock()

	c.singletons.clear()
	c.scoped.clear()

	c.logger.Debug("cleared instances", zap.Int("removed_values", removed))
}

// BeforeResolution adds a hook that runs before token is resolved by this
// container, including as a dependency of another token.
func (c *Container) BeforeResolution(token any, hook BeforeHook, opts ...InterceptorOption) *Container {
	if hook == nil {
		panic(&RegistrationError{Token: token, Cause: ErrConstructorNil})
	}

	c.interceptors.addBefore(token, hook, opts)
	return c
}

// AfterResolution adds a hook that runs after token is resolved by this
// container. The hook receives the resolved value, or a []any for ResolveAll.
func (c *Container) AfterResolution(token any, hook AfterHook, opts ...InterceptorOption) *Container {
	if hook == nil {
		panic(&RegistrationError{Token: token, Cause: ErrConstructorNil})
	}

	c.interceptors.addAfter(token, hook, opts)
	return c
}

// Dispose closes every Disposable and DisposableWithContext instance built by
// this container, in reverse order of creation, and marks the container as
// disposed. Later calls to Resolve return ErrContainerDisposed and Register
// panics. Child containers are not disposed.
//
// Dispose returns a *DisposalError listing every Close failure. Calling
// Dispose again is a no-op.
func (c *Container) Dispose(ctx context.Context) error {
	if !c.disposed.CompareAndSwap(false, true) {
		return nil
	}

	errs := c.lifecycle.dispose(ctx)

	c.singletons.clear()
	c.scoped.clear()
	c.factories.clear()

	if len(errs) > 0 {
		c.logger.Warn("disposal failed", zap.Errors("errors", errs))
		return &DisposalError{Context: "container", Errors: errs}
	}

	c.logger.Debug("disposed")
	return nil
}

// IsDisposed reports whether Dispose has been called.
func (c *Container) IsDisposed() bool {
	return c.disposed.Load()
}

// lookup finds the active registration for token in c or its ancestors and
// returns it with the container that owns it.
func (c *Container) lookup(token any) (*Registration, *Container) {
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		r, ok := cur.registry.Get(token)
		cur.mu.RUnlock()

		if ok {
			return r, cur
		}
	}

	return nil, nil
}

// lookupAll returns the first non-empty bucket for token, starting at c.
func (c *Container) lookupAll(token any) ([]*Registration, *Container) {
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		bucket := slices.Clone(cur.registry.Lookup(token))
		cur.mu.RUnlock()

		if len(bucket) > 0 {
			return bucket, cur
		}
	}

	return nil, nil
}
