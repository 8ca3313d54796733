package syringe

import (
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
)

// Resolve returns the value for token.
//
// The active registration is looked up in c and then in its ancestors. When no
// registration exists, constructor tokens (*Class, *DelayedConstructor, struct
// types and types declared with Injectable) are built as Transient without
// being registered; any other token fails with a *NotRegisteredError.
//
// A failed Resolve leaves every cache as it was: instances cached or tracked
// for disposal while the call ran are removed again.
func (c *Container) Resolve(token any) (any, error) {
	if c.disposed.Load() {
		return nil, ErrContainerDisposed
	}

	if err := checkToken(token); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx := newResolutionContext()

	value, err := c.resolve(token, ctx)
	if err != nil {
		ctx.rollback()
	}
	c.observe(token, ctx, start, err)

	return value, err
}

// ResolveAll returns one value per registration of token, in registration
// order. The local bucket is used when it is non-empty, otherwise the first
// non-empty bucket of an ancestor. All values share one resolution context, so
// ResolutionScoped dependencies are shared between them.
//
// When no bucket has registrations, a constructor token yields a single
// implicitly built value and any other token fails with a *NotRegisteredError.
func (c *Container) ResolveAll(token any) ([]any, error) {
	if c.disposed.Load() {
		return nil, ErrContainerDisposed
	}

	if err := checkToken(token); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx := newResolutionContext()

	values, err := c.resolveAll(token, ctx)
	if err != nil {
		ctx.rollback()
	}
	c.observe(token, ctx, start, err)

	return values, err
}

func (c *Container) observe(token any, ctx *resolutionContext, start time.Time, err error) {
	lifecycle := Transient
	if ctx.root != nil {
		lifecycle = ctx.root.options.Lifecycle
	}

	c.opts.metrics.observe(lifecycle, start, err)

	if err != nil {
		c.logger.Debug("resolution failed",
			zap.String("token", tokenName(token)),
			zap.String("resolution_id", ctx.id),
			zap.Error(err),
		)
	}
}

func (c *Container) resolve(token any, ctx *resolutionContext) (any, error) {
	r, owner := c.lookup(token)
	if r == nil && !isConstructorToken(token) {
		return nil, &NotRegisteredError{Token: token}
	}

	c.interceptors.runBefore(token, Single)

	var (
		value any
		err   error
	)
	if r != nil {
		value, err = c.resolveRegistration(token, r, owner, ctx)
	} else {
		value, err = c.construct(token, ctx, nil)
	}

	if err != nil {
		return nil, err
	}

	c.interceptors.runAfter(token, value, Single)

	return value, nil
}

func (c *Container) resolveAll(token any, ctx *resolutionContext) ([]any, error) {
	registrations, owner := c.lookupAll(token)
	if len(registrations) == 0 && !isConstructorToken(token) {
		return nil, &NotRegisteredError{Token: token}
	}

	c.interceptors.runBefore(token, All)

	var values []any
	if len(registrations) == 0 {
		value, err := c.construct(token, ctx, nil)
		if err != nil {
			return nil, err
		}
		values = []any{value}
	} else {
		values = make([]any, 0, len(registrations))
		for _, r := range registrations {
			value, err := c.resolveRegistration(token, r, owner, ctx)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
	}

	c.interceptors.runAfter(token, values, All)

	return values, nil
}

// resolveRegistration applies the lifecycle of r. owner is the container whose
// registry holds r.
func (c *Container) resolveRegistration(token any, r *Registration, owner *Container, ctx *resolutionContext) (any, error) {
	if ctx.root == nil {
		ctx.root = r
	}

	lifecycle := r.options.Lifecycle

	var cache *instanceCache
	tracker := c
	switch lifecycle {
	case Singleton:
		cache = owner.singletons
		tracker = owner
	case ContainerScoped:
		cache = c.scoped
	case ResolutionScoped:
		cache = ctx.scoped
	}

	if cache != nil {
		if value, ok := cache.get(r); ok {
			c.opts.metrics.cacheHit(lifecycle)
			c.logger.Debug("cache hit",
				zap.String("token", tokenName(token)),
				zap.Stringer("lifecycle", lifecycle),
			)
			return value, nil
		}
	}

	value, err := c.invokeProvider(token, r, ctx)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		stored, won := ctx.store(cache, r, value)
		if !won {
			return stored, nil
		}
	}

	switch r.provider.(type) {
	case ClassProvider, FactoryProvider:
		ctx.track(tracker.lifecycle, value)
	}

	return value, nil
}

func (c *Container) invokeProvider(token any, r *Registration, ctx *resolutionContext) (any, error) {
	switch p := r.provider.(type) {
	case ValueProvider:
		return p.Value, nil
	case FactoryProvider:
		return c.callFactory(token, p.Factory)
	case TokenProvider:
		if err := ctx.enterAlias(token); err != nil {
			return nil, err
		}
		defer ctx.leaveAlias()

		return c.resolve(p.Token, ctx)
	case ClassProvider:
		switch class := p.Class.(type) {
		case *Class:
			return c.build(class, ctx, nil)
		case *DelayedConstructor:
			return c.deferred(class, r, ctx), nil
		}
	}

	// normalizeProvider only stores the variants above
	panic(fmt.Sprintf("syringe: unexpected provider %T", r.provider))
}

// callFactory invokes a factory and turns panics into errors.
func (c *Container) callFactory(token any, factory func(*Container) (any, error)) (value any, err error) {
	defer func() {
		if p := recover(); p != nil {
			value = nil
			err = &ConstructorPanicError{Target: tokenName(token), Panic: p, Stack: debug.Stack()}
		}
	}()

	value, err = factory(c)
	if err != nil {
		return nil, &ConstructorError{Target: tokenName(token), Cause: err}
	}

	return value, nil
}

// deferred returns a handle that resolves the delayed target on first use.
// r is the registration holding d, or nil when d was resolved as a token.
func (c *Container) deferred(d *DelayedConstructor, r *Registration, ctx *resolutionContext) *Deferred {
	detached := ctx.detach()

	return newDeferred(func() (any, error) {
		target := d.Unwrap()
		if !validToken(target) {
			return nil, fmt.Errorf("%w: delayed target %v is not a token", ErrInvalidDelay, target)
		}
		if r != nil {
			if active, _ := c.lookup(target); active == r {
				return nil, fmt.Errorf("%w: delayed target %s resolves back to its own registration", ErrInvalidDelay, tokenName(target))
			}
		}

		value, err := c.resolve(target, detached)
		if err != nil {
			detached.rollback()
		}
		return value, err
	})
}
