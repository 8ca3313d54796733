package syringe

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/junioryono/syringe/internal/reflection"
)

// Construct builds class with the given leading arguments and resolves the
// remaining parameters from c. The result is not cached, whatever lifecycle
// the class may be registered with.
//
// class is a *Class, a constructor function, a constructor reflect.Type or a
// *DelayedConstructor, which is unwrapped first. A nil argument passes the zero
// value for its position.
//
// Example:
//
//	svc, err := c.Construct(NewReportService, "monthly")
func (c *Container) Construct(class any, args ...any) (any, error) {
	if c.disposed.Load() {
		return nil, ErrContainerDisposed
	}

	normalized, err := normalizeClass(class)
	if err != nil {
		return nil, err
	}

	if d, ok := normalized.(*DelayedConstructor); ok {
		if normalized, err = normalizeClass(d.Unwrap()); err != nil {
			return nil, err
		}
		if _, ok := normalized.(*DelayedConstructor); ok {
			return nil, fmt.Errorf("%w: delayed constructor unwraps to another delayed constructor", ErrInvalidDelay)
		}
	}

	ctx := newResolutionContext()
	value, err := c.build(normalized.(*Class), ctx, args)
	if err != nil {
		ctx.rollback()
		return nil, err
	}

	c.lifecycle.track(value)
	return value, nil
}

// AutoInject returns a constructor of T that fills every parameter after the
// given arguments from c. It panics when constructor is invalid.
//
// Example:
//
//	newReport := syringe.AutoInject[*Report](c, NewReport)
//	report, err := newReport("monthly") // the remaining parameters are resolved
func AutoInject[T any](c *Container, constructor any, opts ...ClassOption) func(args ...any) (T, error) {
	class := MustClass(constructor, opts...)

	return func(args ...any) (T, error) {
		var zero T

		value, err := c.Construct(class, args...)
		if err != nil {
			return zero, err
		}

		return assertType[T](value, "auto injection")
	}
}

// construct builds a constructor token that has no registration.
func (c *Container) construct(token any, ctx *resolutionContext, args []any) (any, error) {
	var (
		value any
		err   error
	)

	switch t := token.(type) {
	case *Class:
		value, err = c.build(t, ctx, args)
	case *DelayedConstructor:
		return c.deferred(t, nil, ctx), nil
	case reflect.Type:
		class, ok := classFor(t)
		if !ok {
			return nil, &NotRegisteredError{Token: token}
		}
		value, err = c.build(class, ctx, args)
	default:
		return nil, &NotRegisteredError{Token: token}
	}

	if err != nil {
		return nil, err
	}

	ctx.track(c.lifecycle, value)
	return value, nil
}

// build resolves the dependencies of class and calls its constructor.
// Positions below len(args) use the given arguments instead.
func (c *Container) build(class *Class, ctx *resolutionContext, args []any) (any, error) {
	if class.constructor == nil {
		if len(args) > 0 {
			return nil, &ConstructorError{
				Target: class.name,
				Cause:  fmt.Errorf("class has no constructor but %d arguments were given", len(args)),
			}
		}
		return class.newInstance(), nil
	}

	info, err := analyzer.Analyze(class.constructor)
	if err != nil {
		return nil, &ConstructorError{Target: class.name, Cause: err}
	}

	if len(args) > len(info.Parameters) {
		return nil, &ConstructorError{
			Target: class.name,
			Cause:  fmt.Errorf("constructor takes %d parameters but %d arguments were given", len(info.Parameters), len(args)),
		}
	}

	deps, err := dependenciesOf(c.opts.metadata, class)
	if err != nil {
		return nil, &ConstructorError{Target: class.name, Cause: err}
	}

	if len(deps) != len(info.Parameters) {
		return nil, &ConstructorError{
			Target: class.name,
			Cause:  fmt.Errorf("metadata lists %d dependencies for %d parameters", len(deps), len(info.Parameters)),
		}
	}

	values := make([]reflect.Value, len(info.Parameters))
	for i, param := range info.Parameters {
		var v reflect.Value
		if i < len(args) {
			v, err = assignValue(args[i], param.Type)
		} else {
			v, err = c.resolveDependency(deps[i], param.Type, ctx)
		}

		if err != nil {
			return nil, &DependencyResolutionError{
				Position: deps[i].Position,
				Param:    dependencyName(deps[i]),
				Target:   class.name,
				Cause:    err,
			}
		}

		values[i] = v
	}

	return call(class, info, values)
}

// resolveDependency resolves one constructor parameter of type target.
func (c *Container) resolveDependency(dep Dependency, target reflect.Type, ctx *resolutionContext) (reflect.Value, error) {
	if dep.Optional {
		if r, _ := c.lookup(dep.Token); r == nil {
			return reflect.Zero(target), nil
		}
	}

	if dep.Multiple {
		values, err := c.resolveAll(dep.Token, ctx)
		if err != nil {
			return reflect.Value{}, err
		}

		v, err := reflection.AssignSlice(values, target)
		if err != nil {
			return reflect.Value{}, mismatch(err, "parameter")
		}

		return v, nil
	}

	value, err := c.resolve(dep.Token, ctx)
	if err != nil {
		return reflect.Value{}, err
	}

	return assignValue(value, target)
}

// assignValue converts value for a parameter of type target.
// Deferred handles fill Lazy[T] and *Lazy[T] parameters.
func assignValue(value any, target reflect.Type) (reflect.Value, error) {
	if d, ok := value.(*Deferred); ok {
		if v, ok := lazyValue(d, target); ok {
			return v, nil
		}
	}

	v, err := reflection.Assign(value, target)
	if err != nil {
		return reflect.Value{}, mismatch(err, "parameter")
	}

	return v, nil
}

// call invokes the constructor and maps failures to container errors.
func call(class *Class, info *reflection.ConstructorInfo, values []reflect.Value) (any, error) {
	result, err := reflection.Call(class.constructor, info, reflection.Arguments(info, values))
	if err != nil {
		if p, ok := err.(*reflection.PanicError); ok {
			return nil, &ConstructorPanicError{Target: class.name, Panic: p.Value, Stack: p.Stack}
		}
		return nil, &ConstructorError{Target: class.name, Cause: err}
	}

	return result, nil
}

func mismatch(err error, context string) error {
	var assignErr *reflection.AssignError
	if errors.As(err, &assignErr) {
		return &TypeMismatchError{Expected: assignErr.Expected, Actual: assignErr.Actual, Context: context}
	}

	return err
}

// dependencyName names a dependency in error messages.
func dependencyName(dep Dependency) string {
	if dep.Name != "" {
		return dep.Name
	}

	return tokenName(dep.Token)
}
