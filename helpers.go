package syringe

import (
	"fmt"
	"reflect"
)

// Resolve resolves the type token of T from the container.
//
// Example:
//
//	logger, err := syringe.Resolve[*Logger](c)
//	if err != nil {
//	    // Handle error
//	}
func Resolve[T any](c *Container) (T, error) {
	return ResolveToken[T](c, TypeOf[T]())
}

// MustResolve resolves the type token of T from the container.
// It panics if the value cannot be resolved. This is useful for
// application initialization where missing values are fatal.
func MustResolve[T any](c *Container) T {
	value, err := Resolve[T](c)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", formatType(TypeOf[T]()), err))
	}

	return value
}

// ResolveToken resolves any token and asserts the result to T.
//
// Example:
//
//	dsn, err := syringe.ResolveToken[string](c, "dsn")
func ResolveToken[T any](c *Container, token any) (T, error) {
	var zero T

	if c == nil {
		return zero, ErrNoContainer
	}

	value, err := c.Resolve(token)
	if err != nil {
		return zero, err
	}

	return assertType[T](value, "type assertion")
}

// ResolveAll resolves every registration of token and asserts each value to T.
func ResolveAll[T any](c *Container, token any) ([]T, error) {
	if c == nil {
		return nil, ErrNoContainer
	}

	values, err := c.ResolveAll(token)
	if err != nil {
		return nil, err
	}

	result := make([]T, len(values))
	for i, value := range values {
		if result[i], err = assertType[T](value, "type assertion"); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// IsRegisteredType reports whether the type token of T is registered.
// See Container.IsRegistered.
func IsRegisteredType[T any](c *Container, recursive bool) bool {
	return c != nil && c.IsRegistered(TypeOf[T](), recursive)
}

// assertType converts a resolved value to T. A nil value becomes the zero
// value and a *Deferred becomes a Lazy when T is one.
func assertType[T any](value any, context string) (T, error) {
	var zero T

	if value == nil {
		return zero, nil
	}

	if result, ok := value.(T); ok {
		return result, nil
	}

	if d, ok := value.(*Deferred); ok {
		if v, ok := lazyValue(d, TypeOf[T]()); ok {
			return v.Interface().(T), nil
		}
	}

	return zero, &TypeMismatchError{
		Expected: TypeOf[T](),
		Actual:   reflect.TypeOf(value),
		Context:  context,
	}
}
