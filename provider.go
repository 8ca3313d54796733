package syringe

import (
	"fmt"
	"reflect"
)

// Provider describes how the container produces a value for a token.
// The set of providers is closed: ValueProvider, FactoryProvider,
// TokenProvider and ClassProvider.
type Provider interface {
	kind() string
}

// ValueProvider returns a pre-built value verbatim.
type ValueProvider struct {
	Value any
}

// FactoryProvider calls Factory with the resolving container.
// The result takes part in whatever lifecycle cache wraps the registration.
type FactoryProvider struct {
	Factory func(c *Container) (any, error)
}

// TokenProvider redirects resolution to another token on the same container.
type TokenProvider struct {
	Token any
}

// ClassProvider builds a value by resolving constructor dependencies first.
// Class is a *Class, a *DelayedConstructor, a constructor function or a
// reflect.Type that is a constructor token.
type ClassProvider struct {
	Class any
}

func (ValueProvider) kind() string   { return "value" }
func (FactoryProvider) kind() string { return "factory" }
func (TokenProvider) kind() string   { return "token" }
func (ClassProvider) kind() string   { return "class" }

// normalizeProvider validates a provider-like value and returns the Provider
// stored in the registration. Class providers always carry a *Class or a
// *DelayedConstructor afterwards.
func normalizeProvider(p any) (Provider, error) {
	switch p := p.(type) {
	case nil:
		return nil, ErrNilProvider
	case ValueProvider:
		return p, nil
	case FactoryProvider:
		if p.Factory == nil {
			return nil, ErrConstructorNil
		}
		return p, nil
	case TokenProvider:
		if err := checkToken(p.Token); err != nil {
			return nil, err
		}
		return p, nil
	case ClassProvider:
		class, err := normalizeClass(p.Class)
		if err != nil {
			return nil, err
		}
		return ClassProvider{Class: class}, nil
	case *Class, *DelayedConstructor:
		return normalizeProvider(ClassProvider{Class: p})
	}

	if reflect.TypeOf(p).Kind() == reflect.Func {
		return normalizeProvider(ClassProvider{Class: p})
	}

	return nil, fmt.Errorf("%w: %T", ErrInvalidProvider, p)
}

// normalizeClass turns the accepted class forms into a *Class or a *DelayedConstructor.
func normalizeClass(v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return nil, ErrConstructorNil
	case *Class:
		if v == nil {
			return nil, ErrConstructorNil
		}
		return v, nil
	case *DelayedConstructor:
		if v == nil {
			return nil, ErrConstructorNil
		}
		return v, nil
	case reflect.Type:
		class, ok := classFor(v)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not constructible", ErrInvalidProvider, formatType(v))
		}
		return class, nil
	}

	if reflect.TypeOf(v).Kind() == reflect.Func {
		return NewClass(v)
	}

	return nil, fmt.Errorf("%w: %T is not a class", ErrInvalidProvider, v)
}
