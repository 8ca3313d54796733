package syringe

import (
	"fmt"
	"reflect"
)

// Symbol is a unique token. Two symbols with the same description are
// different tokens; identity is the pointer.
//
// Example:
//
//	var Greeting = syringe.NewSymbol("greeting")
//
//	c.RegisterInstance(Greeting, "hello")
type Symbol struct {
	desc string
}

// NewSymbol creates a new Symbol with the given description.
func NewSymbol(desc string) *Symbol {
	return &Symbol{desc: desc}
}

// String returns the symbol description.
func (s *Symbol) String() string {
	return "Symbol(" + s.desc + ")"
}

// TypeOf returns the type token for T.
// Interface types are supported: TypeOf[io.Reader]() is the io.Reader type itself.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// isNormalToken reports whether the token is a plain identifier
// that can never be constructed implicitly.
func isNormalToken(token any) bool {
	switch token.(type) {
	case string, *Symbol:
		return true
	default:
		return false
	}
}

// isConstructorToken reports whether the token can be built without a registration.
func isConstructorToken(token any) bool {
	switch t := token.(type) {
	case *Class, *DelayedConstructor:
		return true
	case reflect.Type:
		_, ok := classFor(t)
		return ok
	default:
		return false
	}
}

// tokenName formats a token for logs and error messages.
func tokenName(token any) string {
	switch t := token.(type) {
	case nil:
		return "<nil>"
	case string:
		return t
	case reflect.Type:
		return formatType(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// validToken reports whether the token can be used as a registry key.
func validToken(token any) bool {
	return checkToken(token) == nil
}

// checkToken explains why token cannot be used as a registry key.
func checkToken(token any) error {
	switch t := token.(type) {
	case nil:
		return ErrNilToken
	case reflect.Type:
		if t == nil {
			return ErrNilToken
		}
		return nil
	case *Symbol:
		if t == nil {
			return ErrNilToken
		}
		return nil
	case *Class:
		if t == nil {
			return ErrNilToken
		}
		return nil
	case *DelayedConstructor:
		if t == nil {
			return ErrNilToken
		}
		return nil
	}

	typ := reflect.TypeOf(token)
	if typ.Kind() == reflect.Func {
		return fmt.Errorf("%w: function values are not tokens, pass MustClass(fn) or TypeOf[T]() instead", ErrInvalidToken)
	}
	if !typ.Comparable() {
		return fmt.Errorf("%w: %s is not comparable", ErrInvalidToken, formatType(typ))
	}

	return nil
}
