package syringe

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/junioryono/syringe/internal/reflection"
)

// analyzer is shared by every container. It caches analysis per function.
var analyzer = reflection.New()

// injectables maps a produced type to the class declared for it with Injectable.
var injectables sync.Map // map[reflect.Type]*Class

// Class is a constructor reference: a constructor function, or a struct type
// that is built zero-valued. Classes are tokens and compare by pointer.
//
// A constructor function returns (T) or (T, error). Its parameters are the
// class dependencies in order; each one is resolved by its type unless an
// Inject or InjectAll override is recorded for that position.
type Class struct {
	typ         reflect.Type
	constructor any
	name        string
	overrides   map[int]override
}

type override struct {
	token    any
	multiple bool
}

// NewClass creates a class from a constructor function.
//
// Example:
//
//	class, err := syringe.NewClass(NewUserService, syringe.Inject(1, "connection-string"))
func NewClass(constructor any, opts ...ClassOption) (*Class, error) {
	info, err := analyzer.Analyze(constructor)
	if err != nil {
		return nil, err
	}

	class := &Class{
		typ:         info.Result,
		constructor: constructor,
		name:        formatType(info.Result),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyClassOption(class)
	}

	for pos := range class.overrides {
		if pos < 0 || pos >= len(info.Parameters) {
			return nil, fmt.Errorf("override position #%d is out of range for %s", pos, class.name)
		}
	}

	return class, nil
}

// MustClass is like NewClass but panics on an invalid constructor.
func MustClass(constructor any, opts ...ClassOption) *Class {
	class, err := NewClass(constructor, opts...)
	if err != nil {
		panic(&RegistrationError{Token: constructor, Cause: err})
	}

	return class
}

// Injectable declares the constructor used when the constructor's result type
// is requested as a token. The result type becomes a constructor token, so
// Resolve(TypeOf[T]()) builds it even without a registration.
// A later declaration for the same type replaces the earlier one.
//
// Example:
//
//	var _ = syringe.Injectable(NewUserService)
func Injectable(constructor any, opts ...ClassOption) *Class {
	class := MustClass(constructor, opts...)
	injectables.Store(class.typ, class)

	return class
}

// Type returns the type the class produces.
func (c *Class) Type() reflect.Type {
	return c.typ
}

// Name returns the class name used in error messages.
func (c *Class) Name() string {
	return c.name
}

// String implements fmt.Stringer.
func (c *Class) String() string {
	return c.name
}

// Constructor returns the constructor function, or nil for zero-value classes.
func (c *Class) Constructor() any {
	return c.constructor
}

// classFor returns the class for a type token. Types declared with Injectable
// use their constructor. Other struct and pointer-to-struct types are built
// zero-valued.
func classFor(t reflect.Type) (*Class, bool) {
	if t == nil {
		return nil, false
	}

	if class, ok := injectables.Load(t); ok {
		return class.(*Class), true
	}

	if t.Kind() == reflect.Struct || (t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct) {
		return &Class{typ: t, name: formatType(t)}, true
	}

	return nil, false
}

// newInstance builds the zero value of a constructor-less class.
// Pointer types get a fresh allocation so every instance has its own identity.
func (c *Class) newInstance() any {
	if c.typ.Kind() == reflect.Pointer {
		return reflect.New(c.typ.Elem()).Interface()
	}

	return reflect.New(c.typ).Elem().Interface()
}

// A ClassOption modifies how a class resolves its dependencies.
type ClassOption interface {
	applyClassOption(*Class)
}

// Inject overrides the token resolved for the parameter at position.
// For param objects the position counts exported, injectable fields.
func Inject(position int, token any) ClassOption {
	return injectOption{position: position, token: token}
}

// InjectAll overrides the parameter at position with every registration of
// token, in registration order. The parameter must be a slice.
func InjectAll(position int, token any) ClassOption {
	return injectOption{position: position, token: token, multiple: true}
}

// Named sets the class name used in error messages.
func Named(name string) ClassOption {
	return namedOption(name)
}

type injectOption struct {
	position int
	token    any
	multiple bool
}

func (o injectOption) String() string {
	if o.multiple {
		return fmt.Sprintf("InjectAll(%d, %s)", o.position, tokenName(o.token))
	}
	return fmt.Sprintf("Inject(%d, %s)", o.position, tokenName(o.token))
}

func (o injectOption) applyClassOption(c *Class) {
	if c.overrides == nil {
		c.overrides = make(map[int]override)
	}
	c.overrides[o.position] = override{token: o.token, multiple: o.multiple}
}

type namedOption string

func (o namedOption) String() string {
	return fmt.Sprintf("Named(%q)", string(o))
}

func (o namedOption) applyClassOption(c *Class) {
	c.name = string(o)
}
