package syringe

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// DelayedConstructor is a constructor token whose target is produced by a thunk.
// It lets two types reference each other before both are declared.
//
// Resolving a DelayedConstructor does not build the target. It returns a
// *Deferred handle that builds the target on first use.
type DelayedConstructor struct {
	thunk  func() any
	once   sync.Once
	target any
}

// Delay wraps a thunk returning a constructor token: a reflect.Type, a *Class
// or a constructor function. Delay panics with ErrInvalidDelay when thunk is nil.
//
// A registration with a delayed class resolves to a *Deferred, so register it
// under a token of its own. The target is resolved through c, and a target
// that leads back to the same registration fails with ErrInvalidDelay.
//
// Example:
//
//	c.Register("report", syringe.Delay(func() any { return syringe.TypeOf[*Report]() }))
//
//	lazy, _ := syringe.ResolveToken[syringe.Lazy[*Report]](c, "report")
//	report, err := lazy.Get()
func Delay(thunk func() any) *DelayedConstructor {
	if thunk == nil {
		panic(ErrInvalidDelay)
	}

	return &DelayedConstructor{thunk: thunk}
}

// Unwrap returns the thunk result. The thunk runs at most once.
func (d *DelayedConstructor) Unwrap() any {
	d.once.Do(func() {
		target := d.thunk()
		if reflect.TypeOf(target) != nil && reflect.TypeOf(target).Kind() == reflect.Func {
			if class, err := NewClass(target); err == nil {
				target = class
			}
		}
		d.target = target
	})

	return d.target
}

// String implements fmt.Stringer.
func (d *DelayedConstructor) String() string {
	return "Delay(" + fmt.Sprintf("%p", d) + ")"
}

// Deferred is a lazily built instance. The first Get builds the target; every
// later Get returns the same value or the same error.
type Deferred struct {
	once     sync.Once
	build    func() (any, error)
	value    any
	err      error
	resolved atomic.Bool
}

func newDeferred(build func() (any, error)) *Deferred {
	return &Deferred{build: build}
}

// Get builds the target on first call and returns it.
func (d *Deferred) Get() (any, error) {
	d.once.Do(func() {
		d.value, d.err = d.build()
		d.build = nil
		d.resolved.Store(true)
	})

	return d.value, d.err
}

// Resolved reports whether the target has been built.
func (d *Deferred) Resolved() bool {
	return d.resolved.Load()
}

// Lazy is a typed view of a Deferred.
//
// A constructor parameter of type Lazy[T] or *Lazy[T] receives a handle to T
// instead of T itself, which breaks construction cycles:
//
//	type A struct{ b syringe.Lazy[*B] }
//
//	func NewA(b syringe.Lazy[*B]) *A { return &A{b: b} }
//
// To satisfy an interface, forward through Value:
//
//	func (a *A) Name() string { return a.b.Value().Name() }
type Lazy[T any] struct {
	*Deferred
}

// Get builds the target on first call and returns it as T.
func (l Lazy[T]) Get() (T, error) {
	var zero T

	if l.Deferred == nil {
		return zero, ErrInvalidDelay
	}

	value, err := l.Deferred.Get()
	if err != nil {
		return zero, err
	}

	if value == nil {
		return zero, nil
	}

	result, ok := value.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Expected: TypeOf[T](),
			Actual:   reflect.TypeOf(value),
			Context:  "lazy dependency",
		}
	}

	return result, nil
}

// Value is like Get but panics on error.
func (l Lazy[T]) Value() T {
	value, err := l.Get()
	if err != nil {
		panic(err)
	}

	return value
}

// lazyElem returns T when t is Lazy[T] or *Lazy[T].
func lazyElem(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if !isLazyShape(t) {
		return nil, false
	}

	method, ok := t.MethodByName("Get")
	if !ok || method.Type.NumOut() != 2 {
		return nil, false
	}

	return method.Type.Out(0), true
}

var deferredType = reflect.TypeOf((*Deferred)(nil))

// isLazyShape reports whether t is a struct whose only field embeds *Deferred.
func isLazyShape(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		t.NumField() == 1 &&
		t.Field(0).Anonymous &&
		t.Field(0).Type == deferredType
}

// lazyValue wraps a Deferred into a Lazy[T] or *Lazy[T] value of type target.
func lazyValue(d *Deferred, target reflect.Type) (reflect.Value, bool) {
	if isLazyShape(target) {
		v := reflect.New(target).Elem()
		v.Field(0).Set(reflect.ValueOf(d))
		return v, true
	}

	if target.Kind() == reflect.Pointer && isLazyShape(target.Elem()) {
		v := reflect.New(target.Elem())
		v.Elem().Field(0).Set(reflect.ValueOf(d))
		return v, true
	}

	return reflect.Value{}, false
}
