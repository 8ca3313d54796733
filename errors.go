package syringe

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors. Typed errors below wrap or match them, so callers
// can test with errors.Is without depending on message text.

var (
	// Resolution errors.
	ErrNotRegistered = errors.New("token is not registered")
	ErrTokenCycle    = errors.New("token alias cycle")

	// Registration errors.
	ErrNilToken          = errors.New("token cannot be nil")
	ErrInvalidToken      = errors.New("invalid token")
	ErrNilProvider       = errors.New("provider cannot be nil")
	ErrConstructorNil    = errors.New("constructor cannot be nil")
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrLifecycleProvider = errors.New("value and factory providers only support the Transient lifecycle")

	// Lifecycle errors.
	ErrInvalidDelay      = errors.New("delay requires a non-nil thunk")
	ErrContainerDisposed = errors.New("container has been disposed")
	ErrNoContainer       = errors.New("no container found in context")
)

var (
	_ error = (*LifecycleError)(nil)
	_ error = (*NotRegisteredError)(nil)
	_ error = (*DependencyResolutionError)(nil)
	_ error = (*ConstructorError)(nil)
	_ error = (*ConstructorPanicError)(nil)
	_ error = (*TypeMismatchError)(nil)
	_ error = (*TokenCycleError)(nil)
	_ error = (*RegistrationError)(nil)
	_ error = (*DisposalError)(nil)
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// LifecycleError indicates an invalid lifecycle value.
type LifecycleError struct {
	Value any
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("invalid lifecycle: %v", e.Value)
}

// NotRegisteredError is returned when a token has no registration anywhere in
// the container chain and cannot be constructed implicitly.
type NotRegisteredError struct {
	Token any
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("attempted to resolve unregistered dependency token: %q", tokenName(e.Token))
}

func (e *NotRegisteredError) Is(target error) bool {
	return target == ErrNotRegistered
}

// DependencyResolutionError is returned when a constructor parameter cannot be
// resolved. Nested failures render as an indented trace.
type DependencyResolutionError struct {
	Position int
	Param    string
	Target   string
	Cause    error
}

func (e *DependencyResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot inject the dependency %q at position #%d of %q constructor. Reason:",
		e.Param, e.Position, e.Target)

	if e.Cause != nil {
		for _, line := range strings.Split(e.Cause.Error(), "\n") {
			b.WriteString("\n    ")
			b.WriteString(line)
		}
	}

	return b.String()
}

func (e *DependencyResolutionError) Unwrap() error {
	return e.Cause
}

// ConstructorError wraps an error returned by a constructor or factory.
type ConstructorError struct {
	Target string
	Cause  error
}

func (e *ConstructorError) Error() string {
	return fmt.Sprintf("constructor of %q failed: %v", e.Target, e.Cause)
}

func (e *ConstructorError) Unwrap() error {
	return e.Cause
}

// ConstructorPanicError indicates a constructor or factory panicked.
// It captures the panic value and stack trace for debugging.
type ConstructorPanicError struct {
	Target string
	Panic  any
	Stack  []byte
}

func (e *ConstructorPanicError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "constructor of %q panicked: %v", e.Target, e.Panic)

	if len(e.Stack) > 0 {
		b.WriteString("\n\nStack trace:\n")
		b.Write(e.Stack)
	}

	return b.String()
}

// TypeMismatchError indicates a type assertion or conversion failed.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string // "type assertion", "parameter", etc.
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Context, formatType(e.Expected), formatType(e.Actual))
}

// TokenCycleError is returned when token aliases lead back to themselves.
type TokenCycleError struct {
	Chain []any
}

func (e *TokenCycleError) Error() string {
	names := make([]string, len(e.Chain))
	for i, token := range e.Chain {
		names[i] = tokenName(token)
	}

	return fmt.Sprintf("token alias cycle: %s", strings.Join(names, " -> "))
}

func (e *TokenCycleError) Is(target error) bool {
	return target == ErrTokenCycle
}

// RegistrationError describes an invalid registration.
// Register and its variants panic with this error.
type RegistrationError struct {
	Token any
	Cause error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to register %q: %v", tokenName(e.Token), e.Cause)
}

func (e *RegistrationError) Unwrap() error {
	return e.Cause
}

// DisposalError aggregates disposal errors.
type DisposalError struct {
	Context string // "container", "request"
	Errors  []error
}

func (e *DisposalError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s disposal failed: %v", e.Context, e.Errors[0])
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s disposal failed with %d errors:", e.Context, len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  %d. %v", i+1, err)
	}
	return sb.String()
}

func (e *DisposalError) Unwrap() []error {
	return e.Errors
}

// IsNotRegistered reports whether err means a token could not be found.
func IsNotRegistered(err error) bool {
	return errors.Is(err, ErrNotRegistered)
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		// Format pointers as *Type instead of *package.Type
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
