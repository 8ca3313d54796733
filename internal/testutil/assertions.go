package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/syringe"
)

// AssertResolvable checks that the type token of T resolves to a non-nil value
func AssertResolvable[T any](t *testing.T, c *syringe.Container) T {
	t.Helper()
	value, err := syringe.Resolve[T](c)
	require.NoError(t, err, "failed to resolve %s", syringe.TypeOf[T]())
	require.NotNil(t, value, "resolved value is nil")
	return value
}

// AssertTokenResolvable checks that token resolves to a non-nil T
func AssertTokenResolvable[T any](t *testing.T, c *syringe.Container, token any) T {
	t.Helper()
	value, err := syringe.ResolveToken[T](c, token)
	require.NoError(t, err, "failed to resolve token %v", token)
	require.NotNil(t, value, "resolved value is nil")
	return value
}

// AssertNotRegistered checks that resolving token fails with a not registered error
func AssertNotRegistered(t *testing.T, c *syringe.Container, token any) {
	t.Helper()
	_, err := c.Resolve(token)
	require.Error(t, err)
	assert.True(t, syringe.IsNotRegistered(err), "expected not registered error, got: %v", err)

	var notRegistered *syringe.NotRegisteredError
	if assert.ErrorAs(t, err, &notRegistered) {
		assert.Equal(t, token, notRegistered.Token)
	}
}

// AssertPanicsWithError checks that f panics with an error matching expectedError
func AssertPanicsWithError(t *testing.T, expectedError error, f func(), msgAndArgs ...any) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			assert.Fail(t, "function did not panic", msgAndArgs...)
			return
		}

		err, ok := r.(error)
		if !ok {
			assert.Fail(t, "panic value is not an error", "%v", r)
			return
		}

		assert.ErrorIs(t, err, expectedError, msgAndArgs...)
	}()
	f()
}

// AssertRegistrationPanic checks that f panics with a *syringe.RegistrationError wrapping cause
func AssertRegistrationPanic(t *testing.T, cause error, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "function did not panic")

		err, ok := r.(error)
		require.True(t, ok, "panic value is not an error: %v", r)

		var regErr *syringe.RegistrationError
		require.True(t, errors.As(err, &regErr), "expected *RegistrationError, got %T", err)
		if cause != nil {
			assert.ErrorIs(t, err, cause)
		}
	}()
	f()
}

// AssertSameInstance verifies two values are the same instance
func AssertSameInstance(t *testing.T, expected, actual any, msgAndArgs ...any) {
	t.Helper()
	assert.Same(t, expected, actual, msgAndArgs...)
}

// AssertDifferentInstances verifies two values are different instances
func AssertDifferentInstances(t *testing.T, first, second any, msgAndArgs ...any) {
	t.Helper()
	assert.NotSame(t, first, second, msgAndArgs...)
}

// AssertErrorType checks if an error is of a specific type
func AssertErrorType[T error](t *testing.T, err error, msgAndArgs ...any) T {
	t.Helper()
	var target T
	assert.ErrorAs(t, err, &target, msgAndArgs...)
	return target
}

// AssertDisposed checks that a disposed container rejects resolution
func AssertDisposed(t *testing.T, c *syringe.Container) {
	t.Helper()
	assert.True(t, c.IsDisposed(), "container should be disposed")

	_, err := c.Resolve("anything")
	assert.ErrorIs(t, err, syringe.ErrContainerDisposed)

	_, err = c.ResolveAll("anything")
	assert.ErrorIs(t, err, syringe.ErrContainerDisposed)

	AssertRegistrationPanic(t, syringe.ErrContainerDisposed, func() {
		c.RegisterInstance("anything", 1)
	})
}
