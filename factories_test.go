package syringe_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/syringe"
	"github.com/junioryono/syringe/internal/testutil"
)

type redisCache struct{ Addr string }

type memoryCache struct{ Size int }

func TestInstanceCachingFactory(t *testing.T) {
	t.Run("reuses the first result everywhere", func(t *testing.T) {
		parent := syringe.New()

		calls := 0
		parent.Register("service", syringe.InstanceCachingFactory(func(*syringe.Container) (any, error) {
			calls++
			return testutil.NewTestService(), nil
		}))

		child := parent.CreateChildContainer()
		first := testutil.AssertTokenResolvable[*testutil.TestService](t, parent, "service")
		second := testutil.AssertTokenResolvable[*testutil.TestService](t, child, "service")

		testutil.AssertSameInstance(t, first, second)
		assert.Equal(t, 1, calls)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		c := syringe.New()

		calls := 0
		c.Register("service", syringe.InstanceCachingFactory(func(*syringe.Container) (any, error) {
			calls++
			if calls == 1 {
				return nil, testutil.ErrTest
			}
			return testutil.NewTestService(), nil
		}))

		_, err := c.Resolve("service")
		assert.ErrorIs(t, err, testutil.ErrTest)

		first := testutil.AssertTokenResolvable[*testutil.TestService](t, c, "service")
		second := testutil.AssertTokenResolvable[*testutil.TestService](t, c, "service")
		testutil.AssertSameInstance(t, first, second)
		assert.Equal(t, 2, calls)
	})

	t.Run("factory may resolve its own token", func(t *testing.T) {
		c := syringe.New()

		var inner any
		depth := 0
		c.Register("service", syringe.InstanceCachingFactory(func(c *syringe.Container) (any, error) {
			depth++
			if depth == 1 {
				value, err := c.Resolve("service")
				if err != nil {
					return nil, err
				}
				inner = value
			}
			return testutil.NewTestService(), nil
		}))

		done := make(chan any, 1)
		go func() {
			value, _ := c.Resolve("service")
			done <- value
		}()

		select {
		case value := <-done:
			require.NotNil(t, inner)
			assert.Same(t, inner, value)
			assert.Same(t, inner, testutil.AssertTokenResolvable[*testutil.TestService](t, c, "service"))
			assert.Equal(t, 2, depth)
		case <-time.After(5 * time.Second):
			t.Fatal("resolving the token from its own factory did not return")
		}
	})
}

func TestInstancePerContainerCachingFactory(t *testing.T) {
	parent := syringe.New()

	calls := 0
	parent.Register("service", syringe.InstancePerContainerCachingFactory(func(*syringe.Container) (any, error) {
		calls++
		return testutil.NewTestService(), nil
	}))

	child := parent.CreateChildContainer()

	fromParent := testutil.AssertTokenResolvable[*testutil.TestService](t, parent, "service")
	testutil.AssertSameInstance(t, fromParent, testutil.AssertTokenResolvable[*testutil.TestService](t, parent, "service"))

	fromChild := testutil.AssertTokenResolvable[*testutil.TestService](t, child, "service")
	testutil.AssertSameInstance(t, fromChild, testutil.AssertTokenResolvable[*testutil.TestService](t, child, "service"))

	testutil.AssertDifferentInstances(t, fromParent, fromChild)
	assert.Equal(t, 2, calls)

	t.Run("reset drops the cached result", func(t *testing.T) {
		child.Reset()
		child.Register("service", syringe.InstancePerContainerCachingFactory(func(*syringe.Container) (any, error) {
			return testutil.NewTestService(), nil
		}))

		testutil.AssertDifferentInstances(t, fromChild, testutil.AssertTokenResolvable[*testutil.TestService](t, child, "service"))
	})
}

func TestPredicateAwareClassFactory(t *testing.T) {
	setup := func(useCaching bool) (*syringe.Container, *bool) {
		useRedis := false
		c := syringe.New()
		c.Register("cache", syringe.PredicateAwareClassFactory(
			func(*syringe.Container) bool { return useRedis },
			syringe.TypeOf[*redisCache](),
			syringe.TypeOf[*memoryCache](),
			useCaching,
		))
		return c, &useRedis
	}

	t.Run("selects by predicate", func(t *testing.T) {
		c, useRedis := setup(false)

		value, err := c.Resolve("cache")
		require.NoError(t, err)
		assert.IsType(t, &memoryCache{}, value)

		*useRedis = true
		value, err = c.Resolve("cache")
		require.NoError(t, err)
		assert.IsType(t, &redisCache{}, value)
	})

	t.Run("without caching builds every time", func(t *testing.T) {
		c, _ := setup(false)

		first := testutil.AssertTokenResolvable[*memoryCache](t, c, "cache")
		second := testutil.AssertTokenResolvable[*memoryCache](t, c, "cache")
		testutil.AssertDifferentInstances(t, first, second)
	})

	t.Run("with caching reuses while the predicate holds", func(t *testing.T) {
		c, useRedis := setup(true)

		first := testutil.AssertTokenResolvable[*memoryCache](t, c, "cache")
		second := testutil.AssertTokenResolvable[*memoryCache](t, c, "cache")
		testutil.AssertSameInstance(t, first, second)

		*useRedis = true
		redis := testutil.AssertTokenResolvable[*redisCache](t, c, "cache")
		testutil.AssertSameInstance(t, redis, testutil.AssertTokenResolvable[*redisCache](t, c, "cache"))

		*useRedis = false
		testutil.AssertDifferentInstances(t, first, testutil.AssertTokenResolvable[*memoryCache](t, c, "cache"))
	})

	t.Run("resolves registered targets", func(t *testing.T) {
		c, _ := setup(false)
		c.RegisterInstance(syringe.TypeOf[*memoryCache](), &memoryCache{Size: 64})

		cache := testutil.AssertTokenResolvable[*memoryCache](t, c, "cache")
		assert.Equal(t, 64, cache.Size)
	})
}
