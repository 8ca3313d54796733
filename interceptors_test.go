package syringe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/syringe"
	"github.com/junioryono/syringe/internal/testutil"
)

func TestInterceptors(t *testing.T) {
	t.Run("before and after run around resolution", func(t *testing.T) {
		c := syringe.New()
		c.RegisterInstance("dsn", "postgres")

		var events []string
		c.BeforeResolution("dsn", func(token any, rt syringe.ResolutionType) {
			events = append(events, "before:"+token.(string)+":"+rt.String())
		})
		c.AfterResolution("dsn", func(token any, result any, rt syringe.ResolutionType) {
			events = append(events, "after:"+result.(string)+":"+rt.String())
		})

		_, err := c.Resolve("dsn")
		require.NoError(t, err)

		assert.Equal(t, []string{"before:dsn:Single", "after:postgres:Single"}, events)
	})

	t.Run("always runs on every resolution", func(t *testing.T) {
		c := syringe.New()
		c.RegisterInstance("dsn", "postgres")

		calls := 0
		c.BeforeResolution("dsn", func(any, syringe.ResolutionType) { calls++ }, syringe.WithFrequency(syringe.Always))

		for range 3 {
			_, err := c.Resolve("dsn")
			require.NoError(t, err)
		}
		assert.Equal(t, 3, calls)
	})

	t.Run("once runs a single time", func(t *testing.T) {
		c := syringe.New()
		c.RegisterInstance("dsn", "postgres")

		before, after := 0, 0
		c.BeforeResolution("dsn", func(any, syringe.ResolutionType) { before++ }, syringe.WithFrequency(syringe.Once))
		c.AfterResolution("dsn", func(any, any, syringe.ResolutionType) { after++ }, syringe.WithFrequency(syringe.Once))

		for range 3 {
			_, err := c.Resolve("dsn")
			require.NoError(t, err)
		}
		assert.Equal(t, 1, before)
		assert.Equal(t, 1, after)
	})

	t.Run("hooks run in registration order", func(t *testing.T) {
		c := syringe.New()
		c.RegisterInstance("dsn", "postgres")

		var order []int
		for i := range 3 {
			c.BeforeResolution("dsn", func(any, syringe.ResolutionType) { order = append(order, i) })
		}

		_, err := c.Resolve("dsn")
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, order)
	})

	t.Run("resolve all passes every value", func(t *testing.T) {
		c := syringe.New()
		c.RegisterInstance("handlers", testutil.NewTestHandler("a"))
		c.RegisterInstance("handlers", testutil.NewTestHandler("b"))

		var gotType syringe.ResolutionType
		var gotResult any
		c.AfterResolution("handlers", func(_ any, result any, rt syringe.ResolutionType) {
			gotType, gotResult = rt, result
		})

		_, err := c.ResolveAll("handlers")
		require.NoError(t, err)

		assert.Equal(t, syringe.All, gotType)
		values, ok := gotResult.([]any)
		require.True(t, ok)
		assert.Len(t, values, 2)
	})

	t.Run("dependencies are intercepted", func(t *testing.T) {
		c := syringe.New()
		c.Register(syringe.TypeOf[testutil.TestLogger](), testutil.NewTestLogger)
		c.Register(syringe.TypeOf[testutil.TestDatabase](), testutil.NewTestDatabase)
		c.Register(syringe.TypeOf[*testutil.TestServiceWithDeps](), testutil.NewTestServiceWithDeps)

		var resolved testutil.TestLogger
		c.AfterResolution(syringe.TypeOf[testutil.TestLogger](), func(_ any, result any, _ syringe.ResolutionType) {
			resolved = result.(testutil.TestLogger)
		})

		svc := testutil.AssertResolvable[*testutil.TestServiceWithDeps](t, c)
		testutil.AssertSameInstance(t, resolved, svc.Logger)
	})

	t.Run("not run for unregistered tokens", func(t *testing.T) {
		c := syringe.New()

		called := false
		c.BeforeResolution("missing", func(any, syringe.ResolutionType) { called = true })

		_, err := c.Resolve("missing")
		require.Error(t, err)
		assert.False(t, called)
	})

	t.Run("after hooks skipped on failure", func(t *testing.T) {
		c := syringe.New()
		c.Register("broken", syringe.FactoryProvider{Factory: func(*syringe.Container) (any, error) {
			return nil, testutil.ErrTest
		}})

		before, after := false, false
		c.BeforeResolution("broken", func(any, syringe.ResolutionType) { before = true })
		c.AfterResolution("broken", func(any, any, syringe.ResolutionType) { after = true })

		_, err := c.Resolve("broken")
		require.ErrorIs(t, err, testutil.ErrTest)
		assert.True(t, before)
		assert.False(t, after)
	})

	t.Run("child containers do not inherit hooks", func(t *testing.T) {
		parent := syringe.New()
		parent.RegisterInstance("dsn", "postgres")

		called := false
		parent.BeforeResolution("dsn", func(any, syringe.ResolutionType) { called = true })

		_, err := parent.CreateChildContainer().Resolve("dsn")
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("nil hook panics", func(t *testing.T) {
		c := syringe.New()

		testutil.AssertRegistrationPanic(t, syringe.ErrConstructorNil, func() {
			c.BeforeResolution("dsn", nil)
		})
		testutil.AssertRegistrationPanic(t, syringe.ErrConstructorNil, func() {
			c.AfterResolution("dsn", nil)
		})
	})
}

func TestResolutionType_String(t *testing.T) {
	assert.Equal(t, "Single", syringe.Single.String())
	assert.Equal(t, "All", syringe.All.String())
}
