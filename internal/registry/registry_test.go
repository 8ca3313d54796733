package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRegistration struct {
	name string
}

func TestRegistry_GetAll(t *testing.T) {
	r := New[*testRegistration]()

	first := &testRegistration{name: "first"}
	second := &testRegistration{name: "second"}

	r.Set("Foo", first)
	r.Set("Foo", second)

	require.True(t, r.Has("Foo"))

	all := r.GetAll("Foo")
	require.Len(t, all, 2)
	assert.Same(t, first, all[0])
	assert.Same(t, second, all[1])
}

func TestRegistry_Get(t *testing.T) {
	t.Run("returns the last registration", func(t *testing.T) {
		r := New[*testRegistration]()

		first := &testRegistration{name: "first"}
		second := &testRegistration{name: "second"}

		r.Set("Bar", first)
		r.Set("Bar", second)

		got, ok := r.Get("Bar")
		require.True(t, ok)
		assert.Same(t, second, got)
	})

	t.Run("reports a miss without error", func(t *testing.T) {
		r := New[*testRegistration]()

		assert.False(t, r.Has("FooBar"))

		got, ok := r.Get("FooBar")
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}

func TestRegistry_GetAllCreatesEmptyBucket(t *testing.T) {
	r := New[int]()

	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.GetAll("missing"))
	assert.Equal(t, 1, r.Len())

	// querying again must not change anything
	assert.Empty(t, r.GetAll("missing"))
	assert.Equal(t, 1, r.Len())
	assert.False(t, r.Has("missing"))
}

func TestRegistry_LookupDoesNotCreateBucket(t *testing.T) {
	r := New[int]()

	assert.Nil(t, r.Lookup("missing"))
	assert.False(t, r.Has("missing"))
	_, ok := r.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	r.Set("present", 7)
	assert.Equal(t, []int{7}, r.Lookup("present"))
}

func TestRegistry_Clear(t *testing.T) {
	r := New[*testRegistration]()

	r.Set("Foo", &testRegistration{name: "foo"})
	require.True(t, r.Has("Foo"))

	r.Clear()
	assert.False(t, r.Has("Foo"))
	assert.Empty(t, r.Entries())
}

func TestRegistry_SetAll(t *testing.T) {
	r := New[*testRegistration]()
	registration := &testRegistration{name: "foo"}

	assert.False(t, r.Has("Foo"))

	r.Set("Foo", registration)
	before := r.GetAll("Foo")

	r.SetAll("Foo", []*testRegistration{registration})
	after := r.GetAll("Foo")

	require.Len(t, after, 1)
	assert.NotSame(t, &before[0], &after[0], "SetAll should install a new bucket")

	r.SetAll("Foo", nil)
	assert.False(t, r.Has("Foo"))
}

func TestRegistry_Entries(t *testing.T) {
	r := New[string]()

	type symbol struct{ name string }
	sym := &symbol{name: "sym"}

	r.Set("b", "b1")
	r.Set(sym, "s1")
	r.Set("a", "a1")
	r.Set("b", "b2")

	entries := r.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, "b", entries[0].Token)
	assert.Equal(t, []string{"b1", "b2"}, entries[0].Registrations)
	assert.Equal(t, sym, entries[1].Token)
	assert.Equal(t, "a", entries[2].Token)
}

func TestRegistry_TokensCompareByIdentity(t *testing.T) {
	type symbol struct{ name string }

	r := New[int]()
	a := &symbol{name: "same"}
	b := &symbol{name: "same"}

	r.Set(a, 1)

	assert.True(t, r.Has(a))
	assert.False(t, r.Has(b))
}
