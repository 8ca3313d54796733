package syringe

import (
	"sync"
)

// InstanceCachingFactory wraps factory so that its first successful result is
// reused by every container that resolves the registration. Errors are not
// cached; the next resolution calls factory again.
//
// factory runs without a lock held. When concurrent first resolutions race,
// every caller gets the first result that was stored.
func InstanceCachingFactory(factory func(c *Container) (any, error)) FactoryProvider {
	var (
		mu       sync.Mutex
		instance any
		built    bool
	)

	return FactoryProvider{Factory: func(c *Container) (any, error) {
		mu.Lock()
		if built {
			value := instance
			mu.Unlock()
			return value, nil
		}
		mu.Unlock()

		value, err := factory(c)
		if err != nil {
			return nil, err
		}

		mu.Lock()
		defer mu.Unlock()
		if !built {
			instance, built = value, true
		}
		return instance, nil
	}}
}

// InstancePerContainerCachingFactory wraps factory so that each resolving
// container reuses its own first result. The results are kept by the
// containers, so they are released by Reset and Dispose.
func InstancePerContainerCachingFactory(factory func(c *Container) (any, error)) FactoryProvider {
	key := new(factoryKey)

	return FactoryProvider{Factory: func(c *Container) (any, error) {
		if value, ok := c.factories.get(key); ok {
			return value, nil
		}

		value, err := factory(c)
		if err != nil {
			return nil, err
		}

		stored, _ := c.factories.setIfAbsent(key, value)
		return stored, nil
	}}
}

// factoryKey identifies one per-container caching factory.
type factoryKey struct{ _ byte }

// PredicateAwareClassFactory resolves whenTrue or whenFalse depending on
// predicate, evaluated on every resolution with the resolving container.
// With caching, the last value is reused while the predicate result stays the
// same.
//
// Example:
//
//	c.Register(TypeOf[Cache](), syringe.PredicateAwareClassFactory(
//	    func(c *syringe.Container) bool { return c.IsRegistered("redis-url", true) },
//	    TypeOf[*RedisCache](),
//	    TypeOf[*MemoryCache](),
//	    true,
//	))
func PredicateAwareClassFactory(predicate func(c *Container) bool, whenTrue, whenFalse any, useCaching bool) FactoryProvider {
	var (
		mu       sync.Mutex
		instance any
		previous bool
		built    bool
	)

	return FactoryProvider{Factory: func(c *Container) (any, error) {
		current := predicate(c)

		mu.Lock()
		if useCaching && built && previous == current {
			value := instance
			mu.Unlock()
			return value, nil
		}
		mu.Unlock()

		target := whenFalse
		if current {
			target = whenTrue
		}

		value, err := c.Resolve(target)
		if err != nil {
			return nil, err
		}

		mu.Lock()
		instance, previous, built = value, current, true
		mu.Unlock()

		return value, nil
	}}
}
