package syringe

import (
	"reflect"
	"sync"
)

// instanceCache provides thread-safe caching for resolved instances.
// Keys are *Registration pointers, or factory keys for per-container factories.
type instanceCache struct {
	instances map[any]any
	mu        sync.RWMutex
}

// newInstanceCache creates a new instance cache
func newInstanceCache() *instanceCache {
	return &instanceCache{
		instances: make(map[any]any),
	}
}

// get retrieves an instance from the cache
func (c *instanceCache) get(key any) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	instance, ok := c.instances[key]
	return instance, ok
}

// setIfAbsent stores the instance unless another one won the race.
// It returns the stored instance and whether this call stored it.
func (c *instanceCache) setIfAbsent(key any, instance any) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.instances[key]; ok {
		return existing, false
	}
	c.instances[key] = instance
	return instance, true
}

// deleteIf removes the entry for key while it still holds instance
func (c *instanceCache) deleteIf(key any, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.instances[key]; ok && sameInstance(existing, instance) {
		delete(c.instances, key)
	}
}

// clear removes all instances from the cache
func (c *instanceCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances = make(map[any]any)
}

// len returns the number of cached instances
func (c *instanceCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.instances)
}

// sameInstance reports whether a and b are the same value. Values of
// incomparable types are never the same.
func sameInstance(a, b any) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta == nil {
		return true
	}
	return ta.Comparable() && a == b
}
