// Package registry implements the token to registration multi-map used by the
// container. It holds data only; resolution logic lives in the root package.
package registry

// Registry maps a token to an ordered bucket of registrations.
//
// Registrations under the same token keep insertion order. The last one is the
// active binding for single-value lookups and all of them take part in
// multi-value lookups.
//
// Registry is NOT thread-safe. Callers serialize access.
type Registry[R any] struct {
	// buckets stores registrations by token
	buckets map[any][]R

	// keys records the order in which tokens first appeared
	keys []any
}

// Entry is a token together with its registrations.
type Entry[R any] struct {
	Token         any
	Registrations []R
}

// New creates an empty Registry.
func New[R any]() *Registry[R] {
	return &Registry[R]{
		buckets: make(map[any][]R),
	}
}

// Set appends a registration to the token's bucket.
func (r *Registry[R]) Set(token any, registration R) {
	r.ensure(token)
	r.buckets[token] = append(r.buckets[token], registration)
}

// SetAll replaces the whole bucket for a token.
func (r *Registry[R]) SetAll(token any, registrations []R) {
	r.ensure(token)
	r.buckets[token] = registrations
}

// Get returns the last registration for the token.
// The boolean is false when the bucket is empty.
func (r *Registry[R]) Get(token any) (R, bool) {
	bucket := r.buckets[token]
	if len(bucket) == 0 {
		var zero R
		return zero, false
	}

	return bucket[len(bucket)-1], true
}

// GetAll returns every registration for the token in insertion order.
// An empty bucket is created when the token has never been seen.
func (r *Registry[R]) GetAll(token any) []R {
	r.ensure(token)
	return r.buckets[token]
}

// Lookup returns the token's bucket without creating one.
// It is safe to call under a read lock.
func (r *Registry[R]) Lookup(token any) []R {
	return r.buckets[token]
}

// Has reports whether the token has at least one registration.
func (r *Registry[R]) Has(token any) bool {
	return len(r.buckets[token]) > 0
}

// Entries returns a snapshot of all buckets in first-seen order.
func (r *Registry[R]) Entries() []Entry[R] {
	entries := make([]Entry[R], 0, len(r.keys))
	for _, token := range r.keys {
		entries = append(entries, Entry[R]{
			Token:         token,
			Registrations: r.buckets[token],
		})
	}

	return entries
}

// Len returns the number of tokens with a bucket, empty or not.
func (r *Registry[R]) Len() int {
	return len(r.keys)
}

// Clear drops every bucket.
func (r *Registry[R]) Clear() {
	r.buckets = make(map[any][]R)
	r.keys = nil
}

func (r *Registry[R]) ensure(token any) {
	if _, ok := r.buckets[token]; !ok {
		r.buckets[token] = nil
		r.keys = append(r.keys, token)
	}
}
