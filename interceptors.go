package syringe

import (
	"sync"

	"github.com/junioryono/syringe/internal/registry"
)

// ResolutionType tells an interceptor which call triggered it.
type ResolutionType int

const (
	// Single is a Resolve call.
	Single ResolutionType = iota
	// All is a ResolveAll call.
	All
)

func (t ResolutionType) String() string {
	if t == All {
		return "All"
	}
	return "Single"
}

// Frequency controls how often an interceptor runs.
type Frequency int

const (
	// Always runs the interceptor on every resolution of its token.
	Always Frequency = iota
	// Once runs the interceptor on the next resolution and then removes it.
	Once
)

// BeforeHook runs before a token is resolved.
type BeforeHook func(token any, resolutionType ResolutionType)

// AfterHook runs after a token is resolved. For ResolveAll, result is []any.
type AfterHook func(token any, result any, resolutionType ResolutionType)

// An InterceptorOption configures BeforeResolution and AfterResolution.
type InterceptorOption interface {
	applyInterceptorOption(*interceptor)
}

// WithFrequency sets how often the interceptor runs. The default is Always.
func WithFrequency(f Frequency) InterceptorOption {
	return frequencyOption(f)
}

type frequencyOption Frequency

func (o frequencyOption) applyInterceptorOption(i *interceptor) {
	i.frequency = Frequency(o)
}

type interceptor struct {
	before    BeforeHook
	after     AfterHook
	frequency Frequency
}

// interceptors stores hooks per token. A container owns one set; child
// containers start empty.
type interceptors struct {
	mu     sync.Mutex
	before *registry.Registry[*interceptor]
	after  *registry.Registry[*interceptor]
}

func newInterceptors() *interceptors {
	return &interceptors{
		before: registry.New[*interceptor](),
		after:  registry.New[*interceptor](),
	}
}

func (s *interceptors) addBefore(token any, hook BeforeHook, opts []InterceptorOption) {
	i := &interceptor{before: hook}
	for _, opt := range opts {
		opt.applyInterceptorOption(i)
	}

	s.mu.Lock()
	s.before.Set(token, i)
	s.mu.Unlock()
}

func (s *interceptors) addAfter(token any, hook AfterHook, opts []InterceptorOption) {
	i := &interceptor{after: hook}
	for _, opt := range opts {
		opt.applyInterceptorOption(i)
	}

	s.mu.Lock()
	s.after.Set(token, i)
	s.mu.Unlock()
}

// take returns the hooks for token and drops the Once hooks among them.
func (s *interceptors) take(r *registry.Registry[*interceptor], token any) []*interceptor {
	s.mu.Lock()
	defer s.mu.Unlock()

	hooks := r.Lookup(token)
	if len(hooks) == 0 {
		return nil
	}

	remaining := make([]*interceptor, 0, len(hooks))
	for _, h := range hooks {
		if h.frequency != Once {
			remaining = append(remaining, h)
		}
	}

	if len(remaining) != len(hooks) {
		r.SetAll(token, remaining)
	}

	return hooks
}

func (s *interceptors) runBefore(token any, rt ResolutionType) {
	for _, h := range s.take(s.before, token) {
		h.before(token, rt)
	}
}

func (s *interceptors) runAfter(token any, result any, rt ResolutionType) {
	for _, h := range s.take(s.after, token) {
		h.after(token, result, rt)
	}
}

func (s *interceptors) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.before.Clear()
	s.after.Clear()
}
