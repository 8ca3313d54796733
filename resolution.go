package syringe

import (
	"slices"

	"github.com/google/uuid"
)

// resolutionContext tracks the state of one top-level Resolve or ResolveAll call.
type resolutionContext struct {
	// id identifies the call in logs
	id string

	// scoped holds ResolutionScoped instances, keyed by registration
	scoped *instanceCache

	// aliases is the chain of tokens currently being followed through TokenProviders
	aliases []any

	// root is the first registration dispatched, used to label metrics
	root *Registration

	// writes and tracked record what the call stored in containers, so a failed
	// call can undo it
	writes  []cacheWrite
	tracked []trackedInstance
}

type cacheWrite struct {
	cache *instanceCache
	key   any
	value any
}

type trackedInstance struct {
	manager  *lifecycleManager
	instance any
}

func newResolutionContext() *resolutionContext {
	return &resolutionContext{
		id:     uuid.NewString(),
		scoped: newInstanceCache(),
	}
}

// detach returns a context that shares the scoped instances but starts a new
// alias chain and an empty write log. Deferred handles use it since they may run on another goroutine.
func (ctx *resolutionContext) detach() *resolutionContext {
	return &resolutionContext{
		id:     ctx.id,
		scoped: ctx.scoped,
	}
}

// enterAlias pushes an alias token. It fails when the token is already being followed.
func (ctx *resolutionContext) enterAlias(token any) error {
	if i := slices.Index(ctx.aliases, token); i >= 0 {
		chain := append(slices.Clone(ctx.aliases[i:]), token)
		return &TokenCycleError{Chain: chain}
	}

	ctx.aliases = append(ctx.aliases, token)
	return nil
}

func (ctx *resolutionContext) leaveAlias() {
	ctx.aliases = ctx.aliases[:len(ctx.aliases)-1]
}

// store caches value under key unless another call stored one first.
func (ctx *resolutionContext) store(cache *instanceCache, key, value any) (any, bool) {
	stored, won := cache.setIfAbsent(key, value)
	if won {
		ctx.writes = append(ctx.writes, cacheWrite{cache: cache, key: key, value: value})
	}
	return stored, won
}

func (ctx *resolutionContext) track(m *lifecycleManager, instance any) {
	if m.track(instance) {
		ctx.tracked = append(ctx.tracked, trackedInstance{manager: m, instance: instance})
	}
}

// rollback removes the cache entries and tracked disposables of a failed call,
// newest first. Instances are forgotten, not closed: another caller may already
// hold a cached one.
func (ctx *resolutionContext) rollback() {
	for i := len(ctx.tracked) - 1; i >= 0; i-- {
		ctx.tracked[i].manager.untrack(ctx.tracked[i].instance)
	}
	for i := len(ctx.writes) - 1; i >= 0; i-- {
		w := ctx.writes[i]
		w.cache.deleteIf(w.key, w.value)
	}

	ctx.writes, ctx.tracked = nil, nil
}
