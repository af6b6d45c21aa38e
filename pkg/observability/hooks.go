// Package observability provides hooks for metrics, tracing, and logging.
//
// The engine, the render pipeline, the cache and the HTTP server emit events
// through hook interfaces without depending on a specific observability
// backend. Consumers register implementations at startup; until then every
// hook is a no-op.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetUpdateHooks(&myUpdateHooks{})
//	    observability.SetTransitionHooks(&myTransitionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Update().OnUpdateStart(ctx, instanceID, len(data))
//	// ... run the update pass ...
//	observability.Update().OnUpdateComplete(ctx, instanceID, stats, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Update Hooks
// =============================================================================

// UpdateStats summarizes one update pass.
type UpdateStats struct {
	Entering    int
	Updating    int
	Exiting     int
	Commands    int
	Diagnostics int
}

// UpdateHooks receives events from chart update passes.
type UpdateHooks interface {
	OnUpdateStart(ctx context.Context, instance string, datums int)
	OnUpdateComplete(ctx context.Context, instance string, stats UpdateStats, duration time.Duration, err error)
}

// =============================================================================
// Transition Hooks
// =============================================================================

// TransitionHooks receives events from the transition engine. Transitions run
// on host ticks outside any request, so these hooks take no context.
type TransitionHooks interface {
	OnTransitionStart(key, phase string, duration time.Duration)
	OnTransitionCancel(key, phase string)
	OnTransitionComplete(key, phase string)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the render pipeline.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the render server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopUpdateHooks is a no-op implementation of UpdateHooks.
type NoopUpdateHooks struct{}

func (NoopUpdateHooks) OnUpdateStart(context.Context, string, int) {}
func (NoopUpdateHooks) OnUpdateComplete(context.Context, string, UpdateStats, time.Duration, error) {
}

// NoopTransitionHooks is a no-op implementation of TransitionHooks.
type NoopTransitionHooks struct{}

func (NoopTransitionHooks) OnTransitionStart(string, string, time.Duration) {}
func (NoopTransitionHooks) OnTransitionCancel(string, string)               {}
func (NoopTransitionHooks) OnTransitionComplete(string, string)             {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopRenderHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	updateHooks     UpdateHooks     = NoopUpdateHooks{}
	transitionHooks TransitionHooks = NoopTransitionHooks{}
	renderHooks     RenderHooks     = NoopRenderHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	httpHooks       HTTPHooks       = NoopHTTPHooks{}
	hooksMu         sync.RWMutex
)

// SetUpdateHooks registers custom update hooks.
func SetUpdateHooks(h UpdateHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		updateHooks = h
	}
}

// SetTransitionHooks registers custom transition hooks.
func SetTransitionHooks(h TransitionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transitionHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Update returns the registered update hooks.
func Update() UpdateHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return updateHooks
}

// Transition returns the registered transition hooks.
func Transition() TransitionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transitionHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	updateHooks = NoopUpdateHooks{}
	transitionHooks = NoopTransitionHooks{}
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
