// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about fold-engine activity, constraint
// resolution, and store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetFoldHooks(&myFoldHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Fold().OnViewportApplied(ctx, modelID, changed, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Fold Hooks
// =============================================================================

// FoldHooks receives events from the region fold engine.
type FoldHooks interface {
	// OnDepthMapBuilt records a depth-map construction: how many regions
	// were created and how long the build took. A failed build reports
	// zero regions and a non-nil error.
	OnDepthMapBuilt(ctx context.Context, modelID string, regions int, duration time.Duration, err error)

	// OnViewportApplied records one expand/collapse pass: how many regions
	// changed state and how long the pass took.
	OnViewportApplied(ctx context.Context, modelID string, changed int, duration time.Duration)
}

// =============================================================================
// Resolve Hooks
// =============================================================================

// ResolveHooks receives events from drag-constraint resolution.
type ResolveHooks interface {
	// OnResolve records one resolved move: the action kind produced
	// ("refreshDiagram" for snap-backs) and the resolution time.
	OnResolve(ctx context.Context, modelID, nodeID, actionKind string, duration time.Duration)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from constraint-store operations.
type StoreHooks interface {
	// OnStoreGet records a read. found is false for absent sets.
	OnStoreGet(ctx context.Context, backend string, found bool, err error)

	// OnStorePut records a write of a constraint set with the given number
	// of records.
	OnStorePut(ctx context.Context, backend string, records int, err error)

	// OnStoreDelete records a deletion.
	OnStoreDelete(ctx context.Context, backend string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFoldHooks is a no-op implementation of FoldHooks.
type NoopFoldHooks struct{}

func (NoopFoldHooks) OnDepthMapBuilt(context.Context, string, int, time.Duration, error) {}
func (NoopFoldHooks) OnViewportApplied(context.Context, string, int, time.Duration)      {}

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnResolve(context.Context, string, string, string, time.Duration) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreGet(context.Context, string, bool, error) {}
func (NoopStoreHooks) OnStorePut(context.Context, string, int, error)  {}
func (NoopStoreHooks) OnStoreDelete(context.Context, string, error)    {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	foldHooks    FoldHooks    = NoopFoldHooks{}
	resolveHooks ResolveHooks = NoopResolveHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	hooksMu      sync.RWMutex
)

// SetFoldHooks registers custom fold hooks.
// This should be called once at application startup before any fold operations.
func SetFoldHooks(h FoldHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		foldHooks = h
	}
}

// SetResolveHooks registers custom resolve hooks.
// This should be called once at application startup before any resolutions.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Fold returns the registered fold hooks.
func Fold() FoldHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return foldHooks
}

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	foldHooks = NoopFoldHooks{}
	resolveHooks = NoopResolveHooks{}
	storeHooks = NoopStoreHooks{}
}
