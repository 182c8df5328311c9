package prefs

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-prefstore/pkg/activity"
	"github.com/goliatone/go-prefstore/pkg/backend"
)

// Registry owns the process-wide map from store key to store instance.
// It exists for the process's lifetime with no explicit teardown; tests
// can construct isolated registries over throwaway backends.
type Registry struct {
	backend backend.Backend
	cfg     registryConfig

	mu     sync.Mutex
	stores map[string]registeredStore
}

type registeredStore interface {
	Key() string
}

// NewRegistry constructs a registry over b. A nil backend falls back to
// an in-memory one, which keeps values for the registry's lifetime only.
func NewRegistry(b backend.Backend, opts ...Option) *Registry {
	if b == nil {
		b = backend.NewMemory()
	}
	return &Registry{
		backend: b,
		cfg:     applyOptions(opts),
		stores:  map[string]registeredStore{},
	}
}

// Len reports the number of registered stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Keys returns the registered store keys sorted alphabetically.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.stores))
	for key := range r.stores {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) logEvent(event StoreLogEvent) {
	r.cfg.logger.LogStoreEvent(event)
}

func (r *Registry) notifyHooks(event activity.Event) {
	if !r.cfg.hooks.Enabled() {
		return
	}
	if err := r.cfg.hooks.Notify(context.Background(), event); err != nil {
		r.logEvent(StoreLogEvent{Op: OpActivity, Key: event.Key, Err: err})
	}
}
