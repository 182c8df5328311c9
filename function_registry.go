package prefs

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Function is a callable exposed to predicate schemas (CEL, expr, JS).
type Function func(args ...any) (any, error)

// FunctionRegistry holds the functions a predicate schema may invoke.
// Lookup is case-insensitive: names are normalized on the way in, so
// call("NonEmpty", v) and call("nonempty", v) hit the same entry.
// A nil *FunctionRegistry is usable and behaves as empty.
type FunctionRegistry struct {
	mu      sync.RWMutex
	entries map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{entries: map[string]Function{}}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register stores fn under name. Re-registering a name is an error;
// schemas cache compiled programs, so silently swapping a function
// under them would be surprising.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := normalizeName(name)
	if key == "" {
		return fmt.Errorf("prefs: function name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("prefs: function %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = map[string]Function{}
	}
	if _, taken := r.entries[key]; taken {
		return fmt.Errorf("prefs: function %q already registered", name)
	}
	r.entries[key] = fn
	return nil
}

// Call invokes the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	var fn Function
	if r != nil {
		r.mu.RLock()
		fn = r.entries[normalizeName(name)]
		r.mu.RUnlock()
	}
	if fn == nil {
		return nil, fmt.Errorf("prefs: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns the normalized registered names in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.entries))
}

// Clone returns an independent copy. Schemas clone the registry they
// are configured with, so later Register calls on the original do not
// change what an already-built schema can see.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &FunctionRegistry{entries: maps.Clone(r.entries)}
}
