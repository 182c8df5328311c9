package prefs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/goliatone/go-prefstore/pkg/activity"
)

// Store is a typed, persistent, reactive value cell identified by a
// globally unique key. Its current value always satisfies the schema it
// was created with. Instances live for the owning registry's lifetime.
type Store[T any] struct {
	key      string
	registry *Registry
	cell     *cell[T]
}

// Key returns the store's registry key.
func (s *Store[T]) Key() string {
	return s.key
}

// Get returns the current value. It never blocks on the backend.
func (s *Store[T]) Get() T {
	return s.cell.get()
}

// Set updates the current value, writes it through the backend, then
// notifies subscribers in registration order. The value is not
// re-validated: the type parameter carries the schema's shape, and
// callers own any finer invariants. A failed backend write is reported
// to the registry's logger and hooks; the in-memory value stays
// authoritative for the running process.
func (s *Store[T]) Set(value T) {
	s.cell.set(value)
}

// Subscribe registers fn and immediately replays the current value to
// it. The returned handle removes the subscription; calling it twice is
// a no-op.
func (s *Store[T]) Subscribe(fn func(T)) Unsubscribe {
	return s.cell.subscribe(fn)
}

// Create returns the store for key, building it on first call.
//
// The first registration wins: later calls with the same key return the
// existing store and ignore their default and schema. On first call the
// backend entry is read and validated; a missing entry seeds the cell
// with defaultValue (without persisting it), while an invalid entry
// seeds the default and immediately rewrites the backend entry so it
// stops failing validation on every process start.
//
// Errors are returned only for caller bugs (nil registry, empty key,
// nil schema, or a key already registered with a different type);
// backend and validation failures degrade to the default value and are
// reported through the registry's logger and hooks.
func Create[T any](r *Registry, key string, defaultValue T, schema Schema[T]) (*Store[T], error) {
	if r == nil {
		return nil, ErrRegistryRequired
	}
	if key == "" {
		return nil, ErrKeyRequired
	}
	if schema == nil {
		return nil, ErrSchemaRequired
	}

	start := time.Now()
	r.mu.Lock()
	if existing, ok := r.stores[key]; ok {
		r.mu.Unlock()
		store, ok := existing.(*Store[T])
		if !ok {
			return nil, fmt.Errorf("%w: key %q", ErrTypeMismatch, key)
		}
		return store, nil
	}

	// Seeding runs under the registry lock, so log events are collected
	// and emitted after unlock; a logger may call back into the
	// registry.
	var seedLog []StoreLogEvent
	collect := func(ev StoreLogEvent) { seedLog = append(seedLog, ev) }

	initial, healed := seedValue(r, key, defaultValue, schema, collect)
	store := &Store[T]{key: key, registry: r}
	store.cell = newCell(initial, func(value T) {
		persistValue(r, key, value)
	})
	r.stores[key] = store
	r.mu.Unlock()

	for _, ev := range seedLog {
		r.logEvent(ev)
	}
	r.logEvent(StoreLogEvent{Op: OpCreate, Key: key, Duration: time.Since(start)})
	r.notifyHooks(activity.BuildStoreCreatedEvent(activity.StoreEventInput{Key: key, NewValue: initial}))
	if healed {
		r.notifyHooks(activity.BuildEntryHealedEvent(activity.StoreEventInput{Key: key, NewValue: defaultValue}))
	}
	return store, nil
}

// seedValue resolves the initial value for key: the validated persisted
// entry when present, the default otherwise. The second result reports
// whether a corrupted entry was healed. Log events go through the
// supplied collector because the caller holds the registry lock.
func seedValue[T any](r *Registry, key string, defaultValue T, schema Schema[T], log func(StoreLogEvent)) (T, bool) {
	start := time.Now()
	raw, ok, err := r.backend.Get(key)
	if err != nil {
		// unreadable storage is treated the same as an absent entry
		log(StoreLogEvent{Op: OpBackendRead, Key: key, Duration: time.Since(start), Err: err})
		return defaultValue, false
	}
	if !ok {
		return defaultValue, false
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log(StoreLogEvent{Op: OpValidate, Key: key, Err: fmt.Errorf("prefs: decode persisted entry: %w", err)})
		healEntry(r, key, defaultValue, log)
		return defaultValue, true
	}
	value, err := schema.Validate(decoded)
	if err != nil {
		log(StoreLogEvent{Op: OpValidate, Key: key, Err: err})
		healEntry(r, key, defaultValue, log)
		return defaultValue, true
	}
	return value, false
}

// healEntry overwrites a corrupted backend entry with the serialized
// default so it does not keep failing validation on future starts.
func healEntry[T any](r *Registry, key string, defaultValue T, log func(StoreLogEvent)) {
	data, err := json.Marshal(defaultValue)
	if err != nil {
		log(StoreLogEvent{Op: OpSelfHeal, Key: key, Err: err})
		return
	}
	if err := r.backend.Set(key, data); err != nil {
		log(StoreLogEvent{Op: OpSelfHeal, Key: key, Err: err})
		return
	}
	log(StoreLogEvent{Op: OpSelfHeal, Key: key})
}

// persistValue refreshes the durable projection of the cell's value.
// Failures are reported once and not retried; the caller of Set is never
// interrupted.
func persistValue[T any](r *Registry, key string, value T) {
	start := time.Now()
	data, err := json.Marshal(value)
	if err != nil {
		r.logEvent(StoreLogEvent{Op: OpBackendWrite, Key: key, Err: err})
		r.notifyHooks(activity.BuildWriteFailedEvent(activity.StoreEventInput{Key: key, NewValue: value}, err))
		return
	}
	if err := r.backend.Set(key, data); err != nil {
		r.logEvent(StoreLogEvent{Op: OpBackendWrite, Key: key, Duration: time.Since(start), Err: err})
		r.notifyHooks(activity.BuildWriteFailedEvent(activity.StoreEventInput{Key: key, NewValue: value}, err))
		return
	}
	r.logEvent(StoreLogEvent{Op: OpBackendWrite, Key: key, Duration: time.Since(start)})
	r.notifyHooks(activity.BuildValueSetEvent(activity.StoreEventInput{Key: key, NewValue: value}))
}
