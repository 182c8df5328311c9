package activity

import "time"

// StoreEventInput describes the common fields for store lifecycle events.
type StoreEventInput struct {
	Key        string
	OldValue   any
	NewValue   any
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildStoreCreatedEvent constructs an event for a store's first registration.
func BuildStoreCreatedEvent(input StoreEventInput) Event {
	return buildStoreEvent("store.created", input)
}

// BuildValueSetEvent constructs an event for a successful set and persist.
func BuildValueSetEvent(input StoreEventInput) Event {
	return buildStoreEvent("store.value.set", input)
}

// BuildEntryHealedEvent constructs an event for a corrupted entry
// overwritten with the store default.
func BuildEntryHealedEvent(input StoreEventInput) Event {
	return buildStoreEvent("store.entry.healed", input)
}

// BuildWriteFailedEvent constructs an event for a persistence write that
// failed while the in-memory value stayed authoritative.
func BuildWriteFailedEvent(input StoreEventInput, err error) Event {
	event := buildStoreEvent("store.write.failed", input)
	if err != nil {
		event.Metadata = ensureMetadata(event.Metadata)
		event.Metadata["error"] = err.Error()
	}
	return event
}

func buildStoreEvent(verb string, input StoreEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}
	return Event{
		Verb:       verb,
		Key:        input.Key,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
