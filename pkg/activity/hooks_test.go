package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeEventFillsIdentifiers(t *testing.T) {
	event := NormalizeEvent(Event{Verb: " store.created ", Key: " app.theme "})

	if event.Verb != "store.created" || event.Key != "app.theme" {
		t.Fatalf("expected trimmed identifiers, got %+v", event)
	}
	if _, err := uuid.Parse(event.ID); err != nil {
		t.Fatalf("expected generated uuid, got %q (%v)", event.ID, err)
	}
	if event.OccurredAt.IsZero() {
		t.Fatalf("expected timestamp to be filled")
	}
}

func TestNormalizeEventKeepsExplicitFields(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	event := NormalizeEvent(Event{ID: "fixed", Verb: "v", Key: "k", OccurredAt: at})
	if event.ID != "fixed" || !event.OccurredAt.Equal(at) {
		t.Fatalf("expected explicit fields preserved, got %+v", event)
	}
}

func TestHooksFanOutInOrder(t *testing.T) {
	var order []string
	hooks := Hooks{
		HookFunc(func(_ context.Context, _ Event) error {
			order = append(order, "first")
			return nil
		}),
		nil,
		HookFunc(func(_ context.Context, _ Event) error {
			order = append(order, "second")
			return nil
		}),
	}

	if err := hooks.Notify(context.Background(), Event{Verb: "v", Key: "k"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected ordered fan-out, got %v", order)
	}
}

func TestHooksJoinErrors(t *testing.T) {
	errOne := errors.New("sink one down")
	errTwo := errors.New("sink two down")
	hooks := Hooks{
		HookFunc(func(context.Context, Event) error { return errOne }),
		HookFunc(func(context.Context, Event) error { return errTwo }),
	}

	err := hooks.Notify(context.Background(), Event{Verb: "v", Key: "k"})
	if !errors.Is(err, errOne) || !errors.Is(err, errTwo) {
		t.Fatalf("expected both errors joined, got %v", err)
	}
}

func TestHooksDropIncompleteEvents(t *testing.T) {
	var called bool
	hooks := Hooks{HookFunc(func(context.Context, Event) error {
		called = true
		return nil
	})}

	if err := hooks.Notify(context.Background(), Event{Verb: "v"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := hooks.Notify(context.Background(), Event{Key: "k"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if called {
		t.Fatalf("expected events without verb+key to be dropped")
	}
}

func TestBuildWriteFailedEventCarriesError(t *testing.T) {
	event := BuildWriteFailedEvent(StoreEventInput{Key: "k", NewValue: 7}, errors.New("disk on fire"))
	if event.Verb != "store.write.failed" {
		t.Fatalf("unexpected verb %q", event.Verb)
	}
	if event.Metadata["error"] != "disk on fire" {
		t.Fatalf("expected error metadata, got %v", event.Metadata)
	}
	if event.Metadata["new_value"] != 7 {
		t.Fatalf("expected new value metadata, got %v", event.Metadata)
	}
}

func TestBuildEventsDoNotAliasMetadata(t *testing.T) {
	metadata := map[string]any{"origin": "ui"}
	event := BuildValueSetEvent(StoreEventInput{Key: "k", NewValue: 1, Metadata: metadata})
	event.Metadata["origin"] = "mutated"
	if metadata["origin"] != "ui" {
		t.Fatalf("expected caller metadata untouched, got %v", metadata)
	}
}
