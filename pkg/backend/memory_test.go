package backend

import (
	"errors"
	"testing"
)

func TestMemoryAbsentKey(t *testing.T) {
	mem := NewMemory()
	raw, ok, err := mem.Get("missing")
	if err != nil || ok || raw != nil {
		t.Fatalf("expected absent entry, got %v %v %v", raw, ok, err)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	mem := NewMemory()
	if err := mem.Set("k", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := mem.Set("k", []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	raw, ok, err := mem.Get("k")
	if err != nil || !ok {
		t.Fatalf("get: %v %v", ok, err)
	}
	if string(raw) != "v2" {
		t.Fatalf("expected latest write, got %q", raw)
	}
	if mem.Len() != 1 {
		t.Fatalf("expected one entry, got %d", mem.Len())
	}
}

func TestMemoryCopiesSlices(t *testing.T) {
	mem := NewMemory()
	input := []byte("original")
	if err := mem.Set("k", input); err != nil {
		t.Fatalf("set: %v", err)
	}
	input[0] = 'X'

	raw, _, _ := mem.Get("k")
	if string(raw) != "original" {
		t.Fatalf("stored entry aliased caller slice: %q", raw)
	}
	raw[0] = 'Y'
	again, _, _ := mem.Get("k")
	if string(again) != "original" {
		t.Fatalf("returned entry aliased stored slice: %q", again)
	}
}

func TestMemoryRejectsEmptyKey(t *testing.T) {
	mem := NewMemory()
	if _, _, err := mem.Get(""); !errors.Is(err, ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
	if err := mem.Set("", nil); !errors.Is(err, ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
}
