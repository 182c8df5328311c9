// Package decode converts decoded-JSON payloads into strongly typed
// values, with hook points before and after the structural decode.
package decode

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PreHook lets callers normalise the payload before decoding.
type PreHook func(map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the typed value after decoding.
type PostHook[T any] func(*T) error

// Option configures a Decoder instance.
type Option[T any] func(*Decoder[T])

// Decoder converts map payloads into values of type T.
type Decoder[T any] struct {
	preHooks  []PreHook
	postHooks []PostHook[T]
	strict    bool
	useNumber bool
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) Option[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.preHooks = append(d.preHooks, hook)
		}
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) Option[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.postHooks = append(d.postHooks, hook)
		}
	}
}

// WithStrictFields rejects payload fields that T does not declare.
func WithStrictFields[T any]() Option[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

// WithUseNumber decodes numbers as json.Number instead of float64.
func WithUseNumber[T any]() Option[T] {
	return func(d *Decoder[T]) {
		d.useNumber = true
	}
}

func NewDecoder[T any](opts ...Option[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into T applying configured hooks.
func (d *Decoder[T]) Decode(payload map[string]any) (T, error) {
	var zero T

	if payload == nil {
		return zero, fmt.Errorf("decode: payload is nil")
	}

	current := payload
	for _, hook := range d.preHooks {
		next, err := hook(current)
		if err != nil {
			return zero, fmt.Errorf("decode: pre-hook: %w", err)
		}
		if next != nil {
			current = next
		}
	}

	buffer, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("decode: marshal payload: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	if d.strict {
		decoder.DisallowUnknownFields()
	}
	if d.useNumber {
		decoder.UseNumber()
	}
	var result T
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("decode: %w", err)
	}

	for _, hook := range d.postHooks {
		if err := hook(&result); err != nil {
			return zero, fmt.Errorf("decode: post-hook: %w", err)
		}
	}

	return result, nil
}
