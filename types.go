package prefs

import (
	"github.com/goliatone/go-prefstore/pkg/activity"
)

// Schema validates an arbitrary decoded value and produces the typed
// result. Implementations MUST accept any decoded-JSON-shaped input
// (primitives, objects, arrays, nil) without panicking; mismatches are
// reported as a *ValidationError. Validation is pure and side-effect
// free.
type Schema[T any] interface {
	Validate(raw any) (T, error)
}

// SchemaFunc adapts a plain function to the Schema interface.
type SchemaFunc[T any] func(raw any) (T, error)

// Validate implements Schema.
func (f SchemaFunc[T]) Validate(raw any) (T, error) {
	if f == nil {
		var zero T
		return zero, invalidf("func", "schema function is nil")
	}
	return f(raw)
}

// Unsubscribe removes a subscriber registered through Store.Subscribe.
// Calling it more than once is a no-op.
type Unsubscribe func()

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	logger StoreLogger
	hooks  activity.Hooks
}

func applyOptions(opts []Option) registryConfig {
	cfg := registryConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopStoreLogger{}
	}
	return cfg
}

// WithActivityHooks registers hooks notified on store lifecycle events.
func WithActivityHooks(hooks ...activity.Hook) Option {
	return func(cfg *registryConfig) {
		for _, hook := range hooks {
			if hook != nil {
				cfg.hooks = append(cfg.hooks, hook)
			}
		}
	}
}
