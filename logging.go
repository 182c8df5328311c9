package prefs

import "time"

// Store operation identifiers carried on log events.
const (
	OpCreate       = "store.create"
	OpBackendRead  = "backend.read"
	OpBackendWrite = "backend.write"
	OpValidate     = "schema.validate"
	OpSelfHeal     = "entry.heal"
	OpActivity     = "activity.notify"
)

// StoreLogEvent describes a store operation for logging.
type StoreLogEvent struct {
	Op       string
	Key      string
	Duration time.Duration
	Err      error
}

// StoreLogger records store events.
type StoreLogger interface {
	LogStoreEvent(StoreLogEvent)
}

// StoreLoggerFunc adapts a function to StoreLogger.
type StoreLoggerFunc func(StoreLogEvent)

// LogStoreEvent implements StoreLogger.
func (f StoreLoggerFunc) LogStoreEvent(event StoreLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopStoreLogger struct{}

func (noopStoreLogger) LogStoreEvent(StoreLogEvent) {}

// WithStoreLogger attaches a logger to the registry. Failures surfaced
// here are informational: the store never propagates them to callers.
func WithStoreLogger(logger StoreLogger) Option {
	return func(cfg *registryConfig) {
		if logger == nil {
			cfg.logger = noopStoreLogger{}
			return
		}
		cfg.logger = logger
	}
}
