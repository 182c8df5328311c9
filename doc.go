// Package prefs implements a validated, persistent, reactive preference
// store: a process-local map of string keys to typed value cells that
// survive restarts through a pluggable persistence backend.
//
// Responsibilities:
//   - Schema[T] validates untyped decoded data and produces a typed value;
//     implementations range from primitive checks to CEL, expr, JS and CUE
//     predicates.
//   - Registry owns one reactive cell per key and guarantees a single
//     store instance per key for the registry's lifetime.
//   - Create seeds a store from the backend, falling back to the caller's
//     default and self-healing corrupted entries.
//
// Data flow:
//
//	backend.Get -> Schema.Validate -> cell -> Store.Set -> backend.Set -> subscribers
//
// The in-memory cell is authoritative while the process runs; the backend
// entry is its durable projection, refreshed on every Set. Backend
// failures degrade durability, never correctness: they are reported to
// the configured StoreLogger and activity hooks, and the caller of Set is
// not interrupted.
package prefs
