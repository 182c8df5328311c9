package prefs

import (
	"errors"
	"fmt"
)

var ErrKeyRequired = errors.New("prefs: store key is required")

var ErrSchemaRequired = errors.New("prefs: schema is required")

var ErrRegistryRequired = errors.New("prefs: registry is required")

// ErrTypeMismatch reports a Create call whose type parameter disagrees
// with the store already registered under the same key.
var ErrTypeMismatch = errors.New("prefs: store registered with a different value type")

// ValidationError captures schema metadata alongside the originating error.
type ValidationError struct {
	Schema string
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("prefs: %s schema: %v", e.Schema, e.Err)
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalidf(schema, format string, args ...any) error {
	return &ValidationError{
		Schema: schema,
		Err:    fmt.Errorf(format, args...),
	}
}

func wrapValidationError(schema string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Schema == "" {
			ve.Schema = schema
		}
		return err
	}
	return &ValidationError{Schema: schema, Err: err}
}
