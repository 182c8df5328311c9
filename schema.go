package prefs

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/goliatone/go-prefstore/internal/decode"
)

// Bool returns a schema accepting JSON booleans.
func Bool() Schema[bool] {
	return boolSchema{}
}

// String returns a schema accepting JSON strings.
func String() Schema[string] {
	return stringSchema{}
}

// Int returns a schema accepting integral JSON numbers.
func Int() Schema[int64] {
	return intSchema{}
}

// Float returns a schema accepting any JSON number.
func Float() Schema[float64] {
	return floatSchema{}
}

type boolSchema struct{}

func (boolSchema) Validate(raw any) (bool, error) {
	value, ok := raw.(bool)
	if !ok {
		return false, invalidf("bool", "expected bool, got %s", typeName(raw))
	}
	return value, nil
}

type stringSchema struct{}

func (stringSchema) Validate(raw any) (string, error) {
	value, ok := raw.(string)
	if !ok {
		return "", invalidf("string", "expected string, got %s", typeName(raw))
	}
	return value, nil
}

type intSchema struct{}

func (intSchema) Validate(raw any) (int64, error) {
	switch value := raw.(type) {
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			return 0, invalidf("int", "number %s is not an integer", value.String())
		}
		return parsed, nil
	case float64:
		if value != math.Trunc(value) {
			return 0, invalidf("int", "number %v is not an integer", value)
		}
		return int64(value), nil
	case int:
		return int64(value), nil
	case int64:
		return value, nil
	default:
		return 0, invalidf("int", "expected integer, got %s", typeName(raw))
	}
}

type floatSchema struct{}

func (floatSchema) Validate(raw any) (float64, error) {
	switch value := raw.(type) {
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, invalidf("float", "number %s does not fit float64", value.String())
		}
		return parsed, nil
	case float64:
		return value, nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	default:
		return 0, invalidf("float", "expected number, got %s", typeName(raw))
	}
}

// StructOption configures a Struct schema.
type StructOption[T any] func(*structConfig[T])

type structConfig[T any] struct {
	strict     bool
	postChecks []func(*T) error
}

// StructStrict rejects payload fields the target type does not declare.
func StructStrict[T any]() StructOption[T] {
	return func(cfg *structConfig[T]) {
		cfg.strict = true
	}
}

// StructWithPostCheck runs fn against the decoded value; a returned error
// marks the value invalid.
func StructWithPostCheck[T any](fn func(*T) error) StructOption[T] {
	return func(cfg *structConfig[T]) {
		if fn != nil {
			cfg.postChecks = append(cfg.postChecks, fn)
		}
	}
}

// Struct returns a schema that decodes a JSON object into T. When T (or
// *T) implements Validate() error, the method runs as part of
// validation.
func Struct[T any](opts ...StructOption[T]) Schema[T] {
	cfg := structConfig[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	decOpts := []decode.Option[T]{}
	if cfg.strict {
		decOpts = append(decOpts, decode.WithStrictFields[T]())
	}
	for _, check := range cfg.postChecks {
		decOpts = append(decOpts, decode.WithPostHook[T](check))
	}
	return structSchema[T]{decoder: decode.NewDecoder[T](decOpts...)}
}

type structSchema[T any] struct {
	decoder *decode.Decoder[T]
}

func (s structSchema[T]) Validate(raw any) (T, error) {
	var zero T
	payload, ok := raw.(map[string]any)
	if !ok {
		return zero, invalidf("struct", "expected object, got %s", typeName(raw))
	}
	value, err := s.decoder.Decode(payload)
	if err != nil {
		return zero, wrapValidationError("struct", err)
	}
	if err := validateValue(value); err != nil {
		return zero, wrapValidationError("struct", err)
	}
	return value, nil
}

// validateValue invokes the Validate method on value when present.
func validateValue[T any](value T) error {
	if v, ok := any(value).(interface{ Validate() error }); ok {
		return v.Validate()
	}
	if rv := reflect.ValueOf(&value).Elem(); rv.Kind() != reflect.Pointer {
		if v, ok := rv.Addr().Interface().(interface{ Validate() error }); ok {
			return v.Validate()
		}
	}
	return nil
}

// coerce converts a decoded value the predicate accepted into T, falling
// back to a JSON round-trip for structural types.
func coerce[T any](schema string, raw any) (T, error) {
	if value, ok := raw.(T); ok {
		return value, nil
	}
	var out T
	buffer, err := json.Marshal(raw)
	if err != nil {
		return out, invalidf(schema, "value not representable as JSON: %v", err)
	}
	if err := json.Unmarshal(buffer, &out); err != nil {
		return out, invalidf(schema, "value does not fit %T: %v", out, err)
	}
	return out, nil
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}
