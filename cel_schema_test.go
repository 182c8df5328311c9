package prefs

import (
	"testing"
)

type mapCache struct {
	entries map[string]any
	hits    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]any{}}
}

func (c *mapCache) Get(key string) (any, bool) {
	value, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return value, ok
}

func (c *mapCache) Set(key string, value any) {
	c.entries[key] = value
}

func TestCELSchemaAcceptsAndRejects(t *testing.T) {
	schema := CELSchema[bool]("type(value) == bool")

	value, err := schema.Validate(true)
	if err != nil || !value {
		t.Fatalf("expected true, got %v (%v)", value, err)
	}
	if _, err := schema.Validate("nope"); !IsValidationError(err) {
		t.Fatalf("expected rejection for string, got %v", err)
	}
	if _, err := schema.Validate(nil); !IsValidationError(err) {
		t.Fatalf("expected rejection for nil, got %v", err)
	}
}

func TestCELSchemaNumericPredicate(t *testing.T) {
	schema := CELSchema[float64]("type(value) == double && value >= 0.0 && value <= 1.0")

	if value, err := schema.Validate(0.5); err != nil || value != 0.5 {
		t.Fatalf("expected 0.5, got %v (%v)", value, err)
	}
	if _, err := schema.Validate(1.5); !IsValidationError(err) {
		t.Fatalf("expected out-of-range rejection, got %v", err)
	}
}

func TestCELSchemaEmptyExpression(t *testing.T) {
	if _, err := CELSchema[bool]("").Validate(true); !IsValidationError(err) {
		t.Fatalf("expected empty expression error, got %v", err)
	}
}

func TestCELSchemaCompileError(t *testing.T) {
	if _, err := CELSchema[bool]("value ==").Validate(true); !IsValidationError(err) {
		t.Fatalf("expected compile error, got %v", err)
	}
}

func TestCELSchemaNonBoolResult(t *testing.T) {
	if _, err := CELSchema[string]("'hello'").Validate("x"); !IsValidationError(err) {
		t.Fatalf("expected non-bool predicate error, got %v", err)
	}
}

func TestCELSchemaFunctionRegistry(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("nonempty", func(args ...any) (any, error) {
		if len(args) != 1 {
			return false, nil
		}
		s, ok := args[0].(string)
		return ok && s != "", nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	schema := CELSchema[string](`call("nonempty", value)`, CELWithFunctionRegistry(registry))
	if value, err := schema.Validate("ok"); err != nil || value != "ok" {
		t.Fatalf("expected ok, got %q (%v)", value, err)
	}
	if _, err := schema.Validate(""); !IsValidationError(err) {
		t.Fatalf("expected empty string rejection, got %v", err)
	}
}

func TestCELSchemaFunctionRegistryMultipleArgs(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("atmost", func(args ...any) (any, error) {
		if len(args) != 2 {
			return false, nil
		}
		value, ok1 := args[0].(float64)
		limit, ok2 := args[1].(int64)
		return ok1 && ok2 && value <= float64(limit), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	schema := CELSchema[float64](`call("atmost", value, 100)`, CELWithFunctionRegistry(registry))
	if value, err := schema.Validate(42.0); err != nil || value != 42.0 {
		t.Fatalf("expected 42, got %v (%v)", value, err)
	}
	if _, err := schema.Validate(250.0); !IsValidationError(err) {
		t.Fatalf("expected rejection above limit, got %v", err)
	}
}

func TestCELSchemaProgramCache(t *testing.T) {
	cache := newMapCache()
	schema := CELSchema[bool]("type(value) == bool", CELWithProgramCache(cache))

	if _, err := schema.Validate(true); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, err := schema.Validate(false); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cache.hits == 0 {
		t.Fatalf("expected the second validation to reuse the compiled program")
	}
}
