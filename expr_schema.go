package prefs

import (
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprSchemaOption configures an expr predicate schema.
type ExprSchemaOption func(*exprSchemaConfig)

type exprSchemaConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// ExprWithProgramCache wires a ProgramCache into the schema.
func ExprWithProgramCache(cache ProgramCache) ExprSchemaOption {
	return func(cfg *exprSchemaConfig) {
		cfg.cache = cache
	}
}

// ExprWithFunctionRegistry exposes registry functions to the predicate,
// both by name and through call("name", args...).
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprSchemaOption {
	return func(cfg *exprSchemaConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

// ExprSchema returns a schema that accepts raw when the expr-lang
// expression evaluates to true with the decoded value bound as "value".
// Accepted values are coerced into T.
func ExprSchema[T any](expression string, opts ...ExprSchemaOption) Schema[T] {
	cfg := exprSchemaConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &exprSchema[T]{
		expression: expression,
		cache:      cfg.cache,
		registry:   cfg.registry,
	}
}

type exprSchema[T any] struct {
	expression string
	cache      ProgramCache
	registry   *FunctionRegistry
}

func (s *exprSchema[T]) Validate(raw any) (T, error) {
	var zero T
	if s.expression == "" {
		return zero, invalidf("expr", "expression must not be empty")
	}
	program, err := s.loadOrCompile()
	if err != nil {
		return zero, wrapValidationError("expr", err)
	}
	result, err := exprlang.Run(program, s.environment(raw))
	if err != nil {
		return zero, wrapValidationError("expr", err)
	}
	accepted, ok := result.(bool)
	if !ok {
		return zero, invalidf("expr", "predicate %q did not produce a bool", s.expression)
	}
	if !accepted {
		return zero, invalidf("expr", "value rejected by predicate %q", s.expression)
	}
	return coerce[T]("expr", raw)
}

func (s *exprSchema[T]) loadOrCompile() (*exprvm.Program, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(s.expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range s.registryNames() {
		options = append(options, exprlang.Function(name, s.registryFunction(name)))
	}
	program, err := exprlang.Compile(s.expression, options...)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(s.expression, program)
	}
	return program, nil
}

func (s *exprSchema[T]) environment(raw any) map[string]any {
	env := map[string]any{
		"value": raw,
		"now":   time.Now(),
	}
	if s.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return s.registry.Call(name, arguments...)
		}
		for _, name := range s.registry.Names() {
			fn := name
			env[fn] = func(arguments ...any) (any, error) {
				return s.registry.Call(fn, arguments...)
			}
		}
	}
	return env
}

func (s *exprSchema[T]) registryNames() []string {
	if s == nil || s.registry == nil {
		return nil
	}
	return s.registry.Names()
}

func (s *exprSchema[T]) registryFunction(name string) func(...any) (any, error) {
	return func(arguments ...any) (any, error) {
		return s.registry.Call(name, arguments...)
	}
}
