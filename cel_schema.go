package prefs

import (
	"time"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELSchemaOption configures a CEL predicate schema.
type CELSchemaOption func(*celSchemaConfig)

type celSchemaConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// CELWithProgramCache wires a ProgramCache into the schema.
func CELWithProgramCache(cache ProgramCache) CELSchemaOption {
	return func(cfg *celSchemaConfig) {
		cfg.cache = cache
	}
}

// CELWithFunctionRegistry exposes registry functions to the predicate
// through call("name", args...).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELSchemaOption {
	return func(cfg *celSchemaConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

// CELSchema returns a schema that accepts raw when the cel-go expression
// evaluates to true with the decoded value bound as "value". Accepted
// values are coerced into T.
func CELSchema[T any](expression string, opts ...CELSchemaOption) Schema[T] {
	cfg := celSchemaConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &celSchema[T]{
		expression: expression,
		cache:      cfg.cache,
		registry:   cfg.registry,
	}
}

type celSchema[T any] struct {
	expression string
	cache      ProgramCache
	registry   *FunctionRegistry
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

func (s *celSchema[T]) Validate(raw any) (T, error) {
	var zero T
	if s.expression == "" {
		return zero, invalidf("cel", "expression must not be empty")
	}
	program, err := s.loadOrCompile()
	if err != nil {
		return zero, wrapValidationError("cel", err)
	}
	out, _, err := program.program.Eval(s.activation(raw))
	if err != nil {
		return zero, wrapValidationError("cel", err)
	}
	accepted, ok := out.Value().(bool)
	if !ok {
		return zero, invalidf("cel", "predicate %q did not produce a bool", s.expression)
	}
	if !accepted {
		return zero, invalidf("cel", "value rejected by predicate %q", s.expression)
	}
	return coerce[T]("cel", raw)
}

func (s *celSchema[T]) loadOrCompile() (*celProgram, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(s.expression); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := s.buildEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(s.expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, err
	}

	bundle := &celProgram{env: env, program: prg}
	if s.cache != nil {
		s.cache.Set(s.expression, bundle)
	}
	return bundle, nil
}

func (s *celSchema[T]) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("value", celgo.DynType),
		celgo.Variable("now", celgo.TimestampType),
	}
	if s.registry != nil {
		// cel-go has no variadic overloads; declare one per arity so
		// call("name"), call("name", value) etc. all type-check.
		binding := celgo.FunctionBinding(s.callBinding())
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string",
				[]*celgo.Type{celgo.StringType}, celgo.DynType, binding),
			celgo.Overload("call_string_dyn",
				[]*celgo.Type{celgo.StringType, celgo.DynType}, celgo.DynType, binding),
			celgo.Overload("call_string_dyn_dyn",
				[]*celgo.Type{celgo.StringType, celgo.DynType, celgo.DynType}, celgo.DynType, binding),
		))
	}
	return celgo.NewEnv(opts...)
}

func (s *celSchema[T]) activation(raw any) map[string]any {
	return map[string]any{
		"value": raw,
		"now":   time.Now(),
	}
}

func (s *celSchema[T]) callBinding() func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		if s.registry == nil {
			return types.NewErr("prefs: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("prefs: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("prefs: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := s.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
