//go:build js_eval

package prefs

import (
	"fmt"

	"github.com/dop251/goja"
)

// JSSchema returns a schema backed by goja: the JavaScript expression is
// evaluated with the decoded value bound as "value" and must return
// true for the value to be accepted. Accepted values are coerced into T.
func JSSchema[T any](expression string, opts ...JSSchemaOption) Schema[T] {
	cfg := applyJSSchemaOptions(opts)
	return &jsSchema[T]{
		expression: expression,
		cache:      cfg.cache,
		registry:   cfg.registry,
	}
}

type jsSchema[T any] struct {
	expression string
	cache      ProgramCache
	registry   *FunctionRegistry
}

func (s *jsSchema[T]) Validate(raw any) (T, error) {
	var zero T
	if s.expression == "" {
		return zero, invalidf("js", "expression must not be empty")
	}
	program, err := s.loadOrCompile()
	if err != nil {
		return zero, wrapValidationError("js", err)
	}
	vm := goja.New()
	s.injectContext(vm, raw)
	result, err := vm.RunProgram(program)
	if err != nil {
		return zero, wrapValidationError("js", err)
	}
	accepted, ok := result.Export().(bool)
	if !ok {
		return zero, invalidf("js", "predicate %q did not produce a bool", s.expression)
	}
	if !accepted {
		return zero, invalidf("js", "value rejected by predicate %q", s.expression)
	}
	return coerce[T]("js", raw)
}

func (s *jsSchema[T]) loadOrCompile() (*goja.Program, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(s.expression); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", wrapJSExpression(s.expression), false)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(s.expression, program)
	}
	return program, nil
}

func (s *jsSchema[T]) injectContext(vm *goja.Runtime, raw any) {
	vm.Set("value", raw)
	if s.registry != nil {
		vm.Set("call", func(name string, arguments ...any) (any, error) {
			return s.registry.Call(name, arguments...)
		})
		for _, name := range s.registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return s.registry.Call(fn, arguments...)
			})
		}
	}
}

func wrapJSExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}

func jsSchemaAvailable() bool {
	return true
}
