package prefs

import (
	"encoding/json"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// CUESchema returns a schema that accepts raw when it unifies with the
// CUE source (for example "bool", "int & >=0", or a struct definition).
// Accepted values are coerced into T. The source is compiled lazily on
// first use and reused afterwards.
func CUESchema[T any](source string) Schema[T] {
	return &cueSchema[T]{source: source}
}

type cueSchema[T any] struct {
	source string

	once       sync.Once
	ctx        *cue.Context
	constraint cue.Value
	compileErr error
}

func (s *cueSchema[T]) Validate(raw any) (T, error) {
	var zero T
	s.once.Do(func() {
		s.ctx = cuecontext.New()
		value := s.ctx.CompileString(s.source)
		if err := value.Err(); err != nil {
			s.compileErr = err
			return
		}
		s.constraint = value
	})
	if s.compileErr != nil {
		return zero, wrapValidationError("cue", s.compileErr)
	}

	// round-trip through JSON so decoded numbers keep their JSON kind:
	// 42 stays an int, 4.5 stays a float. JSON is a subset of CUE, so
	// the bytes compile directly.
	data, err := json.Marshal(raw)
	if err != nil {
		return zero, invalidf("cue", "value not representable as JSON: %v", err)
	}
	encoded := s.ctx.CompileBytes(data)
	if err := encoded.Err(); err != nil {
		return zero, invalidf("cue", "value not encodable: %v", err)
	}
	unified := s.constraint.Unify(encoded)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return zero, wrapValidationError("cue", err)
	}
	return coerce[T]("cue", raw)
}
