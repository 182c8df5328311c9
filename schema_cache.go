package prefs

// ProgramCache stores compiled predicate programs keyed by their source
// text, letting multiple schemas share one compilation.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}
