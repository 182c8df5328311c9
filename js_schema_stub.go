//go:build !js_eval

package prefs

// JSSchema rejects every value unless the module is built with the
// js_eval tag.
func JSSchema[T any](expression string, opts ...JSSchemaOption) Schema[T] {
	_ = applyJSSchemaOptions(opts)
	return SchemaFunc[T](func(any) (T, error) {
		var zero T
		return zero, invalidf("js", "unavailable without the js_eval build tag")
	})
}

func jsSchemaAvailable() bool {
	return false
}
