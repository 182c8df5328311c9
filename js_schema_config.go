package prefs

type jsSchemaConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// JSSchemaOption configures a JS predicate schema.
type JSSchemaOption func(*jsSchemaConfig)

// JSWithProgramCache wires a ProgramCache into the schema.
func JSWithProgramCache(cache ProgramCache) JSSchemaOption {
	return func(cfg *jsSchemaConfig) {
		cfg.cache = cache
	}
}

// JSWithFunctionRegistry exposes registry functions to the predicate.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSSchemaOption {
	return func(cfg *jsSchemaConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

func applyJSSchemaOptions(opts []JSSchemaOption) jsSchemaConfig {
	cfg := jsSchemaConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
