package override_eval

// Environment holds the bindings accumulated while evaluating override
// statements. A fresh one is created per evaluation call, with the builtin
// whitelist as the outer scope.
type Environment struct {
	store map[string]any
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]any)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Get(name string) (any, bool) {
	value, ok := e.store[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return value, ok
}

func (e *Environment) Set(name string, value any) {
	e.store[name] = value
}
