package lox

import "github.com/dolthub/swiss"

// Environment is one frame in the chain of lexical scopes a running
// program walks through. Local frames use a plain map, exactly the way
// the Resolver's own scope stack does, because the Resolver already
// proved each local lookup needs at most a handful of hops. The single
// global frame is different: it is long-lived for the whole run and can
// accumulate every top-level var/fun/class declaration a script defines,
// so it backs onto a swiss-table map instead.
type Environment struct {
	// values uses string for the keys and not Token because token represents
	// a unit of code at a specific place in the source text, but when it comes
	// to variables, all identifier tokens using the same name should refer to
	// the same variable (ignorig scope for now).
	values map[string]interface{}

	// global holds the bindings for the root environment only; every
	// other frame leaves this nil and uses values instead.
	global *swiss.Map[string, interface{}]

	// enclosing works as the parent of this Environment. For the global scope,
	// this should be null breaking the chain. But for each local scope, we must
	// enclose the parent scope.
	enclosing *Environment
}

// NewGlobalEnvironment creates the root environment, the one that holds
// every top-level binding for the life of a run.
func NewGlobalEnvironment() *Environment {
	return &Environment{global: swiss.NewMap[string, interface{}](64)}
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{values: make(map[string]interface{}), enclosing: parent}
}

func (e *Environment) isGlobal() bool {
	return e.global != nil
}

// Define defines a new variable in the current innermost scope.
func (e *Environment) Define(name string, value interface{}) {
	if e.isGlobal() {
		e.global.Put(name, value)
		return
	}

	e.values[name] = value
}

// Get looks up a variable in the environment. It starts by looking into the innermost
// environment and goes up till it reaches the global scope.
func (e *Environment) Get(name Token) (interface{}, error) {
	if e.isGlobal() {
		if val, ok := e.global.Get(name.Lexeme); ok {
			return val, nil
		}

		return nil, NewRuntimeError(name, "Undefined variable '"+name.Lexeme+"'.")
	}

	val, ok := e.values[name.Lexeme]
	if ok {
		return val, nil
	}

	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}

	return nil, NewRuntimeError(name, "Undefined variable '"+name.Lexeme+"'.")
}

// Assign will assign value to the variable. If the variable is not available in the current
// environment, it will try to assign it recursively to the out environments until it reaches
// the global environment.
func (e *Environment) Assign(name Token, value interface{}) error {
	if e.isGlobal() {
		if _, ok := e.global.Get(name.Lexeme); ok {
			e.global.Put(name.Lexeme, value)
			return nil
		}

		return NewRuntimeError(name, "Undefined variable '"+name.Lexeme+"'.")
	}

	_, ok := e.values[name.Lexeme]

	if ok {
		e.values[name.Lexeme] = value
		return nil
	}

	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}

	return NewRuntimeError(name, "Undefined variable '"+name.Lexeme+"'.")
}

// GetAt will get the exact environment where the variable is defined in the environment chain and
// return the value.
func (e *Environment) GetAt(distance int, name string) interface{} {
	env := e.ancestor(distance)
	if env.isGlobal() {
		val, _ := env.global.Get(name)
		return val
	}

	return env.values[name]
}

// AssignAt walks fixed numbers of steps and stuffs the variable into that map.
func (e *Environment) AssignAt(distance int, name Token, value interface{}) {
	env := e.ancestor(distance)
	if env.isGlobal() {
		env.global.Put(name.Lexeme, value)
		return
	}

	env.values[name.Lexeme] = value
}

// ancestor walks a fixed number of hops up the parent chain and returns the environment there.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}

	return env
}
