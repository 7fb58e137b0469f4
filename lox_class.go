package lox

import "errors"

var ErrMethodNotFound = errors.New("method not found with the given name")

// LoxClass is a class value: calling it constructs a LoxInstance, and it
// carries the method table consulted by every instance's property lookup.
// Superclass is nil for a class with no `< Name` clause.
type LoxClass struct {
	Name       string
	superclass *LoxClass
	methods    map[string]LoxFunction
}

func NewLoxClass(name string, superclass *LoxClass, methods map[string]LoxFunction) *LoxClass {
	return &LoxClass{Name: name, superclass: superclass, methods: methods}
}

func (lc *LoxClass) String() string {
	return "<class " + lc.Name + ">"
}

// Call constructs a new instance and, if the class (or one of its
// ancestors) defines an "init" method, runs it immediately against the
// fresh instance before returning it.
func (lc *LoxClass) Call(ip *Interpreter, arguments []interface{}) (interface{}, error) {
	instance := NewLoxInstance(lc)

	if initializer, err := lc.findMethod("init"); err == nil {
		if _, err := initializer.Bind(instance).Call(ip, arguments); err != nil {
			return nil, err
		}
	}

	return instance, nil
}

func (lc *LoxClass) Arity() int {
	initializer, err := lc.findMethod("init")
	if err != nil {
		return 0
	}

	return initializer.Arity()
}

// findMethod walks the inheritance chain from lc upward, so a subclass
// that doesn't override a method still inherits its superclass's.
func (lc *LoxClass) findMethod(name string) (LoxFunction, error) {
	if method, ok := lc.methods[name]; ok {
		return method, nil
	}

	if lc.superclass != nil {
		return lc.superclass.findMethod(name)
	}

	return LoxFunction{}, ErrMethodNotFound
}
