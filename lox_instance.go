package lox

// LoxInstance is a runtime object created by calling a LoxClass. Fields
// and methods share one namespace from the caller's perspective: `Get`
// checks fields first so an instance field can shadow a method of the
// same name.
type LoxInstance struct {
	klass  *LoxClass
	fields map[string]interface{}
}

func NewLoxInstance(klass *LoxClass) *LoxInstance {
	return &LoxInstance{klass: klass, fields: make(map[string]interface{})}
}

func (li *LoxInstance) String() string {
	return "<instance " + li.klass.Name + ">"
}

func (li *LoxInstance) Get(name Token) (interface{}, error) {
	if val, ok := li.fields[name.Lexeme]; ok {
		return val, nil
	}

	if method, err := li.klass.findMethod(name.Lexeme); err == nil {
		return method.Bind(li), nil
	}

	return nil, NewRuntimeError(name, "Undefined property '"+name.Lexeme+"'.")
}

func (li *LoxInstance) Set(name Token, value interface{}) {
	li.fields[name.Lexeme] = value
}
