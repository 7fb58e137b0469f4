package lox

import (
	"fmt"
	"math"

	"github.com/iamsayantan/lox/tools"
)

// Interpreter walks the AST produced by the Parser and, once the Resolver
// has annotated every variable reference with its scope depth, evaluates
// it directly — no bytecode, no separate compilation step.
type Interpreter struct {
	runtime     *Runtime
	globals     *Environment
	environment *Environment

	// callDepth tracks how many calls made through VisitCallExpr (to
	// functions, classes or natives) are currently on the Go call stack,
	// guarded against config.MaxCallDepth since a Lox
	// program recursing without a base case would otherwise grow the Go
	// stack until the process is killed instead of failing cleanly.
	callDepth int
}

func NewInterpreter(runtime *Runtime) *Interpreter {
	globals := NewGlobalEnvironment()
	globals.Define("clock", Clock{})

	return &Interpreter{runtime: runtime, globals: globals, environment: globals}
}

type RuntimeError struct {
	token   Token
	message string
}

func (r *RuntimeError) Error() string {
	return r.message
}

func (r *RuntimeError) Token() Token {
	return r.token
}

func NewRuntimeError(token Token, message string) error {
	return &RuntimeError{token: token, message: message}
}

// ReturnSignal unwinds the Go call stack back to the LoxFunction.Call frame
// that started executing the function body, carrying the returned value
// with it. It is deliberately not a *RuntimeError: a return is ordinary
// control flow, not a failure, so callers must type-assert for it
// explicitly instead of treating every non-nil error the same way.
type ReturnSignal struct {
	Value interface{}
}

func (r *ReturnSignal) Error() string {
	return "return"
}

func (i *Interpreter) Interpret(statements []Stmt) {
	for _, stmt := range statements {
		err := i.execute(stmt)
		if err != nil {
			i.runtime.runtimeError(err)
			return
		}
	}
}

func (i *Interpreter) execute(stmt Stmt) error {
	return stmt.Accept(i)
}

func (i *Interpreter) VisitBlockStmt(stmt *Block) error {
	return i.executeBlock(stmt.Statements, NewEnvironment(i.environment))
}

func (i *Interpreter) executeBlock(statements []Stmt, env *Environment) error {
	previousEnv := i.environment

	i.environment = env
	for _, stmt := range statements {
		err := i.execute(stmt)
		if err != nil {
			i.environment = previousEnv
			return err
		}
	}

	i.environment = previousEnv
	return nil
}

// VisitClassStmt declares the class name in the current scope, evaluates
// the (optional) superclass expression, builds every method into an
// unbound LoxFunction closing over a scope that defines "super" (or over
// the enclosing scope when there is no superclass), and finally wires the
// resulting LoxClass back into the class name's binding so methods can look
// the class up recursively.
func (i *Interpreter) VisitClassStmt(stmt *ClassStmt) error {
	var superclass *LoxClass
	if stmt.Superclass != nil {
		superVal, err := i.evaluate(stmt.Superclass)
		if err != nil {
			return err
		}

		sc, ok := superVal.(*LoxClass)
		if !ok {
			return NewRuntimeError(stmt.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	i.environment.Define(stmt.Name.Lexeme, nil)

	env := i.environment
	if stmt.Superclass != nil {
		env = NewEnvironment(i.environment)
		env.Define("super", superclass)
	}

	methods := make(map[string]LoxFunction)
	for _, method := range stmt.Methods {
		function := NewLoxFunction(method, env, method.Name.Lexeme == "init").(LoxFunction)
		methods[method.Name.Lexeme] = function
	}

	class := NewLoxClass(stmt.Name.Lexeme, superclass, methods)

	if stmt.Superclass != nil {
		i.environment = env.enclosing
	}

	return i.environment.Assign(stmt.Name, class)
}

// VisitVarStmt interprets an variable declaration. If the variable has an
// initialization part, we first evaluate it, otherwise we store the default
// nil value for it. Thus it allows us to define an uninitialized variable.
// Like other dynamically typed languages, we just assign nil if the variable
// is not initialized.
func (i *Interpreter) VisitVarStmt(expr *VarStmt) error {
	var val interface{}
	var err error
	if expr.Initializer != nil {
		val, err = i.evaluate(expr.Initializer)
		if err != nil {
			return err
		}
	}

	i.environment.Define(expr.Name.Lexeme, val)
	return nil
}

func (i *Interpreter) VisitVarExpr(expr *VarExpr) (interface{}, error) {
	return i.lookupVariable(expr.Name, expr.Depth)
}

// lookupVariable reads a variable using the depth the Resolver computed:
// DepthGlobal means the Resolver never found it in the local scope stack
// and it must be read straight from globals, bypassing whatever local
// frame happens to currently be active.
func (i *Interpreter) lookupVariable(name Token, depth int) (interface{}, error) {
	if depth == DepthGlobal {
		return i.globals.Get(name)
	}

	return i.environment.GetAt(depth, name.Lexeme), nil
}

// VisitAssignExpr evaluates the right hand side expression to get the value and then stores it in the
// named variable. We use Assign method on the environment which only updates existing variable and is
// not allowed to create new variable. This method returns the assigned value because assignment is an
// expression and can be nested inside other expression.
// var a = 1;
// print a = 2; // "2"
func (i *Interpreter) VisitAssignExpr(expr *Assign) (interface{}, error) {
	val, err := i.evaluate(expr.Value)
	if err != nil {
		return nil, err
	}

	if expr.Depth == DepthGlobal {
		if err := i.globals.Assign(expr.Name, val); err != nil {
			return nil, err
		}
	} else {
		i.environment.AssignAt(expr.Depth, expr.Name, val)
	}

	return val, nil
}

// VisitExpressionExpr interprets expression statements. As statements do not
// produce any value, we are discarding the expression generated from evaluating
// the statement's expression.
func (i *Interpreter) VisitExpressionExpr(expr *Expression) error {
	_, err := i.evaluate(expr.Expression)
	if err != nil {
		return err
	}

	return nil
}

func (i *Interpreter) VisitIfStmt(stmt *IfStmt) error {
	condition, err := i.evaluate(stmt.Condition)
	if err != nil {
		return err
	}

	if i.isTruthy(condition) {
		err := i.execute(stmt.ThenBranch)
		if err != nil {
			return err
		}
	} else if stmt.ElseBranch != nil {
		err := i.execute(stmt.ElseBranch)
		if err != nil {
			return err
		}
	}

	return nil
}

func (i *Interpreter) VisitWhileStmt(stmt *WhileStmt) error {
	for {
		condition, err := i.evaluate(stmt.Condition)
		if err != nil {
			return err
		}

		if !i.isTruthy(condition) {
			return nil
		}

		if err := i.execute(stmt.Body); err != nil {
			return err
		}
	}
}

func (i *Interpreter) VisitFunctionStmt(stmt *FunctionStmt) error {
	function := NewLoxFunction(stmt, i.environment, false)
	i.environment.Define(stmt.Name.Lexeme, function)
	return nil
}

func (i *Interpreter) VisitReturnStmt(stmt *ReturnStmt) error {
	var value interface{}
	if stmt.Value != nil {
		val, err := i.evaluate(stmt.Value)
		if err != nil {
			return err
		}
		value = val
	}

	return &ReturnSignal{Value: value}
}

func (i *Interpreter) VisitPrintExpr(expr *Print) error {
	val, err := i.evaluate(expr.Expression)
	if err != nil {
		return err
	}

	fmt.Fprintln(i.runtime.stdout, i.stringify(val))
	return nil
}

// stringify renders a Lox runtime value the way `print` and the REPL show
// it: integral float64s drop their fractional part ("3" not "3.0") because
// Lox has only one numeric type and the book's reference implementation
// never surfaces that distinction to the user.
func (i *Interpreter) stringify(val interface{}) string {
	if val == nil {
		return "nil"
	}

	if tools.IsFloat64(val) {
		f := val.(float64)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Sprint(f)
		}

		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			return fmt.Sprintf("%d", int64(f))
		}

		return fmt.Sprint(f)
	}

	return fmt.Sprint(val)
}

func (i *Interpreter) VisitLogicalExpr(expr *Logical) (interface{}, error) {
	left, err := i.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}

	if expr.Operator.Type == Or {
		if i.isTruthy(left) {
			return left, nil
		}
	} else {
		if !i.isTruthy(left) {
			return left, nil
		}
	}

	return i.evaluate(expr.Right)
}

func (i *Interpreter) VisitCallExpr(expr *Call) (interface{}, error) {
	callee, err := i.evaluate(expr.Callee)
	if err != nil {
		return nil, err
	}

	var arguments []interface{}
	for _, argument := range expr.Arguments {
		val, err := i.evaluate(argument)
		if err != nil {
			return nil, err
		}

		arguments = append(arguments, val)
	}

	callable, ok := callee.(LoxCallable)
	if !ok {
		return nil, NewRuntimeError(expr.Paren, "Can only call functions and classes.")
	}

	if len(arguments) != callable.Arity() {
		return nil, NewRuntimeError(expr.Paren, fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(arguments)))
	}

	if i.callDepth >= i.runtime.config.MaxCallDepth {
		return nil, NewRuntimeError(expr.Paren, "Stack overflow.")
	}

	i.callDepth++
	result, err := callable.Call(i, arguments)
	i.callDepth--

	return result, err
}

// VisitGetExpr reads a property off a LoxInstance. This is where methods
// and fields look identical from the call site: `obj.name` resolves a
// field first, then falls back to a bound method.
func (i *Interpreter) VisitGetExpr(expr *GetExpr) (interface{}, error) {
	object, err := i.evaluate(expr.Object)
	if err != nil {
		return nil, err
	}

	instance, ok := object.(*LoxInstance)
	if !ok {
		return nil, NewRuntimeError(expr.Name, "Only instances have properties.")
	}

	return instance.Get(expr.Name)
}

func (i *Interpreter) VisitSetExpr(expr *SetExpr) (interface{}, error) {
	object, err := i.evaluate(expr.Object)
	if err != nil {
		return nil, err
	}

	instance, ok := object.(*LoxInstance)
	if !ok {
		return nil, NewRuntimeError(expr.Name, "Only instances have fields.")
	}

	value, err := i.evaluate(expr.Value)
	if err != nil {
		return nil, err
	}

	instance.Set(expr.Name, value)
	return value, nil
}

func (i *Interpreter) VisitThisExpr(expr *ThisExpr) (interface{}, error) {
	return i.lookupVariable(expr.Keyword, expr.Depth)
}

// VisitSuperExpr looks the method up on the statically known superclass
// (found Depth scopes out, where "super" was bound by VisitClassStmt) but
// binds it to "this" one scope closer in, so a super call still operates
// on the actual receiving instance rather than some intermediate class.
func (i *Interpreter) VisitSuperExpr(expr *SuperExpr) (interface{}, error) {
	superclass := i.environment.GetAt(expr.Depth, "super").(*LoxClass)
	instance := i.environment.GetAt(expr.Depth-1, "this").(*LoxInstance)

	method, err := superclass.findMethod(expr.Method.Lexeme)
	if err != nil {
		return nil, NewRuntimeError(expr.Method, "Undefined property '"+expr.Method.Lexeme+"'.")
	}

	return method.Bind(instance), nil
}

func (i *Interpreter) VisitBinaryExpr(expr *Binary) (interface{}, error) {
	left, err := i.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}

	right, err := i.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Type {
	case Greater:
		err := i.checkNumberOperandBoth(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}

		return left.(float64) > right.(float64), nil
	case GreaterEqual:
		err := i.checkNumberOperandBoth(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}

		return left.(float64) >= right.(float64), nil
	case Less:
		err := i.checkNumberOperandBoth(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}

		return left.(float64) < right.(float64), nil
	case LessEqual:
		err := i.checkNumberOperandBoth(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}

		return left.(float64) <= right.(float64), nil
	case BangEqual:
		return !i.isEqual(left, right), nil
	case EqualEqual:
		return i.isEqual(left, right), nil
	case Minus:
		err := i.checkNumberOperandBoth(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}

		return left.(float64) - right.(float64), nil
	case Plus:
		// plus (+) handles both string concatenation and arithmetic addition.
		if tools.IsString(left) && tools.IsString(right) {
			return left.(string) + right.(string), nil
		}

		if tools.IsFloat64(left) && tools.IsFloat64(right) {
			return left.(float64) + right.(float64), nil
		}

		return nil, NewRuntimeError(expr.Operator, "Operands must be two numbers or two strings.")
	case Slash:
		err := i.checkNumberOperandBoth(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}

		return left.(float64) / right.(float64), nil
	case Star:
		err := i.checkNumberOperandBoth(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}

		return left.(float64) * right.(float64), nil
	}

	// unreachable
	return nil, nil
}

// isEqual implements Lox's `==`: nil only equals nil, and values of
// different underlying Go types are never equal, including a NaN with
// itself — Go's native `==` over float64 already gives us the IEEE-754
// NaN != NaN behaviour for free. Functions are meant to compare by
// reference identity; LoxFunction is a value type, so this instead
// compares its fields structurally. That only coincides with identity
// because a bound method's closure environment is itself a pointer, so
// two distinct bindings (e.g. two calls to Bind) never compare equal.
func (i *Interpreter) isEqual(left, right interface{}) bool {
	if left == nil && right == nil {
		return true
	}

	if left == nil || right == nil {
		return false
	}

	return left == right
}

// VisitGroupingExpr evaluates the grouping expressions, the node that we get from
// using parenthesis around an expression. The grouping node has reference to the
// inner expression, so to evaluate it we recursively evaluate the inner subexpression.
func (i *Interpreter) VisitGroupingExpr(expr *Grouping) (interface{}, error) {
	return i.evaluate(expr.Expression)
}

// VisitLiteralExpr converts the literal tree node created during parsing to the
// runtime value. Which simply pulls the literal value back from the Token created
// during scanning.
func (i *Interpreter) VisitLiteralExpr(expr *Literal) (interface{}, error) {
	return expr.Value, nil
}

// VisitUnaryExpr evaluates the unary tree node. Unary expression have single subexpression that
// we need to evaluate first.
func (i *Interpreter) VisitUnaryExpr(expr *Unary) (interface{}, error) {
	// this will evaluate recursively for expressions like !!true, the right operand will be
	// evaluated first before evaluating the operator.
	right, err := i.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Type {
	case Bang:
		return !i.isTruthy(right), nil
	case Minus:
		if err := i.checkNumberOperand(expr.Operator, right); err != nil {
			return nil, err
		}

		return -right.(float64), nil
	}

	// unreachable.
	return nil, nil
}

// evaluate is a helper method that sends the expression back to the interpreter's visitor
// implementation.
func (i *Interpreter) evaluate(expr Expr) (interface{}, error) {
	return expr.Accept(i)
}

// isTruthy is a helper method that determines the truthfulness of a value. In lox the boolean value
// false and nil is considered falsy and everything else truthy.
func (i *Interpreter) isTruthy(val interface{}) bool {
	if val == nil {
		return false
	}

	switch val := val.(type) {
	case bool:
		return val
	}

	return true
}

func (i *Interpreter) checkNumberOperand(operator Token, operand interface{}) error {
	if tools.IsFloat64(operand) {
		return nil
	}

	return NewRuntimeError(operator, "Operand must be a number.")
}

func (i *Interpreter) checkNumberOperandBoth(operator Token, left, right interface{}) error {
	if tools.IsFloat64(left) && tools.IsFloat64(right) {
		return nil
	}

	return NewRuntimeError(operator, "Operands must be numbers.")
}
