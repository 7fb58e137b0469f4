package lox

import (
	"fmt"
	"strings"
)

// AstPrinter renders an expression tree back to a parenthesized Lisp-like
// form, the same representation the book uses to sanity-check a parser
// before an evaluator exists; kept here for the CLI's --dump-ast flag.
type AstPrinter struct{}

func (ap *AstPrinter) Print(expr Expr) string {
	if expr == nil {
		return ""
	}

	val, _ := expr.Accept(ap)
	s, _ := val.(string)
	return s
}

func (ap *AstPrinter) VisitAssignExpr(expr *Assign) (interface{}, error) {
	return ap.parenthesize("= "+expr.Name.Lexeme, expr.Value), nil
}

func (ap *AstPrinter) VisitBinaryExpr(expr *Binary) (interface{}, error) {
	return ap.parenthesize(expr.Operator.Lexeme, expr.Left, expr.Right), nil
}

func (ap *AstPrinter) VisitCallExpr(expr *Call) (interface{}, error) {
	exprs := append([]Expr{expr.Callee}, expr.Arguments...)
	return ap.parenthesize("call", exprs...), nil
}

func (ap *AstPrinter) VisitGetExpr(expr *GetExpr) (interface{}, error) {
	return ap.parenthesize("get "+expr.Name.Lexeme, expr.Object), nil
}

func (ap *AstPrinter) VisitGroupingExpr(expr *Grouping) (interface{}, error) {
	return ap.parenthesize("group", expr.Expression), nil
}

func (ap *AstPrinter) VisitLiteralExpr(expr *Literal) (interface{}, error) {
	if expr.Value == nil {
		return "nil", nil
	}

	return fmt.Sprintf("%v", expr.Value), nil
}

func (ap *AstPrinter) VisitLogicalExpr(expr *Logical) (interface{}, error) {
	return ap.parenthesize(expr.Operator.Lexeme, expr.Left, expr.Right), nil
}

func (ap *AstPrinter) VisitSetExpr(expr *SetExpr) (interface{}, error) {
	return ap.parenthesize("set "+expr.Name.Lexeme, expr.Object, expr.Value), nil
}

func (ap *AstPrinter) VisitSuperExpr(expr *SuperExpr) (interface{}, error) {
	return "(super " + expr.Method.Lexeme + ")", nil
}

func (ap *AstPrinter) VisitThisExpr(expr *ThisExpr) (interface{}, error) {
	return "this", nil
}

func (ap *AstPrinter) VisitUnaryExpr(expr *Unary) (interface{}, error) {
	return ap.parenthesize(expr.Operator.Lexeme, expr.Right), nil
}

func (ap *AstPrinter) VisitVarExpr(expr *VarExpr) (interface{}, error) {
	return expr.Name.Lexeme, nil
}

func (ap *AstPrinter) parenthesize(name string, exprs ...Expr) string {
	s := strings.Builder{}
	s.WriteString("(" + name)

	for _, expr := range exprs {
		s.WriteString(" ")
		val, _ := expr.Accept(ap)
		str, _ := val.(string)
		s.WriteString(str)
	}

	s.WriteString(")")
	return s.String()
}
