// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package ast contains the untyped syntax tree handed from the parser to the analyzer.
package ast

// Expr is the base for all expressions.
type Expr interface {
	// Name of the syntax-type of the expression.
	ExprName() string
	// Span locates the expression in its source.
	Span() Span
}

var (
	_ Expr = (*Var)(nil)
	_ Expr = (*Int)(nil)
	_ Expr = (*Real)(nil)
	_ Expr = (*App)(nil)
)

// Variable reference: `x`
type Var struct {
	Name string
	// Builtin is set for operators, which resolve in the root scope regardless of shadowing.
	Builtin bool
	Pos     Span
}

// "Var"
func (e *Var) ExprName() string { return "Var" }

func (e *Var) Span() Span { return e.Pos }

// Integer literal: `42`
type Int struct {
	Text string
	Pos  Span
}

// "Int"
func (e *Int) ExprName() string { return "Int" }

func (e *Int) Span() Span { return e.Pos }

// Real literal: `4.2`
type Real struct {
	Text string
	Pos  Span
}

// "Real"
func (e *Real) ExprName() string { return "Real" }

func (e *Real) Span() Span { return e.Pos }

// Application of a single argument: `f x`. Multi-argument calls are left-nested chains.
type App struct {
	Func Expr
	Arg  Expr
	Pos  Span
}

// "App"
func (e *App) ExprName() string { return "App" }

func (e *App) Span() Span { return e.Pos }

// Flatten returns the root callee of a chain of applications and its arguments, in source order.
func Flatten(e Expr) (Expr, []Expr) {
	var args []Expr
	for {
		app, ok := e.(*App)
		if !ok {
			break
		}
		args = append(args, app.Arg)
		e = app.Func
	}
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return e, args
}

// TyExpr is a type written in an annotation.
type TyExpr interface {
	TyExprName() string
	Span() Span
}

var (
	_ TyExpr = (*TyName)(nil)
	_ TyExpr = (*TyArrow)(nil)
)

// Named type: `I64` (base type) or `a` (type variable)
type TyName struct {
	Name string
	Pos  Span
}

// "TyName"
func (t *TyName) TyExprName() string { return "TyName" }

func (t *TyName) Span() Span { return t.Pos }

// Function type: `a -> b`
type TyArrow struct {
	In, Out TyExpr
	Pos     Span
}

// "TyArrow"
func (t *TyArrow) TyExprName() string { return "TyArrow" }

func (t *TyArrow) Span() Span { return t.Pos }

// Ident is a name bound on the left-hand side of a definition.
type Ident struct {
	Name string
	Pos  Span
}

// TopDef is a top-level definition.
type TopDef interface {
	DefName() string
	Span() Span
}

var _ TopDef = (*FnDef)(nil)

// Function definition: `fn name args [: type] = body`
type FnDef struct {
	Name Ident
	Args []Ident
	// Ann is nil for unannotated definitions.
	Ann  TyExpr
	Body Expr
	Pos  Span
}

func (d *FnDef) DefName() string { return d.Name.Name }

func (d *FnDef) Span() Span { return d.Pos }
