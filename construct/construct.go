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

// Package construct provides terse constructors for syntax trees, for use in tests and tools
// which build programs without source text.
package construct

import (
	"github.com/wdamron/akane/ast"
)

// Types

// Named type: `I64`, `F64`, or a type variable `a`
func TName(name string) *ast.TyName {
	return &ast.TyName{Name: name}
}

// Function type: `a -> b`
func TArrow1(arg, ret ast.TyExpr) *ast.TyArrow {
	return &ast.TyArrow{In: arg, Out: ret}
}

// Curried function type: `a -> b -> c`
func TArrow(ret ast.TyExpr, args ...ast.TyExpr) ast.TyExpr {
	t := ret
	for i := len(args) - 1; i >= 0; i-- {
		t = &ast.TyArrow{In: args[i], Out: t}
	}
	return t
}

// Expressions:

// Variable
func Var(name string) *ast.Var {
	return &ast.Var{Name: name}
}

// Builtin operator applied by name, ignoring user definitions: `+` is Op("add")
func Op(builtin string) *ast.Var {
	return &ast.Var{Name: builtin, Builtin: true}
}

// Integer literal
func Int(text string) *ast.Int {
	return &ast.Int{Text: text}
}

// Real literal
func Real(text string) *ast.Real {
	return &ast.Real{Text: text}
}

// Curried application: `f x y`
func Call(f ast.Expr, args ...ast.Expr) ast.Expr {
	for _, arg := range args {
		f = &ast.App{Func: f, Arg: arg}
	}
	return f
}

// Infix operator: `x + y` is Infix("add", x, y)
func Infix(builtin string, x, y ast.Expr) ast.Expr {
	return Call(Op(builtin), x, y)
}

// Definitions:

// Unannotated function definition: `fn name args = body`
func Fn(name string, args []string, body ast.Expr) *ast.FnDef {
	return &ast.FnDef{Name: ast.Ident{Name: name}, Args: idents(args), Body: body}
}

// Annotated function definition: `fn name args : ann = body`
func FnAnn(name string, args []string, ann ast.TyExpr, body ast.Expr) *ast.FnDef {
	return &ast.FnDef{Name: ast.Ident{Name: name}, Args: idents(args), Ann: ann, Body: body}
}

// Compilation unit
func Unit(defs ...*ast.FnDef) []ast.TopDef {
	unit := make([]ast.TopDef, len(defs))
	for i, def := range defs {
		unit[i] = def
	}
	return unit
}

func idents(names []string) []ast.Ident {
	ids := make([]ast.Ident, len(names))
	for i, name := range names {
		ids[i] = ast.Ident{Name: name}
	}
	return ids
}
