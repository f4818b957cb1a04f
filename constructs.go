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

package akane

import (
	"github.com/wdamron/akane/ast"
	"github.com/wdamron/akane/store"
	"github.com/wdamron/akane/types"
)

// Expr is a typed expression produced by analysis.
type Expr interface {
	// Name of the construct.
	ExprName() string
	// Type returns the type of the expression. For applications of generic functions the type
	// is already substituted with the call site's environment.
	Type() types.Ty
}

var (
	_ Expr = (*Var)(nil)
	_ Expr = (*Cn)(nil)
	_ Expr = (*Abs)(nil)
	_ Expr = (*App)(nil)
)

// VarKey identifies a variable by qualification and name.
type VarKey struct {
	Qual types.QualKey
	Name string
}

// Variable bound in a qualification: a top-level function or a function argument.
type Var struct {
	ID   int
	Qual *types.Qual
	Name string
	Pos  ast.Span
	ty   types.Ty
}

// "Var"
func (v *Var) ExprName() string { return "Var" }

// Get the type of v.
func (v *Var) Type() types.Ty { return v.ty }

func (v *Var) Key() VarKey { return VarKey{Qual: v.Qual.Key(), Name: v.Name} }

// Describe returns the qualified name of v, e.g. `main.twice.f`.
func (v *Var) Describe() string {
	q := v.Qual.Describe()
	if q == "" {
		return v.Name
	}
	return q + "." + v.Name
}

// Constant literal
type Cn struct {
	ID   int
	Text string
	ty   types.Ty
}

// "Cn"
func (c *Cn) ExprName() string { return "Cn" }

func (c *Cn) Type() types.Ty { return c.ty }

// Prim identifies the primitive operation implementing a builtin function.
type Prim uint8

const (
	NoPrim Prim = iota
	PrimAdd
	PrimSub
	PrimMul
	PrimDiv
	PrimPipe
)

var primNames = [...]string{NoPrim: "", PrimAdd: "add", PrimSub: "sub", PrimMul: "mul", PrimDiv: "div", PrimPipe: "pipe"}

func (p Prim) String() string { return primNames[p] }

// Abstraction: a top-level function with its arguments, body and instantiations.
type Abs struct {
	ID   int
	Name string
	// Qual is the qualification of the function body. Type variables of the function's
	// annotation belong to it.
	Qual *types.Qual
	Args []*Var
	Body Expr
	// Env is the bottom environment over the type variables of the function's type.
	// It is empty for monomorphic functions.
	Env  types.Env
	Prim Prim
	Pos  ast.Span

	ty    types.Ty
	insts *store.Store[string, *Inst]
	// failed is set when the signature of a could not be declared. References to a are not
	// elaborated.
	failed bool
}

// "Abs"
func (a *Abs) ExprName() string { return "Abs" }

// Get the declared type of a.
func (a *Abs) Type() types.Ty { return a.ty }

// IsGeneric reports whether the type of a contains free type variables.
func (a *Abs) IsGeneric() bool { return a.Env.IsGeneric() }

// IsPrim reports whether a is a builtin implemented by a primitive operation.
func (a *Abs) IsPrim() bool { return a.Prim != NoPrim }

// Symbol returns the native name of a monomorphic function, and the base name of the
// instantiations of a generic one. Builtins are prefixed with `_`.
func (a *Abs) Symbol() string {
	if a.IsPrim() {
		return "_" + a.Name
	}
	return a.Name
}

// Instance returns the instantiation of a for env, if it has been materialized.
func (a *Abs) Instance(env types.Env) (*Inst, bool) { return a.insts.Lookup(env.Key()) }

// Instances returns every materialized instantiation of a, in the order they were created.
func (a *Abs) Instances() []*Inst { return a.insts.Values() }

// Inst is a monomorphized clone of a generic abstraction for one concrete environment.
type Inst struct {
	Abs  *Abs
	Env  types.Env
	Name string
	Qual *types.Qual
	Args []*Var
	Body Expr
	Ty   types.Ty
}

// Application of a single argument: `f x`. Multi-argument calls are left-nested chains which
// share the environment of their root callee.
type App struct {
	ID     int
	Callee Expr
	// Arg is nil for a bare reference to the root callee: a call of a nullary function, or a
	// generic function used as a value.
	Arg Expr
	// Env is the environment of the root callee at this call site.
	Env types.Env
	// Root is the variable at the root of the chain.
	Root *Var
	// Head marks the application which completes the root callee's parameter list.
	Head bool
	Pos  ast.Span

	ty types.Ty
}

// "App"
func (a *App) ExprName() string { return "App" }

// Get the result type of a.
func (a *App) Type() types.Ty { return a.ty }

// Flatten returns the root of the application chain ending at a, and every argument in the
// chain, in source order. A bare reference contributes no argument.
func (a *App) Flatten() (Expr, []Expr) {
	var args []Expr
	var e Expr = a
	for {
		app, ok := e.(*App)
		if !ok {
			break
		}
		if app.Arg != nil {
			args = append(args, app.Arg)
		}
		e = app.Callee
	}
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return e, args
}
