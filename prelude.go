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
	"github.com/wdamron/akane/types"
)

var arithmetic = []Prim{PrimAdd, PrimSub, PrimMul, PrimDiv}

// registerPrelude defines the builtins in the root qualification. Each builtin is a generic
// function whose body applies the builtin itself, which code generation lowers to the primitive
// operation: `add x y = add x y`.
func (s *Session) registerPrelude() {
	for _, prim := range arithmetic {
		s.registerBuiltin(prim, func(q *types.Qual) types.Ty {
			a := s.Types.TVar(q, "a")
			return s.Types.Func(a, a, a)
		}, "x", "y")
	}
	s.registerBuiltin(PrimPipe, func(q *types.Qual) types.Ty {
		a, b := s.Types.TVar(q, "a"), s.Types.TVar(q, "b")
		return s.Types.Func(b, a, s.Types.Arrow(a, b))
	}, "x", "f")
}

func (s *Session) registerBuiltin(prim Prim, typeIn func(*types.Qual) types.Ty, argNames ...string) {
	name := prim.String()
	abs, err := s.newAbs(name, nil, ast.Span{})
	if err != nil {
		panic("prelude: " + err.Error())
	}
	abs.Prim = prim
	ty := typeIn(abs.Qual)
	abs.setType(ty)

	v, err := s.newVar(s.Root, name, ty, ast.Span{})
	if err != nil {
		panic("prelude: " + err.Error())
	}
	if err = s.bind(v, abs); err != nil {
		panic("prelude: " + err.Error())
	}

	params, _ := types.ArgsAndRet(ty)
	// The builtin's own type variables are rigid within its body.
	env := abs.Env
	for _, tv := range types.FreeVars(ty) {
		env, _ = env.Assign(tv, tv)
	}
	var body Expr = v
	cur := ty
	for i, argName := range argNames {
		arg, err := s.newVar(abs.Qual, argName, params[i], ast.Span{})
		if err != nil {
			panic("prelude: " + err.Error())
		}
		abs.Args = append(abs.Args, arg)
		cur = cur.(*types.Arrow).Out
		body = s.newApp(body, arg, cur, env, v, ast.Span{})
	}
	body.(*App).Head = true
	abs.Body = body
}
