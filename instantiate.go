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
	"strings"

	"github.com/wdamron/akane/ast"
	"github.com/wdamron/akane/errs"
	"github.com/wdamron/akane/types"
)

type request struct {
	abs *Abs
	env types.Env
	pos ast.Span
}

// request records that abs must be instantiated for the concrete environment env.
func (s *Session) request(abs *Abs, env types.Env, pos ast.Span) {
	s.queue = append(s.queue, request{abs: abs, env: env, pos: pos})
}

// materialize instantiates every requested function. Cloning a body may request further
// instantiations, including ones deferred because their environment referred to type variables
// of the function being cloned.
func (s *Session) materialize() error {
	for len(s.queue) > 0 {
		r := s.queue[0]
		s.queue = s.queue[1:]
		if _, ok := r.abs.Instance(r.env); ok {
			continue
		}
		if s.instCount >= s.maxInsts {
			s.queue = nil
			err := errs.At(r.pos, errs.NotSupported, "too many instantiations (limit %d) while instantiating `%s` for %s",
				s.maxInsts, r.abs.Name, r.env.String())
			if group := s.recursiveGroupOf(r.abs); group != nil {
				names := make([]string, len(group))
				for i, abs := range group {
					names[i] = "`" + abs.Name + "`"
				}
				err.Msg += "; " + strings.Join(names, ", ") + " may be polymorphically recursive"
			}
			return err
		}
		s.Instantiate(r.abs, r.env)
	}
	return nil
}

// Instantiate returns the instantiation of abs for env, cloning the arguments and body of abs
// with every type variable substituted if the instantiation does not exist yet.
// env must be a concrete environment over the type variables of abs.
func (s *Session) Instantiate(abs *Abs, env types.Env) *Inst {
	key := env.Key()
	if inst, ok := abs.insts.Lookup(key); ok {
		return inst
	}
	suffix := env.Suffix()
	inst := &Inst{
		Abs:  abs,
		Env:  env,
		Name: abs.Symbol() + "." + suffix,
		Qual: s.Types.Push(abs.Qual, types.Scope{Kind: types.InstScope, Name: suffix}),
		Ty:   s.Types.ApplyEnv(env, abs.Type()),
	}
	// Registered before the body is cloned, so recursive calls reuse it.
	abs.insts.InsertOrGet(key, inst)
	s.instCount++

	remap := make(map[*Var]*Var, len(abs.Args))
	for _, arg := range abs.Args {
		v, _ := s.newVar(inst.Qual, arg.Name, s.Types.ApplyEnv(env, arg.Type()), arg.Pos)
		remap[arg] = v
		inst.Args = append(inst.Args, v)
	}
	inst.Body = s.clone(abs.Body, env, remap)

	s.Log.Debug("materialized instantiation", "symbol", inst.Name, "type", types.TypeString(inst.Ty))
	return inst
}

func (s *Session) clone(e Expr, env types.Env, remap map[*Var]*Var) Expr {
	switch e := e.(type) {
	case *Var:
		if v, ok := remap[e]; ok {
			return v
		}
		return e

	case *Cn:
		return e

	case *App:
		callee := s.clone(e.Callee, env, remap)
		var arg Expr
		if e.Arg != nil {
			arg = s.clone(e.Arg, env, remap)
		}
		root := s.clone(e.Root, env, remap).(*Var)
		app := s.newApp(callee, arg, s.Types.ApplyEnv(env, e.Type()), s.Types.ApplyEnvToEnv(env, e.Env), root, e.Pos)
		app.Head = e.Head
		if app.Head && app.Env.IsGeneric() && app.Env.IsConcrete() {
			if abs, ok := s.Binding(root); ok && (app.Arg == nil || !abs.IsPrim()) {
				s.request(abs, app.Env, app.Pos)
			}
		}
		return app

	default:
		// Nested abstractions are rejected by code generation.
		return e
	}
}
