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
	"strconv"

	"github.com/wdamron/akane/ast"
	"github.com/wdamron/akane/errs"
	"github.com/wdamron/akane/types"
)

// elaborate builds the typed construct for e within the body of fn.
func (s *Session) elaborate(fn *Abs, e ast.Expr) (Expr, error) {
	switch e := e.(type) {
	case *ast.Int:
		if _, err := strconv.ParseInt(e.Text, 10, 64); err != nil {
			return nil, errs.At(e.Pos, errs.NotSupported, "integer literal `%s` does not fit in 64 bits", e.Text)
		}
		return s.newCn(e.Text, s.I64), nil

	case *ast.Real:
		if _, err := strconv.ParseFloat(e.Text, 64); err != nil {
			return nil, errs.At(e.Pos, errs.NotSupported, "real literal `%s` is out of range", e.Text)
		}
		return s.newCn(e.Text, s.F64), nil

	case *ast.Var:
		v, err := s.resolve(e)
		if err != nil {
			return nil, err
		}
		return s.reference(fn, v, e.Pos)

	case *ast.App:
		root, args := ast.Flatten(e)
		return s.elaborateApp(fn, root, args, e.Pos)

	default:
		return nil, errs.At(e.Span(), errs.NotSupported, "unsupported expression %s", e.ExprName())
	}
}

func (s *Session) resolve(e *ast.Var) (*Var, error) {
	var v *Var
	var err error
	if e.Builtin {
		v, err = s.Builtin(e.Name)
	} else {
		v, err = s.Lookup(e.Name)
	}
	if err != nil {
		return nil, errs.WithSpan(err, e.Pos)
	}
	if abs, ok := s.Binding(v); ok && abs.failed {
		return nil, errFailedCallee
	}
	return v, nil
}

// reference elaborates a variable outside of callee or argument position.
func (s *Session) reference(fn *Abs, v *Var, pos ast.Span) (Expr, error) {
	abs, ok := s.Binding(v)
	if ok {
		s.calls.AddEdge(fn.ID, abs.ID)
	}
	switch {
	case !ok:
		return v, nil
	case abs.IsGeneric():
		return nil, errs.At(pos, errs.AmbiguousType, "cannot infer the type arguments of `%s` used as a value", v.Name)
	case v.Type().Rank() == 0:
		// Nullary functions are called where they are referenced.
		app := s.newApp(v, nil, v.Type(), types.EmptyEnv, v, pos)
		app.Head = true
		return app, nil
	default:
		return v, nil
	}
}

// genericRef returns the generic function bound to e, if e is a bare reference to one.
func (s *Session) genericRef(e ast.Expr) (*Var, *Abs, bool) {
	ref, ok := e.(*ast.Var)
	if !ok {
		return nil, nil, false
	}
	v, err := s.resolve(ref)
	if err != nil {
		return nil, nil, false
	}
	abs, ok := s.Binding(v)
	if !ok || !abs.IsGeneric() {
		return nil, nil, false
	}
	return v, abs, true
}

// desugarPipe rewrites `x |> f a` to `f a x` when the right operand of the pipe is an application
// or a generic function, so that the piped value takes part in the callee's inference.
func (s *Session) desugarPipe(root ast.Expr, args []ast.Expr) (ast.Expr, []ast.Expr) {
	for {
		op, ok := root.(*ast.Var)
		if !ok || !op.Builtin || op.Name != PrimPipe.String() || len(args) != 2 {
			return root, args
		}
		_, isApp := args[1].(*ast.App)
		if _, _, generic := s.genericRef(args[1]); !isApp && !generic {
			return root, args
		}
		fnRoot, fnArgs := ast.Flatten(args[1])
		root, args = fnRoot, append(fnArgs, args[0])
	}
}

// elaborateApp checks the application of root to args, folding the type of every argument into the
// environment of the root callee.
func (s *Session) elaborateApp(fn *Abs, rootExpr ast.Expr, argExprs []ast.Expr, pos ast.Span) (Expr, error) {
	rootExpr, argExprs = s.desugarPipe(rootExpr, argExprs)

	ref, ok := rootExpr.(*ast.Var)
	if !ok {
		return nil, errs.At(rootExpr.Span(), errs.TypeMismatch, "`%s` is not a function", ast.ExprString(rootExpr))
	}
	root, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	callee, top := s.Binding(root)
	generic := top && callee.IsGeneric()
	if top {
		s.calls.AddEdge(fn.ID, callee.ID)
	}

	rank := root.Type().Rank()
	if len(argExprs) < rank {
		return nil, errs.At(pos, errs.NotSupported, "partial application of `%s` is not supported (%d of %d arguments given)",
			root.Name, len(argExprs), rank)
	}

	// Elaborate every argument first, collecting errors independently. Bare references to generic
	// functions are resolved after the other arguments, against the substituted parameter type.
	var diags errs.List
	args := make([]Expr, len(argExprs))
	var deferred []int
	for i, argExpr := range argExprs {
		if i < rank {
			if _, _, ok := s.genericRef(argExpr); ok {
				deferred = append(deferred, i)
				continue
			}
		}
		arg, err := s.elaborate(fn, argExpr)
		diags.Add(err)
		args[i] = arg
	}
	if len(diags) != 0 {
		return nil, diags
	}

	env := types.EmptyEnv
	if generic {
		env = callee.Env
	}
	params, ret := types.ArgsAndRet(root.Type())
	params = params[:rank]
	for i := 0; i < rank; i++ {
		if args[i] == nil {
			continue
		}
		if env, err = s.fold(env, root, i, params[i], args[i].Type(), argExprs[i].Span()); err != nil {
			return nil, err
		}
	}
	for _, i := range deferred {
		v, abs, _ := s.genericRef(argExprs[i])
		if args[i], err = s.genericValue(fn, v, abs, s.Types.ApplyEnv(env, params[i]), argExprs[i].Span()); err != nil {
			return nil, err
		}
		if env, err = s.fold(env, root, i, params[i], args[i].Type(), argExprs[i].Span()); err != nil {
			return nil, err
		}
	}
	if generic {
		if err := s.checkEnv(fn, root, env, pos); err != nil {
			return nil, err
		}
	}

	// Arguments beyond the root's rank apply the function returned by the root call.
	result := s.Types.ApplyEnv(env, ret)
	if extra := len(args) - rank; extra > 0 {
		if extra > result.Rank() {
			return nil, errs.At(pos, errs.TypeMismatch, "`%s` takes %d arguments, but %d were given",
				root.Name, rank+result.Rank(), len(args))
		}
		if extra < result.Rank() {
			return nil, errs.At(pos, errs.NotSupported, "partial application of the result of `%s` is not supported", root.Name)
		}
		rest, _ := types.ArgsAndRet(result)
		for j, i := 0, rank; i < len(args); i, j = i+1, j+1 {
			if _, err := s.fold(types.EmptyEnv, root, i, rest[j], args[i].Type(), argExprs[i].Span()); err != nil {
				return nil, err
			}
		}
	}

	var node Expr = root
	cur := s.Types.ApplyEnv(env, root.Type())
	for i, arg := range args {
		cur = cur.(*types.Arrow).Out
		app := s.newApp(node, arg, cur, env, root, pos)
		app.Head = i == rank-1
		node = app
	}
	if generic && !callee.IsPrim() && env.IsConcrete() {
		s.request(callee, env, pos)
	}
	return node, nil
}

// fold matches the type of the i-th argument of root against its parameter type. Bindings for
// type variables of the callee extend env; any other type variable in the parameter type is rigid
// and must match itself.
func (s *Session) fold(env types.Env, root *Var, i int, param, arg types.Ty, pos ast.Span) (types.Env, error) {
	bindings, err := types.AssignFrom(param, arg)
	if err != nil {
		return env, errs.At(pos, errs.TypeMismatch, "argument %d of `%s`: expected %s, found %s",
			i+1, root.Name, types.TypeString(s.Types.ApplyEnv(env, param)), types.TypeString(arg))
	}
	for _, b := range bindings {
		if !env.Has(b.Var) {
			if b.Ty != types.Ty(b.Var) {
				return env, errs.At(pos, errs.TypeMismatch, "argument %d of `%s`: expected %s, found %s",
					i+1, root.Name, types.TypeString(s.Types.ApplyEnv(env, param)), types.TypeString(arg))
			}
			continue
		}
		if env, err = env.Assign(b.Var, b.Ty); err != nil {
			return env, errs.Prefixf(err, pos, "argument %d of `%s`", i+1, root.Name)
		}
	}
	return env, nil
}

// checkEnv rejects environments which remain nondeterministic after all arguments have been
// folded. Bindings to type variables of the enclosing function are accepted: they are resolved
// when the enclosing function is instantiated.
func (s *Session) checkEnv(fn *Abs, root *Var, env types.Env, pos ast.Span) error {
	if unresolved := env.Unresolved(); len(unresolved) != 0 {
		return errs.At(pos, errs.AmbiguousType, "cannot infer type variable `%s` of `%s` %s",
			unresolved[0].Name, root.Name, env.String())
	}
	var err error
	env.Range(func(tv *types.TVar, t types.Ty) bool {
		if !types.OwnedBy(t, fn.Qual) {
			err = errs.At(pos, errs.AmbiguousType, "type variable `%s` of `%s` is bound to the undetermined type %s",
				tv.Name, root.Name, types.TypeString(t))
		}
		return err == nil
	})
	return err
}

// genericValue resolves a bare reference to the generic function abs passed where a value of type
// want is expected.
func (s *Session) genericValue(fn *Abs, v *Var, abs *Abs, want types.Ty, pos ast.Span) (Expr, error) {
	s.calls.AddEdge(fn.ID, abs.ID)
	if !types.OwnedBy(want, fn.Qual) {
		return nil, errs.At(pos, errs.AmbiguousType, "cannot infer the type arguments of `%s` used as a value", v.Name)
	}
	bindings, err := types.AssignFrom(abs.Type(), want)
	if err != nil {
		return nil, errs.At(pos, errs.TypeMismatch, "`%s` has type %s, expected %s",
			v.Name, types.TypeString(abs.Type()), types.TypeString(want))
	}
	env := abs.Env
	for _, b := range bindings {
		if env, err = env.Assign(b.Var, b.Ty); err != nil {
			return nil, errs.WithSpan(err, pos)
		}
	}
	if err := s.checkEnv(fn, v, env, pos); err != nil {
		return nil, err
	}
	app := s.newApp(v, nil, s.Types.ApplyEnv(env, abs.Type()), env, v, pos)
	app.Head = true
	if env.IsConcrete() {
		s.request(abs, env, pos)
	}
	return app, nil
}
