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
	"errors"
	"unicode"

	"github.com/wdamron/akane/ast"
	"github.com/wdamron/akane/errs"
	"github.com/wdamron/akane/types"
)

// signature is a top-level function whose binding has been registered but whose body has not
// been analyzed yet.
type signature struct {
	def  *ast.FnDef
	v    *Var
	abs  *Abs
	args []types.Ty
	ret  types.Ty
}

// Analyze registers and checks every definition of a compilation unit, then materializes the
// instantiations of generic functions required by the unit.
//
// Errors are collected per definition: a failing definition does not prevent the remaining ones
// from being analyzed. The returned error is an errs.List holding one diagnostic per problem.
// Instantiations are only materialized when the whole unit is free of errors.
func (s *Session) Analyze(defs []ast.TopDef) error {
	var diags errs.List

	// All bindings are registered before any body is analyzed, so definitions may refer to
	// themselves and to definitions further down the unit.
	sigs := make([]*signature, 0, len(defs))
	for _, def := range defs {
		sig, err := s.declare(def)
		diags.Add(err)
		if sig != nil && err == nil {
			sigs = append(sigs, sig)
		}
	}
	for _, sig := range sigs {
		diags.Add(s.define(sig))
	}
	diags = diags.Filter(func(err error) bool { return !errors.Is(err, errFailedCallee) })
	if len(diags) == 0 {
		diags.Add(s.materialize())
	}
	diags.Sort()
	return diags.Err()
}

// errFailedCallee aborts the elaboration of an expression which refers to a function whose
// declaration failed. The declaration has been reported already.
var errFailedCallee = errors.New("reference to a function with an invalid declaration")

func (s *Session) declare(def ast.TopDef) (*signature, error) {
	fn, ok := def.(*ast.FnDef)
	if !ok {
		return nil, errs.At(def.Span(), errs.NotSupported, "unsupported definition `%s`", def.DefName())
	}
	name := fn.Name.Name

	abs, err := s.newAbs(name, nil, fn.Pos)
	if err != nil {
		return nil, errs.WithSpan(err, fn.Name.Pos)
	}

	// Unannotated definitions are I64 in every argument and in their result. The same shape
	// stands in for an annotation which cannot be resolved.
	params := make([]types.Ty, len(fn.Args))
	for i := range params {
		params[i] = s.I64
	}
	ty := s.Types.Func(s.I64, params...)
	var annErr error
	if fn.Ann != nil {
		var ann types.Ty
		if ann, annErr = s.resolveTy(fn.Ann, abs.Qual); annErr == nil {
			ty = ann
		}
	}
	abs.setType(ty)

	v, err := s.newVar(s.Module, name, ty, fn.Name.Pos)
	if err != nil {
		return nil, errs.At(fn.Name.Pos, errs.Duplicate, "duplicate function definitions: `%s`", name)
	}
	if err = s.bind(v, abs); err != nil {
		return nil, errs.WithSpan(err, fn.Name.Pos)
	}
	if annErr != nil {
		abs.failed = true
		return nil, annErr
	}

	args, ret := types.ArgsAndRet(ty)
	if len(args) != len(fn.Args) {
		abs.failed = true
		return nil, errs.At(fn.Pos, errs.TypeMismatch,
			"arity mismatch: the type annotation of `%s` has rank %d, but the definition binds %d arguments",
			name, len(args), len(fn.Args))
	}
	if len(args) == 0 && abs.IsGeneric() {
		abs.failed = true
		return nil, errs.At(fn.Pos, errs.NotSupported, "nullary definition `%s` cannot have the generic type %s",
			name, types.TypeString(ty))
	}
	return &signature{def: fn, v: v, abs: abs, args: args, ret: ret}, nil
}

// resolveTy builds the type written in an annotation. Lowercase names are type variables of q.
func (s *Session) resolveTy(t ast.TyExpr, q *types.Qual) (types.Ty, error) {
	switch t := t.(type) {
	case *ast.TyName:
		if r := []rune(t.Name); len(r) > 0 && unicode.IsLower(r[0]) {
			return s.Types.TVar(q, t.Name), nil
		}
		base, err := s.Types.LookupBase(t.Name)
		if err != nil {
			return nil, errs.At(t.Pos, errs.NotFound, "unknown type: `%s`", t.Name)
		}
		return base, nil

	case *ast.TyArrow:
		var diags errs.List
		in, err := s.resolveTy(t.In, q)
		diags.Add(err)
		out, err := s.resolveTy(t.Out, q)
		diags.Add(err)
		if len(diags) != 0 {
			return nil, diags
		}
		return s.Types.Arrow(in, out), nil

	default:
		return nil, errs.At(t.Span(), errs.NotSupported, "unsupported type expression %s", t.TyExprName())
	}
}

func (s *Session) define(sig *signature) error {
	abs, def := sig.abs, sig.def
	s.Quals.Push(abs.Qual)
	defer s.Quals.Pop()

	var diags errs.List
	args := make([]*Var, len(def.Args))
	for i, ident := range def.Args {
		v, err := s.newVar(abs.Qual, ident.Name, sig.args[i], ident.Pos)
		if err != nil {
			diags.Add(errs.At(ident.Pos, errs.Duplicate, "duplicate argument `%s` in definition of `%s`", ident.Name, abs.Name))
		}
		args[i] = v
	}
	if len(diags) != 0 {
		return diags
	}

	body, err := s.elaborate(abs, def.Body)
	if err != nil {
		return err
	}
	if body.Type() != sig.ret {
		return errs.At(def.Body.Span(), errs.TypeMismatch, "the body of `%s` has type %s, but its declared result type is %s",
			abs.Name, types.TypeString(body.Type()), types.TypeString(sig.ret))
	}

	abs.Args, abs.Body = args, body
	s.Log.Debug("analyzed definition", "name", abs.Name, "type", types.TypeString(abs.Type()), "generic", abs.IsGeneric())
	return nil
}
