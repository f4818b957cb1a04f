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

// Package codegen lowers an analyzed session into an LLVM IR module.
//
// Every monomorphic function is emitted once under its own name, and every generic function once
// per materialized instantiation, under the instantiation's mangled name. Curried applications
// are un-curried: a function of rank n becomes a native function of n parameters, and a function
// type used as a value becomes a pointer to the native function type of its full rank.
package codegen

import (
	"log/slog"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"

	"github.com/wdamron/akane"
	"github.com/wdamron/akane/errs"
	"github.com/wdamron/akane/types"
)

// Options configure code generation.
type Options struct {
	// SourceFilename is recorded in the module header.
	SourceFilename string
	// TargetTriple is recorded in the module header when set.
	TargetTriple string
	// Logger defaults to the session's logger.
	Logger *slog.Logger
}

// Generator holds the native functions declared for one session.
type Generator struct {
	s   *akane.Session
	m   *ir.Module
	log *slog.Logger

	funcs map[*akane.Abs]*ir.Func
	insts map[*akane.Inst]*ir.Func
}

// Generate emits every function of s into a new module. s must have been analyzed without
// errors. Generation stops at the first error.
func Generate(s *akane.Session, opts Options) (*ir.Module, error) {
	g := New(s, opts)
	if err := g.declareAll(); err != nil {
		return nil, err
	}
	if err := g.defineAll(); err != nil {
		return nil, err
	}
	return g.m, nil
}

// New creates a generator for s with an empty module.
func New(s *akane.Session, opts Options) *Generator {
	m := ir.NewModule()
	m.SourceFilename = opts.SourceFilename
	m.TargetTriple = opts.TargetTriple
	log := opts.Logger
	if log == nil {
		log = s.Log
	}
	return &Generator{
		s:     s,
		m:     m,
		log:   log,
		funcs: make(map[*akane.Abs]*ir.Func),
		insts: make(map[*akane.Inst]*ir.Func),
	}
}

// declareAll creates the signature of every native function before any body is lowered, so that
// bodies may call functions defined later.
func (g *Generator) declareAll() error {
	var err error
	g.s.Abses.Range(func(_ int, abs *akane.Abs) bool {
		switch {
		case abs.IsGeneric():
			for _, inst := range abs.Instances() {
				var f *ir.Func
				if f, err = g.declare(inst.Name, inst.Args, inst.Ty); err != nil {
					return false
				}
				g.insts[inst] = f
			}
		case abs.Body != nil:
			var f *ir.Func
			if f, err = g.declare(abs.Name, abs.Args, abs.Type()); err != nil {
				return false
			}
			g.funcs[abs] = f
		}
		return true
	})
	return err
}

func (g *Generator) declare(name string, args []*akane.Var, ty types.Ty) (*ir.Func, error) {
	paramTys, ret := types.ArgsAndRet(ty)
	if len(paramTys) < len(args) {
		return nil, errs.Errorf(errs.InternalInvariant, "`%s` binds %d arguments, but has type %s",
			name, len(args), types.TypeString(ty))
	}
	params := make([]*ir.Param, len(args))
	for i, arg := range args {
		t, err := g.nativeType(paramTys[i])
		if err != nil {
			return nil, errors.Wrapf(err, "parameter `%s` of `%s`", arg.Name, name)
		}
		params[i] = ir.NewParam(arg.Name, t)
	}
	// Parameters beyond the bound arguments belong to the function returned by the definition.
	for i := len(paramTys) - 1; i >= len(args); i-- {
		ret = g.s.Types.Arrow(paramTys[i], ret)
	}
	retTy, err := g.nativeType(ret)
	if err != nil {
		return nil, errors.Wrapf(err, "result of `%s`", name)
	}
	return g.m.NewFunc(name, retTy, params...), nil
}

func (g *Generator) defineAll() error {
	for _, abs := range g.s.Abses.Values() {
		if !abs.IsGeneric() {
			if f, ok := g.funcs[abs]; ok {
				if err := g.define(f, abs.Name, abs.Args, abs.Body); err != nil {
					return err
				}
			}
			continue
		}
		for _, inst := range abs.Instances() {
			if err := g.define(g.insts[inst], inst.Name, inst.Args, inst.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) define(f *ir.Func, name string, args []*akane.Var, body akane.Expr) error {
	fn := &function{g: g, f: f, block: f.NewBlock("entry"), params: make(map[*akane.Var]*ir.Param, len(args))}
	for i, arg := range args {
		fn.params[arg] = f.Params[i]
	}
	v, err := fn.lower(body)
	if err != nil {
		return errors.Wrapf(err, "generating `%s`", name)
	}
	fn.block.NewRet(v)
	g.log.Debug("emitted function", "symbol", name, "params", len(args))
	return nil
}

// nativeType maps I64 to i64, F64 to double and a function type to a pointer to its un-curried
// native signature.
func (g *Generator) nativeType(t types.Ty) (lltypes.Type, error) {
	switch t := t.(type) {
	case *types.Base:
		switch t {
		case g.s.I64:
			return lltypes.I64, nil
		case g.s.F64:
			return lltypes.Double, nil
		}
		return nil, errs.Errorf(errs.NotSupported, "no native representation for type %s", t.Name)
	case *types.Arrow:
		params, ret := types.ArgsAndRet(t)
		retTy, err := g.nativeType(ret)
		if err != nil {
			return nil, err
		}
		paramTys := make([]lltypes.Type, len(params))
		for i, p := range params {
			if paramTys[i], err = g.nativeType(p); err != nil {
				return nil, err
			}
		}
		return lltypes.NewPointer(lltypes.NewFunc(retTy, paramTys...)), nil
	default:
		return nil, errs.Errorf(errs.InternalInvariant, "type %s reached code generation", types.TypeString(t))
	}
}

// function lowers the body of one native function into its single block.
type function struct {
	g      *Generator
	f      *ir.Func
	block  *ir.Block
	params map[*akane.Var]*ir.Param
}

func (fn *function) lower(e akane.Expr) (value.Value, error) {
	switch e := e.(type) {
	case *akane.Var:
		return fn.variable(e)
	case *akane.Cn:
		return fn.literal(e)
	case *akane.App:
		if e.Arg == nil {
			return fn.reference(e)
		}
		return fn.apply(e)
	case *akane.Abs:
		return nil, errs.Errorf(errs.NotSupported, "nested function `%s`", e.Name)
	default:
		return nil, errs.Errorf(errs.InternalInvariant, "unexpected %s in function body", e.ExprName())
	}
}

func (fn *function) variable(v *akane.Var) (value.Value, error) {
	if p, ok := fn.params[v]; ok {
		return p, nil
	}
	abs, ok := fn.g.s.Binding(v)
	if !ok {
		return nil, errs.Errorf(errs.InternalInvariant, "variable `%s` is neither an argument nor a function", v.Describe())
	}
	if abs.IsGeneric() {
		return nil, errs.Errorf(errs.InternalInvariant, "generic function `%s` referenced without an environment", v.Name)
	}
	f, ok := fn.g.funcs[abs]
	if !ok {
		return nil, errs.Errorf(errs.InternalInvariant, "function `%s` was not declared", v.Name)
	}
	if len(f.Params) == 0 {
		return fn.block.NewCall(f), nil
	}
	return f, nil
}

func (fn *function) literal(c *akane.Cn) (value.Value, error) {
	switch c.Type() {
	case fn.g.s.I64:
		x, err := strconv.ParseInt(c.Text, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "integer literal `%s`", c.Text)
		}
		return constant.NewInt(lltypes.I64, x), nil
	case fn.g.s.F64:
		x, err := strconv.ParseFloat(c.Text, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "real literal `%s`", c.Text)
		}
		return constant.NewFloat(lltypes.Double, x), nil
	default:
		return nil, errs.Errorf(errs.InternalInvariant, "literal `%s` has type %s", c.Text, types.TypeString(c.Type()))
	}
}

// target returns the native function called through root at an application whose root
// environment is env.
func (fn *function) target(root *akane.Var, env types.Env) (value.Value, error) {
	if p, ok := fn.params[root]; ok {
		return p, nil
	}
	abs, ok := fn.g.s.Binding(root)
	if !ok {
		return nil, errs.Errorf(errs.InternalInvariant, "`%s` is not callable", root.Describe())
	}
	if !abs.IsGeneric() {
		f, ok := fn.g.funcs[abs]
		if !ok {
			return nil, errs.Errorf(errs.InternalInvariant, "function `%s` was not declared", abs.Name)
		}
		return f, nil
	}
	inst, ok := abs.Instance(env)
	if !ok {
		return nil, errs.Errorf(errs.InternalInvariant, "no instantiation of `%s` for %s", abs.Name, env.String())
	}
	return fn.g.insts[inst], nil
}

// reference lowers a bare reference: the call of a nullary function, or a function used as a value.
func (fn *function) reference(app *akane.App) (value.Value, error) {
	callee, err := fn.target(app.Root, app.Env)
	if err != nil {
		return nil, err
	}
	f, ok := callee.(*ir.Func)
	if !ok {
		return callee, nil
	}
	if len(f.Params) == 0 {
		return fn.block.NewCall(f), nil
	}
	if rank := app.Type().Rank(); rank != len(f.Params) {
		return nil, errs.Errorf(errs.NotSupported, "`%s` takes %d arguments, but is passed where a function of %d arguments is expected",
			f.Name(), len(f.Params), rank)
	}
	return f, nil
}

func (fn *function) apply(app *akane.App) (value.Value, error) {
	_, argExprs := app.Flatten()
	args := make([]value.Value, len(argExprs))
	for i, argExpr := range argExprs {
		v, err := fn.lower(argExpr)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if abs, ok := fn.g.s.Binding(app.Root); ok && abs.IsPrim() {
		return fn.primitive(abs.Prim, argExprs, args)
	}
	callee, err := fn.target(app.Root, app.Env)
	if err != nil {
		return nil, err
	}
	return fn.call(callee, args)
}

// call un-curries the application of callee to args: callee receives as many arguments as its
// native signature takes, and any remaining arguments are applied to the function it returns.
func (fn *function) call(callee value.Value, args []value.Value) (value.Value, error) {
	for len(args) > 0 {
		sig, err := signature(callee)
		if err != nil {
			return nil, err
		}
		n := len(sig.Params)
		if n == 0 || n > len(args) {
			return nil, errs.Errorf(errs.InternalInvariant, "native function of %d parameters applied to %d arguments", n, len(args))
		}
		callee, args = fn.block.NewCall(callee, args[:n]...), args[n:]
	}
	return callee, nil
}

func signature(callee value.Value) (*lltypes.FuncType, error) {
	ptr, ok := callee.Type().(*lltypes.PointerType)
	if !ok {
		return nil, errs.Errorf(errs.InternalInvariant, "call of a value of type %s", callee.Type().LLString())
	}
	sig, ok := ptr.ElemType.(*lltypes.FuncType)
	if !ok {
		return nil, errs.Errorf(errs.InternalInvariant, "call through a pointer to %s", ptr.ElemType.LLString())
	}
	return sig, nil
}

// primitive inlines a builtin. Arithmetic is selected by operand type; pipe calls its function
// operand with its value operand.
func (fn *function) primitive(prim akane.Prim, argExprs []akane.Expr, args []value.Value) (value.Value, error) {
	if prim == akane.PrimPipe {
		if len(args) < 2 {
			return nil, errs.Errorf(errs.InternalInvariant, "pipe applied to %d arguments", len(args))
		}
		rest := append([]value.Value{args[0]}, args[2:]...)
		return fn.call(args[1], rest)
	}
	if len(args) != 2 {
		return nil, errs.Errorf(errs.NotSupported, "`%s` applied to %d arguments", prim, len(args))
	}
	x, y := args[0], args[1]
	switch argExprs[0].Type() {
	case fn.g.s.I64:
		switch prim {
		case akane.PrimAdd:
			return fn.block.NewAdd(x, y), nil
		case akane.PrimSub:
			return fn.block.NewSub(x, y), nil
		case akane.PrimMul:
			return fn.block.NewMul(x, y), nil
		case akane.PrimDiv:
			return fn.block.NewSDiv(x, y), nil
		}
	case fn.g.s.F64:
		switch prim {
		case akane.PrimAdd:
			return fn.block.NewFAdd(x, y), nil
		case akane.PrimSub:
			return fn.block.NewFSub(x, y), nil
		case akane.PrimMul:
			return fn.block.NewFMul(x, y), nil
		case akane.PrimDiv:
			return fn.block.NewFDiv(x, y), nil
		}
	default:
		return nil, errs.Errorf(errs.NotSupported, "`%s` on values of type %s", prim, types.TypeString(argExprs[0].Type()))
	}
	return nil, errs.Errorf(errs.InternalInvariant, "unknown primitive %d", prim)
}
