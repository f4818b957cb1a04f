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

// Package engine executes generated modules in process.
//
// It interprets the subset of LLVM IR emitted by package codegen: integer and floating-point
// arithmetic, direct and indirect calls, and returns. Each function has a single block.
package engine

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"

	"github.com/wdamron/akane/errs"
)

// DefaultMaxCallDepth bounds the nesting of calls during one evaluation.
const DefaultMaxCallDepth = 10000

var (
	// ErrCallDepth is returned when an evaluation nests calls deeper than the configured limit.
	ErrCallDepth = errors.New("call depth limit exceeded")
	// ErrDivideByZero is returned by an integer division by zero.
	ErrDivideByZero = errors.New("integer division by zero")
)

// Kind is the native type of a Value.
type Kind uint8

const (
	Int Kind = iota
	Float
	Func
)

// Value is a native value: a 64-bit integer, a double, or a function pointer.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Func  *ir.Func
}

// IntValue returns an i64 value.
func IntValue(x int64) Value { return Value{Kind: Int, Int: x} }

// FloatValue returns a double value.
func FloatValue(x float64) Value { return Value{Kind: Float, Float: x} }

// FuncValue returns a pointer to f.
func FuncValue(f *ir.Func) Value { return Value{Kind: Func, Func: f} }

func (v Value) String() string {
	switch v.Kind {
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Float:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return "@" + v.Func.Name()
	}
}

// Options configure a Machine.
type Options struct {
	// MaxCallDepth defaults to DefaultMaxCallDepth.
	MaxCallDepth int
	Logger       *slog.Logger
}

// Machine evaluates the functions of one module.
type Machine struct {
	funcs    map[string]*ir.Func
	maxDepth int
	log      *slog.Logger
}

// New creates a machine for m.
func New(m *ir.Module, opts Options) *Machine {
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	funcs := make(map[string]*ir.Func, len(m.Funcs))
	for _, f := range m.Funcs {
		funcs[f.Name()] = f
	}
	return &Machine{funcs: funcs, maxDepth: opts.MaxCallDepth, log: opts.Logger}
}

// Lookup returns the function named name.
func (m *Machine) Lookup(name string) (*ir.Func, error) {
	f, ok := m.funcs[name]
	if !ok {
		return nil, errs.Errorf(errs.NotFound, "function `%s` not found", name)
	}
	return f, nil
}

// Call evaluates the function named name with args.
func (m *Machine) Call(ctx context.Context, name string, args ...Value) (Value, error) {
	f, err := m.Lookup(name)
	if err != nil {
		return Value{}, err
	}
	if len(args) != len(f.Params) {
		return Value{}, errs.Errorf(errs.TypeMismatch, "`%s` takes %d arguments, but %d were given", name, len(f.Params), len(args))
	}
	for i, p := range f.Params {
		if want := kindOf(p.Type().LLString()); args[i].Kind != want {
			return Value{}, errs.Errorf(errs.TypeMismatch, "argument %d of `%s` must be %s", i+1, name, p.Type().LLString())
		}
	}
	m.log.Debug("calling function", "name", name, "args", len(args))
	return m.exec(ctx, f, args, 0)
}

// ParseArgs parses one textual argument per parameter of the function named name.
func (m *Machine) ParseArgs(name string, texts []string) ([]Value, error) {
	f, err := m.Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(texts) != len(f.Params) {
		return nil, errs.Errorf(errs.TypeMismatch, "`%s` takes %d arguments, but %d were given", name, len(f.Params), len(texts))
	}
	args := make([]Value, len(texts))
	for i, p := range f.Params {
		switch kindOf(p.Type().LLString()) {
		case Int:
			x, err := strconv.ParseInt(texts[i], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "argument %d of `%s`", i+1, name)
			}
			args[i] = IntValue(x)
		case Float:
			x, err := strconv.ParseFloat(texts[i], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "argument %d of `%s`", i+1, name)
			}
			args[i] = FloatValue(x)
		default:
			fn, err := m.Lookup(texts[i])
			if err != nil {
				return nil, errors.Wrapf(err, "argument %d of `%s`", i+1, name)
			}
			args[i] = FuncValue(fn)
		}
	}
	return args, nil
}

func kindOf(llType string) Kind {
	switch llType {
	case "i64":
		return Int
	case "double":
		return Float
	default:
		return Func
	}
}

type frame map[value.Value]Value

func (m *Machine) exec(ctx context.Context, f *ir.Func, args []Value, depth int) (Value, error) {
	if depth >= m.maxDepth {
		return Value{}, errors.Wrapf(ErrCallDepth, "calling `%s` (limit %d)", f.Name(), m.maxDepth)
	}
	if err := ctx.Err(); err != nil {
		return Value{}, err
	}
	if len(f.Blocks) != 1 {
		return Value{}, errs.Errorf(errs.NotSupported, "function `%s` has %d blocks", f.Name(), len(f.Blocks))
	}

	fr := make(frame, len(args)+len(f.Blocks[0].Insts))
	for i, p := range f.Params {
		fr[p] = args[i]
	}
	block := f.Blocks[0]
	for _, inst := range block.Insts {
		v, err := m.step(ctx, fr, inst, depth)
		if err != nil {
			return Value{}, err
		}
		fr[inst.(value.Value)] = v
	}
	ret, ok := block.Term.(*ir.TermRet)
	if !ok || ret.X == nil {
		return Value{}, errs.Errorf(errs.NotSupported, "function `%s` does not return a value", f.Name())
	}
	return fr.eval(ret.X)
}

func (fr frame) eval(v value.Value) (Value, error) {
	switch v := v.(type) {
	case *constant.Int:
		if !v.X.IsInt64() {
			return Value{}, errs.Errorf(errs.NotSupported, "integer constant %s does not fit in 64 bits", v.X)
		}
		return IntValue(v.X.Int64()), nil
	case *constant.Float:
		x, _ := v.X.Float64()
		return FloatValue(x), nil
	case *ir.Func:
		return FuncValue(v), nil
	default:
		x, ok := fr[v]
		if !ok {
			return Value{}, errs.Errorf(errs.InternalInvariant, "operand %s used before definition", v.Ident())
		}
		return x, nil
	}
}

func (m *Machine) step(ctx context.Context, fr frame, inst ir.Instruction, depth int) (Value, error) {
	switch inst := inst.(type) {
	case *ir.InstAdd:
		return fr.ints(inst.X, inst.Y, func(x, y int64) (int64, error) { return x + y, nil })
	case *ir.InstSub:
		return fr.ints(inst.X, inst.Y, func(x, y int64) (int64, error) { return x - y, nil })
	case *ir.InstMul:
		return fr.ints(inst.X, inst.Y, func(x, y int64) (int64, error) { return x * y, nil })
	case *ir.InstSDiv:
		return fr.ints(inst.X, inst.Y, func(x, y int64) (int64, error) {
			if y == 0 {
				return 0, ErrDivideByZero
			}
			if x == math.MinInt64 && y == -1 {
				return x, nil
			}
			return x / y, nil
		})
	case *ir.InstFAdd:
		return fr.floats(inst.X, inst.Y, func(x, y float64) float64 { return x + y })
	case *ir.InstFSub:
		return fr.floats(inst.X, inst.Y, func(x, y float64) float64 { return x - y })
	case *ir.InstFMul:
		return fr.floats(inst.X, inst.Y, func(x, y float64) float64 { return x * y })
	case *ir.InstFDiv:
		return fr.floats(inst.X, inst.Y, func(x, y float64) float64 { return x / y })
	case *ir.InstCall:
		callee, err := fr.eval(inst.Callee)
		if err != nil {
			return Value{}, err
		}
		if callee.Kind != Func {
			return Value{}, errs.Errorf(errs.InternalInvariant, "call of non-function %s", callee)
		}
		args := make([]Value, len(inst.Args))
		for i, arg := range inst.Args {
			if args[i], err = fr.eval(arg); err != nil {
				return Value{}, err
			}
		}
		return m.exec(ctx, callee.Func, args, depth+1)
	default:
		return Value{}, errs.Errorf(errs.NotSupported, "unsupported instruction %T", inst)
	}
}

func (fr frame) ints(xv, yv value.Value, op func(x, y int64) (int64, error)) (Value, error) {
	x, err := fr.eval(xv)
	if err != nil {
		return Value{}, err
	}
	y, err := fr.eval(yv)
	if err != nil {
		return Value{}, err
	}
	if x.Kind != Int || y.Kind != Int {
		return Value{}, errs.Errorf(errs.InternalInvariant, "integer operation on %s and %s", x, y)
	}
	z, err := op(x.Int, y.Int)
	if err != nil {
		return Value{}, err
	}
	return IntValue(z), nil
}

func (fr frame) floats(xv, yv value.Value, op func(x, y float64) float64) (Value, error) {
	x, err := fr.eval(xv)
	if err != nil {
		return Value{}, err
	}
	y, err := fr.eval(yv)
	if err != nil {
		return Value{}, err
	}
	if x.Kind != Float || y.Kind != Float {
		return Value{}, errs.Errorf(errs.InternalInvariant, "floating-point operation on %s and %s", x, y)
	}
	return FloatValue(op(x.Float, y.Float)), nil
}
