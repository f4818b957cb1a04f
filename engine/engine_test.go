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

package engine

import (
	"context"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/akane/errs"
)

// sample builds:
//
//	define i64 @inc(i64 %x) { %1 = add i64 %x, 1; ret i64 %1 }
//	define i64 @apply(i64 (i64)* %f, i64 %x) { %1 = call i64 %f(i64 %x); ret i64 %1 }
//	define i64 @main() { %1 = call i64 @apply(i64 (i64)* @inc, i64 41); ret i64 %1 }
//	define double @halve(double %x) { %1 = fdiv double %x, 2.0; ret double %1 }
//	define i64 @loop(i64 %x) { %1 = call i64 @loop(i64 %x); ret i64 %1 }
//	define i64 @quot(i64 %x, i64 %y) { %1 = sdiv i64 %x, %y; ret i64 %1 }
func sample() *ir.Module {
	m := ir.NewModule()

	x := ir.NewParam("x", types.I64)
	inc := m.NewFunc("inc", types.I64, x)
	b := inc.NewBlock("entry")
	b.NewRet(b.NewAdd(x, constant.NewInt(types.I64, 1)))

	f := ir.NewParam("f", types.NewPointer(types.NewFunc(types.I64, types.I64)))
	x = ir.NewParam("x", types.I64)
	apply := m.NewFunc("apply", types.I64, f, x)
	b = apply.NewBlock("entry")
	b.NewRet(b.NewCall(f, x))

	main := m.NewFunc("main", types.I64)
	b = main.NewBlock("entry")
	b.NewRet(b.NewCall(apply, inc, constant.NewInt(types.I64, 41)))

	xf := ir.NewParam("x", types.Double)
	halve := m.NewFunc("halve", types.Double, xf)
	b = halve.NewBlock("entry")
	b.NewRet(b.NewFDiv(xf, constant.NewFloat(types.Double, 2)))

	x = ir.NewParam("x", types.I64)
	loop := m.NewFunc("loop", types.I64, x)
	b = loop.NewBlock("entry")
	b.NewRet(b.NewCall(loop, x))

	x, y := ir.NewParam("x", types.I64), ir.NewParam("y", types.I64)
	quot := m.NewFunc("quot", types.I64, x, y)
	b = quot.NewBlock("entry")
	b.NewRet(b.NewSDiv(x, y))

	return m
}

func TestCallThroughFunctionPointer(t *testing.T) {
	m := New(sample(), Options{})
	v, err := m.Call(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, IntValue(42), v)
	assert.Equal(t, "42", v.String())
}

func TestFloatingPointArithmetic(t *testing.T) {
	m := New(sample(), Options{})
	v, err := m.Call(context.Background(), "halve", FloatValue(5))
	require.NoError(t, err)
	assert.Equal(t, FloatValue(2.5), v)
}

func TestCallDepthLimit(t *testing.T) {
	m := New(sample(), Options{MaxCallDepth: 50})
	_, err := m.Call(context.Background(), "loop", IntValue(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCallDepth))
	assert.Contains(t, err.Error(), "limit 50")
}

func TestDivisionByZero(t *testing.T) {
	m := New(sample(), Options{})
	v, err := m.Call(context.Background(), "quot", IntValue(7), IntValue(2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Int)

	_, err = m.Call(context.Background(), "quot", IntValue(7), IntValue(0))
	assert.True(t, errors.Is(err, ErrDivideByZero))
}

func TestCallChecksArguments(t *testing.T) {
	m := New(sample(), Options{})
	_, err := m.Call(context.Background(), "missing")
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	_, err = m.Call(context.Background(), "inc")
	assert.Equal(t, errs.TypeMismatch, errs.KindOf(err))

	_, err = m.Call(context.Background(), "inc", FloatValue(1))
	assert.Equal(t, errs.TypeMismatch, errs.KindOf(err))
}

func TestParseArgs(t *testing.T) {
	m := New(sample(), Options{})
	args, err := m.ParseArgs("apply", []string{"inc", "-3"})
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, Func, args[0].Kind)
	assert.Equal(t, "@inc", args[0].String())

	v, err := m.Call(context.Background(), "apply", args...)
	require.NoError(t, err)
	assert.Equal(t, IntValue(-2), v)

	_, err = m.ParseArgs("halve", []string{"x"})
	assert.Error(t, err)
}

func TestCancelledContext(t *testing.T) {
	m := New(sample(), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Call(ctx, "main")
	assert.ErrorIs(t, err, context.Canceled)
}
