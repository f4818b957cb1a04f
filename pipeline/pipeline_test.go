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

package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/akane/config"
	"github.com/wdamron/akane/engine"
	"github.com/wdamron/akane/errs"
)

func entry(name string) Options {
	cfg := config.Default()
	cfg.Entry = name
	return Options{File: "unit.ak", Config: cfg}
}

func run(t *testing.T, src string, opts Options, args ...string) (engine.Value, string) {
	t.Helper()
	v, res, err := Run(context.Background(), []byte(src), opts, args...)
	require.NoError(t, err, errs.Format(err))
	var buf bytes.Buffer
	require.NoError(t, WriteIR(&buf, res.Module))
	return v, buf.String()
}

func TestGenericIdentityIsMonomorphized(t *testing.T) {
	src := `
fn id x : a -> a = x;
fn main = id 7;
fn main2 : F64 = id 2.5;
`
	v, ir := run(t, src, entry("main"))
	assert.Equal(t, engine.IntValue(7), v)
	assert.Contains(t, ir, "@id.I64(i64 %x)")
	assert.Contains(t, ir, "@id.F64(double %x)")

	v, _ = run(t, src, entry("main2"))
	assert.Equal(t, engine.FloatValue(2.5), v)
}

func TestUserDefinitionShadowsBuiltinName(t *testing.T) {
	v, ir := run(t, `
fn add x y = x + y;
fn main = add 2 3;
`, entry("main"))
	assert.Equal(t, engine.IntValue(5), v)
	assert.Equal(t, 1, strings.Count(ir, " = add i64 "))
	assert.NotContains(t, ir, "_add")
}

func TestHigherOrderFunctions(t *testing.T) {
	src := `
fn inc x = x + 1;
fn half x : F64 -> F64 = x / 2.0;
fn twice f x : (a -> a) -> a -> a = f (f x);
fn main1 = twice inc 1;
fn main2 : F64 = twice half 8.0;
`
	v, ir := run(t, src, entry("main1"))
	assert.Equal(t, engine.IntValue(3), v)
	assert.Contains(t, ir, "@twice.I64(")
	assert.Contains(t, ir, "@twice.F64(")
	assert.Contains(t, ir, "fdiv double")

	v, _ = run(t, src, entry("main2"))
	assert.Equal(t, engine.FloatValue(2), v)
}

func TestBuiltinPassedAsValue(t *testing.T) {
	v, ir := run(t, `
fn ap2 f x y : (a -> a -> a) -> a -> a -> a = f x y;
fn main = ap2 mul 6 7;
`, entry("main"))
	assert.Equal(t, engine.IntValue(42), v)
	assert.Contains(t, ir, "@_mul.I64(")
}

func TestFunctionReturnedByInstantiationIsApplied(t *testing.T) {
	v, _ := run(t, `
fn id x : a -> a = x;
fn inc x = x + 1;
fn main = id inc 41;
`, entry("main"))
	assert.Equal(t, engine.IntValue(42), v)
}

func TestPipes(t *testing.T) {
	v, _ := run(t, `
fn inc x = x + 1;
fn sub2 x y = x - y;
fn main = 10 |> inc |> sub2 20;
`, entry("main"))
	assert.Equal(t, engine.IntValue(9), v)
}

func TestEntryArguments(t *testing.T) {
	v, _ := run(t, "fn main x y = x * y - 1;", entry("main"), "6", "7")
	assert.Equal(t, engine.IntValue(41), v)

	_, _, err := Run(context.Background(), []byte("fn main x = x;"), entry("main"))
	require.Error(t, err)
	assert.Equal(t, errs.TypeMismatch, errs.KindOf(err))
}

func TestModuleHeader(t *testing.T) {
	opts := entry("main")
	opts.Config.TargetTriple = "x86_64-unknown-linux-gnu"
	_, ir := run(t, "fn main = 1;", opts)
	assert.Contains(t, ir, `source_filename = "unit.ak"`)
	assert.Contains(t, ir, `target triple = "x86_64-unknown-linux-gnu"`)
}

func TestCallDepthLimit(t *testing.T) {
	opts := entry("main")
	opts.Config.MaxCallDepth = 100
	_, _, err := Run(context.Background(), []byte("fn loop x = loop x;\nfn main = loop 1;"), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrCallDepth))
}

func TestDiagnosticsStopCompilation(t *testing.T) {
	for src, kind := range map[string]errs.Kind{
		"fn main = foo 1;":                      errs.NotFound,
		"fn f x y z : I64 -> I64 -> I64 = x;":   errs.TypeMismatch,
		"fn main = 1 +;":                        errs.Syntax,
		"fn id x : a -> a = x;\nfn main = id;": errs.AmbiguousType,
	} {
		res, err := Build(context.Background(), []byte(src), Options{File: "unit.ak"})
		require.Error(t, err, src)
		assert.Nil(t, res, src)
		assert.Equal(t, kind, errs.KindOf(err), src)
	}
}

func TestUnresolvedAnnotationIsTheOnlyDiagnostic(t *testing.T) {
	_, res, err := Run(context.Background(), []byte("fn f x : Foo -> I64 = x;\nfn main = f 1;"), entry("main"))
	require.Error(t, err)
	assert.Nil(t, res)
	var list errs.List
	require.ErrorAs(t, err, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "unit.ak:1:10: not found: unknown type: `Foo`", list[0].Error())
}

func TestCheckDoesNotGenerateCode(t *testing.T) {
	res, err := Check(context.Background(), []byte("fn main = 1;"), Options{})
	require.NoError(t, err)
	assert.Nil(t, res.Module)
	assert.NotNil(t, res.Session)
}
