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

package akane_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	"github.com/wdamron/akane"
	"github.com/wdamron/akane/errs"
	"github.com/wdamron/akane/parser"
	"github.com/wdamron/akane/types"
)

func analyze(t *testing.T, src string, opts akane.Options) (*akane.Session, error) {
	t.Helper()
	defs, err := parser.Parse("", []byte(src))
	require.NoError(t, err)
	s := akane.NewSession(opts)
	return s, s.Analyze(defs)
}

func mustAnalyze(t *testing.T, src string) *akane.Session {
	t.Helper()
	s, err := analyze(t, src, akane.Options{})
	require.NoError(t, err, errs.Format(err))
	return s
}

func function(t *testing.T, s *akane.Session, name string) *akane.Abs {
	t.Helper()
	v, err := s.Lookup(name)
	require.NoError(t, err)
	abs, ok := s.Binding(v)
	require.True(t, ok, "%s is not a function", name)
	return abs
}

func instances(abs *akane.Abs) []string {
	var names []string
	for _, inst := range abs.Instances() {
		names = append(names, inst.Name)
	}
	return names
}

func TestMonomorphicDefinitionShadowsBuiltinName(t *testing.T) {
	s := mustAnalyze(t, `
fn add x y = x + y;
fn main = add 2 3;
`)
	add := function(t, s, "add")
	assert.False(t, add.IsGeneric())
	assert.False(t, add.IsPrim())
	assert.Equal(t, "I64 -> I64 -> I64", types.TypeString(add.Type()))

	// `+` inside the user's add still refers to the builtin, which is inlined rather than
	// instantiated.
	builtin, err := s.Builtin("add")
	require.NoError(t, err)
	prim, ok := s.Binding(builtin)
	require.True(t, ok)
	assert.True(t, prim.IsPrim())
	assert.Empty(t, prim.Instances())

	body := add.Body.(*akane.App)
	assert.Same(t, builtin, body.Root)
	assert.Equal(t, "{a: I64}", body.Env.String())

	main := function(t, s, "main")
	call := main.Body.(*akane.App)
	assert.Equal(t, s.Module, call.Root.Qual)
	assert.Equal(t, "add", call.Root.Name)
}

func TestGenericIdentityIsInstantiatedOncePerType(t *testing.T) {
	s := mustAnalyze(t, `
fn id x : a -> a = x;
fn one = id 1;
fn half : F64 = id 0.5;
fn two = id 2;
`)
	id := function(t, s, "id")
	assert.True(t, id.IsGeneric())
	assert.Equal(t, []string{"id.I64", "id.F64"}, instances(id))

	f64 := id.Instances()[1]
	assert.Equal(t, "F64 -> F64", types.TypeString(f64.Ty))
	require.Len(t, f64.Args, 1)
	assert.Same(t, s.F64, f64.Args[0].Type())
	assert.Same(t, f64.Args[0], f64.Body)
}

func TestHigherOrderGenericInstantiation(t *testing.T) {
	s := mustAnalyze(t, `
fn inc x = x + 1;
fn half x : F64 -> F64 = x / 2.0;
fn twice f x : (a -> a) -> a -> a = f (f x);
fn main1 = twice inc 1;
fn main2 : F64 = twice half 8.0;
`)
	twice := function(t, s, "twice")
	assert.Equal(t, []string{"twice.I64", "twice.F64"}, instances(twice))

	inst := twice.Instances()[0]
	assert.Equal(t, "(I64 -> I64) -> I64 -> I64", types.TypeString(inst.Ty))
	assert.Equal(t, "I64 -> I64", types.TypeString(inst.Args[0].Type()))

	// The body of an instantiation refers to its own arguments.
	outer := inst.Body.(*akane.App)
	assert.Same(t, inst.Args[0], outer.Root)
	inner := outer.Arg.(*akane.App)
	assert.Same(t, inst.Args[1], inner.Arg)
}

func TestHeadApplicationsSupplyExactlyTheCalleeRank(t *testing.T) {
	s := mustAnalyze(t, `
fn inc x = x + 1;
fn twice f x : (a -> a) -> a -> a = f (f x);
fn main = twice inc 1 |> inc;
`)
	n := 0
	s.Apps.Range(func(_ int, app *akane.App) bool {
		if !app.Head || app.Arg == nil {
			return true
		}
		_, args := app.Flatten()
		assert.Equal(t, app.Root.Type().Rank(), len(args), "application of %s", app.Root.Name)
		n++
		return true
	})
	assert.NotZero(t, n)
}

func TestUnknownVariable(t *testing.T) {
	_, err := analyze(t, "fn main = foo 1;", akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
	assert.Equal(t, "1:11: not found: unknown variable: `foo`", err.Error())
}

func TestAnnotationArityMismatch(t *testing.T) {
	_, err := analyze(t, "fn f x y z : I64 -> I64 -> I64 = x;", akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.TypeMismatch, errs.KindOf(err))
	assert.Equal(t, "1:1: type mismatch: arity mismatch: the type annotation of `f` has rank 2, but the definition binds 3 arguments", err.Error())
}

func TestInvalidDeclarationIsReportedOnce(t *testing.T) {
	for _, src := range []string{
		"fn f x : Foo -> I64 = x;\nfn main = f 1;",
		"fn f x : Foo -> I64 = x;\nfn main = 1 |> f;",
		"fn f x : Foo -> I64 = x;\nfn twice g x : (a -> a) -> a -> a = g (g x);\nfn main = twice f 1;",
		"fn f x y : I64 -> I64 = x;\nfn main = f 1 2;",
	} {
		_, err := analyze(t, src, akane.Options{})
		require.Error(t, err, src)
		var list errs.List
		require.ErrorAs(t, err, &list, src)
		require.Len(t, list, 1, src)
		assert.Equal(t, 1, list[0].(*errs.Error).Span.Line, src)
	}
}

func TestDiagnosticsAreSortedBySource(t *testing.T) {
	_, err := analyze(t, `fn main = g 1;
fn g x : I64 -> Foo = x;
fn h = bar;
fn k x y z : I64 = x;
`, akane.Options{})
	var list errs.List
	require.ErrorAs(t, err, &list)
	lines := make([]int, len(list))
	for i, e := range list {
		lines[i] = e.(*errs.Error).Span.Line
	}
	assert.Equal(t, []int{2, 3, 4}, lines)
}

func TestDiagnosticsAreCollectedPerDefinition(t *testing.T) {
	src := `fn inc x = x + 1;
fn main = inc foo;
fn three a b c : I64 -> I64 = a;
fn half x : F64 -> F64 = x / 2;
`
	s, err := analyze(t, src, akane.Options{})
	require.Error(t, err)

	var list errs.List
	require.ErrorAs(t, err, &list)
	assert.Len(t, list, 3)
	golden.Assert(t, errs.Format(err)+"\n", "diagnostics.golden")

	// Nothing is instantiated for a unit with errors.
	for _, abs := range s.Functions() {
		assert.Empty(t, abs.Instances(), abs.Name)
	}
}

func TestDuplicateDefinitions(t *testing.T) {
	_, err := analyze(t, "fn f = 1;\nfn f = 2;", akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.Duplicate, errs.KindOf(err))
	assert.Equal(t, "2:4: duplicate: duplicate function definitions: `f`", err.Error())
}

func TestDuplicateArguments(t *testing.T) {
	_, err := analyze(t, "fn f x x = x;", akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.Duplicate, errs.KindOf(err))
	assert.Contains(t, err.Error(), "duplicate argument `x` in definition of `f`")
}

func TestBodyMustMatchDeclaredResult(t *testing.T) {
	_, err := analyze(t, "fn f x : I64 -> F64 = x;", akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.TypeMismatch, errs.KindOf(err))
	assert.Contains(t, err.Error(), "the body of `f` has type I64, but its declared result type is F64")
}

func TestUnknownBaseType(t *testing.T) {
	_, err := analyze(t, "fn f x : Int -> Int = x;", akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
	assert.Contains(t, err.Error(), "unknown type: `Int`")
}

func TestConflictingBindingsAreRejected(t *testing.T) {
	_, err := analyze(t, `
fn k x y : a -> a -> a = x;
fn main = k 1 2.0;
`, akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.TypeMismatch, errs.KindOf(err))
	assert.Contains(t, err.Error(), "argument 2 of `k`: type variable `a` is already bound to I64, cannot bind it to F64")

	_, err = analyze(t, `
fn id x : a -> a = x;
fn main : I64 = id 1 + id 2.0;
`, akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.TypeMismatch, errs.KindOf(err))
	assert.Contains(t, err.Error(), "argument 2 of `add`: type variable `a` is already bound to I64, cannot bind it to F64")
}

func TestArgumentTypeMismatch(t *testing.T) {
	_, err := analyze(t, `
fn inc x = x + 1;
fn main = inc 1.5;
`, akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.TypeMismatch, errs.KindOf(err))
	assert.Contains(t, err.Error(), "argument 1 of `inc`: expected I64, found F64")
}

func TestUnresolvedTypeVariableIsAmbiguous(t *testing.T) {
	_, err := analyze(t, "fn mk x : I64 -> a = mk x;", akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.AmbiguousType, errs.KindOf(err))
	assert.Contains(t, err.Error(), "cannot infer type variable `a` of `mk`")
}

func TestGenericNullaryDefinitionIsNotSupported(t *testing.T) {
	_, err := analyze(t, "fn z : a = z;", akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.NotSupported, errs.KindOf(err))
}

func TestGenericValueNeedsADeterminedParameterType(t *testing.T) {
	_, err := analyze(t, `
fn id x : a -> a = x;
fn ap f x : (a -> b) -> a -> b = f x;
fn main = ap id 1;
`, akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.AmbiguousType, errs.KindOf(err))
	assert.Contains(t, err.Error(), "cannot infer the type arguments of `id` used as a value")

	_, err = analyze(t, `
fn id x : a -> a = x;
fn main = id;
`, akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.AmbiguousType, errs.KindOf(err))
}

func TestGenericValueIsResolvedFromTheParameterType(t *testing.T) {
	s := mustAnalyze(t, `
fn id x : a -> a = x;
fn ap f x : (a -> a) -> a -> a = f x;
fn main = ap id 3;
`)
	assert.Equal(t, []string{"id.I64"}, instances(function(t, s, "id")))
	assert.Equal(t, []string{"ap.I64"}, instances(function(t, s, "ap")))

	main := function(t, s, "main")
	_, args := main.Body.(*akane.App).Flatten()
	require.Len(t, args, 2)
	ref := args[0].(*akane.App)
	assert.Nil(t, ref.Arg)
	assert.Equal(t, "id", ref.Root.Name)
	assert.Equal(t, "I64 -> I64", types.TypeString(ref.Type()))
	assert.Equal(t, "{a: I64}", ref.Env.String())
}

func TestNestedInstantiationsAreDiscoveredWhileCloning(t *testing.T) {
	s := mustAnalyze(t, `
fn main : F64 = k 2.5;
fn k x : b -> b = id x;
fn id x : a -> a = x;
`)
	// id is only called with k's own type variable, so its instantiation is found while cloning
	// the body of k.F64.
	assert.Equal(t, []string{"k.F64"}, instances(function(t, s, "k")))
	assert.Equal(t, []string{"id.F64"}, instances(function(t, s, "id")))

	k := function(t, s, "k")
	call := k.Body.(*akane.App)
	assert.True(t, call.Env.IsNondeterministic())
	cloned := k.Instances()[0].Body.(*akane.App)
	assert.True(t, cloned.Env.IsConcrete())
}

func TestRecursionAndForwardReferences(t *testing.T) {
	s := mustAnalyze(t, `
fn main = f 2;
fn f x = g x * 3;
fn g x = f x;
fn loop x : a -> a = loop x;
fn spin : F64 = loop 1.0;
`)
	assert.Equal(t, []string{"loop.F64"}, instances(function(t, s, "loop")))

	var groups [][]string
	for _, group := range s.RecursiveGroups() {
		var names []string
		for _, abs := range group {
			names = append(names, abs.Name)
		}
		groups = append(groups, names)
	}
	assert.Equal(t, [][]string{{"f", "g"}, {"loop"}}, groups)
}

func TestPartialApplicationIsNotSupported(t *testing.T) {
	_, err := analyze(t, `
fn f x y = x + y;
fn main = f 1;
`, akane.Options{})
	require.Error(t, err)
	assert.Equal(t, errs.NotSupported, errs.KindOf(err))
	assert.Contains(t, err.Error(), "partial application of `f`")

	// A pipe into a partial application supplies the missing argument.
	mustAnalyze(t, `
fn f x y = x + y;
fn inc x = x + 1;
fn main = 3 |> f 1 |> inc;
`)
}

func TestInstantiationLimit(t *testing.T) {
	_, err := analyze(t, `
fn id x : a -> a = x;
fn one = id 1;
fn half : F64 = id 0.5;
`, akane.Options{MaxInstantiations: 1})
	require.Error(t, err)
	assert.Equal(t, errs.NotSupported, errs.KindOf(err))
	assert.Contains(t, err.Error(), "too many instantiations (limit 1)")
}

func TestInstantiateIsIdempotent(t *testing.T) {
	s := mustAnalyze(t, "fn id x : a -> a = x;")
	id := function(t, s, "id")
	assert.Empty(t, id.Instances())

	env, err := id.Env.Assign(types.FreeVars(id.Type())[0], s.F64)
	require.NoError(t, err)
	inst := s.Instantiate(id, env)
	assert.Equal(t, "id.F64", inst.Name)
	assert.Same(t, inst, s.Instantiate(id, env))

	found, ok := id.Instance(env)
	require.True(t, ok)
	assert.Same(t, inst, found)
}

func TestSessionsAreIsolated(t *testing.T) {
	src := `
fn id x : a -> a = x;
fn main = id 1;
`
	a := mustAnalyze(t, src)
	b := mustAnalyze(t, src)
	assert.NotEqual(t, a.ID, b.ID)

	idA, idB := function(t, a, "id"), function(t, b, "id")
	assert.NotSame(t, idA, idB)
	assert.Equal(t, instances(idA), instances(idB))
	assert.NotSame(t, idA.Instances()[0], idB.Instances()[0])
}

func TestFunctionsListsBuiltinsFirst(t *testing.T) {
	s := mustAnalyze(t, "fn main = 1;")
	var names []string
	for _, abs := range s.Functions() {
		names = append(names, abs.Name)
	}
	assert.Equal(t, "add sub mul div pipe main", strings.Join(names, " "))
}

func TestScopesAreBalancedAfterAnalysis(t *testing.T) {
	for _, src := range []string{
		"fn inc x = x + 1;\nfn main = inc 2;",
		"fn main = foo 1;\nfn f x x = x;",
	} {
		s, _ := analyze(t, src, akane.Options{})
		assert.Equal(t, 2, s.Quals.Len(), src)
		assert.Same(t, s.Module, s.Quals.Peek(), src)
	}
}
