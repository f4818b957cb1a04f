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

package errs

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/akane/ast"
)

var span = ast.Span{File: "unit.ak", Line: 2, Col: 10, Len: 3, Source: "fn main = foo 1"}

func TestKindSurvivesWrapping(t *testing.T) {
	err := pkgerrors.Wrap(Errorf(AmbiguousType, "cannot infer `a`"), "generating main")
	assert.Equal(t, AmbiguousType, KindOf(err))
	assert.Equal(t, "generating main: ambiguous type: cannot infer `a`", err.Error())
	assert.Equal(t, Internal, KindOf(errors.New("plain")))
}

func TestFormatIncludesExcerpt(t *testing.T) {
	err := At(span, NotFound, "unknown variable: `%s`", "foo")
	assert.Equal(t, "unit.ak:2:10: not found: unknown variable: `foo`", err.Error())
	assert.Equal(t, "unit.ak:2:10: not found: unknown variable: `foo`\nfn main = foo 1\n         ^~~", Format(err))
}

func TestWithSpan(t *testing.T) {
	located := WithSpan(Errorf(NotFound, "missing"), span)
	assert.Equal(t, "unit.ak:2:10: not found: missing", located.Error())

	other := ast.Span{Line: 9, Col: 1, Len: 1}
	assert.Same(t, located, WithSpan(located, other))

	plain := errors.New("plain")
	assert.Equal(t, plain, WithSpan(plain, span))
}

func TestListFlattensAndSkipsNil(t *testing.T) {
	var inner List
	inner.Add(Errorf(Duplicate, "a"))
	inner.Add(Errorf(TypeMismatch, "b"))

	var l List
	l.Add(nil)
	assert.NoError(t, l.Err())
	l.Add(inner)
	l.Add(At(span, Syntax, "c"))
	require.Len(t, l, 3)

	err := l.Err()
	assert.Equal(t, Duplicate, KindOf(err))
	assert.Equal(t, "duplicate: a\ntype mismatch: b\nunit.ak:2:10: syntax error: c", err.Error())
	assert.Equal(t, "duplicate: a\n\ntype mismatch: b\n\nunit.ak:2:10: syntax error: c\nfn main = foo 1\n         ^~~", Format(err))

	var target *Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "a", target.Msg)
}

func TestListSortsBySourcePosition(t *testing.T) {
	l := List{
		At(ast.Span{Line: 3, Col: 1}, TypeMismatch, "c"),
		Errorf(Internal, "unlocated"),
		At(ast.Span{Line: 1, Col: 9}, NotFound, "b"),
		At(ast.Span{Line: 1, Col: 2}, NotFound, "a"),
	}
	l.Sort()
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.(*Error).Msg
	}
	assert.Equal(t, []string{"a", "b", "c", "unlocated"}, msgs)
}

func TestFilter(t *testing.T) {
	skip := errors.New("skip")
	l := List{Errorf(NotFound, "a"), skip, Errorf(Duplicate, "b")}
	kept := l.Filter(func(err error) bool { return !errors.Is(err, skip) })
	require.Len(t, kept, 2)
	assert.Equal(t, "duplicate: b", kept[1].Error())
	assert.Nil(t, List{skip}.Filter(func(error) bool { return false }).Err())
}

func TestPrefixfKeepsKind(t *testing.T) {
	err := Prefixf(Errorf(TypeMismatch, "type variable `a` is already bound to I64"), span, "argument %d of `%s`", 2, "add")
	assert.Equal(t, TypeMismatch, err.Kind)
	assert.Equal(t, "unit.ak:2:10: type mismatch: argument 2 of `add`: type variable `a` is already bound to I64", err.Error())
}
