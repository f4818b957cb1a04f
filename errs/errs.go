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

// Package errs defines the error taxonomy shared by every compiler stage.
package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wdamron/akane/ast"
)

// Kind classifies a compiler error.
type Kind uint8

const (
	// Internal is the zero Kind, reported for errors which did not originate in the compiler.
	Internal Kind = iota
	// A key was registered twice, e.g. two definitions with the same name in one scope.
	Duplicate
	// A variable, type or store key could not be resolved.
	NotFound
	// Two types failed to match structurally, or an argument count disagrees with an arity.
	TypeMismatch
	// A type environment still contains unresolved type variables where a concrete one is required.
	AmbiguousType
	// The construct is outside the supported language.
	NotSupported
	// A condition which analysis should have excluded was observed after analysis.
	InternalInvariant
	// Malformed source text.
	Syntax
)

var kindNames = [...]string{
	Internal:          "internal error",
	Duplicate:         "duplicate",
	NotFound:          "not found",
	TypeMismatch:      "type mismatch",
	AmbiguousType:     "ambiguous type",
	NotSupported:      "not supported",
	InternalInvariant: "internal invariant violated",
	Syntax:            "syntax error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is a classified compiler error, optionally attached to a source span.
type Error struct {
	Kind Kind
	Msg  string
	Span ast.Span
}

func (e *Error) Error() string {
	if e.Span.IsZero() {
		return e.Kind.String() + ": " + e.Msg
	}
	return e.Span.String() + ": " + e.Kind.String() + ": " + e.Msg
}

// Errorf creates an unlocated error of the given kind.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// At creates an error of the given kind attached to span.
func At(span ast.Span, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Span: span}
}

// WithSpan attaches span to err if err is an unlocated *Error. Other errors are returned as-is.
func WithSpan(err error, span ast.Span) error {
	if _, ok := err.(List); ok {
		return err
	}
	var e *Error
	if !errors.As(err, &e) || !e.Span.IsZero() {
		return err
	}
	located := *e
	located.Span = span
	return &located
}

// Prefixf locates err at span and prefixes its message, keeping its kind.
func Prefixf(err error, span ast.Span, format string, args ...interface{}) *Error {
	msg := err.Error()
	var e *Error
	if errors.As(err, &e) {
		msg = e.Msg
	}
	return &Error{Kind: KindOf(err), Msg: fmt.Sprintf(format, args...) + ": " + msg, Span: span}
}

// KindOf returns the Kind of the first *Error found in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Format renders err as a diagnostic, including the source excerpt when err is located.
func Format(err error) string {
	var l List
	if errors.As(err, &l) {
		return l.Format()
	}
	var e *Error
	if errors.As(err, &e) && !e.Span.IsZero() {
		return e.Error() + "\n" + e.Span.Excerpt()
	}
	return err.Error()
}

// List collects independent errors, in the order they were found.
type List []error

// Add appends err to l, flattening nested lists. Nil errors are ignored.
func (l *List) Add(err error) {
	if err == nil {
		return
	}
	var nested List
	if errors.As(err, &nested) {
		*l = append(*l, nested...)
		return
	}
	*l = append(*l, err)
}

// Filter returns the errors of l for which keep reports true.
func (l List) Filter(keep func(error) bool) List {
	var kept List
	for _, err := range l {
		if keep(err) {
			kept = append(kept, err)
		}
	}
	return kept
}

// Sort orders l by source position. Unlocated errors keep their relative order after the
// located ones.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		a, b := spanOf(l[i]), spanOf(l[j])
		switch {
		case a.IsZero() || b.IsZero():
			return !a.IsZero() && b.IsZero()
		case a.File != b.File:
			return a.File < b.File
		case a.Line != b.Line:
			return a.Line < b.Line
		default:
			return a.Col < b.Col
		}
	})
}

func spanOf(err error) ast.Span {
	var e *Error
	if errors.As(err, &e) {
		return e.Span
	}
	return ast.Span{}
}

// Err returns l as an error, or nil if l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	parts := make([]string, len(l))
	for i, err := range l {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n")
}

func (l List) Unwrap() []error { return l }

// Format renders each error with Format, separated by blank lines.
func (l List) Format() string {
	parts := make([]string, len(l))
	for i, err := range l {
		parts[i] = Format(err)
	}
	return strings.Join(parts, "\n\n")
}
