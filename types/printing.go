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

package types

import (
	"strings"
	"sync"
)

var printerPool = sync.Pool{
	New: func() interface{} { return new(strings.Builder) },
}

func newTypePrinter() *strings.Builder { return printerPool.Get().(*strings.Builder) }

func releaseTypePrinter(sb *strings.Builder) {
	sb.Reset()
	printerPool.Put(sb)
}

// TypeString returns a string representation of a Type, e.g. `(a -> a) -> a -> a`.
func TypeString(t Ty) string {
	sb := newTypePrinter()
	typeString(sb, false, t)
	s := sb.String()
	releaseTypePrinter(sb)
	return s
}

func typeString(sb *strings.Builder, simple bool, t Ty) {
	switch t := t.(type) {
	case *TVar:
		sb.WriteString(t.Name)

	case *Base:
		sb.WriteString(t.Name)

	case *Arrow:
		if simple {
			sb.WriteByte('(')
		}
		typeString(sb, true, t.In)
		sb.WriteString(" -> ")
		typeString(sb, false, t.Out)
		if simple {
			sb.WriteByte(')')
		}

	case nil:
		sb.WriteString("<nil>")

	default:
		panic("unknown type: " + t.TypeName())
	}
}

// MangledName returns the symbol component used for t in instantiation names:
// base types print as their name, arrows as `(In->Out)`.
func MangledName(t Ty) string {
	sb := newTypePrinter()
	mangle(sb, t)
	s := sb.String()
	releaseTypePrinter(sb)
	return s
}

func mangle(sb *strings.Builder, t Ty) {
	switch t := t.(type) {
	case *TVar:
		sb.WriteString(t.Name)
	case *Base:
		sb.WriteString(t.Name)
	case *Arrow:
		sb.WriteByte('(')
		mangle(sb, t.In)
		sb.WriteString("->")
		mangle(sb, t.Out)
		sb.WriteByte(')')
	}
}
