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

package ast

import (
	"strings"
)

// ExprString returns a string representation of an expression, fully parenthesizing nested applications
// in argument position.
func ExprString(expr Expr) string {
	var sb strings.Builder
	exprString(&sb, false, expr)
	return sb.String()
}

func exprString(sb *strings.Builder, simple bool, e Expr) {
	switch et := e.(type) {
	case *Var:
		sb.WriteString(et.Name)

	case *Int:
		sb.WriteString(et.Text)

	case *Real:
		sb.WriteString(et.Text)

	case *App:
		if simple {
			sb.WriteByte('(')
		}
		exprString(sb, false, et.Func)
		sb.WriteByte(' ')
		exprString(sb, true, et.Arg)
		if simple {
			sb.WriteByte(')')
		}

	case nil:
		sb.WriteString("<nil>")

	default:
		panic("unknown expression type: " + e.ExprName())
	}
}

// TyExprString returns a string representation of a type annotation.
func TyExprString(t TyExpr) string {
	var sb strings.Builder
	tyExprString(&sb, false, t)
	return sb.String()
}

func tyExprString(sb *strings.Builder, simple bool, t TyExpr) {
	switch tt := t.(type) {
	case *TyName:
		sb.WriteString(tt.Name)

	case *TyArrow:
		if simple {
			sb.WriteByte('(')
		}
		tyExprString(sb, true, tt.In)
		sb.WriteString(" -> ")
		tyExprString(sb, false, tt.Out)
		if simple {
			sb.WriteByte(')')
		}

	case nil:
		sb.WriteString("<nil>")

	default:
		panic("unknown type expression: " + t.TyExprName())
	}
}

// DefString returns a string representation of a top-level definition.
func DefString(d TopDef) string {
	fn, ok := d.(*FnDef)
	if !ok {
		return d.DefName()
	}
	var sb strings.Builder
	sb.WriteString("fn ")
	sb.WriteString(fn.Name.Name)
	for _, arg := range fn.Args {
		sb.WriteByte(' ')
		sb.WriteString(arg.Name)
	}
	if fn.Ann != nil {
		sb.WriteString(" : ")
		tyExprString(&sb, false, fn.Ann)
	}
	sb.WriteString(" = ")
	exprString(&sb, false, fn.Body)
	return sb.String()
}
