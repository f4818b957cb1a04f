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

// Package types implements the interned type representation: qualifications, type variables,
// base types and arrows, together with structural matching and substitution.
package types

// Ty is the base interface for all types.
//
// Types are created through a Table, which interns them structurally: two requests describing
// the same shape yield the same instance, so types may be compared with ==.
type Ty interface {
	TypeName() string
	// ID is the position of the type in its Table.
	ID() int
	// Rank is the number of curried parameters of the type.
	Rank() int
}

var (
	_ Ty = (*TVar)(nil)
	_ Ty = (*Base)(nil)
	_ Ty = (*Arrow)(nil)
)

// Type variable, scoped to the qualification of the function which declares it.
type TVar struct {
	id   int
	Qual *Qual
	Name string
}

// Nominal base type: `I64`, `F64`
type Base struct {
	id   int
	Name string
}

// Function type: `In -> Out`
type Arrow struct {
	id   int
	In   Ty
	Out  Ty
	rank int
}

func (t *TVar) TypeName() string  { return "TVar" }
func (t *Base) TypeName() string  { return "Base" }
func (t *Arrow) TypeName() string { return "Arrow" }

func (t *TVar) ID() int  { return t.id }
func (t *Base) ID() int  { return t.id }
func (t *Arrow) ID() int { return t.id }

func (t *TVar) Rank() int  { return 0 }
func (t *Base) Rank() int  { return 0 }
func (t *Arrow) Rank() int { return t.rank }

// Key identifies the type variable across qualifications. Keys sort by qualification, then name.
func (t *TVar) Key() string { return string(t.Qual.Key()) + "#" + t.Name }

// ArgsAndRet decomposes a right-nested arrow chain into its ordered parameter types and final
// result type. A non-arrow type has no parameters and is its own result.
func ArgsAndRet(t Ty) ([]Ty, Ty) {
	var args []Ty
	for {
		a, ok := t.(*Arrow)
		if !ok {
			return args, t
		}
		args = append(args, a.In)
		t = a.Out
	}
}

// FreeVars returns the type variables occurring in t, in order of first occurrence.
func FreeVars(t Ty) []*TVar {
	var vars []*TVar
	var walk func(Ty)
	walk = func(t Ty) {
		switch t := t.(type) {
		case *TVar:
			for _, v := range vars {
				if v == t {
					return
				}
			}
			vars = append(vars, t)
		case *Arrow:
			walk(t.In)
			walk(t.Out)
		}
	}
	walk(t)
	return vars
}

// HasVars reports whether any type variable occurs in t.
func HasVars(t Ty) bool {
	switch t := t.(type) {
	case *TVar:
		return true
	case *Arrow:
		return HasVars(t.In) || HasVars(t.Out)
	default:
		return false
	}
}

// OwnedBy reports whether every type variable occurring in t belongs to q.
func OwnedBy(t Ty, q *Qual) bool {
	switch t := t.(type) {
	case *TVar:
		return t.Qual == q
	case *Arrow:
		return OwnedBy(t.In, q) && OwnedBy(t.Out, q)
	default:
		return true
	}
}
