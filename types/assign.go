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
	"github.com/wdamron/akane/errs"
)

// Binding pairs a type variable with the type it was matched against.
type Binding struct {
	Var *TVar
	Ty  Ty
}

// AssignFrom matches pattern against concrete structurally. A type variable in pattern matches
// anything and produces a binding; a base type matches only the identical base type; an arrow
// matches an arrow when both inputs and outputs match. Any other pairing fails with TypeMismatch.
//
// Bindings are returned in match order and may name the same variable more than once. Folding
// them into an Env detects conflicting bindings.
func AssignFrom(pattern, concrete Ty) ([]Binding, error) {
	var bindings []Binding
	if !assignFrom(&bindings, pattern, concrete) {
		return nil, errs.Errorf(errs.TypeMismatch, "expected %s, found %s", TypeString(pattern), TypeString(concrete))
	}
	return bindings, nil
}

func assignFrom(bindings *[]Binding, pattern, concrete Ty) bool {
	switch p := pattern.(type) {
	case *TVar:
		*bindings = append(*bindings, Binding{Var: p, Ty: concrete})
		return true
	case *Base:
		return p == concrete
	case *Arrow:
		c, ok := concrete.(*Arrow)
		if !ok {
			return false
		}
		return assignFrom(bindings, p.In, c.In) && assignFrom(bindings, p.Out, c.Out)
	default:
		return false
	}
}

// ApplyEnv substitutes the types resolved in env for type variables in ty, re-interning every
// rebuilt arrow. Unresolved variables are left in place.
func (t *Table) ApplyEnv(env Env, ty Ty) Ty {
	switch ty := ty.(type) {
	case *TVar:
		if bound, ok := env.Lookup(ty); ok {
			return bound
		}
		return ty
	case *Arrow:
		in, out := t.ApplyEnv(env, ty.In), t.ApplyEnv(env, ty.Out)
		if in == ty.In && out == ty.Out {
			return ty
		}
		return t.Arrow(in, out)
	default:
		return ty
	}
}

// ApplyEnvToEnv substitutes the types resolved in outer into every binding of inner.
// The domain of inner is unchanged.
func (t *Table) ApplyEnvToEnv(outer, inner Env) Env {
	result := NewEnv(nil)
	result.vars = inner.init().vars
	inner.Range(func(v *TVar, bound Ty) bool {
		if bound != nil {
			// The domain is shared and v is unbound in result, so Assign cannot fail.
			result, _ = result.Assign(v, t.ApplyEnv(outer, bound))
		}
		return true
	})
	return result
}
