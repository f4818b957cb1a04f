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

	"github.com/benbjohnson/immutable"

	"github.com/wdamron/akane/errs"
)

var emptyMap = immutable.NewSortedMap(nil)

// EmptyEnv is the environment of a function without type variables.
var EmptyEnv = Env{vars: emptyMap, bound: emptyMap}

// Env maps a fixed set of type variables (those free in some function type) to the types
// resolved for them at one call site. Envs are immutable: Assign returns an extended copy.
//
// Entries are sorted by type-variable key, so the textual forms of an Env are canonical.
type Env struct {
	vars  *immutable.SortedMap // key -> *TVar
	bound *immutable.SortedMap // key -> Ty
}

// NewEnv creates the bottom environment over vars: every variable is unresolved.
func NewEnv(vars []*TVar) Env {
	b := immutable.NewSortedMapBuilder(emptyMap)
	for _, v := range vars {
		b.Set(v.Key(), v)
	}
	return Env{vars: b.Map(), bound: emptyMap}
}

func (e Env) init() Env {
	if e.vars == nil {
		return EmptyEnv
	}
	return e
}

// Len returns the number of type variables in the environment's domain.
func (e Env) Len() int { return e.init().vars.Len() }

// IsGeneric reports whether the environment has any type variables at all.
func (e Env) IsGeneric() bool { return e.Len() != 0 }

// Has reports whether v is in the environment's domain.
func (e Env) Has(v *TVar) bool {
	_, ok := e.init().vars.Get(v.Key())
	return ok
}

// Lookup returns the type resolved for v.
func (e Env) Lookup(v *TVar) (Ty, bool) {
	t, ok := e.init().bound.Get(v.Key())
	if !ok {
		return nil, false
	}
	return t.(Ty), true
}

// Assign binds v to t. Assigning a variable outside the domain fails with NotFound. Re-binding a
// variable to a different type fails with TypeMismatch; re-binding it to the same type is a no-op.
func (e Env) Assign(v *TVar, t Ty) (Env, error) {
	e = e.init()
	if !e.Has(v) {
		return e, errs.Errorf(errs.NotFound, "type variable `%s` is not bound by this environment", TypeString(v))
	}
	if prev, ok := e.Lookup(v); ok {
		if prev == t {
			return e, nil
		}
		return e, errs.Errorf(errs.TypeMismatch, "type variable `%s` is already bound to %s, cannot bind it to %s",
			TypeString(v), TypeString(prev), TypeString(t))
	}
	return Env{vars: e.vars, bound: e.bound.Set(v.Key(), t)}, nil
}

// IsBottom reports whether no variable has been resolved yet.
func (e Env) IsBottom() bool { return e.init().bound.Len() == 0 }

// Unresolved returns the variables without a binding, in key order.
func (e Env) Unresolved() []*TVar {
	var vars []*TVar
	e.Range(func(v *TVar, t Ty) bool {
		if t == nil {
			vars = append(vars, v)
		}
		return true
	})
	return vars
}

// IsNondeterministic reports whether some variable is unresolved or bound to a type which itself
// contains type variables.
func (e Env) IsNondeterministic() bool {
	nondet := false
	e.Range(func(v *TVar, t Ty) bool {
		nondet = t == nil || HasVars(t)
		return !nondet
	})
	return nondet
}

// IsConcrete reports whether every variable is bound to a type without type variables.
// The empty environment is concrete.
func (e Env) IsConcrete() bool { return !e.IsNondeterministic() }

// Range calls f for each variable in key order, with its binding or nil if unresolved.
// If f returns false, iteration will be stopped.
func (e Env) Range(f func(*TVar, Ty) bool) {
	e = e.init()
	iter := e.vars.Iterator()
	for !iter.Done() {
		k, v := iter.Next()
		var t Ty
		if b, ok := e.bound.Get(k); ok {
			t = b.(Ty)
		}
		if !f(v.(*TVar), t) {
			return
		}
	}
}

// Key returns the canonical content of the environment. Two environments over the same domain
// have equal keys if and only if they bind every variable identically.
func (e Env) Key() string {
	var sb strings.Builder
	e.Range(func(v *TVar, t Ty) bool {
		if sb.Len() > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(v.Key())
		sb.WriteByte('=')
		if t == nil {
			sb.WriteByte('?')
		} else {
			typeString(&sb, false, t)
		}
		return true
	})
	return sb.String()
}

// Suffix returns the bound types joined by '.', in key order, e.g. `I64.F64`. It is used to
// mangle the names of instantiations.
func (e Env) Suffix() string {
	var sb strings.Builder
	first := true
	e.Range(func(v *TVar, t Ty) bool {
		if !first {
			sb.WriteByte('.')
		}
		first = false
		if t == nil {
			sb.WriteByte('?')
		} else {
			sb.WriteString(MangledName(t))
		}
		return true
	})
	return sb.String()
}

// String returns e.g. `{a: I64, b: ?}`.
func (e Env) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	e.Range(func(v *TVar, t Ty) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(v.Name)
		sb.WriteString(": ")
		if t == nil {
			sb.WriteByte('?')
		} else {
			typeString(&sb, false, t)
		}
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}
