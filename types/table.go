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
	"github.com/wdamron/akane/store"
)

type tyKind uint8

const (
	tvarKind tyKind = iota
	baseKind
	arrowKind
)

type tyKey struct {
	kind    tyKind
	qual    QualKey
	name    string
	in, out int
}

// Table interns qualifications and types. Every type used within a compilation session must be
// created through the session's Table.
type Table struct {
	quals *store.Store[QualKey, *Qual]
	tys   *store.Store[tyKey, Ty]
	root  *Qual
}

// NewTable creates a table holding only the root qualification.
func NewTable() *Table {
	t := &Table{
		quals: store.New[QualKey, *Qual](),
		tys:   store.New[tyKey, Ty](),
	}
	t.quals.Describe = func(k QualKey) string { return string(k) }
	t.tys.Describe = func(k tyKey) string { return k.name }
	t.root = t.quals.InsertOrGet("", &Qual{})
	return t
}

// Root returns the root qualification.
func (t *Table) Root() *Qual { return t.root }

// Qual interns the qualification with the given segments and every prefix of it.
func (t *Table) Qual(scopes ...Scope) *Qual {
	q := t.root
	for _, s := range scopes {
		q = t.Push(q, s)
	}
	return q
}

// Push interns the qualification extending q with one more segment.
func (t *Table) Push(q *Qual, s Scope) *Qual {
	scopes := make([]Scope, len(q.scopes)+1)
	copy(scopes, q.scopes)
	scopes[len(q.scopes)] = s
	key := qualKey(scopes)
	return t.quals.InsertOrGet(key, &Qual{key: key, scopes: scopes, parent: q})
}

// TVar interns the type variable named name in q.
func (t *Table) TVar(q *Qual, name string) *TVar {
	ty := t.tys.InsertOrGetFunc(tyKey{kind: tvarKind, qual: q.Key(), name: name}, func(id int) Ty {
		return &TVar{id: id, Qual: q, Name: name}
	})
	return ty.(*TVar)
}

// Base interns the base type named name.
func (t *Table) Base(name string) *Base {
	ty := t.tys.InsertOrGetFunc(tyKey{kind: baseKind, name: name}, func(id int) Ty {
		return &Base{id: id, Name: name}
	})
	return ty.(*Base)
}

// LookupBase returns the base type named name, if it has been interned.
func (t *Table) LookupBase(name string) (*Base, error) {
	ty, err := t.tys.Get(tyKey{kind: baseKind, name: name})
	if err != nil {
		return nil, err
	}
	return ty.(*Base), nil
}

// Arrow interns the function type `in -> out`.
func (t *Table) Arrow(in, out Ty) *Arrow {
	ty := t.tys.InsertOrGetFunc(tyKey{kind: arrowKind, in: in.ID(), out: out.ID()}, func(id int) Ty {
		return &Arrow{id: id, In: in, Out: out, rank: 1 + out.Rank()}
	})
	return ty.(*Arrow)
}

// Func interns the curried function type `params[0] -> ... -> ret`. With no params, ret is returned.
func (t *Table) Func(ret Ty, params ...Ty) Ty {
	ty := ret
	for i := len(params) - 1; i >= 0; i-- {
		ty = t.Arrow(params[i], ty)
	}
	return ty
}

// Len returns the number of interned types.
func (t *Table) Len() int { return t.tys.Len() }
