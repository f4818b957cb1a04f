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
	"strconv"
	"strings"
)

// ScopeKind distinguishes the segments of a qualification.
type ScopeKind uint8

const (
	// Compilation unit.
	ModuleScope ScopeKind = iota
	// Body of a function, identified by the function's id.
	FuncScope
	// Monomorphized clone of a function body, identified by its type-environment suffix.
	InstScope
)

// Scope is one segment of a qualification.
type Scope struct {
	Kind ScopeKind
	ID   int
	Name string
}

func (s Scope) key() string {
	switch s.Kind {
	case FuncScope:
		return "f" + strconv.Itoa(s.ID)
	case InstScope:
		return "i:" + s.Name
	default:
		return "m:" + s.Name
	}
}

// QualKey is the canonical key of a qualification.
type QualKey string

// Qual is an interned scope path. The root qualification has no segments.
type Qual struct {
	key    QualKey
	scopes []Scope
	parent *Qual
}

func (q *Qual) Key() QualKey { return q.key }

// Parent returns the qualification with the last segment removed, or nil for the root.
func (q *Qual) Parent() *Qual { return q.parent }

// IsRoot reports whether q is the root qualification.
func (q *Qual) IsRoot() bool { return len(q.scopes) == 0 }

// Describe returns a human-readable path, e.g. `main.twice`.
func (q *Qual) Describe() string {
	names := make([]string, 0, len(q.scopes))
	for _, s := range q.scopes {
		if s.Kind == InstScope {
			names = append(names, "<"+s.Name+">")
			continue
		}
		names = append(names, s.Name)
	}
	return strings.Join(names, ".")
}

func qualKey(scopes []Scope) QualKey {
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = s.key()
	}
	return QualKey(strings.Join(parts, "/"))
}
