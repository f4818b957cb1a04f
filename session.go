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

package akane

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/wdamron/akane/ast"
	"github.com/wdamron/akane/errs"
	"github.com/wdamron/akane/internal/graph"
	"github.com/wdamron/akane/store"
	"github.com/wdamron/akane/types"
)

// DefaultMaxInstantiations bounds the number of instantiations materialized by one session.
const DefaultMaxInstantiations = 1024

// Options configure a Session.
type Options struct {
	// Module names the qualification holding the unit's top-level definitions. Defaults to "main".
	Module string
	// MaxInstantiations bounds monomorphization. Zero selects DefaultMaxInstantiations.
	MaxInstantiations int
	// Logger receives debug records for analysis. Defaults to slog.Default().
	Logger *slog.Logger
}

// Session owns every interned entity of one compilation. It is threaded explicitly through
// analysis and code generation.
//
// A session cannot be used concurrently.
type Session struct {
	ID    uuid.UUID
	Types *types.Table
	Vars  *store.Store[VarKey, *Var]
	Cns   *store.Store[string, *Cn]
	Abses *store.Store[int, *Abs]
	Apps  *store.Store[int, *App]
	// Quals is the stack of active qualifications during analysis.
	Quals QualStack

	// Root holds the builtins; Module holds the unit's top-level definitions.
	Root, Module *types.Qual
	I64, F64     *types.Base

	Log *slog.Logger

	binds     *store.Store[VarKey, *Abs]
	calls     graph.Graph // Abs.ID -> Abs.ID of referenced functions
	queue     []request
	instCount int
	maxInsts  int
}

// NewSession creates a session with the builtins registered in the root qualification.
func NewSession(opts Options) *Session {
	if opts.Module == "" {
		opts.Module = "main"
	}
	if opts.MaxInstantiations <= 0 {
		opts.MaxInstantiations = DefaultMaxInstantiations
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	id := uuid.New()
	s := &Session{
		ID:       id,
		Types:    types.NewTable(),
		Vars:     store.New[VarKey, *Var](),
		Cns:      store.New[string, *Cn](),
		Abses:    store.New[int, *Abs](),
		Apps:     store.New[int, *App](),
		binds:    store.New[VarKey, *Abs](),
		Log:      opts.Logger.With("session", id.String()),
		maxInsts: opts.MaxInstantiations,
	}
	s.Vars.Describe = func(k VarKey) string { return k.Name }
	s.binds.Describe = s.Vars.Describe
	s.Root = s.Types.Root()
	s.Module = s.Types.Push(s.Root, types.Scope{Kind: types.ModuleScope, Name: opts.Module})
	s.I64 = s.Types.Base("I64")
	s.F64 = s.Types.Base("F64")
	s.Quals.Push(s.Root)
	s.registerPrelude()
	s.Quals.Push(s.Module)
	return s
}

func (s *Session) newVar(q *types.Qual, name string, ty types.Ty, pos ast.Span) (*Var, error) {
	v := &Var{ID: s.Vars.Len(), Qual: q, Name: name, Pos: pos, ty: ty}
	if existing, err := s.Vars.Insert(v.Key(), v); err != nil {
		return existing, err
	}
	return v, nil
}

func (s *Session) newCn(text string, ty types.Ty) *Cn {
	return s.Cns.InsertOrGetFunc(text, func(id int) *Cn {
		return &Cn{ID: id, Text: text, ty: ty}
	})
}

func (s *Session) newAbs(name string, ty types.Ty, pos ast.Span) (*Abs, error) {
	id := s.Abses.Len()
	abs := &Abs{
		ID:    id,
		Name:  name,
		Qual:  s.Types.Push(s.Quals.Peek(), types.Scope{Kind: types.FuncScope, ID: id, Name: name}),
		Pos:   pos,
		insts: store.New[string, *Inst](),
	}
	abs.setType(ty)
	_, err := s.Abses.Insert(id, abs)
	return abs, err
}

func (a *Abs) setType(ty types.Ty) {
	a.ty = ty
	a.Env = types.NewEnv(types.FreeVars(ty))
}

func (s *Session) newApp(callee, arg Expr, ty types.Ty, env types.Env, root *Var, pos ast.Span) *App {
	app := &App{ID: s.Apps.Len(), Callee: callee, Arg: arg, Env: env, Root: root, Pos: pos, ty: ty}
	s.Apps.InsertOrGet(app.ID, app)
	return app
}

// bind records abs as the body of the top-level variable v.
func (s *Session) bind(v *Var, abs *Abs) error {
	_, err := s.binds.Insert(v.Key(), abs)
	return err
}

// Binding returns the function bound to the top-level variable v. Arguments have no binding.
func (s *Session) Binding(v *Var) (*Abs, bool) { return s.binds.Lookup(v.Key()) }

// Lookup resolves name through the active qualifications, innermost first.
func (s *Session) Lookup(name string) (*Var, error) {
	var found *Var
	s.Quals.Range(func(q *types.Qual) bool {
		v, ok := s.Vars.Lookup(VarKey{Qual: q.Key(), Name: name})
		if ok {
			found = v
		}
		return !ok
	})
	if found == nil {
		return nil, errs.Errorf(errs.NotFound, "unknown variable: `%s`", name)
	}
	return found, nil
}

// Builtin resolves name in the root qualification only.
func (s *Session) Builtin(name string) (*Var, error) {
	v, ok := s.Vars.Lookup(VarKey{Qual: s.Root.Key(), Name: name})
	if !ok {
		return nil, errs.Errorf(errs.NotFound, "unknown builtin: `%s`", name)
	}
	return v, nil
}

// Functions returns every function with a body, builtins first, in definition order.
func (s *Session) Functions() []*Abs {
	var fns []*Abs
	s.Abses.Range(func(_ int, abs *Abs) bool {
		if abs.Body != nil {
			fns = append(fns, abs)
		}
		return true
	})
	return fns
}

// RecursiveGroups returns the groups of functions which reference each other, directly or
// indirectly, ordered by definition. A function which references itself forms a group of one.
func (s *Session) RecursiveGroups() [][]*Abs {
	var groups [][]*Abs
	for _, comp := range s.calls.Components() {
		if len(comp) == 1 && !s.calls.HasEdge(comp[0], comp[0]) {
			continue
		}
		group := make([]*Abs, len(comp))
		for i, id := range comp {
			_, group[i] = s.Abses.At(id)
		}
		groups = append(groups, group)
	}
	return groups
}

func (s *Session) recursiveGroupOf(abs *Abs) []*Abs {
	for _, group := range s.RecursiveGroups() {
		for _, member := range group {
			if member == abs {
				return group
			}
		}
	}
	return nil
}
