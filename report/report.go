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

// Package report describes the functions of an analyzed session and the instantiations
// materialized for them.
package report

import (
	"io"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wdamron/akane"
	"github.com/wdamron/akane/types"
)

// Report lists the functions of one compilation unit.
type Report struct {
	Module    string     `yaml:"module"`
	Functions []Function `yaml:"functions"`
	// Recursive lists the groups of mutually recursive functions.
	Recursive [][]string `yaml:"recursive,omitempty"`
}

// Function is a top-level function or a builtin with at least one instantiation.
type Function struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Builtin bool   `yaml:"builtin,omitempty"`
	// Symbol is the native name of a monomorphic function.
	Symbol    string     `yaml:"symbol,omitempty"`
	Instances []Instance `yaml:"instances,omitempty"`
}

// Instance is one monomorphized copy of a generic function.
type Instance struct {
	Symbol   string    `yaml:"symbol"`
	Type     string    `yaml:"type"`
	Bindings []Binding `yaml:"bindings"`
}

// Binding is the type resolved for one type variable.
type Binding struct {
	Var  string `yaml:"var"`
	Type string `yaml:"type"`
}

// Build collects the report for s.
func Build(s *akane.Session) *Report {
	r := &Report{Module: s.Module.Describe()}
	for _, abs := range s.Functions() {
		if abs.IsPrim() && len(abs.Instances()) == 0 {
			continue
		}
		fn := Function{Name: abs.Name, Type: types.TypeString(abs.Type()), Builtin: abs.IsPrim()}
		if !abs.IsGeneric() {
			fn.Symbol = abs.Symbol()
		}
		for _, inst := range abs.Instances() {
			fn.Instances = append(fn.Instances, instance(inst))
		}
		r.Functions = append(r.Functions, fn)
	}
	for _, group := range s.RecursiveGroups() {
		names := make([]string, len(group))
		for i, abs := range group {
			names[i] = abs.Name
		}
		r.Recursive = append(r.Recursive, names)
	}
	return r
}

func instance(inst *akane.Inst) Instance {
	i := Instance{Symbol: inst.Name, Type: types.TypeString(inst.Ty)}
	inst.Env.Range(func(v *types.TVar, t types.Ty) bool {
		i.Bindings = append(i.Bindings, Binding{Var: v.Name, Type: types.TypeString(t)})
		return true
	})
	return i
}

// YAML writes r as a YAML document.
func (r *Report) YAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "encoding report")
	}
	return errors.Wrap(enc.Close(), "encoding report")
}

// Dump writes r as a Go value.
func (r *Report) Dump(w io.Writer) error {
	_, err := pretty.Fprintf(w, "%# v\n", r)
	return errors.Wrap(err, "dumping report")
}
