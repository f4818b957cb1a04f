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

// Package graph provides a directed graph over dense integer vertices.
package graph

import "sort"

// Graph is a directed graph whose vertices are the integers [0, Len()). Adding an edge grows the
// graph to cover both endpoints.
type Graph struct {
	succs [][]int
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.succs) }

// AddEdge adds an edge from -> to, unless it already exists.
func (g *Graph) AddEdge(from, to int) {
	if n := max(from, to) + 1; n > len(g.succs) {
		g.succs = append(g.succs, make([][]int, n-len(g.succs))...)
	}
	if !g.HasEdge(from, to) {
		g.succs[from] = append(g.succs[from], to)
	}
}

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to int) bool {
	if from >= len(g.succs) {
		return false
	}
	for _, succ := range g.succs[from] {
		if succ == to {
			return true
		}
	}
	return false
}

// Components returns the strongly connected components of g. Vertices within a component are
// sorted, and components are ordered by their smallest vertex.
func (g *Graph) Components() [][]int {
	t := tarjan{
		g:     g,
		index: make([]int, len(g.succs)),
		low:   make([]int, len(g.succs)),
		on:    make([]bool, len(g.succs)),
	}
	for v := range g.succs {
		if t.index[v] == 0 {
			t.visit(v)
		}
	}
	for _, c := range t.comps {
		sort.Ints(c)
	}
	sort.Slice(t.comps, func(i, j int) bool { return t.comps[i][0] < t.comps[j][0] })
	return t.comps
}

// Tarjan's algorithm. Indices are 1-based so that 0 marks an unvisited vertex.
type tarjan struct {
	g       *Graph
	counter int
	index   []int
	low     []int
	on      []bool
	stack   []int
	comps   [][]int
}

func (t *tarjan) visit(v int) {
	t.counter++
	t.index[v], t.low[v] = t.counter, t.counter
	t.stack = append(t.stack, v)
	t.on[v] = true

	for _, w := range t.g.succs[v] {
		switch {
		case t.index[w] == 0:
			t.visit(w)
			t.low[v] = min(t.low[v], t.low[w])
		case t.on[w]:
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	if t.low[v] != t.index[v] {
		return
	}
	var comp []int
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.on[w] = false
		comp = append(comp, w)
		if w == v {
			break
		}
	}
	t.comps = append(t.comps, comp)
}
