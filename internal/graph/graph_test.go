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

package graph

import (
	"reflect"
	"testing"
)

func TestComponents(t *testing.T) {
	var g Graph
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)
	g.AddEdge(2, 3)
	g.AddEdge(4, 4)
	g.AddEdge(5, 6)
	g.AddEdge(6, 5)
	g.AddEdge(6, 5)

	if g.Len() != 7 {
		t.Fatalf("expected 7 vertices, found %d", g.Len())
	}
	if !g.HasEdge(4, 4) || g.HasEdge(3, 2) || g.HasEdge(9, 0) {
		t.Fatalf("unexpected edges")
	}
	expect := [][]int{{0}, {1, 2}, {3}, {4}, {5, 6}}
	if comps := g.Components(); !reflect.DeepEqual(comps, expect) {
		t.Fatalf("expected components %v, found %v", expect, comps)
	}
}

func TestComponentsOfEmptyGraph(t *testing.T) {
	var g Graph
	if comps := g.Components(); len(comps) != 0 {
		t.Fatalf("expected no components, found %v", comps)
	}
}
