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

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/akane/errs"
)

type entity struct{ name string }

func TestInsertRejectsDuplicates(t *testing.T) {
	s := New[string, *entity]()
	first := &entity{"x"}
	got, err := s.Insert("x", first)
	require.NoError(t, err)
	assert.Same(t, first, got)

	existing, err := s.Insert("x", &entity{"x"})
	require.Error(t, err)
	assert.Equal(t, errs.Duplicate, errs.KindOf(err))
	assert.Same(t, first, existing)
	assert.Equal(t, 1, s.Len())
}

func TestInsertOrGetIsIdempotent(t *testing.T) {
	s := New[string, *entity]()
	a := s.InsertOrGet("a", &entity{"a"})
	b := s.InsertOrGet("a", &entity{"a"})
	assert.Same(t, a, b)

	made := 0
	c := s.InsertOrGetFunc("c", func(i int) *entity {
		made++
		assert.Equal(t, 1, i)
		return &entity{"c"}
	})
	d := s.InsertOrGetFunc("c", func(int) *entity {
		made++
		return &entity{"c"}
	})
	assert.Same(t, c, d)
	assert.Equal(t, 1, made)
}

func TestGetMissing(t *testing.T) {
	s := New[int, string]()
	s.Describe = func(k int) string { return "key" }
	_, err := s.Get(3)
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
	assert.Contains(t, err.Error(), "`key` not found")

	_, ok := s.Lookup(3)
	assert.False(t, ok)
	assert.False(t, s.Has(3))
}

func TestRangeInsertionOrder(t *testing.T) {
	s := New[string, int]()
	for i, k := range []string{"zeta", "alpha", "mu"} {
		s.InsertOrGet(k, i)
	}
	s.InsertOrGet("alpha", 99)

	var keys []string
	s.Range(func(k string, v int) bool {
		keys = append(keys, k)
		return true
	})
	assert.Equal(t, []string{"zeta", "alpha", "mu"}, keys)
	assert.Equal(t, []int{0, 1, 2}, s.Values())

	k, v := s.At(2)
	assert.Equal(t, "mu", k)
	assert.Equal(t, 2, v)
}

func TestRangeVisitsEntriesAddedDuringIteration(t *testing.T) {
	s := New[int, int]()
	s.InsertOrGet(0, 0)
	var seen []int
	s.Range(func(k, v int) bool {
		seen = append(seen, k)
		if k < 3 {
			s.InsertOrGet(k+1, k+1)
		}
		return true
	})
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
}
