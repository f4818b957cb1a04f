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

// Package store provides canonical key-addressed tables for semantic entities.
//
// A Store holds at most one value per key. Values are enumerated in the order they
// were first inserted, which keeps every walk over a store (and everything generated
// from such a walk) deterministic.
package store

import (
	"fmt"

	"github.com/wdamron/akane/errs"
)

// Store is an insertion-ordered interning table.
type Store[K comparable, V any] struct {
	index map[K]int
	keys  []K
	vals  []V
	// Describe renders keys in error messages. When nil, keys are printed with %v.
	Describe func(K) string
}

// New creates an empty store.
func New[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{index: make(map[K]int)}
}

func (s *Store[K, V]) describe(key K) string {
	if s.Describe != nil {
		return s.Describe(key)
	}
	return fmt.Sprintf("%v", key)
}

// Insert stores val under key. Insert fails with a Duplicate error if key is already present;
// the existing value is returned alongside the error.
func (s *Store[K, V]) Insert(key K, val V) (V, error) {
	if i, ok := s.index[key]; ok {
		return s.vals[i], errs.Errorf(errs.Duplicate, "duplicate definition of `%s`", s.describe(key))
	}
	s.put(key, val)
	return val, nil
}

// InsertOrGet returns the canonical value for key, storing val first if key is absent.
func (s *Store[K, V]) InsertOrGet(key K, val V) V {
	if i, ok := s.index[key]; ok {
		return s.vals[i]
	}
	s.put(key, val)
	return val
}

// InsertOrGetFunc is like InsertOrGet, but only constructs the value when key is absent.
// mk receives the insertion index of the new entry.
func (s *Store[K, V]) InsertOrGetFunc(key K, mk func(index int) V) V {
	if i, ok := s.index[key]; ok {
		return s.vals[i]
	}
	val := mk(len(s.vals))
	s.put(key, val)
	return val
}

func (s *Store[K, V]) put(key K, val V) {
	s.index[key] = len(s.vals)
	s.keys = append(s.keys, key)
	s.vals = append(s.vals, val)
}

// Get returns the value stored under key, or a NotFound error.
func (s *Store[K, V]) Get(key K) (V, error) {
	if i, ok := s.index[key]; ok {
		return s.vals[i], nil
	}
	var zero V
	return zero, errs.Errorf(errs.NotFound, "`%s` not found", s.describe(key))
}

// Lookup returns the value stored under key, if any.
func (s *Store[K, V]) Lookup(key K) (V, bool) {
	if i, ok := s.index[key]; ok {
		return s.vals[i], true
	}
	var zero V
	return zero, false
}

// Has reports whether key is present.
func (s *Store[K, V]) Has(key K) bool {
	_, ok := s.index[key]
	return ok
}

// Len returns the number of entries.
func (s *Store[K, V]) Len() int { return len(s.vals) }

// At returns the i-th entry in insertion order.
func (s *Store[K, V]) At(i int) (K, V) { return s.keys[i], s.vals[i] }

// Range calls f for each entry in insertion order.
// If f returns false, iteration will be stopped.
//
// Entries inserted by f are visited before Range returns.
func (s *Store[K, V]) Range(f func(K, V) bool) {
	for i := 0; i < len(s.vals); i++ {
		if !f(s.keys[i], s.vals[i]) {
			return
		}
	}
}

// Values returns a copy of all values in insertion order.
func (s *Store[K, V]) Values() []V {
	vals := make([]V, len(s.vals))
	copy(vals, s.vals)
	return vals
}
