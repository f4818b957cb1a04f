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
	"github.com/wdamron/akane/types"
)

// QualStack is the stack of qualifications active during analysis. The bottom of the stack is the
// root qualification; entering a function body pushes the function's qualification.
type QualStack struct {
	quals []*types.Qual
}

// Push makes q the innermost qualification.
func (s *QualStack) Push(q *types.Qual) { s.quals = append(s.quals, q) }

// Pop removes and returns the innermost qualification.
func (s *QualStack) Pop() *types.Qual {
	q := s.quals[len(s.quals)-1]
	s.quals = s.quals[:len(s.quals)-1]
	return q
}

// Peek returns the innermost qualification.
func (s *QualStack) Peek() *types.Qual { return s.quals[len(s.quals)-1] }

// Len returns the depth of the stack.
func (s *QualStack) Len() int { return len(s.quals) }

// Range calls f for each qualification, innermost first.
// If f returns false, iteration will be stopped.
func (s *QualStack) Range(f func(*types.Qual) bool) {
	for i := len(s.quals) - 1; i >= 0; i-- {
		if !f(s.quals[i]) {
			return
		}
	}
}
