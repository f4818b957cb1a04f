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

package ast

import (
	"strconv"
	"strings"
)

// Span locates a syntax node in its source file. Line and Col are 1-based.
type Span struct {
	File string
	Line int
	Col  int
	Len  int
	// Source is the full text of the line the span starts on.
	Source string
}

// IsZero reports whether s carries no location.
func (s Span) IsZero() bool { return s.Line == 0 }

// String returns `file:line:col`, omitting the file when it is unknown.
func (s Span) String() string {
	var sb strings.Builder
	if s.File != "" {
		sb.WriteString(s.File)
		sb.WriteByte(':')
	}
	sb.WriteString(strconv.Itoa(s.Line))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(s.Col))
	return sb.String()
}

// Excerpt returns the source line followed by a marker line underlining the span:
//
//	fn main = foo 1
//	          ^~~
func (s Span) Excerpt() string {
	if s.IsZero() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(s.Source)
	sb.WriteByte('\n')
	for i := 0; i < s.Col-1 && i < len(s.Source); i++ {
		if s.Source[i] == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte('^')
	for i := 1; i < s.Len; i++ {
		sb.WriteByte('~')
	}
	return sb.String()
}

// To returns a span starting at s and ending at the end of t, when both are on the same line.
func (s Span) To(t Span) Span {
	if s.IsZero() {
		return t
	}
	if t.IsZero() || t.Line != s.Line || t.Col+t.Len < s.Col+s.Len {
		return s
	}
	s.Len = t.Col + t.Len - s.Col
	return s
}
