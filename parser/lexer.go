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

// Package parser turns source text into the syntax tree consumed by the analyzer.
package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wdamron/akane/ast"
	"github.com/wdamron/akane/errs"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokFn
	tokIdent
	tokInt
	tokReal
	tokOp
	tokEqual
	tokColon
	tokSemicolon
	tokLParen
	tokRParen
	tokArrow
)

var tokenNames = [...]string{
	tokEOF:       "end of input",
	tokFn:        "`fn`",
	tokIdent:     "identifier",
	tokInt:       "integer",
	tokReal:      "real",
	tokOp:        "operator",
	tokEqual:     "`=`",
	tokColon:     "`:`",
	tokSemicolon: "`;`",
	tokLParen:    "`(`",
	tokRParen:    "`)`",
	tokArrow:     "`->`",
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string
	pos  ast.Span
}

func (t token) describe() string {
	switch t.kind {
	case tokIdent, tokInt, tokReal, tokOp:
		return t.kind.String() + " `" + t.text + "`"
	default:
		return t.kind.String()
	}
}

const opChars = "+-*/|<>!%&^~."

type lexer struct {
	file  string
	src   string
	lines []string
	off   int
	line  int
	col   int
	toks  []token
	diags errs.List
}

// lex splits src into tokens. Malformed characters are reported and skipped.
func lex(file, src string) ([]token, errs.List) {
	l := &lexer{file: file, src: src, lines: strings.Split(src, "\n"), line: 1, col: 1}
	for {
		l.skipSpace()
		if l.off >= len(l.src) {
			l.toks = append(l.toks, token{kind: tokEOF, pos: l.span(0)})
			return l.toks, l.diags
		}
		l.next()
	}
}

func (l *lexer) span(n int) ast.Span {
	return ast.Span{File: l.file, Line: l.line, Col: l.col, Len: n, Source: l.lines[l.line-1]}
}

func (l *lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.src[l.off] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.off++
	}
}

func (l *lexer) skipSpace() {
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch {
		case c == '#':
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance(1)
			}
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance(1)
		default:
			return
		}
	}
}

func (l *lexer) emit(kind tokenKind, n int) {
	l.toks = append(l.toks, token{kind: kind, text: l.src[l.off : l.off+n], pos: l.span(n)})
	l.advance(n)
}

// scan returns the offset in s of the first rune at or after i not satisfying pred.
func scan(s string, i int, pred func(rune) bool) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !pred(r) {
			break
		}
		i += size
	}
	return i
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool { return r == '_' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r) }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (l *lexer) next() {
	rest := l.src[l.off:]
	r, size := utf8.DecodeRuneInString(rest)
	switch {
	case isIdentStart(r):
		n := scan(rest, size, isIdentPart)
		if rest[:n] == "fn" {
			l.emit(tokFn, n)
		} else {
			l.emit(tokIdent, n)
		}

	case isDigit(r):
		n := scan(rest, 0, isDigit)
		kind := tokInt
		if n+1 < len(rest) && rest[n] == '.' && isDigit(rune(rest[n+1])) {
			kind = tokReal
			n = scan(rest, n+1, isDigit)
		}
		l.emit(kind, n)

	case strings.HasPrefix(rest, "->"):
		l.emit(tokArrow, 2)
	case r == '=' && !(len(rest) > 1 && strings.IndexByte(opChars+"=", rest[1]) >= 0):
		l.emit(tokEqual, 1)
	case r == ':':
		l.emit(tokColon, 1)
	case r == ';':
		l.emit(tokSemicolon, 1)
	case r == '(':
		l.emit(tokLParen, 1)
	case r == ')':
		l.emit(tokRParen, 1)
	case strings.ContainsRune(opChars+"=", r):
		n := 0
		for n < len(rest) && strings.IndexByte(opChars+"=", rest[n]) >= 0 {
			n++
		}
		l.emit(tokOp, n)

	default:
		l.diags.Add(errs.At(l.span(size), errs.Syntax, "unexpected character %q", r))
		l.advance(size)
	}
}
