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

package parser

import (
	"github.com/wdamron/akane/ast"
	"github.com/wdamron/akane/errs"
)

// Operator describes an infix operator and the builtin it applies.
type Operator struct {
	Builtin string
	Prec    int
	// Right is set for right-associative operators.
	Right bool
}

// Operators maps infix operator symbols to builtins.
var Operators = map[string]Operator{
	"*":  {Builtin: "mul", Prec: 7},
	"/":  {Builtin: "div", Prec: 7},
	"+":  {Builtin: "add", Prec: 6},
	"-":  {Builtin: "sub", Prec: 6},
	"|>": {Builtin: "pipe", Prec: 1},
}

type parser struct {
	toks  []token
	pos   int
	diags errs.List
}

// Parse parses a compilation unit. Syntax errors are collected per definition; the parser resumes
// at the next `fn` after an error. The returned error is an errs.List.
func Parse(file string, src []byte) ([]ast.TopDef, error) {
	toks, diags := lex(file, string(src))
	p := &parser{toks: toks, diags: diags}
	defs := p.parseUnit()
	p.diags.Sort()
	return defs, p.diags.Err()
}

// ParseExpr parses a single expression.
func ParseExpr(src string) (ast.Expr, error) {
	toks, diags := lex("", src)
	if err := diags.Err(); err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.unexpected(tok, "end of input")
	}
	return e, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) take() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		return tok, p.unexpected(tok, kind.String())
	}
	return p.take(), nil
}

func (p *parser) unexpected(tok token, want string) error {
	return errs.At(tok.pos, errs.Syntax, "expected %s, found %s", want, tok.describe())
}

// sync skips to the next `fn` or the end of input.
func (p *parser) sync() {
	for {
		switch p.peek().kind {
		case tokFn, tokEOF:
			return
		}
		p.take()
	}
}

func (p *parser) parseUnit() []ast.TopDef {
	var defs []ast.TopDef
	for {
		switch tok := p.peek(); tok.kind {
		case tokEOF:
			return defs
		case tokSemicolon:
			p.take()
			continue
		case tokFn:
		default:
			p.diags.Add(p.unexpected(tok, tokFn.String()))
			p.take()
			p.sync()
			continue
		}

		def, err := p.parseFnDef()
		if err == nil {
			switch tok := p.peek(); tok.kind {
			case tokSemicolon, tokFn, tokEOF:
			default:
				err = p.unexpected(tok, tokSemicolon.String())
			}
		}
		if err != nil {
			p.diags.Add(err)
			p.sync()
			continue
		}
		defs = append(defs, def)
	}
}

func (p *parser) parseFnDef() (*ast.FnDef, error) {
	fnTok := p.take()
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	def := &ast.FnDef{Name: ast.Ident{Name: nameTok.text, Pos: nameTok.pos}}
	def.Pos = fnTok.pos.To(nameTok.pos)
	for p.peek().kind == tokIdent {
		tok := p.take()
		def.Args = append(def.Args, ast.Ident{Name: tok.text, Pos: tok.pos})
		def.Pos = def.Pos.To(tok.pos)
	}
	if p.peek().kind == tokColon {
		p.take()
		if def.Ann, err = p.parseType(); err != nil {
			return nil, err
		}
		def.Pos = def.Pos.To(def.Ann.Span())
	}
	if _, err = p.expect(tokEqual); err != nil {
		return nil, err
	}
	if def.Body, err = p.parseExpr(0); err != nil {
		return nil, err
	}
	return def, nil
}

// type := tyatom [ '->' type ]
func (p *parser) parseType() (ast.TyExpr, error) {
	var in ast.TyExpr
	switch tok := p.peek(); tok.kind {
	case tokIdent:
		p.take()
		in = &ast.TyName{Name: tok.text, Pos: tok.pos}
	case tokLParen:
		p.take()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err = p.expect(tokRParen); err != nil {
			return nil, err
		}
		in = inner
	default:
		return nil, p.unexpected(tok, "type")
	}
	if p.peek().kind != tokArrow {
		return in, nil
	}
	p.take()
	out, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.TyArrow{In: in, Out: out, Pos: in.Span().To(out.Span())}, nil
}

// Precedence climbing over infix operators. Each operator applies its builtin to both operands:
// `x + y` is `add x y`.
func (p *parser) parseExpr(minPrec int) (ast.Expr, error) {
	lhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp {
			return lhs, nil
		}
		op, ok := Operators[tok.text]
		if !ok {
			return nil, errs.At(tok.pos, errs.Syntax, "unknown operator `%s`", tok.text)
		}
		if op.Prec < minPrec {
			return lhs, nil
		}
		p.take()
		next := op.Prec + 1
		if op.Right {
			next = op.Prec
		}
		rhs, err := p.parseExpr(next)
		if err != nil {
			return nil, err
		}
		fn := &ast.Var{Name: op.Builtin, Builtin: true, Pos: tok.pos}
		span := lhs.Span().To(rhs.Span())
		lhs = &ast.App{Func: &ast.App{Func: fn, Arg: lhs, Pos: span}, Arg: rhs, Pos: span}
	}
}

func startsAtom(kind tokenKind) bool {
	switch kind {
	case tokIdent, tokInt, tokReal, tokLParen:
		return true
	}
	return false
}

// Application by juxtaposition: `f x y` is `(f x) y`.
func (p *parser) parseOperand() (ast.Expr, error) {
	f, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for startsAtom(p.peek().kind) {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		f = &ast.App{Func: f, Arg: arg, Pos: f.Span().To(arg.Span())}
	}
	return f, nil
}

func (p *parser) parseAtom() (ast.Expr, error) {
	tok := p.peek()
	switch tok.kind {
	case tokIdent:
		p.take()
		return &ast.Var{Name: tok.text, Pos: tok.pos}, nil
	case tokInt:
		p.take()
		return &ast.Int{Text: tok.text, Pos: tok.pos}, nil
	case tokReal:
		p.take()
		return &ast.Real{Text: tok.text, Pos: tok.pos}, nil
	case tokLParen:
		p.take()
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err = p.expect(tokRParen); err != nil {
			return nil, err
		}
		return e, nil
	case tokOp:
		// Negative literals: `-1`, `-2.5`.
		if next := p.toks[p.pos+1]; tok.text == "-" && (next.kind == tokInt || next.kind == tokReal) &&
			next.pos.Line == tok.pos.Line && next.pos.Col == tok.pos.Col+1 {
			p.take()
			p.take()
			span := tok.pos.To(next.pos)
			if next.kind == tokInt {
				return &ast.Int{Text: "-" + next.text, Pos: span}, nil
			}
			return &ast.Real{Text: "-" + next.text, Pos: span}, nil
		}
	}
	return nil, p.unexpected(tok, "expression")
}
