// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frontend

import (
	"fmt"
	"io"
	"strings"

	"github.com/lambpi/lambpi/diag"
)

// Parse reads every top-level command out of src.
func Parse(name string, src io.Reader) (cmds []Command, err error) {
	defer func() {
		if r := recover(); r != nil {
			if le, ok := r.(lexError); ok {
				err = diag.Errorf(posFrom(le.pos), "frontend: %s: %s", name, le.msg)
				return
			}
			if pe, ok := r.(parseError); ok {
				err = pe.err
				return
			}
			panic(r)
		}
	}()
	p := &parser{lex: newLexer(name, src)}
	for p.lex.peek().kind != tokEOF {
		cmds = append(cmds, p.command())
	}
	return cmds, nil
}

// ParseString parses a single in-memory snippet, for tests and the
// REPL-style callers that already hold the text as a string.
func ParseString(src string) ([]Command, error) {
	return Parse("<string>", strings.NewReader(src))
}

// parseError wraps a position-tagged diag error so Parse's recover
// can pull it back out without re-formatting it.
type parseError struct{ err error }

func (e parseError) Error() string { return e.err.Error() }

type parser struct{ lex *lexer }

func (p *parser) fail(format string, args ...any) {
	pos := posFrom(p.lex.peek().pos)
	panic(parseError{err: diag.Errorf(pos, "frontend: %s", fmt.Sprintf(format, args...))})
}

func (p *parser) expect(k tokKind) token {
	t := p.lex.next()
	if t.kind != k {
		p.fail("unexpected token %s", t)
	}
	return t
}

func (p *parser) expectIdent(text string) {
	t := p.expect(tokIdent)
	if t.text != text {
		p.fail("expected %q, got %q", text, t.text)
	}
}

// command parses one fully-parenthesized top-level form.
func (p *parser) command() Command {
	p.expect(tokLParen)
	head := p.expect(tokIdent).text
	var cmd Command
	switch head {
	case "static":
		name := p.expect(tokIdent).text
		typ := p.expr()
		cmd = StaticDecl{Name: name, Type: typ}
	case "definable":
		name := p.expect(tokIdent).text
		typ := p.expr()
		cmd = DefinableDecl{Name: name, Type: typ}
	case "define":
		name := p.expect(tokIdent).text
		typ := p.expr()
		body := p.expr()
		cmd = Define{Name: name, Type: typ, Body: body}
	case "rule":
		ctx := p.ctxList()
		lhs := p.expr()
		rhs := p.expr()
		cmd = RuleDecl{Ctx: ctx, LHS: lhs, RHS: rhs}
	case "check":
		ctx, _ := p.optCtxList()
		term := p.expr()
		typ := p.expr()
		cmd = CheckCmd{Ctx: ctx, Term: term, Type: typ}
	case "infer":
		ctx, _ := p.optCtxList()
		term := p.expr()
		cmd = InferCmd{Ctx: ctx, Term: term}
	case "evaluate":
		ctx, _ := p.optCtxList()
		term := p.expr()
		cmd = EvaluateCmd{Ctx: ctx, Term: term}
	case "convertible":
		ctx, _ := p.optCtxList()
		a := p.expr()
		b := p.expr()
		cmd = ConvertibleCmd{Ctx: ctx, Left: a, Right: b}
	default:
		p.fail("unknown command %q", head)
	}
	p.expect(tokRParen)
	return cmd
}

// optCtxList consumes a leading "(ctx (x A) ...)" block if present,
// returning ok=false when the next form is not a ctx block (so the
// caller can fall through to parsing its own required arguments with
// an empty context).
func (p *parser) optCtxList() ([]CtxEntry, bool) {
	if p.lex.peek().kind != tokLParen {
		return nil, false
	}
	// Only "(ctx ...)" is a context block; anything else here is the
	// caller's first argument expression, left untouched.
	if head := p.lex.peekN(1); head.kind != tokIdent || head.text != "ctx" {
		return nil, false
	}
	p.expect(tokLParen)
	p.expectIdent("ctx")
	entries := p.ctxEntries()
	p.expect(tokRParen)
	return entries, true
}

func (p *parser) ctxList() []CtxEntry {
	p.expect(tokLParen)
	entries := p.ctxEntries()
	p.expect(tokRParen)
	return entries
}

func (p *parser) ctxEntries() []CtxEntry {
	var entries []CtxEntry
	for p.lex.peek().kind == tokLParen {
		p.expect(tokLParen)
		name := p.expect(tokIdent).text
		var typ Expr
		if p.lex.peek().kind != tokRParen {
			typ = p.expr()
		}
		p.expect(tokRParen)
		entries = append(entries, CtxEntry{Name: name, Type: typ})
	}
	return entries
}

// expr parses one term expression.
func (p *parser) expr() Expr {
	t := p.lex.next()
	switch t.kind {
	case tokIdent:
		switch t.text {
		case "_":
			return Wildcard{}
		case "Type":
			return TypeLit{}
		case "Kind":
			return KindLit{}
		default:
			return Ident{Name: t.text, Pos: posFrom(t.pos)}
		}
	case tokLParen:
		return p.exprForm()
	default:
		p.fail("unexpected token %s in expression", t)
		panic("unreachable")
	}
}

// exprForm parses the inside of a parenthesized expression, having
// already consumed the opening paren.
func (p *parser) exprForm() Expr {
	head := p.lex.peek()
	if head.kind == tokIdent {
		switch head.text {
		case "pi":
			p.lex.next()
			v, dom := p.binding()
			body := p.expr()
			p.expect(tokRParen)
			return Product{Var: v, Domain: dom, Body: body}
		case "->":
			p.lex.next()
			dom := p.expr()
			body := p.expr()
			p.expect(tokRParen)
			return Product{Domain: dom, Body: body}
		case "lambda":
			p.lex.next()
			v, dom := p.binding()
			body := p.expr()
			p.expect(tokRParen)
			return Abs{Var: v, Domain: dom, Body: body}
		}
	}
	// A plain application: (f a b c) => (((f a) b) c).
	fun := p.expr()
	args := []Expr{}
	for p.lex.peek().kind != tokRParen {
		args = append(args, p.expr())
	}
	p.expect(tokRParen)
	if len(args) == 0 {
		p.fail("application needs at least one argument")
	}
	out := fun
	for _, a := range args {
		out = App{Fun: out, Arg: a}
	}
	return out
}

// binding parses a "(x A)" binder pair, with A optional.
func (p *parser) binding() (string, Expr) {
	p.expect(tokLParen)
	name := p.expect(tokIdent).text
	var typ Expr
	if p.lex.peek().kind != tokRParen {
		typ = p.expr()
	}
	p.expect(tokRParen)
	return name, typ
}
