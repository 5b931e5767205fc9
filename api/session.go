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

// Package api implements the command interface of spec.md §6 as a
// Session: a signature plus the surface syntax needed to declare
// symbols, add rules, and run the four queries (check, infer,
// evaluate, check-convertible) against it.
package api

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/lambpi/lambpi/conv"
	"github.com/lambpi/lambpi/diag"
	"github.com/lambpi/lambpi/frontend"
	"github.com/lambpi/lambpi/rule"
	"github.com/lambpi/lambpi/sig"
	"github.com/lambpi/lambpi/term"
	"github.com/lambpi/lambpi/typing"
	"github.com/lambpi/lambpi/whnf"
)

// Session owns one module's signature and drives it from parsed
// frontend commands.
type Session struct {
	Sig     *sig.Signature
	Printer sig.Printer
}

// NewSession returns an empty session for the given module path.
func NewSession(path string) *Session {
	return &Session{Sig: sig.New(path), Printer: sig.NewPrinter(path)}
}

// Warnings surfaces every non-fatal diagnostic raised so far
// (redeclarations, non-injective rule heads), generalizing spec.md
// §7's "produce warnings only" into an inspectable value.
func (s *Session) Warnings() []diag.Warning { return s.Sig.Warnings() }

// scope resolves every declared symbol by name, for elaborating
// surface expressions against this session's signature.
func (s *Session) scope() *frontend.Scope {
	names := make(map[string]term.Term, s.Sig.Size())
	for _, name := range s.Sig.Names() {
		sym, _ := s.Sig.Find(name)
		names[name] = sym
	}
	return frontend.NewScope(names)
}

// elaborate wraps frontend.Elaborate, turning an unbound-identifier
// failure into a suggestion listing sg's own declared names (backed by
// golang.org/x/exp/maps through sig.Signature.SortedNames), the way an
// interactive tool's "unknown symbol, did you mean one of: ..." error
// would.
func elaborate(sg *sig.Signature, e frontend.Expr, scope *frontend.Scope, wildcard func() term.Term) (term.Term, error) {
	t, err := frontend.Elaborate(e, scope, wildcard)
	if err == nil {
		return t, nil
	}
	var ue *frontend.UnboundIdentifierError
	if errors.As(err, &ue) {
		return nil, errors.Wrapf(err, "known symbols in %s: %s", sg.Path, strings.Join(sg.SortedNames(), ", "))
	}
	return nil, err
}

// bindCtx elaborates a command's context list into both a typing.Context
// (for the checker) and a frontend.Scope (for elaborating the
// command's own term expressions), extending base with one fresh
// variable per entry, in order, so that later entries' types may refer
// to earlier ones.
func bindCtx(sg *sig.Signature, entries []frontend.CtxEntry, base *frontend.Scope) (*typing.Context, *frontend.Scope, error) {
	var ctx *typing.Context
	scope := base
	for _, e := range entries {
		var typ term.Term
		if e.Type != nil {
			t, err := elaborate(sg, e.Type, scope, nil)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "api: context entry %q", e.Name)
			}
			typ = t
		} else {
			typ = term.NewMeta(e.Name, ctx.Vars())
		}
		v := term.Fresh(e.Name)
		ctx = ctx.Extend(v, typ)
		scope = scope.Extend(e.Name, v)
	}
	return ctx, scope, nil
}

// NewSymbol declares a new symbol, static or definable depending on
// cmd's concrete type, after checking that its declared type itself
// classifies as Type or Kind (spec.md §3, §4.6).
func (s *Session) NewSymbol(cmd frontend.Command) (*term.Symbol, error) {
	switch n := cmd.(type) {
	case frontend.StaticDecl:
		typ, err := elaborate(s.Sig, n.Type, s.scope(), nil)
		if err != nil {
			return nil, errors.Wrapf(err, "api: declaring %q", n.Name)
		}
		if _, err := typing.SortOfType(typ); err != nil {
			return nil, errors.Wrapf(err, "api: declaring %q", n.Name)
		}
		return s.Sig.AddStatic(n.Name, typ), nil
	case frontend.DefinableDecl:
		typ, err := elaborate(s.Sig, n.Type, s.scope(), nil)
		if err != nil {
			return nil, errors.Wrapf(err, "api: declaring %q", n.Name)
		}
		if _, err := typing.SortOfType(typ); err != nil {
			return nil, errors.Wrapf(err, "api: declaring %q", n.Name)
		}
		return s.Sig.AddDefinable(n.Name, typ), nil
	default:
		return nil, errors.Errorf("api: NewSymbol given a non-declaration command %T", cmd)
	}
}

// Define declares a definable symbol and immediately equips it with a
// single arity-0 defining rule "name --> body", the sugar spec.md's
// glossary calls out as the common case of a rewrite rule.
func (s *Session) Define(cmd frontend.Define) (*term.Symbol, error) {
	typ, err := elaborate(s.Sig, cmd.Type, s.scope(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "api: defining %q", cmd.Name)
	}
	if _, err := typing.SortOfType(typ); err != nil {
		return nil, errors.Wrapf(err, "api: defining %q", cmd.Name)
	}
	sym := s.Sig.AddDefinable(cmd.Name, typ)

	body, err := elaborate(s.Sig, cmd.Body, s.scope(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "api: defining %q", cmd.Name)
	}
	elaborated, err := rule.Elaborate(nil,
		func([]term.Term, func() term.Term) term.Term { return sym },
		func([]term.Term) term.Term { return body },
	)
	if err != nil {
		return nil, errors.Wrapf(err, "api: defining %q", cmd.Name)
	}
	if err := rule.Check(elaborated, func(kind diag.WarningKind, msg string) { s.Sig.Warn(diag.Warning{Kind: kind, Message: msg}) }); err != nil {
		return nil, errors.Wrapf(err, "api: defining %q", cmd.Name)
	}
	return sym, nil
}

// AddRule elaborates and checks one rewrite rule and attaches it to
// its head symbol (spec.md §4.7, §4.6.1).
func (s *Session) AddRule(cmd frontend.RuleDecl) error {
	base := s.scope()
	var elabErr error
	elaborated, err := rule.Elaborate(ctxVarsWithTypes(s.Sig, cmd.Ctx, base, &elabErr),
		func(vars []term.Term, wildcard func() term.Term) term.Term {
			scope := extendScope(base, cmd.Ctx, vars)
			lhs, err := elaborate(s.Sig, cmd.LHS, scope, wildcard)
			if err != nil {
				elabErr = err
				return term.KindSort
			}
			return lhs
		},
		func(vars []term.Term) term.Term {
			scope := extendScope(base, cmd.Ctx, vars[:len(cmd.Ctx)])
			// Wildcards minted while building the LHS have no surface
			// name, so they are only reachable through the LHS pattern
			// itself; a rule's right-hand side may not mention "_".
			rhs, err := elaborate(s.Sig, cmd.RHS, scope, nil)
			if err != nil {
				elabErr = err
				return term.KindSort
			}
			return rhs
		},
	)
	if err != nil {
		return errors.Wrap(err, "api: adding rule")
	}
	if elabErr != nil {
		return errors.Wrap(elabErr, "api: adding rule")
	}
	return rule.Check(elaborated, func(kind diag.WarningKind, msg string) { s.Sig.Warn(diag.Warning{Kind: kind, Message: msg}) })
}

// ctxVarsWithTypes elaborates the declared type of each context entry
// against the (progressively extended) base scope, recording the
// first elaboration failure into *errOut rather than returning it
// (rule.Elaborate's CtxVar carries no error channel).
func ctxVarsWithTypes(sg *sig.Signature, entries []frontend.CtxEntry, base *frontend.Scope, errOut *error) []rule.CtxVar {
	out := make([]rule.CtxVar, len(entries))
	scope := base
	for i, e := range entries {
		out[i] = rule.CtxVar{Hint: e.Name}
		if e.Type == nil {
			continue
		}
		typ, err := elaborate(sg, e.Type, scope, nil)
		if err != nil && *errOut == nil {
			*errOut = err
		}
		out[i].Type = typ
		v := term.Fresh(e.Name)
		scope = scope.Extend(e.Name, v)
	}
	return out
}

// extendScope binds each context entry's name to the concrete term
// rule.Elaborate minted for it, in declaration order.
func extendScope(base *frontend.Scope, entries []frontend.CtxEntry, vars []term.Term) *frontend.Scope {
	scope := base
	for i, e := range entries {
		scope = scope.Extend(e.Name, vars[i])
	}
	return scope
}

// Check implements spec.md §6's check query: Γ ⊢ e ⇐ A.
func (s *Session) Check(cmd frontend.CheckCmd) error {
	ctx, scope, err := bindCtx(s.Sig, cmd.Ctx, s.scope())
	if err != nil {
		return err
	}
	e, err := elaborate(s.Sig, cmd.Term, scope, nil)
	if err != nil {
		return err
	}
	typ, err := elaborate(s.Sig, cmd.Type, scope, nil)
	if err != nil {
		return err
	}
	return typing.Check(ctx, e, typ)
}

// Infer implements spec.md §6's infer query: Γ ⊢ e ⇒ A, returning A as
// a term; s.Printer renders it relative to this session's module.
func (s *Session) Infer(cmd frontend.InferCmd) (term.Term, error) {
	ctx, scope, err := bindCtx(s.Sig, cmd.Ctx, s.scope())
	if err != nil {
		return nil, err
	}
	e, err := elaborate(s.Sig, cmd.Term, scope, nil)
	if err != nil {
		return nil, err
	}
	return typing.Infer(ctx, e)
}

// Evaluate implements spec.md §6's evaluate query: it first infers a
// type for the term (evaluating an ill-typed term is not meaningful),
// then fully reduces it with whnf.Normalize rather than whnf.Eval,
// since the query's contract is a concrete, syntactically-final value
// rather than a value merely in weak-head normal form.
func (s *Session) Evaluate(cmd frontend.EvaluateCmd) (term.Term, error) {
	ctx, scope, err := bindCtx(s.Sig, cmd.Ctx, s.scope())
	if err != nil {
		return nil, err
	}
	e, err := elaborate(s.Sig, cmd.Term, scope, nil)
	if err != nil {
		return nil, err
	}
	if _, err := typing.Infer(ctx, e); err != nil {
		return nil, errors.Wrap(err, "api: evaluate requires a well-typed term")
	}
	return whnf.Normalize(e), nil
}

// CheckConvertible implements spec.md §6's check-convertible query:
// Γ ⊢ a ≡ b, using strict equality-with-assignment first and falling
// back to conversion modulo reduction, exactly as conv.EqModulo does
// for any other equality check in the kernel.
func (s *Session) CheckConvertible(cmd frontend.ConvertibleCmd) (bool, error) {
	_, scope, err := bindCtx(s.Sig, cmd.Ctx, s.scope())
	if err != nil {
		return false, err
	}
	a, err := elaborate(s.Sig, cmd.Left, scope, nil)
	if err != nil {
		return false, err
	}
	b, err := elaborate(s.Sig, cmd.Right, scope, nil)
	if err != nil {
		return false, err
	}
	return conv.EqModulo(a, b, nil)
}

// Run dispatches a single top-level command to the matching Session
// method, discarding a query's produced value where the caller (a
// batch run) only cares whether it succeeded.
func (s *Session) Run(cmd frontend.Command) error {
	switch c := cmd.(type) {
	case frontend.StaticDecl, frontend.DefinableDecl:
		_, err := s.NewSymbol(c)
		return err
	case frontend.Define:
		_, err := s.Define(c)
		return err
	case frontend.RuleDecl:
		return s.AddRule(c)
	case frontend.CheckCmd:
		return s.Check(c)
	case frontend.InferCmd:
		_, err := s.Infer(c)
		return err
	case frontend.EvaluateCmd:
		_, err := s.Evaluate(c)
		return err
	case frontend.ConvertibleCmd:
		_, err := s.CheckConvertible(c)
		return err
	default:
		return errors.Errorf("api: Run given an unhandled command %T", cmd)
	}
}

// RunAll runs every command in order. spec.md §7 makes a fatal error
// abort only "the current top-level item"; later commands still run
// against whatever the signature looked like after the last success,
// so a batch of commands can surface more than one failure per run.
// Every item's error is collected into a single diag.Errors instead of
// stopping at the first one, generalizing the teacher's fmterr.Appender
// batching to this kernel's command interface.
func (s *Session) RunAll(cmds []frontend.Command) error {
	var errs diag.Errors
	for _, cmd := range cmds {
		errs.Append(s.Run(cmd))
	}
	return errs.ToError()
}
