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

// Package rule elaborates surface rewrite-rule syntax into a
// term.Rule and checks it against the typing discipline (spec.md
// §4.6.1, §4.7) before it may be attached to a symbol.
package rule

import (
	"github.com/pkg/errors"

	"github.com/lambpi/lambpi/conv"
	"github.com/lambpi/lambpi/diag"
	"github.com/lambpi/lambpi/term"
	"github.com/lambpi/lambpi/typing"
	"github.com/lambpi/lambpi/whnf"
)

// CtxVar is one entry of a rule's context: an optionally-typed name.
// A nil Type means the frontend omitted an annotation; Elaborate
// inserts a fresh metavariable scoped over the preceding context
// variables in its place.
type CtxVar struct {
	Hint string
	Type term.Term
}

// LHSBuilder constructs the left-hand side pattern from the context
// variables, in declaration order, and a wildcard hook: each call to
// wildcard mints one fresh scoped variable and appends it to the
// rule's implicit binder list, exactly as if it were an extra,
// untyped, unnamed context variable (spec.md §4.7).
type LHSBuilder func(ctxVars []term.Term, wildcard func() term.Term) term.Term

// RHSBuilder constructs the right-hand side from the context
// variables followed by the wildcards minted while building the LHS,
// in minting order.
type RHSBuilder func(vars []term.Term) term.Term

// Elaborated is a rule that has been scoped but not yet type-checked.
type Elaborated struct {
	CtxVars   []*term.Var
	CtxTypes  []term.Term // parallel to CtxVars; never nil entries.
	Wildcards []*term.Var
	Head      *term.Symbol
	Arity     int
	Rule      *term.Rule
}

// Elaborate implements spec.md §4.7. It scopes the LHS, requires its
// head (after peeling applications) to be a definable symbol, and
// binds the union of context variables and wildcards over both sides.
func Elaborate(ctx []CtxVar, lhsBuild LHSBuilder, rhsBuild RHSBuilder) (*Elaborated, error) {
	vars := make([]*term.Var, len(ctx))
	varTerms := make([]term.Term, len(ctx))
	types := make([]term.Term, len(ctx))
	for i, cv := range ctx {
		v := term.Fresh(cv.Hint)
		vars[i] = v
		varTerms[i] = v
		if cv.Type != nil {
			types[i] = cv.Type
		} else {
			types[i] = term.NewMeta(cv.Hint, append([]term.Term(nil), varTerms[:i]...))
		}
	}

	var wildcards []*term.Var
	wildcard := func() term.Term {
		w := term.Fresh("_")
		wildcards = append(wildcards, w)
		return w
	}
	lhs := lhsBuild(varTerms, wildcard)

	head, spine := peelApp(lhs)
	sym, ok := head.(*term.Symbol)
	if !ok {
		return nil, errors.Errorf("rule: left-hand side head is not a symbol")
	}
	if sym.Kind != term.Definable {
		return nil, errors.Errorf("rule: left-hand side head %s is not a definable symbol", sym.QualifiedName())
	}

	allVars := make([]*term.Var, 0, len(vars)+len(wildcards))
	allVars = append(allVars, vars...)
	allVars = append(allVars, wildcards...)

	rhsVars := make([]term.Term, len(allVars))
	for i, v := range allVars {
		rhsVars[i] = v
	}
	rhs := rhsBuild(rhsVars)

	lhsBinder := term.NewBinder(len(allVars), func(args []term.Term) []term.Term {
		closedSpine := make([]term.Term, len(spine))
		for i, s := range spine {
			closedSpine[i] = term.CloseVars(s, allVars, args)
		}
		return closedSpine
	})
	rhsBinder := term.NewBinder(len(allVars), func(args []term.Term) term.Term {
		return term.CloseVars(rhs, allVars, args)
	})

	return &Elaborated{
		CtxVars:   vars,
		CtxTypes:  types,
		Wildcards: wildcards,
		Head:      sym,
		Arity:     len(spine),
		Rule: &term.Rule{
			Owner: sym,
			Arity: len(spine),
			LHS:   lhsBinder,
			RHS:   rhsBinder,
		},
	}, nil
}

// peelApp decomposes t into its head and left-to-right argument
// spine.
func peelApp(t term.Term) (term.Term, []term.Term) {
	var spine []term.Term
	for {
		app, ok := t.(*term.App)
		if !ok {
			return t, spine
		}
		spine = append([]term.Term{app.Arg}, spine...)
		t = app.Fun
	}
}

// context builds the typing.Context binding every context variable
// and wildcard used while elaborating e: context variables get their
// declared (or inferred-fresh-metavariable) type, wildcards get a
// fresh metavariable scoped over everything bound before them.
func (e *Elaborated) context() *typing.Context {
	var ctx *typing.Context
	for i, v := range e.CtxVars {
		ctx = ctx.Extend(v, e.CtxTypes[i])
	}
	for _, w := range e.Wildcards {
		ctx = ctx.Extend(w, term.NewMeta(w.Hint, ctx.Vars()))
	}
	return ctx
}

// Check runs the rule checker of spec.md §4.6.1 against the
// elaborated rule and, on success, attaches it to its owning symbol.
// warn is called once per non-injective definable-symbol head dropped
// while orienting the left-hand-side constraints into a substitution,
// and once per already-attached rule the new one overlaps with
// (spec.md §4.4, §7); it may be nil.
func Check(e *Elaborated, warn func(kind diag.WarningKind, msg string)) error {
	ctx := e.context()
	allVars := append(append([]*term.Var{}, e.CtxVars...), e.Wildcards...)
	args := make([]term.Term, len(allVars))
	for i, v := range allVars {
		args[i] = v
	}
	lhsSpine := e.Rule.LHS.Instantiate(args...)
	lhs := term.AppSpine(e.Head, lhsSpine)
	rhs := e.Rule.RHS.Instantiate(args...)

	cl := &conv.Constraints{}
	tl, err := typing.InferWithConstraints(ctx, lhs, cl)
	if err != nil {
		return errors.Wrap(err, "rule: left-hand side is ill-typed")
	}
	cr := &conv.Constraints{}
	tr, err := typing.InferWithConstraints(ctx, rhs, cr)
	if err != nil {
		return errors.Wrap(err, "rule: right-hand side is ill-typed")
	}

	for _, p := range cr.Pairs {
		ok, err := conv.EqModulo(p.A, p.B, cl)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Errorf("rule: right-hand side constraint %s ≡ %s is not entailed by the left-hand side", term.String(p.A), term.String(p.B))
		}
	}

	subst := buildSubst(cl.Pairs, warn)
	tl2 := subst.apply(tl)
	tr2 := subst.apply(tr)
	ok, err := conv.EqModulo(tl2, tr2, nil)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("rule: left-hand side type %s does not match right-hand side type %s", term.String(tl2), term.String(tr2))
	}

	if warn != nil {
		for _, existing := range e.Head.Rules() {
			if whnf.Overlaps(existing, e.Rule) {
				warn(diag.RuleOverlap, "rule for "+e.Head.QualifiedName()+" overlaps with a previously attached rule")
			}
		}
	}
	e.Head.AttachRule(e.Rule)
	return nil
}
