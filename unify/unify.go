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

// Package unify implements strict equality with assignment (spec.md
// §4.5, §4.5.1): structural equality up to α-equivalence that, along
// the way, instantiates metavariables (restricted Miller-pattern
// unification) and, in rewrite mode, assigns pattern variables. It has
// no dependency on the reduction engine, so both whnf (rule matching)
// and conv (conversion) can build on it without a package cycle.
package unify

import (
	"github.com/pkg/errors"

	"github.com/lambpi/lambpi/term"
)

// Eq is the strict equality judgement. rewrite enables pattern
// variables: with rewrite set, a pattern-variable cell on a is
// permitted and, if unresolved, is assigned b; a pattern variable
// occurring on b is always an invariant violation, since only a
// rule's left-hand side may carry unresolved pattern variables.
func Eq(a, b term.Term, rewrite bool) (bool, error) {
	a, b = term.Unfold(a), term.Unfold(b)

	if pv, ok := b.(*term.PatVar); ok && !pv.Resolved() {
		return false, errors.Errorf("unify: pattern variable %s occurred on the right-hand side of an equality", pv.Hint)
	}

	if pv, ok := a.(*term.PatVar); ok {
		if !rewrite {
			return false, errors.Errorf("unify: pattern variable %s outside of rewrite mode", pv.Hint)
		}
		if err := pv.Assign(b); err != nil {
			return false, err
		}
		return true, nil
	}

	if ma, ok := a.(*term.Meta); ok {
		if mb, ok := b.(*term.Meta); ok && ma == mb {
			return true, nil // same cell: environments are trivially pointwise equal.
		}
		return instantiate(ma, b)
	}
	if mb, ok := b.(*term.Meta); ok {
		return instantiate(mb, a)
	}

	switch x := a.(type) {
	case *term.Var:
		y, ok := b.(*term.Var)
		return ok && x == y, nil
	case *term.Symbol:
		y, ok := b.(*term.Symbol)
		return ok && x == y, nil
	case *term.Product:
		y, ok := b.(*term.Product)
		if !ok {
			return false, nil
		}
		return eqBinder2(x.Domain, x.Codomain, y.Domain, y.Codomain, rewrite)
	case *term.Abs:
		y, ok := b.(*term.Abs)
		if !ok {
			return false, nil
		}
		return eqBinder2(x.Domain, x.Body, y.Domain, y.Body, rewrite)
	case *term.App:
		y, ok := b.(*term.App)
		if !ok {
			return false, nil
		}
		okFun, err := Eq(x.Fun, y.Fun, rewrite)
		if err != nil || !okFun {
			return false, err
		}
		return Eq(x.Arg, y.Arg, rewrite)
	default:
		if term.IsType(a) {
			return term.IsType(b), nil
		}
		if term.IsKind(a) {
			return term.IsKind(b), nil
		}
		return false, nil
	}
}

func eqBinder2(domA term.Term, codA *term.Binder[term.Term], domB term.Term, codB *term.Binder[term.Term], rewrite bool) (bool, error) {
	okDom, err := Eq(domA, domB, rewrite)
	if err != nil || !okDom {
		return false, err
	}
	v, bodyA := term.OpenOne(codA)
	bodyB := term.InstantiateOne(codB, v)
	return Eq(bodyA, bodyB, rewrite)
}
