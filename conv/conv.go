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

// Package conv implements conversion: equality modulo β-reduction and
// user rewrite rules, with an optional constraint-collecting mode
// (spec.md §4.5, §4.6.1). Where the source specification uses a
// single process-wide flag to switch strict and constraint mode, this
// kernel follows the Design Notes' suggested redesign and threads the
// choice as an explicit *Constraints parameter instead: nil means
// strict mode, a non-nil pointer collects deferred pairs. This removes
// the global mutable flag and lets a caller run two independent
// conversion problems (e.g. two rules being checked concurrently) each
// with its own constraint set.
package conv

import (
	"github.com/lambpi/lambpi/term"
	"github.com/lambpi/lambpi/unify"
	"github.com/lambpi/lambpi/whnf"
)

// Pair is a deferred conversion obligation collected while checking a
// rewrite rule's left-hand side (spec.md §4.6).
type Pair struct{ A, B term.Term }

// Constraints accumulates the pairs eq_modulo could not resolve.
type Constraints struct {
	Pairs []Pair
}

func (c *Constraints) defer_(a, b term.Term) bool {
	if c == nil {
		return false
	}
	c.Pairs = append(c.Pairs, Pair{A: a, B: b})
	return true
}

// Eq is the strict equality judgement of spec.md §4.5, exposed here so
// that callers of this package rarely need to import unify directly.
func Eq(a, b term.Term) (bool, error) {
	return unify.Eq(a, b, false)
}

// EqModulo is the conversion judgement: equality up to β-reduction and
// rewriting. When c is non-nil, an irreducible disequality is recorded
// in c and treated as provisionally successful instead of failing
// (constraint mode, spec.md §4.6).
func EqModulo(a, b term.Term, c *Constraints) (bool, error) {
	ok, err := Eq(a, b)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return eqReduced(a, b, c)
}

func eqReduced(a, b term.Term, c *Constraints) (bool, error) {
	headA, spineA := whnf.Stack(a)
	headB, spineB := whnf.Stack(b)

	na, nb := len(spineA), len(spineB)
	common := min(na, nb)
	effHeadA := term.AppSpine(headA, spineA[:na-common])
	effHeadB := term.AppSpine(headB, spineB[:nb-common])
	tailA, tailB := spineA[na-common:], spineB[nb-common:]

	ok, err := eqHeads(effHeadA, effHeadB, c)
	if err != nil || !ok {
		return ok, err
	}
	for i := range tailA {
		ok, err := EqModulo(tailA[i], tailB[i], c)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// eqHeads compares two whnf heads (after spine synchronisation). It
// first retries the strict test, since whnf may have uncovered a fresh
// metavariable or an identical symbol; failing that, it decomposes
// structurally identical product/abstraction/application shapes into
// sub-problems, and otherwise defers to c or fails.
func eqHeads(a, b term.Term, c *Constraints) (bool, error) {
	ok, err := Eq(a, b)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	switch x := a.(type) {
	case *term.Product:
		y, ok := b.(*term.Product)
		if !ok {
			return c.defer_(a, b), nil
		}
		return eqBinders(x.Domain, x.Codomain, y.Domain, y.Codomain, c)
	case *term.Abs:
		y, ok := b.(*term.Abs)
		if !ok {
			return c.defer_(a, b), nil
		}
		return eqBinders(x.Domain, x.Body, y.Domain, y.Body, c)
	case *term.App:
		y, ok := b.(*term.App)
		if !ok {
			return c.defer_(a, b), nil
		}
		okFun, err := EqModulo(x.Fun, y.Fun, c)
		if err != nil || !okFun {
			return false, err
		}
		return EqModulo(x.Arg, y.Arg, c)
	default:
		return c.defer_(a, b), nil
	}
}

func eqBinders(domA term.Term, codA *term.Binder[term.Term], domB term.Term, codB *term.Binder[term.Term], c *Constraints) (bool, error) {
	ok, err := EqModulo(domA, domB, c)
	if err != nil || !ok {
		return false, err
	}
	v, bodyA := term.OpenOne(codA)
	bodyB := term.InstantiateOne(codB, v)
	return EqModulo(bodyA, bodyB, c)
}
