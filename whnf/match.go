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

package whnf

import (
	"github.com/lambpi/lambpi/term"
	"github.com/lambpi/lambpi/unify"
)

// Candidate is one successful rule match: the term to continue
// reducing from, and the stack left after consuming the rule's
// arguments.
type Candidate struct {
	Rule  *term.Rule
	Term  term.Term
	Spine []term.Term
}

// MatchRules implements spec.md §4.4 given a definable symbol d and
// its argument stack. It returns every rule that matches, in
// insertion order; callers use the first. Overlap between rules is
// instead surfaced once, statically, when a rule is attached (see
// Overlaps), rather than recomputed on every reduction step.
func MatchRules(d *term.Symbol, spine []term.Term) []Candidate {
	rules := d.Rules()
	m := -1
	for _, r := range rules {
		if r.Arity <= len(spine) && r.Arity > m {
			m = r.Arity
		}
	}
	if m < 0 {
		return nil
	}

	// Pre-reduce the first m arguments to whnf in a fresh stack; the
	// rest of spine is untouched. This makes evaluation slightly
	// stronger than plain whnf (spec.md §4.3, §9 open question:
	// preserved bug-for-bug rather than "fixed").
	reduced := make([]term.Term, len(spine))
	for i := range spine {
		if i < m {
			reduced[i] = Eval(spine[i])
		} else {
			reduced[i] = spine[i]
		}
	}

	var cands []Candidate
	for _, r := range rules {
		if r.Arity > len(reduced) {
			continue
		}
		pvars := make([]*term.PatVar, r.LHS.Arity())
		pvarTerms := make([]term.Term, len(pvars))
		for i := range pvars {
			pvars[i] = term.NewPatVar("p")
			pvarTerms[i] = pvars[i]
		}
		patterns := r.LHS.Instantiate(pvarTerms...)

		ok := true
		for i, p := range patterns {
			if !matchOne(p, reduced[i]) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		rewritten := r.RHS.Instantiate(pvarTerms...)
		cands = append(cands, Candidate{Rule: r, Term: rewritten, Spine: append([]term.Term(nil), reduced[r.Arity:]...)})
	}
	return cands
}

// matchOne matches a left-hand-side pattern against a concrete term
// using equality-with-assignment: a pattern-variable node encountered
// on the pattern side unifies by storing its counterpart, any other
// mismatch fails. This is strict equality (spec.md §4.5) run with
// rewrite mode enabled.
func matchOne(pattern, subject term.Term) bool {
	ok, err := unify.Eq(pattern, subject, true)
	return err == nil && ok
}

// Overlaps reports whether two rules on the same symbol could both
// match the same redex (spec.md §4.4, §7): a caller attaching a new
// rule uses this against every rule already on the symbol to surface
// a rule-overlap warning instead of silently shadowing.
//
// Rules of different arity consume different-length spines and so
// never overlap under this check; same-arity rules overlap when their
// argument patterns are pairwise compatible, where an unresolved
// pattern variable on either side is compatible with anything.
func Overlaps(a, b *term.Rule) bool {
	if a.Arity != b.Arity {
		return false
	}
	pa := freshPatVars(a.LHS.Arity())
	pb := freshPatVars(b.LHS.Arity())
	patternsA := a.LHS.Instantiate(pa...)
	patternsB := b.LHS.Instantiate(pb...)
	for i := range patternsA {
		if !patternsCompatible(patternsA[i], patternsB[i]) {
			return false
		}
	}
	return true
}

func freshPatVars(n int) []term.Term {
	vars := make([]term.Term, n)
	for i := range vars {
		vars[i] = term.NewPatVar("p")
	}
	return vars
}

// patternsCompatible reports whether two patterns could both be
// matched by some common concrete term: an unresolved pattern
// variable matches anything, symbols must be identical, and
// applications recurse congruently. Any other pairing (a bare
// variable, product, abstraction or sort is never a valid pattern
// shape, spec.md §4.7) is conservatively treated as incompatible.
func patternsCompatible(x, y term.Term) bool {
	x, y = term.Unfold(x), term.Unfold(y)
	if _, ok := x.(*term.PatVar); ok {
		return true
	}
	if _, ok := y.(*term.PatVar); ok {
		return true
	}
	switch xn := x.(type) {
	case *term.Symbol:
		yn, ok := y.(*term.Symbol)
		return ok && xn == yn
	case *term.App:
		yn, ok := y.(*term.App)
		return ok && patternsCompatible(xn.Fun, yn.Fun) && patternsCompatible(xn.Arg, yn.Arg)
	default:
		return false
	}
}
