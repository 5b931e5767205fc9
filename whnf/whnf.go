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

// Package whnf implements weak-head normalisation with user-defined
// rewrite rules (spec.md §4.3, §4.4): reduction is driven by an
// explicit argument stack, β-reduces abstractions, and rewrites
// definable symbols by trying their rules in insertion order,
// pre-reducing enough of the stack first that deeper patterns can
// still match.
package whnf

import "github.com/lambpi/lambpi/term"

// Stack reduces t to weak-head normal form and returns its head
// together with the (possibly still-unreduced) spine of arguments, in
// left-to-right order. This is the state machine of spec.md §4.3.
func Stack(t term.Term) (head term.Term, spine []term.Term) {
	t = term.Unfold(t)
	for {
		switch n := t.(type) {
		case *term.App:
			if n.Rigid {
				return t, spine
			}
			spine = append([]term.Term{n.Arg}, spine...)
			t = term.Unfold(n.Fun)
		case *term.Abs:
			if len(spine) == 0 {
				return t, spine
			}
			arg := spine[0]
			spine = spine[1:]
			t = term.Unfold(term.InstantiateOne(n.Body, arg))
		case *term.Symbol:
			if n.Kind != term.Definable {
				return t, spine
			}
			nextTerm, nextSpine, ok := matchStep(n, spine)
			if !ok {
				return t, spine
			}
			t = term.Unfold(nextTerm)
			spine = nextSpine
		default:
			return t, spine
		}
	}
}

// Eval computes the weak-head normal form of t and reassembles
// head·spine into a single term.
func Eval(t term.Term) term.Term {
	head, spine := Stack(t)
	return term.AppSpine(head, spine)
}

// matchStep runs the rule-matching procedure of spec.md §4.4 and, if a
// rule fired, returns the next (term, stack) state.
func matchStep(d *term.Symbol, spine []term.Term) (term.Term, []term.Term, bool) {
	cands := MatchRules(d, spine)
	if len(cands) == 0 {
		return nil, nil, false
	}
	return cands[0].Term, cands[0].Spine, true
}
