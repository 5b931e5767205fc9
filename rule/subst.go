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

package rule

import (
	"github.com/lambpi/lambpi/conv"
	"github.com/lambpi/lambpi/diag"
	"github.com/lambpi/lambpi/term"
)

// substitution is the orientation of a rule's left-hand-side
// constraints into a simultaneous variable substitution (spec.md
// §4.6.1 step 4).
type substitution struct {
	vars []*term.Var
	args []term.Term
}

func (s *substitution) add(v *term.Var, t term.Term) {
	for _, existing := range s.vars {
		if existing == v {
			return // first orientation for a variable wins.
		}
	}
	s.vars = append(s.vars, v)
	s.args = append(s.args, t)
}

func (s *substitution) apply(t term.Term) term.Term {
	if s == nil || len(s.vars) == 0 {
		return t
	}
	return term.CloseVars(t, s.vars, s.args)
}

// buildSubst orients the constraints collected while inferring a
// rule's left-hand side: a pair with a bare variable on either side
// assigns it, a pair with matching static-symbol heads recurses into
// arguments, and a pair with matching definable-symbol heads is
// dropped with a non-injectivity warning. Anything else contributes
// nothing to the substitution.
func buildSubst(pairs []conv.Pair, warn func(kind diag.WarningKind, msg string)) *substitution {
	s := &substitution{}
	var process func(a, b term.Term)
	process = func(a, b term.Term) {
		a, b = term.Unfold(a), term.Unfold(b)
		if v, ok := a.(*term.Var); ok {
			s.add(v, b)
			return
		}
		if v, ok := b.(*term.Var); ok {
			s.add(v, a)
			return
		}
		headA, spineA := peelApp(a)
		headB, spineB := peelApp(b)
		symA, okA := headA.(*term.Symbol)
		symB, okB := headB.(*term.Symbol)
		if !okA || !okB || symA != symB {
			return
		}
		if symA.Kind == term.Definable {
			if warn != nil {
				warn(diag.NonInjectiveHead, "non-injective head "+symA.QualifiedName()+" dropped from rule substitution")
			}
			return
		}
		if len(spineA) != len(spineB) {
			return
		}
		for i := range spineA {
			process(spineA[i], spineB[i])
		}
	}
	for _, p := range pairs {
		process(p.A, p.B)
	}
	return s
}
