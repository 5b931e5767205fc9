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

import "github.com/lambpi/lambpi/term"

// Normalize computes the strong normal form of t: Stack/Eval only
// reduce the head, leaving a rigid application's arguments (or a
// product's or abstraction's body) untouched, which is exactly what
// conversion and typing need; the evaluate() command interface
// (spec.md §6) instead wants a fully reduced term to display, so
// Normalize recurses into every subterm still standing after the head
// reduction settles.
func Normalize(t term.Term) term.Term {
	head, spine := Stack(t)
	normSpine := make([]term.Term, len(spine))
	for i, a := range spine {
		normSpine[i] = Normalize(a)
	}
	switch n := head.(type) {
	case *term.Abs:
		v, body := term.OpenOne(n.Body)
		nb := Normalize(body)
		newBody := term.NewBinder1("x", func(x term.Term) term.Term {
			return term.CloseVars(nb, []*term.Var{v}, []term.Term{x})
		})
		head = &term.Abs{Domain: Normalize(n.Domain), Body: newBody}
	case *term.Product:
		v, cod := term.OpenOne(n.Codomain)
		nc := Normalize(cod)
		newCod := term.NewBinder1("x", func(x term.Term) term.Term {
			return term.CloseVars(nc, []*term.Var{v}, []term.Term{x})
		})
		head = &term.Product{Domain: Normalize(n.Domain), Codomain: newCod}
	case *term.App:
		head = term.NewApp(Normalize(n.Fun), Normalize(n.Arg))
	}
	return term.AppSpine(head, normSpine)
}
