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

package unify_test

import (
	"testing"

	"github.com/lambpi/lambpi/term"
	"github.com/lambpi/lambpi/unify"
)

func natSymbol(name string, kind term.SymbolKind, typ term.Term) *term.Symbol {
	return &term.Symbol{Kind: kind, Module: "test", Name: name, Type: typ}
}

func TestEqAlphaEquivalentAbstractions(t *testing.T) {
	nat := natSymbol("Nat", term.Static, term.TypeSort)
	id1 := &term.Abs{Domain: nat, Body: term.NewBinder1("x", func(x term.Term) term.Term { return x })}
	id2 := &term.Abs{Domain: nat, Body: term.NewBinder1("y", func(y term.Term) term.Term { return y })}
	ok, err := unify.Eq(id1, id2, false)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	if !ok {
		t.Fatalf("expected two alpha-equivalent abstractions to be equal")
	}
}

func TestEqDistinctVariablesAreNotEqual(t *testing.T) {
	x := term.Fresh("x")
	y := term.Fresh("y")
	ok, err := unify.Eq(x, y, false)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	if ok {
		t.Fatalf("expected two distinct free variables to be unequal")
	}
}

func TestEqInstantiatesAMetaWithAnEmptyEnvironment(t *testing.T) {
	nat := natSymbol("Nat", term.Static, term.TypeSort)
	z := natSymbol("z", term.Static, nat)
	m := term.NewMeta("m", nil)
	ok, err := unify.Eq(m, z, false)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	if !ok {
		t.Fatalf("expected Eq to succeed by instantiating the metavariable")
	}
	if !m.Assigned() {
		t.Fatalf("expected the metavariable to be assigned")
	}
	if got := term.String(term.Unfold(m)); got != "test.z" {
		t.Fatalf("Unfold(m) = %s, want test.z", got)
	}
}

func TestEqRejectsOccursCheckViolation(t *testing.T) {
	nat := natSymbol("Nat", term.Static, term.TypeSort)
	s := natSymbol("s", term.Static, term.NewProductNonDep(nat, nat))
	m := term.NewMeta("m", nil)
	if _, err := unify.Eq(m, term.NewApp(s, m), false); err == nil {
		t.Fatalf("expected an occurs-check error")
	}
}

func TestEqRejectsNonVariableMetaEnvironment(t *testing.T) {
	nat := natSymbol("Nat", term.Static, term.TypeSort)
	z := natSymbol("z", term.Static, nat)
	// A meta scoped over a non-variable ("z" itself) violates the
	// Miller-pattern restriction: its environment must be all
	// variables.
	m := term.NewMeta("m", []term.Term{z})
	if _, err := unify.Eq(m, z, false); err == nil {
		t.Fatalf("expected the Miller-pattern restriction to reject a non-variable environment entry")
	}
}

func TestEqInstantiatesAMetaScopedOverAVariable(t *testing.T) {
	nat := natSymbol("Nat", term.Static, term.TypeSort)
	v := term.Fresh("x")
	m := term.NewMeta("m", []term.Term{v})
	// ?m[x] =?= x, solved by \x. x.
	ok, err := unify.Eq(m, v, false)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	if !ok {
		t.Fatalf("expected Eq to succeed")
	}
	other := natSymbol("other", term.Static, nat)
	applied := term.InstantiateOne(m.Cell(), other)
	if term.String(applied) != term.String(term.Term(other)) {
		t.Fatalf("?m[other] = %s, want test.other", term.String(applied))
	}
}

func TestEqOutsideRewriteModeRejectsPatternVariable(t *testing.T) {
	p := term.NewPatVar("p")
	nat := natSymbol("Nat", term.Static, term.TypeSort)
	if _, err := unify.Eq(p, nat, false); err == nil {
		t.Fatalf("expected a pattern variable to be rejected outside rewrite mode")
	}
}

func TestEqInRewriteModeAssignsPatternVariable(t *testing.T) {
	p := term.NewPatVar("p")
	nat := natSymbol("Nat", term.Static, term.TypeSort)
	ok, err := unify.Eq(p, nat, true)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	if !ok || !p.Resolved() {
		t.Fatalf("expected the pattern variable to be resolved to Nat")
	}
}

func TestEqRejectsPatternVariableOnTheRight(t *testing.T) {
	p := term.NewPatVar("p")
	nat := natSymbol("Nat", term.Static, term.TypeSort)
	if _, err := unify.Eq(nat, p, true); err == nil {
		t.Fatalf("expected a pattern variable on the right-hand side to be an error")
	}
}

func TestEqDistinctSymbolsAreNotEqual(t *testing.T) {
	nat := natSymbol("Nat", term.Static, term.TypeSort)
	z := natSymbol("z", term.Static, nat)
	s := natSymbol("s", term.Static, term.NewProductNonDep(nat, nat))
	ok, err := unify.Eq(z, s, false)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	if ok {
		t.Fatalf("expected distinct symbols to be unequal")
	}
}
