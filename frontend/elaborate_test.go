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

package frontend_test

import (
	"testing"

	"github.com/lambpi/lambpi/frontend"
	"github.com/lambpi/lambpi/term"
)

func TestElaborateArrowAndApplication(t *testing.T) {
	nat := &term.Symbol{Kind: term.Static, Module: "test", Name: "Nat", Type: term.TypeSort}
	z := &term.Symbol{Kind: term.Static, Module: "test", Name: "z", Type: nat}
	s := &term.Symbol{Kind: term.Static, Module: "test", Name: "s", Type: term.NewProductNonDep(nat, nat)}

	scope := frontend.NewScope(map[string]term.Term{"Nat": nat, "z": z, "s": s})
	exprs, err := frontend.ParseString(`(check (s z) Nat)`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	cmd := exprs[0].(frontend.CheckCmd)

	got, err := frontend.Elaborate(cmd.Term, scope, nil)
	if err != nil {
		t.Fatalf("Elaborate: %v", err)
	}
	want := term.NewApp(s, z)
	if term.String(got) != term.String(term.Term(want)) {
		t.Fatalf("Elaborate(%v) = %s, want %s", cmd.Term, term.String(got), term.String(want))
	}
}

func TestElaborateLambdaBindsFreshVariable(t *testing.T) {
	typ, err := frontend.ParseString(`(evaluate (lambda (x Type) x))`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	ev := typ[0].(frontend.EvaluateCmd)
	scope := frontend.NewScope(nil)

	got, err := frontend.Elaborate(ev.Term, scope, nil)
	if err != nil {
		t.Fatalf("Elaborate: %v", err)
	}
	abs, ok := got.(*term.Abs)
	if !ok {
		t.Fatalf("expected *term.Abs, got %T", got)
	}
	v, body := term.OpenOne(abs.Body)
	if body != term.Term(v) {
		t.Fatalf("expected the body to be exactly the bound variable, got %s", term.String(body))
	}
}

func TestElaborateUnboundIdentifierFails(t *testing.T) {
	cmds, err := frontend.ParseString(`(evaluate nope)`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	ev := cmds[0].(frontend.EvaluateCmd)
	if _, err := frontend.Elaborate(ev.Term, frontend.NewScope(nil), nil); err == nil {
		t.Fatalf("expected an unbound-identifier error")
	}
}

func TestElaborateWildcardOutsideRuleFails(t *testing.T) {
	cmds, err := frontend.ParseString(`(evaluate _)`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	ev := cmds[0].(frontend.EvaluateCmd)
	if _, err := frontend.Elaborate(ev.Term, frontend.NewScope(nil), nil); err == nil {
		t.Fatalf("expected an error for a bare wildcard outside a rule")
	}
}

func TestElaborateWildcardHookIsUsedWhenProvided(t *testing.T) {
	nat := &term.Symbol{Kind: term.Static, Module: "test", Name: "Nat", Type: term.TypeSort}
	drop := &term.Symbol{Kind: term.Definable, Module: "test", Name: "drop", Type: term.NewProductNonDep(nat, term.NewProductNonDep(nat, nat))}
	z := &term.Symbol{Kind: term.Static, Module: "test", Name: "z", Type: nat}

	cmds, err := frontend.ParseString(`(rule ((x Nat)) (drop x _) x)`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	rd := cmds[0].(frontend.RuleDecl)

	scope := frontend.NewScope(map[string]term.Term{"Nat": nat, "drop": drop, "z": z, "x": z})
	var minted int
	wildcard := func() term.Term {
		minted++
		return term.Fresh("_")
	}
	if _, err := frontend.Elaborate(rd.LHS, scope, wildcard); err != nil {
		t.Fatalf("Elaborate: %v", err)
	}
	if minted != 1 {
		t.Fatalf("wildcard hook called %d times, want 1", minted)
	}
}
