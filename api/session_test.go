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

package api_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/lambpi/lambpi/api"
	"github.com/lambpi/lambpi/diag"
	"github.com/lambpi/lambpi/frontend"
)

// buildPeano declares Nat, z, s and plus (with its two standard
// recursion rules) on a fresh session, mirroring spec.md §8's worked
// example end to end through the surface syntax.
func buildPeano(t *testing.T) *api.Session {
	t.Helper()
	s := api.NewSession("peano")
	cmds, err := frontend.ParseString(`
		(static Nat Type)
		(static z Nat)
		(static s (-> Nat Nat))
		(definable plus (-> Nat (-> Nat Nat)))
		(rule ((y Nat)) (plus z y) y)
		(rule ((x Nat) (y Nat)) (plus (s x) y) (s (plus x y)))
	`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case frontend.StaticDecl, frontend.DefinableDecl:
			if _, err := s.NewSymbol(c); err != nil {
				t.Fatalf("NewSymbol: %v", err)
			}
		case frontend.RuleDecl:
			if err := s.AddRule(c); err != nil {
				t.Fatalf("AddRule: %v", err)
			}
		default:
			t.Fatalf("unexpected command %T", cmd)
		}
	}
	return s
}

func TestSessionEvaluatesPlusTwoOne(t *testing.T) {
	s := buildPeano(t)
	cmds, err := frontend.ParseString(`(evaluate (plus (s (s z)) (s z)))`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	got, err := s.Evaluate(cmds[0].(frontend.EvaluateCmd))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if s.Printer.String(got) != "(s (s (s z)))" {
		t.Fatalf("Evaluate(plus 2 1) = %s, want (s (s (s z)))", s.Printer.String(got))
	}
}

func TestSessionInfersPlusType(t *testing.T) {
	s := buildPeano(t)
	cmds, err := frontend.ParseString(`(infer plus)`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	got, err := s.Infer(cmds[0].(frontend.InferCmd))
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	want := "Π(_:Nat). Π(_:Nat). Nat"
	if s.Printer.String(got) != want {
		t.Fatalf("Infer(plus) = %s, want %s", s.Printer.String(got), want)
	}
}

func TestSessionCheckAcceptsWellTypedTerm(t *testing.T) {
	s := buildPeano(t)
	cmds, err := frontend.ParseString(`(check (s (s z)) Nat)`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if err := s.Check(cmds[0].(frontend.CheckCmd)); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestSessionCheckRejectsIllTypedTerm(t *testing.T) {
	s := buildPeano(t)
	cmds, err := frontend.ParseString(`(check z (-> Nat Nat))`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if err := s.Check(cmds[0].(frontend.CheckCmd)); err == nil {
		t.Fatalf("expected Check to reject z against Nat -> Nat")
	}
}

func TestSessionCheckConvertibleModuloRewriting(t *testing.T) {
	s := buildPeano(t)
	cmds, err := frontend.ParseString(`(convertible (plus (s z) (s z)) (s (s z)))`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	ok, err := s.CheckConvertible(cmds[0].(frontend.ConvertibleCmd))
	if err != nil {
		t.Fatalf("CheckConvertible: %v", err)
	}
	if !ok {
		t.Fatalf("expected plus (s z) (s z) to be convertible to s (s z)")
	}
}

func TestSessionDefineSugarAddsAnArityZeroRule(t *testing.T) {
	s := api.NewSession("peano")
	cmds, err := frontend.ParseString(`
		(static Nat Type)
		(static z Nat)
		(static s (-> Nat Nat))
		(define one Nat (s z))
	`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case frontend.StaticDecl:
			if _, err := s.NewSymbol(c); err != nil {
				t.Fatalf("NewSymbol: %v", err)
			}
		case frontend.Define:
			if _, err := s.Define(c); err != nil {
				t.Fatalf("Define: %v", err)
			}
		}
	}
	ev, err := frontend.ParseString(`(evaluate one)`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	got, err := s.Evaluate(ev[0].(frontend.EvaluateCmd))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if s.Printer.String(got) != "(s z)" {
		t.Fatalf("Evaluate(one) = %s, want (s z)", s.Printer.String(got))
	}
}

func TestSessionRedeclarationIsSurfacedAsAWarning(t *testing.T) {
	s := api.NewSession("m")
	decl, err := frontend.ParseString(`(static Nat Type)`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if _, err := s.NewSymbol(decl[0].(frontend.StaticDecl)); err != nil {
		t.Fatalf("NewSymbol: %v", err)
	}
	if _, err := s.NewSymbol(decl[0].(frontend.StaticDecl)); err != nil {
		t.Fatalf("NewSymbol: %v", err)
	}
	if len(s.Warnings()) != 1 {
		t.Fatalf("got %d warnings, want 1", len(s.Warnings()))
	}
}

func TestSessionRunAllAccumulatesOneErrorPerFailingCommand(t *testing.T) {
	s := api.NewSession("peano")
	cmds, err := frontend.ParseString(`
		(static Nat Type)
		(static z Nat)
		(check bogus1 Nat)
		(check bogus2 Nat)
		(static s (-> Nat Nat))
	`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	runErr := s.RunAll(cmds)
	if runErr == nil {
		t.Fatalf("expected RunAll to report the two failing checks")
	}
	var errs *diag.Errors
	if !errors.As(runErr, &errs) {
		t.Fatalf("RunAll error is %T, want *diag.Errors", runErr)
	}
	if got := len(errs.Errors()); got != 2 {
		t.Fatalf("got %d accumulated errors, want 2", got)
	}
	// A later, unrelated command still ran against the signature state
	// left by the last successful command.
	if _, ok := s.Sig.Find("s"); !ok {
		t.Fatalf("expected s to be declared despite the earlier failures")
	}
}

func TestSessionUnboundIdentifierSuggestsKnownNames(t *testing.T) {
	s := api.NewSession("peano")
	decls, err := frontend.ParseString(`
		(static Nat Type)
		(static z Nat)
		(static s (-> Nat Nat))
	`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	for _, cmd := range decls {
		if _, err := s.NewSymbol(cmd.(frontend.StaticDecl)); err != nil {
			t.Fatalf("NewSymbol: %v", err)
		}
	}
	cmds, err := frontend.ParseString(`(check nope Nat)`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	checkErr := s.Check(cmds[0].(frontend.CheckCmd))
	if checkErr == nil {
		t.Fatalf("expected an error for the unbound identifier %q", "nope")
	}
	msg := checkErr.Error()
	for _, name := range []string{"Nat", "z", "s"} {
		if !strings.Contains(msg, name) {
			t.Fatalf("error %q does not mention known symbol %q", msg, name)
		}
	}
}
