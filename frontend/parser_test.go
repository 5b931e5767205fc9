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

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/lambpi/lambpi/frontend"
)

// ignoreIdentPos excludes Ident.Pos from structural comparisons: the
// exact line/column an identifier token started at is not part of
// what these tests assert about the parsed tree shape.
var ignoreIdentPos = cmpopts.IgnoreFields(frontend.Ident{}, "Pos")

func TestParseStaticAndDefinableDecls(t *testing.T) {
	cmds, err := frontend.ParseString(`
		(static Nat Type)
		(definable plus (-> Nat (-> Nat Nat)))
	`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	want := []frontend.Command{
		frontend.StaticDecl{Name: "Nat", Type: frontend.TypeLit{}},
		frontend.DefinableDecl{
			Name: "plus",
			Type: frontend.Product{
				Domain: frontend.Ident{Name: "Nat"},
				Body: frontend.Product{
					Domain: frontend.Ident{Name: "Nat"},
					Body:   frontend.Ident{Name: "Nat"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, cmds, ignoreIdentPos); diff != "" {
		t.Fatalf("ParseString mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRuleWithTypedContext(t *testing.T) {
	cmds, err := frontend.ParseString(`(rule ((x Nat) (y Nat)) (plus (s x) y) (s (plus x y)))`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	want := []frontend.Command{
		frontend.RuleDecl{
			Ctx: []frontend.CtxEntry{
				{Name: "x", Type: frontend.Ident{Name: "Nat"}},
				{Name: "y", Type: frontend.Ident{Name: "Nat"}},
			},
			LHS: frontend.App{
				Fun: frontend.App{Fun: frontend.Ident{Name: "plus"}, Arg: frontend.App{Fun: frontend.Ident{Name: "s"}, Arg: frontend.Ident{Name: "x"}}},
				Arg: frontend.Ident{Name: "y"},
			},
			RHS: frontend.App{
				Fun: frontend.Ident{Name: "s"},
				Arg: frontend.App{Fun: frontend.App{Fun: frontend.Ident{Name: "plus"}, Arg: frontend.Ident{Name: "x"}}, Arg: frontend.Ident{Name: "y"}},
			},
		},
	}
	if diff := cmp.Diff(want, cmds, ignoreIdentPos); diff != "" {
		t.Fatalf("ParseString mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEvaluateWithoutCtx(t *testing.T) {
	cmds, err := frontend.ParseString(`(evaluate (plus (s z) (s z)))`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("expected 1 command, got %d", len(cmds))
	}
	ev, ok := cmds[0].(frontend.EvaluateCmd)
	if !ok {
		t.Fatalf("expected an EvaluateCmd, got %T", cmds[0])
	}
	if ev.Ctx != nil {
		t.Fatalf("expected no ctx block, got %v", ev.Ctx)
	}
}

func TestParseCheckWithCtx(t *testing.T) {
	cmds, err := frontend.ParseString(`(check (ctx (x Nat)) x Nat)`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	ck, ok := cmds[0].(frontend.CheckCmd)
	if !ok {
		t.Fatalf("expected a CheckCmd, got %T", cmds[0])
	}
	if len(ck.Ctx) != 1 || ck.Ctx[0].Name != "x" {
		t.Fatalf("unexpected ctx: %+v", ck.Ctx)
	}
}

func TestParseLambdaAndPi(t *testing.T) {
	cmds, err := frontend.ParseString(`(check (lambda (A Type) (lambda (x A) x)) (pi (A Type) (-> A A)))`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("expected 1 command, got %d", len(cmds))
	}
}

func TestParseRejectsUnknownCommand(t *testing.T) {
	if _, err := frontend.ParseString(`(bogus 1 2)`); err == nil {
		t.Fatalf("expected an error for an unknown command")
	}
}

func TestParseRejectsUnbalancedParens(t *testing.T) {
	if _, err := frontend.ParseString(`(static Nat Type`); err == nil {
		t.Fatalf("expected an error for unbalanced parens")
	}
}
