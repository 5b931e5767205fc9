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

package frontend

import "github.com/lambpi/lambpi/diag"

// Expr is a surface-syntax term, before scoping and elaboration into
// term.Term. Every concrete type below implements it.
type Expr interface{ exprNode() }

// Ident refers to a bound variable or a signature symbol by name. Pos
// is the position of the identifier token, used to tag an
// unbound-identifier error with a location.
type Ident struct {
	Name string
	Pos  diag.Pos
}

// Wildcard is the "_" pattern, valid only on a rule's left-hand side.
type Wildcard struct{}

// TypeLit is the sort Type.
type TypeLit struct{}

// KindLit is the sort Kind.
type KindLit struct{}

// Product is a dependent product "(pi (x A) B)", or a non-dependent
// arrow "(-> A B)" when Var is empty.
type Product struct {
	Var    string
	Domain Expr
	Body   Expr
}

// Abs is a lambda abstraction "(lambda (x A) body)". Domain may be nil
// when the annotation is left for inference to recover.
type Abs struct {
	Var    string
	Domain Expr
	Body   Expr
}

// App is a curried application "(f a b c)", desugared into nested
// binary applications by the parser.
type App struct {
	Fun Expr
	Arg Expr
}

func (Ident) exprNode()    {}
func (Wildcard) exprNode() {}
func (TypeLit) exprNode()  {}
func (KindLit) exprNode()  {}
func (Product) exprNode()  {}
func (Abs) exprNode()      {}
func (App) exprNode()      {}

// Command is one top-level directive of spec.md §6's command
// interface.
type Command interface{ commandNode() }

// StaticDecl declares a new static symbol: "(static f A)".
type StaticDecl struct {
	Name string
	Type Expr
}

// DefinableDecl declares a new definable symbol without rules:
// "(definable f A)".
type DefinableDecl struct {
	Name string
	Type Expr
}

// Define is sugar for a definable symbol equipped with a single
// arity-0 defining rule: "(define f A body)".
type Define struct {
	Name string
	Type Expr
	Body Expr
}

// RuleDecl adds one rewrite rule to an already-declared definable
// symbol: "(rule ((x A) (y B)) lhs rhs)".
type RuleDecl struct {
	Ctx []CtxEntry
	LHS Expr
	RHS Expr
}

// CtxEntry is one "(name type)" pair of a rule's or a check's
// context, with Type nil when omitted.
type CtxEntry struct {
	Name string
	Type Expr
}

// CheckCmd checks a term against an expected type: "(check e A)".
type CheckCmd struct {
	Ctx  []CtxEntry
	Term Expr
	Type Expr
}

// InferCmd infers and reports a term's type: "(infer e)".
type InferCmd struct {
	Ctx  []CtxEntry
	Term Expr
}

// EvaluateCmd fully normalizes a term: "(evaluate e)".
type EvaluateCmd struct {
	Ctx  []CtxEntry
	Term Expr
}

// ConvertibleCmd checks two terms for convertibility: "(convertible a
// b)".
type ConvertibleCmd struct {
	Ctx   []CtxEntry
	Left  Expr
	Right Expr
}

func (StaticDecl) commandNode()     {}
func (DefinableDecl) commandNode()  {}
func (Define) commandNode()         {}
func (RuleDecl) commandNode()       {}
func (CheckCmd) commandNode()       {}
func (InferCmd) commandNode()       {}
func (EvaluateCmd) commandNode()    {}
func (ConvertibleCmd) commandNode() {}
