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

package term

// Binder is a closed, higher-order binder over Arity terms, producing
// a result of type R: R is Term for the codomain of a Product or the
// body of an Abs or the right-hand side of a rewrite rule, and []Term
// for the argument patterns of a rewrite rule's left-hand side.
//
// Instantiate plugs in concrete terms; Open plugs in Arity globally
// fresh variables and also returns them, so that callers needing
// α-equivalence (conversion, printing) can open two binders with the
// very same variables and recurse structurally.
type Binder[R any] struct {
	arity int
	hint  string // display hint for the variables Open mints; "x" if empty.
	build func(args []Term) R
}

// NewBinder wraps build as a binder of the given arity. build must be
// pure and must not inspect argument identity beyond ordinary term
// construction; it is called once per Open or Instantiate.
func NewBinder[R any](arity int, build func(args []Term) R) *Binder[R] {
	return &Binder[R]{arity: arity, build: build}
}

// Arity returns the number of terms the binder abstracts over.
func (b *Binder[R]) Arity() int { return b.arity }

// Instantiate substitutes args, in order, for the binder's bound
// variables and returns the resulting term (or list of terms).
func (b *Binder[R]) Instantiate(args ...Term) R {
	if len(args) != b.arity {
		panic("term: binder instantiated with the wrong number of arguments")
	}
	return b.build(args)
}

// Open returns Arity globally fresh variables together with the
// binder's body built from them.
func (b *Binder[R]) Open() ([]*Var, R) {
	hint := b.hint
	if hint == "" {
		hint = "x"
	}
	vars := make([]*Var, b.arity)
	args := make([]Term, b.arity)
	for i := range vars {
		vars[i] = Fresh(hint)
		args[i] = vars[i]
	}
	return vars, b.build(args)
}

// NewBinder1 is the common arity-1 case: the domain binder of a
// Product or an Abs.
func NewBinder1(hint string, build func(x Term) Term) *Binder[Term] {
	b := NewBinder(1, func(args []Term) Term { return build(args[0]) })
	b.hint = hint
	return b
}

// OpenOne is Open specialised to arity 1.
func OpenOne(b *Binder[Term]) (*Var, Term) {
	vs, body := b.Open()
	return vs[0], body
}

// InstantiateOne is Instantiate specialised to arity 1.
func InstantiateOne(b *Binder[Term], arg Term) Term {
	return b.Instantiate(arg)
}
