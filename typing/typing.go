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

// Package typing implements bidirectional type inference and checking
// over the λΠ-calculus modulo rewriting (spec.md §4.6). Constraint mode
// is not a process-wide flag: Infer and Check run in strict mode, and
// InferWithConstraints and CheckWithConstraints take a *conv.Constraints
// that accumulates deferred pairs, per the redesign recorded in the conv
// package's doc comment.
package typing

import (
	"github.com/pkg/errors"

	"github.com/lambpi/lambpi/conv"
	"github.com/lambpi/lambpi/term"
	"github.com/lambpi/lambpi/whnf"
)

// Context is a persistent, cons-list typing environment: Γ, x:A. Since
// bound variables are opaque *term.Var identities rather than names,
// lookup is by pointer, and Extend never needs to shadow or rename.
type Context struct {
	v      *term.Var
	typ    term.Term
	parent *Context
}

// Extend returns Γ, x:A.
func (c *Context) Extend(v *term.Var, typ term.Term) *Context {
	return &Context{v: v, typ: typ, parent: c}
}

// Lookup returns the type recorded for v, or false if v is unbound.
func (c *Context) Lookup(v *term.Var) (term.Term, bool) {
	for n := c; n != nil; n = n.parent {
		if n.v == v {
			return n.typ, true
		}
	}
	return nil, false
}

// Vars returns the context's variables, outermost first.
func (c *Context) Vars() []term.Term {
	var rev []term.Term
	for n := c; n != nil; n = n.parent {
		rev = append(rev, term.Term(n.v))
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// Infer implements Γ ⊢ t ⇒ A (spec.md §4.6), in strict mode.
func Infer(ctx *Context, t term.Term) (term.Term, error) {
	return infer(ctx, t, nil)
}

// InferWithConstraints runs Infer in constraint mode: irreducible
// disequalities encountered while checking applications are recorded
// in c instead of failing. Used while typing a rewrite rule's LHS
// (spec.md §4.6, §4.7).
func InferWithConstraints(ctx *Context, t term.Term, c *conv.Constraints) (term.Term, error) {
	return infer(ctx, t, c)
}

func infer(ctx *Context, t term.Term, c *conv.Constraints) (term.Term, error) {
	switch n := term.Unfold(t).(type) {
	case *term.Var:
		typ, ok := ctx.Lookup(n)
		if !ok {
			return nil, errors.Errorf("typing: unbound variable %s", n.Hint)
		}
		return whnf.Eval(typ), nil

	case *term.Symbol:
		return whnf.Eval(n.Type), nil

	case *term.Product:
		v, cod := term.OpenOne(n.Codomain)
		s, err := infer(ctx.Extend(v, n.Domain), cod, c)
		if err != nil {
			return nil, err
		}
		s = whnf.Eval(s)
		if !term.IsType(s) && !term.IsKind(s) {
			return nil, errors.Errorf("typing: product codomain has non-sort type %s", term.String(s))
		}
		return s, nil

	case *term.Abs:
		v, body := term.OpenOne(n.Body)
		bodyTyp, err := infer(ctx.Extend(v, n.Domain), body, c)
		if err != nil {
			return nil, err
		}
		codomain := term.NewBinder1("x", func(x term.Term) term.Term {
			return term.CloseVars(bodyTyp, []*term.Var{v}, []term.Term{x})
		})
		return whnf.Eval(&term.Product{Domain: n.Domain, Codomain: codomain}), nil

	case *term.App:
		funTyp, err := infer(ctx, n.Fun, c)
		if err != nil {
			return nil, err
		}
		funTyp = whnf.Eval(funTyp)
		prod, ok := funTyp.(*term.Product)
		if !ok {
			m, isMeta := funTyp.(*term.Meta)
			if !isMeta {
				return nil, errors.Errorf("typing: applying a term of non-product type %s", term.String(funTyp))
			}
			env := ctx.Vars()
			domMeta := term.NewMeta("A", env)
			codMeta := term.NewMeta("B", env)
			forced := term.NewProductNonDep(domMeta, codMeta)
			if err := assignMeta(m, forced); err != nil {
				return nil, err
			}
			prod = forced
		}
		if err := check(ctx, n.Arg, prod.Domain, c); err != nil {
			return nil, err
		}
		return whnf.Eval(term.InstantiateOne(prod.Codomain, n.Arg)), nil

	default:
		if term.IsType(n) {
			return term.KindSort, nil
		}
		return nil, errors.Errorf("typing: cannot infer a type for %s", term.String(t))
	}
}

// Check implements Γ ⊢ t ⇐ A (spec.md §4.6), in strict mode.
func Check(ctx *Context, t, typ term.Term) error {
	return check(ctx, t, typ, nil)
}

// CheckWithConstraints is Check run in constraint mode.
func CheckWithConstraints(ctx *Context, t, typ term.Term, c *conv.Constraints) error {
	return check(ctx, t, typ, c)
}

func check(ctx *Context, t, typ term.Term, c *conv.Constraints) error {
	a := whnf.Eval(typ)
	unfolded := term.Unfold(t)

	if term.IsType(unfolded) {
		if !term.IsKind(a) {
			return errors.Errorf("typing: Type does not check against %s", term.String(a))
		}
		return nil
	}

	switch n := unfolded.(type) {
	case *term.Var, *term.Symbol:
		inferred, err := infer(ctx, n, c)
		if err != nil {
			return err
		}
		ok, err := conv.EqModulo(inferred, a, c)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Errorf("typing: inferred type %s does not convert to expected type %s", term.String(inferred), term.String(a))
		}
		return nil

	case *term.Product:
		if !term.IsType(a) && !term.IsKind(a) {
			return errors.Errorf("typing: a product's type must be a sort, got %s", term.String(a))
		}
		if err := check(ctx, n.Domain, term.TypeSort, c); err != nil {
			return err
		}
		v, cod := term.OpenOne(n.Codomain)
		if err := check(ctx.Extend(v, n.Domain), cod, a, c); err != nil {
			return err
		}
		return nil

	case *term.Abs:
		prod, ok := a.(*term.Product)
		if !ok {
			return errors.Errorf("typing: abstraction checked against non-product type %s", term.String(a))
		}
		ok2, err := conv.EqModulo(n.Domain, prod.Domain, c)
		if err != nil {
			return err
		}
		if !ok2 {
			return errors.Errorf("typing: abstraction domain %s does not match expected domain %s", term.String(n.Domain), term.String(prod.Domain))
		}
		if err := check(ctx, prod.Domain, term.TypeSort, c); err != nil {
			return err
		}
		v, body := term.OpenOne(n.Body)
		return check(ctx.Extend(v, n.Domain), body, term.InstantiateOne(prod.Codomain, v), c)

	case *term.App:
		inferred, err := infer(ctx, n, c)
		if err != nil {
			return err
		}
		ok, err := conv.EqModulo(inferred, a, c)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Errorf("typing: inferred type %s does not convert to expected type %s", term.String(inferred), term.String(a))
		}
		return nil

	default:
		return errors.Errorf("typing: cannot check %s against %s", term.String(t), term.String(a))
	}
}

// SortOfType decides whether a declared type A itself belongs to Type
// or Kind by trying to infer it in the empty context and requiring the
// result to be one of the two sorts.
func SortOfType(typ term.Term) (term.Term, error) {
	s, err := Infer(nil, typ)
	if err != nil {
		return nil, err
	}
	s = whnf.Eval(s)
	if !term.IsType(s) && !term.IsKind(s) {
		return nil, errors.Errorf("typing: declared type %s is neither Type nor Kind", term.String(typ))
	}
	return s, nil
}

// assignMeta forces an unassigned metavariable to a concrete product
// shape, following the arity of its environment.
func assignMeta(m *term.Meta, prod *term.Product) error {
	binder := term.NewBinder(len(m.Env), func(args []term.Term) term.Term { return prod })
	return m.Assign(binder)
}

