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

package sig

import (
	"github.com/pkg/errors"

	"github.com/lambpi/lambpi/diag"
	"github.com/lambpi/lambpi/term"
)

// wireTerm is the gob-friendly shape of a closed term: bound variables
// become de Bruijn indices (distance from the innermost enclosing
// binder) since term.Binder is a Go closure and closures cannot be
// serialized. Only the shapes that can occur in a declared symbol type
// or a rewrite rule are representable: sorts, symbol references,
// products, abstractions and applications. Meta and PatVar never
// escape into a signature (spec.md §3), so encoding one is a bug.
type wireKind uint8

const (
	wireVar wireKind = iota
	wireType
	wireKindSort
	wireSymbol
	wireProduct
	wireAbs
	wireApp
)

type wireTerm struct {
	Kind wireKind

	VarIdx int // wireVar: de Bruijn distance from the innermost binder.

	SymModule string // wireSymbol
	SymName   string

	Domain   *wireTerm // wireProduct, wireAbs
	Codomain *wireTerm // wireProduct, wireAbs: body, with one extra bound variable

	Fun *wireTerm // wireApp
	Arg *wireTerm // wireApp

	resolved *term.Symbol // wireSymbol: filled in by a pre-pass before decoding, never encoded.
}

// wireRule is the gob-friendly shape of a rewrite rule.
type wireRule struct {
	Arity   int
	NumVars int // k: number of pattern variables the rule scopes.
	LHS     []*wireTerm
	RHS     *wireTerm
}

func encodeTerm(t term.Term, scope []*term.Var) (*wireTerm, error) {
	switch n := term.Unfold(t).(type) {
	case *term.Var:
		for i := len(scope) - 1; i >= 0; i-- {
			if scope[i] == n {
				return &wireTerm{Kind: wireVar, VarIdx: len(scope) - 1 - i}, nil
			}
		}
		return nil, errors.Errorf("sig: cannot serialize a term with a free variable %q", n.Hint)
	case *term.Symbol:
		return &wireTerm{Kind: wireSymbol, SymModule: n.Module, SymName: n.Name}, nil
	case *term.Product:
		domain, err := encodeTerm(n.Domain, scope)
		if err != nil {
			return nil, err
		}
		v, body := term.OpenOne(n.Codomain)
		codomain, err := encodeTerm(body, append(scope, v))
		if err != nil {
			return nil, err
		}
		return &wireTerm{Kind: wireProduct, Domain: domain, Codomain: codomain}, nil
	case *term.Abs:
		domain, err := encodeTerm(n.Domain, scope)
		if err != nil {
			return nil, err
		}
		v, body := term.OpenOne(n.Body)
		codomain, err := encodeTerm(body, append(scope, v))
		if err != nil {
			return nil, err
		}
		return &wireTerm{Kind: wireAbs, Domain: domain, Codomain: codomain}, nil
	case *term.App:
		fun, err := encodeTerm(n.Fun, scope)
		if err != nil {
			return nil, err
		}
		arg, err := encodeTerm(n.Arg, scope)
		if err != nil {
			return nil, err
		}
		return &wireTerm{Kind: wireApp, Fun: fun, Arg: arg}, nil
	default:
		if term.IsType(n) {
			return &wireTerm{Kind: wireType}, nil
		}
		if term.IsKind(n) {
			return &wireTerm{Kind: wireKindSort}, nil
		}
		return nil, errors.Errorf("sig: cannot serialize term of shape %T", n)
	}
}

// resolveSymbols walks w resolving every symbol reference through
// resolve and caching the result, so that decodeTerm's HOAS closures
// never need to fail: any resolution error surfaces here, once, before
// any binder is opened.
func resolveSymbols(w *wireTerm, resolve func(module, name string) (*term.Symbol, error)) error {
	if w == nil {
		return nil
	}
	switch w.Kind {
	case wireSymbol:
		sym, err := resolve(w.SymModule, w.SymName)
		if err != nil {
			return err
		}
		w.resolved = sym
	case wireProduct, wireAbs:
		if err := resolveSymbols(w.Domain, resolve); err != nil {
			return err
		}
		if err := resolveSymbols(w.Codomain, resolve); err != nil {
			return err
		}
	case wireApp:
		if err := resolveSymbols(w.Fun, resolve); err != nil {
			return err
		}
		if err := resolveSymbols(w.Arg, resolve); err != nil {
			return err
		}
	}
	return nil
}

func decodeTerm(w *wireTerm, scope []term.Term) term.Term {
	switch w.Kind {
	case wireVar:
		return scope[len(scope)-1-w.VarIdx]
	case wireType:
		return term.TypeSort
	case wireKindSort:
		return term.KindSort
	case wireSymbol:
		return w.resolved
	case wireProduct:
		domain := decodeTerm(w.Domain, scope)
		codomain := term.NewBinder1("x", func(x term.Term) term.Term {
			return decodeTerm(w.Codomain, append(append([]term.Term(nil), scope...), x))
		})
		return &term.Product{Domain: domain, Codomain: codomain}
	case wireAbs:
		domain := decodeTerm(w.Domain, scope)
		body := term.NewBinder1("x", func(x term.Term) term.Term {
			return decodeTerm(w.Codomain, append(append([]term.Term(nil), scope...), x))
		})
		return &term.Abs{Domain: domain, Body: body}
	case wireApp:
		fun := decodeTerm(w.Fun, scope)
		arg := decodeTerm(w.Arg, scope)
		return term.NewApp(fun, arg)
	default:
		panic("sig: malformed wire term")
	}
}

// safeDecodeTerm runs decodeTerm and converts a malformed-wire-term
// panic into a diag.Internal error: a bad Kind byte means the bytes
// Decode read are not one this package ever wrote, not a problem with
// the module being loaded, so it is reported as a kernel-side bug
// rather than a plain decode failure. Kinds nested under a lazily
// evaluated Product or Abs codomain are still decoded on demand by
// term.OpenOne, outside of any safeDecodeTerm call; a corrupt kind
// there panics at whatever later call site forces that binder open.
func safeDecodeTerm(w *wireTerm, scope []term.Term) (t term.Term, err error) {
	defer func() {
		if r := recover(); r != nil {
			msg, ok := r.(string)
			if !ok {
				panic(r)
			}
			err = diag.Internal(errors.New(msg))
		}
	}()
	return decodeTerm(w, scope), nil
}

func encodeRule(r *term.Rule) (*wireRule, error) {
	vars, patterns := r.LHS.Open()
	lhs := make([]*wireTerm, len(patterns))
	for i, p := range patterns {
		w, err := encodeTerm(p, vars)
		if err != nil {
			return nil, err
		}
		lhs[i] = w
	}
	rhsVars, rhsBody := r.RHS.Open()
	rhs, err := encodeTerm(rhsBody, rhsVars)
	if err != nil {
		return nil, err
	}
	return &wireRule{Arity: r.Arity, NumVars: r.LHS.Arity(), LHS: lhs, RHS: rhs}, nil
}

func decodeRule(owner *term.Symbol, w *wireRule, resolve func(module, name string) (*term.Symbol, error)) (*term.Rule, error) {
	for _, p := range w.LHS {
		if err := resolveSymbols(p, resolve); err != nil {
			return nil, err
		}
	}
	if err := resolveSymbols(w.RHS, resolve); err != nil {
		return nil, err
	}
	lhs := term.NewBinder(w.NumVars, func(args []term.Term) []term.Term {
		out := make([]term.Term, len(w.LHS))
		for i, p := range w.LHS {
			out[i] = decodeTerm(p, args)
		}
		return out
	})
	rhs := term.NewBinder(w.NumVars, func(args []term.Term) term.Term {
		return decodeTerm(w.RHS, args)
	})
	return &term.Rule{Owner: owner, Arity: w.Arity, LHS: lhs, RHS: rhs}, nil
}
