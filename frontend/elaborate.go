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

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/lambpi/lambpi/diag"
	"github.com/lambpi/lambpi/term"
)

// UnboundIdentifierError reports a surface identifier with no binding
// in the current scope. api.Session matches it with errors.As to
// attach a "did you mean" suggestion drawn from the signature.
type UnboundIdentifierError struct {
	Name string
}

func (e *UnboundIdentifierError) Error() string {
	return "frontend: unbound identifier " + strconv.Quote(e.Name)
}

// Scope resolves a surface identifier to a term, walking outward from
// the innermost lambda/pi binder to the enclosing rule or command
// context and finally to the signature. api.Session builds one scope
// per command from its signature and the command's own ctx list.
type Scope struct {
	names  map[string]term.Term
	parent *Scope
}

// NewScope wraps a name->term lookup, typically backed by a
// signature, as the root of a scope chain.
func NewScope(lookup map[string]term.Term) *Scope {
	return &Scope{names: lookup}
}

// Extend returns a child scope that additionally binds name to t,
// shadowing any outer binding of the same name.
func (s *Scope) Extend(name string, t term.Term) *Scope {
	return &Scope{names: map[string]term.Term{name: t}, parent: s}
}

// Lookup resolves name, searching innermost-first.
func (s *Scope) Lookup(name string) (term.Term, bool) {
	for n := s; n != nil; n = n.parent {
		if t, ok := n.names[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// wildcardHook is called once per Wildcard node encountered while
// elaborating a rule's left-hand side; it is nil everywhere else, and
// encountering a Wildcard with a nil hook is an error.
type wildcardHook func() term.Term

// Elaborate converts a surface expression into a term.Term under
// scope. wildcard is only non-nil while elaborating a rule's
// left-hand side (see rule.LHSBuilder).
func Elaborate(e Expr, scope *Scope, wildcard wildcardHook) (term.Term, error) {
	switch n := e.(type) {
	case Ident:
		t, ok := scope.Lookup(n.Name)
		if !ok {
			return nil, diag.Position(n.Pos, &UnboundIdentifierError{Name: n.Name})
		}
		return t, nil
	case Wildcard:
		if wildcard == nil {
			return nil, errors.New("frontend: \"_\" is only allowed on a rule's left-hand side")
		}
		return wildcard(), nil
	case TypeLit:
		return term.TypeSort, nil
	case KindLit:
		return term.KindSort, nil
	case Product:
		dom, err := Elaborate(n.Domain, scope, wildcard)
		if err != nil {
			return nil, err
		}
		if n.Var == "" {
			body, err := Elaborate(n.Body, scope, wildcard)
			if err != nil {
				return nil, err
			}
			return term.NewProductNonDep(dom, body), nil
		}
		v := term.Fresh(n.Var)
		body, err := Elaborate(n.Body, scope.Extend(n.Var, v), wildcard)
		if err != nil {
			return nil, err
		}
		codomain := term.NewBinder1(n.Var, func(x term.Term) term.Term {
			return term.CloseVars(body, []*term.Var{v}, []term.Term{x})
		})
		return &term.Product{Domain: dom, Codomain: codomain}, nil
	case Abs:
		var dom term.Term
		if n.Domain != nil {
			d, err := Elaborate(n.Domain, scope, wildcard)
			if err != nil {
				return nil, err
			}
			dom = d
		} else {
			dom = term.NewMeta(n.Var, nil)
		}
		v := term.Fresh(n.Var)
		b, err := Elaborate(n.Body, scope.Extend(n.Var, v), wildcard)
		if err != nil {
			return nil, err
		}
		body := term.NewBinder1(n.Var, func(x term.Term) term.Term {
			return term.CloseVars(b, []*term.Var{v}, []term.Term{x})
		})
		return &term.Abs{Domain: dom, Body: body}, nil
	case App:
		fun, err := Elaborate(n.Fun, scope, wildcard)
		if err != nil {
			return nil, err
		}
		arg, err := Elaborate(n.Arg, scope, wildcard)
		if err != nil {
			return nil, err
		}
		return term.NewApp(fun, arg), nil
	default:
		return nil, errors.Errorf("frontend: unhandled expression node %T", e)
	}
}
