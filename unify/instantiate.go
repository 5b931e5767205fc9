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

package unify

import (
	"github.com/pkg/errors"

	"github.com/lambpi/lambpi/term"
)

// instantiate assigns m to t: it fails the occurs-check if m occurs in
// t, and fails the Miller-pattern restriction if m's environment is
// not made only of variables. There is no backtracking: once assigned,
// a metavariable is always assigned (spec.md §4.5.1).
func instantiate(m *term.Meta, t term.Term) (bool, error) {
	if occurs(m, t) {
		return false, errors.Errorf("unify: occurs check failed: ?%s occurs in %s", m.Hint, term.String(t))
	}
	vars := make([]*term.Var, len(m.Env))
	for i, e := range m.Env {
		v, ok := term.Unfold(e).(*term.Var)
		if !ok {
			return false, errors.Errorf("unify: cannot instantiate ?%s: environment entry %d is not a variable", m.Hint, i)
		}
		vars[i] = v
	}
	binder := term.NewBinder(len(vars), func(args []term.Term) term.Term {
		return term.CloseVars(t, vars, args)
	})
	if err := m.Assign(binder); err != nil {
		return false, err
	}
	return true, nil
}

// occurs reports whether m appears anywhere inside t, following
// assigned metavariables and resolved pattern variables and also
// checking each entry of a different, unassigned metavariable's
// environment.
func occurs(m *term.Meta, t term.Term) bool {
	switch n := term.Unfold(t).(type) {
	case *term.Meta:
		if n == m {
			return true
		}
		for _, e := range n.Env {
			if occurs(m, e) {
				return true
			}
		}
		return false
	case *term.Product:
		if occurs(m, n.Domain) {
			return true
		}
		_, body := term.OpenOne(n.Codomain)
		return occurs(m, body)
	case *term.Abs:
		if occurs(m, n.Domain) {
			return true
		}
		_, body := term.OpenOne(n.Body)
		return occurs(m, body)
	case *term.App:
		return occurs(m, n.Fun) || occurs(m, n.Arg)
	default:
		return false
	}
}

