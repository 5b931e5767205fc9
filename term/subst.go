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

// CloseVars rebuilds t, replacing each variable in vars by the
// corresponding term in args. It is the shared primitive behind two
// distinct operations elsewhere: metavariable instantiation abstracts
// a term over its environment before storing it in a cell, and rule
// elaboration abstracts a pattern built from concrete variables into a
// closed Binder. Both need exactly this structural rebuild.
func CloseVars(t Term, vars []*Var, args []Term) Term {
	switch n := Unfold(t).(type) {
	case *Var:
		for i, v := range vars {
			if v == n {
				return args[i]
			}
		}
		return n
	case *Product:
		domain := CloseVars(n.Domain, vars, args)
		codomain := NewBinder1("x", func(x Term) Term {
			return CloseVars(InstantiateOne(n.Codomain, x), vars, args)
		})
		return &Product{Domain: domain, Codomain: codomain}
	case *Abs:
		domain := CloseVars(n.Domain, vars, args)
		body := NewBinder1("x", func(x Term) Term {
			return CloseVars(InstantiateOne(n.Body, x), vars, args)
		})
		return &Abs{Domain: domain, Body: body}
	case *App:
		return NewApp(CloseVars(n.Fun, vars, args), CloseVars(n.Arg, vars, args))
	default:
		return n
	}
}
