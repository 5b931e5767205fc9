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
	"fmt"

	"github.com/lambpi/lambpi/term"
)

// Printer renders terms the way a signature-aware pretty-printer
// should (spec.md §4.2): symbols declared in the printer's own module
// print as their bare name, symbols from other modules print
// module-qualified.
type Printer struct {
	Path string
}

// NewPrinter returns a printer that shortens names relative to path.
func NewPrinter(path string) Printer { return Printer{Path: path} }

// String renders t, shortening same-module symbol names.
func (p Printer) String(t term.Term) string {
	switch n := term.Unfold(t).(type) {
	case *term.Var:
		return n.Hint
	case *term.Symbol:
		if n.Module == p.Path {
			return n.Name
		}
		return n.QualifiedName()
	case *term.Product:
		x, body := term.OpenOne(n.Codomain)
		return fmt.Sprintf("Π(%s:%s). %s", x.Hint, p.String(n.Domain), p.String(body))
	case *term.Abs:
		x, body := term.OpenOne(n.Body)
		return fmt.Sprintf("λ(%s:%s). %s", x.Hint, p.String(n.Domain), p.String(body))
	case *term.App:
		return fmt.Sprintf("(%s %s)", p.String(n.Fun), p.String(n.Arg))
	case *term.Meta:
		return "?" + n.Hint
	case *term.PatVar:
		return "$" + n.Hint
	default:
		return term.String(t)
	}
}
