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

import "fmt"

// String renders t for debugging: full symbol names, no shortening.
// sig.Printer offers module-relative shortening on top of this.
func String(t Term) string {
	switch n := Unfold(t).(type) {
	case *Var:
		return n.Hint
	case *sort:
		return n.name
	case *Symbol:
		return n.QualifiedName()
	case *Product:
		x, body := OpenOne(n.Codomain)
		return fmt.Sprintf("Π(%s:%s). %s", x.Hint, String(n.Domain), String(body))
	case *Abs:
		x, body := OpenOne(n.Body)
		return fmt.Sprintf("λ(%s:%s). %s", x.Hint, String(n.Domain), String(body))
	case *App:
		return fmt.Sprintf("(%s %s)", String(n.Fun), String(n.Arg))
	case *Meta:
		if n.Assigned() {
			return String(Unfold(n))
		}
		return fmt.Sprintf("?%s", n.Hint)
	case *PatVar:
		if n.Resolved() {
			return String(Unfold(n))
		}
		return fmt.Sprintf("$%s", n.Hint)
	default:
		return fmt.Sprintf("<unknown term %T>", n)
	}
}
