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

// Unfold collapses any top-level assigned metavariable or resolved
// pattern variable, repeatedly, until the head is either an unfolded
// shape or an unassigned Meta/PatVar. This is the only sanctioned way
// to inspect a term's head: every structural match elsewhere in this
// module and its sibling packages starts with Unfold.
func Unfold(t Term) Term {
	for {
		switch n := t.(type) {
		case *Meta:
			if !n.Assigned() {
				return n
			}
			t = n.Cell().Instantiate(n.Env...)
		case *PatVar:
			if !n.Resolved() {
				return n
			}
			t = n.resolved
		default:
			return n
		}
	}
}
