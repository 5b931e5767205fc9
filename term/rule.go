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

// Rule is a rewrite rule attached to a definable symbol.
//
// Arity is the number of explicit arguments the left-hand side
// matches (n in spec terms). LHS.Arity() is the number of pattern
// variables the rule scopes (k in spec terms); it is generally
// different from Arity, since a pattern such as "s x" nests a pattern
// variable one level below the argument list.
type Rule struct {
	Owner *Symbol
	Arity int
	LHS   *Binder[[]Term] // k pattern variables -> n argument patterns.
	RHS   *Binder[Term]   // the same k pattern variables -> replacement.
}
