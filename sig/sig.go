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

// Package sig implements the per-module signature: an ordered table of
// static and definable symbols, with rewrite rules attached to
// definable symbols (spec.md §4.2).
package sig

import (
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"

	"github.com/lambpi/lambpi/base/ordered"
	"github.com/lambpi/lambpi/diag"
	"github.com/lambpi/lambpi/term"
)

// Signature owns a module path and an ordered map from name to entry.
// A signature entry's name is unique within its module; redeclaring a
// name is a warning, not an error, and the new entry replaces the old
// (spec.md §3 Invariants).
type Signature struct {
	diag.Sink

	Path    string
	entries *ordered.Map[string, *term.Symbol]
}

// New creates an empty signature for the given module path.
func New(path string) *Signature {
	return &Signature{Path: path, entries: ordered.NewMap[string, *term.Symbol]()}
}

func (s *Signature) declare(kind term.SymbolKind, name string, typ term.Term) *term.Symbol {
	sym := &term.Symbol{Kind: kind, Module: s.Path, Name: name, Type: typ}
	if s.entries.Has(name) {
		s.Warn(diag.Warning{
			Kind:    diag.Redeclaration,
			Message: "symbol " + name + " redeclared in module " + s.Path,
		})
	}
	s.entries.Store(name, sym)
	return sym
}

// AddStatic declares a new static symbol, replacing any existing entry
// of the same name.
func (s *Signature) AddStatic(name string, typ term.Term) *term.Symbol {
	return s.declare(term.Static, name, typ)
}

// AddDefinable declares a new definable symbol (with no rules yet),
// replacing any existing entry of the same name.
func (s *Signature) AddDefinable(name string, typ term.Term) *term.Symbol {
	return s.declare(term.Definable, name, typ)
}

// Find looks a name up in the signature.
func (s *Signature) Find(name string) (*term.Symbol, bool) {
	return s.entries.Load(name)
}

// AttachRule attaches an already rule-checked rule to a definable
// symbol declared in this signature. It is the caller's responsibility
// (rule.Check) to have validated the rule first: spec.md §3 forbids
// attaching a rule that has not passed the checker.
func (s *Signature) AttachRule(name string, r *term.Rule) error {
	sym, ok := s.Find(name)
	if !ok {
		return errors.Errorf("sig: cannot attach rule: no symbol %q in module %s", name, s.Path)
	}
	if sym.Kind != term.Definable {
		return errors.Errorf("sig: cannot attach a rewrite rule to static symbol %q", name)
	}
	if r.Owner != sym {
		return errors.Errorf("sig: rule owner does not match symbol %q", name)
	}
	sym.AttachRule(r)
	return nil
}

// Names returns the declared names, in insertion order.
func (s *Signature) Names() []string {
	names := make([]string, 0, s.entries.Size())
	for name := range s.entries.Keys() {
		names = append(names, name)
	}
	return names
}

// Size returns the number of declared symbols.
func (s *Signature) Size() int { return s.entries.Size() }

// SortedNames returns the declared names in lexicographic order, for
// diagnostics and pretty-printer listings where a stable, name-based
// ordering reads better than declaration order (spec.md §4.2's
// signature-relative printing wants declaration order; error messages
// like "no such symbol, did you mean one of: ..." want this instead).
func (s *Signature) SortedNames() []string {
	set := make(map[string]struct{}, s.entries.Size())
	for name := range s.entries.Keys() {
		set[name] = struct{}{}
	}
	names := maps.Keys(set)
	sort.Strings(names)
	return names
}
