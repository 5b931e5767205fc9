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
	"encoding/gob"
	"io"

	"github.com/pkg/errors"

	"github.com/lambpi/lambpi/term"
)

// wireEntry and wireSignature are the on-disk shape written next to
// each source file (spec.md §6), which leaves the exact byte layout
// open; this kernel uses encoding/gob, a plain standard encoding
// rather than a bespoke binary format.
type wireEntry struct {
	Kind  term.SymbolKind
	Name  string
	Type  *wireTerm
	Rules []*wireRule
}

type wireSignature struct {
	Path    string
	Entries []wireEntry
}

// Resolver resolves a foreign symbol reference (module path, name)
// encountered while decoding a signature. It is supplied by the
// caller (normally loader.Registry) so that cross-module references
// come back pointing at the very same *term.Symbol the foreign
// module's own signature already produced.
type Resolver func(module, name string) (*term.Symbol, error)

// Encode writes the signature to w. Round-tripping through Encode and
// Decode preserves semantic identity: decoding the result and looking
// up a name yields a symbol with the same module path, name and type
// shape as the one that was encoded (spec.md §6).
func (s *Signature) Encode(w io.Writer) error {
	var out wireSignature
	out.Path = s.Path
	for name, sym := range s.entries.Iter() {
		wt, err := encodeTerm(sym.Type, nil)
		if err != nil {
			return errors.Wrapf(err, "sig: cannot serialize type of %q", name)
		}
		entry := wireEntry{Kind: sym.Kind, Name: name, Type: wt}
		for _, r := range sym.Rules() {
			wr, err := encodeRule(r)
			if err != nil {
				return errors.Wrapf(err, "sig: cannot serialize a rule of %q", name)
			}
			entry.Rules = append(entry.Rules, wr)
		}
		out.Entries = append(out.Entries, entry)
	}
	return gob.NewEncoder(w).Encode(&out)
}

// Decode reads a signature previously written by Encode. resolve is
// used to turn any cross-module symbol reference occurring in a type
// or a rule into the resolver's own *term.Symbol.
func Decode(r io.Reader, resolve Resolver) (*Signature, error) {
	var in wireSignature
	if err := gob.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(err, "sig: cannot decode signature")
	}
	s := New(in.Path)
	// Self-references (a symbol's type or rules mentioning a sibling
	// symbol in the very same signature) must resolve against s, not
	// against the caller's resolver, so declare all symbols with a
	// placeholder type first and fill types in on a second pass.
	selfResolve := func(module, name string) (*term.Symbol, error) {
		if module == in.Path {
			if sym, ok := s.Find(name); ok {
				return sym, nil
			}
			return nil, errors.Errorf("sig: %q not (yet) declared in module %s", name, module)
		}
		return resolve(module, name)
	}
	placeholders := make(map[string]*term.Symbol, len(in.Entries))
	for _, e := range in.Entries {
		sym := &term.Symbol{Kind: e.Kind, Module: in.Path, Name: e.Name}
		s.entries.Store(e.Name, sym)
		placeholders[e.Name] = sym
	}
	for _, e := range in.Entries {
		if err := resolveSymbols(e.Type, selfResolve); err != nil {
			return nil, errors.Wrapf(err, "sig: cannot resolve type of %q", e.Name)
		}
		typ, err := safeDecodeTerm(e.Type, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "sig: cannot decode type of %q", e.Name)
		}
		placeholders[e.Name].Type = typ
		for _, wr := range e.Rules {
			r, err := decodeRule(placeholders[e.Name], wr, selfResolve)
			if err != nil {
				return nil, errors.Wrapf(err, "sig: cannot resolve a rule of %q", e.Name)
			}
			placeholders[e.Name].AttachRule(r)
		}
	}
	return s, nil
}
