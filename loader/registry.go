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

package loader

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/lambpi/lambpi/sig"
	"github.com/lambpi/lambpi/term"
)

// Compiler compiles a module from source into a checked signature. It
// is invoked by Registry only on a cache miss, and may itself call
// back into the registry (through the current compilation) to resolve
// the module's own imports.
type Compiler func(path string) (*sig.Signature, error)

// Registry maps module paths to already-loaded signatures, memoizing
// across repeated requests for the same path (spec.md §6) and
// tracking the compilation stack (spec.md §5) to reject import
// cycles.
type Registry struct {
	compile  Compiler
	entries  map[string]*sig.Signature
	stack    []string
	stackSet map[string]bool
}

// NewRegistry returns an empty registry backed by compile.
func NewRegistry(compile Compiler) *Registry {
	return &Registry{
		compile:  compile,
		entries:  make(map[string]*sig.Signature),
		stackSet: make(map[string]bool),
	}
}

// Load resolves path, compiling it if this is the first request for
// it. Repeated calls for the same path return the identical signature
// object.
func (r *Registry) Load(path string) (*sig.Signature, error) {
	if s, ok := r.entries[path]; ok {
		return s, nil
	}
	if r.stackSet[path] {
		return nil, errors.Errorf("loader: import cycle detected: %s -> %s", joinStack(r.stack), path)
	}
	r.stack = append(r.stack, path)
	r.stackSet[path] = true
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
		delete(r.stackSet, path)
	}()

	s, err := r.compile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loader: compiling %s", path)
	}
	r.entries[path] = s
	return s, nil
}

// Resolver adapts the registry to sig.Resolver, for decoding a
// persisted signature's cross-module symbol references.
func (r *Registry) Resolver(current string) sig.Resolver {
	return func(module, name string) (*term.Symbol, error) {
		s, err := r.Load(module)
		if err != nil {
			return nil, err
		}
		sym, ok := s.Find(name)
		if !ok {
			return nil, errors.Errorf("loader: %s: symbol %q not found (imported from %s)", module, name, current)
		}
		return sym, nil
	}
}

// LoadAll resolves every path in paths, collecting every failure
// instead of stopping at the first (compiling independent modules
// should surface all of their errors in one pass).
func (r *Registry) LoadAll(paths []string) (map[string]*sig.Signature, error) {
	out := make(map[string]*sig.Signature, len(paths))
	var errs error
	for _, p := range paths {
		s, err := r.Load(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out[p] = s
	}
	return out, errs
}

func joinStack(stack []string) string {
	out := ""
	for i, s := range stack {
		if i > 0 {
			out += " -> "
		}
		out += s
	}
	return out
}
