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

// Package diag provides helpers to attach a source position to an
// error, accumulate several errors while processing a batch of
// top-level items, and collect non-fatal warnings (rule overlap, redeclaration)
// alongside them.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Pos is a position in the surface text. The zero Pos means
// "no position available" (a kernel-internal term with no surface
// origin) and is rendered as an empty prefix.
type Pos struct {
	File string
	Line int
	Col  int
}

// IsZero reports whether p carries no position information.
func (p Pos) IsZero() bool { return p == Pos{} }

// String renders "file:line:col:", or "" for the zero position.
func (p Pos) String() string {
	if p.IsZero() {
		return ""
	}
	if p.File == "" {
		return fmt.Sprintf("%d:%d:", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d:", p.File, p.Line, p.Col)
}

// WithPos is an error carrying a source position.
type WithPos interface {
	error
	Pos() Pos
	Unwrap() error
}

type errorWithPos struct {
	pos Pos
	err error
}

// Position attaches pos to err. Attaching the zero Pos is allowed and
// simply means "no position known"; the resulting error still prints
// err's own message.
func Position(pos Pos, err error) WithPos {
	return errorWithPos{pos: pos, err: err}
}

// Errorf returns a formatted, position-tagged error.
func Errorf(pos Pos, format string, a ...any) error {
	return Position(pos, errors.Errorf(format, a...))
}

// Internal marks err as a kernel bug rather than a user-facing
// diagnostic. It should never surface from a correct kernel.
func Internal(err error) error {
	return fmt.Errorf("internal error (this is a bug in the kernel, not in the input): %+v", err)
}

// Internalf formats and marks an error as internal.
func Internalf(pos Pos, format string, a ...any) error {
	return Internal(Errorf(pos, format, a...))
}

func (e errorWithPos) Error() string {
	if e.pos.IsZero() {
		return e.err.Error()
	}
	return e.pos.String() + " " + e.err.Error()
}

func (e errorWithPos) Unwrap() error { return e.err }
func (e errorWithPos) Pos() Pos      { return e.pos }

func (e errorWithPos) Format(s fmt.State, verb rune) {
	format(e, s, verb)
}
