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

package diag

// WarningKind classifies a non-fatal condition raised by the kernel.
// None of these abort the current top-level item (spec.md §7).
type WarningKind int

const (
	// Redeclaration: a signature entry's name collided with an
	// existing one; the new entry replaces the old.
	Redeclaration WarningKind = iota
	// RuleOverlap: a newly attached rule's left-hand side could match
	// the same redex as a rule already attached to the same symbol;
	// the earlier rule, in insertion order, is tried first.
	RuleOverlap
	// NonInjectiveHead: the rule checker dropped a constraint pair
	// because both sides had the same definable-symbol head.
	NonInjectiveHead
)

func (k WarningKind) String() string {
	switch k {
	case Redeclaration:
		return "redeclaration"
	case RuleOverlap:
		return "rule overlap"
	case NonInjectiveHead:
		return "non-injective head"
	default:
		return "warning"
	}
}

// Warning is a structured, non-fatal diagnostic. Callers (a frontend,
// a test, a future CLI) collect these from api.Session.Warnings and
// decide how to present them, rather than the kernel writing to a log.
type Warning struct {
	Kind    WarningKind
	Pos     Pos
	Message string
}

func (w Warning) String() string {
	pos := w.Pos.String()
	if pos != "" {
		pos += " "
	}
	return pos + w.Kind.String() + ": " + w.Message
}

// Sink collects warnings. It is embedded by anything that can raise
// them (sig.Signature, the rule checker) instead of writing to a
// process-wide log.
type Sink struct {
	warnings []Warning
}

// Warn records a warning.
func (s *Sink) Warn(w Warning) { s.warnings = append(s.warnings, w) }

// Warnings returns all recorded warnings, in emission order.
func (s *Sink) Warnings() []Warning { return append([]Warning(nil), s.warnings...) }
