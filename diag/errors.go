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

import (
	"fmt"
	"strings"
)

// Errors is a set of errors accumulated while processing a batch of
// top-level commands (api.Session.RunAll appends one per failing
// command). It implements error, so a caller who does not care about
// individual errors can just check err != nil.
type Errors struct {
	errs []error
}

// Append adds an error to the set.
func (e *Errors) Append(err error) {
	if err == nil {
		return
	}
	e.errs = append(e.errs, err)
}

// Empty reports whether no error has been appended.
func (e *Errors) Empty() bool { return e == nil || len(e.errs) == 0 }

// Errors returns the accumulated errors, in append order.
func (e *Errors) Errors() []error {
	if e == nil {
		return nil
	}
	return append([]error(nil), e.errs...)
}

// ToError returns nil if e is empty, else e itself as an error.
func (e *Errors) ToError() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	ss := make([]string, len(e.errs))
	for i, err := range e.errs {
		ss[i] = err.Error()
	}
	return strings.Join(ss, "\n")
}

// Format implements fmt.Formatter the same way a single error does,
// applying the verb to each accumulated error in turn.
func (e *Errors) Format(s fmt.State, verb rune) {
	flag := ""
	if s.Flag('+') {
		flag = "+"
	}
	format := fmt.Sprintf("%%%s%s\n", flag, string(verb))
	for _, err := range e.errs {
		fmt.Fprintf(s, format, err)
	}
}
