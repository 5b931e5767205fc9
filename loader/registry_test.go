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

package loader_test

import (
	"testing"

	"github.com/lambpi/lambpi/loader"
	"github.com/lambpi/lambpi/sig"
)

func TestRegistryMemoizesLoads(t *testing.T) {
	calls := 0
	r := loader.NewRegistry(func(path string) (*sig.Signature, error) {
		calls++
		return sig.New(path), nil
	})
	a, err := r.Load("m/a")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := r.Load("m/a")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a != b {
		t.Fatalf("Load returned distinct signature objects for the same path")
	}
	if calls != 1 {
		t.Fatalf("compiler called %d times, want 1", calls)
	}
}

func TestRegistryDetectsImportCycles(t *testing.T) {
	var r *loader.Registry
	r = loader.NewRegistry(func(path string) (*sig.Signature, error) {
		if path == "m/a" {
			return r.Load("m/b")
		}
		return r.Load("m/a")
	})
	if _, err := r.Load("m/a"); err == nil {
		t.Fatalf("expected an import-cycle error")
	}
}

func TestLoadAllCollectsEveryFailure(t *testing.T) {
	r := loader.NewRegistry(func(path string) (*sig.Signature, error) {
		if path == "bad" {
			return nil, errFail
		}
		return sig.New(path), nil
	})
	_, err := r.LoadAll([]string{"good", "bad"})
	if err == nil {
		t.Fatalf("expected LoadAll to report the failing module")
	}
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

var errFail = simpleErr("boom")
