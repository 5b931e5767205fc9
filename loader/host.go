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

// Package loader resolves module paths to signatures: HostModule maps
// the kernel's module-path namespace onto a Go module on disk, and
// Registry is the load_signature(current, path) collaborator of
// spec.md §6, memoizing compiled signatures and detecting import
// cycles through the compilation stack of spec.md §5.
package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/mod/modfile"
)

func findModuleRoot(dir string) string {
	dir = filepath.Clean(dir)
	if dir == "" {
		return ""
	}
	for {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}
		d := filepath.Dir(dir)
		if d == dir {
			return ""
		}
		dir = d
	}
}

// HostModule maps kernel module paths onto files under a single Go
// module root, the way the kernel's original host toolchain lays out
// one source (and one compiled signature) file per module path.
type HostModule struct {
	root string
	name string
	fs   fs.ReadDirFS
}

// NewHostModule locates the go.mod above osPath and parses its module
// path.
func NewHostModule(osPath string) (*HostModule, error) {
	root := findModuleRoot(osPath)
	if root == "" {
		return nil, errors.Errorf("loader: %q is not inside a Go module: no go.mod found", osPath)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "loader: invalid module root %q", root)
	}
	modPath := filepath.Join(absRoot, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		return nil, errors.Wrapf(err, "loader: cannot read %s", modPath)
	}
	mf, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "loader: cannot parse %s", modPath)
	}
	if mf.Module == nil {
		return nil, errors.Errorf("loader: %s has no module directive", modPath)
	}
	return &HostModule{
		root: absRoot,
		name: mf.Module.Mod.Path,
		fs:   os.DirFS(absRoot).(fs.ReadDirFS),
	}, nil
}

// Name is the module path declared in go.mod.
func (m *HostModule) Name() string { return m.name }

// FS is the module root's filesystem.
func (m *HostModule) FS() fs.ReadDirFS { return m.fs }

// Belongs reports whether a kernel module path is hosted under this
// Go module.
func (m *HostModule) Belongs(path string) bool {
	return strings.HasPrefix(path, m.name)
}

// SourcePath returns the on-disk source file for a kernel module path,
// by convention "<path-relative-to-the-module-name>.lpi" under the
// module root.
func (m *HostModule) SourcePath(path string) (string, error) {
	if !m.Belongs(path) {
		return "", errors.Errorf("loader: module %q does not belong to %s", path, m.name)
	}
	rel := strings.TrimPrefix(strings.TrimPrefix(path, m.name), "/")
	return filepath.Join(m.root, filepath.FromSlash(rel)+".lpi"), nil
}

// SignaturePath returns the on-disk compiled-signature file for a
// kernel module path, next to its source (spec.md §6).
func (m *HostModule) SignaturePath(path string) (string, error) {
	src, err := m.SourcePath(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(src, ".lpi") + ".lpio", nil
}
