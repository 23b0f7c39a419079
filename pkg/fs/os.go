// Copyright 2025 Chainguard, Inc.
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

package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"chainguard.dev/pathkit/pkg/paths"
)

type osProvider struct {
	flavor paths.Flavor
}

// OS returns the provider for the host filesystem, using host paths.
func OS() Provider {
	return osProvider{flavor: paths.Host}
}

var _ WorkingDirer = osProvider{}

func (o osProvider) Flavor() paths.Flavor { return o.flavor }

func (o osProvider) ListChildren(dir paths.Path) ([]string, error) {
	if err := checkFamily(o.flavor, dir); err != nil {
		return nil, err
	}
	fi, err := os.Stat(dir.Raw())
	if err != nil {
		return nil, classify("stat", dir, err)
	}
	if !fi.IsDir() {
		return nil, classify("readdir", dir, ErrNotADirectory)
	}
	f, err := os.Open(dir.Raw())
	if err != nil {
		return nil, classify("open", dir, err)
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, classify("readdir", dir, err)
	}
	// os.ReadDir sorts too.
	slices.Sort(names)
	return names, nil
}

func (o osProvider) stat(p paths.Path, follow bool) (fs.FileInfo, error) {
	if err := checkFamily(o.flavor, p); err != nil {
		return nil, err
	}
	if follow {
		return os.Stat(p.Raw())
	}
	return os.Lstat(p.Raw())
}

func (o osProvider) IsDir(p paths.Path) bool {
	fi, err := o.stat(p, true)
	return err == nil && fi.IsDir()
}

func (o osProvider) IsSymlink(p paths.Path) bool {
	fi, err := o.stat(p, false)
	return err == nil && fi.Mode()&fs.ModeSymlink != 0
}

func (o osProvider) Exists(p paths.Path) bool {
	_, err := o.stat(p, true)
	return err == nil
}

func (o osProvider) ResolveCanonical(p paths.Path) (paths.Path, error) {
	if err := checkFamily(o.flavor, p); err != nil {
		return paths.Path{}, err
	}
	abs, err := filepath.Abs(p.Raw())
	if err != nil {
		return paths.Path{}, classify("abs", p, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return paths.Path{}, classify("resolve", p, err)
	}
	return paths.New(o.flavor, paths.Native(resolved))
}

func (o osProvider) Getwd() (paths.Path, error) {
	wd, err := os.Getwd()
	if err != nil {
		return paths.Path{}, err
	}
	return paths.New(o.flavor, paths.Native(wd))
}
