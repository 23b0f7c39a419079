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
	"fmt"
	"io/fs"
	"path"
	"strings"

	"chainguard.dev/pathkit/pkg/paths"
)

type ioProvider struct {
	fsys fs.FS
}

// FromFS adapts fsys to a Provider of POSIX paths. Absolute and relative
// paths both name files from the root of fsys. Symlinks are seen only if
// fsys implements both LstatFS and ReadLinkFS.
func FromFS(fsys fs.FS) Provider {
	return ioProvider{fsys: fsys}
}

func (ioProvider) Flavor() paths.Flavor { return paths.Posix }

// Getwd always reports the root of fsys.
func (ioProvider) Getwd() (paths.Path, error) {
	return paths.New(paths.Posix, paths.Native("/"))
}

// name turns p into a name fs.FS accepts.
func (i ioProvider) name(p paths.Path) (string, error) {
	if err := checkFamily(paths.Posix, p); err != nil {
		return "", err
	}
	name := strings.TrimLeft(p.Raw(), "/")
	if name == "" {
		name = "."
	}
	return name, nil
}

func (i ioProvider) ListChildren(dir paths.Path) ([]string, error) {
	name, err := i.name(dir)
	if err != nil {
		return nil, err
	}
	fi, err := fs.Stat(i.fsys, name)
	if err != nil {
		return nil, classify("stat", dir, err)
	}
	if !fi.IsDir() {
		return nil, classify("readdir", dir, ErrNotADirectory)
	}
	entries, err := fs.ReadDir(i.fsys, name)
	if err != nil {
		return nil, classify("readdir", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (i ioProvider) IsDir(p paths.Path) bool {
	name, err := i.name(p)
	if err != nil {
		return false
	}
	fi, err := fs.Stat(i.fsys, name)
	return err == nil && fi.IsDir()
}

func (i ioProvider) IsSymlink(p paths.Path) bool {
	lfs, ok := i.fsys.(LstatFS)
	if !ok {
		return false
	}
	name, err := i.name(p)
	if err != nil {
		return false
	}
	fi, err := lfs.Lstat(name)
	return err == nil && fi.Mode()&fs.ModeSymlink != 0
}

func (i ioProvider) Exists(p paths.Path) bool {
	name, err := i.name(p)
	if err != nil {
		return false
	}
	_, err = fs.Stat(i.fsys, name)
	return err == nil
}

// ResolveCanonical returns the resolved name relative to the root of fsys.
func (i ioProvider) ResolveCanonical(p paths.Path) (paths.Path, error) {
	name, err := i.name(p)
	if err != nil {
		return paths.Path{}, err
	}
	resolved, err := i.resolve(name)
	if err != nil {
		return paths.Path{}, classify("resolve", p, err)
	}
	return paths.New(paths.Posix, paths.Native(resolved))
}

func (i ioProvider) resolve(name string) (string, error) {
	lfs, okl := i.fsys.(LstatFS)
	rfs, okr := i.fsys.(ReadLinkFS)
	if !okl || !okr {
		if _, err := fs.Stat(i.fsys, name); err != nil {
			return "", err
		}
		return path.Clean(name), nil
	}

	var resolved []string
	pending := strings.Split(name, "/")
	links := 0
	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]
		switch c {
		case "", ".":
			continue
		case "..":
			if len(resolved) > 0 {
				resolved = resolved[:len(resolved)-1]
			}
			continue
		}

		cur := path.Join(strings.Join(resolved, "/"), c)
		fi, err := lfs.Lstat(cur)
		if err != nil {
			return "", err
		}
		if fi.Mode()&fs.ModeSymlink == 0 {
			resolved = append(resolved, c)
			continue
		}

		links++
		if links > maxLinks {
			return "", fmt.Errorf("%s: %w", name, errTooManyLinks)
		}
		target, err := rfs.Readlink(cur)
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(target, "/") {
			resolved = resolved[:0]
		}
		pending = append(strings.Split(target, "/"), pending...)
	}
	if len(resolved) == 0 {
		return ".", nil
	}
	return strings.Join(resolved, "/"), nil
}
