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
	"path"
	"path/filepath"
)

// dirFS is a host directory seen as the root of a tree, like the root
// filesystem of a container image. Symlinks, absolute ones included, are
// resolved inside it.
type dirFS string

var (
	_ fs.ReadDirFS = dirFS("")
	_ fs.StatFS    = dirFS("")
	_ LstatFS      = dirFS("")
	_ ReadLinkFS   = dirFS("")
)

// Dir returns a Provider of POSIX paths over the host directory root.
// Paths name files from root whether or not they start with "/".
func Dir(root string) Provider {
	return FromFS(dirFS(root))
}

func (dir dirFS) finalPath(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return filepath.Join(string(dir), filepath.FromSlash(name)), nil
}

// resolved returns the host name of name once its symlinks are resolved
// inside dir.
func (dir dirFS) resolved(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	r, err := ioProvider{fsys: lexicalDir(dir)}.resolve(name)
	if err != nil {
		return "", err
	}
	return dir.finalPath(op, r)
}

func (dir dirFS) Open(name string) (fs.File, error) {
	p, err := dir.resolved("open", name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (dir dirFS) Stat(name string) (fs.FileInfo, error) {
	p, err := dir.resolved("stat", name)
	if err != nil {
		return nil, err
	}
	return os.Lstat(p)
}

func (dir dirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	p, err := dir.resolved("readdir", name)
	if err != nil {
		return nil, err
	}
	return os.ReadDir(p)
}

// parentResolved returns the host name of name with its parent resolved
// inside dir and its last element left as is.
func (dir dirFS) parentResolved(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return string(dir), nil
	}
	parent, err := dir.resolved(op, path.Dir(name))
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, path.Base(name)), nil
}

func (dir dirFS) Lstat(name string) (fs.FileInfo, error) {
	p, err := dir.parentResolved("lstat", name)
	if err != nil {
		return nil, err
	}
	return os.Lstat(p)
}

func (dir dirFS) Readlink(name string) (string, error) {
	p, err := dir.parentResolved("readlink", name)
	if err != nil {
		return "", err
	}
	return readlink(p)
}

// lexicalDir looks names up on the host as they are. resolve only asks it
// about names whose parents it has already resolved.
type lexicalDir dirFS

func (d lexicalDir) Open(name string) (fs.File, error) { return dirFS(d).Open(name) }

func (d lexicalDir) Lstat(name string) (fs.FileInfo, error) {
	p, err := dirFS(d).finalPath("lstat", name)
	if err != nil {
		return nil, err
	}
	return os.Lstat(p)
}

func (d lexicalDir) Readlink(name string) (string, error) {
	p, err := dirFS(d).finalPath("readlink", name)
	if err != nil {
		return "", err
	}
	return readlink(p)
}

func readlink(name string) (string, error) {
	target, err := os.Readlink(name)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(target), nil
}
