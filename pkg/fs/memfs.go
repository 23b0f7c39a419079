// Copyright 2023, 2025 Chainguard, Inc.
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
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"chainguard.dev/pathkit/pkg/paths"
)

const pathSep = "/"

// MemFS is an in-memory tree of directories, files and symlinks. Names are
// "/"-separated and rooted at the top of the tree whether or not they start
// with "/". It is an fs.FS and, through the embedded Provider, a Provider
// of POSIX paths.
type MemFS struct {
	Provider

	tree *node
}

var (
	_ fs.ReadDirFS = (*MemFS)(nil)
	_ fs.StatFS    = (*MemFS)(nil)
	_ LstatFS      = (*MemFS)(nil)
	_ ReadLinkFS   = (*MemFS)(nil)
	_ WorkingDirer = (*MemFS)(nil)
)

// NewMemFS returns an empty tree.
func NewMemFS() *MemFS {
	m := &MemFS{
		tree: &node{
			dir:      true,
			children: map[string]*node{},
			name:     "/",
			mode:     fs.ModeDir | 0o755,
		},
	}
	m.Provider = FromFS(m)
	return m
}

// Getwd reports the top of the tree.
func (m *MemFS) Getwd() (paths.Path, error) {
	return m.Provider.(WorkingDirer).Getwd()
}

// getNode returns the node for the given path, following every symlink.
func (m *MemFS) getNode(name string) (*node, error) {
	return m.getNodeCountLinks(name, 0, true)
}

// getNodeCountLinks walks name from the root. The last component is only
// followed when follow is set.
func (m *MemFS) getNodeCountLinks(name string, linkDepth int, follow bool) (*node, error) {
	if name == "/" || name == "." || name == "" {
		return m.tree, nil
	}
	parts := strings.Split(name, pathSep)
	last := len(parts) - 1
	for last > 0 && parts[last] == "" {
		last--
	}
	anode := m.tree
	traversed := make([]string, 0, len(parts))
	for i, part := range parts {
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			if len(traversed) > 0 {
				traversed = traversed[:len(traversed)-1]
			}
			parent, err := m.getNodeCountLinks(strings.Join(traversed, pathSep), linkDepth, true)
			if err != nil {
				return nil, err
			}
			anode = parent
			continue
		}
		if !anode.dir {
			return nil, ErrNotADirectory
		}
		anode.mu.Lock()
		child, ok := anode.children[part]
		// Unlock right away: following a symlink below may lock this node
		// again.
		anode.mu.Unlock()
		if !ok {
			return nil, os.ErrNotExist
		}
		if child.mode&os.ModeSymlink != 0 && (follow || i < last) {
			newDepth := linkDepth + 1
			if newDepth > maxLinks {
				return nil, errTooManyLinks
			}
			// Relative targets are relative to where we are, not to the
			// parent of name: /usr/lib64/foo with /usr/lib64 -> lib is
			// /usr/lib/foo.
			target := child.linkTarget
			if !path.IsAbs(target) {
				target = path.Join(strings.Join(traversed, pathSep), target)
			}
			resolved, err := m.getNodeCountLinks(target, newDepth, true)
			if err != nil {
				return nil, err
			}
			child = resolved
		}
		anode = child
		traversed = append(traversed, part)
	}
	return anode, nil
}

// parentAndBase returns the directory holding name and the base name.
func (m *MemFS) parentAndBase(name string) (*node, string, error) {
	parent, err := m.getNode(path.Dir(name))
	if err != nil {
		return nil, "", err
	}
	if !parent.dir {
		return nil, "", ErrNotADirectory
	}
	return parent, path.Base(name), nil
}

func (m *MemFS) add(name string, n *node) error {
	parent, base, err := m.parentAndBase(name)
	if err != nil {
		return &fs.PathError{Op: "create", Path: name, Err: err}
	}
	parent.mu.Lock()
	defer parent.mu.Unlock()
	if _, ok := parent.children[base]; ok {
		return &fs.PathError{Op: "create", Path: name, Err: fs.ErrExist}
	}
	n.name = base
	parent.children[base] = n
	return nil
}

// Mkdir creates a single directory.
func (m *MemFS) Mkdir(name string, perm fs.FileMode) error {
	return m.add(name, &node{
		mode:     fs.ModeDir | perm,
		dir:      true,
		children: map[string]*node{},
	})
}

// MkdirAll creates name and any missing parents, following symlinks on the
// way.
func (m *MemFS) MkdirAll(name string, perm fs.FileMode) error {
	traversed := make([]string, 0)
	anode := m.tree
	for _, part := range strings.Split(name, pathSep) {
		if part == "" || part == "." {
			continue
		}
		anode.mu.Lock()
		newnode, ok := anode.children[part]
		if !ok {
			newnode = &node{
				name:     part,
				mode:     fs.ModeDir | perm,
				dir:      true,
				children: map[string]*node{},
			}
			anode.children[part] = newnode
		}
		anode.mu.Unlock()
		if newnode.mode&os.ModeSymlink != 0 {
			target := newnode.linkTarget
			if !path.IsAbs(target) {
				target = path.Join(strings.Join(traversed, pathSep), target)
			}
			resolved, err := m.getNode(target)
			if err != nil {
				return &fs.PathError{Op: "mkdir", Path: name, Err: err}
			}
			newnode = resolved
		}
		if !newnode.dir {
			return &fs.PathError{Op: "mkdir", Path: name, Err: ErrNotADirectory}
		}
		anode = newnode
		traversed = append(traversed, part)
	}
	return nil
}

// WriteFile creates or replaces a regular file.
func (m *MemFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	parent, base, err := m.parentAndBase(name)
	if err != nil {
		return &fs.PathError{Op: "write", Path: name, Err: err}
	}
	parent.mu.Lock()
	defer parent.mu.Unlock()
	if n, ok := parent.children[base]; ok && n.dir {
		return &fs.PathError{Op: "write", Path: name, Err: errors.New("is a directory")}
	}
	parent.children[base] = &node{
		name: base,
		mode: perm,
		data: append([]byte(nil), data...),
	}
	return nil
}

// Symlink creates newname pointing at oldname. The target need not exist.
func (m *MemFS) Symlink(oldname, newname string) error {
	return m.add(newname, &node{
		mode:       0o777 | os.ModeSymlink,
		linkTarget: oldname,
	})
}

// Chmod changes the permission bits of name. A directory without read
// permission can't be listed.
func (m *MemFS) Chmod(name string, perm fs.FileMode) error {
	anode, err := m.getNode(name)
	if err != nil {
		return &fs.PathError{Op: "chmod", Path: name, Err: err}
	}
	anode.mu.Lock()
	defer anode.mu.Unlock()
	// Change the permissions, keep the type.
	anode.mode = perm.Perm() | (anode.mode & os.ModeType)
	return nil
}

// Remove deletes name, which may be a non-empty directory.
func (m *MemFS) Remove(name string) error {
	parent, base, err := m.parentAndBase(name)
	if err != nil {
		return &fs.PathError{Op: "remove", Path: name, Err: err}
	}
	parent.mu.Lock()
	defer parent.mu.Unlock()
	if _, ok := parent.children[base]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(parent.children, base)
	return nil
}

func (m *MemFS) Open(name string) (fs.File, error) {
	anode, err := m.getNode(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &memFile{node: anode, name: name}, nil
}

func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	anode, err := m.getNode(name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return anode.fileInfo(path.Base(name)), nil
}

func (m *MemFS) Lstat(name string) (fs.FileInfo, error) {
	anode, err := m.getNodeCountLinks(name, 0, false)
	if err != nil {
		return nil, &fs.PathError{Op: "lstat", Path: name, Err: err}
	}
	return anode.fileInfo(path.Base(name)), nil
}

func (m *MemFS) ReadDir(name string) ([]fs.DirEntry, error) {
	anode, err := m.getNode(name)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}
	if !anode.dir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: ErrNotADirectory}
	}
	anode.mu.Lock()
	defer anode.mu.Unlock()
	if anode.mode.Perm()&0o444 == 0 {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrPermission}
	}
	de := make([]fs.DirEntry, 0, len(anode.children))
	for name, child := range anode.children {
		de = append(de, fs.FileInfoToDirEntry(child.fileInfo(name)))
	}
	// Sorted by name like os.ReadDir.
	sort.Slice(de, func(i, j int) bool {
		return de[i].Name() < de[j].Name()
	})
	return de, nil
}

func (m *MemFS) Readlink(name string) (string, error) {
	parent, base, err := m.parentAndBase(name)
	if err != nil {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: err}
	}
	parent.mu.Lock()
	defer parent.mu.Unlock()
	anode, ok := parent.children[base]
	if !ok {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrNotExist}
	}
	if anode.mode&os.ModeSymlink == 0 {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrInvalid}
	}
	return anode.linkTarget, nil
}

type memFile struct {
	node   *node
	name   string
	offset int64
}

func (f *memFile) Stat() (fs.FileInfo, error) {
	if f.node == nil {
		return nil, os.ErrClosed
	}
	return f.node.fileInfo(path.Base(f.name)), nil
}

func (f *memFile) Close() error {
	if f.node == nil {
		return os.ErrClosed
	}
	f.node = nil
	return nil
}

func (f *memFile) Read(b []byte) (int, error) {
	if f.node == nil {
		return 0, os.ErrClosed
	}
	if f.node.dir {
		return 0, &fs.PathError{Op: "read", Path: f.name, Err: errors.New("is a directory")}
	}
	if f.offset >= int64(len(f.node.data)) {
		return 0, io.EOF
	}
	n := copy(b, f.node.data[f.offset:])
	f.offset += int64(n)
	return n, nil
}

type node struct {
	mode       fs.FileMode
	dir        bool
	name       string
	data       []byte
	modTime    time.Time
	linkTarget string
	children   map[string]*node
	mu         sync.Mutex
}

func (n *node) fileInfo(name string) fs.FileInfo {
	return &memFileInfo{
		node: n,
		name: name,
	}
}

type memFileInfo struct {
	*node
	name string
}

func (m *memFileInfo) Name() string       { return m.name }
func (m *memFileInfo) Size() int64        { return int64(len(m.data)) }
func (m *memFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *memFileInfo) ModTime() time.Time { return m.modTime }
func (m *memFileInfo) IsDir() bool        { return m.dir }
func (m *memFileInfo) Sys() any           { return nil }
