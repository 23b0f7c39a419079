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
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemFSMkdir(t *testing.T) {
	t.Run("parent non existent", func(t *testing.T) {
		var (
			m = NewMemFS()
		)
		err := m.Mkdir("/a/b", 0o755)
		require.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("parent file", func(t *testing.T) {
		var (
			m = NewMemFS()
		)
		err := m.Mkdir("/a", 0o755)
		require.NoError(t, err)
		err = m.WriteFile("/a/b", []byte("hello"), 0o644)
		require.NoError(t, err)
		err = m.Mkdir("/a/b/c", 0o755)
		require.ErrorIs(t, err, ErrNotADirectory)
	})
	t.Run("already exists", func(t *testing.T) {
		var (
			m = NewMemFS()
		)
		err := m.Mkdir("/a", 0o755)
		require.NoError(t, err)
		err = m.Mkdir("/a", 0o755)
		require.ErrorIs(t, err, os.ErrExist)
	})
	t.Run("success", func(t *testing.T) {
		var (
			m = NewMemFS()
		)
		err := m.MkdirAll("/a/b", 0o755)
		require.NoError(t, err)
		err = m.Mkdir("/a/b/c", 0o755)
		require.NoError(t, err)
	})
}

func TestMemFSMkdirAll(t *testing.T) {
	t.Run("parent file", func(t *testing.T) {
		var (
			m = NewMemFS()
		)
		err := m.Mkdir("/a", 0o755)
		require.NoError(t, err)
		err = m.WriteFile("/a/b", []byte("hello"), 0o644)
		require.NoError(t, err)
		err = m.MkdirAll("/a/b/c", 0o755)
		require.ErrorIs(t, err, ErrNotADirectory)
	})
	t.Run("already exists", func(t *testing.T) {
		var (
			m = NewMemFS()
		)
		err := m.Mkdir("/a", 0o755)
		require.NoError(t, err)
		err = m.MkdirAll("/a", 0o755)
		require.NoError(t, err)
	})
	t.Run("through symlink", func(t *testing.T) {
		var (
			m = NewMemFS()
		)
		require.NoError(t, m.MkdirAll("/usr/lib", 0o755))
		require.NoError(t, m.Symlink("lib", "/usr/lib64"))
		require.NoError(t, m.MkdirAll("/usr/lib64/foo", 0o755))
		fi, err := m.Stat("/usr/lib/foo")
		require.NoError(t, err)
		require.True(t, fi.IsDir())
	})
}

func TestMemFSWriteFile(t *testing.T) {
	t.Run("parent non existent", func(t *testing.T) {
		var (
			m = NewMemFS()
		)
		err := m.WriteFile("/a/b", []byte("hello"), 0o644)
		require.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("dir", func(t *testing.T) {
		var (
			m = NewMemFS()
		)
		require.NoError(t, m.Mkdir("/a", 0o755))
		err := m.WriteFile("/a", []byte("hello"), 0o644)
		require.Error(t, err)
	})
	t.Run("does not exist", func(t *testing.T) {
		var (
			m       = NewMemFS()
			content = []byte("hello")
		)
		err := m.MkdirAll("/a/b", 0o755)
		require.NoError(t, err)
		err = m.WriteFile("/a/b/c", content, 0o644)
		require.NoError(t, err)
		dir, err := m.ReadDir("/a/b")
		require.NoError(t, err)
		require.Len(t, dir, 1)
		require.Equal(t, "c", dir[0].Name())
		data, err := fs.ReadFile(m, "a/b/c")
		require.NoError(t, err)
		require.Equal(t, content, data)
	})
}

func TestMemFSSymlink(t *testing.T) {
	var (
		m       = NewMemFS()
		base    = "/a/b/c"
		target  = base + "/d"
		link    = base + "/e"
		content = []byte("hello")
	)
	require.NoError(t, m.MkdirAll(base, 0o755))
	require.NoError(t, m.WriteFile(target, content, 0o644))
	require.NoError(t, m.Symlink(target, link))

	data, err := fs.ReadFile(m, link)
	require.NoError(t, err)
	require.Equal(t, content, data)

	got, err := m.Readlink(link)
	require.NoError(t, err)
	require.Equal(t, target, got)

	fi, err := m.Lstat(link)
	require.NoError(t, err)
	require.NotZero(t, fi.Mode()&fs.ModeSymlink)

	fi, err = m.Stat(link)
	require.NoError(t, err)
	require.Zero(t, fi.Mode()&fs.ModeSymlink)

	_, err = m.Readlink(target)
	require.ErrorIs(t, err, fs.ErrInvalid)

	t.Run("loop", func(t *testing.T) {
		require.NoError(t, m.Symlink("/x2", "/x1"))
		require.NoError(t, m.Symlink("/x1", "/x2"))
		_, err := m.Stat("/x1")
		require.ErrorIs(t, err, errTooManyLinks)
		// The link itself is fine.
		_, err = m.Lstat("/x1")
		require.NoError(t, err)
	})

	t.Run("dangling", func(t *testing.T) {
		require.NoError(t, m.Symlink("/nowhere", "/dangling"))
		_, err := m.Stat("/dangling")
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestMemFSPermissions(t *testing.T) {
	var (
		m = NewMemFS()
	)
	require.NoError(t, m.MkdirAll("/locked/inner", 0o755))
	require.NoError(t, m.Chmod("/locked", 0o000))

	_, err := m.ReadDir("/locked")
	require.ErrorIs(t, err, fs.ErrPermission)

	fi, err := m.Stat("/locked")
	require.NoError(t, err)
	require.True(t, fi.IsDir())
	require.Equal(t, fs.FileMode(0), fi.Mode().Perm())

	require.NoError(t, m.Chmod("/locked", 0o700))
	_, err = m.ReadDir("/locked")
	require.NoError(t, err)
}

func TestMemFSRemove(t *testing.T) {
	var (
		m = NewMemFS()
	)
	require.NoError(t, m.MkdirAll("/a/b", 0o755))
	require.NoError(t, m.Remove("/a"))
	_, err := m.Stat("/a/b")
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.ErrorIs(t, m.Remove("/a"), fs.ErrNotExist)
}
