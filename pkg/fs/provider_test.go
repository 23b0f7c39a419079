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
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/psanford/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainguard.dev/pathkit/pkg/paths"
)

func posix(s string) paths.Path { return paths.MustNew(paths.Posix, paths.Text(s)) }

func TestFromFS(t *testing.T) {
	mfs := memfs.New()
	require.NoError(t, mfs.MkdirAll("src/pkg", 0o755))
	require.NoError(t, mfs.WriteFile("src/pkg/a.go", []byte("package pkg"), 0o644))
	require.NoError(t, mfs.WriteFile("src/b.go", []byte("package src"), 0o644))

	p := FromFS(mfs)
	assert.Equal(t, paths.Posix, p.Flavor())

	names, err := p.ListChildren(posix("src"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b.go", "pkg"}, names)

	// Rooted paths name the same files.
	names, err = p.ListChildren(posix("/"))
	require.NoError(t, err)
	assert.Equal(t, []string{"src"}, names)

	assert.True(t, p.IsDir(posix("/src/pkg")))
	assert.False(t, p.IsDir(posix("src/b.go")))
	assert.False(t, p.IsSymlink(posix("src/b.go")))
	assert.True(t, p.Exists(posix("src/b.go")))
	assert.False(t, p.Exists(posix("src/c.go")))

	_, err = p.ListChildren(posix("src/b.go"))
	require.ErrorIs(t, err, ErrNotADirectory)
	_, err = p.ListChildren(posix("missing"))
	require.ErrorIs(t, err, ErrNotFound)

	canon, err := p.ResolveCanonical(posix("/src/./pkg/../pkg"))
	require.NoError(t, err)
	assert.Equal(t, "src/pkg", canon.Raw())

	_, err = p.ListChildren(paths.MustNew(paths.Windows, paths.Text("src")))
	require.ErrorIs(t, err, paths.ErrInvalidArgument)
}

func TestMemFSProvider(t *testing.T) {
	m := NewMemFS()
	require.NoError(t, m.MkdirAll("/usr/lib", 0o755))
	require.NoError(t, m.WriteFile("/usr/lib/libc.so", nil, 0o644))
	require.NoError(t, m.Symlink("lib", "/usr/lib64"))
	require.NoError(t, m.Symlink("..", "/usr/lib/up"))

	assert.True(t, m.IsSymlink(posix("/usr/lib64")))
	assert.True(t, m.IsDir(posix("/usr/lib64")))
	assert.False(t, m.IsSymlink(posix("/usr/lib")))

	canon, err := m.ResolveCanonical(posix("/usr/lib64/libc.so"))
	require.NoError(t, err)
	assert.Equal(t, "usr/lib/libc.so", canon.Raw())

	canon, err = m.ResolveCanonical(posix("/usr/lib64/up/lib64"))
	require.NoError(t, err)
	assert.Equal(t, "usr/lib", canon.Raw())

	canon, err = m.ResolveCanonical(posix("/"))
	require.NoError(t, err)
	assert.Equal(t, ".", canon.Raw())

	names, err := m.ListChildren(posix("/usr/lib64"))
	require.NoError(t, err)
	assert.Equal(t, []string{"libc.so", "up"}, names)

	require.NoError(t, m.Chmod("/usr/lib", 0o000))
	_, err = m.ListChildren(posix("/usr/lib"))
	require.ErrorIs(t, err, ErrAccessDenied)

	require.NoError(t, m.Symlink("/loop2", "/loop1"))
	require.NoError(t, m.Symlink("/loop1", "/loop2"))
	_, err = m.ResolveCanonical(posix("/loop1"))
	require.ErrorIs(t, err, errTooManyLinks)
}

func TestOS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "inner"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "file.txt"), []byte("x"), 0o644))

	p := OS()
	assert.Equal(t, paths.Host, p.Flavor())
	root := paths.MustNew(paths.Host, paths.Native(dir))

	names, err := p.ListChildren(root.MustJoin(paths.Text("sub")))
	require.NoError(t, err)
	assert.Equal(t, []string{"file.txt", "inner"}, names)

	file := root.MustJoin(paths.Text("sub"), paths.Text("file.txt"))
	assert.True(t, p.Exists(file))
	assert.False(t, p.IsDir(file))
	_, err = p.ListChildren(file)
	require.ErrorIs(t, err, ErrNotADirectory)

	_, err = p.ListChildren(root.MustJoin(paths.Text("missing")))
	require.ErrorIs(t, err, ErrNotFound)

	wd, err := p.(WorkingDirer).Getwd()
	require.NoError(t, err)
	assert.True(t, wd.IsAbsolute())

	if runtime.GOOS == "windows" {
		return
	}

	require.NoError(t, os.Symlink(filepath.Join(dir, "sub"), filepath.Join(dir, "link")))
	link := root.MustJoin(paths.Text("link"))
	assert.True(t, p.IsSymlink(link))
	assert.True(t, p.IsDir(link))

	canon, err := p.ResolveCanonical(link)
	require.NoError(t, err)
	target, err := p.ResolveCanonical(root.MustJoin(paths.Text("sub")))
	require.NoError(t, err)
	assert.True(t, canon.Equal(target))

	if os.Geteuid() == 0 {
		t.Skip("root ignores permissions")
	}
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Mkdir(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })
	_, err = p.ListChildren(root.MustJoin(paths.Text("locked")))
	require.ErrorIs(t, err, ErrAccessDenied)
}
