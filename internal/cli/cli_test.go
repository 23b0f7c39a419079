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


package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainguard.dev/pathkit/pkg/fs"
	"chainguard.dev/pathkit/pkg/paths"
	"chainguard.dev/pathkit/pkg/walk"
)

func tree(t *testing.T) string {
	t.Helper()
	d := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(d, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(d, "a", "x.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(d, "b.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(d, "c.go"), nil, 0o644))
	return d
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestWalkCmd(t *testing.T) {
	ctx := context.Background()
	d := tree(t)

	t.Run("pattern", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WalkCmd(ctx, &buf, fs.OS(), []string{d}, walk.Configuration{Pattern: "*.txt"}))
		want := []string{filepath.Join(d, "a", "x.txt"), filepath.Join(d, "b.txt")}
		if diff := cmp.Diff(want, lines(buf.String())); diff != "" {
			t.Errorf("WalkCmd() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("several roots keep their order", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WalkCmd(ctx, &buf, fs.OS(), []string{filepath.Join(d, "a"), d}, walk.Configuration{BottomUp: true}))
		want := []string{
			filepath.Join(d, "a", "x.txt"),
			filepath.Join(d, "a", "x.txt"),
			filepath.Join(d, "a"),
			filepath.Join(d, "b.txt"),
			filepath.Join(d, "c.go"),
		}
		if diff := cmp.Diff(want, lines(buf.String())); diff != "" {
			t.Errorf("WalkCmd() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing root", func(t *testing.T) {
		err := WalkCmd(ctx, &bytes.Buffer{}, fs.OS(), []string{d, filepath.Join(d, "nope")}, walk.Configuration{})
		require.ErrorIs(t, err, fs.ErrNotFound)
	})
}

func TestWalkChroot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	d := tree(t)
	require.NoError(t, os.Symlink("/a", filepath.Join(d, "link")))

	var buf bytes.Buffer
	cmd := New()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--log-policy", "builtin:discard", "walk", "--chroot", d, "--follow-links", "/"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, []string{"/a", "/a/x.txt", "/b.txt", "/c.go", "/link"}, lines(buf.String()))
}

func TestWalkCommandConfig(t *testing.T) {
	d := tree(t)
	cfg := filepath.Join(t.TempDir(), "walk.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("root: "+filepath.ToSlash(d)+"\npattern: \"*.txt\"\n"), 0o644))

	for _, tc := range []struct {
		name string
		args []string
		want []string
	}{{
		name: "from file",
		args: []string{"walk", "--config", cfg},
		want: []string{filepath.Join(d, "a", "x.txt"), filepath.Join(d, "b.txt")},
	}, {
		name: "flag overrides file",
		args: []string{"walk", "--config", cfg, "--pattern", "/b*"},
		want: []string{filepath.Join(d, "b.txt")},
	}} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			cmd := New()
			cmd.SetOut(&buf)
			cmd.SetArgs(append([]string{"--log-policy", "builtin:discard"}, tc.args...))
			require.NoError(t, cmd.ExecuteContext(context.Background()))
			assert.Equal(t, tc.want, lines(buf.String()))
		})
	}
}

func TestLsCmd(t *testing.T) {
	ctx := context.Background()
	d := tree(t)

	var buf bytes.Buffer
	require.NoError(t, LsCmd(ctx, &buf, d, ""))
	assert.Equal(t, []string{"a" + string(filepath.Separator), "b.txt", "c.go"}, lines(buf.String()))

	buf.Reset()
	require.NoError(t, LsCmd(ctx, &buf, d, "*.go"))
	assert.Equal(t, "c.go\n", buf.String())

	require.ErrorIs(t, LsCmd(ctx, &buf, filepath.Join(d, "c.go"), ""), fs.ErrNotADirectory)
}

func TestMatchCmd(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MatchCmd(&buf, "/usr/**/*.so", []string{"usr/lib/libc.so", "etc/passwd", "usr/x.so"}, false, false))
	assert.Equal(t, "usr/lib/libc.so\n", buf.String())

	buf.Reset()
	require.NoError(t, MatchCmd(&buf, "/usr/lib/*.so", []string{"usr", "etc", "usr/lib"}, false, true))
	assert.Equal(t, []string{"usr", "usr/lib"}, lines(buf.String()))

	buf.Reset()
	require.NoError(t, MatchCmd(&buf, "src/*.go", nil, true, false))
	assert.Contains(t, buf.String(), `start-dir: "src"`)
	assert.NotContains(t, buf.String(), "(none)")

	buf.Reset()
	require.NoError(t, MatchCmd(&buf, "*.go", nil, true, false))
	assert.Contains(t, buf.String(), `start-dir: ""`)
	assert.Contains(t, buf.String(), "prune: (none)")

	require.Error(t, MatchCmd(&buf, "[a", nil, false, false))
}

func TestRelpathCmd(t *testing.T) {
	for _, tc := range []struct {
		flavor, from, to, want string
	}{
		{"windows", `C:\Users\me`, `c:\users\ME\Desktop`, "Desktop"},
		{"windows", `C:\a`, `D:\b`, `D:\b`},
		{"posix", "/usr/lib", "/usr/share/doc", "../share/doc"},
		{"host", "a/b", "a/c", filepath.Join("..", "c")},
	} {
		var buf bytes.Buffer
		require.NoError(t, RelpathCmd(&buf, tc.flavor, tc.from, tc.to))
		assert.Equal(t, tc.want+"\n", buf.String(), "%s -> %s", tc.from, tc.to)
	}

	require.ErrorIs(t, RelpathCmd(&bytes.Buffer{}, "plan9", "a", "b"), paths.ErrInvalidArgument)
}
