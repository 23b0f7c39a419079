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

package walk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainguard.dev/pathkit/pkg/fs"
	"chainguard.dev/pathkit/pkg/paths"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), "walk.yaml")
	require.NoError(t, os.WriteFile(f, []byte(body), 0o644))
	return f
}

func TestConfigurationLoad(t *testing.T) {
	f := writeConfig(t, `
root: /r
pattern: "**/*.txt"
bottom-up: true
follow-links: true
ignore-errors: true
`)
	var cfg Configuration
	require.NoError(t, cfg.Load(f))
	assert.Equal(t, Configuration{
		Root:         "/r",
		Pattern:      "**/*.txt",
		BottomUp:     true,
		FollowLinks:  true,
		IgnoreErrors: true,
	}, cfg)

	root, err := cfg.RootPath(paths.Posix)
	require.NoError(t, err)
	assert.Equal(t, "/r", root.Raw())
}

func TestConfigurationLoadErrors(t *testing.T) {
	var cfg Configuration
	require.Error(t, cfg.Load(writeConfig(t, "root: /r\nfollow_links: true\n")), "unknown key")
	require.Error(t, (&Configuration{}).Load(writeConfig(t, "")), "missing root")
	require.Error(t, (&Configuration{}).Load(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestConfigurationOptions(t *testing.T) {
	ctx := context.Background()
	m := newTree(t)
	require.NoError(t, m.MkdirAll("/r/locked", 0o755))
	require.NoError(t, m.Chmod("/r/locked", 0o000))

	cfg := Configuration{Root: "/r", Pattern: "*.txt", BottomUp: true}
	root, err := cfg.RootPath(paths.Posix)
	require.NoError(t, err)

	_, err = collect(Walk(ctx, root, append(cfg.Options(ctx), WithProvider(m))...))
	require.ErrorIs(t, err, fs.ErrAccessDenied)

	cfg.IgnoreErrors = true
	got, err := collect(Walk(ctx, root, append(cfg.Options(ctx), WithProvider(m))...))
	require.NoError(t, err)
	assert.Equal(t, []string{"/r/a/x.txt", "/r/b.txt"}, got)
}
