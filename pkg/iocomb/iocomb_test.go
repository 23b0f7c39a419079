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

package iocomb

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "logs", "a.log")
	b := filepath.Join(dir, "b.log")

	w, err := Open([]string{a, b, a, "builtin:discard"})
	require.NoError(t, err)
	_, err = fmt.Fprintln(w, "hello")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	for _, f := range []string{a, b} {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(data))
	}

	// Appends on reopen.
	w, err = Open([]string{a})
	require.NoError(t, err)
	_, err = fmt.Fprintln(w, "again")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "hello\nagain\n", string(data))
}

func TestBuiltins(t *testing.T) {
	w, err := Open(nil)
	require.NoError(t, err)
	f, ok := w.Terminal()
	require.True(t, ok)
	assert.Same(t, os.Stderr, f)

	w, err = Open([]string{"builtin:discard"})
	require.NoError(t, err)
	assert.Equal(t, io.Discard, w.Writer)
	_, ok = w.Terminal()
	assert.False(t, ok)

	w, err = Open([]string{"builtin:stdout", "builtin:stderr"})
	require.NoError(t, err)
	_, ok = w.Terminal()
	assert.False(t, ok)

	_, err = Open([]string{""})
	require.Error(t, err)
}
