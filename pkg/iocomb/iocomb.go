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

// Package iocomb turns a log policy, a list of targets, into one writer.
//
// A target is builtin:stderr, builtin:stdout, builtin:discard or the name
// of a file, which is created along with its parent directories and
// appended to.
package iocomb

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
)

// DefaultPolicy logs to standard error.
var DefaultPolicy = []string{"builtin:stderr"}

// Writer writes to every target of a policy.
type Writer struct {
	io.Writer

	files []*os.File
}

// Close closes the files opened for the policy. Standard streams are left
// open.
func (w *Writer) Close() error {
	var errs []error
	for _, f := range w.files {
		errs = append(errs, f.Close())
	}
	w.files = nil
	return errors.Join(errs...)
}

// Terminal returns the standard stream w writes to when it has a single
// such target, for terminal detection.
func (w *Writer) Terminal() (*os.File, bool) {
	f, ok := w.Writer.(*os.File)
	if !ok || f == nil || slices.Contains(w.files, f) {
		return nil, false
	}
	return f, true
}

// Open opens every target of policy. Repeated targets are written once.
func Open(policy []string) (*Writer, error) {
	if len(policy) == 0 {
		policy = DefaultPolicy
	}
	w := &Writer{}
	var writers []io.Writer
	seen := map[string]bool{}
	for _, target := range policy {
		if seen[target] {
			continue
		}
		seen[target] = true

		out, f, err := open(target)
		if err != nil {
			return nil, errors.Join(err, w.Close())
		}
		if f != nil {
			w.files = append(w.files, f)
		}
		writers = append(writers, out)
	}

	if len(writers) == 1 {
		w.Writer = writers[0]
	} else {
		w.Writer = io.MultiWriter(writers...)
	}
	return w, nil
}

func open(target string) (io.Writer, *os.File, error) {
	switch target {
	case "builtin:stderr":
		return os.Stderr, nil, nil
	case "builtin:stdout":
		return os.Stdout, nil, nil
	case "builtin:discard":
		return io.Discard, nil, nil
	case "":
		return nil, nil, errors.New("empty log target")
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating directory for log file %s: %w", target, err)
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, f, nil
}
