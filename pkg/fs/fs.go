// Copyright 2022, 2025 Chainguard, Inc.
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

// Package fs provides the filesystem primitives the walker and system
// paths rely on: the host filesystem, any io/fs.FS, or an in-memory tree.
package fs

import (
	"errors"
	"fmt"
	"io/fs"

	"chainguard.dev/pathkit/pkg/paths"
)

var (
	// ErrNotFound is reported for missing files.
	ErrNotFound = fs.ErrNotExist
	// ErrAccessDenied is reported when listing or resolving isn't allowed.
	ErrAccessDenied = fs.ErrPermission
	// ErrNotADirectory is reported when a directory operation is applied to
	// something else.
	ErrNotADirectory = errors.New("not a directory")

	errTooManyLinks = errors.New("too many levels of symbolic links")
)

// maxLinks is the number of symlinks followed while resolving one path, as
// Linux does from 4.2 onwards. See
// https://man7.org/linux/man-pages/man7/path_resolution.7.html
const maxLinks = 40

// Provider is the set of filesystem primitives a walk needs. Paths handed
// to a provider must be of its flavor's family.
type Provider interface {
	Flavor() paths.Flavor
	// ListChildren returns the names in dir, in the flavor's raw form, in a
	// stable order.
	ListChildren(dir paths.Path) ([]string, error)
	// IsDir reports whether p is a directory, following symlinks.
	IsDir(p paths.Path) bool
	IsSymlink(p paths.Path) bool
	// ResolveCanonical resolves every symlink in p. Two paths naming the
	// same directory resolve to Equal paths.
	ResolveCanonical(p paths.Path) (paths.Path, error)
	Exists(p paths.Path) bool
}

// WorkingDirer is implemented by providers that have a current directory.
type WorkingDirer interface {
	Getwd() (paths.Path, error)
}

// ReadLinkFS is an fs.FS with symlinks.
type ReadLinkFS interface {
	fs.FS

	Readlink(name string) (string, error)
}

// LstatFS is an fs.FS that can stat a symlink itself.
type LstatFS interface {
	fs.FS

	Lstat(name string) (fs.FileInfo, error)
}

// classify wraps err with the sentinel matching its cause, keeping err in
// the chain.
func classify(op string, p paths.Path, err error) error {
	var kind error
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = ErrAccessDenied
	case isNotDir(err):
		kind = ErrNotADirectory
	default:
		return fmt.Errorf("%s %s: %w", op, p, err)
	}
	return fmt.Errorf("%s %s: %w: %w", op, p, kind, err)
}

func checkFamily(f paths.Flavor, p paths.Path) error {
	if p.IsZero() || !paths.SameFamily(f, p.Flavor()) {
		return fmt.Errorf("%w: %#v is not a %s path", paths.ErrInvalidArgument, p, f.Name())
	}
	return nil
}
