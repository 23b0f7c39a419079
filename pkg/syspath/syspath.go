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

// Package syspath binds paths to a filesystem, the host's unless told
// otherwise, so they can be absolutized, resolved and listed.
package syspath

import (
	"context"
	"fmt"
	"iter"
	"os"
	"os/user"
	"strings"

	"chainguard.dev/pathkit/pkg/fs"
	"chainguard.dev/pathkit/pkg/paths"
	"chainguard.dev/pathkit/pkg/walk"
)

// Path is a paths.Path together with the filesystem it refers to. The
// algebra of paths.Path is available on it; operations that touch the
// filesystem go through the provider.
type Path struct {
	paths.Path

	provider fs.Provider
}

// New builds a host path from parts.
func New(parts ...paths.Part) (Path, error) {
	return Bind(fs.OS(), parts...)
}

// MustNew is like New but panics on error.
func MustNew(parts ...paths.Part) Path {
	p, err := New(parts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Bind builds a path of the provider's flavor from parts.
func Bind(provider fs.Provider, parts ...paths.Part) (Path, error) {
	if provider == nil {
		return Path{}, fmt.Errorf("%w: nil provider", paths.ErrInvalidArgument)
	}
	p, err := paths.New(provider.Flavor(), parts...)
	if err != nil {
		return Path{}, err
	}
	return Path{Path: p, provider: provider}, nil
}

// Cwd returns the current directory of the host.
func Cwd() (Path, error) {
	return CwdOf(fs.OS())
}

// CwdOf returns the current directory of provider.
func CwdOf(provider fs.Provider) (Path, error) {
	wd, ok := provider.(fs.WorkingDirer)
	if !ok {
		return Path{}, fmt.Errorf("%w: %s provider has no working directory", paths.ErrInvalidArgument, provider.Flavor().Name())
	}
	p, err := wd.Getwd()
	if err != nil {
		return Path{}, fmt.Errorf("getting working directory: %w", err)
	}
	return Bind(provider, p)
}

// Provider returns the filesystem p is bound to.
func (p Path) Provider() fs.Provider { return p.provider }

func (p Path) with(v paths.Path) Path { return Path{Path: v, provider: p.provider} }

// Join appends parts to p.
func (p Path) Join(parts ...paths.Part) (Path, error) {
	v, err := p.Path.Join(parts...)
	if err != nil {
		return Path{}, err
	}
	return p.with(v), nil
}

// MustJoin is like Join but panics on error.
func (p Path) MustJoin(parts ...paths.Part) Path {
	v, err := p.Join(parts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Parent returns the directory containing p.
func (p Path) Parent() Path { return p.with(p.Path.Parent()) }

// Absolute returns p joined to the current directory when it is relative.
// Symlinks are left alone.
func (p Path) Absolute() (Path, error) {
	if p.IsAbsolute() {
		return p, nil
	}
	cwd, err := CwdOf(p.provider)
	if err != nil {
		return Path{}, err
	}
	return cwd.Join(p.Path)
}

// Resolve returns the absolute path of p with every symlink expanded.
func (p Path) Resolve() (Path, error) {
	abs, err := p.Absolute()
	if err != nil {
		return Path{}, err
	}
	canon, err := p.provider.ResolveCanonical(abs.Path)
	if err != nil {
		return Path{}, err
	}
	if canon.IsAbsolute() {
		return p.with(canon), nil
	}
	// Providers over an io/fs.FS resolve relative to its root.
	root := abs.Path.Root()
	return p.with(root.MustJoin(canon)), nil
}

// RelPathTo builds a relative path from p to dest. Unlike the method of
// paths.Path, both sides are absolutized first so one may be relative and
// the other absolute.
func (p Path) RelPathTo(dest paths.Part) (paths.Path, error) {
	from, err := p.Absolute()
	if err != nil {
		return paths.Path{}, err
	}
	d, err := Bind(p.provider, dest)
	if err != nil {
		return paths.Path{}, err
	}
	to, err := d.Absolute()
	if err != nil {
		return paths.Path{}, err
	}
	return from.Path.RelPathTo(to.Path)
}

// Relative returns p relative to the current directory.
func (p Path) Relative() (paths.Path, error) {
	cwd, err := CwdOf(p.provider)
	if err != nil {
		return paths.Path{}, err
	}
	return cwd.RelPathTo(p.Path)
}

// Exists reports whether p exists. A dangling symlink doesn't.
func (p Path) Exists() bool { return p.provider.Exists(p.Path) }

// IsDir reports whether p is a directory or a symlink to one.
func (p Path) IsDir() bool { return p.provider.IsDir(p.Path) }

// IsLink reports whether p is a symlink.
func (p Path) IsLink() bool { return p.provider.IsSymlink(p.Path) }

// ExpandUser replaces a leading ~ or ~user with that user's home directory.
// p is returned unchanged when the user or their home is unknown.
func (p Path) ExpandUser() (Path, error) {
	raw := p.String()
	if !strings.HasPrefix(raw, "~") {
		return p, nil
	}
	name, rest := raw[1:], ""
	if i := strings.IndexAny(name, p.Flavor().Separator()+"/"); i >= 0 {
		name, rest = name[:i], strings.TrimLeft(name[i:], p.Flavor().Separator()+"/")
	}

	var home string
	if name == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return p, nil
		}
		home = h
	} else {
		u, err := user.Lookup(name)
		if err != nil {
			return p, nil
		}
		home = u.HomeDir
	}
	if rest == "" {
		return Bind(p.provider, paths.Text(home))
	}
	return Bind(p.provider, paths.Text(home), paths.Text(rest))
}

// ExpandVars expands environment variables in p, leaving unknown ones.
func (p Path) ExpandVars() Path { return p.with(p.Path.ExpandVars(os.LookupEnv)) }

// ListDir returns the entries of the directory p. See walk.ListDirectory.
func (p Path) ListDir(ctx context.Context, opts ...walk.Option) ([]Path, error) {
	entries, err := walk.ListDirectory(ctx, p.Path, append(opts, walk.WithProvider(p.provider))...)
	if err != nil {
		return nil, err
	}
	out := make([]Path, 0, len(entries))
	for _, e := range entries {
		out = append(out, p.with(e))
	}
	return out, nil
}

// RecurseDir walks the tree under p. See walk.Walk.
func (p Path) RecurseDir(ctx context.Context, opts ...walk.Option) iter.Seq2[Path, error] {
	return func(yield func(Path, error) bool) {
		for e, err := range walk.Walk(ctx, p.Path, append(opts, walk.WithProvider(p.provider))...) {
			if err != nil {
				yield(Path{}, err)
				return
			}
			if !yield(p.with(e), nil) {
				return
			}
		}
	}
}

// ResolvePath returns p if it exists, else the first existing p joined to
// one of includePaths in order.
func ResolvePath(p Path, includePaths []Path) (Path, error) {
	if p.Exists() {
		return p, nil
	}
	for _, prefix := range includePaths {
		candidate, err := prefix.Join(p.Path)
		if err != nil {
			return Path{}, err
		}
		if candidate.Exists() {
			return candidate, nil
		}
	}
	return Path{}, fmt.Errorf("resolve %s: %w", p, fs.ErrNotFound)
}
