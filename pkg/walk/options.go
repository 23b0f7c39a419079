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
	"errors"
	"fmt"

	"chainguard.dev/pathkit/pkg/fs"
	"chainguard.dev/pathkit/pkg/paths"
	"chainguard.dev/pathkit/pkg/pattern"
)

// ErrorHandler decides what happens when a directory can't be read. It
// returns nil to skip the directory and carry on with its siblings, or an
// error to end the walk with it.
type ErrorHandler func(dir paths.Path, err error) error

type options struct {
	pattern     *pattern.Pattern
	filter      func(rel paths.Path) bool
	topDown     bool
	followLinks bool
	onError     ErrorHandler
	provider    fs.Provider
}

func defaultOptions() *options {
	return &options{
		topDown: true,
	}
}

// Option configures a walk or a listing.
type Option func(*options) error

// WithPattern only yields paths matching p. Matching is done on the path
// relative to the root, and directories p rules out are not entered.
func WithPattern(p *pattern.Pattern) Option {
	return func(o *options) error {
		if p == nil {
			return errors.New("nil pattern")
		}
		o.pattern = p
		return nil
	}
}

// WithGlob is WithPattern for a glob compiled through the shared cache.
func WithGlob(glob string) Option {
	return func(o *options) error {
		p, err := pattern.Get(glob)
		if err != nil {
			return fmt.Errorf("compiling %q: %w", glob, err)
		}
		o.pattern = p
		return nil
	}
}

// WithFilter only yields paths for which fn, given the path relative to
// the root, returns true. It is applied on top of any pattern and never
// prevents entering a directory.
func WithFilter(fn func(rel paths.Path) bool) Option {
	return func(o *options) error {
		o.filter = fn
		return nil
	}
}

// WithTopDown picks the order: a directory before its contents (the
// default) or after them.
func WithTopDown(topDown bool) Option {
	return func(o *options) error {
		o.topDown = topDown
		return nil
	}
}

// WithFollowLinks enters symlinked directories. A directory reached
// through different names is still listed only once.
func WithFollowLinks(follow bool) Option {
	return func(o *options) error {
		o.followLinks = follow
		return nil
	}
}

// WithErrorHandler installs fn to deal with unreadable directories. Without
// one the first error ends the walk.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(o *options) error {
		o.onError = fn
		return nil
	}
}

// WithProvider sets the filesystem to walk, the host's by default.
func WithProvider(p fs.Provider) Option {
	return func(o *options) error {
		if p == nil {
			return errors.New("nil provider")
		}
		o.provider = p
		return nil
	}
}

func buildOptions(opts []Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.provider == nil {
		o.provider = fs.OS()
	}
	return o, nil
}

func (o *options) matches(rel paths.Path) bool {
	if o.pattern != nil && !o.pattern.Matches(rel) {
		return false
	}
	return o.filter == nil || o.filter(rel)
}

func (o *options) mayContainMatches(rel paths.Path) bool {
	return o.pattern == nil || o.pattern.MayContainMatches(rel)
}
