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

// Package pattern compiles extended globs into matchers over relative paths.
//
//	p := pattern.MustCompile("/usr/l*/**/*.so")
//	p.Matches(paths.Text("usr/local/irc/mod_user.so"))  // true
//	p.MayContainMatches(paths.Text("usr/bin"))          // false
package pattern

import (
	"regexp"
	"strings"

	"chainguard.dev/pathkit/pkg/paths"
)

// Pattern is a compiled glob. It is immutable and safe for concurrent use.
type Pattern struct {
	glob     string
	startDir string
	full     *regexp.Regexp
	prune    *regexp.Regexp
}

// String returns the glob p was compiled from.
func (p *Pattern) String() string { return p.glob }

// StartDir returns the literal leading segments of an anchored pattern,
// "/"-separated, or "" when the search has to start at the root.
func (p *Pattern) StartDir() string { return p.startDir }

// CanPrune reports whether MayContainMatches can ever return false.
func (p *Pattern) CanPrune() bool { return p.prune != nil }

// Expr returns the regular expressions behind p. prune is empty when p
// can't prune.
func (p *Pattern) Expr() (full, prune string) {
	full = p.full.String()
	if p.prune != nil {
		prune = p.prune.String()
	}
	return full, prune
}

// Matches reports whether path, taken relative, matches the pattern.
func (p *Pattern) Matches(path paths.Part) bool {
	return p.full.MatchString(prepare(path))
}

// MayContainMatches reports whether anything under the directory path
// could match. When it returns false the directory can be skipped.
func (p *Pattern) MayContainMatches(path paths.Part) bool {
	if p.prune == nil {
		return true
	}
	return p.prune.MatchString(prepare(path))
}

func prepare(path paths.Part) string {
	return strings.TrimPrefix(paths.ToSlash(path), "/")
}
