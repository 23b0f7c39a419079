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

package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// ErrInvalidPattern is returned for malformed globs.
var ErrInvalidPattern = errors.New("invalid pattern")

// Compile turns an extended glob into a Pattern.
//
//   - "/" is the only separator, whatever the host uses.
//   - "\x" matches x literally.
//   - "*" matches any run of characters other than "/", "?" exactly one.
//   - "[abc]" matches one of the listed characters, taken literally. A class
//     may not contain "/".
//   - "**" as a whole segment matches one or more segments.
//   - A pattern without "/" matches the last segment of a path at any depth.
//     Any "/" anchors it to the start of the path instead; a leading "/"
//     does just that and a trailing "/" is ignored.
//
// The empty pattern matches everything.
func Compile(glob string) (*Pattern, error) {
	segs, anchored, err := splitSegments(glob)
	if err != nil {
		return nil, err
	}
	p := &Pattern{glob: glob}
	if len(segs) == 0 {
		p.full = matchAll
		return p, nil
	}

	comps := make([]string, 0, len(segs))
	for _, seg := range segs {
		c, err := compileSegment(seg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, glob, err)
		}
		comps = append(comps, c)
	}

	var full strings.Builder
	full.WriteString("(?s)")
	if anchored {
		full.WriteString("^")
	} else {
		full.WriteString("(?:^|/)")
	}
	full.WriteString(strings.Join(comps, "/"))
	full.WriteString("$")
	if p.full, err = regexp.Compile(full.String()); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, glob, err)
	}

	if !anchored {
		return p, nil
	}

	// Ancestors are constrained by the segments before the first "**", and
	// the literal ones among them name the directory to start from.
	var (
		lead     []string
		start    []string
		literal  = true
		deepTail bool
	)
	for i, seg := range segs {
		if seg == "**" {
			deepTail = true
			break
		}
		lead = append(lead, comps[i])
		if literal && !hasMeta(seg) {
			start = append(start, unescape(seg))
		} else {
			literal = false
		}
	}
	p.startDir = strings.Join(start, "/")
	if len(lead) > 0 {
		// Past a "**" any depth below the lead can still hold a match.
		if deepTail {
			lead = append(lead, ".*")
		}
		if p.prune, err = regexp.Compile("(?s)" + nestPrefixes(lead) + "$"); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, glob, err)
		}
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(glob string) *Pattern {
	p, err := Compile(glob)
	if err != nil {
		panic(err)
	}
	return p
}

// CompileBytes compiles a glob given as UTF-8 bytes. Invalid sequences are
// replaced rather than rejected.
func CompileBytes(glob []byte) (*Pattern, error) {
	s, err := unicode.UTF8.NewDecoder().Bytes(glob)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return Compile(string(s))
}

var matchAll = regexp.MustCompile("")

// splitSegments splits glob on unescaped slashes, dropping empty segments.
// Classes are skipped over whole so that a slash inside one is reported.
func splitSegments(glob string) ([]string, bool, error) {
	var (
		segs     []string
		anchored bool
		start    int
	)
	for i := 0; i < len(glob); i++ {
		switch glob[i] {
		case '\\':
			i++
		case '[':
			j := i + 1
			for j < len(glob) && glob[j] != ']' {
				if glob[j] == '/' {
					return nil, false, fmt.Errorf("%w: %q: slashes are not accepted in [] classes", ErrInvalidPattern, glob)
				}
				j++
			}
			if j == len(glob) {
				return nil, false, fmt.Errorf("%w: %q: unterminated [] class", ErrInvalidPattern, glob)
			}
			i = j
		case '/':
			anchored = true
			if i > start {
				segs = append(segs, glob[start:i])
			}
			start = i + 1
		}
	}
	if start < len(glob) {
		segs = append(segs, glob[start:])
	}
	return segs, anchored, nil
}

func compileSegment(seg string) (string, error) {
	if seg == "**" {
		return ".*", nil
	}
	var sb strings.Builder
	rs := []rune(seg)
	for i := 0; i < len(rs); i++ {
		switch c := rs[i]; c {
		case '\\':
			i++
			if i < len(rs) {
				sb.WriteString(regexp.QuoteMeta(string(rs[i])))
			}
		case '*':
			sb.WriteString("[^/]*")
		case '?':
			sb.WriteString("[^/]")
		case '[':
			j := i + 1
			for j < len(rs) && rs[j] != ']' {
				j++
			}
			if j == i+1 {
				return "", errors.New("empty [] class")
			}
			sb.WriteByte('[')
			for _, m := range rs[i+1 : j] {
				if strings.ContainsRune(`\[]^-`, m) {
					sb.WriteByte('\\')
				}
				sb.WriteRune(m)
			}
			sb.WriteByte(']')
			i = j
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return sb.String(), nil
}

// nestPrefixes builds ^(?:c1(?:/c2(?:/c3)?)?)? so that every ancestor
// prefix of a possible match is accepted.
func nestPrefixes(comps []string) string {
	expr := ""
	for i := len(comps) - 1; i > 0; i-- {
		expr = "(?:/" + comps[i] + expr + ")?"
	}
	return "^(?:" + comps[0] + expr + ")?"
}

func hasMeta(seg string) bool {
	for i := 0; i < len(seg); i++ {
		switch seg[i] {
		case '\\':
			i++
		case '*', '?', '[', ']':
			return true
		}
	}
	return false
}

func unescape(seg string) string {
	if !strings.Contains(seg, `\`) {
		return seg
	}
	var sb strings.Builder
	for i := 0; i < len(seg); i++ {
		if seg[i] == '\\' {
			i++
			if i == len(seg) {
				break
			}
		}
		sb.WriteByte(seg[i])
	}
	return sb.String()
}
