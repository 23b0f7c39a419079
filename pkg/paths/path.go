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

// Package paths implements lexical path values for several path flavors.
//
// A Path never touches the filesystem. It holds a normalized payload in the
// representation of its flavor's backend: a byte sequence for POSIX-like
// flavors, decoded text for Windows-like flavors. Both are stored in a Go
// string, which is immutable and can hold arbitrary bytes.
//
// Paths are compared through their case-folded form, so on Windows
// `C:\FILE` and `c:\file` are equal while on POSIX they are not. Equal paths
// name the same file, but the opposite is not guaranteed (hard links,
// mounts).
package paths

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned when a value can't be used as a path or a
// path part: flavors from different families were mixed, a conversion
// failed in strict mode, or a suffix contained a separator.
var ErrInvalidArgument = errors.New("invalid argument")

// Part is anything a path can be built from: a Path, Text, Bytes or Native,
// optionally wrapped in Lossy.
type Part interface {
	toRaw(f Flavor, strict bool) (string, error)
}

// Text is a decoded path string.
type Text string

// Bytes is a raw path byte sequence.
type Bytes []byte

// Native is a path string already in the backend representation of the
// flavor it is used with, for example a name returned by the filesystem.
type Native string

func (t Text) toRaw(f Flavor, strict bool) (string, error) {
	return textToRaw(f, string(t), strict)
}

func (b Bytes) toRaw(f Flavor, strict bool) (string, error) {
	return bytesToRaw(f, b, strict)
}

func (n Native) toRaw(Flavor, bool) (string, error) {
	return string(n), nil
}

type lossy struct{ Part }

func (l lossy) toRaw(f Flavor, _ bool) (string, error) {
	return l.Part.toRaw(f, false)
}

// Lossy makes the conversion of p substitute unrepresentable characters
// instead of failing.
func Lossy(p Part) Part {
	return lossy{p}
}

// Path is an immutable, normalized path of one flavor.
//
// The zero value is not usable; build paths with New or MustNew.
type Path struct {
	flavor Flavor
	raw    string
}

func (p Path) toRaw(f Flavor, _ bool) (string, error) {
	if p.flavor == nil {
		return "", fmt.Errorf("%w: zero Path", ErrInvalidArgument)
	}
	if !SameFamily(p.flavor, f) {
		return "", fmt.Errorf("%w: can't use a %s path as a %s path", ErrInvalidArgument, p.flavor.Name(), f.Name())
	}
	return p.raw, nil
}

// New joins parts using the rules of flavor f and normalizes the result.
// Absolute parts discard what precedes them. With no parts the result is
// the current directory ".".
func New(f Flavor, parts ...Part) (Path, error) {
	raws := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == nil {
			return Path{}, fmt.Errorf("%w: nil path part", ErrInvalidArgument)
		}
		raw, err := part.toRaw(f, true)
		if err != nil {
			return Path{}, err
		}
		raws = append(raws, raw)
	}
	return build(f, raws), nil
}

// MustNew is like New but panics on error.
func MustNew(f Flavor, parts ...Part) Path {
	p, err := New(f, parts...)
	if err != nil {
		panic(err)
	}
	return p
}

func build(f Flavor, raws []string) Path {
	return Path{flavor: f, raw: f.normalize(f.join(raws))}
}

func (p Path) with(raw string) Path {
	return Path{flavor: p.flavor, raw: p.flavor.normalize(raw)}
}

// Flavor returns the flavor of p.
func (p Path) Flavor() Flavor { return p.flavor }

// IsZero reports whether p is the zero Path.
func (p Path) IsZero() bool { return p.flavor == nil }

// Raw returns the normalized payload in the backend representation.
func (p Path) Raw() string { return p.raw }

// Join appends parts to p (the "/" operator).
func (p Path) Join(parts ...Part) (Path, error) {
	return New(p.flavor, append([]Part{p}, parts...)...)
}

// MustJoin is like Join but panics on error.
func (p Path) MustJoin(parts ...Part) Path {
	out, err := p.Join(parts...)
	if err != nil {
		panic(err)
	}
	return out
}

// Add appends a suffix such as ".bak" to the last component of p (the "+"
// operator). The suffix must be text or bytes and may not contain a
// separator.
func (p Path) Add(suffix Part) (Path, error) {
	inner := suffix
	if l, ok := inner.(lossy); ok {
		inner = l.Part
	}
	if _, ok := inner.(Path); ok {
		return Path{}, fmt.Errorf("%w: suffix must be text or bytes, got a Path", ErrInvalidArgument)
	}
	raw, err := suffix.toRaw(p.flavor, true)
	if err != nil {
		return Path{}, err
	}
	if strings.Contains(raw, "/") || strings.Contains(raw, p.flavor.Separator()) {
		return Path{}, fmt.Errorf("%w: can't add separators with a suffix (%q), use Join", ErrInvalidArgument, raw)
	}
	return p.with(p.raw + raw), nil
}

// Key returns the case-folded payload, suitable as a map key: two paths
// of the same flavor are Equal iff their keys are equal.
func (p Path) Key() string {
	return p.flavor.normCase(p.raw)
}

// Equal compares paths, ignoring case where the flavor does. Paths from
// different families are never equal.
func (p Path) Equal(o Path) bool {
	if p.flavor == nil || o.flavor == nil {
		return p.flavor == o.flavor && p.raw == o.raw
	}
	if !SameFamily(p.flavor, o.flavor) {
		return false
	}
	return p.Key() == o.flavor.normCase(o.raw)
}

// Compare orders paths by their case-folded payload. Comparing paths
// from different families is an error.
func (p Path) Compare(o Path) (int, error) {
	if _, err := o.toRaw(p.flavor, true); err != nil {
		return 0, err
	}
	return strings.Compare(p.Key(), o.flavor.normCase(o.raw)), nil
}

// String returns the path as text. Undecodable bytes are replaced, so the
// result is for display and matching only.
func (p Path) String() string {
	if p.flavor == nil {
		return ""
	}
	if p.flavor.Backend() == BackendText {
		return p.raw
	}
	s, _ := p.flavor.codec().decode([]byte(p.raw), false)
	return s
}

// Text returns the path as text, failing if it can't be decoded.
func (p Path) Text() (string, error) {
	if p.flavor.Backend() == BackendText {
		return p.raw, nil
	}
	return p.flavor.codec().decode([]byte(p.raw), true)
}

// Bytes returns the path as bytes, failing if it can't be encoded.
func (p Path) Bytes() ([]byte, error) {
	if p.flavor.Backend() == BackendBytes {
		return []byte(p.raw), nil
	}
	return p.flavor.codec().encode(p.raw, true)
}

// DisplayBytes returns the path as bytes with unrepresentable characters
// replaced by '?'.
func (p Path) DisplayBytes() []byte {
	if p.flavor.Backend() == BackendBytes {
		return []byte(p.raw)
	}
	b, _ := p.flavor.codec().encode(p.raw, false)
	return b
}

// GoString renders p as e.g. windows(`C:\dir`), used by %#v.
func (p Path) GoString() string {
	if p.flavor == nil {
		return "paths.Path{}"
	}
	return fmt.Sprintf("%s(%q)", p.flavor.Name(), p.raw)
}

// ToSlash renders p as text with "/" as its only separator, replacing
// anything undecodable. A Path uses its own flavor's separator; Text, Bytes
// and Native values are taken to be host paths.
func ToSlash(p Part) string {
	var s string
	f := Host
	switch v := p.(type) {
	case Path:
		if v.flavor == nil {
			return ""
		}
		s, f = v.String(), v.flavor
	case lossy:
		return ToSlash(v.Part)
	case Text:
		s, _ = Host.codec().decode([]byte(v), false)
	case Native:
		s, _ = Host.codec().decode([]byte(v), false)
	case Bytes:
		s, _ = Host.codec().decode(v, false)
	default:
		return ""
	}
	if sep := f.Separator(); sep != "/" {
		s = strings.ReplaceAll(s, sep, "/")
	}
	return s
}
