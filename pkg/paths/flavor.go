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

package paths

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Backend is the underlying representation of a path payload.
type Backend int

const (
	// BackendBytes holds arbitrary byte sequences (POSIX-like systems).
	BackendBytes Backend = iota
	// BackendText holds decoded text (Windows-like systems).
	BackendText
)

func (b Backend) String() string {
	switch b {
	case BackendBytes:
		return "bytes"
	case BackendText:
		return "text"
	default:
		return "unknown"
	}
}

// Flavor is a path dialect: it fixes the separator, the case rule, the
// root/drive syntax and the byte<->text conversion.
//
// The set of flavors is closed. Use Posix, Darwin, Windows or Host.
type Flavor interface {
	// Name identifies the flavor, for display only.
	Name() string
	Backend() Backend
	Separator() string
	CaseSensitive() bool

	family() string
	normalize(raw string) string
	normCase(raw string) string
	splitDrive(raw string) (drive, rest string)
	split(raw string) (head, tail string)
	join(parts []string) string
	isSep(c byte) bool
	codec() codec
}

var (
	// Posix is the POSIX flavor: root "/", case-sensitive, byte backend,
	// UTF-8 between bytes and text.
	Posix Flavor = posixFlavor{name: "posix"}

	// Darwin is Posix for filesystems that store composed Unicode
	// sequences: valid UTF-8 is NFC-normalized.
	Darwin Flavor = posixFlavor{name: "darwin", compose: true}

	// Windows is the Windows flavor: drive letters and UNC shares,
	// case-insensitive, text backend, Windows-1252 between bytes and text.
	Windows Flavor = windowsFlavor{name: "windows", enc: cp1252Codec{}}

	// Host is the flavor of the operating system this process runs on.
	Host = hostFlavor
)

// FlavorByName returns the flavor called name: posix, darwin, windows or
// host.
func FlavorByName(name string) (Flavor, error) {
	switch strings.ToLower(name) {
	case "posix":
		return Posix, nil
	case "darwin":
		return Darwin, nil
	case "windows":
		return Windows, nil
	case "host", "":
		return Host, nil
	}
	return nil, fmt.Errorf("%w: unknown flavor %q", ErrInvalidArgument, name)
}

// SameFamily reports whether paths of the two flavors can be mixed.
func SameFamily(a, b Flavor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.family() == b.family()
}

type posixFlavor struct {
	name    string
	compose bool
}

func (f posixFlavor) Name() string        { return f.name }
func (f posixFlavor) Backend() Backend    { return BackendBytes }
func (f posixFlavor) Separator() string   { return "/" }
func (f posixFlavor) CaseSensitive() bool { return true }
func (f posixFlavor) family() string      { return "posix" }
func (f posixFlavor) isSep(c byte) bool   { return c == '/' }
func (f posixFlavor) codec() codec        { return utf8Codec{} }

func (f posixFlavor) normalize(raw string) string {
	p := path.Clean(raw)
	// Exactly two leading slashes are implementation-defined and kept.
	if strings.HasPrefix(raw, "//") && !strings.HasPrefix(raw, "///") {
		p = "/" + p
	}
	if f.compose && utf8.ValidString(p) {
		p = norm.NFC.String(p)
	}
	return p
}

func (f posixFlavor) normCase(raw string) string { return raw }

func (f posixFlavor) splitDrive(raw string) (string, string) { return "", raw }

func (f posixFlavor) split(raw string) (string, string) {
	i := strings.LastIndexByte(raw, '/') + 1
	head, tail := raw[:i], raw[i:]
	if head != "" && strings.Trim(head, "/") != "" {
		head = strings.TrimRight(head, "/")
	}
	return head, tail
}

func (f posixFlavor) join(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, b := range parts[1:] {
		switch {
		case strings.HasPrefix(b, "/"):
			out = b
		case out == "" || strings.HasSuffix(out, "/"):
			out += b
		default:
			out += "/" + b
		}
	}
	return out
}

type windowsFlavor struct {
	name string
	enc  codec
}

func (f windowsFlavor) Name() string        { return f.name }
func (f windowsFlavor) Backend() Backend    { return BackendText }
func (f windowsFlavor) Separator() string   { return `\` }
func (f windowsFlavor) CaseSensitive() bool { return false }
func (f windowsFlavor) family() string      { return "windows" }
func (f windowsFlavor) isSep(c byte) bool   { return isWinSep(c) }
func (f windowsFlavor) codec() codec        { return f.enc }

func (f windowsFlavor) normalize(raw string) string { return winNormalize(raw) }

// normCase lowercases every component on its own so that case mapping can
// never produce or consume a separator. Unlike full folding, lowercasing
// keeps "ß" distinct from "ss".
func (f windowsFlavor) normCase(raw string) string {
	comps := strings.Split(strings.ReplaceAll(raw, "/", `\`), `\`)
	for i, c := range comps {
		comps[i] = cases.Lower(language.Und).String(c)
	}
	return strings.Join(comps, `\`)
}

func (f windowsFlavor) splitDrive(raw string) (string, string) { return winSplitDrive(raw) }
func (f windowsFlavor) split(raw string) (string, string)      { return winSplit(raw) }
func (f windowsFlavor) join(parts []string) string             { return winJoin(parts) }
