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
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// codec converts between the byte and text representations of a flavor.
// Strict conversions fail with ErrInvalidArgument; lossy ones substitute.
type codec interface {
	encode(text string, strict bool) ([]byte, error)
	decode(b []byte, strict bool) (string, error)
}

type utf8Codec struct{}

// encode keeps invalid UTF-8 as-is: a Go string already is the byte
// sequence, so arbitrary POSIX names survive a round trip.
func (utf8Codec) encode(text string, _ bool) ([]byte, error) {
	return []byte(text), nil
}

func (utf8Codec) decode(b []byte, strict bool) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	if strict {
		return "", fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidArgument, b)
	}
	// One U+FFFD per offending byte.
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError)), nil
	}
	return string(out), nil
}

type cp1252Codec struct{}

func (cp1252Codec) encode(text string, strict bool) ([]byte, error) {
	out := make([]byte, 0, len(text))
	for i, w := 0, 0; i < len(text); i += w {
		r, width := utf8.DecodeRuneInString(text[i:])
		w = width
		if r == utf8.RuneError && width == 1 {
			if strict {
				return nil, fmt.Errorf("%w: invalid UTF-8 at offset %d", ErrInvalidArgument, i)
			}
			out = append(out, '?')
			continue
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			if strict {
				return nil, fmt.Errorf("%w: %q is not representable in windows-1252", ErrInvalidArgument, r)
			}
			b = '?'
		}
		out = append(out, b)
	}
	return out, nil
}

// decode never fails: every byte has a windows-1252 mapping.
func (cp1252Codec) decode(b []byte, _ bool) (string, error) {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(charmap.Windows1252.DecodeByte(c))
	}
	return sb.String(), nil
}

// textToRaw turns decoded text into the raw form of a flavor.
func textToRaw(f Flavor, s string, strict bool) (string, error) {
	if f.Backend() == BackendBytes {
		b, err := f.codec().encode(s, strict)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	if !utf8.ValidString(s) {
		if strict {
			return "", fmt.Errorf("%w: %q is not valid text", ErrInvalidArgument, s)
		}
		return strings.ToValidUTF8(s, string(utf8.RuneError)), nil
	}
	return s, nil
}

// bytesToRaw turns a raw byte sequence into the raw form of a flavor.
func bytesToRaw(f Flavor, b []byte, strict bool) (string, error) {
	if f.Backend() == BackendBytes {
		return string(b), nil
	}
	return f.codec().decode(b, strict)
}
