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

import "strings"

// ExpandVars replaces $name and ${name} (and %name% on Windows) with the
// value returned by lookup. References lookup doesn't know are kept as-is.
func (p Path) ExpandVars(lookup func(name string) (string, bool)) Path {
	if !strings.ContainsAny(p.raw, "$%") {
		return p
	}
	_, windows := p.flavor.(windowsFlavor)

	var sb strings.Builder
	s := p.raw
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end > 0 {
				name := s[i+2 : i+2+end]
				if v, ok := lookup(name); ok {
					sb.WriteString(v)
					i += end + 3
					continue
				}
			}
		case c == '$':
			j := i + 1
			for j < len(s) && isVarChar(s[j]) {
				j++
			}
			if j > i+1 {
				if v, ok := lookup(s[i+1 : j]); ok {
					sb.WriteString(v)
					i = j
					continue
				}
			}
		case c == '%' && windows:
			end := strings.IndexByte(s[i+1:], '%')
			if end > 0 {
				if v, ok := lookup(s[i+1 : i+1+end]); ok {
					sb.WriteString(v)
					i += end + 2
					continue
				}
			}
		}
		sb.WriteByte(c)
		i++
	}
	return p.with(sb.String())
}

func isVarChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
