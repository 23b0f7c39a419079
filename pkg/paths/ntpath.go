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

const winSep = `\`

func isWinSep(c byte) bool {
	return c == '\\' || c == '/'
}

// winSplitDrive splits a drive letter ("C:") or a UNC share
// (`\\machine\share`) off the front of p. UNC prefixes are checked first.
func winSplitDrive(p string) (string, string) {
	if len(p) < 2 {
		return "", p
	}
	normp := strings.ReplaceAll(p, "/", winSep)
	if normp[:2] == `\\` && (len(normp) < 3 || normp[2] != '\\') {
		// \\machine\mountpoint\directory\etc\...
		index := strings.IndexByte(normp[2:], '\\')
		if index == -1 {
			return "", p
		}
		index += 2
		index2 := strings.IndexByte(normp[index+1:], '\\')
		if index2 == 0 {
			// \\machine\\share is not a valid share.
			return "", p
		}
		if index2 == -1 {
			index2 = len(p)
		} else {
			index2 += index + 1
		}
		return p[:index2], p[index2:]
	}
	if normp[1] == ':' {
		return p[:2], p[2:]
	}
	return "", p
}

// winNormalize collapses redundant separators, "." and ".." segments.
// Device paths (`\\.\` and `\\?\`) are returned untouched.
func winNormalize(p string) string {
	if strings.HasPrefix(p, `\\.\`) || strings.HasPrefix(p, `\\?\`) {
		return p
	}
	p = strings.ReplaceAll(p, "/", winSep)
	prefix, rest := winSplitDrive(p)
	if strings.HasPrefix(rest, winSep) {
		prefix += winSep
		rest = strings.TrimLeft(rest, winSep)
	}

	comps := strings.Split(rest, winSep)
	out := make([]string, 0, len(comps))
	for _, c := range comps {
		switch c {
		case "", ".":
		case "..":
			switch {
			case len(out) > 0 && out[len(out)-1] != "..":
				out = out[:len(out)-1]
			case len(out) == 0 && strings.HasSuffix(prefix, winSep):
				// Can't go above the root.
			default:
				out = append(out, c)
			}
		default:
			out = append(out, c)
		}
	}
	if prefix == "" && len(out) == 0 {
		out = append(out, ".")
	}
	return prefix + strings.Join(out, winSep)
}

func winSplit(p string) (string, string) {
	d, p := winSplitDrive(p)
	i := len(p)
	for i > 0 && !isWinSep(p[i-1]) {
		i--
	}
	head, tail := p[:i], p[i:]
	if trimmed := strings.TrimRight(head, `\/`); trimmed != "" {
		head = trimmed
	}
	return d + head, tail
}

func winJoin(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	resultDrive, resultPath := winSplitDrive(parts[0])
	for _, p := range parts[1:] {
		pDrive, pPath := winSplitDrive(p)
		if pPath != "" && isWinSep(pPath[0]) {
			// Second path is absolute.
			if pDrive != "" || resultDrive == "" {
				resultDrive = pDrive
			}
			resultPath = pPath
			continue
		} else if pDrive != "" && pDrive != resultDrive {
			if !strings.EqualFold(pDrive, resultDrive) {
				// Different drives, drop what we have so far.
				resultDrive, resultPath = pDrive, pPath
				continue
			}
			// Same drive in different case.
			resultDrive = pDrive
		}
		if resultPath != "" && !isWinSep(resultPath[len(resultPath)-1]) {
			resultPath += winSep
		}
		resultPath += pPath
	}
	// UNC share followed by a relative path.
	if resultPath != "" && !isWinSep(resultPath[0]) &&
		resultDrive != "" && !strings.HasSuffix(resultDrive, ":") {
		return resultDrive + winSep + resultPath
	}
	return resultDrive + resultPath
}
