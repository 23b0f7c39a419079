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

// SplitRoot splits p into its root and the remaining relative location.
//
// The root is "." for relative paths, otherwise a drive, a UNC share or a
// single separator, with a trailing separator when there is one.
func (p Path) SplitRoot() (root, rest Path) {
	sep := p.flavor.Separator()
	drive, loc := p.flavor.splitDrive(p.raw)
	if drive != "" {
		if strings.HasPrefix(loc, sep) {
			drive += sep
			loc = loc[len(sep):]
		}
		return p.with(drive), p.with(loc)
	}
	n := 0
	for n < len(loc) && p.flavor.isSep(loc[n]) {
		n++
	}
	if n > 0 {
		return p.with(loc[:n]), p.with(loc[n:])
	}
	return p.with(""), p
}

// Root returns the root of p, "." if p is relative.
func (p Path) Root() Path {
	root, _ := p.SplitRoot()
	return root
}

// IsAbsolute reports whether p has a root.
func (p Path) IsAbsolute() bool {
	return p.Root().raw != "."
}

func (p Path) components() []string {
	root, loc := p.SplitRoot()
	var out []string
	if root.raw != "." {
		out = append(out, root.raw)
	}
	if loc.raw != "." {
		out = append(out, strings.Split(loc.raw, p.flavor.Separator())...)
	}
	return out
}

// Components splits p into its root, if any, followed by each segment.
func (p Path) Components() []Path {
	comps := p.components()
	out := make([]Path, 0, len(comps))
	for _, c := range comps {
		out = append(out, p.with(c))
	}
	return out
}

// Parent returns the directory containing p. The parent of a root is the
// root itself and the parent of a single relative segment is ".".
func (p Path) Parent() Path {
	head, _ := p.flavor.split(p.raw)
	return p.with(head)
}

// Ancestor goes up n directories.
func (p Path) Ancestor(n int) Path {
	out := p
	for range n {
		out = out.Parent()
	}
	return out
}

// Name returns the final component of p in its raw form.
func (p Path) Name() string {
	_, tail := p.flavor.split(p.raw)
	return tail
}

// NameText returns the final component of p as display text.
func (p Path) NameText() string {
	return Path{flavor: p.flavor, raw: p.Name()}.String()
}

// Stem returns the name of p without its extension.
func (p Path) Stem() string {
	stem, _ := splitExt(p.Name())
	return stem
}

// Ext returns the extension of p, including the leading dot. Leading dots
// of a name (".bashrc") don't start an extension.
func (p Path) Ext() string {
	_, ext := splitExt(p.Name())
	return ext
}

func splitExt(name string) (string, string) {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 {
		return name, ""
	}
	if strings.Trim(name[:dot], ".") == "" {
		return name, ""
	}
	return name[:dot], name[dot:]
}

// NormCase returns p with its case folded if the flavor is case-insensitive.
func (p Path) NormCase() Path {
	return p.with(p.flavor.normCase(p.raw))
}

// RelPathTo builds a relative path leading from p to dest. Relative inputs
// are assumed to start from the same directory.
//
// When the two paths don't share their first component and dest is
// absolute (different drives on Windows, or a relative p and an absolute
// dest) there is no relative form and dest is returned as-is.
func (p Path) RelPathTo(dest Part) (Path, error) {
	d, err := New(p.flavor, dest)
	if err != nil {
		return Path{}, err
	}

	orig := p.NormCase().components()
	dst := d.components()

	i := -1
	for j := 0; j < len(orig) && j < len(dst); j++ {
		i = j
		if orig[j] != p.flavor.normCase(dst[j]) {
			if j == 0 && d.IsAbsolute() {
				return d, nil
			}
			parts := make([]string, 0, len(orig)-j+len(dst)-j)
			for range len(orig) - j {
				parts = append(parts, "..")
			}
			return build(p.flavor, append(parts, dst[j:]...)), nil
		}
	}

	if len(orig) <= len(dst) {
		return build(p.flavor, dst[i+1:]), nil
	}
	up := make([]string, 0, len(orig)-i-1)
	for range len(orig) - i - 1 {
		up = append(up, "..")
	}
	return build(p.flavor, up), nil
}

// LiesUnder reports whether prefix is p or one of its ancestors, ignoring
// case where the flavor does. An empty (".") prefix contains every relative
// path.
func (p Path) LiesUnder(prefix Part) (bool, error) {
	pref, err := New(p.flavor, prefix)
	if err != nil {
		return false, err
	}
	orig := p.NormCase().components()
	prefs := pref.NormCase().components()
	if len(orig) < len(prefs) {
		return false, nil
	}
	for i := range prefs {
		if orig[i] != prefs[i] {
			return false, nil
		}
	}
	return true, nil
}
