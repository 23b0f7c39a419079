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
	"context"
	"fmt"

	"chainguard.dev/pathkit/pkg/paths"
)

// ListDirectory returns the entries of dir, without recursing. Patterns
// and filters see the bare names, so a pattern with more than one segment
// matches nothing. Order, links and error handler options don't apply.
func ListDirectory(ctx context.Context, dir paths.Path, opts ...Option) ([]paths.Path, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "ListDirectory")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dir.IsZero() || !paths.SameFamily(dir.Flavor(), o.provider.Flavor()) {
		return nil, fmt.Errorf("list %#v: %w: not a %s path", dir, paths.ErrInvalidArgument, o.provider.Flavor().Name())
	}

	names, err := o.provider.ListChildren(dir)
	if err != nil {
		return nil, err
	}
	out := make([]paths.Path, 0, len(names))
	for _, name := range names {
		if !o.matches(paths.MustNew(dir.Flavor(), paths.Native(name))) {
			continue
		}
		out = append(out, dir.MustJoin(paths.Native(name)))
	}
	return out, nil
}
