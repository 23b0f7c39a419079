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

// Package walk lists directory trees lazily.
//
// A walk yields full paths, root included in each of them, but patterns
// and filters see paths relative to the root. Symlinked directories are
// only entered on request, and then each real directory is listed once,
// so a link back to an ancestor can't make a walk loop.
package walk

import (
	"context"
	"fmt"
	"iter"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chainguard.dev/pathkit/pkg/fs"
	"chainguard.dev/pathkit/pkg/paths"
	"chainguard.dev/pathkit/pkg/version"
)

var tracer = otel.Tracer("chainguard.dev/pathkit/pkg/walk", trace.WithInstrumentationVersion(version.Version()))

// Walk returns the entries under root. The sequence stops at the first
// error it yields; entries yielded before it remain valid.
//
//	for p, err := range walk.Walk(ctx, root, walk.WithGlob("**/*.go")) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(p)
//	}
func Walk(ctx context.Context, root paths.Path, opts ...Option) iter.Seq2[paths.Path, error] {
	return func(yield func(paths.Path, error) bool) {
		o, err := buildOptions(opts)
		if err != nil {
			yield(paths.Path{}, err)
			return
		}

		ctx, span := tracer.Start(ctx, "Walk")
		defer span.End()
		span.SetAttributes(attribute.String("root", root.String()))

		w := &walker{
			ctx:      ctx,
			opts:     o,
			provider: o.provider,
			seen:     map[string]struct{}{},
			yield:    yield,
		}
		w.run(root)
	}
}

// walker holds the state of one walk. seen holds the canonical keys of
// the directories already listed and is only used when following links.
type walker struct {
	ctx      context.Context
	opts     *options
	provider fs.Provider
	seen     map[string]struct{}
	yield    func(paths.Path, error) bool
}

func (w *walker) run(root paths.Path) {
	if root.IsZero() || !paths.SameFamily(root.Flavor(), w.provider.Flavor()) {
		w.yield(paths.Path{}, fmt.Errorf("walk %#v: %w: not a %s path", root, paths.ErrInvalidArgument, w.provider.Flavor().Name()))
		return
	}
	if err := checkDir(w.provider, root); err != nil {
		w.yield(paths.Path{}, err)
		return
	}

	dir, rel := root, paths.MustNew(root.Flavor())
	if start := w.opts.startDir(); start != "" {
		rel = paths.MustNew(root.Flavor(), paths.Text(start))
		dir = root.MustJoin(rel)
		if !w.provider.Exists(dir) {
			clog.FromContext(w.ctx).Debugf("start directory %s does not exist", dir)
			return
		}
		if !w.provider.IsDir(dir) {
			if w.opts.matches(rel) {
				w.yield(dir, nil)
			}
			return
		}
		if w.opts.topDown && w.opts.matches(rel) && !w.yield(dir, nil) {
			return
		}
		if !w.visit(dir, rel) {
			return
		}
		if !w.opts.topDown && w.opts.matches(rel) {
			w.yield(dir, nil)
		}
		return
	}
	w.visit(dir, rel)
}

// visit lists dir, relative path rel, and everything under it. It reports
// whether the walk should go on.
func (w *walker) visit(dir, rel paths.Path) bool {
	log := clog.FromContext(w.ctx)
	if err := w.ctx.Err(); err != nil {
		w.yield(paths.Path{}, err)
		return false
	}

	if w.opts.followLinks {
		canon, err := w.provider.ResolveCanonical(dir)
		if err != nil {
			return w.fail(dir, err)
		}
		if _, ok := w.seen[canon.Key()]; ok {
			log.Debugf("skipping %s: already listed as %s", dir, canon)
			return true
		}
		w.seen[canon.Key()] = struct{}{}
	}

	names, err := w.provider.ListChildren(dir)
	if err != nil {
		return w.fail(dir, err)
	}
	for _, name := range names {
		child := dir.MustJoin(paths.Native(name))
		childRel := rel.MustJoin(paths.Native(name))

		isDir := w.provider.IsDir(child) && (w.opts.followLinks || !w.provider.IsSymlink(child))
		matches := w.opts.matches(childRel)
		if !matches && !w.opts.mayContainMatches(childRel) {
			continue
		}

		if isDir && !w.opts.topDown && !w.visit(child, childRel) {
			return false
		}
		if matches && !w.yield(child, nil) {
			return false
		}
		if isDir && w.opts.topDown && !w.visit(child, childRel) {
			return false
		}
	}
	return true
}

// fail hands err to the error handler, if any, and reports whether the
// walk should go on.
func (w *walker) fail(dir paths.Path, err error) bool {
	if w.opts.onError != nil {
		herr := w.opts.onError(dir, err)
		if herr == nil {
			clog.FromContext(w.ctx).Debugf("skipping %s: %v", dir, err)
			return true
		}
		err = herr
	}
	w.yield(paths.Path{}, err)
	return false
}

func checkDir(p fs.Provider, dir paths.Path) error {
	if !p.Exists(dir) {
		return fmt.Errorf("walk %s: %w", dir, fs.ErrNotFound)
	}
	if !p.IsDir(dir) {
		return fmt.Errorf("walk %s: %w", dir, fs.ErrNotADirectory)
	}
	return nil
}

func (o *options) startDir() string {
	if o.pattern == nil {
		return ""
	}
	return o.pattern.StartDir()
}
