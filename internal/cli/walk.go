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


package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"chainguard.dev/pathkit/pkg/fs"
	"chainguard.dev/pathkit/pkg/syspath"
	"chainguard.dev/pathkit/pkg/walk"
)

func walkCmd() *cobra.Command {
	var flags walk.Configuration
	var configFile, chroot string

	cmd := &cobra.Command{
		Use:   "walk [DIR...]",
		Short: "List the trees under directories",
		Long: `List the trees under directories, one path per line.

Without a directory the root of the configuration file is walked, or the
current directory. Flags given on the command line override the
configuration file.

With --chroot, directories name paths inside that directory and symlinks
are resolved as if it were the root, as in a container image filesystem.
`,
		Example: `  pathkit walk . --pattern '**/*.go'
  pathkit walk --config walk.yaml
  pathkit walk --chroot ./rootfs /usr/lib --follow-links`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg walk.Configuration
			if configFile != "" {
				if err := cfg.Load(configFile); err != nil {
					return err
				}
			}
			mergeWalkFlags(cmd, flags, &cfg)

			roots := args
			switch {
			case len(roots) > 0:
			case cfg.Root != "":
				roots = []string{cfg.Root}
			default:
				roots = []string{"."}
			}
			provider := fs.OS()
			if chroot != "" {
				provider = fs.Dir(chroot)
			}
			return WalkCmd(cmd.Context(), cmd.OutOrStdout(), provider, roots, cfg)
		},
	}

	addWalkFlags(cmd, &flags)
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "walk configuration file (YAML)")
	cmd.Flags().StringVar(&chroot, "chroot", "", "directory to treat as the root of the filesystem")
	return cmd
}

// WalkCmd walks every root of provider concurrently with the settings of
// cfg, its root aside, and prints the results in the order of roots.
func WalkCmd(ctx context.Context, out io.Writer, provider fs.Provider, roots []string, cfg walk.Configuration) error {
	log := clog.FromContext(ctx)
	results := make([][]string, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, root := range roots {
		g.Go(func() error {
			c := cfg
			c.Root = root
			if err := c.Validate(); err != nil {
				return err
			}
			rp, err := c.RootPath(provider.Flavor())
			if err != nil {
				return err
			}
			dir, err := syspath.Bind(provider, rp)
			if err != nil {
				return err
			}

			log.Debugf("walking %s", dir)
			for p, err := range dir.RecurseDir(ctx, c.Options(ctx)...) {
				if err != nil {
					return fmt.Errorf("walking %s: %w", root, err)
				}
				results[i] = append(results[i], p.String())
			}
			log.Debugf("found %d entries under %s", len(results[i]), dir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, lines := range results {
		for _, l := range lines {
			if _, err := fmt.Fprintln(out, l); err != nil {
				return err
			}
		}
	}
	return nil
}
