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

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"chainguard.dev/pathkit/pkg/paths"
	"chainguard.dev/pathkit/pkg/syspath"
	"chainguard.dev/pathkit/pkg/walk"
)

func lsCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "ls [DIR]",
		Short: "List the entries of a directory",
		Long: `List the entries of a directory, directories with a trailing separator.

The pattern is matched against the entry names, so a pattern with more than
one segment never matches.
`,
		Example: `  pathkit ls /etc --pattern '*.conf'`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return LsCmd(cmd.Context(), cmd.OutOrStdout(), dir, pattern)
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "extended glob names must match")
	return cmd
}

func LsCmd(ctx context.Context, out io.Writer, dir, pattern string) error {
	d, err := syspath.New(paths.Text(dir))
	if err != nil {
		return err
	}
	var opts []walk.Option
	if pattern != "" {
		opts = append(opts, walk.WithGlob(pattern))
	}

	entries, err := d.ListDir(ctx, opts...)
	if err != nil {
		return err
	}
	// Case-insensitive flavors sort by folded name.
	slices.SortFunc(entries, func(a, b syspath.Path) int {
		c, _ := a.Compare(b.Path)
		return c
	})

	for _, e := range entries {
		name := e.NameText()
		if e.IsDir() {
			name += e.Flavor().Separator()
		}
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}
