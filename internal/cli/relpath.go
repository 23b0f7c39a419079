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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"chainguard.dev/pathkit/pkg/paths"
	"chainguard.dev/pathkit/pkg/syspath"
)

func relpathCmd() *cobra.Command {
	var flavor string

	cmd := &cobra.Command{
		Use:   "relpath FROM TO",
		Short: "Print a relative path leading from one path to another",
		Long: `Print a relative path leading from one path to another.

Host paths are made absolute first, so one may be relative and the other
absolute. Paths of other flavors are compared as they are, relative ones
starting from the same directory. When no relative path exists, TO is
printed normalized.
`,
		Example: `  pathkit relpath /usr/lib /usr/share/doc
  pathkit relpath --flavor windows 'C:\Users\me' 'c:\users\ME\Desktop'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RelpathCmd(cmd.OutOrStdout(), flavor, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&flavor, "flavor", "host", "path flavor: host, posix, darwin or windows")
	return cmd
}

func RelpathCmd(out io.Writer, flavor, from, to string) error {
	f, err := paths.FlavorByName(flavor)
	if err != nil {
		return err
	}

	var rel paths.Path
	if flavor == "" || flavor == "host" {
		src, err := syspath.New(paths.Text(from))
		if err != nil {
			return err
		}
		rel, err = src.RelPathTo(paths.Text(to))
		if err != nil {
			return err
		}
	} else {
		src, err := paths.New(f, paths.Text(from))
		if err != nil {
			return err
		}
		rel, err = src.RelPathTo(paths.Text(to))
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(out, rel)
	return err
}
