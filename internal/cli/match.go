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
	"chainguard.dev/pathkit/pkg/pattern"
)

func matchCmd() *cobra.Command {
	var showExpr, prefix bool

	cmd := &cobra.Command{
		Use:   "match PATTERN [PATH...]",
		Short: "Print the paths matching an extended glob",
		Long: `Print the paths matching an extended glob.

With --prefix, print the paths under which a match could exist instead.
Paths use the separator of the host and are treated as relative to the
directory a walk would start from.
`,
		Example: `  pathkit match '/usr/**/*.so' usr/lib/libc.so etc/passwd
  pathkit match --expr 'src/*.go'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return MatchCmd(cmd.OutOrStdout(), args[0], args[1:], showExpr, prefix)
		},
	}

	cmd.Flags().BoolVar(&showExpr, "expr", false, "print the start directory and the regular expressions the pattern compiles to")
	cmd.Flags().BoolVar(&prefix, "prefix", false, "print paths that may contain matches rather than matches")
	return cmd
}

func MatchCmd(out io.Writer, glob string, candidates []string, showExpr, prefix bool) error {
	p, err := pattern.Get(glob)
	if err != nil {
		return err
	}

	if showExpr {
		full, prune := p.Expr()
		if prune == "" {
			prune = "(none)"
		}
		if _, err := fmt.Fprintf(out, "start-dir: %q\nfull: %s\nprune: %s\n", p.StartDir(), full, prune); err != nil {
			return err
		}
	}

	test := p.Matches
	if prefix {
		test = p.MayContainMatches
	}
	for _, c := range candidates {
		if !test(paths.Text(c)) {
			continue
		}
		if _, err := fmt.Fprintln(out, c); err != nil {
			return err
		}
	}
	return nil
}
