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
	"log/slog"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"

	"chainguard.dev/pathkit/pkg/iocomb"
	"chainguard.dev/pathkit/pkg/log"
)

func New() *cobra.Command {
	var workDir string
	var logPolicy []string
	var quiet bool
	var verbose int
	closeLog := func() error { return nil }

	cmd := &cobra.Command{
		Use:               "pathkit",
		Short:             "Match and walk paths with extended globs",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if workDir != "" {
				if err := os.Chdir(workDir); err != nil {
					return fmt.Errorf("failed to change dir to %s: %w", workDir, err)
				}
			}

			h, c, err := log.Handler(logPolicy, slog.Level(log.Level(quiet, verbose)))
			if err != nil {
				return err
			}
			closeLog = c
			slog.SetDefault(slog.New(h))
			cmd.SetContext(clog.WithLogger(cmd.Context(), clog.New(h)))
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return closeLog()
		},
	}

	cmd.AddCommand(walkCmd())
	cmd.AddCommand(lsCmd())
	cmd.AddCommand(matchCmd())
	cmd.AddCommand(relpathCmd())
	cmd.AddCommand(version.Version())

	cmd.PersistentFlags().StringVarP(&workDir, "workdir", "C", "", "working dir (default is current dir where executed)")
	cmd.PersistentFlags().StringSliceVar(&logPolicy, "log-policy", iocomb.DefaultPolicy, "log policy (e.g. builtin:stderr, /tmp/log/foo)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	cmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "log more (can be specified twice)")
	return cmd
}
