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
	"github.com/spf13/cobra"

	"chainguard.dev/pathkit/pkg/walk"
)

// addWalkFlags binds the walk configuration to flags.
func addWalkFlags(cmd *cobra.Command, cfg *walk.Configuration) {
	cmd.Flags().StringVarP(&cfg.Pattern, "pattern", "p", "", "extended glob entries must match, relative to the root")
	cmd.Flags().BoolVar(&cfg.BottomUp, "bottom-up", false, "list directories after their contents")
	cmd.Flags().BoolVarP(&cfg.FollowLinks, "follow-links", "L", false, "enter symlinked directories")
	cmd.Flags().BoolVar(&cfg.IgnoreErrors, "ignore-errors", false, "skip unreadable directories instead of failing")
}

// mergeWalkFlags copies the flags set on the command line over cfg.
func mergeWalkFlags(cmd *cobra.Command, flags walk.Configuration, cfg *walk.Configuration) {
	if cmd.Flags().Changed("pattern") {
		cfg.Pattern = flags.Pattern
	}
	if cmd.Flags().Changed("bottom-up") {
		cfg.BottomUp = flags.BottomUp
	}
	if cmd.Flags().Changed("follow-links") {
		cfg.FollowLinks = flags.FollowLinks
	}
	if cmd.Flags().Changed("ignore-errors") {
		cfg.IgnoreErrors = flags.IgnoreErrors
	}
}
