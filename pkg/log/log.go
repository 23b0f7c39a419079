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

package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/chainguard-dev/clog/slag"
	charmlog "github.com/charmbracelet/log"
	"golang.org/x/term"

	"chainguard.dev/pathkit/pkg/iocomb"
)

// Level returns the level matching the CLI's -q and -v flags.
func Level(quiet bool, verbose int) slag.Level {
	switch {
	case quiet:
		return slag.Level(slog.LevelError)
	case verbose == 1:
		return slag.Level(slog.LevelDebug)
	case verbose > 1:
		return slag.Level(slog.LevelDebug - 1)
	default:
		return slag.Level(slog.LevelInfo)
	}
}

// Handler returns a handler writing to every target of logPolicy, and a
// function closing the files it opened. Records are rendered as text with
// timestamps on a terminal and as logfmt anywhere else.
func Handler(logPolicy []string, level slog.Level) (slog.Handler, func() error, error) {
	out, err := iocomb.Open(logPolicy)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log policy: %w", err)
	}
	return newHandler(out, isTerminal(out), level), out.Close, nil
}

func newHandler(w io.Writer, tty bool, level slog.Level) slog.Handler {
	opts := charmlog.Options{
		Level:           charmlog.Level(level),
		ReportTimestamp: tty,
		Formatter:       charmlog.TextFormatter,
	}
	if !tty {
		opts.Formatter = charmlog.LogfmtFormatter
	}
	return charmlog.NewWithOptions(w, opts)
}

func isTerminal(w *iocomb.Writer) bool {
	f, ok := w.Terminal()
	return ok && term.IsTerminal(int(f.Fd()))
}
