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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chainguard-dev/clog"
	"gopkg.in/yaml.v3"

	"chainguard.dev/pathkit/pkg/paths"
)

// Configuration describes a walk in a YAML or JSON file.
type Configuration struct {
	// Required: The directory to walk
	Root string `json:"root"`
	// Optional: An extended glob entries must match
	Pattern string `json:"pattern,omitempty"`
	// Optional: List directories after their contents
	BottomUp bool `json:"bottom-up,omitempty" yaml:"bottom-up"`
	// Optional: Enter symlinked directories
	FollowLinks bool `json:"follow-links,omitempty" yaml:"follow-links"`
	// Optional: Skip unreadable directories instead of failing
	IgnoreErrors bool `json:"ignore-errors,omitempty" yaml:"ignore-errors"`
}

// Load reads a configuration file. Unknown keys are rejected.
func (c *Configuration) Load(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read walk configuration file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse walk configuration: %w", err)
	}
	return c.Validate()
}

// Validate checks that the configuration can be used.
func (c *Configuration) Validate() error {
	if c.Root == "" {
		return errors.New("walk configuration: root is required")
	}
	return nil
}

// RootPath returns Root as a path of flavor f.
func (c *Configuration) RootPath(f paths.Flavor) (paths.Path, error) {
	return paths.New(f, paths.Text(c.Root))
}

// Options turns the configuration into walk options. Skipped directories
// are logged through the logger in ctx.
func (c *Configuration) Options(ctx context.Context) []Option {
	opts := []Option{
		WithTopDown(!c.BottomUp),
		WithFollowLinks(c.FollowLinks),
	}
	if c.Pattern != "" {
		opts = append(opts, WithGlob(c.Pattern))
	}
	if c.IgnoreErrors {
		log := clog.FromContext(ctx)
		opts = append(opts, WithErrorHandler(func(dir paths.Path, err error) error {
			log.Warnf("skipping %s: %v", dir, err)
			return nil
		}))
	}
	return opts
}
