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


package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema(t *testing.T) {
	b, err := schema("../../pkg/walk")
	require.NoError(t, err)

	var doc struct {
		Defs map[string]struct {
			Properties map[string]struct {
				Type        string `json:"type"`
				Description string `json:"description"`
			} `json:"properties"`
			Required             []string `json:"required"`
			AdditionalProperties bool     `json:"additionalProperties"`
		} `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))

	cfg, ok := doc.Defs["Configuration"]
	require.True(t, ok, "no Configuration definition in %s", b)
	assert.Equal(t, []string{"root"}, cfg.Required)
	assert.False(t, cfg.AdditionalProperties)
	for _, name := range []string{"root", "pattern", "bottom-up", "follow-links", "ignore-errors"} {
		assert.Contains(t, cfg.Properties, name)
	}
	assert.Equal(t, "boolean", cfg.Properties["follow-links"].Type)
	assert.Contains(t, cfg.Properties["follow-links"].Description, "symlinked")
}
