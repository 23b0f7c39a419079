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

package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	for _, tc := range []struct {
		name string
		bi   debug.BuildInfo
		want string
	}{{
		name: "main module",
		bi:   debug.BuildInfo{Main: debug.Module{Path: modulePath, Version: "v0.3.0"}},
		want: "v0.3.0",
	}, {
		name: "dependency",
		bi: debug.BuildInfo{
			Main: debug.Module{Path: "example.com/tool"},
			Deps: []*debug.Module{{Path: "golang.org/x/text", Version: "v0.20.0"}, {Path: modulePath, Version: "v0.2.1"}},
		},
		want: "v0.2.1",
	}, {
		name: "replaced",
		bi: debug.BuildInfo{
			Main: debug.Module{Path: "example.com/tool"},
			Deps: []*debug.Module{{Path: modulePath, Version: "v0.2.1", Replace: &debug.Module{Path: "example.com/fork", Version: "v0.2.2"}}},
		},
		want: "v0.2.2",
	}, {
		name: "absent",
		bi:   debug.BuildInfo{Main: debug.Module{Path: "example.com/tool"}},
		want: "unknown",
	}} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fromBuildInfo(&tc.bi))
		})
	}
	assert.NotEmpty(t, Version())
}
