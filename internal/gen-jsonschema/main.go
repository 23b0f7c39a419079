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


// Command gen-jsonschema writes the JSON schema of walk configuration files.
package main

//go:generate go run . -o ../../pkg/walk/walk.schema.json

import (
	"bytes"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"chainguard.dev/pathkit/pkg/walk"
)

var (
	outputFlag = flag.String("o", "", "output path")
)

func main() {
	flag.Parse()

	if *outputFlag == "" {
		log.Fatal("output path is required")
	}

	b, err := schema("../../pkg/walk")
	if err != nil {
		log.Fatal(err)
	}
	//nolint:gosec  // gosec wants us to use 0600, but making this globally readable is preferred.
	if err := os.WriteFile(*outputFlag, b, 0644); err != nil {
		log.Fatal(err)
	}
}

// schema reflects walk.Configuration, taking descriptions from the
// comments of the sources in dir.
func schema(dir string) ([]byte, error) {
	r := new(jsonschema.Reflector)
	if err := r.AddGoComments("chainguard.dev/pathkit/pkg/walk", dir); err != nil {
		return nil, err
	}
	s := r.Reflect(walk.Configuration{})
	b := new(bytes.Buffer)
	enc := json.NewEncoder(b)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
