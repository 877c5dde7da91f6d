// Copyright 2025 walteh LLC
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

package config

import (
	"bytes"
	"context"
	"io"

	"github.com/walteh/entityfix/pkg/rule"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(&YAMLParser{})
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

// 📄 document is the shape shared by the YAML and JSON rule files
type document struct {
	Transformations []documentRule `json:"transformations" yaml:"transformations"`
}

type documentRule struct {
	Name                  string              `json:"name" yaml:"name"`
	SearchPattern         *string             `json:"search_pattern" yaml:"search_pattern"`
	ReplacementPattern    *string             `json:"replacement_pattern" yaml:"replacement_pattern"`
	Replacements          orderedReplacements `json:"replacements,omitempty" yaml:"replacements,omitempty"`
	PostProcess           string              `json:"post_process,omitempty" yaml:"post_process,omitempty"`
	PostProcessExceptions []string            `json:"post_process_exceptions,omitempty" yaml:"post_process_exceptions,omitempty"`
}

// 🔄 orderedReplacements decodes a string map keeping its key order
type orderedReplacements []rule.Replacement

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *orderedReplacements) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return errors.Errorf("line %d: replacements must be a mapping", value.Line)
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		var from, to string
		if err := value.Content[i].Decode(&from); err != nil {
			return errors.Errorf("decoding replacement key: %w", err)
		}
		if err := value.Content[i+1].Decode(&to); err != nil {
			return errors.Errorf("decoding replacement value for %q: %w", from, err)
		}
		*o = append(*o, rule.Replacement{From: from, To: to})
	}
	return nil
}

func (d document) definitions() []rule.Definition {
	defs := make([]rule.Definition, 0, len(d.Transformations))
	for _, tr := range d.Transformations {
		defs = append(defs, rule.Definition{
			Name:               tr.Name,
			SearchPattern:      tr.SearchPattern,
			ReplacementPattern: tr.ReplacementPattern,
			Replacements:       []rule.Replacement(tr.Replacements),
			PostProcess:        tr.PostProcess,
			Exceptions:         tr.PostProcessExceptions,
		})
	}
	return defs
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	return hasExt(filename, ".yaml", ".yml")
}

// 📝 Parse parses rule definitions from YAML
func (p *YAMLParser) Parse(ctx context.Context, data []byte) ([]rule.Definition, error) {
	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return doc.definitions(), nil
}
