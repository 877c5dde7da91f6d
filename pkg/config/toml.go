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
	"context"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/walteh/entityfix/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&TOMLParser{})
}

// 🔧 TOMLParser reads an array of [[transformations]] tables
type TOMLParser struct{}

type tomlRule struct {
	Name                  string            `toml:"name"`
	SearchPattern         *string           `toml:"search_pattern"`
	ReplacementPattern    *string           `toml:"replacement_pattern"`
	Replacements          map[string]string `toml:"replacements"`
	PostProcess           string            `toml:"post_process"`
	PostProcessExceptions []string          `toml:"post_process_exceptions"`
}

type tomlDocument struct {
	Transformations []tomlRule `toml:"transformations"`
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *TOMLParser) CanParse(filename string) bool {
	return hasExt(filename, ".toml")
}

// 📝 Parse parses rule definitions from TOML
func (p *TOMLParser) Parse(ctx context.Context, data []byte) ([]rule.Definition, error) {
	var doc tomlDocument
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errors.Errorf("parsing TOML: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("parsing TOML: unknown key %q", undecoded[0].String())
	}

	// the decoded maps lose their order, recover it from the key metadata
	order := make([][]string, len(doc.Transformations))
	idx := -1
	for _, key := range md.Keys() {
		switch {
		case len(key) == 1 && key[0] == "transformations":
			idx++
		case len(key) == 3 && key[0] == "transformations" && key[1] == "replacements":
			if idx >= 0 && idx < len(order) {
				order[idx] = append(order[idx], key[2])
			}
		}
	}

	defs := make([]rule.Definition, 0, len(doc.Transformations))
	for i, tr := range doc.Transformations {
		if len(order[i]) < len(tr.Replacements) {
			zerolog.Ctx(ctx).Debug().Str("rule", tr.Name).Msg("replacement order not recoverable, falling back to sorted keys")
		}
		defs = append(defs, rule.Definition{
			Name:               tr.Name,
			SearchPattern:      tr.SearchPattern,
			ReplacementPattern: tr.ReplacementPattern,
			Replacements:       orderReplacements(tr.Replacements, order[i]),
			PostProcess:        tr.PostProcess,
			Exceptions:         tr.PostProcessExceptions,
		})
	}

	return defs, nil
}
