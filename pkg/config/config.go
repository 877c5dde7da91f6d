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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/entityfix/pkg/rule"
	"github.com/walteh/entityfix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for rule file parsers
type Parser interface {
	// 📝 Parse parses rule definitions from bytes, keeping file order
	Parse(ctx context.Context, data []byte) ([]rule.Definition, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🎯 Load reads a rule file and compiles its transformations in file order.
// Any failure is a configuration error and should abort the run.
func Load(ctx context.Context, path string) ([]*rule.Rule, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading transformation rules")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading rules file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	defs, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing rules file %s: %w", filepath.Base(path), err)
	}

	for i, def := range defs {
		if err := text.ValidateReplacements(def.Replacements); err != nil {
			return nil, errors.WithStack(&rule.ConfigError{Index: i, Rule: def.Name, Field: "replacements", Reason: err.Error()})
		}
	}

	rules, err := rule.Compile(defs)
	if err != nil {
		return nil, errors.Errorf("compiling rules from %s: %w", filepath.Base(path), err)
	}

	logger.Debug().Int("rules", len(rules)).Msg("transformation rules loaded")
	return rules, nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// orderReplacements lays out a decoded map following the key order seen in the
// file. Keys the order does not mention are appended sorted.
func orderReplacements(m map[string]string, order []string) []rule.Replacement {
	if len(m) == 0 {
		return nil
	}

	out := make([]rule.Replacement, 0, len(m))
	used := make(map[string]struct{}, len(m))
	for _, k := range order {
		v, ok := m[k]
		if !ok {
			continue
		}
		if _, dup := used[k]; dup {
			continue
		}
		used[k] = struct{}{}
		out = append(out, rule.Replacement{From: k, To: v})
	}

	if len(out) == len(m) {
		return out
	}

	rest := make([]string, 0, len(m)-len(out))
	for k := range m {
		if _, ok := used[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, rule.Replacement{From: k, To: m[k]})
	}
	return out
}
