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

package rule

import (
	"fmt"
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// 🔄 Replacement is a literal substitution applied to a matched token
type Replacement struct {
	From string // Literal text to look for
	To   string // Literal text to put in its place
}

// 📄 Definition is a transformation rule as it appears in a config file
type Definition struct {
	Name               string
	SearchPattern      *string
	ReplacementPattern *string
	Replacements       []Replacement
	PostProcess        string
	Exceptions         []string
}

// 📏 Rule is a compiled, read-only transformation rule
type Rule struct {
	Name         string
	Pattern      *regexp.Regexp
	Template     string
	Replacements []Replacement
	PostProcess  string
	Exceptions   map[string]struct{}
}

// 🚨 ConfigError reports a rule that cannot be loaded
type ConfigError struct {
	Index  int    // Position of the rule in the config file
	Rule   string // Rule name, when known
	Field  string // Offending field
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("rule %d: %s: %s", e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("rule %d (%s): %s: %s", e.Index, e.Rule, e.Field, e.Reason)
}

// 🏭 Compile validates definitions and compiles them into rules, keeping their order
func Compile(defs []Definition) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(defs))
	seen := make(map[string]struct{}, len(defs))

	for i, def := range defs {
		if def.Name == "" {
			return nil, errors.WithStack(&ConfigError{Index: i, Field: "name", Reason: "is required"})
		}
		if _, dup := seen[def.Name]; dup {
			return nil, errors.WithStack(&ConfigError{Index: i, Rule: def.Name, Field: "name", Reason: "is not unique"})
		}
		seen[def.Name] = struct{}{}

		r, err := compileOne(i, def)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	return rules, nil
}

func compileOne(i int, def Definition) (*Rule, error) {
	if def.SearchPattern == nil {
		return nil, errors.WithStack(&ConfigError{Index: i, Rule: def.Name, Field: "search_pattern", Reason: "is required"})
	}
	if def.ReplacementPattern == nil {
		return nil, errors.WithStack(&ConfigError{Index: i, Rule: def.Name, Field: "replacement_pattern", Reason: "is required"})
	}

	pattern, err := regexp.Compile(*def.SearchPattern)
	if err != nil {
		return nil, errors.WithStack(&ConfigError{Index: i, Rule: def.Name, Field: "search_pattern", Reason: err.Error()})
	}
	if pattern.NumSubexp() < 1 {
		return nil, errors.WithStack(&ConfigError{Index: i, Rule: def.Name, Field: "search_pattern", Reason: "needs at least one capture group"})
	}

	exceptions := make(map[string]struct{}, len(def.Exceptions))
	for _, e := range def.Exceptions {
		exceptions[e] = struct{}{}
	}

	replacements := make([]Replacement, len(def.Replacements))
	copy(replacements, def.Replacements)

	return &Rule{
		Name:         def.Name,
		Pattern:      pattern,
		Template:     ConvertTemplate(*def.ReplacementPattern),
		Replacements: replacements,
		PostProcess:  def.PostProcess,
		Exceptions:   exceptions,
	}, nil
}

// 🔍 IsException reports whether post-processing must be skipped for s
func (r *Rule) IsException(s string) bool {
	_, ok := r.Exceptions[s]
	return ok
}

// 🎯 PostProcessFunc returns the registered post-processor for this rule
func (r *Rule) PostProcessFunc() PostProcessFunc {
	return LookupPostProcess(r.PostProcess)
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s: /%s/ -> %q", r.Name, r.Pattern.String(), r.Template)
}
