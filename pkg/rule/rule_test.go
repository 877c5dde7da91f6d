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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func ptr(s string) *string {
	return &s
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name      string
		defs      []Definition
		wantField string
		wantError string
		check     func(t *testing.T, rules []*Rule)
	}{
		{
			name: "valid_rules_keep_order",
			defs: []Definition{
				{
					Name:               "invalid html entities",
					SearchPattern:      ptr(`(&[a-z]+:)`),
					ReplacementPattern: ptr(`\1`),
					Replacements:       []Replacement{{From: ":", To: ";"}},
					PostProcess:        "html.unescape",
					Exceptions:         []string{"&nbsp;"},
				},
				{
					Name:               "fix En:yyyy standard",
					SearchPattern:      ptr(`(EN\s?\d+):(\d{4})`),
					ReplacementPattern: ptr(`$1:$2`),
				},
			},
			check: func(t *testing.T, rules []*Rule) {
				require.Len(t, rules, 2)
				assert.Equal(t, "invalid html entities", rules[0].Name)
				assert.Equal(t, "fix En:yyyy standard", rules[1].Name)
				assert.Equal(t, "${1}", rules[0].Template)
				assert.True(t, rules[0].IsException("&nbsp;"))
				assert.False(t, rules[1].IsException("&nbsp;"))
				assert.Empty(t, rules[1].Replacements)
				assert.Equal(t, "&", rules[0].PostProcessFunc()("&amp;"))
				assert.Equal(t, "&amp;", rules[1].PostProcessFunc()("&amp;"))
			},
		},
		{
			name:      "missing_name",
			defs:      []Definition{{SearchPattern: ptr(`(a)`), ReplacementPattern: ptr(`b`)}},
			wantField: "name",
			wantError: "is required",
		},
		{
			name: "duplicate_name",
			defs: []Definition{
				{Name: "a", SearchPattern: ptr(`(a)`), ReplacementPattern: ptr(`b`)},
				{Name: "a", SearchPattern: ptr(`(a)`), ReplacementPattern: ptr(`b`)},
			},
			wantField: "name",
			wantError: "is not unique",
		},
		{
			name:      "missing_search_pattern",
			defs:      []Definition{{Name: "a", ReplacementPattern: ptr(`b`)}},
			wantField: "search_pattern",
			wantError: "is required",
		},
		{
			name:      "missing_replacement_pattern",
			defs:      []Definition{{Name: "a", SearchPattern: ptr(`(a)`)}},
			wantField: "replacement_pattern",
			wantError: "is required",
		},
		{
			name:      "uncompilable_pattern",
			defs:      []Definition{{Name: "a", SearchPattern: ptr(`(a`), ReplacementPattern: ptr(`b`)}},
			wantField: "search_pattern",
			wantError: "missing closing )",
		},
		{
			name:      "no_capture_group",
			defs:      []Definition{{Name: "a", SearchPattern: ptr(`a+`), ReplacementPattern: ptr(`b`)}},
			wantField: "search_pattern",
			wantError: "at least one capture group",
		},
		{
			name: "empty_replacement_pattern_is_allowed",
			defs: []Definition{{Name: "drop", SearchPattern: ptr(`(x)`), ReplacementPattern: ptr(``)}},
			check: func(t *testing.T, rules []*Rule) {
				require.Len(t, rules, 1)
				assert.Equal(t, "", rules[0].Template)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := Compile(tt.defs)

			if tt.wantError != "" {
				require.Error(t, err)
				var cfgErr *ConfigError
				require.True(t, errors.As(err, &cfgErr), "error should be a ConfigError")
				assert.Equal(t, tt.wantField, cfgErr.Field)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			tt.check(t, rules)
		})
	}
}

func TestCompileDoesNotAliasReplacements(t *testing.T) {
	defs := []Definition{{
		Name:               "a",
		SearchPattern:      ptr(`(a)`),
		ReplacementPattern: ptr(`b`),
		Replacements:       []Replacement{{From: "a", To: "b"}},
	}}

	rules, err := Compile(defs)
	require.NoError(t, err)

	defs[0].Replacements[0].To = "changed"
	assert.Equal(t, "b", rules[0].Replacements[0].To, "compiled rule should not share the definition's slice")
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Index: 3, Rule: "amp-fix", Field: "search_pattern", Reason: "is required"}
	assert.Equal(t, "rule 3 (amp-fix): search_pattern: is required", err.Error())

	err = &ConfigError{Index: 0, Field: "name", Reason: "is required"}
	assert.Equal(t, "rule 0: name: is required", err.Error())
}

func TestRuleString(t *testing.T) {
	rules, err := Compile([]Definition{{Name: "amp-fix", SearchPattern: ptr(`(&amp)`), ReplacementPattern: ptr(`&amp;`)}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rules[0].String(), "amp-fix: /(&amp)/"))
}
