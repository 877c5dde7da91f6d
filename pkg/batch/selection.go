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

package batch

import (
	"sort"

	"github.com/walteh/entityfix/pkg/rule"
)

// All selects every rule.
const All = "all"

// 🎛️ Selection decides which rules take part in a run
type Selection struct {
	names map[string]struct{}
	all   bool
}

// Select builds a selection from rule names. No names, or the name "all",
// selects every rule.
func Select(names ...string) Selection {
	s := Selection{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n == All {
			s.all = true
		}
		s.names[n] = struct{}{}
	}
	if len(names) == 0 {
		s.all = true
	}
	return s
}

// Applies reports whether the named rule is selected.
func (s Selection) Applies(name string) bool {
	if s.all || s.names == nil {
		return true
	}
	_, ok := s.names[name]
	return ok
}

// IsAll reports whether every rule is selected.
func (s Selection) IsAll() bool {
	return s.all || s.names == nil
}

// Filter returns the selected rules in their configured order.
func (s Selection) Filter(rules []*rule.Rule) []*rule.Rule {
	out := make([]*rule.Rule, 0, len(rules))
	for _, r := range rules {
		if s.Applies(r.Name) {
			out = append(out, r)
		}
	}
	return out
}

// Unknown lists requested names that match none of rules, sorted.
func (s Selection) Unknown(rules []*rule.Rule) []string {
	known := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		known[r.Name] = struct{}{}
	}
	var out []string
	for n := range s.names {
		if n == All {
			continue
		}
		if _, ok := known[n]; !ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
