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
)

// 🧺 MatchSet accumulates the distinct tokens each rule matched during one run
type MatchSet map[string]map[string]struct{}

// NewMatchSet returns an empty accumulator.
func NewMatchSet() MatchSet {
	return MatchSet{}
}

// Add records tokens for a rule. Nothing is recorded when tokens is empty.
func (m MatchSet) Add(rule string, tokens ...string) {
	if len(tokens) == 0 {
		return
	}
	set, ok := m[rule]
	if !ok {
		set = make(map[string]struct{}, len(tokens))
		m[rule] = set
	}
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
}

// Merge folds other into m (set union) and returns m.
func (m MatchSet) Merge(other MatchSet) MatchSet {
	for rule, set := range other {
		for tok := range set {
			m.Add(rule, tok)
		}
	}
	return m
}

// Rules returns the names of rules with at least one token, sorted.
func (m MatchSet) Rules() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tokens returns the sorted tokens of one rule.
func (m MatchSet) Tokens(rule string) []string {
	set := m[rule]
	out := make([]string, 0, len(set))
	for tok := range set {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Sorted renders the set as rule name -> sorted tokens.
func (m MatchSet) Sorted() map[string][]string {
	out := make(map[string][]string, len(m))
	for name := range m {
		out[name] = m.Tokens(name)
	}
	return out
}

// Len counts tokens across all rules.
func (m MatchSet) Len() int {
	n := 0
	for _, set := range m {
		n += len(set)
	}
	return n
}
