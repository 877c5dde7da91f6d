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

package transform

import (
	"github.com/walteh/entityfix/pkg/rule"
)

// 🔍 Find returns the distinct capture group 1 tokens of every non-overlapping
// match of the rule's pattern, in order of first appearance. Matches where
// group 1 is empty or did not participate are ignored.
func Find(text string, r *rule.Rule) []string {
	if text == "" {
		return nil
	}

	locs := r.Pattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(locs))
	tokens := make([]string, 0, len(locs))
	for _, loc := range locs {
		if loc[2] < 0 || loc[3] <= loc[2] {
			continue
		}
		tok := text[loc[2]:loc[3]]
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}

	return tokens
}
