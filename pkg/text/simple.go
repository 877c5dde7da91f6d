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
// Package text applies ordered literal replacements to a string.
package text

import (
	"strings"

	"github.com/walteh/entityfix/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// ReplacementResult is the outcome of applying replacements to one string
type ReplacementResult struct {
	Original         string
	Modified         string
	ReplacementCount int
	WasModified      bool
}

// 🔁 Replace applies each replacement in order, every occurrence at a time,
// each one seeing the output of the previous. Empty From values are skipped.
func Replace(content string, reps []rule.Replacement) ReplacementResult {
	result := ReplacementResult{
		Original: content,
		Modified: content,
	}

	current := content
	for _, rep := range reps {
		if rep.From == "" {
			continue
		}

		n := strings.Count(current, rep.From)
		if n == 0 {
			continue
		}

		next := strings.ReplaceAll(current, rep.From, rep.To)
		if next != current {
			result.WasModified = true
		}
		result.ReplacementCount += n
		current = next
	}

	result.Modified = current
	return result
}

// ValidateReplacements rejects replacements without a From value.
func ValidateReplacements(reps []rule.Replacement) error {
	for i, rep := range reps {
		if rep.From == "" {
			return errors.Errorf("replacement %d: from is required", i)
		}
	}
	return nil
}
