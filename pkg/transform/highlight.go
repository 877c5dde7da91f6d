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
	"strings"
)

// 🔦 Highlight wraps every non-overlapping occurrence of target in markup tags.
// Occurrences that overlap an existing tag are left alone.
func Highlight(text, target string, markup Markup) string {
	return replaceOutsideTags(text, target, markup.Wrap(target))
}

// replaceOutsideTags replaces every non-overlapping occurrence of target with
// replacement, scanning left to right and never touching markup tags.
func replaceOutsideTags(text, target, replacement string) string {
	if target == "" || !strings.Contains(text, target) {
		return text
	}

	tags := tagPattern.FindAllStringIndex(text, -1)
	if len(tags) == 0 {
		return strings.ReplaceAll(text, target, replacement)
	}

	var b strings.Builder
	b.Grow(len(text))

	cursor, next := 0, 0
	for cursor < len(text) {
		idx := strings.Index(text[cursor:], target)
		if idx < 0 {
			break
		}
		start := cursor + idx
		end := start + len(target)

		for next < len(tags) && tags[next][1] <= start {
			next++
		}
		if next < len(tags) && tags[next][0] < end {
			// the occurrence runs into a tag, resume after it
			b.WriteString(text[cursor:tags[next][1]])
			cursor = tags[next][1]
			continue
		}

		b.WriteString(text[cursor:start])
		b.WriteString(replacement)
		cursor = end
	}
	b.WriteString(text[cursor:])

	return b.String()
}
