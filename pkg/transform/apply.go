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

	"github.com/walteh/entityfix/pkg/rule"
	"github.com/walteh/entityfix/pkg/text"
)

// 🔧 Rewrite computes the final replacement for one matched token: literal
// replacements in order, then the rule's template, then post-processing
// unless the substituted value is an exception.
func Rewrite(token string, r *rule.Rule) string {
	out := text.Replace(token, r.Replacements).Modified

	out = r.Pattern.ReplaceAllString(out, r.Template)

	if !r.IsException(out) {
		out = r.PostProcessFunc()(out)
	}
	return out
}

// 🎯 Apply runs a rule over text and returns the markup-free original together
// with the rewritten text. Every occurrence of a matched token is replaced,
// not only the matched span. Without matches it returns (text, text).
func Apply(text string, r *rule.Rule, highlight bool) (string, string) {
	normalized := StripMarkup(text)

	tokens := Find(normalized, r)
	if len(tokens) == 0 {
		return text, text
	}

	old, next := normalized, normalized
	for _, tok := range tokens {
		replacement := Rewrite(tok, r)

		if !highlight {
			next = strings.ReplaceAll(next, tok, replacement)
			continue
		}

		old = Highlight(old, tok, MatchMarkup)
		next = replaceOutsideTags(next, tok, ReplacementMarkup.Wrap(replacement))
	}

	return old, next
}

// 🧹 ApplyPlain rewrites every token the rule matches in text and returns the
// result. Unlike Apply it never strips highlight markup, so bracketed words
// in raw records survive untouched.
func ApplyPlain(text string, r *rule.Rule) string {
	for _, tok := range Find(text, r) {
		text = strings.ReplaceAll(text, tok, Rewrite(tok, r))
	}
	return text
}

// Changed reports whether Apply rewrote anything, ignoring highlight markup.
func Changed(old, next string) bool {
	return StripMarkup(old) != StripMarkup(next)
}
