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
	"html"
	"strings"
)

// InvalidMarker marks rules whose tokens are shown next to a decoded form.
const InvalidMarker = "invalid"

// 🏷️ Token is one collected token, decoded when its rule is an "invalid" rule
type Token struct {
	Raw     string `json:"raw" yaml:"raw" toml:"raw"`
	Decoded string `json:"decoded,omitempty" yaml:"decoded,omitempty" toml:"decoded,omitempty"`
}

// 📋 RuleTriage is the collection result for one rule
type RuleTriage struct {
	Rule    string  `json:"rule" yaml:"rule" toml:"rule"`
	Decoded bool    `json:"decoded" yaml:"decoded" toml:"decoded"`
	Tokens  []Token `json:"tokens" yaml:"tokens" toml:"tokens"`
}

// DecodeForDisplay reads a broken entity the way it was most likely meant:
// ':' standing in for ';', then HTML unescaped.
func DecodeForDisplay(token string) string {
	return html.UnescapeString(strings.ReplaceAll(token, ":", ";"))
}

// 🔎 Triage turns a MatchSet into per-rule sorted token lists, pairing tokens
// of "invalid" rules with their decoded form.
func Triage(ms MatchSet) []RuleTriage {
	out := make([]RuleTriage, 0, len(ms))
	for _, name := range ms.Rules() {
		decode := strings.Contains(name, InvalidMarker)
		toks := ms.Tokens(name)

		rt := RuleTriage{Rule: name, Decoded: decode, Tokens: make([]Token, 0, len(toks))}
		for _, tok := range toks {
			t := Token{Raw: tok}
			if decode {
				t.Decoded = DecodeForDisplay(tok)
			}
			rt.Tokens = append(rt.Tokens, t)
		}
		out = append(out, rt)
	}
	return out
}
