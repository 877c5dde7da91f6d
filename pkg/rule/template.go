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
)

// 🔁 ConvertTemplate rewrites backslash group references (\1, \g<1>, \g<name>)
// into regexp.Expand syntax. Go-style references ($1, ${1}, ${name}, $$) pass
// through untouched, so "$USD" refers to a group named USD. Any other '$' is
// escaped so it stays literal; write "$$" for a literal dollar before a word.
func ConvertTemplate(tmpl string) string {
	if !strings.ContainsAny(tmpl, `\$`) {
		return tmpl
	}

	var b strings.Builder
	b.Grow(len(tmpl) + 8)

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '\\':
			if i+1 >= len(tmpl) {
				b.WriteByte(c)
				continue
			}
			next := tmpl[i+1]
			switch {
			case isDigit(next):
				j := i + 1
				for j < len(tmpl) && j < i+3 && isDigit(tmpl[j]) {
					j++
				}
				b.WriteString("${" + tmpl[i+1:j] + "}")
				i = j - 1
			case next == 'g' && i+2 < len(tmpl) && tmpl[i+2] == '<':
				end := strings.IndexByte(tmpl[i+3:], '>')
				if end < 0 {
					b.WriteByte(c)
					continue
				}
				b.WriteString("${" + tmpl[i+3:i+3+end] + "}")
				i = i + 3 + end
			case next == '\\':
				b.WriteByte('\\')
				i++
			case next == 'n':
				b.WriteByte('\n')
				i++
			case next == 't':
				b.WriteByte('\t')
				i++
			default:
				b.WriteByte(c)
			}
		case '$':
			if i+1 < len(tmpl) && (tmpl[i+1] == '$' || tmpl[i+1] == '{' || isNameByte(tmpl[i+1])) {
				b.WriteByte(c)
				if tmpl[i+1] == '$' {
					b.WriteByte('$')
					i++
				}
				continue
			}
			b.WriteString("$$")
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameByte(c byte) bool {
	return isDigit(c) || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
