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
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Markup is a space separated list of style words, e.g. "bold u red"
type Markup string

// Markers used by Apply when highlighting.
const (
	MatchMarkup       Markup = "bold u red"
	ReplacementMarkup Markup = "bold u green"
)

// styleAttrs maps every style word the highlighter understands to a terminal attribute
var styleAttrs = map[string]color.Attribute{
	"bold":      color.Bold,
	"dim":       color.Faint,
	"italic":    color.Italic,
	"u":         color.Underline,
	"underline": color.Underline,
	"blink":     color.BlinkSlow,
	"reverse":   color.ReverseVideo,
	"strike":    color.CrossedOut,
	"black":     color.FgBlack,
	"red":       color.FgRed,
	"green":     color.FgGreen,
	"yellow":    color.FgYellow,
	"blue":      color.FgBlue,
	"magenta":   color.FgMagenta,
	"cyan":      color.FgCyan,
	"white":     color.FgWhite,
}

// tagPattern matches an opening or closing tag made only of known style words
var tagPattern = func() *regexp.Regexp {
	words := make([]string, 0, len(styleAttrs))
	for w := range styleAttrs {
		words = append(words, regexp.QuoteMeta(w))
	}
	word := `(?:` + strings.Join(words, "|") + `)`
	return regexp.MustCompile(`\[(/?)(` + word + `(?: +` + word + `)*)\]`)
}()

// NewMarkup accepts "bold red" as well as "[bold red]".
func NewMarkup(s string) Markup {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	return Markup(strings.Join(strings.Fields(s), " "))
}

// Open returns the opening tag.
func (m Markup) Open() string {
	return "[" + string(NewMarkup(string(m))) + "]"
}

// Close returns the closing tag.
func (m Markup) Close() string {
	return "[/" + string(NewMarkup(string(m))) + "]"
}

// Wrap surrounds s with the opening and closing tags.
func (m Markup) Wrap(s string) string {
	return m.Open() + s + m.Close()
}

func (m Markup) attrs() []color.Attribute {
	var attrs []color.Attribute
	for _, w := range strings.Fields(string(m)) {
		if a, ok := styleAttrs[w]; ok {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// 🧹 StripMarkup removes highlight tags and returns the plain content.
// Bracketed text that is not made of style words ("[1]", "[see note]") is kept.
func StripMarkup(text string) string {
	if !strings.Contains(text, "[") {
		return text
	}
	return tagPattern.ReplaceAllString(text, "")
}

// 🖌️ Render converts highlight tags into terminal escape sequences
func Render(text string) string {
	locs := tagPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var (
		b      strings.Builder
		stack  []Markup
		cursor int
	)

	write := func(seg string) {
		if seg == "" {
			return
		}
		if len(stack) == 0 {
			b.WriteString(seg)
			return
		}
		var attrs []color.Attribute
		for _, m := range stack {
			attrs = append(attrs, m.attrs()...)
		}
		b.WriteString(color.New(attrs...).Sprint(seg))
	}

	for _, loc := range locs {
		write(text[cursor:loc[0]])
		cursor = loc[1]

		closing := loc[3] > loc[2]
		if !closing {
			stack = append(stack, Markup(text[loc[4]:loc[5]]))
			continue
		}
		if len(stack) > 0 {
			stack = stack[:len(stack)-1]
		}
	}
	write(text[cursor:])

	return b.String()
}
