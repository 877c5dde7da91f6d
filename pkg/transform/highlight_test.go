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
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		target string
		markup Markup
		want   string
	}{
		{
			name:   "target_absent",
			text:   "hello",
			target: "x",
			markup: "red",
			want:   "hello",
		},
		{
			name:   "empty_target",
			text:   "hello",
			target: "",
			markup: "red",
			want:   "hello",
		},
		{
			name:   "every_occurrence",
			text:   "a&b&c",
			target: "&",
			markup: "red",
			want:   "a[red]&[/red]b[red]&[/red]c",
		},
		{
			name:   "bracketed_markup_is_normalised",
			text:   "x-y",
			target: "-",
			markup: NewMarkup("[bold  u red]"),
			want:   "x[bold u red]-[/bold u red]y",
		},
		{
			name:   "non_overlapping",
			text:   "aaaa",
			target: "aa",
			markup: "u",
			want:   "[u]aa[/u][u]aa[/u]",
		},
		{
			name:   "skips_existing_tags",
			text:   "[bold]bold[/bold] bold",
			target: "bold",
			markup: "red",
			want:   "[bold][red]bold[/red][/bold] [red]bold[/red]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.target, tt.markup))
		})
	}
}

func TestHighlightManyTinyTokens(t *testing.T) {
	text := strings.Repeat("&", 100000)
	got := Highlight(text, "&", "red")
	assert.Equal(t, 100000, strings.Count(got, "[red]&[/red]"))
}

func TestHighlightStripRoundTrip(t *testing.T) {
	text := "Tom &amp: Jerry &amp: and [1] friends"
	once := Highlight(text, "&amp:", MatchMarkup)

	assert.Equal(t, text, StripMarkup(once))
	assert.Equal(t, once, Highlight(StripMarkup(once), "&amp:", MatchMarkup))
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no_brackets", in: "plain", want: "plain"},
		{name: "style_tags", in: "[bold u red]x[/bold u red]", want: "x"},
		{name: "keeps_footnotes", in: "see [1] and [see note]", want: "see [1] and [see note]"},
		{name: "keeps_unknown_words", in: "[bold fancy]x", want: "[bold fancy]x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkup(tt.in))
		})
	}
}

func TestRender(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	assert.Equal(t, "a b c", Render("a [bold u red]b[/bold u red] c"))
	assert.Equal(t, "no tags", Render("no tags"))
}

func TestRenderColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	got := Render("a [red]b[/red] c")
	assert.Contains(t, got, "\x1b[31m")
	assert.True(t, strings.HasPrefix(got, "a "))
	assert.True(t, strings.HasSuffix(got, " c"))
}

func TestMarkupTags(t *testing.T) {
	m := NewMarkup(" [red  u] ")
	assert.Equal(t, Markup("red u"), m)
	assert.Equal(t, "[red u]", m.Open())
	assert.Equal(t, "[/red u]", m.Close())
	assert.Equal(t, "[red u]x[/red u]", m.Wrap("x"))
}
