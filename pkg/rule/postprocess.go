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
	"html"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// PostProcessFunc transforms a substituted token after template expansion
type PostProcessFunc func(string) string

// Names of the built-in post-processors.
const (
	PostProcessHTMLUnescape = "html.unescape"
	PostProcessHTMLEscape   = "html.escape"
	PostProcessNFC          = "unicode.nfc"
	PostProcessNFKC         = "unicode.nfkc"
	PostProcessTrim         = "strings.trim"
)

var (
	postProcessMu sync.RWMutex
	// 🗺️ postProcessors maps a directive name to its function
	postProcessors = map[string]PostProcessFunc{
		PostProcessHTMLUnescape: html.UnescapeString,
		PostProcessHTMLEscape:   html.EscapeString,
		PostProcessNFC:          norm.NFC.String,
		PostProcessNFKC:         norm.NFKC.String,
		PostProcessTrim:         strings.TrimSpace,
	}
)

// Identity returns s unchanged.
func Identity(s string) string {
	return s
}

// 📝 RegisterPostProcess adds or replaces a named post-processor
func RegisterPostProcess(name string, fn PostProcessFunc) {
	postProcessMu.Lock()
	defer postProcessMu.Unlock()
	postProcessors[name] = fn
}

// 🎯 LookupPostProcess returns the post-processor registered under name.
// Unknown and empty names resolve to Identity.
func LookupPostProcess(name string) PostProcessFunc {
	postProcessMu.RLock()
	defer postProcessMu.RUnlock()
	if fn, ok := postProcessors[name]; ok && fn != nil {
		return fn
	}
	return Identity
}

// PostProcessNames lists the registered post-processors, sorted.
func PostProcessNames() []string {
	postProcessMu.RLock()
	defer postProcessMu.RUnlock()
	names := make([]string, 0, len(postProcessors))
	for name := range postProcessors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
