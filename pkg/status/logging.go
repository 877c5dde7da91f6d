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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/entityfix/pkg/rule"
)

// 🎨 Display configuration
const (
	ruleIndent   = 4  // spaces to indent rule entries
	nameWidth    = 35 // Base width for rule name
	postWidth    = 15 // Width for post-process name
	replaceWidth = 15 // Width for replacement count
)

// 🎯 FormatRule formats one configured rule for display
func FormatRule(r *rule.Rule, selected bool) string {
	prefix := color.HiBlackString("-")
	if selected {
		prefix = color.GreenString("✓")
	}

	post := r.PostProcess
	if post == "" {
		post = "none"
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, r.Name)
	postPart := fmt.Sprintf("%-*s", postWidth, post)
	replacePart := fmt.Sprintf("%-*s", replaceWidth, fmt.Sprintf("%d replacements", len(r.Replacements)))

	return fmt.Sprintf("%s%s %s %s %s %s",
		strings.Repeat(" ", ruleIndent),
		prefix,
		namePart,
		postPart,
		replacePart,
		r.Pattern.String(),
	)
}
