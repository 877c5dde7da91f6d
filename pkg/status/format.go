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

	"github.com/walteh/entityfix/pkg/batch"
)

// Formatter defines how inputs and progress should be formatted
type Formatter interface {
	// FormatInput formats the outcome of one input
	FormatInput(path string, status InputStatus, stats batch.Stats) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatInput formats an input outcome with emojis
func (f *DefaultFormatter) FormatInput(path string, status InputStatus, stats batch.Stats) string {
	switch status {
	case StatusChanged:
		return fmt.Sprintf("📝 %s: %d of %d records changed (%d diffs)", path, stats.Changed, stats.Records, stats.Diffs)
	case StatusClean:
		return fmt.Sprintf("👍 %s: %d records, nothing to fix", path, stats.Records)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", path)
	case StatusRunning:
		return fmt.Sprintf("⏳ Processing %s", path)
	default:
		return fmt.Sprintf("• Pending %s", path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
