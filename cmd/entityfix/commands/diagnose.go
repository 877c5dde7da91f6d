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
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/entityfix/cmd/entityfix/opts"
	"github.com/walteh/entityfix/pkg/batch"
	"github.com/walteh/entityfix/pkg/log"
	"github.com/walteh/entityfix/pkg/source"
)

// NewDiagnoseCmd creates a new diagnose command
func NewDiagnoseCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose <inputs...>",
		Short: "Show what the selected rules would change",
		Long: `Diagnose runs the selected rules over every record and prints each change
without writing anything. For every rule that changes a record it prints the
rule name, the record id and language, then the old text with the matches
highlighted and the new text with the replacements highlighted.

Inputs may be glob patterns, e.g. 'exports/**/*.csv'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)
			runner := o.NewRunner()

			logger.Header("diagnosing " + runner.Field)

			return forEachInput(ctx, o, "diagnose", args, func(ctx context.Context, src source.Source) (batch.Stats, error) {
				return runner.Diagnose(ctx, src, func(d batch.Diff) error {
					logger.LogDiff(ctx, log.DiffEntry{
						Rule:          d.Rule,
						RecordID:      d.RecordID,
						IDField:       runner.IDField,
						Language:      d.Language,
						LanguageField: runner.LanguageField,
						Old:           d.Old,
						New:           d.New,
					})
					return nil
				})
			})
		},
	}

	return cmd
}
