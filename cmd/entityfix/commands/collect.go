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
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/entityfix/cmd/entityfix/opts"
	"github.com/walteh/entityfix/pkg/batch"
	"github.com/walteh/entityfix/pkg/log"
	"github.com/walteh/entityfix/pkg/report"
	"github.com/walteh/entityfix/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// NewCollectCmd creates a new collect command
func NewCollectCmd(o *opts.RootOpts) *cobra.Command {
	var (
		format  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "collect <inputs...>",
		Short: "List the distinct tokens each rule matches",
		Long: `Collect gathers, per selected rule, every distinct token the rule's search
pattern matches across all inputs. Tokens of rules whose name contains
"invalid" are shown next to their decoded form. Nothing is rewritten.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if workers < 1 {
				return errors.Errorf("--workers must be at least 1, got %d", workers)
			}

			runner := o.NewRunner()
			runner.Workers = workers

			all := batch.NewMatchSet()
			runErr := forEachInput(ctx, o, "collect", args, func(ctx context.Context, src source.Source) (batch.Stats, error) {
				ms, stats, err := runner.Collect(ctx, src)
				if err != nil {
					return stats, err
				}
				all.Merge(ms)
				return stats, nil
			})

			log.FromContext(ctx).Infof("collected %d distinct tokens for %d rules", all.Len(), len(all.Rules()))

			if err := report.Encode(cmd.OutOrStdout(), f, batch.Triage(all)); err != nil {
				return errors.Errorf("writing report: %w", err)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&format, "format", string(report.FormatTable), "output format ("+strings.Join(report.Formats(), ", ")+")")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "number of workers folding records")

	return cmd
}
