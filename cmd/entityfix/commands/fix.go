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
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/entityfix/cmd/entityfix/opts"
	"github.com/walteh/entityfix/pkg/batch"
	"github.com/walteh/entityfix/pkg/log"
	"github.com/walteh/entityfix/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// NewFixCmd creates a new fix command
func NewFixCmd(o *opts.RootOpts) *cobra.Command {
	var (
		out    string
		backup bool
	)

	cmd := &cobra.Command{
		Use:   "fix <input>",
		Short: "Write a repaired copy of an export",
		Long: `Fix applies the selected rules to every record and writes all records,
repaired or not, to --out in the input's column order. CSV output keeps the
input's byte order mark; an .xlsx --out writes a workbook.

The output is written to a temporary file and renamed into place, so a failed
run leaves any existing --out untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if out == "" {
				return errors.New("--out is required")
			}
			input := args[0]
			if same, err := samePath(input, out); err != nil {
				return err
			} else if same {
				return errors.Errorf("--out must differ from the input %s", input)
			}

			if backup {
				if err := o.Status.BackupFile(ctx, out); err != nil {
					return errors.Errorf("backing up %s: %w", out, err)
				}
			}

			logger := log.FromContext(ctx)
			runner := o.NewRunner()
			logger.Header("fixing " + runner.Field)

			err := forEachInput(ctx, o, "fix", []string{input}, func(ctx context.Context, src source.Source) (batch.Stats, error) {
				var stats batch.Stats
				err := o.Status.WriteFileAtomic(ctx, out, func(w io.Writer) error {
					sink, err := source.NewSink(ctx, w, out, src.Header(), o.Source, source.EncodingOf(src))
					if err != nil {
						return err
					}

					var runErr error
					stats, runErr = runner.Fix(ctx, src, sink.Write)
					if runErr != nil {
						sink.Close()
						return runErr
					}
					return sink.Close()
				})
				return stats, err
			})
			if err != nil {
				return err
			}

			totals := o.Status.Totals()
			logger.Successf("wrote %s: %d of %d records repaired", out, totals.Changed, totals.Records)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "path of the repaired export (.csv, .tsv or .xlsx)")
	cmd.Flags().BoolVar(&backup, "backup", false, "copy an existing --out to --out.bak first")

	return cmd
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, errors.Errorf("resolving %s: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, errors.Errorf("resolving %s: %w", b, err)
	}
	return absA == absB, nil
}

