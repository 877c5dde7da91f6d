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

	"github.com/walteh/entityfix/cmd/entityfix/opts"
	"github.com/walteh/entityfix/pkg/batch"
	"github.com/walteh/entityfix/pkg/log"
	"github.com/walteh/entityfix/pkg/source"
	"github.com/walteh/entityfix/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// forEachInput expands patterns and runs fn on every resulting file, tracking
// each outcome. A failing input does not stop the others; the returned error
// names every input that failed.
func forEachInput(ctx context.Context, o *opts.RootOpts, mode string, patterns []string, fn func(context.Context, source.Source) (batch.Stats, error)) error {
	inputs, err := source.Expand(patterns)
	if err != nil {
		return errors.Errorf("expanding inputs: %w", err)
	}

	logger := log.FromContext(ctx)
	runner := o.NewRunner()
	o.Status.StartOperation(ctx, len(inputs))

	for i, input := range inputs {
		logger.StartRunOperation(ctx, log.RunOperation{
			Input: input,
			Mode:  mode,
			Field: runner.Field,
			Rules: len(o.Selection.Filter(o.Rules)),
		})

		stats, err := runInput(ctx, o, input, fn)
		o.Status.TrackInput(ctx, status.InputInfo{
			Path:   input,
			Status: status.StatusFor(stats, err),
			Stats:  stats,
			Error:  err,
		})
		if err != nil {
			logger.Errorf("%s: %v", input, err)
		}

		logger.EndRunOperation(ctx)
		logger.LogNewline()
		o.Status.UpdateProgress(ctx, i+1)
	}

	o.Status.FinishOperation(ctx)

	if !o.Status.Failed() {
		return nil
	}

	var failed []string
	for _, info := range o.Status.ListInputs(ctx) {
		if info.Status == status.StatusFailed {
			failed = append(failed, info.Path)
		}
	}
	return errors.Errorf("one or more inputs failed: %s", strings.Join(failed, ", "))
}

func runInput(ctx context.Context, o *opts.RootOpts, input string, fn func(context.Context, source.Source) (batch.Stats, error)) (batch.Stats, error) {
	src, err := source.Open(ctx, input, o.Source)
	if err != nil {
		return batch.Stats{}, err
	}
	defer src.Close()

	return fn(ctx, src)
}
