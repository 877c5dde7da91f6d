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

package batch

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/entityfix/pkg/rule"
	"github.com/walteh/entityfix/pkg/source"
	"github.com/walteh/entityfix/pkg/transform"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// Default column names of the PIM export the tool was built for.
const (
	DefaultField         = "Product Long Description"
	DefaultIDField       = "Product no."
	DefaultLanguageField = "Language"
)

// 🏃 Runner drives rules over every record of a source
type Runner struct {
	Rules         []*rule.Rule
	Selection     Selection
	Field         string // Field the rules run against
	IDField       string // Field identifying a record in reports
	LanguageField string // Field holding the record's language tag
	Workers       int    // Collect fans out to this many workers when > 1
}

// 🔀 Diff is one rule's visible change to one record
type Diff struct {
	Rule     string
	RecordID string
	Language string
	Old      string // Original text, matches highlighted
	New      string // Rewritten text, replacements highlighted
	Record   source.Record
}

// 📊 Stats summarises a run
type Stats struct {
	Records int // Records read
	Changed int // Records with at least one change
	Diffs   int // Rule applications that changed a record
	Tokens  int // Distinct tokens collected
}

// NewRunner returns a runner using the default export columns.
func NewRunner(rules []*rule.Rule, sel Selection) *Runner {
	return &Runner{
		Rules:         rules,
		Selection:     sel,
		Field:         DefaultField,
		IDField:       DefaultIDField,
		LanguageField: DefaultLanguageField,
	}
}

func (r *Runner) selected() []*rule.Rule {
	return r.Selection.Filter(r.Rules)
}

// each calls fn for every record until the source is exhausted
func each(ctx context.Context, src source.Source, fn func(source.Record) error) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, errors.Errorf("run cancelled: %w", err)
		}
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, errors.Errorf("reading record %d: %w", n+1, err)
		}
		n++
		if err := fn(rec); err != nil {
			return n, err
		}
	}
}

// 🔬 Diagnose applies the selected rules with highlighting, chaining each
// rule's output into the next, and emits a Diff whenever a rule changes the
// field.
func (r *Runner) Diagnose(ctx context.Context, src source.Source, emit func(Diff) error) (Stats, error) {
	logger := zerolog.Ctx(ctx)
	rules := r.selected()
	logger.Debug().Int("rules", len(rules)).Str("field", r.Field).Msg("starting diagnostic run")

	var stats Stats
	n, err := each(ctx, src, func(rec source.Record) error {
		text := rec.Get(r.Field)
		changed := false
		for _, rl := range rules {
			var old string
			old, text = transform.Apply(text, rl, true)
			if !transform.Changed(old, text) {
				continue
			}
			changed = true
			stats.Diffs++
			if err := emit(Diff{
				Rule:     rl.Name,
				RecordID: rec.Get(r.IDField),
				Language: rec.Get(r.LanguageField),
				Old:      old,
				New:      text,
				Record:   rec,
			}); err != nil {
				return errors.Errorf("reporting diff: %w", err)
			}
		}
		if changed {
			stats.Changed++
		}
		return nil
	})
	stats.Records = n
	if err != nil {
		return stats, err
	}

	logger.Debug().Int("records", stats.Records).Int("changed", stats.Changed).Msg("diagnostic run complete")
	return stats, nil
}

// 🛠️ Fix applies the selected rules without highlighting and emits every
// record, with the field replaced when a rule changed it.
func (r *Runner) Fix(ctx context.Context, src source.Source, emit func(source.Record) error) (Stats, error) {
	rules := r.selected()

	var stats Stats
	n, err := each(ctx, src, func(rec source.Record) error {
		text := rec.Get(r.Field)
		original := text
		for _, rl := range rules {
			next := transform.ApplyPlain(text, rl)
			if next != text {
				stats.Diffs++
			}
			text = next
		}
		if text != original {
			stats.Changed++
			fixed := make(source.Record, len(rec))
			for k, v := range rec {
				fixed[k] = v
			}
			fixed[r.Field] = text
			rec = fixed
		}
		return emit(rec)
	})
	stats.Records = n
	return stats, err
}

// 🧺 Collect gathers the distinct tokens each selected rule matches across
// all records, without rewriting anything.
func (r *Runner) Collect(ctx context.Context, src source.Source) (MatchSet, Stats, error) {
	if r.Workers > 1 {
		return r.collectParallel(ctx, src)
	}

	rules := r.selected()
	ms := NewMatchSet()
	n, err := each(ctx, src, func(rec source.Record) error {
		collectRecord(ms, rules, rec.Get(r.Field))
		return nil
	})
	stats := Stats{Records: n, Tokens: ms.Len()}
	if err != nil {
		return nil, stats, err
	}
	return ms, stats, nil
}

func collectRecord(ms MatchSet, rules []*rule.Rule, text string) {
	if text == "" {
		return
	}
	for _, rl := range rules {
		ms.Add(rl.Name, transform.Find(text, rl)...)
	}
}

// collectParallel reads records on one goroutine and folds them on Workers
// goroutines, each owning its MatchSet, then unions the sets.
func (r *Runner) collectParallel(ctx context.Context, src source.Source) (MatchSet, Stats, error) {
	rules := r.selected()
	g, gctx := errgroup.WithContext(ctx)

	records := make(chan string, r.Workers*4)
	sets := make([]MatchSet, r.Workers)

	for i := range sets {
		ms := NewMatchSet()
		sets[i] = ms
		g.Go(func() error {
			for text := range records {
				collectRecord(ms, rules, text)
			}
			return nil
		})
	}

	var n int
	g.Go(func() error {
		defer close(records)
		var err error
		n, err = each(gctx, src, func(rec source.Record) error {
			select {
			case records <- rec.Get(r.Field):
				return nil
			case <-gctx.Done():
				return errors.Errorf("run cancelled: %w", gctx.Err())
			}
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, Stats{Records: n}, err
	}

	out := NewMatchSet()
	for _, ms := range sets {
		out.Merge(ms)
	}

	zerolog.Ctx(ctx).Debug().Int("workers", r.Workers).Int("records", n).Msg("parallel collection complete")
	return out, Stats{Records: n, Tokens: out.Len()}, nil
}
