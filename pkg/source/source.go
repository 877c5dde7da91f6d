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

// Package source streams records out of tabular exports.
package source

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 Record is one row keyed by header name
type Record map[string]string

// Get returns the field value, or "" when the record has no such field.
func (r Record) Get(field string) string {
	return r[field]
}

// 🔌 Source yields records one at a time
type Source interface {
	// Next returns the next record, or io.EOF when exhausted
	Next() (Record, error)
	// Header returns the column names in file order
	Header() []string
	Close() error
}

// 🔧 Options tune how a file is opened
type Options struct {
	Delimiter rune   // CSV field delimiter, ',' when zero (tab for .tsv)
	Sheet     string // XLSX sheet name, first sheet when empty
}

// 🎯 Open picks a reader for path by its extension
func Open(ctx context.Context, path string, opts Options) (Source, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("opening tabular source")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return OpenXLSX(ctx, path, opts)
	case ".tsv", ".tab":
		if opts.Delimiter == 0 {
			opts.Delimiter = '\t'
		}
		return OpenCSV(ctx, path, opts)
	default:
		return OpenCSV(ctx, path, opts)
	}
}

// 🔍 Expand resolves glob patterns into a sorted, de-duplicated list of files.
// A pattern without meta characters is returned as is, even if missing, so
// the open error names it.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			add(pattern)
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return out, nil
}
