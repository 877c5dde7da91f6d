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
package opts

import (
	"context"
	"unicode/utf8"

	"github.com/walteh/entityfix/pkg/batch"
	"github.com/walteh/entityfix/pkg/config"
	"github.com/walteh/entityfix/pkg/rule"
	"github.com/walteh/entityfix/pkg/source"
	"github.com/walteh/entityfix/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// Flags holds the values of the persistent root flags
type Flags struct {
	RulesFile     string
	Debug         bool
	Only          []string
	Field         string
	IDField       string
	LanguageField string
	Delimiter     string
	Sheet         string
}

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Flags Flags

	Rules     []*rule.Rule
	Selection batch.Selection
	Source    source.Options
	Status    *status.Manager
}

// Load reads the rules file and resolves the flags into options.
func (o *RootOpts) Load(ctx context.Context) error {
	rules, err := config.Load(ctx, o.Flags.RulesFile)
	if err != nil {
		return errors.Errorf("loading rules: %w", err)
	}

	sel := batch.Select(o.Flags.Only...)
	if unknown := sel.Unknown(rules); len(unknown) > 0 {
		return errors.Errorf("unknown rules selected: %q", unknown)
	}

	delim, err := ParseDelimiter(o.Flags.Delimiter)
	if err != nil {
		return err
	}

	o.Rules = rules
	o.Selection = sel
	o.Source = source.Options{Delimiter: delim, Sheet: o.Flags.Sheet}
	return nil
}

// NewRunner builds a batch runner from the resolved options.
func (o *RootOpts) NewRunner() *batch.Runner {
	r := batch.NewRunner(o.Rules, o.Selection)
	if o.Flags.Field != "" {
		r.Field = o.Flags.Field
	}
	if o.Flags.IDField != "" {
		r.IDField = o.Flags.IDField
	}
	if o.Flags.LanguageField != "" {
		r.LanguageField = o.Flags.LanguageField
	}
	return r
}

// ParseDelimiter accepts a single character, "tab" or a backslash-t escape.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", "\\t", "\t":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, errors.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}
