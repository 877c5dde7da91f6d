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
// Package report encodes collected tokens for people and for other tools.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/walteh/entityfix/pkg/batch"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📋 Format names an output encoding for collection results
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
	FormatCSV   Format = "csv"
)

// Encoder writes triage results to w.
type Encoder func(w io.Writer, triage []batch.RuleTriage) error

var encoders = map[Format]Encoder{
	FormatTable: encodeTable,
	FormatJSON:  encodeJSON,
	FormatYAML:  encodeYAML,
	FormatTOML:  encodeTOML,
	FormatCSV:   encodeCSV,
}

// document is the top-level shape of the structured encodings
type document struct {
	Rules []batch.RuleTriage `json:"rules" yaml:"rules" toml:"rules"`
}

// Formats lists the supported format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(encoders))
	for f := range encoders {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := encoders[f]; !ok {
		return "", errors.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// 🖨️ Encode writes triage to w in the given format
func Encode(w io.Writer, format Format, triage []batch.RuleTriage) error {
	enc, ok := encoders[format]
	if !ok {
		return errors.Errorf("unknown format %q", format)
	}
	if triage == nil {
		triage = []batch.RuleTriage{}
	}
	if err := enc(w, triage); err != nil {
		return errors.Errorf("encoding %s: %w", format, err)
	}
	return nil
}

func encodeTable(w io.Writer, triage []batch.RuleTriage) error {
	data := pterm.TableData{{"Rule", "Token", "Decoded"}}
	for _, rt := range triage {
		for _, tok := range rt.Tokens {
			decoded := ""
			if rt.Decoded {
				decoded = tok.Decoded
			}
			data = append(data, []string{rt.Rule, tok.Raw, decoded})
		}
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func encodeJSON(w io.Writer, triage []batch.RuleTriage) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(document{Rules: triage})
}

func encodeYAML(w io.Writer, triage []batch.RuleTriage) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Rules: triage}); err != nil {
		return err
	}
	return enc.Close()
}

func encodeTOML(w io.Writer, triage []batch.RuleTriage) error {
	return gotoml.NewEncoder(w).Encode(document{Rules: triage})
}

// encodeCSV writes one row per token: rule, token and the decoded form
func encodeCSV(w io.Writer, triage []batch.RuleTriage) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rule", "token", "decoded"}); err != nil {
		return err
	}
	for _, rt := range triage {
		for _, tok := range rt.Tokens {
			if err := cw.Write([]string{rt.Rule, tok.Raw, tok.Decoded}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
