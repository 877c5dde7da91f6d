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

package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/entityfix/pkg/rule"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
// Each rule is a `transformation "<name>" { ... }` block. Template
// references must escape HCL interpolation, e.g. "$${1}" or "\\1".
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

// 📝 Parse parses rule definitions from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) ([]rule.Definition, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "rules.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclRule struct {
		Name                  string         `hcl:"name,label"`
		SearchPattern         *string        `hcl:"search_pattern,optional"`
		ReplacementPattern    *string        `hcl:"replacement_pattern,optional"`
		Replacements          hcl.Expression `hcl:"replacements,optional"`
		PostProcess           string         `hcl:"post_process,optional"`
		PostProcessExceptions []string       `hcl:"post_process_exceptions,optional"`
	}
	type hclDocument struct {
		Transformations []hclRule `hcl:"transformation,block"`
	}

	var doc hclDocument
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &doc)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	defs := make([]rule.Definition, 0, len(doc.Transformations))
	for _, tr := range doc.Transformations {
		replacements, err := hclReplacements(tr.Replacements, evalCtx)
		if err != nil {
			return nil, errors.Errorf("transformation %q: %w", tr.Name, err)
		}
		defs = append(defs, rule.Definition{
			Name:               tr.Name,
			SearchPattern:      tr.SearchPattern,
			ReplacementPattern: tr.ReplacementPattern,
			Replacements:       replacements,
			PostProcess:        tr.PostProcess,
			Exceptions:         tr.PostProcessExceptions,
		})
	}

	return defs, nil
}

// hclReplacements reads an object expression pair by pair so its order survives
func hclReplacements(expr hcl.Expression, evalCtx *hcl.EvalContext) ([]rule.Replacement, error) {
	if expr == nil {
		return nil, nil
	}
	if val, diags := expr.Value(evalCtx); !diags.HasErrors() && val.IsNull() {
		return nil, nil
	}

	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return nil, errors.Errorf("replacements: %s", diags.Error())
	}

	out := make([]rule.Replacement, 0, len(pairs))
	for _, pair := range pairs {
		key, diags := pair.Key.Value(evalCtx)
		if diags.HasErrors() {
			return nil, errors.Errorf("replacement key: %s", diags.Error())
		}
		val, diags := pair.Value.Value(evalCtx)
		if diags.HasErrors() {
			return nil, errors.Errorf("replacement value: %s", diags.Error())
		}
		if key.IsNull() || !key.Type().Equals(cty.String) || val.IsNull() || !val.Type().Equals(cty.String) {
			return nil, errors.Errorf("replacements must map strings to strings")
		}
		out = append(out, rule.Replacement{From: key.AsString(), To: val.AsString()})
	}
	return out, nil
}
