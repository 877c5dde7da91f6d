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
	"bytes"
	"context"
	"encoding/json"

	"github.com/walteh/entityfix/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 🔧 JSONParser implements the Parser interface for JSON files
type JSONParser struct{}

func init() {
	Register(&JSONParser{})
}

// UnmarshalJSON implements json.Unmarshaler, walking the object token by token
// so the key order survives.
func (o *orderedReplacements) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return errors.Errorf("reading replacements: %w", err)
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("replacements must be an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errors.Errorf("reading replacement key: %w", err)
		}
		from, ok := keyTok.(string)
		if !ok {
			return errors.Errorf("replacement key %v is not a string", keyTok)
		}
		var to string
		if err := dec.Decode(&to); err != nil {
			return errors.Errorf("decoding replacement value for %q: %w", from, err)
		}
		*o = append(*o, rule.Replacement{From: from, To: to})
	}

	if _, err := dec.Token(); err != nil {
		return errors.Errorf("closing replacements: %w", err)
	}
	return nil
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *JSONParser) CanParse(filename string) bool {
	return hasExt(filename, ".json")
}

// 📝 Parse parses rule definitions from JSON bytes
func (p *JSONParser) Parse(ctx context.Context, data []byte) ([]rule.Definition, error) {
	var doc document
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return doc.definitions(), nil
}
