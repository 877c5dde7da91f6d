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
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRules = `
[[transformations]]
name = "invalid html entities"
search_pattern = '(&[a-z]+:)'
replacement_pattern = '\1'
replacements = { ":" = ";" }
post_process = "html.unescape"
post_process_exceptions = ["&nbsp;"]

[[transformations]]
name = "fix En:yyyy standard"
search_pattern = '((EN ?\d+):(\d{4}))'
replacement_pattern = '\2-\3'
`

const testExport = "\xEF\xBB\xBFProduct no.,Language,Product Long Description\n" +
	"1001,en,Tom &amp: Jerry\n" +
	"1002,de,Norm EN 1234:2019\n" +
	"1003,fr,rien\n"

type fixture struct {
	dir    string
	rules  string
	export string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		rules:  filepath.Join(dir, "rules.toml"),
		export: filepath.Join(dir, "export.csv"),
	}
	require.NoError(t, os.WriteFile(f.rules, []byte(testRules), 0o644))
	require.NoError(t, os.WriteFile(f.export, []byte(testExport), 0o644))
	return f
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRulesCommand(t *testing.T) {
	f := newFixture(t)

	stdout, _, err := run(t, "rules", "-r", f.rules, "--only", "fix En:yyyy standard")
	require.NoError(t, err)
	assert.Contains(t, stdout, "- invalid html entities")
	assert.Contains(t, stdout, "✓ fix En:yyyy standard")
}

func TestUnknownRuleSelection(t *testing.T) {
	f := newFixture(t)

	_, _, err := run(t, "rules", "-r", f.rules, "--only", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rules selected")
}

func TestBrokenRulesFile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.rules, []byte("[[transformations]]\nname = \"x\"\n"), 0o644))

	_, _, err := run(t, "rules", "-r", f.rules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search_pattern: is required")
}

func TestDiagnoseCommand(t *testing.T) {
	f := newFixture(t)

	stdout, _, err := run(t, "diagnose", "-r", f.rules, filepath.Join(f.dir, "*.csv"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "Transformation: invalid html entities | Product no.: 1001 | Language: en")
	assert.Contains(t, stdout, "Tom & Jerry")
	assert.Contains(t, stdout, "Transformation: fix En:yyyy standard | Product no.: 1002 | Language: de")
	assert.Contains(t, stdout, "Norm EN 1234-2019")
	assert.NotContains(t, stdout, "1003")
}

func TestDiagnoseMissingInput(t *testing.T) {
	f := newFixture(t)

	_, _, err := run(t, "diagnose", "-r", f.rules, filepath.Join(f.dir, "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one or more inputs failed")
	assert.Contains(t, err.Error(), "missing.csv", "failed inputs should be named")
}

func TestCollectCommandJSON(t *testing.T) {
	f := newFixture(t)

	stdout, _, err := run(t, "collect", "-r", f.rules, "--format", "json", "--workers", "2", f.export)
	require.NoError(t, err)

	var got struct {
		Rules []struct {
			Rule   string `json:"rule"`
			Tokens []struct {
				Raw     string `json:"raw"`
				Decoded string `json:"decoded"`
			} `json:"tokens"`
		} `json:"rules"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got), "stdout should hold only the report")
	require.Len(t, got.Rules, 2)
	assert.Equal(t, "fix En:yyyy standard", got.Rules[0].Rule)
	assert.Equal(t, "EN 1234:2019", got.Rules[0].Tokens[0].Raw)
	assert.Equal(t, "invalid html entities", got.Rules[1].Rule)
	assert.Equal(t, "&amp:", got.Rules[1].Tokens[0].Raw)
	assert.Equal(t, "&", got.Rules[1].Tokens[0].Decoded)
}

func TestCollectBadFlags(t *testing.T) {
	f := newFixture(t)

	_, _, err := run(t, "collect", "-r", f.rules, "--format", "xml", f.export)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, _, err = run(t, "collect", "-r", f.rules, "--workers", "0", f.export)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--workers")
}

func TestFixCommand(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "fixed", "export.csv")

	_, _, err := run(t, "fix", "-r", f.rules, "--out", out, f.export)
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFProduct no.,Language,Product Long Description\n"+
		"1001,en,Tom & Jerry\n"+
		"1002,de,Norm EN 1234-2019\n"+
		"1003,fr,rien\n", string(got))
}

func TestFixCommandBackup(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "fixed.csv")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o644))

	_, _, err := run(t, "fix", "-r", f.rules, "--only", "fix En:yyyy standard", "--out", out, "--backup", f.export)
	require.NoError(t, err)

	prev, err := os.ReadFile(out + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "previous", string(prev))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(got), "Tom &amp: Jerry", "unselected rules leave records alone")
	assert.Contains(t, string(got), "Norm EN 1234-2019")
}

func TestFixCommandRejectsInPlace(t *testing.T) {
	f := newFixture(t)

	_, _, err := run(t, "fix", "-r", f.rules, "--out", f.export, f.export)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")

	_, _, err = run(t, "fix", "-r", f.rules, f.export)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--out is required")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, "version", "--json")
	require.NoError(t, err)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.NotEmpty(t, info.Module)
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Go)
	assert.NotEmpty(t, info.Platform)

	stdout, _, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "platform")
}

func TestVersionFrom(t *testing.T) {
	tests := []struct {
		name    string
		bi      *debug.BuildInfo
		ok      bool
		want    map[string]string
		wantRev string
	}{
		{
			name:    "no_build_info",
			want:    map[string]string{"module": modulePath, "version": "dev"},
			wantRev: "unknown",
		},
		{
			name:    "devel_build",
			bi:      &debug.BuildInfo{Main: debug.Module{Path: "example.com/fork", Version: "(devel)"}},
			ok:      true,
			want:    map[string]string{"module": "example.com/fork", "version": "dev"},
			wantRev: "unknown",
		},
		{
			name: "stamped_dirty_build",
			bi: &debug.BuildInfo{
				Main: debug.Module{Path: modulePath, Version: "v0.3.1"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef0123"},
					{Key: "vcs.time", Value: "2025-03-01T10:00:00Z"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			ok:      true,
			want:    map[string]string{"module": modulePath, "version": "v0.3.1", "committed": "2025-03-01T10:00:00Z"},
			wantRev: "0123456789ab (dirty)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := map[string]string{}
			for _, row := range versionFrom(tt.bi, tt.ok).rows() {
				rows[row[0]] = row[1]
			}
			for k, v := range tt.want {
				assert.Equal(t, v, rows[k], k)
			}
			assert.Equal(t, tt.wantRev, rows["revision"])
			assert.NotEmpty(t, rows["go"])
		})
	}
}
