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
	"encoding/json"
	"runtime"
	"runtime/debug"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const modulePath = "github.com/walteh/entityfix"

// 🏷️ versionInfo is what the binary knows about its own build
type versionInfo struct {
	Module    string `json:"module"`
	Version   string `json:"version"`
	Revision  string `json:"revision,omitempty"`
	Committed string `json:"committed,omitempty"`
	Dirty     bool   `json:"dirty"`
	Go        string `json:"go"`
	Platform  string `json:"platform"`
}

// versionFrom reads module and vcs stamps from bi. Unstamped builds report "dev".
func versionFrom(bi *debug.BuildInfo, ok bool) versionInfo {
	v := versionInfo{
		Module:   modulePath,
		Version:  "dev",
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if !ok || bi == nil {
		return v
	}

	if bi.Main.Path != "" {
		v.Module = bi.Main.Path
	}
	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		v.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			v.Revision = s.Value
		case "vcs.time":
			v.Committed = s.Value
		case "vcs.modified":
			v.Dirty = s.Value == "true"
		}
	}
	return v
}

func (v versionInfo) rows() [][]string {
	rev := v.Revision
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev == "" {
		rev = "unknown"
	}
	if v.Dirty {
		rev += " (dirty)"
	}

	return [][]string{
		{"module", v.Module},
		{"version", v.Version},
		{"revision", rev},
		{"committed", v.Committed},
		{"go", v.Go},
		{"platform", v.Platform},
	}
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := versionFrom(debug.ReadBuildInfo())
			w := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			}

			table, err := pterm.DefaultTable.WithData(v.rows()).Srender()
			if err != nil {
				return err
			}
			_, err = w.Write([]byte(table + "\n"))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
