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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/entityfix/cmd/entityfix/opts"
	"github.com/walteh/entityfix/pkg/log"
	"github.com/walteh/entityfix/pkg/rule"
	"github.com/walteh/entityfix/pkg/status"
)

// NewRulesCmd creates a new rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Validate the rules file and list its rules",
		Long: `Rules loads and compiles the rules file, then lists every rule in
configured order. Rules picked by --only are marked with a check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			logger := log.FromContext(cmd.Context())

			logger.Header(fmt.Sprintf("%d rules in %s", len(o.Rules), o.Flags.RulesFile))
			for _, r := range o.Rules {
				fmt.Fprintln(w, status.FormatRule(r, o.Selection.Applies(r.Name)))
			}

			for _, r := range o.Rules {
				if r.PostProcess == "" {
					continue
				}
				if !isRegistered(r.PostProcess) {
					logger.Warningf("rule %q: post_process %q is not registered and will leave values unchanged", r.Name, r.PostProcess)
				}
			}

			logger.Success("rules file is valid")
			return nil
		},
	}

	return cmd
}

func isRegistered(name string) bool {
	for _, n := range rule.PostProcessNames() {
		if n == name {
			return true
		}
	}
	return false
}
