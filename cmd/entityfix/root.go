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
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/entityfix/cmd/entityfix/commands"
	"github.com/walteh/entityfix/cmd/entityfix/opts"
	"github.com/walteh/entityfix/pkg/batch"
	"github.com/walteh/entityfix/pkg/log"
	"github.com/walteh/entityfix/pkg/status"
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, f *opts.Flags) {
	cmd.PersistentFlags().StringVarP(&f.RulesFile, "rules", "r", "rules.toml", "rules file (.toml, .yaml, .json or .hcl)")
	cmd.PersistentFlags().BoolVarP(&f.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringArrayVar(&f.Only, "only", []string{batch.All}, "rule name to apply, repeatable, or \"all\"")
	cmd.PersistentFlags().StringVar(&f.Field, "field", batch.DefaultField, "field the rules run against")
	cmd.PersistentFlags().StringVar(&f.IDField, "id-field", batch.DefaultIDField, "field identifying a record in reports")
	cmd.PersistentFlags().StringVar(&f.LanguageField, "lang-field", batch.DefaultLanguageField, "field holding the record's language")
	cmd.PersistentFlags().StringVar(&f.Delimiter, "delimiter", "", "CSV delimiter (default ',' or tab for .tsv)")
	cmd.PersistentFlags().StringVar(&f.Sheet, "sheet", "", "XLSX sheet name (default first sheet)")
}

// setupLogging configures zerolog based on flags
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}

// newRootCmd wires every subcommand around one shared RootOpts, filled in
// once flags are parsed.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "entityfix",
		Short: "Find and repair malformed entities in tabular exports",
		Long: `entityfix runs an ordered list of regex transformation rules over one text
field of CSV, TSV or XLSX exports. It can show every change it would make
(diagnose), list the distinct broken tokens per rule (collect) or write a
repaired copy of an export (fix).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			zlog := setupLogging(stderr, o.Flags.Debug)
			ctx := zlog.WithContext(cmd.Context())

			o.Status = status.New(&zlog)
			ctx = log.NewContext(ctx, log.NewWithZerolog(stderr, zlog).WithOutput(stdout))
			cmd.SetContext(ctx)

			return o.Load(ctx)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	addRootFlags(rootCmd, &o.Flags)

	rootCmd.AddCommand(
		commands.NewDiagnoseCmd(o),
		commands.NewCollectCmd(o),
		commands.NewFixCmd(o),
		commands.NewRulesCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

func defaultRootCmd() *cobra.Command {
	return newRootCmd(os.Stdout, os.Stderr)
}
