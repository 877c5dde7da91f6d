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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/entityfix/pkg/transform"
)

// 🔀 DiffEntry is one rule's change to one record, ready for display
type DiffEntry struct {
	Rule          string // Rule that produced the change
	RecordID      string // Value of the record's id column
	IDField       string // Name of the id column
	Language      string // Value of the record's language column
	LanguageField string // Name of the language column
	Old           string // Original text with highlight markup
	New           string // Rewritten text with highlight markup
}

// 📦 RunOperation describes one input file being processed
type RunOperation struct {
	Input string // Path of the tabular source
	Mode  string // diagnose, collect or fix
	Field string // Field the rules run against
	Rules int    // Number of selected rules
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	out       io.Writer // diffs; console when nil
	mu        sync.Mutex
	currentOp *RunOperation
	diffs     int
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// NewWithZerolog creates a logger that writes structured events to zlog.
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// WithOutput sends diff blocks to w while notices stay on the console.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	return l
}

func (l *Logger) output() io.Writer {
	if l.out != nil {
		return l.out
	}
	return l.console
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatDiffHeader formats the line introducing a diff
func (l *Logger) formatDiffHeader(d DiffEntry) string {
	idField := d.IDField
	if idField == "" {
		idField = "Record"
	}
	langField := d.LanguageField
	if langField == "" {
		langField = "Language"
	}
	return fmt.Sprintf("%s %s %s %s: %s %s %s: %s",
		color.New(color.Bold).Sprint("Transformation:"),
		color.New(color.FgMagenta).Sprint(d.Rule),
		color.New(color.Faint).Sprint("|"),
		idField,
		color.New(color.FgYellow).Sprint(d.RecordID),
		color.New(color.Faint).Sprint("|"),
		langField,
		color.New(color.FgCyan).Sprint(d.Language))
}

// 📝 LogDiff prints a before/after block for one changed record
func (l *Logger) LogDiff(ctx context.Context, d DiffEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.diffs++

	w := l.output()
	fmt.Fprintln(w, l.formatDiffHeader(d))
	fmt.Fprintln(w, "OLD")
	fmt.Fprintln(w, transform.Render(d.Old))
	fmt.Fprintln(w, "NEW")
	fmt.Fprintln(w, transform.Render(d.New))
	fmt.Fprintln(w)

	l.zlog.Debug().
		Str("rule", d.Rule).
		Str("record", d.RecordID).
		Str("language", d.Language).
		Msg("record changed")
}

// 📝 StartRunOperation starts processing a new input
func (l *Logger) StartRunOperation(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.diffs = 0

	fmt.Fprintf(l.console, "[%s %s]\n",
		op.Mode,
		color.New(color.FgCyan).Sprint(op.Input))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Field),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d rules", op.Rules))

	l.zlog.Info().
		Str("input", op.Input).
		Str("mode", op.Mode).
		Str("field", op.Field).
		Int("rules", op.Rules).
		Msg("starting run")
}

// 📝 EndRunOperation ends the current run
func (l *Logger) EndRunOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	l.zlog.Info().
		Str("input", l.currentOp.Input).
		Int("diffs", l.diffs).
		Msg("run complete")

	l.currentOp = nil
	l.diffs = 0
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("entityfix")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
