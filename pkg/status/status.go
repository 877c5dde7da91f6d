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

package status

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/entityfix/pkg/batch"
	"gitlab.com/tozd/go/errors"
)

// 📊 InputStatus represents the state of one input file in a run
type InputStatus int

const (
	StatusPending InputStatus = iota
	StatusRunning             // Input is being processed
	StatusClean               // No rule changed any record
	StatusChanged             // At least one record changed
	StatusFailed              // Processing stopped with an error
)

// String returns a string representation of InputStatus
func (s InputStatus) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusClean:
		return "clean"
	case StatusChanged:
		return "changed"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// 📄 InputInfo is what is known about one input
type InputInfo struct {
	Path   string      // Path of the input file
	Status InputStatus // Current status
	Stats  batch.Stats // Counters from the run
	Error  error       // Error that stopped processing, if any
}

// 🔧 Manager tracks inputs, reports progress and writes outputs
type Manager struct {
	logger    *zerolog.Logger
	formatter Formatter

	mu     sync.RWMutex
	inputs map[string]InputInfo

	total int
}

// 🏭 New creates a new status manager
func New(logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		logger:    logger,
		formatter: NewDefaultFormatter(),
		inputs:    make(map[string]InputInfo),
	}
}

// StatusFor derives the final status of an input from its run.
func StatusFor(stats batch.Stats, err error) InputStatus {
	switch {
	case err != nil:
		return StatusFailed
	case stats.Changed > 0:
		return StatusChanged
	default:
		return StatusClean
	}
}

// TrackInput records the state of an input and logs it.
func (m *Manager) TrackInput(ctx context.Context, info InputInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inputs[info.Path] = info
	msg := m.formatter.FormatInput(info.Path, info.Status, info.Stats)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}
	m.logger.Info().
		Str("input", info.Path).
		Str("status", info.Status.String()).
		Int("records", info.Stats.Records).
		Msg(msg)
}

// ListInputs returns every tracked input sorted by path.
func (m *Manager) ListInputs(ctx context.Context) []InputInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]InputInfo, 0, len(m.inputs))
	for _, info := range m.inputs {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Totals sums the stats of every tracked input.
func (m *Manager) Totals() batch.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var t batch.Stats
	for _, info := range m.inputs {
		t.Records += info.Stats.Records
		t.Changed += info.Stats.Changed
		t.Diffs += info.Stats.Diffs
		t.Tokens += info.Stats.Tokens
	}
	return t
}

// Failed reports whether any tracked input failed.
func (m *Manager) Failed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, info := range m.inputs {
		if info.Status == StatusFailed {
			return true
		}
	}
	return false
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	msg := m.formatter.FormatProgress(0, total)
	m.logger.Info().Int("total", total).Msg(msg)
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := m.formatter.FormatProgress(processed, m.total)
	m.logger.Info().
		Int("processed", processed).
		Int("total", m.total).
		Msg(msg)
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := m.formatter.FormatProgress(m.total, m.total)
	m.logger.Info().
		Int("processed", m.total).
		Int("total", m.total).
		Msg(msg)
}

// 💾 WriteFileAtomic streams write into a temp file next to path and renames
// it into place, so a failed run never leaves a half-written export.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	m.logger.Debug().Str("path", path).Msg("output written")
	return nil
}

// BackupFile copies path to path.bak when path exists.
func (m *Manager) BackupFile(ctx context.Context, path string) error {
	backupPath := path + ".bak"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Errorf("checking file existence: %w", err)
	}

	if err := copyFile(path, backupPath); err != nil {
		return errors.Errorf("creating backup: %w", err)
	}

	m.logger.Debug().Str("path", backupPath).Msg("backup written")
	return nil
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	return copyAndClose(destination, source)
}

// copyAndClose reports a failed Close, since that is where a short write to
// disk surfaces.
func copyAndClose(dst io.WriteCloser, src io.Reader) error {
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return errors.Errorf("copying file: %w", err)
	}

	if err := dst.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}

	return nil
}
