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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/entityfix/pkg/batch"
	"gitlab.com/tozd/go/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name  string
		stats batch.Stats
		err   error
		want  InputStatus
	}{
		{name: "error_wins", stats: batch.Stats{Changed: 2}, err: errors.New("boom"), want: StatusFailed},
		{name: "changed", stats: batch.Stats{Records: 3, Changed: 1}, want: StatusChanged},
		{name: "clean", stats: batch.Stats{Records: 3}, want: StatusClean},
		{name: "empty", want: StatusClean},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusFor(tt.stats, tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got.String())
		})
	}
}

func TestManagerTracking(t *testing.T) {
	ctx := context.Background()
	mgr := New(nil)

	mgr.StartOperation(ctx, 3)
	mgr.TrackInput(ctx, InputInfo{Path: "b.csv", Status: StatusChanged, Stats: batch.Stats{Records: 4, Changed: 2, Diffs: 3}})
	mgr.UpdateProgress(ctx, 1)
	mgr.TrackInput(ctx, InputInfo{Path: "a.csv", Status: StatusClean, Stats: batch.Stats{Records: 5}})
	mgr.UpdateProgress(ctx, 2)

	assert.False(t, mgr.Failed())

	mgr.TrackInput(ctx, InputInfo{Path: "c.csv", Status: StatusFailed, Error: errors.New("bad header")})
	mgr.FinishOperation(ctx)

	assert.True(t, mgr.Failed())

	inputs := mgr.ListInputs(ctx)
	require.Len(t, inputs, 3)
	assert.Equal(t, "a.csv", inputs[0].Path)
	assert.Equal(t, "b.csv", inputs[1].Path)
	assert.Equal(t, "c.csv", inputs[2].Path)

	assert.Equal(t, batch.Stats{Records: 9, Changed: 2, Diffs: 3}, mgr.Totals())

	assert.Equal(t, StatusChanged, inputs[1].Status)
	assert.Equal(t, StatusFailed, inputs[2].Status)
}

func TestWriteFileAtomic(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mgr := New(nil)

	tests := []struct {
		name        string
		path        string
		write       func(io.Writer) error
		wantContent string
		wantErr     bool
	}{
		{
			name: "writes_into_new_directory",
			path: filepath.Join(dir, "out", "fixed.csv"),
			write: func(w io.Writer) error {
				_, err := fmt.Fprint(w, "a,b\n1,2\n")
				return err
			},
			wantContent: "a,b\n1,2\n",
		},
		{
			name: "failed_write_leaves_no_file",
			path: filepath.Join(dir, "failed.csv"),
			write: func(w io.Writer) error {
				fmt.Fprint(w, "partial")
				return errors.New("encoder failed")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mgr.WriteFileAtomic(ctx, tt.path, tt.write)
			if tt.wantErr {
				require.Error(t, err)
				_, statErr := os.Stat(tt.path)
				assert.True(t, os.IsNotExist(statErr), "output should not exist")

				leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(tt.path), ".*.tmp"))
				assert.Empty(t, leftovers, "temp files should be cleaned up")
				return
			}
			require.NoError(t, err)
			got, err := os.ReadFile(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantContent, string(got))
		})
	}
}

func TestBackupFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mgr := New(nil)

	missing := filepath.Join(dir, "missing.csv")
	require.NoError(t, mgr.BackupFile(ctx, missing), "missing files need no backup")
	_, err := os.Stat(missing + ".bak")
	assert.True(t, os.IsNotExist(err))

	existing := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(existing, []byte("original"), 0644))
	require.NoError(t, mgr.BackupFile(ctx, existing))

	got, err := os.ReadFile(existing + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

func TestBackupFileOntoDirectory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mgr := New(nil)

	existing := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(existing, []byte("original"), 0644))
	require.NoError(t, os.Mkdir(existing+".bak", 0755))

	err := mgr.BackupFile(ctx, existing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating backup")
}

type closeFailWriter struct {
	bytes.Buffer
	closed bool
}

func (w *closeFailWriter) Close() error {
	w.closed = true
	return errors.New("disk full")
}

func TestCopyAndCloseReportsCloseError(t *testing.T) {
	dst := &closeFailWriter{}

	err := copyAndClose(dst, bytes.NewReader([]byte("original")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing destination file")
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, dst.closed)
	assert.Equal(t, "original", dst.String())
}
