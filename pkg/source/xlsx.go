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

package source

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

// 📗 XLSXSource streams rows of one worksheet, the first row being the header
type XLSXSource struct {
	file   *excelize.File
	rows   *excelize.Rows
	sheet  string
	header []string
}

// 🏭 OpenXLSX opens a workbook and positions after the header row
func OpenXLSX(ctx context.Context, path string, opts Options) (*XLSXSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Errorf("opening workbook %s: %w", path, err)
	}

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			f.Close()
			return nil, errors.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, errors.Errorf("reading sheet %q: %w", sheet, err)
	}

	src := &XLSXSource{file: f, rows: rows, sheet: sheet}

	header, err := src.nextRow()
	if err != nil {
		src.Close()
		if errors.Is(err, io.EOF) {
			return nil, errors.Errorf("sheet %q: missing header row", sheet)
		}
		return nil, err
	}
	src.header = header

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("sheet", sheet).
		Strs("header", header).
		Msg("xlsx source opened")

	return src, nil
}

func (s *XLSXSource) nextRow() ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, errors.Errorf("reading sheet %q: %w", s.sheet, err)
		}
		return nil, io.EOF
	}
	cols, err := s.rows.Columns()
	if err != nil {
		return nil, errors.Errorf("reading sheet %q: %w", s.sheet, err)
	}
	return cols, nil
}

// Header implements Source.
func (s *XLSXSource) Header() []string {
	return s.header
}

// Next implements Source.
func (s *XLSXSource) Next() (Record, error) {
	row, err := s.nextRow()
	if err != nil {
		return nil, err
	}
	return zipRecord(s.header, row), nil
}

// Close implements Source.
func (s *XLSXSource) Close() error {
	var rowsErr error
	if s.rows != nil {
		rowsErr = s.rows.Close()
	}
	if err := s.file.Close(); err != nil {
		return errors.Errorf("closing workbook: %w", err)
	}
	return rowsErr
}
