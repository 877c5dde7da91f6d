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
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/transform"
)

// 📤 Sink writes records back out in header order
type Sink interface {
	Write(rec Record) error
	// Close flushes buffered output; the sink is unusable afterwards
	Close() error
}

// EncodingOf reports the encoding src was decoded with, utf-8 when unknown.
func EncodingOf(src Source) Encoding {
	if e, ok := src.(interface{ Encoding() Encoding }); ok {
		return e.Encoding()
	}
	return EncodingUTF8
}

// 🎯 NewSink picks a writer for path by its extension and writes the header.
// CSV output keeps enc so a BOM export round-trips with its BOM.
func NewSink(ctx context.Context, w io.Writer, path string, header []string, opts Options, enc Encoding) (Sink, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Str("encoding", string(enc)).Msg("creating tabular sink")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return NewXLSXSink(w, header, opts)
	case ".tsv", ".tab":
		if opts.Delimiter == 0 {
			opts.Delimiter = '\t'
		}
		return NewCSVSink(w, header, opts, enc)
	default:
		return NewCSVSink(w, header, opts, enc)
	}
}

// 📊 CSVSink writes delimited records
type CSVSink struct {
	out    io.WriteCloser
	writer *csv.Writer
	header []string
}

// NewCSVSink encodes records through enc into w.
func NewCSVSink(w io.Writer, header []string, opts Options, enc Encoding) (*CSVSink, error) {
	out := transform.NewWriter(w, enc.Encoder())
	cw := csv.NewWriter(out)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}

	if err := cw.Write(header); err != nil {
		return nil, errors.Errorf("writing header: %w", err)
	}

	return &CSVSink{
		out:    out,
		writer: cw,
		header: append([]string(nil), header...),
	}, nil
}

// Write implements Sink.
func (s *CSVSink) Write(rec Record) error {
	if err := s.writer.Write(rowOf(s.header, rec)); err != nil {
		return errors.Errorf("writing record: %w", err)
	}
	return nil
}

// Close implements Sink.
func (s *CSVSink) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return errors.Errorf("flushing csv: %w", err)
	}
	if err := s.out.Close(); err != nil {
		return errors.Errorf("flushing encoder: %w", err)
	}
	return nil
}

// 📗 XLSXSink builds a workbook in memory and writes it on Close
type XLSXSink struct {
	w      io.Writer
	file   *excelize.File
	sheet  string
	header []string
	row    int
}

// NewXLSXSink writes the header into a new workbook. The sheet is named
// after opts.Sheet when set.
func NewXLSXSink(w io.Writer, header []string, opts Options) (*XLSXSink, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if opts.Sheet != "" && opts.Sheet != sheet {
		if err := f.SetSheetName(sheet, opts.Sheet); err != nil {
			f.Close()
			return nil, errors.Errorf("naming sheet %q: %w", opts.Sheet, err)
		}
		sheet = opts.Sheet
	}

	s := &XLSXSink{w: w, file: f, sheet: sheet, header: append([]string(nil), header...)}
	if err := s.writeRow(header); err != nil {
		f.Close()
		return nil, errors.Errorf("writing header: %w", err)
	}
	return s, nil
}

func (s *XLSXSink) writeRow(values []string) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return s.file.SetSheetRow(s.sheet, cell, &row)
}

// Write implements Sink.
func (s *XLSXSink) Write(rec Record) error {
	if err := s.writeRow(rowOf(s.header, rec)); err != nil {
		return errors.Errorf("writing row %d: %w", s.row, err)
	}
	return nil
}

// Close implements Sink.
func (s *XLSXSink) Close() error {
	defer s.file.Close()
	if err := s.file.Write(s.w); err != nil {
		return errors.Errorf("writing workbook: %w", err)
	}
	return nil
}

// rowOf lays rec out in header order; missing fields become empty cells
func rowOf(header []string, rec Record) []string {
	row := make([]string, len(header))
	for i, name := range header {
		row[i] = rec.Get(name)
	}
	return row
}
