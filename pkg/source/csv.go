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
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/transform"
)

// 📊 CSVSource reads a delimited file with a header row
type CSVSource struct {
	file     *os.File
	reader   *csv.Reader
	header   []string
	encoding Encoding
}

// 🏭 OpenCSV opens path, picks a decoder from its leading bytes and reads the header
func OpenCSV(ctx context.Context, path string, opts Options) (*CSVSource, error) {
	enc := DetectEncoding(ctx, path)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}

	src, err := NewCSVSource(transform.NewReader(f, enc.Decoder()), opts)
	if err != nil {
		f.Close()
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	src.file = f
	src.encoding = enc

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("encoding", string(enc)).
		Strs("header", src.header).
		Msg("csv source opened")

	return src, nil
}

// NewCSVSource reads records from already decoded text.
func NewCSVSource(r io.Reader, opts Options) (*CSVSource, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, errors.Errorf("reading header: %w", err)
	}

	return &CSVSource{
		reader:   reader,
		header:   append([]string(nil), header...),
		encoding: EncodingUTF8,
	}, nil
}

// Header implements Source.
func (s *CSVSource) Header() []string {
	return s.header
}

// Encoding reports the decoder chosen for the file.
func (s *CSVSource) Encoding() Encoding {
	return s.encoding
}

// Next implements Source.
func (s *CSVSource) Next() (Record, error) {
	row, err := s.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, errors.Errorf("reading record: %w", err)
	}
	return zipRecord(s.header, row), nil
}

// Close implements Source.
func (s *CSVSource) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// zipRecord pairs header names with row values; short rows leave fields
// missing and extra values are dropped.
func zipRecord(header, row []string) Record {
	rec := make(Record, len(header))
	for i, name := range header {
		if i < len(row) {
			rec[name] = row[i]
		}
	}
	return rec
}
