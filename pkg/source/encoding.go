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
	"bytes"
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// utf8BOM is the byte order mark Excel writes in front of UTF-8 CSV exports
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// 🔤 Encoding identifies how a file's bytes should be decoded
type Encoding string

const (
	EncodingUTF8    Encoding = "utf-8"
	EncodingUTF8BOM Encoding = "utf-8-sig"
)

// Decoder returns the x/text encoding for e.
func (e Encoding) Decoder() *encoding.Decoder {
	if e == EncodingUTF8BOM {
		return unicode.UTF8BOM.NewDecoder()
	}
	return unicode.UTF8.NewDecoder()
}

// Encoder returns the x/text encoder matching e. utf-8-sig prepends a BOM.
func (e Encoding) Encoder() *encoding.Encoder {
	if e == EncodingUTF8BOM {
		return unicode.UTF8BOM.NewEncoder()
	}
	return unicode.UTF8.NewEncoder()
}

// 🔍 DetectEncoding inspects the first three bytes of path. Anything other
// than a UTF-8 byte order mark, including a short or unreadable file, falls
// back to plain UTF-8.
func DetectEncoding(ctx context.Context, path string) Encoding {
	logger := zerolog.Ctx(ctx)

	f, err := os.Open(path)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("encoding probe failed, using utf-8")
		return EncodingUTF8
	}
	defer f.Close()

	return ProbeEncoding(f)
}

// ProbeEncoding reads up to three bytes from r and reports the encoding they signal.
func ProbeEncoding(r io.Reader) Encoding {
	magic := make([]byte, len(utf8BOM))
	n, _ := io.ReadFull(r, magic)
	if n == len(utf8BOM) && bytes.Equal(magic, utf8BOM) {
		return EncodingUTF8BOM
	}
	return EncodingUTF8
}
