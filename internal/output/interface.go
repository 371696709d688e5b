// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// OutputWriter writes records in one output format.
type OutputWriter interface {
	// Write writes a single record and flushes it to the output.
	Write(record any) error

	// Close closes the underlying writer and releases any resources.
	Close() error
}

// Format names an output format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatText   Format = "text"
)

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatNDJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json, ndjson or text)", s)
	}
}

// New creates a writer for format on w.
func New(w io.Writer, format Format) (OutputWriter, error) {
	switch format {
	case FormatJSON:
		return NewIndentWriter(w), nil
	case FormatNDJSON:
		return NewWriter(w), nil
	case FormatText:
		return NewTextWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// NewFile creates a writer for format on a new file at path.
// The caller must call Close() when done to ensure the file is properly closed.
func NewFile(path string, format Format) (OutputWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w, err := New(file, format)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &fileWriter{OutputWriter: w, file: file}, nil
}

type fileWriter struct {
	OutputWriter
	file *os.File
}

func (f *fileWriter) Close() error {
	if err := f.OutputWriter.Close(); err != nil {
		f.file.Close()
		return err
	}
	return f.file.Close()
}
