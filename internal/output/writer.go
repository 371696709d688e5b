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
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Writer writes JSON records, one per Write call. It is safe for concurrent use.
type Writer struct {
	mu      sync.Mutex
	output  io.Writer
	encoder *json.Encoder
	count   int
}

// NewWriter creates a writer emitting one compact JSON object per line (NDJSON).
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		output:  w,
		encoder: json.NewEncoder(w),
	}
}

// NewIndentWriter creates a writer emitting indented JSON documents.
func NewIndentWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &Writer{
		output:  w,
		encoder: enc,
	}
}

// Write encodes a single record.
func (w *Writer) Write(record any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close is a no-op; files opened by NewFile are closed by their wrapper.
func (w *Writer) Close() error {
	return nil
}
