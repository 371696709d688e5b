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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type TestRecord struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func TestWriter_Write(t *testing.T) {
	tests := []struct {
		name    string
		records []TestRecord
		want    []string
	}{
		{
			name: "single record",
			records: []TestRecord{
				{ID: 1, Name: "Test One", Active: true},
			},
			want: []string{
				`{"id":1,"name":"Test One","active":true}`,
			},
		},
		{
			name: "multiple records",
			records: []TestRecord{
				{ID: 1, Name: "Test One", Active: true},
				{ID: 2, Name: "Test Two", Active: false},
			},
			want: []string{
				`{"id":1,"name":"Test One","active":true}`,
				`{"id":2,"name":"Test Two","active":false}`,
			},
		},
		{
			name:    "empty records",
			records: []TestRecord{},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := NewWriter(&buf)

			for _, record := range tt.records {
				if err := writer.Write(record); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
			}

			if writer.Count() != len(tt.records) {
				t.Errorf("Count mismatch: got %d, want %d", writer.Count(), len(tt.records))
			}

			output := strings.TrimSpace(buf.String())
			if output == "" && len(tt.want) == 0 {
				return
			}

			lines := strings.Split(output, "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("Line count mismatch: got %d, want %d", len(lines), len(tt.want))
			}
			for i, line := range lines {
				if line != tt.want[i] {
					t.Errorf("Line %d mismatch:\ngot:  %s\nwant: %s", i, line, tt.want[i])
				}
			}
		})
	}
}

func TestIndentWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	writer := NewIndentWriter(&buf)

	if err := writer.Write(map[string]any{"data": map[string]any{"viewer": map[string]any{"login": "octocat"}}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := "{\n  \"data\": {\n    \"viewer\": {\n      \"login\": \"octocat\"\n    }\n  }\n}\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\ngot:  %q\nwant: %q", buf.String(), want)
	}
}

func TestWriter_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	numGoroutines := 10
	recordsPerGoroutine := 50
	totalRecords := numGoroutines * recordsPerGoroutine

	errCh := make(chan error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(goroutineID int) {
			for j := 0; j < recordsPerGoroutine; j++ {
				record := TestRecord{ID: goroutineID*recordsPerGoroutine + j, Name: "Concurrent Test", Active: true}
				if err := writer.Write(record); err != nil {
					errCh <- err
					return
				}
			}
			errCh <- nil
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		if err := <-errCh; err != nil {
			t.Fatalf("Concurrent write failed: %v", err)
		}
	}

	if writer.Count() != totalRecords {
		t.Errorf("Count mismatch: got %d, want %d", writer.Count(), totalRecords)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != totalRecords {
		t.Errorf("Line count mismatch: got %d, want %d", len(lines), totalRecords)
	}
	for i, line := range lines {
		var record TestRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Errorf("Invalid JSON at line %d: %v", i, err)
		}
	}
}

func TestNewFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.ndjson")

	writer, err := NewFile(filename, FormatNDJSON)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	testRecords := []TestRecord{
		{ID: 1, Name: "File Test One", Active: true},
		{ID: 2, Name: "File Test Two", Active: false},
	}
	for _, record := range testRecords {
		if err := writer.Write(record); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != len(testRecords) {
		t.Fatalf("Line count mismatch: got %d, want %d", len(lines), len(testRecords))
	}
	for i, line := range lines {
		var record TestRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("Failed to parse JSON at line %d: %v", i, err)
		}
		if record.ID != testRecords[i].ID {
			t.Errorf("ID mismatch at line %d: got %d, want %d", i, record.ID, testRecords[i].ID)
		}
	}
}

func TestNewFile_Error(t *testing.T) {
	if _, err := NewFile("/non/existent/path/test.ndjson", FormatNDJSON); err == nil {
		t.Error("Expected error for non-existent directory, got nil")
	}

	path := filepath.Join(t.TempDir(), "out.txt")
	if _, err := NewFile(path, Format("xml")); err == nil {
		t.Error("Expected error for unknown format, got nil")
	}
}

func TestWriter_WriteError(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	if err := writer.Write(make(chan int)); err == nil {
		t.Error("Expected error when writing non-marshalable data")
	}
	if writer.Count() != 0 {
		t.Errorf("failed writes must not be counted, got %d", writer.Count())
	}
}
