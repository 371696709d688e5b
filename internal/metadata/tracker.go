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

// Package metadata records how a statistics run went: request counts per
// endpoint, REST paths that never left 202 Accepted, and timing. The record
// travels with the report and can be saved on its own for troubleshooting.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tracker collects request statistics during a run. It is safe for
// concurrent use.
type Tracker struct {
	mu           sync.Mutex
	runID        uuid.UUID
	startTime    time.Time
	graphqlCalls int
	restCalls    int
	pending      []string
}

// New creates a tracker, stamps it with a fresh run ID and starts the clock.
func New() *Tracker {
	return &Tracker{
		runID:     uuid.New(),
		startTime: time.Now(),
	}
}

// RunID returns the identifier of this run.
func (t *Tracker) RunID() string {
	return t.runID.String()
}

// RecordQuery counts a GraphQL request.
func (t *Tracker) RecordQuery() {
	t.mu.Lock()
	t.graphqlCalls++
	t.mu.Unlock()
}

// RecordREST counts a REST request. pending marks a path whose result never
// became available.
func (t *Tracker) RecordREST(path string, pending bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.restCalls++
	if pending {
		t.pending = append(t.pending, path)
	}
}

// Generate creates the metadata record for the run so far.
func (t *Tracker) Generate(version string, params RunParams, repos int) *RunMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()
	pending := append([]string(nil), t.pending...)
	sort.Strings(pending)

	return &RunMetadata{
		Version:    version,
		RunID:      t.runID.String(),
		Parameters: params,
		Results: RunResults{
			Repos:        repos,
			GraphQLCalls: t.graphqlCalls,
			RESTCalls:    t.restCalls,
			Pending:      pending,
			Duration:     completedAt.Sub(t.startTime).Round(time.Millisecond).String(),
			StartedAt:    t.startTime,
			CompletedAt:  completedAt,
		},
	}
}

// Save writes metadata as indented JSON to path. The file is written to a
// temporary name and renamed so readers never see a partial record.
func Save(metadata *RunMetadata, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metadata directory: %w", err)
		}
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(metadata); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to save metadata file: %w", err)
	}
	return nil
}

// Load reads a metadata record saved by Save.
func Load(path string) (*RunMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var metadata RunMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &metadata, nil
}
