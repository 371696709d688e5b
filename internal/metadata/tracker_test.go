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

package metadata

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	before := time.Now()
	tracker := New()

	if tracker.startTime.Before(before) {
		t.Error("start time should be set at creation")
	}
	if _, err := uuid.Parse(tracker.RunID()); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", tracker.RunID(), err)
	}
	if New().RunID() == tracker.RunID() {
		t.Error("run IDs must differ between trackers")
	}
}

func TestTracker_Counts(t *testing.T) {
	tracker := New()
	tracker.RecordQuery()
	tracker.RecordQuery()
	tracker.RecordREST("repos/a/b/traffic/views", false)
	tracker.RecordREST("repos/z/z/stats/contributors", true)
	tracker.RecordREST("repos/a/b/stats/contributors", true)

	params := RunParams{Username: "octocat", OwnedOnly: true}
	meta := tracker.Generate("v1.2.3", params, 7)

	if meta.Version != "v1.2.3" {
		t.Errorf("Version = %s, want v1.2.3", meta.Version)
	}
	if meta.RunID != tracker.RunID() {
		t.Errorf("RunID = %s, want %s", meta.RunID, tracker.RunID())
	}
	if !reflect.DeepEqual(meta.Parameters, params) {
		t.Errorf("Parameters = %+v, want %+v", meta.Parameters, params)
	}
	if meta.Results.Repos != 7 {
		t.Errorf("Repos = %d, want 7", meta.Results.Repos)
	}
	if meta.Results.GraphQLCalls != 2 {
		t.Errorf("GraphQLCalls = %d, want 2", meta.Results.GraphQLCalls)
	}
	if meta.Results.RESTCalls != 3 {
		t.Errorf("RESTCalls = %d, want 3", meta.Results.RESTCalls)
	}
	wantPending := []string{"repos/a/b/stats/contributors", "repos/z/z/stats/contributors"}
	if !reflect.DeepEqual(meta.Results.Pending, wantPending) {
		t.Errorf("Pending = %v, want %v", meta.Results.Pending, wantPending)
	}
	if meta.Results.CompletedAt.Before(meta.Results.StartedAt) {
		t.Error("CompletedAt should not precede StartedAt")
	}
	if meta.Results.Duration == "" {
		t.Error("Duration should be set")
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tracker := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				tracker.RecordQuery()
				tracker.RecordREST("repos/a/b/traffic/views", j%10 == 0)
			}
		}()
	}
	wg.Wait()

	meta := tracker.Generate("dev", RunParams{}, 0)
	if meta.Results.GraphQLCalls != 1000 {
		t.Errorf("GraphQLCalls = %d, want 1000", meta.Results.GraphQLCalls)
	}
	if meta.Results.RESTCalls != 1000 {
		t.Errorf("RESTCalls = %d, want 1000", meta.Results.RESTCalls)
	}
	if len(meta.Results.Pending) != 100 {
		t.Errorf("Pending = %d entries, want 100", len(meta.Results.Pending))
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "latest.json")

	tracker := New()
	tracker.RecordQuery()
	meta := tracker.Generate("v1.0.0", RunParams{Username: "octocat", ExcludeLangs: []string{"html"}}, 3)

	if err := Save(meta, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after Save")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.RunID != meta.RunID {
		t.Errorf("RunID = %s, want %s", loaded.RunID, meta.RunID)
	}
	if loaded.Parameters.Username != "octocat" {
		t.Errorf("Username = %s, want octocat", loaded.Parameters.Username)
	}
	if loaded.Results.GraphQLCalls != 1 {
		t.Errorf("GraphQLCalls = %d, want 1", loaded.Results.GraphQLCalls)
	}
	if !loaded.Results.StartedAt.Equal(meta.Results.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", loaded.Results.StartedAt, meta.Results.StartedAt)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for corrupt file")
	}
}
