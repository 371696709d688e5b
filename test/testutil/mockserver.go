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

// Package testutil provides fake GitHub API servers for sirseer-stats tests
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// MockServer wraps an httptest.Server and records request counts and the
// highest number of requests it ever served at the same time.
type MockServer struct {
	*httptest.Server
	requests    atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

// NewMockServer creates a mock server around handler. The server is closed
// when the test finishes.
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requests.Add(1)
		current := m.inFlight.Add(1)
		defer m.inFlight.Add(-1)
		for {
			peak := m.maxInFlight.Load()
			if current <= peak || m.maxInFlight.CompareAndSwap(peak, current) {
				break
			}
		}
		handler(w, r)
	}))
	t.Cleanup(m.Server.Close)
	return m
}

// RequestCount returns the number of requests served so far.
func (m *MockServer) RequestCount() int {
	return int(m.requests.Load())
}

// MaxInFlight returns the highest number of concurrently served requests.
func (m *MockServer) MaxInFlight() int {
	return int(m.maxInFlight.Load())
}

// NewPendingServer creates a mock server that answers 202 Accepted to the
// first pendingCount requests and then 200 with body encoded as JSON.
func NewPendingServer(t *testing.T, pendingCount int, body any) *MockServer {
	t.Helper()
	var seen atomic.Int32

	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if int(seen.Add(1)) <= pendingCount {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		WriteJSON(w, http.StatusOK, body)
	})
}

// NewGraphQLServer creates a mock server for the GraphQL endpoint. respond
// receives the posted query document and returns the response body.
func NewGraphQLServer(t *testing.T, respond func(query string) any) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		AssertGraphQLRequest(t, r)

		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("invalid GraphQL request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		WriteJSON(w, http.StatusOK, respond(req.Query))
	})
}

// NewSlowServer creates a mock server that holds every request for delay
// before answering 200 with body. Useful for observing concurrency.
func NewSlowServer(t *testing.T, delay time.Duration, body any) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
		WriteJSON(w, http.StatusOK, body)
	})
}

// NewErrorServer creates a mock server that always returns the specified
// status with a GitHub style JSON error message.
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, statusCode, map[string]any{"message": http.StatusText(statusCode)})
	})
}

// WriteJSON writes body as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// AssertGraphQLRequest validates a GraphQL request structure
func AssertGraphQLRequest(t *testing.T, r *http.Request) {
	t.Helper()
	if r.URL.Path != "/graphql" {
		t.Errorf("Unexpected path: %s", r.URL.Path)
	}
	if r.Method != http.MethodPost {
		t.Errorf("Expected POST method, got: %s", r.Method)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got: %s", ct)
	}
}
