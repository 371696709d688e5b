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

package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	statserrors "github.com/sirseerhq/sirseer-stats/internal/errors"
)

// MockClient is a mock implementation of the GitHub Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// QueryFunc answers Query calls. When nil, Query returns an empty data object.
	QueryFunc func(query string) (any, error)

	// RESTResponses maps a path (without leading slash) to its response.
	// Unknown paths return an empty map, as an exhausted 202 poll would.
	RESTResponses map[string]any

	// Viewer to return
	ViewerResult *Viewer

	// Error to return from every call
	Error error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	Queries   []string
	RESTPaths []string
	RESTQuery []url.Values
}

// NewMockClient creates a new mock client with a default viewer
func NewMockClient() *MockClient {
	return &MockClient{
		RESTResponses: make(map[string]any),
		ViewerResult:  &Viewer{Login: "octocat", Name: "The Octocat"},
	}
}

// Query implements the Client interface
func (m *MockClient) Query(ctx context.Context, query string) (any, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, query)
	fn := m.QueryFunc
	m.mu.Unlock()

	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	if fn == nil {
		return map[string]any{"data": map[string]any{}}, nil
	}
	return fn(query)
}

// QueryREST implements the Client interface
func (m *MockClient) QueryREST(ctx context.Context, path string, params url.Values) (any, error) {
	path = strings.TrimLeft(path, "/")

	m.mu.Lock()
	m.RESTPaths = append(m.RESTPaths, path)
	m.RESTQuery = append(m.RESTQuery, params)
	resp, ok := m.RESTResponses[path]
	m.mu.Unlock()

	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	if !ok {
		return map[string]any{}, nil
	}
	return resp, nil
}

// Viewer implements the Client interface
func (m *MockClient) Viewer(ctx context.Context) (*Viewer, error) {
	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	return m.ViewerResult, nil
}

// QueryCount returns the number of Query calls so far.
func (m *MockClient) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}

func (m *MockClient) fail(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", statserrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", statserrors.ErrNetworkFailure)
	}
	return m.Error
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithQueryFunc sets the function answering GraphQL queries
func WithQueryFunc(fn func(query string) (any, error)) MockClientOption {
	return func(m *MockClient) {
		m.QueryFunc = fn
	}
}

// WithRESTResponse registers the response for a REST path
func WithRESTResponse(path string, resp any) MockClientOption {
	return func(m *MockClient) {
		m.RESTResponses[strings.TrimLeft(path, "/")] = resp
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
