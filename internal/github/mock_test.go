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
	"errors"
	"net/url"
	"testing"

	statserrors "github.com/sirseerhq/sirseer-stats/internal/errors"
)

// Compile-time check that MockClient implements Client
var _ Client = (*MockClient)(nil)

func TestMockClient(t *testing.T) {
	ctx := context.Background()

	t.Run("returns registered REST responses", func(t *testing.T) {
		mock := NewMockClientWithOptions(WithRESTResponse("/repos/a/b/traffic/views", map[string]any{"count": 3}))

		resp, err := mock.QueryREST(ctx, "repos/a/b/traffic/views", url.Values{"per": {"day"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.(map[string]any)["count"] != 3 {
			t.Errorf("unexpected response: %v", resp)
		}

		resp, err = mock.QueryREST(ctx, "repos/a/c/traffic/views", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.(map[string]any)) != 0 {
			t.Errorf("unknown path should return an empty map, got %v", resp)
		}

		if len(mock.RESTPaths) != 2 || mock.RESTPaths[0] != "repos/a/b/traffic/views" {
			t.Errorf("unexpected call tracking: %v", mock.RESTPaths)
		}
		if mock.RESTQuery[0].Get("per") != "day" {
			t.Errorf("params not tracked: %v", mock.RESTQuery[0])
		}
	})

	t.Run("answers queries", func(t *testing.T) {
		mock := NewMockClientWithOptions(WithQueryFunc(func(query string) (any, error) {
			return map[string]any{"query": query}, nil
		}))

		resp, err := mock.Query(ctx, ContribYears())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.(map[string]any)["query"] != ContribYears() {
			t.Errorf("unexpected response: %v", resp)
		}
		if mock.QueryCount() != 1 {
			t.Errorf("expected 1 call, got %d", mock.QueryCount())
		}
	})

	t.Run("simulates auth failure", func(t *testing.T) {
		mock := NewMockClientWithOptions(WithAuthFailure())

		_, err := mock.Viewer(ctx)
		if !errors.Is(err, statserrors.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("simulates network failure", func(t *testing.T) {
		mock := NewMockClient()
		mock.ShouldFailNetwork = true

		_, err := mock.Query(ctx, "{ viewer { login } }")
		if !errors.Is(err, statserrors.ErrNetworkFailure) {
			t.Errorf("expected ErrNetworkFailure, got %v", err)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		mock := NewMockClient()

		cancelCtx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := mock.QueryREST(cancelCtx, "user", nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
