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
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/sirseerhq/sirseer-stats/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSleeps replaces the client's wait with one that records durations
// and returns immediately.
func recordSleeps(c *APIClient) *[]time.Duration {
	var (
		mu    sync.Mutex
		waits []time.Duration
	)
	c.sleep = func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		defer mu.Unlock()
		waits = append(waits, d)
		return ctx.Err()
	}
	return &waits
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, 60, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Wait)
}

func TestQueryREST_PendingThenSuccess(t *testing.T) {
	for _, pending := range []int{0, 1, 5, 59} {
		t.Run(fmt.Sprintf("%d pending", pending), func(t *testing.T) {
			body := []any{map[string]any{"total": float64(12)}}
			server := testutil.NewPendingServer(t, pending, body)
			client, logs := newTestClient(t, server)
			waits := recordSleeps(client)

			resp, err := client.QueryREST(context.Background(), "repos/octocat/hello/stats/contributors", nil)
			require.NoError(t, err)

			assert.Equal(t, body, resp)
			assert.Equal(t, pending+1, server.RequestCount())
			require.Len(t, *waits, pending)
			for _, w := range *waits {
				assert.Equal(t, 2*time.Second, w)
			}
			assert.NotContains(t, logs.String(), "incomplete")
		})
	}
}

func TestQueryREST_Exhausted(t *testing.T) {
	server := testutil.NewPendingServer(t, 1000, nil)
	client, logs := newTestClient(t, server)
	waits := recordSleeps(client)

	resp, err := client.QueryREST(context.Background(), "repos/octocat/hello/stats/contributors", nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{}, resp)
	assert.Equal(t, 60, server.RequestCount())
	assert.Len(t, *waits, 59)
	assert.Contains(t, logs.String(), "202 Accepted, retrying...")
	assert.Contains(t, logs.String(), "data will be incomplete")
}

func TestQueryREST_CustomRetryConfig(t *testing.T) {
	server := testutil.NewPendingServer(t, 1000, nil)
	client, _ := newTestClient(t, server, WithRetryConfig(&RetryConfig{MaxAttempts: 3, Wait: time.Millisecond}))
	waits := recordSleeps(client)

	resp, err := client.QueryREST(context.Background(), "repos/a/b/stats/contributors", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, resp)
	assert.Equal(t, 3, server.RequestCount())
	assert.Equal(t, []time.Duration{time.Millisecond, time.Millisecond}, *waits)
}

func TestQueryREST_RequestShape(t *testing.T) {
	server := testutil.NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/repos/octocat/hello/traffic/views", r.URL.Path)
		assert.Equal(t, "day", r.URL.Query().Get("per"))
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"count": 7})
	})
	client, _ := newTestClient(t, server)

	resp, err := client.QueryREST(context.Background(), "/repos/octocat/hello/traffic/views", url.Values{"per": {"day"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": float64(7)}, resp)
}

func TestQueryREST_StatusNotInterpreted(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := testutil.NewErrorServer(t, status)
			client, _ := newTestClient(t, server)
			waits := recordSleeps(client)

			resp, err := client.QueryREST(context.Background(), "repos/missing/repo", nil)
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"message": http.StatusText(status)}, resp)
			assert.Equal(t, 1, server.RequestCount())
			assert.Empty(t, *waits)
		})
	}
}

func TestQueryREST_FallbackEachAttempt(t *testing.T) {
	server := testutil.NewPendingServer(t, 2, map[string]any{"ok": true})
	primary := &failingSender{err: connReset(server.URL)}
	client, logs := newTestClient(t, server, WithSenders(primary, nil))
	waits := recordSleeps(client)

	resp, err := client.QueryREST(context.Background(), "repos/a/b/stats/contributors", nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"ok": true}, resp)
	assert.Equal(t, int32(3), primary.calls.Load(), "every attempt starts on the primary transport")
	assert.Equal(t, 3, server.RequestCount(), "fallback answers each attempt once")
	assert.Len(t, *waits, 2)
	assert.Contains(t, logs.String(), "falling back")
}

func TestQueryREST_FallbackFailureStopsPolling(t *testing.T) {
	primary := &failingSender{err: connReset("http://example.invalid")}
	fallback := &failingSender{err: connReset("http://example.invalid")}
	client, _ := newTestClient(t, nil, WithSenders(primary, fallback))
	waits := recordSleeps(client)

	_, err := client.QueryREST(context.Background(), "user", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), fallback.calls.Load())
	assert.Empty(t, *waits)
}

func TestQueryREST_CanceledWhileWaiting(t *testing.T) {
	server := testutil.NewPendingServer(t, 1000, nil)
	client, _ := newTestClient(t, server, WithRetryConfig(&RetryConfig{MaxAttempts: 60, Wait: time.Hour}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.QueryREST(ctx, "repos/a/b/stats/contributors", nil)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 1, server.RequestCount())
}
