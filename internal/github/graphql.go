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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shurcooL/graphql"
	statserrors "github.com/sirseerhq/sirseer-stats/internal/errors"
	"github.com/sirseerhq/sirseer-stats/internal/giterror"
	"golang.org/x/sync/semaphore"
)

// defaultTimeout bounds a single HTTP exchange on either transport.
const defaultTimeout = 60 * time.Second

// APIClient implements the Client interface against GitHub's GraphQL and REST
// endpoints. All requests made through one APIClient share a permit pool, so
// at most maxConns primary attempts are in flight at any time.
type APIClient struct {
	creds           Credentials
	apiEndpoint     string
	graphqlEndpoint string
	maxConns        int
	timeout         time.Duration

	permits  *semaphore.Weighted
	primary  Sender
	fallback Sender
	gql      *graphql.Client

	retry     *RetryConfig
	sleep     func(ctx context.Context, d time.Duration) error
	logger    *log.Logger
	inspector giterror.Inspector
}

// Option configures an APIClient.
type Option func(*APIClient)

// WithEndpoints points the client at a different REST and GraphQL endpoint,
// e.g. GitHub Enterprise or a test server. Empty values keep the defaults.
func WithEndpoints(apiEndpoint, graphqlEndpoint string) Option {
	return func(c *APIClient) {
		if apiEndpoint != "" {
			c.apiEndpoint = apiEndpoint
		}
		if graphqlEndpoint != "" {
			c.graphqlEndpoint = graphqlEndpoint
		}
	}
}

// WithMaxConnections sets the permit pool size. Values <= 0 keep the default of 10.
func WithMaxConnections(n int) Option {
	return func(c *APIClient) {
		if n > 0 {
			c.maxConns = n
		}
	}
}

// WithRetryConfig replaces the 202 polling policy.
func WithRetryConfig(cfg *RetryConfig) Option {
	return func(c *APIClient) {
		if cfg != nil {
			c.retry = cfg
		}
	}
}

// WithTimeout sets the per-request timeout of both transports.
func WithTimeout(d time.Duration) Option {
	return func(c *APIClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for fallback and polling messages.
func WithLogger(l *log.Logger) Option {
	return func(c *APIClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSenders replaces the primary and fallback transports. A nil value
// keeps the corresponding default. Authorization headers for the query
// endpoints are still set by the client.
func WithSenders(primary, fallback Sender) Option {
	return func(c *APIClient) {
		c.primary = primary
		c.fallback = fallback
	}
}

// NewAPIClient creates a GitHub client for the given account.
// The client is configured with:
//   - a permit pool of DefaultMaxConnections unless overridden
//   - a pooled primary transport and a non-pooled fallback transport
//   - 202 polling per DefaultRetryConfig
//   - a stderr logger at info level
func NewAPIClient(creds Credentials, opts ...Option) *APIClient {
	c := &APIClient{
		creds:           creds,
		apiEndpoint:     DefaultAPIEndpoint,
		graphqlEndpoint: DefaultGraphQLEndpoint,
		maxConns:        DefaultMaxConnections,
		timeout:         defaultTimeout,
		retry:           DefaultRetryConfig(),
		sleep:           sleepContext,
		inspector:       giterror.NewInspector(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "github"})
	}
	if c.primary == nil {
		c.primary = newPrimarySender(creds.Token, c.maxConns, c.timeout)
	}
	if c.fallback == nil {
		c.fallback = newFallbackSender(creds.Token, c.timeout)
	}
	c.permits = semaphore.NewWeighted(int64(c.maxConns))
	c.gql = graphql.NewClient(c.graphqlEndpoint, &http.Client{
		Transport: &authTransport{token: creds.Token, base: senderTransport{sender: c.primary}},
		Timeout:   c.timeout,
	})

	return c
}

// Credentials returns the account the client was created for.
func (c *APIClient) Credentials() Credentials {
	return c.creds
}

// Query posts the GraphQL document to the GraphQL endpoint and returns the
// decoded body. A transport failure on the primary path is retried once on
// the fallback transport; only a fallback failure is returned as an error.
func (c *APIClient) Query(ctx context.Context, query string) (any, error) {
	payload, err := json.Marshal(struct {
		Query string `json:"query"`
	}{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	newRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlEndpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.creds.Token)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	res, err := c.exchange(ctx, "graphql", newRequest)
	if err != nil {
		return nil, err
	}
	return res.body, nil
}

// Viewer runs a typed viewer query through the same permit pool.
func (c *APIClient) Viewer(ctx context.Context) (*Viewer, error) {
	var query struct {
		Viewer struct {
			Login graphql.String
			Name  *graphql.String
		}
	}

	if err := c.permits.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	err := c.gql.Query(ctx, &query, nil)
	c.permits.Release(1)
	if err != nil {
		return nil, c.mapError(err)
	}

	v := &Viewer{Login: string(query.Viewer.Login)}
	if query.Viewer.Name != nil {
		v.Name = string(*query.Viewer.Name)
	}
	return v, nil
}

// result is one decoded HTTP exchange.
type result struct {
	status int
	body   any
}

// exchange runs one logical attempt: the primary transport while holding a
// permit, then, only if that failed at the transport level, the fallback
// transport without a permit. newRequest is called once per transport so
// request bodies are never reused.
func (c *APIClient) exchange(ctx context.Context, endpoint string, newRequest func(context.Context) (*http.Request, error)) (*result, error) {
	req, err := newRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}

	c.logger.Debug("request", "endpoint", endpoint, "method", req.Method, "url", req.URL.Redacted())

	res, err := c.primaryAttempt(ctx, req)
	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !c.inspector.IsTransportError(err) {
		return nil, err
	}

	c.logger.Warn("primary transport failed, falling back", "endpoint", endpoint, "err", err)

	req, err = newRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	res, err = roundTrip(c.fallback, req)
	if err != nil {
		return nil, fmt.Errorf("fallback %s %s: %w: %w", req.Method, endpoint, statserrors.ErrTransport, err)
	}
	return res, nil
}

// primaryAttempt holds a permit for the whole exchange, including the body
// read, and always gives it back.
func (c *APIClient) primaryAttempt(ctx context.Context, req *http.Request) (*result, error) {
	if err := c.permits.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.permits.Release(1)

	return roundTrip(c.primary, req)
}

// roundTrip sends req and decodes the JSON body. A 202 body is discarded
// unread since it only signals that GitHub is still computing the result.
func roundTrip(s Sender, req *http.Request) (*result, error) {
	resp, err := s.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusAccepted {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &result{status: resp.StatusCode}, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	res := &result{status: resp.StatusCode}
	if len(bytes.TrimSpace(data)) == 0 {
		return res, nil
	}
	if err := json.Unmarshal(data, &res.body); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	return res, nil
}

// mapError maps GraphQL errors to our domain errors with actionable messages
func (c *APIClient) mapError(err error) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", statserrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", statserrors.ErrInvalidToken)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API. Please check your internet connection and try again: %w", statserrors.ErrNetworkFailure)
	}

	return fmt.Errorf("failed to query viewer: %w", err)
}
