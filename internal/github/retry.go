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
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RetryConfig configures how REST requests answered with 202 Accepted are polled.
type RetryConfig struct {
	// MaxAttempts is the total number of requests made before giving up
	MaxAttempts int
	// Wait is the fixed pause between two attempts
	Wait time.Duration
}

// DefaultRetryConfig returns the default polling configuration: 60 attempts, 2s apart.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 60,
		Wait:        2 * time.Second,
	}
}

// QueryREST GETs path (relative to the REST endpoint, leading slashes
// ignored) with params as the query string.
//
// Each attempt goes through the same primary/fallback exchange as Query. A
// 202 response waits RetryConfig.Wait and tries again; any other status
// returns its decoded body without looking at the status code. When every
// attempt answers 202 an empty map is returned and a warning is logged, so
// callers must treat an empty map as possibly incomplete data.
func (c *APIClient) QueryREST(ctx context.Context, path string, params url.Values) (any, error) {
	path = strings.TrimLeft(path, "/")
	target := strings.TrimRight(c.apiEndpoint, "/") + "/" + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	newRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "token "+c.creds.Token)
		req.Header.Set("Accept", "application/vnd.github+json")
		return req, nil
	}

	attempts := max(c.retry.MaxAttempts, 1)
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := c.exchange(ctx, "rest", newRequest)
		if err != nil {
			return nil, err
		}
		if res.status != http.StatusAccepted {
			return res.body, nil
		}
		if attempt == attempts {
			break
		}

		c.logger.Info("202 Accepted, retrying...", "path", path, "attempt", attempt, "wait", c.retry.Wait)
		if err := c.sleep(ctx, c.retry.Wait); err != nil {
			return nil, fmt.Errorf("polling %s canceled: %w", path, err)
		}
	}

	c.logger.Warn("too many 202s, data will be incomplete", "path", path, "attempts", attempts)
	return map[string]any{}, nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
