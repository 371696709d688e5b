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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	statserrors "github.com/sirseerhq/sirseer-stats/internal/errors"
	"github.com/sirseerhq/sirseer-stats/pkg/version"
)

// maxResponseBytes caps how much of a response body is read (10MB).
const maxResponseBytes = 10 * 1024 * 1024

// Sender performs a single HTTP exchange. *http.Client satisfies it.
type Sender interface {
	Do(req *http.Request) (*http.Response, error)
}

// newPrimarySender creates the pooled client used for every first attempt.
// Its per-host connection cap matches the permit pool so idle connections
// are reused instead of piling up.
func newPrimarySender(token string, maxConns int, timeout time.Duration) *http.Client {
	transport := cleanhttp.DefaultPooledTransport()
	transport.MaxIdleConns = maxConns
	transport.MaxIdleConnsPerHost = maxConns
	transport.MaxConnsPerHost = maxConns

	return &http.Client{
		Transport: &authTransport{
			token: token,
			base:  transport,
		},
		Timeout: timeout,
	}
}

// newFallbackSender creates the client used after the primary transport
// fails. It shares no connection state with the primary: every request
// dials a fresh connection.
func newFallbackSender(token string, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &authTransport{
			token: token,
			base:  cleanhttp.DefaultTransport(),
		},
		Timeout: timeout,
	}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
// A body of exactly limit bytes is read in full; the error is returned only
// once a byte past the limit arrives.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read > lr.limit {
		return 0, lr.exceeded()
	}

	// Allow one byte past the limit so an exact-size body still reaches EOF.
	remaining := lr.limit + 1 - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)
	if lr.read > lr.limit {
		return n - int(lr.read-lr.limit), lr.exceeded()
	}

	return n, err
}

func (lr *limitedReader) exceeded() error {
	return fmt.Errorf("response size exceeded limit of %d bytes: %w", lr.limit, statserrors.ErrTransport)
}

// senderTransport adapts a Sender to http.RoundTripper so the typed GraphQL
// client shares the primary transport.
type senderTransport struct {
	sender Sender
}

// RoundTrip implements http.RoundTripper
func (t senderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.sender.Do(req)
}

// authTransport adds identification headers and safety limits to HTTP requests.
// Requests that already carry an Authorization header keep it; the REST API
// uses the "token" scheme while GraphQL uses "Bearer".
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	if req.Header.Get("Authorization") == "" && t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseBytes,
		}
	}

	return resp, nil
}
