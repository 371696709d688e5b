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
	"net/url"
)

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// Query posts a GraphQL document to the GraphQL endpoint and returns the
	// decoded response body as-is, including any "errors" member.
	Query(ctx context.Context, query string) (any, error)

	// QueryREST issues a GET against the REST endpoint. Responses with status
	// 202 are polled until GitHub finishes computing them; when the retry
	// budget runs out an empty map is returned and a warning is logged.
	QueryREST(ctx context.Context, path string, params url.Values) (any, error)

	// Viewer returns the account that owns the token.
	Viewer(ctx context.Context) (*Viewer, error)
}
