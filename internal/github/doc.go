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

// Package github provides a thin client for GitHub's GraphQL and REST APIs,
// used to gather account statistics: repository listings, stars, forks,
// language sizes, and yearly contribution totals.
//
// The package includes:
//   - Query builders that return raw GraphQL documents (ReposOverview,
//     ContribYears, ContribsByYear, AllContribs)
//   - APIClient, which executes documents against the GraphQL endpoint and
//     paths against the REST endpoint, returning the decoded JSON untouched
//   - A bounded permit pool shared by every request made through one client
//   - A primary pooled transport with a one-shot fallback to a fresh,
//     non-pooled transport when the primary fails at the transport level
//   - Polling of REST endpoints that answer 202 Accepted while GitHub
//     computes the result (for example repos/{repo}/stats/contributors)
//   - Mock client for testing
//
// Basic usage:
//
//	client := github.NewAPIClient(github.Credentials{Username: "octocat", Token: token})
//	resp, err := client.Query(ctx, github.ReposOverview("", ""))
//	if err != nil {
//	    // Only the fallback transport failing surfaces here
//	}
//	stats, err := client.QueryREST(ctx, "repos/octocat/hello-world/stats/contributors", nil)
package github
