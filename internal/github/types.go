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

// Credentials identify the account whose statistics are gathered.
// They are copied into the client at construction and never change.
type Credentials struct {
	Username string
	Token    string
}

// Viewer is the authenticated account as reported by the GraphQL API.
type Viewer struct {
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
}

// DisplayName returns the account's profile name, falling back to its login.
func (v *Viewer) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	return v.Login
}

// Default values for client construction
const (
	DefaultAPIEndpoint     = "https://api.github.com"
	DefaultGraphQLEndpoint = "https://api.github.com/graphql"

	// DefaultMaxConnections bounds the number of in-flight requests per client.
	DefaultMaxConnections = 10

	// overviewPageSize is the page size of both repository collections.
	overviewPageSize = 100

	// overviewLanguages is the number of languages requested per repository.
	overviewLanguages = 10
)
