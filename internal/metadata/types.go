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

package metadata

import (
	"time"
)

// RunMetadata describes one statistics run: what was asked for, how many
// requests it took and which repository endpoints never produced data.
type RunMetadata struct {
	Version    string     `json:"version"`
	RunID      string     `json:"run_id"`
	Parameters RunParams  `json:"parameters"`
	Results    RunResults `json:"results"`
}

// RunParams captures the inputs of a run.
type RunParams struct {
	Username     string   `json:"username"`
	OwnedOnly    bool     `json:"owned_only"`
	ExcludeRepos []string `json:"exclude_repos,omitempty"`
	ExcludeLangs []string `json:"exclude_langs,omitempty"`
}

// RunResults holds request counts and timing for a run.
type RunResults struct {
	Repos        int       `json:"repos"`
	GraphQLCalls int       `json:"graphql_calls"`
	RESTCalls    int       `json:"rest_calls"`
	Pending      []string  `json:"pending,omitempty"`
	Duration     string    `json:"duration"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}
