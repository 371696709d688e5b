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

package stats

import (
	"time"

	"github.com/sirseerhq/sirseer-stats/internal/metadata"
)

// Language is one entry of the language breakdown.
type Language struct {
	Name        string  `json:"name"`
	Color       string  `json:"color,omitempty"`
	Size        int     `json:"size"`
	Occurrences int     `json:"occurrences"`
	Proportion  float64 `json:"proportion"`
}

// Overview aggregates the repository overview pages.
type Overview struct {
	Login      string     `json:"login"`
	Name       string     `json:"name"`
	Repos      []string   `json:"repos"`
	Stargazers int        `json:"stargazers"`
	Forks      int        `json:"forks"`
	Languages  []Language `json:"languages"`
}

// LinesChanged sums additions and deletions authored by the account.
type LinesChanged struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// Total returns additions plus deletions.
func (l LinesChanged) Total() int {
	return l.Additions + l.Deletions
}

// Report is the complete statistics report for one account.
type Report struct {
	Overview
	TotalContributions int          `json:"total_contributions"`
	LinesChanged       LinesChanged `json:"lines_changed"`
	Views              int          `json:"views"`

	// Incomplete is set when at least one REST call ran out of 202 retries.
	Incomplete  bool      `json:"incomplete"`
	GeneratedAt time.Time `json:"generated_at"`

	Metadata *metadata.RunMetadata `json:"metadata,omitempty"`
}

// overviewResponse is the shape of a github.ReposOverview response.
type overviewResponse struct {
	Data struct {
		Viewer struct {
			Login                     string         `json:"login"`
			Name                      *string        `json:"name"`
			Repositories              repoConnection `json:"repositories"`
			RepositoriesContributedTo repoConnection `json:"repositoriesContributedTo"`
		} `json:"viewer"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type repoConnection struct {
	PageInfo struct {
		HasNextPage bool    `json:"hasNextPage"`
		EndCursor   *string `json:"endCursor"`
	} `json:"pageInfo"`
	Nodes []repoNode `json:"nodes"`
}

type repoNode struct {
	NameWithOwner string `json:"nameWithOwner"`
	Stargazers    struct {
		TotalCount int `json:"totalCount"`
	} `json:"stargazers"`
	ForkCount int `json:"forkCount"`
	Languages struct {
		Edges []struct {
			Size int `json:"size"`
			Node struct {
				Name  string  `json:"name"`
				Color *string `json:"color"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"languages"`
}

type contribYearsResponse struct {
	Data struct {
		Viewer struct {
			ContributionsCollection struct {
				ContributionYears []int `json:"contributionYears"`
			} `json:"contributionsCollection"`
		} `json:"viewer"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type yearContribution struct {
	ContributionCalendar struct {
		TotalContributions int `json:"totalContributions"`
	} `json:"contributionCalendar"`
}

type allContribsResponse struct {
	Data struct {
		Viewer map[string]yearContribution `json:"viewer"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// contributorStats is one element of repos/{repo}/stats/contributors.
type contributorStats struct {
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
	Weeks []struct {
		Additions int `json:"a"`
		Deletions int `json:"d"`
	} `json:"weeks"`
}

// trafficViews is the shape of repos/{repo}/traffic/views.
type trafficViews struct {
	Count int `json:"count"`
	Views []struct {
		Count int `json:"count"`
	} `json:"views"`
}

type graphQLError struct {
	Message string `json:"message"`
}
