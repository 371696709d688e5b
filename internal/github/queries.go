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
	"strconv"
	"strings"
)

// reposOverviewTemplate selects the viewer's identity plus one page of owned
// non-fork repositories and one page of repositories contributed to.
// Verbs: %[1]d page size, %[2]s owned cursor, %[3]s contributed cursor,
// %[4]d languages per repository.
const reposOverviewTemplate = `{
  viewer {
    login
    name
    repositories(first: %[1]d, isFork: false, after: %[2]s) {
      pageInfo { hasNextPage endCursor }
      nodes { nameWithOwner stargazers { totalCount } forkCount languages(first: %[4]d, orderBy: { field: SIZE, direction: DESC }) { edges { size node { name color } } } }
    }
    repositoriesContributedTo(first: %[1]d, includeUserRepositories: false, after: %[3]s) {
      pageInfo { hasNextPage endCursor }
      nodes { nameWithOwner stargazers { totalCount } forkCount languages(first: %[4]d, orderBy: { field: SIZE, direction: DESC }) { edges { size node { name color } } } }
    }
  }
}`

const contribYearsQuery = `
query {
  viewer {
    contributionsCollection {
      contributionYears
    }
  }
}
`

const contribsByYearTemplate = `
    year%[1]d: contributionsCollection(from: "%[1]d-01-01T00:00:00Z", to: "%[2]d-01-01T00:00:00Z") {
      contributionCalendar { totalContributions }
    }
`

const allContribsTemplate = `
query {
  viewer {
    %s
  }
}
`

// ReposOverview builds the repository overview query. Each collection is
// paginated on its own: pass the endCursor of the previous page for the
// collection that reported hasNextPage, or "" to request its first page.
func ReposOverview(contribCursor, ownedCursor string) string {
	return fmt.Sprintf(reposOverviewTemplate,
		overviewPageSize,
		cursorLiteral(ownedCursor),
		cursorLiteral(contribCursor),
		overviewLanguages)
}

// ContribYears builds the query listing every year with contribution history.
func ContribYears() string {
	return contribYearsQuery
}

// ContribsByYear builds a contributionsCollection selection aliased
// "year<year>" covering [year-01-01, year+1-01-01) in UTC. It is a fragment
// meant to be embedded in a viewer selection, see AllContribs.
func ContribsByYear(year int) string {
	return fmt.Sprintf(contribsByYearTemplate, year, year+1)
}

// AllContribs builds one query carrying a ContribsByYear selection per year,
// in the given order. With no years the viewer selection is empty.
func AllContribs(years []int) string {
	fragments := make([]string, 0, len(years))
	for _, year := range years {
		fragments = append(fragments, ContribsByYear(year))
	}
	return fmt.Sprintf(allContribsTemplate, strings.Join(fragments, "\n"))
}

// YearAlias returns the response field name ContribsByYear uses for year.
func YearAlias(year int) string {
	return "year" + strconv.Itoa(year)
}

func cursorLiteral(cursor string) string {
	if cursor == "" {
		return "null"
	}
	return strconv.Quote(cursor)
}
