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
	"strings"
	"testing"
)

// selectionLine returns the first line of query that contains field.
func selectionLine(t *testing.T, query, field string) string {
	t.Helper()
	for _, line := range strings.Split(query, "\n") {
		if strings.Contains(line, field) {
			return line
		}
	}
	t.Fatalf("field %q not found in query:\n%s", field, query)
	return ""
}

func TestReposOverview_Cursors(t *testing.T) {
	tests := []struct {
		name          string
		contribCursor string
		ownedCursor   string
		wantOwned     string
		wantContrib   string
	}{
		{
			name:        "first page of both collections",
			wantOwned:   "after: null",
			wantContrib: "after: null",
		},
		{
			name:          "only contributed collection advanced",
			contribCursor: "Y29udHJpYjox",
			wantOwned:     "after: null",
			wantContrib:   `after: "Y29udHJpYjox"`,
		},
		{
			name:        "only owned collection advanced",
			ownedCursor: "b3duZWQ6Mg==",
			wantOwned:   `after: "b3duZWQ6Mg=="`,
			wantContrib: "after: null",
		},
		{
			name:          "both advanced",
			contribCursor: "c1",
			ownedCursor:   "c2",
			wantOwned:     `after: "c2"`,
			wantContrib:   `after: "c1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := ReposOverview(tt.contribCursor, tt.ownedCursor)

			owned := selectionLine(t, query, "repositories(first:")
			if !strings.Contains(owned, tt.wantOwned) {
				t.Errorf("owned selection %q does not contain %q", owned, tt.wantOwned)
			}
			contrib := selectionLine(t, query, "repositoriesContributedTo(")
			if !strings.Contains(contrib, tt.wantContrib) {
				t.Errorf("contributed selection %q does not contain %q", contrib, tt.wantContrib)
			}
		})
	}
}

func TestReposOverview_Selection(t *testing.T) {
	query := ReposOverview("", "")

	for _, want := range []string{
		"viewer {",
		"login",
		"name",
		"repositories(first: 100, isFork: false, after: null)",
		"repositoriesContributedTo(first: 100, includeUserRepositories: false, after: null)",
		"pageInfo { hasNextPage endCursor }",
		"nameWithOwner stargazers { totalCount } forkCount",
		"languages(first: 10, orderBy: { field: SIZE, direction: DESC }) { edges { size node { name color } } }",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q", want)
		}
	}

	if strings.Count(query, "{") != strings.Count(query, "}") {
		t.Errorf("unbalanced braces in query:\n%s", query)
	}
}

func TestReposOverview_CursorIsQuoted(t *testing.T) {
	query := ReposOverview(`we"ird`, "")
	if !strings.Contains(query, `after: "we\"ird"`) {
		t.Errorf("cursor not escaped:\n%s", query)
	}
}

func TestContribYears(t *testing.T) {
	query := ContribYears()
	for _, want := range []string{"query {", "viewer {", "contributionsCollection {", "contributionYears"} {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q", want)
		}
	}
}

func TestContribsByYear(t *testing.T) {
	got := ContribsByYear(2019)

	want := `year2019: contributionsCollection(from: "2019-01-01T00:00:00Z", to: "2020-01-01T00:00:00Z")`
	if !strings.Contains(got, want) {
		t.Errorf("ContribsByYear(2019) = %q, want it to contain %q", got, want)
	}
	if !strings.Contains(got, "contributionCalendar { totalContributions }") {
		t.Errorf("ContribsByYear(2019) missing totalContributions: %q", got)
	}
	if YearAlias(2019) != "year2019" {
		t.Errorf("YearAlias(2019) = %q", YearAlias(2019))
	}
}

func TestContribsByYear_YearBoundary(t *testing.T) {
	got := ContribsByYear(1999)
	if !strings.Contains(got, `from: "1999-01-01T00:00:00Z", to: "2000-01-01T00:00:00Z"`) {
		t.Errorf("unexpected window: %q", got)
	}
}

func TestAllContribs(t *testing.T) {
	query := AllContribs([]int{2019, 2020})

	i2019 := strings.Index(query, "year2019:")
	i2020 := strings.Index(query, "year2020:")
	if i2019 < 0 || i2020 < 0 {
		t.Fatalf("missing year aliases:\n%s", query)
	}
	if i2019 > i2020 {
		t.Error("year2019 should come before year2020")
	}
	if strings.Count(query, "contributionsCollection(") != 2 {
		t.Errorf("expected 2 fragments:\n%s", query)
	}
	if !strings.HasPrefix(strings.TrimSpace(query), "query {") {
		t.Errorf("query should start with 'query {':\n%s", query)
	}
	if strings.Count(query, "{") != strings.Count(query, "}") {
		t.Errorf("unbalanced braces:\n%s", query)
	}
}

func TestAllContribs_Empty(t *testing.T) {
	for _, years := range [][]int{nil, {}} {
		query := AllContribs(years)

		if strings.Contains(query, "contributionsCollection") {
			t.Errorf("expected no fragments:\n%s", query)
		}
		if !strings.Contains(query, "query {") || !strings.Contains(query, "viewer {") {
			t.Errorf("expected query and viewer selections:\n%s", query)
		}
		if strings.Count(query, "{") != strings.Count(query, "}") {
			t.Errorf("unbalanced braces:\n%s", query)
		}
	}
}
