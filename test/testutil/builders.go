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

package testutil

// Language is one entry of a repository's language breakdown
type Language struct {
	Name  string
	Color string
	Size  int
}

// Repo describes a repository node in an overview response
type Repo struct {
	NameWithOwner string
	Stars         int
	Forks         int
	Languages     []Language
}

// Build renders the repository as a GraphQL node
func (r Repo) Build() map[string]any {
	edges := make([]any, 0, len(r.Languages))
	for _, lang := range r.Languages {
		var color any
		if lang.Color != "" {
			color = lang.Color
		}
		edges = append(edges, map[string]any{
			"size": lang.Size,
			"node": map[string]any{"name": lang.Name, "color": color},
		})
	}
	return map[string]any{
		"nameWithOwner": r.NameWithOwner,
		"stargazers":    map[string]any{"totalCount": r.Stars},
		"forkCount":     r.Forks,
		"languages":     map[string]any{"edges": edges},
	}
}

// OverviewResponseBuilder builds responses to the repository overview query
type OverviewResponseBuilder struct {
	login         string
	name          string
	owned         []Repo
	contributed   []Repo
	ownedCursor   string
	contribCursor string
	errors        []map[string]any
}

// NewOverviewResponseBuilder creates a new response builder for login
func NewOverviewResponseBuilder(login string) *OverviewResponseBuilder {
	return &OverviewResponseBuilder{login: login}
}

// WithName sets the viewer's display name
func (b *OverviewResponseBuilder) WithName(name string) *OverviewResponseBuilder {
	b.name = name
	return b
}

// WithOwned adds owned repositories to the page
func (b *OverviewResponseBuilder) WithOwned(repos ...Repo) *OverviewResponseBuilder {
	b.owned = append(b.owned, repos...)
	return b
}

// WithContributed adds contributed-to repositories to the page
func (b *OverviewResponseBuilder) WithContributed(repos ...Repo) *OverviewResponseBuilder {
	b.contributed = append(b.contributed, repos...)
	return b
}

// WithOwnedNextPage marks the owned collection as having another page after cursor
func (b *OverviewResponseBuilder) WithOwnedNextPage(cursor string) *OverviewResponseBuilder {
	b.ownedCursor = cursor
	return b
}

// WithContributedNextPage marks the contributed collection as having another page after cursor
func (b *OverviewResponseBuilder) WithContributedNextPage(cursor string) *OverviewResponseBuilder {
	b.contribCursor = cursor
	return b
}

// WithError adds an error to the response
func (b *OverviewResponseBuilder) WithError(message string) *OverviewResponseBuilder {
	b.errors = append(b.errors, map[string]any{"message": message})
	return b
}

// Build creates the GraphQL response
func (b *OverviewResponseBuilder) Build() map[string]any {
	if len(b.errors) > 0 {
		return map[string]any{"errors": b.errors}
	}

	var name any
	if b.name != "" {
		name = b.name
	}

	return map[string]any{
		"data": map[string]any{
			"viewer": map[string]any{
				"login":                     b.login,
				"name":                      name,
				"repositories":              connection(b.owned, b.ownedCursor),
				"repositoriesContributedTo": connection(b.contributed, b.contribCursor),
			},
		},
	}
}

func connection(repos []Repo, nextCursor string) map[string]any {
	nodes := make([]any, 0, len(repos))
	for _, r := range repos {
		nodes = append(nodes, r.Build())
	}

	var cursor any
	if nextCursor != "" {
		cursor = nextCursor
	}
	return map[string]any{
		"pageInfo": map[string]any{
			"hasNextPage": nextCursor != "",
			"endCursor":   cursor,
		},
		"nodes": nodes,
	}
}
