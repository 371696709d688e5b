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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/sirseerhq/sirseer-stats/internal/github"
	"github.com/sirseerhq/sirseer-stats/internal/metadata"
	"github.com/sirseerhq/sirseer-stats/pkg/version"
)

// ErrGraphQL is returned when a GraphQL response carries errors and no data.
var ErrGraphQL = errors.New("graphql query failed")

// Options configures a Collector.
type Options struct {
	// Username is the login whose contributor stats count toward lines
	// changed. When empty, the viewer login from the overview is used.
	Username string

	// ExcludeRepos lists nameWithOwner values to leave out of the report.
	ExcludeRepos []string

	// ExcludeLangs lists language names to leave out, compared case-insensitively.
	ExcludeLangs []string

	// OwnedOnly ignores repositories the account only contributed to.
	OwnedOnly bool

	// Tracker records request counts for the report metadata. A new one is
	// created when nil.
	Tracker *metadata.Tracker

	Logger *log.Logger
}

// Collector builds a Report from a github.Client.
type Collector struct {
	client       github.Client
	username     string
	excludeRepos map[string]struct{}
	excludeLangs map[string]struct{}
	ownedOnly    bool
	params       metadata.RunParams
	tracker      *metadata.Tracker
	logger       *log.Logger

	mu         sync.Mutex
	incomplete bool
}

// NewCollector creates a collector reading through client.
func NewCollector(client github.Client, opts Options) *Collector {
	c := &Collector{
		client:       client,
		username:     opts.Username,
		excludeRepos: make(map[string]struct{}, len(opts.ExcludeRepos)),
		excludeLangs: make(map[string]struct{}, len(opts.ExcludeLangs)),
		ownedOnly:    opts.OwnedOnly,
		tracker:      opts.Tracker,
		logger:       opts.Logger,
	}
	c.params = metadata.RunParams{
		Username:     opts.Username,
		OwnedOnly:    opts.OwnedOnly,
		ExcludeRepos: opts.ExcludeRepos,
		ExcludeLangs: opts.ExcludeLangs,
	}
	for _, r := range opts.ExcludeRepos {
		c.excludeRepos[r] = struct{}{}
	}
	for _, l := range opts.ExcludeLangs {
		c.excludeLangs[strings.ToLower(l)] = struct{}{}
	}
	if c.tracker == nil {
		c.tracker = metadata.New()
	}
	if c.logger == nil {
		c.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "stats"})
	}
	return c
}

// Collect gathers the full report. The overview runs first since the
// per-repository calls need its repository list.
func (c *Collector) Collect(ctx context.Context) (*Report, error) {
	overview, err := c.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}

	report := &Report{Overview: *overview}
	username := c.username
	if username == "" {
		username = overview.Login
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := c.TotalContributions(gctx)
		if err != nil {
			return fmt.Errorf("contributions: %w", err)
		}
		report.TotalContributions = total
		return nil
	})
	g.Go(func() error {
		lines, err := c.LinesChanged(gctx, username, overview.Repos)
		if err != nil {
			return fmt.Errorf("lines changed: %w", err)
		}
		report.LinesChanged = lines
		return nil
	})
	g.Go(func() error {
		views, err := c.Views(gctx, overview.Repos)
		if err != nil {
			return fmt.Errorf("views: %w", err)
		}
		report.Views = views
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	params := c.params
	params.Username = username
	report.Metadata = c.tracker.Generate(version.Version, params, len(overview.Repos))
	report.Incomplete = c.Incomplete()
	report.GeneratedAt = report.Metadata.Results.CompletedAt.UTC()
	return report, nil
}

// Incomplete reports whether any REST call so far came back empty after
// exhausting its 202 retries.
func (c *Collector) Incomplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.incomplete
}

func (c *Collector) markIncomplete(path string) {
	c.logger.Warn("no data for repository endpoint", "path", path)
	c.mu.Lock()
	c.incomplete = true
	c.mu.Unlock()
}

// Overview pages through the owned and contributed-to repository collections
// until neither reports another page.
func (c *Collector) Overview(ctx context.Context) (*Overview, error) {
	agg := newLanguageAggregator(c.excludeLangs)
	seen := make(map[string]struct{})
	ov := &Overview{}

	var ownedCursor, contribCursor string
	ownedDone, contribDone := false, false

	for page := 1; ; page++ {
		resp, err := c.query(ctx, github.ReposOverview(contribCursor, ownedCursor))
		if err != nil {
			return nil, err
		}

		var parsed overviewResponse
		if err := decode(resp, &parsed); err != nil {
			return nil, fmt.Errorf("decode overview page %d: %w", page, err)
		}
		viewer := parsed.Data.Viewer
		if err := checkErrors(parsed.Errors, viewer.Login != ""); err != nil {
			return nil, err
		}
		if len(parsed.Errors) > 0 {
			c.logger.Warn("overview page returned partial data", "page", page, "errors", len(parsed.Errors))
		}

		ov.Login = viewer.Login
		ov.Name = viewer.Login
		if viewer.Name != nil && *viewer.Name != "" {
			ov.Name = *viewer.Name
		}

		owned := viewer.Repositories
		contrib := viewer.RepositoriesContributedTo

		if !ownedDone {
			c.addRepos(ov, agg, seen, owned.Nodes)
		}
		if !contribDone && !c.ownedOnly {
			c.addRepos(ov, agg, seen, contrib.Nodes)
		}

		c.logger.Debug("fetched overview page", "page", page,
			"owned", len(owned.Nodes), "contributed", len(contrib.Nodes))

		ownedDone = ownedDone || !owned.PageInfo.HasNextPage
		contribDone = contribDone || !contrib.PageInfo.HasNextPage
		if ownedDone && contribDone {
			break
		}

		var advanced bool
		ownedCursor, advanced = advance(ownedCursor, owned.PageInfo.EndCursor, ownedDone)
		if !advanced && !ownedDone {
			ownedDone = true
		}
		contribCursor, advanced = advance(contribCursor, contrib.PageInfo.EndCursor, contribDone)
		if !advanced && !contribDone {
			contribDone = true
		}
		if ownedDone && contribDone {
			c.logger.Warn("overview pagination stalled, stopping", "page", page)
			break
		}
	}

	sort.Strings(ov.Repos)
	ov.Languages = agg.languages()
	return ov, nil
}

// advance moves a collection cursor forward. A finished collection keeps its
// last cursor so later pages stay empty for it. It reports false when an
// unfinished collection offered no new cursor.
func advance(current string, end *string, done bool) (string, bool) {
	if end == nil || *end == "" || *end == current {
		return current, done
	}
	return *end, true
}

func (c *Collector) addRepos(ov *Overview, agg *languageAggregator, seen map[string]struct{}, nodes []repoNode) {
	for _, repo := range nodes {
		name := repo.NameWithOwner
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		if _, ok := c.excludeRepos[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		ov.Repos = append(ov.Repos, name)
		ov.Stargazers += repo.Stargazers.TotalCount
		ov.Forks += repo.ForkCount
		for _, edge := range repo.Languages.Edges {
			color := ""
			if edge.Node.Color != nil {
				color = *edge.Node.Color
			}
			agg.add(edge.Node.Name, color, edge.Size)
		}
	}
}

// ContributionYears lists the years in which the account has contribution
// history, most recent first as GitHub returns them.
func (c *Collector) ContributionYears(ctx context.Context) ([]int, error) {
	resp, err := c.query(ctx, github.ContribYears())
	if err != nil {
		return nil, err
	}
	var years contribYearsResponse
	if err := decode(resp, &years); err != nil {
		return nil, fmt.Errorf("decode contribution years: %w", err)
	}
	list := years.Data.Viewer.ContributionsCollection.ContributionYears
	if err := checkErrors(years.Errors, len(list) > 0); err != nil {
		return nil, err
	}
	return list, nil
}

// TotalContributions sums the contribution calendars of every year with
// activity. Years are fetched in a single aliased query.
func (c *Collector) TotalContributions(ctx context.Context) (int, error) {
	list, err := c.ContributionYears(ctx)
	if err != nil {
		return 0, err
	}
	if len(list) == 0 {
		return 0, nil
	}

	resp, err := c.query(ctx, github.AllContribs(list))
	if err != nil {
		return 0, err
	}
	var all allContribsResponse
	if err := decode(resp, &all); err != nil {
		return 0, fmt.Errorf("decode contributions: %w", err)
	}
	if err := checkErrors(all.Errors, len(all.Data.Viewer) > 0); err != nil {
		return 0, err
	}

	total := 0
	for _, year := range list {
		total += all.Data.Viewer[github.YearAlias(year)].ContributionCalendar.TotalContributions
	}
	c.logger.Debug("counted contributions", "years", len(list), "total", total)
	return total, nil
}

// LinesChanged sums weekly additions and deletions attributed to username
// across repos. Repositories still computing their statistics count as zero.
func (c *Collector) LinesChanged(ctx context.Context, username string, repos []string) (LinesChanged, error) {
	results := make([]LinesChanged, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	for i, repo := range repos {
		g.Go(func() error {
			path := "repos/" + repo + "/stats/contributors"
			resp, err := c.rest(gctx, path, nil)
			if err != nil {
				return fmt.Errorf("%s: %w", repo, err)
			}
			if resp == nil {
				return nil
			}

			var contributors []contributorStats
			if err := decode(resp, &contributors); err != nil {
				c.logger.Debug("unexpected contributor stats payload", "repo", repo, "err", err)
				return nil
			}
			for _, contributor := range contributors {
				if contributor.Author == nil || contributor.Author.Login != username {
					continue
				}
				for _, week := range contributor.Weeks {
					results[i].Additions += week.Additions
					results[i].Deletions += week.Deletions
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return LinesChanged{}, err
	}

	var total LinesChanged
	for _, r := range results {
		total.Additions += r.Additions
		total.Deletions += r.Deletions
	}
	return total, nil
}

// Views sums the daily traffic views of repos. Traffic data needs push
// access, so repositories that refuse it count as zero.
func (c *Collector) Views(ctx context.Context, repos []string) (int, error) {
	results := make([]int, len(repos))
	params := url.Values{"per": []string{"day"}}

	g, gctx := errgroup.WithContext(ctx)
	for i, repo := range repos {
		g.Go(func() error {
			path := "repos/" + repo + "/traffic/views"
			resp, err := c.rest(gctx, path, params)
			if err != nil {
				return fmt.Errorf("%s: %w", repo, err)
			}
			if resp == nil {
				return nil
			}

			var traffic trafficViews
			if err := decode(resp, &traffic); err != nil {
				c.logger.Debug("unexpected traffic payload", "repo", repo, "err", err)
				return nil
			}
			for _, day := range traffic.Views {
				results[i] += day.Count
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, v := range results {
		total += v
	}
	return total, nil
}

func (c *Collector) query(ctx context.Context, query string) (any, error) {
	c.tracker.RecordQuery()
	return c.client.Query(ctx, query)
}

// rest GETs path and returns nil when there is nothing to read: an empty
// body, or the empty map of an exhausted 202 poll. The latter marks the
// report incomplete.
func (c *Collector) rest(ctx context.Context, path string, params url.Values) (any, error) {
	resp, err := c.client.QueryREST(ctx, path, params)
	if err != nil {
		c.tracker.RecordREST(path, false)
		return nil, err
	}

	pending := false
	if m, ok := resp.(map[string]any); ok && len(m) == 0 {
		pending = true
		c.markIncomplete(path)
	}
	c.tracker.RecordREST(path, pending)
	if pending {
		return nil, nil
	}
	return resp, nil
}

// decode converts a generic decoded JSON value into a typed shape.
func decode(resp any, v any) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// checkErrors returns ErrGraphQL when a response has errors and no usable data.
func checkErrors(errs []graphQLError, hasData bool) error {
	if len(errs) == 0 || hasData {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(msgs, "; "))
}
