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

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-stats/internal/github"
	"github.com/sirseerhq/sirseer-stats/internal/stats"
)

type queryOptions struct {
	preset        string
	years         []int
	ownedCursor   string
	contribCursor string
	outputFile    string
	format        string
}

func newQueryCommand(a *app) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query [graphql | -]",
		Short: "Run a GraphQL query against the GitHub API",
		Long: `Run a GraphQL query and print the raw JSON response.

Pass the query as an argument, or "-" to read it from stdin. Alternatively
use --preset to run one of the built-in queries:

  overview   one page of owned and contributed-to repositories
             (continue with --owned-cursor / --contrib-cursor)
  years      the years with contribution history
  contribs   contribution totals per year (--years, default: every year)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.preset, "preset", "", "Built-in query: overview, years or contribs")
	cmd.Flags().IntSliceVar(&opts.years, "years", nil, "Years for the contribs preset (comma separated)")
	cmd.Flags().StringVar(&opts.ownedCursor, "owned-cursor", "", "endCursor of the previous owned repositories page")
	cmd.Flags().StringVar(&opts.contribCursor, "contrib-cursor", "", "endCursor of the previous contributed repositories page")
	cmd.Flags().StringVar(&opts.outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format: json or ndjson")

	return cmd
}

func (a *app) runQuery(cmd *cobra.Command, args []string, opts queryOptions) error {
	if opts.preset != "" && len(args) > 0 {
		return fmt.Errorf("use either a query argument or --preset, not both")
	}
	if opts.preset == "" && len(args) == 0 {
		return fmt.Errorf("a query argument or --preset is required")
	}

	_, client, err := a.setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var query string
	if opts.preset != "" {
		query, err = a.presetQuery(ctx, client, opts)
	} else {
		query, err = readQuery(cmd, args[0])
	}
	if err != nil {
		return err
	}

	a.logger.Debug("sending query", "bytes", len(query))
	resp, err := client.Query(ctx, query)
	if err != nil {
		return err
	}
	return writeResult(cmd, opts.outputFile, opts.format, resp)
}

func (a *app) presetQuery(ctx context.Context, client github.Client, opts queryOptions) (string, error) {
	switch opts.preset {
	case "overview":
		return github.ReposOverview(opts.contribCursor, opts.ownedCursor), nil
	case "years":
		return github.ContribYears(), nil
	case "contribs":
		years := opts.years
		if len(years) == 0 {
			collector := stats.NewCollector(client, stats.Options{Logger: a.logger.WithPrefix("stats")})
			found, err := collector.ContributionYears(ctx)
			if err != nil {
				return "", fmt.Errorf("failed to list contribution years: %w", err)
			}
			years = found
		}
		return github.AllContribs(years), nil
	default:
		return "", fmt.Errorf("unknown preset %q (want overview, years or contribs)", opts.preset)
	}
}

// readQuery returns arg, or stdin's contents when arg is "-".
func readQuery(cmd *cobra.Command, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	if stdinIsTerminal(cmd) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Reading query from stdin (end with Ctrl-D)...")
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read query from stdin: %w", err)
	}
	query := strings.TrimSpace(string(data))
	if query == "" {
		return "", fmt.Errorf("empty query on stdin")
	}
	return query, nil
}
