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
	"time"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-stats/internal/metadata"
	"github.com/sirseerhq/sirseer-stats/internal/stats"
)

func newStatsCommand(a *app) *cobra.Command {
	var (
		outputFile   string
		format       string
		metadataFile string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Collect the statistics report for an account",
		Long: `Collect the statistics report for a GitHub account.

The report covers owned repositories and, unless stats.owned_only is set,
repositories the account contributed to. Repositories and languages listed
in stats.exclude_repos and stats.exclude_langs are left out.

Lines changed come from GitHub's contributor statistics, which GitHub computes
on demand. Repositories still computing after every poll count as zero and
the report is flagged incomplete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStats(cmd, outputFile, format, metadataFile)
		},
	}

	cmd.Flags().StringVar(&outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or ndjson")
	cmd.Flags().StringVar(&metadataFile, "metadata-file", "", "Also save run metadata (request counts, pending repositories) to this file")

	return cmd
}

func (a *app) runStats(cmd *cobra.Command, outputFile, format, metadataFile string) error {
	cfg, client, err := a.setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// An empty username makes Collect use the overview's viewer login.
	collector := stats.NewCollector(client, stats.Options{
		Username:     cfg.GitHub.Username,
		ExcludeRepos: cfg.Stats.ExcludeRepos,
		ExcludeLangs: cfg.Stats.ExcludeLangs,
		OwnedOnly:    cfg.Stats.OwnedOnly,
		Logger:       a.logger.WithPrefix("stats"),
	})

	start := time.Now()
	a.logger.Info("collecting statistics")
	report, err := collector.Collect(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("statistics collected",
		"user", report.Metadata.Parameters.Username,
		"repos", len(report.Repos),
		"requests", report.Metadata.Results.GraphQLCalls+report.Metadata.Results.RESTCalls,
		"elapsed", time.Since(start).Round(time.Millisecond))
	if report.Incomplete {
		a.logger.Warn("report is incomplete; run again once GitHub has computed repository statistics",
			"pending", len(report.Metadata.Results.Pending))
	}

	if metadataFile != "" {
		if err := metadata.Save(report.Metadata, metadataFile); err != nil {
			return err
		}
		a.logger.Debug("saved run metadata", "path", metadataFile, "run_id", report.Metadata.RunID)
	}

	return writeResult(cmd, outputFile, format, report)
}
