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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	statserrors "github.com/sirseerhq/sirseer-stats/internal/errors"
	"github.com/sirseerhq/sirseer-stats/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand(newApp())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sirseer-stats",
		Short: "Collect statistics about a GitHub account",
		Long: `SirSeer Stats collects statistics about a GitHub account: stars, forks,
language breakdown, all-time contributions, lines changed and repository views.
Requests share one connection limit and REST statistics endpoints are polled
while GitHub is still computing them.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.PersistentFlags().AddFlagSet(a.opts.flagSet())

	rootCmd.AddCommand(
		newStatsCommand(a),
		newQueryCommand(a),
		newRESTCommand(a),
		newWhoamiCommand(a),
	)
	return rootCmd
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, statserrors.ErrInvalidToken) ||
		errors.Is(err, statserrors.ErrMissingCredentials) ||
		errors.Is(err, statserrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, statserrors.ErrNetworkFailure) ||
		errors.Is(err, statserrors.ErrTransport) {
		return 3 // Network errors
	}

	return 1 // General error
}
