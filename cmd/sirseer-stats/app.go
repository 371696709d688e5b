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
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sirseerhq/sirseer-stats/internal/config"
	statserrors "github.com/sirseerhq/sirseer-stats/internal/errors"
	"github.com/sirseerhq/sirseer-stats/internal/github"
	"github.com/sirseerhq/sirseer-stats/internal/output"
)

// globalOptions holds the flags shared by every command.
type globalOptions struct {
	configPath     string
	token          string
	user           string
	maxConnections int
	verbose        bool
}

func (o *globalOptions) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "Config file path (default: .sirseer-stats.yaml or ~/.sirseer/stats.yaml)")
	fs.StringVar(&o.token, "token", "", "GitHub personal access token (overrides the token_env variable)")
	fs.StringVar(&o.user, "user", "", "Commit author counted for lines changed (default: the token's owner); queries always cover the token's account")
	fs.IntVar(&o.maxConnections, "max-connections", 0, "Maximum concurrent requests (default from config, 10)")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")
	return fs
}

// clientFactory builds the GitHub client a command talks to.
type clientFactory func(creds github.Credentials, cfg *config.Config, logger *log.Logger) github.Client

// app carries the state shared by the commands of one invocation.
type app struct {
	opts      globalOptions
	logger    *log.Logger
	newClient clientFactory
}

func newApp() *app {
	return &app{newClient: newAPIClient}
}

func newAPIClient(creds github.Credentials, cfg *config.Config, logger *log.Logger) github.Client {
	return github.NewAPIClient(creds,
		github.WithEndpoints(cfg.GitHub.APIEndpoint, cfg.GitHub.GraphQLEndpoint),
		github.WithMaxConnections(cfg.Client.MaxConnections),
		github.WithRetryConfig(&github.RetryConfig{
			MaxAttempts: cfg.Client.PendingAttempts,
			Wait:        cfg.Client.PendingWait,
		}),
		github.WithTimeout(cfg.Client.Timeout),
		github.WithLogger(logger.WithPrefix("github")),
	)
}

// setup loads configuration, applies flag overrides and builds the client.
func (a *app) setup(cmd *cobra.Command) (*config.Config, github.Client, error) {
	level := log.InfoLevel
	if a.opts.verbose {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Level: level})

	cfg, err := config.LoadConfig(a.opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if a.opts.user != "" {
		cfg.GitHub.Username = a.opts.user
	}
	if cmd.Flags().Changed("max-connections") {
		cfg.Client.MaxConnections = a.opts.maxConnections
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	token := a.opts.token
	if token == "" {
		token = cfg.Token()
	}
	if token == "" {
		return nil, nil, fmt.Errorf("GitHub token not found. Set %s or use --token flag: %w",
			cfg.GitHub.TokenEnv, statserrors.ErrMissingCredentials)
	}

	a.logger.Debug("client configured",
		"api", cfg.GitHub.APIEndpoint,
		"graphql", cfg.GitHub.GraphQLEndpoint,
		"max_connections", cfg.Client.MaxConnections)

	creds := github.Credentials{Username: cfg.GitHub.Username, Token: token}
	return cfg, a.newClient(creds, cfg, a.logger), nil
}

// openOutput returns a writer on stdout or, when path is set, a new file.
func openOutput(cmd *cobra.Command, path string, format output.Format) (output.OutputWriter, error) {
	if path == "" {
		return output.New(cmd.OutOrStdout(), format)
	}
	return output.NewFile(path, format)
}

// writeResult writes a single record and closes the writer.
func writeResult(cmd *cobra.Command, path, formatName string, record any) error {
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}
	w, err := openOutput(cmd, path, format)
	if err != nil {
		return err
	}
	if err := w.Write(record); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	}
	return nil
}

// stdinIsTerminal reports whether stdin is an interactive terminal.
func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
