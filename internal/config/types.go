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

// Package config types define the configuration structures used throughout
// sirseer-stats. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

import "time"

// Config represents the complete configuration for sirseer-stats.
// It consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	Client ClientConfig `yaml:"client"`
	Stats  StatsConfig  `yaml:"stats"`
}

// GitHubConfig contains GitHub-specific settings including API endpoints
// and the account to report on. Custom endpoints allow GitHub Enterprise.
type GitHubConfig struct {
	APIEndpoint     string `yaml:"api_endpoint"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
	Username        string `yaml:"username"`
}

// ClientConfig controls the query client: how many requests may be in
// flight at once and how long REST endpoints answering 202 are polled.
type ClientConfig struct {
	MaxConnections  int           `yaml:"max_connections"`
	PendingAttempts int           `yaml:"pending_attempts"`
	PendingWait     time.Duration `yaml:"pending_wait"`
	Timeout         time.Duration `yaml:"timeout"`
}

// StatsConfig filters what the statistics report counts.
type StatsConfig struct {
	ExcludeRepos []string `yaml:"exclude_repos"`
	ExcludeLangs []string `yaml:"exclude_langs"`
	OwnedOnly    bool     `yaml:"owned_only"`
}

// DefaultConfig returns a Config with sensible defaults suitable for
// public GitHub.com usage.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Client: ClientConfig{
			MaxConnections:  10,
			PendingAttempts: 60,
			PendingWait:     2 * time.Second,
			Timeout:         60 * time.Second,
		},
	}
}
