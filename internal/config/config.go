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

// Package config provides configuration management for sirseer-stats with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The access token itself is never stored in the file; the file names the
// environment variable that holds it (github.token_env).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .sirseer-stats.yaml (current directory)
//   - .sirseer-stats.yml (current directory)
//   - ~/.sirseer/stats.yaml
//   - ~/.sirseer/stats.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(expandPath(configPath), cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".sirseer-stats.yaml",
			".sirseer-stats.yml",
			expandPath("~/.sirseer/stats.yaml"),
			expandPath("~/.sirseer/stats.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	// GitHub endpoints
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}
	if actor := os.Getenv("GITHUB_ACTOR"); actor != "" {
		cfg.GitHub.Username = actor
	}

	// Client
	if conns := os.Getenv("SIRSEER_MAX_CONNECTIONS"); conns != "" {
		if n, err := parsePositiveInt(conns); err == nil {
			cfg.Client.MaxConnections = n
		}
	}

	// Stats filters
	if excluded := os.Getenv("EXCLUDED"); excluded != "" {
		cfg.Stats.ExcludeRepos = splitList(excluded)
	}
	if excluded := os.Getenv("EXCLUDED_LANGS"); excluded != "" {
		cfg.Stats.ExcludeLangs = splitList(excluded)
	}
	if owned := os.Getenv("EXCLUDE_FORKED_REPOS"); owned != "" {
		cfg.Stats.OwnedOnly = parseBool(owned)
	}
}

// Token returns the access token from the environment variable named by
// github.token_env.
func (c *Config) Token() string {
	if c.GitHub.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.GitHub.TokenEnv)
}

// Validate checks if the configuration contains valid values. It should be
// called after loading configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	if c.Client.MaxConnections <= 0 {
		return fmt.Errorf("max connections must be positive, got: %d", c.Client.MaxConnections)
	}
	if c.Client.PendingAttempts <= 0 {
		return fmt.Errorf("pending attempts must be positive, got: %d", c.Client.PendingAttempts)
	}
	if c.Client.PendingWait < 0 {
		return fmt.Errorf("pending wait cannot be negative, got: %s", c.Client.PendingWait)
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got: %s", c.Client.Timeout)
	}
	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// splitList splits a comma separated list, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}
