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

// Package main implements the sirseer-stats command-line interface.
// This tool collects statistics about a GitHub account (stars, forks,
// languages, all-time contributions, lines changed and repository views)
// and gives direct access to the GitHub GraphQL and REST endpoints through
// the same rate-limited client.
//
// The CLI supports:
//   - A full statistics report as text, JSON or NDJSON
//   - Raw or preset GraphQL queries
//   - Raw REST GETs, polled while GitHub answers 202 Accepted
//   - Resolving the authenticated account
//
// Usage:
//
//	sirseer-stats stats [flags]
//	sirseer-stats query [graphql | -] [--preset overview|years|contribs]
//	sirseer-stats rest <path> [--param key=value]...
//	sirseer-stats whoami
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	sirseer-stats stats --format json --output stats.json
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, credentials or rate limit error
//   - 3: Network error
package main
