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

// Package stats turns raw GitHub API responses into an account report.
//
// The github package returns decoded JSON without looking at it; this package
// owns the response shapes. A Collector pages through the repository overview
// (owned and contributed-to collections advance independently), sums stars
// and forks, builds the language breakdown, totals contributions across every
// year with activity, and fans out per-repository REST calls for lines changed
// and traffic views.
//
// Per-repository REST calls may come back empty when GitHub keeps answering
// 202 Accepted; such repositories count as zero and the report is marked
// incomplete rather than failing.
package stats
