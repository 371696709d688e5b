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
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func newRESTCommand(a *app) *cobra.Command {
	var (
		params     []string
		outputFile string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "rest <path>",
		Short: "GET a GitHub REST endpoint",
		Long: `GET a GitHub REST endpoint and print the raw JSON response.

The path is relative to the API root, for example:

  sirseer-stats rest repos/golang/go/stats/contributors
  sirseer-stats rest repos/octocat/hello/traffic/views --param per=day

Endpoints answering 202 Accepted are polled until they return data. If they
never do, an empty object is printed and a warning is logged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseParams(params)
			if err != nil {
				return err
			}
			return a.runREST(cmd, args[0], values, outputFile, format)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Query parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or ndjson")

	return cmd
}

func (a *app) runREST(cmd *cobra.Command, path string, params url.Values, outputFile, format string) error {
	_, client, err := a.setup(cmd)
	if err != nil {
		return err
	}

	resp, err := client.QueryREST(cmd.Context(), path, params)
	if err != nil {
		return err
	}
	return writeResult(cmd, outputFile, format, resp)
}

// parseParams turns key=value pairs into query parameters. Repeated keys
// are kept in order.
func parseParams(pairs []string) (url.Values, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q. Expected: key=value", pair)
		}
		values.Add(key, value)
	}
	return values, nil
}
