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

	"github.com/spf13/cobra"
)

func newWhoamiCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the account the token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := a.setup(cmd)
			if err != nil {
				return err
			}

			viewer, err := client.Viewer(cmd.Context())
			if err != nil {
				return err
			}

			if format == "text" {
				if name := viewer.DisplayName(); name != viewer.Login {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", viewer.Login, name)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), viewer.Login)
				}
				return nil
			}
			return writeResult(cmd, "", format, viewer)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}
