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

// Package output writes query results and statistics reports.
//
// Three formats are supported. FormatJSON writes each record as an indented
// JSON document, FormatNDJSON writes one compact JSON object per line, and
// FormatText renders a stats.Report as a styled summary for the terminal
// (other records fall back to indented JSON).
//
// Example usage:
//
//	w, err := output.New(os.Stdout, output.FormatText)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Write(report); err != nil {
//	    return err
//	}
package output
