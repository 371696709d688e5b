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

package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/sirseerhq/sirseer-stats/internal/stats"
)

const (
	labelWidth = 22
	barWidth   = 30
)

// TextWriter renders reports for a terminal. Colors are dropped when the
// output is not a terminal.
type TextWriter struct {
	mu       sync.Mutex
	output   io.Writer
	fallback *Writer

	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	dim     lipgloss.Style
	warning lipgloss.Style
}

// NewTextWriter creates a text writer on w.
func NewTextWriter(w io.Writer) *TextWriter {
	r := lipgloss.NewRenderer(w)
	return &TextWriter{
		output:   w,
		fallback: NewIndentWriter(w),
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("36")),
		label:    r.NewStyle().Foreground(lipgloss.Color("245")).Width(labelWidth),
		value:    r.NewStyle().Foreground(lipgloss.Color("255")),
		dim:      r.NewStyle().Foreground(lipgloss.Color("240")),
		warning:  r.NewStyle().Foreground(lipgloss.Color("220")),
	}
}

// Write renders a *stats.Report as a summary. Any other record is written as
// indented JSON.
func (t *TextWriter) Write(record any) error {
	var report *stats.Report
	switch v := record.(type) {
	case *stats.Report:
		report = v
	case stats.Report:
		report = &v
	default:
		return t.fallback.Write(record)
	}
	if report == nil {
		return t.fallback.Write(record)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := io.WriteString(t.output, t.render(report)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Close is a no-op.
func (t *TextWriter) Close() error {
	return nil
}

func (t *TextWriter) render(r *stats.Report) string {
	var b strings.Builder

	title := r.Name
	if r.Login != "" && r.Login != r.Name {
		title += " (" + r.Login + ")"
	}
	b.WriteString(t.title.Render(title) + "\n\n")

	t.row(&b, "Stars", formatInt(r.Stargazers))
	t.row(&b, "Forks", formatInt(r.Forks))
	t.row(&b, "All-time contributions", formatInt(r.TotalContributions))
	t.row(&b, "Lines of code changed", formatInt(r.LinesChanged.Total()))
	t.row(&b, "Repository views", formatInt(r.Views))
	t.row(&b, "Repositories", formatInt(len(r.Repos)))

	if len(r.Languages) > 0 {
		b.WriteString("\n" + t.title.Render("Languages") + "\n")
		for _, lang := range r.Languages {
			filled := int(lang.Proportion / 100 * barWidth)
			bar := strings.Repeat("█", filled) + t.dim.Render(strings.Repeat("░", barWidth-filled))
			fmt.Fprintf(&b, "%s %s %s\n",
				t.label.Render(lang.Name),
				bar,
				t.value.Render(strconv.FormatFloat(lang.Proportion, 'f', 2, 64)+"%"))
		}
	}

	if r.Incomplete {
		b.WriteString("\n" + t.warning.Render("! some repositories were still computing statistics; totals may be low") + "\n")
	}
	return b.String()
}

func (t *TextWriter) row(b *strings.Builder, label, value string) {
	b.WriteString(t.label.Render(label) + " " + t.value.Render(value) + "\n")
}

// formatInt renders n with thousands separators.
func formatInt(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
