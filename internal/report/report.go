// Package report renders persistence and verification results for the
// terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workspace-sim/internal/store"
)

const (
	defaultWidth = 72
	labelWidth   = 28
	valueWidth   = 10
)

// Render formats a verification report. width is the total width in
// cells; zero picks a default.
func Render(r *store.Report, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	barWidth := max(width-labelWidth-valueWidth-8, 10)

	var b strings.Builder
	b.WriteString(headerStyle.Render("Verification report"))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Row counts"))
	b.WriteString("\n")
	for _, c := range r.Counts {
		b.WriteString(row(c.Name, fmt.Sprintf("%d", c.Value)))
	}

	b.WriteString(sectionStyle.Render("Referential integrity"))
	b.WriteString("\n")
	for _, o := range r.Orphans {
		b.WriteString(checkRow(o.Name, fmt.Sprintf("%d", o.Value), o.Value == 0))
	}

	b.WriteString(sectionStyle.Render("Data quality"))
	b.WriteString("\n")
	empty := r.EmptyTables()
	b.WriteString(checkRow("empty required tables",
		fmt.Sprintf("%d", len(empty)), len(empty) == 0))
	b.WriteString(checkRow("completed before created",
		fmt.Sprintf("%d", r.CompletedBeforeCreated), r.CompletedBeforeCreated == 0))
	b.WriteString(checkRow("placeholder text",
		fmt.Sprintf("%d", r.PlaceholderRows), r.PlaceholderRows == 0))
	b.WriteString(barRow("weekend task creation", r.WeekendRate(), barWidth,
		checkStyle(r.WeekendRate() < store.MaxWeekendRate)))
	b.WriteString(barRow("null descriptions", r.NullDescriptionRate(), barWidth, warnStyle))

	verdict := "PASS"
	if !r.Passed() {
		verdict = "FAIL"
	}
	b.WriteString("\n")
	b.WriteString(checkStyle(r.Passed()).Render(verdict))

	return panelStyle.Width(width).Render(b.String())
}

// RenderPersist formats the per-table results of a write.
func RenderPersist(stats []store.TableStats, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	barWidth := max(width-labelWidth-valueWidth-8, 10)

	var b strings.Builder
	b.WriteString(headerStyle.Render("Persisted tables"))
	b.WriteString("\n\n")

	for _, st := range stats {
		share := 1.0
		if st.Rows > 0 {
			share = float64(st.Written) / float64(st.Rows)
		}
		label := labelStyle.Width(labelWidth).Render(st.Table)
		if st.FailedBatches > 0 {
			label = checkStyle(false).Width(labelWidth).
				Render(fmt.Sprintf("%s (%d failed)", st.Table, st.FailedBatches))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			label,
			valueStyle.Width(valueWidth).Render(fmt.Sprintf("%d/%d", st.Written, st.Rows)),
			"  ",
			bar(barWidth).ViewAs(share),
		))
		b.WriteString("\n")
	}

	return panelStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Width(labelWidth).Render(label),
		valueStyle.Width(valueWidth).Render(value),
	) + "\n"
}

func checkRow(label, value string, ok bool) string {
	mark := "✗"
	if ok {
		mark = "✓"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Width(labelWidth).Render(label),
		valueStyle.Width(valueWidth).Render(value),
		checkStyle(ok).Render(mark),
	) + "\n"
}

func barRow(label string, rate float64, width int, style lipgloss.Style) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Width(labelWidth).Render(label),
		style.Width(valueWidth).Align(lipgloss.Right).Render(fmt.Sprintf("%.1f%%", rate*100)),
		"  ",
		bar(width).ViewAs(rate),
	) + "\n"
}

func bar(width int) progress.Model {
	return progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
}
