package tui

import (
	"fmt"
	"strings"

	"github.com/CK3thou/youtube-transcripts/types"
)

const barWidth = 30

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.Heading))
	b.WriteString("\n")

	b.WriteString(ProgressBar(m.Completed, m.Total, barWidth))
	fmt.Fprintf(&b, " %d/%d\n", m.Completed, m.Total)
	if m.Current != "" {
		b.WriteString(InfoStyle.Render("Last: " + m.Current))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, line := range m.Logs {
		b.WriteString(styleLine(line))
		b.WriteString("\n")
	}

	if m.Summary != nil {
		b.WriteString("\n")
		b.WriteString(RenderSummary(*m.Summary, m.Interrupted))
		b.WriteString("\n")
	}

	if m.finished {
		b.WriteString(InfoStyle.Render("Press enter or q to exit"))
	} else {
		b.WriteString(InfoStyle.Render("Press q or Ctrl+C to stop"))
	}
	b.WriteString("\n")
	return b.String()
}

func styleLine(line string) string {
	switch {
	case strings.HasPrefix(line, "✓"):
		return SuccessStyle.Render(line)
	case strings.HasPrefix(line, "✗"):
		return ErrorStyle.Render(line)
	default:
		return InfoStyle.Render(line)
	}
}

// ProgressBar renders completed/total as a bar of width cells.
func ProgressBar(completed, total, width int) string {
	filled := 0
	if total > 0 {
		filled = completed * width / total
	}
	filled = min(max(filled, 0), width)
	return barFull.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", width-filled))
}

// RenderSummary boxes the batch totals and lists the failures.
func RenderSummary(s types.Summary, interrupted bool) string {
	var b strings.Builder
	if interrupted {
		b.WriteString(ErrorStyle.Render("Stopped early"))
		b.WriteString("\n")
	}
	b.WriteString(SuccessStyle.Render(fmt.Sprintf("%d successful", s.SuccessCount)))
	b.WriteString(", ")
	b.WriteString(ErrorStyle.Render(fmt.Sprintf("%d failed", s.ErrorCount)))
	for _, f := range s.Failures {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("  %s: %s", f.Video.Title, f.Error)))
	}
	return BoxStyle.Render(b.String())
}
