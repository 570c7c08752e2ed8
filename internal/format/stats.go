package format

import (
	"fmt"
	"strings"

	"github.com/Attamusc/history-dates-cli/internal/derive"
)

// RenderCounts generates a markdown frequency table with a title row
// Returns empty string when there is nothing to count
func RenderCounts(title string, counts []derive.Count) string {
	if len(counts) == 0 {
		return ""
	}

	total := 0
	for _, c := range counts {
		total += c.N
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("## %s\n\n", title))
	builder.WriteString("| Name | Count | Share |\n")
	builder.WriteString("|------|-------|-------|\n")
	for _, c := range counts {
		builder.WriteString(fmt.Sprintf("| %s | %d | %.1f%% |\n",
			escapeMarkdownTableCell(c.Name), c.N, share(c.N, total)))
	}
	return builder.String()
}

// RenderGapStats generates the gap summary section
// Dates use the named derive layout
func RenderGapStats(stats derive.GapStats, layout string) string {
	if stats.Count == 0 {
		return "## Gaps\n\n_Not enough dates to measure gaps._\n"
	}

	var builder strings.Builder
	builder.WriteString("## Gaps\n\n")
	builder.WriteString(fmt.Sprintf("- Gaps measured: %d\n", stats.Count))
	builder.WriteString(fmt.Sprintf("- Shortest: %s (%s to %s)\n",
		pluralizeDays(stats.Shortest.Days),
		derive.RenderDate(&stats.Shortest.From, layout),
		derive.RenderDate(&stats.Shortest.To, layout)))
	builder.WriteString(fmt.Sprintf("- Longest: %s (%s to %s)\n",
		pluralizeDays(stats.Longest.Days),
		derive.RenderDate(&stats.Longest.From, layout),
		derive.RenderDate(&stats.Longest.To, layout)))
	builder.WriteString(fmt.Sprintf("- Mean: %s\n", pluralizeDays(stats.MeanDays)))
	return builder.String()
}

// RenderGapList lists every gap, one bullet each
func RenderGapList(gaps []derive.Gap, layout string) string {
	if len(gaps) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, g := range gaps {
		builder.WriteString(fmt.Sprintf("- %s to %s: %s\n",
			derive.RenderDate(&g.From, layout),
			derive.RenderDate(&g.To, layout),
			pluralizeDays(g.Days)))
	}
	return builder.String()
}

// pluralizeDays renders count followed by "day" or "days"
func pluralizeDays(count int) string {
	if count == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", count)
}
