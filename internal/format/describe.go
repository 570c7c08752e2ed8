package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Attamusc/history-dates-cli/internal/derive"
	"github.com/Attamusc/history-dates-cli/internal/historic"
)

// DescribeRow represents one expression for the describe command output
type DescribeRow struct {
	Label  string         // Entry label, may be empty
	Input  string         // Expression as written
	Date   *historic.Date // Parsed date, nil when unparseable
	Shape  string         // Matched shape name
	Reason string         // Failure reason when Date is nil
}

// RenderDescribeTable generates a markdown table for describe output
// Columns: Label | Input | Date | Weekday | Day of Year
func RenderDescribeTable(rows []DescribeRow, loc derive.Locale) string {
	if len(rows) == 0 {
		return ""
	}

	var builder strings.Builder

	// Write table header
	builder.WriteString("| Label | Input | Date | Weekday | Day of Year |\n")
	builder.WriteString("|-------|-------|------|---------|-------------|\n")

	for _, row := range rows {
		labelCol := orDash(escapeMarkdownTableCell(row.Label))
		inputCol := orDash(escapeMarkdownTableCell(row.Input))

		dateCol, weekdayCol, dayCol := derive.Undated, "-", "-"
		if row.Date != nil {
			dateCol = row.Date.ISO()
			weekdayCol = derive.WeekdayName(loc, row.Date.Weekday())
			dayCol = fmt.Sprintf("%d", row.Date.YearDay())
		}

		builder.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			labelCol, inputCol, dateCol, weekdayCol, dayCol))
	}

	return builder.String()
}

// RenderDescribeDetailed generates detailed markdown sections for each expression
// Each expression gets its own section with the input, shape and every
// derived view of the date
func RenderDescribeDetailed(rows []DescribeRow, loc derive.Locale) string {
	if len(rows) == 0 {
		return ""
	}

	var builder strings.Builder

	for i, row := range rows {
		title := row.Label
		if title == "" {
			title = row.Input
		}
		builder.WriteString(fmt.Sprintf("## %s\n\n", title))

		builder.WriteString(fmt.Sprintf("**Input:** `%s`  \n", row.Input))
		if row.Shape != "" {
			builder.WriteString(fmt.Sprintf("**Shape:** %s\n", row.Shape))
		}

		builder.WriteString("\n### Date\n\n")
		if row.Date != nil {
			d := *row.Date
			builder.WriteString(fmt.Sprintf("- ISO: %s\n", d.ISO()))
			builder.WriteString(fmt.Sprintf("- Canonical: %s\n", d.Canonical()))
			builder.WriteString(fmt.Sprintf("- Weekday: %s\n", derive.WeekdayName(loc, d.Weekday())))
			builder.WriteString(fmt.Sprintf("- Month: %s (%04d)\n", derive.MonthName(loc, d.Month), d.Year))
			builder.WriteString(fmt.Sprintf("- Day of year: %s day of %04d\n", Ordinal(d.YearDay()), d.Year))
		} else {
			reason := row.Reason
			if reason == "" {
				reason = "unknown"
			}
			builder.WriteString(fmt.Sprintf("_Could not parse: %s._", reason))
			builder.WriteString("\n")
		}

		// Add separator between entries (except after the last one)
		if i < len(rows)-1 {
			builder.WriteString("\n---\n\n")
		}
	}

	return builder.String()
}

// SortDescribeRowsByLabel sorts describe rows alphabetically by label,
// falling back to the input for unlabelled rows
func SortDescribeRowsByLabel(rows []DescribeRow) {
	key := func(r DescribeRow) string {
		if r.Label != "" {
			return strings.ToLower(r.Label)
		}
		return strings.ToLower(r.Input)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return key(rows[i]) < key(rows[j])
	})
}

// Ordinal renders n with its English ordinal suffix (1st, 2nd, 11th, 23rd)
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
