package format

import (
	"fmt"
	"strings"

	"github.com/Attamusc/history-dates-cli/internal/derive"
	"github.com/Attamusc/history-dates-cli/internal/historic"
)

// Row represents a single row in the timeline table
type Row struct {
	StatusEmoji   string         // Status emoji (e.g., ":white_check_mark:")
	StatusCaption string         // Status caption (e.g., "Parsed")
	Label         string         // Entry label, e.g. a country
	Input         string         // Expression as written in the source
	Date          *historic.Date // Parsed date (nil renders as "undated")
	Note          string         // Shape, failure reason or correction text
}

// NewRow creates a Row from components
func NewRow(status derive.Status, label, input string, date *historic.Date, note string) Row {
	return Row{
		StatusEmoji:   status.Emoji,
		StatusCaption: status.Caption,
		Label:         label,
		Input:         input,
		Date:          date,
		Note:          note,
	}
}

// Status returns the derive.Status the row was built from
func (r Row) Status() derive.Status {
	return derive.Status{Emoji: r.StatusEmoji, Caption: r.StatusCaption}
}

// RenderTable generates a markdown table from a slice of rows
// Dates are rendered with the named derive layout
func RenderTable(rows []Row, layout string) string {
	if len(rows) == 0 {
		return ""
	}

	var builder strings.Builder

	// Write table header
	builder.WriteString("| Status | Label | Input | Date | Note |\n")
	builder.WriteString("|--------|-------|-------|------|------|\n")

	for _, row := range rows {
		statusCol := fmt.Sprintf("%s %s", row.StatusEmoji, row.StatusCaption)
		labelCol := orDash(escapeMarkdownTableCell(row.Label))
		inputCol := orDash(escapeMarkdownTableCell(row.Input))
		dateCol := derive.RenderDate(row.Date, layout)
		noteCol := orDash(escapeMarkdownTableCell(row.Note))

		builder.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			statusCol, labelCol, inputCol, dateCol, noteCol))
	}

	return builder.String()
}

// RenderTableWithTitle renders a table with an optional title/header
func RenderTableWithTitle(title string, rows []Row, layout string) string {
	table := RenderTable(rows, layout)
	if table == "" {
		return ""
	}

	if title == "" {
		return table
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("# %s\n\n", title))
	builder.WriteString(table)
	return builder.String()
}

// RenderInline renders rows as one comma separated line of "Label: date"
// pairs, skipping undated rows
func RenderInline(rows []Row, layout string) string {
	var parts []string
	for _, row := range rows {
		if row.Date == nil {
			continue
		}
		date := derive.RenderDate(row.Date, layout)
		if row.Label == "" {
			parts = append(parts, date)
			continue
		}
		parts = append(parts, row.Label+": "+date)
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// escapeMarkdownTableCell escapes pipe characters and other problematic content for table cells
func escapeMarkdownTableCell(content string) string {
	// First escape existing backslashes to prevent unintended escaping
	content = strings.ReplaceAll(content, "\\", "\\\\")

	// Then replace pipe characters that would break table formatting
	content = strings.ReplaceAll(content, "|", "\\|")

	// Replace tabs before collapsing so runs of spaces are merged
	content = strings.ReplaceAll(content, "\t", " ")

	return collapseNewlines(content)
}

// collapseNewlines replaces newlines with single spaces for table cell content
func collapseNewlines(content string) string {
	// Replace Windows line endings first to avoid double spaces
	content = strings.ReplaceAll(content, "\r\n", " ")
	// Then replace remaining Unix and Mac line endings
	content = strings.ReplaceAll(content, "\n", " ")
	content = strings.ReplaceAll(content, "\r", " ")

	// Collapse multiple spaces into single spaces
	for strings.Contains(content, "  ") {
		content = strings.ReplaceAll(content, "  ", " ")
	}

	return strings.TrimSpace(content)
}
