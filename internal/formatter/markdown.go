// Package formatter renders batches as aligned markdown tables for previews.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"usersync/internal/models"
	"usersync/pkg/utils"
)

// FormatBatch renders the batch as a markdown table with one column per
// schema field. Passwords are masked.
func FormatBatch(batch models.Batch) string {
	header := models.Fields()
	mask := utils.NewStringHelper()

	table := make([][]string, 0, len(batch)+1)
	table = append(table, header)

	for _, rec := range batch {
		row := make([]string, len(header))
		for i, f := range header {
			v := rec.Get(f)
			if f == models.FieldPassword {
				v = mask.Mask(v, 0)
			}
			row[i] = escapeCell(v)
		}

		table = append(table, row)
	}

	return strings.Join(alignTable(table), "\n") + "\n"
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")

	return strings.ReplaceAll(s, "\n", " ")
}

// alignTable pads cells to the widest display width per column and inserts the
// separator row after the header. Wide runes count by their terminal width.
func alignTable(table [][]string) []string {
	if len(table) == 0 {
		return nil
	}

	colCount := len(table[0])
	colWidths := make([]int, colCount)

	for _, row := range table {
		for i := 0; i < len(row) && i < colCount; i++ {
			if width := runewidth.StringWidth(row[i]); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Ensure min width for separator (usually 3 dashes "---")
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	result := make([]string, 0, len(table)+1)

	for i, row := range table {
		result = append(result, renderRow(row, colWidths))

		if i == 0 {
			sep := make([]string, colCount)
			for j := range sep {
				sep[j] = strings.Repeat("-", colWidths[j])
			}
			result = append(result, renderRow(sep, colWidths))
		}
	}

	return result
}

func renderRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		// Pad with spaces based on display width
		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
