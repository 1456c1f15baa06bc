package shell

import (
	"strings"
	"unicode/utf8"
)

// LineWidth is the width listings are laid out for
const LineWidth = 80

const maxColumnWidth = 32

// FormatColumns lays items out in left-aligned columns, filling each column
// top to bottom before moving right. Items are not sorted.
func FormatColumns(items []string, width int) string {
	if len(items) == 0 {
		return ""
	}

	longest := 0
	for _, item := range items {
		longest = max(longest, utf8.RuneCountInString(item))
	}
	colWidth := min(longest+2, maxColumnWidth)
	cols := max(1, width/colWidth)
	rows := (len(items) + cols - 1) / cols

	lines := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		var b strings.Builder
		for col := 0; col < cols; col++ {
			i := row + col*rows
			if i >= len(items) {
				continue
			}
			b.WriteString(items[i])
			if col < cols-1 {
				// names wider than the column still get one space before the next
				pad := max(1, colWidth-utf8.RuneCountInString(items[i]))
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}
