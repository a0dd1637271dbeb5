package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const cellEllipsis = "…"

// column describes one table column. MaxWidth <= 0 leaves it uncapped.
type column struct {
	Header   string
	Right    bool
	MaxWidth int
}

// renderTable lays out rows under cols, sized to the widest cell in display
// cells. Cells wider than a column's cap are cut with an ellipsis.
func renderTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = col.fit(runewidth.StringWidth(col.Header))
	}
	for _, row := range rows {
		for i, col := range cols {
			widths[i] = max(widths[i], col.fit(runewidth.StringWidth(cellAt(row, i))))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Header
	}
	lines = append(lines, joinCells(cols, widths, header))
	for _, row := range rows {
		lines = append(lines, joinCells(cols, widths, row))
	}
	return lines
}

func (c column) fit(width int) int {
	if c.MaxWidth > 0 {
		return min(width, c.MaxWidth)
	}
	return width
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func joinCells(cols []column, widths []int, row []string) string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		cell := runewidth.Truncate(cellAt(row, i), widths[i], cellEllipsis)
		if col.Right {
			cells[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.Join(cells, " ")
}
