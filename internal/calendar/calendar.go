// Package calendar lays out month grids marked with completion days.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/flourish/internal/model"
)

const dateKey = "2006-01-02"

var weekdayHeaders = [7]string{"S", "M", "T", "W", "T", "F", "S"}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	weekdayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	todayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	plainDayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
)

// Marks maps a "2006-01-02" date to the number of completions on it.
type Marks map[string]int

// Day is one grid cell. A zero Number is a blank before or after the month.
type Day struct {
	Date        time.Time
	Number      int
	Completions int
	Today       bool
}

// Completed reports whether anything was logged that day.
func (d Day) Completed() bool {
	return d.Completions > 0
}

// Grid is a month laid out in Sunday-first weeks.
type Grid struct {
	Year  int
	Month time.Month
	Weeks [][7]Day

	marks Marks
	today time.Time
}

// Month builds the grid for year/month. today marks the current day when it
// falls inside the month.
func Month(year int, month time.Month, marks Marks, today time.Time) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	year, month = first.Year(), first.Month()
	daysInMonth := first.AddDate(0, 1, -1).Day()
	todayKey := ""
	if !today.IsZero() {
		todayKey = today.Format(dateKey)
	}

	g := Grid{Year: year, Month: month, marks: marks, today: today}
	var week [7]Day
	col := int(first.Weekday())
	for day := 1; day <= daysInMonth; day++ {
		date := first.AddDate(0, 0, day-1)
		key := date.Format(dateKey)
		week[col] = Day{
			Date:        date,
			Number:      day,
			Completions: marks[key],
			Today:       key == todayKey,
		}
		col++
		if col == 7 {
			g.Weeks = append(g.Weeks, week)
			week = [7]Day{}
			col = 0
		}
	}
	if col > 0 {
		g.Weeks = append(g.Weeks, week)
	}
	return g
}

// Prev returns the previous month with the same marks.
func (g Grid) Prev() Grid {
	return Month(g.Year, g.Month-1, g.marks, g.today)
}

// Next returns the following month with the same marks.
func (g Grid) Next() Grid {
	return Month(g.Year, g.Month+1, g.marks, g.today)
}

// Title returns e.g. "October 2026".
func (g Grid) Title() string {
	return fmt.Sprintf("%s %d", g.Month, g.Year)
}

// ActiveDays counts days in the month with at least one completion.
func (g Grid) ActiveDays() int {
	n := 0
	for _, week := range g.Weeks {
		for _, d := range week {
			if d.Number > 0 && d.Completed() {
				n++
			}
		}
	}
	return n
}

// MarksFromRecords counts completions per calendar day in loc. Records
// without a category or timestamp are ignored.
func MarksFromRecords(records []model.CompletionRecord, loc *time.Location) Marks {
	if loc == nil {
		loc = time.Local
	}
	marks := Marks{}
	for _, rec := range records {
		if rec.CompletedAt.IsZero() || strings.TrimSpace(rec.Category) == "" {
			continue
		}
		marks[rec.CompletedAt.In(loc).Format(dateKey)]++
	}
	return marks
}

// Render draws the grid. Completed days carry a dot.
func Render(g Grid) string {
	lines := make([]string, 0, len(g.Weeks)+2)
	width := 7*4 - 1
	lines = append(lines, titleStyle.Render(centerText(g.Title(), width)))

	headers := make([]string, 0, 7)
	for _, h := range weekdayHeaders {
		headers = append(headers, weekdayStyle.Render(fmt.Sprintf("%2s ", h)))
	}
	lines = append(lines, strings.Join(headers, " "))

	for _, week := range g.Weeks {
		cells := make([]string, 0, 7)
		for _, d := range week {
			cells = append(cells, renderDay(d))
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

func renderDay(d Day) string {
	if d.Number == 0 {
		return "   "
	}
	text := fmt.Sprintf("%2d", d.Number)
	mark := " "
	if d.Completed() {
		mark = "•"
	}
	switch {
	case d.Today:
		return todayStyle.Render(text) + completedStyle.Render(mark)
	case d.Completed():
		return completedStyle.Render(text + mark)
	default:
		return plainDayStyle.Render(text) + mark
	}
}

func centerText(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}
