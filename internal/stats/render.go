package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/flourish/internal/model"
)

// RenderSummary prints the headline numbers.
func RenderSummary(w io.Writer, s model.Stats) error {
	if s.TotalCount == 0 {
		_, err := fmt.Fprintln(w, "No completions found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Completions: %d", s.TotalCount),
		fmt.Sprintf("Current streak: %s", pluralDays(s.CurrentStreakDays)),
		fmt.Sprintf("Best streak: %s", pluralDays(s.LongestStreakDays)),
		fmt.Sprintf("Time invested: %s", FormatMinutes(s.TotalDurationMinutes)),
		fmt.Sprintf("Favorite domain: %s (%.0f%% of practice)", model.DomainLabel(s.FavoriteCategory), FavoriteShare(s)*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// maxCategoryWidth caps the domain column so imported category names stay
// on one line.
const maxCategoryWidth = 24

// RenderCategoryTable prints completions per category, most practiced first.
func RenderCategoryTable(w io.Writer, s model.Stats) error {
	if s.TotalCount == 0 {
		_, err := fmt.Fprintln(w, "No category stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Domains"); err != nil {
		return err
	}
	cols := []column{
		{Header: "Domain", MaxWidth: maxCategoryWidth},
		{Header: "Completions", Right: true},
		{Header: "Share", Right: true},
	}
	rows := make([][]string, 0, len(s.Categories))
	for _, item := range TopCategories(s, 0) {
		rows = append(rows, []string{
			model.DomainLabel(item.Category),
			fmt.Sprintf("%d", item.Count),
			fmt.Sprintf("%.1f%%", float64(item.Count)/float64(s.TotalCount)*100),
		})
	}
	for _, line := range renderTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderWeekly prints the current week's totals.
func RenderWeekly(w io.Writer, week model.WeeklyStats) error {
	if _, err := fmt.Fprintf(w, "Week of %s\n", week.WeekStart.Format("Jan 2")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completions: %d  Time: %s  Streak: %s\n", week.TotalCount, FormatMinutes(week.TotalMinutes), pluralDays(week.Streak)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// FormatMinutes renders minutes as "45m" or "4.5h".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%.1fh", float64(minutes)/60)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
