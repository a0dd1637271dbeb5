package statsui

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/flourish/internal/calendar"
	"github.com/verte-zerg/flourish/internal/model"
	"github.com/verte-zerg/flourish/internal/slider"
	"github.com/verte-zerg/flourish/internal/stats"
)

const filterLabel = "Duration "

var (
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	rangeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	handleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	activeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD666")).Bold(true)
)

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + m.renderFilterLine()
}

// filterTrackWidth is the drawn width of the duration filter track.
func filterTrackWidth(width int) int {
	return min(max(width-45, 12), 60)
}

func (m *Model) renderFilterLine() string {
	lowPos, highPos := m.filter.VisualPositions()
	dragging := -1
	if m.filter.State() == slider.Dragging {
		dragging = int(m.filter.Active())
	}
	track := renderRangeTrack(filterTrackWidth(m.viewWidth()), lowPos, highPos, dragging)
	low, high := m.filter.Values()
	highText := formatValue(high)
	if _, open := m.filterBounds(); math.IsInf(open, 1) {
		highText += "+"
	}
	limit := "all"
	if m.cfg.Limit > 0 {
		limit = fmt.Sprintf("%d", m.cfg.Limit)
	}
	summary := fmt.Sprintf(" %s-%s min  snapshot=%s  days=%d", formatValue(low), highText, limit, m.cfg.Days)
	return headerStyle.Render(filterLabel) + track + headerStyle.Render(summary)
}

// renderRangeTrack draws both handles; dragging is the index of the handle
// being dragged, or -1.
func renderRangeTrack(width int, lowPos, highPos float64, dragging int) string {
	length := width - 1
	cells := [2]int{
		min(max(int(math.Round(lowPos)), 0), length),
		min(max(int(math.Round(highPos)), 0), length),
	}
	styles := [2]lipgloss.Style{handleStyle, handleStyle}
	if dragging == 0 || dragging == 1 {
		styles[dragging] = activeStyle
	}
	first, second := 0, 1
	if cells[1] < cells[0] {
		first, second = 1, 0
	}
	a, b := cells[first], cells[second]

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(strings.Repeat("─", a)))
	sb.WriteString(styles[first].Render("●"))
	if b > a {
		sb.WriteString(rangeStyle.Render(strings.Repeat("━", b-a-1)))
		sb.WriteString(styles[second].Render("●"))
	}
	sb.WriteString(headerStyle.Render(strings.Repeat("─", length-b)))
	return sb.String()
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Filter: ,/. low  </> high  drag  Settings: /  Reload: r  Quit: q"
	if m.activeTab == tabCalendar {
		help = "Nav: left/right  Month: [/]  Filter: ,/. low  </> high  drag  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.settingsMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderSettingsForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.settingsInputs {
		lines = append(lines, input.View())
	}
	if m.settingsError != "" {
		lines = append(lines, errorStyle.Render(m.settingsError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.settingsMode {
		return fitLines(m.renderSettingsForm(), m.width, height)
	}
	if m.activeTab == tabCategories && m.errMsg == "" {
		if m.report.Stats.TotalCount == 0 {
			return fitLines("No completions found.", m.width, height)
		}
		view := tableMutedStyle.Render(m.catTable.View()) + "\n\n" + renderDomainBars(m.report.Stats, m.width)
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

const trendWindow = 7

func renderOverview(report stats.Report, width int) string {
	s := report.Stats
	if s.TotalCount == 0 {
		return "No completions found."
	}
	favorite := fmt.Sprintf("%s (%.0f%%)", model.DomainLabel(s.FavoriteCategory), stats.FavoriteShare(s)*100)
	cards := []string{
		metricCard("Completions", fmt.Sprintf("%d", s.TotalCount)),
		metricCard("Current Streak", fmt.Sprintf("%d", s.CurrentStreakDays)),
		metricCard("Best Streak", fmt.Sprintf("%d", s.LongestStreakDays)),
		metricCard("Time Invested", stats.FormatMinutes(s.TotalDurationMinutes)),
		metricCard("Favorite", favorite),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	var weekly bytes.Buffer
	if err := stats.RenderWeekly(&weekly, report.Weekly); err != nil {
		weekly.Reset()
		fmt.Fprintf(&weekly, "Failed to render week: %v\n", err)
	}

	parts := []string{summary, "", strings.TrimRight(weekly.String(), "\n")}
	if len(report.Daily) > 0 {
		peak := 0.0
		for _, v := range report.Daily {
			peak = math.Max(peak, v)
		}
		parts = append(parts,
			"",
			fmt.Sprintf("Minutes, last %d days (peak %s)", len(report.Daily), formatValue(peak)),
			stats.Sparkline(report.Daily),
			stats.Sparkline(stats.MovingAverage(report.Daily, trendWindow))+fmt.Sprintf("  %d-day average", trendWindow),
		)
	}
	if s.Skipped > 0 {
		parts = append(parts, "", errorStyle.Render(fmt.Sprintf("%d malformed records skipped", s.Skipped)))
	}
	return strings.Join(parts, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderDomainBars(s model.Stats, width int) string {
	bars := make([]stats.Bar, 0, len(s.Categories))
	for _, item := range stats.TopCategories(s, 0) {
		bars = append(bars, stats.Bar{Label: model.DomainLabel(item.Category), Value: float64(item.Count)})
	}
	var buf bytes.Buffer
	if err := stats.RenderBars(&buf, "Domain Distribution", bars, width, false); err != nil {
		return fmt.Sprintf("Failed to render bars: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderCalendar(grid calendar.Grid) string {
	lines := []string{
		calendar.Render(grid),
		"",
		fmt.Sprintf("Active days: %d", grid.ActiveDays()),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) initCategoryTable() {
	columns := []table.Column{
		{Title: "Domain", Width: 18},
		{Title: "Completions", Width: 11},
		{Title: "Share", Width: 7},
		{Title: "Minutes", Width: 8},
	}
	m.catTable = table.New(
		table.WithColumns(columns),
		table.WithHeight(len(model.Domains)+2),
	)
	m.catTable.SetStyles(categoryTableStyles())
}

// categoryRows lists every built-in domain plus any custom category in the
// report, most practiced first.
func categoryRows(report stats.Report) []table.Row {
	s := report.Stats
	minutes := stats.CategoryMinutes(report.Records)
	categories := append([]string(nil), model.Domains...)
	known := map[string]bool{}
	for _, d := range model.Domains {
		known[d] = true
	}
	for _, c := range s.Categories {
		if !known[c] {
			categories = append(categories, c)
		}
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return s.CategoryCounts[categories[i]] > s.CategoryCounts[categories[j]]
	})

	rows := make([]table.Row, 0, len(categories))
	for _, c := range categories {
		count := s.CategoryCounts[c]
		share := 0.0
		if s.TotalCount > 0 {
			share = float64(count) / float64(s.TotalCount) * 100
		}
		rows = append(rows, table.Row{
			model.DomainLabel(c),
			fmt.Sprintf("%d", count),
			fmt.Sprintf("%.1f%%", share),
			fmt.Sprintf("%d", minutes[c]),
		})
	}
	return rows
}

func categoryTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
