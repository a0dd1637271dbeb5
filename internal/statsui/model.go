// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/flourish/internal/calendar"
	"github.com/verte-zerg/flourish/internal/model"
	"github.com/verte-zerg/flourish/internal/slider"
	"github.com/verte-zerg/flourish/internal/stats"
)

const (
	tabOverview = iota
	tabCategories
	tabCalendar
)

const defaultWidth = 80

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	src    stats.Source
	logger *zap.Logger
	cfg    model.StatsConfig
	now    func() time.Time

	records []model.CompletionRecord
	report  stats.Report
	errMsg  string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	catTable  table.Model
	grid      calendar.Grid

	width  int
	height int

	filter       *slider.Range
	filterPressX int

	settingsMode   bool
	settingsInputs []textinput.Model
	settingsIndex  int
	settingsError  string
}

// NewModel constructs a stats UI model. bounds sets the duration filter
// range in minutes; the filter starts wide open.
func NewModel(src stats.Source, logger *zap.Logger, cfg model.StatsConfig, bounds model.SliderSettings, now func() time.Time) (*Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	m := &Model{
		src:    src,
		logger: logger,
		cfg:    cfg,
		now:    now,
		tabs:   []string{"Overview", "Categories", "Calendar"},
	}
	rangeCfg, err := slider.NewConfig(bounds.Min, bounds.Max, bounds.Step)
	if err != nil {
		return nil, fmt.Errorf("invalid duration filter: %w", err)
	}
	rangeCfg = rangeCfg.WithTrackLength(float64(filterTrackWidth(defaultWidth) - 1))
	m.filter, err = slider.NewRange(rangeCfg, bounds.Min, bounds.Max, m.onFilter)
	if err != nil {
		return nil, fmt.Errorf("invalid duration filter: %w", err)
	}
	today := now()
	m.grid = calendar.Month(today.Year(), today.Month(), nil, today)
	m.initInputs()
	m.initCategoryTable()
	m.initViewports()
	m.reload()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filter.SetTrackLength(float64(filterTrackWidth(m.width) - 1))
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.settingsMode {
			return m.updateSettings(msg)
		}
		if m.activeTab == tabCategories {
			m.catTable.Focus()
		} else {
			m.catTable.Blur()
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case ",":
			m.filter.Nudge(slider.Low, -1)
			return m, nil
		case ".":
			m.filter.Nudge(slider.Low, 1)
			return m, nil
		case "<":
			m.filter.Nudge(slider.High, -1)
			return m, nil
		case ">":
			m.filter.Nudge(slider.High, 1)
			return m, nil
		case "esc":
			m.filter.Cancel()
			return m, nil
		case "[":
			if m.activeTab == tabCalendar {
				m.grid = m.grid.Prev()
				m.renderTabContents()
			}
			return m, nil
		case "]":
			if m.activeTab == tabCalendar {
				m.grid = m.grid.Next()
				m.renderTabContents()
			}
			return m, nil
		case "r":
			m.reload()
			return m, nil
		case "/":
			return m.startSettings()
		case "g", "home":
			if m.activeTab == tabCategories {
				m.catTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabCategories {
				m.catTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabCategories {
				var cmd tea.Cmd
				m.catTable, cmd = m.catTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// handleMouse drags the filter handle nearest to the press column.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y != m.filterRow() {
			return
		}
		left := lipgloss.Width(filterLabel)
		if msg.X < left || msg.X >= left+filterTrackWidth(m.viewWidth()) {
			return
		}
		m.filterPressX = msg.X
		m.filter.Begin(m.filter.Nearest(float64(msg.X - left)))
	case tea.MouseActionMotion:
		m.filter.Move(float64(msg.X - m.filterPressX))
	case tea.MouseActionRelease:
		m.filter.End(float64(msg.X - m.filterPressX))
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.settingsInputs = []textinput.Model{
		newSettingsInput("Snapshot limit (0 = all): "),
		newSettingsInput("Chart days: "),
	}
	m.setInputsFromConfig()
}

func newSettingsInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 6
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.settingsInputs[0].SetValue(strconv.Itoa(m.cfg.Limit))
	m.settingsInputs[1].SetValue(strconv.Itoa(m.cfg.Days))
}

func (m *Model) tabsHeight() int {
	return max(lipgloss.Height(activeNavStyle.Render("X")), 1)
}

// filterRow is the view line holding the duration filter track.
func (m *Model) filterRow() int {
	return m.tabsHeight()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = m.tabsHeight() + 1
	footerHeight = 1
	if !m.settingsMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.catTable.SetWidth(m.width)
	for i := range m.settingsInputs {
		promptWidth := lipgloss.Width(m.settingsInputs[i].Prompt)
		m.settingsInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = ((m.activeTab+delta)%count + count) % count
	if m.activeTab == tabCategories {
		m.catTable.Focus()
	} else {
		m.catTable.Blur()
	}
}

// reload fetches a fresh snapshot and reapplies the duration filter.
func (m *Model) reload() {
	report, err := stats.BuildReport(context.Background(), m.src, m.cfg, m.now())
	if err != nil {
		m.logger.Error("failed to load completions", zap.String("user", m.cfg.UserID), zap.Error(err))
		m.errMsg = err.Error()
		m.records = nil
		m.renderTabContents()
		return
	}
	m.errMsg = ""
	m.records = report.Records
	m.applyFilter()
}

func (m *Model) onFilter(_, _ float64) {
	m.applyFilter()
}

func (m *Model) applyFilter() {
	low, high := m.filterBounds()
	filtered := stats.FilterByMinutes(m.records, low, high)
	today := m.now()
	m.report = stats.NewReport(filtered, m.cfg.Days, today)
	if m.report.Stats.Skipped > 0 {
		m.logger.Warn("skipped malformed completions", zap.Int("count", m.report.Stats.Skipped))
	}
	m.grid = calendar.Month(m.grid.Year, m.grid.Month, calendar.MarksFromRecords(filtered, today.Location()), today)
	m.catTable.SetRows(categoryRows(m.report))
	m.renderTabContents()
}

// filterBounds returns the duration window in minutes. A handle resting on
// its end of the track leaves that side open.
func (m *Model) filterBounds() (low, high float64) {
	low, high = m.filter.Values()
	cfg := m.filter.Config()
	if low <= cfg.Min {
		low = math.Inf(-1)
	}
	if high >= cfg.Max {
		high = math.Inf(1)
	}
	return low, high
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.viewWidth()
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabCalendar].SetContent(renderCalendar(m.grid))
}

func (m *Model) startSettings() (tea.Model, tea.Cmd) {
	m.settingsMode = true
	m.settingsError = ""
	m.setInputsFromConfig()
	return m, m.setSettingsIndex(0)
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.settingsMode = false
		m.settingsError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applySettings(); err != nil {
			m.settingsError = err.Error()
			return m, nil
		}
		m.settingsMode = false
		m.settingsError = ""
		m.reload()
		m.updateLayout()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setSettingsIndex(m.settingsIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setSettingsIndex(m.settingsIndex - 1)
	}
	var cmd tea.Cmd
	m.settingsInputs[m.settingsIndex], cmd = m.settingsInputs[m.settingsIndex].Update(msg)
	return m, cmd
}

func (m *Model) setSettingsIndex(idx int) tea.Cmd {
	count := len(m.settingsInputs)
	m.settingsIndex = (idx%count + count) % count
	var cmd tea.Cmd
	for i := range m.settingsInputs {
		if i == m.settingsIndex {
			cmd = m.settingsInputs[i].Focus()
		} else {
			m.settingsInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applySettings() error {
	limit, err := strconv.Atoi(strings.TrimSpace(m.settingsInputs[0].Value()))
	if err != nil || limit < 0 {
		return fmt.Errorf("snapshot limit must be a number >= 0")
	}
	days, err := strconv.Atoi(strings.TrimSpace(m.settingsInputs[1].Value()))
	if err != nil || days <= 0 {
		return fmt.Errorf("chart days must be a number > 0")
	}
	m.cfg.Limit = limit
	m.cfg.Days = days
	return nil
}
