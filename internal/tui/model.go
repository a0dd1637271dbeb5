// Package tui provides the Bubble Tea completion log screen.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/flourish/internal/model"
	"github.com/verte-zerg/flourish/internal/slider"
	statsPkg "github.com/verte-zerg/flourish/internal/stats"
)

// Store is the persistence the log screen needs.
type Store interface {
	InsertCompletion(ctx context.Context, rec model.CompletionRecord) (string, error)
	ListCompletions(ctx context.Context, userID string, limit int) ([]model.CompletionRecord, error)
}

const (
	defaultWidth = 80
	margin       = 2
	// trackRow is the view line holding the duration track.
	trackRow = 7
)

// Model implements the Bubble Tea log screen.
type Model struct {
	store  Store
	logger *zap.Logger
	userID string
	now    func() time.Time

	width  int
	height int

	domainIdx   int
	exerciseIdx int

	duration  *slider.Slider
	minutes   float64
	pressX    int
	notes     textinput.Model
	records   []model.CompletionRecord
	stats     model.Stats
	status    string
	statusErr bool
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	filledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	trackStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	thumbStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	dragStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD666")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	helpTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs the log screen for userID. The first domain offered is
// the one practiced least.
func NewModel(st Store, logger *zap.Logger, userID string, settings model.SliderSettings, now func() time.Time) (*Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	cfg, err := slider.NewConfig(settings.Min, settings.Max, settings.Step)
	if err != nil {
		return nil, fmt.Errorf("invalid duration slider: %w", err)
	}
	m := &Model{
		store:  st,
		logger: logger,
		userID: userID,
		now:    now,
	}
	m.duration, err = slider.New(cfg.WithTrackLength(float64(trackLengthFor(defaultWidth))), settings.Initial, m.onDuration)
	if err != nil {
		return nil, fmt.Errorf("invalid duration slider: %w", err)
	}
	m.minutes = m.duration.Value()

	m.notes = textinput.New()
	m.notes.Placeholder = "notes (n to edit)"
	m.notes.Prompt = "Notes: "
	m.notes.CharLimit = 280

	m.loadRecords()
	if neglected := statsPkg.Neglected(m.stats, model.Domains, 1); len(neglected) > 0 {
		m.selectDomainIndex(domainIndex(neglected[0]))
	}
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
		m.duration.SetTrackLength(float64(trackLengthFor(m.width)))
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.notes.Focused() {
		switch msg.Type {
		case tea.KeyEsc:
			m.notes.Blur()
			return m, nil
		case tea.KeyEnter:
			m.notes.Blur()
			m.save()
			return m, nil
		}
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.duration.State() == slider.Dragging {
			m.duration.Cancel()
		}
	case "tab":
		m.selectDomainIndex(m.domainIdx + 1)
	case "shift+tab":
		m.selectDomainIndex(m.domainIdx - 1)
	case "down", "j":
		m.selectExercise(m.exerciseIdx + 1)
	case "up", "k":
		m.selectExercise(m.exerciseIdx - 1)
	case "left", "h":
		m.duration.Nudge(-1)
	case "right", "l":
		m.duration.Nudge(1)
	case "n":
		return m, m.notes.Focus()
	case "enter":
		m.save()
	}
	return m, nil
}

// handleMouse maps press/motion/release on the track row to a drag gesture.
// Deltas are measured from the press column.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if msg.Y != trackRow || msg.X < margin || msg.X >= margin+trackWidthFor(m.viewWidth()) {
			return
		}
		m.pressX = msg.X
		m.duration.Begin()
	case tea.MouseActionMotion:
		m.duration.Move(float64(msg.X - m.pressX))
	case tea.MouseActionRelease:
		m.duration.End(float64(msg.X - m.pressX))
	}
}

func (m *Model) onDuration(value float64) {
	m.minutes = value
}

func (m *Model) domain() string {
	return model.Domains[m.domainIdx]
}

func (m *Model) exercises() []model.Exercise {
	var out []model.Exercise
	for _, ex := range model.Catalog {
		if ex.Domain == m.domain() {
			out = append(out, ex)
		}
	}
	return out
}

func (m *Model) exercise() (model.Exercise, bool) {
	list := m.exercises()
	if len(list) == 0 {
		return model.Exercise{}, false
	}
	return list[m.exerciseIdx], true
}

func domainIndex(domain string) int {
	for i, d := range model.Domains {
		if d == domain {
			return i
		}
	}
	return 0
}

func (m *Model) selectDomainIndex(i int) {
	n := len(model.Domains)
	m.domainIdx = ((i % n) + n) % n
	m.selectExercise(0)
}

func (m *Model) selectExercise(i int) {
	list := m.exercises()
	if len(list) == 0 {
		m.exerciseIdx = 0
		return
	}
	n := len(list)
	m.exerciseIdx = ((i % n) + n) % n
	m.duration.SetValue(float64(list[m.exerciseIdx].Minutes))
}

func (m *Model) loadRecords() {
	records, err := m.store.ListCompletions(context.Background(), m.userID, 0)
	if err != nil {
		m.logger.Error("failed to load completions", zap.String("user", m.userID), zap.Error(err))
		m.setStatus(fmt.Sprintf("failed to load completions: %v", err), true)
		return
	}
	m.records = records
	m.refreshStats()
}

func (m *Model) refreshStats() {
	m.stats = statsPkg.ComputeStats(m.records, m.now())
	if m.stats.Skipped > 0 {
		m.logger.Warn("skipped malformed completions", zap.Int("count", m.stats.Skipped))
	}
}

func (m *Model) save() {
	ex, ok := m.exercise()
	if !ok {
		return
	}
	rec := model.CompletionRecord{
		UserID:          m.userID,
		Exercise:        ex.Name,
		Category:        ex.Domain,
		CompletedAt:     m.now(),
		DurationSeconds: int(math.Round(m.minutes * 60)),
		Notes:           strings.TrimSpace(m.notes.Value()),
	}
	id, err := m.store.InsertCompletion(context.Background(), rec)
	if err != nil {
		m.logger.Error("failed to save completion", zap.String("exercise", ex.Name), zap.Error(err))
		m.setStatus(fmt.Sprintf("failed to save: %v", err), true)
		return
	}
	rec.ID = id
	m.logger.Debug("saved completion", zap.String("id", id), zap.String("category", rec.Category))
	m.records = append([]model.CompletionRecord{rec}, m.records...)
	m.refreshStats()
	m.notes.Reset()
	m.setStatus(fmt.Sprintf("Logged %s (%s)", ex.Name, statsPkg.FormatMinutes(int(m.minutes))), false)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.viewWidth()
	indent := strings.Repeat(" ", margin)
	exName := ""
	if ex, ok := m.exercise(); ok {
		exName = ex.Name
	}

	lines := []string{
		titleStyle.Render("flourish") + helpTextStyle.Render(" · log a completion"),
		"",
		indent + labelStyle.Render("Domain:   ") + valueStyle.Render("‹ "+model.DomainLabel(m.domain())+" ›"),
		indent + labelStyle.Render("Exercise: ") + valueStyle.Render("‹ "+exName+" ›"),
		"",
		indent + m.notes.View(),
		indent + labelStyle.Render("Duration: ") + valueStyle.Render(formatDuration(m.minutes)),
		indent + renderTrack(trackWidthFor(width), m.duration.VisualPosition(), m.duration.State() == slider.Dragging),
		"",
	}
	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = errorStyle
		}
		lines = append(lines, indent+style.Render(m.status))
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, indent+helpTextStyle.Render("tab domain · ↑/↓ exercise · ←/→ or drag duration · n notes · enter save · q quit"))

	if m.height > len(lines)+1 {
		for len(lines) < m.height-1 {
			lines = append(lines, "")
		}
	}
	lines = append(lines, m.renderFooter())
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Streak %d", m.stats.CurrentStreakDays),
		fmt.Sprintf("Completions %d", m.stats.TotalCount),
		fmt.Sprintf("Time %s", statsPkg.FormatMinutes(m.stats.TotalDurationMinutes)),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func formatDuration(minutes float64) string {
	if minutes == float64(int(minutes)) {
		return fmt.Sprintf("%d min", int(minutes))
	}
	return fmt.Sprintf("%.1f min", minutes)
}
