package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verte-zerg/flourish/internal/model"
	"github.com/verte-zerg/flourish/internal/slider"
)

type fakeStore struct {
	records  []model.CompletionRecord
	inserted []model.CompletionRecord
	listErr  error
	saveErr  error
}

func (f *fakeStore) InsertCompletion(_ context.Context, rec model.CompletionRecord) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.inserted = append(f.inserted, rec)
	return "id-1", nil
}

func (f *fakeStore) ListCompletions(_ context.Context, _ string, _ int) ([]model.CompletionRecord, error) {
	return f.records, f.listErr
}

var (
	fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	settings = model.SliderSettings{Min: 0, Max: 70, Step: 5, Initial: 10}
)

func newTestModel(t *testing.T, st *fakeStore) *Model {
	t.Helper()
	m, err := NewModel(st, zap.NewNop(), "ana", settings, func() time.Time { return fixedNow })
	require.NoError(t, err)
	// 40 columns leave a 36-cell track line and 35 cells of travel,
	// so every 5 minutes is 2.5 cells.
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	return m
}

func press(x int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: trackRow, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func motion(x int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: trackRow, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion}
}

func release(x int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: trackRow, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease}
}

func TestNewModelRejectsBadSlider(t *testing.T) {
	_, err := NewModel(&fakeStore{}, nil, "ana", model.SliderSettings{Min: 10, Max: 10, Step: 5}, nil)
	var cfgErr *slider.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "min", cfgErr.Field)
}

func TestNewModelStartsOnNeglectedDomain(t *testing.T) {
	st := &fakeStore{records: []model.CompletionRecord{
		{Category: model.DomainKindness, CompletedAt: fixedNow},
		{Category: model.DomainSocial, CompletedAt: fixedNow},
		{Category: model.DomainTime, CompletedAt: fixedNow},
		{Category: model.DomainPhysical, CompletedAt: fixedNow},
	}}
	m := newTestModel(t, st)
	require.Equal(t, model.DomainMind, m.domain())
	ex, ok := m.exercise()
	require.True(t, ok)
	require.Equal(t, "Cognitive Reframing", ex.Name)
	require.Equal(t, 15.0, m.minutes)
	require.Equal(t, 4, m.stats.TotalCount)
}

func TestMouseDragCommitsOnRelease(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	require.Equal(t, 5.0, m.minutes)
	require.InDelta(t, 2.5, m.duration.VisualPosition(), 1e-9)

	start := margin + 5
	m.Update(press(start))
	require.Equal(t, slider.Dragging, m.duration.State())

	m.Update(motion(start + 11))
	require.InDelta(t, 13.5, m.duration.VisualPosition(), 1e-9)
	require.Equal(t, 5.0, m.minutes)

	m.Update(release(start + 11))
	require.Equal(t, slider.Idle, m.duration.State())
	// 13.5 cells is 27 minutes, which snaps to 25.
	require.Equal(t, 25.0, m.minutes)
	require.InDelta(t, 12.5, m.duration.VisualPosition(), 1e-9)
}

func TestMouseDragClampsToTrack(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	m.Update(press(margin + 5))
	m.Update(motion(200))
	require.InDelta(t, 35.0, m.duration.VisualPosition(), 1e-9)
	m.Update(release(200))
	require.Equal(t, 70.0, m.minutes)
}

func TestPressOutsideTrackIsIgnored(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	m.Update(tea.MouseMsg{X: margin + 5, Y: trackRow - 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	require.Equal(t, slider.Idle, m.duration.State())
	m.Update(release(margin + 20))
	require.Equal(t, 5.0, m.minutes)
}

func TestEscCancelsDrag(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	m.Update(press(margin + 5))
	m.Update(motion(margin + 25))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, slider.Idle, m.duration.State())
	require.InDelta(t, 2.5, m.duration.VisualPosition(), 1e-9)

	m.Update(release(margin + 25))
	require.Equal(t, 5.0, m.minutes)
}

func TestResizeCancelsDrag(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	m.Update(press(margin + 5))
	m.Update(motion(margin + 25))
	m.Update(tea.WindowSizeMsg{Width: 75, Height: 20})
	require.Equal(t, slider.Idle, m.duration.State())
	// 70 cells of travel now, one per minute.
	require.InDelta(t, 5.0, m.duration.VisualPosition(), 1e-9)
}

func TestKeysStepDurationAndCycleDomains(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 10.0, m.minutes)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, 0.0, m.minutes)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, model.DomainSocial, m.domain())
	ex, ok := m.exercise()
	require.True(t, ok)
	require.Equal(t, "Quality Time", ex.Name)
	require.Equal(t, 30.0, m.minutes)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	ex, _ = m.exercise()
	require.Equal(t, "Reach Out to Friend", ex.Name)
	require.Equal(t, 10.0, m.minutes)

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, model.DomainMind, m.domain())
}

func TestEnterSavesCompletion(t *testing.T) {
	st := &fakeStore{}
	m := newTestModel(t, st)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	require.True(t, m.notes.Focused())
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("felt good")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.notes.Focused())

	require.Len(t, st.inserted, 1)
	rec := st.inserted[0]
	require.Equal(t, "ana", rec.UserID)
	require.Equal(t, model.DomainKindness, rec.Category)
	require.Equal(t, "Gratitude Journaling", rec.Exercise)
	require.Equal(t, 300, rec.DurationSeconds)
	require.Equal(t, "felt good", rec.Notes)
	require.Equal(t, fixedNow, rec.CompletedAt)

	require.Equal(t, "", m.notes.Value())
	require.Equal(t, 1, m.stats.TotalCount)
	require.Equal(t, 1, m.stats.CurrentStreakDays)
	require.Contains(t, m.renderFooter(), "Streak 1  Completions 1  Time 5m")
	require.Contains(t, m.status, "Logged Gratitude Journaling")
}

func TestSaveRoundsFractionalMinutes(t *testing.T) {
	st := &fakeStore{}
	m, err := NewModel(st, zap.NewNop(), "ana", model.SliderSettings{Min: 0, Max: 70, Step: 0.3}, func() time.Time { return fixedNow })
	require.NoError(t, err)
	m.duration.SetValue(0.9)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, st.inserted, 1)
	require.Equal(t, 54, st.inserted[0].DurationSeconds)
}

func TestSaveFailureShowsError(t *testing.T) {
	st := &fakeStore{saveErr: errors.New("disk full")}
	m := newTestModel(t, st)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.statusErr)
	require.Contains(t, m.status, "disk full")
	require.Zero(t, m.stats.TotalCount)
}

func TestLoadFailureKeepsScreenUsable(t *testing.T) {
	m := newTestModel(t, &fakeStore{listErr: errors.New("locked")})
	require.True(t, m.statusErr)
	require.Equal(t, model.DomainKindness, m.domain())
}

func TestViewDrawsTrackOnTrackRow(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 20)
	track := lines[trackRow]
	require.Equal(t, strings.Repeat(" ", margin)+strings.Repeat("━", 3)+"◆"+strings.Repeat("─", 32), track)
	require.Contains(t, lines[trackRow-1], "5 min")
	require.NotContains(t, lines[trackRow-1], "15 min")
	require.Contains(t, lines[len(lines)-1], "Completions 0")
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}
