package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/flourish/internal/calendar"
	"github.com/verte-zerg/flourish/internal/config"
	"github.com/verte-zerg/flourish/internal/model"
	"github.com/verte-zerg/flourish/internal/session"
	"github.com/verte-zerg/flourish/internal/slider"
	"github.com/verte-zerg/flourish/internal/stats"
	"github.com/verte-zerg/flourish/internal/statsui"
	"github.com/verte-zerg/flourish/internal/store"
	"github.com/verte-zerg/flourish/internal/transfer"
)

var (
	logCategory string
	logExercise string
	logMinutes  float64
	logDate     string
	logNotes    string
	logRating   int

	statsPlain bool
	statsLimit int
	statsDays  int

	calendarMonth string
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a completed exercise",
		Args:  cobra.NoArgs,
		RunE:  runLogCmd,
	}
	cmd.Flags().StringVar(&logCategory, "category", "", "wellness domain (kindness, social, time, physical, mind)")
	cmd.Flags().StringVar(&logExercise, "exercise", "", "exercise name (default: first catalog exercise of the domain)")
	cmd.Flags().Float64Var(&logMinutes, "minutes", defaultSliderInitial, "duration in minutes, snapped to the slider step")
	cmd.Flags().StringVar(&logDate, "date", "", "completion date (YYYY-MM-DD or RFC 3339, default: now)")
	cmd.Flags().StringVar(&logNotes, "notes", "", "free-form notes")
	cmd.Flags().IntVar(&logRating, "rating", 0, "rating from 1 to 5 (0 = none)")
	return cmd
}

func runLogCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	settings := sliderSettingsFromFile(fileCfg)
	sliderCfg, err := slider.NewConfig(settings.Min, settings.Max, settings.Step)
	if err != nil {
		return fmt.Errorf("invalid [slider] config: %w", err)
	}

	category := strings.ToLower(strings.TrimSpace(logCategory))
	if category == "" {
		return fmt.Errorf("--category must not be empty")
	}
	if logRating < 0 || logRating > 5 {
		return fmt.Errorf("--rating must be between 0 and 5")
	}
	completedAt, err := parseDate(logDate, time.Now())
	if err != nil {
		return err
	}
	exercise := strings.TrimSpace(logExercise)
	if exercise == "" {
		exercise = defaultExercise(category)
	}

	logger, err := config.NewLogger(logLevel, "")
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	sess, err := requireSession()
	if err != nil {
		return err
	}
	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	minutes := sliderCfg.Quantize(logMinutes)
	rec := model.CompletionRecord{
		UserID:          sess.UserID,
		Exercise:        exercise,
		Category:        category,
		CompletedAt:     completedAt,
		DurationSeconds: int(math.Round(minutes * 60)),
		Notes:           strings.TrimSpace(logNotes),
		Rating:          logRating,
	}
	id, err := st.InsertCompletion(cmd.Context(), rec)
	if err != nil {
		return fmt.Errorf("failed to save completion: %w", err)
	}
	logger.Debug("saved completion", zap.String("id", id))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged %s (%s, %s)\n", exercise, model.DomainLabel(category), stats.FormatMinutes(int(minutes)))
	return err
}

func defaultExercise(category string) string {
	for _, ex := range model.Catalog {
		if ex.Domain == category {
			return ex.Name
		}
	}
	return model.DomainLabel(category)
}

// parseDate accepts a calendar date in local time or an RFC 3339 timestamp.
func parseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date value: %w", err)
	}
	return day.Add(12 * time.Hour), nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	cmd.Flags().IntVar(&statsLimit, "limit", defaultStatsLimit, "most recent completions to load (0 = all)")
	cmd.Flags().IntVar(&statsDays, "days", defaultStatsDays, "days in the daily minutes chart")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "limit", &statsLimit, fileCfg.Stats.Limit)
	applyIntConfig(cmd, "days", &statsDays, fileCfg.Stats.Days)
	if statsLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	if statsDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}

	logPath := config.DefaultLogPath()
	if statsPlain {
		logPath = ""
	}
	logger, err := config.NewLogger(logLevel, logPath)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	sess, err := requireSession()
	if err != nil {
		return err
	}
	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	cfg := model.StatsConfig{UserID: sess.UserID, Limit: statsLimit, Days: statsDays}
	if statsPlain {
		report, err := stats.BuildReport(cmd.Context(), st, cfg, time.Now())
		if err != nil {
			return fmt.Errorf("failed to load completions: %w", err)
		}
		if report.Stats.Skipped > 0 {
			logger.Warn("skipped malformed completions", zap.Int("count", report.Stats.Skipped))
		}
		return writePlainReport(cmd.OutOrStdout(), report)
	}

	screen, err := statsui.NewModel(st, logger, cfg, sliderSettingsFromFile(fileCfg), time.Now)
	if err != nil {
		return err
	}
	program := tea.NewProgram(screen, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writePlainReport(w io.Writer, report stats.Report) error {
	if err := stats.RenderSummary(w, report.Stats); err != nil {
		return err
	}
	if report.Stats.TotalCount == 0 {
		return nil
	}
	if err := stats.RenderWeekly(w, report.Weekly); err != nil {
		return err
	}
	if err := stats.RenderCategoryTable(w, report.Stats); err != nil {
		return err
	}
	bars := make([]stats.Bar, 0, len(report.Stats.Categories))
	for _, item := range stats.TopCategories(report.Stats, 0) {
		bars = append(bars, stats.Bar{Label: model.DomainLabel(item.Category), Value: float64(item.Count)})
	}
	if err := stats.RenderBars(w, "Domain Distribution", bars, 0, false); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Minutes, last %d days\n%s\n", len(report.Daily), stats.Sparkline(report.Daily))
	return err
}

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month of completions",
		Args:  cobra.NoArgs,
		RunE:  runCalendarCmd,
	}
	cmd.Flags().StringVar(&calendarMonth, "month", "", "month to show (YYYY-MM, default: current)")
	return cmd
}

func runCalendarCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	now := time.Now()
	year, month := now.Year(), now.Month()
	if calendarMonth != "" {
		parsed, err := time.ParseInLocation("2006-01", calendarMonth, now.Location())
		if err != nil {
			return fmt.Errorf("invalid --month value: %w", err)
		}
		year, month = parsed.Year(), parsed.Month()
	}

	logger, err := config.NewLogger(logLevel, "")
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	sess, err := requireSession()
	if err != nil {
		return err
	}
	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	records, err := st.ListCompletions(cmd.Context(), sess.UserID, 0)
	if err != nil {
		return fmt.Errorf("failed to load completions: %w", err)
	}
	grid := calendar.Month(year, month, calendar.MarksFromRecords(records, now.Location()), now)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n\nActive days: %d\n", calendar.Render(grid), grid.ActiveDays())
	return err
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <user>",
		Short: "Start a session for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.NewManager(config.DefaultSessionPath()).SignIn(args[0], time.Now())
			if err != nil {
				return fmt.Errorf("failed to sign in: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", sess.UserID)
			return err
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := session.NewManager(config.DefaultSessionPath()).SignOut(); err != nil {
				return fmt.Errorf("failed to sign out: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return err
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (since %s)\n", sess.UserID, sess.StartedAt.Local().Format("2006-01-02 15:04"))
			return err
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import completions from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	logger, err := config.NewLogger(logLevel, "")
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	sess, err := requireSession()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import: %w", err)
	}
	records, skipped, err := transfer.Decode(bytes.NewReader(data), sess.UserID)
	if err != nil {
		return err
	}
	for _, skip := range skipped {
		logger.Warn("skipped malformed entry", zap.Int("index", skip.Index), zap.String("reason", skip.Reason))
	}

	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	added, err := st.InsertCompletions(cmd.Context(), records)
	if err != nil {
		return fmt.Errorf("failed to import completions: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d completions (%d already present, %d skipped)\n",
		added, len(records)-added, len(skipped))
	return err
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your completions",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteCmd,
	}
}

func runDeleteCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	logger, err := config.NewLogger(logLevel, "")
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	sess, err := requireSession()
	if err != nil {
		return err
	}
	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	if err := st.DeleteCompletion(cmd.Context(), sess.UserID, args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no completion %q for %s", args[0], sess.UserID)
		}
		return fmt.Errorf("failed to delete completion: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return err
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export completions as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportCmd,
	}
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	logger, err := config.NewLogger(logLevel, "")
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	sess, err := requireSession()
	if err != nil {
		return err
	}
	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	records, err := st.ListCompletions(cmd.Context(), sess.UserID, 0)
	if err != nil {
		return fmt.Errorf("failed to load completions: %w", err)
	}
	if len(args) == 0 {
		return transfer.Encode(cmd.OutOrStdout(), sess.UserID, records, time.Now())
	}
	return writeExportFile(args[0], sess.UserID, records)
}

func writeExportFile(path, user string, records []model.CompletionRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "export-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if err := transfer.Encode(tmpFile, user, records, time.Now()); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
