// Package main provides the CLI entrypoint for flourish.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/flourish/internal/config"
	"github.com/verte-zerg/flourish/internal/model"
	"github.com/verte-zerg/flourish/internal/session"
	"github.com/verte-zerg/flourish/internal/slider"
	"github.com/verte-zerg/flourish/internal/store"
	"github.com/verte-zerg/flourish/internal/tui"
)

const (
	defaultSliderMin     = 0.0
	defaultSliderMax     = 120.0
	defaultSliderStep    = 5.0
	defaultSliderInitial = 15.0
	defaultStatsLimit    = 50
	defaultStatsDays     = 14
)

var (
	logLevel string

	sliderMin     float64
	sliderMax     float64
	sliderStep    float64
	sliderInitial float64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "flourish",
		Short:         "Terminal wellbeing practice log",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runLogScreenCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.Flags().Float64Var(&sliderMin, "min", defaultSliderMin, "shortest selectable duration in minutes")
	rootCmd.Flags().Float64Var(&sliderMax, "max", defaultSliderMax, "longest selectable duration in minutes")
	rootCmd.Flags().Float64Var(&sliderStep, "step", defaultSliderStep, "duration step in minutes")
	rootCmd.Flags().Float64Var(&sliderInitial, "initial", defaultSliderInitial, "starting duration in minutes")

	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runLogScreenCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyFloatConfig(cmd, "min", &sliderMin, fileCfg.Slider.Min)
	applyFloatConfig(cmd, "max", &sliderMax, fileCfg.Slider.Max)
	applyFloatConfig(cmd, "step", &sliderStep, fileCfg.Slider.Step)
	applyFloatConfig(cmd, "initial", &sliderInitial, fileCfg.Slider.Initial)
	settings := model.SliderSettings{Min: sliderMin, Max: sliderMax, Step: sliderStep, Initial: sliderInitial}
	if err := validateSliderSettings(settings); err != nil {
		return err
	}

	logger, err := config.NewLogger(logLevel, config.DefaultLogPath())
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

	screen, err := tui.NewModel(st, logger, sess.UserID, settings, time.Now)
	if err != nil {
		return err
	}
	program := tea.NewProgram(screen, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// loadFileConfig reads the config file and applies its log level unless the
// flag was given.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	return fileCfg, nil
}

// sliderSettingsFromFile resolves slider bounds for commands without slider
// flags.
func sliderSettingsFromFile(fileCfg config.FileConfig) model.SliderSettings {
	settings := model.SliderSettings{
		Min:     defaultSliderMin,
		Max:     defaultSliderMax,
		Step:    defaultSliderStep,
		Initial: defaultSliderInitial,
	}
	if v := fileCfg.Slider.Min; v != nil {
		settings.Min = *v
	}
	if v := fileCfg.Slider.Max; v != nil {
		settings.Max = *v
	}
	if v := fileCfg.Slider.Step; v != nil {
		settings.Step = *v
	}
	if v := fileCfg.Slider.Initial; v != nil {
		settings.Initial = *v
	}
	return settings
}

func validateSliderSettings(settings model.SliderSettings) error {
	if _, err := slider.NewConfig(settings.Min, settings.Max, settings.Step); err != nil {
		var cfgErr *slider.ConfigurationError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("--%s %s", cfgErr.Field, cfgErr.Reason)
		}
		return err
	}
	return nil
}

func requireSession() (session.Session, error) {
	sess, err := session.NewManager(config.DefaultSessionPath()).Current()
	if errors.Is(err, session.ErrNoSession) {
		return session.Session{}, fmt.Errorf("not signed in; run: flourish login <user>: %w", err)
	}
	if err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

func openStore(logger *zap.Logger) (*store.Store, error) {
	path := config.DefaultDBPath()
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.Debug("opened store", zap.String("path", path))
	return st, nil
}

func closeStore(st *store.Store, logger *zap.Logger) {
	if cerr := st.Close(); cerr != nil {
		logger.Warn("failed to close db", zap.Error(cerr))
	}
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		// Best-effort flush; stderr cannot always be synced.
		_ = err
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# flourish configuration
# Uncomment a value to enable it. CLI flags override config values.

[slider]
# min = %g                # Shortest selectable duration in minutes
# max = %g              # Longest selectable duration in minutes
# step = %g               # Duration step in minutes
# initial = %g           # Starting duration in minutes

[stats]
# limit = %d             # Most recent completions loaded for stats (0 = all)
# days = %d              # Days shown in the daily minutes chart

[log]
# level = %q         # debug, info, warn or error
`,
		defaultSliderMin,
		defaultSliderMax,
		defaultSliderStep,
		defaultSliderInitial,
		defaultStatsLimit,
		defaultStatsDays,
		config.DefaultLogLevel,
	)
}
