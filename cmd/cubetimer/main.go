// Package main provides the CLI entrypoint for cubetimer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dkranz/cubetimer/internal/config"
	"github.com/dkranz/cubetimer/internal/goals"
	"github.com/dkranz/cubetimer/internal/model"
	"github.com/dkranz/cubetimer/internal/scramble"
	"github.com/dkranz/cubetimer/internal/session"
	"github.com/dkranz/cubetimer/internal/stats"
	"github.com/dkranz/cubetimer/internal/statsui"
	"github.com/dkranz/cubetimer/internal/store"
	"github.com/dkranz/cubetimer/internal/timefmt"
	"github.com/dkranz/cubetimer/internal/tui"
)

var (
	timerSession           string
	timerInspection        bool
	timerInspectionSeconds int
	timerSplits            bool

	statsSession string
	statsLast    int
	statsSolves  bool
	statsPlot    bool
	statsBrowse  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultSettings()
	rootCmd := &cobra.Command{
		Use:           "cubetimer",
		Short:         "TUI speedcubing timer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTimerCmd,
	}

	rootCmd.Flags().StringVar(&timerSession, "session", "", "session to start in (default: last used)")
	rootCmd.Flags().BoolVar(&timerInspection, "inspection", defaults.InspectionEnabled, "run an inspection countdown before each solve")
	rootCmd.Flags().IntVar(&timerInspectionSeconds, "inspection-seconds", defaults.InspectionSeconds, "inspection length in seconds")
	rootCmd.Flags().BoolVar(&timerSplits, "splits", defaults.SplitsEnabled, "capture phase splits after each solve")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "inspection", &timerInspection, fileCfg.Timer.Inspection)
	applyIntConfig(cmd, "inspection-seconds", &timerInspectionSeconds, fileCfg.Timer.InspectionSeconds)
	applyBoolConfig(cmd, "splits", &timerSplits, fileCfg.Timer.Splits)

	if timerInspectionSeconds <= 0 {
		return fmt.Errorf("--inspection-seconds must be > 0")
	}

	st, collection, err := openCollection()
	if err != nil {
		return err
	}
	defer closeStore(st)

	collection.Settings.InspectionEnabled = timerInspection
	collection.Settings.InspectionSeconds = timerInspectionSeconds
	collection.Settings.SplitsEnabled = timerSplits

	if timerSession != "" {
		s, err := resolveSession(collection, timerSession)
		if err != nil {
			return err
		}
		if err := session.SetCurrent(collection, s.ID); err != nil {
			return err
		}
	}

	m := tui.NewModel(collection, st, scramble.New())
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := st.Save(context.Background(), collection); err != nil {
		return fmt.Errorf("failed to save on exit: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show solve statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSession, "session", "", "session name (default: current)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit solve listing to the last N solves")
	cmd.Flags().BoolVar(&statsSolves, "solves", false, "list individual solves")
	cmd.Flags().BoolVar(&statsPlot, "plot", false, "render the solve-time trend plot")
	cmd.Flags().BoolVar(&statsBrowse, "browse", false, "open the interactive stats browser")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	bench := benchmarkFromConfig(fileCfg.Goals)

	st, collection, err := openCollection()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if statsBrowse {
		m := statsui.NewModel(collection, bench)
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	s, err := resolveSession(collection, statsSession)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, s); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := stats.RenderGoals(out, s, bench); err != nil {
		return fmt.Errorf("failed to render goals: %w", err)
	}
	if statsSolves {
		listed := s
		if statsLast > 0 && len(s.Results) > statsLast {
			trimmed := *s
			trimmed.Results = s.Results[len(s.Results)-statsLast:]
			listed = &trimmed
		}
		if err := stats.RenderSolves(out, listed); err != nil {
			return fmt.Errorf("failed to render solves: %w", err)
		}
	}
	if statsPlot {
		if err := stats.RenderTrend(out, s, 0, 0, false); err != nil {
			return fmt.Errorf("failed to render trend: %w", err)
		}
	}
	return nil
}

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE:  runSessionsCmd,
	}
}

func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	st, collection, err := openCollection()
	if err != nil {
		return err
	}
	defer closeStore(st)

	out := cmd.OutOrStdout()
	for _, s := range collection.Sessions {
		marker := " "
		if s.ID == collection.CurrentID {
			marker = "*"
		}
		best := "-"
		if v, ok := stats.Best(s.Results); ok {
			best = timefmt.FormatValue(v)
		}
		if _, err := fmt.Fprintf(out, "%s %s (%s)  %d solves  best %s\n", marker, s.Name, s.Type, len(s.Results), best); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export all sessions to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
}

func runExportCmd(_ *cobra.Command, args []string) error {
	st, collection, err := openCollection()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := store.ExportFile(args[0], collection); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	logErrf("Wrote %s\n", args[0])
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import sessions from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(_ *cobra.Command, args []string) error {
	st, collection, err := openCollection()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := store.ImportFile(args[0], collection); err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}
	if err := st.Save(context.Background(), collection); err != nil {
		return fmt.Errorf("failed to save imported data: %w", err)
	}
	logErrf("Imported %s (%d sessions)\n", args[0], len(collection.Sessions))
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

// openCollection opens the database and loads the stored snapshot. A load
// failure keeps the open store and starts from a fresh collection.
func openCollection() (*store.Store, *model.Collection, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	collection, err := st.Load(context.Background())
	if err != nil {
		logErrf("failed to load stored sessions, starting fresh: %v\n", err)
	}
	session.EnsureSession(collection)
	return st, collection, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func resolveSession(c *model.Collection, name string) (*model.Session, error) {
	if name == "" {
		return session.Current(c), nil
	}
	for _, s := range c.Sessions {
		if s.Name == name {
			return s, nil
		}
	}
	names := make([]string, 0, len(c.Sessions))
	for _, s := range c.Sessions {
		names = append(names, s.Name)
	}
	return nil, fmt.Errorf("unknown session %q (available: %s)", name, strings.Join(names, ", "))
}

func benchmarkFromConfig(cfg config.GoalsConfig) goals.Benchmark {
	bench := goals.DefaultBenchmark()
	if cfg.Phase1 != nil {
		bench.Phase1s = *cfg.Phase1
	}
	if cfg.Phase2 != nil {
		bench.Phase2s = *cfg.Phase2
	}
	if cfg.Phase3 != nil {
		bench.Phase3s = *cfg.Phase3
	}
	if cfg.Rotations != nil {
		bench.Rotations = *cfg.Rotations
	}
	return bench
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	defaults := model.DefaultSettings()
	bench := goals.DefaultBenchmark()
	return fmt.Sprintf(`# cubetimer configuration
# Uncomment a value to enable it. CLI flags override config values.

[timer]
# inspection = %t          # Run an inspection countdown before each solve
# inspection-seconds = %d  # Inspection length in seconds
# splits = %t              # Capture phase splits after each solve

[goals]
# phase1 = %.1f            # Target phase 1 average, seconds
# phase2 = %.1f            # Target phase 2 average, seconds
# phase3 = %.1f            # Target phase 3 average, seconds
# rotations = %.1f         # Target cube rotations per solve
`,
		defaults.InspectionEnabled,
		defaults.InspectionSeconds,
		defaults.SplitsEnabled,
		bench.Phase1s,
		bench.Phase2s,
		bench.Phase3s,
		bench.Rotations,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
