package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sadopc/chronomark/internal/store"
	"github.com/sadopc/chronomark/internal/tui"
	"github.com/sadopc/chronomark/internal/window"
)

var (
	dbPath   string
	logPath  string
	readOnly bool
	compact  bool
)

var rootCmd = &cobra.Command{
	Use:   "chronomark",
	Short: "ChronoMark – a day timeline time tracker for the terminal",
	Long: `chronomark shows today as a vertical timeline. Drag with the mouse to
create an entry, click a block to edit it, or start the quick-mark stopwatch
and name the span when you stop. History rolls entries up by week, month
and year. Data lives in a local sqlite file.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (default ~/.config/chronomark/chronomark.db)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Log file (default ~/.config/chronomark/chronomark.log)")
	rootCmd.Flags().BoolVar(&readOnly, "read-only", false, "Open the timeline without editing")
	rootCmd.Flags().BoolVar(&compact, "compact", false, "Start in the compact layout")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(clearCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	log, closeLog, err := openLog()
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := openStore(log)
	if err != nil {
		return err
	}
	defer s.Close()

	app := tui.NewApp(s, tui.Options{
		ReadOnly: readOnly,
		Compact:  compact,
		Window:   window.NewLogController(log),
		Log:      log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// openLog points logrus at the log file. The TUI owns the terminal, so
// nothing is ever logged to stdout or stderr.
func openLog() (*logrus.Logger, func(), error) {
	path := logPath
	if path == "" {
		dir, err := store.DefaultDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve log dir: %w", err)
		}
		path = filepath.Join(dir, "chronomark.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}

	log := logrus.New()
	log.SetOutput(f)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	log.SetLevel(logrus.InfoLevel)
	if os.Getenv("CHRONOMARK_DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}
	return log, func() { f.Close() }, nil
}

func openStore(log logrus.FieldLogger) (*store.Store, error) {
	path := dbPath
	if path == "" {
		var err error
		if path, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	s, err := store.New(path, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.WithField("path", path).Debug("database opened")
	return s, nil
}

// cliLog is the logger for subcommands: warnings and errors only, written
// next to the command's own output.
func cliLog(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(logrus.WarnLevel)
	return log
}
