package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dkoval85/rdm/internal/collapse"
	"github.com/dkoval85/rdm/internal/config"
	"github.com/dkoval85/rdm/internal/db"
	"github.com/dkoval85/rdm/internal/filter"
	"github.com/dkoval85/rdm/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagDB       string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "rdm",
	Short: "rdm - terminal roadmap manager",
	Long: `rdm is a terminal UI for collaborative roadmaps: projects broken
into numbered blocks with deadlines, sections within blocks, and tasks
with subtasks, tags and discussions. Data lives in a local SQLite file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rdm %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database file path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug|info|warn|error")
	rootCmd.AddCommand(versionCmd)
}

func run() error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	if err := initLogging(cfg.LogLevel); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	statePath := cfg.StatePath
	if statePath == "" {
		statePath = config.DefaultStatePath()
	}
	backend, err := collapse.NewFileBackend(statePath)
	if err != nil {
		return fmt.Errorf("preparing state file: %w", err)
	}
	store := collapse.NewStore(backend)

	roadmaps, err := database.ProjectCount()
	if err != nil {
		return fmt.Errorf("reading database: %w", err)
	}
	slog.Info("starting", "version", version, "db", cfg.DBPath, "state", statePath, "roadmaps", roadmaps)

	app := ui.NewApp(database, store, filter.ParseGroupBy(cfg.DefaultGroupBy))
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
