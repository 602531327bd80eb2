package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/config"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/store"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/theme"
)

// cfg is loaded once per invocation by the root pre-run hook.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "seekjob",
	Short: "AI job-search helper",
	Long: "SeekJob Helper: mock interviews, a practice question bank and resume " +
		"optimization, backed by the SeekJob API.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runTUI,
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/seekjob/config.toml)")
	pf.String("env-file", "", "Path to .env file (default ./.env)")
	pf.String("db", "", "Path to SQLite database file (overrides SEEKJOB_DB)")
	pf.String("api-url", "", "SeekJob API base URL (overrides api.base_url)")
	pf.String("theme", "", "Color theme: light or dark")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(callsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers flags over the file and environment, validates the
// result, and installs the stderr logger used by line-oriented commands.
func loadConfig(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	loaded, err := config.Load(config.LoadOptions{Path: path, EnvFile: envFile})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	override := func(dst *string, flag string) {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			*dst = v
		}
	}
	override(&loaded.Store.Path, "db")
	override(&loaded.API.BaseURL, "api-url")
	override(&loaded.UI.Theme, "theme")
	override(&loaded.Log.Level, "log-level")

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = loaded

	theme.Apply(cfg.Theme())
	slog.SetDefault(newLogger(os.Stderr, false))
	return nil
}

// newLogger builds a handler at the configured level.
func newLogger(w io.Writer, asJSON bool) *slog.Logger {
	level, _ := config.ParseLevel(cfg.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openLogFile opens the TUI log file for appending.
func openLogFile() (*os.File, error) {
	p, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// openStore opens the database named by store.path, or the XDG default.
func openStore() (*store.Store, error) {
	dbPath := cfg.Store.Path
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		dbPath = p
	} else if err := store.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("create DB dir: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newClient builds the API client. st may be nil to skip call journaling.
func newClient(st *store.Store) (*api.Client, error) {
	var calls store.CallRepo
	if st != nil {
		calls = st.CallRepo()
	}
	client, err := api.New(cfg.APIConfig(), calls)
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}
	return client, nil
}

// withClient opens the store and client for a command and closes the
// store afterwards. A store that fails to open only disables journaling.
func withClient(fn func(*api.Client) error) error {
	st, err := openStore()
	if err != nil {
		slog.Warn("call journal unavailable", "error", err)
		st = nil
	} else {
		defer st.Close()
	}

	client, err := newClient(st)
	if err != nil {
		return err
	}
	return fn(client)
}
