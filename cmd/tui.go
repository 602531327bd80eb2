package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/app"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/practice"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the full-screen terminal app (default)",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")
}

// runTUI opens the store, builds the client, and launches the TUI. Logs go
// to a file so they do not draw over the alternate screen.
func runTUI(cmd *cobra.Command, _ []string) error {
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile, false)
	slog.SetDefault(logger)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	client, err := newClient(st)
	if err != nil {
		return err
	}

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	opts := app.Options{
		Backend:    client,
		Calls:      st.CallRepo(),
		Topic:      cfg.UI.Topic,
		BaseURL:    cfg.API.BaseURL,
		PageSize:   practice.DefaultPageSize,
		Logger:     logger,
		SkipSplash: noSplash,
	}

	logger.Info("tui starting", "api", cfg.API.BaseURL)
	if err := app.Run(cmd.Context(), opts); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
