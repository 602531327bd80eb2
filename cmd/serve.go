package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/llm"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the SeekJob API locally",
	Long: `Serve the SeekJob HTTP API from the local database, using the
configured LLM provider for interviews, evaluations and resume rewrites.

--provider auto picks the first vendor whose standard API key variable
(ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, OPENROUTER_API_KEY) is
set, falling back to the offline mock.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default server.addr)")
	serveCmd.Flags().String("provider", "", "LLM provider: anthropic, openai, gemini, openrouter, mock or auto")
	serveCmd.Flags().Bool("seed", false, "Add sample questions when the bank is empty")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger(os.Stdout, true)
	slog.SetDefault(logger)

	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Server.Addr = v
	}
	provider, _ := cmd.Flags().GetString("provider")
	switch provider {
	case "":
	case "auto":
		cfg.LLM.Provider = llm.ProviderMock
	default:
		cfg.LLM.Provider = provider
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	lc := cfg.LLMConfig()
	if provider == "auto" {
		if discovered, ok := llm.DiscoverConfig(); ok {
			lc = discovered
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := llm.NewProvider(ctx, lc, st.EventRepo())
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}
	if lc.Provider == llm.ProviderMock {
		logger.Warn("using scripted mock provider; set llm.provider for real model replies")
	}

	if seed, _ := cmd.Flags().GetBool("seed"); seed {
		n, err := server.Seed(ctx, st.QuestionRepo())
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("seeded question bank", "questions", n)
		}
	}

	srv := server.New(server.Options{
		Questions:      st.QuestionRepo(),
		Provider:       p,
		MaxTurns:       cfg.Server.MaxTurns,
		DefaultTopic:   cfg.UI.Topic,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		LLMTimeout:     lc.Timeout,
		Logger:         logger,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
