package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/compat"
)

const statusTimeout = 10 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the API is reachable and speaks a supported version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(client *api.Client) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
			defer cancel()
			return runStatus(ctx, client, cfg.API.BaseURL, cmd.OutOrStdout())
		})
	},
}

type healthChecker interface {
	Health(ctx context.Context) (*api.Health, error)
}

func runStatus(ctx context.Context, backend healthChecker, baseURL string, out io.Writer) error {
	fmt.Fprintf(out, "API:     %s\n", baseURL)

	h, err := backend.Health(ctx)
	if err != nil {
		fmt.Fprintln(out, "Status:  offline")
		return friendly(err)
	}
	fmt.Fprintf(out, "Status:  online (%s)\n", h.Message)

	res, err := compat.Check(compat.CheckInput{ServerVersion: h.Version})
	if err != nil {
		fmt.Fprintf(out, "Version: %q\n", h.Version)
		return err
	}
	fmt.Fprintf(out, "Version: %s (client needs >= %s)\n", res.Server, res.Minimum)
	if !res.Compatible {
		return res.Err
	}
	if h.Docs != "" {
		fmt.Fprintf(out, "Docs:    %s\n", h.Docs)
	}
	return nil
}
