package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	rs "github.com/RavenCaffeine/SeekJob-Helper/internal/resume"
)

const optimizeTimeout = 3 * time.Minute

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume tools",
}

var resumeOptimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Rewrite a resume for a target position",
	Long: `Send a plain-text or markdown resume for optimization and print the
score, suggestions and rewritten resume. Reads stdin when --file is "-" or
omitted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		position, _ := cmd.Flags().GetString("position")
		raw, _ := cmd.Flags().GetBool("raw")

		text, err := readInput(cmd.InOrStdin(), file)
		if err != nil {
			return err
		}

		return withClient(func(client *api.Client) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), optimizeTimeout)
			defer cancel()

			res, err := rs.NewService(client).Optimize(ctx, text, position)
			if err != nil {
				return friendly(err)
			}
			out := cmd.OutOrStdout()
			if raw || !isTTY(out) {
				fmt.Fprint(out, res.Markdown())
				return nil
			}
			fmt.Fprint(out, renderGlamour(res.Markdown()))
			return nil
		})
	},
}

func init() {
	resumeOptimizeCmd.Flags().StringP("file", "f", "-", "Resume file, or - for stdin")
	resumeOptimizeCmd.Flags().StringP("position", "p", "", "Target position")
	resumeOptimizeCmd.Flags().Bool("raw", false, "Print markdown without styling")

	resumeCmd.AddCommand(resumeOptimizeCmd)
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// renderGlamour styles a markdown report for the terminal, falling back to
// the source when the renderer fails.
func renderGlamour(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(cfg.Theme().String()),
		glamour.WithWordWrap(outputWidth),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
