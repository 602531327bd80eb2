package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render markdown with math and code highlighting",
	Long: `Render a file (or stdin) the way the app displays model output: as
styled terminal text, or as sanitized HTML with --html.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asHTML, _ := cmd.Flags().GetBool("html")
		width, _ := cmd.Flags().GetInt("width")
		standalone, _ := cmd.Flags().GetBool("standalone")

		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		text, err := readInput(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}

		theme := cfg.Theme()
		nodes := render.Render(text, theme)
		out := cmd.OutOrStdout()
		if !asHTML {
			fmt.Fprintln(out, render.ANSI(nodes, width))
			return nil
		}

		body := render.HTML(nodes)
		if !standalone {
			fmt.Fprintln(out, body)
			return nil
		}
		css, err := render.StyleSheet(theme)
		if err != nil {
			return fmt.Errorf("highlight styles: %w", err)
		}
		fmt.Fprintf(out, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><style>%s</style></head>\n<body>\n%s\n</body></html>\n", css, body)
		return nil
	},
}

func init() {
	renderCmd.Flags().Bool("html", false, "Emit sanitized HTML instead of terminal text")
	renderCmd.Flags().Bool("standalone", false, "With --html, wrap the output in a full page with highlight CSS")
	renderCmd.Flags().IntP("width", "w", outputWidth, "Wrap width for terminal output")
}
