package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	iv "github.com/RavenCaffeine/SeekJob-Helper/internal/interview"
)

const chatTimeout = 2 * time.Minute

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a mock interview in the terminal",
	Long: `Chat with the AI interviewer line by line.

Type /restart to begin a new interview on the same topic and /quit to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		return withClient(func(client *api.Client) error {
			ctrl := iv.New(client,
				iv.WithDefaultTopic(cfg.UI.Topic),
				iv.WithLogger(slog.Default()),
			)
			return runInterview(cmd.Context(), ctrl, topic, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

func init() {
	interviewCmd.Flags().StringP("topic", "t", "", "Interview topic (default ui.topic)")
}

// runInterview reads one message per line from in until EOF or /quit.
func runInterview(ctx context.Context, ctrl *iv.Controller, topic string, in io.Reader, out io.Writer) error {
	sess := ctrl.StartSession(topic)
	fmt.Fprintf(out, "Interview: %s\n(/restart to start over, /quit to leave)\n\n", sess.Topic)
	printReply(out, sess.Exchanges[0].AIText)

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}

		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/restart":
			sess = ctrl.StartSession(sess.Topic)
			fmt.Fprintln(out)
			printReply(out, sess.Exchanges[0].AIText)
			continue
		}

		turnCtx, cancel := context.WithTimeout(ctx, chatTimeout)
		err := ctrl.Submit(turnCtx, line)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(out, "Error:", api.MessageOf(err))
			continue
		}

		transcript := ctrl.Transcript()
		fmt.Fprintln(out)
		printReply(out, transcript[len(transcript)-1].AIText)
		if ctrl.State() == iv.StateComplete {
			fmt.Fprintln(out, "\nInterview complete. /restart for another round or /quit to leave.")
		}
	}
}

func printReply(out io.Writer, text string) {
	fmt.Fprintln(out, "Interviewer:")
	printMarkdown(out, text)
}
