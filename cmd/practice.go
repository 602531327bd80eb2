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
	"github.com/RavenCaffeine/SeekJob-Helper/internal/practice"
)

const evaluateTimeout = 2 * time.Minute

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Answer random questions from the bank and get scored",
	Long: `Fetch a random question, type an answer (finish with an empty line),
and read the evaluation. Answer "next" to skip a question or "quit" to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		return withClient(func(client *api.Client) error {
			ctrl := practice.NewController(client, slog.Default())
			return runPractice(cmd.Context(), ctrl, f, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

func init() {
	addFilterFlags(practiceCmd)
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("tags", "", "Comma-separated tags; every tag must match")
	cmd.Flags().String("difficulty", "", "Difficulty: easy, medium or hard")
}

func filterFromFlags(cmd *cobra.Command) (api.Filter, error) {
	tags, _ := cmd.Flags().GetString("tags")
	diff, _ := cmd.Flags().GetString("difficulty")

	f := api.Filter{Tags: api.NormalizeTags(tags)}
	if diff != "" {
		f.Difficulty = api.ParseDifficulty(diff)
		if f.Difficulty == api.DifficultyUnset {
			return f, fmt.Errorf("invalid difficulty %q: must be easy, medium or hard", diff)
		}
	}
	return f, nil
}

// runPractice loops fetch → answer → evaluation until the input ends or
// the user quits.
func runPractice(ctx context.Context, ctrl *practice.Controller, f api.Filter, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	// Each request is bounded by the client's own timeout.
	fetch := func(first bool) error {
		var q *api.Question
		var err error
		if first {
			q, err = ctrl.FetchRandom(ctx, f)
		} else {
			q, err = ctrl.Next(ctx)
		}
		if err != nil {
			return friendly(err)
		}
		printQuestion(out, q)
		return nil
	}

	if err := fetch(true); err != nil {
		return err
	}
	for {
		fmt.Fprintln(out, "\nYour answer (finish with an empty line):")
		answer, ok := readBlock(sc)
		if !ok {
			return sc.Err()
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "quit", "exit":
			return nil
		case "next":
			if err := fetch(false); err != nil {
				return err
			}
			continue
		}

		ectx, cancel := context.WithTimeout(ctx, evaluateTimeout)
		ev, err := ctrl.SubmitAnswer(ectx, answer)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(out, "Error:", api.MessageOf(err))
			continue
		}
		printEvaluation(out, ev, ctrl.Question())

		fmt.Fprint(out, "\n[n]ext question, [a]nswer again, [q]uit: ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "q", "quit", "exit":
			return nil
		case "a", "again":
			continue
		default:
			if err := fetch(false); err != nil {
				return err
			}
		}
	}
}

// readBlock reads lines up to the first empty line. ok is false at EOF
// with nothing read.
func readBlock(sc *bufio.Scanner) (string, bool) {
	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			if len(lines) == 0 {
				continue
			}
			break
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

func printQuestion(out io.Writer, q *api.Question) {
	fmt.Fprintln(out)
	rule(out, 60)
	meta := fmt.Sprintf("Question #%d", q.ID)
	if q.Difficulty != api.DifficultyUnset {
		meta += " · " + q.Difficulty.String()
	}
	if len(q.Tags) > 0 {
		meta += " · " + strings.Join(q.Tags, ", ")
	}
	fmt.Fprintln(out, meta)
	rule(out, 60)
	printMarkdown(out, q.Prompt)
}

func printEvaluation(out io.Writer, ev *api.Evaluation, q *api.Question) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Score: %s/10\n", formatScore(ev.Score))
	if ev.Comment != "" {
		fmt.Fprintln(out, "\nEvaluation:")
		printMarkdown(out, ev.Comment)
	}
	if len(ev.Suggestions) > 0 {
		fmt.Fprintln(out, "\nSuggestions:")
		for _, s := range ev.Suggestions {
			fmt.Fprintf(out, "  • %s\n", s)
		}
	}
	ref := ev.ReferenceAnswer
	if ref == "" && q != nil {
		ref = q.ReferenceAnswer
	}
	if ref != "" {
		fmt.Fprintln(out, "\nReference answer:")
		printMarkdown(out, ref)
	}
}

// formatScore drops a trailing ".0".
func formatScore(s float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", s), ".0")
}
