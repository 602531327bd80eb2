package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/practice"
)

var questionsCmd = &cobra.Command{
	Use:     "questions",
	Aliases: []string{"q"},
	Short:   "Manage the practice question bank",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions, optionally filtered by tags and difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		skip, _ := cmd.Flags().GetInt("skip")
		limit, _ := cmd.Flags().GetInt("limit")

		return withClient(func(client *api.Client) error {
			qs, err := practice.NewBank(client).List(cmd.Context(), f, api.Page{Skip: skip, Limit: limit})
			if err != nil {
				return friendly(err)
			}
			printQuestionTable(cmd.OutOrStdout(), qs)
			return nil
		})
	},
}

var questionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a question with its reference answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withClient(func(client *api.Client) error {
			q, err := practice.NewBank(client).Get(cmd.Context(), id)
			if err != nil {
				return friendly(err)
			}
			out := cmd.OutOrStdout()
			printQuestion(out, q)
			fmt.Fprintln(out, "\nReference answer:")
			printMarkdown(out, q.ReferenceAnswer)
			return nil
		})
	},
}

var questionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a question to the bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		question, _ := cmd.Flags().GetString("question")
		answer, _ := cmd.Flags().GetString("answer")
		tags, _ := cmd.Flags().GetString("tags")
		diff, _ := cmd.Flags().GetString("difficulty")

		draft := api.QuestionDraft{
			Prompt:          question,
			ReferenceAnswer: answer,
			Tags:            api.NormalizeTags(tags),
		}
		if diff != "" {
			d, err := parseDifficultyFlag(diff)
			if err != nil {
				return err
			}
			draft.Difficulty = d
		}

		return withClient(func(client *api.Client) error {
			q, err := practice.NewBank(client).Create(cmd.Context(), draft)
			if err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added question #%d.\n", q.ID)
			return nil
		})
	},
}

var questionsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a question; unset flags are left as they are",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var u api.QuestionUpdate
		flags := cmd.Flags()
		if flags.Changed("question") {
			v, _ := flags.GetString("question")
			u.Prompt = &v
		}
		if flags.Changed("answer") {
			v, _ := flags.GetString("answer")
			u.ReferenceAnswer = &v
		}
		if flags.Changed("tags") {
			v, _ := flags.GetString("tags")
			u.Tags = api.NormalizeTags(v)
			if u.Tags == nil {
				u.Tags = []string{}
			}
		}
		if flags.Changed("difficulty") {
			v, _ := flags.GetString("difficulty")
			d, err := parseDifficultyFlag(v)
			if err != nil {
				return err
			}
			u.Difficulty = &d
		}
		if !flags.Changed("question") && !flags.Changed("answer") &&
			!flags.Changed("tags") && !flags.Changed("difficulty") {
			return fmt.Errorf("nothing to change: set at least one of --question, --answer, --tags, --difficulty")
		}

		return withClient(func(client *api.Client) error {
			q, err := practice.NewBank(client).Update(cmd.Context(), id, u)
			if err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated question #%d.\n", q.ID)
			return nil
		})
	},
}

var questionsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a question",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withClient(func(client *api.Client) error {
			if err := practice.NewBank(client).Delete(cmd.Context(), id); err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted question #%d.\n", id)
			return nil
		})
	},
}

func init() {
	addFilterFlags(questionsListCmd)
	questionsListCmd.Flags().Int("skip", 0, "Number of questions to skip")
	questionsListCmd.Flags().IntP("limit", "n", practice.DefaultPageSize, "Number of questions to show")

	for _, c := range []*cobra.Command{questionsAddCmd, questionsEditCmd} {
		c.Flags().String("question", "", "Question text")
		c.Flags().String("answer", "", "Reference answer")
		c.Flags().String("tags", "", "Comma-separated tags")
		c.Flags().String("difficulty", "", "Difficulty: easy, medium or hard (empty clears on edit)")
	}
	_ = questionsAddCmd.MarkFlagRequired("question")
	_ = questionsAddCmd.MarkFlagRequired("answer")

	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsShowCmd)
	questionsCmd.AddCommand(questionsAddCmd)
	questionsCmd.AddCommand(questionsEditCmd)
	questionsCmd.AddCommand(questionsDeleteCmd)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid question id %q", s)
	}
	return id, nil
}

// parseDifficultyFlag accepts easy/medium/hard (or the wire labels); an
// empty value means no difficulty.
func parseDifficultyFlag(s string) (api.Difficulty, error) {
	if strings.TrimSpace(s) == "" {
		return api.DifficultyUnset, nil
	}
	d := api.ParseDifficulty(s)
	if d == api.DifficultyUnset {
		return d, fmt.Errorf("invalid difficulty %q: must be easy, medium or hard", s)
	}
	return d, nil
}

func printQuestionTable(out io.Writer, qs []api.Question) {
	if len(qs) == 0 {
		fmt.Fprintln(out, "No questions found.")
		return
	}
	fmt.Fprintf(out, "%-5s  %-8s  %-24s  %s\n", "ID", "Level", "Tags", "Question")
	rule(out, 96)
	for _, q := range qs {
		level := "-"
		if q.Difficulty != api.DifficultyUnset {
			level = q.Difficulty.String()
		}
		prompt := strings.Join(strings.Fields(q.Prompt), " ")
		fmt.Fprintf(out, "%-5d  %-8s  %-24s  %s\n",
			q.ID, level, truncate(strings.Join(q.Tags, ","), 24), truncate(prompt, 52))
	}
}
