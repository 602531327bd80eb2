package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/llm"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/store"
)

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Inspect the API call journal and local LLM usage",
}

var callsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent API calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		op, _ := cmd.Flags().GetString("op")
		failed, _ := cmd.Flags().GetBool("failed")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		calls, err := s.CallRepo().RecentCalls(cmd.Context(), store.QueryOpts{Limit: limit, Op: op})
		if err != nil {
			return fmt.Errorf("query calls: %w", err)
		}
		printCalls(cmd.OutOrStdout(), calls, failed)
		return nil
	},
}

var callsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show call counts per operation and LLM token usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		stats, err := s.CallRepo().CallStats(ctx)
		if err != nil {
			return fmt.Errorf("query call stats: %w", err)
		}
		printCallStats(out, stats)

		usage, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query LLM usage: %w", err)
		}
		if len(usage) == 0 {
			return nil
		}
		events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query LLM events: %w", err)
		}
		fmt.Fprintln(out)
		printLLMUsage(out, usage, events)
		return nil
	},
}

var callsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "List LLM requests made by the local server",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		printLLMEvents(cmd.OutOrStdout(), events, purpose)
		return nil
	},
}

func init() {
	callsListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	callsListCmd.Flags().String("op", "", "Only show one operation (e.g. interview.chat)")
	callsListCmd.Flags().Bool("failed", false, "Only show failed calls")

	callsLLMCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	callsLLMCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. interview, evaluate, resume)")

	callsCmd.AddCommand(callsListCmd)
	callsCmd.AddCommand(callsStatsCmd)
	callsCmd.AddCommand(callsLLMCmd)
}

func printCalls(out io.Writer, calls []store.CallRecord, failedOnly bool) {
	if len(calls) == 0 {
		fmt.Fprintln(out, "No API calls recorded yet.")
		return
	}

	fmt.Fprintf(out, "%-19s  %-20s  %-6s  %-6s  %7s  %s\n",
		"Timestamp", "Op", "Method", "Status", "Ms", "Error")
	rule(out, 96)
	for _, c := range calls {
		if failedOnly && c.Success {
			continue
		}
		status := "-"
		if c.Status != 0 {
			status = fmt.Sprintf("%d", c.Status)
		}
		errText := ""
		if !c.Success {
			errText = c.ErrorKind
			if c.ErrorMessage != "" {
				errText += ": " + c.ErrorMessage
			}
		}
		fmt.Fprintf(out, "%-19s  %-20s  %-6s  %-6s  %7d  %s\n",
			c.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(c.Op, 20), c.Method, status, c.LatencyMs, truncate(errText, 36))
	}
}

func printCallStats(out io.Writer, stats []store.CallStat) {
	if len(stats) == 0 {
		fmt.Fprintln(out, "No API calls recorded yet.")
		return
	}

	fmt.Fprintln(out, "API Calls by Operation")
	rule(out, 72)
	fmt.Fprintf(out, "%-24s  %6s  %8s  %8s  %8s\n", "Op", "Calls", "Failed", "Avg Ms", "Max Ms")
	rule(out, 72)

	var calls, failures int
	for _, st := range stats {
		fmt.Fprintf(out, "%-24s  %6d  %8d  %8d  %8d\n",
			truncate(st.Op, 24), st.Calls, st.Failures, st.AvgLatencyMs, st.MaxLatencyMs)
		calls += st.Calls
		failures += st.Failures
	}
	rule(out, 72)
	fmt.Fprintf(out, "%-24s  %6d  %8d\n", "TOTAL", calls, failures)
}

func printLLMUsage(out io.Writer, usage []store.LLMUsage, events []store.LLMEvent) {
	fmt.Fprintln(out, "LLM Usage by Purpose")
	rule(out, 72)
	fmt.Fprintf(out, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	rule(out, 72)
	for _, u := range usage {
		fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			u.Key, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
	}

	// Cost is priced per model, so aggregate the raw events.
	type modelTotals struct{ calls, in, out int }
	byModel := make(map[string]*modelTotals)
	for _, e := range events {
		t := byModel[e.Model]
		if t == nil {
			t = &modelTotals{}
			byModel[e.Model] = t
		}
		t.calls++
		t.in += e.InputTokens
		t.out += e.OutputTokens
	}
	models := make([]string, 0, len(byModel))
	for m := range byModel {
		models = append(models, m)
	}
	sort.Strings(models)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Estimated Cost (USD)")
	rule(out, 72)
	var total float64
	var unknown []string
	for _, m := range models {
		t := byModel[m]
		cost, ok := llm.EstimateCost(m, t.in, t.out)
		if !ok {
			unknown = append(unknown, m)
			fmt.Fprintf(out, "%-32s  %6d  %10s\n", truncate(m, 32), t.calls, "?")
			continue
		}
		total += cost
		fmt.Fprintf(out, "%-32s  %6d  %10s\n", truncate(m, 32), t.calls, formatCost(cost))
	}
	rule(out, 72)
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(out, "%-32s  %6s  %10s\n", label, "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func printLLMEvents(out io.Writer, events []store.LLMEvent, purpose string) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No LLM events found.")
		return
	}

	fmt.Fprintf(out, "%-5s  %-19s  %-12s  %-28s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
	rule(out, 100)
	for _, e := range events {
		if purpose != "" && e.Purpose != purpose {
			continue
		}
		ok := "✓"
		if !e.Success {
			ok = "✗ " + truncate(e.ErrorMessage, 30)
		}
		fmt.Fprintf(out, "%-5d  %-19s  %-12s  %-28s  %-6d  %-6d  %-7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Purpose,
			truncate(e.Model, 28),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
