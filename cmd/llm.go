package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholar/internal/llm"
	"github.com/abhisek/scholar/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM calls made for notes, quizzes and plans",
}

// openEventStore opens the database holding the LLM event log.
func openEventStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := configuredDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failed, _ := cmd.Flags().GetBool("failed")

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if failed {
			events = slices.DeleteFunc(events, func(e store.LLMRequestEventRecord) bool { return e.Success })
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM calls recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-16s  %-9s  %-28s  %6s  %6s  %7s  %s\n",
			"ID", "When", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗ " + truncate(e.ErrorMessage, 40)
			}
			fmt.Fprintf(out, "%-5d  %-16s  %-9s  %-28s  %6d  %6d  %7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

func printEvent(out io.Writer, e *store.LLMRequestEventRecord) {
	fmt.Fprintf(out, "Call %d, %s\n", e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  %s / %s for %s\n", e.Provider, e.Model, e.Purpose)
	fmt.Fprintf(out, "  %d tokens in, %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
	if e.ErrorMessage != "" {
		fmt.Fprintf(out, "  failed: %s\n", e.ErrorMessage)
	}

	for _, part := range []struct{ title, body string }{
		{"Prompt", e.RequestBody},
		{"Response", e.ResponseBody},
	} {
		fmt.Fprintf(out, "\n%s\n%s\n", part.title, strings.Repeat("─", 60))
		if part.body == "" {
			fmt.Fprintln(out, "(not captured)")
			continue
		}
		fmt.Fprintln(out, part.body)
	}
}

// purposeCost is the usage and estimated spend of one purpose.
type purposeCost struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	USD          float64
	// Unpriced lists models with no pricing entry; USD excludes them.
	Unpriced []string
}

// costByPurpose folds per-model usage rows into one line per purpose,
// pricing each model separately. Rows arrive sorted by purpose.
func costByPurpose(rows []store.LLMModelUsageRecord) []purposeCost {
	var out []purposeCost
	for _, r := range rows {
		if len(out) == 0 || out[len(out)-1].Purpose != r.Purpose {
			out = append(out, purposeCost{Purpose: r.Purpose})
		}
		pc := &out[len(out)-1]
		pc.Calls += r.Calls
		pc.InputTokens += r.InputTokens
		pc.OutputTokens += r.OutputTokens
		if c := llm.LookupCost(r.Model); c != nil {
			pc.USD += c.Cost(r.InputTokens, r.OutputTokens)
		} else if !slices.Contains(pc.Unpriced, r.Model) {
			pc.Unpriced = append(pc.Unpriced, r.Model)
		}
	}
	return out
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost per purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		usage, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		rows, err := s.EventRepo().LLMUsageByPurposeModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}
		printStats(out, usage, costByPurpose(rows))
		return nil
	},
}

func printStats(out io.Writer, usage []store.LLMUsageRecord, costs []purposeCost) {
	latency := make(map[string]int64, len(usage))
	for _, u := range usage {
		latency[u.Purpose] = u.AvgLatencyMs
	}

	rule := strings.Repeat("─", 70)
	fmt.Fprintf(out, "%-10s  %6s  %10s  %10s  %8s  %10s\n",
		"Purpose", "Calls", "Input", "Output", "Avg Ms", "Cost")
	fmt.Fprintln(out, rule)

	var total purposeCost
	var unpriced []string
	for _, c := range costs {
		cost := formatCost(c.USD)
		if len(c.Unpriced) > 0 {
			cost += "*"
			for _, m := range c.Unpriced {
				if !slices.Contains(unpriced, m) {
					unpriced = append(unpriced, m)
				}
			}
		}
		fmt.Fprintf(out, "%-10s  %6d  %10d  %10d  %8d  %10s\n",
			c.Purpose, c.Calls, c.InputTokens, c.OutputTokens, latency[c.Purpose], cost)
		total.Calls += c.Calls
		total.InputTokens += c.InputTokens
		total.OutputTokens += c.OutputTokens
		total.USD += c.USD
	}

	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%-10s  %6d  %10d  %10d  %8s  %10s\n",
		"TOTAL", total.Calls, total.InputTokens, total.OutputTokens, "", formatCost(total.USD))
	if len(unpriced) > 0 {
		fmt.Fprintf(out, "\n* excludes models without pricing: %s\n", strings.Join(unpriced, ", "))
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose (notes, quiz, remedial)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed calls")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
