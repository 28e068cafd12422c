package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholar/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage quiz history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quiz results, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := setup(cmd, setupOpts{})
		if err != nil {
			return err
		}
		defer d.Close()

		results, err := d.history.LoadAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if len(results) == 0 {
			fmt.Fprintln(out, "No quizzes taken yet.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-40s  %9s  %7s\n", "Date", "Topic", "Score", "Percent")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for i, r := range history.MostRecentFirst(results) {
			if limit > 0 && i >= limit {
				break
			}
			fmt.Fprintf(out, "%-16s  %-40s  %4d/%-4d  %6d%%\n",
				r.Time().Local().Format("2006-01-02 15:04"),
				truncate(r.Topic, 40), r.Score, r.Total, history.Percent(r))
		}
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show average accuracy and per-topic results",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		d, err := setup(cmd, setupOpts{})
		if err != nil {
			return err
		}
		defer d.Close()

		results, err := d.history.LoadAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		s := history.Stats(results)
		fmt.Fprintf(out, "Attempts:          %d\n", s.Attempts)
		fmt.Fprintf(out, "Average accuracy:  %d%%\n", s.AverageAccuracy)
		if len(s.Topics) == 0 {
			return nil
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-40s  %8s  %8s  %6s  %6s  %6s\n", "Topic (weakest first)", "Attempts", "Average", "Best", "Worst", "Missed")
		fmt.Fprintln(out, strings.Repeat("─", 84))
		for _, t := range s.Topics {
			fmt.Fprintf(out, "%-40s  %8d  %7d%%  %5d%%  %5d%%  %6d\n",
				truncate(t.Topic, 40), t.Attempts, t.AverageAccuracy, t.BestPercent, t.WorstPercent, t.Missed)
		}
		return nil
	},
}

var historyRemedialCmd = &cobra.Command{
	Use:   "remedial",
	Short: "Build a remedial plan from the latest quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		d, err := setup(cmd, setupOpts{content: true})
		if err != nil {
			return err
		}
		defer d.Close()

		results, err := d.history.LoadAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		latest, ok := history.Latest(results)
		if !ok {
			fmt.Fprintln(out, "No quizzes taken yet. Take one first: scholar quiz --topic <topic>")
			return nil
		}

		plan, err := d.content.GenerateRemedialPlan(cmd.Context(), latest)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Remedial plan for %s (%d/%d)\n\n", latest.Topic, latest.Score, latest.Total)
		fmt.Fprintln(out, plan.Plan)
		for _, n := range plan.SimplifiedNotes {
			fmt.Fprintln(out, "  •", n)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to clear history without --yes")
		}

		d, err := setup(cmd, setupOpts{})
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.history.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 0, "Maximum number of results to show (0 = all)")
	historyClearCmd.Flags().Bool("yes", false, "Confirm deletion")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyRemedialCmd)
	historyCmd.AddCommand(historyClearCmd)
}
