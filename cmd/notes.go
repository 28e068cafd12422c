package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholar/internal/content"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Generate study notes for a topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		asJSON, _ := cmd.Flags().GetBool("json")
		if strings.TrimSpace(topic) == "" {
			return errors.New("--topic is required")
		}

		d, err := setup(cmd, setupOpts{content: true})
		if err != nil {
			return err
		}
		defer d.Close()

		note, err := d.content.GenerateNotes(cmd.Context(), topic)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(note)
		}
		printNote(cmd, note)
		return nil
	},
}

func printNote(cmd *cobra.Command, n *content.NoteModule) {
	out := cmd.OutOrStdout()
	section := func(title string) {
		fmt.Fprintf(out, "\n%s\n%s\n", title, strings.Repeat("─", len(title)))
	}

	fmt.Fprintln(out, strings.ToUpper(n.Topic))
	section("Concept Overview")
	fmt.Fprintln(out, n.ConceptOverview)
	if n.DeepDiveMechanism != "" {
		section("Deep Dive: Mechanism")
		fmt.Fprintln(out, n.DeepDiveMechanism)
	}
	section("Key NCERT Lines")
	for _, l := range n.KeyNCERTLines {
		fmt.Fprintln(out, "  •", l)
	}
	if len(n.ConfusedTerms) > 0 {
		section("Commonly Confused")
		for _, t := range n.ConfusedTerms {
			fmt.Fprintf(out, "  • %s vs %s: %s\n", t.Term1, t.Term2, t.Difference)
		}
	}
	if len(n.Mnemonics) > 0 {
		section("Mnemonics")
		for _, m := range n.Mnemonics {
			fmt.Fprintln(out, "  •", m)
		}
	}
	if len(n.ExamTraps) > 0 {
		section("Exam Traps")
		for _, t := range n.ExamTraps {
			fmt.Fprintln(out, "  •", t)
		}
	}
	if len(n.CriticalData) > 0 {
		section("Critical Data")
		for _, c := range n.CriticalData {
			fmt.Fprintf(out, "  • %s: %s\n", c.Label, c.Value)
		}
	}
}

func init() {
	notesCmd.Flags().StringP("topic", "t", "", "Syllabus topic")
	notesCmd.Flags().Bool("json", false, "Print the raw note module as JSON")
}
