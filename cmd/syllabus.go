package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholar/internal/syllabus"
)

var syllabusCmd = &cobra.Command{
	Use:   "syllabus",
	Short: "Print the NEET syllabus",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		search, _ := cmd.Flags().GetString("search")

		s := syllabus.Default()
		if subject == "" {
			subject = syllabus.All
		}
		if !slices.Contains(s.Filters(), subject) {
			return fmt.Errorf("unknown subject %q (want one of %v)", subject, s.Filters())
		}

		view := s.Filter(subject, search)
		out := cmd.OutOrStdout()
		for _, sub := range view.Subjects {
			fmt.Fprintln(out, sub.Name)
			for _, u := range sub.Units {
				fmt.Fprintf(out, "  %s (%s)\n", u.Name, syllabus.ChapterLabel(len(u.Topics)))
				for _, t := range u.Topics {
					fmt.Fprintln(out, "    -", t)
				}
			}
		}
		fmt.Fprintf(out, "\n%s\n", syllabus.ChapterLabel(view.TopicCount()))
		return nil
	},
}

func init() {
	syllabusCmd.Flags().StringP("subject", "s", "", "Subject filter: All, Biology, Physics or Chemistry")
	syllabusCmd.Flags().StringP("search", "q", "", "Case-insensitive topic search")
}
