package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/scholar/internal/app"
	"github.com/abhisek/scholar/internal/syllabus"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the terminal UI (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := setup(cmd, setupOpts{logToFile: true, content: true})
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(app.Options{
		Content:   d.content,
		History:   d.history,
		Syllabus:  syllabus.Default(),
		QuizCount: d.cfg.Quiz.Count,
		Demo:      d.demo,
		Logger:    d.logger,
	})
}
