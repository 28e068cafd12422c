package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/scholar/internal/config"
	"github.com/abhisek/scholar/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "scholar",
	Short: "NEET exam prep in the terminal",
	Long: `Scholar is an AI study companion for NEET aspirants. It browses the
NCERT syllabus, generates structured notes and AIIMS-level MCQ quizzes,
tracks quiz performance and builds remedial plans from your mistakes.

Set GEMINI_API_KEY (or another provider key, see "scholar llm --help") to
generate content. Without a key Scholar runs on built-in demo content.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SCHOLAR_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides SCHOLAR_CONFIG env var)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(syllabusCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config named by --config, SCHOLAR_CONFIG or none.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (SCHOLAR_DB or the config file), then the default
// XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// configuredDBPath resolves the database path for commands that only need
// the SQLite store.
func configuredDBPath(cmd *cobra.Command) (string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	return resolveDBPath(cmd, cfg)
}
