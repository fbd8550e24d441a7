package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/leitbox/internal/learn"
)

var rootCmd = &cobra.Command{
	Use:   "leitbox",
	Short: "Leitner flashcards in the terminal",
	Long: "Leitbox: spaced-repetition flashcards. Cards climb one level per correct answer, " +
		"fall back to level 0 when missed, and come back when their level's interval expires.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "", learn.ModeAll, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides LEITBOX_DB env var)")
	pf.String("settings", "", "Path to settings YAML file (overrides LEITBOX_SETTINGS env var)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (overrides LEITBOX_LOG_LEVEL env var)")
	pf.String("log-file", "", "Append logs to this file")

	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(versionCmd)
}
