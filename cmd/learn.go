package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/leitbox/internal/learn"
)

var learnCmd = &cobra.Command{
	Use:   "learn [category-path]",
	Short: "Start a learn session on a category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeName, _ := cmd.Flags().GetString("mode")
		mode, err := learn.ParseMode(modeName)
		if err != nil {
			return err
		}
		var path string
		if len(args) > 0 {
			path = args[0]
		}
		return runApp(cmd, path, mode, true)
	},
}

func init() {
	learnCmd.Flags().String("mode", "all", "Cards to learn: all, unlearned (new) or expired (due)")
}
