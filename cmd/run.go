package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/leitbox/internal/app"
	"github.com/abhisek/leitbox/internal/learn"
)

// runApp opens the workspace and launches the TUI. With learnNow set it
// starts a learn session on path right away.
func runApp(cmd *cobra.Command, path string, mode learn.Mode, learnNow bool) error {
	w, err := openWorkspace(cmd, true)
	if err != nil {
		return err
	}
	defer w.Close()

	opts := app.Options{Env: w.env(), Mode: mode}
	if learnNow {
		if opts.Learn, err = w.category(path); err != nil {
			return err
		}
	}
	return app.Run(opts)
}
