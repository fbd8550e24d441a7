package cmd

import (
	"fmt"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/leitbox/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent learn sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		category, _ := cmd.Flags().GetString("category")
		since, _ := cmd.Flags().GetDuration("since")

		w, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}
		defer w.Close()

		now := time.Now()
		opts := store.QueryOpts{Limit: limit, CategoryPath: category}
		if since > 0 {
			opts.From = now.Add(-since)
		}
		records, err := w.store.HistoryRepo().List(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no sessions yet")
			return nil
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Started", "Category", "Duration", "Passed", "Relearned", "Failed", "Skipped")
		for _, r := range records {
			t.Row(
				humanize.RelTime(r.Start, now, "ago", "from now"),
				pathOrRoot(r.CategoryPath),
				r.Duration().Round(time.Second).String(),
				strconv.Itoa(r.Passed),
				strconv.Itoa(r.Relearned),
				strconv.Itoa(r.Failed),
				strconv.Itoa(r.Skipped),
			)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of sessions to show (0 for all)")
	historyCmd.Flags().String("category", "", "Only sessions on this category path")
	historyCmd.Flags().Duration("since", 0, "Only sessions started within this duration, e.g. 168h")
}
