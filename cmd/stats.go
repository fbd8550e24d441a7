package cmd

import (
	"fmt"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/leitbox/internal/deck"
)

var statsCmd = &cobra.Command{
	Use:   "stats [category-path]",
	Short: "Show per-level card counts and what is due",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}
		defer w.Close()

		c, err := w.category(argOrEmpty(args))
		if err != nil {
			return err
		}
		printStats(cmd, c, time.Now())
		return nil
	},
}

func printStats(cmd *cobra.Command, c *deck.Category, now time.Time) {
	out := cmd.OutOrStdout()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Level", "Cards")
	for lvl, n := range c.LevelCounts() {
		t.Row(strconv.Itoa(lvl), humanize.Comma(int64(n)))
	}

	fmt.Fprintf(out, "%s: %s cards\n", pathOrRoot(c.Path()), humanize.Comma(int64(c.Len())))
	fmt.Fprintln(out, t)
	fmt.Fprintf(out, "unlearned: %d\n", len(c.UnlearnedCards()))
	fmt.Fprintf(out, "due now:   %d\n", len(c.ExpiredCards(now)))
	if next, ok := nextDue(c, now); ok {
		fmt.Fprintf(out, "next due:  %s (%s)\n", humanize.RelTime(next, now, "ago", "from now"), next.Local().Format("Jan 02 15:04"))
	}
}

// nextDue returns the earliest expiration still in the future.
func nextDue(c *deck.Category, now time.Time) (time.Time, bool) {
	var next time.Time
	for _, card := range c.Cards() {
		if card.IsUnlearned() || card.IsExpired(now) {
			continue
		}
		if next.IsZero() || card.Expiration().Before(next) {
			next = card.Expiration()
		}
	}
	return next, !next.IsZero()
}
