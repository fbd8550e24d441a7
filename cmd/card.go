package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/leitbox/internal/deck"
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Manage cards",
}

var cardAddCmd = &cobra.Command{
	Use:   "add <category-path>",
	Short: "Add an unlearned card to a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		front, _ := cmd.Flags().GetString("front")
		back, _ := cmd.Flags().GetString("back")
		if front == "" || back == "" {
			return errors.New("both --front and --back are required")
		}
		frontImages, _ := cmd.Flags().GetStringSlice("front-image")
		backImages, _ := cmd.Flags().GetStringSlice("back-image")

		w, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}
		defer w.Close()

		c, err := w.category(args[0])
		if err != nil {
			return err
		}
		card := deck.NewCard(front, back)
		card.Front.SetImages(frontImages)
		card.Back.SetImages(backImages)
		c.AddCard(card)
		if err := w.save(cmd); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added card %d to %s\n", card.ID, pathOrRoot(c.Path()))
		return nil
	},
}

var cardListCmd = &cobra.Command{
	Use:   "list [category-path]",
	Short: "List the cards of a category and its subcategories",
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
		fmt.Fprintln(cmd.OutOrStdout(), cardTable(c.Cards(), time.Now()))
		return nil
	},
}

func init() {
	cardAddCmd.Flags().String("front", "", "Front side text")
	cardAddCmd.Flags().String("back", "", "Back side text")
	cardAddCmd.Flags().StringSlice("front-image", nil, "Image reference for the front side (repeatable)")
	cardAddCmd.Flags().StringSlice("back-image", nil, "Image reference for the back side (repeatable)")

	cardCmd.AddCommand(cardAddCmd)
	cardCmd.AddCommand(cardListCmd)
}

func cardTable(cards []*deck.Card, now time.Time) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Category", "Front", "Back", "Level", "Due")
	for _, c := range cards {
		t.Row(
			strconv.Itoa(c.ID),
			pathOrRoot(c.Category().Path()),
			c.Front.Text(),
			c.Back.Text(),
			strconv.Itoa(c.Level()),
			dueLabel(c, now),
		)
	}
	return t
}

func dueLabel(c *deck.Card, now time.Time) string {
	switch {
	case c.IsUnlearned():
		return "new"
	case c.IsExpired(now):
		return "now"
	default:
		return humanize.RelTime(c.Expiration(), now, "ago", "from now")
	}
}

func pathOrRoot(p string) string {
	if p == "" {
		return "."
	}
	return p
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
