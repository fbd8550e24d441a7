package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <category-path>",
	Short: "Send every card of a category back to level 0 and forget its test history",
	Long: "Reset moves every card of the category and its subcategories back to level 0 " +
		"and clears their test counts. Use \".\" for the whole collection.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}
		defer w.Close()

		c, err := w.category(args[0])
		if err != nil {
			return err
		}
		cards := c.Cards()
		for _, card := range cards {
			card.Category().ResetCard(card)
		}
		if err := w.save(cmd); err != nil {
			return err
		}
		w.logger.Info("category reset", "category", c.Path(), "cards", len(cards))
		fmt.Fprintf(cmd.OutOrStdout(), "reset %d cards in %s\n", len(cards), pathOrRoot(c.Path()))
		return nil
	},
}
