package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2/tree"
	"github.com/spf13/cobra"

	"github.com/abhisek/leitbox/internal/deck"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage the category tree",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Create a category and any missing parents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}
		defer w.Close()

		c := w.root.Ensure(args[0])
		if err := w.save(cmd); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "created", c.Path())
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the category tree with card counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}
		defer w.Close()

		fmt.Fprintln(cmd.OutOrStdout(), categoryTree(w.root))
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <path> <new-name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
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
		if c == w.root {
			return fmt.Errorf("the root category has no name")
		}
		if err := deck.ValidName(args[1]); err != nil {
			return err
		}
		if c.Parent().Child(args[1]) != nil {
			return fmt.Errorf("%q already has a child named %q", c.Parent().Path(), args[1])
		}
		c.Rename(args[1])
		if err := w.save(cmd); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "renamed to", c.Path())
		return nil
	},
}

var categoryRemoveCmd = &cobra.Command{
	Use:     "remove <path>",
	Aliases: []string{"rm"},
	Short:   "Delete a category with its cards and subcategories",
	Args:    cobra.ExactArgs(1),
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
		if c == w.root {
			return fmt.Errorf("the root category cannot be removed")
		}
		n := c.Len()
		c.Parent().RemoveChild(c)
		if err := w.save(cmd); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s (%d cards)\n", args[0], n)
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryRenameCmd)
	categoryCmd.AddCommand(categoryRemoveCmd)
}

// categoryTree renders c and its descendants with their card counts.
func categoryTree(c *deck.Category) *tree.Tree {
	label := c.Name()
	if c.Parent() == nil {
		label = "."
	}
	t := tree.Root(fmt.Sprintf("%s (%d)", label, c.Len()))
	for _, ch := range c.Children() {
		t.Child(categoryTree(ch))
	}
	return t
}
