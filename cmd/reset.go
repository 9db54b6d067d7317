package cmd

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/objseed/internal/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every seeded row",
	Long: `
Delete all rows from OBJECT_ITEM_LINK, ITEMS, OBJECTS and CLASSES, in that
order, inside one transaction. The tables themselves are kept.

⚠️  WARNING: This permanently deletes the data in these tables!

Use --force to skip the confirmation prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		input := &utils.InputUtils{}
		if !input.AskConfirmation("⚠️  Delete all rows from the seed tables?", force) {
			color.Yellow("Reset cancelled")
			return nil
		}

		ctx := cmd.Context()

		adapter, _, err := connect(ctx)
		if err != nil {
			return err
		}
		defer adapter.Close()

		if err := adapter.ClearTables(ctx); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}

		color.Green("✅ Tables cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
