package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the seed tables if they do not exist",
	Long: `
Create CLASSES, OBJECTS, ITEMS and OBJECT_ITEM_LINK in the dialect of the
configured provider. Existing tables are left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		adapter, _, err := connect(ctx)
		if err != nil {
			return err
		}
		defer adapter.Close()

		if err := adapter.ApplySchema(ctx); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}

		color.Green("✅ Schema is in place")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
