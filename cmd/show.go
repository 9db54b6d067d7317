package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/Lumos-Labs-HQ/objseed/internal/database/common"
	"github.com/Lumos-Labs-HQ/objseed/internal/export"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	showFormat string
	showOut    string
)

var showCmd = &cobra.Command{
	Use:   "show <class-id>",
	Short: "Print one class with its objects and items",
	Long: `
Read back one class, its objects and the items linked to each object.
The tree is printed to stdout, or written to a timestamped file when
--out is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid class id %q: %w", args[0], err)
		}

		ctx := cmd.Context()

		adapter, _, err := connect(ctx)
		if err != nil {
			return err
		}
		defer adapter.Close()

		tree, err := adapter.ReadClass(ctx, classID)
		if errors.Is(err, common.ErrClassNotFound) {
			return fmt.Errorf("class %d does not exist", classID)
		}
		if err != nil {
			return err
		}

		if showOut == "" {
			return export.Encode(os.Stdout, tree, showFormat)
		}

		path, err := export.WriteClass(tree, showOut, showFormat)
		if err != nil {
			return err
		}
		color.Green("✅ Class %d written to %s", classID, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&showFormat, "format", export.FormatJSON, "Output format (json, yaml)")
	showCmd.Flags().StringVar(&showOut, "out", "", "Write to a timestamped file in this directory")
}
