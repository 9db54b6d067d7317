package cmd

import (
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/objseed/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert one run of random classes, objects and items",
	Long: `
Insert 10 classes, 1 to 10 objects per class and 2 to 12 fresh items per
object, linking every item to the object it was created for.

The whole run is one transaction. On any failure it is rolled back and
the command exits with a non-zero status.

Set seed.random_seed (or OBJSEED_RANDOM_SEED) to reproduce a run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		adapter, cfg, err := connect(ctx)
		if err != nil {
			return err
		}
		defer adapter.Close()

		s := seeder.New(adapter, seeder.WithGenerator(seeder.NewDataGenerator(cfg.Seed.RandomSeed)))

		report, err := s.Seed(ctx)
		if err != nil {
			return err
		}

		fmt.Println()
		color.Green("🎉 Database seeded successfully!")
		fmt.Printf("   Run:     %s\n", report.RunID)
		fmt.Printf("   Classes: %d\n", report.Counts.Classes)
		fmt.Printf("   Objects: %d\n", report.Counts.Objects)
		fmt.Printf("   Items:   %d\n", report.Counts.Items)
		fmt.Printf("   Links:   %d\n", report.Counts.Links)
		fmt.Printf("   Took:    %s\n", report.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
