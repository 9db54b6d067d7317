package cmd

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/objseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/objseed/internal/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts and check the seeded graph",
	Long: `
Show the row count of every table and the observed fan-out ranges, then
check them against what seeding runs produce:

- the class count is a multiple of 10
- every class has 1 to 10 objects
- every object has 2 to 12 items
- every item has exactly one link

Exits with a non-zero status if a check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		adapter, _, err := connect(ctx)
		if err != nil {
			return err
		}
		defer adapter.Close()

		stats, err := adapter.GetStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to collect table statistics: %w", err)
		}

		printStats(stats)

		violations := seeder.Check(stats, seeder.DefaultPlan())
		fmt.Println()
		if len(violations) == 0 {
			color.Green("✅ All checks passed")
			return nil
		}

		for _, v := range violations {
			color.Red("❌ %s", v)
		}
		return fmt.Errorf("%d check(s) failed", len(violations))
	},
}

func printStats(stats *types.TableStats) {
	color.Cyan("📊 Tables")
	fmt.Printf("   %-18s %d\n", types.TableClasses, stats.Counts.Classes)
	fmt.Printf("   %-18s %d\n", types.TableObjects, stats.Counts.Objects)
	fmt.Printf("   %-18s %d\n", types.TableItems, stats.Counts.Items)
	fmt.Printf("   %-18s %d\n", types.TableObjectItemLink, stats.Counts.Links)

	fmt.Println()
	color.Cyan("🔗 Fan-out")
	fmt.Printf("   %-18s %s\n", "objects per class", formatRange(stats.ObjectsPerClass))
	fmt.Printf("   %-18s %s\n", "items per object", formatRange(stats.ItemsPerObject))
	fmt.Printf("   %-18s %d\n", "shared items", stats.SharedItems)
}

func formatRange(r types.Range) string {
	if r.Empty {
		return "-"
	}
	return fmt.Sprintf("%d..%d", r.Min, r.Max)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
