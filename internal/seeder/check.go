package seeder

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/objseed/internal/types"
)

type Violation struct {
	Property string
	Detail   string
}

func (v Violation) String() string {
	return v.Property + ": " + v.Detail
}

// Check compares table statistics with what runs of plan can produce. Any
// number of committed runs passes; empty tables pass.
func Check(stats *types.TableStats, plan Plan) []Violation {
	var violations []Violation

	if plan.Classes > 0 && stats.Counts.Classes%int64(plan.Classes) != 0 {
		violations = append(violations, Violation{
			Property: "class count",
			Detail:   fmt.Sprintf("%d classes is not a multiple of %d per run", stats.Counts.Classes, plan.Classes),
		})
	}

	if r := stats.ObjectsPerClass; !r.Empty && !(plan.ObjectsPerClass.Contains(r.Min) && plan.ObjectsPerClass.Contains(r.Max)) {
		violations = append(violations, Violation{
			Property: "objects per class",
			Detail: fmt.Sprintf("observed [%d,%d], expected within [%d,%d]",
				r.Min, r.Max, plan.ObjectsPerClass.Min, plan.ObjectsPerClass.Max),
		})
	}

	if r := stats.ItemsPerObject; !r.Empty && !(plan.ItemsPerObject.Contains(r.Min) && plan.ItemsPerObject.Contains(r.Max)) {
		violations = append(violations, Violation{
			Property: "items per object",
			Detail: fmt.Sprintf("observed [%d,%d], expected within [%d,%d]",
				r.Min, r.Max, plan.ItemsPerObject.Min, plan.ItemsPerObject.Max),
		})
	}

	if stats.Counts.Links != stats.Counts.Items {
		violations = append(violations, Violation{
			Property: "links per item",
			Detail:   fmt.Sprintf("%d links for %d items, expected one link per item", stats.Counts.Links, stats.Counts.Items),
		})
	}

	if stats.SharedItems > 0 {
		violations = append(violations, Violation{
			Property: "item reuse",
			Detail:   fmt.Sprintf("%d items are linked to more than one object", stats.SharedItems),
		})
	}

	return violations
}
