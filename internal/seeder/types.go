package seeder

import (
	"time"

	"github.com/Lumos-Labs-HQ/objseed/internal/types"
	"github.com/google/uuid"
)

// Bounds is an inclusive count range.
type Bounds struct {
	Min int
	Max int
}

func (b Bounds) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

// Plan is the shape of one run.
type Plan struct {
	Classes         int
	ObjectsPerClass Bounds
	ItemsPerObject  Bounds
}

// DefaultPlan is 10 classes, 1 to 10 objects per class and 2 to 12 items
// per object.
func DefaultPlan() Plan {
	return Plan{
		Classes:         10,
		ObjectsPerClass: Bounds{Min: 1, Max: 10},
		ItemsPerObject:  Bounds{Min: 2, Max: 12},
	}
}

type ObjectResult struct {
	ID      int64   `json:"id"`
	ItemIDs []int64 `json:"item_ids"`
}

type ClassResult struct {
	ID      int64          `json:"id"`
	Objects []ObjectResult `json:"objects"`
}

// Report describes a committed run.
type Report struct {
	RunID    uuid.UUID         `json:"run_id"`
	Classes  []ClassResult     `json:"classes"`
	Counts   types.TableCounts `json:"counts"`
	Duration time.Duration     `json:"duration"`
}
