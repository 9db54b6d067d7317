package seeder

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	ClassPrefix  = "Class"
	ObjectPrefix = "Object"
	ItemPrefix   = "Item"

	MinValue   = 10.0
	MaxValue   = 100.0
	MaxAgeDays = 365
)

// DataGenerator produces the random names, values and timestamps of a run.
// It is not safe for concurrent use.
type DataGenerator struct {
	rand *rand.Rand
}

// NewDataGenerator returns a generator seeded with seed, or with the clock
// when seed is 0.
func NewDataGenerator(seed int64) *DataGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &DataGenerator{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Name joins prefix and a 1-based index, e.g. "Object_3".
func (g *DataGenerator) Name(prefix string, index int) string {
	return fmt.Sprintf("%s_%d", prefix, index)
}

// Value is uniform in [MinValue, MaxValue], rounded to cents.
func (g *DataGenerator) Value() float64 {
	v := MinValue + g.rand.Float64()*(MaxValue-MinValue)
	return math.Round(v*100) / 100
}

// Timestamp is now minus a whole number of days in [0, MaxAgeDays].
func (g *DataGenerator) Timestamp(now time.Time) time.Time {
	days := g.rand.Intn(MaxAgeDays + 1)
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// Between is uniform over the inclusive range [min, max].
func (g *DataGenerator) Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rand.Intn(max-min+1)
}
