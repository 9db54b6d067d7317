package types

import (
	"time"
)

// Table names as they exist in the store.
const (
	TableClasses        = "CLASSES"
	TableObjects        = "OBJECTS"
	TableItems          = "ITEMS"
	TableObjectItemLink = "OBJECT_ITEM_LINK"
)

// DeleteOrder lists the tables children first so that deletes never trip a
// foreign key.
var DeleteOrder = []string{TableObjectItemLink, TableItems, TableObjects, TableClasses}

type ClassRecord struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type ObjectRecord struct {
	ID       int64     `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Value    float64   `json:"value" yaml:"value"`
	DateTime time.Time `json:"datetime" yaml:"datetime"`
	ClassID  int64     `json:"class_id" yaml:"class_id"`
}

type ItemRecord struct {
	ID       int64     `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Value    float64   `json:"value" yaml:"value"`
	DateTime time.Time `json:"datetime" yaml:"datetime"`
}

type ObjectItemLink struct {
	ObjectID int64 `json:"object_id" yaml:"object_id"`
	ItemID   int64 `json:"item_id" yaml:"item_id"`
}

// ClassTree is a class read back together with its objects and the items
// linked to each object.
type ClassTree struct {
	ID      int64        `json:"id" yaml:"id"`
	Name    string       `json:"name" yaml:"name"`
	Objects []ObjectTree `json:"objects" yaml:"objects"`
}

type ObjectTree struct {
	ID       int64        `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Value    float64      `json:"value" yaml:"value"`
	DateTime *time.Time   `json:"datetime" yaml:"datetime"`
	Items    []ItemRecord `json:"items" yaml:"items"`
}

// Range is an inclusive [Min, Max] interval. A zero Range with Empty set
// means nothing was counted.
type Range struct {
	Min   int  `json:"min"`
	Max   int  `json:"max"`
	Empty bool `json:"empty,omitempty"`
}

type TableCounts struct {
	Classes int64 `json:"classes"`
	Objects int64 `json:"objects"`
	Items   int64 `json:"items"`
	Links   int64 `json:"links"`
}

// TableStats summarizes the seeded tables for status checks.
type TableStats struct {
	Counts          TableCounts `json:"counts"`
	ObjectsPerClass Range       `json:"objects_per_class"`
	ItemsPerObject  Range       `json:"items_per_object"`
	// SharedItems counts items linked to more than one object.
	SharedItems int64 `json:"shared_items"`
}
