package combo

import (
	"cmp"
	"strconv"

	"github.com/alexiusacademia/golc/internal/schema"
)

// Key is the composite identity of a structural member or joint. Which slots
// are populated depends on the schema mode.
type Key struct {
	Group      string // Story
	SubGroup   string // Column / Pier
	Identifier string // Unique Name
	Position   string // Station / Location
}

// Slot returns the value held in slot.
func (k Key) Slot(s schema.Slot) string {
	switch s {
	case schema.SlotGroup:
		return k.Group
	case schema.SlotSubGroup:
		return k.SubGroup
	case schema.SlotIdentifier:
		return k.Identifier
	case schema.SlotPosition:
		return k.Position
	}
	return ""
}

// WithSlot returns a copy of k with slot set to v.
func (k Key) WithSlot(s schema.Slot, v string) Key {
	switch s {
	case schema.SlotGroup:
		k.Group = v
	case schema.SlotSubGroup:
		k.SubGroup = v
	case schema.SlotIdentifier:
		k.Identifier = v
	case schema.SlotPosition:
		k.Position = v
	}
	return k
}

// project keeps only the slots used by sc.
func (k Key) project(sc schema.Schema) Key {
	var out Key
	for _, kc := range sc.KeyColumns {
		out = out.WithSlot(kc.Slot, k.Slot(kc.Slot))
	}
	return out
}

// Metrics holds the six force/moment components of a record, in schema order.
type Metrics [schema.NumMetrics]float64

// Scale returns every component multiplied by f.
func (m Metrics) Scale(f float64) Metrics {
	for i := range m {
		m[i] *= f
	}
	return m
}

// Record is one raw reading: an entity under one load case.
type Record struct {
	Key    Key
	Case   string
	Values Metrics

	// Blank marks metrics with no reading. They hold 0 and are left out of
	// the mean of duplicate rows.
	Blank [schema.NumMetrics]bool
}

// compareKeys orders keys slot by slot in schema column order.
func compareKeys(sc schema.Schema, a, b Key) int {
	for _, kc := range sc.KeyColumns {
		if c := compareValues(a.Slot(kc.Slot), b.Slot(kc.Slot)); c != 0 {
			return c
		}
	}
	return 0
}

// compareValues compares numerically when both values parse as numbers
// (Station is numeric), otherwise lexically. Numbers sort before text.
func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if c := cmp.Compare(fa, fb); c != 0 {
			return c
		}
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return cmp.Compare(a, b)
}
