package schema

import (
	"fmt"
	"strings"
)

// Mode selects the kind of analysis table being combined.
type Mode string

const (
	ModeColumn   Mode = "column"   // Column forces: Story, Column, Unique Name, Station
	ModeWall     Mode = "wall"     // Pier forces: Story, Pier, Location
	ModeReaction Mode = "reaction" // Joint reactions: Story, Unique Name
)

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeColumn, ModeWall, ModeReaction}

// ParseMode converts a user supplied mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (expected column, wall or reaction)", s)
}

// Slot is a position inside the composite entity key.
type Slot int

const (
	SlotGroup      Slot = iota // Story
	SlotSubGroup               // Column or Pier
	SlotIdentifier             // Unique Name
	SlotPosition               // Station or Location
)

// NumMetrics is the number of force/moment components reported per record.
const NumMetrics = 6

// CaseColumn is the header of the load case column in every table.
const CaseColumn = "Output Case"

// KeyColumn maps a table column onto a slot of the entity key.
type KeyColumn struct {
	Name string
	Slot Slot
}

// Schema describes the table layout of one mode: which columns identify an
// entity, which metric columns are reported and which of those metrics are
// shear-like (amplified for lateral load cases).
type Schema struct {
	Mode       Mode
	KeyColumns []KeyColumn
	Metrics    [NumMetrics]string
	Shear      [NumMetrics]bool
}

var (
	columnSchema = Schema{
		Mode: ModeColumn,
		KeyColumns: []KeyColumn{
			{Name: "Story", Slot: SlotGroup},
			{Name: "Column", Slot: SlotSubGroup},
			{Name: "Unique Name", Slot: SlotIdentifier},
			{Name: "Station", Slot: SlotPosition},
		},
		Metrics: [NumMetrics]string{"P", "V2", "V3", "T", "M2", "M3"},
		Shear:   [NumMetrics]bool{false, true, true, false, false, false},
	}

	wallSchema = Schema{
		Mode: ModeWall,
		KeyColumns: []KeyColumn{
			{Name: "Story", Slot: SlotGroup},
			{Name: "Pier", Slot: SlotSubGroup},
			{Name: "Location", Slot: SlotPosition},
		},
		Metrics: [NumMetrics]string{"P", "V2", "V3", "T", "M2", "M3"},
		Shear:   [NumMetrics]bool{false, true, true, false, false, false},
	}

	reactionSchema = Schema{
		Mode: ModeReaction,
		KeyColumns: []KeyColumn{
			{Name: "Story", Slot: SlotGroup},
			{Name: "Unique Name", Slot: SlotIdentifier},
		},
		Metrics: [NumMetrics]string{"FX", "FY", "FZ", "MX", "MY", "MZ"},
		Shear:   [NumMetrics]bool{true, true, false, false, false, false},
	}
)

// For returns the schema of a mode. The returned value shares no mutable
// state with other callers except the read-only KeyColumns slice.
func For(m Mode) (Schema, error) {
	switch m {
	case ModeColumn:
		return columnSchema, nil
	case ModeWall:
		return wallSchema, nil
	case ModeReaction:
		return reactionSchema, nil
	}
	return Schema{}, fmt.Errorf("unknown mode %q", m)
}

// MustFor is like For but panics on an unknown mode.
func MustFor(m Mode) Schema {
	s, err := For(m)
	if err != nil {
		panic(err)
	}
	return s
}

// MetricIndex returns the position of a metric column.
func (s Schema) MetricIndex(name string) (int, bool) {
	for i, m := range s.Metrics {
		if strings.EqualFold(m, name) {
			return i, true
		}
	}
	return -1, false
}

// IsShear reports whether the metric at index i is amplified for lateral cases.
func (s Schema) IsShear(i int) bool {
	return s.Shear[i]
}

// ShearMetrics returns the names of the shear-like metrics.
func (s Schema) ShearMetrics() []string {
	var out []string
	for i, m := range s.Metrics {
		if s.Shear[i] {
			out = append(out, m)
		}
	}
	return out
}

// HasSlot reports whether the entity key of this mode uses slot.
func (s Schema) HasSlot(slot Slot) bool {
	for _, kc := range s.KeyColumns {
		if kc.Slot == slot {
			return true
		}
	}
	return false
}

// ColumnFor returns the table column that fills slot, if any.
func (s Schema) ColumnFor(slot Slot) (string, bool) {
	for _, kc := range s.KeyColumns {
		if kc.Slot == slot {
			return kc.Name, true
		}
	}
	return "", false
}

// GroupColumn is the name of the column holding the entity group (Story).
func (s Schema) GroupColumn() string {
	name, _ := s.ColumnFor(SlotGroup)
	return name
}
