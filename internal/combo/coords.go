package combo

import "github.com/alexiusacademia/golc/internal/schema"

// Coordinate is the location of a joint.
type Coordinate struct {
	X, Y, Z float64
}

// LocatedRow is a result row with the coordinate of its joint, if known.
type LocatedRow struct {
	ResultRow
	Coord *Coordinate
}

// JoinCoordinates left-joins coordinates onto rows by the entity identifier
// (Unique Name). Rows without a match keep a nil Coord.
func JoinCoordinates(rows []ResultRow, coords map[string]Coordinate) []LocatedRow {
	out := make([]LocatedRow, len(rows))
	for i, r := range rows {
		out[i] = LocatedRow{ResultRow: r}
		if c, ok := coords[r.Key.Slot(schema.SlotIdentifier)]; ok {
			out[i].Coord = &c
		}
	}
	return out
}
