package combo

import (
	"slices"

	"github.com/alexiusacademia/golc/internal/schema"
)

// DefaultBasisLabel is the Group given to a derived underground floor.
const DefaultBasisLabel = "Underground"

// Groups returns the distinct Group values of records, ordered the same way
// entity keys are ordered.
func Groups(records []Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if !seen[r.Key.Group] {
			seen[r.Key.Group] = true
			out = append(out, r.Key.Group)
		}
	}
	slices.SortFunc(out, compareValues)
	return out
}

// SelectGroup returns copies of the records whose Group equals group.
func SelectGroup(records []Record, group string) []Record {
	var out []Record
	for _, r := range records {
		if r.Key.Group == group {
			out = append(out, r)
		}
	}
	return out
}

// ScaleCases returns a new record set in which every record whose case has
// a factor is scaled by it. Other records are copied unchanged.
func ScaleCases(records []Record, factors Factors) ([]Record, error) {
	if err := factors.validate(false); err != nil {
		return nil, err
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = scaleRecord(r, factors)
	}
	return out, nil
}

// DeriveBasis builds the raw records of a synthetic group from an existing
// one: records of source are selected, gravity cases listed in factors are
// scaled, and the Group is relabelled. Records of other groups are dropped.
func DeriveBasis(records []Record, source, label string, factors Factors) ([]Record, error) {
	if err := factors.validate(true); err != nil {
		return nil, err
	}
	if label == "" {
		label = DefaultBasisLabel
	}

	selected := SelectGroup(records, source)
	if len(selected) == 0 {
		return nil, &SelectionError{Group: source}
	}

	out := make([]Record, len(selected))
	for i, r := range selected {
		r = scaleRecord(r, factors)
		r.Key.Group = label
		out[i] = r
	}
	return out, nil
}

// CombineBasis derives the basis records and evaluates them.
func CombineBasis(records []Record, sc schema.Schema, source, label string, factors Factors, opts ReshapeOptions) ([]ResultRow, error) {
	derived, err := DeriveBasis(records, source, label, factors)
	if err != nil {
		return nil, err
	}
	if label == "" {
		label = DefaultBasisLabel
	}
	opts.GroupOverride = label
	return Combine(derived, sc, opts)
}

func scaleRecord(r Record, factors Factors) Record {
	c, ok := schema.ParseCase(r.Case)
	if !ok {
		return r
	}
	if f, ok := factors[c]; ok {
		r.Values = r.Values.Scale(f)
	}
	return r
}
