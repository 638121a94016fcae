package combo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexiusacademia/golc/internal/schema"
)

// DuplicatePolicy decides how records sharing an entity and case are merged.
type DuplicatePolicy string

const (
	DuplicatesMean   DuplicatePolicy = "mean"   // average of all duplicates
	DuplicatesLast   DuplicatePolicy = "last"   // last record in input order
	DuplicatesSum    DuplicatePolicy = "sum"    // component-wise sum
	DuplicatesReject DuplicatePolicy = "reject" // fail with a ValidationError
)

// ParseDuplicatePolicy converts a policy name. An empty name selects mean.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DuplicatesMean, nil
	case DuplicatesMean, DuplicatesLast, DuplicatesSum, DuplicatesReject:
		return p, nil
	}
	return "", fmt.Errorf("unknown duplicate policy %q (expected mean, last, sum or reject)", s)
}

// ReshapeOptions tune Reshape.
type ReshapeOptions struct {
	// GroupOverride relabels the Group of every record before reshaping.
	GroupOverride string
	// Duplicates defaults to DuplicatesMean.
	Duplicates DuplicatePolicy
	// RequireCases fails when a case of the vocabulary never appears.
	RequireCases bool
}

// WideRow holds every case of one entity side by side.
type WideRow struct {
	Key   Key
	Cases [schema.NumCases]Metrics
}

// Value returns the reading of metric index m under case c.
func (r WideRow) Value(c schema.Case, m int) float64 {
	return r.Cases[c][m]
}

// WideTable is the per-entity, per-case form consumed by Evaluate.
type WideTable struct {
	Schema schema.Schema
	Rows   []WideRow

	// Seen marks the cases present in the input.
	Seen [schema.NumCases]bool
	// Ignored counts records whose case is outside the vocabulary.
	Ignored int
}

// MissingCases lists the vocabulary cases absent from the input; their
// columns were zero-filled.
func (t *WideTable) MissingCases() []schema.Case {
	var out []schema.Case
	for _, c := range schema.Cases {
		if !t.Seen[c] {
			out = append(out, c)
		}
	}
	return out
}

// Columns names the metric x case columns, e.g. "P_Dead".
func (t *WideTable) Columns() []string {
	cols := make([]string, 0, schema.NumMetrics*schema.NumCases)
	for _, m := range t.Schema.Metrics {
		for _, c := range schema.Cases {
			cols = append(cols, m+"_"+c.String())
		}
	}
	return cols
}

type caseAccumulator struct {
	sum   Metrics
	last  Metrics
	count int
	// readings per metric, blanks excluded
	filled [schema.NumMetrics]int
}

type entityAccumulator struct {
	key   Key
	cases [schema.NumCases]caseAccumulator
}

// Reshape groups records by entity key and spreads them into one row per
// entity with a column for every metric and case. Absent combinations are 0.
// Rows are ordered by key.
func Reshape(records []Record, sc schema.Schema, opts ReshapeOptions) (*WideTable, error) {
	policy := opts.Duplicates
	if policy == "" {
		policy = DuplicatesMean
	}

	table := &WideTable{Schema: sc}
	index := make(map[Key]*entityAccumulator)
	var order []*entityAccumulator

	for _, rec := range records {
		key := rec.Key
		if opts.GroupOverride != "" {
			key.Group = opts.GroupOverride
		}
		for _, kc := range sc.KeyColumns {
			if strings.TrimSpace(key.Slot(kc.Slot)) == "" {
				return nil, &SchemaError{Field: kc.Name}
			}
		}
		key = key.project(sc)

		c, ok := schema.ParseCase(rec.Case)
		if !ok {
			table.Ignored++
			continue
		}
		table.Seen[c] = true

		acc, ok := index[key]
		if !ok {
			acc = &entityAccumulator{key: key}
			index[key] = acc
			order = append(order, acc)
		}
		ca := &acc.cases[c]
		if ca.count > 0 && policy == DuplicatesReject {
			return nil, Invalidf("duplicate %s records for %s", c, describeKey(sc, key))
		}
		for i, v := range rec.Values {
			if rec.Blank[i] {
				continue
			}
			ca.sum[i] += v
			ca.filled[i]++
		}
		ca.last = rec.Values
		ca.count++
	}

	if opts.RequireCases {
		if missing := table.MissingCases(); len(missing) > 0 {
			names := make([]string, len(missing))
			for i, c := range missing {
				names[i] = c.String()
			}
			return nil, Invalidf("required load cases not present: %s", strings.Join(names, ", "))
		}
	}

	table.Rows = make([]WideRow, 0, len(order))
	for _, acc := range order {
		row := WideRow{Key: acc.key}
		for c := range acc.cases {
			row.Cases[c] = acc.cases[c].resolve(policy)
		}
		table.Rows = append(table.Rows, row)
	}
	slices.SortStableFunc(table.Rows, func(a, b WideRow) int {
		return compareKeys(sc, a.Key, b.Key)
	})
	return table, nil
}

func (ca caseAccumulator) resolve(policy DuplicatePolicy) Metrics {
	switch {
	case ca.count == 0:
		return Metrics{}
	case policy == DuplicatesLast:
		return ca.last
	case policy == DuplicatesMean:
		var mean Metrics
		for i, n := range ca.filled {
			if n > 0 {
				mean[i] = ca.sum[i] / float64(n)
			}
		}
		return mean
	}
	return ca.sum
}

func describeKey(sc schema.Schema, k Key) string {
	parts := make([]string, 0, len(sc.KeyColumns))
	for _, kc := range sc.KeyColumns {
		parts = append(parts, fmt.Sprintf("%s=%s", kc.Name, k.Slot(kc.Slot)))
	}
	return strings.Join(parts, " ")
}
