package combo

import "github.com/alexiusacademia/golc/internal/schema"

// Extreme is a governing value and the combination that produced it.
type Extreme struct {
	Value       float64
	Combination string
}

// EnvelopeRow holds the maximum and minimum of every metric of one entity
// across all combinations.
type EnvelopeRow struct {
	Key Key
	Max [schema.NumMetrics]Extreme
	Min [schema.NumMetrics]Extreme
}

// Envelope finds the governing combination for each metric of each entity.
// Entities keep the order of their first appearance in rows; on ties the
// earlier combination governs.
func Envelope(rows []ResultRow) []EnvelopeRow {
	index := make(map[Key]int)
	var out []EnvelopeRow

	for _, r := range rows {
		i, ok := index[r.Key]
		if !ok {
			env := EnvelopeRow{Key: r.Key}
			for m, v := range r.Values {
				env.Max[m] = Extreme{Value: v, Combination: r.Combination}
				env.Min[m] = Extreme{Value: v, Combination: r.Combination}
			}
			index[r.Key] = len(out)
			out = append(out, env)
			continue
		}

		env := &out[i]
		for m, v := range r.Values {
			if v > env.Max[m].Value {
				env.Max[m] = Extreme{Value: v, Combination: r.Combination}
			}
			if v < env.Min[m].Value {
				env.Min[m] = Extreme{Value: v, Combination: r.Combination}
			}
		}
	}
	return out
}

// Governing returns the extreme with the largest magnitude for metric m.
func (e EnvelopeRow) Governing(m int) Extreme {
	hi, lo := e.Max[m], e.Min[m]
	if -lo.Value > hi.Value {
		return lo
	}
	return hi
}
