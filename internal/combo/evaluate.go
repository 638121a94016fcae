package combo

import (
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/golc/internal/schema"
)

// Precision is the number of decimal places kept in result rows.
const Precision = 4

// ResultRow is one entity under one combination.
type ResultRow struct {
	Key         Key
	Combination string
	Values      Metrics
}

// Evaluate applies every combination rule to every row of the table. Rows
// are emitted rule by rule (all U01 rows, then all U02 rows, ...) with
// entities in table order. Values are rounded to Precision decimals.
func Evaluate(t *WideTable) []ResultRow {
	n := len(t.Rows)
	out := make([]ResultRow, NumRules*n)
	if n == 0 {
		return out
	}

	plain := coefficientMatrix(false)
	amplified := coefficientMatrix(true)

	block := mat.NewDense(schema.NumCases, schema.NumMetrics, nil)
	var direct, shear mat.Dense
	for k, row := range t.Rows {
		for _, c := range schema.Cases {
			block.SetRow(int(c), row.Cases[c][:])
		}
		direct.Mul(plain, block)
		shear.Mul(amplified, block)

		for i, r := range rules {
			res := ResultRow{Key: row.Key, Combination: r.Name}
			for m := 0; m < schema.NumMetrics; m++ {
				v := direct.At(i, m)
				if t.Schema.IsShear(m) {
					v = shear.At(i, m)
				}
				res.Values[m] = round(v)
			}
			out[i*n+k] = res
		}
	}
	return out
}

// Combine reshapes records and evaluates them in one step.
func Combine(records []Record, sc schema.Schema, opts ReshapeOptions) ([]ResultRow, error) {
	t, err := Reshape(records, sc, opts)
	if err != nil {
		return nil, err
	}
	return Evaluate(t), nil
}

func round(v float64) float64 {
	v = scalar.RoundEven(v, Precision)
	if v == 0 {
		// drop negative zero
		return 0
	}
	return v
}
