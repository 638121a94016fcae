package combo

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/golc/internal/schema"
)

// ShearAmplification scales the lateral (EX, EY) terms of shear-like metrics.
const ShearAmplification = 2.5

// Rule is a factored load combination
// Load factors for each load case; a zero factor drops the case.
type Rule struct {
	Name string
	Dead float64 // Dead load
	SDL  float64 // Superimposed dead load
	Live float64 // Live load
	EX   float64 // Lateral load, X direction
	EY   float64 // Lateral load, Y direction
}

// Strength design combinations U01-U09
var rules = [...]Rule{
	{Name: "U01", Dead: 1.4, SDL: 1.4, Live: 1.7},
	{Name: "U02", Dead: 1.05, SDL: 1.05, Live: 1.275, EX: 1},
	{Name: "U03", Dead: 1.05, SDL: 1.05, Live: 1.275, EX: -1},
	{Name: "U04", Dead: 1.05, SDL: 1.05, Live: 1.275, EY: 1},
	{Name: "U05", Dead: 1.05, SDL: 1.05, Live: 1.275, EY: -1},
	{Name: "U06", Dead: 0.9, SDL: 0.9, EX: 1},
	{Name: "U07", Dead: 0.9, SDL: 0.9, EX: -1},
	{Name: "U08", Dead: 0.9, SDL: 0.9, EY: 1},
	{Name: "U09", Dead: 0.9, SDL: 0.9, EY: -1},
}

// NumRules is the number of combinations produced per entity.
const NumRules = len(rules)

// Rules returns a copy of the combination table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, NumRules)
	copy(out, rules[:])
	return out
}

// RuleByName looks up a combination by its label (e.g. "U04").
func RuleByName(name string) (Rule, bool) {
	for _, r := range rules {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return Rule{}, false
}

// Coefficient returns the load factor applied to case c.
func (r Rule) Coefficient(c schema.Case) float64 {
	switch c {
	case schema.Dead:
		return r.Dead
	case schema.SDL:
		return r.SDL
	case schema.Live:
		return r.Live
	case schema.EX:
		return r.EX
	case schema.EY:
		return r.EY
	}
	return 0
}

// Effective returns the factor for case c on a metric, amplifying lateral
// cases when the metric is shear-like.
func (r Rule) Effective(c schema.Case, shear bool) float64 {
	f := r.Coefficient(c)
	if shear && c.IsLateral() {
		f *= ShearAmplification
	}
	return f
}

// Apply combines the per-case values of a single metric.
func (r Rule) Apply(values [schema.NumCases]float64, shear bool) float64 {
	var sum float64
	for _, c := range schema.Cases {
		sum += r.Effective(c, shear) * values[c]
	}
	return sum
}

// Formula renders the rule as a label, e.g. "U02: +1.05Dead+1.05SDL+1.275Live+1EX".
func (r Rule) Formula() string {
	var sb strings.Builder
	sb.WriteString(r.Name)
	sb.WriteString(": ")
	for _, c := range schema.Cases {
		f := r.Coefficient(c)
		if f == 0 {
			continue
		}
		if f > 0 {
			sb.WriteByte('+')
		}
		sb.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
		sb.WriteString(c.String())
	}
	return sb.String()
}

// coefficientMatrix builds the NumRules x NumCases factor matrix. With shear
// set, lateral columns carry the amplification.
func coefficientMatrix(shear bool) *mat.Dense {
	data := make([]float64, 0, NumRules*schema.NumCases)
	for _, r := range rules {
		for _, c := range schema.Cases {
			data = append(data, r.Effective(c, shear))
		}
	}
	return mat.NewDense(NumRules, schema.NumCases, data)
}
