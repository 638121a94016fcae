package combo

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/alexiusacademia/golc/internal/schema"
)

// DefaultFactorDecimals is the number of fractional digits accepted in a
// factor string unless configured otherwise.
const DefaultFactorDecimals = 2

// Factors maps a load case to a non-negative scale factor.
type Factors map[schema.Case]float64

var defaultFactorPattern = compileFactorPattern(DefaultFactorDecimals)

func compileFactorPattern(decimals int) *regexp.Regexp {
	if decimals <= 0 {
		return regexp.MustCompile(`^\d+$`)
	}
	return regexp.MustCompile(fmt.Sprintf(`^\d+(\.\d{1,%d})?$`, decimals))
}

func factorPattern(decimals int) *regexp.Regexp {
	if decimals == DefaultFactorDecimals {
		return defaultFactorPattern
	}
	return compileFactorPattern(decimals)
}

// ParseFactor validates and converts a factor string. It accepts plain
// non-negative decimals with at most decimals fractional digits; anything
// else (signs, exponents, extra precision) is rejected rather than coerced.
func ParseFactor(s string, decimals int) (float64, error) {
	return parseFactor(factorPattern(decimals), s, decimals)
}

func parseFactor(re *regexp.Regexp, s string, decimals int) (float64, error) {
	s = strings.TrimSpace(s)
	if !re.MatchString(s) {
		return 0, Invalidf("invalid factor %q: expected a non-negative number with at most %d decimal places", s, decimals)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, Invalidf("invalid factor %q: %v", s, err)
	}
	return f, nil
}

// ParseFactorMap converts case name -> factor string pairs. Names are
// checked in sorted order and values in case order, so the first error
// reported is the same on every run.
func ParseFactorMap(raw map[string]string, decimals int) (Factors, error) {
	var values [schema.NumCases]string
	var given [schema.NumCases]bool
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		c, ok := schema.ParseCase(name)
		if !ok {
			return nil, Invalidf("unknown load case %q in factors", name)
		}
		if given[c] {
			return nil, Invalidf("factor for %s given more than once", c)
		}
		values[c], given[c] = raw[name], true
	}

	re := factorPattern(decimals)
	out := make(Factors, len(raw))
	for _, c := range schema.Cases {
		if !given[c] {
			continue
		}
		f, err := parseFactor(re, values[c], decimals)
		if err != nil {
			return nil, fmt.Errorf("factor for %s: %w", c, err)
		}
		out[c] = f
	}
	return out, nil
}

// ParseFactorAssignments parses "Case=value" pairs as given on the command
// line. Each case may appear once.
func ParseFactorAssignments(pairs []string, decimals int) (Factors, error) {
	raw := make(map[string]string, len(pairs))
	var given [schema.NumCases]bool
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, Invalidf("invalid factor %q: expected Case=value", p)
		}
		name = strings.TrimSpace(name)
		if c, ok := schema.ParseCase(name); ok {
			if given[c] {
				return nil, Invalidf("factor for %s given more than once", c)
			}
			given[c] = true
		}
		raw[name] = value
	}
	return ParseFactorMap(raw, decimals)
}

// String renders the factors in case order, e.g. "Dead=0.5 Live=1".
func (f Factors) String() string {
	cases := slices.Sorted(maps.Keys(f))
	parts := make([]string, len(cases))
	for i, c := range cases {
		parts[i] = c.String() + "=" + strconv.FormatFloat(f[c], 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}

func (f Factors) validate(gravityOnly bool) error {
	for c, v := range f {
		if v < 0 {
			return Invalidf("factor for %s must not be negative", c)
		}
		if gravityOnly && !c.IsGravity() {
			return Invalidf("factor for %s not allowed: only Dead, SDL and Live can be scaled", c)
		}
	}
	return nil
}
