package schema

import "strings"

// Case is one of the named load cases combined by the engine.
type Case int

const (
	Dead Case = iota // D - self weight
	SDL              // superimposed dead load
	Live             // L - live load
	EX               // lateral load in X
	EY               // lateral load in Y
)

// NumCases is the size of the load case vocabulary.
const NumCases = 5

var caseNames = [NumCases]string{"Dead", "SDL", "Live", "EX", "EY"}

// Cases lists the vocabulary in column order.
var Cases = [NumCases]Case{Dead, SDL, Live, EX, EY}

func (c Case) String() string {
	if c < 0 || int(c) >= NumCases {
		return "unknown"
	}
	return caseNames[c]
}

// ParseCase matches a case name exactly after trimming whitespace.
func ParseCase(name string) (Case, bool) {
	name = strings.TrimSpace(name)
	for i, n := range caseNames {
		if n == name {
			return Case(i), true
		}
	}
	return -1, false
}

// IsGravity reports whether the case is Dead, SDL or Live.
func (c Case) IsGravity() bool {
	return c == Dead || c == SDL || c == Live
}

// IsLateral reports whether the case is EX or EY.
func (c Case) IsLateral() bool {
	return c == EX || c == EY
}
