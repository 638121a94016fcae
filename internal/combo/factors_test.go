package combo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/golc/internal/schema"
)

func TestParseFactor(t *testing.T) {
	tests := []struct {
		in       string
		decimals int
		want     float64
		wantErr  bool
	}{
		{"1", 2, 1, false},
		{"0", 2, 0, false},
		{"0.5", 2, 0.5, false},
		{" 1.25 ", 2, 1.25, false},
		{"12.75", 2, 12.75, false},
		{"1.255", 2, 0, true},
		{"1.255", 4, 1.255, false},
		{"-1", 2, 0, true},
		{"+1", 2, 0, true},
		{"1e2", 2, 0, true},
		{".5", 2, 0, true},
		{"1.", 2, 0, true},
		{"", 2, 0, true},
		{"abc", 2, 0, true},
		{"2", 0, 2, false},
		{"2.5", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFactor(tt.in, tt.decimals)
			if tt.wantErr {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFactorMap(t *testing.T) {
	f, err := ParseFactorMap(map[string]string{"Dead": "1.2", "Live": "0.5"}, DefaultFactorDecimals)
	require.NoError(t, err)
	assert.Equal(t, Factors{schema.Dead: 1.2, schema.Live: 0.5}, f)
	assert.Equal(t, "Dead=1.2 Live=0.5", f.String())

	_, err = ParseFactorMap(map[string]string{"Wind": "1"}, DefaultFactorDecimals)
	assert.Error(t, err)

	_, err = ParseFactorMap(map[string]string{"SDL": "1.234"}, DefaultFactorDecimals)
	assert.Error(t, err)
}

func TestParseFactorAssignments(t *testing.T) {
	f, err := ParseFactorAssignments([]string{"Dead=1.1", " EX = 2"}, DefaultFactorDecimals)
	require.NoError(t, err)
	assert.Equal(t, Factors{schema.Dead: 1.1, schema.EX: 2}, f)

	_, err = ParseFactorAssignments([]string{"Dead"}, DefaultFactorDecimals)
	assert.Error(t, err)
}

func TestParseFactorMapReportsSameError(t *testing.T) {
	raw := map[string]string{"Live": "x", "Dead": "-1", "SDL": "1.234", "EX": "1"}
	_, first := ParseFactorMap(raw, DefaultFactorDecimals)
	require.Error(t, first)
	assert.Contains(t, first.Error(), "Dead")
	for range 20 {
		_, err := ParseFactorMap(raw, DefaultFactorDecimals)
		assert.EqualError(t, err, first.Error())
	}

	raw["Wind"] = "1"
	_, err := ParseFactorMap(raw, DefaultFactorDecimals)
	assert.ErrorContains(t, err, `"Wind"`)

	_, err = ParseFactorMap(map[string]string{"Dead": "1", " Dead ": "2"}, DefaultFactorDecimals)
	assert.ErrorContains(t, err, "more than once")
}

func TestParseFactorAssignmentsRepeatedCase(t *testing.T) {
	_, err := ParseFactorAssignments([]string{"Dead=1", "Live=0.5", "Dead=2"}, DefaultFactorDecimals)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "Dead given more than once")
}

func TestFactorPatternPerDecimals(t *testing.T) {
	assert.Same(t, factorPattern(DefaultFactorDecimals), factorPattern(DefaultFactorDecimals))

	f, err := ParseFactorMap(map[string]string{"Dead": "1.125", "Live": "2"}, 3)
	require.NoError(t, err)
	assert.Equal(t, Factors{schema.Dead: 1.125, schema.Live: 2}, f)
}
