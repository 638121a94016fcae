package combo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	rows, err := Combine(sampleRecords(), columnSchema, ReshapeOptions{})
	require.NoError(t, err)

	env := Envelope(rows)
	require.Len(t, env, 1)

	// P: U01 = 253, U07 = 0.9*120 - 10 = 98
	assert.Equal(t, Extreme{Value: 253, Combination: "U01"}, env[0].Max[0])
	assert.Equal(t, Extreme{Value: 98, Combination: "U07"}, env[0].Min[0])
	assert.Equal(t, "U01", env[0].Governing(0).Combination)

	// V2: U07 = 0.9*5 - 2.5*3 = -3 is smaller than any positive combination
	assert.Equal(t, "U07", env[0].Min[1].Combination)
	assert.InDelta(t, -3.0, env[0].Min[1].Value, 1e-9)
}

func TestEnvelopeTiesKeepEarlier(t *testing.T) {
	k := columnKey("B1", "C1", "U1", "0")
	rows, err := Combine([]Record{rec(k, "Dead", 0)}, columnSchema, ReshapeOptions{})
	require.NoError(t, err)

	env := Envelope(rows)
	require.Len(t, env, 1)
	assert.Equal(t, "U01", env[0].Max[0].Combination)
	assert.Equal(t, "U01", env[0].Min[0].Combination)
}

func TestJoinCoordinates(t *testing.T) {
	rows := []ResultRow{
		{Key: Key{Group: "Base", Identifier: "J1"}, Combination: "U01"},
		{Key: Key{Group: "Base", Identifier: "J2"}, Combination: "U01"},
	}
	located := JoinCoordinates(rows, map[string]Coordinate{"J1": {X: 1, Y: 2, Z: 0}})
	require.Len(t, located, 2)
	require.NotNil(t, located[0].Coord)
	assert.Equal(t, Coordinate{X: 1, Y: 2, Z: 0}, *located[0].Coord)
	assert.Nil(t, located[1].Coord)
	assert.Equal(t, rows[1], located[1].ResultRow)
}
