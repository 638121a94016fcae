package combo

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/golc/internal/schema"
)

var columnSchema = schema.MustFor(schema.ModeColumn)

func columnKey(story, column, unique, station string) Key {
	return Key{Group: story, SubGroup: column, Identifier: unique, Position: station}
}

func rec(k Key, c string, values ...float64) Record {
	r := Record{Key: k, Case: c}
	copy(r.Values[:], values)
	return r
}

// sampleRecords is one column with a full set of cases.
func sampleRecords() []Record {
	k := columnKey("B1", "C1", "U1", "0")
	return []Record{
		rec(k, "Dead", 100, 4, 2, 0.5, 10, 20),
		rec(k, "SDL", 20, 1, 0.5, 0, 2, 4),
		rec(k, "Live", 50, 2, 1, 0.25, 5, 8),
		rec(k, "EX", 10, 3, 0, 0, 0, 12),
		rec(k, "EY", 0, 0, 6, 0, 7, 0),
	}
}

func find(t *testing.T, rows []ResultRow, key Key, combination string) ResultRow {
	t.Helper()
	for _, r := range rows {
		if r.Key == key && r.Combination == combination {
			return r
		}
	}
	t.Fatalf("no row for %+v %s", key, combination)
	return ResultRow{}
}

func TestCombineEndToEnd(t *testing.T) {
	rows, err := Combine(sampleRecords(), columnSchema, ReshapeOptions{})
	require.NoError(t, err)
	require.Len(t, rows, NumRules)

	k := columnKey("B1", "C1", "U1", "0")
	assert.Equal(t, 253.0, find(t, rows, k, "U01").Values[0])
	assert.Equal(t, 199.75, find(t, rows, k, "U02").Values[0])
	assert.Equal(t, 179.75, find(t, rows, k, "U03").Values[0])
}

func TestRowsAreRuleMajor(t *testing.T) {
	k2 := columnKey("B1", "C2", "U2", "0")
	records := append(sampleRecords(), rec(k2, "Dead", 1))

	rows, err := Combine(records, columnSchema, ReshapeOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2*NumRules)

	for i, r := range Rules() {
		assert.Equal(t, r.Name, rows[2*i].Combination)
		assert.Equal(t, "C1", rows[2*i].Key.SubGroup)
		assert.Equal(t, r.Name, rows[2*i+1].Combination)
		assert.Equal(t, "C2", rows[2*i+1].Key.SubGroup)
	}
}

func TestShearAmplification(t *testing.T) {
	k := columnKey("B1", "C1", "U1", "0")
	records := []Record{
		rec(k, "Dead", 100, 8),
		rec(k, "SDL", 20, 4),
		rec(k, "EX", 10, 10),
	}

	rows, err := Combine(records, columnSchema, ReshapeOptions{})
	require.NoError(t, err)

	u06 := find(t, rows, k, "U06")
	assert.InDelta(t, 0.9*8+0.9*4+2.5*10, u06.Values[1], 1e-9, "V2 amplified")
	assert.InDelta(t, 0.9*100+0.9*20+1*10, u06.Values[0], 1e-9, "P not amplified")

	u07 := find(t, rows, k, "U07")
	assert.InDelta(t, 0.9*8+0.9*4-2.5*10, u07.Values[1], 1e-9)
}

func TestShearAmplificationReaction(t *testing.T) {
	sc := schema.MustFor(schema.ModeReaction)
	k := Key{Group: "Base", Identifier: "J1"}
	records := []Record{
		rec(k, "Dead", 1, 1, 1, 1, 1, 1),
		rec(k, "EY", 2, 2, 2, 2, 2, 2),
	}

	rows, err := Combine(records, sc, ReshapeOptions{})
	require.NoError(t, err)

	u08 := find(t, rows, k, "U08")
	assert.Equal(t, Metrics{5.9, 5.9, 2.9, 2.9, 2.9, 2.9}, u08.Values)
}

func TestZeroFillMissingCase(t *testing.T) {
	k := columnKey("B1", "C1", "U1", "0")
	records := []Record{
		rec(k, "Dead", 100, 4, 2, 0.5, 10, 20),
		rec(k, "SDL", 20, 1, 0.5, 0, 2, 4),
		rec(k, "Live", 50, 2, 1, 0.25, 5, 8),
		rec(k, "EX", 10, 3, 0, 0, 0, 12),
	}

	table, err := Reshape(records, columnSchema, ReshapeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []schema.Case{schema.EY}, table.MissingCases())
	assert.Len(t, table.Columns(), schema.NumMetrics*schema.NumCases)
	assert.Contains(t, table.Columns(), "V3_EY")

	rows := Evaluate(table)
	u04 := find(t, rows, k, "U04")
	u05 := find(t, rows, k, "U05")
	assert.Equal(t, u04.Values, u05.Values)

	row := table.Rows[0]
	for m := 0; m < schema.NumMetrics; m++ {
		gravity := 1.05*row.Value(schema.Dead, m) + 1.05*row.Value(schema.SDL, m) + 1.275*row.Value(schema.Live, m)
		assert.InDelta(t, gravity, u04.Values[m], 1e-4)
	}
}

func TestRequireCases(t *testing.T) {
	k := columnKey("B1", "C1", "U1", "0")
	records := []Record{rec(k, "Dead", 1), rec(k, "Live", 1)}

	_, err := Reshape(records, columnSchema, ReshapeOptions{RequireCases: true})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "SDL, EX, EY")

	_, err = Reshape(sampleRecords(), columnSchema, ReshapeOptions{RequireCases: true})
	assert.NoError(t, err)
}

func TestUnknownCasesIgnored(t *testing.T) {
	k := columnKey("B1", "C1", "U1", "0")
	records := append(sampleRecords(), rec(k, "Wind", 1000, 1000))

	table, err := Reshape(records, columnSchema, ReshapeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, table.Ignored)

	base, err := Combine(sampleRecords(), columnSchema, ReshapeOptions{})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(base, Evaluate(table)))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 123.4568, round(123.456789))
	assert.Equal(t, -2.5, round(-2.50004))
	assert.Equal(t, 0.0, round(-0.00001))

	k := columnKey("B1", "C1", "U1", "0")
	rows, err := Combine([]Record{rec(k, "Dead", 123.456789/1.4)}, columnSchema, ReshapeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 123.4568, find(t, rows, k, "U01").Values[0])
}

func TestCompleteness(t *testing.T) {
	var records []Record
	want := map[Key]bool{}
	for _, story := range []string{"L1", "L2", "B1"} {
		for _, station := range []string{"0", "1.5", "3"} {
			k := columnKey(story, "C1", "U"+story, station)
			want[k] = true
			records = append(records, rec(k, "Dead", 1), rec(k, "EX", 2))
		}
	}

	rows, err := Combine(records, columnSchema, ReshapeOptions{})
	require.NoError(t, err)
	require.Len(t, rows, len(want)*NumRules)

	perKey := map[Key]int{}
	for _, r := range rows {
		perKey[r.Key]++
	}
	assert.Len(t, perKey, len(want))
	for k := range want {
		assert.Equal(t, NumRules, perKey[k], "rows for %+v", k)
	}
}

func TestIdempotent(t *testing.T) {
	records := append(sampleRecords(),
		rec(columnKey("L2", "C3", "U9", "2.5"), "Live", 3, 1),
		rec(columnKey("L1", "C3", "U8", "10"), "EY", 7, 2),
		rec(columnKey("L1", "C3", "U8", "2"), "EY", 7, 2),
	)
	first, err := Combine(records, columnSchema, ReshapeOptions{})
	require.NoError(t, err)
	second, err := Combine(records, columnSchema, ReshapeOptions{})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(first, second))
}

func TestKeyOrdering(t *testing.T) {
	records := []Record{
		rec(columnKey("L1", "C1", "U1", "10"), "Dead", 1),
		rec(columnKey("L1", "C1", "U1", "2"), "Dead", 1),
		rec(columnKey("B1", "C1", "U2", "0"), "Dead", 1),
	}
	table, err := Reshape(records, columnSchema, ReshapeOptions{})
	require.NoError(t, err)

	var got []string
	for _, r := range table.Rows {
		got = append(got, r.Key.Group+"/"+r.Key.Position)
	}
	assert.Equal(t, []string{"B1/0", "L1/2", "L1/10"}, got)
}

func TestMissingKeyField(t *testing.T) {
	records := []Record{rec(columnKey("B1", "C1", "U1", ""), "Dead", 1)}

	_, err := Reshape(records, columnSchema, ReshapeOptions{})
	var serr *SchemaError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "Station", serr.Field)
}

func TestKeyProjection(t *testing.T) {
	wall := schema.MustFor(schema.ModeWall)
	records := []Record{
		rec(Key{Group: "L1", SubGroup: "P1", Identifier: "x", Position: "Top"}, "Dead", 1),
		rec(Key{Group: "L1", SubGroup: "P1", Identifier: "y", Position: "Top"}, "Live", 1),
	}
	table, err := Reshape(records, wall, ReshapeOptions{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, Key{Group: "L1", SubGroup: "P1", Position: "Top"}, table.Rows[0].Key)
}

func TestDuplicatePolicies(t *testing.T) {
	k := columnKey("B1", "C1", "U1", "0")
	records := []Record{rec(k, "Dead", 10, 2), rec(k, "Dead", 30, 4)}

	tests := []struct {
		policy DuplicatePolicy
		want   Metrics
	}{
		{"", Metrics{20, 3}},
		{DuplicatesMean, Metrics{20, 3}},
		{DuplicatesLast, Metrics{30, 4}},
		{DuplicatesSum, Metrics{40, 6}},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			table, err := Reshape(records, columnSchema, ReshapeOptions{Duplicates: tt.policy})
			require.NoError(t, err)
			require.Len(t, table.Rows, 1)
			assert.Equal(t, tt.want, table.Rows[0].Cases[schema.Dead])
		})
	}

	t.Run("reject", func(t *testing.T) {
		_, err := Reshape(records, columnSchema, ReshapeOptions{Duplicates: DuplicatesReject})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, err.Error(), "duplicate Dead records")
	})
}

func TestDuplicateMeanSkipsBlanks(t *testing.T) {
	k := columnKey("B1", "C1", "U1", "0")
	blank := rec(k, "Dead", 0, 8)
	blank.Blank[0] = true
	records := []Record{rec(k, "Dead", 10, 2), blank}

	table, err := Reshape(records, columnSchema, ReshapeOptions{})
	require.NoError(t, err)
	assert.Equal(t, Metrics{10, 5}, table.Rows[0].Cases[schema.Dead])

	// a metric blank in every row reads as 0
	only := rec(k, "SDL")
	only.Blank = [schema.NumMetrics]bool{true, true, true, true, true, true}
	table, err = Reshape([]Record{only}, columnSchema, ReshapeOptions{})
	require.NoError(t, err)
	assert.Equal(t, Metrics{}, table.Rows[0].Cases[schema.SDL])

	table, err = Reshape(records, columnSchema, ReshapeOptions{Duplicates: DuplicatesSum})
	require.NoError(t, err)
	assert.Equal(t, Metrics{10, 10}, table.Rows[0].Cases[schema.Dead])
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := ParseDuplicatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DuplicatesMean, p)

	p, err = ParseDuplicatePolicy(" Reject ")
	require.NoError(t, err)
	assert.Equal(t, DuplicatesReject, p)

	_, err = ParseDuplicatePolicy("first")
	assert.Error(t, err)
}

func TestGroupOverride(t *testing.T) {
	rows, err := Combine(sampleRecords(), columnSchema, ReshapeOptions{GroupOverride: "Underground"})
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, "Underground", r.Key.Group)
	}
}

func TestEmptyInput(t *testing.T) {
	rows, err := Combine(nil, columnSchema, ReshapeOptions{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
