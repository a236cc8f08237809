package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidnet/nmanet/pkg/outcome"
	"github.com/evidnet/nmanet/pkg/table"
	"github.com/evidnet/nmanet/pkg/validation"
)

func TestNewArmNetwork_CountOutcome(t *testing.T) {
	n, err := NewArmNetwork(countTable(t), countBindings)
	require.NoError(t, err)

	// Both treatments are equally connected with equal arm counts, so the
	// natural-sort tie-break makes A the default reference
	assert.Equal(t, []string{"A", "B"}, n.Treatments())
	assert.Equal(t, "A", n.Reference())
	assert.True(t, n.HasDefaultReference())
	assert.Equal(t, []string{"S1", "S2"}, n.Studies())
	assert.Equal(t, outcome.Count, n.Outcomes().Arm)
	assert.Equal(t, outcome.NoMeasure, n.Outcomes().Individual)
	assert.Equal(t, outcome.NoMeasure, n.Outcomes().Contrast)

	// The count denominator doubles as the sample size
	assert.Equal(t, []float64{20, 22, 15, 14}, floatValues(t, n.ArmData(), ColSampleSize))
	assert.Equal(t, []float64{20, 22, 15, 14}, floatValues(t, n.ArmData(), ColN))
}

func TestNewArmNetwork_ExplicitReference(t *testing.T) {
	tbl := mustTable(t,
		table.Strings("study", []string{"S1", "S1", "S2", "S2"}),
		table.Strings("trt", []string{"A", "B", "A", "C"}),
		table.Floats("y", []float64{1.1, 2.2, 0.9, 1.4}),
		table.Floats("se", []float64{0.1, 0.2, 0.1, 0.3}),
	)
	n, err := NewArmNetwork(tbl, Bindings{Study: "study", Treatment: "trt", Y: "y", SE: "se"},
		WithTrtRef("B"))
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A", "C"}, n.Treatments())
	assert.False(t, n.HasDefaultReference())
	assert.Equal(t, outcome.Continuous, n.Outcomes().Arm)
}

func TestNewArmNetwork_UnknownReference(t *testing.T) {
	_, err := NewArmNetwork(countTable(t), countBindings, WithTrtRef("Z"))
	require.Error(t, err)

	kind, ok := validation.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, validation.StructuralInconsistency, kind)
	assert.Contains(t, err.Error(), `"A"`)
	assert.Contains(t, err.Error(), `"B"`)
}

func TestNewArmNetwork_ZeroRows(t *testing.T) {
	tbl := mustTable(t,
		table.Strings("studyc", nil),
		table.Strings("trtc", nil),
		table.Ints("events", nil),
		table.Ints("total", nil),
	)
	n, err := NewArmNetwork(tbl, countBindings)
	require.NoError(t, err)
	assert.True(t, n.IsEmpty())
	assert.Nil(t, n.ArmData())
}

func TestNewArmNetwork_CountBoundaries(t *testing.T) {
	build := func(r, n int64) error {
		tbl := mustTable(t,
			table.Strings("s", []string{"S1", "S1"}),
			table.Strings("t", []string{"A", "B"}),
			table.Ints("r", []int64{r, 1}),
			table.Ints("n", []int64{n, 10}),
		)
		_, err := NewArmNetwork(tbl, Bindings{Study: "s", Treatment: "t", R: "r", N: "n"})
		return err
	}

	assert.NoError(t, build(20, 20), "r = n is all events, valid")
	assert.NoError(t, build(0, 20), "r = 0 is no events, valid")

	for name, args := range map[string][2]int64{
		"r exceeds n": {21, 20},
		"negative r":  {-1, 20},
	} {
		err := build(args[0], args[1])
		require.Error(t, err, name)
		kind, ok := validation.KindOf(err)
		require.True(t, ok, name)
		assert.Equal(t, validation.InvalidValue, kind, name)
	}
}

func TestNewArmNetwork_SampleSizeBoundaries(t *testing.T) {
	build := func(ss *table.Column) error {
		tbl := mustTable(t,
			table.Strings("s", []string{"S1", "S1"}),
			table.Strings("t", []string{"A", "B"}),
			table.Floats("y", []float64{1, 2}),
			table.Floats("se", []float64{0.5, 0.5}),
			ss,
		)
		_, err := NewArmNetwork(tbl, Bindings{Study: "s", Treatment: "t", Y: "y", SE: "se", SampleSize: "ss"})
		return err
	}

	assert.NoError(t, build(table.Ints("ss", []int64{1, 10})), "sample size 1 is valid")
	assert.Error(t, build(table.Ints("ss", []int64{0, 10})), "sample size 0 is rejected")
	assert.Error(t, build(table.Floats("ss", []float64{2.5, 10})), "non-integer sample size is rejected")
}

func TestNewArmNetwork_SampleSizeAdvisory(t *testing.T) {
	log := &captureLogger{}
	tbl := mustTable(t,
		table.Strings("s", []string{"S1", "S1"}),
		table.Strings("t", []string{"A", "B"}),
		table.Floats("y", []float64{1, 2}),
		table.Floats("se", []float64{0.5, 0.5}),
	)
	n, err := NewArmNetwork(tbl, Bindings{Study: "s", Treatment: "t", Y: "y", SE: "se"},
		WithLogger(log))
	require.NoError(t, err)
	assert.False(t, n.IsEmpty())
	require.Len(t, log.warnings, 1, "missing sample size is an advisory, not an error")

	_, hasSS := n.ArmData().Column(ColSampleSize)
	assert.False(t, hasSS)
}

func TestNewArmNetwork_BinaryEventsNeedDenominator(t *testing.T) {
	tbl := mustTable(t,
		table.Strings("s", []string{"S1", "S1"}),
		table.Strings("t", []string{"A", "B"}),
		table.Ints("r", []int64{1, 0}),
	)
	_, err := NewArmNetwork(tbl, Bindings{Study: "s", Treatment: "t", R: "r"})
	require.Error(t, err)
	kind, _ := validation.KindOf(err)
	assert.Equal(t, validation.MissingInput, kind)
}

func TestNewArmNetwork_AmbiguousCountRate(t *testing.T) {
	tbl := mustTable(t,
		table.Strings("s", []string{"S1", "S1"}),
		table.Strings("t", []string{"A", "B"}),
		table.Ints("r", []int64{1, 0}),
		table.Ints("n", []int64{10, 10}),
		table.Floats("E", []float64{3.5, 4.5}),
	)
	_, err := NewArmNetwork(tbl, Bindings{Study: "s", Treatment: "t", R: "r", N: "n", E: "E"})
	require.Error(t, err)
	kind, _ := validation.KindOf(err)
	assert.Equal(t, validation.AmbiguousOutcome, kind)
}

func TestNewArmNetwork_MissingBindings(t *testing.T) {
	_, err := NewArmNetwork(countTable(t), Bindings{Treatment: "trtc", R: "events", N: "total"})
	require.Error(t, err)
	kind, _ := validation.KindOf(err)
	assert.Equal(t, validation.MissingInput, kind)

	_, err = NewArmNetwork(countTable(t), Bindings{Study: "studyc", Treatment: "nope", R: "events", N: "total"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestNewArmNetwork_MissingStudyValue(t *testing.T) {
	tbl := mustTable(t,
		table.Strings("s", []string{"S1", "S1"}).WithMissing(1),
		table.Strings("t", []string{"A", "B"}),
		table.Floats("y", []float64{1, 2}),
		table.Floats("se", []float64{0.5, 0.5}),
	)
	_, err := NewArmNetwork(tbl, Bindings{Study: "s", Treatment: "t", Y: "y", SE: "se"})
	require.Error(t, err)
	kind, _ := validation.KindOf(err)
	assert.Equal(t, validation.InvalidValue, kind)
}

func TestNewArmNetwork_CovariatesCarriedThrough(t *testing.T) {
	tbl := mustTable(t,
		table.Strings("studyc", []string{"S1", "S1"}),
		table.Strings("trtc", []string{"A", "B"}),
		table.Ints("events", []int64{5, 8}),
		table.Ints("total", []int64{20, 22}),
		table.Floats("mean_age", []float64{61.2, 59.8}),
	)
	n, err := NewArmNetwork(tbl, countBindings)
	require.NoError(t, err)
	assert.Equal(t, []float64{61.2, 59.8}, floatValues(t, n.ArmData(), "mean_age"))
}
