package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataset(name string, ratios ...float64) NormalizedDataset {
	ds := NormalizedDataset{Structure: name}
	for i, r := range ratios {
		ds.Points = append(ds.Points, Point{Key: string(rune('a' + i)), Ratio: r})
	}
	return ds
}

func TestSummarize(t *testing.T) {
	s := Summarize(dataset("treap", 0.5, 2, 1))

	assert.Equal(t, "treap", s.Structure)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 0.5, s.Min)
	assert.Equal(t, 2.0, s.Max)
	assert.InDelta(t, 7.0/6.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.0, s.GeoMean, 1e-12)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(dataset("empty"))
	assert.Equal(t, 0, s.Count)
	assert.True(t, math.IsNaN(s.Mean))
	assert.True(t, math.IsNaN(s.GeoMean))
}

func TestSummarize_NonPositiveRatio(t *testing.T) {
	s := Summarize(dataset("odd", 0, 2))
	assert.Equal(t, 1.0, s.Mean)
	assert.True(t, math.IsNaN(s.GeoMean))
}

func TestSummarizePhase_Ranking(t *testing.T) {
	res := NewPhaseResult(Phase{Name: "find"})
	res.Datasets = append(res.Datasets,
		dataset("slow", 3, 3),
		dataset("broken", 0, 1),
		dataset("fast", 0.5, 0.5),
		dataset("baseline", 1, 1),
	)

	summary := SummarizePhase(res)
	assert.Equal(t, "find", summary.Phase)
	require.Len(t, summary.Structures, 4)

	var order []string
	for _, s := range summary.Structures {
		order = append(order, s.Structure)
	}
	assert.Equal(t, []string{"fast", "baseline", "slow", "broken"}, order)
}

func TestPointSize(t *testing.T) {
	v, ok := Point{Key: "25000"}.Size()
	assert.True(t, ok)
	assert.Equal(t, 25000.0, v)

	_, ok = Point{Key: "n/a"}.Size()
	assert.False(t, ok)
}
