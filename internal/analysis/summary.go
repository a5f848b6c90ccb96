package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize computes ratio statistics for one normalized dataset. Every
// statistic is NaN for an empty dataset.
func Summarize(ds NormalizedDataset) StructureSummary {
	s := StructureSummary{
		Structure: ds.Structure,
		Count:     len(ds.Points),
		Min:       math.NaN(),
		Max:       math.NaN(),
		Mean:      math.NaN(),
		GeoMean:   math.NaN(),
	}
	if s.Count == 0 {
		return s
	}

	ratios := ds.Ratios()
	s.Min = floats.Min(ratios)
	s.Max = floats.Max(ratios)
	s.Mean = stat.Mean(ratios, nil)
	// The geometric mean is only defined for strictly positive ratios.
	if s.Min > 0 {
		s.GeoMean = stat.GeometricMean(ratios, nil)
	}
	return s
}

// SummarizePhase summarizes every dataset of a phase and ranks them by
// geometric mean, ascending. Structures without a geometric mean sort last.
func SummarizePhase(res *PhaseResult) *PhaseSummary {
	summary := NewPhaseSummary(res.Phase.Name)
	for _, ds := range res.Datasets {
		summary.Structures = append(summary.Structures, Summarize(ds))
	}

	sort.SliceStable(summary.Structures, func(i, j int) bool {
		a, b := summary.Structures[i].GeoMean, summary.Structures[j].GeoMean
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a < b
	})
	return summary
}
