package analysis

import (
	"math"
	"strconv"
)

// Role selects which file of a structure DatasetPath names.
type Role int

const (
	RoleInput      Role = iota // "{name}{suffix}.dat"
	RoleNormalized             // "{name}{suffix}-norm.dat"
)

// BaselineMap maps a data-size key to the raw baseline measurement.
type BaselineMap map[string]string

// Phase is one normalization pass: every structure's dataset is divided by the
// baseline dataset, key by key.
type Phase struct {
	Name       string
	Baseline   string // file name of the baseline dataset, relative to the data dir
	Suffix     string // e.g. "-find"
	Structures []string
}

// StructureNames returns a copy of the phase's structure set.
func (p Phase) StructureNames() []string {
	return append([]string(nil), p.Structures...)
}

// Point is one normalized record.
type Point struct {
	Key   string
	Ratio float64
}

// Size parses the key as a number, for plotting against data size.
func (p Point) Size() (float64, bool) {
	v, err := strconv.ParseFloat(p.Key, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NormalizedDataset holds the ratios computed for one structure in one phase.
type NormalizedDataset struct {
	Structure string
	Input     string
	Output    string
	Points    []Point
}

// Ratios returns the ratio column in record order.
func (d NormalizedDataset) Ratios() []float64 {
	out := make([]float64, len(d.Points))
	for i, p := range d.Points {
		out[i] = p.Ratio
	}
	return out
}

// PhaseResult is the outcome of normalizing every structure in a phase.
type PhaseResult struct {
	Phase    Phase
	Baseline string // path the baseline was read from
	Datasets []NormalizedDataset
}

func NewPhaseResult(phase Phase) *PhaseResult {
	return &PhaseResult{
		Phase:    phase,
		Datasets: make([]NormalizedDataset, 0, len(phase.Structures)),
	}
}

// StructureSummary holds ratio statistics for one structure.
type StructureSummary struct {
	Structure string
	Count     int
	Min       float64
	Max       float64
	Mean      float64
	GeoMean   float64
}

// PhaseSummary ranks the structures of a phase by geometric mean ratio, lowest
// (fastest relative to the baseline) first.
type PhaseSummary struct {
	Phase      string
	Structures []StructureSummary
}

func NewPhaseSummary(phase string) *PhaseSummary {
	return &PhaseSummary{
		Phase:      phase,
		Structures: make([]StructureSummary, 0),
	}
}
