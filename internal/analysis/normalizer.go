package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/user/bench_normalizer_go/internal/parser"
)

// StatusFunc receives one human-readable progress line per step.
type StatusFunc func(msg string)

// DatasetPath derives the file name for a structure in a phase.
func DatasetPath(name, suffix string, role Role) string {
	if role == RoleNormalized {
		return name + suffix + "-norm.dat"
	}
	return name + suffix + ".dat"
}

// BuildBaseline maps each record's key to its value. A repeated key keeps the
// last value seen.
func BuildBaseline(ds *parser.Dataset) BaselineMap {
	baseline := make(BaselineMap, len(ds.Records))
	for _, rec := range ds.Records {
		baseline[rec.Key()] = rec.Value()
	}
	return baseline
}

// parseMeasurement parses a measurement the way a float literal is read:
// surrounding whitespace is ignored and out-of-range values saturate to ±Inf.
func parseMeasurement(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w %q", ErrParse, s)
	}
	return v, nil
}

// Ratio divides a measurement by its baseline measurement.
func Ratio(value, baseline string) (float64, error) {
	v, err := parseMeasurement(value)
	if err != nil {
		return 0, err
	}
	b, err := parseMeasurement(baseline)
	if err != nil {
		return 0, fmt.Errorf("baseline: %w", err)
	}
	if b == 0 {
		return 0, ErrZeroBaseline
	}
	return v / b, nil
}

// Normalize maps every record of ds to its ratio against baseline, in order.
// It stops at the first record that cannot be normalized.
func Normalize(ds *parser.Dataset, baseline BaselineMap) ([]Point, error) {
	points := make([]Point, 0, len(ds.Records))
	for _, rec := range ds.Records {
		denom, ok := baseline[rec.Key()]
		if !ok {
			return nil, &LookupError{Key: rec.Key(), Dataset: ds.Name, Line: rec.Line}
		}
		ratio, err := Ratio(rec.Value(), denom)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: key %q: %w", ds.Name, rec.Line, rec.Key(), err)
		}
		points = append(points, Point{Key: rec.Key(), Ratio: ratio})
	}
	return points, nil
}

// FormatRatio prints the shortest decimal that round-trips to r. Integral
// values keep a ".0" and magnitudes outside [1e-4, 1e16) use exponent form.
func FormatRatio(r float64) string {
	switch {
	case math.IsNaN(r):
		return "nan"
	case math.IsInf(r, 1):
		return "inf"
	case math.IsInf(r, -1):
		return "-inf"
	case r == 0:
		if math.Signbit(r) {
			return "-0.0"
		}
		return "0.0"
	}

	e := strconv.FormatFloat(r, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e
	}
	f := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.ContainsRune(f, '.') {
		f += ".0"
	}
	return f
}

// WriteNormalized writes one "<key> <ratio>" line per point, replacing path.
func WriteNormalized(path string, points []Point) error {
	var buf bytes.Buffer
	for _, p := range points {
		buf.WriteString(p.Key)
		buf.WriteByte(' ')
		buf.WriteString(FormatRatio(p.Ratio))
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write normalized file: %w", err)
	}
	return nil
}

// Normalizer runs phases against the data files in Dir.
type Normalizer struct {
	Dir    string
	status StatusFunc
}

// NewNormalizer creates a normalizer for dir. status may be nil.
func NewNormalizer(dir string, status StatusFunc) *Normalizer {
	if dir == "" {
		dir = "."
	}
	if status == nil {
		status = func(string) {}
	}
	return &Normalizer{Dir: dir, status: status}
}

func (n *Normalizer) path(name string) string {
	return filepath.Join(n.Dir, name)
}

// NormalizePhase builds the phase's baseline, then normalizes each structure
// into its -norm.dat file. Outputs written before a failure are left in place.
func (n *Normalizer) NormalizePhase(ctx context.Context, phase Phase) (*PhaseResult, error) {
	if err := phase.Validate(); err != nil {
		return nil, err
	}

	result := NewPhaseResult(phase)
	result.Baseline = n.path(phase.Baseline)

	n.status(fmt.Sprintf("Reading %s", result.Baseline))
	baseDS, err := parser.ParseDataset(result.Baseline)
	if err != nil {
		return nil, fmt.Errorf("phase %s: baseline: %w", phase.Name, err)
	}
	baseline := BuildBaseline(baseDS)

	for _, name := range phase.StructureNames() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		nd := NormalizedDataset{
			Structure: name,
			Input:     n.path(DatasetPath(name, phase.Suffix, RoleInput)),
			Output:    n.path(DatasetPath(name, phase.Suffix, RoleNormalized)),
		}
		ds, err := parser.ParseDataset(nd.Input)
		if err != nil {
			return result, fmt.Errorf("phase %s: %w", phase.Name, err)
		}
		n.status(fmt.Sprintf("Normalizing %s saving to %s", nd.Input, nd.Output))

		nd.Points, err = Normalize(ds, baseline)
		if err != nil {
			return result, fmt.Errorf("phase %s: %w", phase.Name, err)
		}
		if err := WriteNormalized(nd.Output, nd.Points); err != nil {
			return result, fmt.Errorf("phase %s: %w", phase.Name, err)
		}
		result.Datasets = append(result.Datasets, nd)
	}
	return result, nil
}

// Run executes phases in order and stops at the first failure.
func (n *Normalizer) Run(ctx context.Context, phases []Phase) ([]*PhaseResult, error) {
	results := make([]*PhaseResult, 0, len(phases))
	for _, phase := range phases {
		res, err := n.NormalizePhase(ctx, phase)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// LoadNormalized reads a phase's existing -norm.dat files without recomputing
// them. Structures whose file is missing are skipped.
func (n *Normalizer) LoadNormalized(phase Phase) (*PhaseResult, error) {
	result := NewPhaseResult(phase)
	result.Baseline = n.path(phase.Baseline)
	for _, name := range phase.StructureNames() {
		out := n.path(DatasetPath(name, phase.Suffix, RoleNormalized))
		lines, err := parser.ParseNormalized(out)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		nd := NormalizedDataset{
			Structure: name,
			Input:     n.path(DatasetPath(name, phase.Suffix, RoleInput)),
			Output:    out,
			Points:    make([]Point, len(lines)),
		}
		for i, l := range lines {
			nd.Points[i] = Point{Key: l.Key, Ratio: l.Ratio}
		}
		result.Datasets = append(result.Datasets, nd)
	}
	return result, nil
}
