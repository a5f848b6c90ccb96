package report

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"

	"github.com/user/bench_normalizer_go/internal/analysis"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ratioGrid lays a phase out as a plotter.GridXYZ: one column per key, one
// row per structure, cell value log2(ratio).
type ratioGrid struct {
	keys       []string
	structures []string
	values     [][]float64 // [row][col]
}

func (g *ratioGrid) Dims() (c, r int)   { return len(g.keys), len(g.structures) }
func (g *ratioGrid) Z(c, r int) float64 { return g.values[r][c] }
func (g *ratioGrid) X(c int) float64    { return float64(c) }
func (g *ratioGrid) Y(r int) float64    { return float64(r) }

// sortKeys orders keys numerically when they all parse, lexically otherwise.
func sortKeys(keys []string) {
	nums := make(map[string]float64, len(keys))
	for _, k := range keys {
		v, err := strconv.ParseFloat(k, 64)
		if err != nil {
			sort.Strings(keys)
			return
		}
		nums[k] = v
	}
	sort.Slice(keys, func(i, j int) bool { return nums[keys[i]] < nums[keys[j]] })
}

func newRatioGrid(res *analysis.PhaseResult) *ratioGrid {
	g := &ratioGrid{}
	seen := make(map[string]bool)
	for _, ds := range res.Datasets {
		g.structures = append(g.structures, ds.Structure)
		for _, p := range ds.Points {
			if !seen[p.Key] {
				seen[p.Key] = true
				g.keys = append(g.keys, p.Key)
			}
		}
	}
	sortKeys(g.keys)

	col := make(map[string]int, len(g.keys))
	for i, k := range g.keys {
		col[k] = i
	}
	g.values = make([][]float64, len(g.structures))
	for r, ds := range res.Datasets {
		row := make([]float64, len(g.keys))
		for c := range row {
			row[c] = math.NaN()
		}
		// Repeated keys keep the last measurement.
		for _, p := range ds.Points {
			if p.Ratio > 0 && !math.IsInf(p.Ratio, 0) {
				row[col[p.Key]] = math.Log2(p.Ratio)
			} else {
				row[col[p.Key]] = math.NaN()
			}
		}
		g.values[r] = row
	}
	return g
}

// CreateRatioHeatmap shades each (structure, n) cell by log2 of its ratio so
// that parity with the baseline sits at the centre of the colour scale.
func CreateRatioHeatmap(res *analysis.PhaseResult, plotTitle string) ([]byte, error) {
	if res == nil || len(res.Datasets) == 0 {
		return nil, fmt.Errorf("no normalized data to plot heatmap")
	}
	grid := newRatioGrid(res)
	numCols, numRows := grid.Dims()
	if numCols == 0 {
		return nil, fmt.Errorf("no keys found for heatmap")
	}

	bound := 0.0
	for _, row := range grid.values {
		for _, v := range row {
			if !math.IsNaN(v) && math.Abs(v) > bound {
				bound = math.Abs(v)
			}
		}
	}
	if bound == 0 {
		bound = 1
	}

	p := plot.New()
	p.Title.Text = plotTitle
	p.X.Label.Text = "n"
	p.Y.Label.Text = "structure"

	yTicks := make([]plot.Tick, numRows)
	for i, name := range grid.structures {
		yTicks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.Y.Min = -0.5
	p.Y.Max = float64(numRows) - 0.5

	step := numCols / 10
	if step < 1 {
		step = 1
	}
	var xTicks []plot.Tick
	for c := 0; c < numCols; c += step {
		xTicks = append(xTicks, plot.Tick{Value: float64(c), Label: grid.keys[c]})
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.X.Min = -0.5
	p.X.Max = float64(numCols) - 0.5

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-bound)
	cm.SetMax(bound)

	hm := plotter.NewHeatMap(grid, cm.Palette(255))
	hm.Min = -bound
	hm.Max = bound
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	return renderPNG(p, vg.Points(1000), vg.Points(500))
}
