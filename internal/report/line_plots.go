package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/user/bench_normalizer_go/internal/analysis"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var plotColors = []color.Color{
	color.RGBA{R: 255, A: 255},                // Red
	color.RGBA{G: 160, A: 255},                // Green
	color.RGBA{B: 255, A: 255},                // Blue
	color.RGBA{R: 255, G: 165, A: 255},        // Orange
	color.RGBA{R: 128, B: 128, A: 255},        // Purple
	color.RGBA{G: 128, B: 128, A: 255},        // Teal
	color.RGBA{R: 139, G: 69, B: 19, A: 255},  // Brown
	color.RGBA{R: 255, G: 20, B: 147, A: 255}, // Pink
}

// seriesXYs places each point at its data size, or at its position in the
// file when the key is not numeric. Non-finite ratios are dropped.
func seriesXYs(ds analysis.NormalizedDataset) plotter.XYs {
	pts := make(plotter.XYs, 0, len(ds.Points))
	for i, p := range ds.Points {
		if math.IsNaN(p.Ratio) || math.IsInf(p.Ratio, 0) {
			continue
		}
		x, ok := p.Size()
		if !ok {
			x = float64(i)
		}
		pts = append(pts, plotter.XY{X: x, Y: p.Ratio})
	}
	return pts
}

// CreateRatioPlot draws ratio against data size for every structure of a
// phase, with a dashed reference line at 1.0 for the baseline.
func CreateRatioPlot(res *analysis.PhaseResult) ([]byte, error) {
	if res == nil || len(res.Datasets) == 0 {
		return nil, fmt.Errorf("no normalized data to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s time relative to %s", res.Phase.Name, res.Phase.Baseline)
	p.X.Label.Text = "n"
	p.Y.Label.Text = "ratio"
	p.Add(plotter.NewGrid())

	minX, maxX := 0.0, 0.0
	first := true
	for i, ds := range res.Datasets {
		pts := seriesXYs(ds)
		if len(pts) == 0 {
			continue
		}
		for _, pt := range pts {
			if first || pt.X < minX {
				minX = pt.X
			}
			if first || pt.X > maxX {
				maxX = pt.X
			}
			first = false
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for %s: %v", ds.Structure, err)
		}
		line.Color = plotColors[i%len(plotColors)]
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(ds.Structure, line)
	}
	if first {
		return nil, fmt.Errorf("no normalized data to plot")
	}

	ref, err := plotter.NewLine(plotter.XYs{{X: minX, Y: 1}, {X: maxX, Y: 1}})
	if err != nil {
		return nil, fmt.Errorf("failed to create baseline line: %v", err)
	}
	ref.Color = color.Gray{Y: 128}
	ref.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(ref)

	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)

	return renderPNG(p, vg.Points(800), vg.Points(400))
}

func renderPNG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	writer, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %v", err)
	}
	return buf.Bytes(), nil
}
