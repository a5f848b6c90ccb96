package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/bench_normalizer_go/internal/analysis"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func samplePhase() *analysis.PhaseResult {
	res := analysis.NewPhaseResult(analysis.Phase{
		Name:       "find",
		Baseline:   "bst-find.dat",
		Suffix:     "-find",
		Structures: []string{"skiplist", "treap"},
	})
	res.Baseline = "bst-find.dat"
	res.Datasets = append(res.Datasets,
		analysis.NormalizedDataset{Structure: "skiplist", Points: []analysis.Point{
			{Key: "25000", Ratio: 1.8}, {Key: "50000", Ratio: 1.9}, {Key: "75000", Ratio: 2.1},
		}},
		analysis.NormalizedDataset{Structure: "treap", Points: []analysis.Point{
			{Key: "25000", Ratio: 1.2}, {Key: "50000", Ratio: math.Inf(1)}, {Key: "75000", Ratio: 0.9},
		}},
	)
	return res
}

func TestCreateRatioPlot(t *testing.T) {
	img, err := CreateRatioPlot(samplePhase())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))
}

func TestCreateRatioPlot_NoData(t *testing.T) {
	_, err := CreateRatioPlot(nil)
	assert.Error(t, err)

	empty := analysis.NewPhaseResult(analysis.Phase{Name: "add"})
	empty.Datasets = append(empty.Datasets, analysis.NormalizedDataset{Structure: "treap"})
	_, err = CreateRatioPlot(empty)
	assert.Error(t, err)
}

func TestCreateRatioHeatmap(t *testing.T) {
	img, err := CreateRatioHeatmap(samplePhase(), "find")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))
}

func TestNewRatioGrid(t *testing.T) {
	res := samplePhase()
	res.Datasets[0].Points = append([]analysis.Point{{Key: "100000", Ratio: 4}}, res.Datasets[0].Points...)

	g := newRatioGrid(res)
	c, r := g.Dims()
	assert.Equal(t, 4, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, []string{"25000", "50000", "75000", "100000"}, g.keys)
	assert.Equal(t, []string{"skiplist", "treap"}, g.structures)

	assert.InDelta(t, 2.0, g.Z(3, 0), 1e-12)
	assert.True(t, math.IsNaN(g.Z(3, 1)))
	assert.True(t, math.IsNaN(g.Z(1, 1)))
}

func TestSortKeys_Lexical(t *testing.T) {
	keys := []string{"b", "10", "a"}
	sortKeys(keys)
	assert.Equal(t, []string{"10", "a", "b"}, keys)
}

func TestBuildPDFReport(t *testing.T) {
	res := samplePhase()
	line, err := CreateRatioPlot(res)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.pdf")
	err = BuildPDFReport(path, []*analysis.PhaseResult{res}, map[string][]byte{
		PlotKey("ratio", "find"): line,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestBuildPDFReport_NoResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, BuildPDFReport(path, nil, nil))
	assert.FileExists(t, path)
}

func TestPlotKey(t *testing.T) {
	assert.Equal(t, "add-norm-heatmap", PlotKey("heatmap", "add"))
}
