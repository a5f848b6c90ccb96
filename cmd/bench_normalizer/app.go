package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/user/bench_normalizer_go/internal/analysis"
	"github.com/user/bench_normalizer_go/internal/config"
	"github.com/user/bench_normalizer_go/internal/report"
	"github.com/user/bench_normalizer_go/internal/telemetry"
)

// App runs the normalizer and its optional plot and report outputs.
type App struct {
	ctx context.Context
	cfg *config.Config
	out io.Writer
}

// NewApp creates an App that prints progress lines to out.
func NewApp(cfg *config.Config, out io.Writer) *App {
	return &App{ctx: context.Background(), cfg: cfg, out: out}
}

// Startup binds the context used to cancel between datasets.
func (a *App) Startup(ctx context.Context) {
	if ctx != nil {
		a.ctx = ctx
	}
}

func (a *App) sendStatus(message string) {
	fmt.Fprintln(a.out, message)
	telemetry.LogDebug("status", "message", message)
}

// Run normalizes every configured phase, then renders plots and the PDF
// report when asked to. Plot failures are reported and skipped.
func (a *App) Run() ([]*analysis.PhaseResult, error) {
	phases := a.cfg.AnalysisPhases()
	telemetry.LogDebug("starting normalization", "dir", a.cfg.Dir, "phases", len(phases))

	n := analysis.NewNormalizer(a.cfg.Dir, a.sendStatus)
	results, err := n.Run(a.ctx, phases)
	if err != nil {
		telemetry.LogError("normalization failed", err, "completed_phases", len(results))
		return results, err
	}
	for _, res := range results {
		telemetry.LogInfo("phase normalized", "phase", res.Phase.Name, "datasets", len(res.Datasets))
	}

	if !a.cfg.Plots && a.cfg.Report == "" {
		return results, nil
	}

	plotImages := a.renderPlots(results)
	if a.cfg.Plots {
		if err := a.writePlots(plotImages); err != nil {
			return results, err
		}
	}
	if a.cfg.Report != "" {
		a.sendStatus(fmt.Sprintf("Generating PDF: %s", a.cfg.Report))
		if err := report.BuildPDFReport(a.cfg.Report, results, plotImages); err != nil {
			return results, fmt.Errorf("failed to generate PDF report: %w", err)
		}
	}
	return results, nil
}

func (a *App) renderPlots(results []*analysis.PhaseResult) map[string][]byte {
	plotImages := make(map[string][]byte)
	for _, res := range results {
		plotConfigs := []struct {
			Key  string
			Type string
		}{
			{Key: report.PlotKey("ratio", res.Phase.Name), Type: "line"},
			{Key: report.PlotKey("heatmap", res.Phase.Name), Type: "heatmap"},
		}
		for _, pc := range plotConfigs {
			var imgBytes []byte
			var errPlt error
			switch pc.Type {
			case "line":
				imgBytes, errPlt = report.CreateRatioPlot(res)
			case "heatmap":
				imgBytes, errPlt = report.CreateRatioHeatmap(res, fmt.Sprintf("log2 %s ratio vs %s", res.Phase.Name, res.Phase.Baseline))
			}
			if errPlt != nil {
				telemetry.LogError("plot skipped", errPlt, "plot", pc.Key)
				a.sendStatus(fmt.Sprintf("Error generating plot %s: %v", pc.Key, errPlt))
				continue
			}
			plotImages[pc.Key] = imgBytes
		}
	}
	return plotImages
}

func (a *App) writePlots(plotImages map[string][]byte) error {
	keys := make([]string, 0, len(plotImages))
	for k := range plotImages {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		img := plotImages[key]
		path := filepath.Join(a.cfg.Dir, key+".png")
		a.sendStatus(fmt.Sprintf("Writing plot %s", path))
		if err := os.WriteFile(path, img, 0644); err != nil {
			return fmt.Errorf("failed to write plot: %w", err)
		}
	}
	return nil
}

// ListPhases prints every configured phase and its structure set.
func (a *App) ListPhases(w io.Writer) {
	for _, p := range a.cfg.AnalysisPhases() {
		fmt.Fprintf(w, "%s: baseline %s, suffix %s\n", p.Name, p.Baseline, p.Suffix)
		fmt.Fprintf(w, "  %s\n", strings.Join(p.Structures, " "))
	}
}

// Summary prints ratio statistics for the -norm.dat files already on disk.
func (a *App) Summary(w io.Writer) error {
	n := analysis.NewNormalizer(a.cfg.Dir, nil)
	for i, phase := range a.cfg.AnalysisPhases() {
		res, err := n.LoadNormalized(phase)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (relative to %s)\n", phase.Name, phase.Baseline)
		if len(res.Datasets) == 0 {
			fmt.Fprintln(w, "  no normalized files found")
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "STRUCTURE\tRECORDS\tGEOMEAN\tMEAN\tMIN\tMAX")
		for _, s := range analysis.SummarizePhase(res).Structures {
			fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\n",
				s.Structure, s.Count, s.GeoMean, s.Mean, s.Min, s.Max)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
