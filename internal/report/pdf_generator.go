package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/user/bench_normalizer_go/internal/analysis"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// PlotKey names a rendered plot, both in the plot map handed to
// BuildPDFReport and as the stem of its PNG file.
func PlotKey(kind, phase string) string {
	return fmt.Sprintf("%s-norm-%s", phase, kind)
}

// pdfStyler holds reusable styling and the flowing Y position.
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - (2 * pdfMargin),
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellRed"] = func() { // slower than the baseline
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
	s.styles["tableCellGreen"] = func() { // faster than the baseline
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(0, 130, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	s.checkAddPage(s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.Image(imageName, pdfMargin, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

func (s *pdfStyler) tableRow(cells []string, widths []float64, style func(col int) string, fill bool) {
	s.checkAddPage(s.lineHeight)
	sX := pdfMargin
	for i, cell := range cells {
		s.applyStyle(style(i))
		s.pdf.SetXY(sX, s.currentY)
		s.pdf.CellFormat(widths[i], s.lineHeight, cell, "1", 0, "C", fill, 0, "")
		sX += widths[i]
	}
	s.currentY += s.lineHeight
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}

func ratioStyle(v float64) string {
	switch {
	case math.IsNaN(v):
		return "tableCell"
	case v > 1:
		return "tableCellRed"
	case v < 1:
		return "tableCellGreen"
	}
	return "tableCell"
}

func (s *pdfStyler) summaryTable(summary *analysis.PhaseSummary) {
	headers := []string{"Rank", "Structure", "Records", "Geo. Mean", "Mean", "Min", "Max"}
	colWidthsRel := []float64{0.08, 0.32, 0.12, 0.12, 0.12, 0.12, 0.12}
	widths := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		widths[i] = rel * pdfContentWidth
	}

	s.checkAddPage(s.lineHeight * float64(len(summary.Structures)+1))
	s.tableRow(headers, widths, func(int) string { return "tableHeader" }, true)

	for i, st := range summary.Structures {
		row := []string{
			strconv.Itoa(i + 1),
			st.Structure,
			strconv.Itoa(st.Count),
			formatStat(st.GeoMean),
			formatStat(st.Mean),
			formatStat(st.Min),
			formatStat(st.Max),
		}
		s.tableRow(row, widths, func(col int) string {
			if col == 3 {
				return ratioStyle(st.GeoMean)
			}
			return "tableCell"
		}, false)
	}
}

// BuildPDFReport writes one section per phase: the ranked ratio summary,
// then the phase's line plot and heatmap when present in plotImages.
func BuildPDFReport(filepath string, results []*analysis.PhaseResult, plotImages map[string][]byte) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)
	styler.writeParagraph("Normalized Benchmark Report", "h1", "C")
	styler.addSpacer(5)

	if len(results) == 0 {
		styler.writeParagraph("No normalized data to display.", "normal", "L")
		return pdf.OutputFileAndClose(filepath)
	}

	imgWidth := pdfContentWidth * 0.9
	linePlotHeight := imgWidth * (4.0 / 8.0)
	heatHeight := imgWidth * (5.0 / 10.0)

	for i, res := range results {
		if i > 0 {
			styler.newPage()
		}
		styler.writeParagraph(fmt.Sprintf("Phase %q: relative to %s", res.Phase.Name, res.Baseline), "h2", "L")
		styler.writeParagraph(fmt.Sprintf("Structures ranked by geometric mean of time / baseline time (%d datasets). Values below 1.0 beat the baseline.",
			len(res.Datasets)), "normal", "L")
		styler.addSpacer(2)

		summary := analysis.SummarizePhase(res)
		if len(summary.Structures) > 0 {
			styler.summaryTable(summary)
		} else {
			styler.writeParagraph("No datasets were normalized in this phase.", "normal", "L")
		}
		styler.addSpacer(5)

		plots := []struct {
			Key     string
			Height  float64
			Caption string
		}{
			{PlotKey("ratio", res.Phase.Name), linePlotHeight, "Ratio to baseline by input size"},
			{PlotKey("heatmap", res.Phase.Name), heatHeight, "log2(ratio) by structure and input size"},
		}
		for _, pl := range plots {
			imgBytes, ok := plotImages[pl.Key]
			if !ok || len(imgBytes) == 0 {
				slog.Debug("plot not available for report", "plot", pl.Key)
				continue
			}
			styler.newPage()
			styler.addImage(imgBytes, pl.Key, imgWidth, pl.Height, pl.Caption)
		}
	}

	return pdf.OutputFileAndClose(filepath)
}
