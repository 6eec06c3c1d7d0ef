package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"ReviewReporter/internal/domain"
	"ReviewReporter/internal/ports"
)

const (
	pageMargin   = 72.0
	bodyLeading  = 12.0
	reviewWidth  = 468.0
	spacerHeight = 12.0
)

var summaryWidths = [3]float64{150, 100, 100}

// Renderer lays out a report as a US Letter PDF.
type Renderer struct {
	logger *slog.Logger
	conf   *model.Configuration
	verify func(path string) (int, error)
}

var _ ports.DocumentRenderer = (*Renderer)(nil)

// NewRenderer prepares a renderer; pdfcpu runs without a user config dir.
func NewRenderer(log *slog.Logger) *Renderer {
	api.DisableConfigDir()
	r := &Renderer{
		logger: log,
		conf:   model.NewDefaultConfiguration(),
	}
	r.verify = r.pageCount
	return r
}

// Render writes report to path and verifies the result parses as a PDF.
// A file that fails verification is removed.
func (r *Renderer) Render(ctx context.Context, report domain.Report, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := newDocument()
	doc.SetTitle(report.Title, true)
	doc.SetCreator("ReviewReporter", false)
	doc.AddPage()

	doc.title(report.Title)
	if err := doc.chart(report.Chart); err != nil {
		return err
	}
	doc.heading(report.SummaryHeading)
	doc.summaryTable(report.Summary)
	doc.Ln(spacerHeight)

	for _, section := range report.Sections {
		doc.heading(section.Heading)
		doc.reviewTable(section)
		doc.Ln(spacerHeight)
	}

	doc.heading(report.Verdict)

	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	pages, err := r.verify(path)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && r.logger != nil {
			r.logger.Warn("remove unverified pdf", "path", path, "error", rmErr)
		}
		return fmt.Errorf("verify pdf: %w", err)
	}
	r.debug("report rendered", "path", path, "pages", pages)

	return nil
}

func (r *Renderer) pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return api.PageCount(f, r.conf)
}

func (r *Renderer) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

type document struct {
	*fpdf.Fpdf
}

func newDocument() *document {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1)
	return &document{Fpdf: pdf}
}

func (d *document) contentWidth() float64 {
	w, _ := d.GetPageSize()
	left, _, right, _ := d.GetMargins()
	return w - left - right
}

func (d *document) centeredX(width float64) float64 {
	left, _, _, _ := d.GetMargins()
	return left + (d.contentWidth()-width)/2
}

func (d *document) title(text string) {
	d.SetFont("Helvetica", "B", 18)
	d.SetTextColor(0, 0, 0)
	d.CellFormat(0, 22, toWinAnsi(text), "", 1, "C", false, 0, "")
	d.Ln(spacerHeight)
}

func (d *document) heading(text string) {
	d.SetFont("Helvetica", "B", 14)
	d.SetTextColor(0, 0, 0)
	d.CellFormat(0, 18, toWinAnsi(text), "", 1, "L", false, 0, "")
	d.Ln(6)
}

func (d *document) chart(chart domain.ChartArtifact) error {
	if chart.Path == "" {
		return nil
	}
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	d.ImageOptions(chart.Path, d.centeredX(chart.Width), d.GetY(), chart.Width, chart.Height, true, opts, 0, "")
	if d.Err() {
		return fmt.Errorf("place chart: %w", d.Error())
	}
	d.Ln(spacerHeight)
	return nil
}

func (d *document) summaryTable(table domain.SummaryTable) {
	x := d.centeredX(summaryWidths[0] + summaryWidths[1] + summaryWidths[2])

	d.SetFont("Helvetica", "B", 10)
	d.SetFillColor(128, 128, 128)
	d.SetTextColor(245, 245, 245)
	d.SetX(x)
	for i, label := range table.Header {
		d.CellFormat(summaryWidths[i], 24, label, "1", 0, "C", true, 0, "")
	}
	d.Ln(-1)

	d.SetFont("Helvetica", "", 10)
	d.SetTextColor(0, 0, 0)
	for _, row := range table.Rows {
		d.SetX(x)
		d.CellFormat(summaryWidths[0], 18, row.Category.String(), "1", 0, "C", false, 0, "")
		d.CellFormat(summaryWidths[1], 18, fmt.Sprint(row.Count), "1", 0, "C", false, 0, "")
		d.CellFormat(summaryWidths[2], 18, row.Percentage, "1", 0, "C", false, 0, "")
		d.Ln(-1)
	}
}

func (d *document) reviewTable(section domain.Section) {
	x := d.centeredX(reviewWidth)

	d.SetFont("Helvetica", "B", 10)
	d.SetFillColor(211, 211, 211)
	d.SetTextColor(0, 0, 0)
	d.SetX(x)
	d.CellFormat(reviewWidth, 20, section.Header, "1", 1, "L", true, 0, "")

	d.SetFont("Helvetica", "", 10)
	for _, text := range section.Reviews {
		d.SetX(x)
		d.MultiCell(reviewWidth, bodyLeading+2, toWinAnsi(text), "1", "L", false)
	}
}
