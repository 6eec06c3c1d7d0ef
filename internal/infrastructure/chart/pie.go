package chart

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"ReviewReporter/internal/domain"
	"ReviewReporter/internal/ports"
)

const (
	canvasSize   = 600
	startAngle   = 140.0
	explodeRatio = 0.1
	shadowOffset = 6.0
	title        = "Sentiment Distribution"
)

var sliceColors = map[domain.Category]color.Color{
	domain.Positive: color.RGBA{R: 0x00, G: 0x80, B: 0x00, A: 0xff},
	domain.Neutral:  color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	domain.Negative: color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
}

var explode = map[domain.Category]float64{
	domain.Positive: explodeRatio,
}

// PieRenderer draws the sentiment distribution as a PNG pie chart in a
// temporary file. Callers own the file and remove it when done.
type PieRenderer struct {
	dir       string
	titleFace font.Face
	labelFace font.Face
	displayW  float64
	displayH  float64
}

var _ ports.ChartRenderer = (*PieRenderer)(nil)

type slice struct {
	category domain.Category
	count    int
	start    float64
	end      float64
}

// NewPieRenderer writes charts into dir; an empty dir uses os.TempDir.
func NewPieRenderer(dir string) (*PieRenderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse chart font: %w", err)
	}
	return &PieRenderer{
		dir:       dir,
		titleFace: truetype.NewFace(f, &truetype.Options{Size: 22}),
		labelFace: truetype.NewFace(f, &truetype.Options{Size: 16}),
		displayW:  400,
		displayH:  300,
	}, nil
}

// RenderPieChart draws counts and returns the artifact path with the size it
// should be displayed at.
func (p *PieRenderer) RenderPieChart(ctx context.Context, counts domain.SentimentCounts) (domain.ChartArtifact, error) {
	if err := ctx.Err(); err != nil {
		return domain.ChartArtifact{}, err
	}

	file, err := os.CreateTemp(p.dir, "sentiment_chart_*.png")
	if err != nil {
		return domain.ChartArtifact{}, fmt.Errorf("create chart file: %w", err)
	}

	if err := p.draw(counts).EncodePNG(file); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return domain.ChartArtifact{}, fmt.Errorf("encode chart: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return domain.ChartArtifact{}, fmt.Errorf("close chart file: %w", err)
	}

	return domain.ChartArtifact{Path: file.Name(), Width: p.displayW, Height: p.displayH}, nil
}

func (p *PieRenderer) draw(counts domain.SentimentCounts) *gg.Context {
	dc := gg.NewContext(canvasSize, canvasSize)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetFontFace(p.titleFace)
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(title, canvasSize/2, 40, 0.5, 0.5)

	cx, cy := float64(canvasSize)/2, float64(canvasSize)/2+20
	radius := float64(canvasSize) * 0.32

	slices := layout(counts)
	if len(slices) == 0 {
		dc.SetColor(sliceColors[domain.Neutral])
		dc.SetLineWidth(2)
		dc.DrawCircle(cx, cy, radius)
		dc.Stroke()
		dc.SetFontFace(p.labelFace)
		dc.DrawStringAnchored("No reviews", cx, cy, 0.5, 0.5)
		return dc
	}

	dc.SetRGBA(0, 0, 0, 0.25)
	for _, s := range slices {
		ox, oy := offset(s, radius)
		wedge(dc, cx+ox+shadowOffset, cy+oy+shadowOffset, radius, s)
		dc.Fill()
	}

	for _, s := range slices {
		ox, oy := offset(s, radius)
		dc.SetColor(sliceColors[s.category])
		wedge(dc, cx+ox, cy+oy, radius, s)
		dc.Fill()
	}

	total := float64(counts.Total())
	dc.SetFontFace(p.labelFace)
	for _, s := range slices {
		ox, oy := offset(s, radius)
		mid := (s.start + s.end) / 2
		cos, sin := math.Cos(mid), math.Sin(mid)

		align := 0.0
		if cos < 0 {
			align = 1
		}
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(s.category.String(), cx+ox+1.1*radius*cos, cy+oy-1.1*radius*sin, align, 0.5)

		dc.SetColor(color.White)
		pct := fmt.Sprintf("%1.1f%%", 100*float64(s.count)/total)
		dc.DrawStringAnchored(pct, cx+ox+0.6*radius*cos, cy+oy-0.6*radius*sin, 0.5, 0.5)
	}

	return dc
}

// layout assigns counter-clockwise angles (radians, y up) to non-empty
// slices in category order starting at startAngle.
func layout(counts domain.SentimentCounts) []slice {
	total := counts.Total()
	if total == 0 {
		return nil
	}

	var slices []slice
	angle := gg.Radians(startAngle)
	for _, c := range domain.Categories() {
		if counts[c] == 0 {
			continue
		}
		sweep := 2 * math.Pi * float64(counts[c]) / float64(total)
		slices = append(slices, slice{category: c, count: counts[c], start: angle, end: angle + sweep})
		angle += sweep
	}
	return slices
}

func offset(s slice, radius float64) (float64, float64) {
	ratio := explode[s.category]
	if ratio == 0 {
		return 0, 0
	}
	mid := (s.start + s.end) / 2
	return ratio * radius * math.Cos(mid), -ratio * radius * math.Sin(mid)
}

// wedge traces a slice; screen y grows downwards so angles are negated.
func wedge(dc *gg.Context, cx, cy, radius float64, s slice) {
	dc.MoveTo(cx, cy)
	dc.DrawArc(cx, cy, radius, -s.end, -s.start)
	dc.ClosePath()
}
