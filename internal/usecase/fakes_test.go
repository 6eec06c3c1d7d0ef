package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ReviewReporter/internal/domain"
	"ReviewReporter/internal/ports"
)

type fakeSource struct {
	reviews []domain.Review
	err     error
	got     ports.FetchRequest
}

func (f *fakeSource) Fetch(_ context.Context, req ports.FetchRequest) ([]domain.Review, error) {
	f.got = req
	return f.reviews, f.err
}

type fakeScorer struct {
	polarity map[string]float64
	err      error
	calls    []string
}

func (f *fakeScorer) Score(_ context.Context, text string) (float64, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return 0, f.err
	}
	return f.polarity[text], nil
}

type fakeCharts struct {
	dir    string
	err    error
	counts domain.SentimentCounts
	path   string
}

func (f *fakeCharts) RenderPieChart(_ context.Context, counts domain.SentimentCounts) (domain.ChartArtifact, error) {
	f.counts = counts
	if f.err != nil {
		return domain.ChartArtifact{}, f.err
	}
	f.path = filepath.Join(f.dir, "sentiment_chart.png")
	if err := os.WriteFile(f.path, []byte("png"), 0o600); err != nil {
		return domain.ChartArtifact{}, err
	}
	return domain.ChartArtifact{Path: f.path, Width: 400, Height: 300}, nil
}

type fakeRenderer struct {
	err    error
	report domain.Report
	path   string
}

func (f *fakeRenderer) Render(_ context.Context, report domain.Report, path string) error {
	f.report = report
	f.path = path
	if f.err != nil {
		return f.err
	}
	if _, err := os.Stat(report.Chart.Path); err != nil {
		return fmt.Errorf("chart missing at render time: %w", err)
	}
	return os.WriteFile(path, []byte("%PDF-1.3"), 0o600)
}

type fakeRepository struct {
	records []domain.RunRecord
	err     error
}

func (f *fakeRepository) SaveRun(_ context.Context, record domain.RunRecord) error {
	f.records = append(f.records, record)
	return f.err
}

type fakeNotifier struct {
	notices []domain.ReportNotice
	err     error
}

func (f *fakeNotifier) PublishSummary(_ context.Context, notice domain.ReportNotice) error {
	f.notices = append(f.notices, notice)
	return f.err
}
