package ports

import (
	"context"

	"ReviewReporter/internal/domain"
)

// SortOrder selects how the store orders returned reviews.
type SortOrder string

const (
	SortMostRelevant SortOrder = "most_relevant"
	SortNewest       SortOrder = "newest"
	SortRating       SortOrder = "rating"
)

// FetchRequest is the fixed request configuration sent to a review source.
type FetchRequest struct {
	AppID    string
	Language string
	Country  string
	Count    int
	Sort     SortOrder
}

// ReviewSource pulls reviews for an application from a store.
type ReviewSource interface {
	Fetch(ctx context.Context, req FetchRequest) ([]domain.Review, error)
}

// SentimentScorer returns a polarity in [-1, 1] for a piece of text.
type SentimentScorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// ChartRenderer draws the sentiment distribution to an image file.
type ChartRenderer interface {
	RenderPieChart(ctx context.Context, counts domain.SentimentCounts) (domain.ChartArtifact, error)
}

// DocumentRenderer writes a report to path.
type DocumentRenderer interface {
	Render(ctx context.Context, report domain.Report, path string) error
}

// RunRepository keeps a history of generated reports.
type RunRepository interface {
	SaveRun(ctx context.Context, record domain.RunRecord) error
}

// Notifier announces a finished report on an outbound channel.
type Notifier interface {
	PublishSummary(ctx context.Context, notice domain.ReportNotice) error
}
