package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"ReviewReporter/internal/domain"
	"ReviewReporter/internal/ports"
)

var (
	// ErrEmptyAppID is returned when the input yields no application id.
	ErrEmptyAppID = errors.New("application id is empty")
	// ErrInvalidAppID is returned for ids that cannot name an output file.
	ErrInvalidAppID = errors.New("application id contains a path separator")
)

// PipelineDeps wires all driven adapters into the report pipeline.
type PipelineDeps struct {
	Source     ports.ReviewSource
	Scorer     ports.SentimentScorer
	Charts     ports.ChartRenderer
	Renderer   ports.DocumentRenderer
	Repository ports.RunRepository
	Notifier   ports.Notifier
	Request    ports.FetchRequest
	OutputDir  string
	Clock      clockwork.Clock
	Logger     *slog.Logger
}

// Pipeline implements the fetch, classify, chart and render workflow.
type Pipeline struct {
	source     ports.ReviewSource
	scorer     ports.SentimentScorer
	charts     ports.ChartRenderer
	renderer   ports.DocumentRenderer
	repository ports.RunRepository
	notifier   ports.Notifier
	request    ports.FetchRequest
	outputDir  string
	clock      clockwork.Clock
	logger     *slog.Logger
}

// Result describes a successfully written report.
type Result struct {
	RunID      uuid.UUID
	AppID      string
	OutputPath string
	Summary    domain.Summary
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:     deps.Source,
		scorer:     deps.Scorer,
		charts:     deps.Charts,
		renderer:   deps.Renderer,
		repository: deps.Repository,
		notifier:   deps.Notifier,
		request:    deps.Request,
		outputDir:  deps.OutputDir,
		clock:      clock,
		logger:     logger,
	}
}

// Run produces the report for input, a raw app id or a store URL. Any
// failing stage aborts the run; nothing is retried.
func (p *Pipeline) Run(ctx context.Context, input string) (Result, error) {
	appID := strings.TrimSpace(domain.ExtractAppID(strings.TrimSpace(input)))
	if appID == "" {
		return Result{}, ErrEmptyAppID
	}
	if strings.ContainsAny(appID, `/\`) {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidAppID, appID)
	}

	runID := uuid.New()
	started := p.clock.Now()
	log := p.logger.With("run_id", runID.String(), "app_id", appID)

	req := p.request
	req.AppID = appID
	reviews, err := p.source.Fetch(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch reviews: %w", err)
	}
	log.Info("reviews fetched", "count", len(reviews))

	categorized, err := Categorize(ctx, p.scorer, reviews)
	if err != nil {
		return Result{}, fmt.Errorf("classify reviews: %w", err)
	}
	summary := Aggregate(categorized)
	log.Debug("reviews classified",
		"positive", summary.Counts[domain.Positive],
		"neutral", summary.Counts[domain.Neutral],
		"negative", summary.Counts[domain.Negative])

	chart, err := p.charts.RenderPieChart(ctx, summary.Counts)
	if err != nil {
		return Result{}, fmt.Errorf("render chart: %w", err)
	}

	report := Assemble(appID, categorized, summary, chart)
	path := filepath.Join(p.outputDir, ReportFilename(appID))
	if err := p.renderer.Render(ctx, report, path); err != nil {
		log.Warn("chart file left behind after failed render", "chart", chart.Path)
		return Result{}, fmt.Errorf("render report: %w", err)
	}
	defer p.removeChart(log, chart.Path)

	if p.repository != nil {
		err := p.repository.SaveRun(ctx, domain.RunRecord{
			ID:          runID,
			AppID:       appID,
			OutputPath:  path,
			Positive:    summary.Counts[domain.Positive],
			Neutral:     summary.Counts[domain.Neutral],
			Negative:    summary.Counts[domain.Negative],
			Verdict:     summary.Verdict,
			GeneratedAt: p.clock.Now(),
		})
		if err != nil {
			return Result{}, fmt.Errorf("save run: %w", err)
		}
	}

	if p.notifier != nil {
		if err := p.notifier.PublishSummary(ctx, domain.ReportNotice{
			AppID:      appID,
			OutputPath: path,
			Summary:    summary,
		}); err != nil {
			return Result{}, fmt.Errorf("publish summary: %w", err)
		}
	}

	log.Info("report generated",
		"path", path,
		"total", summary.Total,
		"verdict", summary.Verdict.String(),
		"elapsed", p.clock.Since(started))

	return Result{
		RunID:      runID,
		AppID:      appID,
		OutputPath: path,
		Summary:    summary,
	}, nil
}

func (p *Pipeline) removeChart(log *slog.Logger, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("remove chart file", "chart", path, "error", err)
	}
}
