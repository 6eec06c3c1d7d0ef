package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"ReviewReporter/internal/config"
	"ReviewReporter/internal/infrastructure/chart"
	"ReviewReporter/internal/infrastructure/lexicon"
	"ReviewReporter/internal/infrastructure/llm"
	"ReviewReporter/internal/infrastructure/ml"
	"ReviewReporter/internal/infrastructure/parser"
	"ReviewReporter/internal/infrastructure/pdf"
	"ReviewReporter/internal/infrastructure/playstore"
	"ReviewReporter/internal/infrastructure/storage"
	"ReviewReporter/internal/infrastructure/telegram"
	"ReviewReporter/internal/logging"
	"ReviewReporter/internal/ports"
	"ReviewReporter/internal/source"
	"ReviewReporter/internal/usecase"
)

// ErrUnknownScorer is returned when config names no known scorer.
var ErrUnknownScorer = errors.New("unknown sentiment scorer")

// Outcome is the single result of a run: a report path or the failure cause.
type Outcome struct {
	Path string
	Err  error
}

// Application wires configs to use cases.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	db       *sql.DB
	logger   *slog.Logger
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	registry := source.NewRegistry()
	registry.Register(playstore.NewClient(nil, cfg.Source.BaseURL, baseLogger.With("component", "source.playstore")))
	registry.Register(parser.NewHTMLSource(nil, cfg.Source.HTML.URL, selectorsFrom(cfg.Source.HTML.Selectors),
		cfg.Source.HTML.PageSize, baseLogger.With("component", "source.html")))

	reviewSource := parser.NewStrategySource(registry, cfg.Source.Strategy, baseLogger.With("component", "source"))

	scorer, err := newScorer(cfg)
	if err != nil {
		return nil, err
	}

	charts, err := chart.NewPieRenderer(cfg.Report.TempDir)
	if err != nil {
		return nil, err
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	var repo ports.RunRepository
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		pg := storage.NewPostgresRepository(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.db = db
		repo = pg
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     reviewSource,
		Scorer:     scorer,
		Charts:     charts,
		Renderer:   pdf.NewRenderer(baseLogger.With("component", "pdf")),
		Repository: repo,
		Notifier:   notifier,
		Request: ports.FetchRequest{
			Language: cfg.Source.Language,
			Country:  cfg.Source.Country,
			Count:    cfg.Source.Count,
			Sort:     ports.SortOrder(cfg.Source.Sort),
		},
		OutputDir: cfg.Report.OutputDir,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	return a, nil
}

// Run performs one report generation for input.
func (a *Application) Run(ctx context.Context, input string) Outcome {
	result, err := a.pipeline.Run(ctx, input)
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Path: result.OutputPath}
}

// Close releases the history database, if any.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func newScorer(cfg config.Config) (ports.SentimentScorer, error) {
	switch cfg.Sentiment.Scorer {
	case "", "lexicon":
		return lexicon.NewScorer(), nil
	case "ml":
		if cfg.ML.InferenceURL == "" {
			return nil, fmt.Errorf("ml scorer requires an inference url")
		}
		return ml.NewClient(cfg.ML.InferenceURL, cfg.ML.APIKey), nil
	case "llm":
		if cfg.ChatGPT.APIKey == "" {
			return nil, fmt.Errorf("llm scorer requires a chatgpt api key")
		}
		return llm.NewChatGPTClient(cfg.ChatGPT), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScorer, cfg.Sentiment.Scorer)
	}
}

func selectorsFrom(raw map[string]string) parser.Selectors {
	return parser.Selectors{
		Item:   raw["item"],
		Text:   raw["text"],
		Author: raw["author"],
		Rating: raw["rating"],
		Date:   raw["date"],
	}
}
