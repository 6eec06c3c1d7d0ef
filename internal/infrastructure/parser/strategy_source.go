package parser

import (
	"context"
	"fmt"
	"log/slog"

	"ReviewReporter/internal/domain"
	"ReviewReporter/internal/ports"
	"ReviewReporter/internal/source"
)

// StrategySource implements ports.ReviewSource via a registered strategy.
type StrategySource struct {
	registry *source.Registry
	strategy string
	logger   *slog.Logger
}

var _ ports.ReviewSource = (*StrategySource)(nil)

// NewStrategySource binds the registry to the strategy named in config.
func NewStrategySource(reg *source.Registry, strategy string, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		strategy: strategy,
		logger:   log,
	}
}

// Fetch resolves the configured strategy and delegates the request to it.
func (s *StrategySource) Fetch(ctx context.Context, req ports.FetchRequest) ([]domain.Review, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("source registry is not configured")
	}

	strategy, err := s.registry.Resolve(s.strategy)
	if err != nil {
		return nil, err
	}

	s.debug("fetch reviews", "strategy", strategy.Name(), "app_id", req.AppID,
		"count", req.Count, "sort", req.Sort, "lang", req.Language, "country", req.Country)

	reviews, err := strategy.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strategy.Name(), err)
	}

	s.debug("strategy produced reviews", "strategy", strategy.Name(), "count", len(reviews))
	return reviews, nil
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
