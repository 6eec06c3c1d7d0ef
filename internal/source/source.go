package source

import (
	"context"
	"errors"
	"fmt"

	"ReviewReporter/internal/domain"
	"ReviewReporter/internal/ports"
)

// ErrUnknownStrategy is returned when no strategy is registered under a name.
var ErrUnknownStrategy = errors.New("review source strategy is not registered")

// Strategy is a single way of fetching reviews (Play Store API, HTML listing, etc.).
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, req ports.FetchRequest) ([]domain.Review, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
}
