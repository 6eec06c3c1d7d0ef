package usecase

import (
	"context"
	"fmt"

	"ReviewReporter/internal/domain"
	"ReviewReporter/internal/ports"
)

// ScoreReviews asks scorer for the polarity of every review, in order. Texts
// are passed to the scorer unchanged; the first error stops the pass.
func ScoreReviews(ctx context.Context, scorer ports.SentimentScorer, reviews []domain.Review) ([]domain.ScoredReview, error) {
	scored := make([]domain.ScoredReview, 0, len(reviews))
	for i, review := range reviews {
		polarity, err := scorer.Score(ctx, review.Text)
		if err != nil {
			return nil, fmt.Errorf("score review %d: %w", i, err)
		}
		scored = append(scored, domain.ScoredReview{Review: review, Polarity: polarity})
	}
	return scored, nil
}

// Categorize scores every review once and files its text under the
// matching category.
func Categorize(ctx context.Context, scorer ports.SentimentScorer, reviews []domain.Review) (domain.CategorizedSet, error) {
	scored, err := ScoreReviews(ctx, scorer, reviews)
	if err != nil {
		return domain.CategorizedSet{}, err
	}

	var set domain.CategorizedSet
	for _, sr := range scored {
		set.Add(domain.Classify(sr.Polarity), sr.Review.Text)
	}
	return set, nil
}
