package lexicon

import (
	"context"

	"github.com/jonreiter/govader"
	"golang.org/x/text/unicode/norm"

	"ReviewReporter/internal/ports"
)

// Scorer rates text with the VADER lexicon; the compound score is the polarity.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

var _ ports.SentimentScorer = (*Scorer)(nil)

// NewScorer loads the bundled lexicon.
func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity of text in [-1, 1].
func (s *Scorer) Score(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	scores := s.analyzer.PolarityScores(norm.NFKC.String(text))
	return max(-1, min(1, scores.Compound)), nil
}
