package domain

import (
	"strings"
	"time"
)

// Review is a single store review as fetched from a source.
type Review struct {
	ID     string
	Author string
	Text   string
	Rating int
	At     time.Time
}

// ScoredReview pairs a review with the polarity reported by a scorer.
type ScoredReview struct {
	Review   Review
	Polarity float64
}

// ExtractAppID returns the value of the id= parameter of a store URL,
// or the input unchanged when no id= marker is present.
func ExtractAppID(input string) string {
	_, rest, found := strings.Cut(input, "id=")
	if !found {
		return input
	}
	id, _, _ := strings.Cut(rest, "&")
	return id
}
