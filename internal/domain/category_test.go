package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		polarity float64
		want     Category
	}{
		{polarity: 1, want: Positive},
		{polarity: 0.5, want: Positive},
		{polarity: 0.1000001, want: Positive},
		{polarity: 0.1, want: Neutral},
		{polarity: 0, want: Neutral},
		{polarity: -0.1, want: Neutral},
		{polarity: -0.1000001, want: Negative},
		{polarity: -0.5, want: Negative},
		{polarity: -1, want: Negative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.polarity), "polarity %v", tt.polarity)
	}
}

func TestCategoryOrderAndLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Category{Positive, Neutral, Negative}, Categories())
	assert.Equal(t, "Positive", Positive.String())
	assert.Equal(t, "Neutral", Neutral.String())
	assert.Equal(t, "Negative", Negative.String())
	assert.Equal(t, "Unknown", Category(7).String())
}

func TestCategorizedSet(t *testing.T) {
	t.Parallel()

	var set CategorizedSet
	set.Add(Negative, "b")
	set.Add(Positive, "a")
	set.Add(Negative, "b")

	assert.Equal(t, []string{"a"}, set.Reviews(Positive))
	assert.Empty(t, set.Reviews(Neutral))
	assert.Equal(t, []string{"b", "b"}, set.Reviews(Negative))

	counts := set.Counts()
	assert.Equal(t, SentimentCounts{1, 0, 2}, counts)
	assert.Equal(t, 3, counts.Total())
}
