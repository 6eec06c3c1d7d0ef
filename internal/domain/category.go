package domain

// Category is the sentiment label assigned to a review.
type Category int

const (
	Positive Category = iota
	Neutral
	Negative
)

const categoryCount = 3

const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

var categoryNames = [categoryCount]string{"Positive", "Neutral", "Negative"}

// Categories returns every category in report order.
func Categories() []Category {
	return []Category{Positive, Neutral, Negative}
}

func (c Category) String() string {
	if c < 0 || int(c) >= categoryCount {
		return "Unknown"
	}
	return categoryNames[c]
}

// Classify maps a polarity score onto a category. Scores of exactly
// ±0.1 are Neutral.
func Classify(polarity float64) Category {
	switch {
	case polarity > positiveThreshold:
		return Positive
	case polarity < negativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// CategorizedSet holds review texts per category in fetch order.
type CategorizedSet struct {
	buckets [categoryCount][]string
}

// Add appends text to the bucket of c.
func (s *CategorizedSet) Add(c Category, text string) {
	s.buckets[c] = append(s.buckets[c], text)
}

// Reviews returns the texts filed under c.
func (s CategorizedSet) Reviews(c Category) []string {
	return s.buckets[c]
}

// Counts tallies the number of texts per category.
func (s CategorizedSet) Counts() SentimentCounts {
	var counts SentimentCounts
	for _, c := range Categories() {
		counts[c] = len(s.buckets[c])
	}
	return counts
}

// SentimentCounts is indexed by Category.
type SentimentCounts [categoryCount]int

// Total is the number of reviews across all categories.
func (c SentimentCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Summary is the aggregate view over a CategorizedSet.
type Summary struct {
	Counts      SentimentCounts
	Total       int
	Percentages [categoryCount]float64
	Verdict     Category
}

// Percentage returns the share of c in percent.
func (s Summary) Percentage(c Category) float64 {
	return s.Percentages[c]
}
