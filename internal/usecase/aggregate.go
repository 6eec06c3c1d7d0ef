package usecase

import "ReviewReporter/internal/domain"

// Aggregate derives counts, percentages and the overall verdict.
func Aggregate(set domain.CategorizedSet) domain.Summary {
	counts := set.Counts()
	summary := domain.Summary{
		Counts:  counts,
		Total:   counts.Total(),
		Verdict: Verdict(counts),
	}

	if summary.Total == 0 {
		return summary
	}
	for _, c := range domain.Categories() {
		summary.Percentages[c] = 100 * float64(counts[c]) / float64(summary.Total)
	}
	return summary
}

// Verdict compares Positive against Negative; anything else is Neutral.
func Verdict(counts domain.SentimentCounts) domain.Category {
	switch {
	case counts[domain.Positive] > counts[domain.Negative]:
		return domain.Positive
	case counts[domain.Negative] > counts[domain.Positive]:
		return domain.Negative
	default:
		return domain.Neutral
	}
}
