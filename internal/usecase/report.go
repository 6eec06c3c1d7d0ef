package usecase

import (
	"fmt"

	"ReviewReporter/internal/domain"
)

const reportSuffix = "_review_report.pdf"

// ReportFilename is the output file name for appID.
func ReportFilename(appID string) string {
	return appID + reportSuffix
}

// Assemble lays out the report in its fixed order: title, chart, summary
// table, one section per category, verdict.
func Assemble(appID string, set domain.CategorizedSet, summary domain.Summary, chart domain.ChartArtifact) domain.Report {
	report := domain.Report{
		AppID:          appID,
		Title:          fmt.Sprintf("App Review Analysis: %s", appID),
		Chart:          chart,
		SummaryHeading: "Summary of Sentiment Analysis:",
		Summary: domain.SummaryTable{
			Header: [3]string{"Sentiment", "Count", "Percentage"},
		},
		Verdict: fmt.Sprintf("Overall Sentiment: %s", summary.Verdict),
	}

	for _, c := range domain.Categories() {
		report.Summary.Rows = append(report.Summary.Rows, domain.SummaryRow{
			Category:   c,
			Count:      summary.Counts[c],
			Percentage: fmt.Sprintf("%.2f%%", summary.Percentage(c)),
		})
		report.Sections = append(report.Sections, domain.Section{
			Category: c,
			Heading:  fmt.Sprintf("%s Reviews:", c),
			Header:   "Review",
			Reviews:  set.Reviews(c),
		})
	}

	return report
}
