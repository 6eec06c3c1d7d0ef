package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChartArtifact references a rendered chart image on disk.
type ChartArtifact struct {
	Path   string
	Width  float64
	Height float64
}

// SummaryRow is one line of the summary table.
type SummaryRow struct {
	Category   Category
	Count      int
	Percentage string
}

// SummaryTable is the sentiment/count/percentage table.
type SummaryTable struct {
	Header [3]string
	Rows   []SummaryRow
}

// Section lists the reviews of a single category.
type Section struct {
	Category Category
	Heading  string
	Header   string
	Reviews  []string
}

// Report is the document model handed to a renderer. Element order is
// title, chart, summary, sections, verdict.
type Report struct {
	AppID          string
	Title          string
	Chart          ChartArtifact
	SummaryHeading string
	Summary        SummaryTable
	Sections       []Section
	Verdict        string
}

// RunRecord is persisted after a successful run.
type RunRecord struct {
	ID          uuid.UUID
	AppID       string
	OutputPath  string
	Positive    int
	Neutral     int
	Negative    int
	Verdict     Category
	GeneratedAt time.Time
}

// ReportNotice announces a written report to outbound channels.
type ReportNotice struct {
	AppID      string
	OutputPath string
	Summary    Summary
}
