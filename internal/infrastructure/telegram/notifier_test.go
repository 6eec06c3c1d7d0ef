package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewReporter/internal/domain"
)

func sampleNotice(appID, path string) domain.ReportNotice {
	return domain.ReportNotice{
		AppID:      appID,
		OutputPath: path,
		Summary: domain.Summary{
			Counts:      domain.SentimentCounts{1, 1, 2},
			Total:       4,
			Percentages: [3]float64{25, 25, 50},
			Verdict:     domain.Negative,
		},
	}
}

func TestPublishSummary(t *testing.T) {
	t.Parallel()

	var (
		path string
		form map[string]string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, r.ParseForm())
		form = map[string]string{
			"chat_id":    r.PostForm.Get("chat_id"),
			"text":       r.PostForm.Get("text"),
			"parse_mode": r.PostForm.Get("parse_mode"),
		}
	}))
	defer server.Close()

	n := NewNotifier("token", "42")
	n.apiBase = server.URL
	n.client = server.Client()

	notice := sampleNotice("com.example.app", "out/com.example.app_review_report.pdf")
	require.NoError(t, n.PublishSummary(context.Background(), notice))

	assert.Equal(t, "/bottoken/sendMessage", path)
	assert.Equal(t, "42", form["chat_id"])
	assert.Equal(t, formatNotice(notice), form["text"])
	assert.Equal(t, "MarkdownV2", form["parse_mode"])
}

func TestFormatNotice(t *testing.T) {
	t.Parallel()

	msg := formatNotice(sampleNotice("com.example.app", "out/com.example.app_review_report.pdf"))

	lines := strings.Split(msg, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, `*App Review Analysis: com\.example\.app*`, lines[0])
	assert.Equal(t, `Positive: 1 \(25\.00%\)`, lines[1])
	assert.Equal(t, `Neutral: 1 \(25\.00%\)`, lines[2])
	assert.Equal(t, `Negative: 2 \(50\.00%\)`, lines[3])
	assert.Equal(t, "Overall Sentiment: Negative", lines[4])
	assert.Equal(t, "Report: `out/com.example.app_review_report.pdf`", lines[5])
}

func TestFormatNoticeEscapesUnderscores(t *testing.T) {
	t.Parallel()

	msg := formatNotice(sampleNotice("com.my_app", "/out/com.my_app_review_report.pdf"))

	lines := strings.Split(msg, "\n")
	assert.Equal(t, `*App Review Analysis: com\.my\_app*`, lines[0])
	assert.Equal(t, "Report: `/out/com.my_app_review_report.pdf`", lines[5])

	// Outside the code span every markup character must be escaped.
	plain := strings.Join(lines[:5], "\n")
	unescaped := regexp.MustCompile(`(^|[^\\])[_\[\]()~>#+\-=|{}.!]`)
	assert.False(t, unescaped.MatchString(plain), "unescaped markup in %q", plain)
}

func TestEscapeMarkdown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `a\_b\*c\[d\]\(e\)\!`, escapeMarkdown("a_b*c[d](e)!"))
	assert.Equal(t, `back\\slash`, escapeMarkdown(`back\slash`))
	assert.Equal(t, "a\\`b", codeEscaper.Replace("a`b"))
}

func TestPublishSummaryStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewNotifier("token", "42")
	n.apiBase = server.URL
	n.client = server.Client()

	require.Error(t, n.PublishSummary(context.Background(), sampleNotice("com.example.app", "r.pdf")))
}

func TestPublishSummaryMisconfigured(t *testing.T) {
	t.Parallel()

	require.Error(t, NewNotifier("", "").PublishSummary(context.Background(), sampleNotice("a", "b")))
}
