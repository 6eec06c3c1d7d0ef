package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ReviewReporter/internal/domain"
	"ReviewReporter/internal/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// Characters Telegram MarkdownV2 treats as markup in plain text.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
	"~", `\~`, "`", "\\`", ">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`,
	"=", `\=`, "|", `\|`, "{", `\{`, "}", `\}`, ".", `\.`, "!", `\!`,
)

// Inside a code span only the backtick and backslash are special.
var codeEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`")

// Notifier sends report summaries to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// PublishSummary posts the report summary as a MarkdownV2 message.
func (n *Notifier) PublishSummary(ctx context.Context, notice domain.ReportNotice) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", formatNotice(notice))
	form.Set("parse_mode", "MarkdownV2")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// formatNotice renders a bold title, one line per category, the verdict and
// the report path as a code span.
func formatNotice(notice domain.ReportNotice) string {
	summary := notice.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", escapeMarkdown("App Review Analysis: "+notice.AppID))
	for _, c := range domain.Categories() {
		line := fmt.Sprintf("%s: %d (%.2f%%)", c, summary.Counts[c], summary.Percentage(c))
		b.WriteString(escapeMarkdown(line))
		b.WriteByte('\n')
	}
	b.WriteString(escapeMarkdown("Overall Sentiment: " + summary.Verdict.String()))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Report: `%s`", codeEscaper.Replace(notice.OutputPath))
	return b.String()
}

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}
