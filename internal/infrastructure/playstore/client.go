package playstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"ReviewReporter/internal/domain"
	"ReviewReporter/internal/ports"
	"ReviewReporter/internal/source"
)

const (
	defaultBaseURL = "https://play.google.com"
	batchPath      = "/_/PlayStoreUi/data/batchexecute"
	reviewsRPC     = "UsvDTd"
	maxPageSize    = 199
	responseGuard  = ")]}'"
)

var sortCodes = map[ports.SortOrder]int{
	ports.SortMostRelevant: 1,
	ports.SortNewest:       2,
	ports.SortRating:       3,
}

// Client pulls reviews from the Play Store batchexecute endpoint.
type Client struct {
	client   *http.Client
	baseURL  string
	pageSize int
	logger   *slog.Logger
}

var _ source.Strategy = (*Client)(nil)

// NewClient wires an HTTP client; an empty baseURL targets play.google.com.
func NewClient(client *http.Client, baseURL string, log *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		client:   client,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		pageSize: maxPageSize,
		logger:   log,
	}
}

// Name identifies the strategy inside the registry.
func (c *Client) Name() string {
	return "playstore"
}

// Fetch pages through the review feed until req.Count reviews are collected
// or the store stops returning a continuation token.
func (c *Client) Fetch(ctx context.Context, req ports.FetchRequest) ([]domain.Review, error) {
	if req.AppID == "" {
		return nil, fmt.Errorf("app id is required")
	}
	sortCode, ok := sortCodes[req.Sort]
	if !ok {
		sortCode = sortCodes[ports.SortMostRelevant]
	}

	var (
		reviews []domain.Review
		token   string
	)
	for len(reviews) < req.Count {
		size := min(req.Count-len(reviews), c.pageSize)
		page, next, err := c.fetchPage(ctx, req, sortCode, size, token)
		if err != nil {
			return nil, err
		}
		c.debug("fetched review page", "app_id", req.AppID, "count", len(page), "has_next", next != "")

		reviews = append(reviews, page...)
		if len(page) == 0 || next == "" {
			break
		}
		token = next
	}

	if len(reviews) > req.Count {
		reviews = reviews[:req.Count]
	}
	return reviews, nil
}

func (c *Client) fetchPage(ctx context.Context, req ports.FetchRequest, sortCode, size int, token string) ([]domain.Review, string, error) {
	form, err := buildRequestBody(req.AppID, sortCode, size, token)
	if err != nil {
		return nil, "", err
	}

	endpoint, err := url.Parse(c.baseURL + batchPath)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base url %s: %w", c.baseURL, err)
	}
	query := endpoint.Query()
	query.Set("hl", req.Language)
	query.Set("gl", req.Country)
	endpoint.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(form))
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
	httpReq.Header.Set("User-Agent", "ReviewReporter/1.0")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("request reviews: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("play store returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}

	return parseResponse(string(body))
}

func buildRequestBody(appID string, sortCode, size int, token string) (string, error) {
	app, err := json.Marshal(appID)
	if err != nil {
		return "", fmt.Errorf("encode app id: %w", err)
	}
	tok := "null"
	if token != "" {
		raw, err := json.Marshal(token)
		if err != nil {
			return "", fmt.Errorf("encode token: %w", err)
		}
		tok = string(raw)
	}

	inner := fmt.Sprintf(`[null,null,[2,%d,[%d,null,%s],null,[]],[%s,7]]`, sortCode, size, tok, app)
	outer, err := json.Marshal([]any{[]any{[]any{reviewsRPC, inner, nil, "generic"}}})
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	form := url.Values{}
	form.Set("f.req", string(outer))
	return form.Encode(), nil
}

func parseResponse(body string) ([]domain.Review, string, error) {
	if idx := strings.Index(body, responseGuard); idx >= 0 {
		body = body[idx+len(responseGuard):]
	}
	body = strings.TrimSpace(body)
	if !gjson.Valid(body) {
		return nil, "", fmt.Errorf("malformed batchexecute response")
	}

	var payload string
	for _, entry := range gjson.Parse(body).Array() {
		if entry.Get("0").String() == "wrb.fr" && entry.Get("1").String() == reviewsRPC {
			payload = entry.Get("2").String()
			break
		}
	}
	if payload == "" || !gjson.Valid(payload) {
		return nil, "", nil
	}

	data := gjson.Parse(payload)
	items := data.Get("0").Array()
	reviews := make([]domain.Review, 0, len(items))
	for _, item := range items {
		reviews = append(reviews, parseReview(item))
	}

	return reviews, continuationToken(data), nil
}

func parseReview(item gjson.Result) domain.Review {
	review := domain.Review{
		ID:     item.Get("0").String(),
		Author: item.Get("1.0").String(),
		Rating: int(item.Get("2").Int()),
		Text:   item.Get("4").String(),
	}
	if secs := item.Get("5.0").Int(); secs > 0 {
		review.At = time.Unix(secs, 0).UTC()
	}
	return review
}

func continuationToken(data gjson.Result) string {
	parts := data.Array()
	if len(parts) < 2 {
		return ""
	}
	tail := parts[len(parts)-2].Array()
	if len(tail) == 0 {
		return ""
	}
	last := tail[len(tail)-1]
	if last.Type != gjson.String {
		return ""
	}
	return last.String()
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
