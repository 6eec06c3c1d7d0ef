package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ReviewReporter/internal/domain"
	"ReviewReporter/internal/ports"
	"ReviewReporter/internal/source"
)

var ratingExpr = regexp.MustCompile(`\d+`)

// Selectors locate review fields inside a listing page.
type Selectors struct {
	Item   string
	Text   string
	Author string
	Rating string
	Date   string
}

// HTMLSource crawls a paged HTML review listing, e.g. a store mirror or an
// exported review archive.
type HTMLSource struct {
	client    *http.Client
	listURL   string
	selectors Selectors
	pageSize  int
	logger    *slog.Logger
}

var _ source.Strategy = (*HTMLSource)(nil)

// NewHTMLSource wires an HTTP client; pageSize defaults to 50.
// listURL may contain {appId}, {lang} and {country} placeholders.
func NewHTMLSource(client *http.Client, listURL string, sel Selectors, pageSize int, log *slog.Logger) *HTMLSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	if sel.Item == "" {
		sel.Item = ".review"
	}
	if sel.Text == "" {
		sel.Text = ".review-text"
	}
	return &HTMLSource{
		client:    client,
		listURL:   listURL,
		selectors: sel,
		pageSize:  pageSize,
		logger:    log,
	}
}

// Name identifies the strategy inside the registry.
func (h *HTMLSource) Name() string {
	return "html"
}

// Fetch walks listing pages until req.Count reviews are collected or a short
// page signals the end of the listing.
func (h *HTMLSource) Fetch(ctx context.Context, req ports.FetchRequest) ([]domain.Review, error) {
	if h.listURL == "" {
		return nil, fmt.Errorf("html source has no listing url")
	}

	base := expandListURL(h.listURL, req)
	results := make([]domain.Review, 0, req.Count)

	for skip := 0; len(results) < req.Count; skip += h.pageSize {
		pageURL, err := buildPageURL(base, skip, h.pageSize)
		if err != nil {
			return nil, err
		}

		doc, err := h.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", skip/h.pageSize, err)
		}

		page, processed := h.extractReviews(doc)
		h.debug("parsed listing page", "url", pageURL, "items", processed, "reviews", len(page))
		results = append(results, page...)

		if processed < h.pageSize {
			break
		}
	}

	if len(results) > req.Count {
		results = results[:req.Count]
	}
	return results, nil
}

func (h *HTMLSource) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ReviewReporter/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (h *HTMLSource) extractReviews(doc *goquery.Document) ([]domain.Review, int) {
	var (
		collected []domain.Review
		processed int
	)

	doc.Find(h.selectors.Item).Each(func(i int, item *goquery.Selection) {
		processed++
		collected = append(collected, parseReview(item, h.selectors))
	})

	return collected, processed
}

func parseReview(item *goquery.Selection, sel Selectors) domain.Review {
	review := domain.Review{
		Text: strings.TrimSpace(item.Find(sel.Text).First().Text()),
	}

	if id, ok := item.Attr("data-review-id"); ok {
		review.ID = id
	}
	if sel.Author != "" {
		review.Author = strings.TrimSpace(item.Find(sel.Author).First().Text())
	}
	if sel.Rating != "" {
		rating := item.Find(sel.Rating).First()
		raw, ok := rating.Attr("data-rating")
		if !ok {
			raw = rating.Text()
		}
		if n, err := strconv.Atoi(ratingExpr.FindString(raw)); err == nil {
			review.Rating = n
		}
	}
	if sel.Date != "" {
		date := item.Find(sel.Date).First()
		raw, ok := date.Attr("datetime")
		if !ok {
			raw = strings.TrimSpace(date.Text())
		}
		if at, err := time.Parse(time.RFC3339, raw); err == nil {
			review.At = at.UTC()
		} else if at, err := time.Parse("2006-01-02", raw); err == nil {
			review.At = at
		}
	}

	return review
}

func expandListURL(raw string, req ports.FetchRequest) string {
	return strings.NewReplacer(
		"{appId}", url.QueryEscape(req.AppID),
		"{lang}", url.QueryEscape(req.Language),
		"{country}", url.QueryEscape(req.Country),
	).Replace(raw)
}

func buildPageURL(base string, skip, pageSize int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid listing url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("skip", strconv.Itoa(skip))
	query.Set("show", strconv.Itoa(pageSize))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (h *HTMLSource) debug(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}
