package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ReviewReporter/internal/ports"
)

func TestBuildPageURL(t *testing.T) {
	t.Parallel()

	base := "https://reviews.example.org/apps/com.example.app?lang=en"
	u, err := buildPageURL(base, 100, 50)
	if err != nil {
		t.Fatalf("buildPageURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}

	q := parsed.Query()
	if q.Get("skip") != "100" {
		t.Fatalf("expected skip=100, got %s", q.Get("skip"))
	}
	if q.Get("show") != "50" {
		t.Fatalf("expected show=50, got %s", q.Get("show"))
	}
	if q.Get("lang") != "en" {
		t.Fatalf("expected existing query to survive, got %s", parsed.RawQuery)
	}
}

func TestExpandListURL(t *testing.T) {
	t.Parallel()

	got := expandListURL("https://mirror.example.org/{appId}/reviews?hl={lang}&gl={country}", ports.FetchRequest{
		AppID:    "com.example.app",
		Language: "en",
		Country:  "us",
	})
	want := "https://mirror.example.org/com.example.app/reviews?hl=en&gl=us"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseReview(t *testing.T) {
	t.Parallel()

	html := `
	<ul>
	  <li class="review" data-review-id="r-1">
	    <span class="author">Alice</span>
	    <span class="stars" data-rating="4">4 stars</span>
	    <time datetime="2025-11-08T10:00:00Z">8 Nov</time>
	    <p class="review-text">  Works great on my phone.  </p>
	  </li>
	</ul>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	review := parseReview(doc.Find(".review").First(), Selectors{
		Item:   ".review",
		Text:   ".review-text",
		Author: ".author",
		Rating: ".stars",
		Date:   "time",
	})

	if review.ID != "r-1" {
		t.Fatalf("unexpected id: %s", review.ID)
	}
	if review.Text != "Works great on my phone." {
		t.Fatalf("unexpected text: %q", review.Text)
	}
	if review.Author != "Alice" {
		t.Fatalf("unexpected author: %s", review.Author)
	}
	if review.Rating != 4 {
		t.Fatalf("unexpected rating: %d", review.Rating)
	}
	want := time.Date(2025, time.November, 8, 10, 0, 0, 0, time.UTC)
	if !review.At.Equal(want) {
		t.Fatalf("unexpected date: %v", review.At)
	}
}

func TestHTMLSourceFetchPages(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("skip") {
		case "0":
			_, _ = w.Write([]byte(`
			<div class="review"><p class="review-text">first</p></div>
			<div class="review"><p class="review-text">second</p></div>`))
		default:
			_, _ = w.Write([]byte(`
			<div class="review"><p class="review-text">third</p></div>`))
		}
	}))
	defer server.Close()

	src := NewHTMLSource(server.Client(), server.URL+"/{appId}", Selectors{}, 2, nil)

	reviews, err := src.Fetch(context.Background(), ports.FetchRequest{AppID: "com.example.app", Count: 10})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(reviews))
	}
	if reviews[0].Text != "first" || reviews[2].Text != "third" {
		t.Fatalf("unexpected order: %+v", reviews)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 page requests, got %d", calls.Load())
	}
}

func TestHTMLSourceFetchTruncatesToCount(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
		<div class="review"><p class="review-text">a</p></div>
		<div class="review"><p class="review-text">b</p></div>`))
	}))
	defer server.Close()

	src := NewHTMLSource(server.Client(), server.URL, Selectors{}, 2, nil)

	reviews, err := src.Fetch(context.Background(), ports.FetchRequest{Count: 3})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(reviews))
	}
}

func TestHTMLSourceFetchStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	src := NewHTMLSource(server.Client(), server.URL, Selectors{}, 10, nil)
	if _, err := src.Fetch(context.Background(), ports.FetchRequest{Count: 5}); err == nil {
		t.Fatal("expected error for 404 listing")
	}
}
