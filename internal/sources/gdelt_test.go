package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func gdeltFixture() map[string]any {
	return map[string]any{
		"articles": []map[string]any{
			{
				"title":    "Kenya unveils new irrigation budget",
				"url":      "https://nation.africa/kenya/news/irrigation",
				"domain":   "nation.africa",
				"seendate": "20250812T070000Z",
				"tone":     "2.5",
			},
			{
				"title":    "Unrelated market report",
				"url":      "https://example.com/markets",
				"domain":   "example.com",
				"seendate": "20250812T080000Z",
			},
			{
				"title":    "County health coverage expands",
				"url":      "https://standardmedia.co.ke/kenya/health",
				"domain":   "standardmedia.co.ke",
				"seendate": "20250811T090000Z",
				"tone":     "-1.0",
			},
		},
	}
}

func TestGDELTSearch(t *testing.T) {
	var gotQuery, gotTimespan string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotTimespan = r.URL.Query().Get("timespan")
		_ = json.NewEncoder(w).Encode(gdeltFixture())
	}))
	defer srv.Close()

	c := NewGDELTClient(srv.URL, "kenya")
	items, err := c.Search(context.Background(), []string{"kenya", "irrigation", "budget", "water", "river"}, 7, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// Anchor plus at most three topic keywords.
	if gotQuery != "kenya irrigation budget water" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotTimespan != "7d" {
		t.Errorf("timespan = %q, want 7d", gotTimespan)
	}

	// The off-topic article is filtered; the second Kenya article is kept.
	if len(items) != 2 {
		t.Fatalf("expected 2 relevant items, got %d", len(items))
	}
	if items[0].Title != "Kenya unveils new irrigation budget" {
		t.Errorf("order not preserved: %q", items[0].Title)
	}
	if items[0].Tone != 2.5 {
		t.Errorf("tone = %v, want 2.5", items[0].Tone)
	}
}

func TestGDELTSearch_MaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(gdeltFixture())
	}))
	defer srv.Close()

	c := NewGDELTClient(srv.URL, "")
	items, err := c.Search(context.Background(), []string{"budget"}, 7, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected cap at 1 item, got %d", len(items))
	}
}

func TestGDELTSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewGDELTClient(srv.URL, "kenya")
	if _, err := c.Search(context.Background(), []string{"budget"}, 7, 5); err == nil {
		t.Error("expected error on 503 response")
	}
}
