package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMastodonSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "healthcare" {
			t.Errorf("q = %q, want healthcare", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"statuses": []map[string]any{
				{
					"content":    "<p>Universal <b>healthcare</b> rollout is good news</p>",
					"url":        "https://mastodon.social/@a/1",
					"created_at": "2025-08-10T10:00:00Z",
					"account":    map[string]any{"acct": "wanjiru"},
				},
				{"content": "<p></p>"},
			},
		})
	}))
	defer srv.Close()

	c := NewMastodonClient(srv.URL, "")
	posts, err := c.Search(context.Background(), "healthcare", 20)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post (empty content dropped), got %d", len(posts))
	}
	p := posts[0]
	if p.Content != "Universal healthcare rollout is good news" {
		t.Errorf("content not stripped of HTML: %q", p.Content)
	}
	if p.Platform != "mastodon" || p.Author != "wanjiru" {
		t.Errorf("unexpected post: %+v", p)
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<p>Budget  day</p><br><a href=\"x\">link</a>")
	if got != "Budget day link" {
		t.Errorf("StripHTML = %q", got)
	}
}
