package pipeline

import (
	"fmt"
	"strings"
	"testing"

	"github.com/govgpt/govgpt/internal/models"
)

func TestFormatCitations_OrderAndCap(t *testing.T) {
	bundle := &models.ContextBundle{}
	for i := 0; i < 3; i++ {
		bundle.Chunks = append(bundle.Chunks, models.Chunk{
			Text:     fmt.Sprintf("passage %d", i),
			Filename: fmt.Sprintf("doc%d.md", i),
			Score:    0.5,
		})
	}
	for i := 0; i < 7; i++ {
		bundle.News = append(bundle.News, models.NewsItem{
			Title:  fmt.Sprintf("article %d", i),
			URL:    fmt.Sprintf("https://example.ke/%d", i),
			Domain: "example.ke",
		})
	}

	citations := FormatCitations(bundle)

	if len(citations) != 8 {
		t.Fatalf("expected 3 document + 5 news citations, got %d", len(citations))
	}
	for i := 0; i < 3; i++ {
		c := citations[i]
		if c.Kind != models.CitationDocument {
			t.Errorf("citation %d: expected document kind, got %q", i, c.Kind)
		}
		if want := fmt.Sprintf("doc%d.md", i); c.Title != want {
			t.Errorf("citation %d: source order not preserved, got %q", i, c.Title)
		}
		if want := "Document: " + c.Title; c.Source != want {
			t.Errorf("citation %d: source label %q, want %q", i, c.Source, want)
		}
	}
	for i := 3; i < 8; i++ {
		c := citations[i]
		if c.Kind != models.CitationNews {
			t.Errorf("citation %d: expected news kind, got %q", i, c.Kind)
		}
		if want := fmt.Sprintf("article %d", i-3); c.Title != want {
			t.Errorf("citation %d: news order not preserved, got %q", i, c.Title)
		}
	}
}

func TestFormatCitations_RelevanceRounding(t *testing.T) {
	bundle := &models.ContextBundle{
		Chunks: []models.Chunk{{Filename: "a.md", Score: 0.87654}},
	}
	citations := FormatCitations(bundle)
	if citations[0].Relevance != 0.88 {
		t.Errorf("relevance should round to two decimals, got %v", citations[0].Relevance)
	}
}

func TestFormatCitations_PreviewTruncated(t *testing.T) {
	bundle := &models.ContextBundle{
		Chunks: []models.Chunk{{Filename: "a.md", Text: strings.Repeat("x", 200)}},
	}
	citations := FormatCitations(bundle)
	if want := strings.Repeat("x", 150) + "..."; citations[0].TextPreview != want {
		t.Errorf("preview should truncate at 150 characters, got length %d", len(citations[0].TextPreview))
	}
}

func TestFormatCitations_UnknownDomain(t *testing.T) {
	bundle := &models.ContextBundle{
		News: []models.NewsItem{{Title: "no domain", URL: "https://x"}},
	}
	citations := FormatCitations(bundle)
	if citations[0].Source != "Unknown" {
		t.Errorf("missing domain should cite Unknown, got %q", citations[0].Source)
	}
}

func TestFormatCitations_EmptyBundle(t *testing.T) {
	if got := FormatCitations(&models.ContextBundle{}); len(got) != 0 {
		t.Errorf("empty bundle should format to zero citations, got %d", len(got))
	}
}
