package pipeline

import (
	"strings"
	"testing"

	"github.com/govgpt/govgpt/internal/llm"
	"github.com/govgpt/govgpt/internal/models"
)

func TestAssemblePrompt_AllSections(t *testing.T) {
	bundle := &models.ContextBundle{
		Chunks: []models.Chunk{{Text: "The water act mandates county oversight.", Filename: "water.md"}},
		News:   []models.NewsItem{{Title: "Kenya irrigation push", Text: "New canals announced."}},
		Videos: []models.VideoItem{{Title: "Budget briefing", Description: "Treasury presents estimates."}},
		Sentiment: &models.SentimentSummary{
			Overall:      "optimistic",
			Distribution: models.SentimentDistribution{Positive: 3, Negative: 1, Neutral: 2},
		},
	}

	prompt := AssemblePrompt("Should we fund irrigation?", bundle, ModeNarrative)

	if !strings.HasPrefix(prompt, "Question: Should we fund irrigation?\n") {
		t.Errorf("prompt must open with the question, got %q", prompt[:60])
	}
	for _, want := range []string{
		"## Document Context:",
		"- water.md: The water act mandates county oversight.",
		"## Recent News Context:",
		"- Kenya irrigation push: New canals announced.",
		"## Video Context:",
		"- Budget briefing: Treasury presents estimates.",
		"## Public Sentiment Context:",
		"Overall public sentiment: optimistic (3 positive / 1 negative / 2 neutral posts)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, llm.ReportInstruction) {
		t.Error("narrative mode must not carry the report instruction")
	}
}

func TestAssemblePrompt_SectionsOmittedWhenEmpty(t *testing.T) {
	prompt := AssemblePrompt("What is the water act?", &models.ContextBundle{}, ModeNarrative)

	for _, header := range []string{
		"## Document Context:",
		"## Recent News Context:",
		"## Video Context:",
		"## Public Sentiment Context:",
	} {
		if strings.Contains(prompt, header) {
			t.Errorf("empty bundle must omit %q", header)
		}
	}
	if !strings.Contains(prompt, "Question: What is the water act?") {
		t.Error("question line must survive an empty bundle")
	}
}

func TestAssemblePrompt_Truncation(t *testing.T) {
	long := strings.Repeat("a", 600)
	bundle := &models.ContextBundle{
		Chunks: []models.Chunk{{Text: long, Filename: "doc.md"}},
		News:   []models.NewsItem{{Title: "n", Text: long}},
		Videos: []models.VideoItem{{Title: "v", Description: long}},
	}

	prompt := AssemblePrompt("q", bundle, ModeNarrative)

	if !strings.Contains(prompt, strings.Repeat("a", 500)+"...") {
		t.Error("chunk text should truncate at 500 characters with ellipsis")
	}
	if strings.Contains(prompt, strings.Repeat("a", 501)) {
		t.Error("no section may carry more than 500 consecutive source characters")
	}
	if !strings.Contains(prompt, "- n: "+strings.Repeat("a", 300)+"...") {
		t.Error("news text should truncate at 300 characters")
	}
	if !strings.Contains(prompt, "- v: "+strings.Repeat("a", 200)+"...") {
		t.Error("video description should truncate at 200 characters")
	}
}

func TestAssemblePrompt_NoEllipsisWhenUnder(t *testing.T) {
	bundle := &models.ContextBundle{Chunks: []models.Chunk{{Text: "short", Filename: "doc.md"}}}
	prompt := AssemblePrompt("q", bundle, ModeNarrative)
	if strings.Contains(prompt, "short...") {
		t.Error("text under the bound must not gain an ellipsis")
	}
}

func TestAssemblePrompt_ReportMode(t *testing.T) {
	prompt := AssemblePrompt("q", &models.ContextBundle{}, ModeReport)
	if !strings.HasSuffix(prompt, llm.ReportInstruction) {
		t.Error("report mode must end with the structured-report instruction")
	}
}

func TestAssemblePrompt_UnknownSourceFallback(t *testing.T) {
	bundle := &models.ContextBundle{Chunks: []models.Chunk{{Text: "orphaned text"}}}
	prompt := AssemblePrompt("q", bundle, ModeNarrative)
	if !strings.Contains(prompt, "- Unknown source: orphaned text") {
		t.Error("chunk without a filename should cite an unknown source")
	}
}
