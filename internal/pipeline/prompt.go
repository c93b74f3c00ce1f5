package pipeline

import (
	"fmt"
	"strings"

	"github.com/govgpt/govgpt/internal/llm"
	"github.com/govgpt/govgpt/internal/models"
)

// Mode selects the trailing instruction of an assembled prompt.
type Mode int

const (
	// ModeNarrative assembles a prompt for free-form answer generation.
	ModeNarrative Mode = iota
	// ModeReport appends the structured decision-report instruction.
	ModeReport
)

// Per-section truncation lengths are fixed contracts: they bound the
// language-model input size deterministically regardless of source volume.
const (
	chunkTruncateLen = 500
	newsTruncateLen  = 300
	videoTruncateLen = 200
)

// AssemblePrompt renders the bounded context prompt for the question. It is
// a pure function: absent bundle fields simply omit their section, and no
// mode or bundle combination fails.
func AssemblePrompt(question string, bundle *models.ContextBundle, mode Mode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", question)
	b.WriteString("\nAnalyze using the provided context below:\n")

	if len(bundle.Chunks) > 0 {
		b.WriteString("\n## Document Context:\n")
		for _, c := range bundle.Chunks {
			source := c.Filename
			if source == "" {
				source = "Unknown source"
			}
			fmt.Fprintf(&b, "- %s: %s\n", source, truncate(c.Text, chunkTruncateLen))
		}
	}

	if len(bundle.News) > 0 {
		b.WriteString("\n## Recent News Context:\n")
		for _, n := range bundle.News {
			title := n.Title
			if title == "" {
				title = "News"
			}
			fmt.Fprintf(&b, "- %s: %s\n", title, truncate(n.Text, newsTruncateLen))
		}
	}

	if len(bundle.Videos) > 0 {
		b.WriteString("\n## Video Context:\n")
		for _, v := range bundle.Videos {
			title := v.Title
			if title == "" {
				title = "Video"
			}
			fmt.Fprintf(&b, "- %s: %s\n", title, truncate(v.Description, videoTruncateLen))
		}
	}

	if bundle.Sentiment != nil {
		d := bundle.Sentiment.Distribution
		b.WriteString("\n## Public Sentiment Context:\n")
		fmt.Fprintf(&b, "Overall public sentiment: %s (%d positive / %d negative / %d neutral posts)\n",
			bundle.Sentiment.Overall, d.Positive, d.Negative, d.Neutral)
	}

	if mode == ModeReport {
		b.WriteString(llm.ReportInstruction)
	}
	return b.String()
}

// truncate bounds s to max characters, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
