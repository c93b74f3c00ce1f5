package pipeline

import (
	"math"

	"github.com/govgpt/govgpt/internal/models"
)

// Citation formatting contracts: every document chunk cites, news citations
// cap at five, previews cap at 150 characters.
const (
	maxNewsCitations = 5
	previewLen       = 150
)

// FormatCitations converts a bundle into the uniform citation list appended
// to every response: all document citations first, then up to five news
// citations, both in the bundle's existing order.
func FormatCitations(bundle *models.ContextBundle) []models.Citation {
	citations := make([]models.Citation, 0, len(bundle.Chunks)+maxNewsCitations)

	for _, c := range bundle.Chunks {
		citations = append(citations, models.Citation{
			Kind:        models.CitationDocument,
			Title:       c.Filename,
			Source:      "Document: " + c.Filename,
			Relevance:   math.Round(c.Score*100) / 100,
			TextPreview: truncate(c.Text, previewLen),
		})
	}

	for i, n := range bundle.News {
		if i >= maxNewsCitations {
			break
		}
		source := n.Domain
		if source == "" {
			source = "Unknown"
		}
		citations = append(citations, models.Citation{
			Kind:   models.CitationNews,
			Title:  n.Title,
			Source: source,
			URL:    n.URL,
			Date:   n.PublishedAt,
		})
	}
	return citations
}
