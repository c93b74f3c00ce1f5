// Package sources provides the external context collaborators: document
// retrieval, news, video search, and social sentiment. Each implementation
// is a thin call to one external capability; the aggregation pipeline treats
// them uniformly through the interfaces below.
package sources

import (
	"context"

	"github.com/govgpt/govgpt/internal/models"
)

// DocumentRetriever searches indexed policy documents. Implementations must
// return an empty slice, not an error, when the index is not yet populated.
type DocumentRetriever interface {
	Search(ctx context.Context, query string, limit int) ([]models.Chunk, error)
}

// NewsRetriever fetches recent news for the given keywords within a
// lookback window.
type NewsRetriever interface {
	Search(ctx context.Context, keywords []string, lookbackDays, maxResults int) ([]models.NewsItem, error)
}

// VideoRetriever searches topic videos.
type VideoRetriever interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.VideoItem, error)
}

// SentimentFetcher collects social posts on the keywords and summarizes
// their sentiment.
type SentimentFetcher interface {
	Fetch(ctx context.Context, keywords []string) (*models.SentimentSummary, error)
}
