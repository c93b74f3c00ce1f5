package models

// Chunk is a scored document passage returned by the document retriever.
// The pipeline only reads Text, Filename, and Score; offsets are carried
// through for clients that want to highlight the source passage.
type Chunk struct {
	Text     string  `json:"text"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
	Start    int     `json:"start,omitempty"`
	End      int     `json:"end,omitempty"`
}

// NewsItem is a news article from the news retriever.
type NewsItem struct {
	Title       string  `json:"title"`
	Text        string  `json:"text,omitempty"`
	URL         string  `json:"url"`
	Domain      string  `json:"domain"`
	PublishedAt string  `json:"published_at,omitempty"`
	Tone        float64 `json:"tone,omitempty"`
}

// VideoItem is a video search result.
type VideoItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Channel     string `json:"channel,omitempty"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// SocialPost is a single post fetched from a social platform.
type SocialPost struct {
	Platform  string `json:"platform"`
	Author    string `json:"author,omitempty"`
	Content   string `json:"content"`
	URL       string `json:"url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
}

// SentimentDistribution counts posts per sentiment label.
type SentimentDistribution struct {
	Positive    int     `json:"positive"`
	Negative    int     `json:"negative"`
	Neutral     int     `json:"neutral"`
	PositivePct float64 `json:"positive_pct"`
	NegativePct float64 `json:"negative_pct"`
	NeutralPct  float64 `json:"neutral_pct"`
}

// SentimentSummary aggregates social posts with an overall mood label
// ("optimistic", "concerned", "balanced", or "unknown" when no posts scored).
type SentimentSummary struct {
	Posts        []SocialPost          `json:"posts"`
	Distribution SentimentDistribution `json:"sentiment_distribution"`
	Overall      string                `json:"overall"`
}

// ContextBundle aggregates independently-sourced context for one question.
// Any field may be empty or nil when its source failed or was disabled;
// the bundle itself is always well-formed.
type ContextBundle struct {
	Chunks    []Chunk           `json:"document_chunks"`
	News      []NewsItem        `json:"news"`
	Videos    []VideoItem       `json:"videos"`
	Sentiment *SentimentSummary `json:"sentiment,omitempty"`
}

// ContextStats holds per-source result counts, reported instead of raw payloads.
type ContextStats struct {
	Documents   int `json:"documents"`
	News        int `json:"news"`
	Videos      int `json:"videos"`
	SocialPosts int `json:"social_posts"`
}

// Stats returns per-source counts for the bundle.
func (b *ContextBundle) Stats() ContextStats {
	s := ContextStats{
		Documents: len(b.Chunks),
		News:      len(b.News),
		Videos:    len(b.Videos),
	}
	if b.Sentiment != nil {
		s.SocialPosts = len(b.Sentiment.Posts)
	}
	return s
}

// Filtered returns a copy of the bundle with the news and sentiment fields
// dropped when their include flags are off. Fetching and using a source are
// independent toggles; this applies the "use" side.
func (b *ContextBundle) Filtered(includeNews, includeSentiment bool) *ContextBundle {
	out := &ContextBundle{
		Chunks: b.Chunks,
		Videos: b.Videos,
	}
	if includeNews {
		out.News = b.News
	}
	if includeSentiment {
		out.Sentiment = b.Sentiment
	}
	return out
}
