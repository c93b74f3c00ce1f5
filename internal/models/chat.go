package models

// Query types assigned by the classifier.
const (
	QueryDecision    = "decision"
	QueryExploratory = "exploratory"
)

// Classification labels a question as decision or exploratory, with a
// deterministic confidence score and a human-readable reasoning string.
type Classification struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Citation kinds.
const (
	CitationDocument = "document"
	CitationNews     = "news"
)

// Citation points a response back at one piece of source context.
type Citation struct {
	Kind        string  `json:"type"`
	Title       string  `json:"title"`
	Source      string  `json:"source"`
	URL         string  `json:"url,omitempty"`
	Relevance   float64 `json:"relevance,omitempty"`
	TextPreview string  `json:"text_preview,omitempty"`
	Date        string  `json:"date,omitempty"`
}

// Stream event types, in their required emission order: one classification,
// one context_stats, then either one report or any number of content events,
// then one citations event. Error events may appear in place of content.
const (
	EventClassification = "classification"
	EventContextStats   = "context_stats"
	EventContent        = "content"
	EventReport         = "report"
	EventCitations      = "citations"
	EventError          = "error"
)

// StreamEvent is one element of the streamed response protocol.
type StreamEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ChatRequest is the boundary-layer request for all chat entry points.
// The include flags default to true when absent from the request body.
type ChatRequest struct {
	Message          string `json:"message"`
	IncludeNews      bool   `json:"include_news"`
	IncludeSentiment bool   `json:"include_sentiment"`
}

// ContextUsage summarizes which context fed an atomic answer.
type ContextUsage struct {
	Documents         int  `json:"documents"`
	NewsArticles      int  `json:"news_articles"`
	Videos            int  `json:"videos"`
	SentimentIncluded bool `json:"sentiment_included"`
}

// ChatResponse is the atomic (non-streaming) answer.
type ChatResponse struct {
	Answer      string       `json:"answer"`
	Citations   []Citation   `json:"citations"`
	ContextUsed ContextUsage `json:"context_used"`
}
