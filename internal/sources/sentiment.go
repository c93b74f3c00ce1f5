package sources

import (
	"context"
	"math"
	"strings"

	"github.com/govgpt/govgpt/internal/models"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// polarityThreshold separates positive/negative from neutral.
const polarityThreshold = 0.1

var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "progress": {}, "improve": {},
	"improved": {}, "improving": {}, "success": {}, "successful": {},
	"benefit": {}, "benefits": {}, "support": {}, "supports": {}, "win": {},
	"growth": {}, "opportunity": {}, "hope": {}, "hopeful": {}, "better": {},
	"positive": {}, "strong": {}, "welcome": {}, "praise": {}, "gain": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "poor": {}, "corruption": {}, "corrupt": {}, "fail": {},
	"failed": {}, "failure": {}, "failing": {}, "crisis": {}, "problem": {},
	"problems": {}, "worse": {}, "worst": {}, "loss": {}, "waste": {},
	"scandal": {}, "protest": {}, "anger": {}, "angry": {}, "negative": {},
	"weak": {}, "decline": {}, "debt": {}, "broken": {}, "strike": {},
}

// AnalyzeSentiment scores text polarity against the word lexicons and maps
// it to a label. Short or lexicon-free text is neutral.
func AnalyzeSentiment(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) < 3 {
		return SentimentNeutral
	}
	var pos, neg int
	for _, w := range strings.Fields(text) {
		w = strings.Trim(w, ".,!?;:'\"()")
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return SentimentNeutral
	}
	polarity := float64(pos-neg) / float64(pos+neg)
	switch {
	case polarity > polarityThreshold:
		return SentimentPositive
	case polarity < -polarityThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// SocialAggregator is the social-sentiment collaborator: it fetches posts
// from the social platform, scores each one, and summarizes the
// distribution.
type SocialAggregator struct {
	mastodon *MastodonClient
	maxPosts int
}

// NewSocialAggregator creates the aggregator. mastodon may be nil, in which
// case Fetch returns an empty summary.
func NewSocialAggregator(mastodon *MastodonClient, maxPosts int) *SocialAggregator {
	if maxPosts <= 0 {
		maxPosts = 20
	}
	return &SocialAggregator{mastodon: mastodon, maxPosts: maxPosts}
}

// Fetch collects posts for the first keyword and summarizes their
// sentiment.
func (a *SocialAggregator) Fetch(ctx context.Context, keywords []string) (*models.SentimentSummary, error) {
	query := "kenya"
	if len(keywords) > 0 {
		query = keywords[0]
	}

	var posts []models.SocialPost
	if a.mastodon != nil {
		fetched, err := a.mastodon.Search(ctx, query, a.maxPosts)
		if err != nil {
			return nil, err
		}
		posts = fetched
	}

	for i := range posts {
		posts[i].Sentiment = AnalyzeSentiment(posts[i].Content)
	}
	return Summarize(posts), nil
}

// Summarize builds the sentiment distribution and overall mood label for
// the scored posts. With no posts the overall label is "unknown".
func Summarize(posts []models.SocialPost) *models.SentimentSummary {
	summary := &models.SentimentSummary{Posts: posts, Overall: "unknown"}
	if len(posts) == 0 {
		summary.Posts = []models.SocialPost{}
		return summary
	}

	d := &summary.Distribution
	for _, p := range posts {
		switch p.Sentiment {
		case SentimentPositive:
			d.Positive++
		case SentimentNegative:
			d.Negative++
		default:
			d.Neutral++
		}
	}
	total := float64(len(posts))
	d.PositivePct = roundPct(float64(d.Positive) / total)
	d.NegativePct = roundPct(float64(d.Negative) / total)
	d.NeutralPct = roundPct(float64(d.Neutral) / total)

	switch {
	case d.Positive > d.Negative:
		summary.Overall = "optimistic"
	case d.Negative > d.Positive:
		summary.Overall = "concerned"
	default:
		summary.Overall = "balanced"
	}
	return summary
}

func roundPct(frac float64) float64 {
	return math.Round(frac*1000) / 10
}
