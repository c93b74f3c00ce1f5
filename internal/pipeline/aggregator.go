// Package pipeline implements the context aggregation and adaptive response
// pipeline: keyword-driven context gathering across independent sources,
// bounded prompt assembly, routed answer generation (streamed narrative or
// structured decision report), and citation formatting.
package pipeline

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/govgpt/govgpt/internal/models"
	"github.com/govgpt/govgpt/internal/sources"
)

// AggregatorConfig bounds each source fetch.
type AggregatorConfig struct {
	DocumentLimit int
	LookbackDays  int
	MaxNews       int
	MaxVideos     int
}

// Aggregator fans out to the independent context sources. Each source is an
// isolated failure boundary: an error or a nil collaborator degrades that
// one bundle field to empty and never affects the others. Gather always
// returns a well-formed bundle.
type Aggregator struct {
	documents sources.DocumentRetriever
	news      sources.NewsRetriever
	videos    sources.VideoRetriever
	social    sources.SentimentFetcher
	config    AggregatorConfig
	logger    *zap.Logger
}

// NewAggregator wires the four context sources. Any collaborator may be nil
// (disabled); its bundle field stays empty.
func NewAggregator(
	documents sources.DocumentRetriever,
	news sources.NewsRetriever,
	videos sources.VideoRetriever,
	social sources.SentimentFetcher,
	cfg AggregatorConfig,
	logger *zap.Logger,
) *Aggregator {
	if cfg.DocumentLimit <= 0 {
		cfg.DocumentLimit = 5
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 7
	}
	if cfg.MaxNews <= 0 {
		cfg.MaxNews = 10
	}
	if cfg.MaxVideos <= 0 {
		cfg.MaxVideos = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		documents: documents,
		news:      news,
		videos:    videos,
		social:    social,
		config:    cfg,
		logger:    logger,
	}
}

// Gather collects context for the question. The four sources have no data
// dependency on each other and run concurrently; each goroutine writes only
// its own bundle field, so one source's failure or latency cannot corrupt
// another's result.
func (a *Aggregator) Gather(ctx context.Context, question string, keywords []string) *models.ContextBundle {
	bundle := &models.ContextBundle{
		Chunks: []models.Chunk{},
		News:   []models.NewsItem{},
		Videos: []models.VideoItem{},
	}
	topicQuery := strings.Join(keywords, " ")

	var wg sync.WaitGroup

	if a.documents != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chunks, err := a.documents.Search(ctx, question, a.config.DocumentLimit)
			if err != nil {
				a.logger.Warn("document search failed", zap.Error(err))
				return
			}
			bundle.Chunks = chunks
		}()
	}

	if a.news != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := a.news.Search(ctx, keywords, a.config.LookbackDays, a.config.MaxNews)
			if err != nil {
				a.logger.Warn("news fetch failed", zap.Error(err))
				return
			}
			bundle.News = items
		}()
	}

	if a.videos != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := a.videos.Search(ctx, topicQuery, a.config.MaxVideos)
			if err != nil {
				a.logger.Warn("video search failed", zap.Error(err))
				return
			}
			bundle.Videos = items
		}()
	}

	if a.social != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, err := a.social.Fetch(ctx, keywords)
			if err != nil {
				a.logger.Warn("sentiment fetch failed", zap.Error(err))
				return
			}
			bundle.Sentiment = summary
		}()
	}

	wg.Wait()

	// Sources may legally return nil slices; normalize so the bundle's
	// sequence fields are never null.
	if bundle.Chunks == nil {
		bundle.Chunks = []models.Chunk{}
	}
	if bundle.News == nil {
		bundle.News = []models.NewsItem{}
	}
	if bundle.Videos == nil {
		bundle.Videos = []models.VideoItem{}
	}

	stats := bundle.Stats()
	a.logger.Debug("context gathered",
		zap.Int("documents", stats.Documents),
		zap.Int("news", stats.News),
		zap.Int("videos", stats.Videos),
		zap.Int("social_posts", stats.SocialPosts),
	)
	return bundle
}
