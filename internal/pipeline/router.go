package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/govgpt/govgpt/internal/classify"
	"github.com/govgpt/govgpt/internal/keywords"
	"github.com/govgpt/govgpt/internal/llm"
	"github.com/govgpt/govgpt/internal/models"
)

// reportConfidenceThreshold gates the structured-report path: a decision
// classification takes it only at or above this confidence.
const reportConfidenceThreshold = 0.70

// generationFailedMessage stands in for a narrative answer when the atomic
// completion call fails; context-source failures never reach here.
const generationFailedMessage = "Answer generation failed. Please try again."

// Options gate whether fetched news and sentiment are passed into prompt
// assembly and citation formatting. Fetch and use are independent toggles.
type Options struct {
	IncludeNews      bool
	IncludeSentiment bool
}

// Router drives one of two output protocols per question: an incrementally
// streamed narrative, or an atomically returned decision report. It holds
// no per-request state; every call is independent.
type Router struct {
	extractor  *keywords.Extractor
	classifier *classify.Classifier
	aggregator *Aggregator
	llm        llm.Client
	logger     *zap.Logger
}

// NewRouter wires the pipeline. llmClient may be nil, in which case the
// narrative path produces a canned unavailable message and the report path
// fails with llm.ErrUnavailable.
func NewRouter(
	extractor *keywords.Extractor,
	classifier *classify.Classifier,
	aggregator *Aggregator,
	llmClient llm.Client,
	logger *zap.Logger,
) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		extractor:  extractor,
		classifier: classifier,
		aggregator: aggregator,
		llm:        llmClient,
		logger:     logger,
	}
}

// Stream processes the question and emits the ordered event protocol:
// exactly one classification event, one context_stats event, then either
// one report event or content events (with the mandatory fallback from
// report to narrative on any report failure), and finally one citations
// event. The channel is closed after the citations event, or earlier when
// ctx is cancelled and the consumer stops pulling.
func (r *Router) Stream(ctx context.Context, question string, opts Options) <-chan models.StreamEvent {
	out := make(chan models.StreamEvent)
	go func() {
		defer close(out)
		emit := func(ev models.StreamEvent) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		classification := r.classifier.Classify(question)
		r.logger.Info("question classified",
			zap.String("type", classification.Type),
			zap.Float64("confidence", classification.Confidence),
			zap.String("reasoning", classification.Reasoning),
		)
		if !emit(models.StreamEvent{Type: models.EventClassification, Data: classification}) {
			return
		}

		kws := r.extractor.Extract(question)
		bundle := r.aggregator.Gather(ctx, question, kws)
		if !emit(models.StreamEvent{Type: models.EventContextStats, Data: bundle.Stats()}) {
			return
		}
		used := bundle.Filtered(opts.IncludeNews, opts.IncludeSentiment)

		if classification.Type == models.QueryDecision && classification.Confidence >= reportConfidenceThreshold {
			report, err := r.generateReport(ctx, question, used)
			if err == nil {
				if !emit(models.StreamEvent{Type: models.EventReport, Data: report}) {
					return
				}
				emit(models.StreamEvent{Type: models.EventCitations, Data: FormatCitations(used)})
				return
			}
			// Structured generation is strictly less reliable than free
			// text against the same model; fall back rather than
			// terminating the stream.
			r.logger.Warn("report generation failed, falling back to narrative", zap.Error(err))
		}

		if !r.streamNarrative(ctx, question, used, emit) {
			return
		}
		emit(models.StreamEvent{Type: models.EventCitations, Data: FormatCitations(used)})
	}()
	return out
}

// streamNarrative emits the narrative answer as content events, preserving
// the model's fragment order exactly. Returns false when the consumer went
// away.
func (r *Router) streamNarrative(ctx context.Context, question string, used *models.ContextBundle, emit func(models.StreamEvent) bool) bool {
	if r.llm == nil {
		return emit(models.StreamEvent{Type: models.EventContent, Data: llm.UnavailableMessage})
	}
	prompt := AssemblePrompt(question, used, ModeNarrative)
	fragments, err := r.llm.Stream(ctx, llm.SystemPrompt, prompt)
	if err != nil {
		r.logger.Error("narrative stream failed to start", zap.Error(err))
		return emit(models.StreamEvent{Type: models.EventError, Data: map[string]string{"message": err.Error()}})
	}
	for f := range fragments {
		if f.Err != nil {
			r.logger.Error("narrative stream failed", zap.Error(f.Err))
			return emit(models.StreamEvent{Type: models.EventError, Data: map[string]string{"message": f.Err.Error()}})
		}
		if !emit(models.StreamEvent{Type: models.EventContent, Data: f.Text}) {
			return false
		}
	}
	return true
}

// Message processes the question atomically: classification and context
// gathering as in streaming mode, then a single-shot narrative answer with
// citations. Model failures degrade to a canned answer; only the boundary
// layer rejects malformed input.
func (r *Router) Message(ctx context.Context, question string, opts Options) *models.ChatResponse {
	kws := r.extractor.Extract(question)
	bundle := r.aggregator.Gather(ctx, question, kws)
	used := bundle.Filtered(opts.IncludeNews, opts.IncludeSentiment)

	var answer string
	switch {
	case r.llm == nil:
		answer = llm.UnavailableMessage
	default:
		prompt := AssemblePrompt(question, used, ModeNarrative)
		text, err := r.llm.Complete(ctx, llm.SystemPrompt, prompt)
		if err != nil {
			r.logger.Error("completion failed", zap.Error(err))
			answer = generationFailedMessage
		} else {
			answer = text
		}
	}

	return &models.ChatResponse{
		Answer:    answer,
		Citations: FormatCitations(used),
		ContextUsed: models.ContextUsage{
			Documents:         len(used.Chunks),
			NewsArticles:      len(used.News),
			Videos:            len(used.Videos),
			SentimentIncluded: opts.IncludeSentiment,
		},
	}
}

// Report generates the structured decision report directly, enriched with a
// metadata block. Model unavailability and schema violations surface as
// errors here; the boundary layer renders them as an error payload rather
// than a partial report.
func (r *Router) Report(ctx context.Context, question string, opts Options) (*models.DecisionReport, error) {
	classification := r.classifier.Classify(question)
	r.logger.Info("generating decision report",
		zap.String("question", question),
		zap.String("classified_as", classification.Type),
		zap.Float64("confidence", classification.Confidence),
	)

	kws := r.extractor.Extract(question)
	bundle := r.aggregator.Gather(ctx, question, kws)
	used := bundle.Filtered(opts.IncludeNews, opts.IncludeSentiment)

	report, err := r.generateReport(ctx, question, used)
	if err != nil {
		return nil, err
	}

	report.Metadata = &models.ReportMetadata{
		GeneratedAt: time.Now(),
		Question:    question,
		SourcesCount: models.SourceCounts{
			Documents:   len(bundle.Chunks),
			News:        len(bundle.News),
			Videos:      len(bundle.Videos),
			SocialPosts: bundle.Stats().SocialPosts,
		},
		ContextIncluded: models.ContextToggles{
			News:      opts.IncludeNews,
			Sentiment: opts.IncludeSentiment,
		},
	}
	r.appendDocumentSources(report, used.Chunks)
	return report, nil
}

// generateReport runs the structured completion against the report prompt.
func (r *Router) generateReport(ctx context.Context, question string, used *models.ContextBundle) (*models.DecisionReport, error) {
	if r.llm == nil {
		return nil, llm.ErrUnavailable
	}
	prompt := AssemblePrompt(question, used, ModeReport)
	return r.llm.CompleteReport(ctx, llm.ReportSystemPrompt, prompt)
}

// appendDocumentSources adds the top document chunks to the report's data
// sources when the model did not already cite them.
func (r *Router) appendDocumentSources(report *models.DecisionReport, chunks []models.Chunk) {
	const maxSources = 5
	for i, c := range chunks {
		if i >= maxSources {
			break
		}
		entry := "Document: " + c.Filename
		if !containsString(report.DataSources, entry) {
			report.DataSources = append(report.DataSources, entry)
		}
	}
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
