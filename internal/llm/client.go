// Package llm defines the language-model collaborator contract and its
// Gemini implementation.
package llm

import (
	"context"
	"errors"

	"github.com/govgpt/govgpt/internal/models"
)

// ErrUnavailable signals that no model client is configured. The report
// path surfaces it as an explicit error payload; the narrative path
// substitutes UnavailableMessage instead.
var ErrUnavailable = errors.New("language model unavailable: no API key configured")

// UnavailableMessage is returned on the narrative path when no model client
// is configured. Absence of the collaborator is never surfaced as an error
// there; the report path gets ErrUnavailable instead.
const UnavailableMessage = "The language model is not configured. Set an API key to enable answer generation."

// Fragment is one element of a streamed completion. Err is set at most once,
// on the final fragment, when the stream failed mid-way.
type Fragment struct {
	Text string
	Err  error
}

// Client is the language-model collaborator. Stream returns a finite,
// non-restartable channel of ordered fragments that is closed when the
// completion ends. CompleteReport enforces the decision-report schema and
// returns an error on any violation.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Stream(ctx context.Context, systemPrompt, userPrompt string) (<-chan Fragment, error)
	CompleteReport(ctx context.Context, systemPrompt, userPrompt string) (*models.DecisionReport, error)
}
