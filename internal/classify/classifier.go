// Package classify labels questions as decision or exploratory queries.
//
// Classification is rule-based rather than learned, so every routing
// decision downstream can be explained from the rule tables in rules.go.
package classify

import (
	"fmt"
	"strings"

	"github.com/govgpt/govgpt/internal/models"
)

// Classifier is a deterministic keyword-membership classifier.
type Classifier struct{}

// New creates a Classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify labels the question and scores the label's confidence. Identical
// input always yields an identical result.
func (c *Classifier) Classify(question string) models.Classification {
	lower := strings.ToLower(strings.TrimSpace(question))
	label := classifyLabel(lower)
	confidence, reasoning := scoreConfidence(label, lower)
	return models.Classification{
		Type:       label,
		Confidence: confidence,
		Reasoning:  reasoning,
	}
}

// classifyLabel applies the rule tables in priority order.
func classifyLabel(lower string) string {
	if containsAny(lower, exploratoryPhrases) {
		// "what should" / "how should" are still decision queries.
		if strings.Contains(lower, "should") {
			return models.QueryDecision
		}
		return models.QueryExploratory
	}
	if containsAny(lower, strongDecisionPhrases) {
		return models.QueryDecision
	}
	if containsAny(lower, moderateDecisionKeywords) && strings.Contains(lower, "?") {
		return models.QueryDecision
	}
	return models.QueryExploratory
}

// scoreConfidence is a second deterministic pass mapping keyword-tier match
// counts to fixed confidence values.
func scoreConfidence(label, lower string) (float64, string) {
	strong := countMatches(lower, confidenceStrongKeywords)
	moderate := countMatches(lower, confidenceModerateKeywords)
	exploratory := countMatches(lower, confidenceExploratoryKeywords)

	if label == models.QueryDecision {
		switch {
		case strong >= 2:
			return 0.95, fmt.Sprintf("Strong decision language detected: %d indicators", strong)
		case strong >= 1:
			return 0.85, "Clear decision keyword present"
		case moderate >= 2:
			return 0.70, "Multiple policy/decision context keywords"
		default:
			return 0.60, "Policy context suggests decision query"
		}
	}
	if exploratory >= 1 {
		return 0.90, "Clear exploratory language"
	}
	return 0.70, "No strong decision indicators"
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func countMatches(s string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(s, p) {
			n++
		}
	}
	return n
}
