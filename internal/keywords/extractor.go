// Package keywords derives topic keywords from a raw question for targeted
// context fetches.
package keywords

import "strings"

// stopwords are common question words that carry no topic signal.
var stopwords = map[string]struct{}{
	"what": {}, "is": {}, "the": {}, "a": {}, "an": {}, "on": {},
	"in": {}, "of": {}, "for": {}, "to": {}, "about": {}, "how": {},
	"why": {}, "when": {}, "where": {}, "which": {},
}

const maxKeywords = 5

// Extractor derives a bounded keyword set from a question, always anchored
// to a fixed topic token so searches stay scoped to the system's domain.
type Extractor struct {
	anchor string
}

// NewExtractor creates an extractor with the given anchor topic token.
func NewExtractor(anchor string) *Extractor {
	return &Extractor{anchor: strings.ToLower(anchor)}
}

// Extract returns 1 to 5 lowercase keywords. The anchor token appears
// exactly once, prepended when the question does not already contain it.
// Extraction is deterministic: same question, same keywords.
func (e *Extractor) Extract(question string) []string {
	seen := make(map[string]struct{})
	var kws []string
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = strings.TrimRight(w, "?,!.")
		if len(w) < 4 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		kws = append(kws, w)
	}

	if _, ok := seen[e.anchor]; !ok {
		kws = append([]string{e.anchor}, kws...)
	}
	if len(kws) > maxKeywords {
		kws = kws[:maxKeywords]
	}
	// The anchor must survive truncation even when it appeared late in
	// the question.
	if !contains(kws, e.anchor) {
		kws = append([]string{e.anchor}, kws[:maxKeywords-1]...)
	}
	return kws
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// Anchor returns the extractor's anchor token.
func (e *Extractor) Anchor() string {
	return e.anchor
}
