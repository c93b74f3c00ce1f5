package classify

// Rule tables for query classification. These are explicit ordered lists so
// the decision policy stays auditable and testable; routing decisions are
// gated on the confidence score, not the label alone.

// strongDecisionPhrases mark a question as requiring a decision.
var strongDecisionPhrases = []string{
	"should we", "should i", "should kenya", "should the",
	"recommend", "approval", "approve", "decide",
	"allocate", "reallocate", "fund", "defund",
	"implement", "adopt", "reject", "accept",
	"expand", "reduce", "increase", "decrease",
	"prioritize", "choose between", "select",
	"go ahead", "proceed with", "move forward",
}

// moderateDecisionKeywords suggest a decision context; they only classify as
// decision when the question also ends with a question mark.
var moderateDecisionKeywords = []string{
	"policy", "budget", "funding", "investment",
	"program", "initiative", "project",
	"benefits", "costs", "trade-offs", "tradeoffs",
	"impact", "consequences", "effects",
	"options", "alternatives", "choices",
}

// exploratoryPhrases override decision classification, with one exception:
// a question containing "should" is still a decision query.
var exploratoryPhrases = []string{
	"what is", "what are", "who is", "who are",
	"when did", "when was", "where is", "where are",
	"how does", "how do", "how did",
	"explain", "describe", "define", "tell me about",
	"history of", "background on", "overview of",
	"summarize", "summary of", "list", "show me",
}

// Confidence scoring uses narrower keyword tiers than classification; match
// counts map to fixed confidence values.
var (
	confidenceStrongKeywords      = []string{"should", "approve", "recommend", "decide"}
	confidenceModerateKeywords    = []string{"policy", "budget", "impact", "options"}
	confidenceExploratoryKeywords = []string{"what is", "explain", "history"}
)
