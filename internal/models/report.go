package models

import (
	"fmt"
	"time"
)

// DecisionReport is the fixed-schema structured output for decision
// questions. Produced atomically by the language model; never streamed
// in parts.
type DecisionReport struct {
	DecisionRequired        string           `json:"decision_required"`
	Timeline                string           `json:"timeline"`
	Accountable             string           `json:"accountable"`
	ExecutiveSummary        ExecutiveSummary `json:"executive_summary"`
	Options                 []ReportOption   `json:"options"`
	RecommendedOption       string           `json:"recommended_option"`
	RecommendationRationale string           `json:"recommendation_rationale"`
	ImpactBreakdown         ImpactBreakdown  `json:"impact_breakdown"`
	RisksMitigations        []RiskMitigation `json:"risks_mitigations"`
	DataSources             []string         `json:"data_sources"`
	Assumptions             []string         `json:"assumptions"`
	Limitations             string           `json:"limitations"`
	NextSteps               []NextStep       `json:"next_steps"`
	Metadata                *ReportMetadata  `json:"metadata,omitempty"`
}

// ExecutiveSummary is the report's leading recommendation block.
type ExecutiveSummary struct {
	Recommendation string   `json:"recommendation"`
	Rationale      string   `json:"rationale"`
	KeyRisks       []string `json:"key_risks"`
	ExpectedImpact string   `json:"expected_impact"`
}

// ReportOption is one candidate course of action.
type ReportOption struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Benefits    []string `json:"benefits"`
	Risks       []string `json:"risks"`
	Tradeoffs   string   `json:"tradeoffs"`
	Cost        string   `json:"cost"`
	ImpactScore string   `json:"impact_score"`
}

// ImpactBreakdown structures expected effects by dimension.
type ImpactBreakdown struct {
	Economic   string           `json:"economic"`
	Social     string           `json:"social"`
	Regional   RegionalImpact   `json:"regional"`
	Population PopulationImpact `json:"population"`
	Budget     string           `json:"budget"`
	Sentiment  string           `json:"sentiment"`
}

// RegionalImpact lists regions gaining and losing from the decision.
type RegionalImpact struct {
	CountiesBenefiting []string `json:"counties_benefiting"`
	CountiesAffected   []string `json:"counties_affected"`
	Magnitude          string   `json:"magnitude"`
}

// PopulationImpact describes affected demographic groups.
type PopulationImpact struct {
	GroupsAffected []string `json:"groups_affected"`
	TotalCitizens  string   `json:"total_citizens"`
	Demographics   string   `json:"demographics"`
}

// RiskMitigation pairs a risk with its mitigation and owner.
type RiskMitigation struct {
	Risk       string `json:"risk"`
	Likelihood string `json:"likelihood"`
	Impact     string `json:"impact"`
	Mitigation string `json:"mitigation"`
	Owner      string `json:"owner"`
}

// NextStep is one action item with a responsible party and deadline.
type NextStep struct {
	Action      string `json:"action"`
	Responsible string `json:"responsible"`
	Deadline    string `json:"deadline"`
	Priority    string `json:"priority"`
}

// SourceCounts records how much context of each kind fed the report.
type SourceCounts struct {
	Documents   int `json:"documents"`
	News        int `json:"news_articles"`
	Videos      int `json:"videos"`
	SocialPosts int `json:"social_posts"`
}

// ContextToggles records which optional context kinds were included.
type ContextToggles struct {
	News      bool `json:"news"`
	Sentiment bool `json:"sentiment"`
}

// ReportMetadata is attached by the pipeline after generation.
type ReportMetadata struct {
	GeneratedAt     time.Time      `json:"generated_at"`
	Question        string         `json:"question"`
	SourcesCount    SourceCounts   `json:"sources_count"`
	ContextIncluded ContextToggles `json:"context_included"`
}

// Validate checks the schema contract the model must honor. A violation
// means the report is unusable and the caller falls back to the narrative
// path.
func (r *DecisionReport) Validate() error {
	if r.DecisionRequired == "" {
		return fmt.Errorf("report missing decision_required")
	}
	if r.ExecutiveSummary.Recommendation == "" {
		return fmt.Errorf("report missing executive_summary.recommendation")
	}
	if len(r.Options) < 2 || len(r.Options) > 4 {
		return fmt.Errorf("report must present 2-4 options, got %d", len(r.Options))
	}
	if r.RecommendedOption == "" {
		return fmt.Errorf("report missing recommended_option")
	}
	return nil
}
