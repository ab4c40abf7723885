package types

// Default texts used when the model omits narrative fields or the analysis fails.
const (
	DefaultSummary        = "Analysis unavailable."
	DefaultMarketOutlook  = "Market data unavailable."
	DegradedMarketOutlook = "N/A"
	SummaryParseFailed    = "Could not parse analysis. Please try again."
	SummaryAnalysisFailed = "Could not analyze resume. Please try again."
)

// ResumeAnalysis is a candidate's private career assessment. It is only ever shown to
// the candidate who owns it.
type ResumeAnalysis struct {
	Score              int                 `json:"score"`
	Summary            string              `json:"summary"`
	Strengths          []string            `json:"strengths"`
	Weaknesses         []string            `json:"weaknesses"`
	MarketOutlook      string              `json:"marketOutlook"`
	JobRecommendations []JobRecommendation `json:"jobRecommendations"`
}

// JobRecommendation is a suggested opening that matches the candidate
type JobRecommendation struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Reason      string `json:"reason"`
	MatchScore  *int   `json:"matchScore,omitempty"`
	SalaryRange string `json:"salaryRange,omitempty"`
	URL         string `json:"url,omitempty"`
}

// DegradedAnalysis returns the placeholder analysis used instead of an error.
func DegradedAnalysis(summary string) *ResumeAnalysis {
	if summary == "" {
		summary = SummaryAnalysisFailed
	}
	return &ResumeAnalysis{
		Score:              0,
		Summary:            summary,
		Strengths:          []string{},
		Weaknesses:         []string{},
		MarketOutlook:      DegradedMarketOutlook,
		JobRecommendations: []JobRecommendation{},
	}
}

// Normalize applies the same defaults the analyzer applies to fresh model output.
func (a *ResumeAnalysis) Normalize() {
	if a == nil {
		return
	}
	a.Score = ClampPercent(a.Score)
	if a.Summary == "" {
		a.Summary = DefaultSummary
	}
	if a.MarketOutlook == "" {
		a.MarketOutlook = DefaultMarketOutlook
	}
	if a.Strengths == nil {
		a.Strengths = []string{}
	}
	if a.Weaknesses == nil {
		a.Weaknesses = []string{}
	}
	if a.JobRecommendations == nil {
		a.JobRecommendations = []JobRecommendation{}
	}
	for i := range a.JobRecommendations {
		if ms := a.JobRecommendations[i].MatchScore; ms != nil {
			v := ClampPercent(*ms)
			a.JobRecommendations[i].MatchScore = &v
		}
	}
}

// IsDegraded reports whether a is the placeholder returned on failure.
func (a *ResumeAnalysis) IsDegraded() bool {
	return a != nil && a.Score == 0 && a.MarketOutlook == DegradedMarketOutlook
}
