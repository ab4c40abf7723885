package types

import "time"

// CandidateProfile is the employer dashboard projection of a candidate. Analysis is
// always nil in listings.
type CandidateProfile struct {
	User        User            `json:"user"`
	Portfolio   *PortfolioData  `json:"portfolio"`
	Analysis    *ResumeAnalysis `json:"analysis"`
	LastUpdated time.Time       `json:"lastUpdated"`
}
