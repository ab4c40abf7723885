package portfolio

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/portfolio-builder/internal/types"
)

// ToRecord encodes a portfolio and its analysis into the persisted wire shape. A nil
// analysis leaves the analysis columns empty.
func ToRecord(accountID string, p *types.PortfolioData, a *types.ResumeAnalysis) (*types.PortfolioRecord, error) {
	if p == nil {
		return nil, fmt.Errorf("portfolio is nil")
	}
	data := *p
	data.Normalize()

	rec := &types.PortfolioRecord{
		AccountID: accountID,
		FullName:  data.FullName,
		Headline:  data.Headline,
		About:     data.About,
		Location:  data.Location,
		Email:     data.Email,
		Phone:     data.Phone,
		LinkedIn:  data.LinkedIn,
		GitHub:    data.GitHub,
		Website:   data.Website,
	}

	var err error
	if rec.SkillsJSON, err = encodeList(data.Skills); err != nil {
		return nil, err
	}
	if rec.ExperienceJSON, err = encodeList(data.Experience); err != nil {
		return nil, err
	}
	if rec.EducationJSON, err = encodeList(data.Education); err != nil {
		return nil, err
	}
	if rec.ProjectsJSON, err = encodeList(data.Projects); err != nil {
		return nil, err
	}

	if a == nil {
		return rec, nil
	}
	analysis := *a
	analysis.Normalize()

	score := analysis.Score
	rec.ResumeScore = &score
	rec.ResumeSummary = analysis.Summary
	rec.MarketOutlook = analysis.MarketOutlook
	if rec.StrengthsJSON, err = encodeList(analysis.Strengths); err != nil {
		return nil, err
	}
	if rec.WeaknessesJSON, err = encodeList(analysis.Weaknesses); err != nil {
		return nil, err
	}
	if rec.JobRecommendationsJSON, err = encodeList(analysis.JobRecommendations); err != nil {
		return nil, err
	}
	return rec, nil
}

// FromRecord decodes a stored record. Malformed or missing JSON columns become empty
// lists. headline and about each fall back to resumeSummary when empty. The analysis is
// nil when the record carries no analysis columns.
func FromRecord(rec *types.PortfolioRecord) (*types.PortfolioData, *types.ResumeAnalysis) {
	if rec == nil {
		return nil, nil
	}

	p := &types.PortfolioData{
		FullName:   rec.FullName,
		Headline:   firstNonEmpty(rec.Headline, rec.ResumeSummary),
		About:      firstNonEmpty(rec.About, rec.ResumeSummary),
		Location:   rec.Location,
		Email:      rec.Email,
		Phone:      rec.Phone,
		LinkedIn:   rec.LinkedIn,
		GitHub:     rec.GitHub,
		Website:    rec.Website,
		Skills:     decodeList[types.Skill](rec.SkillsJSON),
		Experience: decodeList[types.Experience](rec.ExperienceJSON),
		Education:  decodeList[types.Education](rec.EducationJSON),
		Projects:   decodeList[types.Project](rec.ProjectsJSON),
	}
	p.Normalize()

	if rec.ResumeScore == nil && rec.ResumeSummary == "" && rec.MarketOutlook == "" {
		return p, nil
	}

	a := &types.ResumeAnalysis{
		Summary:            rec.ResumeSummary,
		MarketOutlook:      rec.MarketOutlook,
		Strengths:          decodeList[string](rec.StrengthsJSON),
		Weaknesses:         decodeList[string](rec.WeaknessesJSON),
		JobRecommendations: decodeList[types.JobRecommendation](rec.JobRecommendationsJSON),
	}
	if rec.ResumeScore != nil {
		a.Score = *rec.ResumeScore
	}
	a.Normalize()
	return p, a
}

func encodeList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}

func decodeList[T any](raw string) []T {
	out := []T{}
	if raw == "" {
		return out
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return out
	}
	return items
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
