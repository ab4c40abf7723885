package portfolio

import (
	"testing"

	"github.com/jonathan/portfolio-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePortfolio() *types.PortfolioData {
	return &types.PortfolioData{
		FullName: "Jane Smith",
		Headline: "Backend Engineer",
		About:    "Builds reliable services.",
		Email:    "jane@example.com",
		Skills:   []types.Skill{{Name: "Go", Level: 90, Category: types.CategoryBackend}},
		Projects: []types.Project{{Name: "queue", Description: "job queue"}},
	}
}

func TestToRecord_FromRecord(t *testing.T) {
	ms := 140
	a := &types.ResumeAnalysis{
		Score:              77,
		Summary:            "Solid.",
		Strengths:          []string{"APIs"},
		MarketOutlook:      "Good.",
		JobRecommendations: []types.JobRecommendation{{Title: "SRE", MatchScore: &ms}},
	}

	rec, err := ToRecord("acct-1", samplePortfolio(), a)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", rec.AccountID)
	assert.JSONEq(t, `[{"name":"Go","level":90,"category":"backend"}]`, rec.SkillsJSON)
	assert.Equal(t, "[]", rec.EducationJSON)
	require.NotNil(t, rec.ResumeScore)
	assert.Equal(t, 77, *rec.ResumeScore)

	p, got := FromRecord(rec)
	assert.Equal(t, "Jane Smith", p.FullName)
	assert.Equal(t, []string{}, p.Projects[0].Technologies)
	require.NotNil(t, got)
	assert.Equal(t, 77, got.Score)
	assert.Equal(t, []string{}, got.Weaknesses)
	require.Len(t, got.JobRecommendations, 1)
	assert.Equal(t, 100, *got.JobRecommendations[0].MatchScore)
}

func TestToRecord_DoesNotMutateInput(t *testing.T) {
	p := &types.PortfolioData{FullName: "Jane"}
	_, err := ToRecord("a", p, nil)
	require.NoError(t, err)
	assert.Nil(t, p.Skills)
}

func TestToRecord_NilPortfolio(t *testing.T) {
	_, err := ToRecord("a", nil, nil)
	assert.Error(t, err)
}

func TestFromRecord_MalformedJSONColumns(t *testing.T) {
	rec := &types.PortfolioRecord{
		FullName:       "Jane",
		SkillsJSON:     `{not json`,
		ExperienceJSON: `null`,
		EducationJSON:  `{"institution":"MIT"}`,
		ProjectsJSON:   "",
	}

	p, a := FromRecord(rec)
	assert.Equal(t, []types.Skill{}, p.Skills)
	assert.Equal(t, []types.Experience{}, p.Experience)
	assert.Equal(t, []types.Education{}, p.Education)
	assert.Equal(t, []types.Project{}, p.Projects)
	assert.Nil(t, a, "no analysis columns means no analysis")
}

func TestFromRecord_SummaryFallbacks(t *testing.T) {
	tests := []struct {
		name         string
		rec          types.PortfolioRecord
		wantHeadline string
		wantAbout    string
	}{
		{
			name:         "both fall back",
			rec:          types.PortfolioRecord{FullName: "J", ResumeSummary: "summary"},
			wantHeadline: "summary",
			wantAbout:    "summary",
		},
		{
			name:         "headline kept about falls back",
			rec:          types.PortfolioRecord{FullName: "J", Headline: "Dev", ResumeSummary: "summary"},
			wantHeadline: "Dev",
			wantAbout:    "summary",
		},
		{
			name:         "about kept headline falls back",
			rec:          types.PortfolioRecord{FullName: "J", About: "bio", ResumeSummary: "summary"},
			wantHeadline: "summary",
			wantAbout:    "bio",
		},
		{
			name: "nothing to fall back to",
			rec:  types.PortfolioRecord{FullName: "J"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := FromRecord(&tt.rec)
			assert.Equal(t, tt.wantHeadline, p.Headline)
			assert.Equal(t, tt.wantAbout, p.About)
		})
	}
}

func TestFromRecord_Nil(t *testing.T) {
	p, a := FromRecord(nil)
	assert.Nil(t, p)
	assert.Nil(t, a)
}
