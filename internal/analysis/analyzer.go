// Package analysis implements the analysis adapter. Analyze never fails: any problem
// yields a degraded ResumeAnalysis so a broken analysis never blocks the portfolio.
package analysis

import (
	"context"

	"github.com/jonathan/portfolio-builder/internal/ingestion"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/logging"
	"github.com/jonathan/portfolio-builder/internal/parsing"
	"github.com/jonathan/portfolio-builder/internal/prompts"
	"github.com/jonathan/portfolio-builder/internal/schemas"
	"github.com/jonathan/portfolio-builder/internal/types"
)

// DefaultJobCount is the number of openings requested from the model
const DefaultJobCount = "4-6"

// Analyzer scores and critiques a resume
type Analyzer struct {
	client   llm.Client
	tier     llm.ModelTier
	jobCount string
}

// NewAnalyzer creates an analyzer backed by client
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client, tier: llm.TierStandard, jobCount: DefaultJobCount}
}

// Analyze returns the analysis of in, or a degraded record on any failure.
func (a *Analyzer) Analyze(ctx context.Context, in ingestion.Input) *types.ResumeAnalysis {
	logger := logging.Ctx(ctx)

	instruction, err := prompts.Render(prompts.AnalysisFile, prompts.KeyAnalyzeResume, map[string]string{
		"JobCount": a.jobCount,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to load analysis prompt")
		return types.DegradedAnalysis(types.SummaryAnalysisFailed)
	}
	system, _ := prompts.Get(prompts.AnalysisFile, prompts.KeySystem)

	parts, err := parsing.InputParts(a.client, in, instruction)
	if err != nil {
		logger.Warn().Err(err).Str("mime_type", in.MIMEType).Msg("analysis input not readable by backend")
		return types.DegradedAnalysis(types.SummaryAnalysisFailed)
	}

	schema := llm.AnalysisSchema()
	text, err := a.client.Generate(ctx, &llm.Request{
		Tier:   a.tier,
		System: system,
		Parts:  parts,
		JSON:   true,
		Schema: &schema,
	})
	if err != nil {
		logger.Warn().Err(err).Bool("timeout", parsing.IsTimeout(ctx, err)).Msg("analysis degraded: model call failed")
		return types.DegradedAnalysis(types.SummaryAnalysisFailed)
	}
	logger.Debug().Int("response_bytes", len(text)).Msg("analysis response received")

	fields, err := llm.DecodeObject(text)
	if err != nil {
		logger.Warn().Err(err).Int("response_bytes", len(text)).Msg("analysis degraded: response is not JSON")
		return types.DegradedAnalysis(types.SummaryParseFailed)
	}

	result := FromFields(fields)
	if err := schemas.ValidateAnalysis(result); err != nil {
		logger.Warn().Err(err).Msg("analysis degraded: schema violation")
		return types.DegradedAnalysis(types.SummaryParseFailed)
	}
	return result
}

// FromFields maps a leniently decoded response onto a normalized analysis.
func FromFields(f llm.Fields) *types.ResumeAnalysis {
	result := &types.ResumeAnalysis{
		Summary:       f.String("summary"),
		Strengths:     f.Strings("strengths"),
		Weaknesses:    f.Strings("weaknesses"),
		MarketOutlook: f.String("marketOutlook"),
	}
	if score, ok := f.Number("score"); ok {
		result.Score = types.PercentFromFloat(score)
	}

	for _, j := range f.Objects("jobRecommendations") {
		rec := types.JobRecommendation{
			Title:       j.String("title"),
			Company:     j.String("company"),
			Location:    j.String("location"),
			Reason:      j.FirstString("reason", "matchReason"),
			SalaryRange: j.String("salaryRange"),
			URL:         j.FirstString("url", "link"),
		}
		if rec.Title == "" {
			continue
		}
		if score, ok := j.Number("matchScore"); ok {
			v := types.PercentFromFloat(score)
			rec.MatchScore = &v
		}
		result.JobRecommendations = append(result.JobRecommendations, rec)
	}

	result.Normalize()
	return result
}

// ScoreLabel returns the badge text shown next to a score.
func ScoreLabel(score int) string {
	switch {
	case score > 80:
		return "Excellent Profile"
	case score > 60:
		return "Good Foundation"
	default:
		return "Needs Optimization"
	}
}
