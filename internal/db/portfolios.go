package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/portfolio-builder/internal/types"
)

const portfolioColumns = `id, account_id, full_name, headline, about, location, email, phone,
	linkedin, github, website, skills_json, experience_json, education_json, projects_json,
	resume_score, resume_summary, strengths_json, weaknesses_json, market_outlook,
	job_recommendations_json, resume_file, created_at, updated_at`

// UpsertPortfolio inserts or replaces the record for rec.AccountID
func (db *DB) UpsertPortfolio(ctx context.Context, rec *types.PortfolioRecord) error {
	accountID, err := uuid.Parse(rec.AccountID)
	if err != nil {
		return fmt.Errorf("invalid account id %q: %w", rec.AccountID, err)
	}

	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = updatedAt
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO portfolios (account_id, full_name, headline, about, location, email, phone,
			linkedin, github, website, skills_json, experience_json, education_json, projects_json,
			resume_score, resume_summary, strengths_json, weaknesses_json, market_outlook,
			job_recommendations_json, resume_file, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23)
		 ON CONFLICT (account_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			headline = EXCLUDED.headline,
			about = EXCLUDED.about,
			location = EXCLUDED.location,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			linkedin = EXCLUDED.linkedin,
			github = EXCLUDED.github,
			website = EXCLUDED.website,
			skills_json = EXCLUDED.skills_json,
			experience_json = EXCLUDED.experience_json,
			education_json = EXCLUDED.education_json,
			projects_json = EXCLUDED.projects_json,
			resume_score = EXCLUDED.resume_score,
			resume_summary = EXCLUDED.resume_summary,
			strengths_json = EXCLUDED.strengths_json,
			weaknesses_json = EXCLUDED.weaknesses_json,
			market_outlook = EXCLUDED.market_outlook,
			job_recommendations_json = EXCLUDED.job_recommendations_json,
			resume_file = EXCLUDED.resume_file,
			updated_at = EXCLUDED.updated_at`,
		accountID, rec.FullName, rec.Headline, rec.About, rec.Location, rec.Email, rec.Phone,
		rec.LinkedIn, rec.GitHub, rec.Website, orEmptyList(rec.SkillsJSON), orEmptyList(rec.ExperienceJSON),
		orEmptyList(rec.EducationJSON), orEmptyList(rec.ProjectsJSON),
		rec.ResumeScore, rec.ResumeSummary, orEmptyList(rec.StrengthsJSON), orEmptyList(rec.WeaknessesJSON),
		rec.MarketOutlook, orEmptyList(rec.JobRecommendationsJSON), rec.ResumeFile, createdAt, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio: %w", err)
	}
	return nil
}

// GetPortfolioByAccount returns the account's record, or nil if none exists
func (db *DB) GetPortfolioByAccount(ctx context.Context, accountID string) (*types.PortfolioRecord, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, nil
	}

	row := db.pool.QueryRow(ctx, `SELECT `+portfolioColumns+` FROM portfolios WHERE account_id = $1`, id)
	rec, err := scanPortfolio(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return rec, nil
}

// ListPortfolioRecords returns every stored record, newest first
func (db *DB) ListPortfolioRecords(ctx context.Context) ([]types.PortfolioRecord, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+portfolioColumns+` FROM portfolios ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	var records []types.PortfolioRecord
	for rows.Next() {
		rec, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate portfolios: %w", err)
	}
	return records, nil
}

func scanPortfolio(row pgx.Row) (*types.PortfolioRecord, error) {
	var (
		rec       types.PortfolioRecord
		id        uuid.UUID
		accountID uuid.UUID
	)
	err := row.Scan(&id, &accountID, &rec.FullName, &rec.Headline, &rec.About, &rec.Location,
		&rec.Email, &rec.Phone, &rec.LinkedIn, &rec.GitHub, &rec.Website,
		&rec.SkillsJSON, &rec.ExperienceJSON, &rec.EducationJSON, &rec.ProjectsJSON,
		&rec.ResumeScore, &rec.ResumeSummary, &rec.StrengthsJSON, &rec.WeaknessesJSON,
		&rec.MarketOutlook, &rec.JobRecommendationsJSON, &rec.ResumeFile, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.ID = id.String()
	rec.AccountID = accountID.String()
	return &rec, nil
}

func orEmptyList(s string) string {
	if s == "" {
		return "[]"
	}
	return s
}
