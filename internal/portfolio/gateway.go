// Package portfolio persists each candidate's latest portfolio and analysis and builds
// the employer-facing candidate listing.
package portfolio

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio-builder/internal/logging"
	"github.com/jonathan/portfolio-builder/internal/types"
)

// NoHeadline is shown on a dashboard card when neither headline nor summary is set.
const NoHeadline = "No headline available"

// Store is the persistence boundary. Implementations keep one record per account;
// GetPortfolioByAccount returns nil, nil when none exists.
type Store interface {
	UpsertPortfolio(ctx context.Context, rec *types.PortfolioRecord) error
	GetPortfolioByAccount(ctx context.Context, accountID string) (*types.PortfolioRecord, error)
	ListPortfolioRecords(ctx context.Context) ([]types.PortfolioRecord, error)
}

// Snapshot is an account's latest saved upload
type Snapshot struct {
	AccountID   string
	Portfolio   *types.PortfolioData
	Analysis    *types.ResumeAnalysis
	ResumeFile  string
	LastUpdated time.Time
}

// Gateway maps between domain records and the Store.
type Gateway struct {
	store Store
	now   func() time.Time
}

// NewGateway creates a gateway over store.
func NewGateway(store Store) *Gateway {
	return &Gateway{store: store, now: time.Now}
}

type saveOptions struct {
	resumeFile string
}

// SaveOption customizes Save
type SaveOption func(*saveOptions)

// WithResumeFile records the blob key of the uploaded file.
func WithResumeFile(key string) SaveOption {
	return func(o *saveOptions) { o.resumeFile = key }
}

// Save upserts the account's record, overwriting any previous upload. accountEmail is
// stored when the resume itself carries no e-mail so the listing can still key on it.
func (g *Gateway) Save(ctx context.Context, accountID, accountEmail string, p *types.PortfolioData, a *types.ResumeAnalysis, opts ...SaveOption) error {
	if !p.HasRealName() {
		return &GatewayError{Op: "save", Cause: ErrIncomplete}
	}

	var o saveOptions
	for _, opt := range opts {
		opt(&o)
	}

	rec, err := ToRecord(accountID, p, a)
	if err != nil {
		return &GatewayError{Op: "save", Cause: err}
	}
	if strings.TrimSpace(rec.Email) == "" {
		rec.Email = accountEmail
	}
	rec.UpdatedAt = g.now().UTC()

	existing, err := g.store.GetPortfolioByAccount(ctx, accountID)
	if err != nil {
		return &GatewayError{Op: "save", Cause: err}
	}
	if existing != nil {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		rec.ResumeFile = existing.ResumeFile
	}
	if o.resumeFile != "" {
		rec.ResumeFile = o.resumeFile
	}

	if err := g.store.UpsertPortfolio(ctx, rec); err != nil {
		return &GatewayError{Op: "save", Cause: err}
	}

	logging.Ctx(ctx).Debug().Str("account_id", accountID).Bool("has_analysis", a != nil).Msg("portfolio saved")
	return nil
}

// Load returns the account's latest snapshot, or nil when nothing usable is stored.
func (g *Gateway) Load(ctx context.Context, accountID string) (*Snapshot, error) {
	rec, err := g.store.GetPortfolioByAccount(ctx, accountID)
	if err != nil {
		return nil, &GatewayError{Op: "load", Cause: err}
	}
	if rec == nil {
		return nil, nil
	}

	p, a := FromRecord(rec)
	if !p.HasRealName() {
		return nil, nil
	}
	return &Snapshot{
		AccountID:   accountID,
		Portfolio:   p,
		Analysis:    a,
		ResumeFile:  rec.ResumeFile,
		LastUpdated: rec.LastUpdated(),
	}, nil
}

// LoadByAccount returns only the portfolio half of Load.
func (g *Gateway) LoadByAccount(ctx context.Context, accountID string) (*types.PortfolioData, error) {
	snap, err := g.Load(ctx, accountID)
	if err != nil || snap == nil {
		return nil, err
	}
	return snap.Portfolio, nil
}

// ListAll returns one profile per lowercased e-mail, keeping the most recently updated
// record. Records missing an e-mail or a name are dropped. Analysis is always nil.
// Profiles are ordered newest first.
func (g *Gateway) ListAll(ctx context.Context) ([]types.CandidateProfile, error) {
	records, err := g.store.ListPortfolioRecords(ctx)
	if err != nil {
		return nil, &GatewayError{Op: "list", Cause: err}
	}

	latest := make(map[string]*types.PortfolioRecord, len(records))
	for i := range records {
		rec := &records[i]
		email := strings.ToLower(strings.TrimSpace(rec.Email))
		name := strings.TrimSpace(rec.FullName)
		if email == "" || name == "" || name == types.PlaceholderName {
			continue
		}
		if prev, ok := latest[email]; ok && !rec.LastUpdated().After(prev.LastUpdated()) {
			continue
		}
		latest[email] = rec
	}

	profiles := make([]types.CandidateProfile, 0, len(latest))
	for email, rec := range latest {
		p, _ := FromRecord(rec)
		p.Email = email
		if p.Headline == "" {
			p.Headline = NoHeadline
		}

		profiles = append(profiles, types.CandidateProfile{
			User: types.User{
				ID:    accountUUID(rec.AccountID, email),
				Email: email,
				Name:  p.FullName,
				Role:  types.RoleCandidate,
			},
			Portfolio:   p,
			Analysis:    nil,
			LastUpdated: rec.LastUpdated(),
		})
	}

	sort.Slice(profiles, func(i, j int) bool {
		if !profiles[i].LastUpdated.Equal(profiles[j].LastUpdated) {
			return profiles[i].LastUpdated.After(profiles[j].LastUpdated)
		}
		return profiles[i].User.Email < profiles[j].User.Email
	})

	logging.Ctx(ctx).Debug().Int("records", len(records)).Int("profiles", len(profiles)).Msg("listed portfolios")
	return profiles, nil
}

// Search is ListAll narrowed by Filter.
func (g *Gateway) Search(ctx context.Context, query string) ([]types.CandidateProfile, error) {
	profiles, err := g.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(profiles, query), nil
}

// Filter keeps profiles whose name, headline, about or any skill name contains query,
// ignoring case. An empty query keeps everything.
func Filter(profiles []types.CandidateProfile, query string) []types.CandidateProfile {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return profiles
	}

	out := make([]types.CandidateProfile, 0, len(profiles))
	for _, c := range profiles {
		if matches(c, q) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c types.CandidateProfile, q string) bool {
	if strings.Contains(strings.ToLower(c.User.Name), q) {
		return true
	}
	if c.Portfolio == nil {
		return false
	}
	if strings.Contains(strings.ToLower(c.Portfolio.Headline), q) ||
		strings.Contains(strings.ToLower(c.Portfolio.About), q) {
		return true
	}
	for _, s := range c.Portfolio.Skills {
		if strings.Contains(strings.ToLower(s.Name), q) {
			return true
		}
	}
	return false
}

func accountUUID(accountID, email string) uuid.UUID {
	if id, err := uuid.Parse(accountID); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(email))
}
