package portfolio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ err error }

func (f failingStore) UpsertPortfolio(context.Context, *types.PortfolioRecord) error { return f.err }
func (f failingStore) GetPortfolioByAccount(context.Context, string) (*types.PortfolioRecord, error) {
	return nil, f.err
}
func (f failingStore) ListPortfolioRecords(context.Context) ([]types.PortfolioRecord, error) {
	return nil, f.err
}

func newTestGateway(store Store, start time.Time) (*Gateway, *time.Time) {
	g := NewGateway(store)
	now := start
	g.now = func() time.Time { return now }
	return g, &now
}

func TestGateway_SaveLoad(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway(NewMemoryStore(), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	a := &types.ResumeAnalysis{Score: 70, Summary: "ok"}
	require.NoError(t, g.Save(ctx, "acct", "jane@example.com", samplePortfolio(), a, WithResumeFile("acct/resume.pdf")))

	snap, err := g.Load(ctx, "acct")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "Jane Smith", snap.Portfolio.FullName)
	require.NotNil(t, snap.Analysis)
	assert.Equal(t, 70, snap.Analysis.Score)
	assert.Equal(t, "acct/resume.pdf", snap.ResumeFile)

	p, err := g.LoadByAccount(ctx, "acct")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", p.FullName)
}

func TestGateway_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g, now := newTestGateway(store, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, g.Save(ctx, "acct", "", samplePortfolio(), nil, WithResumeFile("acct/resume.pdf")))
	first, _ := store.GetPortfolioByAccount(ctx, "acct")

	*now = now.Add(time.Hour)
	second := samplePortfolio()
	second.Headline = "Staff Engineer"
	require.NoError(t, g.Save(ctx, "acct", "", second, nil))

	records, err := store.ListPortfolioRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1, "one record per account")
	assert.Equal(t, "Staff Engineer", records[0].Headline)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, first.CreatedAt, records[0].CreatedAt)
	assert.Equal(t, "acct/resume.pdf", records[0].ResumeFile, "text re-upload keeps the last file")
	assert.True(t, records[0].UpdatedAt.After(first.UpdatedAt))
}

func TestGateway_SaveUsesAccountEmailFallback(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g := NewGateway(store)

	p := samplePortfolio()
	p.Email = ""
	require.NoError(t, g.Save(ctx, "acct", "owner@example.com", p, nil))

	rec, err := store.GetPortfolioByAccount(ctx, "acct")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", rec.Email)
}

func TestGateway_SaveRejectsPlaceholder(t *testing.T) {
	g := NewGateway(NewMemoryStore())
	for _, name := range []string{"", types.PlaceholderName} {
		err := g.Save(context.Background(), "acct", "", &types.PortfolioData{FullName: name}, nil)
		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.ErrorIs(t, err, ErrIncomplete)
	}
}

func TestGateway_LoadMissingOrEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g := NewGateway(store)

	snap, err := g.Load(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, snap)

	require.NoError(t, store.UpsertPortfolio(ctx, &types.PortfolioRecord{AccountID: "blank"}))
	snap, err = g.Load(ctx, "blank")
	require.NoError(t, err)
	assert.Nil(t, snap, "a record without a name is treated as missing")
}

func TestGateway_StoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	g := NewGateway(failingStore{err: boom})

	_, err := g.Load(ctx, "a")
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "load", gwErr.Op)
	assert.ErrorIs(t, err, boom)

	_, err = g.ListAll(ctx)
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "list", gwErr.Op)

	err = g.Save(ctx, "a", "", samplePortfolio(), nil)
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "save", gwErr.Op)
}

func TestGateway_ListAllDedup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	older := uuid.NewString()
	newer := uuid.NewString()
	records := []types.PortfolioRecord{
		{AccountID: older, FullName: "Jane Old", Email: "Jane@Example.com", UpdatedAt: base},
		{AccountID: newer, FullName: "Jane New", Email: "jane@example.com ", UpdatedAt: base.Add(time.Hour)},
		{AccountID: "no-email", FullName: "Nobody", UpdatedAt: base},
		{AccountID: "no-name", Email: "x@example.com", UpdatedAt: base},
		{AccountID: "placeholder", FullName: types.PlaceholderName, Email: "p@example.com", UpdatedAt: base},
		{
			AccountID:     "bob",
			FullName:      "Bob",
			Email:         "bob@example.com",
			ResumeScore:   intPtr(90),
			ResumeSummary: "",
			UpdatedAt:     base.Add(2 * time.Hour),
		},
	}
	for i := range records {
		require.NoError(t, store.UpsertPortfolio(ctx, &records[i]))
	}

	profiles, err := NewGateway(store).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, "Bob", profiles[0].User.Name, "newest first")
	assert.Equal(t, NoHeadline, profiles[0].Portfolio.Headline)

	jane := profiles[1]
	assert.Equal(t, "Jane New", jane.Portfolio.FullName)
	assert.Equal(t, "jane@example.com", jane.User.Email)
	assert.Equal(t, newer, jane.User.ID.String())
	assert.Equal(t, types.RoleCandidate, jane.User.Role)

	for _, p := range profiles {
		assert.Nil(t, p.Analysis, "listings never carry analysis")
	}
}

func TestGateway_ListAllTieKeepsFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertPortfolio(ctx, &types.PortfolioRecord{AccountID: "a", FullName: "First", Email: "same@example.com", UpdatedAt: ts}))
	require.NoError(t, store.UpsertPortfolio(ctx, &types.PortfolioRecord{AccountID: "b", FullName: "Second", Email: "same@example.com", UpdatedAt: ts}))

	profiles, err := NewGateway(store).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "First", profiles[0].User.Name)
}

func TestFilter(t *testing.T) {
	profiles := []types.CandidateProfile{
		{User: types.User{Name: "Alex Frontend"}, Portfolio: &types.PortfolioData{Headline: "React dev", Skills: []types.Skill{{Name: "TypeScript"}}}},
		{User: types.User{Name: "Sarah Designer"}, Portfolio: &types.PortfolioData{About: "Bridging design and code", Skills: []types.Skill{{Name: "Figma"}}}},
		{User: types.User{Name: "No Portfolio"}},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Alex Frontend", "Sarah Designer", "No Portfolio"}},
		{"  ", []string{"Alex Frontend", "Sarah Designer", "No Portfolio"}},
		{"sarah", []string{"Sarah Designer"}},
		{"REACT", []string{"Alex Frontend"}},
		{"bridging", []string{"Sarah Designer"}},
		{"figma", []string{"Sarah Designer"}},
		{"typescript", []string{"Alex Frontend"}},
		{"rust", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			names := []string{}
			for _, p := range Filter(profiles, tt.query) {
				names = append(names, p.User.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestGateway_SearchDemo(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(NewMemoryStore())
	for _, acct := range DemoAccounts() {
		if acct.Portfolio == nil {
			continue
		}
		require.NoError(t, g.Save(ctx, uuid.NewString(), acct.Email, acct.Portfolio, acct.Analysis))
	}

	all, err := g.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hits, err := g.Search(ctx, "figma")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Sarah Designer", hits[0].User.Name)
}

func intPtr(v int) *int { return &v }
