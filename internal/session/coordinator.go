package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio-builder/internal/blob"
	"github.com/jonathan/portfolio-builder/internal/ingestion"
	"github.com/jonathan/portfolio-builder/internal/lock"
	"github.com/jonathan/portfolio-builder/internal/logging"
	"github.com/jonathan/portfolio-builder/internal/metrics"
	"github.com/jonathan/portfolio-builder/internal/parsing"
	"github.com/jonathan/portfolio-builder/internal/portfolio"
	"github.com/jonathan/portfolio-builder/internal/types"
	"golang.org/x/sync/errgroup"
)

// User-facing messages
const (
	LoadFailedMessage = "We could not load your saved portfolio. Please upload your resume again."
	SaveFailedMessage = "Your portfolio is ready but could not be saved. Please try uploading again later."
)

var (
	// ErrNoSession is returned for users that have not logged in.
	ErrNoSession = errors.New("no active session")
	// ErrUploadInProgress is returned when the account already has an upload running.
	ErrUploadInProgress = errors.New("an upload is already in progress for this account")
	// ErrCandidateNotFound is returned when an employer selects an unknown candidate.
	ErrCandidateNotFound = errors.New("candidate not found")
)

// Extractor produces a portfolio from resume input
type Extractor interface {
	Extract(ctx context.Context, in ingestion.Input) (*types.PortfolioData, error)
}

// Analyzer produces an analysis from resume input. It never fails.
type Analyzer interface {
	Analyze(ctx context.Context, in ingestion.Input) *types.ResumeAnalysis
}

// Gateway persists and loads candidate portfolios
type Gateway interface {
	Load(ctx context.Context, accountID string) (*portfolio.Snapshot, error)
	Save(ctx context.Context, accountID, accountEmail string, p *types.PortfolioData, a *types.ResumeAnalysis, opts ...portfolio.SaveOption) error
}

// Options tunes the upload flow
type Options struct {
	UploadTimeout     time.Duration
	LockTTL           time.Duration
	RequireEmailMatch bool
	// Provider labels adapter metrics.
	Provider string
}

// Deps are the collaborators of a Coordinator. Blobs, Locker and Metrics are optional.
type Deps struct {
	Extractor Extractor
	Analyzer  Analyzer
	Gateway   Gateway
	Blobs     blob.Storage
	Locker    lock.Locker
	Metrics   *metrics.Collectors
}

// Coordinator owns every live session and runs uploads against them.
type Coordinator struct {
	deps Deps
	opts Options

	mu       sync.Mutex
	machines map[uuid.UUID]*Machine
	newTag   func() string
}

// NewCoordinator creates a coordinator. A nil Locker falls back to an in-process one.
func NewCoordinator(deps Deps, opts Options) *Coordinator {
	if deps.Locker == nil {
		deps.Locker = lock.NewLocal()
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = 90 * time.Second
	}
	if opts.LockTTL < opts.UploadTimeout {
		opts.LockTTL = opts.UploadTimeout + 30*time.Second
	}
	return &Coordinator{
		deps:     deps,
		opts:     opts,
		machines: make(map[uuid.UUID]*Machine),
		newTag:   uuid.NewString,
	}
}

// Login starts a fresh session for user, replacing any previous one. Candidates land on
// their saved portfolio when one exists; a load failure lands on upload with a message.
func (c *Coordinator) Login(ctx context.Context, user *types.User) (View, error) {
	if user == nil {
		return View{}, fmt.Errorf("%w: nil user", ErrInvalidTransition)
	}
	ev := Event{Kind: EventLogin, User: user}

	if !user.IsEmployer() {
		snap, err := c.deps.Gateway.Load(ctx, user.ID.String())
		switch {
		case err != nil:
			logging.Ctx(ctx).Error().Err(err).Str("account_id", user.ID.String()).Msg("failed to load saved portfolio")
			ev.Message = LoadFailedMessage
		case snap != nil:
			ev.Portfolio = snap.Portfolio
			ev.Analysis = snap.Analysis
			ev.Subject = snap.AccountID
		}
	}

	m := &Machine{}
	if err := m.Apply(ev); err != nil {
		return View{}, err
	}

	c.mu.Lock()
	c.machines[user.ID] = m
	c.mu.Unlock()
	return m.View(), nil
}

// View returns the current view for userID.
func (c *Coordinator) View(userID uuid.UUID) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.machines[userID]
	if !ok {
		return View{}, ErrNoSession
	}
	return m.View(), nil
}

// Logout drops the session. Uploads still in flight complete as stale.
func (c *Coordinator) Logout(userID uuid.UUID) View {
	c.mu.Lock()
	delete(c.machines, userID)
	c.mu.Unlock()
	return (&Machine{}).View()
}

// TogglePreview switches a candidate between their own view and the employer preview.
func (c *Coordinator) TogglePreview(userID uuid.UUID) (View, error) {
	return c.apply(userID, Event{Kind: EventTogglePreview})
}

// BackToDashboard returns an employer to the candidate list, discarding what was shown.
func (c *Coordinator) BackToDashboard(userID uuid.UUID) (View, error) {
	return c.apply(userID, Event{Kind: EventBackToDashboard})
}

// ScreenNew moves an employer to the upload screen for ad-hoc screening.
func (c *Coordinator) ScreenNew(userID uuid.UUID) (View, error) {
	return c.apply(userID, Event{Kind: EventScreenNew})
}

// NewUpload moves a candidate from their portfolio back to the upload screen.
func (c *Coordinator) NewUpload(userID uuid.UUID) (View, error) {
	return c.apply(userID, Event{Kind: EventNewUpload})
}

// ViewPortfolio returns a candidate from the upload screen to their saved portfolio.
func (c *Coordinator) ViewPortfolio(userID uuid.UUID) (View, error) {
	return c.apply(userID, Event{Kind: EventViewPortfolio})
}

// SelectCandidate shows a candidate's saved portfolio to an employer. The analysis is
// never loaded into the session.
func (c *Coordinator) SelectCandidate(ctx context.Context, userID uuid.UUID, accountID string) (View, error) {
	if _, err := c.View(userID); err != nil {
		return View{}, err
	}

	snap, err := c.deps.Gateway.Load(ctx, accountID)
	if err != nil {
		return View{}, err
	}
	if snap == nil {
		return View{}, ErrCandidateNotFound
	}
	return c.apply(userID, Event{Kind: EventSelectCandidate, Portfolio: snap.Portfolio, Subject: accountID})
}

func (c *Coordinator) apply(userID uuid.UUID, ev Event) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.machines[userID]
	if !ok {
		return View{}, ErrNoSession
	}
	if err := m.Apply(ev); err != nil {
		return m.View(), err
	}
	return m.View(), nil
}

// Upload runs extraction and analysis for one submission and moves the session to
// portfolio on success or back to upload on failure. Rejected formats never reach the
// model. The returned error is the failure shown to the user, ErrStaleResult when the
// session moved on meanwhile, or ErrUploadInProgress. A candidate result that goes
// stale while it is being saved stays saved and is shown at the account's next login.
func (c *Coordinator) Upload(ctx context.Context, user *types.User, in ingestion.Input) (View, error) {
	logger := logging.Ctx(ctx)
	role := string(user.Role)

	view, err := c.checkUploadable(user.ID)
	if err != nil {
		return view, err
	}

	prepared, err := ingestion.Prepare(in)
	if err != nil {
		c.deps.Metrics.Upload(role, metrics.OutcomeRejected)
		return c.reject(user.ID, err), err
	}

	key := lock.UploadKey(user.ID.String())
	token, ok, err := c.deps.Locker.Acquire(ctx, key, c.opts.LockTTL)
	if err != nil {
		return view, fmt.Errorf("failed to acquire upload lock: %w", err)
	}
	if !ok {
		c.deps.Metrics.Upload(role, metrics.OutcomeInProgress)
		return view, ErrUploadInProgress
	}
	defer func() {
		if err := c.deps.Locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to release upload lock")
		}
	}()

	tag := c.newTag()
	if view, err := c.apply(user.ID, Event{Kind: EventSubmit, Tag: tag}); err != nil {
		return view, err
	}
	logger.Info().Str("tag", tag).Object("upload", ingestion.NewMetadata(prepared)).Msg("upload started")

	p, a, runErr := c.run(ctx, prepared)
	if runErr == nil {
		runErr = parsing.CheckName(p)
	}
	if runErr == nil && c.opts.RequireEmailMatch && !user.IsEmployer() {
		runErr = parsing.CheckEmail(p, user.Email)
	}

	if runErr != nil {
		outcome := metrics.OutcomeFailed
		if parsing.IsTimeout(ctx, runErr) {
			outcome = metrics.OutcomeTimeout
		}
		view, err := c.apply(user.ID, Event{Kind: EventFailed, Tag: tag, Message: userMessage(runErr)})
		if errors.Is(err, ErrStaleResult) || errors.Is(err, ErrNoSession) {
			c.deps.Metrics.Upload(role, metrics.OutcomeStale)
			return view, ErrStaleResult
		}
		c.deps.Metrics.Upload(role, outcome)
		logger.Warn().Err(runErr).Str("tag", tag).Msg("upload failed")
		return view, runErr
	}

	if !c.current(user.ID, tag) {
		c.deps.Metrics.Upload(role, metrics.OutcomeStale)
		return c.viewOrEmpty(user.ID), ErrStaleResult
	}

	success := Event{Kind: EventSucceeded, Tag: tag, Portfolio: p, Analysis: a}
	if !user.IsEmployer() {
		success.Subject = user.ID.String()
		if err := c.persist(ctx, user, prepared, p, a); err != nil {
			logger.Error().Err(err).Str("tag", tag).Msg("failed to persist portfolio")
			success.Message = SaveFailedMessage
		}
	}

	view, err = c.apply(user.ID, success)
	if err != nil {
		if errors.Is(err, ErrStaleResult) || errors.Is(err, ErrNoSession) {
			c.deps.Metrics.Upload(role, metrics.OutcomeStale)
			if success.Subject != "" && success.Message == "" {
				logger.Info().Str("tag", tag).Msg("session moved on during save; portfolio kept for next login")
			}
			return view, ErrStaleResult
		}
		return view, err
	}

	outcome := metrics.OutcomeSuccess
	if a.IsDegraded() {
		outcome = metrics.OutcomeDegraded
	}
	c.deps.Metrics.Upload(role, outcome)
	logger.Info().Str("tag", tag).Int("score", a.Score).Int("skills", len(p.Skills)).Msg("upload completed")
	return view, nil
}

// run executes both adapters concurrently under the upload timeout. An extraction
// failure cancels the analysis.
func (c *Coordinator) run(ctx context.Context, in ingestion.Input) (*types.PortfolioData, *types.ResumeAnalysis, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.opts.UploadTimeout)
	defer cancel()

	var (
		p *types.PortfolioData
		a *types.ResumeAnalysis
	)
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		start := time.Now()
		var err error
		p, err = c.deps.Extractor.Extract(gctx, in)
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailed
		}
		c.deps.Metrics.Adapter("extract", c.opts.Provider, outcome, time.Since(start))
		return err
	})
	g.Go(func() error {
		start := time.Now()
		a = c.deps.Analyzer.Analyze(gctx, in)
		outcome := metrics.OutcomeSuccess
		if a.IsDegraded() {
			outcome = metrics.OutcomeDegraded
		}
		c.deps.Metrics.Adapter("analyze", c.opts.Provider, outcome, time.Since(start))
		return nil
	})

	if err := g.Wait(); err != nil {
		var extraction *parsing.ExtractionError
		if !errors.As(err, &extraction) && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, nil, &parsing.ExtractionError{Reason: parsing.ReasonTimeout, Message: "upload timed out", Cause: err}
		}
		return nil, nil, err
	}
	if a == nil {
		a = types.DegradedAnalysis(types.SummaryAnalysisFailed)
	}
	return p, a, nil
}

func (c *Coordinator) persist(ctx context.Context, user *types.User, in ingestion.Input, p *types.PortfolioData, a *types.ResumeAnalysis) error {
	var opts []portfolio.SaveOption
	if c.deps.Blobs != nil && !in.IsText() {
		key := blob.ResumeKey(user.ID.String(), in.MIMEType)
		if err := c.deps.Blobs.Put(ctx, key, bytes.NewReader(in.Data), int64(len(in.Data)), in.MIMEType); err != nil {
			return fmt.Errorf("failed to store resume file: %w", err)
		}
		opts = append(opts, portfolio.WithResumeFile(key))
	}
	return c.deps.Gateway.Save(ctx, user.ID.String(), user.Email, p, a, opts...)
}

func (c *Coordinator) checkUploadable(userID uuid.UUID) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.machines[userID]
	if !ok {
		return View{}, ErrNoSession
	}
	if m.State == StateAnalyzing {
		return m.View(), ErrUploadInProgress
	}
	if m.State != StateUpload {
		return m.View(), fmt.Errorf("%w: %s in state %q", ErrInvalidTransition, EventSubmit, m.State)
	}
	return m.View(), nil
}

// reject records a pre-flight rejection on the session without leaving upload.
func (c *Coordinator) reject(userID uuid.UUID, err error) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.machines[userID]
	if !ok {
		return View{}
	}
	m.Err = userMessage(err)
	return m.View()
}

func (c *Coordinator) current(userID uuid.UUID, tag string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.machines[userID]
	return ok && m.State == StateAnalyzing && m.Tag() == tag
}

func (c *Coordinator) viewOrEmpty(userID uuid.UUID) View {
	v, err := c.View(userID)
	if err != nil {
		return (&Machine{}).View()
	}
	return v
}

// userMessage converts any upload failure into the single message shown to the user.
func userMessage(err error) string {
	var unsupported *ingestion.UnsupportedFormatError
	if errors.As(err, &unsupported) {
		return unsupported.UserMessage()
	}
	var extraction *parsing.ExtractionError
	if errors.As(err, &extraction) {
		return extraction.UserMessage()
	}
	return parsing.GenericMessage
}
