package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/portfolio-builder/internal/blob"
	"github.com/jonathan/portfolio-builder/internal/logging"
	"github.com/jonathan/portfolio-builder/internal/metrics"
	"github.com/jonathan/portfolio-builder/internal/portfolio"
	"github.com/jonathan/portfolio-builder/internal/server/middleware"
	"github.com/jonathan/portfolio-builder/internal/server/ratelimit"
	"github.com/jonathan/portfolio-builder/internal/session"
	"github.com/jonathan/portfolio-builder/internal/types"
)

// Portfolios is the read side of the portfolio store used by the API.
type Portfolios interface {
	Load(ctx context.Context, accountID string) (*portfolio.Snapshot, error)
	Search(ctx context.Context, query string) ([]types.CandidateProfile, error)
}

// Deps are the collaborators of the API server. Blobs, Metrics and Limiter are optional.
type Deps struct {
	Users      *UserService
	JWT        *JWTService
	Sessions   *session.Coordinator
	Portfolios Portfolios
	Blobs      blob.Storage
	Metrics    *metrics.Collectors
	Limiter    *ratelimit.Limiter
	// Ready reports whether backing stores are reachable; nil means always ready.
	Ready func(ctx context.Context) error
}

// Options configures the listener
type Options struct {
	Port           int
	AllowedOrigins []string
	MaxUploadBytes int64
}

// Server represents the HTTP server
type Server struct {
	deps       Deps
	opts       Options
	auth       *AuthHandler
	mux        *http.ServeMux
	handler    http.Handler
	httpServer *http.Server
}

// New creates a new server instance
func New(deps Deps, opts Options) *Server {
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		deps: deps,
		opts: opts,
		auth: NewAuthHandler(deps.Users, deps.JWT, deps.Sessions),
	}

	authed := middleware.AuthMiddleware(deps.JWT.AsTokenValidator())
	employerOnly := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireRole(string(types.RoleEmployer))(h))
	}

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/register", s.auth.RegisterCandidate)
	mux.HandleFunc("POST /api/auth/login", s.auth.LoginCandidate)
	mux.HandleFunc("POST /api/employer/auth/register", s.auth.RegisterEmployer)
	mux.HandleFunc("POST /api/employer/auth/login", s.auth.LoginEmployer)
	mux.Handle("GET /api/auth/me", authed(http.HandlerFunc(s.auth.Me)))

	// Session
	mux.Handle("GET /api/session", authed(http.HandlerFunc(s.handleGetSession)))
	mux.Handle("POST /api/session/upload", authed(http.HandlerFunc(s.handleUpload)))
	mux.Handle("POST /api/session/preview", authed(http.HandlerFunc(s.handleTogglePreview)))
	mux.Handle("POST /api/session/new-upload", authed(http.HandlerFunc(s.handleNewUpload)))
	mux.Handle("POST /api/session/portfolio", authed(http.HandlerFunc(s.handleViewPortfolio)))
	mux.Handle("POST /api/session/dashboard", employerOnly(s.handleBackToDashboard))
	mux.Handle("POST /api/session/screen", employerOnly(s.handleScreenNew))
	mux.Handle("POST /api/session/select/{accountId}", employerOnly(s.handleSelectCandidate))
	mux.Handle("POST /api/session/logout", authed(http.HandlerFunc(s.handleLogout)))

	// Portfolios
	mux.Handle("GET /api/portfolios", employerOnly(s.handleListPortfolios))
	mux.Handle("GET /api/portfolios/{accountId}/resume", authed(http.HandlerFunc(s.handleDownloadResume)))

	// Probes
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/resume/health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	s.mux = mux
	s.handler = s.withRateLimit(s.withMetrics(s.withLogging(s.withCORS(mux))))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      5 * time.Minute, // uploads wait for both model calls
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.deps.Limiter.Stop()
	log.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers for allowed origins
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowAll := slices.Contains(s.opts.AllowedOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.opts.AllowedOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.deps.Limiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// withMetrics records request duration by route pattern.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	if s.deps.Metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		// Label by route pattern, not raw path.
		_, pattern := s.mux.Handler(r)
		if pattern == "" {
			pattern = "unmatched"
		}
		s.deps.Metrics.ObserveRequest(r.Method, pattern, rec.code(), time.Since(start))
	})
}

// withLogging attaches a request-scoped logger and logs completion.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger := log.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(logging.WithContext(r.Context(), logger)))

		logger.Info().
			Int("status", rec.code()).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("request completed")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady checks the backing stores.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		if err := s.deps.Ready(r.Context()); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("readiness check failed")
			jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ready"})
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status and client-safe message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	errorResponse(w, status, publicMessage(err))
}

// clientID returns the client IP from RemoteAddr.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}
	jsonResponse(w, http.StatusTooManyRequests, response)
}
