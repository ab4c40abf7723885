package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/portfolio-builder/internal/logging"
	"github.com/jonathan/portfolio-builder/internal/server/middleware"
	"github.com/jonathan/portfolio-builder/internal/session"
	"github.com/jonathan/portfolio-builder/internal/types"
)

// authResponse is returned by register, login and me.
type authResponse struct {
	User  *types.User  `json:"user"`
	Token string       `json:"token,omitempty"`
	View  session.View `json:"view"`
}

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	sessions    *session.Coordinator
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, sessions *session.Coordinator) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		sessions:    sessions,
		validator:   validator.New(),
	}
}

// RegisterCandidate handles candidate sign-up.
func (h *AuthHandler) RegisterCandidate(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.register(w, r, Registration{Name: req.Name, Email: req.Email, Password: req.Password, Role: types.RoleCandidate})
}

// RegisterEmployer handles employer sign-up. A company name is required.
func (h *AuthHandler) RegisterEmployer(w http.ResponseWriter, r *http.Request) {
	var req types.CreateEmployerRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.register(w, r, Registration{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        types.RoleEmployer,
		CompanyName: req.CompanyName,
	})
}

// LoginCandidate handles candidate login. Employer credentials are rejected.
func (h *AuthHandler) LoginCandidate(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, types.RoleCandidate)
}

// LoginEmployer handles employer login. Candidate credentials are rejected.
func (h *AuthHandler) LoginEmployer(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, types.RoleEmployer)
}

// Me returns the authenticated account and its current view, resuming a session when
// the process holds none.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.sessions.View(user.ID)
	if errors.Is(err, session.ErrNoSession) {
		view, err = h.sessions.Login(r.Context(), user)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, authResponse{User: user, View: view})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, reg Registration) {
	user, err := h.userService.Register(r.Context(), reg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("account registered")
	h.startSession(w, r, user, http.StatusCreated)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, role types.Role) {
	var req types.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.userService.Login(r.Context(), &req, role)
	if err != nil {
		var mismatch *ErrRoleMismatch
		if errors.As(err, &mismatch) {
			logging.Ctx(r.Context()).Info().Str("want_role", string(role)).Msg("login on wrong role route")
		}
		writeError(w, r, err)
		return
	}
	h.startSession(w, r, user, http.StatusOK)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *types.User, status int) {
	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to generate token: %w", err))
		return
	}

	view, err := h.sessions.Login(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, status, authResponse{User: user, Token: token, View: view})
}

// currentUser loads the account behind the request's token.
func (h *AuthHandler) currentUser(r *http.Request) (*types.User, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return nil, &ErrInvalidCredentials{}
	}
	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		var notFound *ErrUserNotFound
		if errors.As(err, &notFound) {
			return nil, &ErrInvalidCredentials{}
		}
		return nil, err
	}
	return user, nil
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return false
	}
	return true
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		// First failure only
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
