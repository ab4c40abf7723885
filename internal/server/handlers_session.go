package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/portfolio-builder/internal/ingestion"
	"github.com/jonathan/portfolio-builder/internal/session"
	"github.com/jonathan/portfolio-builder/internal/types"
)

// uploadRequest is the JSON form of an upload. File content may be a data URL or bare
// base64.
type uploadRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=text file"`
	Content  string `json:"content" validate:"required"`
	MIMEType string `json:"mimeType"`
	Filename string `json:"filename"`
}

// viewResponse wraps a view with the error that produced it, if any.
type viewResponse struct {
	Error string       `json:"error,omitempty"`
	View  session.View `json:"view"`
}

var uploadValidator = validator.New()

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.deps.Sessions.View(user.ID)
	if errors.Is(err, session.ErrNoSession) {
		view, err = s.deps.Sessions.Login(r.Context(), user)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, view)
}

// handleUpload accepts a multipart form with a "file" or "text" field, or a JSON
// uploadRequest, and runs the upload flow synchronously.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ensureSession(r, user); err != nil {
		writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	in, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, r, err)
		return
	}

	view, err := s.deps.Sessions.Upload(r.Context(), user, in)
	if err != nil {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable && status != http.StatusGatewayTimeout {
			writeError(w, r, err)
			return
		}
		message := view.Error
		if message == "" {
			message = publicMessage(err)
		}
		jsonResponse(w, status, viewResponse{Error: message, View: view})
		return
	}
	jsonResponse(w, http.StatusOK, viewResponse{View: view})
}

// readUpload turns the request body into an ingestion input.
func readUpload(r *http.Request) (ingestion.Input, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			return ingestion.Input{}, fmt.Errorf("failed to parse upload form: %w", err)
		}
		if file, header, err := r.FormFile("file"); err == nil {
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				return ingestion.Input{}, fmt.Errorf("failed to read uploaded file: %w", err)
			}
			return ingestion.BinaryInput(data, header.Header.Get("Content-Type"), header.Filename), nil
		}
		if text := r.FormValue("text"); strings.TrimSpace(text) != "" {
			return ingestion.TextInput(text), nil
		}
		return ingestion.Input{}, &ErrValidation{Field: "file", Message: "a file or text is required"}

	case "application/json", "":
		var req uploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return ingestion.Input{}, err
			}
			return ingestion.Input{}, &ErrValidation{Field: "body", Message: "invalid JSON"}
		}
		if err := uploadValidator.Struct(req); err != nil {
			return ingestion.Input{}, &ErrValidation{Field: "kind", Message: "kind must be text or file and content is required"}
		}
		if req.Kind == "text" {
			in := ingestion.TextInput(req.Content)
			if req.MIMEType != "" {
				in.MIMEType = req.MIMEType
			}
			return in, nil
		}
		data, declared, err := ingestion.DecodeDataURL(req.Content)
		if err != nil {
			return ingestion.Input{}, err
		}
		mimeType := req.MIMEType
		if mimeType == "" {
			mimeType = declared
		}
		return ingestion.BinaryInput(data, mimeType, req.Filename), nil

	default:
		return ingestion.Input{}, &ErrValidation{Field: "Content-Type", Message: "use multipart/form-data or application/json"}
	}
}

// ensureSession starts a session for a token whose session this process does not hold.
func (s *Server) ensureSession(r *http.Request, user *types.User) error {
	if _, err := s.deps.Sessions.View(user.ID); errors.Is(err, session.ErrNoSession) {
		_, err = s.deps.Sessions.Login(r.Context(), user)
		return err
	}
	return nil
}

// navigate applies a navigation transition for the authenticated account.
func (s *Server) navigate(w http.ResponseWriter, r *http.Request, move func(*types.User) (session.View, error)) {
	user, err := s.auth.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ensureSession(r, user); err != nil {
		writeError(w, r, err)
		return
	}

	view, err := move(user)
	if err != nil {
		if errors.Is(err, session.ErrInvalidTransition) {
			jsonResponse(w, http.StatusConflict, viewResponse{Error: "That action is not available right now", View: view})
			return
		}
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleTogglePreview(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(u *types.User) (session.View, error) { return s.deps.Sessions.TogglePreview(u.ID) })
}

func (s *Server) handleNewUpload(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(u *types.User) (session.View, error) { return s.deps.Sessions.NewUpload(u.ID) })
}

func (s *Server) handleViewPortfolio(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(u *types.User) (session.View, error) { return s.deps.Sessions.ViewPortfolio(u.ID) })
}

func (s *Server) handleBackToDashboard(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(u *types.User) (session.View, error) { return s.deps.Sessions.BackToDashboard(u.ID) })
}

func (s *Server) handleScreenNew(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(u *types.User) (session.View, error) { return s.deps.Sessions.ScreenNew(u.ID) })
}

func (s *Server) handleSelectCandidate(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountId")
	s.navigate(w, r, func(u *types.User) (session.View, error) {
		return s.deps.Sessions.SelectCandidate(r.Context(), u.ID, accountID)
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, s.deps.Sessions.Logout(user.ID))
}
