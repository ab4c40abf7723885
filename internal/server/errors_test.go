package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio-builder/internal/ingestion"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/parsing"
	"github.com/jonathan/portfolio-builder/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate email", &ErrEmailAlreadyExists{Email: "a@b.c"}, http.StatusConflict},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"role mismatch", &ErrRoleMismatch{Want: "employer"}, http.StatusUnauthorized},
		{"user not found", &ErrUserNotFound{UserID: uuid.New()}, http.StatusNotFound},
		{"validation", &ErrValidation{Field: "email"}, http.StatusBadRequest},
		{"empty input", ingestion.ErrEmptyInput, http.StatusBadRequest},
		{"unsupported", &ingestion.UnsupportedFormatError{MIMEType: ingestion.MIMEDOCX, Message: ingestion.DOCXMessage}, http.StatusUnsupportedMediaType},
		{"upload in progress", session.ErrUploadInProgress, http.StatusConflict},
		{"invalid transition", fmt.Errorf("wrapped: %w", session.ErrInvalidTransition), http.StatusConflict},
		{"stale", session.ErrStaleResult, http.StatusConflict},
		{"no session", session.ErrNoSession, http.StatusUnauthorized},
		{"candidate not found", session.ErrCandidateNotFound, http.StatusNotFound},
		{"missing name", &parsing.ExtractionError{Reason: parsing.ReasonMissingName}, http.StatusUnprocessableEntity},
		{"timeout", &parsing.ExtractionError{Reason: parsing.ReasonTimeout}, http.StatusGatewayTimeout},
		{"model unavailable", &parsing.ExtractionError{
			Reason: parsing.ReasonModelCall,
			Cause:  &llm.APICallError{Provider: "gemini", Message: "quota"},
		}, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Email already registered", publicMessage(&ErrEmailAlreadyExists{Email: "a@b.c"}))
	assert.Equal(t, "invalid email or password", publicMessage(&ErrRoleMismatch{Want: "employer"}))
	assert.Equal(t, ingestion.DOCXMessage, publicMessage(&ingestion.UnsupportedFormatError{Message: ingestion.DOCXMessage}))
	assert.Equal(t, parsing.AddressNameMessage, publicMessage(&parsing.ExtractionError{Reason: parsing.ReasonAddressName}))
	assert.Equal(t, "Internal server error", publicMessage(errors.New("pq: connection refused")))
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		name, ext, want string
	}{
		{"Jane Smith", ".pdf", "Jane_Smith_Resume.pdf"},
		{"  Jean-Luc   Picard ", ".png", "Jean-Luc_Picard_Resume.png"},
		{`Evil "Name"/../x`, ".pdf", "Evil_Name..x_Resume.pdf"},
		{"", ".pdf", "Candidate_Resume.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DownloadName(tt.name, tt.ext))
		})
	}
}
