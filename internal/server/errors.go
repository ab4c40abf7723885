// Package server provides the HTTP REST API for the portfolio builder.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio-builder/internal/ingestion"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/parsing"
	"github.com/jonathan/portfolio-builder/internal/session"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return "Email already registered"
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrRoleMismatch indicates valid credentials used on the other role's login route.
// It is reported to the client like invalid credentials.
type ErrRoleMismatch struct {
	Want string
}

func (e *ErrRoleMismatch) Error() string {
	return fmt.Sprintf("account is not a %s account", e.Want)
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		exists      *ErrEmailAlreadyExists
		creds       *ErrInvalidCredentials
		mismatch    *ErrRoleMismatch
		notFound    *ErrUserNotFound
		validation  *ErrValidation
		unsupported *ingestion.UnsupportedFormatError
		extraction  *parsing.ExtractionError
		apiErr      *llm.APICallError
	)
	switch {
	case errors.As(err, &exists), errors.Is(err, session.ErrUploadInProgress):
		return http.StatusConflict
	case errors.As(err, &creds), errors.As(err, &mismatch), errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized
	case errors.As(err, &notFound), errors.Is(err, session.ErrCandidateNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.Is(err, ingestion.ErrEmptyInput), errors.Is(err, ingestion.ErrDataURL):
		return http.StatusBadRequest
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, session.ErrInvalidTransition), errors.Is(err, session.ErrStaleResult):
		return http.StatusConflict
	case errors.As(err, &extraction):
		if extraction.Reason == parsing.ReasonModelCall && errors.As(err, &apiErr) {
			return http.StatusServiceUnavailable
		}
		if extraction.Reason == parsing.ReasonTimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text safe to show a client for err.
func publicMessage(err error) string {
	var (
		unsupported *ingestion.UnsupportedFormatError
		extraction  *parsing.ExtractionError
		mismatch    *ErrRoleMismatch
	)
	switch {
	case errors.As(err, &unsupported):
		return unsupported.UserMessage()
	case errors.As(err, &extraction):
		return extraction.UserMessage()
	case errors.As(err, &mismatch):
		return (&ErrInvalidCredentials{}).Error()
	case HTTPStatus(err) == http.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}
