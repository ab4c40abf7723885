package llm

import (
	"errors"
	"fmt"
)

// ErrBinaryUnsupported is returned by backends that only accept text parts.
var ErrBinaryUnsupported = errors.New("backend does not accept binary input")

// ErrNoJSONObject is returned by RepairJSON when a response holds no JSON object.
var ErrNoJSONObject = errors.New("no JSON object found in response")

// APICallError represents a failed call to a model backend
type APICallError struct {
	Provider Provider
	Message  string
	Cause    error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s API call failed: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s API call failed: %s", e.Provider, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
