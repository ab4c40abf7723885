package portfolio

import (
	"errors"
	"fmt"
)

// ErrIncomplete is returned when saving a record without a real extracted name.
var ErrIncomplete = errors.New("portfolio has no extracted name")

// GatewayError wraps a failure of the underlying store
type GatewayError struct {
	Op    string
	Cause error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("portfolio %s failed: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("portfolio %s failed", e.Op)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}
