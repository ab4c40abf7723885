package parsing

import "fmt"

// Reason categorizes an extraction failure
type Reason string

// Extraction failure reasons
const (
	ReasonModelCall        Reason = "model-call"
	ReasonMalformedJSON    Reason = "malformed-json"
	ReasonMissingName      Reason = "missing-name"
	ReasonAddressName      Reason = "address-name"
	ReasonEmailMismatch    Reason = "email-mismatch"
	ReasonTimeout          Reason = "timeout"
	ReasonSchema           Reason = "schema"
	ReasonUnsupportedInput Reason = "unsupported-input"
)

// User-facing messages
const (
	GenericMessage       = "Something went wrong while processing the resume. Please try again."
	MissingNameMessage   = "Failed to extract name from resume. Please ensure the resume contains a clear name and try again."
	AddressNameMessage   = "Resume parsing failed - address extracted instead of name. Please ensure the resume clearly shows your name at the top and try again."
	EmailMismatchMessage = "Account details and resume data doesn't match"
	ImageMessage         = "Image resumes can only be read by the cloud model. Please paste the resume text or upload a PDF."
)

// ExtractionError is returned when a resume cannot be turned into a valid portfolio.
type ExtractionError struct {
	Reason  Reason
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed (%s): %s: %v", e.Reason, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed (%s): %s", e.Reason, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the single message shown to the user for this failure.
func (e *ExtractionError) UserMessage() string {
	switch e.Reason {
	case ReasonMissingName:
		return MissingNameMessage
	case ReasonAddressName:
		return AddressNameMessage
	case ReasonEmailMismatch:
		return EmailMismatchMessage
	case ReasonUnsupportedInput:
		if e.Message != "" {
			return e.Message
		}
	}
	return GenericMessage
}
