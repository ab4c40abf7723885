package ingestion

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when an upload carries no content
var ErrEmptyInput = errors.New("resume input is empty")

// User-facing rejection messages
const (
	DOCXMessage        = "We currently process DOCX via copy-paste. Please use the 'Paste Text' tab for DOCX content, or upload a PDF."
	UnsupportedMessage = "This file type is not supported. Please upload a PDF or an image, or paste the resume text."
)

// UnsupportedFormatError is returned for binary uploads that are rejected before any model call
type UnsupportedFormatError struct {
	MIMEType string
	Message  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %s", e.MIMEType)
}

// UserMessage returns the instruction shown to the user
func (e *UnsupportedFormatError) UserMessage() string {
	return e.Message
}

// ErrDataURL is returned when a data URL cannot be decoded
var ErrDataURL = errors.New("invalid data URL")
