package llm

import (
	"context"
	"fmt"
	"strings"
)

// Client is an abstraction over model backends
type Client interface {
	// Generate sends one multi-part request and returns the raw response text
	Generate(ctx context.Context, req *Request) (string, error)
	// SupportsBinary reports whether a part with this mime type can be sent as-is
	SupportsBinary(mimeType string) bool
	// Provider identifies the backend
	Provider() Provider
	// Close releases any resources held by the client
	Close() error
}

// Part is one piece of a request: inline text or a binary payload tagged with its mime type.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextPart returns an inline text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// BlobPart returns a binary part.
func BlobPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// IsBinary reports whether the part carries binary data.
func (p Part) IsBinary() bool {
	return p.Data != nil
}

// Request is a single model call
type Request struct {
	Tier   ModelTier
	System string
	Parts  []Part
	// JSON asks the backend for a JSON response; Schema, when set, describes its shape.
	JSON   bool
	Schema *ExtractionSchema
}

// NewClient creates a new client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, config.APIKey)
	case ProviderLocal:
		return NewLocalClient(config), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}

// supportsInlineBinary is the set of binary inputs the cloud backend reads natively.
func supportsInlineBinary(mimeType string) bool {
	mimeType = strings.ToLower(mimeType)
	return mimeType == "application/pdf" || strings.HasPrefix(mimeType, "image/")
}
