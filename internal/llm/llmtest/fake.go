// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/portfolio-builder/internal/llm"
)

// ProviderFake identifies the scripted client
const ProviderFake llm.Provider = "fake"

// Fake returns canned responses keyed by request schema name ("portfolio", "analysis").
type Fake struct {
	Responses map[string]string
	Errors    map[string]error
	// Binary makes the fake accept PDF and image parts like the cloud backend.
	Binary bool
	// Delay holds every call until it passes or the context ends.
	Delay time.Duration
	// Handler, when set, replaces the canned behaviour.
	Handler func(ctx context.Context, req *llm.Request) (string, error)

	mu       sync.Mutex
	requests []*llm.Request
}

// Generate records req and returns the scripted response
func (f *Fake) Generate(ctx context.Context, req *llm.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.Handler != nil {
		return f.Handler(ctx, req)
	}

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	key := ""
	if req.Schema != nil {
		key = req.Schema.Name
	}
	if err := f.Errors[key]; err != nil {
		return "", err
	}
	return f.Responses[key], nil
}

// SupportsBinary reports whether the fake accepts mimeType inline
func (f *Fake) SupportsBinary(mimeType string) bool {
	return f.Binary && (mimeType == "application/pdf" || strings.HasPrefix(mimeType, "image/"))
}

// Provider returns ProviderFake
func (f *Fake) Provider() llm.Provider {
	return ProviderFake
}

// Close is a no-op
func (f *Fake) Close() error {
	return nil
}

// Requests returns the requests received so far
func (f *Fake) Requests() []*llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*llm.Request(nil), f.requests...)
}

// Calls returns the number of Generate calls
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
