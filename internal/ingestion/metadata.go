package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog"
)

// Metadata describes an accepted upload without carrying its content. It is safe to log.
type Metadata struct {
	Kind      Kind   `json:"kind"`
	Filename  string `json:"filename,omitempty"`
	MIMEType  string `json:"mimeType"`
	Size      int    `json:"size"`
	Hash      string `json:"hash"`      // SHA256 hex digest
	Timestamp string `json:"timestamp"` // RFC3339 format
}

// NewMetadata describes in with the current timestamp
func NewMetadata(in Input) *Metadata {
	content := in.Data
	if in.Kind == KindText {
		content = []byte(in.Text)
	}
	hash := sha256.Sum256(content)
	return &Metadata{
		Kind:      in.Kind,
		Filename:  in.Filename,
		MIMEType:  in.MIMEType,
		Size:      len(content),
		Hash:      hex.EncodeToString(hash[:]),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// MarshalZerologObject lets the metadata be logged with Event.Object.
func (m *Metadata) MarshalZerologObject(e *zerolog.Event) {
	e.Str("kind", string(m.Kind)).
		Str("mime_type", m.MIMEType).
		Int("bytes", m.Size).
		Str("sha256", m.Hash)
	if m.Filename != "" {
		e.Str("filename", m.Filename)
	}
}
